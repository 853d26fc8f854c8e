package schedule

import (
	"context"
	"sort"
	"time"

	"moim/models"
	"moim/utils"

	"go.uber.org/zap"
)

// Scheduling defaults. Work hours span the whole day unless the caller
// narrows them; gaps shorter than the minimum slot are not worth proposing.
const (
	DefaultWorkStart      = "00:00"
	DefaultWorkEnd        = "23:59"
	DefaultMinSlotMinutes = 30
	GridStepMinutes       = 15
)

// CalendarSource lists a participant's raw busy events in a time range.
// Implemented by the Google Calendar service; injected so the analyzer owns
// no client state and tests can substitute a fake.
type CalendarSource interface {
	ListBusyEvents(ctx context.Context, user models.User, timeMin, timeMax time.Time) ([]models.CalendarEvent, error)
}

// DeriveOptions overrides the analyzer defaults for a single derivation.
// Zero values mean "use the default".
type DeriveOptions struct {
	WorkStart      string // "HH:MM"
	WorkEnd        string // "HH:MM"
	MinSlotMinutes int
}

// Analyzer derives per-participant free time from external calendar data.
type Analyzer struct {
	Source   CalendarSource
	Timezone string // IANA zone name used for the fetch window and time-of-day math
}

// NewAnalyzer returns an Analyzer bound to the given calendar source and zone.
func NewAnalyzer(source CalendarSource, timezone string) *Analyzer {
	return &Analyzer{Source: source, Timezone: timezone}
}

// DeriveAvailability computes a participant's free intervals for each
// candidate date. It returns an *UnavailableError when the participant has
// no linked calendar, the candidate date list is empty, or the upstream
// fetch fails; callers must treat that as "no data", not as "no free time".
// A successful result with an empty Slots list means the participant has no
// usable free time on any candidate date.
func (a *Analyzer) DeriveAvailability(ctx context.Context, user models.User, candidateDates []string, opts DeriveOptions) (*models.ParticipantAvailability, error) {
	logger := utils.GetLogger()

	if len(candidateDates) == 0 {
		return nil, &UnavailableError{Reason: "no candidate dates"}
	}
	if !user.CalendarLinked || user.SealedRefreshToken == "" {
		return nil, &UnavailableError{Reason: "no linked calendar credential"}
	}

	workStart := models.ParseClock(DefaultWorkStart)
	workEnd := models.ParseClock(DefaultWorkEnd)
	minSlot := DefaultMinSlotMinutes
	if opts.WorkStart != "" {
		workStart = models.ParseClock(opts.WorkStart)
	}
	if opts.WorkEnd != "" {
		workEnd = models.ParseClock(opts.WorkEnd)
	}
	if opts.MinSlotMinutes > 0 {
		minSlot = opts.MinSlotMinutes
	}

	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		loc = time.UTC
	}

	dates := append([]string(nil), candidateDates...)
	sort.Strings(dates)

	timeMin, err := time.ParseInLocation("2006-01-02", dates[0], loc)
	if err != nil {
		return nil, &UnavailableError{Reason: "invalid candidate date", Err: err}
	}
	timeMax, err := time.ParseInLocation("2006-01-02", dates[len(dates)-1], loc)
	if err != nil {
		return nil, &UnavailableError{Reason: "invalid candidate date", Err: err}
	}
	timeMax = timeMax.AddDate(0, 0, 1)

	events, err := a.Source.ListBusyEvents(ctx, user, timeMin, timeMax)
	if err != nil {
		logger.Warn("DeriveAvailability: calendar fetch failed",
			zap.String("userID", user.ID), zap.Error(err))
		return nil, &UnavailableError{Reason: "calendar fetch failed", Err: err}
	}

	busyByDate := groupEventsByDate(events, dates, loc)

	var slots []models.DaySlots
	for _, date := range dates {
		free := freeIntervalsForDate(busyByDate[date], workStart, workEnd, minSlot)
		if len(free) > 0 {
			slots = append(slots, models.DaySlots{Date: date, FreeIntervals: free})
		}
	}

	return &models.ParticipantAvailability{
		Version:    models.AvailabilityVersion,
		Timezone:   a.Timezone,
		Slots:      slots,
		ComputedAt: time.Now(),
	}, nil
}

// groupEventsByDate partitions raw events onto the candidate dates they
// touch. A multi-day all-day event contributes an all-day marker to every
// candidate date in [startDate, endDate); a timed event contributes a busy
// pair to its start date only, clamped to end of day when it crosses
// midnight.
func groupEventsByDate(events []models.CalendarEvent, candidateDates []string, loc *time.Location) map[string][]models.BusyInterval {
	candidates := make(map[string]bool, len(candidateDates))
	for _, d := range candidateDates {
		candidates[d] = true
	}

	busyByDate := make(map[string][]models.BusyInterval)
	for _, ev := range events {
		if ev.AllDay {
			start, err := time.ParseInLocation("2006-01-02", ev.StartDate, loc)
			if err != nil {
				continue
			}
			end, err := time.ParseInLocation("2006-01-02", ev.EndDate, loc)
			if err != nil {
				end = start.AddDate(0, 0, 1)
			}
			for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
				key := d.Format("2006-01-02")
				if candidates[key] {
					busyByDate[key] = append(busyByDate[key], models.BusyInterval{
						Start:  0,
						End:    models.EndOfDay,
						AllDay: true,
					})
				}
			}
			continue
		}

		start := ev.StartTime.In(loc)
		end := ev.EndTime.In(loc)
		key := start.Format("2006-01-02")
		if !candidates[key] {
			continue
		}
		endOfDay := end.Format("2006-01-02") != key
		busy := models.BusyInterval{
			Start: models.TimeOfDay(start.Hour()*60 + start.Minute()),
			End:   models.TimeOfDay(end.Hour()*60 + end.Minute()),
		}
		// An event running past midnight stays busy until end of its start
		// date; otherwise the wrapped end time would order before the start.
		if endOfDay {
			busy.End = models.EndOfDay
		}
		busyByDate[key] = append(busyByDate[key], busy)
	}
	return busyByDate
}

// freeIntervalsForDate turns one date's busy intervals into free intervals
// within the work-hours window. Any all-day marker makes the whole date
// unavailable.
func freeIntervalsForDate(busy []models.BusyInterval, workStart, workEnd models.TimeOfDay, minSlotMinutes int) []models.FreeInterval {
	for _, b := range busy {
		if b.AllDay {
			return nil
		}
	}

	merged := MergeBusyIntervals(busy)

	type gap struct{ start, end models.TimeOfDay }
	var gaps []gap
	current := workStart
	for _, b := range merged {
		if current < b.Start {
			gaps = append(gaps, gap{current, b.Start})
		}
		if b.End > current {
			current = b.End
		}
	}
	if current < workEnd {
		gaps = append(gaps, gap{current, workEnd})
	}

	var free []models.FreeInterval
	for _, g := range gaps {
		end := g.end
		if end > workEnd {
			end = workEnd
		}
		if end.Sub(g.start) >= minSlotMinutes {
			free = append(free, models.FreeInterval{
				Start: g.start.Clock(),
				End:   end.Clock(),
			})
		}
	}
	return free
}

// MergeBusyIntervals sorts busy pairs by start and coalesces overlapping or
// touching pairs into maximal intervals. Merging an already-merged list is a
// no-op.
func MergeBusyIntervals(busy []models.BusyInterval) []models.BusyInterval {
	if len(busy) == 0 {
		return nil
	}

	sorted := append([]models.BusyInterval(nil), busy...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	merged := []models.BusyInterval{sorted[0]}
	for _, cur := range sorted[1:] {
		last := &merged[len(merged)-1]
		if cur.Start <= last.End {
			if cur.End > last.End {
				last.End = cur.End
			}
		} else {
			merged = append(merged, cur)
		}
	}
	return merged
}
