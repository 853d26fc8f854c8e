package schedule

import (
	"math"
	"sort"

	"moim/models"
)

// participantSet is the set of participants free in one grid cell.
type participantSet map[string]struct{}

func (s participantSet) equal(other participantSet) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if _, ok := other[id]; !ok {
			return false
		}
	}
	return true
}

func (s participantSet) sortedIDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// FindCommonSlots intersects many participants' free intervals and returns
// the contiguous blocks where identical participant sets are free, most
// attended first, ties broken by longest duration, then by (date, start) so
// the order is reproducible.
//
// The intersection runs on a 15-minute grid: each free interval marks every
// grid cell it touches, so an interval ending mid-cell still counts as free
// for its trailing cell. Availability is therefore approximate below
// 15-minute granularity; this coarseness is intentional.
func FindCommonSlots(participants []models.ParticipantSlots, minDurationMinutes int) []models.CommonSlot {
	if len(participants) == 0 {
		return []models.CommonSlot{}
	}

	totalParticipants := len(participants)

	// date -> grid cell (minutes from midnight, 15-min aligned) -> who is free.
	grid := make(map[string]map[models.TimeOfDay]participantSet)
	for _, p := range participants {
		for _, day := range p.Slots {
			cells := grid[day.Date]
			if cells == nil {
				cells = make(map[models.TimeOfDay]participantSet)
				grid[day.Date] = cells
			}
			for _, iv := range day.FreeIntervals {
				start := models.ParseClock(iv.Start)
				end := models.ParseClock(iv.End)
				for t := start; t < end; t = t.Add(GridStepMinutes) {
					set := cells[t]
					if set == nil {
						set = make(participantSet)
						cells[t] = set
					}
					set[p.ParticipantID] = struct{}{}
				}
			}
		}
	}

	var slots []models.CommonSlot
	for date, cells := range grid {
		slots = append(slots, coalesceBlocks(date, cells, minDurationMinutes, totalParticipants)...)
	}

	sort.Slice(slots, func(i, j int) bool {
		a, b := slots[i], slots[j]
		if a.ParticipantCount != b.ParticipantCount {
			return a.ParticipantCount > b.ParticipantCount
		}
		if a.DurationMinutes != b.DurationMinutes {
			return a.DurationMinutes > b.DurationMinutes
		}
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.Start < b.Start
	})

	return slots
}

// coalesceBlocks walks one date's grid cells in time order and merges runs
// of consecutive cells (exactly one grid step apart) holding identical
// participant sets into maximal blocks. A block's end is the start of its
// last cell plus one grid step.
func coalesceBlocks(date string, cells map[models.TimeOfDay]participantSet, minDurationMinutes, totalParticipants int) []models.CommonSlot {
	if len(cells) == 0 {
		return nil
	}

	times := make([]models.TimeOfDay, 0, len(cells))
	for t := range cells {
		times = append(times, t)
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	var blocks []models.CommonSlot
	blockStart := times[0]
	blockSet := cells[times[0]]
	prev := times[0]

	flush := func() {
		end := prev.Add(GridStepMinutes)
		if slot, ok := buildSlot(date, blockStart, end, blockSet, minDurationMinutes, totalParticipants); ok {
			blocks = append(blocks, slot)
		}
	}

	for _, t := range times[1:] {
		set := cells[t]
		if t.Sub(prev) == GridStepMinutes && set.equal(blockSet) {
			prev = t
			continue
		}
		flush()
		blockStart = t
		blockSet = set
		prev = t
	}
	flush()

	return blocks
}

// buildSlot materializes a candidate block, dropping it when it is shorter
// than the minimum duration or (degenerately) has no participants.
func buildSlot(date string, start, end models.TimeOfDay, set participantSet, minDurationMinutes, totalParticipants int) (models.CommonSlot, bool) {
	duration := end.Sub(start)
	if duration < minDurationMinutes || len(set) == 0 {
		return models.CommonSlot{}, false
	}

	count := len(set)
	pct := math.Round(float64(count)/float64(totalParticipants)*100*100) / 100

	return models.CommonSlot{
		Date:                   date,
		Start:                  start.Clock(),
		End:                    end.Clock(),
		DurationMinutes:        duration,
		ParticipantIDs:         set.sortedIDs(),
		ParticipantCount:       count,
		TotalParticipants:      totalParticipants,
		AvailabilityPercentage: pct,
	}, true
}
