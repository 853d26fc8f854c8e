package models

import "time"

// AvailabilityVersion is the encoding version written into every stored
// ParticipantAvailability blob.
const AvailabilityVersion = 1

// BusyInterval is a time-of-day range on a single date during which a
// participant is occupied. AllDay marks the whole date as unavailable
// regardless of Start/End.
type BusyInterval struct {
	Start  TimeOfDay
	End    TimeOfDay
	AllDay bool
}

// FreeInterval is a gap within work hours during which a participant has no
// busy interval. Times are "HH:MM" strings, the storage format.
type FreeInterval struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DaySlots groups a participant's free intervals for one candidate date.
// For a fixed date the intervals are non-overlapping and sorted by start.
type DaySlots struct {
	Date          string         `json:"date"`
	FreeIntervals []FreeInterval `json:"free_intervals"`
}

// ParticipantAvailability is one participant's derived free time across all
// candidate dates of an appointment. It is recomputed on demand and
// overwritten wholesale; no history is kept. An empty Slots list means the
// participant has no free time, which is distinct from having no
// availability record at all.
type ParticipantAvailability struct {
	Version    int        `bson:"version" json:"version"`
	Timezone   string     `bson:"timezone" json:"timezone"`
	Slots      []DaySlots `bson:"slots" json:"slots"`
	ComputedAt time.Time  `bson:"computedAt" json:"computed_at"`
}

// ParticipantSlots pairs a participant with their per-date free intervals,
// the input shape of the intersection engine.
type ParticipantSlots struct {
	ParticipantID string
	Slots         []DaySlots
}

// CommonSlot is a contiguous, grid-aligned block of time on one date during
// which an identical set of participants is simultaneously free. Computed
// fresh per request, never persisted.
type CommonSlot struct {
	Date                   string   `json:"date"`
	Start                  string   `json:"start_time"`
	End                    string   `json:"end_time"`
	DurationMinutes        int      `json:"duration_minutes"`
	ParticipantIDs         []string `json:"participant_ids"`
	ParticipantCount       int      `json:"participant_count"`
	TotalParticipants      int      `json:"total_participants"`
	AvailabilityPercentage float64  `json:"availability_percentage"`
}
