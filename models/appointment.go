package models

import "time"

// Appointment statuses.
const (
	AppointmentStatusVoting    = "VOTING"
	AppointmentStatusConfirmed = "CONFIRMED"
)

// Participation statuses.
const (
	ParticipationStatusAttending    = "ATTENDING"
	ParticipationStatusNotAttending = "NOT_ATTENDING"
	ParticipationStatusMaybe        = "MAYBE"
)

// Appointment is a gathering being scheduled: a set of candidate dates that
// participants vote on with their calendar availability until the creator
// confirms one.
type Appointment struct {
	ID                 string          `bson:"id" json:"id"`
	Name               string          `bson:"name" json:"name"`
	CreatorID          string          `bson:"creatorId" json:"creator_id"`
	MaxParticipants    int             `bson:"maxParticipants" json:"max_participants"`
	Status             string          `bson:"status" json:"status"`
	InviteCode         string          `bson:"inviteCode" json:"invite_code"`
	CandidateDates     []string        `bson:"candidateDates" json:"candidate_dates"` // "2006-01-02", sorted
	Participations     []Participation `bson:"participations" json:"-"`
	ConfirmedDate      string          `bson:"confirmedDate,omitempty" json:"confirmed_date,omitempty"`
	ConfirmedStartTime string          `bson:"confirmedStartTime,omitempty" json:"confirmed_start_time,omitempty"`
	ConfirmedEndTime   string          `bson:"confirmedEndTime,omitempty" json:"confirmed_end_time,omitempty"`
	ConfirmedAt        *time.Time      `bson:"confirmedAt,omitempty" json:"confirmed_at,omitempty"`
	CreatedAt          time.Time       `bson:"createdAt" json:"created_at"`
}

// Participation is one user's enrollment in an appointment. Availability is
// the latest derived ParticipantAvailability, overwritten on every
// recomputation; nil means no data has ever been computed (or the last
// attempt was unavailable), which callers must treat differently from an
// availability with zero slots.
type Participation struct {
	ID            string                   `bson:"id" json:"id"`
	UserID        string                   `bson:"userId" json:"user_id"`
	AppointmentID string                   `bson:"appointmentId" json:"appointment_id"`
	Status        string                   `bson:"status" json:"status"`
	Availability  *ParticipantAvailability `bson:"availability,omitempty" json:"availability,omitempty"`
	UpdatedAt     time.Time                `bson:"updatedAt" json:"updated_at"`
}

// Per-date availability classifications.
const (
	DateAvailabilityNone    = "none"
	DateAvailabilityPartial = "partial"
	DateAvailabilityAll     = "all"
)

// DateAvailability summarizes, for one candidate date, how many enrolled
// participants have at least one free interval on it.
type DateAvailability struct {
	Date           string `json:"date"`
	Availability   string `json:"availability"`
	AvailableCount int    `json:"available_count"`
	TotalCount     int    `json:"total_count"`
}

// AppointmentDetail is the expanded appointment view with per-date
// availability summaries.
type AppointmentDetail struct {
	Appointment
	TotalParticipants    int                `json:"total_participants"`
	ParticipantsWithData int                `json:"participants_with_data"`
	Dates                []DateAvailability `json:"dates"`
}

// SyncResult reports a bulk availability resync over a user's appointments.
type SyncResult struct {
	TotalAppointments int `json:"total_appointments"`
	UpdatedCount      int `json:"updated_count"`
	FailedCount       int `json:"failed_count"`
	EnqueuedCount     int `json:"enqueued_count,omitempty"`
}
