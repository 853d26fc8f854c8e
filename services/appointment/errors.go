package appointment

import "errors"

// Domain errors surfaced to the HTTP layer. Repository lookup misses are
// passed through as appointmentRepo.ErrNotFound.
var (
	ErrNoCandidateDates  = errors.New("at least one candidate date is required")
	ErrInvalidDate       = errors.New("candidate dates must be formatted as YYYY-MM-DD")
	ErrNotJoinable       = errors.New("appointment is not accepting participants")
	ErrAlreadyJoined     = errors.New("already participating in this appointment")
	ErrFull              = errors.New("appointment has reached its participant limit")
	ErrNotCreator        = errors.New("only the appointment creator may do this")
	ErrNotParticipant    = errors.New("only participants may do this")
	ErrNotCandidateDate  = errors.New("confirmed date must be one of the candidate dates")
	ErrNotConfirmed      = errors.New("appointment has not been confirmed yet")
	ErrCalendarRequired  = errors.New("google calendar link is required")
	ErrAlreadyConfirmed  = errors.New("appointment is already confirmed")
	ErrInvalidTimeWindow = errors.New("confirmed end time must be after start time")

	ErrSyncQueueUnavailable = errors.New("background sync queue is not configured")
)
