package models

// TypeAvailabilityResync is the asynq task type for recomputing one
// participant's availability in one appointment.
const TypeAvailabilityResync = "availability:resync"

// ResyncPayload is the availability resync task payload.
type ResyncPayload struct {
	UserID        string `json:"user_id"`
	AppointmentID string `json:"appointment_id"`
}
