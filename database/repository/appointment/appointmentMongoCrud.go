package appointmentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"moim/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Create inserts a new appointment document.
func (r *mongoAppointmentRepo) Create(ctx context.Context, appt models.Appointment) error {
	if _, err := r.coll.InsertOne(ctx, appt); err != nil {
		return fmt.Errorf("error inserting appointment: %w", err)
	}
	return nil
}

// GetByID returns an appointment by its ID.
func (r *mongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching appointment %s: %w", id, err)
	}
	return &appt, nil
}

// GetByInviteCode returns an appointment by its invite code.
func (r *mongoAppointmentRepo) GetByInviteCode(ctx context.Context, inviteCode string) (*models.Appointment, error) {
	var appt models.Appointment
	err := r.coll.FindOne(ctx, bson.M{"inviteCode": inviteCode}).Decode(&appt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching appointment by invite code: %w", err)
	}
	return &appt, nil
}

// InviteCodeExists reports whether an appointment already uses the code.
func (r *mongoAppointmentRepo) InviteCodeExists(ctx context.Context, inviteCode string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"inviteCode": inviteCode})
	if err != nil {
		return false, fmt.Errorf("error checking invite code: %w", err)
	}
	return count > 0, nil
}

// Delete removes an appointment and its embedded participations.
func (r *mongoAppointmentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("error deleting appointment %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddParticipation appends a participation to the appointment.
func (r *mongoAppointmentRepo) AddParticipation(ctx context.Context, appointmentID string, p models.Participation) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": appointmentID},
		bson.M{"$push": bson.M{"participations": p}},
	)
	if err != nil {
		return fmt.Errorf("error adding participation: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetParticipationAvailability overwrites one participant's stored
// availability wholesale. Concurrent resyncs for the same participant are
// last-write-wins; no history is kept.
func (r *mongoAppointmentRepo) SetParticipationAvailability(ctx context.Context, appointmentID, userID string, avail *models.ParticipantAvailability) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": appointmentID, "participations.userId": userID},
		bson.M{"$set": bson.M{
			"participations.$.availability": avail,
			"participations.$.updatedAt":    time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("error updating participation availability: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrParticipationNotFound
	}
	return nil
}

// Confirm transitions an appointment to CONFIRMED with the chosen date and
// time window.
func (r *mongoAppointmentRepo) Confirm(ctx context.Context, id, date, startTime, endTime string, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{
			"status":             models.AppointmentStatusConfirmed,
			"confirmedDate":      date,
			"confirmedStartTime": startTime,
			"confirmedEndTime":   endTime,
			"confirmedAt":        at,
		}},
	)
	if err != nil {
		return fmt.Errorf("error confirming appointment %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
