package appointmentRepo

import (
	"context"
	"fmt"

	"moim/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListByUser returns every appointment the user participates in, newest first.
func (r *mongoAppointmentRepo) ListByUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	return r.listByUser(ctx, bson.M{"participations.userId": userID})
}

// ListVotingByUser returns the user's appointments still in the VOTING state,
// the set a schedule resync recomputes availability for.
func (r *mongoAppointmentRepo) ListVotingByUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	return r.listByUser(ctx, bson.M{
		"participations.userId": userID,
		"status":                models.AppointmentStatusVoting,
	})
}

func (r *mongoAppointmentRepo) listByUser(ctx context.Context, filter bson.M) ([]models.Appointment, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("error decoding appointments: %w", err)
	}
	return appts, nil
}
