package appointmentRepo

import (
	"context"
	"errors"
	"time"

	"moim/database"
	"moim/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// Lookup errors.
var (
	ErrNotFound              = errors.New("appointment not found")
	ErrParticipationNotFound = errors.New("participation not found")
)

type AppointmentRepository interface {
	Create(ctx context.Context, appt models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	GetByInviteCode(ctx context.Context, inviteCode string) (*models.Appointment, error)
	InviteCodeExists(ctx context.Context, inviteCode string) (bool, error)
	Delete(ctx context.Context, id string) error

	ListByUser(ctx context.Context, userID string) ([]models.Appointment, error)
	ListVotingByUser(ctx context.Context, userID string) ([]models.Appointment, error)

	AddParticipation(ctx context.Context, appointmentID string, p models.Participation) error
	SetParticipationAvailability(ctx context.Context, appointmentID, userID string, avail *models.ParticipantAvailability) error
	Confirm(ctx context.Context, id, date, startTime, endTime string, at time.Time) error
}

type mongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo returns a new AppointmentRepository instance using MongoDB.
func NewMongoAppointmentRepo() AppointmentRepository {
	db := database.Database()
	return &mongoAppointmentRepo{
		coll: db.Collection("appointments"),
	}
}
