package appointment

import (
	"context"

	appointmentRepo "moim/database/repository/appointment"
	userRepo "moim/database/repository/user"
	"moim/models"
	"moim/services/calendar"
	"moim/services/schedule"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// CreateRequest is the payload for creating an appointment.
type CreateRequest struct {
	Name            string   `json:"name" binding:"required"`
	MaxParticipants int      `json:"max_participants" binding:"required,min=1"`
	CandidateDates  []string `json:"candidate_dates" binding:"required,min=1"`
}

// ConfirmRequest fixes an appointment to one date and time window.
type ConfirmRequest struct {
	Date      string `json:"confirmed_date" binding:"required"`
	StartTime string `json:"confirmed_start_time" binding:"required"`
	EndTime   string `json:"confirmed_end_time" binding:"required"`
}

// OptimalTimesResult is the ranked common-slot listing for an appointment.
// CalculationStatus reports how much availability data backs the result:
// "no_data", "partial", or "complete".
type OptimalTimesResult struct {
	AppointmentID        string              `json:"appointment_id"`
	AppointmentName      string              `json:"appointment_name"`
	TotalParticipants    int                 `json:"total_participants"`
	ParticipantsWithData int                 `json:"participants_with_data"`
	OptimalTimes         []models.CommonSlot `json:"optimal_times"`
	CalculationStatus    string              `json:"calculation_status"`
}

// AppointmentService manages appointments, participation, and the
// availability computations hanging off them.
type AppointmentService interface {
	Create(ctx context.Context, req CreateRequest, creatorID string) (*models.Appointment, error)
	Join(ctx context.Context, inviteCode, userID string) (*models.Participation, error)
	GetByInviteCode(ctx context.Context, inviteCode string) (*models.Appointment, error)
	ListMine(ctx context.Context, userID string) ([]models.Appointment, error)
	Delete(ctx context.Context, inviteCode, userID string) error

	Detail(ctx context.Context, inviteCode string) (*models.AppointmentDetail, error)
	OptimalTimes(ctx context.Context, inviteCode, userID string, minDurationMinutes int) (*OptimalTimesResult, error)
	Confirm(ctx context.Context, inviteCode, userID string, req ConfirmRequest) (*models.Appointment, error)
	AddToCalendar(ctx context.Context, inviteCode, userID string) (string, error)

	SyncMySchedules(ctx context.Context, userID string) (*models.SyncResult, error)
	EnqueueMySchedules(ctx context.Context, userID string) (*models.SyncResult, error)
	RefreshAvailability(ctx context.Context, appointmentID, userID string) error
}

// DefaultAppointmentService is the production implementation.
type DefaultAppointmentService struct {
	Repo     appointmentRepo.AppointmentRepository
	UserRepo userRepo.UserRepository
	Analyzer *schedule.Analyzer
	Calendar calendar.Service
	Cache    *redis.Client
	Tasks    *asynq.Client
}
