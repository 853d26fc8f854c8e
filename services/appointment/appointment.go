package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"moim/config"
	appointmentRepo "moim/database/repository/appointment"
	userRepo "moim/database/repository/user"
	"moim/models"
	"moim/services/calendar"
	"moim/services/schedule"
	"moim/utils"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Create registers a new appointment with its candidate dates, enrolls the
// creator, and derives the creator's availability on a best-effort basis: a
// failed derivation never fails the creation.
func (s *DefaultAppointmentService) Create(ctx context.Context, req CreateRequest, creatorID string) (*models.Appointment, error) {
	if len(req.CandidateDates) == 0 {
		return nil, ErrNoCandidateDates
	}

	dates := append([]string(nil), req.CandidateDates...)
	for _, d := range dates {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return nil, ErrInvalidDate
		}
	}
	sort.Strings(dates)

	inviteCode, err := s.uniqueInviteCode(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	creatorParticipation := models.Participation{
		ID:     uuid.New().String(),
		UserID: creatorID,
		Status: models.ParticipationStatusAttending,
	}
	appt := models.Appointment{
		ID:              uuid.New().String(),
		Name:            req.Name,
		CreatorID:       creatorID,
		MaxParticipants: req.MaxParticipants,
		Status:          models.AppointmentStatusVoting,
		InviteCode:      inviteCode,
		CandidateDates:  dates,
		CreatedAt:       now,
	}
	creatorParticipation.AppointmentID = appt.ID
	creatorParticipation.UpdatedAt = now
	creatorParticipation.Availability = s.deriveForUser(ctx, creatorID, dates)
	appt.Participations = []models.Participation{creatorParticipation}

	if err := s.Repo.Create(ctx, appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

// Join enrolls a user via invite code and derives their availability on a
// best-effort basis.
func (s *DefaultAppointmentService) Join(ctx context.Context, inviteCode, userID string) (*models.Participation, error) {
	appt, err := s.Repo.GetByInviteCode(ctx, inviteCode)
	if err != nil {
		return nil, err
	}
	if appt.Status != models.AppointmentStatusVoting {
		return nil, ErrNotJoinable
	}
	if findParticipation(appt, userID) != nil {
		return nil, ErrAlreadyJoined
	}
	if appt.MaxParticipants > 0 && len(appt.Participations) >= appt.MaxParticipants {
		return nil, ErrFull
	}

	p := models.Participation{
		ID:            uuid.New().String(),
		UserID:        userID,
		AppointmentID: appt.ID,
		Status:        models.ParticipationStatusAttending,
		Availability:  s.deriveForUser(ctx, userID, appt.CandidateDates),
		UpdatedAt:     time.Now(),
	}

	if err := s.Repo.AddParticipation(ctx, appt.ID, p); err != nil {
		return nil, err
	}

	// Existing participants may have stale availability by the time someone
	// new joins; refresh them off the request path.
	s.enqueueResyncs(appt)

	return &p, nil
}

// enqueueResyncs queues a background availability refresh for every current
// participant of the appointment. Enqueue failures are logged and dropped.
func (s *DefaultAppointmentService) enqueueResyncs(appt *models.Appointment) {
	if s.Tasks == nil {
		return
	}
	logger := utils.GetLogger()
	for _, p := range appt.Participations {
		payload, err := json.Marshal(models.ResyncPayload{
			UserID:        p.UserID,
			AppointmentID: appt.ID,
		})
		if err != nil {
			continue
		}
		task := asynq.NewTask(models.TypeAvailabilityResync, payload)
		if _, err := s.Tasks.Enqueue(task, asynq.MaxRetry(3), asynq.Timeout(2*time.Minute)); err != nil {
			logger.Warn("failed to enqueue availability resync",
				zap.String("userID", p.UserID),
				zap.String("appointmentID", appt.ID),
				zap.Error(err))
		}
	}
}

// GetByInviteCode fetches an appointment by invite code.
func (s *DefaultAppointmentService) GetByInviteCode(ctx context.Context, inviteCode string) (*models.Appointment, error) {
	return s.Repo.GetByInviteCode(ctx, inviteCode)
}

// ListMine lists the appointments the user participates in, newest first.
func (s *DefaultAppointmentService) ListMine(ctx context.Context, userID string) ([]models.Appointment, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// Delete removes an appointment; only its creator may.
func (s *DefaultAppointmentService) Delete(ctx context.Context, inviteCode, userID string) error {
	appt, err := s.Repo.GetByInviteCode(ctx, inviteCode)
	if err != nil {
		return err
	}
	if appt.CreatorID != userID {
		return ErrNotCreator
	}
	return s.Repo.Delete(ctx, appt.ID)
}

// Confirm fixes a VOTING appointment to one candidate date and time window;
// only its creator may.
func (s *DefaultAppointmentService) Confirm(ctx context.Context, inviteCode, userID string, req ConfirmRequest) (*models.Appointment, error) {
	appt, err := s.Repo.GetByInviteCode(ctx, inviteCode)
	if err != nil {
		return nil, err
	}
	if appt.CreatorID != userID {
		return nil, ErrNotCreator
	}
	if appt.Status != models.AppointmentStatusVoting {
		return nil, ErrAlreadyConfirmed
	}

	isCandidate := false
	for _, d := range appt.CandidateDates {
		if d == req.Date {
			isCandidate = true
			break
		}
	}
	if !isCandidate {
		return nil, ErrNotCandidateDate
	}
	if models.ParseClock(req.EndTime) <= models.ParseClock(req.StartTime) {
		return nil, ErrInvalidTimeWindow
	}

	now := time.Now()
	if err := s.Repo.Confirm(ctx, appt.ID, req.Date, req.StartTime, req.EndTime, now); err != nil {
		return nil, err
	}

	appt.Status = models.AppointmentStatusConfirmed
	appt.ConfirmedDate = req.Date
	appt.ConfirmedStartTime = req.StartTime
	appt.ConfirmedEndTime = req.EndTime
	appt.ConfirmedAt = &now
	return appt, nil
}

// AddToCalendar inserts a confirmed appointment into the requesting
// participant's Google calendar and returns the created event ID.
func (s *DefaultAppointmentService) AddToCalendar(ctx context.Context, inviteCode, userID string) (string, error) {
	appt, err := s.Repo.GetByInviteCode(ctx, inviteCode)
	if err != nil {
		return "", err
	}
	if findParticipation(appt, userID) == nil {
		return "", ErrNotParticipant
	}
	if appt.Status != models.AppointmentStatusConfirmed || appt.ConfirmedDate == "" {
		return "", ErrNotConfirmed
	}

	usr, err := s.UserRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if !usr.CalendarLinked {
		return "", ErrCalendarRequired
	}

	return s.Calendar.CreateEvent(ctx, *usr, calendar.EventInput{
		Summary: appt.Name,
		Date:    appt.ConfirmedDate,
		Start:   appt.ConfirmedStartTime,
		End:     appt.ConfirmedEndTime,
	})
}

// RefreshAvailability recomputes and stores one participant's availability
// for one appointment. Used by the resync worker.
func (s *DefaultAppointmentService) RefreshAvailability(ctx context.Context, appointmentID, userID string) error {
	appt, err := s.Repo.GetByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if findParticipation(appt, userID) == nil {
		return appointmentRepo.ErrParticipationNotFound
	}

	usr, err := s.UserRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	avail, err := s.Analyzer.DeriveAvailability(ctx, *usr, appt.CandidateDates, deriveOptions())
	if err != nil {
		return fmt.Errorf("availability derivation failed for user %s: %w", userID, err)
	}
	return s.Repo.SetParticipationAvailability(ctx, appt.ID, userID, avail)
}

// deriveForUser computes availability for a user, absorbing every failure
// into a nil result. Unavailability is expected (no linked calendar, an
// upstream outage) and must not break enrollment flows.
func (s *DefaultAppointmentService) deriveForUser(ctx context.Context, userID string, candidateDates []string) *models.ParticipantAvailability {
	logger := utils.GetLogger()

	usr, err := s.UserRepo.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, userRepo.ErrNotFound) {
			logger.Warn("deriveForUser: user lookup failed",
				zap.String("userID", userID), zap.Error(err))
		}
		return nil
	}

	avail, err := s.Analyzer.DeriveAvailability(ctx, *usr, candidateDates, deriveOptions())
	if err != nil {
		if !schedule.IsUnavailable(err) {
			logger.Warn("deriveForUser: derivation failed",
				zap.String("userID", userID), zap.Error(err))
		}
		return nil
	}
	return avail
}

// deriveOptions builds the configured work-hours window for derivations.
// Zero values fall back to the analyzer defaults.
func deriveOptions() schedule.DeriveOptions {
	return schedule.DeriveOptions{
		WorkStart:      config.AppConfig.WorkHoursStart,
		WorkEnd:        config.AppConfig.WorkHoursEnd,
		MinSlotMinutes: config.AppConfig.MinSlotMinutes,
	}
}

// findParticipation returns the user's participation or nil.
func findParticipation(appt *models.Appointment, userID string) *models.Participation {
	for i := range appt.Participations {
		if appt.Participations[i].UserID == userID {
			return &appt.Participations[i]
		}
	}
	return nil
}
