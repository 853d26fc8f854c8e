package appointment

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"moim/models"
	"moim/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const syncConcurrency = 4

// SyncMySchedules recomputes the user's availability across every VOTING
// appointment they participate in. Appointments are refreshed in parallel
// and each failure is counted rather than aborting the batch, so one bad
// appointment cannot block the rest.
func (s *DefaultAppointmentService) SyncMySchedules(ctx context.Context, userID string) (*models.SyncResult, error) {
	usr, err := s.UserRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	appts, err := s.Repo.ListVotingByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &models.SyncResult{TotalAppointments: len(appts)}
	if len(appts) == 0 {
		return result, nil
	}

	logger := utils.GetLogger()
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(syncConcurrency)

	for _, appt := range appts {
		appt := appt
		g.Go(func() error {
			avail, derr := s.Analyzer.DeriveAvailability(gctx, *usr, appt.CandidateDates, deriveOptions())
			if derr != nil {
				logger.Warn("schedule sync: derivation failed",
					zap.String("userID", userID),
					zap.String("appointmentID", appt.ID),
					zap.Error(derr))
				mu.Lock()
				result.FailedCount++
				mu.Unlock()
				return nil
			}
			if serr := s.Repo.SetParticipationAvailability(gctx, appt.ID, userID, avail); serr != nil {
				logger.Warn("schedule sync: store failed",
					zap.String("userID", userID),
					zap.String("appointmentID", appt.ID),
					zap.Error(serr))
				mu.Lock()
				result.FailedCount++
				mu.Unlock()
				return nil
			}
			mu.Lock()
			result.UpdatedCount++
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// EnqueueMySchedules queues a background resync task for each VOTING
// appointment the user participates in instead of recomputing inline.
// Tasks that cannot be queued are counted as failures.
func (s *DefaultAppointmentService) EnqueueMySchedules(ctx context.Context, userID string) (*models.SyncResult, error) {
	if s.Tasks == nil {
		return nil, ErrSyncQueueUnavailable
	}
	if _, err := s.UserRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	appts, err := s.Repo.ListVotingByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &models.SyncResult{TotalAppointments: len(appts)}
	logger := utils.GetLogger()
	for _, appt := range appts {
		payload, merr := json.Marshal(models.ResyncPayload{
			UserID:        userID,
			AppointmentID: appt.ID,
		})
		if merr != nil {
			result.FailedCount++
			continue
		}
		task := asynq.NewTask(models.TypeAvailabilityResync, payload)
		if _, qerr := s.Tasks.Enqueue(task, asynq.MaxRetry(3), asynq.Timeout(2*time.Minute)); qerr != nil {
			logger.Warn("schedule sync: enqueue failed",
				zap.String("userID", userID),
				zap.String("appointmentID", appt.ID),
				zap.Error(qerr))
			result.FailedCount++
			continue
		}
		result.EnqueuedCount++
	}
	return result, nil
}
