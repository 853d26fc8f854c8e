package appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"moim/models"
	"moim/services/schedule"
	"moim/utils"

	"go.uber.org/zap"
)

// Calculation statuses for OptimalTimesResult.
const (
	CalculationStatusNoData   = "no_data"
	CalculationStatusPartial  = "partial"
	CalculationStatusComplete = "complete"
)

const optimalCacheTTL = 10 * time.Minute

// OptimalTimes ranks the common free slots across every participant who has
// availability data. Results are cached in Redis under a key fingerprinted by
// the current availability state, so any recomputed availability naturally
// misses the stale entry.
func (s *DefaultAppointmentService) OptimalTimes(ctx context.Context, inviteCode, userID string, minDurationMinutes int) (*OptimalTimesResult, error) {
	appt, err := s.Repo.GetByInviteCode(ctx, inviteCode)
	if err != nil {
		return nil, err
	}
	if findParticipation(appt, userID) == nil {
		return nil, ErrNotParticipant
	}
	if minDurationMinutes <= 0 {
		minDurationMinutes = schedule.DefaultMinSlotMinutes
	}

	participants := make([]models.ParticipantSlots, 0, len(appt.Participations))
	for _, p := range appt.Participations {
		if p.Availability == nil || p.Availability.Version != models.AvailabilityVersion {
			continue
		}
		participants = append(participants, models.ParticipantSlots{
			ParticipantID: p.UserID,
			Slots:         p.Availability.Slots,
		})
	}

	total := len(appt.Participations)
	result := &OptimalTimesResult{
		AppointmentID:        appt.ID,
		AppointmentName:      appt.Name,
		TotalParticipants:    total,
		ParticipantsWithData: len(participants),
		OptimalTimes:         []models.CommonSlot{},
		CalculationStatus:    calculationStatus(len(participants), total),
	}
	if len(participants) == 0 {
		return result, nil
	}

	cacheKey := s.optimalCacheKey(appt, len(participants), minDurationMinutes)
	if cached := s.cachedOptimal(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	result.OptimalTimes = schedule.FindCommonSlots(participants, minDurationMinutes)
	s.storeOptimal(ctx, cacheKey, result)
	return result, nil
}

// optimalCacheKey fingerprints the availability state feeding the
// computation: the appointment, the requested duration, how many
// participants contributed data, and the newest participation update.
func (s *DefaultAppointmentService) optimalCacheKey(appt *models.Appointment, withData, minDurationMinutes int) string {
	var latest int64
	for _, p := range appt.Participations {
		if ts := p.UpdatedAt.UnixNano(); ts > latest {
			latest = ts
		}
	}
	return fmt.Sprintf("optimal:%s:%d:%d:%d", appt.ID, minDurationMinutes, withData, latest)
}

func (s *DefaultAppointmentService) cachedOptimal(ctx context.Context, key string) *OptimalTimesResult {
	if s.Cache == nil {
		return nil
	}
	raw, err := s.Cache.Get(ctx, key).Result()
	if err != nil {
		return nil
	}
	var result OptimalTimesResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil
	}
	return &result
}

func (s *DefaultAppointmentService) storeOptimal(ctx context.Context, key string, result *OptimalTimesResult) {
	if s.Cache == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, key, raw, optimalCacheTTL).Err(); err != nil {
		utils.GetLogger().Warn("optimal cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func calculationStatus(withData, total int) string {
	switch {
	case withData == 0:
		return CalculationStatusNoData
	case withData < total:
		return CalculationStatusPartial
	default:
		return CalculationStatusComplete
	}
}
