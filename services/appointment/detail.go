package appointment

import (
	"context"

	"moim/models"
)

// Detail returns an appointment together with a per-candidate-date
// availability summary built from the stored participant availabilities.
func (s *DefaultAppointmentService) Detail(ctx context.Context, inviteCode string) (*models.AppointmentDetail, error) {
	appt, err := s.Repo.GetByInviteCode(ctx, inviteCode)
	if err != nil {
		return nil, err
	}

	total := len(appt.Participations)
	withData := 0
	for _, p := range appt.Participations {
		if p.Availability != nil && p.Availability.Version == models.AvailabilityVersion {
			withData++
		}
	}

	summary := make([]models.DateAvailability, 0, len(appt.CandidateDates))
	for _, date := range appt.CandidateDates {
		available := 0
		for _, p := range appt.Participations {
			if participantFreeOn(p.Availability, date) {
				available++
			}
		}
		summary = append(summary, models.DateAvailability{
			Date:           date,
			Availability:   classifyDate(available, total),
			AvailableCount: available,
			TotalCount:     total,
		})
	}

	return &models.AppointmentDetail{
		Appointment:          *appt,
		TotalParticipants:    total,
		ParticipantsWithData: withData,
		Dates:                summary,
	}, nil
}

// participantFreeOn reports whether a stored availability blob has at least
// one free interval on the given date. Blobs from an older encoding version
// are ignored rather than misread.
func participantFreeOn(avail *models.ParticipantAvailability, date string) bool {
	if avail == nil || avail.Version != models.AvailabilityVersion {
		return false
	}
	for _, day := range avail.Slots {
		if day.Date == date {
			return len(day.FreeIntervals) > 0
		}
	}
	return false
}

func classifyDate(available, total int) string {
	switch {
	case total == 0 || available == 0:
		return models.DateAvailabilityNone
	case available == total:
		return models.DateAvailabilityAll
	default:
		return models.DateAvailabilityPartial
	}
}
