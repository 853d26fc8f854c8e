package appointment

import (
	"context"
	"testing"

	appointmentRepo "moim/database/repository/appointment"
	"moim/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linkedUser(id string) models.User {
	return models.User{ID: id, CalendarLinked: true, SealedRefreshToken: "sealed"}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(newMemAppointmentRepo(), newMemUserRepo(), nil)

	tests := []struct {
		name     string
		req      CreateRequest
		expected error
	}{
		{
			name:     "no candidate dates",
			req:      CreateRequest{Name: "dinner", MaxParticipants: 4},
			expected: ErrNoCandidateDates,
		},
		{
			name:     "malformed date",
			req:      CreateRequest{Name: "dinner", MaxParticipants: 4, CandidateDates: []string{"01/10/2026"}},
			expected: ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req, "creator")
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestCreateEnrollsCreator(t *testing.T) {
	repo := newMemAppointmentRepo()
	svc := newTestService(repo, newMemUserRepo(linkedUser("creator")), nil)

	appt, err := svc.Create(context.Background(), CreateRequest{
		Name:            "team offsite",
		MaxParticipants: 5,
		CandidateDates:  []string{"2026-01-12", "2026-01-10"},
	}, "creator")
	require.NoError(t, err)

	assert.Equal(t, models.AppointmentStatusVoting, appt.Status)
	assert.Len(t, appt.InviteCode, 8)
	assert.Equal(t, []string{"2026-01-10", "2026-01-12"}, appt.CandidateDates)

	require.Len(t, appt.Participations, 1)
	p := appt.Participations[0]
	assert.Equal(t, "creator", p.UserID)
	assert.Equal(t, models.ParticipationStatusAttending, p.Status)
	// The creator has a linked calendar, so availability is derived inline.
	require.NotNil(t, p.Availability)
	assert.Equal(t, models.AvailabilityVersion, p.Availability.Version)

	stored, err := repo.GetByInviteCode(context.Background(), appt.InviteCode)
	require.NoError(t, err)
	assert.Equal(t, appt.ID, stored.ID)
}

func TestCreateWithoutCalendarStillSucceeds(t *testing.T) {
	svc := newTestService(newMemAppointmentRepo(), newMemUserRepo(models.User{ID: "creator"}), nil)

	appt, err := svc.Create(context.Background(), CreateRequest{
		Name:            "dinner",
		MaxParticipants: 4,
		CandidateDates:  []string{"2026-01-10"},
	}, "creator")
	require.NoError(t, err)

	require.Len(t, appt.Participations, 1)
	assert.Nil(t, appt.Participations[0].Availability)
}

func TestJoin(t *testing.T) {
	repo := newMemAppointmentRepo()
	users := newMemUserRepo(linkedUser("creator"), linkedUser("friend"))
	svc := newTestService(repo, users, nil)

	appt, err := svc.Create(context.Background(), CreateRequest{
		Name:            "dinner",
		MaxParticipants: 2,
		CandidateDates:  []string{"2026-01-10"},
	}, "creator")
	require.NoError(t, err)

	p, err := svc.Join(context.Background(), appt.InviteCode, "friend")
	require.NoError(t, err)
	assert.Equal(t, "friend", p.UserID)
	assert.Equal(t, appt.ID, p.AppointmentID)
	require.NotNil(t, p.Availability)

	_, err = svc.Join(context.Background(), appt.InviteCode, "friend")
	assert.ErrorIs(t, err, ErrAlreadyJoined)

	_, err = svc.Join(context.Background(), appt.InviteCode, "third")
	assert.ErrorIs(t, err, ErrFull)

	_, err = svc.Join(context.Background(), "NOPE1234", "friend")
	assert.ErrorIs(t, err, appointmentRepo.ErrNotFound)
}

func TestJoinRejectsConfirmedAppointment(t *testing.T) {
	repo := newMemAppointmentRepo()
	users := newMemUserRepo(linkedUser("creator"), linkedUser("late"))
	svc := newTestService(repo, users, nil)

	appt, err := svc.Create(context.Background(), CreateRequest{
		Name:            "dinner",
		MaxParticipants: 5,
		CandidateDates:  []string{"2026-01-10"},
	}, "creator")
	require.NoError(t, err)

	_, err = svc.Confirm(context.Background(), appt.InviteCode, "creator", ConfirmRequest{
		Date: "2026-01-10", StartTime: "19:00", EndTime: "21:00",
	})
	require.NoError(t, err)

	_, err = svc.Join(context.Background(), appt.InviteCode, "late")
	assert.ErrorIs(t, err, ErrNotJoinable)
}

func TestDelete(t *testing.T) {
	repo := newMemAppointmentRepo()
	users := newMemUserRepo(linkedUser("creator"), linkedUser("friend"))
	svc := newTestService(repo, users, nil)

	appt, err := svc.Create(context.Background(), CreateRequest{
		Name:            "dinner",
		MaxParticipants: 4,
		CandidateDates:  []string{"2026-01-10"},
	}, "creator")
	require.NoError(t, err)

	err = svc.Delete(context.Background(), appt.InviteCode, "friend")
	assert.ErrorIs(t, err, ErrNotCreator)

	err = svc.Delete(context.Background(), appt.InviteCode, "creator")
	require.NoError(t, err)

	_, err = svc.GetByInviteCode(context.Background(), appt.InviteCode)
	assert.ErrorIs(t, err, appointmentRepo.ErrNotFound)
}

func TestConfirm(t *testing.T) {
	repo := newMemAppointmentRepo()
	users := newMemUserRepo(linkedUser("creator"), linkedUser("friend"))
	svc := newTestService(repo, users, nil)

	appt, err := svc.Create(context.Background(), CreateRequest{
		Name:            "dinner",
		MaxParticipants: 4,
		CandidateDates:  []string{"2026-01-10", "2026-01-11"},
	}, "creator")
	require.NoError(t, err)

	_, err = svc.Confirm(context.Background(), appt.InviteCode, "friend", ConfirmRequest{
		Date: "2026-01-10", StartTime: "19:00", EndTime: "21:00",
	})
	assert.ErrorIs(t, err, ErrNotCreator)

	_, err = svc.Confirm(context.Background(), appt.InviteCode, "creator", ConfirmRequest{
		Date: "2026-02-01", StartTime: "19:00", EndTime: "21:00",
	})
	assert.ErrorIs(t, err, ErrNotCandidateDate)

	_, err = svc.Confirm(context.Background(), appt.InviteCode, "creator", ConfirmRequest{
		Date: "2026-01-10", StartTime: "21:00", EndTime: "19:00",
	})
	assert.ErrorIs(t, err, ErrInvalidTimeWindow)

	confirmed, err := svc.Confirm(context.Background(), appt.InviteCode, "creator", ConfirmRequest{
		Date: "2026-01-10", StartTime: "19:00", EndTime: "21:00",
	})
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentStatusConfirmed, confirmed.Status)
	assert.Equal(t, "2026-01-10", confirmed.ConfirmedDate)
	require.NotNil(t, confirmed.ConfirmedAt)

	_, err = svc.Confirm(context.Background(), appt.InviteCode, "creator", ConfirmRequest{
		Date: "2026-01-11", StartTime: "19:00", EndTime: "21:00",
	})
	assert.ErrorIs(t, err, ErrAlreadyConfirmed)
}

func TestAddToCalendar(t *testing.T) {
	repo := newMemAppointmentRepo()
	users := newMemUserRepo(linkedUser("creator"), models.User{ID: "unlinked"})
	cal := &stubCalendar{createdID: "evt-42"}
	svc := newTestService(repo, users, cal)

	appt, err := svc.Create(context.Background(), CreateRequest{
		Name:            "dinner",
		MaxParticipants: 4,
		CandidateDates:  []string{"2026-01-10"},
	}, "creator")
	require.NoError(t, err)

	_, err = svc.AddToCalendar(context.Background(), appt.InviteCode, "stranger")
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = svc.AddToCalendar(context.Background(), appt.InviteCode, "creator")
	assert.ErrorIs(t, err, ErrNotConfirmed)

	_, err = svc.Confirm(context.Background(), appt.InviteCode, "creator", ConfirmRequest{
		Date: "2026-01-10", StartTime: "19:00", EndTime: "21:00",
	})
	require.NoError(t, err)

	eventID, err := svc.AddToCalendar(context.Background(), appt.InviteCode, "creator")
	require.NoError(t, err)
	assert.Equal(t, "evt-42", eventID)
	assert.Equal(t, "creator", cal.gotEventFor)
	assert.Equal(t, "dinner", cal.gotEvent.Summary)
	assert.Equal(t, "2026-01-10", cal.gotEvent.Date)
	assert.Equal(t, "19:00", cal.gotEvent.Start)
	assert.Equal(t, "21:00", cal.gotEvent.End)
}

func TestAddToCalendarRequiresLinkedCalendar(t *testing.T) {
	repo := newMemAppointmentRepo()
	users := newMemUserRepo(linkedUser("creator"), models.User{ID: "unlinked"})
	svc := newTestService(repo, users, nil)

	appt, err := svc.Create(context.Background(), CreateRequest{
		Name:            "dinner",
		MaxParticipants: 4,
		CandidateDates:  []string{"2026-01-10"},
	}, "creator")
	require.NoError(t, err)

	_, err = svc.Join(context.Background(), appt.InviteCode, "unlinked")
	require.NoError(t, err)

	_, err = svc.Confirm(context.Background(), appt.InviteCode, "creator", ConfirmRequest{
		Date: "2026-01-10", StartTime: "19:00", EndTime: "21:00",
	})
	require.NoError(t, err)

	_, err = svc.AddToCalendar(context.Background(), appt.InviteCode, "unlinked")
	assert.ErrorIs(t, err, ErrCalendarRequired)
}

func TestSyncMySchedules(t *testing.T) {
	repo := newMemAppointmentRepo()
	users := newMemUserRepo(linkedUser("creator"))
	svc := newTestService(repo, users, nil)

	for _, name := range []string{"a", "b"} {
		_, err := svc.Create(context.Background(), CreateRequest{
			Name:            name,
			MaxParticipants: 4,
			CandidateDates:  []string{"2026-01-10"},
		}, "creator")
		require.NoError(t, err)
	}

	result, err := svc.SyncMySchedules(context.Background(), "creator")
	require.NoError(t, err)
	assert.Equal(t, &models.SyncResult{
		TotalAppointments: 2,
		UpdatedCount:      2,
		FailedCount:       0,
	}, result)
}

func TestSyncMySchedulesCountsFailures(t *testing.T) {
	repo := newMemAppointmentRepo()
	// No linked calendar: every derivation is unavailable.
	users := newMemUserRepo(models.User{ID: "creator"})
	svc := newTestService(repo, users, nil)

	_, err := svc.Create(context.Background(), CreateRequest{
		Name:            "dinner",
		MaxParticipants: 4,
		CandidateDates:  []string{"2026-01-10"},
	}, "creator")
	require.NoError(t, err)

	result, err := svc.SyncMySchedules(context.Background(), "creator")
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalAppointments)
	assert.Equal(t, 0, result.UpdatedCount)
	assert.Equal(t, 1, result.FailedCount)
}

func TestEnqueueMySchedulesRequiresQueue(t *testing.T) {
	repo := newMemAppointmentRepo()
	users := newMemUserRepo(linkedUser("creator"))
	svc := newTestService(repo, users, nil)

	_, err := svc.EnqueueMySchedules(context.Background(), "creator")
	assert.ErrorIs(t, err, ErrSyncQueueUnavailable)
}

func TestRefreshAvailability(t *testing.T) {
	repo := newMemAppointmentRepo()
	users := newMemUserRepo(models.User{ID: "creator"}, linkedUser("friend"))
	svc := newTestService(repo, users, nil)

	appt, err := svc.Create(context.Background(), CreateRequest{
		Name:            "dinner",
		MaxParticipants: 4,
		CandidateDates:  []string{"2026-01-10"},
	}, "creator")
	require.NoError(t, err)

	err = svc.RefreshAvailability(context.Background(), appt.ID, "stranger")
	assert.ErrorIs(t, err, appointmentRepo.ErrParticipationNotFound)

	_, err = svc.Join(context.Background(), appt.InviteCode, "friend")
	require.NoError(t, err)

	err = svc.RefreshAvailability(context.Background(), appt.ID, "friend")
	require.NoError(t, err)

	stored, err := repo.GetByID(context.Background(), appt.ID)
	require.NoError(t, err)
	for _, p := range stored.Participations {
		if p.UserID == "friend" {
			require.NotNil(t, p.Availability)
		}
	}
}

func TestGenerateInviteCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateInviteCode()
		require.NoError(t, err)
		require.Len(t, code, 8)
		for _, ch := range code {
			assert.Contains(t, inviteCodeAlphabet, string(ch))
		}
		seen[code] = true
	}
	// 50 draws from a 36^8 space should never collide.
	assert.Len(t, seen, 50)
}
