package appointment

import (
	"context"
	"time"

	appointmentRepo "moim/database/repository/appointment"
	userRepo "moim/database/repository/user"
	"moim/models"
	"moim/services/calendar"
	"moim/services/schedule"
)

// memAppointmentRepo is an in-memory AppointmentRepository for service tests.
type memAppointmentRepo struct {
	appts map[string]*models.Appointment
}

func newMemAppointmentRepo() *memAppointmentRepo {
	return &memAppointmentRepo{appts: make(map[string]*models.Appointment)}
}

func (r *memAppointmentRepo) Create(_ context.Context, appt models.Appointment) error {
	cp := appt
	r.appts[appt.ID] = &cp
	return nil
}

func (r *memAppointmentRepo) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	appt, ok := r.appts[id]
	if !ok {
		return nil, appointmentRepo.ErrNotFound
	}
	cp := *appt
	return &cp, nil
}

func (r *memAppointmentRepo) GetByInviteCode(_ context.Context, inviteCode string) (*models.Appointment, error) {
	for _, appt := range r.appts {
		if appt.InviteCode == inviteCode {
			cp := *appt
			return &cp, nil
		}
	}
	return nil, appointmentRepo.ErrNotFound
}

func (r *memAppointmentRepo) InviteCodeExists(_ context.Context, inviteCode string) (bool, error) {
	for _, appt := range r.appts {
		if appt.InviteCode == inviteCode {
			return true, nil
		}
	}
	return false, nil
}

func (r *memAppointmentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.appts[id]; !ok {
		return appointmentRepo.ErrNotFound
	}
	delete(r.appts, id)
	return nil
}

func (r *memAppointmentRepo) ListByUser(_ context.Context, userID string) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, appt := range r.appts {
		for _, p := range appt.Participations {
			if p.UserID == userID {
				out = append(out, *appt)
				break
			}
		}
	}
	return out, nil
}

func (r *memAppointmentRepo) ListVotingByUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	all, _ := r.ListByUser(ctx, userID)
	var out []models.Appointment
	for _, appt := range all {
		if appt.Status == models.AppointmentStatusVoting {
			out = append(out, appt)
		}
	}
	return out, nil
}

func (r *memAppointmentRepo) AddParticipation(_ context.Context, appointmentID string, p models.Participation) error {
	appt, ok := r.appts[appointmentID]
	if !ok {
		return appointmentRepo.ErrNotFound
	}
	appt.Participations = append(appt.Participations, p)
	return nil
}

func (r *memAppointmentRepo) SetParticipationAvailability(_ context.Context, appointmentID, userID string, avail *models.ParticipantAvailability) error {
	appt, ok := r.appts[appointmentID]
	if !ok {
		return appointmentRepo.ErrNotFound
	}
	for i := range appt.Participations {
		if appt.Participations[i].UserID == userID {
			appt.Participations[i].Availability = avail
			appt.Participations[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return appointmentRepo.ErrParticipationNotFound
}

func (r *memAppointmentRepo) Confirm(_ context.Context, id, date, startTime, endTime string, at time.Time) error {
	appt, ok := r.appts[id]
	if !ok {
		return appointmentRepo.ErrNotFound
	}
	appt.Status = models.AppointmentStatusConfirmed
	appt.ConfirmedDate = date
	appt.ConfirmedStartTime = startTime
	appt.ConfirmedEndTime = endTime
	appt.ConfirmedAt = &at
	return nil
}

// memUserRepo is an in-memory UserRepository.
type memUserRepo struct {
	users map[string]*models.User
}

func newMemUserRepo(users ...models.User) *memUserRepo {
	r := &memUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		cp := u
		r.users[u.ID] = &cp
	}
	return r
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, userRepo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, userRepo.ErrNotFound
}

func (r *memUserRepo) Upsert(_ context.Context, user models.User) error {
	cp := user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	delete(r.users, id)
	return nil
}

// stubCalendar satisfies calendar.Service with canned responses.
type stubCalendar struct {
	events      []models.CalendarEvent
	listErr     error
	createdID   string
	createErr   error
	gotEvent    calendar.EventInput
	gotEventFor string
}

func (s *stubCalendar) AuthURL(bool) string { return "https://accounts.example/auth" }

func (s *stubCalendar) Exchange(context.Context, string) (calendar.Tokens, error) {
	return calendar.Tokens{}, nil
}

func (s *stubCalendar) UserInfo(context.Context, string) (calendar.GoogleUser, error) {
	return calendar.GoogleUser{}, nil
}

func (s *stubCalendar) ListBusyEvents(context.Context, models.User, time.Time, time.Time) ([]models.CalendarEvent, error) {
	return s.events, s.listErr
}

func (s *stubCalendar) ListEvents(context.Context, models.User, calendar.BrowseOptions) (*calendar.EventPage, error) {
	return &calendar.EventPage{Events: []calendar.BrowseEvent{}}, nil
}

func (s *stubCalendar) DeleteEvent(context.Context, models.User, string) error { return nil }

func (s *stubCalendar) CreateEvent(_ context.Context, user models.User, input calendar.EventInput) (string, error) {
	s.gotEvent = input
	s.gotEventFor = user.ID
	if s.createErr != nil {
		return "", s.createErr
	}
	if s.createdID == "" {
		return "evt-1", nil
	}
	return s.createdID, nil
}

func newTestService(repo *memAppointmentRepo, users *memUserRepo, cal *stubCalendar) *DefaultAppointmentService {
	if cal == nil {
		cal = &stubCalendar{}
	}
	return &DefaultAppointmentService{
		Repo:     repo,
		UserRepo: users,
		Analyzer: schedule.NewAnalyzer(cal, "UTC"),
		Calendar: cal,
	}
}
