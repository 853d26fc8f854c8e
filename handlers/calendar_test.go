package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"moim/models"
	"moim/services/calendar"
	"moim/services/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserService struct {
	usr *models.User
	err error
}

func (s *stubUserService) GoogleAuthURL(bool) string { return "https://accounts.example/auth" }

func (s *stubUserService) CompleteGoogleSignIn(context.Context, string) (*user.AuthResponse, error) {
	return nil, nil
}

func (s *stubUserService) GetUserByID(context.Context, string) (*models.User, error) {
	return s.usr, s.err
}

func (s *stubUserService) RevokeAuthToken(context.Context, string) error { return nil }

type stubCalendarService struct {
	page       *calendar.EventPage
	listErr    error
	gotOpts    calendar.BrowseOptions
	deleteErr  error
	gotDeleted string
}

func (s *stubCalendarService) AuthURL(bool) string { return "https://accounts.example/auth" }

func (s *stubCalendarService) Exchange(context.Context, string) (calendar.Tokens, error) {
	return calendar.Tokens{}, nil
}

func (s *stubCalendarService) UserInfo(context.Context, string) (calendar.GoogleUser, error) {
	return calendar.GoogleUser{}, nil
}

func (s *stubCalendarService) ListBusyEvents(context.Context, models.User, time.Time, time.Time) ([]models.CalendarEvent, error) {
	return nil, nil
}

func (s *stubCalendarService) ListEvents(_ context.Context, _ models.User, opts calendar.BrowseOptions) (*calendar.EventPage, error) {
	s.gotOpts = opts
	return s.page, s.listErr
}

func (s *stubCalendarService) CreateEvent(context.Context, models.User, calendar.EventInput) (string, error) {
	return "", nil
}

func (s *stubCalendarService) DeleteEvent(_ context.Context, _ models.User, eventID string) error {
	s.gotDeleted = eventID
	return s.deleteErr
}

func linkedTestUser() *models.User {
	return &models.User{ID: "u1", CalendarLinked: true, SealedRefreshToken: "sealed"}
}

func calendarTestRouter(h *CalendarHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("userID", "u1") })
	r.GET("/api/calendar/events", h.ListEventsHandler)
	r.DELETE("/api/calendar/events/:eventID", h.DeleteEventHandler)
	return r
}

func TestListEventsHandler(t *testing.T) {
	cal := &stubCalendarService{page: &calendar.EventPage{
		Events: []calendar.BrowseEvent{
			{ID: "evt-1", Summary: "dentist", Start: "2026-01-10T09:00:00Z", End: "2026-01-10T10:00:00Z"},
		},
		NextPageToken: "tok-2",
	}}
	h := &CalendarHandler{Users: &stubUserService{usr: linkedTestUser()}, Calendar: cal}
	router := calendarTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/calendar/events?time_min=2026-01-10T00:00:00Z&max_results=10&page_token=tok-1", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, calendar.BrowseOptions{
		TimeMin:    "2026-01-10T00:00:00Z",
		MaxResults: 10,
		PageToken:  "tok-1",
	}, cal.gotOpts)

	var page calendar.EventPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Events, 1)
	assert.Equal(t, "evt-1", page.Events[0].ID)
	assert.Equal(t, "tok-2", page.NextPageToken)
}

func TestListEventsHandlerInvalidMaxResults(t *testing.T) {
	h := &CalendarHandler{Users: &stubUserService{usr: linkedTestUser()}, Calendar: &stubCalendarService{}}
	router := calendarTestRouter(h)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/calendar/events?max_results=zero", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListEventsHandlerWithoutLinkedCalendar(t *testing.T) {
	h := &CalendarHandler{
		Users:    &stubUserService{usr: &models.User{ID: "u1"}},
		Calendar: &stubCalendarService{},
	}
	router := calendarTestRouter(h)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/calendar/events", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "calendar_scope_missing", body["code"])
	assert.NotEmpty(t, body["reauthUrl"])
}

func TestListEventsHandlerReauthRequired(t *testing.T) {
	h := &CalendarHandler{
		Users:    &stubUserService{usr: linkedTestUser()},
		Calendar: &stubCalendarService{listErr: calendar.ErrReauthRequired},
	}
	router := calendarTestRouter(h)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/calendar/events", nil))

	require.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "google_reauth_required", body["code"])
	assert.NotEmpty(t, body["reauthUrl"])
}

func TestDeleteEventHandler(t *testing.T) {
	cal := &stubCalendarService{}
	h := &CalendarHandler{Users: &stubUserService{usr: linkedTestUser()}, Calendar: cal}
	router := calendarTestRouter(h)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/calendar/events/evt-7", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "evt-7", cal.gotDeleted)
}

func TestDeleteEventHandlerNotFound(t *testing.T) {
	h := &CalendarHandler{
		Users:    &stubUserService{usr: linkedTestUser()},
		Calendar: &stubCalendarService{deleteErr: calendar.ErrEventNotFound},
	}
	router := calendarTestRouter(h)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/calendar/events/evt-7", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "event_not_found", body["code"])
}
