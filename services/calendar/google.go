package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"moim/config"
	"moim/models"
	"moim/utils"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// Page-size limits for the events listing. Browsing defaults to the smaller
// page; busy-event fetches always pull full pages.
const (
	maxEventResults      = 250
	defaultBrowseResults = 50
)

// GoogleCalendarService talks to Google's OAuth and Calendar APIs.
type GoogleCalendarService struct {
	Conf *oauth2.Config
}

// NewGoogleCalendarService builds the service from the app configuration.
func NewGoogleCalendarService() *GoogleCalendarService {
	return &GoogleCalendarService{
		Conf: &oauth2.Config{
			ClientID:     config.AppConfig.GoogleClientID,
			ClientSecret: config.AppConfig.GoogleClientSecret,
			RedirectURL:  config.AppConfig.GoogleRedirectURI,
			Endpoint:     google.Endpoint,
			Scopes: []string{
				"openid",
				"email",
				"profile",
				gcal.CalendarEventsScope,
			},
		},
	}
}

// AuthURL builds the Google consent URL. Offline access is always requested
// so a refresh token is issued; prompt=consent forces re-issuing one.
func (s *GoogleCalendarService) AuthURL(forcePrompt bool) string {
	opts := []oauth2.AuthCodeOption{
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	}
	if config.AppConfig.GoogleForcePromptConsent || forcePrompt {
		opts = append(opts, oauth2.SetAuthURLParam("prompt", "consent"))
	}
	return s.Conf.AuthCodeURL("state", opts...)
}

// Exchange trades an authorization code for access and refresh tokens.
func (s *GoogleCalendarService) Exchange(ctx context.Context, code string) (Tokens, error) {
	tok, err := s.Conf.Exchange(ctx, code)
	if err != nil {
		return Tokens{}, fmt.Errorf("failed to exchange auth code: %w", classifyError(err))
	}
	if tok.AccessToken == "" {
		return Tokens{}, errors.New("token exchange returned no access token")
	}
	return Tokens{AccessToken: tok.AccessToken, RefreshToken: tok.RefreshToken}, nil
}

// UserInfo fetches the Google profile for an access token.
func (s *GoogleCalendarService) UserInfo(ctx context.Context, accessToken string) (GoogleUser, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	svc, err := goauth2.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return GoogleUser{}, fmt.Errorf("failed to create oauth2 service: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return GoogleUser{}, fmt.Errorf("failed to fetch user info: %w", classifyError(err))
	}
	if info.Id == "" || info.Email == "" {
		return GoogleUser{}, errors.New("user info response missing id or email")
	}
	return GoogleUser{ID: info.Id, Email: info.Email, Name: info.Name}, nil
}

// eventsService builds a Calendar API client from the user's stored refresh
// token. Access tokens are minted on demand by the token source.
func (s *GoogleCalendarService) eventsService(ctx context.Context, user models.User) (*gcal.Service, error) {
	refreshToken, err := utils.OpenSecret(user.SealedRefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to unseal refresh token: %w", err)
	}

	ts := s.Conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	svc, err := gcal.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return svc, nil
}

// ListBusyEvents lists primary-calendar events overlapping [timeMin, timeMax),
// expanded to single instances in start-time order, and maps them onto the
// raw busy-event model.
func (s *GoogleCalendarService) ListBusyEvents(ctx context.Context, user models.User, timeMin, timeMax time.Time) ([]models.CalendarEvent, error) {
	svc, err := s.eventsService(ctx, user)
	if err != nil {
		return nil, err
	}

	var events []models.CalendarEvent
	pageToken := ""
	for {
		call := svc.Events.List("primary").
			SingleEvents(true).
			OrderBy("startTime").
			TimeMin(timeMin.Format(time.RFC3339)).
			TimeMax(timeMax.Format(time.RFC3339)).
			MaxResults(maxEventResults).
			Fields("items(id,status,start,end),nextPageToken").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		page, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list events: %w", classifyError(err))
		}

		for _, item := range page.Items {
			if ev, ok := toCalendarEvent(item); ok {
				events = append(events, ev)
			}
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	return events, nil
}

// toCalendarEvent maps one API event onto the busy-event model. Cancelled
// events and events without usable start/end data are skipped.
func toCalendarEvent(item *gcal.Event) (models.CalendarEvent, bool) {
	if item == nil || item.Status == "cancelled" || item.Start == nil || item.End == nil {
		return models.CalendarEvent{}, false
	}

	if item.Start.Date != "" {
		return models.CalendarEvent{
			StartDate: item.Start.Date,
			EndDate:   item.End.Date,
			AllDay:    true,
		}, true
	}

	start, err := time.Parse(time.RFC3339, item.Start.DateTime)
	if err != nil {
		return models.CalendarEvent{}, false
	}
	end, err := time.Parse(time.RFC3339, item.End.DateTime)
	if err != nil {
		return models.CalendarEvent{}, false
	}
	return models.CalendarEvent{StartTime: start, EndTime: end}, true
}

// ListEvents returns one page of the user's primary calendar for browsing.
// Unlike ListBusyEvents it keeps display fields and hands paging control to
// the caller.
func (s *GoogleCalendarService) ListEvents(ctx context.Context, user models.User, opts BrowseOptions) (*EventPage, error) {
	svc, err := s.eventsService(ctx, user)
	if err != nil {
		return nil, err
	}

	max := opts.MaxResults
	if max <= 0 {
		max = defaultBrowseResults
	}
	if max > maxEventResults {
		max = maxEventResults
	}

	call := svc.Events.List("primary").
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(int64(max)).
		Fields("items(id,status,summary,description,location,start,end,htmlLink,updated),nextPageToken").
		Context(ctx)
	if opts.TimeMin != "" {
		call = call.TimeMin(opts.TimeMin)
	}
	if opts.TimeMax != "" {
		call = call.TimeMax(opts.TimeMax)
	}
	if opts.PageToken != "" {
		call = call.PageToken(opts.PageToken)
	}

	page, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", classifyError(err))
	}

	result := &EventPage{Events: []BrowseEvent{}, NextPageToken: page.NextPageToken}
	for _, item := range page.Items {
		if ev, ok := toBrowseEvent(item); ok {
			result.Events = append(result.Events, ev)
		}
	}
	return result, nil
}

// toBrowseEvent maps one API event onto the browse model. Cancelled events
// and events without usable start/end data are skipped.
func toBrowseEvent(item *gcal.Event) (BrowseEvent, bool) {
	if item == nil || item.Status == "cancelled" || item.Start == nil || item.End == nil {
		return BrowseEvent{}, false
	}

	ev := BrowseEvent{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		Location:    item.Location,
		HTMLLink:    item.HtmlLink,
		Updated:     item.Updated,
	}
	if item.Start.Date != "" {
		ev.Start = item.Start.Date
		ev.End = item.End.Date
		ev.AllDay = true
		return ev, true
	}
	if item.Start.DateTime == "" || item.End.DateTime == "" {
		return BrowseEvent{}, false
	}
	ev.Start = item.Start.DateTime
	ev.End = item.End.DateTime
	return ev, true
}

// CreateEvent inserts a timed event into the user's primary calendar.
func (s *GoogleCalendarService) CreateEvent(ctx context.Context, user models.User, input EventInput) (string, error) {
	svc, err := s.eventsService(ctx, user)
	if err != nil {
		return "", err
	}

	tz := config.AppConfig.DefaultTimezone
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", input.Date+" "+input.Start, loc)
	if err != nil {
		return "", fmt.Errorf("invalid event start: %w", err)
	}
	end, err := time.ParseInLocation("2006-01-02 15:04", input.Date+" "+input.End, loc)
	if err != nil {
		return "", fmt.Errorf("invalid event end: %w", err)
	}

	event := &gcal.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Start:       &gcal.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: tz},
		End:         &gcal.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: tz},
	}

	created, err := svc.Events.Insert("primary", event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create event: %w", classifyError(err))
	}
	return created.Id, nil
}

// DeleteEvent removes an event from the user's primary calendar. Google
// reports an already-deleted event as 410, folded into ErrEventNotFound.
func (s *GoogleCalendarService) DeleteEvent(ctx context.Context, user models.User, eventID string) error {
	svc, err := s.eventsService(ctx, user)
	if err != nil {
		return err
	}

	if err := svc.Events.Delete("primary", eventID).Context(ctx).Do(); err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && (apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to delete event: %w", classifyError(err))
	}
	return nil
}
