package calendar

import (
	"context"
	"time"

	"moim/models"
)

// Tokens is the result of an OAuth authorization-code exchange.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

// GoogleUser is the profile returned for an access token.
type GoogleUser struct {
	ID    string
	Email string
	Name  string
}

// EventInput describes a timed event to insert into the user's primary
// calendar, e.g. a confirmed appointment.
type EventInput struct {
	Summary     string
	Description string
	Date        string // "2006-01-02"
	Start       string // "HH:MM"
	End         string // "HH:MM"
}

// BrowseOptions narrows a user-facing events listing. Zero values mean no
// time bound, the default page size, and the first page.
type BrowseOptions struct {
	TimeMin    string // RFC3339
	TimeMax    string // RFC3339
	MaxResults int
	PageToken  string
}

// BrowseEvent is one calendar entry in a user-facing listing. Start and End
// are RFC3339 timestamps for timed events and "2006-01-02" dates for all-day
// events.
type BrowseEvent struct {
	ID          string `json:"id"`
	Summary     string `json:"summary,omitempty"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	Start       string `json:"start"`
	End         string `json:"end"`
	AllDay      bool   `json:"all_day"`
	HTMLLink    string `json:"html_link,omitempty"`
	Updated     string `json:"updated,omitempty"`
}

// EventPage is one page of a browse listing.
type EventPage struct {
	Events        []BrowseEvent `json:"events"`
	NextPageToken string        `json:"next_page_token,omitempty"`
}

// Service is the external calendar collaborator: OAuth plus event listing
// and management on the user's primary calendar. Constructed once in main
// and injected wherever calendar data is needed; it holds no hidden global
// state.
type Service interface {
	// AuthURL builds the Google consent URL for the sign-in flow.
	AuthURL(forcePrompt bool) string
	// Exchange trades an authorization code for tokens.
	Exchange(ctx context.Context, code string) (Tokens, error)
	// UserInfo fetches the Google profile for an access token.
	UserInfo(ctx context.Context, accessToken string) (GoogleUser, error)
	// ListBusyEvents lists the user's primary-calendar events overlapping
	// [timeMin, timeMax). Failures are classified into the package's
	// sentinel errors where possible.
	ListBusyEvents(ctx context.Context, user models.User, timeMin, timeMax time.Time) ([]models.CalendarEvent, error)
	// ListEvents returns one page of the user's primary-calendar events for
	// browsing, paged by BrowseOptions.PageToken.
	ListEvents(ctx context.Context, user models.User, opts BrowseOptions) (*EventPage, error)
	// CreateEvent inserts a timed event into the user's primary calendar
	// and returns the created event's ID.
	CreateEvent(ctx context.Context, user models.User, input EventInput) (string, error)
	// DeleteEvent removes an event from the user's primary calendar.
	// Unknown event IDs map to ErrEventNotFound.
	DeleteEvent(ctx context.Context, user models.User, eventID string) error
}
