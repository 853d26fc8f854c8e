package calendar

import (
	"errors"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

// Sentinel errors for upstream failure modes. Callers that only care about
// "no data available" can treat them uniformly; the HTTP layer maps them to
// reauth prompts.
var (
	// ErrReauthRequired means the stored grant is no longer valid and the
	// user must go through the consent flow again.
	ErrReauthRequired = errors.New("google reauthorization required")
	// ErrInsufficientScope means the grant lacks calendar access.
	ErrInsufficientScope = errors.New("insufficient calendar scope")
	// ErrRateLimited means Google rejected the request for quota reasons.
	ErrRateLimited = errors.New("rate limited by google calendar")
	// ErrEventNotFound means the calendar event does not exist or was
	// already removed.
	ErrEventNotFound = errors.New("calendar event not found")
)

// classifyError maps Google API and token-endpoint failures onto the
// package sentinels, leaving anything unrecognized untouched.
func classifyError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.ErrorCode == "invalid_grant" {
		return ErrReauthRequired
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized:
			return ErrReauthRequired
		case http.StatusForbidden:
			return ErrInsufficientScope
		case http.StatusTooManyRequests:
			return ErrRateLimited
		}
	}

	return err
}
