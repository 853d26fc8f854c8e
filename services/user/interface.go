package user

import (
	"context"

	userRepo "moim/database/repository/user"
	"moim/models"
	"moim/services/calendar"
)

// UserService handles Google sign-in and account lookups.
type UserService interface {
	// GoogleAuthURL returns the consent URL to start the sign-in flow.
	GoogleAuthURL(forcePrompt bool) string
	// CompleteGoogleSignIn exchanges the callback code, upserts the account
	// and returns a session token.
	CompleteGoogleSignIn(ctx context.Context, code string) (*AuthResponse, error)
	// GetUserByID fetches a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// RevokeAuthToken blacklists the given session token until it expires.
	RevokeAuthToken(ctx context.Context, token string) error
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo     userRepo.UserRepository
	Calendar calendar.Service
}

// AuthResponse contains the signed-in user's ID, session token, and profile.
type AuthResponse struct {
	ID             string `json:"id"`
	Token          string `json:"token"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	CalendarLinked bool   `json:"calendar_linked"`
}
