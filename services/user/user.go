package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	userRepo "moim/database/repository/user"
	"moim/models"
	"moim/utils"

	"go.uber.org/zap"
)

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = userRepo.ErrNotFound

// sessionTokenTTL is how long an issued session token stays valid.
const sessionTokenTTL = 72 * time.Hour

// GoogleAuthURL returns the consent URL to start the sign-in flow.
func (s *DefaultUserService) GoogleAuthURL(forcePrompt bool) string {
	return s.Calendar.AuthURL(forcePrompt)
}

// CompleteGoogleSignIn exchanges the callback code for tokens, fetches the
// Google profile, upserts the account, and issues a session token. Google
// only returns a refresh token on first consent (or prompt=consent), so an
// existing sealed token is kept when the exchange yields none.
func (s *DefaultUserService) CompleteGoogleSignIn(ctx context.Context, code string) (*AuthResponse, error) {
	logger := utils.GetLogger()

	tokens, err := s.Calendar.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google sign-in failed: %w", err)
	}

	profile, err := s.Calendar.UserInfo(ctx, tokens.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("google sign-in failed: %w", err)
	}

	existing, err := s.Repo.GetByID(ctx, profile.ID)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user %s: %w", profile.ID, err)
	}

	usr := models.User{
		ID:        profile.ID,
		Email:     profile.Email,
		Name:      profile.Name,
		UpdatedAt: time.Now(),
	}
	if existing != nil {
		usr.SealedRefreshToken = existing.SealedRefreshToken
		usr.CalendarLinked = existing.CalendarLinked
		usr.CreatedAt = existing.CreatedAt
	} else {
		usr.CreatedAt = time.Now()
	}

	if tokens.RefreshToken != "" {
		sealed, err := utils.SealSecret(tokens.RefreshToken)
		if err != nil {
			return nil, fmt.Errorf("failed to seal refresh token: %w", err)
		}
		usr.SealedRefreshToken = sealed
		usr.CalendarLinked = true
	}

	if err := s.Repo.Upsert(ctx, usr); err != nil {
		return nil, fmt.Errorf("failed to save user %s: %w", usr.ID, err)
	}

	token, err := utils.GenerateToken(usr.ID, usr.Email, sessionTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	logger.Info("user signed in",
		zap.String("userID", usr.ID),
		zap.Bool("calendarLinked", usr.CalendarLinked))

	return &AuthResponse{
		ID:             usr.ID,
		Token:          token,
		Email:          usr.Email,
		Name:           usr.Name,
		CalendarLinked: usr.CalendarLinked,
	}, nil
}

// GetUserByID fetches a user by ID.
func (s *DefaultUserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.Repo.GetByID(ctx, id)
}

// RevokeAuthToken blacklists the given session token until it would expire.
func (s *DefaultUserService) RevokeAuthToken(ctx context.Context, token string) error {
	cache := utils.GetAuthCacheClient()
	key := utils.AuthCachePrefix + "revoked:" + utils.HashToken(token)
	if err := cache.Set(ctx, key, "1", sessionTokenTTL).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}
