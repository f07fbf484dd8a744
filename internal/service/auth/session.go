package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tasknest/tasknest-api/internal/platform/logger"
	"github.com/tasknest/tasknest-api/internal/store"
)

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Session issues and validates token pairs against the user store. It is
// stateless: no issued token is recorded, so rotation does not revoke the
// previous refresh token. An old refresh token stays valid until its own
// expiry.
type Session struct {
	users      store.UserStore
	jwtService JWTService
	passwords  PasswordVerifier
	logger     *slog.Logger
}

// NewSession creates a Session with the given dependencies.
func NewSession(users store.UserStore, jwtService JWTService, passwords PasswordVerifier, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		users:      users,
		jwtService: jwtService,
		passwords:  passwords,
		logger:     log.With(slog.String("component", "auth_session")),
	}
}

// Login authenticates the credentials and issues a fresh token pair.
// Unknown email and wrong password are both ErrAuthenticationFailed;
// a deactivated account with correct credentials is ErrAccountInactive.
func (s *Session) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.passwords.Compare(user.HashedPassword, password); err != nil {
		log.Debug("password verification failed", slog.String("user_id", user.ID.String()))
		return nil, ErrAuthenticationFailed
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	pair, err := s.issuePair(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	log.Info("user logged in", slog.String("user_id", user.ID.String()))
	return pair, nil
}

// Refresh exchanges a valid refresh token for a brand-new token pair.
// Access tokens presented here fail with the invalid-token kind, and a
// subject that has since disappeared or been deactivated fails with
// store.ErrUserNotFound.
func (s *Session) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	claims, err := s.jwtService.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !user.IsActive {
		return nil, store.ErrUserNotFound
	}

	pair, err := s.issuePair(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	log.Debug("token pair refreshed", slog.String("user_id", user.ID.String()))
	return pair, nil
}

// Authorize verifies an access token and returns the caller's user ID.
// It is the gate in front of every task and profile operation.
func (s *Session) Authorize(ctx context.Context, accessToken string) (uuid.UUID, error) {
	claims, err := s.jwtService.ValidateToken(ctx, accessToken)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID, nil
}

func (s *Session) issuePair(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	accessToken, err := s.jwtService.GenerateToken(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.jwtService.GenerateRefreshToken(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
