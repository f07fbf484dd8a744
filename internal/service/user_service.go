package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/platform/logger"
	"github.com/tasknest/tasknest-api/internal/store"
)

// UserService manages account registration and the authenticated user's
// own profile. Cross-user reads do not exist at this layer; callers only
// ever operate on the ID the session layer resolved for them.
type UserService struct {
	users  store.UserStore
	logger *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(users store.UserStore, log *slog.Logger) *UserService {
	if users == nil {
		panic("users cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &UserService{
		users:  users,
		logger: log.With(slog.String("component", "user_service")),
	}
}

// Register creates a new active account. Email and username collisions
// surface as store.ErrEmailExists and store.ErrUsernameExists; the
// database unique constraints are the authority, there is no pre-check
// racing against concurrent registrations.
func (s *UserService) Register(ctx context.Context, email, username, fullName, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(email, username, fullName, password)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username))
	return user, nil
}

// GetProfile returns the user's own record.
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile applies a sparse patch to the user's own record. A patch
// carrying a password triggers a re-hash in the store; the other fields
// are plain assignments. Uniqueness collisions surface the same way they
// do at registration.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, patch domain.UserUpdate) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	patch.Apply(user)
	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the user's own record. Task rows cascade at the
// database level; their cache entries are left to expire via TTL.
func (s *UserService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	log.Info("user account deleted", slog.String("user_id", userID.String()))
	return nil
}
