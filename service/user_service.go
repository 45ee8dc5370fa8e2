package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"concoin/events"
	"concoin/models"
)

// userService implements the UserService interface
type userService struct {
	uowFactory UnitOfWorkFactory
}

// NewUserService creates a new user service
func NewUserService(uowFactory UnitOfWorkFactory) UserService {
	return &userService{
		uowFactory: uowFactory,
	}
}

// UpsertUser registers the user on first contact and refreshes the
// display name on every subsequent one. Rerunning with the same inputs
// leaves state unchanged.
func (s *userService) UpsertUser(ctx context.Context, userID int64, displayName string) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	existing, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	if existing != nil && existing.DisplayName == displayName {
		// Nothing to write
		return existing, nil
	}

	user, err := uow.UserRepository().Upsert(ctx, userID, displayName)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	if existing == nil {
		uow.EventBus().Publish(events.UserCreatedEvent{
			UserID:      user.UserID,
			DisplayName: user.DisplayName,
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return user, nil
}

// Resolve turns a human-entered target into a registered user. A
// leading "@" forces a display-name lookup; otherwise a numeric spec
// is treated as an identity and anything else falls back to a name
// lookup. Unknown targets return ErrUserNotFound.
func (s *userService) Resolve(ctx context.Context, targetSpec string) (*models.User, error) {
	spec := strings.TrimSpace(targetSpec)
	if spec == "" {
		return nil, fmt.Errorf("%w: empty target", ErrUserNotFound)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	var user *models.User
	var err error

	if name, ok := strings.CutPrefix(spec, "@"); ok {
		user, err = uow.UserRepository().GetByDisplayName(ctx, name)
	} else if id, parseErr := strconv.ParseInt(spec, 10, 64); parseErr == nil {
		user, err = uow.UserRepository().GetByID(ctx, id)
	} else {
		user, err = uow.UserRepository().GetByDisplayName(ctx, spec)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to resolve target %q: %w", spec, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, spec)
	}

	return user, nil
}

// GetBalance returns the current balance, 0 for an unregistered identity
func (s *userService) GetBalance(ctx context.Context, userID int64) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	balance, err := uow.UserRepository().GetBalance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}

	return balance, nil
}
