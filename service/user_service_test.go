package service

import (
	"context"
	"errors"
	"testing"

	"concoin/events"
	"concoin/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestUserService_UpsertUser_NewUser(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockPublisher := new(MockEventPublisher)

	mockUoW.SetRepositories(mockUserRepo, nil, mockPublisher)

	svc := NewUserService(mockFactory)

	newUser := &models.User{
		UserID:      123456,
		DisplayName: "newuser",
		Balance:     0,
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	// Unseen identity, so the upsert inserts
	mockUserRepo.On("GetByID", ctx, int64(123456)).Return(nil, nil)
	mockUserRepo.On("Upsert", ctx, int64(123456), "newuser").Return(newUser, nil)

	mockPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		created, ok := e.(events.UserCreatedEvent)
		return ok && created.UserID == 123456 && created.DisplayName == "newuser"
	})).Return()

	user, err := svc.UpsertUser(ctx, 123456, "newuser")

	assert.NoError(t, err)
	assert.Equal(t, newUser, user)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestUserService_UpsertUser_ExistingUserSameName(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)

	mockUoW.SetRepositories(mockUserRepo, nil, nil)

	svc := NewUserService(mockFactory)

	existing := &models.User{
		UserID:      123456,
		DisplayName: "testuser",
		Balance:     500,
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	// No Commit expected: nothing changed

	mockUserRepo.On("GetByID", ctx, int64(123456)).Return(existing, nil)

	user, err := svc.UpsertUser(ctx, 123456, "testuser")

	assert.NoError(t, err)
	assert.Equal(t, existing, user)

	mockUserRepo.AssertNotCalled(t, "Upsert")
	mockUoW.AssertExpectations(t)
}

func TestUserService_UpsertUser_NameChanged(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockPublisher := new(MockEventPublisher)

	mockUoW.SetRepositories(mockUserRepo, nil, mockPublisher)

	svc := NewUserService(mockFactory)

	existing := &models.User{UserID: 123456, DisplayName: "oldname", Balance: 500}
	updated := &models.User{UserID: 123456, DisplayName: "newname", Balance: 500}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByID", ctx, int64(123456)).Return(existing, nil)
	mockUserRepo.On("Upsert", ctx, int64(123456), "newname").Return(updated, nil)

	user, err := svc.UpsertUser(ctx, 123456, "newname")

	assert.NoError(t, err)
	assert.Equal(t, updated, user)

	// Not a first registration, so no user-created event
	mockPublisher.AssertNotCalled(t, "Publish", mock.Anything)
	mockUserRepo.AssertExpectations(t)
}

func TestUserService_Resolve(t *testing.T) {
	ctx := context.Background()

	alice := &models.User{UserID: 100, DisplayName: "alice", Balance: 10}

	setup := func() (*MockUserRepository, UserService) {
		mockUoW := new(MockUnitOfWork)
		mockFactory := new(MockUnitOfWorkFactory)
		mockUserRepo := new(MockUserRepository)

		mockUoW.SetRepositories(mockUserRepo, nil, nil)
		mockFactory.On("Create").Return(mockUoW)
		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Rollback").Return(nil)

		return mockUserRepo, NewUserService(mockFactory)
	}

	t.Run("resolves @name via display name lookup", func(t *testing.T) {
		mockUserRepo, svc := setup()
		mockUserRepo.On("GetByDisplayName", ctx, "alice").Return(alice, nil)

		user, err := svc.Resolve(ctx, "@alice")
		assert.NoError(t, err)
		assert.Equal(t, alice, user)
	})

	t.Run("resolves numeric spec as identity", func(t *testing.T) {
		mockUserRepo, svc := setup()
		mockUserRepo.On("GetByID", ctx, int64(100)).Return(alice, nil)

		user, err := svc.Resolve(ctx, "100")
		assert.NoError(t, err)
		assert.Equal(t, alice, user)
	})

	t.Run("falls back to name lookup for bare names", func(t *testing.T) {
		mockUserRepo, svc := setup()
		mockUserRepo.On("GetByDisplayName", ctx, "alice").Return(alice, nil)

		user, err := svc.Resolve(ctx, "alice")
		assert.NoError(t, err)
		assert.Equal(t, alice, user)
	})

	t.Run("unknown target returns ErrUserNotFound", func(t *testing.T) {
		mockUserRepo, svc := setup()
		mockUserRepo.On("GetByDisplayName", ctx, "ghost").Return(nil, nil)

		user, err := svc.Resolve(ctx, "@ghost")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("unregistered identity returns ErrUserNotFound", func(t *testing.T) {
		mockUserRepo, svc := setup()
		mockUserRepo.On("GetByID", ctx, int64(404)).Return(nil, nil)

		user, err := svc.Resolve(ctx, "404")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("empty target returns ErrUserNotFound", func(t *testing.T) {
		_, svc := setup()

		user, err := svc.Resolve(ctx, "  ")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserService_GetBalance(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)

	mockUoW.SetRepositories(mockUserRepo, nil, nil)

	svc := NewUserService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetBalance", ctx, int64(42)).Return(int64(1500), nil)

	balance, err := svc.GetBalance(ctx, 42)
	assert.NoError(t, err)
	assert.Equal(t, int64(1500), balance)
}

func TestUserService_UpsertUser_StoreError(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)

	mockUoW.SetRepositories(mockUserRepo, nil, nil)

	svc := NewUserService(mockFactory)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	storeErr := errors.New("connection refused")
	mockUserRepo.On("GetByID", ctx, int64(1)).Return(nil, storeErr)

	user, err := svc.UpsertUser(ctx, 1, "x")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, storeErr)

	mockUoW.AssertNotCalled(t, "Commit")
}
