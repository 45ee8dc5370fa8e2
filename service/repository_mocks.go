package service

import (
	"context"
	"time"

	"concoin/events"
	"concoin/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Upsert(ctx context.Context, userID int64, displayName string) (*models.User, error) {
	args := m.Called(ctx, userID, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByDisplayName(ctx context.Context, displayName string) (*models.User, error) {
	args := m.Called(ctx, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetBalance(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) AddBalance(ctx context.Context, userID int64, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockUserRepository) DeductBalance(ctx context.Context, userID int64, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockUserRepository) ListAllIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockUserRepository) BulkCredit(ctx context.Context, userIDs []int64, amount int64) (int, error) {
	args := m.Called(ctx, userIDs, amount)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) Top(ctx context.Context, limit int) ([]*models.User, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

// MockCreditRunRepository is a mock implementation of CreditRunRepository
type MockCreditRunRepository struct {
	mock.Mock
}

func (m *MockCreditRunRepository) GetByDate(ctx context.Context, date time.Time) (*models.CreditRun, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CreditRun), args.Error(1)
}

func (m *MockCreditRunRepository) Create(ctx context.Context, run *models.CreditRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockCreditRunRepository) GetLatest(ctx context.Context) (*models.CreditRun, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CreditRun), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Tests wire the
// repositories once with SetRepositories and assert on Begin/Commit/
// Rollback like any other expectation.
type MockUnitOfWork struct {
	mock.Mock
	userRepo      UserRepository
	creditRunRepo CreditRunRepository
	eventBus      EventPublisher
}

// SetRepositories wires the mock repositories this unit of work hands out
func (m *MockUnitOfWork) SetRepositories(userRepo UserRepository, creditRunRepo CreditRunRepository, eventBus EventPublisher) {
	m.userRepo = userRepo
	m.creditRunRepo = creditRunRepo
	if eventBus == nil {
		eventBus = &noopPublisher{}
	}
	m.eventBus = eventBus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() UserRepository {
	return m.userRepo
}

func (m *MockUnitOfWork) CreditRunRepository() CreditRunRepository {
	return m.creditRunRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}

// noopPublisher swallows events in tests that don't assert on them
type noopPublisher struct{}

func (*noopPublisher) Publish(events.Event) {}
