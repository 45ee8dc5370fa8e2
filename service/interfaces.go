package service

import (
	"context"
	"time"

	"concoin/events"
	"concoin/models"
)

// UserRepository defines the interface for user and balance data access
type UserRepository interface {
	// Upsert inserts a new user with zero balance, or refreshes the
	// display name of an existing one. Idempotent.
	Upsert(ctx context.Context, userID int64, displayName string) (*models.User, error)

	// GetByID retrieves a user by identity; nil if unregistered
	GetByID(ctx context.Context, userID int64) (*models.User, error)

	// GetByDisplayName resolves a display name case-insensitively,
	// lowest identity first; nil if no user carries the name
	GetByDisplayName(ctx context.Context, displayName string) (*models.User, error)

	// GetBalance returns the balance, 0 for an unregistered identity
	GetBalance(ctx context.Context, userID int64) (int64, error)

	// AddBalance adds to a user's balance atomically
	AddBalance(ctx context.Context, userID int64, amount int64) error

	// DeductBalance deducts atomically, failing with ErrInsufficientFunds
	// when the balance is too low; check and debit are one store operation
	DeductBalance(ctx context.Context, userID int64, amount int64) error

	// ListAllIDs returns a snapshot of all registered identities
	ListAllIDs(ctx context.Context) ([]int64, error)

	// BulkCredit adds amount to every listed identity as one statement,
	// returning the number of rows credited
	BulkCredit(ctx context.Context, userIDs []int64, amount int64) (int, error)

	// Top returns up to limit users by balance descending, identity ascending
	Top(ctx context.Context, limit int) ([]*models.User, error)
}

// CreditRunRepository defines the interface for the daily credit run marker
type CreditRunRepository interface {
	// GetByDate returns the run for a calendar day; nil if not yet credited
	GetByDate(ctx context.Context, date time.Time) (*models.CreditRun, error)

	// Create inserts the run marker; ErrAlreadyCredited on a duplicate day
	Create(ctx context.Context, run *models.CreditRun) error

	// GetLatest returns the most recent run; nil if none
	GetLatest(ctx context.Context) (*models.CreditRun, error)
}

// UserService defines the user directory operations
type UserService interface {
	// UpsertUser registers or refreshes a user from a platform interaction
	UpsertUser(ctx context.Context, userID int64, displayName string) (*models.User, error)

	// Resolve turns a target spec ("@name" or a numeric identity) into a user
	Resolve(ctx context.Context, targetSpec string) (*models.User, error)

	// GetBalance returns the balance, 0 for an unregistered identity
	GetBalance(ctx context.Context, userID int64) (int64, error)
}

// TransferService defines the atomic transfer operation
type TransferService interface {
	// Transfer moves amount from one identity to another as one
	// indivisible unit, returning the sender's new balance
	Transfer(ctx context.Context, fromUserID, toUserID int64, amount int64) (*models.TransferResult, error)
}

// DailyCreditService runs the scheduled universal credit
type DailyCreditService interface {
	// Run applies the daily credit for now's calendar day exactly once.
	// Overlapping invocations are skipped with ErrCreditRunInProgress;
	// an already-credited day returns ErrAlreadyCredited.
	Run(ctx context.Context, now time.Time) (*models.CreditRun, error)
}

// LeaderboardService is a read-only ranked view over the ledger
type LeaderboardService interface {
	// Top returns up to limit entries ordered by balance descending
	Top(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	UserRepository() UserRepository
	CreditRunRepository() CreditRunRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
