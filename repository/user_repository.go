package repository

import (
	"context"
	"errors"
	"fmt"

	"concoin/database"
	"concoin/models"
	"concoin/service"
	"github.com/jackc/pgx/v5"
)

// UserRepository implements the service.UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository over the connection pool
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository bound to a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

// storeErr tags a persistence failure so callers can classify it with
// errors.Is while keeping the underlying pgx error in the chain.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(service.ErrStoreUnavailable, err))
}

// Upsert inserts the user with a zero balance if unseen, otherwise
// refreshes only the display name. joined_at is set once on first
// insert and never touched again.
func (r *UserRepository) Upsert(ctx context.Context, userID int64, displayName string) (*models.User, error) {
	query := `
		INSERT INTO users (user_id, display_name)
		VALUES ($1, NULLIF($2, ''))
		ON CONFLICT (user_id) DO UPDATE SET display_name = NULLIF($2, '')
		RETURNING user_id, COALESCE(display_name, ''), balance, joined_at
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, userID, displayName).Scan(
		&user.UserID,
		&user.DisplayName,
		&user.Balance,
		&user.JoinedAt,
	)
	if err != nil {
		return nil, storeErr(fmt.Sprintf("failed to upsert user %d", userID), err)
	}

	return &user, nil
}

// GetByID retrieves a user by identity, returning nil when unregistered
func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	query := `
		SELECT user_id, COALESCE(display_name, ''), balance, joined_at
		FROM users
		WHERE user_id = $1
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&user.UserID,
		&user.DisplayName,
		&user.Balance,
		&user.JoinedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(fmt.Sprintf("failed to get user %d", userID), err)
	}

	return &user, nil
}

// GetByDisplayName resolves a display name case-insensitively. Display
// names are not unique; ties break deterministically to the lowest
// identity. Returns nil when no user carries the name.
func (r *UserRepository) GetByDisplayName(ctx context.Context, displayName string) (*models.User, error) {
	query := `
		SELECT user_id, COALESCE(display_name, ''), balance, joined_at
		FROM users
		WHERE LOWER(display_name) = LOWER($1)
		ORDER BY user_id ASC
		LIMIT 1
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, displayName).Scan(
		&user.UserID,
		&user.DisplayName,
		&user.Balance,
		&user.JoinedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(fmt.Sprintf("failed to get user by name %q", displayName), err)
	}

	return &user, nil
}

// GetBalance returns the stored balance, or 0 for an unregistered identity
func (r *UserRepository) GetBalance(ctx context.Context, userID int64) (int64, error) {
	query := `SELECT balance FROM users WHERE user_id = $1`

	var balance int64
	err := r.q.QueryRow(ctx, query, userID).Scan(&balance)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, storeErr(fmt.Sprintf("failed to get balance for user %d", userID), err)
	}

	return balance, nil
}

// AddBalance adds to a user's balance atomically
func (r *UserRepository) AddBalance(ctx context.Context, userID int64, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: %d", service.ErrInvalidAmount, amount)
	}

	query := `
		UPDATE users
		SET balance = balance + $1
		WHERE user_id = $2
	`

	result, err := r.q.Exec(ctx, query, amount, userID)
	if err != nil {
		return storeErr(fmt.Sprintf("failed to add balance for user %d", userID), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %d", service.ErrUserNotFound, userID)
	}

	return nil
}

// DeductBalance deducts from a user's balance as a single conditional
// update: the sufficiency check and the debit are one store-level
// operation, so concurrent debits cannot drive the balance negative.
func (r *UserRepository) DeductBalance(ctx context.Context, userID int64, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: %d", service.ErrInvalidAmount, amount)
	}

	query := `
		UPDATE users
		SET balance = balance - $1
		WHERE user_id = $2 AND balance >= $1
	`

	result, err := r.q.Exec(ctx, query, amount, userID)
	if err != nil {
		return storeErr(fmt.Sprintf("failed to deduct balance for user %d", userID), err)
	}

	if result.RowsAffected() == 0 {
		// Distinguish a missing user from insufficient funds
		user, err := r.GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to check user: %w", err)
		}
		if user == nil {
			return fmt.Errorf("%w: user %d", service.ErrUserNotFound, userID)
		}
		return fmt.Errorf("%w: have %d, need %d", service.ErrInsufficientFunds, user.Balance, amount)
	}

	return nil
}

// ListAllIDs returns a snapshot of every registered identity
func (r *UserRepository) ListAllIDs(ctx context.Context) ([]int64, error) {
	query := `SELECT user_id FROM users ORDER BY user_id ASC`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, storeErr("failed to list user ids", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("failed to iterate user ids", err)
	}

	return ids, nil
}

// BulkCredit adds amount to every listed identity in one statement,
// all-or-nothing. Run inside the daily-credit transaction it commits
// together with the run marker.
func (r *UserRepository) BulkCredit(ctx context.Context, userIDs []int64, amount int64) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: %d", service.ErrInvalidAmount, amount)
	}
	if len(userIDs) == 0 {
		return 0, nil
	}

	query := `
		UPDATE users
		SET balance = balance + $1
		WHERE user_id = ANY($2)
	`

	result, err := r.q.Exec(ctx, query, amount, userIDs)
	if err != nil {
		return 0, storeErr("failed to bulk credit users", err)
	}

	return int(result.RowsAffected()), nil
}

// Top returns up to limit users ordered by balance descending, ties
// broken by identity ascending.
func (r *UserRepository) Top(ctx context.Context, limit int) ([]*models.User, error) {
	query := `
		SELECT user_id, COALESCE(display_name, ''), balance, joined_at
		FROM users
		ORDER BY balance DESC, user_id ASC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, storeErr("failed to get top users", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.UserID,
			&user.DisplayName,
			&user.Balance,
			&user.JoinedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("failed to iterate top users", err)
	}

	return users, nil
}
