package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"concoin/database"
	"concoin/models"
	"concoin/service"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// CreditRunRepository implements the service.CreditRunRepository interface
type CreditRunRepository struct {
	q queryable
}

// NewCreditRunRepository creates a new credit run repository over the pool
func NewCreditRunRepository(db *database.DB) *CreditRunRepository {
	return &CreditRunRepository{q: db.Pool}
}

// newCreditRunRepositoryWithTx creates a credit run repository bound to a transaction
func newCreditRunRepositoryWithTx(tx queryable) *CreditRunRepository {
	return &CreditRunRepository{q: tx}
}

// normalizeDate truncates a timestamp to the start of its calendar day
func normalizeDate(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// GetByDate returns the credit run for a calendar day, or nil if that
// day has not been credited.
func (r *CreditRunRepository) GetByDate(ctx context.Context, date time.Time) (*models.CreditRun, error) {
	dateOnly := normalizeDate(date)

	query := `
		SELECT id, run_date, amount, users_credited, created_at
		FROM credit_runs
		WHERE run_date = $1
	`

	var run models.CreditRun
	err := r.q.QueryRow(ctx, query, dateOnly).Scan(
		&run.ID,
		&run.RunDate,
		&run.Amount,
		&run.UsersCredited,
		&run.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(fmt.Sprintf("failed to get credit run for %s", dateOnly.Format("2006-01-02")), err)
	}

	return &run, nil
}

// Create inserts the run marker for a calendar day. The unique
// constraint on run_date turns a second insert for the same day into
// ErrAlreadyCredited, which rolls back the surrounding transaction and
// with it the duplicate credit.
func (r *CreditRunRepository) Create(ctx context.Context, run *models.CreditRun) error {
	run.RunDate = normalizeDate(run.RunDate)

	query := `
		INSERT INTO credit_runs (run_date, amount, users_credited)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, run.RunDate, run.Amount, run.UsersCredited).
		Scan(&run.ID, &run.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", service.ErrAlreadyCredited, run.RunDate.Format("2006-01-02"))
	}
	if err != nil {
		return storeErr(fmt.Sprintf("failed to create credit run for %s", run.RunDate.Format("2006-01-02")), err)
	}

	return nil
}

// GetLatest returns the most recent credit run, or nil if none has run yet
func (r *CreditRunRepository) GetLatest(ctx context.Context) (*models.CreditRun, error) {
	query := `
		SELECT id, run_date, amount, users_credited, created_at
		FROM credit_runs
		ORDER BY run_date DESC
		LIMIT 1
	`

	var run models.CreditRun
	err := r.q.QueryRow(ctx, query).Scan(
		&run.ID,
		&run.RunDate,
		&run.Amount,
		&run.UsersCredited,
		&run.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("failed to get latest credit run", err)
	}

	return &run, nil
}
