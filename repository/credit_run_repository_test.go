package repository

import (
	"context"
	"testing"
	"time"

	"concoin/repository/testutil"
	"concoin/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditRunRepository_GetByDate(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewCreditRunRepository(testDB.DB)
	ctx := context.Background()

	testDate := time.Date(2024, 1, 15, 12, 30, 45, 0, time.UTC)

	t.Run("no run found", func(t *testing.T) {
		run, err := repo.GetByDate(ctx, testDate)
		require.NoError(t, err)
		assert.Nil(t, run)
	})

	t.Run("run found", func(t *testing.T) {
		original := testutil.CreateTestCreditRunWithDetails(testDate, 50, 3)
		err := repo.Create(ctx, original)
		require.NoError(t, err)
		assert.NotZero(t, original.ID)

		run, err := repo.GetByDate(ctx, testDate)
		require.NoError(t, err)
		require.NotNil(t, run)

		assert.Equal(t, int64(50), run.Amount)
		assert.Equal(t, 3, run.UsersCredited)

		// Date is normalized to the start of the day
		expectedDate := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, expectedDate, run.RunDate.UTC())
	})

	t.Run("different time on the same day finds the run", func(t *testing.T) {
		queryDate := time.Date(2024, 1, 15, 23, 59, 59, 0, time.UTC)
		run, err := repo.GetByDate(ctx, queryDate)
		require.NoError(t, err)
		require.NotNil(t, run)
	})
}

func TestCreditRunRepository_Create(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewCreditRunRepository(testDB.DB)
	ctx := context.Background()

	testDate := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("successful creation", func(t *testing.T) {
		run := testutil.CreateTestCreditRunWithDetails(testDate, 50, 25)
		err := repo.Create(ctx, run)
		require.NoError(t, err)
		assert.NotZero(t, run.ID)
		assert.False(t, run.CreatedAt.IsZero())
	})

	t.Run("second run for the same day is rejected", func(t *testing.T) {
		// Same calendar day at a different time
		dup := testutil.CreateTestCreditRun(testDate.Add(6 * time.Hour))
		err := repo.Create(ctx, dup)
		require.Error(t, err)
		assert.ErrorIs(t, err, service.ErrAlreadyCredited)
	})
}

func TestCreditRunRepository_GetLatest(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewCreditRunRepository(testDB.DB)
	ctx := context.Background()

	t.Run("nil when no runs exist", func(t *testing.T) {
		run, err := repo.GetLatest(ctx)
		require.NoError(t, err)
		assert.Nil(t, run)
	})

	t.Run("returns the most recent run", func(t *testing.T) {
		older := testutil.CreateTestCreditRun(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, repo.Create(ctx, older))

		newer := testutil.CreateTestCreditRun(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC))
		require.NoError(t, repo.Create(ctx, newer))

		latest, err := repo.GetLatest(ctx)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, newer.ID, latest.ID)
	})
}
