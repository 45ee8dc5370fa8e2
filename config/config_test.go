package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(50), cfg.DailyCreditAmount)
	assert.Equal(t, "UTC", cfg.CreditTimezone)
	assert.Equal(t, 0, cfg.CreditHour)
	assert.Equal(t, 10, cfg.LeaderboardSize)
}

func TestLoad_Validation(t *testing.T) {
	t.Run("rejects non-positive credit amount", func(t *testing.T) {
		t.Setenv("ENVIRONMENT", "test")
		t.Setenv("DAILY_CREDIT_AMOUNT", "0")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("rejects out of range credit hour", func(t *testing.T) {
		t.Setenv("ENVIRONMENT", "test")
		t.Setenv("CREDIT_HOUR", "24")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("rejects unknown timezone", func(t *testing.T) {
		t.Setenv("ENVIRONMENT", "test")
		t.Setenv("CREDIT_TIMEZONE", "Not/AZone")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("requires token and database outside test env", func(t *testing.T) {
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("DISCORD_TOKEN", "")
		t.Setenv("DATABASE_URL", "")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestCreditLocation(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("CREDIT_TIMEZONE", "Africa/Cairo")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Africa/Cairo", cfg.CreditLocation().String())
}
