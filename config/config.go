// Package config provides application configuration loaded from
// environment variables. Everything tunable at runtime lives here so
// services and the credit job receive explicit values, never globals.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string `env:"DISCORD_TOKEN"`
	DiscordGuildID string `env:"DISCORD_GUILD_ID"`

	// Database configuration
	DatabaseURL string `env:"DATABASE_URL"`

	// Daily credit configuration
	DailyCreditAmount int64  `env:"DAILY_CREDIT_AMOUNT" envDefault:"50"`
	CreditTimezone    string `env:"CREDIT_TIMEZONE" envDefault:"UTC"`
	CreditHour        int    `env:"CREDIT_HOUR" envDefault:"0"`

	// Leaderboard size shown by the front end
	LeaderboardSize int `env:"LEADERBOARD_SIZE" envDefault:"10"`

	// Environment: "development", "production" or "test"
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

// Load parses environment variables and validates the result
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.DailyCreditAmount <= 0 {
		return nil, fmt.Errorf("DAILY_CREDIT_AMOUNT must be positive, got %d", cfg.DailyCreditAmount)
	}
	if cfg.CreditHour < 0 || cfg.CreditHour > 23 {
		return nil, fmt.Errorf("CREDIT_HOUR must be between 0 and 23, got %d", cfg.CreditHour)
	}
	if _, err := time.LoadLocation(cfg.CreditTimezone); err != nil {
		return nil, fmt.Errorf("invalid CREDIT_TIMEZONE %q: %w", cfg.CreditTimezone, err)
	}

	if cfg.Environment != "test" {
		if cfg.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return cfg, nil
}

// CreditLocation returns the timezone the daily credit day is computed
// in. Load has already validated the name.
func (c *Config) CreditLocation() *time.Location {
	loc, err := time.LoadLocation(c.CreditTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
