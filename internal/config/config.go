// Package config defines service configuration structures and loading hooks.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/okian/linguist/internal/domain/quality"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is json or text.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`
	// ShutdownTimeoutSeconds bounds graceful shutdown.
	ShutdownTimeoutSeconds int `koanf:"shutdown_timeout_seconds"`

	// QueueSize bounds the in-memory job queue.
	QueueSize int `koanf:"queue_size"`
	// WorkerCount sets the number of background workers.
	WorkerCount int `koanf:"worker_count"`
	// DedupeSize sets the size of the idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`

	// StoreDriver selects memory or postgres.
	StoreDriver string `koanf:"store_driver"`
	PostgresDSN string `koanf:"postgres_dsn"`

	// RedisAddr enables the settings cache when set.
	RedisAddr               string `koanf:"redis_addr"`
	RedisPassword           string `koanf:"redis_password"`
	RedisDB                 int    `koanf:"redis_db"`
	SettingsCacheTTLSeconds int    `koanf:"settings_cache_ttl_seconds"`

	// JWTSecret verifies HS256 bearer tokens.
	JWTSecret string `koanf:"jwt_secret"`

	// SESRegion enables email notifications through SES when set.
	SESRegion  string `koanf:"ses_region"`
	NotifyFrom string `koanf:"notify_from"`
	// Reviewers receive dispute notifications.
	Reviewers []string `koanf:"reviewers"`

	// Default quality settings used until an admin stores their own.
	LQAWeight         float64 `koanf:"lqa_weight"`
	QSMultiplier      float64 `koanf:"qs_multiplier"`
	DisputePeriodDays int     `koanf:"dispute_period_days"`

	// MaxRankingLimit caps GET /freelancers/ranking?limit.
	MaxRankingLimit int `koanf:"max_ranking_limit"`
}

// New returns a Config populated with defaults.
func New() *Config {
	qs := quality.DefaultSettings()
	return &Config{
		LogLevel:                "info",
		LogFormat:               "json",
		Addr:                    ":9080",
		ShutdownTimeoutSeconds:  15,
		QueueSize:               1024,
		WorkerCount:             runtime.NumCPU(),
		DedupeSize:              50_000,
		StoreDriver:             StoreMemory,
		SettingsCacheTTLSeconds: 300,
		JWTSecret:               "linguist-dev-secret",
		LQAWeight:               qs.LQAWeight,
		QSMultiplier:            qs.QSMultiplier,
		DisputePeriodDays:       qs.DisputePeriodDays,
		MaxRankingLimit:         100,
	}
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("addr must not be empty: %w", ErrInvalidConfig)
	case c.QueueSize <= 0 || c.WorkerCount <= 0 || c.DedupeSize <= 0:
		return fmt.Errorf("queue_size, worker_count and dedupe_size must be positive: %w", ErrInvalidConfig)
	case strings.TrimSpace(c.JWTSecret) == "":
		return fmt.Errorf("jwt_secret must not be empty: %w", ErrInvalidConfig)
	case c.SESRegion != "" && c.NotifyFrom == "":
		return fmt.Errorf("notify_from is required with ses_region: %w", ErrInvalidConfig)
	}
	switch c.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("postgres_dsn is required for the postgres store: %w", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("store_driver %q: %w: %w", c.StoreDriver, ErrUnknownStoreDriver, ErrInvalidConfig)
	}
	if err := c.QualitySettings().Validate(); err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidConfig)
	}
	return nil
}

// QualitySettings returns the configured default quality settings.
func (c *Config) QualitySettings() quality.Settings {
	return quality.Settings{
		LQAWeight:         c.LQAWeight,
		QSMultiplier:      c.QSMultiplier,
		DisputePeriodDays: c.DisputePeriodDays,
	}
}

// SettingsCacheTTL returns the settings cache TTL.
func (c *Config) SettingsCacheTTL() time.Duration {
	return time.Duration(c.SettingsCacheTTLSeconds) * time.Second
}

// ShutdownTimeout returns the graceful shutdown bound.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}
