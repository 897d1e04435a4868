// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Loading layers a YAML file and TERMICO_* env vars over the defaults.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"context"
	"time"
)

// Case store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ReferenceDataPath overrides the embedded rate and document tables.
	ReferenceDataPath string `koanf:"reference_data_path"`

	// CaseStore selects the case record backend: memory, postgres or redis.
	CaseStore string `koanf:"case_store"`

	// SeedSampleCases loads the sample cases into the memory store at startup.
	SeedSampleCases bool `koanf:"seed_sample_cases"`

	// Postgres
	DatabaseURL     string `koanf:"database_url"`
	DBMaxOpenConns  int    `koanf:"db_max_open_conns"`
	DBMaxIdleConns  int    `koanf:"db_max_idle_conns"`
	DBPingTimeoutMS int    `koanf:"db_ping_timeout_ms"`

	// Redis
	RedisAddr      string `koanf:"redis_addr"`
	RedisPassword  string `koanf:"redis_password"`
	RedisDB        int    `koanf:"redis_db"`
	RedisKeyPrefix string `koanf:"redis_key_prefix"`
	RedisTimeoutMS int    `koanf:"redis_timeout_ms"`
}

// New creates a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		CaseStore:       StoreMemory,
		SeedSampleCases: true,
		DBMaxOpenConns:  10,
		DBMaxIdleConns:  5,
		DBPingTimeoutMS: 5000,
		RedisAddr:       "localhost:6379",
		RedisKeyPrefix:  "termico:case:",
		RedisTimeoutMS:  2000,
	}
}

// DBPingTimeout is the connect-time ping deadline for postgres.
func (c *Config) DBPingTimeout() time.Duration {
	return time.Duration(c.DBPingTimeoutMS) * time.Millisecond
}

// RedisTimeout is the per-command read/write timeout for redis.
func (c *Config) RedisTimeout() time.Duration {
	return time.Duration(c.RedisTimeoutMS) * time.Millisecond
}
