// Package config provides centralized configuration management for the
// migration tool. It loads configuration from environment variables with
// sensible defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

import "time"

// Config holds all tool configuration.
// All settings can be configured via environment variables.
type Config struct {
	Database DatabaseConfig
	Import   ImportConfig
	Logging  LoggingConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required)
	// Supports both DATABASE_URL and SUPABASE_DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"SUPABASE_DB_URL" required:"true"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	// The pipeline is single-threaded, so a small pool is plenty.
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `env:"DB_MIN_CONNS" default:"1"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// ImportConfig holds import run settings.
type ImportConfig struct {
	// TicketBatchSize is the number of tickets to insert per batch (default: 100)
	TicketBatchSize int `env:"IMPORT_TICKET_BATCH_SIZE" default:"100"`

	// EntityBatchSize is the number of entities to insert per batch (default: 50)
	EntityBatchSize int `env:"IMPORT_ENTITY_BATCH_SIZE" default:"50"`

	// Timeout is the maximum duration for a single run (default: 30m)
	Timeout time.Duration `env:"IMPORT_TIMEOUT" default:"30m"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}
