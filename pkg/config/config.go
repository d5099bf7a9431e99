// Package config loads library configuration from a JSON file, falling back
// to defaults for anything unspecified.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
	"github.com/kasuganosora/sqlbridge/pkg/pool"
)

// Config is the top-level library configuration.
type Config struct {
	Connection  ConnectionConfig  `json:"connection"`
	Retry       RetryConfig       `json:"retry"`
	SchemaCache SchemaCacheConfig `json:"schema_cache"`
	Log         LogConfig         `json:"log"`

	// DisableContextTransactions turns off ambient transaction injection;
	// all transaction passing must then be explicit.
	DisableContextTransactions bool `json:"disable_context_transactions"`

	// InferIntent enables statement classification for queries whose intent
	// was left unspecified.
	InferIntent bool `json:"infer_intent"`
}

// ConnectionConfig tunes the connection provider's pools.
type ConnectionConfig struct {
	MaxOpen      int           `json:"max_open"`
	MaxIdle      int           `json:"max_idle"`
	Lifetime     time.Duration `json:"lifetime"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
	LeaseTimeout time.Duration `json:"lease_timeout"`
}

// RetryConfig is the default retry policy applied when callers opt into
// retries without supplying their own.
type RetryConfig struct {
	Max           int           `json:"max"`
	Backoff       time.Duration `json:"backoff"`
	BackoffFactor float64       `json:"backoff_factor"`
}

// SchemaCacheConfig tunes table-description caching.
type SchemaCacheConfig struct {
	Enabled bool          `json:"enabled"`
	TTL     time.Duration `json:"ttl"`
}

// LogConfig controls statement and warning logging.
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"` // json or text
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Connection: ConnectionConfig{
			MaxOpen:      10,
			MaxIdle:      5,
			Lifetime:     30 * time.Minute,
			IdleTimeout:  5 * time.Minute,
			LeaseTimeout: 10 * time.Second,
		},
		Retry: RetryConfig{
			Max:           3,
			Backoff:       100 * time.Millisecond,
			BackoffFactor: 2,
		},
		SchemaCache: SchemaCacheConfig{
			Enabled: false,
			TTL:     5 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig reads configuration from a JSON file layered over the defaults.
// An empty path returns the defaults.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadConfigOrDefault tries the SQLBRIDGE_CONFIG environment variable and a
// few conventional locations before falling back to defaults.
func LoadConfigOrDefault() *Config {
	if envPath := os.Getenv("SQLBRIDGE_CONFIG"); envPath != "" {
		if config, err := LoadConfig(envPath); err == nil {
			return config
		}
	}

	possiblePaths := []string{
		"sqlbridge.json",
		"./config/sqlbridge.json",
		"/etc/sqlbridge/config.json",
	}
	for _, path := range possiblePaths {
		if absPath, err := filepath.Abs(path); err == nil {
			if config, err := LoadConfig(absPath); err == nil {
				return config
			}
		}
	}

	return DefaultConfig()
}

func validateConfig(config *Config) error {
	if config.Connection.MaxOpen < 1 {
		return fmt.Errorf("connection.max_open must be positive")
	}
	if config.Connection.MaxIdle < 1 {
		return fmt.Errorf("connection.max_idle must be positive")
	}
	if config.Retry.Max < 1 {
		return fmt.Errorf("retry.max must be positive")
	}
	if config.Retry.BackoffFactor < 1 {
		return fmt.Errorf("retry.backoff_factor must be at least 1")
	}
	return nil
}

// PoolConfig converts the connection settings to the provider's form.
func (c *Config) PoolConfig() *pool.Config {
	return &pool.Config{
		MaxOpenConns:    c.Connection.MaxOpen,
		MaxIdleConns:    c.Connection.MaxIdle,
		ConnMaxLifetime: c.Connection.Lifetime,
		ConnMaxIdleTime: c.Connection.IdleTimeout,
		LeaseTimeout:    c.Connection.LeaseTimeout,
	}
}

// RetryOptions converts the retry settings to a policy matching retryable
// errors with match.
func (c *Config) RetryOptions(match func(error) bool) *domain.RetryOptions {
	return &domain.RetryOptions{
		Max:           c.Retry.Max,
		Backoff:       c.Retry.Backoff,
		BackoffFactor: c.Retry.BackoffFactor,
		Match:         match,
	}
}
