// Package config loads application configuration from environment variables.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Storage backend selectors for the trip, booking, and registry stores.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRest     = "rest"
)

// Config holds all settings for the trip engine service.
// Environment variables are parsed with the TRIP_ENGINE_ prefix,
// e.g. TRIP_ENGINE_HTTP_PORT.
type Config struct {
	HTTPPort int    `envconfig:"HTTP_PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// StorageBackend selects where trips, bookings, and registries live:
	// memory (volatile, dev/test), postgres, or rest (a remote trip-data
	// service reached over HTTP).
	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"memory"`

	// PostgresDSN is required when StorageBackend is postgres.
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	// MigrateOnBoot runs embedded goose migrations at startup.
	MigrateOnBoot bool `envconfig:"MIGRATE_ON_BOOT" default:"true"`

	// RemoteStoreURL is required when StorageBackend is rest.
	RemoteStoreURL string `envconfig:"REMOTE_STORE_URL" default:""`

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`
}

// Load parses and validates configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("TRIP_ENGINE", &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StorageBackend {
	case BackendMemory:
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("TRIP_ENGINE_POSTGRES_DSN is required for the postgres backend")
		}
	case BackendRest:
		if c.RemoteStoreURL == "" {
			return fmt.Errorf("TRIP_ENGINE_REMOTE_STORE_URL is required for the rest backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
	return nil
}
