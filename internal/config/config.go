package config

import (
	"os"
	"strconv"

	"renastat/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data     DataConfig
	Database DatabaseConfig
	Server   ServerConfig
}

// DataConfig holds dataset input settings
type DataConfig struct {
	File      string // CSV or XLSX path; empty means demo data
	SheetName string // Excel sheet to read, default Sheet1
	OutDir    string // directory for exported bundle JSON
}

// DatabaseConfig holds optional Postgres persistence settings.
// An empty URL disables persistence.
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds report server settings
type ServerConfig struct {
	Port string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Data: DataConfig{
			File:      getEnvOrDefault("DATA_FILE", ""),
			SheetName: getEnvOrDefault("DATA_SHEET", "Sheet1"),
			OutDir:    getEnvOrDefault("OUT_DIR", "."),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("server port must be numeric")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
