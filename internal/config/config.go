// Package config provides environment-driven configuration for the version tools.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration values.
type Config struct {
	LogLevel           string
	DisplayTimezone    string
	DiffWorkers        int
	DiffIncludeRemoved bool

	loc *time.Location
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
		DisplayTimezone:    envOrDefault("DISPLAY_TIMEZONE", "UTC"),
		DiffIncludeRemoved: envOrDefault("DIFF_INCLUDE_REMOVED", "false") == "true",
	}

	workers, err := strconv.Atoi(envOrDefault("DIFF_WORKERS", "4"))
	if err != nil {
		return nil, fmt.Errorf("DIFF_WORKERS must be an integer between 1 and 16")
	}
	cfg.DiffWorkers = workers

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Location returns the display time zone resolved during validation, or UTC.
func (c *Config) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}

	return c.loc
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}

	return fallback
}
