package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const maxDiffWorkers = 16

// Validate checks every field and resolves the display location. It must be
// called again after fields are overridden.
func (c *Config) Validate() error {
	if err := c.validateLogLevel(); err != nil {
		return err
	}

	if err := c.validateTimezone(); err != nil {
		return err
	}

	if err := c.validateWorkers(); err != nil {
		return err
	}

	return nil
}

func (c *Config) validateLogLevel() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL is not a valid level: %w", err)
	}

	return nil
}

func (c *Config) validateTimezone() error {
	if strings.TrimSpace(c.DisplayTimezone) == "" {
		return fmt.Errorf("DISPLAY_TIMEZONE is required")
	}

	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		return fmt.Errorf("DISPLAY_TIMEZONE is not a known time zone: %w", err)
	}

	c.loc = loc

	return nil
}

func (c *Config) validateWorkers() error {
	if c.DiffWorkers < 1 || c.DiffWorkers > maxDiffWorkers {
		return fmt.Errorf("DIFF_WORKERS must be an integer between 1 and %d, got %d", maxDiffWorkers, c.DiffWorkers)
	}

	return nil
}
