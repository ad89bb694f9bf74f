package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/printdesk/versions/internal/config"
)

// configFile is the on-disk CLI configuration. Top-level settings apply
// first, then the active profile.
type configFile struct {
	Settings      configProfile            `yaml:",inline"`
	Profiles      map[string]configProfile `yaml:"profiles"`
	ActiveProfile string                   `yaml:"active_profile"`
}

type configProfile struct {
	LogLevel           string `yaml:"log_level"`
	DisplayTimezone    string `yaml:"display_timezone"`
	DiffWorkers        int    `yaml:"diff_workers"`
	DiffIncludeRemoved *bool  `yaml:"diff_include_removed"`
}

func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".versionctl", "config.yaml")
}

// applyConfigFile fills settings whose env var is unset from the config file.
// A missing default config file is not an error; a missing --config file is.
func applyConfigFile(cfg *config.Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && flagConfig == "" {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	var f configFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	f.Settings.apply(cfg)

	name := flagProfile
	if name == "" {
		name = os.Getenv("VERSIONCTL_PROFILE")
	}
	if name == "" {
		name = f.ActiveProfile
	}
	if name == "" {
		name = "default"
	}

	if p, ok := f.Profiles[name]; ok {
		p.apply(cfg)
	} else if flagProfile != "" {
		return fmt.Errorf("profile %q not found in %s", flagProfile, path)
	}

	return nil
}

func (p configProfile) apply(cfg *config.Config) {
	if p.LogLevel != "" && os.Getenv("LOG_LEVEL") == "" {
		cfg.LogLevel = p.LogLevel
	}
	if p.DisplayTimezone != "" && os.Getenv("DISPLAY_TIMEZONE") == "" {
		cfg.DisplayTimezone = p.DisplayTimezone
	}
	if p.DiffWorkers != 0 && os.Getenv("DIFF_WORKERS") == "" {
		cfg.DiffWorkers = p.DiffWorkers
	}
	if p.DiffIncludeRemoved != nil && os.Getenv("DIFF_INCLUDE_REMOVED") == "" {
		cfg.DiffIncludeRemoved = *p.DiffIncludeRemoved
	}
}
