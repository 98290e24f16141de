package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config holds all runchart configuration.
type Config struct {
	// Theme is the color theme name, "light" or "dark".
	Theme string `toml:"theme"`
	// SnapshotFile is the path of the JSON run snapshot to watch.
	SnapshotFile string `toml:"snapshot_file"`
	// RefreshSeconds overrides the refresh interval for active runs.
	RefreshSeconds int `toml:"refresh_seconds"`
	// ChartHeight caps the chart height in rows; 0 means use the terminal.
	ChartHeight int `toml:"chart_height"`
}

const defaultRefreshSeconds = 5

// RefreshSecondsOrDefault returns RefreshSeconds if set, otherwise defaultRefreshSeconds.
func (c Config) RefreshSecondsOrDefault() int {
	if c.RefreshSeconds > 0 {
		return c.RefreshSeconds
	}
	return defaultRefreshSeconds
}

// LoadFrom reads configuration from the given TOML file path.
// If the file does not exist, it returns an empty config without error.
// Environment variables always take precedence over file values:
//   - RUNCHART_THEME    overrides theme
//   - RUNCHART_SNAPSHOT overrides snapshot_file
//   - RUNCHART_REFRESH  overrides refresh_seconds
func LoadFrom(path string) (Config, error) {
	var cfg Config
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// DefaultConfigPath returns the default path for the runchart config file.
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return home + "/.config/runchart/config.toml"
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RUNCHART_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("RUNCHART_SNAPSHOT"); v != "" {
		cfg.SnapshotFile = v
	}
	if v := os.Getenv("RUNCHART_REFRESH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RefreshSeconds = n
		}
	}
}

// Save writes cfg to the given TOML file path, creating parent directories as needed.
// Existing file contents are overwritten. Permissions on the written file are 0600.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("opening config file: %w", err)
	}
	if encErr := toml.NewEncoder(f).Encode(cfg); encErr != nil {
		f.Close()
		return encErr
	}
	return f.Close()
}
