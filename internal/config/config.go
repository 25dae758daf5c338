// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/pacer/internal/dateutil"
	"github.com/javiermolinar/pacer/internal/schedule"
)

// Config holds the application configuration.
type Config struct {
	Schedule ScheduleConfig `toml:"schedule"`
	Storage  StorageConfig  `toml:"storage"`
	UI       UIConfig       `toml:"ui"`
}

// ScheduleConfig holds the schedule anchor and clock settings.
type ScheduleConfig struct {
	StartMode   string `toml:"start_mode"`   // "now" or "custom"
	CustomStart string `toml:"custom_start"` // e.g., "09:00" or "9:00 AM"
	Clock       string `toml:"clock"`        // "24h" or "12h"
	DebounceMs  int    `toml:"debounce_ms"`
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// UIConfig holds output settings.
type UIConfig struct {
	Color string `toml:"color"` // "auto", "always", "never"
	Theme string `toml:"theme"` // tracker palette
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			StartMode:   string(schedule.ModeNow),
			CustomStart: "",
			Clock:       string(dateutil.Clock24),
			DebounceMs:  int(schedule.DefaultDebounceDelay / time.Millisecond),
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Color: "auto",
			Theme: "mocha",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "pacer.db"
	}
	return filepath.Join(home, ".local", "share", "pacer", "pacer.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "pacer", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("PACER_START_MODE"); v != "" {
		cfg.Schedule.StartMode = v
	}
	if v := os.Getenv("PACER_CUSTOM_START"); v != "" {
		cfg.Schedule.CustomStart = v
	}
	if v := os.Getenv("PACER_CLOCK"); v != "" {
		cfg.Schedule.Clock = v
	}
	if v := os.Getenv("PACER_DEBOUNCE_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PACER_DEBOUNCE_MS: %w", err)
		}
		cfg.Schedule.DebounceMs = ms
	}

	if v := os.Getenv("PACER_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}

	if v := os.Getenv("PACER_COLOR"); v != "" {
		cfg.UI.Color = v
	}

	if v := os.Getenv("PACER_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch schedule.Mode(c.Schedule.StartMode) {
	case schedule.ModeNow:
	case schedule.ModeCustom:
		if c.Schedule.CustomStart == "" {
			return errors.New("custom_start must be set when start_mode is custom")
		}
	default:
		return fmt.Errorf("start_mode must be 'now' or 'custom', got %q", c.Schedule.StartMode)
	}
	if c.Schedule.CustomStart != "" {
		if _, ok := dateutil.ParseTime(c.Schedule.CustomStart, time.Now()); !ok {
			return fmt.Errorf("custom_start must be a time like 09:00, got %q", c.Schedule.CustomStart)
		}
	}

	if !dateutil.ClockFormat(c.Schedule.Clock).Valid() {
		return fmt.Errorf("clock must be '24h' or '12h', got %q", c.Schedule.Clock)
	}
	if c.Schedule.DebounceMs < 0 {
		return errors.New("debounce_ms cannot be negative")
	}

	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}

	switch c.UI.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("color must be 'auto', 'always' or 'never', got %q", c.UI.Color)
	}
	return nil
}

// ClockFormat returns the configured clock format.
func (c *Config) ClockFormat() dateutil.ClockFormat {
	return dateutil.ClockFormat(c.Schedule.Clock)
}

// DebounceDelay returns the configured recalculation delay.
func (c *Config) DebounceDelay() time.Duration {
	return time.Duration(c.Schedule.DebounceMs) * time.Millisecond
}

// ScheduleFor returns the calculator anchor for day. A custom start is
// placed on day's date.
func (c *Config) ScheduleFor(day time.Time) schedule.Config {
	cfg := schedule.Config{Mode: schedule.Mode(c.Schedule.StartMode)}
	if cfg.Mode == schedule.ModeCustom {
		cfg.CustomStart, _ = dateutil.ParseTime(c.Schedule.CustomStart, day)
	}
	return cfg
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
