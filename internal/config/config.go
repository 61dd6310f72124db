// Package config loads the countdown settings from a YAML file, falling back
// to defaults for anything missing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Timer TimerConfig `yaml:"timer"`
	UI    UIConfig    `yaml:"ui"`
	Log   LogConfig   `yaml:"log"`
}

// TimerConfig holds the countdown defaults.
type TimerConfig struct {
	Interval time.Duration `yaml:"interval"` // How often the readout updates
	Hours    int           `yaml:"hours"`    // Prefilled hours
	Minutes  int           `yaml:"minutes"`  // Prefilled minutes
	Seconds  int           `yaml:"seconds"`  // Prefilled seconds
}

// UIConfig holds presentation settings.
type UIConfig struct {
	AltScreen     bool   `yaml:"alt_screen"`
	GradientStart string `yaml:"gradient_start"`
	GradientEnd   string `yaml:"gradient_end"`
	HistoryLimit  int    `yaml:"history_limit"` // Runs shown in the history view
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Empty disables logging
}

func DefaultConfig() *Config {
	return &Config{
		Timer: TimerConfig{
			Interval: time.Second,
		},
		UI: UIConfig{
			AltScreen:     true,
			GradientStart: "#5A56E0",
			GradientEnd:   "#EE6FF8",
			HistoryLimit:  50,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/countdown/config.yaml, or the same
// under ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "countdown", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "countdown", "config.yaml"), nil
}

// LoadFromFile reads path on top of the defaults. A missing file is not an
// error.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.ApplyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) SaveToFile(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

func (c *Config) Validate() error {
	if c.Timer.Interval <= 0 {
		return fmt.Errorf("timer.interval must be positive, got %s", c.Timer.Interval)
	}
	if c.Timer.Hours < 0 {
		return fmt.Errorf("timer.hours must not be negative, got %d", c.Timer.Hours)
	}
	if c.Timer.Minutes < 0 || c.Timer.Minutes > 59 {
		return fmt.Errorf("timer.minutes must be in [0,59], got %d", c.Timer.Minutes)
	}
	if c.Timer.Seconds < 0 || c.Timer.Seconds > 59 {
		return fmt.Errorf("timer.seconds must be in [0,59], got %d", c.Timer.Seconds)
	}
	if !isValidLogLevel(c.Log.Level) {
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	return nil
}

func isValidLogLevel(level string) bool {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

// ApplyEnvOverrides applies COUNTDOWN_DEBUG and COUNTDOWN_LOG_FILE.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("COUNTDOWN_DEBUG"); v == "1" || strings.EqualFold(v, "true") {
		c.Log.Level = "debug"
	}
	if v := os.Getenv("COUNTDOWN_LOG_FILE"); v != "" {
		c.Log.File = v
	}
}
