// Package config loads CLI settings from flags, DWF_ environment variables
// and an optional dwf.yaml file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Backends selectable with the backend key.
const (
	BackendSim    = "sim"
	BackendNative = "native"
)

// Config holds the resolved settings.
type Config struct {
	// Backend is "sim" for the in-memory simulator or "native" for libdwf.
	Backend string `mapstructure:"backend"`
	// Device selects a device by index, serial number or user name.
	Device       string        `mapstructure:"device"`
	LogLevel     string        `mapstructure:"log_level"`
	Store        string        `mapstructure:"store"`
	MetricsAddr  string        `mapstructure:"metrics_addr"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// New returns a viper instance with defaults and environment binding set
// up. Flags are bound by the caller.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("backend", BackendNative)
	v.SetDefault("device", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("store", DefaultStorePath())
	v.SetDefault("metrics_addr", "")
	v.SetDefault("poll_interval", 10*time.Millisecond)

	v.SetEnvPrefix("DWF")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// DefaultStorePath is the capture database under the user data directory.
func DefaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "captures.db"
	}
	return filepath.Join(home, ".local", "share", "dwf", "captures.db")
}

// Load reads file, or dwf.yaml from the working directory or
// $HOME/.config/dwf when file is empty, and returns the merged settings. A
// missing default config file is not an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("dwf")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "dwf"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSim, BackendNative:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendSim, BackendNative)
	}
	if c.LogLevel != "" {
		if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval)
	}
	return nil
}
