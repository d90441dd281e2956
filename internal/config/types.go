package config

import (
	"fmt"
	"strings"
)

// UI modes.
const (
	UIRaw = "raw"
	UITUI = "tui"
)

// Default values.
const (
	DefaultUI        = UIRaw
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

var (
	validUIs        = []string{UIRaw, UITUI}
	validLogLevels  = []string{"debug", "info", "warn", "warning", "error", "fatal"}
	validLogFormats = []string{"text", "json", "logfmt"}
)

// Config holds the full configuration for taskflow.
type Config struct {
	// Path of the config file that was applied, if any.
	ConfigFile string `toml:"-"`

	// Frontend
	UI          string `toml:"ui"`
	Color       bool   `toml:"color"`
	Banner      bool   `toml:"banner"`
	ClearScreen bool   `toml:"clear_screen"`

	// Logging configuration
	LogDir        string `toml:"log_dir"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
}

func setDefaults(cfg *Config) {
	cfg.UI = DefaultUI
	cfg.Color = true
	cfg.Banner = true
	cfg.ClearScreen = true

	cfg.LogDir = ""
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = true
	cfg.LogCaller = false
}

// Validate checks enumerated settings. Values from a config file are
// already schema-checked; this catches env and flag input.
func (c *Config) Validate() error {
	if !oneOf(c.UI, validUIs) {
		return fmt.Errorf("invalid ui %q (want %s)", c.UI, strings.Join(validUIs, "|"))
	}
	if !oneOf(strings.ToLower(c.LogLevel), validLogLevels) {
		return fmt.Errorf("invalid log level %q (want debug|info|warn|error|fatal)", c.LogLevel)
	}
	if !oneOf(strings.ToLower(c.LogFormat), validLogFormats) {
		return fmt.Errorf("invalid log format %q (want %s)", c.LogFormat, strings.Join(validLogFormats, "|"))
	}
	return nil
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
