package config

import (
	"os"
	"strings"
)

// loadFromEnv overrides config from TASKFLOW_* environment variables.
// Unparseable booleans are ignored.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TASKFLOW_UI"); v != "" {
		cfg.UI = v
	}
	setEnvBool(&cfg.Color, "TASKFLOW_COLOR")
	setEnvBool(&cfg.Banner, "TASKFLOW_BANNER")
	setEnvBool(&cfg.ClearScreen, "TASKFLOW_CLEAR_SCREEN")

	// NO_COLOR is honored unless TASKFLOW_COLOR says otherwise.
	if _, ok := os.LookupEnv("NO_COLOR"); ok && os.Getenv("TASKFLOW_COLOR") == "" {
		cfg.Color = false
	}

	// Logging configuration
	if v := os.Getenv("TASKFLOW_LOG_DIR"); v != "" {
		cfg.LogDir = v
	}
	if v := os.Getenv("TASKFLOW_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TASKFLOW_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	setEnvBool(&cfg.LogTimestamps, "TASKFLOW_LOG_TIMESTAMPS")
	setEnvBool(&cfg.LogCaller, "TASKFLOW_LOG_CALLER")
}

func setEnvBool(dst *bool, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	if b, ok := parseBool(v); ok {
		*dst = b
	}
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}
