package config

import (
	"flag"
	"fmt"
)

// parseFlags defines the global flags on fs and parses args over cfg.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("taskflow", flag.ContinueOnError)
	}

	// Already applied by Load; registered so parsing accepts it.
	var configFile string
	fs.StringVar(&configFile, "config", cfg.ConfigFile, "Path to a TOML config file")

	// Frontend
	fs.StringVar(&cfg.UI, "ui", cfg.UI, "UI mode (raw, tui)")
	fs.BoolVar(&cfg.Color, "color", cfg.Color, "Colorize output")
	fs.BoolVar(&cfg.Banner, "banner", cfg.Banner, "Show the banner on start")
	fs.BoolVar(&cfg.ClearScreen, "clear", cfg.ClearScreen, "Clear the screen on start")

	// Logging
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Session log directory (empty disables logging)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	return fs.Parse(args)
}

// ApplyFlags parses command-level flags over an already loaded config, so
// options may follow the command name. -config is rejected here since the
// file layer has already been applied.
func (c *Config) ApplyFlags(fs *flag.FlagSet, args []string) error {
	if configFileFromArgs(args) != "" {
		return fmt.Errorf("-config must come before the command")
	}
	if err := parseFlags(c, fs, args); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}
	return finalizeConfig(c)
}
