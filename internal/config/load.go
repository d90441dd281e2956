package config

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// EnvConfigFile names the environment variable holding a config file path.
const EnvConfigFile = "TASKFLOW_CONFIG"

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. Config file from -config or TASKFLOW_CONFIG
// 3. Environment variables
// 4. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Explicit config file; the flag wins over the environment
	path := configFileFromArgs(args)
	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		path = expandPath(path)
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
		cfg.ConfigFile = path
	}

	// 3. Override from environment
	loadFromEnv(cfg)

	// 4. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 5. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cfg, nil
}

// loadConfigFile validates the TOML file against the schema and decodes
// it over cfg.
func loadConfigFile(cfg *Config, path string) error {
	var raw map[string]any
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return err
	}
	if err := validateDocument(raw); err != nil {
		return err
	}
	_, err := toml.DecodeFile(path, cfg)
	return err
}

// configFileFromArgs finds -config ahead of full flag parsing, since the
// file layer sits below the flag layer.
func configFileFromArgs(args []string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return ""
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		name := strings.TrimLeft(arg, "-")
		if value, ok := strings.CutPrefix(name, "config="); ok {
			return value
		}
		if name == "config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// finalizeConfig computes derived values and validates settings.
func finalizeConfig(cfg *Config) error {
	cfg.LogDir = expandPath(cfg.LogDir)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	cfg.UI = strings.ToLower(strings.TrimSpace(cfg.UI))
	return cfg.Validate()
}
