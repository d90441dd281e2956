package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// clearEnv unsets every variable Load reads so the host environment does
// not leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvConfigFile, "NO_COLOR",
		"TASKFLOW_UI", "TASKFLOW_COLOR", "TASKFLOW_BANNER", "TASKFLOW_CLEAR_SCREEN",
		"TASKFLOW_LOG_DIR", "TASKFLOW_LOG_LEVEL", "TASKFLOW_LOG_FORMAT",
		"TASKFLOW_LOG_TIMESTAMPS", "TASKFLOW_LOG_CALLER",
	} {
		if v, ok := os.LookupEnv(key); ok {
			t.Setenv(key, v)
			os.Unsetenv(key)
		}
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taskflow.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func load(t *testing.T, args ...string) *Config {
	t.Helper()
	cfg, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), args)
	if err != nil {
		t.Fatalf("Load(%v): %v", args, err)
	}
	return cfg
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	cfg := load(t)

	if cfg.UI != DefaultUI {
		t.Errorf("UI: got %q, want %q", cfg.UI, DefaultUI)
	}
	if !cfg.Color || !cfg.Banner || !cfg.ClearScreen {
		t.Errorf("expected color, banner and clear enabled: %+v", cfg)
	}
	if cfg.LogDir != "" {
		t.Errorf("LogDir: got %q, want empty", cfg.LogDir)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel: got %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
	if cfg.LogFormat != DefaultLogFormat {
		t.Errorf("LogFormat: got %q, want %q", cfg.LogFormat, DefaultLogFormat)
	}
	if cfg.ConfigFile != "" {
		t.Errorf("ConfigFile: got %q, want empty", cfg.ConfigFile)
	}
}

func TestConfigFile(t *testing.T) {
	t.Run("flag path is applied", func(t *testing.T) {
		clearEnv(t)
		path := writeConfig(t, `
ui = "tui"
color = false
log_level = "debug"
log_format = "json"
`)
		cfg := load(t, "-config", path)

		if cfg.UI != UITUI {
			t.Errorf("UI: got %q, want tui", cfg.UI)
		}
		if cfg.Color {
			t.Error("Color: got true, want false")
		}
		if cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
			t.Errorf("logging: got %q/%q, want debug/json", cfg.LogLevel, cfg.LogFormat)
		}
		if cfg.ConfigFile != path {
			t.Errorf("ConfigFile: got %q, want %q", cfg.ConfigFile, path)
		}
	})

	t.Run("equals form", func(t *testing.T) {
		clearEnv(t)
		path := writeConfig(t, `banner = false`)
		cfg := load(t, "--config="+path)
		if cfg.Banner {
			t.Error("Banner: got true, want false")
		}
	})

	t.Run("env path is applied", func(t *testing.T) {
		clearEnv(t)
		path := writeConfig(t, `clear_screen = false`)
		t.Setenv(EnvConfigFile, path)

		cfg := load(t)
		if cfg.ClearScreen {
			t.Error("ClearScreen: got true, want false")
		}
	})

	t.Run("flag path wins over env path", func(t *testing.T) {
		clearEnv(t)
		envPath := writeConfig(t, `ui = "raw"`)
		flagPath := writeConfig(t, `ui = "tui"`)
		t.Setenv(EnvConfigFile, envPath)

		cfg := load(t, "-config", flagPath)
		if cfg.UI != UITUI {
			t.Errorf("UI: got %q, want tui", cfg.UI)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(flag.NewFlagSet("test", flag.ContinueOnError),
			[]string{"-config", filepath.Join(t.TempDir(), "nope.toml")})
		if err == nil {
			t.Fatal("expected error for missing config file")
		}
	})

	t.Run("malformed toml", func(t *testing.T) {
		clearEnv(t)
		path := writeConfig(t, `ui = `)
		_, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-config", path})
		if err == nil || !strings.Contains(err.Error(), path) {
			t.Fatalf("expected error naming %s, got %v", path, err)
		}
	})
}

func TestConfigFileSchema(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantPath string
	}{
		{"bad enum", `ui = "gui"`, "ui"},
		{"wrong type", `color = "yes"`, "color"},
		{"bad log level", `log_level = "loud"`, "log_level"},
		{"unknown key", `theme = "dark"`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := writeConfig(t, tt.body)
			_, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-config", path})
			if err == nil {
				t.Fatal("expected schema error")
			}
			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("expected FieldError, got %T: %v", err, err)
			}
			if fe.Path != tt.wantPath {
				t.Errorf("path: got %q, want %q (%v)", fe.Path, tt.wantPath, err)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `ui = "tui"
log_level = "warn"`)
	t.Setenv(EnvConfigFile, path)
	t.Setenv("TASKFLOW_UI", "raw")
	t.Setenv("TASKFLOW_BANNER", "off")
	t.Setenv("TASKFLOW_LOG_CALLER", "yes")
	t.Setenv("TASKFLOW_LOG_TIMESTAMPS", "garbage")

	cfg := load(t)

	if cfg.UI != UIRaw {
		t.Errorf("UI: got %q, want raw (env over file)", cfg.UI)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel: got %q, want warn from file", cfg.LogLevel)
	}
	if cfg.Banner {
		t.Error("Banner: got true, want false")
	}
	if !cfg.LogCaller {
		t.Error("LogCaller: got false, want true")
	}
	if !cfg.LogTimestamps {
		t.Error("LogTimestamps: unparseable env value should keep the default")
	}
}

func TestNoColor(t *testing.T) {
	t.Run("disables color", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("NO_COLOR", "1")
		if cfg := load(t); cfg.Color {
			t.Error("Color: got true, want false with NO_COLOR")
		}
	})

	t.Run("explicit setting wins", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("NO_COLOR", "1")
		t.Setenv("TASKFLOW_COLOR", "true")
		if cfg := load(t); !cfg.Color {
			t.Error("Color: got false, want true from TASKFLOW_COLOR")
		}
	})
}

func TestFlagOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TASKFLOW_UI", "tui")
	t.Setenv("TASKFLOW_LOG_LEVEL", "error")

	cfg := load(t, "-ui", "raw", "-log-level", "DEBUG", "-color=false", "-log-dir", "/tmp/taskflow-logs")

	if cfg.UI != UIRaw {
		t.Errorf("UI: got %q, want raw", cfg.UI)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug (lowercased)", cfg.LogLevel)
	}
	if cfg.Color {
		t.Error("Color: got true, want false")
	}
	if cfg.LogDir != "/tmp/taskflow-logs" {
		t.Errorf("LogDir: got %q", cfg.LogDir)
	}
}

func TestRemainingArgs(t *testing.T) {
	clearEnv(t)
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	if _, err := Load(fs, []string{"-banner=false", "tui", "extra"}); err != nil {
		t.Fatal(err)
	}
	if got := fs.Args(); len(got) != 2 || got[0] != "tui" {
		t.Errorf("Args: got %v, want [tui extra]", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad ui", func(c *Config) { c.UI = "web" }, "invalid ui"},
		{"bad level", func(c *Config) { c.LogLevel = "trace" }, "invalid log level"},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, "invalid log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			setDefaults(cfg)
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error: got %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestInvalidFlagValue(t *testing.T) {
	clearEnv(t)
	_, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-ui", "web"})
	if err == nil || !strings.Contains(err.Error(), "invalid ui") {
		t.Errorf("expected invalid ui error, got %v", err)
	}
}

func TestConfigFileFromArgs(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, ""},
		{[]string{"-config", "a.toml"}, "a.toml"},
		{[]string{"--config", "b.toml"}, "b.toml"},
		{[]string{"-config=c.toml"}, "c.toml"},
		{[]string{"-ui", "tui", "--config=d.toml"}, "d.toml"},
		{[]string{"-config"}, ""},
		{[]string{"--", "-config", "e.toml"}, ""},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			if got := configFileFromArgs(tt.args); got != tt.want {
				t.Errorf("configFileFromArgs(%v) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	t.Setenv("TASKFLOW_TEST_DIR", "/var/tmp/tf")

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"~", home},
		{"~/logs", filepath.Join(home, "logs")},
		{"$TASKFLOW_TEST_DIR/logs", "/var/tmp/tf/logs"},
		{"/abs/path", "/abs/path"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := expandPath(tt.in); got != tt.want {
				t.Errorf("expandPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		in       string
		want, ok bool
	}{
		{"1", true, true},
		{"TRUE", true, true},
		{" yes ", true, true},
		{"on", true, true},
		{"0", false, true},
		{"off", false, true},
		{"No", false, true},
		{"maybe", false, false},
	}
	for _, tt := range tests {
		got, ok := parseBool(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseBool(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPointerToPath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"/ui", "ui"},
		{"#/log_level", "log_level"},
		{"/a~1b/c~0d", "a/b.c~d"},
	}
	for _, tt := range tests {
		if got := pointerToPath(tt.in); got != tt.want {
			t.Errorf("pointerToPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestApplyFlags(t *testing.T) {
	t.Run("overrides loaded values", func(t *testing.T) {
		clearEnv(t)
		cfg := load(t, "-color=true")
		fs := flag.NewFlagSet("test tui", flag.ContinueOnError)

		if err := cfg.ApplyFlags(fs, []string{"-color=false", "-log-level", "WARN"}); err != nil {
			t.Fatal(err)
		}
		if cfg.Color {
			t.Error("Color: got true, want false")
		}
		if cfg.LogLevel != "warn" {
			t.Errorf("LogLevel: got %q, want warn", cfg.LogLevel)
		}
		if cfg.UI != DefaultUI {
			t.Errorf("UI: got %q, want unchanged %q", cfg.UI, DefaultUI)
		}
	})

	t.Run("rejects config file", func(t *testing.T) {
		clearEnv(t)
		cfg := load(t)
		err := cfg.ApplyFlags(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-config", "x.toml"})
		if err == nil || !strings.Contains(err.Error(), "-config must come before") {
			t.Errorf("expected -config error, got %v", err)
		}
	})

	t.Run("validates", func(t *testing.T) {
		clearEnv(t)
		cfg := load(t)
		err := cfg.ApplyFlags(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-log-format", "xml"})
		if err == nil || !strings.Contains(err.Error(), "invalid log format") {
			t.Errorf("expected invalid log format, got %v", err)
		}
	})
}
