package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func load(t *testing.T, args ...string) *Config {
	t.Helper()
	fs := flag.NewFlagSet("todotui", flag.ContinueOnError)
	cfg, err := Load(fs, args)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := load(t)

	if cfg.DataFile != DefaultDataFile {
		t.Errorf("DataFile = %q, want %q", cfg.DataFile, DefaultDataFile)
	}
	if cfg.DefaultFilter != "all" {
		t.Errorf("DefaultFilter = %q, want all", cfg.DefaultFilter)
	}
	if cfg.LogLevel != "warn" || cfg.LogFormat != "text" {
		t.Errorf("log defaults = %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestConfigFileLayer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
data_file = "/tmp/elsewhere.json"
default_filter = "active"
log_level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg := load(t, "-config", path)
	if cfg.DataFile != "/tmp/elsewhere.json" {
		t.Errorf("DataFile = %q", cfg.DataFile)
	}
	if cfg.DefaultFilter != "active" {
		t.Errorf("DefaultFilter = %q", cfg.DefaultFilter)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.ConfigFile != path {
		t.Errorf("ConfigFile = %q, want %q", cfg.ConfigFile, path)
	}
	// Unset fields keep their defaults.
	if cfg.LogFormat != DefaultLogFormat {
		t.Errorf("LogFormat = %q, want default", cfg.LogFormat)
	}
}

func TestBadConfigFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("data_file = [broken"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	fs := flag.NewFlagSet("todotui", flag.ContinueOnError)
	if _, err := Load(fs, []string{"-config", path}); err == nil {
		t.Error("Load() should fail on an unparseable config file")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`default_filter = "active"`), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	t.Setenv("TODOTUI_FILTER", "done")
	t.Setenv("TODOTUI_DATA_FILE", "/tmp/env.json")

	cfg := load(t, "-config", path)
	if cfg.DefaultFilter != "done" {
		t.Errorf("DefaultFilter = %q, want env value", cfg.DefaultFilter)
	}
	if cfg.DataFile != "/tmp/env.json" {
		t.Errorf("DataFile = %q, want env value", cfg.DataFile)
	}
}

func TestFlagsOverrideEverything(t *testing.T) {
	t.Setenv("TODOTUI_FILTER", "done")
	t.Setenv("TODOTUI_LOG_LEVEL", "info")

	cfg := load(t, "-filter", "active", "-log-level", "error", "-data", "flagged.json")
	if cfg.DefaultFilter != "active" {
		t.Errorf("DefaultFilter = %q, want flag value", cfg.DefaultFilter)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want flag value", cfg.LogLevel)
	}
	if cfg.DataFile != "flagged.json" {
		t.Errorf("DataFile = %q, want flag value", cfg.DataFile)
	}
}

func TestEnvConfigFilePointer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alt.toml")
	if err := os.WriteFile(path, []byte(`log_format = "json"`), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	t.Setenv("TODOTUI_CONFIG", path)

	cfg := load(t)
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want json from TODOTUI_CONFIG file", cfg.LogFormat)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/tasks.json", filepath.Join(home, "tasks.json")},
		{"plain.json", "plain.json"},
	}
	for _, tt := range tests {
		if got := expandPath(tt.in); got != tt.want {
			t.Errorf("expandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
