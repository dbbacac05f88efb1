// Package config handles configuration loading and defaults.
//
// Values are layered: defaults, then the user config file, then
// environment variables, then CLI flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultDataFile  = "todo_data.json"
	DefaultFilter    = "all"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for todotui.
type Config struct {
	// DataFile is the JSON task file. Relative paths resolve against the
	// working directory, matching the original app.
	DataFile string `toml:"data_file"`

	// DefaultFilter is the filter the TUI starts with: all, active, done.
	DefaultFilter string `toml:"default_filter"`

	// Logging
	LogLevel  string `toml:"log_level"`  // debug, info, warn, error
	LogFormat string `toml:"log_format"` // text, json
	LogFile   string `toml:"log_file"`   // empty: stderr for CLI, discard for TUI

	// ConfigFile records where the file layer was read from, for diagnostics.
	ConfigFile string `toml:"-"`
}

// Load builds the configuration from all layers. The flag set is supplied
// by the caller so config flags and command routing parse together.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	// Flag values land in shadow variables and are applied after the file
	// and env layers, so an explicit flag always wins.
	configPath := fs.String("config", "", "Path to config file")
	dataFile := fs.String("data", "", "Path to the task data file")
	filter := fs.String("filter", "", "Initial filter (all, active, done)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	logFormat := fs.String("log-format", "", "Log format (text, json)")
	logFile := fs.String("log-file", "", "Log file path (default: stderr)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	file := *configPath
	if file == "" {
		file = os.Getenv("TODOTUI_CONFIG")
	}
	if file != "" {
		file = expandPath(file)
	} else {
		file = findUserConfigFile()
	}
	if file != "" {
		if err := loadConfigFile(cfg, file); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", file, err)
		}
		cfg.ConfigFile = file
	}

	loadFromEnv(cfg)

	if *dataFile != "" {
		cfg.DataFile = *dataFile
	}
	if *filter != "" {
		cfg.DefaultFilter = *filter
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *logFormat != "" {
		cfg.LogFormat = *logFormat
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}

	cfg.DataFile = expandPath(cfg.DataFile)
	cfg.LogFile = expandPath(cfg.LogFile)
	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.DataFile = DefaultDataFile
	cfg.DefaultFilter = DefaultFilter
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

// findUserConfigFile returns the user config path if it exists, else "".
func findUserConfigFile() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(base, "todotui", "config.toml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

// loadFromEnv overrides config from TODOTUI_* environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TODOTUI_DATA_FILE"); v != "" {
		cfg.DataFile = v
	}
	if v := os.Getenv("TODOTUI_FILTER"); v != "" {
		cfg.DefaultFilter = v
	}
	if v := os.Getenv("TODOTUI_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TODOTUI_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TODOTUI_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
}
