// Package config loads coordinator configuration from a TOML file with
// environment variable overrides. Layering order is defaults, then file,
// then environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "XYLEM_"

// ErrInvalidConfig indicates a configuration value failed validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds coordinator configuration.
type Config struct {
	Logging LoggingConfig `toml:"logging"`
	History HistoryConfig `toml:"history"`
	Session SessionConfig `toml:"session"`
}

// LoggingConfig configures the coordinator logger.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, or error.
	Level string `toml:"level"`
}

// HistoryConfig configures per-document edit histories.
type HistoryConfig struct {
	// MaxEntries bounds each document's history log.
	MaxEntries int `toml:"max_entries"`
}

// SessionConfig carries host session settings surfaced in state snapshots.
type SessionConfig struct {
	// Locale is the host locale identifier.
	Locale string `toml:"locale"`

	// Extensions lists active host extension identifiers.
	Extensions []string `toml:"extensions"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		History: HistoryConfig{MaxEntries: 1000},
		Session: SessionConfig{Locale: "en"},
	}
}

// ParseError describes a configuration file that could not be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load builds a configuration from the file at path plus environment
// overrides. An empty path or a missing file yields defaults with
// overrides applied.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Missing files fall back to defaults.
		case err != nil:
			return Config{}, err
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return Config{}, &ParseError{Path: path, Err: err}
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv applies XYLEM_ environment overrides.
// Empty values are treated as set.
func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(EnvPrefix + "LOG_LEVEL"); ok {
		c.Logging.Level = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "LOCALE"); ok {
		c.Session.Locale = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "EXTENSIONS"); ok {
		c.Session.Extensions = splitList(v)
	}
	if v, ok := os.LookupEnv(EnvPrefix + "HISTORY_MAX_ENTRIES"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.History.MaxEntries = n
		}
	}
}

// Validate checks the configuration for inconsistent values.
func (c Config) Validate() error {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Logging.Level)
	}

	if c.History.MaxEntries <= 0 {
		return fmt.Errorf("%w: history max_entries must be positive, got %d", ErrInvalidConfig, c.History.MaxEntries)
	}

	return nil
}

// splitList splits a comma-separated list, trimming whitespace and
// dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
