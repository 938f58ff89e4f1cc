// Package config holds the harness-level settings that drive the CLI and
// persistence layers around the consensus core. The core itself never
// reads a Config — it is parameterized purely through explicit arguments.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config is the plain settings struct consumed by cmd/headerengine-cli and
// store.Open.
type Config struct {
	DataDir         string `json:"data_dir"`
	LogLevel        string `json:"log_level"`
	AllowHeaderOnly bool   `json:"allow_header_only"`
}

var allowedLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// DefaultDataDir returns the per-user data directory used when DataDir is
// left unset.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".headerengine"
	}
	return filepath.Join(home, ".headerengine")
}

// DefaultConfig returns the settings the CLI harness starts from absent any
// overrides.
func DefaultConfig() Config {
	return Config{
		DataDir:         DefaultDataDir(),
		LogLevel:        "info",
		AllowHeaderOnly: false,
	}
}

// Validate reports whether cfg is usable, wrapping the offending field in
// the returned error.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.DataDir) == "" {
		return errors.New("data_dir is required")
	}
	logLevel := strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if _, ok := allowedLogLevels[logLevel]; !ok {
		return fmt.Errorf("invalid log_level %q", cfg.LogLevel)
	}
	return nil
}
