package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/avtools/resolvectl/pkg/session"
	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"
)

// loadDotEnv loads environment variables from path. Missing files are
// ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// resolveConfigPath returns the config file to use, or "" when none exists.
// Priority:
// 1. Explicit --config flag (non-empty)
// 2. ./resolvectl.yaml
// 3. <user config dir>/resolvectl/config.yaml
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	if _, err := os.Stat("resolvectl.yaml"); err == nil {
		return "resolvectl.yaml"
	}

	if confDir, err := os.UserConfigDir(); err == nil {
		path := filepath.Join(confDir, "resolvectl", "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadConfig resolves and loads the configuration, falling back to defaults
// when no config file exists.
func loadConfig(explicit string) (session.Config, error) {
	path := resolveConfigPath(explicit)
	if path == "" {
		return session.DefaultConfig(), nil
	}

	cfg, err := session.LoadConfig(path)
	if err != nil {
		return session.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return session.Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// newLogger builds the CLI logger from the configured level. -verbose
// overrides the level to debug so remote calls are traced.
func newLogger(cfg session.Config, verbose bool) hclog.Logger {
	level := hclog.LevelFromString(cfg.LogLevel)
	if level == hclog.NoLevel {
		level = hclog.Warn
	}
	if verbose {
		level = hclog.Debug
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "resolvectl",
		Level:  level,
		Output: os.Stderr,
	})
}
