// Package config resolves application settings: built-in defaults, then an
// optional YAML file, then DAYWISE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SnapshotBackend selects the Local Snapshot Store implementation.
type SnapshotBackend string

const (
	BackendSQLite SnapshotBackend = "sqlite"
	BackendBadger SnapshotBackend = "badger"
	BackendMemory SnapshotBackend = "memory"
)

// Config holds all settings for the daywise binary.
type Config struct {
	DBPath                 string          `yaml:"db_path"`
	SnapshotBackend        SnapshotBackend `yaml:"snapshot_backend"`
	BadgerDir              string          `yaml:"badger_dir"`
	BufferMinutes          int             `yaml:"buffer_minutes"`
	DefaultEstimateMinutes int             `yaml:"default_estimate_minutes"`
	Timezone               string          `yaml:"timezone"`
	LogUseCases            bool            `yaml:"log_use_cases"`
	MetricsFile            string          `yaml:"metrics_file"`
}

// DefaultConfig returns a Config rooted at dir (normally ~/.daywise).
func DefaultConfig(dir string) Config {
	return Config{
		DBPath:                 filepath.Join(dir, "daywise.db"),
		SnapshotBackend:        BackendSQLite,
		BadgerDir:              filepath.Join(dir, "snapshots"),
		BufferMinutes:          60,
		DefaultEstimateMinutes: 30,
		Timezone:               "Local",
	}
}

// DefaultDir returns ~/.daywise.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".daywise"), nil
}

// Load resolves the configuration. A missing config file is not an error;
// a file that exists but cannot be parsed is.
func Load() (Config, error) {
	dir, err := DefaultDir()
	if err != nil {
		return Config{}, err
	}
	cfg := DefaultConfig(dir)

	path := os.Getenv("DAYWISE_CONFIG")
	if path == "" {
		path = filepath.Join(dir, "config.yaml")
	}
	if err := cfg.mergeFile(path); err != nil {
		return cfg, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// mergeFile overlays the YAML file at path onto cfg. Invalid values in the
// file fall back to what cfg already holds.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	fileCfg := *c
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	c.DBPath = nonEmpty(fileCfg.DBPath, c.DBPath)
	c.BadgerDir = nonEmpty(fileCfg.BadgerDir, c.BadgerDir)
	c.Timezone = nonEmpty(fileCfg.Timezone, c.Timezone)
	c.MetricsFile = fileCfg.MetricsFile
	c.LogUseCases = fileCfg.LogUseCases
	if fileCfg.SnapshotBackend.Valid() {
		c.SnapshotBackend = fileCfg.SnapshotBackend
	}
	if fileCfg.BufferMinutes >= 0 {
		c.BufferMinutes = fileCfg.BufferMinutes
	}
	if fileCfg.DefaultEstimateMinutes > 0 {
		c.DefaultEstimateMinutes = fileCfg.DefaultEstimateMinutes
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DAYWISE_DB"); v != "" {
		c.DBPath = v
	}
	if v := SnapshotBackend(strings.ToLower(os.Getenv("DAYWISE_SNAPSHOT_BACKEND"))); v.Valid() {
		c.SnapshotBackend = v
	}
	if v := os.Getenv("DAYWISE_BUFFER_MIN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.BufferMinutes = n
		}
	}
	if v := os.Getenv("DAYWISE_DEFAULT_ESTIMATE_MIN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.DefaultEstimateMinutes = n
		}
	}
	if v := os.Getenv("DAYWISE_TZ"); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv("DAYWISE_LOG_USE_CASES"); v != "" {
		c.LogUseCases, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("DAYWISE_METRICS_FILE"); v != "" {
		c.MetricsFile = v
	}
}

// Valid reports whether b names a known backend.
func (b SnapshotBackend) Valid() bool {
	switch b {
	case BackendSQLite, BackendBadger, BackendMemory:
		return true
	}
	return false
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func nonEmpty(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
