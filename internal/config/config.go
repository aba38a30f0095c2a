// Package config loads the sketchpad configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "SKETCHPAD_CONFIG"

const (
	defaultSessionKey       = "editor-state"
	defaultHistoryCapacity  = 100
	defaultAutosaveSchedule = "@every 30s"
)

// Config is the full configuration. Zero fields are filled by Defaults.
type Config struct {
	DataDir  string   `toml:"data_dir"`
	Storage  Storage  `toml:"storage"`
	History  History  `toml:"history"`
	Autosave Autosave `toml:"autosave"`
	Watch    Watch    `toml:"watch"`
}

type Storage struct {
	Driver     string `toml:"driver"`
	DSN        string `toml:"dsn"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
	Key        string `toml:"key"`
}

type History struct {
	// Capacity bounds the undo stack; 0 means unbounded.
	Capacity *int `toml:"capacity"`
}

type Autosave struct {
	Enabled  *bool  `toml:"enabled"`
	Schedule string `toml:"schedule"`
}

type Watch struct {
	Enabled *bool `toml:"enabled"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	var c Config
	c.applyDefaults()
	return c
}

// Path returns the config file location: $SKETCHPAD_CONFIG, else
// <user config dir>/sketchpad/config.toml.
func Path() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, "sketchpad", "config.toml"), nil
}

// Load reads the config file at Path. A missing file yields Default.
func Load() (Config, error) {
	p, err := Path()
	if err != nil {
		return Default(), err
	}
	return LoadFile(p)
}

// LoadFile reads the config file at path. A missing file yields Default.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML and fills defaults.
func Parse(data []byte) (Config, error) {
	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return Default(), fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = defaultDataDir()
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "sqlite"
	}
	if c.Storage.Driver == "sqlite" && c.Storage.DSN == "" {
		c.Storage.DSN = filepath.Join(c.DataDir, "sketchpad.db")
	}
	if c.Storage.Key == "" {
		c.Storage.Key = defaultSessionKey
	}
	if c.History.Capacity == nil || *c.History.Capacity < 0 {
		n := defaultHistoryCapacity
		c.History.Capacity = &n
	}
	if c.Autosave.Enabled == nil {
		on := true
		c.Autosave.Enabled = &on
	}
	if c.Autosave.Schedule == "" {
		c.Autosave.Schedule = defaultAutosaveSchedule
	}
	if c.Watch.Enabled == nil {
		on := true
		c.Watch.Enabled = &on
	}
}

// HistoryCapacity returns the configured undo depth.
func (c Config) HistoryCapacity() int {
	if c.History.Capacity == nil {
		return defaultHistoryCapacity
	}
	return *c.History.Capacity
}

func (c Config) AutosaveEnabled() bool { return c.Autosave.Enabled == nil || *c.Autosave.Enabled }
func (c Config) WatchEnabled() bool    { return c.Watch.Enabled == nil || *c.Watch.Enabled }

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sketchpad"
	}
	return filepath.Join(home, ".sketchpad")
}
