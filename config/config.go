// Package config loads the scanner configuration from a YAML or JSON file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/lorentzian/scanner"
)

// Config is the complete file-level configuration: the core scanner
// settings plus the optional journal and snapshot collaborators.
type Config struct {
	Scanner  scanner.Settings `json:"scanner" yaml:"scanner"`
	Journal  JournalConfig    `json:"journal" yaml:"journal"`
	Snapshot SnapshotConfig   `json:"snapshot" yaml:"snapshot"`
	Log      LogConfig        `json:"log" yaml:"log"`
}

// JournalConfig selects where signal events are recorded.
type JournalConfig struct {
	Type string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	Path string `json:"path" yaml:"path"`
}

// SnapshotConfig enables periodic per-key state checkpoints.
type SnapshotConfig struct {
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	// EveryBars is the checkpoint interval; 0 disables snapshots.
	EveryBars int `json:"every_bars" yaml:"every_bars"`
}

// LogConfig controls CLI logging.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Pretty bool   `json:"pretty" yaml:"pretty"`
}

// Default returns a configuration with the standard scanner settings, no
// journal, no snapshots.
func Default() *Config {
	return &Config{
		Scanner: scanner.DefaultSettings(),
		Journal: JournalConfig{Type: "none"},
		Log:     LogConfig{Level: "info", Pretty: true},
	}
}

// LoadFromFile loads configuration from a file, YAML or JSON by content.
// Fields absent from the file keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON.
	if yerr := yaml.Unmarshal(data, cfg); yerr != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", yerr)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration, YAML or JSON by extension.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the whole configuration; failures are fatal at startup.
func (c *Config) Validate() error {
	if err := c.Scanner.Validate(); err != nil {
		return err
	}
	switch c.Journal.Type {
	case "", "none":
	case "csv", "sqlite":
		if c.Journal.Path == "" {
			return fmt.Errorf("journal.path required for type %q", c.Journal.Type)
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite', got %q", c.Journal.Type)
	}
	if c.Snapshot.EveryBars < 0 {
		return fmt.Errorf("snapshot.every_bars must be non-negative")
	}
	if c.Snapshot.EveryBars > 0 && c.Snapshot.Path == "" {
		return fmt.Errorf("snapshot.path required when snapshot.every_bars is set")
	}
	return nil
}
