// Package config loads the CLI configuration from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/reoring/verskema/backend"
	"github.com/reoring/verskema/store"
)

// Config is the verskema CLI configuration.
type Config struct {
	// Format names the archive backend: text, json, binary or bin.
	Format string `yaml:"format"`
	// JSONDriver selects the JSON tokenizer of the text backend.
	JSONDriver string  `yaml:"json_driver"`
	Store      Store   `yaml:"store"`
	Logging    Logging `yaml:"logging"`
	// Language of diagnostic messages (en, ja).
	Language string `yaml:"language"`
}

// Store selects where archives live.
type Store struct {
	Kind string `yaml:"kind"`
	Path string `yaml:"path"`
}

// Logging contains logging configuration
type Logging struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Format:     "text",
		JSONDriver: "go-json",
		Store: Store{
			Kind: string(store.KindFile),
			Path: "./archives",
		},
		Logging:  Logging{Level: "info"},
		Language: "en",
	}
}

// Load reads the configuration at path, filling unset keys from DefaultConfig.
func Load(path string) (*Config, error) {
	if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		path = abs
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path with owner-only permissions.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	if _, err := backend.Select(c.Format); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch store.Kind(c.Store.Kind) {
	case store.KindFile, store.KindPebble:
		if c.Store.Path == "" {
			return fmt.Errorf("config: store %q requires a path", c.Store.Kind)
		}
	case store.KindMemory:
	default:
		return fmt.Errorf("config: unknown store kind %q", c.Store.Kind)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.Logging.Level)
	}
	return nil
}

// StoreOptions converts the store section for store.New.
func (c *Config) StoreOptions() store.Options {
	return store.Options{Kind: store.Kind(c.Store.Kind), Path: c.Store.Path}
}

// BackendOptions converts the text backend settings for backend.Select.
func (c *Config) BackendOptions() backend.Options {
	return backend.Options{JSONDriver: c.JSONDriver}
}
