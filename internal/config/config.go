// Package config provides configuration management for the map auditor.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrInvalidLogLevel     = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat    = errors.New("logging.format must be 'text' or 'json'")
	ErrMissingStorePath    = errors.New("store.path is required when store.enabled is true")
	ErrInvalidBatchSize    = errors.New("store.batch_size must be at least 1")
	ErrInvalidMaxExamples  = errors.New("audit.max_examples must be non-negative")
	ErrInvalidMaxCellWidth = errors.New("audit.max_cell_width must be 0 or at least 10")
	ErrInvalidEnvValue     = errors.New("invalid environment value")
)

// Environment variables that override file settings.
const (
	EnvLogLevel  = "OSMAUDIT_LOG_LEVEL"
	EnvLogFormat = "OSMAUDIT_LOG_FORMAT"
	EnvPretty    = "OSMAUDIT_PRETTY"
	EnvDBPath    = "OSMAUDIT_DB_PATH"
)

// Config represents the complete tool configuration.
type Config struct {
	Input   string        `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Store   StoreConfig   `yaml:"store"`
	Audit   AuditConfig   `yaml:"audit"`
	Logging LoggingConfig `yaml:"logging"`
}

// OutputConfig defines how shaped records are written.
type OutputConfig struct {
	Pretty bool `yaml:"pretty"`
}

// StoreConfig defines the document store used for bulk loading.
type StoreConfig struct {
	Path      string `yaml:"path"`
	BatchSize int    `yaml:"batch_size"`
	Enabled   bool   `yaml:"enabled"`
}

// AuditConfig defines the audit report.
type AuditConfig struct {
	MaxExamples  int  `yaml:"max_examples"`
	MaxCellWidth int  `yaml:"max_cell_width"`
	Enabled      bool `yaml:"enabled"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Path:      "data/osm.db",
			BatchSize: 500,
		},
		Audit: AuditConfig{
			Enabled:      true,
			MaxExamples:  5,
			MaxCellWidth: 80,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from a YAML file on top of the defaults.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides settings from the environment. Variables in envFile
// (usually ".env") are loaded first without replacing ones already set; a
// missing envFile is not an error.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.Logging.Level = strings.ToLower(strings.TrimSpace(v))
	}

	if v, ok := os.LookupEnv(EnvLogFormat); ok {
		c.Logging.Format = strings.ToLower(strings.TrimSpace(v))
	}

	if v, ok := os.LookupEnv(EnvPretty); ok {
		pretty, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidEnvValue, EnvPretty, v)
		}
		c.Output.Pretty = pretty
	}

	if v, ok := os.LookupEnv(EnvDBPath); ok && strings.TrimSpace(v) != "" {
		c.Store.Path = strings.TrimSpace(v)
		c.Store.Enabled = true
	}

	return c.Validate()
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	if c.Store.Enabled && c.Store.Path == "" {
		return ErrMissingStorePath
	}

	if c.Store.BatchSize < 1 {
		return ErrInvalidBatchSize
	}

	if c.Audit.MaxExamples < 0 {
		return ErrInvalidMaxExamples
	}

	if c.Audit.MaxCellWidth != 0 && c.Audit.MaxCellWidth < 10 {
		return ErrInvalidMaxCellWidth
	}

	return nil
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Input: %s, Pretty: %t, Store: %t(%s), Audit: %t, Log: %s}",
		c.Input,
		c.Output.Pretty,
		c.Store.Enabled,
		c.Store.Path,
		c.Audit.Enabled,
		c.Logging.Level,
	)
}
