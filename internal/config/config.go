// Package config loads the tonie-dump configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the complete tool configuration
type Config struct {
	Content ContentConfig `yaml:"content"`
	Decode  DecodeConfig  `yaml:"decode"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ContentConfig describes where content files live
type ContentConfig struct {
	// Root of the CONTENT directory (UID-derived paths are resolved below it)
	BaseDir string `yaml:"base_dir"`
}

// DecodeConfig controls header decoding
type DecodeConfig struct {
	Strict         bool `yaml:"strict"`
	VerifyHash     bool `yaml:"verify_hash"`
	IgnoreWarnings bool `yaml:"ignore_warnings"`
	Workers        int  `yaml:"workers"` // 0 = runtime.NumCPU()
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// MetricsConfig controls the Prometheus textfile output
type MetricsConfig struct {
	// Path of a .prom file to write after a run; empty disables metrics
	Textfile string `yaml:"textfile"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Content: ContentConfig{BaseDir: "CONTENT"},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Load reads and parses the configuration file. Fields missing from the file
// keep their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate performs validation of the configuration
func (c *Config) Validate() error {
	if err := c.Content.Validate(); err != nil {
		return fmt.Errorf("content config: %w", err)
	}

	if err := c.Decode.Validate(); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates content configuration
func (c *ContentConfig) Validate() error {
	if c.BaseDir == "" {
		return fmt.Errorf("base_dir cannot be empty")
	}
	return nil
}

// Validate validates decode configuration
func (d *DecodeConfig) Validate() error {
	if d.Workers < 0 {
		return fmt.Errorf("workers cannot be negative, got %d", d.Workers)
	}

	if d.Strict && d.IgnoreWarnings {
		return fmt.Errorf("strict and ignore_warnings are mutually exclusive")
	}

	return nil
}

// Validate validates logging configuration
func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'json' or 'text', got '%s'", l.Format)
	}

	if l.Output == "" {
		return fmt.Errorf("output cannot be empty")
	}

	return nil
}
