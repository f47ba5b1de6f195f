// Package config loads the optional YAML configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the main configuration. Command-line flags override
// every field.
type Config struct {
	Regions       []string `yaml:"regions,omitempty"`
	Profile       string   `yaml:"profile,omitempty"`
	ThresholdDays int      `yaml:"threshold_days"`
	Workers       int      `yaml:"workers"`
	OutputPrefix  string   `yaml:"output_prefix"`
	Format        string   `yaml:"format"`
	S3Bucket      string   `yaml:"s3_bucket,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ThresholdDays: 30,
		Workers:       10,
		OutputPrefix:  "cloudtally",
		Format:        "csv",
	}
}

// Load reads configuration from a YAML file, applied on top of defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is intentional user input
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate ensures config values are usable.
func (c *Config) Validate() error {
	if c.ThresholdDays < 0 {
		return fmt.Errorf("threshold_days must be >= 0, got %d", c.ThresholdDays)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	switch c.Format {
	case "csv", "json", "both", "table":
	default:
		return fmt.Errorf("format must be csv, json, both or table, got %q", c.Format)
	}
	if c.OutputPrefix == "" {
		return fmt.Errorf("output_prefix is required")
	}
	return nil
}
