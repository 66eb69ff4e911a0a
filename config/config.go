// Package config provides configuration loading and management for tmplvet.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/tmplvet/validate"
)

// Config represents the complete tmplvet configuration
type Config struct {
	Scan       ScanConfig          `yaml:"scan"`
	Validation ValidationConfig    `yaml:"validation"`
	Thresholds validate.Thresholds `yaml:"thresholds"`
}

// ScanConfig configures template file discovery
type ScanConfig struct {
	// Include is the list of doublestar glob patterns to scan (default: **/*.md)
	Include []string `yaml:"include"`
	// Exclude is the list of glob patterns to skip
	Exclude []string `yaml:"exclude"`
}

// ValidationConfig configures the validation pipeline
type ValidationConfig struct {
	// Profile is the default validation profile (draft or release)
	Profile string `yaml:"profile"`
	// Timeout is the coarse overall run deadline
	Timeout time.Duration `yaml:"timeout"`
	// GlobalNamespace makes commands and components share one identifier namespace
	GlobalNamespace bool `yaml:"global_namespace"`
	// Workers caps the per-document worker pool (0 = number of CPUs)
	Workers int `yaml:"workers"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			Include: []string{"**/*.md"},
			Exclude: []string{"**/README.md", "**/node_modules/**"},
		},
		Validation: ValidationConfig{
			Profile: string(validate.ProfileDraft),
			Timeout: 2 * time.Minute,
			Workers: 0, // Auto-detect
		},
		Thresholds: validate.DefaultThresholds(),
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if len(c.Scan.Include) == 0 {
		return fmt.Errorf("scan.include must not be empty")
	}
	if _, err := validate.ParseProfile(c.Validation.Profile); err != nil {
		return fmt.Errorf("validation.profile: %w", err)
	}
	if c.Validation.Timeout <= 0 {
		return fmt.Errorf("validation.timeout must be positive")
	}
	if c.Validation.Workers < 0 {
		return fmt.Errorf("validation.workers must not be negative")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if len(other.Scan.Include) > 0 {
		c.Scan.Include = other.Scan.Include
	}
	if len(other.Scan.Exclude) > 0 {
		c.Scan.Exclude = other.Scan.Exclude
	}

	if other.Validation.Profile != "" {
		c.Validation.Profile = other.Validation.Profile
	}
	if other.Validation.Timeout != 0 {
		c.Validation.Timeout = other.Validation.Timeout
	}
	if other.Validation.GlobalNamespace {
		c.Validation.GlobalNamespace = true
	}
	if other.Validation.Workers != 0 {
		c.Validation.Workers = other.Validation.Workers
	}

	if other.Thresholds.MaxDocuments != 0 {
		c.Thresholds.MaxDocuments = other.Thresholds.MaxDocuments
	}
	if other.Thresholds.MaxEdges != 0 {
		c.Thresholds.MaxEdges = other.Thresholds.MaxEdges
	}
	if other.Thresholds.MaxFanIn != 0 {
		c.Thresholds.MaxFanIn = other.Thresholds.MaxFanIn
	}
	if other.Thresholds.MaxDepth != 0 {
		c.Thresholds.MaxDepth = other.Thresholds.MaxDepth
	}
}
