/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ssargent/nbt/pkg/nbt"
	"github.com/ssargent/nbt/pkg/nbtfile"
)

// Config represents the nbt tool configuration
type Config struct {
	Compression      string  `yaml:"compression"`
	CompressionLevel int     `yaml:"compression_level"`
	MaxDepth         int     `yaml:"max_depth"`
	SnapshotDir      string  `yaml:"snapshot_dir"`
	Output           Output  `yaml:"output"`
	Logging          Logging `yaml:"logging"`
}

// Output controls how trees are printed
type Output struct {
	Indent   string `yaml:"indent"`
	MaxElems int    `yaml:"max_elems"`
	Color    string `yaml:"color"` // auto, always or never
}

// Logging contains logging configuration
type Logging struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Compression:      "gzip",
		CompressionLevel: 0,
		MaxDepth:         nbt.DefaultMaxDepth,
		SnapshotDir:      defaultSnapshotDir(),
		Output: Output{
			Indent:   "  ",
			MaxElems: 16,
			Color:    "auto",
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from the specified path. Fields missing
// from the file keep their default values.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// BootstrapConfig writes a default configuration to configPath unless one
// already exists, and returns the configuration in effect.
func BootstrapConfig(configPath string, snapshotDir string) (*Config, error) {
	if ConfigExists(configPath) {
		return LoadConfig(configPath)
	}

	config := DefaultConfig()
	if snapshotDir != "" {
		config.SnapshotDir = snapshotDir
	}

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// Validate checks field values that cannot be caught by YAML decoding.
func (c *Config) Validate() error {
	if _, err := nbtfile.ParseCompression(c.Compression); err != nil {
		return err
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative: %d", c.MaxDepth)
	}
	if c.Output.MaxElems < 0 {
		return fmt.Errorf("output.max_elems must not be negative: %d", c.Output.MaxElems)
	}
	switch c.Output.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("output.color must be auto, always or never: %q", c.Output.Color)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging level: %q", c.Logging.Level)
	}
	return nil
}

// FileOptions converts the compression and decoding settings into options
// for nbtfile.
func (c *Config) FileOptions() (nbtfile.Options, error) {
	compression, err := nbtfile.ParseCompression(c.Compression)
	if err != nil {
		return nbtfile.Options{}, err
	}
	return nbtfile.Options{
		Compression: compression,
		Level:       c.CompressionLevel,
		MaxDepth:    c.MaxDepth,
	}, nil
}

// Printer returns the tree printer described by the output settings.
func (c *Config) Printer() nbt.Printer {
	return nbt.Printer{Indent: c.Output.Indent, MaxElems: c.Output.MaxElems}
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "./nbt.yaml"
	}
	return filepath.Join(configDir, "nbt", "config.yaml")
}

func defaultSnapshotDir() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "./snapshots"
	}
	return filepath.Join(cacheDir, "nbt", "snapshots")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
