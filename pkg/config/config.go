// Package config loads jclass settings from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/daimatz/jclass/pkg/descriptor"
)

// Output formats accepted by Format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Color modes accepted by Color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds the settings shared by every jclass command.
type Config struct {
	MaxArrayDepth int      `yaml:"max_array_depth"`
	Workers       int      `yaml:"workers"` // 0 means GOMAXPROCS
	Format        string   `yaml:"format"`
	Color         string   `yaml:"color"`
	Classpath     []string `yaml:"classpath"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		MaxArrayDepth: descriptor.DefaultMaxArrayDepth,
		Format:        FormatText,
		Color:         ColorAuto,
	}
}

// Load reads path on top of Default. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML data on top of Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every setting is in range.
func (c *Config) Validate() error {
	if c.MaxArrayDepth < 1 || c.MaxArrayDepth > descriptor.DefaultMaxArrayDepth {
		return fmt.Errorf("max_array_depth must be between 1 and %d, got %d",
			descriptor.DefaultMaxArrayDepth, c.MaxArrayDepth)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	switch c.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("unknown color mode %q", c.Color)
	}
	return nil
}
