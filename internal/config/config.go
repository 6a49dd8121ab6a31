// Package config loads interpreter settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hassan/minic/internal/interp"
)

// DefaultPath is the file read when no --config flag is given.
const DefaultPath = ".minic.yaml"

// Colour modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds the settings shared by every command.
type Config struct {
	// MaxCallDepth bounds nested function calls at run time.
	MaxCallDepth int `yaml:"max_call_depth"`

	// WarningsAsErrors makes checker warnings fail the check.
	WarningsAsErrors bool `yaml:"warnings_as_errors"`

	// RunOnErrors interprets a program even when the checker found errors.
	// Syntax errors always prevent a run.
	RunOnErrors bool `yaml:"run_on_errors"`

	// Color is one of ColorAuto, ColorAlways or ColorNever.
	Color string `yaml:"color"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		MaxCallDepth: interp.DefaultMaxCallDepth,
		Color:        ColorAuto,
	}
}

// Load reads the file at path on top of Default. An empty path means
// DefaultPath, which may be absent; an explicitly named file must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	if err := Decode(f, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads YAML settings from r into cfg, rejecting unknown keys, and
// validates the result.
func Decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return cfg.Validate()
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.MaxCallDepth <= 0 {
		return fmt.Errorf("max_call_depth must be positive, got %d", c.MaxCallDepth)
	}
	if c.MaxCallDepth > interp.MaxCallDepthLimit {
		return fmt.Errorf("max_call_depth must be at most %d, got %d", interp.MaxCallDepthLimit, c.MaxCallDepth)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("color must be auto, always or never, got %q", c.Color)
	}
	return nil
}
