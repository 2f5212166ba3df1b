// Package config loads the optional weak.toml file.
package config

import (
	"os"
	"runtime"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// FileName is looked up in the working directory when no --config is given.
const FileName = "weak.toml"

// Emit kinds.
const (
	EmitSSA = "ssa"
	EmitDOT = "dot"
	EmitDom = "dom"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds driver settings. Zero fields are filled from Default.
type Config struct {
	Emit     []string `toml:"emit"`
	OutDir   string   `toml:"out_dir"`
	Jobs     int      `toml:"jobs"`
	LogLevel string   `toml:"log_level"`
	Color    string   `toml:"color"`
}

// Default returns the settings used when nothing overrides them.
func Default() *Config {
	return &Config{
		Emit:     []string{EmitSSA},
		Jobs:     runtime.NumCPU(),
		LogLevel: "warning",
		Color:    ColorAuto,
	}
}

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// LoadOptional behaves like Load but returns defaults when path does not exist.
func LoadOptional(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Parse decodes TOML data on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) fillDefaults() {
	def := Default()
	if len(c.Emit) == 0 {
		c.Emit = def.Emit
	}
	if c.Jobs == 0 {
		c.Jobs = def.Jobs
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.Color == "" {
		c.Color = def.Color
	}
}

// Validate checks every field.
func (c *Config) Validate() error {
	if len(c.Emit) == 0 {
		return errors.Wrap(ErrInvalidConfig, "emit: nothing to emit")
	}
	for _, e := range c.Emit {
		switch e {
		case EmitSSA, EmitDOT, EmitDom:
		default:
			return errors.Wrapf(ErrInvalidConfig, "emit: unknown kind %q", e)
		}
	}
	if c.Jobs < 0 {
		return errors.Wrapf(ErrInvalidConfig, "jobs: %d is negative", c.Jobs)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "log_level: %v", err)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.Wrapf(ErrInvalidConfig, "color: unknown mode %q", c.Color)
	}
	return nil
}

// Wants reports whether kind is one of the emitted dumps.
func (c *Config) Wants(kind string) bool {
	for _, e := range c.Emit {
		if e == kind {
			return true
		}
	}
	return false
}

// Level returns the parsed log level. Validate must have succeeded.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.WarnLevel
	}
	return lvl
}
