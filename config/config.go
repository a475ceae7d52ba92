// Package config handles bridge.toml configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/wippyai/scriptbridge/command"
	"github.com/wippyai/scriptbridge/errors"
)

// FileName is the conventional configuration file name.
const FileName = "bridge.toml"

// Config represents a bridge.toml configuration.
type Config struct {
	Log      Log      `toml:"log"`
	Commands Commands `toml:"commands"`
	WASM     WASM     `toml:"wasm"`
	Scripts  []Script `toml:"script"`

	// Dir is the directory containing the configuration file (set at load time).
	Dir string `toml:"-"`
}

// Log configures the zap logger.
type Log struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// Commands configures the command registry.
type Commands struct {
	DefaultCategory string `toml:"default_category"`
}

// WASM configures the runtime WASM scripts run in.
type WASM struct {
	MemoryLimitPages uint32 `toml:"memory_limit_pages"`
}

// Script is a script unit to load.
type Script struct {
	Name     string   `toml:"name"`
	Path     string   `toml:"path"`
	Args     []string `toml:"args"`
	Autoload bool     `toml:"autoload"`
}

var levels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log:      Log{Level: "info"},
		Commands: Commands{DefaultCategory: command.DefaultCategory},
		Dir:      ".",
	}
}

// Load parses the file at path, applies defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.PhaseConfig, errors.KindNotFound).
			Detail("cannot read %s", path).
			Cause(err).
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	cfg.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML data on top of Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.PhaseConfig, errors.KindInvalidData).
			Detail("parse error").
			Cause(err).
			Build()
	}

	// Defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Commands.DefaultCategory == "" {
		cfg.Commands.DefaultCategory = command.DefaultCategory
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the log level and that script names are set and unique.
func (c *Config) Validate() error {
	if !levels[c.Log.Level] {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path("log", "level").
			Value(c.Log.Level).
			Detail("unknown level %q", c.Log.Level).
			Build()
	}

	seen := make(map[string]bool, len(c.Scripts))
	for i, s := range c.Scripts {
		if s.Name == "" {
			return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Path("script", fmt.Sprint(i), "name").
				Detail("script name cannot be empty").
				Build()
		}
		if seen[s.Name] {
			return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Path("script", fmt.Sprint(i), "name").
				Value(s.Name).
				Detail("duplicate script name %q", s.Name).
				Build()
		}
		seen[s.Name] = true
	}
	return nil
}

// ScriptPath resolves a script's path against the configuration directory.
// It returns "" for scripts without a path.
func (c *Config) ScriptPath(s Script) string {
	if s.Path == "" {
		return ""
	}
	if filepath.IsAbs(s.Path) {
		return s.Path
	}
	return filepath.Join(c.Dir, s.Path)
}

// Autoload returns the scripts to load at startup, in file order.
func (c *Config) Autoload() []Script {
	var out []Script
	for _, s := range c.Scripts {
		if s.Autoload {
			out = append(out, s)
		}
	}
	return out
}
