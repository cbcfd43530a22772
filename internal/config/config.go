// Package config provides configuration loading and structs for sizof.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hyperjump/sizof/internal/models"
	"github.com/hyperjump/sizof/pkg/utils"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Output  OutputConfig  `yaml:"output"`
	Resolve ResolveConfig `yaml:"resolve"`
	Watch   WatchConfig   `yaml:"watch"`
}

// OutputConfig holds presentation settings.
type OutputConfig struct {
	NameMode     string `yaml:"name_mode"`
	Units        string `yaml:"units"`
	MinNameWidth int    `yaml:"min_name_width"`
	MaxNameWidth int    `yaml:"max_name_width"`
	Color        *bool  `yaml:"color"`
	ExactBytes   bool   `yaml:"exact_bytes"`
}

// ColorOrDefault returns whether to color the size column; defaults to true when unset.
func (o *OutputConfig) ColorOrDefault() bool {
	if o.Color != nil {
		return *o.Color
	}
	return true
}

// ResolveConfig holds path expansion settings.
type ResolveConfig struct {
	RespectGitignore bool   `yaml:"respect_gitignore"`
	IgnoreFile       string `yaml:"ignore_file"`
}

// WatchConfig holds watch mode settings.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// DefaultPath returns $HOME/.config/sizof/config.yaml, or "" when the home
// directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "sizof", "config.yaml")
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	cfg.Resolve.IgnoreFile = expandPath(cfg.Resolve.IgnoreFile)

	return &cfg, nil
}

// LoadOrDefault loads path when it exists. A missing file yields the defaults
// unless required is set.
func LoadOrDefault(path string, required bool) (*Config, error) {
	if path == "" && !required {
		return Default(), nil
	}
	cfg, err := Load(path)
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	if _, err := models.ParseNameMode(c.Output.NameMode); err != nil {
		return err
	}
	if _, err := utils.ParseUnits(c.Output.Units); err != nil {
		return err
	}
	if c.Output.MinNameWidth > c.Output.MaxNameWidth {
		return fmt.Errorf("min_name_width (%d) exceeds max_name_width (%d)", c.Output.MinNameWidth, c.Output.MaxNameWidth)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch debounce must not be negative: %s", c.Watch.Debounce)
	}
	return nil
}

// expandPath replaces a leading "~/" with the home directory. Other relative paths
// are kept and later resolved against the working directory.
func expandPath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path[2:])
	}
	return path
}
