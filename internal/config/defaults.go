package config

import (
	"time"

	"github.com/hyperjump/sizof/internal/models"
	"github.com/hyperjump/sizof/pkg/utils"
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Output.NameMode == "" {
		cfg.Output.NameMode = string(models.NameRelative)
	}
	if cfg.Output.Units == "" {
		cfg.Output.Units = string(utils.UnitsDecimal)
	}
	if cfg.Output.MinNameWidth == 0 {
		cfg.Output.MinNameWidth = 20
	}
	if cfg.Output.MaxNameWidth == 0 {
		cfg.Output.MaxNameWidth = 50
	}
	if cfg.Resolve.IgnoreFile == "" {
		cfg.Resolve.IgnoreFile = ".gitignore"
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 400 * time.Millisecond
	}
}
