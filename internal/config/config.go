// Package config provides configuration types and defaults for lumen.
package config

import (
	"fmt"

	"github.com/felixgeelhaar/lumen/internal/ux"
)

// Config holds all CLI configuration for lumen. It covers paths, output,
// and logging only; the bounce-rate thresholds are fixed constants and
// deliberately have no configuration surface.
type Config struct {
	Paths       PathsConfig       `yaml:"paths" mapstructure:"paths"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
	LogRotation LogRotationConfig `yaml:"log_rotation" mapstructure:"log_rotation"`
}

// PathsConfig holds default file locations under the project directory.
type PathsConfig struct {
	Stats   string `yaml:"stats" mapstructure:"stats"`
	Tasks   string `yaml:"tasks" mapstructure:"tasks"`
	Reports string `yaml:"reports" mapstructure:"reports"`
}

// OutputConfig holds presentation settings for command output.
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // text, json, or yaml
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, or error
	Format string `yaml:"format" mapstructure:"format"` // text or json
	File   string `yaml:"file" mapstructure:"file"`     // empty logs to stderr
}

// LogRotationConfig holds rotation settings for the log file.
type LogRotationConfig struct {
	MaxSizeMB  int  `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool `yaml:"compress" mapstructure:"compress"`
}

// Default returns a Config with lumen's defaults.
func Default() *Config {
	paths := ux.NewPathDefaults()
	return &Config{
		Paths: PathsConfig{
			Stats:   paths.StatsFile(),
			Tasks:   paths.TasksFile(),
			Reports: paths.ReportDir(),
		},
		Output: OutputConfig{
			Format: "text",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			File:   "",
		},
		LogRotation: LogRotationConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
			Compress:   false,
		},
	}
}

// Validate checks that enumerated settings carry known values.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("output.format %q: must be text, json, or yaml", c.Output.Format)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q: must be debug, info, warn, or error", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q: must be text or json", c.Log.Format)
	}
	return nil
}
