// Package config handles configuration of the command line tools.
package config

import (
	"github.com/pkg/errors"
)

// Config holds all tool settings.
type Config struct {
	Codec   CodecConfig   `yaml:"codec"`
	Text    TextConfig    `yaml:"text"`
	Logging LoggingConfig `yaml:"logging"`
}

// CodecConfig holds settings of the binary codec.
type CodecConfig struct {
	Version       int32 `yaml:"version"`        // Output version; 0 keeps the version of the tree
	StrictSizes   bool  `yaml:"strict_sizes"`   // Treat stored size mismatches as errors
	AllowTrailing bool  `yaml:"allow_trailing"` // Ignore data after the root block
}

// TextConfig holds settings of the text representation.
type TextConfig struct {
	Indent      string `yaml:"indent"`
	Diagnostics bool   `yaml:"diagnostics"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Codec: CodecConfig{
			Version:       0,
			StrictSizes:   false,
			AllowTrailing: false,
		},
		Text: TextConfig{
			Indent:      "\t",
			Diagnostics: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings that cannot be used.
func (cfg *Config) Validate() error {
	switch cfg.Codec.Version {
	case 0, 1, 2:
	default:
		return errors.Errorf("codec.version: unsupported format version %d", cfg.Codec.Version)
	}
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("logging.level: unknown level %q", cfg.Logging.Level)
	}
	return nil
}
