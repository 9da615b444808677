// Package config loads hsmx settings from defaults, an optional YAML file and the
// environment, in that order of precedence (later wins).
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings of the hsmx command.
type Config struct {
	LogLevel       string `yaml:"logLevel" env:"HSMX_LOG_LEVEL"`
	LogFormat      string `yaml:"logFormat" env:"HSMX_LOG_FORMAT"`
	Journal        string `yaml:"journal" env:"HSMX_JOURNAL"`
	MetricsAddr    string `yaml:"metricsAddr" env:"HSMX_METRICS_ADDR"`
	StagedCommit   bool   `yaml:"stagedCommit" env:"HSMX_STAGED_COMMIT"`
	CascadeResults bool   `yaml:"cascadeResults" env:"HSMX_CASCADE_RESULTS"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load applies the YAML file at path (skipped when path is empty) and then the
// environment on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the logging settings.
func (c Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
}

// ParseLevel maps a level name (debug, info, warn, error) to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if name == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// NewLogger builds a slog logger writing to w in the given format ("text" or
// "json") at the given level.
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, errors.New("unknown log format " + format)
	}
}
