// SPDX-License-Identifier: MIT

// Package config loads spmat runtime settings with priority
// env > file > defaults.
//
// File format is YAML:
//
//	parallel:
//	  workers: 8
//	  grain: 64
//	log:
//	  level: debug
//	  format: json
//	metrics:
//	  enabled: true
//
// Environment overrides: SPMAT_WORKERS, SPMAT_GRAIN, SPMAT_LOG_LEVEL,
// SPMAT_LOG_FORMAT, SPMAT_METRICS.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/spmat/parallel"
)

// ErrInvalidConfig wraps every validation and parse failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Environment variable names.
const (
	EnvWorkers   = "SPMAT_WORKERS"
	EnvGrain     = "SPMAT_GRAIN"
	EnvLogLevel  = "SPMAT_LOG_LEVEL"
	EnvLogFormat = "SPMAT_LOG_FORMAT"
	EnvMetrics   = "SPMAT_METRICS"
)

// Log output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config is the top-level configuration.
//
// Thread Safety: safe to read concurrently; not safe to modify after creation.
type Config struct {
	// Parallel controls kernel partitioning.
	Parallel ParallelConfig `yaml:"parallel"`
	// Log controls the slog handler built by Logger.
	Log LogConfig `yaml:"log"`
	// Metrics toggles Prometheus collection in the dispatcher.
	Metrics MetricsConfig `yaml:"metrics"`
}

// ParallelConfig mirrors parallel.Config.
type ParallelConfig struct {
	Workers int `yaml:"workers"`
	Grain   int `yaml:"grain"`
}

// LogConfig selects level and handler format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig toggles metrics.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns one worker per CPU, parallel.DefaultGrain, info-level
// text logs and metrics off.
func Default() Config {
	def := parallel.DefaultConfig()

	return Config{
		Parallel: ParallelConfig{Workers: def.Workers, Grain: def.Grain},
		Log:      LogConfig{Level: "info", Format: FormatText},
	}
}

// Parse overlays YAML data on the defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: parse yaml: %v", ErrInvalidConfig, err)
	}

	return cfg, nil
}

// Load reads path (optional: "" means defaults only), applies environment
// overrides from os.LookupEnv and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if cfg, err = Parse(data); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// ApplyEnv overrides fields from the environment. lookup has the signature
// of os.LookupEnv so tests can pass a map-backed function. A set but
// unparsable variable is an error.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvWorkers); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvWorkers, v)
		}
		c.Parallel.Workers = n
	}
	if v, ok := lookup(EnvGrain); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvGrain, v)
		}
		c.Parallel.Grain = n
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.Log.Level = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvLogFormat); ok {
		c.Log.Format = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvMetrics); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvMetrics, v)
		}
		c.Metrics.Enabled = b
	}

	return nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if c.Parallel.Workers < 1 {
		return fmt.Errorf("%w: parallel.workers must be >= 1, got %d", ErrInvalidConfig, c.Parallel.Workers)
	}
	if c.Parallel.Grain < 1 {
		return fmt.Errorf("%w: parallel.grain must be >= 1, got %d", ErrInvalidConfig, c.Parallel.Grain)
	}
	if _, err := c.level(); err != nil {
		return err
	}
	switch c.Log.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("%w: log.format must be %q or %q, got %q", ErrInvalidConfig, FormatText, FormatJSON, c.Log.Format)
	}

	return nil
}

// ParallelConfig converts the parallel section for the kernels.
func (c Config) ParallelConfig() parallel.Config {
	return parallel.Config{Workers: c.Parallel.Workers, Grain: c.Parallel.Grain}
}

// Logger builds a slog.Logger writing to w with the configured level and
// format. Call Validate first; an invalid level falls back to info.
func (c Config) Logger(w io.Writer) *slog.Logger {
	lvl, err := c.level()
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if c.Log.Format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

func (c Config) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.Log.Level)
	}

	return lvl, nil
}
