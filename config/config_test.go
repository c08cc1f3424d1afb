// SPDX-License-Identifier: MIT

package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/spmat/config"
	"github.com/katalvlaran/spmat/parallel"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, parallel.DefaultGrain, cfg.Parallel.Grain)
	require.GreaterOrEqual(t, cfg.Parallel.Workers, 1)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, config.FormatText, cfg.Log.Format)
	require.False(t, cfg.Metrics.Enabled)
}

func TestParse(t *testing.T) {
	cfg, err := config.Parse([]byte(`
parallel:
  workers: 3
log:
  level: debug
  format: json
metrics:
  enabled: true
`))
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Parallel.Workers)
	require.Equal(t, parallel.DefaultGrain, cfg.Parallel.Grain, "unset keys keep defaults")
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, config.FormatJSON, cfg.Log.Format)
	require.True(t, cfg.Metrics.Enabled)
	require.Equal(t, parallel.Config{Workers: 3, Grain: parallel.DefaultGrain}, cfg.ParallelConfig())
}

func TestParse_EmptyAndUnknown(t *testing.T) {
	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)

	_, err = config.Parse([]byte("parallel:\n  threads: 4\n"))
	require.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = config.Parse([]byte("parallel: [1, 2"))
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestApplyEnv(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.ApplyEnv(envMap(map[string]string{
		config.EnvWorkers:   "6",
		config.EnvGrain:     " 16 ",
		config.EnvLogLevel:  "warn",
		config.EnvLogFormat: "JSON",
		config.EnvMetrics:   "1",
	})))
	require.Equal(t, 6, cfg.Parallel.Workers)
	require.Equal(t, 16, cfg.Parallel.Grain)
	require.Equal(t, "warn", cfg.Log.Level)
	require.Equal(t, config.FormatJSON, cfg.Log.Format)
	require.True(t, cfg.Metrics.Enabled)
	require.NoError(t, cfg.Validate())

	for _, key := range []string{config.EnvWorkers, config.EnvGrain, config.EnvMetrics} {
		c := config.Default()
		err := c.ApplyEnv(envMap(map[string]string{key: "lots"}))
		require.ErrorIs(t, err, config.ErrInvalidConfig, key)
	}
}

func TestValidate(t *testing.T) {
	for name, mutate := range map[string]func(*config.Config){
		"zero workers":   func(c *config.Config) { c.Parallel.Workers = 0 },
		"negative grain": func(c *config.Config) { c.Parallel.Grain = -1 },
		"bad level":      func(c *config.Config) { c.Log.Level = "loud" },
		"bad format":     func(c *config.Config) { c.Log.Format = "xml" },
	} {
		t.Run(name, func(t *testing.T) {
			c := config.Default()
			mutate(&c)
			require.ErrorIs(t, c.Validate(), config.ErrInvalidConfig)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spmat.yaml")
	require.NoError(t, os.WriteFile(path, []byte("parallel:\n  workers: 2\n  grain: 8\n"), 0o600))

	t.Setenv(config.EnvWorkers, "5")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, 5, cfg.Parallel.Workers, "env wins over file")
	require.Equal(t, 8, cfg.Parallel.Grain)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	t.Setenv(config.EnvGrain, "0")
	_, err = config.Load("")
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	cfg.Log.Format = config.FormatJSON
	cfg.Log.Level = "warn"

	log := cfg.Logger(&buf)
	log.Info("hidden")
	log.Warn("shown", "k", 1)

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.True(t, strings.HasPrefix(out, "{"))
	require.Contains(t, out, `"msg":"shown"`)
}
