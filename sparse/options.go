// SPDX-License-Identifier: MIT

// Package sparse: functional options for the parallel kernels.
//   - Defaults come from parallel.DefaultConfig and slog.Default.
//   - WithX constructors panic on nonsensical values (programmer error).
//   - Options never change results, only the execution strategy.

package sparse

import (
	"log/slog"

	"github.com/katalvlaran/spmat/parallel"
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicWorkersInvalid = "sparse: WithWorkers: workers must be >= 1"
	panicGrainInvalid   = "sparse: WithGrain: grain must be >= 1"
	panicLoggerNil      = "sparse: WithLogger: logger must not be nil"
)

// Option mutates Options. Safe to apply repeatedly.
type Option func(*Options)

// Options holds the execution settings of the parallel kernels.
// Fields are unexported; use the WithX constructors.
type Options struct {
	workers int
	grain   int
	logger  *slog.Logger
}

// WithWorkers caps the number of concurrently running tasks.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(panicWorkersInvalid)
	}

	return func(o *Options) { o.workers = n }
}

// WithGrain sets the minimum number of rows (or values, for Min/Max) per task.
func WithGrain(n int) Option {
	if n < 1 {
		panic(panicGrainInvalid)
	}

	return func(o *Options) { o.grain = n }
}

// WithConfig copies both fields of a parallel.Config. Non-positive fields
// keep the current value.
func WithConfig(cfg parallel.Config) Option {
	return func(o *Options) {
		if cfg.Workers > 0 {
			o.workers = cfg.Workers
		}
		if cfg.Grain > 0 {
			o.grain = cfg.Grain
		}
	}
}

// WithLogger routes the kernels' debug output (partition plans) to l.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic(panicLoggerNil)
	}

	return func(o *Options) { o.logger = l }
}

// gatherOptions applies opts over the defaults.
func gatherOptions(opts ...Option) Options {
	def := parallel.DefaultConfig()
	o := Options{
		workers: def.Workers,
		grain:   def.Grain,
		logger:  slog.Default(),
	}
	for _, fn := range opts {
		fn(&o)
	}

	return o
}

// config converts the options to the fork-join configuration.
func (o Options) config() parallel.Config {
	return parallel.Config{Workers: o.workers, Grain: o.grain}
}
