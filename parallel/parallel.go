// SPDX-License-Identifier: MIT

// Package parallel - bulk-synchronous fork-join primitives shared by the
// sparse and dense kernels.
//
// Purpose:
//   - Split an index space [0, n) into balanced contiguous ranges.
//   - Run one task per range on a bounded worker group and join before returning.
//   - Fold the per-range results with an associative combine, strictly after the join.
//
// Determinism:
//   - Results are stored by range ordinal, never by completion order, so a
//     left fold over them reproduces the sequential order regardless of scheduling.
//   - Tasks must only read shared inputs and write task-local outputs.
//
// Failure:
//   - The first task error cancels the group context; tasks that have not
//     started yet return early and the first error is surfaced to the caller.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultGrain is the minimum number of indices a single range receives.
const DefaultGrain = 64

// Config controls how an index space is partitioned and executed.
type Config struct {
	Workers int // maximum number of concurrently running tasks (>=1)
	Grain   int // minimum range length; n < Grain runs as a single task
}

// DefaultConfig returns one worker per schedulable CPU and DefaultGrain.
func DefaultConfig() Config {
	return Config{
		Workers: runtime.GOMAXPROCS(0),
		Grain:   DefaultGrain,
	}
}

// normalized clamps non-positive fields to 1 so a zero Config degrades to
// sequential execution instead of failing.
func (c Config) normalized() Config {
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.Grain < 1 {
		c.Grain = 1
	}

	return c
}

// Range is the half-open index interval [Lo, Hi).
type Range struct {
	Lo, Hi int
}

// Len returns Hi-Lo.
func (r Range) Len() int { return r.Hi - r.Lo }

// Split partitions [0, n) into at most cfg.Workers contiguous ranges whose
// lengths differ by at most one and are never shorter than cfg.Grain
// (except when n itself is shorter). Ranges are returned in index order.
// Complexity: O(parts).
func Split(n int, cfg Config) []Range {
	if n <= 0 {
		return nil
	}
	cfg = cfg.normalized()

	// Cap the task count so each range carries at least Grain indices.
	parts := min(cfg.Workers, max(n/cfg.Grain, 1))
	base, rem := n/parts, n%parts

	out := make([]Range, parts)
	lo := 0
	for k := range out {
		size := base
		if k < rem {
			size++ // spread the remainder over the leading ranges
		}
		out[k] = Range{Lo: lo, Hi: lo + size}
		lo += size
	}

	return out
}

// Map runs task once per range of Split(n, cfg) and returns the results in
// range order. All tasks have finished when Map returns.
// A single range runs inline on the calling goroutine.
func Map[R any](ctx context.Context, cfg Config, n int, task func(context.Context, Range) (R, error)) ([]R, error) {
	cfg = cfg.normalized()
	ranges := Split(n, cfg)
	out := make([]R, len(ranges))

	if len(ranges) == 1 {
		r, err := task(ctx, ranges[0])
		if err != nil {
			return nil, err
		}
		out[0] = r

		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for k, rg := range ranges {
		g.Go(func() error {
			// Skip work once a sibling has failed.
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := task(gctx, rg)
			if err != nil {
				return err
			}
			out[k] = r // slot k is owned by this task only

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// Reduce folds parts left to right starting from identity.
// combine must be associative; identity must be its neutral element.
func Reduce[R any](parts []R, identity R, combine func(R, R) R) R {
	acc := identity
	for _, p := range parts {
		acc = combine(acc, p)
	}

	return acc
}

// MapReduce is Map followed by Reduce over the joined results.
func MapReduce[R any](
	ctx context.Context,
	cfg Config,
	n int,
	task func(context.Context, Range) (R, error),
	identity R,
	combine func(R, R) R,
) (R, error) {
	parts, err := Map(ctx, cfg, n, task)
	if err != nil {
		return identity, err
	}

	return Reduce(parts, identity, combine), nil
}

// For calls body once per range of Split(n, cfg) and waits for all of them.
// Bodies cannot fail; use Map when a task may return an error.
func For(cfg Config, n int, body func(lo, hi int)) {
	// Map never fails here: the task returns nil and the context is never cancelled.
	_, _ = Map(context.Background(), cfg, n, func(_ context.Context, r Range) (struct{}, error) {
		body(r.Lo, r.Hi)

		return struct{}{}, nil
	})
}
