// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/spmat/sparse"
)

const (
	modeSequential = "sequential"
	modeParallel   = "parallel"
)

type benchFlags struct {
	size       int
	density    float64
	seed       uint64
	iterations int
}

// benchCase times one kernel in both variants. Each func returns an error
// only; results are discarded.
type benchCase struct {
	name string
	seq  func() error
	par  func() error
}

func (a *app) benchCmd() *cobra.Command {
	var f benchFlags
	cmd := &cobra.Command{
		Use:   "bench [A.mtx B.mtx]",
		Short: "Time sequential vs parallel sparse kernels",
		Long: "Times add, sub, mul, transpose and max in both variants. Without " +
			"arguments the operands are random square matrices of --size with " +
			"--density stored entries.",
		Args: cobra.MatchAll(cobra.MaximumNArgs(2), func(_ *cobra.Command, args []string) error {
			if len(args) == 1 {
				return fmt.Errorf("bench: pass two matrices or none")
			}
			return nil
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, y, err := benchOperands(f, args)
			if err != nil {
				return err
			}
			return a.bench(cmd.OutOrStdout(), f.iterations, x, y)
		},
	}
	fl := cmd.Flags()
	fl.IntVar(&f.size, "size", 1000, "rows and columns of the random operands")
	fl.Float64Var(&f.density, "density", 0.01, "fraction of stored entries in the random operands")
	fl.Uint64Var(&f.seed, "seed", 1, "random seed")
	fl.IntVar(&f.iterations, "iterations", 5, "runs per kernel and variant")

	return cmd
}

func benchOperands(f benchFlags, args []string) (x, y *sparse.CSR[float64], err error) {
	if len(args) == 2 {
		if x, err = sparse.LoadMatrixMarket[float64](args[0]); err != nil {
			return nil, nil, err
		}
		if y, err = sparse.LoadMatrixMarket[float64](args[1]); err != nil {
			return nil, nil, err
		}
		return x, y, nil
	}
	if f.size < 1 || f.density <= 0 || f.density > 1 {
		return nil, nil, fmt.Errorf("bench: need size >= 1 and 0 < density <= 1")
	}
	rng := rand.New(rand.NewPCG(f.seed, f.seed^0x9e3779b97f4a7c15))
	if x, err = randomCSR(rng, f.size, f.density); err != nil {
		return nil, nil, err
	}
	if y, err = randomCSR(rng, f.size, f.density); err != nil {
		return nil, nil, err
	}

	return x, y, nil
}

// randomCSR draws about density*n*n entries in [-1, 1). Collisions are
// summed by FromTriplets.
func randomCSR(rng *rand.Rand, n int, density float64) (*sparse.CSR[float64], error) {
	nnz := max(1, int(density*float64(n)*float64(n)))
	entries := make([]sparse.Triplet[float64], 0, nnz)
	for range nnz {
		entries = append(entries, sparse.Triplet[float64]{
			Row:   rng.IntN(n),
			Col:   rng.IntN(n),
			Value: 2*rng.Float64() - 1,
		})
	}

	return sparse.FromTriplets(n, n, entries)
}

func (a *app) bench(w io.Writer, iterations int, x, y *sparse.CSR[float64]) error {
	if iterations < 1 {
		return fmt.Errorf("bench: iterations must be >= 1")
	}
	opts := []sparse.Option{sparse.WithConfig(a.cfg.ParallelConfig()), sparse.WithLogger(a.logger)}
	hist := promauto.With(a.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "spmat",
		Subsystem: "bench",
		Name:      "duration_seconds",
		Help:      "Benchmarked kernel time by operation and variant.",
		Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
	}, []string{"op", "mode"})

	ignore := func(_ *sparse.CSR[float64], err error) error { return err }
	ignoreVal := func(_ float64, err error) error { return err }
	cases := []benchCase{
		{"add", func() error { return ignore(x.Add(y)) }, func() error { return ignore(x.AddParallel(y, opts...)) }},
		{"sub", func() error { return ignore(x.Sub(y)) }, func() error { return ignore(x.SubParallel(y, opts...)) }},
		{"mul", func() error { return ignore(x.Mul(y)) }, func() error { return ignore(x.MulParallel(y, opts...)) }},
		{"max", func() error { return ignoreVal(x.Max()) }, func() error { return ignoreVal(x.MaxParallel(opts...)) }},
		{"transpose", func() error { return ignore(x.Transpose()) }, nil},
	}

	a.logger.Info("bench operands",
		"rows", x.Rows(), "cols", x.Cols(), "nnz_a", x.NNZ(), "nnz_b", y.NNZ(),
		"workers", a.cfg.Parallel.Workers, "grain", a.cfg.Parallel.Grain)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "op\tsequential\tparallel\tspeedup")
	for _, c := range cases {
		seq, err := timeKernel(c.seq, iterations, hist.WithLabelValues(c.name, modeSequential))
		if err != nil {
			return fmt.Errorf("bench %s: %w", c.name, err)
		}
		if c.par == nil {
			fmt.Fprintf(tw, "%s\t%v\t-\t-\n", c.name, seq)
			continue
		}
		par, err := timeKernel(c.par, iterations, hist.WithLabelValues(c.name, modeParallel))
		if err != nil {
			return fmt.Errorf("bench %s parallel: %w", c.name, err)
		}
		fmt.Fprintf(tw, "%s\t%v\t%v\t%.2fx\n", c.name, seq, par, float64(seq)/float64(max(par, 1)))
	}

	return tw.Flush()
}

// timeKernel runs fn iterations times and returns the mean wall time.
func timeKernel(fn func() error, iterations int, obs prometheus.Observer) (time.Duration, error) {
	var total time.Duration
	for range iterations {
		start := time.Now()
		if err := fn(); err != nil {
			return 0, err
		}
		d := time.Since(start)
		obs.Observe(d.Seconds())
		total += d
	}

	return total / time.Duration(iterations), nil
}
