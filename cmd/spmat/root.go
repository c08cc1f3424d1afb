// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/spmat/config"
	"github.com/katalvlaran/spmat/dense"
	"github.com/katalvlaran/spmat/dispatch"
	"github.com/katalvlaran/spmat/sparse"
)

// app holds flag values and the objects built from them in PersistentPreRunE.
type app struct {
	configPath string
	workers    int
	grain      int
	logLevel   string
	parallel   bool
	metrics    bool
	out        string

	cfg      config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	executor *dispatch.Executor
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "spmat",
		Short:        "Sparse and dense matrix kernels",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if !a.cfg.Metrics.Enabled {
				return nil
			}
			return dumpMetrics(cmd.ErrOrStderr(), a.registry)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML configuration file")
	pf.IntVar(&a.workers, "workers", 0, "parallel workers (overrides config)")
	pf.IntVar(&a.grain, "grain", 0, "minimum rows per parallel task (overrides config)")
	pf.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
	pf.BoolVar(&a.parallel, "parallel", false, "use the parallel kernel variants")
	pf.BoolVar(&a.metrics, "metrics", false, "print Prometheus metrics to stderr when done")

	root.AddCommand(
		a.binaryCmd("add", "A + B", dispatch.OpAdd),
		a.binaryCmd("sub", "A - B", dispatch.OpSub),
		a.binaryCmd("mul", "A * B", dispatch.OpMul),
		a.transposeCmd(),
		a.scaleCmd(),
		a.minmaxCmd(),
		a.solveCmd(),
		a.luCmd(),
		a.qrCmd(),
		a.benchCmd(),
	)

	return root
}

// setup resolves configuration (flags > env > file > defaults) and builds
// the logger, registry and executor.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Parallel.Workers = a.workers
	}
	if flags.Changed("grain") {
		cfg.Parallel.Grain = a.grain
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if a.metrics {
		cfg.Metrics.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = cfg.Logger(cmd.ErrOrStderr())
	a.registry = prometheus.NewRegistry()

	opts := []dispatch.ExecutorOption{
		dispatch.WithLogger(a.logger),
		dispatch.WithSparseOptions(sparse.WithConfig(cfg.ParallelConfig()), sparse.WithLogger(a.logger)),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, dispatch.WithMetrics(dispatch.NewMetrics(a.registry)))
	}
	a.executor = dispatch.NewExecutor(opts...)
	a.logger.Debug("spmat configured",
		"workers", cfg.Parallel.Workers, "grain", cfg.Parallel.Grain, "metrics", cfg.Metrics.Enabled)

	return nil
}

// loadGrid reads a Matrix Market file as dense rows for the dense
// factorizations.
func loadGrid(path string) ([][]float64, error) {
	m, err := sparse.LoadMatrixMarket[float64](path)
	if err != nil {
		return nil, err
	}

	return m.ToDense(), nil
}

// writeMatrix prints rows with gonum's formatter.
func (a *app) writeMatrix(w io.Writer, name string, rows [][]float64) error {
	if name != "" {
		fmt.Fprintf(w, "%s =\n", name)
	}
	d, err := dense.FromRows(rows)
	if err != nil {
		// Zero-sized results have no Dense form.
		if errors.Is(err, dense.ErrInvalidDimensions) {
			_, err = fmt.Fprintf(w, "%v\n", rows)
		}
		return err
	}
	_, err = fmt.Fprintf(w, "%v\n", mat.Formatted(d.ToGonum(), mat.Squeeze()))

	return err
}

// writeSparse writes m to a.out as Matrix Market, or prints it densely.
// Only printing materializes rows×cols values.
func (a *app) writeSparse(w io.Writer, m *sparse.CSR[float64]) error {
	if a.out != "" {
		return writeMarket(a.out, m)
	}

	return a.writeMatrix(w, "", m.ToDense())
}

func writeMarket(path string, m *sparse.CSR[float64]) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return sparse.WriteMatrixMarket(f, m)
}

// dumpMetrics writes every gathered family in the Prometheus text format.
func dumpMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	if c, ok := enc.(expfmt.Closer); ok {
		return c.Close()
	}

	return nil
}
