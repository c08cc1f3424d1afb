// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/spmat/dispatch"
	"github.com/katalvlaran/spmat/sparse"
)

// outFlag registers --out on commands that produce one matrix.
func (a *app) outFlag(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().StringVar(&a.out, "out", "", "write the result as Matrix Market; without it the result is printed as a dense grid")
	return cmd
}

// runSparse loads the operand files as CSR and executes a sparse op
// without densifying them.
func (a *app) runSparse(cmd *cobra.Command, op dispatch.Op, paths []string, scalars []float64) (*dispatch.Result, error) {
	req := dispatch.Request{Op: op, Scalars: scalars, Parallel: a.parallel}
	for _, p := range paths {
		m, err := sparse.LoadMatrixMarket[float64](p)
		if err != nil {
			return nil, err
		}
		req.Sparse = append(req.Sparse, m)
	}

	return a.executor.Execute(cmd.Context(), req)
}

// runDense loads the operand files as dense rows for the factorizations,
// which work on dense storage anyway.
func (a *app) runDense(cmd *cobra.Command, op dispatch.Op, paths []string) (*dispatch.Result, error) {
	req := dispatch.Request{Op: op}
	for _, p := range paths {
		g, err := loadGrid(p)
		if err != nil {
			return nil, err
		}
		req.Matrices = append(req.Matrices, g)
	}

	return a.executor.Execute(cmd.Context(), req)
}

func (a *app) binaryCmd(name, short string, op dispatch.Op) *cobra.Command {
	return a.outFlag(&cobra.Command{
		Use:   name + " A.mtx B.mtx",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.runSparse(cmd, op, args, nil)
			if err != nil {
				return err
			}
			return a.writeSparse(cmd.OutOrStdout(), res.Sparse)
		},
	})
}

func (a *app) transposeCmd() *cobra.Command {
	return a.outFlag(&cobra.Command{
		Use:   "transpose A.mtx",
		Short: "Aᵀ",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.runSparse(cmd, dispatch.OpTranspose, args, nil)
			if err != nil {
				return err
			}
			return a.writeSparse(cmd.OutOrStdout(), res.Sparse)
		},
	})
}

func (a *app) scaleCmd() *cobra.Command {
	var by float64
	cmd := a.outFlag(&cobra.Command{
		Use:   "scale --by S A.mtx",
		Short: "S * A",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.runSparse(cmd, dispatch.OpScale, args, []float64{by})
			if err != nil {
				return err
			}
			return a.writeSparse(cmd.OutOrStdout(), res.Sparse)
		},
	})
	cmd.Flags().Float64Var(&by, "by", 0, "scalar factor")
	_ = cmd.MarkFlagRequired("by")

	return cmd
}

func (a *app) minmaxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "minmax A.mtx",
		Short: "Smallest and largest stored value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lo, err := a.runSparse(cmd, dispatch.OpMin, args, nil)
			if err != nil {
				return err
			}
			hi, err := a.runSparse(cmd, dispatch.OpMax, args, nil)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "min %g\nmax %g\n", lo.Scalar, hi.Scalar)
			return err
		},
	}
}

func (a *app) solveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "solve A.mtx b.mtx",
		Short: "Solve A x = b with partial pivoting; b is an n×1 matrix",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a0, err := loadGrid(args[0])
			if err != nil {
				return err
			}
			bg, err := loadGrid(args[1])
			if err != nil {
				return err
			}
			b := make([]float64, len(bg))
			for i, row := range bg {
				if len(row) != 1 {
					return fmt.Errorf("solve: %s must have exactly one column", args[1])
				}
				b[i] = row[0]
			}
			res, err := a.executor.Execute(cmd.Context(), dispatch.Request{
				Op: dispatch.OpSolve, Matrices: [][][]float64{a0}, Vectors: [][]float64{b},
			})
			if err != nil {
				return err
			}
			for _, v := range res.Vector {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%g\n", v); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (a *app) luCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lu A.mtx",
		Short: "PA = LU with partial pivoting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.runDense(cmd, dispatch.OpLU, args)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(w, "perm = %v\n", res.Perm); err != nil {
				return err
			}
			if err := a.writeMatrix(w, "L", res.Matrices[0]); err != nil {
				return err
			}
			return a.writeMatrix(w, "U", res.Matrices[1])
		},
	}
}

func (a *app) qrCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "qr A.mtx",
		Short: "Thin Householder QR (rows >= cols)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.runDense(cmd, dispatch.OpQR, args)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if err := a.writeMatrix(w, "Q", res.Matrices[0]); err != nil {
				return err
			}
			return a.writeMatrix(w, "R", res.Matrices[1])
		},
	}
}
