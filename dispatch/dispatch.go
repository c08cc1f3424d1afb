// SPDX-License-Identifier: MIT

// Package dispatch executes a decoded request against the sparse and dense
// kernels: dense operands in, an operation id, dense-serializable results
// out. It owns no transport; a server or CLI decodes its payload into a
// Request and renders the Result or error it gets back.
//
// Sparse operations (add, sub, mul, transpose, scale, min, max) convert
// their operands with sparse.FromDense and run the sequential or parallel
// kernel depending on Request.Parallel. Callers that already hold CSR
// matrices pass them in Request.Sparse instead and get a CSR back in
// Result.Sparse, so nothing is densified. Solve, LU and QR run the dense
// factorizations on copies of the operands.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/katalvlaran/spmat/dense"
	"github.com/katalvlaran/spmat/sparse"
)

var (
	// ErrUnknownOp is returned for an operation id without a kernel.
	ErrUnknownOp = errors.New("dispatch: unknown operation")

	// ErrMissingOperand is returned when a request lacks a matrix, vector
	// or scalar the operation needs.
	ErrMissingOperand = errors.New("dispatch: missing operand")
)

// Request is a decoded kernel invocation.
type Request struct {
	Op       Op
	Scalars  []float64
	Vectors  [][]float64
	Matrices [][][]float64
	// Sparse, when non-empty, replaces Matrices as the operands of the
	// sparse operations. Matrices are immutable, so they are not copied.
	Sparse   []*sparse.CSR[float64]
	Parallel bool // run the parallel kernel variant where one exists
}

// Result carries whichever outputs the operation produces.
//   - add, sub, mul, transpose, scale: Matrices[0], or Sparse when the
//     request carried sparse operands
//   - min, max: Scalar
//   - solve: Vector
//   - lu: Matrices = [L, U], Perm
//   - qr: Matrices = [Q, R]
type Result struct {
	Scalar   float64
	Vector   []float64
	Perm     []int
	Matrices [][][]float64
	Sparse   *sparse.CSR[float64]
}

// Executor runs requests. The zero value is not usable; call NewExecutor.
type Executor struct {
	sparseOpts []sparse.Option
	metrics    *Metrics
	logger     *slog.Logger
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithSparseOptions forwards opts to every parallel sparse kernel call.
func WithSparseOptions(opts ...sparse.Option) ExecutorOption {
	return func(e *Executor) { e.sparseOpts = append(e.sparseOpts, opts...) }
}

// WithMetrics records every request on m.
func WithMetrics(m *Metrics) ExecutorOption {
	return func(e *Executor) { e.metrics = m }
}

// WithLogger sets the executor's logger. nil keeps the default.
func WithLogger(l *slog.Logger) ExecutorOption {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExecutor returns an Executor with slog.Default and no metrics.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{logger: slog.Default()}
	for _, fn := range opts {
		fn(e)
	}

	return e
}

// Execute validates req, runs the kernel and converts the result.
// Errors from the kernels are wrapped with the op name and still match
// their sentinels (sparse.ErrDimensionMismatch, dense.ErrSingular, ...).
func (e *Executor) Execute(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	res, err := e.run(req)
	elapsed := time.Since(start)
	e.metrics.observe(req.Op, err, elapsed)

	if err != nil {
		e.logger.Warn("dispatch failed", "op", req.Op.String(), "parallel", req.Parallel, "error", err)
		return nil, fmt.Errorf("dispatch %s: %w", req.Op, err)
	}
	e.logger.Debug("dispatch done", "op", req.Op.String(), "parallel", req.Parallel, "elapsed", elapsed)

	return res, nil
}

// run picks the kernel for req.Op.
func (e *Executor) run(req Request) (*Result, error) {
	switch req.Op {
	case OpAdd, OpSub, OpMul:
		return e.binary(req)
	case OpTranspose:
		a, err := sparseOperand(req, 0)
		if err != nil {
			return nil, err
		}
		t, err := a.Transpose()
		if err != nil {
			return nil, err
		}
		return sparseResult(req, t), nil
	case OpScale:
		a, err := sparseOperand(req, 0)
		if err != nil {
			return nil, err
		}
		if len(req.Scalars) < 1 {
			return nil, fmt.Errorf("scalar 0: %w", ErrMissingOperand)
		}
		s, err := a.Scale(req.Scalars[0])
		if err != nil {
			return nil, err
		}
		return sparseResult(req, s), nil
	case OpMin, OpMax:
		return e.extremum(req)
	case OpSolve:
		return solve(req)
	case OpLU:
		return lu(req)
	case OpQR:
		return qr(req)
	default:
		return nil, ErrUnknownOp
	}
}

func (e *Executor) binary(req Request) (*Result, error) {
	a, err := sparseOperand(req, 0)
	if err != nil {
		return nil, err
	}
	b, err := sparseOperand(req, 1)
	if err != nil {
		return nil, err
	}

	var c *sparse.CSR[float64]
	switch {
	case req.Op == OpAdd && req.Parallel:
		c, err = a.AddParallel(b, e.sparseOpts...)
	case req.Op == OpAdd:
		c, err = a.Add(b)
	case req.Op == OpSub && req.Parallel:
		c, err = a.SubParallel(b, e.sparseOpts...)
	case req.Op == OpSub:
		c, err = a.Sub(b)
	case req.Parallel:
		c, err = a.MulParallel(b, e.sparseOpts...)
	default:
		c, err = a.Mul(b)
	}
	if err != nil {
		return nil, err
	}

	return sparseResult(req, c), nil
}

func (e *Executor) extremum(req Request) (*Result, error) {
	a, err := sparseOperand(req, 0)
	if err != nil {
		return nil, err
	}

	var v float64
	switch {
	case req.Op == OpMin && req.Parallel:
		v, err = a.MinParallel(e.sparseOpts...)
	case req.Op == OpMin:
		v, err = a.Min()
	case req.Parallel:
		v, err = a.MaxParallel(e.sparseOpts...)
	default:
		v, err = a.Max()
	}
	if err != nil {
		return nil, err
	}

	return &Result{Scalar: v}, nil
}

func solve(req Request) (*Result, error) {
	a, err := denseOperand(req, 0)
	if err != nil {
		return nil, err
	}
	if len(req.Vectors) < 1 {
		return nil, fmt.Errorf("vector 0: %w", ErrMissingOperand)
	}
	x := append([]float64(nil), req.Vectors[0]...)
	if err := dense.Solve(a, x); err != nil {
		return nil, err
	}

	return &Result{Vector: x}, nil
}

func lu(req Request) (*Result, error) {
	a, err := denseOperand(req, 0)
	if err != nil {
		return nil, err
	}
	perm, err := dense.LU(a)
	if err != nil {
		return nil, err
	}
	l, u, err := dense.UnpackLU(a)
	if err != nil {
		return nil, err
	}

	return &Result{Perm: perm, Matrices: [][][]float64{l.ToRows(), u.ToRows()}}, nil
}

func qr(req Request) (*Result, error) {
	a, err := denseOperand(req, 0)
	if err != nil {
		return nil, err
	}
	q, r, err := dense.QR(a)
	if err != nil {
		return nil, err
	}

	return &Result{Matrices: [][][]float64{q.ToRows(), r.ToRows()}}, nil
}

// sparseOperand returns sparse operand k of req, converting matrix k to CSR
// when the request carries no sparse operands.
func sparseOperand(req Request, k int) (*sparse.CSR[float64], error) {
	if len(req.Sparse) > 0 {
		if len(req.Sparse) <= k || req.Sparse[k] == nil {
			return nil, fmt.Errorf("sparse %d: %w", k, ErrMissingOperand)
		}
		return req.Sparse[k], nil
	}
	if len(req.Matrices) <= k {
		return nil, fmt.Errorf("matrix %d: %w", k, ErrMissingOperand)
	}

	return sparse.FromDense(req.Matrices[k])
}

// denseOperand copies matrix k of req into a Dense the kernel may overwrite.
func denseOperand(req Request, k int) (*dense.Dense, error) {
	if len(req.Matrices) <= k {
		return nil, fmt.Errorf("matrix %d: %w", k, ErrMissingOperand)
	}

	return dense.FromRows(req.Matrices[k])
}

// sparseResult keeps m sparse when the request was sparse.
func sparseResult(req Request, m *sparse.CSR[float64]) *Result {
	if len(req.Sparse) > 0 {
		return &Result{Sparse: m}
	}

	return &Result{Matrices: [][][]float64{m.ToDense()}}
}
