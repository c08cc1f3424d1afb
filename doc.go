// SPDX-License-Identifier: MIT

// Package spmat is an in-memory sparse matrix engine with sequential and
// fork-join kernels, plus the dense factorizations that sit next to them.
//
// What is in the box:
//
//   - sparse:   generic CSR/CSC matrices, add, sub, scale, transpose,
//     multiply and min/max, each with a parallel variant; triplet and
//     Matrix Market I/O
//   - parallel: balanced range split, partitioned map and associative reduce
//     on golang.org/x/sync/errgroup
//   - dense:    row-major Dense, Gaussian elimination (plain, parallel,
//     pivoting), Solve, LU with partial pivoting, Householder QR, gonum interop
//   - dispatch: operation-id executor over dense or CSR operands with Prometheus metrics
//   - config:   YAML settings with SPMAT_* environment overrides
//   - cmd/spmat: command-line front end and benchmark
//
// Quick start:
//
//	a, _ := sparse.FromDense([][]float64{{1, 0}, {0, 2}})
//	b, _ := sparse.FromDense([][]float64{{0, 3}, {4, 0}})
//	c, _ := a.MulParallel(b, sparse.WithWorkers(4))
//	fmt.Println(c)
//
// Guarantees:
//
//   - Matrices are immutable; kernels return fresh results.
//   - Every parallel kernel returns exactly what its sequential twin returns.
//   - Shape errors are *sparse.DimensionError values that match
//     sparse.ErrDimensionMismatch under errors.Is.
package spmat
