// SPDX-License-Identifier: MIT

// Package sparse implements compressed-sparse-row (CSR) and
// compressed-sparse-column (CSC) matrices and their arithmetic kernels.
//
// Both formats share one three-array layout: values, minor indices and a
// pointer array that delimits the segment of each major line (a row for CSR,
// a column for CSC). Inside a segment the indices are strictly increasing and
// no stored value is zero. Every kernel relies on that ordering to walk two
// segments with a pair of cursors (merge for Add/Sub, intersection for Mul).
//
// Matrices are immutable once built. Kernels never touch their inputs and
// always return a fresh matrix, so the same matrix can feed any number of
// concurrent kernel calls.
//
// Each of Add, Sub, Mul, Min and Max has a Parallel variant with identical
// results. Add/Sub split the major lines into contiguous ranges and
// concatenate the per-range buffers in order; Mul fans out over output
// columns of each row; Min/Max reduce value ranges. Shape checks run before
// any task is spawned, so failures never leave partial results.
//
// Quick example:
//
//	a, _ := sparse.FromDense([][]int{{1, 0, 0}, {4, 5, 6}, {0, 8, 9}})
//	b, _ := sparse.FromDense([][]int{{0, 2, 3}, {0, -5, 0}, {7, 8, 0}})
//	c, _ := a.AddParallel(b, sparse.WithWorkers(4))
//	fmt.Println(c.ToDense()) // [[1 2 3] [4 0 6] [7 16 9]]
package sparse
