// SPDX-License-Identifier: MIT

package dense

import (
	"fmt"
	"math"

	"github.com/katalvlaran/spmat/parallel"
)

// PivotTolerance is the magnitude at or below which a pivot is treated as
// zero and the matrix reported singular.
const PivotTolerance = 1e-10

// validateElimination checks the shape every elimination variant needs:
// at least as many columns as rows, so each row owns a diagonal pivot.
func validateElimination(op string, a *Dense) error {
	if err := validateNotNil(a); err != nil {
		return opErrorf(op, err)
	}
	if a.c < a.r {
		return fmt.Errorf("%s: %dx%d has fewer columns than rows: %w", op, a.r, a.c, ErrDimensionMismatch)
	}

	return nil
}

// singularAt wraps ErrSingular with the failing step.
func singularAt(op string, k int, pivot float64) error {
	return fmt.Errorf("%s: pivot %g at step %d: %w", op, pivot, k, ErrSingular)
}

// normalizePivotRow divides row k right of the diagonal by the pivot and
// writes the exact 1 on the diagonal.
func normalizePivotRow(a *Dense, k int) {
	rk := a.row(k)
	pivot := rk[k]
	for j := k + 1; j < a.c; j++ {
		rk[j] /= pivot
	}
	rk[k] = 1
}

// eliminateBelow clears column k in rows [lo, hi) using the normalized
// pivot row k. Rows in the range are written by this call only.
func eliminateBelow(a *Dense, k, lo, hi int) {
	rk := a.row(k)
	for i := lo; i < hi; i++ {
		ri := a.row(i)
		f := ri[k]
		if f != 0 {
			for j := k + 1; j < a.c; j++ {
				ri[j] -= rk[j] * f
			}
		}
		ri[k] = 0 // exact zero below the pivot
	}
}

// Eliminate reduces a to row echelon form with a unit diagonal, without
// row exchanges, overwriting a. Wide matrices are accepted, so an augmented
// [A | b] is reduced together with its right-hand side.
// Stage 1 (Validate): non-nil, cols ≥ rows.
// Stage 2 (Execute): per step k check the pivot, normalize row k, clear below.
// Errors: ErrSingular when |pivot| ≤ PivotTolerance; a is left partially reduced.
// Complexity: O(r²·c).
func Eliminate(a *Dense) error {
	if err := validateElimination(opEliminate, a); err != nil {
		return err
	}
	for k := 0; k < a.r; k++ {
		pivot := a.data[k*a.c+k]
		if math.Abs(pivot) <= PivotTolerance {
			return singularAt(opEliminate, k, pivot)
		}
		normalizePivotRow(a, k)
		eliminateBelow(a, k, k+1, a.r)
	}

	return nil
}

// EliminateParallel is Eliminate with the row updates of every step fanned
// out over cfg. Each row below the pivot is written by exactly one task and
// the pivot row is only read, so the result equals Eliminate bit for bit.
// Steps run one after another; a step's tasks join before the next pivot
// is inspected.
func EliminateParallel(a *Dense, cfg parallel.Config) error {
	if err := validateElimination(opElimPar, a); err != nil {
		return err
	}
	for k := 0; k < a.r; k++ {
		pivot := a.data[k*a.c+k]
		if math.Abs(pivot) <= PivotTolerance {
			return singularAt(opElimPar, k, pivot)
		}
		normalizePivotRow(a, k)
		base := k + 1
		parallel.For(cfg, a.r-base, func(lo, hi int) {
			eliminateBelow(a, k, base+lo, base+hi)
		})
	}

	return nil
}

// EliminatePivoting reduces a to upper-triangular form with partial
// pivoting, overwriting a. At step k the row with the largest |a[i][k]|
// among i ≥ k is swapped into place. Pivot rows are not normalized.
// Errors: ErrSingular when the best pivot is ≤ PivotTolerance.
// Complexity: O(r²·c).
func EliminatePivoting(a *Dense) error {
	if err := validateElimination(opElimPiv, a); err != nil {
		return err
	}
	for k := 0; k < a.r; k++ {
		p := pivotRow(a, k)
		a.swapRows(k, p)
		pivot := a.data[k*a.c+k]
		if math.Abs(pivot) <= PivotTolerance {
			return singularAt(opElimPiv, k, pivot)
		}
		rk := a.row(k)
		for i := k + 1; i < a.r; i++ {
			ri := a.row(i)
			t := ri[k] / pivot
			for j := k + 1; j < a.c; j++ {
				ri[j] -= rk[j] * t
			}
			ri[k] = 0
		}
	}

	return nil
}

// pivotRow returns the index of the row i ≥ k with the largest |a[i][k]|.
// Ties keep the earliest row.
func pivotRow(a *Dense, k int) int {
	best, bestAbs := k, math.Abs(a.data[k*a.c+k])
	for i := k + 1; i < a.r; i++ {
		if v := math.Abs(a.data[i*a.c+k]); v > bestAbs {
			best, bestAbs = i, v
		}
	}

	return best
}

// Solve solves a·x = b for square a by partial-pivoting elimination and
// back substitution. Both a and b are overwritten; on success b holds x.
// Stage 1 (Validate): square a, len(b) == rows.
// Stage 2 (Forward): pivot, swap rows of a and entries of b, eliminate.
// Stage 3 (Backward): substitute from the last row up.
// Errors: ErrNonSquare, ErrDimensionMismatch, ErrSingular.
// Complexity: O(n³).
func Solve(a *Dense, b []float64) error {
	// Stage 1: Validate
	if err := validateNotNil(a); err != nil {
		return opErrorf(opSolve, err)
	}
	if a.r != a.c {
		return opErrorf(opSolve, ErrNonSquare)
	}
	n := a.r
	if len(b) != n {
		return fmt.Errorf("%s: rhs length %d, want %d: %w", opSolve, len(b), n, ErrDimensionMismatch)
	}

	// Stage 2: Forward elimination with partial pivoting
	var i, j, k int
	for k = 0; k < n; k++ {
		p := pivotRow(a, k)
		a.swapRows(k, p)
		b[k], b[p] = b[p], b[k]
		pivot := a.data[k*n+k]
		if math.Abs(pivot) <= PivotTolerance {
			return singularAt(opSolve, k, pivot)
		}
		rk := a.row(k)
		for i = k + 1; i < n; i++ {
			ri := a.row(i)
			t := ri[k] / pivot
			for j = k + 1; j < n; j++ {
				ri[j] -= rk[j] * t
			}
			ri[k] = 0
			b[i] -= b[k] * t
		}
	}

	// Stage 3: Back substitution
	var sum float64
	for i = n - 1; i >= 0; i-- {
		ri := a.row(i)
		sum = b[i]
		for j = i + 1; j < n; j++ {
			sum -= ri[j] * b[j]
		}
		b[i] = sum / ri[i]
	}

	return nil
}
