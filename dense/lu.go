// SPDX-License-Identifier: MIT

package dense

import (
	"fmt"
	"math"
)

// LU factors a square matrix in place with row pivoting (Doolittle form).
// On return the strictly lower part of a holds L without its unit diagonal
// and the upper part holds U, so that L·U = P·A where P is the permutation
// matrix of perm: row i of P·A is row perm[i] of the original A.
// Stage 1 (Validate): non-nil and square.
// Stage 2 (Execute): per column choose the largest pivot, swap, store
// multipliers below the diagonal and update the trailing block.
// Errors: ErrNonSquare, ErrSingular (a is left partially factored).
// Complexity: O(n³) time, O(n) extra memory for perm.
func LU(a *Dense) ([]int, error) {
	// Stage 1: Validate
	if err := validateNotNil(a); err != nil {
		return nil, opErrorf(opLU, err)
	}
	if a.r != a.c {
		return nil, opErrorf(opLU, ErrNonSquare)
	}
	n := a.r

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i // identity permutation
	}

	// Stage 2: Factor
	var i, j, k int
	for k = 0; k < n; k++ {
		p := pivotRow(a, k)
		if p != k {
			a.swapRows(k, p)
			perm[k], perm[p] = perm[p], perm[k]
		}
		pivot := a.data[k*n+k]
		if math.Abs(pivot) <= PivotTolerance {
			return nil, singularAt(opLU, k, pivot)
		}
		rk := a.row(k)
		for i = k + 1; i < n; i++ {
			ri := a.row(i)
			l := ri[k] / pivot
			ri[k] = l // multiplier stored in place of the eliminated entry
			for j = k + 1; j < n; j++ {
				ri[j] -= l * rk[j]
			}
		}
	}

	return perm, nil
}

// UnpackLU splits an LU-factored matrix into a unit lower-triangular L and
// an upper-triangular U. packed is not modified.
func UnpackLU(packed *Dense) (l, u *Dense, err error) {
	if err = validateNotNil(packed); err != nil {
		return nil, nil, opErrorf(opUnpackLU, err)
	}
	if packed.r != packed.c {
		return nil, nil, opErrorf(opUnpackLU, ErrNonSquare)
	}
	n := packed.r
	if l, err = Identity(n); err != nil {
		return nil, nil, opErrorf(opUnpackLU, err)
	}
	if u, err = NewDense(n, n); err != nil {
		return nil, nil, opErrorf(opUnpackLU, err)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := packed.data[i*n+j]
			if i > j {
				l.data[i*n+j] = v
			} else {
				u.data[i*n+j] = v
			}
		}
	}

	return l, u, nil
}

// PermutationMatrix builds P with P[i][perm[i]] = 1.
// Errors: ErrInvalidDimensions for an empty perm, ErrOutOfRange when perm
// is not a permutation of 0..n-1.
func PermutationMatrix(perm []int) (*Dense, error) {
	n := len(perm)
	p, err := NewDense(n, n)
	if err != nil {
		return nil, opErrorf(opPerm, err)
	}
	seen := make([]bool, n)
	for i, c := range perm {
		if c < 0 || c >= n || seen[c] {
			return nil, fmt.Errorf("%s: perm[%d] = %d: %w", opPerm, i, c, ErrOutOfRange)
		}
		seen[c] = true
		p.data[i*n+c] = 1
	}

	return p, nil
}
