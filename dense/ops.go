// SPDX-License-Identifier: MIT

package dense

import "math"

// Operation tags used in wrapped errors.
const (
	opMul       = "Mul"
	opTranspose = "Transpose"
	opAllClose  = "AllClose"
	opEliminate = "Eliminate"
	opElimPar   = "EliminateParallel"
	opElimPiv   = "EliminatePivoting"
	opSolve     = "Solve"
	opLU        = "LU"
	opUnpackLU  = "UnpackLU"
	opPerm      = "PermutationMatrix"
	opQR        = "QR"
	opFromGonum = "FromGonum"
)

// validateNotNil returns ErrNilMatrix for a nil *Dense.
func validateNotNil(m *Dense) error {
	if m == nil {
		return ErrNilMatrix
	}

	return nil
}

// Mul performs standard matrix multiplication of a and b (a × b).
// Stage 1 (Validate): nil-check and inner-dimension match.
// Stage 2 (Prepare): allocate result Dense.
// Stage 3 (Execute): i-k-j loop over the flat buffers, skipping zero factors.
// Complexity: O(r*n*c) time and O(r*c) memory.
func Mul(a, b *Dense) (*Dense, error) {
	// Stage 1: Validate inputs
	if err := validateNotNil(a); err != nil {
		return nil, opErrorf(opMul, err)
	}
	if err := validateNotNil(b); err != nil {
		return nil, opErrorf(opMul, err)
	}
	if a.c != b.r {
		return nil, opErrorf(opMul, ErrDimensionMismatch)
	}

	// Stage 2: Allocate result
	res, err := NewDense(a.r, b.c)
	if err != nil {
		return nil, opErrorf(opMul, err)
	}

	// Stage 3: row-major accumulation
	var (
		i, j, k    int
		av         float64
		rowA, rowR []float64
	)
	for i = 0; i < a.r; i++ {
		rowA = a.row(i)
		rowR = res.row(i)
		for k = 0; k < a.c; k++ {
			av = rowA[k]
			if av == 0 {
				continue // skip zero for performance
			}
			rowB := b.row(k)
			for j = 0; j < b.c; j++ {
				rowR[j] += av * rowB[j]
			}
		}
	}

	return res, nil
}

// Transpose returns a new Dense where rows and columns of m are swapped.
// Time Complexity: O(r·c); Space Complexity: O(r·c).
func Transpose(m *Dense) (*Dense, error) {
	if err := validateNotNil(m); err != nil {
		return nil, opErrorf(opTranspose, err)
	}
	res, err := NewDense(m.c, m.r)
	if err != nil {
		return nil, opErrorf(opTranspose, err)
	}
	for i := 0; i < m.r; i++ {
		for j := 0; j < m.c; j++ {
			res.data[j*m.r+i] = m.data[i*m.c+j]
		}
	}

	return res, nil
}

// AllClose reports whether |a-b| ≤ atol + rtol*|b| holds element-wise.
// Negative tolerances are normalized to their absolute value.
// Time: O(r*c). Space: O(1).
func AllClose(a, b *Dense, rtol, atol float64) (bool, error) {
	if math.IsNaN(rtol) || math.IsNaN(atol) || math.IsInf(rtol, 0) || math.IsInf(atol, 0) {
		return false, opErrorf(opAllClose, ErrNaNInf)
	}
	rtol, atol = math.Abs(rtol), math.Abs(atol)
	if a == nil || b == nil {
		return false, opErrorf(opAllClose, ErrNilMatrix)
	}
	if a.r != b.r || a.c != b.c {
		return false, opErrorf(opAllClose, ErrDimensionMismatch)
	}
	for idx, bv := range b.data {
		if math.Abs(a.data[idx]-bv) > atol+rtol*math.Abs(bv) {
			return false, nil // early-exit on first violation
		}
	}

	return true, nil
}
