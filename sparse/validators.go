// SPDX-License-Identifier: MIT
// Package sparse: shape validators shared by CSR and CSC kernels.
// All checks are O(1), allocate nothing on success and run before any
// parallel work is dispatched.

package sparse

import "math"

// MaxDim bounds the row and column counts accepted by the constructors and
// the Matrix Market reader. Layouts allocate one pointer per major line up
// front, so the bound keeps that allocation addressable.
const MaxDim = math.MaxInt32

// validateShape rejects negative counts and counts above MaxDim.
func validateShape(rows, cols int) error {
	if rows < 0 || cols < 0 || rows > MaxDim || cols > MaxDim {
		return ErrBadShape
	}

	return nil
}

// shaped is the part of CSR/CSC the validators need.
type shaped interface {
	Rows() int
	Cols() int
}

// validateSameShape checks rows first, then columns, and names the first
// mismatch in a *DimensionError.
func validateSameShape(op string, a, b shaped) error {
	if a.Rows() != b.Rows() {
		return &DimensionError{Op: op, Dim: DimRows, Left: a.Rows(), Right: b.Rows()}
	}
	if a.Cols() != b.Cols() {
		return &DimensionError{Op: op, Dim: DimColumns, Left: a.Cols(), Right: b.Cols()}
	}

	return nil
}

// validateInner checks a.Cols() == b.Rows() for a product a·b.
func validateInner(op string, a, b shaped) error {
	if a.Cols() != b.Rows() {
		return &DimensionError{Op: op, Dim: DimInner, Left: a.Cols(), Right: b.Rows()}
	}

	return nil
}
