// SPDX-License-Identifier: MIT
// Package sparse: sentinel error set and the structured dimension error.
// Kernels return these sentinels (optionally wrapped with an operation tag);
// callers and tests match them with errors.Is / errors.As.
// No kernel panics on user-triggered conditions.

package sparse

import (
	"errors"
	"fmt"
)

var (
	// ErrDimensionMismatch indicates incompatible operand shapes. Every
	// *DimensionError unwraps to it.
	ErrDimensionMismatch = errors.New("sparse: dimension mismatch")

	// ErrEmptyMatrix is returned by Min/Max on a matrix with no stored entries.
	ErrEmptyMatrix = errors.New("sparse: matrix has no stored entries")

	// ErrOutOfRange indicates a row or column index outside the matrix bounds.
	ErrOutOfRange = errors.New("sparse: index out of range")

	// ErrBadShape indicates a negative row or column count, or one above MaxDim.
	ErrBadShape = errors.New("sparse: invalid shape")

	// ErrNilMatrix indicates a nil receiver or operand.
	ErrNilMatrix = errors.New("sparse: nil matrix")

	// ErrInvariant indicates raw arrays that violate the compressed layout
	// (pointer monotonicity, sorted unique indices, no explicit zeros).
	ErrInvariant = errors.New("sparse: compressed layout invariant violated")

	// ErrMalformedMarket indicates a matrix-market stream that cannot be parsed.
	ErrMalformedMarket = errors.New("sparse: malformed matrix market data")
)

// Names of the mismatched dimension carried by DimensionError.Dim.
const (
	DimRows      = "rows"
	DimColumns   = "columns"
	DimInner     = "inner dimension"
	DimRowLength = "row length"
)

// DimensionError reports which dimension disagreed between two operands.
// Left and Right are the offending sizes in operand order.
type DimensionError struct {
	Op    string // operation tag, e.g. "CSR.Add"
	Dim   string // one of the Dim* constants
	Left  int
	Right int
}

// Error formats as "sparse: <op>: <dim> mismatch (<left> != <right>)".
func (e *DimensionError) Error() string {
	return fmt.Sprintf("sparse: %s: %s mismatch (%d != %d)", e.Op, e.Dim, e.Left, e.Right)
}

// Unwrap lets errors.Is(err, ErrDimensionMismatch) match.
func (e *DimensionError) Unwrap() error { return ErrDimensionMismatch }

// sparseErrorf wraps err with an operation tag, preserving it for errors.Is.
// Call only with a non-nil err.
func sparseErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
