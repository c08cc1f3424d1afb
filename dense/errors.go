// SPDX-License-Identifier: MIT
// Package dense: sentinel error set.
// All routines return these sentinels, optionally wrapped with an operation
// tag; tests match them via errors.Is. No routine panics on user input.

package dense

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("dense: dimensions must be > 0")

	// ErrOutOfRange indicates that a row or column index is outside valid bounds.
	// At/Set return this, never panic.
	ErrOutOfRange = errors.New("dense: index out of range")

	// ErrDimensionMismatch indicates incompatible operand shapes, ragged rows,
	// or a QR input with fewer rows than columns.
	ErrDimensionMismatch = errors.New("dense: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required.
	ErrNonSquare = errors.New("dense: matrix is not square")

	// ErrSingular is returned when a pivot magnitude falls to PivotTolerance or below.
	ErrSingular = errors.New("dense: singular matrix")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required.
	ErrNaNInf = errors.New("dense: NaN or Inf encountered")

	// ErrNilMatrix indicates a nil *Dense receiver or argument.
	ErrNilMatrix = errors.New("dense: nil matrix")
)

// denseErrorf wraps an underlying error with Dense method context.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// opErrorf wraps err with an operation tag.
func opErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
