// SPDX-License-Identifier: MIT

package sparse

import (
	"fmt"
	"strings"
)

// CSC is an immutable compressed-sparse-column matrix: the dual of CSR with
// the roles of rows and columns exchanged. Column j owns
// values[colPtr[j]:colPtr[j+1]] with strictly increasing row indices.
type CSC[T Numeric] struct {
	c compressed[T] // major = columns, minor = rows
}

// NewCSC builds a rows×cols matrix from raw CSC arrays (copied, validated).
//
// Errors: ErrBadShape, ErrInvariant.
func NewCSC[T Numeric](rows, cols int, values []T, rowIndex, colPtr []int) (*CSC[T], error) {
	if err := validateShape(rows, cols); err != nil {
		return nil, sparseErrorf(opNewCSC, err)
	}
	m := &CSC[T]{c: compressed[T]{
		major:  cols,
		minor:  rows,
		values: cloneSlice(values),
		index:  cloneSlice(rowIndex),
		ptr:    cloneSlice(colPtr),
	}}
	if err := m.c.validate(); err != nil {
		return nil, sparseErrorf(opNewCSC, err)
	}

	return m, nil
}

// CSCFromDense scans a rectangular grid column by column and keeps its
// non-zero entries.
//
// Errors: *DimensionError (Dim = DimRowLength) on ragged input.
func CSCFromDense[T Numeric](grid [][]T) (*CSC[T], error) {
	rows, cols, err := gridShape(opCSCFromDense, grid)
	if err != nil {
		return nil, err
	}

	return &CSC[T]{c: compressLines(cols, rows, func(j, i int) T { return grid[i][j] })}, nil
}

// Rows returns the number of rows.
func (m *CSC[T]) Rows() int { return m.c.minor }

// Cols returns the number of columns.
func (m *CSC[T]) Cols() int { return m.c.major }

// Shape returns (Rows, Cols).
func (m *CSC[T]) Shape() (rows, cols int) { return m.c.minor, m.c.major }

// NNZ returns the number of stored entries.
func (m *CSC[T]) NNZ() int { return len(m.c.values) }

// Values returns a copy of the stored values in column-major order.
func (m *CSC[T]) Values() []T { return cloneSlice(m.c.values) }

// RowIndex returns a copy of the row index array.
func (m *CSC[T]) RowIndex() []int { return cloneSlice(m.c.index) }

// ColPtr returns a copy of the column pointer array (length Cols()+1).
func (m *CSC[T]) ColPtr() []int { return cloneSlice(m.c.ptr) }

// At returns element (i, j); absent entries read as zero.
func (m *CSC[T]) At(i, j int) (T, error) {
	if i < 0 || i >= m.c.minor || j < 0 || j >= m.c.major {
		var zero T
		return zero, fmt.Errorf("CSC.At(%d,%d): %w", i, j, ErrOutOfRange)
	}

	return m.c.at(j, i), nil
}

// Col returns copies of the row indices and values stored in column j.
func (m *CSC[T]) Col(j int) ([]int, []T, error) {
	if j < 0 || j >= m.c.major {
		return nil, nil, fmt.Errorf("CSC.Col(%d): %w", j, ErrOutOfRange)
	}
	lo, hi := m.c.ptr[j], m.c.ptr[j+1]

	return cloneSlice(m.c.index[lo:hi]), cloneSlice(m.c.values[lo:hi]), nil
}

// ToDense expands the matrix into a freshly allocated rows×cols grid.
func (m *CSC[T]) ToDense() [][]T {
	out := make([][]T, m.c.minor)
	for i := range out {
		out[i] = make([]T, m.c.major)
	}
	m.c.expand(func(j, i int, v T) { out[i][j] = v })

	return out
}

// Clone returns a deep copy.
func (m *CSC[T]) Clone() *CSC[T] { return &CSC[T]{c: m.c.clone()} }

// Equal reports whether m and o store identical arrays.
func (m *CSC[T]) Equal(o *CSC[T]) bool {
	if m == nil || o == nil {
		return m == o
	}

	return m.c.equal(&o.c)
}

// Validate re-checks every layout invariant.
func (m *CSC[T]) Validate() error {
	if err := m.c.validate(); err != nil {
		return sparseErrorf("CSC.Validate", err)
	}

	return nil
}

// ToCSR converts to row-compressed storage of the same matrix.
func (m *CSC[T]) ToCSR() *CSR[T] { return &CSR[T]{c: transpose(&m.c)} }

// String renders the dense form, one bracketed row per line.
func (m *CSC[T]) String() string {
	var sb strings.Builder
	for _, row := range m.ToDense() {
		sb.WriteString(_fmtRowOpen)
		for j, v := range row {
			if j > 0 {
				sb.WriteString(_fmtSep)
			}
			fmt.Fprintf(&sb, "%v", v)
		}
		sb.WriteString(_fmtRowClose)
	}

	return sb.String()
}
