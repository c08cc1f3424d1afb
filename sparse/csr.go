// SPDX-License-Identifier: MIT

// Package sparse - CSR storage, construction and safe accessors.
//
// Purpose:
//   - Row-major compressed storage: values, column indices, row pointers.
//   - Accessors return copies; a *CSR never shares backing arrays with callers.
//   - At returns errors instead of panicking on bad indices.

package sparse

import (
	"fmt"
	"strings"
)

// CSR is an immutable compressed-sparse-row matrix.
// Row i owns values[rowPtr[i]:rowPtr[i+1]] with strictly increasing columns.
type CSR[T Numeric] struct {
	c compressed[T] // major = rows, minor = columns
}

// Compile-time check for fmt.Stringer conformance.
var _ fmt.Stringer = (*CSR[float64])(nil)

// ---------- Construction ----------

// NewCSR builds a rows×cols matrix from raw CSR arrays. The slices are copied
// and validated: rowPtr must have rows+1 monotone entries from 0 to
// len(values), columns must be strictly increasing within each row and no
// value may be zero.
//
// Errors: ErrBadShape, ErrInvariant.
func NewCSR[T Numeric](rows, cols int, values []T, colIndex, rowPtr []int) (*CSR[T], error) {
	if err := validateShape(rows, cols); err != nil {
		return nil, sparseErrorf(opNewCSR, err)
	}
	m := &CSR[T]{c: compressed[T]{
		major:  rows,
		minor:  cols,
		values: cloneSlice(values),
		index:  cloneSlice(colIndex),
		ptr:    cloneSlice(rowPtr),
	}}
	if err := m.c.validate(); err != nil {
		return nil, sparseErrorf(opNewCSR, err)
	}

	return m, nil
}

// ZeroCSR returns a rows×cols matrix without stored entries.
//
// Errors: ErrBadShape for negative counts or counts above MaxDim.
func ZeroCSR[T Numeric](rows, cols int) (*CSR[T], error) {
	if err := validateShape(rows, cols); err != nil {
		return nil, sparseErrorf(opZero, err)
	}

	return &CSR[T]{c: emptyCompressed[T](rows, cols)}, nil
}

// FromDense scans a rectangular grid row by row and keeps its non-zero
// entries. An empty grid yields a 0×0 matrix.
//
// Errors: *DimensionError (Dim = DimRowLength) on ragged input.
// Complexity: O(rows*cols).
func FromDense[T Numeric](grid [][]T) (*CSR[T], error) {
	rows, cols, err := gridShape(opFromDense, grid)
	if err != nil {
		return nil, err
	}

	return &CSR[T]{c: compressLines(rows, cols, func(i, j int) T { return grid[i][j] })}, nil
}

// gridShape returns the shape of a rectangular grid or a DimensionError
// naming the first row whose length differs from row 0.
func gridShape[T any](op string, grid [][]T) (rows, cols int, err error) {
	rows = len(grid)
	if rows == 0 {
		return 0, 0, nil
	}
	cols = len(grid[0])
	for i := 1; i < rows; i++ {
		if len(grid[i]) != cols {
			return 0, 0, &DimensionError{Op: op, Dim: DimRowLength, Left: cols, Right: len(grid[i])}
		}
	}

	return rows, cols, nil
}

// ---------- Accessors ----------

// Rows returns the number of rows.
func (m *CSR[T]) Rows() int { return m.c.major }

// Cols returns the number of columns.
func (m *CSR[T]) Cols() int { return m.c.minor }

// Shape returns (Rows, Cols).
func (m *CSR[T]) Shape() (rows, cols int) { return m.c.major, m.c.minor }

// NNZ returns the number of stored entries.
func (m *CSR[T]) NNZ() int { return len(m.c.values) }

// Values returns a copy of the stored values in row-major order.
func (m *CSR[T]) Values() []T { return cloneSlice(m.c.values) }

// ColIndex returns a copy of the column index array.
func (m *CSR[T]) ColIndex() []int { return cloneSlice(m.c.index) }

// RowPtr returns a copy of the row pointer array (length Rows()+1).
func (m *CSR[T]) RowPtr() []int { return cloneSlice(m.c.ptr) }

// At returns element (i, j); absent entries read as zero.
// Complexity: O(log nnz(row i)).
func (m *CSR[T]) At(i, j int) (T, error) {
	if i < 0 || i >= m.c.major || j < 0 || j >= m.c.minor {
		var zero T
		return zero, fmt.Errorf("CSR.At(%d,%d): %w", i, j, ErrOutOfRange)
	}

	return m.c.at(i, j), nil
}

// Row returns copies of the column indices and values stored in row i.
func (m *CSR[T]) Row(i int) ([]int, []T, error) {
	if i < 0 || i >= m.c.major {
		return nil, nil, fmt.Errorf("CSR.Row(%d): %w", i, ErrOutOfRange)
	}
	lo, hi := m.c.ptr[i], m.c.ptr[i+1]

	return cloneSlice(m.c.index[lo:hi]), cloneSlice(m.c.values[lo:hi]), nil
}

// ToDense expands the matrix into a freshly allocated rows×cols grid.
func (m *CSR[T]) ToDense() [][]T {
	out := make([][]T, m.c.major)
	for i := range out {
		out[i] = make([]T, m.c.minor)
	}
	m.c.expand(func(i, j int, v T) { out[i][j] = v })

	return out
}

// Clone returns a deep copy.
func (m *CSR[T]) Clone() *CSR[T] { return &CSR[T]{c: m.c.clone()} }

// Equal reports whether m and o have the same shape and identical stored
// arrays. Because the layout is canonical this is element-wise equality.
func (m *CSR[T]) Equal(o *CSR[T]) bool {
	if m == nil || o == nil {
		return m == o
	}

	return m.c.equal(&o.c)
}

// Validate re-checks every layout invariant. Kernel outputs always pass;
// it exists for callers that assemble matrices through unsafe paths.
func (m *CSR[T]) Validate() error {
	if err := m.c.validate(); err != nil {
		return sparseErrorf("CSR.Validate", err)
	}

	return nil
}

// ToCSC converts to column-compressed storage of the same matrix.
// Complexity: O(rows + cols + nnz).
func (m *CSR[T]) ToCSC() *CSC[T] { return &CSC[T]{c: transpose(&m.c)} }

// String renders the dense form, one bracketed row per line.
func (m *CSR[T]) String() string {
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
