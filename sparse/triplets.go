// SPDX-License-Identifier: MIT

package sparse

import (
	"cmp"
	"fmt"
	"slices"
)

// Triplet is one (row, column, value) entry in coordinate form.
type Triplet[T Numeric] struct {
	Row, Col int
	Value    T
}

// FromTriplets assembles a rows×cols CSR matrix from coordinate entries in
// any order. Duplicates are summed and zero results are dropped, so the
// output is canonical regardless of input order. The input slice is not
// modified.
//
// Errors: ErrBadShape, ErrOutOfRange (first offending triplet).
// Complexity: O(n log n + rows).
func FromTriplets[T Numeric](rows, cols int, entries []Triplet[T]) (*CSR[T], error) {
	if err := validateShape(rows, cols); err != nil {
		return nil, sparseErrorf(opFromTriplets, err)
	}
	for k, t := range entries {
		if t.Row < 0 || t.Row >= rows || t.Col < 0 || t.Col >= cols {
			return nil, fmt.Errorf("%s: entry %d at (%d,%d): %w", opFromTriplets, k, t.Row, t.Col, ErrOutOfRange)
		}
	}

	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(x, y Triplet[T]) int {
		if c := cmp.Compare(x.Row, y.Row); c != 0 {
			return c
		}
		return cmp.Compare(x.Col, y.Col)
	})

	out := newBuilder[T](rows, cols, len(sorted))
	var zero T
	row := 0
	for k := 0; k < len(sorted); {
		t := sorted[k]
		sum := t.Value
		k++
		for k < len(sorted) && sorted[k].Row == t.Row && sorted[k].Col == t.Col {
			sum += sorted[k].Value
			k++
		}
		for ; row < t.Row; row++ {
			out.closeSegment()
		}
		if sum != zero {
			out.values = append(out.values, sum)
			out.index = append(out.index, t.Col)
		}
	}
	for ; row < rows; row++ {
		out.closeSegment()
	}

	return &CSR[T]{c: out}, nil
}

// Triplets returns the stored entries of m in row-major order.
func (m *CSR[T]) Triplets() []Triplet[T] {
	out := make([]Triplet[T], 0, len(m.c.values))
	m.c.expand(func(i, j int, v T) {
		out = append(out, Triplet[T]{Row: i, Col: j, Value: v})
	})

	return out
}
