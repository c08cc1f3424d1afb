// SPDX-License-Identifier: MIT

// Package sparse - the shared compressed layout and its sequential kernels.
//
// Purpose:
//   - One implementation of every kernel, written against "major" lines
//     (rows for CSR, columns for CSC) and "minor" indices.
//   - CSR and CSC are thin role-naming wrappers around compressed.
//
// Layout invariants (see validate):
//   - len(ptr) == major+1, ptr[0] == 0, ptr[major] == len(values), non-decreasing.
//   - len(index) == len(values); index[p] in [0, minor).
//   - inside a segment ptr[i]..ptr[i+1] indices are strictly increasing.
//   - no stored value equals zero.

package sparse

import (
	"fmt"
	"slices"
)

// compressed is the three-array encoding shared by CSR and CSC.
type compressed[T Numeric] struct {
	major, minor int
	values       []T
	index        []int
	ptr          []int
}

// emptyCompressed returns a major×minor layout with no stored entries.
func emptyCompressed[T Numeric](major, minor int) compressed[T] {
	return compressed[T]{
		major:  major,
		minor:  minor,
		values: []T{},
		index:  []int{},
		ptr:    make([]int, major+1),
	}
}

// newBuilder returns an empty layout ready for segment-by-segment appends.
// capHint pre-sizes values/index.
func newBuilder[T Numeric](major, minor, capHint int) compressed[T] {
	ptr := make([]int, 1, major+1)

	return compressed[T]{
		major:  major,
		minor:  minor,
		values: make([]T, 0, capHint),
		index:  make([]int, 0, capHint),
		ptr:    ptr,
	}
}

// closeSegment records the end of the segment currently being appended.
func (c *compressed[T]) closeSegment() {
	c.ptr = append(c.ptr, len(c.values))
}

// clone returns a deep copy; no backing array is shared.
func (c *compressed[T]) clone() compressed[T] {
	return compressed[T]{
		major:  c.major,
		minor:  c.minor,
		values: cloneSlice(c.values),
		index:  cloneSlice(c.index),
		ptr:    cloneSlice(c.ptr),
	}
}

// at returns the value stored at (major i, minor j) or zero.
// Binary search over the sorted segment. Caller checks bounds.
func (c *compressed[T]) at(i, j int) T {
	lo, hi := c.ptr[i], c.ptr[i+1]
	if k, found := slices.BinarySearch(c.index[lo:hi], j); found {
		return c.values[lo+k]
	}
	var zero T

	return zero
}

// equal reports whether both layouts store identical arrays.
func (c *compressed[T]) equal(o *compressed[T]) bool {
	return c.major == o.major && c.minor == o.minor &&
		slices.Equal(c.ptr, o.ptr) &&
		slices.Equal(c.index, o.index) &&
		slices.Equal(c.values, o.values)
}

// validate checks every layout invariant and reports the first violation.
// Complexity: O(major + nnz).
func (c *compressed[T]) validate() error {
	if c.major < 0 || c.minor < 0 {
		return ErrBadShape
	}
	if len(c.ptr) != c.major+1 {
		return fmt.Errorf("ptr length %d, want %d: %w", len(c.ptr), c.major+1, ErrInvariant)
	}
	if len(c.index) != len(c.values) {
		return fmt.Errorf("index length %d != values length %d: %w", len(c.index), len(c.values), ErrInvariant)
	}
	if c.ptr[0] != 0 || c.ptr[c.major] != len(c.values) {
		return fmt.Errorf("ptr bounds [%d,%d], want [0,%d]: %w", c.ptr[0], c.ptr[c.major], len(c.values), ErrInvariant)
	}
	var zero T
	for i := 0; i < c.major; i++ {
		lo, hi := c.ptr[i], c.ptr[i+1]
		if lo > hi {
			return fmt.Errorf("ptr decreases at %d: %w", i, ErrInvariant)
		}
		if hi > len(c.values) {
			return fmt.Errorf("ptr[%d]=%d exceeds nnz %d: %w", i+1, hi, len(c.values), ErrInvariant)
		}
		for p := lo; p < hi; p++ {
			j := c.index[p]
			if j < 0 || j >= c.minor {
				return fmt.Errorf("index %d at %d outside [0,%d): %w", j, p, c.minor, ErrInvariant)
			}
			if p > lo && c.index[p-1] >= j {
				return fmt.Errorf("segment %d not strictly increasing at %d: %w", i, p, ErrInvariant)
			}
			if c.values[p] == zero {
				return fmt.Errorf("explicit zero at %d: %w", p, ErrInvariant)
			}
		}
	}

	return nil
}

// compressLines builds a layout by scanning major lines in order and keeping
// every non-zero element. get(i, j) reads element (major i, minor j).
func compressLines[T Numeric](major, minor int, get func(i, j int) T) compressed[T] {
	out := newBuilder[T](major, minor, 0)
	var zero T
	for i := 0; i < major; i++ {
		for j := 0; j < minor; j++ {
			if v := get(i, j); v != zero {
				out.values = append(out.values, v)
				out.index = append(out.index, j)
			}
		}
		out.closeSegment()
	}

	return out
}

// expand writes the layout into a dense major×minor grid via set.
func (c *compressed[T]) expand(set func(i, j int, v T)) {
	for i := 0; i < c.major; i++ {
		for p := c.ptr[i]; p < c.ptr[i+1]; p++ {
			set(i, c.index[p], c.values[p])
		}
	}
}

// ---------- Add / Sub ----------

// mergeLine appends line i of a ± b to vals/idx with a two-cursor merge.
// When negate is true the right operand is subtracted. Coinciding entries
// that cancel to exactly zero are dropped.
// Complexity: O(nnz(a_i) + nnz(b_i)).
func mergeLine[T Numeric](a, b *compressed[T], i int, negate bool, vals []T, idx []int) ([]T, []int) {
	pa, ea := a.ptr[i], a.ptr[i+1]
	pb, eb := b.ptr[i], b.ptr[i+1]
	var zero T

	for pa < ea && pb < eb {
		ja, jb := a.index[pa], b.index[pb]
		switch {
		case ja < jb:
			vals = append(vals, a.values[pa])
			idx = append(idx, ja)
			pa++
		case ja > jb:
			v := b.values[pb]
			if negate {
				v = -v
			}
			vals = append(vals, v)
			idx = append(idx, jb)
			pb++
		default:
			var v T
			if negate {
				v = a.values[pa] - b.values[pb]
			} else {
				v = a.values[pa] + b.values[pb]
			}
			if v != zero {
				vals = append(vals, v)
				idx = append(idx, ja)
			}
			pa++
			pb++
		}
	}
	// Drain whichever side is left.
	for ; pa < ea; pa++ {
		vals = append(vals, a.values[pa])
		idx = append(idx, a.index[pa])
	}
	for ; pb < eb; pb++ {
		v := b.values[pb]
		if negate {
			v = -v
		}
		vals = append(vals, v)
		idx = append(idx, b.index[pb])
	}

	return vals, idx
}

// addSub returns a ± b. Shapes must already match.
func addSub[T Numeric](a, b *compressed[T], negate bool) compressed[T] {
	out := newBuilder[T](a.major, a.minor, max(len(a.values), len(b.values)))
	for i := 0; i < a.major; i++ {
		out.values, out.index = mergeLine(a, b, i, negate, out.values, out.index)
		out.closeSegment()
	}

	return out
}

// ---------- Scale ----------

// scale multiplies every stored value by s. A zero scalar yields an empty
// layout; products that underflow to zero are dropped as well.
func scale[T Numeric](c *compressed[T], s T) compressed[T] {
	var zero T
	if s == zero {
		return emptyCompressed[T](c.major, c.minor)
	}
	out := newBuilder[T](c.major, c.minor, len(c.values))
	for i := 0; i < c.major; i++ {
		for p := c.ptr[i]; p < c.ptr[i+1]; p++ {
			if v := c.values[p] * s; v != zero {
				out.values = append(out.values, v)
				out.index = append(out.index, c.index[p])
			}
		}
		out.closeSegment()
	}

	return out
}

// ---------- Transpose ----------

// transpose swaps the major and minor roles with a stable counting sort:
// a histogram of minor indices gives every output segment its offset, then
// one pass in major order scatters the entries, which keeps each output
// segment sorted.
// Complexity: O(major + minor + nnz).
func transpose[T Numeric](c *compressed[T]) compressed[T] {
	nnz := len(c.values)
	out := compressed[T]{
		major:  c.minor,
		minor:  c.major,
		values: make([]T, nnz),
		index:  make([]int, nnz),
		ptr:    make([]int, c.minor+1),
	}

	// Stage 1: histogram of minor indices, shifted by one.
	for _, j := range c.index {
		out.ptr[j+1]++
	}
	// Stage 2: prefix sums give segment offsets.
	for j := 0; j < c.minor; j++ {
		out.ptr[j+1] += out.ptr[j]
	}
	// Stage 3: scatter in major order.
	next := cloneSlice(out.ptr[:c.minor])
	for i := 0; i < c.major; i++ {
		for p := c.ptr[i]; p < c.ptr[i+1]; p++ {
			j := c.index[p]
			q := next[j]
			out.values[q] = c.values[p]
			out.index[q] = i
			next[j]++
		}
	}

	return out
}

// ---------- Multiply ----------

// dotLines returns the sparse dot product of line i of a and line j of bt
// using a two-cursor intersection over their sorted indices.
func dotLines[T Numeric](a *compressed[T], i int, bt *compressed[T], j int) T {
	pa, ea := a.ptr[i], a.ptr[i+1]
	pb, eb := bt.ptr[j], bt.ptr[j+1]
	var sum T
	for pa < ea && pb < eb {
		ka, kb := a.index[pa], bt.index[pb]
		switch {
		case ka < kb:
			pa++
		case ka > kb:
			pb++
		default:
			sum += a.values[pa] * bt.values[pb]
			pa++
			pb++
		}
	}

	return sum
}

// multiply returns a·b given a and the transposed layout bt of b.
// a.minor must equal bt.minor. Lines of a without entries are skipped.
// Complexity: O(Σ_i Σ_j (nnz(a_i) + nnz(bt_j))).
func multiply[T Numeric](a, bt *compressed[T]) compressed[T] {
	out := newBuilder[T](a.major, bt.major, 0)
	var zero T
	for i := 0; i < a.major; i++ {
		if a.ptr[i] == a.ptr[i+1] {
			out.closeSegment()
			continue
		}
		for j := 0; j < bt.major; j++ {
			if sum := dotLines(a, i, bt, j); sum != zero {
				out.values = append(out.values, sum)
				out.index = append(out.index, j)
			}
		}
		out.closeSegment()
	}

	return out
}

// ---------- Min / Max ----------

// extremum returns the smallest (wantMax=false) or largest stored value.
// Structural zeros are not candidates. Empty layouts yield ErrEmptyMatrix.
func extremum[T Numeric](c *compressed[T], wantMax bool) (T, error) {
	if len(c.values) == 0 {
		var zero T
		return zero, ErrEmptyMatrix
	}
	if wantMax {
		return slices.Max(c.values), nil
	}

	return slices.Min(c.values), nil
}
