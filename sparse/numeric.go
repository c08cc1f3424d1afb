// SPDX-License-Identifier: MIT

package sparse

// Numeric is the element constraint of every kernel: signed integers and
// floats. The zero value is the additive identity. Unsigned types are left
// out because Sub negates entries that only the right operand stores.
type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// integral reports whether T is an integer type.
func integral[T Numeric]() bool {
	half := 0.5

	return T(half) == 0
}

// cloneSlice returns a non-nil copy of src so empty results compare equal
// regardless of how they were built.
func cloneSlice[E any](src []E) []E {
	out := make([]E, len(src))
	copy(out, src)

	return out
}
