// SPDX-License-Identifier: MIT

package dense

import "gonum.org/v1/gonum/mat"

// ToGonum copies m into a gonum *mat.Dense.
func (m *Dense) ToGonum() *mat.Dense {
	data := make([]float64, len(m.data))
	copy(data, m.data)

	return mat.NewDense(m.r, m.c, data)
}

// FromGonum copies any gonum matrix into a new Dense.
// Errors: ErrNilMatrix, ErrInvalidDimensions for an empty matrix.
func FromGonum(src mat.Matrix) (*Dense, error) {
	if src == nil {
		return nil, opErrorf(opFromGonum, ErrNilMatrix)
	}
	r, c := src.Dims()
	m, err := NewDense(r, c)
	if err != nil {
		return nil, opErrorf(opFromGonum, err)
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.data[i*c+j] = src.At(i, j)
		}
	}

	return m, nil
}
