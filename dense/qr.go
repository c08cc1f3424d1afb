// SPDX-License-Identifier: MIT

package dense

import (
	"fmt"
	"math"
)

// QR computes the thin QR decomposition of an m×n matrix (m ≥ n) with
// Householder reflections: Q is m×n with orthonormal columns, R is n×n
// upper triangular, and Q·R reproduces a to floating-point tolerance.
// a is not modified.
// Stage 1 (Validate): non-nil, m ≥ n.
// Stage 2 (Execute): for each column k build the reflector v that zeroes
// the entries below the diagonal and apply it to the working copy and to
// the accumulated Qᵀ.
// Stage 3 (Finalize): Q is the first n columns of the transposed
// accumulator, R the leading n×n block of the working copy.
// Complexity: O(m²·n) time, O(m²) memory.
func QR(a *Dense) (q, r *Dense, err error) {
	// Stage 1: Validate input dimensions
	if err = validateNotNil(a); err != nil {
		return nil, nil, opErrorf(opQR, err)
	}
	m, n := a.r, a.c
	if m < n {
		return nil, nil, fmt.Errorf("%s: %dx%d has fewer rows than columns: %w", opQR, m, n, ErrDimensionMismatch)
	}

	// Stage 2: Prepare working matrices and Householder vector
	w := a.Clone()
	qt, err := Identity(m) // accumulates H_k·…·H_1 = Qᵀ
	if err != nil {
		return nil, nil, opErrorf(opQR, err)
	}
	v := make([]float64, m)

	var (
		i, j, k          int
		sum, alpha, norm float64
		beta, tau        float64
	)
	for k = 0; k < n; k++ {
		// norm of w[k:m][k]
		norm = 0
		for i = k; i < m; i++ {
			norm += w.data[i*n+k] * w.data[i*n+k]
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			continue // column already zero below the diagonal
		}
		// alpha = -sign(w[k][k])·norm avoids cancellation in v[k]
		alpha = -math.Copysign(norm, w.data[k*n+k])
		for i = k; i < m; i++ {
			v[i] = w.data[i*n+k]
		}
		v[k] -= alpha
		beta = 0
		for i = k; i < m; i++ {
			beta += v[i] * v[i]
		}
		tau = 2 / beta

		// w[:,j] -= tau·v·(vᵀ w[:,j])
		for j = k; j < n; j++ {
			sum = 0
			for i = k; i < m; i++ {
				sum += v[i] * w.data[i*n+j]
			}
			for i = k; i < m; i++ {
				w.data[i*n+j] -= tau * v[i] * sum
			}
		}
		// qt[:,j] -= tau·v·(vᵀ qt[:,j])
		for j = 0; j < m; j++ {
			sum = 0
			for i = k; i < m; i++ {
				sum += v[i] * qt.data[i*m+j]
			}
			for i = k; i < m; i++ {
				qt.data[i*m+j] -= tau * v[i] * sum
			}
		}
	}

	// Stage 3: Finalize thin factors
	if q, err = NewDense(m, n); err != nil {
		return nil, nil, opErrorf(opQR, err)
	}
	if r, err = NewDense(n, n); err != nil {
		return nil, nil, opErrorf(opQR, err)
	}
	for i = 0; i < m; i++ {
		for j = 0; j < n; j++ {
			q.data[i*n+j] = qt.data[j*m+i]
		}
	}
	for i = 0; i < n; i++ {
		for j = i; j < n; j++ { // below-diagonal residue stays exactly zero
			r.data[i*n+j] = w.data[i*n+j]
		}
	}

	return q, r, nil
}
