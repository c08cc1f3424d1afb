// SPDX-License-Identifier: MIT

package dense_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/spmat/dense"
	"github.com/katalvlaran/spmat/parallel"
)

const tol = 1e-9

// backSubstitute solves the unit-upper system left by Eliminate on an
// augmented n×(n+1) matrix.
func backSubstitute(t *testing.T, m *dense.Dense) []float64 {
	t.Helper()
	n := m.Rows()
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		s := MustAt(t, m, i, n)
		for j := i + 1; j < n; j++ {
			s -= MustAt(t, m, i, j) * x[j]
		}
		x[i] = s
	}

	return x
}

func TestEliminate_UnitUpperTriangular(t *testing.T) {
	aug := MustFromRows(t, [][]float64{
		{2, 1, -1, 8},
		{-3, -1, 2, -11},
		{-2, 1, 2, -3},
	})
	require.NoError(t, dense.Eliminate(aug))

	for i := 0; i < 3; i++ {
		require.Equal(t, 1.0, MustAt(t, aug, i, i))
		for j := 0; j < i; j++ {
			require.Equal(t, 0.0, MustAt(t, aug, i, j))
		}
	}
	x := backSubstitute(t, aug)
	require.InDeltaSlice(t, []float64{2, 3, -1}, x, tol)
}

func TestEliminate_Singular(t *testing.T) {
	for name, fn := range map[string]func(*dense.Dense) error{
		"Eliminate":         dense.Eliminate,
		"EliminatePivoting": dense.EliminatePivoting,
		"EliminateParallel": func(m *dense.Dense) error {
			return dense.EliminateParallel(m, parallel.Config{Workers: 2, Grain: 1})
		},
	} {
		t.Run(name, func(t *testing.T) {
			err := fn(MustFromRows(t, [][]float64{{1, 2}, {2, 4}}))
			require.ErrorIs(t, err, dense.ErrSingular)
		})
	}
}

func TestEliminate_ZeroLeadingPivot(t *testing.T) {
	rows := [][]float64{{0, 1}, {1, 0}}

	require.ErrorIs(t, dense.Eliminate(MustFromRows(t, rows)), dense.ErrSingular)

	m := MustFromRows(t, rows)
	require.NoError(t, dense.EliminatePivoting(m))
	require.Equal(t, [][]float64{{1, 0}, {0, 1}}, m.ToRows())
}

func TestEliminate_ShapeErrors(t *testing.T) {
	tall := MustFromRows(t, [][]float64{{1}, {2}})
	require.ErrorIs(t, dense.Eliminate(tall), dense.ErrDimensionMismatch)
	require.ErrorIs(t, dense.EliminatePivoting(tall), dense.ErrDimensionMismatch)
	require.ErrorIs(t, dense.EliminateParallel(nil, parallel.DefaultConfig()), dense.ErrNilMatrix)
}

func TestEliminateParallel_MatchesSequential(t *testing.T) {
	t.Parallel()

	for _, cfg := range []parallel.Config{
		{Workers: 1, Grain: 1},
		{Workers: 4, Grain: 1},
		{Workers: 3, Grain: 7},
		parallel.DefaultConfig(),
	} {
		t.Run(fmt.Sprintf("w=%d/g=%d", cfg.Workers, cfg.Grain), func(t *testing.T) {
			rows := randomDominant(40, 41, 99)
			seq := MustFromRows(t, rows)
			par := MustFromRows(t, rows)

			require.NoError(t, dense.Eliminate(seq))
			require.NoError(t, dense.EliminateParallel(par, cfg))
			require.Equal(t, seq.ToRows(), par.ToRows())
		})
	}
}

func TestEliminatePivoting_UpperTriangular(t *testing.T) {
	m := MustFromRows(t, [][]float64{{1, 2, -1}, {2, 1, -2}, {-3, 1, 1}})
	require.NoError(t, dense.EliminatePivoting(m))

	// |-3| is the first pivot.
	require.Equal(t, -3.0, MustAt(t, m, 0, 0))
	for i := 1; i < 3; i++ {
		for j := 0; j < i; j++ {
			require.Equal(t, 0.0, MustAt(t, m, i, j))
		}
	}
}

func TestSolve(t *testing.T) {
	for _, tc := range []struct {
		name string
		a    [][]float64
		b    []float64
		want []float64
	}{
		{"three by three", [][]float64{{2, 1, -1}, {-3, -1, 2}, {-2, 1, 2}}, []float64{8, -11, -3}, []float64{2, 3, -1}},
		{"needs pivoting", [][]float64{{1, 2, -1}, {2, 1, -2}, {-3, 1, 1}}, []float64{3, 3, -6}, []float64{3, 1, 2}},
		{"zero leading pivot", [][]float64{{0, 1}, {1, 0}}, []float64{5, 7}, []float64{7, 5}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b := append([]float64(nil), tc.b...)
			require.NoError(t, dense.Solve(MustFromRows(t, tc.a), b))
			require.InDeltaSlice(t, tc.want, b, tol)
		})
	}
}

func TestSolve_Errors(t *testing.T) {
	// The two rows are linearly dependent.
	err := dense.Solve(MustFromRows(t, [][]float64{{1, 2}, {2, 4}}), []float64{3, 6})
	require.ErrorIs(t, err, dense.ErrSingular)

	err = dense.Solve(MustFromRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}}), []float64{1, 2})
	require.ErrorIs(t, err, dense.ErrNonSquare)

	err = dense.Solve(MustFromRows(t, [][]float64{{1, 0}, {0, 1}}), []float64{1})
	require.ErrorIs(t, err, dense.ErrDimensionMismatch)
}

// requireLU checks L·U == P·A for the packed result of LU on a copy of a.
func requireLU(t *testing.T, a [][]float64) {
	t.Helper()
	orig := MustFromRows(t, a)
	packed := orig.Clone()

	perm, err := dense.LU(packed)
	require.NoError(t, err)
	require.Len(t, perm, len(a))

	l, u, err := dense.UnpackLU(packed)
	require.NoError(t, err)
	p, err := dense.PermutationMatrix(perm)
	require.NoError(t, err)

	lu, err := dense.Mul(l, u)
	require.NoError(t, err)
	pa, err := dense.Mul(p, orig)
	require.NoError(t, err)

	ok, err := dense.AllClose(lu, pa, 1e-9, 1e-9)
	require.NoError(t, err)
	require.True(t, ok, "L·U != P·A\nLU:\n%vPA:\n%v", lu, pa)

	n := len(a)
	for i := 0; i < n; i++ {
		require.Equal(t, 1.0, MustAt(t, l, i, i))
		for j := i + 1; j < n; j++ {
			require.Equal(t, 0.0, MustAt(t, l, i, j))
			require.Equal(t, 0.0, MustAt(t, u, j, i))
		}
	}
}

func TestLU(t *testing.T) {
	t.Run("2x2", func(t *testing.T) {
		requireLU(t, [][]float64{{4, 3}, {6, 3}})
	})
	t.Run("4x4", func(t *testing.T) {
		requireLU(t, [][]float64{{1, 2, -1, 4}, {-2, -3, 4, 5}, {3, 6, -2, 7}, {1, 3, 1, 9}})
	})
	t.Run("random", func(t *testing.T) {
		requireLU(t, randomDominant(12, 12, 5))
	})
}

func TestLU_PermutationSemantics(t *testing.T) {
	m := MustFromRows(t, [][]float64{{4, 3}, {6, 3}})
	perm, err := dense.LU(m)
	require.NoError(t, err)
	require.Equal(t, []int{1, 0}, perm)
	require.InDelta(t, 6.0, MustAt(t, m, 0, 0), tol)
	require.InDelta(t, 2.0/3.0, MustAt(t, m, 1, 0), tol)
	require.InDelta(t, 1.0, MustAt(t, m, 1, 1), tol)
}

func TestLU_Errors(t *testing.T) {
	_, err := dense.LU(MustFromRows(t, [][]float64{{1, 2}, {2, 4}}))
	require.ErrorIs(t, err, dense.ErrSingular)

	_, err = dense.LU(MustFromRows(t, [][]float64{{1, 2, 3}}))
	require.ErrorIs(t, err, dense.ErrNonSquare)

	_, err = dense.PermutationMatrix([]int{0, 0})
	require.ErrorIs(t, err, dense.ErrOutOfRange)
	_, err = dense.PermutationMatrix(nil)
	require.ErrorIs(t, err, dense.ErrInvalidDimensions)
}

func TestQR_Thin(t *testing.T) {
	a := MustFromRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 7}, {4, 2, 1}})
	before := a.ToRows()

	q, r, err := dense.QR(a)
	require.NoError(t, err)
	require.Equal(t, before, a.ToRows(), "QR must not modify its input")

	qr, qc := q.Shape()
	require.Equal(t, 4, qr)
	require.Equal(t, 3, qc)
	rr, rc := r.Shape()
	require.Equal(t, 3, rr)
	require.Equal(t, 3, rc)

	// QᵀQ = I
	qt, err := dense.Transpose(q)
	require.NoError(t, err)
	qtq, err := dense.Mul(qt, q)
	require.NoError(t, err)
	id, err := dense.Identity(3)
	require.NoError(t, err)
	ok, err := dense.AllClose(qtq, id, 0, 1e-9)
	require.NoError(t, err)
	require.True(t, ok, "QᵀQ:\n%v", qtq)

	// Q·R = A
	prod, err := dense.Mul(q, r)
	require.NoError(t, err)
	ok, err = dense.AllClose(prod, a, 1e-9, 1e-9)
	require.NoError(t, err)
	require.True(t, ok, "QR:\n%v", prod)

	for i := 1; i < 3; i++ {
		for j := 0; j < i; j++ {
			require.Equal(t, 0.0, MustAt(t, r, i, j))
		}
	}
}

func TestQR_SquareAndZeroColumn(t *testing.T) {
	a := MustFromRows(t, [][]float64{{0, 1}, {0, 1}})
	q, r, err := dense.QR(a)
	require.NoError(t, err)
	prod, err := dense.Mul(q, r)
	require.NoError(t, err)
	ok, err := dense.AllClose(prod, a, 0, 1e-12)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestQR_Wide(t *testing.T) {
	_, _, err := dense.QR(MustFromRows(t, [][]float64{{1, 2, 3}}))
	require.ErrorIs(t, err, dense.ErrDimensionMismatch)
}

func BenchmarkEliminate(b *testing.B) {
	b.ReportAllocs()
	rows := randomDominant(200, 200, 1)
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		m := MustFromRows(b, rows)
		b.StartTimer()
		if err := dense.Eliminate(m); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEliminateParallel(b *testing.B) {
	b.ReportAllocs()
	rows := randomDominant(200, 200, 1)
	cfg := parallel.Config{Workers: 4, Grain: 16}
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		m := MustFromRows(b, rows)
		b.StartTimer()
		if err := dense.EliminateParallel(m, cfg); err != nil {
			b.Fatal(err)
		}
	}
}
