// SPDX-License-Identifier: MIT

package dense_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/spmat/dense"
)

// MustFromRows builds a Dense from rows or fails the test.
func MustFromRows(tb testing.TB, rows [][]float64) *dense.Dense {
	tb.Helper()
	m, err := dense.FromRows(rows)
	require.NoError(tb, err)

	return m
}

// MustAt reads (i, j) or fails the test.
func MustAt(tb testing.TB, m *dense.Dense, i, j int) float64 {
	tb.Helper()
	v, err := m.At(i, j)
	require.NoError(tb, err)

	return v
}

// randomDominant returns an n×c matrix whose leading n×n block is strictly
// diagonally dominant, so elimination never meets a small pivot.
func randomDominant(n, c int, seed uint64) [][]float64 {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, c)
		for j := range rows[i] {
			rows[i][j] = rng.Float64()*2 - 1
		}
		if i < c {
			rows[i][i] = float64(n) + 1
		}
	}

	return rows
}

func TestNewDense_InvalidDimensions(t *testing.T) {
	for _, rc := range [][2]int{{0, 1}, {1, 0}, {-1, 3}} {
		_, err := dense.NewDense(rc[0], rc[1])
		require.ErrorIs(t, err, dense.ErrInvalidDimensions)
	}
}

func TestFromRows(t *testing.T) {
	m := MustFromRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	rows, cols := m.Shape()
	require.Equal(t, 2, rows)
	require.Equal(t, 3, cols)
	require.Equal(t, 6.0, MustAt(t, m, 1, 2))
	require.Equal(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, m.ToRows())

	_, err := dense.FromRows([][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, dense.ErrDimensionMismatch)

	_, err = dense.FromRows(nil)
	require.ErrorIs(t, err, dense.ErrInvalidDimensions)

	_, err = dense.FromRows([][]float64{{math.NaN()}})
	require.ErrorIs(t, err, dense.ErrNaNInf)
}

func TestAtSet_Bounds(t *testing.T) {
	m, err := dense.NewDense(2, 2)
	require.NoError(t, err)

	require.NoError(t, m.Set(1, 0, 7))
	require.Equal(t, 7.0, MustAt(t, m, 1, 0))

	_, err = m.At(2, 0)
	require.ErrorIs(t, err, dense.ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, -1, 1), dense.ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, 0, math.Inf(1)), dense.ErrNaNInf)
}

func TestClone_IsDeep(t *testing.T) {
	m := MustFromRows(t, [][]float64{{1, 2}, {3, 4}})
	c := m.Clone()
	require.NoError(t, c.Set(0, 0, 100))
	require.Equal(t, 1.0, MustAt(t, m, 0, 0))
}

func TestString(t *testing.T) {
	m := MustFromRows(t, [][]float64{{1, 0.5}, {-2, 3}})
	require.Equal(t, "[1, 0.5]\n[-2, 3]\n", m.String())
}

func TestMulTranspose(t *testing.T) {
	a := MustFromRows(t, [][]float64{{1, 2, 0}, {0, 0, 3}})
	b := MustFromRows(t, [][]float64{{1, 0}, {0, 4}, {5, 0}})

	p, err := dense.Mul(a, b)
	require.NoError(t, err)
	require.Equal(t, [][]float64{{1, 8}, {15, 0}}, p.ToRows())

	_, err = dense.Mul(a, a)
	require.ErrorIs(t, err, dense.ErrDimensionMismatch)
	_, err = dense.Mul(nil, a)
	require.ErrorIs(t, err, dense.ErrNilMatrix)

	at, err := dense.Transpose(a)
	require.NoError(t, err)
	require.Equal(t, [][]float64{{1, 0}, {2, 0}, {0, 3}}, at.ToRows())
}

// Mul agrees with gonum's product on random input.
func TestMul_MatchesGonum(t *testing.T) {
	a := MustFromRows(t, randomDominant(7, 9, 3))
	b := MustFromRows(t, randomDominant(9, 5, 4))

	got, err := dense.Mul(a, b)
	require.NoError(t, err)

	var want mat.Dense
	want.Mul(a.ToGonum(), b.ToGonum())
	ref, err := dense.FromGonum(&want)
	require.NoError(t, err)

	ok, err := dense.AllClose(got, ref, 1e-12, 1e-12)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestGonumRoundTrip(t *testing.T) {
	m := MustFromRows(t, [][]float64{{1, 2}, {3, 4}, {5, 6}})
	g := m.ToGonum()
	r, c := g.Dims()
	require.Equal(t, 3, r)
	require.Equal(t, 2, c)
	require.Equal(t, 6.0, g.At(2, 1))

	// ToGonum copies.
	g.Set(0, 0, 42)
	require.Equal(t, 1.0, MustAt(t, m, 0, 0))

	back, err := dense.FromGonum(g.T())
	require.NoError(t, err)
	require.Equal(t, [][]float64{{42, 3, 5}, {2, 4, 6}}, back.ToRows())

	_, err = dense.FromGonum(nil)
	require.ErrorIs(t, err, dense.ErrNilMatrix)
}

func TestAllClose(t *testing.T) {
	a := MustFromRows(t, [][]float64{{1, 2}})
	b := MustFromRows(t, [][]float64{{1, 2 + 1e-10}})

	ok, err := dense.AllClose(a, b, 0, 1e-9)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = dense.AllClose(a, b, 0, 1e-12)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = dense.AllClose(a, MustFromRows(t, [][]float64{{1}, {2}}), 0, 0)
	require.ErrorIs(t, err, dense.ErrDimensionMismatch)
	_, err = dense.AllClose(a, b, math.NaN(), 0)
	require.ErrorIs(t, err, dense.ErrNaNInf)
}
