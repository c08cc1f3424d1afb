// SPDX-License-Identifier: MIT

package sparse_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/spmat/sparse"
)

// Shared fixtures: a matrix with a structurally empty cell in every row
// and a partner whose sum with it cancels one entry.
var (
	gridA = [][]float64{{1, 0, 0}, {4, 5, 6}, {0, 8, 9}}
	gridB = [][]float64{{0, 2, 3}, {0, -5, 0}, {7, 8, 0}}
)

// parallelOpts forces several tasks even on tiny inputs.
var parallelOpts = []sparse.Option{sparse.WithWorkers(4), sparse.WithGrain(1)}

// MustCSR builds a CSR matrix from grid or fails the test.
func MustCSR[T sparse.Numeric](tb testing.TB, grid [][]T) *sparse.CSR[T] {
	tb.Helper()
	m, err := sparse.FromDense(grid)
	require.NoError(tb, err)

	return m
}

// MustCSC builds a CSC matrix from grid or fails the test.
func MustCSC[T sparse.Numeric](tb testing.TB, grid [][]T) *sparse.CSC[T] {
	tb.Helper()
	m, err := sparse.CSCFromDense(grid)
	require.NoError(tb, err)

	return m
}

// randomGrid returns a rows×cols grid with roughly density*rows*cols
// small integer-valued entries, reproducible for a given seed.
func randomGrid(rows, cols int, density float64, seed uint64) [][]float64 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	g := make([][]float64, rows)
	for i := range g {
		g[i] = make([]float64, cols)
		for j := range g[i] {
			if rng.Float64() < density {
				g[i][j] = float64(rng.IntN(19) - 9)
			}
		}
	}

	return g
}
