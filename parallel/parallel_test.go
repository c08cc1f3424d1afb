package parallel_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/spmat/parallel"
)

func TestSplit_CoversAndBalances(t *testing.T) {
	for _, tc := range []struct {
		n, workers, grain int
		wantParts         int
	}{
		{n: 10, workers: 4, grain: 1, wantParts: 4},
		{n: 10, workers: 4, grain: 5, wantParts: 2},
		{n: 10, workers: 4, grain: 64, wantParts: 1},
		{n: 3, workers: 8, grain: 1, wantParts: 3},
		{n: 1000, workers: 7, grain: 10, wantParts: 7},
	} {
		name := fmt.Sprintf("n=%d/w=%d/g=%d", tc.n, tc.workers, tc.grain)
		t.Run(name, func(t *testing.T) {
			rs := parallel.Split(tc.n, parallel.Config{Workers: tc.workers, Grain: tc.grain})
			require.Len(t, rs, tc.wantParts)

			// contiguous cover of [0,n)
			next := 0
			minLen, maxLen := tc.n, 0
			for _, r := range rs {
				require.Equal(t, next, r.Lo)
				require.Greater(t, r.Hi, r.Lo)
				next = r.Hi
				minLen = min(minLen, r.Len())
				maxLen = max(maxLen, r.Len())
			}
			require.Equal(t, tc.n, next)
			require.LessOrEqual(t, maxLen-minLen, 1, "ranges must be balanced")
		})
	}
}

func TestSplit_EmptyAndZeroConfig(t *testing.T) {
	require.Nil(t, parallel.Split(0, parallel.DefaultConfig()))
	require.Nil(t, parallel.Split(-3, parallel.DefaultConfig()))

	// zero Config degrades to one sequential range
	rs := parallel.Split(5, parallel.Config{})
	require.Equal(t, []parallel.Range{{Lo: 0, Hi: 5}}, rs)
}

func TestMap_ResultsInRangeOrder(t *testing.T) {
	cfg := parallel.Config{Workers: 8, Grain: 1}
	out, err := parallel.Map(context.Background(), cfg, 100, func(_ context.Context, r parallel.Range) (int, error) {
		return r.Lo, nil
	})
	require.NoError(t, err)

	rs := parallel.Split(100, cfg)
	require.Len(t, out, len(rs))
	for k, r := range rs {
		require.Equal(t, r.Lo, out[k])
	}
}

func TestMap_FirstErrorSurfaces(t *testing.T) {
	errBoom := errors.New("boom")
	var ran atomic.Int32

	_, err := parallel.Map(context.Background(), parallel.Config{Workers: 2, Grain: 1}, 64,
		func(ctx context.Context, r parallel.Range) (int, error) {
			ran.Add(1)
			if r.Lo == 0 {
				return 0, errBoom
			}

			return r.Len(), nil
		})
	require.ErrorIs(t, err, errBoom)
	require.Positive(t, ran.Load())
}

func TestMapReduce_SumMatchesSequential(t *testing.T) {
	const n = 10_000
	data := make([]int, n)
	want := 0
	for i := range data {
		data[i] = i*7 - 3
		want += data[i]
	}

	got, err := parallel.MapReduce(context.Background(), parallel.Config{Workers: 6, Grain: 16}, n,
		func(_ context.Context, r parallel.Range) (int, error) {
			s := 0
			for _, v := range data[r.Lo:r.Hi] {
				s += v
			}

			return s, nil
		},
		0,
		func(a, b int) int { return a + b },
	)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestReduce_LeftFoldOrder(t *testing.T) {
	got := parallel.Reduce([]string{"a", "b", "c"}, "", func(x, y string) string { return x + y })
	require.Equal(t, "abc", got)
}

func TestFor_TouchesEveryIndexOnce(t *testing.T) {
	const n = 513
	hits := make([]int32, n)
	parallel.For(parallel.Config{Workers: 4, Grain: 8}, n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			atomic.AddInt32(&hits[i], 1)
		}
	})
	for i, h := range hits {
		require.Equal(t, int32(1), h, "index %d", i)
	}
}
