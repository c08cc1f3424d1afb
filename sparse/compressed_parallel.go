// SPDX-License-Identifier: MIT

// Package sparse - fork-join variants of the compressed kernels.
//
// Every task reads the shared (immutable) operands and writes only its own
// buffer; stitching happens after parallel.Map has joined. Results equal the
// sequential kernels array for array.

package sparse

import (
	"cmp"
	"context"
	"slices"

	"github.com/katalvlaran/spmat/parallel"
)

// partial is one task's slice of an Add/Sub result: the entries of a
// contiguous range of major lines and the end offset of each line, counted
// from the first entry of the range.
type partial[T Numeric] struct {
	values []T
	index  []int
	ends   []int
}

// combinePartials concatenates y after x, shifting y's line ends by the
// number of entries already in x. Associative, with partial{} as identity.
func combinePartials[T Numeric](x, y partial[T]) partial[T] {
	off := len(x.values)
	x.values = append(x.values, y.values...)
	x.index = append(x.index, y.index...)
	for _, e := range y.ends {
		x.ends = append(x.ends, e+off)
	}

	return x
}

// addSubParallel is addSub with the major lines split across tasks.
func addSubParallel[T Numeric](a, b *compressed[T], negate bool, o Options) (compressed[T], error) {
	cfg := o.config()
	o.logger.Debug("sparse: parallel merge",
		"major", a.major,
		"nnz", len(a.values)+len(b.values),
		"tasks", len(parallel.Split(a.major, cfg)),
	)

	merged, err := parallel.MapReduce(context.Background(), cfg, a.major,
		func(_ context.Context, r parallel.Range) (partial[T], error) {
			p := partial[T]{ends: make([]int, 0, r.Len())}
			for i := r.Lo; i < r.Hi; i++ {
				p.values, p.index = mergeLine(a, b, i, negate, p.values, p.index)
				p.ends = append(p.ends, len(p.values))
			}

			return p, nil
		},
		partial[T]{},
		combinePartials[T],
	)
	if err != nil {
		return compressed[T]{}, err
	}

	ptr := make([]int, 1, a.major+1)
	ptr = append(ptr, merged.ends...)

	return compressed[T]{
		major:  a.major,
		minor:  a.minor,
		values: merged.values,
		index:  merged.index,
		ptr:    ptr,
	}, nil
}

// columnBuffer holds the non-zero products one task found for the output
// columns [lo, lo+span) of a single row.
type columnBuffer[T Numeric] struct {
	lo     int
	index  []int
	values []T
}

// multiplyParallel is multiply with every output line's columns fanned out.
// Lines of a without entries skip the fan-out entirely.
func multiplyParallel[T Numeric](a, bt *compressed[T], o Options) (compressed[T], error) {
	cfg := o.config()
	o.logger.Debug("sparse: parallel multiply",
		"rows", a.major,
		"cols", bt.major,
		"tasks_per_row", len(parallel.Split(bt.major, cfg)),
	)

	out := newBuilder[T](a.major, bt.major, 0)
	var zero T
	for i := 0; i < a.major; i++ {
		if a.ptr[i] == a.ptr[i+1] {
			out.closeSegment()
			continue
		}
		bufs, err := parallel.Map(context.Background(), cfg, bt.major,
			func(_ context.Context, r parallel.Range) (columnBuffer[T], error) {
				buf := columnBuffer[T]{lo: r.Lo}
				for j := r.Lo; j < r.Hi; j++ {
					if sum := dotLines(a, i, bt, j); sum != zero {
						buf.index = append(buf.index, j)
						buf.values = append(buf.values, sum)
					}
				}

				return buf, nil
			})
		if err != nil {
			return compressed[T]{}, err
		}
		// Ranges are disjoint, so ordering buffers by their first column
		// orders the whole line; no tie-break is needed.
		slices.SortFunc(bufs, func(x, y columnBuffer[T]) int { return cmp.Compare(x.lo, y.lo) })
		for _, buf := range bufs {
			out.index = append(out.index, buf.index...)
			out.values = append(out.values, buf.values...)
		}
		out.closeSegment()
	}

	return out, nil
}

// extremumParallel is extremum as a fork-join reduction over value ranges.
// The emptiness check happens before any task is spawned.
func extremumParallel[T Numeric](c *compressed[T], wantMax bool, o Options) (T, error) {
	if len(c.values) == 0 {
		var zero T
		return zero, ErrEmptyMatrix
	}
	pick := func(x, y T) T { return min(x, y) }
	local := slices.Min[[]T]
	if wantMax {
		pick = func(x, y T) T { return max(x, y) }
		local = slices.Max[[]T]
	}
	cfg := o.config()
	o.logger.Debug("sparse: parallel reduce",
		"nnz", len(c.values),
		"tasks", len(parallel.Split(len(c.values), cfg)),
	)

	return parallel.MapReduce(context.Background(), cfg, len(c.values),
		func(_ context.Context, r parallel.Range) (T, error) {
			return local(c.values[r.Lo:r.Hi]), nil
		},
		c.values[0],
		pick,
	)
}
