// SPDX-License-Identifier: MIT

package sparse_test

import (
	"fmt"

	"github.com/katalvlaran/spmat/sparse"
)

func ExampleCSR_Add() {
	a, _ := sparse.FromDense([][]int{{1, 0, 0}, {4, 5, 6}, {0, 8, 9}})
	b, _ := sparse.FromDense([][]int{{0, 2, 3}, {0, -5, 0}, {7, 8, 0}})

	sum, err := a.Add(b)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Print(sum)
	fmt.Println("stored:", sum.NNZ())
	// Output:
	// [1, 2, 3]
	// [4, 0, 6]
	// [7, 16, 9]
	// stored: 8
}

func ExampleCSR_MulParallel() {
	a, _ := sparse.FromDense([][]int{{1, 0, 0}, {4, 5, 6}, {0, 8, 9}})
	b, _ := sparse.FromDense([][]int{{0, 2, 3}, {0, -5, 0}, {7, 8, 0}})

	p, err := a.MulParallel(b, sparse.WithWorkers(2), sparse.WithGrain(1))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Print(p)
	// Output:
	// [0, 2, 3]
	// [42, 31, 12]
	// [63, 32, 0]
}

func ExampleCSR_Min() {
	a, _ := sparse.FromDense([][]float64{{1, 0, 0}, {4, 5, 6}, {0, 8, 9}})
	lo, _ := a.Min()
	hi, _ := a.Max()
	fmt.Println(lo, hi)
	// Output: 1 9
}

func ExampleDimensionError() {
	a, _ := sparse.FromDense([][]int{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	b, _ := sparse.FromDense([][]int{{1, 2, 3}, {4, 5, 6}})
	_, err := a.Add(b)
	fmt.Println(err)
	// Output: sparse: CSR.Add: rows mismatch (3 != 2)
}
