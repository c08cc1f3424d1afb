// SPDX-License-Identifier: MIT

// Command spmat runs the sparse and dense kernels on Matrix Market files.
//
// Usage:
//
//	spmat add A.mtx B.mtx
//	spmat mul --parallel --workers 8 A.mtx B.mtx --out C.mtx
//	spmat scale --by -2 A.mtx
//	spmat minmax A.mtx
//	spmat solve A.mtx b.mtx
//	spmat lu A.mtx
//	spmat qr A.mtx
//	spmat bench --size 2000 --density 0.005 --metrics
//
// Settings come from --config (YAML), then SPMAT_* environment variables,
// then flags.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
