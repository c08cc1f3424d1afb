// SPDX-License-Identifier: MIT

// Package sparse - Matrix Market coordinate I/O.
//
// Supported header: "%%MatrixMarket matrix coordinate <field> <symmetry>"
// with field in {real, integer, pattern} and symmetry in {general,
// symmetric, skew-symmetric}. Indices in the file are 1-based. Pattern
// entries read as 1. Symmetric files mirror every off-diagonal entry;
// skew-symmetric files mirror it negated.

package sparse

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	mmBanner       = "%%MatrixMarket"
	mmObject       = "matrix"
	mmFormat       = "coordinate"
	mmFieldReal    = "real"
	mmFieldInteger = "integer"
	mmFieldPattern = "pattern"
	mmGeneral      = "general"
	mmSymmetric    = "symmetric"
	mmSkew         = "skew-symmetric"

	// mmCapHint caps the entry pre-allocation taken from the size line.
	mmCapHint = 1 << 16

	opReadMarket  = "ReadMatrixMarket"
	opWriteMarket = "WriteMatrixMarket"
)

// marketHeader is the parsed banner line.
type marketHeader struct {
	field    string
	symmetry string
}

func parseMarketBanner(line string) (marketHeader, error) {
	f := strings.Fields(strings.ToLower(line))
	if len(f) != 5 || f[0] != strings.ToLower(mmBanner) {
		return marketHeader{}, fmt.Errorf("banner %q: %w", line, ErrMalformedMarket)
	}
	if f[1] != mmObject || f[2] != mmFormat {
		return marketHeader{}, fmt.Errorf("unsupported object/format %s %s: %w", f[1], f[2], ErrMalformedMarket)
	}
	h := marketHeader{field: f[3], symmetry: f[4]}
	switch h.field {
	case mmFieldReal, mmFieldInteger, mmFieldPattern:
	default:
		return marketHeader{}, fmt.Errorf("unsupported field %q: %w", h.field, ErrMalformedMarket)
	}
	switch h.symmetry {
	case mmGeneral, mmSymmetric, mmSkew:
	default:
		return marketHeader{}, fmt.Errorf("unsupported symmetry %q: %w", h.symmetry, ErrMalformedMarket)
	}

	return h, nil
}

// ReadMatrixMarket parses a coordinate Matrix Market stream into a CSR
// matrix. Duplicate coordinates are summed (see FromTriplets).
//
// Errors: ErrMalformedMarket (wrapped with the line number), ErrOutOfRange,
// or the reader's own error.
func ReadMatrixMarket[T Numeric](r io.Reader) (*CSR[T], error) {
	sc := bufio.NewScanner(r)
	lineNo := 0
	inBody := false
	next := func() (string, bool) {
		for sc.Scan() {
			lineNo++
			line := strings.TrimSpace(sc.Text())
			if line == "" || (inBody && strings.HasPrefix(line, "%")) {
				continue
			}
			return line, true
		}
		return "", false
	}
	fail := func(err error) (*CSR[T], error) {
		return nil, fmt.Errorf("%s: line %d: %w", opReadMarket, lineNo, err)
	}

	banner, ok := next()
	if !ok {
		if err := sc.Err(); err != nil {
			return nil, sparseErrorf(opReadMarket, err)
		}
		return fail(fmt.Errorf("empty input: %w", ErrMalformedMarket))
	}
	h, err := parseMarketBanner(banner)
	if err != nil {
		return fail(err)
	}
	inBody = true

	sizeLine, ok := next()
	if !ok {
		return fail(fmt.Errorf("missing size line: %w", ErrMalformedMarket))
	}
	rows, cols, nnz, err := parseMarketSize(sizeLine)
	if err != nil {
		return fail(err)
	}
	if h.symmetry != mmGeneral && rows != cols {
		return fail(fmt.Errorf("%s matrix must be square: %w", h.symmetry, ErrMalformedMarket))
	}

	// The header is untrusted: grow with the entries actually read.
	entries := make([]Triplet[T], 0, min(nnz, mmCapHint))
	for k := 0; k < nnz; k++ {
		line, ok := next()
		if !ok {
			if err := sc.Err(); err != nil {
				return nil, sparseErrorf(opReadMarket, err)
			}
			return fail(fmt.Errorf("expected %d entries, got %d: %w", nnz, k, ErrMalformedMarket))
		}
		t, err := parseMarketEntry[T](line, h.field)
		if err != nil {
			return fail(err)
		}
		entries = append(entries, t)
		if t.Row != t.Col {
			switch h.symmetry {
			case mmSymmetric:
				entries = append(entries, Triplet[T]{Row: t.Col, Col: t.Row, Value: t.Value})
			case mmSkew:
				entries = append(entries, Triplet[T]{Row: t.Col, Col: t.Row, Value: -t.Value})
			}
		}
	}
	if _, extra := next(); extra {
		return fail(fmt.Errorf("more than %d entries: %w", nnz, ErrMalformedMarket))
	}
	if err := sc.Err(); err != nil {
		return nil, sparseErrorf(opReadMarket, err)
	}

	m, err := FromTriplets(rows, cols, entries)
	if err != nil {
		return nil, sparseErrorf(opReadMarket, err)
	}

	return m, nil
}

// parseMarketSize parses the "rows cols nnz" line. Shapes above MaxDim and
// entry counts above rows*cols are rejected.
func parseMarketSize(line string) (rows, cols, nnz int, err error) {
	f := strings.Fields(line)
	if len(f) != 3 {
		return 0, 0, 0, fmt.Errorf("size line %q: want 3 fields: %w", line, ErrMalformedMarket)
	}
	var n [3]int
	for k, s := range f {
		if n[k], err = strconv.Atoi(s); err != nil || n[k] < 0 {
			return 0, 0, 0, fmt.Errorf("size line %q: %w", line, ErrMalformedMarket)
		}
	}
	rows, cols, nnz = n[0], n[1], n[2]
	if err = validateShape(rows, cols); err != nil {
		return 0, 0, 0, fmt.Errorf("size line %q: %w", line, err)
	}
	// Both factors are at most MaxDim, so the product fits in int64.
	if int64(nnz) > int64(rows)*int64(cols) {
		return 0, 0, 0, fmt.Errorf("size line %q: %d entries exceed %dx%d: %w", line, nnz, rows, cols, ErrMalformedMarket)
	}

	return rows, cols, nnz, nil
}

// parseMarketEntry converts one "i j [v]" line to a 0-based triplet.
// Values that T cannot hold exactly are rejected.
func parseMarketEntry[T Numeric](line, field string) (Triplet[T], error) {
	f := strings.Fields(line)
	want := 3
	if field == mmFieldPattern {
		want = 2
	}
	if len(f) != want {
		return Triplet[T]{}, fmt.Errorf("entry %q: want %d fields: %w", line, want, ErrMalformedMarket)
	}
	i, err1 := strconv.Atoi(f[0])
	j, err2 := strconv.Atoi(f[1])
	if err1 != nil || err2 != nil {
		return Triplet[T]{}, fmt.Errorf("entry %q: bad index: %w", line, ErrMalformedMarket)
	}
	t := Triplet[T]{Row: i - 1, Col: j - 1, Value: 1}
	switch field {
	case mmFieldInteger:
		v, err := strconv.ParseInt(f[2], 10, 64)
		if err != nil {
			return Triplet[T]{}, fmt.Errorf("entry %q: %v: %w", line, err, ErrMalformedMarket)
		}
		t.Value = T(v)
		if int64(t.Value) != v {
			return Triplet[T]{}, fmt.Errorf("entry %q: %d does not fit %T: %w", line, v, t.Value, ErrMalformedMarket)
		}
	case mmFieldReal:
		v, err := strconv.ParseFloat(f[2], 64)
		if err != nil {
			return Triplet[T]{}, fmt.Errorf("entry %q: %v: %w", line, err, ErrMalformedMarket)
		}
		t.Value = T(v)
		if integral[T]() && float64(t.Value) != v {
			return Triplet[T]{}, fmt.Errorf("entry %q: %g is not a %T: %w", line, v, t.Value, ErrMalformedMarket)
		}
	}

	return t, nil
}

// LoadMatrixMarket opens path and reads it with ReadMatrixMarket.
func LoadMatrixMarket[T Numeric](path string) (*CSR[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, sparseErrorf(opReadMarket, err)
	}
	defer f.Close()

	return ReadMatrixMarket[T](bufio.NewReader(f))
}

// WriteMatrixMarket writes m as a general coordinate file. Integer element
// types produce an "integer" field, floating types a "real" field.
func WriteMatrixMarket[T Numeric](w io.Writer, m *CSR[T]) error {
	if m == nil {
		return sparseErrorf(opWriteMarket, ErrNilMatrix)
	}
	field := mmFieldReal
	if integral[T]() {
		field = mmFieldInteger
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s %s %s %s %s\n", mmBanner, mmObject, mmFormat, field, mmGeneral)
	fmt.Fprintf(bw, "%d %d %d\n", m.Rows(), m.Cols(), m.NNZ())
	m.c.expand(func(i, j int, v T) {
		fmt.Fprintf(bw, "%d %d %v\n", i+1, j+1, v)
	})
	if err := bw.Flush(); err != nil {
		return sparseErrorf(opWriteMarket, err)
	}

	return nil
}
