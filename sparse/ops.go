// SPDX-License-Identifier: MIT

// Package sparse - public kernels on CSR and CSC.
//
// Every kernel:
//   - rejects nil operands with ErrNilMatrix,
//   - validates shapes before doing any work (rows before columns),
//   - returns a fresh matrix and never mutates its operands.
//
// CSC kernels reuse the compressed kernels with the roles swapped: a CSC
// matrix is stored exactly like the CSR form of its transpose, so
// (A·B) in CSC is computed as the CSR product Bᵀ·Aᵀ.

package sparse

// Operation tags for error wrapping and DimensionError.Op.
const (
	opNewCSR       = "NewCSR"
	opNewCSC       = "NewCSC"
	opZero         = "ZeroCSR"
	opFromDense    = "FromDense"
	opCSCFromDense = "CSCFromDense"
	opFromTriplets = "FromTriplets"

	opCSRAdd         = "CSR.Add"
	opCSRSub         = "CSR.Sub"
	opCSRAddParallel = "CSR.AddParallel"
	opCSRSubParallel = "CSR.SubParallel"
	opCSRScale       = "CSR.Scale"
	opCSRTranspose   = "CSR.Transpose"
	opCSRMul         = "CSR.Mul"
	opCSRMulParallel = "CSR.MulParallel"
	opCSRMin         = "CSR.Min"
	opCSRMax         = "CSR.Max"

	opCSCAdd         = "CSC.Add"
	opCSCSub         = "CSC.Sub"
	opCSCAddParallel = "CSC.AddParallel"
	opCSCSubParallel = "CSC.SubParallel"
	opCSCScale       = "CSC.Scale"
	opCSCTranspose   = "CSC.Transpose"
	opCSCMul         = "CSC.Mul"
	opCSCMulParallel = "CSC.MulParallel"
	opCSCMin         = "CSC.Min"
	opCSCMax         = "CSC.Max"
)

// ---------- Formatting literals ----------
const (
	_fmtRowOpen  = "["
	_fmtRowClose = "]\n"
	_fmtSep      = ", "
)

// ---------- CSR ----------

// checkBinary rejects nil operands and mismatched shapes.
func checkBinary(op string, a, b shaped, aNil, bNil bool) error {
	if aNil || bNil {
		return sparseErrorf(op, ErrNilMatrix)
	}

	return validateSameShape(op, a, b)
}

// Add returns m + b. Entries that cancel to zero are not stored.
//
// Errors: ErrNilMatrix, *DimensionError (DimRows, then DimColumns).
// Complexity: O(rows + nnz(m) + nnz(b)).
func (m *CSR[T]) Add(b *CSR[T]) (*CSR[T], error) {
	if err := checkBinary(opCSRAdd, m, b, m == nil, b == nil); err != nil {
		return nil, err
	}

	return &CSR[T]{c: addSub(&m.c, &b.c, false)}, nil
}

// Sub returns m - b. Entries only b stores come out negated.
func (m *CSR[T]) Sub(b *CSR[T]) (*CSR[T], error) {
	if err := checkBinary(opCSRSub, m, b, m == nil, b == nil); err != nil {
		return nil, err
	}

	return &CSR[T]{c: addSub(&m.c, &b.c, true)}, nil
}

// AddParallel is Add with rows partitioned across tasks. The result is
// identical to Add.
func (m *CSR[T]) AddParallel(b *CSR[T], opts ...Option) (*CSR[T], error) {
	if err := checkBinary(opCSRAddParallel, m, b, m == nil, b == nil); err != nil {
		return nil, err
	}
	c, err := addSubParallel(&m.c, &b.c, false, gatherOptions(opts...))
	if err != nil {
		return nil, sparseErrorf(opCSRAddParallel, err)
	}

	return &CSR[T]{c: c}, nil
}

// SubParallel is Sub with rows partitioned across tasks.
func (m *CSR[T]) SubParallel(b *CSR[T], opts ...Option) (*CSR[T], error) {
	if err := checkBinary(opCSRSubParallel, m, b, m == nil, b == nil); err != nil {
		return nil, err
	}
	c, err := addSubParallel(&m.c, &b.c, true, gatherOptions(opts...))
	if err != nil {
		return nil, sparseErrorf(opCSRSubParallel, err)
	}

	return &CSR[T]{c: c}, nil
}

// Scale returns s·m. The structure is kept, except that a zero scalar gives
// an empty matrix of the same shape and products that round to zero are
// dropped.
func (m *CSR[T]) Scale(s T) (*CSR[T], error) {
	if m == nil {
		return nil, sparseErrorf(opCSRScale, ErrNilMatrix)
	}

	return &CSR[T]{c: scale(&m.c, s)}, nil
}

// Negate returns -m.
func (m *CSR[T]) Negate() (*CSR[T], error) { return m.Scale(-1) }

// Transpose returns mᵀ (shape swapped) via a counting-sort bucketization.
func (m *CSR[T]) Transpose() (*CSR[T], error) {
	if m == nil {
		return nil, sparseErrorf(opCSRTranspose, ErrNilMatrix)
	}

	return &CSR[T]{c: transpose(&m.c)}, nil
}

// Mul returns m·b. b is transposed once so each output entry is the
// intersection of two sorted rows; only non-zero sums are stored.
//
// Errors: ErrNilMatrix, *DimensionError (DimInner).
func (m *CSR[T]) Mul(b *CSR[T]) (*CSR[T], error) {
	if m == nil || b == nil {
		return nil, sparseErrorf(opCSRMul, ErrNilMatrix)
	}
	if err := validateInner(opCSRMul, m, b); err != nil {
		return nil, err
	}
	bt := transpose(&b.c)

	return &CSR[T]{c: multiply(&m.c, &bt)}, nil
}

// MulParallel is Mul with the output columns of every row fanned out.
func (m *CSR[T]) MulParallel(b *CSR[T], opts ...Option) (*CSR[T], error) {
	if m == nil || b == nil {
		return nil, sparseErrorf(opCSRMulParallel, ErrNilMatrix)
	}
	if err := validateInner(opCSRMulParallel, m, b); err != nil {
		return nil, err
	}
	bt := transpose(&b.c)
	c, err := multiplyParallel(&m.c, &bt, gatherOptions(opts...))
	if err != nil {
		return nil, sparseErrorf(opCSRMulParallel, err)
	}

	return &CSR[T]{c: c}, nil
}

// Min returns the smallest stored value. Absent entries are not candidates,
// so a matrix whose stored values are all positive reports a positive
// minimum even when it has implicit zeros.
//
// Errors: ErrNilMatrix, ErrEmptyMatrix.
func (m *CSR[T]) Min() (T, error) { return csrExtremum(m, opCSRMin, false) }

// Max returns the largest stored value (see Min for the zero semantics).
func (m *CSR[T]) Max() (T, error) { return csrExtremum(m, opCSRMax, true) }

// MinParallel is Min as a fork-join reduction over the values.
func (m *CSR[T]) MinParallel(opts ...Option) (T, error) {
	return csrExtremumParallel(m, opCSRMin, false, opts)
}

// MaxParallel is Max as a fork-join reduction over the values.
func (m *CSR[T]) MaxParallel(opts ...Option) (T, error) {
	return csrExtremumParallel(m, opCSRMax, true, opts)
}

func csrExtremum[T Numeric](m *CSR[T], op string, wantMax bool) (T, error) {
	var zero T
	if m == nil {
		return zero, sparseErrorf(op, ErrNilMatrix)
	}
	v, err := extremum(&m.c, wantMax)
	if err != nil {
		return zero, sparseErrorf(op, err)
	}

	return v, nil
}

func csrExtremumParallel[T Numeric](m *CSR[T], op string, wantMax bool, opts []Option) (T, error) {
	var zero T
	if m == nil {
		return zero, sparseErrorf(op, ErrNilMatrix)
	}
	v, err := extremumParallel(&m.c, wantMax, gatherOptions(opts...))
	if err != nil {
		return zero, sparseErrorf(op, err)
	}

	return v, nil
}

// ---------- CSC ----------

// Add returns m + b, merging column by column.
//
// Errors: ErrNilMatrix, *DimensionError (DimRows, then DimColumns).
func (m *CSC[T]) Add(b *CSC[T]) (*CSC[T], error) {
	if err := checkBinary(opCSCAdd, m, b, m == nil, b == nil); err != nil {
		return nil, err
	}

	return &CSC[T]{c: addSub(&m.c, &b.c, false)}, nil
}

// Sub returns m - b.
func (m *CSC[T]) Sub(b *CSC[T]) (*CSC[T], error) {
	if err := checkBinary(opCSCSub, m, b, m == nil, b == nil); err != nil {
		return nil, err
	}

	return &CSC[T]{c: addSub(&m.c, &b.c, true)}, nil
}

// AddParallel is Add with columns partitioned across tasks.
func (m *CSC[T]) AddParallel(b *CSC[T], opts ...Option) (*CSC[T], error) {
	if err := checkBinary(opCSCAddParallel, m, b, m == nil, b == nil); err != nil {
		return nil, err
	}
	c, err := addSubParallel(&m.c, &b.c, false, gatherOptions(opts...))
	if err != nil {
		return nil, sparseErrorf(opCSCAddParallel, err)
	}

	return &CSC[T]{c: c}, nil
}

// SubParallel is Sub with columns partitioned across tasks.
func (m *CSC[T]) SubParallel(b *CSC[T], opts ...Option) (*CSC[T], error) {
	if err := checkBinary(opCSCSubParallel, m, b, m == nil, b == nil); err != nil {
		return nil, err
	}
	c, err := addSubParallel(&m.c, &b.c, true, gatherOptions(opts...))
	if err != nil {
		return nil, sparseErrorf(opCSCSubParallel, err)
	}

	return &CSC[T]{c: c}, nil
}

// Scale returns s·m (see CSR.Scale).
func (m *CSC[T]) Scale(s T) (*CSC[T], error) {
	if m == nil {
		return nil, sparseErrorf(opCSCScale, ErrNilMatrix)
	}

	return &CSC[T]{c: scale(&m.c, s)}, nil
}

// Negate returns -m.
func (m *CSC[T]) Negate() (*CSC[T], error) { return m.Scale(-1) }

// Transpose returns mᵀ in CSC form.
func (m *CSC[T]) Transpose() (*CSC[T], error) {
	if m == nil {
		return nil, sparseErrorf(opCSCTranspose, ErrNilMatrix)
	}

	return &CSC[T]{c: transpose(&m.c)}, nil
}

// Mul returns m·b in CSC form, computed as the row-compressed product bᵀ·mᵀ
// whose storage is exactly the CSC storage of m·b.
//
// Errors: ErrNilMatrix, *DimensionError (DimInner).
func (m *CSC[T]) Mul(b *CSC[T]) (*CSC[T], error) {
	if m == nil || b == nil {
		return nil, sparseErrorf(opCSCMul, ErrNilMatrix)
	}
	if err := validateInner(opCSCMul, m, b); err != nil {
		return nil, err
	}
	// b.c is the CSR form of bᵀ; transpose(m.c) is the CSR form of m, i.e.
	// the transposed layout of the right factor mᵀ.
	mt := transpose(&m.c)

	return &CSC[T]{c: multiply(&b.c, &mt)}, nil
}

// MulParallel is Mul with the inner products of every column fanned out.
func (m *CSC[T]) MulParallel(b *CSC[T], opts ...Option) (*CSC[T], error) {
	if m == nil || b == nil {
		return nil, sparseErrorf(opCSCMulParallel, ErrNilMatrix)
	}
	if err := validateInner(opCSCMulParallel, m, b); err != nil {
		return nil, err
	}
	mt := transpose(&m.c)
	c, err := multiplyParallel(&b.c, &mt, gatherOptions(opts...))
	if err != nil {
		return nil, sparseErrorf(opCSCMulParallel, err)
	}

	return &CSC[T]{c: c}, nil
}

// Min returns the smallest stored value (see CSR.Min).
func (m *CSC[T]) Min() (T, error) { return cscExtremum(m, opCSCMin, false) }

// Max returns the largest stored value.
func (m *CSC[T]) Max() (T, error) { return cscExtremum(m, opCSCMax, true) }

// MinParallel is Min as a fork-join reduction.
func (m *CSC[T]) MinParallel(opts ...Option) (T, error) {
	return cscExtremumParallel(m, opCSCMin, false, opts)
}

// MaxParallel is Max as a fork-join reduction.
func (m *CSC[T]) MaxParallel(opts ...Option) (T, error) {
	return cscExtremumParallel(m, opCSCMax, true, opts)
}

func cscExtremum[T Numeric](m *CSC[T], op string, wantMax bool) (T, error) {
	var zero T
	if m == nil {
		return zero, sparseErrorf(op, ErrNilMatrix)
	}
	v, err := extremum(&m.c, wantMax)
	if err != nil {
		return zero, sparseErrorf(op, err)
	}

	return v, nil
}

func cscExtremumParallel[T Numeric](m *CSC[T], op string, wantMax bool, opts []Option) (T, error) {
	var zero T
	if m == nil {
		return zero, sparseErrorf(op, ErrNilMatrix)
	}
	v, err := extremumParallel(&m.c, wantMax, gatherOptions(opts...))
	if err != nil {
		return zero, sparseErrorf(op, err)
	}

	return v, nil
}
