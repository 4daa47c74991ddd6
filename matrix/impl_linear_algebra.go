// SPDX-License-Identifier: MIT
// Package matrix provides universal operations on any Matrix implementation:
// matrix multiplication, transpose, matrix-vector products, the Doolittle LU
// with its dense solver, and Householder QR least squares.
// All functions perform strict fail-fast validation and return clear errors on
// dimension mismatches.
//
// Notes:
//   - Every kernel has a *Dense fast path (flat slice loops) and a generic
//     At/Set fallback with the same loop order, so results are identical.
//   - Errors are wrapped via matrixErrorf(op, sentinel).

package matrix

import (
	"fmt"
	"math"
)

// NormZero is the additive identity for norm and accumulation operations.
const NormZero = 0.0

// ZeroSum is the initial sum value for forward/backward substitution and similar.
const ZeroSum = 0.0

// ZeroPivot is the sentinel for detecting a zero pivot in LU-like routines.
const ZeroPivot = 0.0

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opMul          = "Mul"
	opTranspose    = "Transpose"
	opMatVec       = "MatVec"
	opLU           = "LU"
	opSolveLU      = "SolveLU"
	opLeastSquares = "LeastSquares"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// toDense returns m as *Dense, densifying other implementations through At.
// The second result reports whether a copy was made.
func toDense(m Matrix) (*Dense, bool, error) {
	if d, ok := m.(*Dense); ok {
		return d, false, nil
	}
	if b, ok := m.(*Band); ok {
		return b.ToDense(), true, nil
	}
	r, c := m.Rows(), m.Cols()
	out, err := NewDense(r, c, WithNoValidateNaNInf())
	if err != nil {
		return nil, false, err
	}
	var i, j int
	var v float64
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, false, fmt.Errorf("At(%d,%d): %w", i, j, err)
			}
			out.data[i*c+j] = v
		}
	}

	return out, true, nil
}

// Mul computes the matrix product C = A × B.
//
// Implementation:
//   - Stage 1: ValidateMulCompatible(a, b).
//   - Stage 2: *Dense fast path with i→k→j loop order (row of A streamed once);
//     otherwise the interface fallback with the same order.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
func Mul(a, b Matrix) (Matrix, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	rows, inner, cols := a.Rows(), a.Cols(), b.Cols()
	res, err := NewDense(rows, cols, WithNoValidateNaNInf())
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	var i, j, k int
	var aik float64
	da, okA := a.(*Dense)
	db, okB := b.(*Dense)
	if okA && okB {
		for i = 0; i < rows; i++ {
			for k = 0; k < inner; k++ {
				aik = da.data[i*inner+k]
				if aik == 0 {
					continue
				}
				for j = 0; j < cols; j++ {
					res.data[i*cols+j] += aik * db.data[k*cols+j]
				}
			}
		}

		return res, nil
	}

	var bkj float64
	for i = 0; i < rows; i++ {
		for k = 0; k < inner; k++ {
			if aik, err = a.At(i, k); err != nil {
				return nil, matrixErrorf(opMul, fmt.Errorf("At(%d,%d): %w", i, k, err))
			}
			if aik == 0 {
				continue
			}
			for j = 0; j < cols; j++ {
				if bkj, err = b.At(k, j); err != nil {
					return nil, matrixErrorf(opMul, fmt.Errorf("At(%d,%d): %w", k, j, err))
				}
				res.data[i*cols+j] += aik * bkj
			}
		}
	}

	return res, nil
}

// Transpose returns a fresh Dense holding mᵀ.
// Complexity: Time O(r*c), Space O(r*c).
func Transpose(m Matrix) (Matrix, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	d, _, err := toDense(m)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	res, err := NewDense(d.c, d.r, WithNoValidateNaNInf())
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	var i, j int
	for i = 0; i < d.r; i++ {
		for j = 0; j < d.c; j++ {
			res.data[j*d.r+i] = d.data[i*d.c+j]
		}
	}

	return res, nil
}

// MatVec computes y = m·x.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (len(x) != Cols).
//
// Complexity:
//   - Time O(r*c) for Dense, O(r*(kl+ku+1)) for Band; Space O(r).
//
// AI-Hints:
//   - For repeated calls with same shape, reuse x/y slices outside.
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	rows, cols := m.Rows(), m.Cols()
	y := make([]float64, rows)

	var i, j int
	var sum float64
	switch v := m.(type) {
	case *Dense:
		for i = 0; i < rows; i++ {
			sum = ZeroSum
			for j = 0; j < cols; j++ {
				sum += v.data[i*cols+j] * x[j]
			}
			y[i] = sum
		}
	case *Band:
		w := v.width()
		for i = 0; i < rows; i++ {
			sum = ZeroSum
			for j = max(0, i-v.kl); j <= min(cols-1, i+v.ku); j++ {
				sum += v.data[i*w+j-i+v.kl] * x[j]
			}
			y[i] = sum
		}
	default:
		var aij float64
		var err error
		for i = 0; i < rows; i++ {
			sum = ZeroSum
			for j = 0; j < cols; j++ {
				if aij, err = m.At(i, j); err != nil {
					return nil, matrixErrorf(opMatVec, fmt.Errorf("At(%d,%d): %w", i, j, err))
				}
				sum += aij * x[j]
			}
			y[i] = sum
		}
	}

	return y, nil
}

// LU computes the Doolittle factorization A = L*U with unit diagonal on L (no pivoting).
//
// Implementation:
//   - Stage 1: Validate m (not nil, square); densify; allocate L,U; set diag(L)=1.
//   - Stage 2: For i=0..n-1, build row i of U and column i of L in fixed order.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrSingular (if U[i,i]==0 during factorization).
//
// Complexity:
//   - Time O(n^3), Space O(n^2).
//
// Notes:
//   - Deterministic and pivot-free; SolveLU and DenseLU build on it. The
//     default banded path is BandLU, which pivots.
func LU(m Matrix) (Matrix, Matrix, error) {
	if err := ValidateSquareNonNil(m); err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}
	a, _, err := toDense(m)
	if err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}
	n := a.r
	L, err := NewDense(n, n, WithNoValidateNaNInf())
	if err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}
	U, err := NewDense(n, n, WithNoValidateNaNInf())
	if err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}
	for i := 0; i < n; i++ {
		L.data[i*n+i] = 1.0
	}

	var i, j, k int
	var sum float64
	for i = 0; i < n; i++ {
		for j = i; j < n; j++ {
			sum = ZeroSum
			for k = 0; k < i; k++ {
				sum += L.data[i*n+k] * U.data[k*n+j]
			}
			U.data[i*n+j] = a.data[i*n+j] - sum
		}
		if U.data[i*n+i] == ZeroPivot {
			return nil, nil, matrixErrorf(opLU, ErrSingular)
		}
		for j = i + 1; j < n; j++ {
			sum = ZeroSum
			for k = 0; k < i; k++ {
				sum += L.data[j*n+k] * U.data[k*n+i]
			}
			L.data[j*n+i] = (a.data[j*n+i] - sum) / U.data[i*n+i]
		}
	}

	return L, U, nil
}

// DenseLU solves banded systems on a dense copy through SolveLU. B-spline
// collocation matrices are totally positive, so elimination without pivoting
// does not break down on them. The zero value is ready to use.
type DenseLU struct{}

// SolveBand densifies a and solves A·X = B with SolveLU.
// Complexity: Time O(n^3 + n^2*nrhs), Space O(n^2 + n*nrhs).
func (DenseLU) SolveBand(a *Band, b *Dense) (*Dense, error) {
	if a == nil {
		return nil, matrixErrorf(opSolveLU, ErrNilMatrix)
	}

	return SolveLU(a, b)
}

// SolveLU solves A·X = B for square A: LU factorization, then forward
// substitution against the unit lower factor and back substitution against
// the upper one, column by column of B. Inputs are not mutated.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrDimensionMismatch (B rows != n),
//     ErrSingular (zero pivot; LU does not pivot).
//
// Complexity:
//   - Time O(n^3 + n^2*nrhs), Space O(n^2 + n*nrhs).
func SolveLU(a Matrix, b *Dense) (*Dense, error) {
	if err := ValidateSquareNonNil(a); err != nil {
		return nil, matrixErrorf(opSolveLU, err)
	}
	n := a.Rows()
	if err := ValidateRHS(b, n); err != nil {
		return nil, matrixErrorf(opSolveLU, err)
	}
	l, u, err := LU(a)
	if err != nil {
		return nil, matrixErrorf(opSolveLU, err)
	}
	L, U := l.(*Dense), u.(*Dense)

	nrhs := b.c
	x, err := NewDense(n, nrhs, WithNoValidateNaNInf())
	if err != nil {
		return nil, matrixErrorf(opSolveLU, err)
	}
	copy(x.data, b.data)

	var i, j, k int
	var sum float64
	for j = 0; j < nrhs; j++ {
		for i = 0; i < n; i++ {
			sum = x.data[i*nrhs+j]
			for k = 0; k < i; k++ {
				sum -= L.data[i*n+k] * x.data[k*nrhs+j]
			}
			x.data[i*nrhs+j] = sum
		}
		for i = n - 1; i >= 0; i-- {
			sum = x.data[i*nrhs+j]
			for k = i + 1; k < n; k++ {
				sum -= U.data[i*n+k] * x.data[k*nrhs+j]
			}
			x.data[i*nrhs+j] = sum / U.data[i*n+i]
		}
	}

	return x, nil
}

// householder reflects column k of the r×c row-major buffer a (rows k..r-1)
// onto -sign(a[k,k])·‖·‖·e_k. It returns the reflector v (zero above k) and
// τ = 2/(vᵀv); τ == 0 means the column is already zero and no reflection applies.
func householder(a []float64, r, c, k int, v []float64) float64 {
	var i int
	norm := NormZero
	for i = k; i < r; i++ {
		norm += a[i*c+k] * a[i*c+k]
	}
	norm = math.Sqrt(norm)
	if norm == NormZero {
		return 0
	}
	alpha := -math.Copysign(norm, a[k*c+k])
	for i = 0; i < r; i++ {
		v[i] = 0
	}
	for i = k; i < r; i++ {
		v[i] = a[i*c+k]
	}
	v[k] -= alpha

	beta := NormZero
	for i = k; i < r; i++ {
		beta += v[i] * v[i]
	}
	if beta == NormZero {
		return 0
	}

	return 2.0 / beta
}

// reflect applies H = I - τ·v·vᵀ to columns [from, c) of the r×c buffer a, rows k..r-1.
func reflect(a []float64, r, c, k, from int, v []float64, tau float64) {
	var i, j int
	var sum float64
	for j = from; j < c; j++ {
		sum = ZeroSum
		for i = k; i < r; i++ {
			sum += v[i] * a[i*c+j]
		}
		if sum == 0 {
			continue
		}
		for i = k; i < r; i++ {
			a[i*c+j] -= tau * v[i] * sum
		}
	}
}

// LeastSquares solves min ‖A·X − B‖₂ column-wise for a tall A (r >= c) by
// Householder QR; reflectors are applied to B on the fly (Q is never formed).
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (wide A or B rows != r),
//     ErrRankDeficient (zero diagonal in R).
//
// Complexity:
//   - Time O(r*c^2 + r*c*nrhs), Space O(r*(c+nrhs)).
//
// AI-Hints:
//   - Better conditioned than normal equations: κ(A) instead of κ(A)².
func LeastSquares(a Matrix, b *Dense) (*Dense, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, matrixErrorf(opLeastSquares, err)
	}
	r, c := a.Rows(), a.Cols()
	if r < c {
		return nil, matrixErrorf(opLeastSquares, ErrDimensionMismatch)
	}
	if err := ValidateRHS(b, r); err != nil {
		return nil, matrixErrorf(opLeastSquares, err)
	}
	src, _, err := toDense(a)
	if err != nil {
		return nil, matrixErrorf(opLeastSquares, err)
	}
	R := make([]float64, len(src.data))
	copy(R, src.data)
	nrhs := b.c
	y := make([]float64, len(b.data))
	copy(y, b.data)

	v := make([]float64, r)
	var tau float64
	var i, j, k, col int
	for k = 0; k < c; k++ {
		if tau = householder(R, r, c, k, v); tau == 0 {
			continue
		}
		reflect(R, r, c, k, k, v, tau)
		reflect(y, r, nrhs, k, 0, v, tau)
	}

	x := make([]float64, c*nrhs)
	var sum, pivot float64
	for col = 0; col < nrhs; col++ {
		for i = c - 1; i >= 0; i-- {
			sum = y[i*nrhs+col]
			for j = i + 1; j < c; j++ {
				sum -= R[i*c+j] * x[j*nrhs+col]
			}
			pivot = R[i*c+i]
			if pivot == ZeroPivot {
				return nil, matrixErrorf(opLeastSquares, fmt.Errorf("R[%d,%d]: %w", i, i, ErrRankDeficient))
			}
			x[i*nrhs+col] = sum / pivot
		}
	}

	return &Dense{r: c, c: nrhs, data: x, validateNaNInf: false}, nil
}
