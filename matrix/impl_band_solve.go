// SPDX-License-Identifier: MIT

// Package matrix - banded linear solvers.
//
// Purpose:
//   - BandLU: general banded solve with partial pivoting (the gbsv recipe):
//     one factorization, many right-hand sides (columns of b).
//   - SolveCholeskyBand: symmetric positive definite banded solve using the
//     lower band only (the pbtrf/pbtrs recipe).
//
// Determinism:
//   - Fixed loop orders; ties in the pivot search keep the upper row.
//   - Inputs are never mutated; factorizations work on private copies.
package matrix

import (
	"fmt"
	"math"
)

const (
	opBandLU       = "BandLU"
	opCholeskyBand = "CholeskyBand"
)

// BandLU solves square banded systems by Gaussian elimination with partial
// pivoting. The zero value is ready to use.
type BandLU struct{}

// SolveBand solves A·X = B where A is n×n banded and B is n×nrhs.
//
// Implementation:
//   - Stage 1: validate; copy A into a work band whose upper width grows to
//     kl+ku to absorb pivoting fill-in (row r stores columns [r-kl, r+kl+ku]).
//   - Stage 2: for each column i pick the largest |a(r,i)| among the kl rows
//     below, swap, eliminate; apply the same row operations to B.
//   - Stage 3: back substitution against the upper factor.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (B rows != n), ErrSingular (zero pivot).
//
// Complexity:
//   - Time O(n*kl*(kl+ku) + n*(kl+ku)*nrhs), Space O(n*(2kl+ku+1) + n*nrhs).
//
// AI-Hints:
//   - Pack several right-hand sides into B to reuse one elimination.
func (BandLU) SolveBand(a *Band, b *Dense) (*Dense, error) {
	if a == nil {
		return nil, matrixErrorf(opBandLU, ErrNilMatrix)
	}
	if err := ValidateRHS(b, a.n); err != nil {
		return nil, matrixErrorf(opBandLU, err)
	}

	n, kl, ku := a.n, a.kl, a.ku
	w := 2*kl + ku + 1
	work := make([]float64, n*w)
	at := func(r, c int) int { return r*w + c - r + kl }

	// Stage 1: copy A into the widened band.
	var i, j, r int
	srcW := a.width()
	for i = 0; i < n; i++ {
		for j = max(0, i-kl); j <= min(n-1, i+ku); j++ {
			work[at(i, j)] = a.data[i*srcW+j-i+kl]
		}
	}
	nrhs := b.c
	x := make([]float64, len(b.data))
	copy(x, b.data)

	// Stage 2: elimination with partial pivoting.
	var (
		p          int
		best, f, v float64
		last       int
	)
	for i = 0; i < n; i++ {
		p = i
		best = math.Abs(work[at(i, i)])
		for r = i + 1; r <= min(n-1, i+kl); r++ {
			if v = math.Abs(work[at(r, i)]); v > best {
				p, best = r, v
			}
		}
		if best == ZeroPivot {
			return nil, matrixErrorf(opBandLU, fmt.Errorf("zero pivot at column %d: %w", i, ErrSingular))
		}
		last = min(n-1, i+kl+ku)
		if p != i {
			for j = i; j <= last; j++ {
				work[at(i, j)], work[at(p, j)] = work[at(p, j)], work[at(i, j)]
			}
			for j = 0; j < nrhs; j++ {
				x[i*nrhs+j], x[p*nrhs+j] = x[p*nrhs+j], x[i*nrhs+j]
			}
		}
		for r = i + 1; r <= min(n-1, i+kl); r++ {
			f = work[at(r, i)] / work[at(i, i)]
			if f == 0 {
				continue
			}
			work[at(r, i)] = 0
			for j = i + 1; j <= last; j++ {
				work[at(r, j)] -= f * work[at(i, j)]
			}
			for j = 0; j < nrhs; j++ {
				x[r*nrhs+j] -= f * x[i*nrhs+j]
			}
		}
	}

	// Stage 3: back substitution.
	var s float64
	var col int
	for i = n - 1; i >= 0; i-- {
		last = min(n-1, i+kl+ku)
		for col = 0; col < nrhs; col++ {
			s = x[i*nrhs+col]
			for j = i + 1; j <= last; j++ {
				s -= work[at(i, j)] * x[j*nrhs+col]
			}
			x[i*nrhs+col] = s / work[at(i, i)]
		}
	}

	return &Dense{r: n, c: nrhs, data: x, validateNaNInf: false}, nil
}

// CholeskyBand factors a symmetric positive definite band as A = L·Lᵀ using
// only the lower band of a (entries above the diagonal are ignored).
// The returned Band has kl = a.kl and ku = 0.
//
// Errors:
//   - ErrNilMatrix, ErrNotPositiveDefinite (non-positive or NaN pivot).
//
// Complexity:
//   - Time O(n*kl^2), Space O(n*(kl+1)).
func CholeskyBand(a *Band) (*Band, error) {
	if a == nil {
		return nil, matrixErrorf(opCholeskyBand, ErrNilMatrix)
	}
	n, kl := a.n, a.kl
	L, err := NewBand(n, kl, 0, WithNoValidateNaNInf())
	if err != nil {
		return nil, matrixErrorf(opCholeskyBand, err)
	}
	lw := kl + 1
	aw := a.width()
	lat := func(i, j int) int { return i*lw + j - i + kl }

	var i, j, k int
	var s float64
	for j = 0; j < n; j++ {
		s = a.data[j*aw+a.kl]
		for k = max(0, j-kl); k < j; k++ {
			s -= L.data[lat(j, k)] * L.data[lat(j, k)]
		}
		if !(s > 0) {
			return nil, matrixErrorf(opCholeskyBand, fmt.Errorf("pivot %d: %w", j, ErrNotPositiveDefinite))
		}
		L.data[lat(j, j)] = math.Sqrt(s)
		for i = j + 1; i <= min(n-1, j+kl); i++ {
			s = a.data[i*aw+j-i+a.kl]
			for k = max(0, i-kl); k < j; k++ {
				s -= L.data[lat(i, k)] * L.data[lat(j, k)]
			}
			L.data[lat(i, j)] = s / L.data[lat(j, j)]
		}
	}

	return L, nil
}

// SolveCholeskyBand solves A·X = B for symmetric positive definite banded A.
//
// Implementation:
//   - Stage 1: L = CholeskyBand(A).
//   - Stage 2: forward solve L·Y = B, then backward solve Lᵀ·X = Y.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrNotPositiveDefinite.
func SolveCholeskyBand(a *Band, b *Dense) (*Dense, error) {
	if a == nil {
		return nil, matrixErrorf(opCholeskyBand, ErrNilMatrix)
	}
	if err := ValidateRHS(b, a.n); err != nil {
		return nil, matrixErrorf(opCholeskyBand, err)
	}
	L, err := CholeskyBand(a)
	if err != nil {
		return nil, err
	}

	n, kl, nrhs := a.n, a.kl, b.c
	lw := kl + 1
	lat := func(i, j int) int { return i*lw + j - i + kl }
	x := make([]float64, len(b.data))
	copy(x, b.data)

	var i, j, col int
	var s float64
	for col = 0; col < nrhs; col++ {
		for i = 0; i < n; i++ {
			s = x[i*nrhs+col]
			for j = max(0, i-kl); j < i; j++ {
				s -= L.data[lat(i, j)] * x[j*nrhs+col]
			}
			x[i*nrhs+col] = s / L.data[lat(i, i)]
		}
		for i = n - 1; i >= 0; i-- {
			s = x[i*nrhs+col]
			for j = i + 1; j <= min(n-1, i+kl); j++ {
				s -= L.data[lat(j, i)] * x[j*nrhs+col]
			}
			x[i*nrhs+col] = s / L.data[lat(i, i)]
		}
	}

	return &Dense{r: n, c: nrhs, data: x, validateNaNInf: false}, nil
}
