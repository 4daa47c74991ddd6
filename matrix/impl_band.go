// SPDX-License-Identifier: MIT

// Package matrix - Band storage for square banded matrices.
//
// Purpose:
//   - Store only the diagonals kl below and ku above the main diagonal.
//   - Implement the Matrix interface so generic kernels (MatVec, Mul, ...) accept bands.
//   - Feed the banded solvers (impl_band_solve.go) without densifying.
//
// Layout:
//   - Row-major compact layout: element (i, j) with -kl <= j-i <= ku lives at
//     data[i*(kl+ku+1) + (j-i+kl)]. Slots that fall outside [0, n) are kept zero.
//
// AI-Hints:
//   - Collocation matrices of degree-k splines are banded with kl = ku = k.
//   - Use ToDense only for diagnostics or small systems; it costs O(n^2).
package matrix

import "fmt"

const (
	ctxBandAt  = "At"
	ctxBandSet = "Set"
)

// Band is a square n×n matrix with kl sub-diagonals and ku super-diagonals.
type Band struct {
	n, kl, ku      int
	data           []float64
	validateNaNInf bool
}

var _ Matrix = (*Band)(nil)

// bandErrorf wraps an error with a uniform Band context and callsite indices.
func bandErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Band.%s(%d,%d): %w", method, row, col, err)
}

// NewBand creates an n×n zero band matrix with kl sub- and ku super-diagonals.
//
// Errors:
//   - ErrInvalidDimensions when n <= 0.
//   - ErrBadShape when kl or ku is negative.
//
// Complexity:
//   - Time O(n*(kl+ku+1)), Space O(n*(kl+ku+1)).
func NewBand(n, kl, ku int, opts ...Option) (*Band, error) {
	if n <= 0 {
		return nil, ErrInvalidDimensions
	}
	if kl < 0 || ku < 0 {
		return nil, ErrBadShape
	}
	o := gatherOptions(opts...)

	return &Band{
		n:              n,
		kl:             kl,
		ku:             ku,
		data:           make([]float64, n*(kl+ku+1)),
		validateNaNInf: o.validateNaNInf,
	}, nil
}

// Rows returns n. Complexity: O(1).
func (b *Band) Rows() int { return b.n }

// Cols returns n. Complexity: O(1).
func (b *Band) Cols() int { return b.n }

// Bandwidths returns (kl, ku).
func (b *Band) Bandwidths() (kl, ku int) { return b.kl, b.ku }

// width is the number of stored slots per row.
func (b *Band) width() int { return b.kl + b.ku + 1 }

// inBand reports whether (i, j) is a stored slot. Assumes indices are in range.
func (b *Band) inBand(i, j int) bool {
	d := j - i

	return d >= -b.kl && d <= b.ku
}

// At returns element (i, j); entries outside the band read as zero.
func (b *Band) At(i, j int) (float64, error) {
	if i < 0 || i >= b.n || j < 0 || j >= b.n {
		return 0, bandErrorf(ctxBandAt, i, j, ErrOutOfRange)
	}
	if !b.inBand(i, j) {
		return 0, nil
	}

	return b.data[i*b.width()+j-i+b.kl], nil
}

// Set stores v at (i, j). Writing zero outside the band is a no-op; writing
// anything else there returns ErrOutOfBand.
func (b *Band) Set(i, j int, v float64) error {
	if i < 0 || i >= b.n || j < 0 || j >= b.n {
		return bandErrorf(ctxBandSet, i, j, ErrOutOfRange)
	}
	if b.validateNaNInf && isNonFinite(v) {
		return bandErrorf(ctxBandSet, i, j, ErrNaNInf)
	}
	if !b.inBand(i, j) {
		if v == 0 {
			return nil
		}

		return bandErrorf(ctxBandSet, i, j, ErrOutOfBand)
	}
	b.data[i*b.width()+j-i+b.kl] = v

	return nil
}

// SetRow writes vals into row i starting at column j0. It is the bulk form of
// Set used by system builders that produce one contiguous run per row.
func (b *Band) SetRow(i, j0 int, vals []float64) error {
	for off, v := range vals {
		if err := b.Set(i, j0+off, v); err != nil {
			return err
		}
	}

	return nil
}

// Clone returns a deep copy with the same bandwidths and numeric policy.
func (b *Band) Clone() Matrix {
	cp := make([]float64, len(b.data))
	copy(cp, b.data)

	return &Band{n: b.n, kl: b.kl, ku: b.ku, data: cp, validateNaNInf: b.validateNaNInf}
}

// ToDense materializes the band as an n×n Dense.
// Complexity: O(n^2) allocation + O(n*(kl+ku+1)) copy.
func (b *Band) ToDense() *Dense {
	d := &Dense{r: b.n, c: b.n, data: make([]float64, b.n*b.n), validateNaNInf: b.validateNaNInf}
	var i, j, lo, hi int
	w := b.width()
	for i = 0; i < b.n; i++ {
		lo = max(0, i-b.kl)
		hi = min(b.n-1, i+b.ku)
		for j = lo; j <= hi; j++ {
			d.data[i*b.n+j] = b.data[i*w+j-i+b.kl]
		}
	}

	return d
}
