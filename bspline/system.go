package bspline

import (
	"fmt"

	"github.com/katalvlaran/lvspline/matrix"
	"github.com/katalvlaran/lvspline/sparse"
)

// Solver solves a square banded system A·X = B, one column of B per
// right-hand side. matrix.BandLU is the default; any implementation may be
// swapped in. Errors (singularity included) are returned to the caller
// unchanged apart from context wrapping.
type Solver interface {
	SolveBand(a *matrix.Band, b *matrix.Dense) (*matrix.Dense, error)
}

var (
	_ Solver = matrix.BandLU{}
	_ Solver = matrix.DenseLU{}
)

// sysRow is one equation of a collocation system: the nu-th derivative of the
// spline at x, supported on columns [l-k, l].
type sysRow struct {
	x  float64
	nu int
	l  int
}

// CollocationSystem builds the square banded matrix of the interpolation
// problem on knots t with degree k:
//
//   - rows [0, len(left)): derivative orders left[i] at x[0];
//   - rows [len(left), len(left)+len(x)): values at each site;
//   - the last len(right) rows: derivative orders right[i] at x[len(x)-1].
//
// Row i holds the k+1 basis values of its interval l in columns [l-k, l].
// The band widths are the smallest that hold every row.
//
// Errors:
//   - knot errors as in New, ErrTooFewSites, ErrSiteOutOfBounds,
//     ErrBadDerivative (order outside [0, k]),
//     ErrConstraintCount (len(t)-k-1 - len(x) != len(left)+len(right)).
func CollocationSystem(x, t []float64, k int, left, right []int) (*matrix.Band, error) {
	if err := validateKnots(t, k); err != nil {
		return nil, splineErrorf(opCollocation, err, "")
	}
	if err := validateDegree(t, k); err != nil {
		return nil, splineErrorf(opCollocation, err, "")
	}
	if len(x) == 0 {
		return nil, splineErrorf(opCollocation, ErrTooFewSites, "no sites")
	}
	if err := checkOrders(k, left, right); err != nil {
		return nil, splineErrorf(opCollocation, err, "")
	}
	if nt := len(t) - k - 1; nt-len(x) != len(left)+len(right) {
		return nil, splineErrorf(opCollocation, ErrConstraintCount,
			"%d unknowns, %d sites, %d+%d derivatives", nt, len(x), len(left), len(right))
	}
	ab, err := collocation(x, t, k, left, right)
	if err != nil {
		return nil, splineErrorf(opCollocation, err, "")
	}

	return ab, nil
}

func checkOrders(k int, lists ...[]int) error {
	for _, l := range lists {
		for _, nu := range l {
			if nu < 0 || nu > k {
				return fmt.Errorf("%w: order %d for degree %d", ErrBadDerivative, nu, k)
			}
		}
	}

	return nil
}

// collocation assumes validated knots and orders.
func collocation(x, t []float64, k int, left, right []int) (*matrix.Band, error) {
	rows := make([]sysRow, 0, len(left)+len(x)+len(right))
	l0 := FindInterval(t, k, x[0], false)
	lN := FindInterval(t, k, x[len(x)-1], false)
	if l0 < 0 || lN < 0 {
		return nil, fmt.Errorf("%w: sites [%g, %g]", ErrSiteOutOfBounds, x[0], x[len(x)-1])
	}
	for _, nu := range left {
		rows = append(rows, sysRow{x: x[0], nu: nu, l: l0})
	}
	for _, xv := range x {
		l := FindInterval(t, k, xv, false)
		if l < 0 {
			return nil, fmt.Errorf("%w: x=%g", ErrSiteOutOfBounds, xv)
		}
		rows = append(rows, sysRow{x: xv, l: l})
	}
	for _, nu := range right {
		rows = append(rows, sysRow{x: x[len(x)-1], nu: nu, l: lN})
	}

	var kl, ku int
	for i, r := range rows {
		ku = max(ku, r.l-i)
		kl = max(kl, i-(r.l-k))
	}
	ab, err := matrix.NewBand(len(rows), kl, ku)
	if err != nil {
		return nil, err
	}
	work := make([]float64, 2*(k+1))
	for i, r := range rows {
		deBoor(t, r.x, k, r.l, r.nu, work)
		if err = ab.SetRow(i, r.l-k, work[:k+1]); err != nil {
			return nil, err
		}
	}

	return ab, nil
}

// DesignMatrix returns the m×n matrix B[i][j] = B_{j,k;t}(x[i]) in CSR form,
// n = len(t)-k-1. Each row stores its k+1 basis values (zeros included), so
// the sparsity pattern depends only on the intervals of the sites.
//
// Errors:
//   - knot errors as in New, ErrNotFinite, ErrSiteOutOfBounds.
func DesignMatrix(x, t []float64, k int) (*sparse.CSR, error) {
	if err := validateKnots(t, k); err != nil {
		return nil, splineErrorf(opDesignMatrix, err, "")
	}
	if err := validateDegree(t, k); err != nil {
		return nil, splineErrorf(opDesignMatrix, err, "")
	}
	if len(x) == 0 {
		return nil, splineErrorf(opDesignMatrix, ErrTooFewSites, "no sites")
	}
	if !finiteFloats(x) {
		return nil, splineErrorf(opDesignMatrix, ErrNotFinite, "sites")
	}

	n := len(t) - k - 1
	indptr := make([]int, len(x)+1)
	indices := make([]int, 0, len(x)*(k+1))
	data := make([]float64, 0, len(x)*(k+1))
	work := make([]float64, 2*(k+1))
	for i, xv := range x {
		l := FindInterval(t, k, xv, false)
		if l < 0 {
			return nil, splineErrorf(opDesignMatrix, ErrSiteOutOfBounds, "x[%d]=%g", i, xv)
		}
		deBoor(t, xv, k, l, 0, work)
		for a := 0; a <= k; a++ {
			indices = append(indices, l-k+a)
			data = append(data, work[a])
		}
		indptr[i+1] = len(indices)
	}

	csr, err := sparse.NewCSR(len(x), n, indptr, indices, data)
	if err != nil {
		return nil, splineErrorf(opDesignMatrix, err, "")
	}

	return csr, nil
}
