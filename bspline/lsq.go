package bspline

import (
	"fmt"

	"github.com/katalvlaran/lvspline/matrix"
)

// LSQMethod selects how MakeLSQ solves the least-squares problem.
type LSQMethod int

const (
	// NormalEquations forms BᵀW²B (banded, width k) and solves it by banded
	// Cholesky. Fast, but squares the condition number.
	NormalEquations LSQMethod = iota

	// QR solves the weighted dense system by Householder QR.
	QR
)

// LSQOption configures MakeLSQ.
type LSQOption func(*lsqOptions)

type lsqOptions struct {
	weights []float64
	shape   []int
	method  LSQMethod
}

// WithWeights sets one positive weight per site (default all ones).
// MakeLSQ rejects zero and negative weights with ErrBadWeights.
func WithWeights(w []float64) LSQOption {
	cp := append([]float64(nil), w...)

	return func(o *lsqOptions) { o.weights = cp }
}

// WithLSQValueShape sets the trailing shape of each y row (default scalar).
func WithLSQValueShape(dims ...int) LSQOption {
	cp := append([]int(nil), dims...)

	return func(o *lsqOptions) { o.shape = cp }
}

// WithMethod selects the solver.
func WithMethod(m LSQMethod) LSQOption {
	return func(o *lsqOptions) { o.method = m }
}

// MakeLSQ returns the degree-k spline on knots t minimizing
//
//	Σ_i (w[i] · (y[i] - S(x[i])))²
//
// per value component.
//
// Sites must be sorted (repeats allowed), lie inside the basic interval of t,
// and number at least k+1. A problem without a unique solution (too many
// basis functions without data) is reported by the solver:
// matrix.ErrNotPositiveDefinite for NormalEquations, matrix.ErrRankDeficient
// or matrix.ErrDimensionMismatch for QR.
//
// Errors:
//   - ErrBadShape, ErrBadDegree, ErrTooFewSites, ErrNotFinite, ErrSitesNotSorted,
//     ErrShapeMismatch, ErrBadWeights, knot errors as in New, ErrSiteOutOfBounds.
//
// Complexity:
//   - NormalEquations: Time O(m·k^2 + n·k^2 + (m+n)·stride), Space O(n·k + m·stride).
//   - QR: Time O(m·n^2), Space O(m·n).
func MakeLSQ[T Scalar](x []float64, y []T, t []float64, k int, opts ...LSQOption) (*Spline[T], error) {
	o := lsqOptions{method: NormalEquations}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	stride := product(o.shape)
	if stride == 0 {
		return nil, splineErrorf(opMakeLSQ, ErrBadShape, "shape %v", o.shape)
	}
	if k < 0 {
		return nil, splineErrorf(opMakeLSQ, ErrBadDegree, "k=%d", k)
	}
	if err := checkSites(x, k, false); err != nil {
		return nil, splineErrorf(opMakeLSQ, err, "")
	}
	m := len(x)
	if !allFinite(y) {
		return nil, splineErrorf(opMakeLSQ, ErrNotFinite, "values")
	}
	if len(y) != m*stride {
		return nil, splineErrorf(opMakeLSQ, ErrShapeMismatch, "%d values for %d sites of %d components", len(y), m, stride)
	}
	w := o.weights
	if w == nil {
		w = make([]float64, m)
		for i := range w {
			w[i] = 1
		}
	}
	if len(w) != m {
		return nil, splineErrorf(opMakeLSQ, ErrShapeMismatch, "%d weights for %d sites", len(w), m)
	}
	if !finiteFloats(w) {
		return nil, splineErrorf(opMakeLSQ, ErrNotFinite, "weights")
	}
	for i, v := range w {
		if v <= 0 {
			return nil, splineErrorf(opMakeLSQ, ErrBadWeights, "w[%d]=%g", i, v)
		}
	}
	if err := validateKnots(t, k); err != nil {
		return nil, splineErrorf(opMakeLSQ, err, "")
	}
	if err := validateDegree(t, k); err != nil {
		return nil, splineErrorf(opMakeLSQ, err, "")
	}
	n := len(t) - k - 1
	if x[0] < t[k] || x[m-1] > t[n] {
		return nil, splineErrorf(opMakeLSQ, ErrSiteOutOfBounds, "sites [%g, %g] outside [%g, %g]", x[0], x[m-1], t[k], t[n])
	}

	cols := stride * partsOf[T]()
	yr := toReal(y)
	var sol *matrix.Dense
	var err error
	switch o.method {
	case QR:
		sol, err = lsqQR(x, yr, w, t, k, cols)
	default:
		sol, err = lsqNormal(x, yr, w, t, k, cols)
	}
	if err != nil {
		return nil, splineErrorf(opMakeLSQ, err, "")
	}
	c := fromReal[T](append([]float64(nil), sol.Data()...))
	sp, err := New(t, c, k, WithShape(o.shape...))
	if err != nil {
		return nil, splineErrorf(opMakeLSQ, err, "")
	}

	return sp, nil
}

// lsqNormal accumulates the lower band of BᵀW²B and the rows of BᵀW²Y, then
// solves by banded Cholesky.
func lsqNormal(x, y, w, t []float64, k, cols int) (*matrix.Dense, error) {
	n := len(t) - k - 1
	ab, err := matrix.NewBand(n, k, 0)
	if err != nil {
		return nil, err
	}
	rhs := make([]float64, n*cols)
	work := make([]float64, 2*(k+1))
	var a, b, j, l, r int
	var w2, v float64
	for i, xv := range x {
		l = FindInterval(t, k, xv, false)
		if l < 0 {
			return nil, fmt.Errorf("%w: x=%g", ErrSiteOutOfBounds, xv)
		}
		deBoor(t, xv, k, l, 0, work)
		w2 = w[i] * w[i]
		for a = 0; a <= k; a++ {
			r = l - k + a
			for b = 0; b <= a; b++ {
				if v, err = ab.At(r, l-k+b); err != nil {
					return nil, err
				}
				if err = ab.Set(r, l-k+b, v+w2*work[a]*work[b]); err != nil {
					return nil, err
				}
			}
			for j = 0; j < cols; j++ {
				rhs[r*cols+j] += w2 * work[a] * y[i*cols+j]
			}
		}
	}
	b2, err := matrix.NewDenseFrom(n, cols, rhs)
	if err != nil {
		return nil, err
	}

	return matrix.SolveCholeskyBand(ab, b2)
}

// lsqQR solves the weighted dense problem W·B·c ≈ W·Y.
func lsqQR(x, y, w, t []float64, k, cols int) (*matrix.Dense, error) {
	n := len(t) - k - 1
	m := len(x)
	A, err := matrix.NewDense(m, n)
	if err != nil {
		return nil, err
	}
	rhs := make([]float64, m*cols)
	work := make([]float64, 2*(k+1))
	for i, xv := range x {
		l := FindInterval(t, k, xv, false)
		if l < 0 {
			return nil, fmt.Errorf("%w: x=%g", ErrSiteOutOfBounds, xv)
		}
		deBoor(t, xv, k, l, 0, work)
		for a := 0; a <= k; a++ {
			if err = A.Set(i, l-k+a, w[i]*work[a]); err != nil {
				return nil, err
			}
		}
		for j := 0; j < cols; j++ {
			rhs[i*cols+j] = w[i] * y[i*cols+j]
		}
	}
	B, err := matrix.NewDenseFrom(m, cols, rhs)
	if err != nil {
		return nil, err
	}

	return matrix.LeastSquares(A, B)
}
