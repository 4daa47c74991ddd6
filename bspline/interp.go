// SPDX-License-Identifier: MIT

// Package bspline - interpolating splines.
//
// Purpose:
//   - MakeInterp: the spline of degree k through (x[i], y[i]), with optional
//     boundary derivative conditions and knots.
//
// Implementation:
//   - Pick the knots (explicit, augmented, quadratic midpoints or not-a-knot).
//   - Assemble the banded collocation system (CollocationSystem).
//   - Solve every value component (real and imaginary parts separately) as
//     one right-hand side of a single factorization.
package bspline

import (
	"fmt"

	"github.com/katalvlaran/lvspline/matrix"
)

// Boundary selects a preset pair of boundary derivative conditions.
type Boundary int

const (
	// NotAKnot adds no derivative conditions; the knots close the system.
	NotAKnot Boundary = iota

	// Natural sets the second derivative to zero at both ends.
	Natural

	// Clamped sets the first derivative to zero at both ends.
	Clamped
)

// Deriv is one boundary condition: the Order-th derivative equals Value
// (one entry per value component).
type Deriv[T Scalar] struct {
	Order int
	Value []T
}

// InterpOption configures MakeInterp.
type InterpOption func(*interpOptions)

type interpOptions struct {
	knots    []float64
	left     any // []Deriv[T]
	right    any // []Deriv[T]
	boundary Boundary
	shape    []int
	solver   Solver
}

// WithKnots fixes the knot vector instead of deriving it from x.
func WithKnots(t []float64) InterpOption {
	cp := append([]float64(nil), t...)

	return func(o *interpOptions) { o.knots = cp }
}

// WithLeft sets derivative conditions at x[0].
func WithLeft[T Scalar](d ...Deriv[T]) InterpOption {
	return func(o *interpOptions) { o.left = d }
}

// WithRight sets derivative conditions at x[len(x)-1].
func WithRight[T Scalar](d ...Deriv[T]) InterpOption {
	return func(o *interpOptions) { o.right = d }
}

// WithBoundary selects preset conditions at both ends. It cannot be combined
// with WithLeft or WithRight.
func WithBoundary(b Boundary) InterpOption {
	return func(o *interpOptions) { o.boundary = b }
}

// WithValueShape sets the trailing shape of each y row (default scalar).
func WithValueShape(dims ...int) InterpOption {
	cp := append([]int(nil), dims...)

	return func(o *interpOptions) { o.shape = cp }
}

// WithSolver replaces the banded solver (default matrix.BandLU).
func WithSolver(s Solver) InterpOption {
	return func(o *interpOptions) { o.solver = s }
}

func gatherInterpOptions(opts ...InterpOption) interpOptions {
	o := interpOptions{boundary: NotAKnot, solver: matrix.BandLU{}}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	if o.solver == nil {
		o.solver = matrix.BandLU{}
	}

	return o
}

// derivs resolves the boundary conditions for element type T.
func derivs[T Scalar](o interpOptions, stride int) (left, right []Deriv[T], err error) {
	if o.boundary != NotAKnot {
		if o.left != nil || o.right != nil {
			return nil, nil, fmt.Errorf("%w: boundary preset together with explicit derivatives", ErrTooMuchInfo)
		}
		order := 2
		if o.boundary == Clamped {
			order = 1
		}
		zero := make([]T, stride)

		return []Deriv[T]{{Order: order, Value: zero}}, []Deriv[T]{{Order: order, Value: zero}}, nil
	}

	var ok bool
	if o.left != nil {
		if left, ok = o.left.([]Deriv[T]); !ok {
			return nil, nil, fmt.Errorf("%w: left derivative values are %T", ErrShapeMismatch, o.left)
		}
	}
	if o.right != nil {
		if right, ok = o.right.([]Deriv[T]); !ok {
			return nil, nil, fmt.Errorf("%w: right derivative values are %T", ErrShapeMismatch, o.right)
		}
	}

	return left, right, nil
}

// MakeInterp returns the degree-k spline S with S(x[i]) = y[i].
//
// Knots, unless given with WithKnots:
//   - k == 0: [x..., x_last]; coefficients are y.
//   - k == 1: [x0, x..., x_last]; coefficients are y.
//   - boundary derivatives supplied: AugmentedKnots(x, k).
//   - k == 2: end sites tripled around the midpoints between sites, first and
//     last midpoint dropped.
//   - odd k: NotAKnotKnots(x, k).
//
// y holds len(x) rows of the value shape, flat and row-major.
//
// Errors:
//   - ErrBadShape, ErrBadDegree, ErrNotFinite, ErrSitesNotSorted, ErrTooFewSites,
//     ErrShapeMismatch, ErrTooMuchInfo, ErrEvenDegree, knot errors as in New,
//     ErrSiteOutOfBounds, ErrBadDerivative, ErrConstraintCount, and whatever the
//     solver reports (matrix.ErrSingular for BandLU).
//
// Complexity:
//   - Time O(m·k^2 + m·k·stride) for m sites, Space O(m·(k + stride)).
func MakeInterp[T Scalar](x []float64, y []T, k int, opts ...InterpOption) (*Spline[T], error) {
	o := gatherInterpOptions(opts...)
	stride := product(o.shape)
	if stride == 0 {
		return nil, splineErrorf(opMakeInterp, ErrBadShape, "shape %v", o.shape)
	}
	if k < 0 {
		return nil, splineErrorf(opMakeInterp, ErrBadDegree, "k=%d", k)
	}
	if err := checkSites(x, k, true); err != nil {
		return nil, splineErrorf(opMakeInterp, err, "")
	}
	if !allFinite(y) {
		return nil, splineErrorf(opMakeInterp, ErrNotFinite, "values")
	}
	if len(y) != len(x)*stride {
		return nil, splineErrorf(opMakeInterp, ErrShapeMismatch, "%d values for %d sites of %d components", len(y), len(x), stride)
	}
	left, right, err := derivs[T](o, stride)
	if err != nil {
		return nil, splineErrorf(opMakeInterp, err, "")
	}
	hasDerivs := len(left)+len(right) > 0
	last := x[len(x)-1]

	switch {
	case k == 0:
		if o.knots != nil || hasDerivs {
			return nil, splineErrorf(opMakeInterp, ErrTooMuchInfo, "k=0 takes no knots or derivatives")
		}

		return wrapNew(append(append([]float64(nil), x...), last), y, 0, o.shape)
	case k == 1 && o.knots == nil:
		if hasDerivs {
			return nil, splineErrorf(opMakeInterp, ErrTooMuchInfo, "k=1 takes no derivatives without knots")
		}
		t := append([]float64{x[0]}, x...)

		return wrapNew(append(t, last), y, 1, o.shape)
	}

	t := o.knots
	switch {
	case t != nil:
	case hasDerivs:
		t = AugmentedKnots(x, k)
	case k == 2:
		t = quadraticKnots(x)
	default:
		if t, err = NotAKnotKnots(x, k); err != nil {
			return nil, splineErrorf(opMakeInterp, err, "")
		}
	}
	if err = validateKnots(t, k); err != nil {
		return nil, splineErrorf(opMakeInterp, err, "")
	}
	if err = validateDegree(t, k); err != nil {
		return nil, splineErrorf(opMakeInterp, err, "")
	}
	nt := len(t) - k - 1
	if nt < len(x) {
		return nil, splineErrorf(opMakeInterp, ErrTooFewKnots, "got %d knots, need at least %d", len(t), len(x)+k+1)
	}
	if x[0] < t[k] || last > t[nt] {
		return nil, splineErrorf(opMakeInterp, ErrSiteOutOfBounds, "sites [%g, %g] outside [%g, %g]", x[0], last, t[k], t[nt])
	}

	lOrders, err := orders(left, k, stride)
	if err != nil {
		return nil, splineErrorf(opMakeInterp, err, "left")
	}
	rOrders, err := orders(right, k, stride)
	if err != nil {
		return nil, splineErrorf(opMakeInterp, err, "right")
	}
	if nt-len(x) != len(lOrders)+len(rOrders) {
		return nil, splineErrorf(opMakeInterp, ErrConstraintCount,
			"%d unknowns, %d sites, %d+%d derivatives", nt, len(x), len(lOrders), len(rOrders))
	}

	ab, err := collocation(x, t, k, lOrders, rOrders)
	if err != nil {
		return nil, splineErrorf(opMakeInterp, err, "")
	}
	rhs, err := stackRHS(nt, stride*partsOf[T](), left, y, right)
	if err != nil {
		return nil, splineErrorf(opMakeInterp, err, "")
	}
	sol, err := o.solver.SolveBand(ab, rhs)
	if err != nil {
		return nil, splineErrorf(opMakeInterp, err, "")
	}
	c := fromReal[T](append([]float64(nil), sol.Data()...))

	return wrapNew(t, c, k, o.shape)
}

func wrapNew[T Scalar](t []float64, c []T, k int, shape []int) (*Spline[T], error) {
	sp, err := New(t, c, k, WithShape(shape...))
	if err != nil {
		return nil, splineErrorf(opMakeInterp, err, "")
	}

	return sp, nil
}

// checkSites validates finite, sorted sites (strictly when strict) and at
// least k+1 of them.
func checkSites(x []float64, k int, strict bool) error {
	if len(x) == 0 || len(x) < k+1 {
		return fmt.Errorf("%w: need %d sites, have %d", ErrTooFewSites, k+1, len(x))
	}
	if !finiteFloats(x) {
		return fmt.Errorf("%w: sites", ErrNotFinite)
	}
	for i := 1; i < len(x); i++ {
		if x[i] < x[i-1] || (strict && x[i] == x[i-1]) {
			return fmt.Errorf("%w: x[%d]=%g after x[%d]=%g", ErrSitesNotSorted, i, x[i], i-1, x[i-1])
		}
	}

	return nil
}

// orders extracts and checks the derivative orders and value lengths.
func orders[T Scalar](d []Deriv[T], k, stride int) ([]int, error) {
	out := make([]int, len(d))
	for i, c := range d {
		if c.Order < 0 || c.Order > k {
			return nil, fmt.Errorf("%w: order %d for degree %d", ErrBadDerivative, c.Order, k)
		}
		if len(c.Value) != stride {
			return nil, fmt.Errorf("%w: derivative value has %d components, want %d", ErrShapeMismatch, len(c.Value), stride)
		}
		if !allFinite(c.Value) {
			return nil, fmt.Errorf("%w: derivative value", ErrNotFinite)
		}
		out[i] = c.Order
	}

	return out, nil
}

// stackRHS lays out left conditions, values and right conditions as rows of a
// real matrix with cols = stride·parts columns.
func stackRHS[T Scalar](rows, cols int, left []Deriv[T], y []T, right []Deriv[T]) (*matrix.Dense, error) {
	data := make([]float64, 0, rows*cols)
	for _, d := range left {
		data = append(data, toReal(d.Value)...)
	}
	data = append(data, toReal(y)...)
	for _, d := range right {
		data = append(data, toReal(d.Value)...)
	}

	return matrix.NewDenseFrom(rows, cols, data)
}
