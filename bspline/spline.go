// SPDX-License-Identifier: MIT

// Package bspline - the Spline object.
//
// Purpose:
//   - Hold a validated knot vector, a coefficient block and a degree.
//   - Evaluate values and derivatives at batches of points (optionally in parallel).
//
// Contract:
//   - Knots are copied on construction and never change.
//   - Coefficients are copied on construction and then owned by the spline;
//     Coefficients() exposes them for in-place edits.
//   - A Spline is safe for concurrent Evaluate calls as long as nobody mutates
//     its coefficients at the same time.
package bspline

import (
	"fmt"
	"math"
)

// Spline is a piecewise polynomial of degree k in B-spline form:
//
//	S(x) = Σ_{j=0}^{n-1} c[j] · B_{j,k;t}(x),   n = len(t) - k - 1.
//
// Coefficient rows are stored flat: row j occupies c[j*stride : (j+1)*stride]
// where stride is the product of the trailing shape.
type Spline[T Scalar] struct {
	t           []float64
	c           []T
	shape       []int
	stride      int
	k           int
	extrapolate bool
}

// New validates (t, c, k) and returns a spline that owns copies of both.
//
// Implementation:
//   - Stage 1: knots finite and at least two of them.
//   - Stage 2: knots non-decreasing.
//   - Stage 3: n = len(t)-k-1 >= k+1, a whole number of coefficient rows, and
//     at least n of them.
//   - Stage 4: k >= 0.
//   - Stage 5: the basic interval [t[k], t[n]] has positive measure.
//
// Errors:
//   - ErrKnotsNotFinite, ErrTooFewKnots, ErrKnotsNotSorted, ErrBadShape,
//     ErrTooFewCoefficients, ErrBadDegree, ErrDegenerateInterval; all wrapped
//     with "New:" context. No spline is returned on error.
//
// Complexity:
//   - Time O(len(t) + len(c)), Space O(len(t) + len(c)).
func New[T Scalar](t []float64, c []T, k int, opts ...Option) (*Spline[T], error) {
	o := gatherOptions(opts...)
	stride := product(o.shape)
	if stride == 0 {
		return nil, splineErrorf(opNew, ErrBadShape, "shape %v", o.shape)
	}
	if err := validateKnots(t, k); err != nil {
		return nil, splineErrorf(opNew, err, "")
	}
	if k >= 0 {
		if len(c)%stride != 0 {
			return nil, splineErrorf(opNew, ErrBadShape, "%d coefficients do not split into rows of %d", len(c), stride)
		}
		if n := len(t) - k - 1; len(c)/stride < n {
			return nil, splineErrorf(opNew, ErrTooFewCoefficients, "need at least %d coefficient rows, have %d", n, len(c)/stride)
		}
	}
	if err := validateDegree(t, k); err != nil {
		return nil, splineErrorf(opNew, err, "")
	}

	return construct(t, append([]T(nil), c...), k, o.shape, o.extrapolate), nil
}

// validateKnots runs stages 1-3 of the knot checks (everything that does not
// need the coefficients).
func validateKnots(t []float64, k int) error {
	if !finiteFloats(t) {
		return ErrKnotsNotFinite
	}
	if len(t) < 2 {
		return fmt.Errorf("%w: have %d", ErrTooFewKnots, len(t))
	}
	for i := 1; i < len(t); i++ {
		if t[i] < t[i-1] {
			return fmt.Errorf("%w: t[%d]=%g < t[%d]=%g", ErrKnotsNotSorted, i, t[i], i-1, t[i-1])
		}
	}
	if k >= 0 && len(t)-k-1 < k+1 {
		return fmt.Errorf("%w: need at least %d knots for degree %d, have %d", ErrTooFewKnots, 2*(k+1), k, len(t))
	}

	return nil
}

// validateDegree runs stages 4-5.
func validateDegree(t []float64, k int) error {
	if k < 0 {
		return fmt.Errorf("%w: k=%d", ErrBadDegree, k)
	}
	if n := len(t) - k - 1; t[k] == t[n] {
		return fmt.Errorf("%w: t[%d] == t[%d] == %g", ErrDegenerateInterval, k, n, t[k])
	}

	return nil
}

// construct builds a spline from already validated parts. t is copied; c is
// taken over.
func construct[T Scalar](t []float64, c []T, k int, shape []int, extrapolate bool) *Spline[T] {
	return &Spline[T]{
		t:           append([]float64(nil), t...),
		c:           c,
		shape:       append([]int(nil), shape...),
		stride:      max(product(shape), 1),
		k:           k,
		extrapolate: extrapolate,
	}
}

// DegreeFromFloat converts a degree read as a float (CLI flags, config files)
// into an int, rejecting NaN, negative and non-integral values.
func DegreeFromFloat(v float64) (int, error) {
	if math.IsNaN(v) || v < 0 || v != math.Trunc(v) || v > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %g", ErrBadDegree, v)
	}

	return int(v), nil
}

// ---------- accessors ----------

// Knots returns a copy of the knot vector.
func (s *Spline[T]) Knots() []float64 { return append([]float64(nil), s.t...) }

// Coefficients returns the owned coefficient buffer (row-major, stride
// Stride()). Edits are visible to later evaluations.
func (s *Spline[T]) Coefficients() []T { return s.c }

// Degree returns k.
func (s *Spline[T]) Degree() int { return s.k }

// Shape returns a copy of the trailing shape; empty for scalar splines.
func (s *Spline[T]) Shape() []int { return append([]int(nil), s.shape...) }

// Stride returns the number of values per coefficient row.
func (s *Spline[T]) Stride() int { return s.stride }

// Len returns n, the number of basis functions.
func (s *Spline[T]) Len() int { return len(s.t) - s.k - 1 }

// Extrapolates reports the default extrapolation policy.
func (s *Spline[T]) Extrapolates() bool { return s.extrapolate }

// Interval returns the basic interval [t[k], t[n]].
func (s *Spline[T]) Interval() (lo, hi float64) { return s.t[s.k], s.t[s.Len()] }

// kernel snapshots the first n coefficient rows as real numbers.
func (s *Spline[T]) kernel() kernel {
	n := s.Len()
	p := partsOf[T]()

	return kernel{
		t:      s.t,
		c:      toReal(s.c[:n*s.stride]),
		k:      s.k,
		stride: s.stride * p,
	}
}

// fromKernel wraps a kernel result as a spline with s's shape and policy.
func (s *Spline[T]) fromKernel(kn kernel) *Spline[T] {
	return &Spline[T]{
		t:           kn.t,
		c:           fromReal[T](kn.c),
		shape:       append([]int(nil), s.shape...),
		stride:      s.stride,
		k:           kn.k,
		extrapolate: s.extrapolate,
	}
}

// ---------- evaluation ----------

// Evaluate returns S^(nu)(x) for every x, flattened as len(x) rows of
// Stride() values.
//
// Implementation:
//   - nu > 0 differentiates the coefficients nu times and evaluates the result.
//   - Each point: FindInterval, AllBasis, then a (k+1)-term contraction.
//
// Behavior:
//   - NaN x yields NaN; x outside the basic interval yields NaN unless
//     extrapolation is on (Extrapolate option, else the spline default).
//   - nu > k yields exact zeros.
//
// Errors:
//   - ErrBadDerivative when nu < 0.
//
// Complexity:
//   - Time O(len(x)·(log n + k^2 + k·stride)), Space O(len(x)·stride).
func (s *Spline[T]) Evaluate(x []float64, opts ...EvalOption) ([]T, error) {
	o, ext := gatherEvalOptions(s.extrapolate, opts...)
	if o.nu < 0 {
		return nil, splineErrorf(opEvaluate, ErrBadDerivative, "nu=%d", o.nu)
	}

	kn := s.kernel()
	if o.nu > s.k {
		out := make([]float64, len(x)*kn.stride)
		for i, v := range x {
			if math.IsNaN(v) || (!ext && (v < s.t[s.k] || v > s.t[s.Len()])) {
				for j := i * kn.stride; j < (i+1)*kn.stride; j++ {
					out[j] = math.NaN()
				}
			}
		}

		return fromReal[T](out), nil
	}
	for i := 0; i < o.nu; i++ {
		kn = kn.derivative()
	}

	return fromReal[T](kn.eval(x, ext, o.workers)), nil
}

// At evaluates the first component of the nu-th derivative at a single point
// with the default extrapolation policy. A negative nu yields NaN.
func (s *Spline[T]) At(x float64, nu int) T {
	out, err := s.Evaluate([]float64{x}, Nu(nu))
	if err != nil {
		nan := make([]float64, partsOf[T]())
		for i := range nan {
			nan[i] = math.NaN()
		}

		return fromReal[T](nan)[0]
	}

	return out[0]
}
