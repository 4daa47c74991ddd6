package bspline

import "math"

// Derivative returns the nu-th derivative as a new spline of degree k-nu on
// the inner knots t[nu:len(t)-nu].
//
// Coefficients follow c'[i] = k·(c[i+1]-c[i]) / (t[i+k+1]-t[i+1]); a zero
// denominator gives a zero coefficient. Differentiating past degree 0 gives
// the zero constant on the basic interval. nu == 0 returns an independent copy.
//
// Errors:
//   - ErrBadDerivative when nu < 0.
func (s *Spline[T]) Derivative(nu int) (*Spline[T], error) {
	if nu < 0 {
		return nil, splineErrorf(opDerivative, ErrBadDerivative, "nu=%d", nu)
	}
	if nu == 0 {
		return s.clone(), nil
	}
	kn := s.kernel()
	for i := 0; i < nu; i++ {
		kn = kn.derivative()
	}

	return s.fromKernel(kn), nil
}

// Antiderivative returns the nu-th antiderivative as a new spline of degree
// k+nu. Each step repeats the boundary knots once and starts the cumulative
// coefficients at zero, so the result vanishes at t[0].
//
// Errors:
//   - ErrBadDerivative when nu < 0.
func (s *Spline[T]) Antiderivative(nu int) (*Spline[T], error) {
	if nu < 0 {
		return nil, splineErrorf(opAntiderivative, ErrBadDerivative, "nu=%d", nu)
	}
	if nu == 0 {
		return s.clone(), nil
	}
	kn := s.kernel()
	for i := 0; i < nu; i++ {
		kn = kn.antiderivative()
	}

	return s.fromKernel(kn), nil
}

// clone copies the first n coefficient rows.
func (s *Spline[T]) clone() *Spline[T] {
	c := make([]T, s.Len()*s.stride)
	copy(c, s.c)

	return construct(s.t, c, s.k, s.shape, s.extrapolate)
}

// Integrate returns ∫_a^b S(x) dx per component as F(b) - F(a), F the
// antiderivative. Without extrapolation both limits are clamped into the
// basic interval, so the spline counts as zero outside it.
// Integrate(a, b) == -Integrate(b, a). NaN limits give NaN, and so do
// infinite limits when extrapolating. The error is always nil.
//
// Only the Extrapolate option is honored.
func (s *Spline[T]) Integrate(a, b float64, opts ...EvalOption) ([]T, error) {
	_, ext := gatherEvalOptions(s.extrapolate, opts...)
	if !ext {
		lo, hi := s.Interval()
		a = clamp(a, lo, hi)
		b = clamp(b, lo, hi)
	}

	kn := s.kernel().antiderivative()
	ends := kn.eval([]float64{a, b}, true, 1)
	st := kn.stride
	out := make([]float64, st)
	for j := 0; j < st; j++ {
		out[j] = ends[st+j] - ends[j]
	}

	return fromReal[T](out), nil
}

// clamp keeps NaN as NaN.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return v
	}

	return math.Min(math.Max(v, lo), hi)
}

// BasisElement returns the single B-spline B_{0,k} on the local knots t,
// with degree k = len(t)-2. The knot vector is padded with k knots on each
// side (one unit outside the ends) so that the element is a valid spline
// whose basic interval covers [t[0], t[len(t)-1]].
//
// Errors:
//   - ErrTooFewKnots when len(t) < 2, plus everything New reports.
func BasisElement(t []float64, opts ...Option) (*Spline[float64], error) {
	if len(t) < 2 {
		return nil, splineErrorf(opBasisElement, ErrTooFewKnots, "need at least 2 knots, have %d", len(t))
	}
	k := len(t) - 2
	padded := make([]float64, 0, len(t)+2*k)
	for i := 0; i < k; i++ {
		padded = append(padded, t[0]-1)
	}
	padded = append(padded, t...)
	for i := 0; i < k; i++ {
		padded = append(padded, t[len(t)-1]+1)
	}
	c := make([]float64, len(padded))
	c[k] = 1

	sp, err := New(padded, c, k, opts...)
	if err != nil {
		return nil, splineErrorf(opBasisElement, err, "")
	}

	return sp, nil
}
