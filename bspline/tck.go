package bspline

// TCK is the (knots, coefficients, degree) triple used by older spline APIs.
// It is a plain value: fields are independent of any spline.
type TCK[T Scalar] struct {
	T []float64
	C []T
	K int
}

// TCK returns the triple with copies of the knots and all coefficients.
func (s *Spline[T]) TCK() TCK[T] {
	return TCK[T]{
		T: s.Knots(),
		C: append([]T(nil), s.c...),
		K: s.k,
	}
}

// Unpack returns the three fields in order.
func (tck TCK[T]) Unpack() ([]float64, []T, int) { return tck.T, tck.C, tck.K }

// Len is always 3.
func (tck TCK[T]) Len() int { return 3 }

// Index returns field i: 0 knots, 1 coefficients, 2 degree. Negative indices
// count from the end (-1 degree, -2 coefficients, -3 knots).
//
// Errors:
//   - ErrIndexOutOfRange for anything else.
func (tck TCK[T]) Index(i int) (any, error) {
	j := i
	if j < 0 {
		j += 3
	}
	switch j {
	case 0:
		return tck.T, nil
	case 1:
		return tck.C, nil
	case 2:
		return tck.K, nil
	}

	return nil, splineErrorf(opTCK, ErrIndexOutOfRange, "index %d", i)
}

// FromTCK validates the triple exactly as New does.
func FromTCK[T Scalar](tck TCK[T], opts ...Option) (*Spline[T], error) {
	return New(tck.T, tck.C, tck.K, opts...)
}
