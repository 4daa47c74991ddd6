package bspline

import "math"

// Scalar is the coefficient element type of a spline. Complex coefficients
// are carried as interleaved real and imaginary parts by the kernels, so both
// parts go through the same real contraction.
type Scalar interface {
	float64 | complex128
}

// partsOf returns 1 for float64 and 2 for complex128.
func partsOf[T Scalar]() int {
	var z T
	if _, ok := any(z).(complex128); ok {
		return 2
	}

	return 1
}

// toReal views c as real numbers. float64 input is returned as is (shared);
// complex input is copied into interleaved (re, im) pairs.
func toReal[T Scalar](c []T) []float64 {
	switch v := any(c).(type) {
	case []float64:
		return v
	case []complex128:
		out := make([]float64, 2*len(v))
		for i, z := range v {
			out[2*i] = real(z)
			out[2*i+1] = imag(z)
		}

		return out
	}

	return nil
}

// fromReal is the inverse of toReal. The real buffer is taken over, not copied,
// for float64.
func fromReal[T Scalar](r []float64) []T {
	var z T
	switch any(z).(type) {
	case complex128:
		out := make([]complex128, len(r)/2)
		for i := range out {
			out[i] = complex(r[2*i], r[2*i+1])
		}

		return any(out).([]T)
	default:
		return any(r).([]T)
	}
}

// allFinite reports whether every part of every value is finite.
func allFinite[T Scalar](vals []T) bool {
	for _, v := range toReal(vals) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}

func finiteFloats(vals []float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}

// product multiplies dims; an empty shape is a scalar (1). It returns 0 when
// any dimension is non-positive.
func product(dims []int) int {
	p := 1
	for _, d := range dims {
		if d <= 0 {
			return 0
		}
		p *= d
	}

	return p
}
