package bspline

import "fmt"

// NotAKnotKnots returns the not-a-knot knot vector for interpolating at
// sites x with odd degree k: the end sites repeated k+1 times and the
// interior sites x[m+1 : len(x)-m-1], m = (k-1)/2. The result has
// len(x)+k+1 knots, so the interpolation system is square without boundary
// derivatives.
//
// Errors:
//   - ErrBadDegree (k < 0), ErrEvenDegree, ErrTooFewSites.
func NotAKnotKnots(x []float64, k int) ([]float64, error) {
	if k < 0 {
		return nil, fmt.Errorf("%w: k=%d", ErrBadDegree, k)
	}
	if k%2 == 0 {
		return nil, fmt.Errorf("%w: k=%d", ErrEvenDegree, k)
	}
	if len(x) < k+1 {
		return nil, fmt.Errorf("%w: need %d sites, have %d", ErrTooFewSites, k+1, len(x))
	}
	m := (k - 1) / 2
	t := make([]float64, 0, len(x)+k+1)
	t = appendRepeat(t, x[0], k+1)
	t = append(t, x[m+1:len(x)-m-1]...)

	return appendRepeat(t, x[len(x)-1], k+1), nil
}

// AugmentedKnots returns x with each end site repeated k more times. It is the
// default knot vector when boundary derivatives are supplied; the system then
// has k-1 more unknowns than sites, so exactly k-1 derivative conditions close
// it (one at each end for a cubic).
func AugmentedKnots(x []float64, k int) []float64 {
	t := make([]float64, 0, len(x)+2*k)
	t = appendRepeat(t, x[0], k)
	t = append(t, x...)

	return appendRepeat(t, x[len(x)-1], k)
}

// quadraticKnots places the interior knots of a degree-2 interpolant at the
// midpoints between sites, dropping the first and last midpoint.
func quadraticKnots(x []float64) []float64 {
	t := make([]float64, 0, len(x)+3)
	t = appendRepeat(t, x[0], 3)
	for i := 2; i < len(x)-1; i++ {
		t = append(t, (x[i]+x[i-1])/2)
	}

	return appendRepeat(t, x[len(x)-1], 3)
}

func appendRepeat(t []float64, v float64, n int) []float64 {
	for i := 0; i < n; i++ {
		t = append(t, v)
	}

	return t
}
