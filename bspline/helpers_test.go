// SPDX-License-Identifier: MIT
// Package bspline_test contains shared fixtures.
//
// Purpose:
//   - A naive recursive Cox–de Boor evaluator used as the reference.
//   - Random splines drawn from an explicit *rand.Rand, never a global stream.
package bspline_test

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvspline/bspline"
)

// newRNG returns a deterministic stream for one test.
func newRNG(seed int64) *rand.Rand { return rand.New(rand.NewSource(seed)) }

// naiveB is the textbook recursion for B_{i,k}(x) with half-open spans.
func naiveB(t []float64, k, i int, x float64) float64 {
	if k == 0 {
		if t[i] <= x && x < t[i+1] {
			return 1
		}
		return 0
	}
	var c1, c2 float64
	if t[i+k] != t[i] {
		c1 = (x - t[i]) / (t[i+k] - t[i]) * naiveB(t, k-1, i, x)
	}
	if t[i+k+1] != t[i+1] {
		c2 = (t[i+k+1] - x) / (t[i+k+1] - t[i+1]) * naiveB(t, k-1, i+1, x)
	}

	return c1 + c2
}

// naiveEval sums c[j]·B_{j,k}(x) over all n basis functions.
func naiveEval(t, c []float64, k int, x float64) float64 {
	n := len(t) - k - 1
	var s float64
	for j := 0; j < n; j++ {
		s += c[j] * naiveB(t, k, j, x)
	}

	return s
}

// randomKnots returns n+k+1 sorted knots in [0, 1) with clamped ends.
func randomKnots(rng *rand.Rand, n, k int) []float64 {
	t := make([]float64, n+k+1)
	for i := range t {
		t[i] = rng.Float64()
	}
	sort.Float64s(t)
	for i := 0; i <= k; i++ {
		t[i] = t[0]
		t[len(t)-1-i] = t[len(t)-1]
	}

	return t
}

// jitteredKnots returns clamped knots on [0, 1] whose interior knots sit near
// a uniform grid, so no span is much shorter than 1/(n-k).
func jitteredKnots(rng *rand.Rand, n, k int) []float64 {
	t := make([]float64, n+k+1)
	spans := float64(n - k)
	for i := k + 1; i < n; i++ {
		t[i] = (float64(i-k) + 0.6*(rng.Float64()-0.5)) / spans
	}
	for i := n; i < len(t); i++ {
		t[i] = 1
	}

	return t
}

// randomCoefficients draws n values in [-1, 1).
func randomCoefficients(rng *rand.Rand, n int) []float64 {
	c := make([]float64, n)
	for i := range c {
		c[i] = 2*rng.Float64() - 1
	}

	return c
}

// randomSpline builds a scalar spline with n coefficients of degree k.
func randomSpline(t testing.TB, rng *rand.Rand, n, k int) *bspline.Spline[float64] {
	t.Helper()
	s, err := bspline.New(randomKnots(rng, n, k), randomCoefficients(rng, n), k)
	require.NoError(t, err)

	return s
}

// insidePoints draws m points strictly inside [lo, hi).
func insidePoints(rng *rand.Rand, lo, hi float64, m int) []float64 {
	x := make([]float64, m)
	for i := range x {
		x[i] = lo + (hi-lo)*rng.Float64()
	}

	return x
}

// linspace returns m evenly spaced points from a to b inclusive.
func linspace(a, b float64, m int) []float64 {
	x := make([]float64, m)
	for i := range x {
		x[i] = a + (b-a)*float64(i)/float64(m-1)
	}
	x[m-1] = b

	return x
}

// requireClose asserts |want-got| <= tol·(1+|want|) elementwise.
func requireClose(t testing.TB, want, got []float64, tol float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.LessOrEqualf(t, math.Abs(want[i]-got[i]), tol*(1+math.Abs(want[i])),
			"index %d: want %.17g, got %.17g", i, want[i], got[i])
	}
}

// mustEval evaluates s at x with opts or fails the test.
func mustEval[T bspline.Scalar](t testing.TB, s *bspline.Spline[T], x []float64, opts ...bspline.EvalOption) []T {
	t.Helper()
	out, err := s.Evaluate(x, opts...)
	require.NoError(t, err)

	return out
}
