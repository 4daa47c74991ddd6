package bspline_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvspline/bspline"
)

func TestFindInterval(t *testing.T) {
	knots := []float64{0, 0, 0, 1, 2, 3, 3, 3} // k = 2, n = 5, basic interval [0, 3]
	cases := []struct {
		name   string
		x      float64
		extrap bool
		want   int
	}{
		{"left end", 0, false, 2},
		{"first span", 0.5, false, 2},
		{"interior knot", 1, false, 3},
		{"last span", 2.5, false, 4},
		{"right end closed", 3, false, 4},
		{"left outside", -1, false, -1},
		{"right outside", 4, false, -1},
		{"left extrapolated", -1, true, 2},
		{"right extrapolated", 4, true, 4},
		{"nan", math.NaN(), true, -1},
		{"+inf extrapolated", math.Inf(1), true, -1},
		{"-inf extrapolated", math.Inf(-1), true, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, bspline.FindInterval(knots, 2, tc.x, tc.extrap))
		})
	}

	require.Equal(t, -1, bspline.FindInterval(knots, -1, 0.5, true))
	require.Equal(t, -1, bspline.FindInterval(knots, 4, 0.5, true), "too few knots for k=4")
}

func TestFindIntervalRepeatedInteriorKnot(t *testing.T) {
	knots := []float64{0, 0, 1, 1, 2, 2} // k = 1, double knot at 1
	require.Equal(t, 1, bspline.FindInterval(knots, 1, 0.999, false))
	// The zero-width span [t2, t3) is skipped: x == 1 belongs to [t3, t4).
	require.Equal(t, 3, bspline.FindInterval(knots, 1, 1, false))
}

func TestAllBasisPartitionOfUnity(t *testing.T) {
	rng := newRNG(1)
	for k := 0; k <= 5; k++ {
		knots := randomKnots(rng, 12, k)
		n := len(knots) - k - 1
		out := make([]float64, 2*(k+1))
		for _, x := range insidePoints(rng, knots[k], knots[n], 50) {
			l := bspline.FindInterval(knots, k, x, false)
			require.NoError(t, bspline.AllBasis(knots, k, x, l, 0, out))
			var sum float64
			for _, v := range out[:k+1] {
				require.GreaterOrEqual(t, v, -1e-15)
				sum += v
			}
			require.InDelta(t, 1, sum, 1e-14, "k=%d x=%g", k, x)
		}
	}
}

func TestAllBasisMatchesRecursion(t *testing.T) {
	rng := newRNG(2)
	for k := 0; k <= 5; k++ {
		knots := randomKnots(rng, 10, k)
		n := len(knots) - k - 1
		out := make([]float64, 2*(k+1))
		for _, x := range insidePoints(rng, knots[k], knots[n], 30) {
			l := bspline.FindInterval(knots, k, x, false)
			require.NoError(t, bspline.AllBasis(knots, k, x, l, 0, out))
			for a := 0; a <= k; a++ {
				require.InDelta(t, naiveB(knots, k, l-k+a, x), out[a], 1e-13, "k=%d x=%g i=%d", k, x, l-k+a)
			}
		}
	}
}

// TestAllBasisDerivatives checks nu = 1, 2 against central differences of the
// same polynomial piece.
func TestAllBasisDerivatives(t *testing.T) {
	knots := []float64{0, 0, 0, 0, 1, 2, 3, 4, 5, 5, 5, 5}
	const k, h = 3, 1e-5
	lo := make([]float64, 2*(k+1))
	mid := make([]float64, 2*(k+1))
	hi := make([]float64, 2*(k+1))
	d := make([]float64, 2*(k+1))
	for _, x := range []float64{0.3, 1.5, 2.25, 4.7} {
		l := bspline.FindInterval(knots, k, x, false)
		require.NoError(t, bspline.AllBasis(knots, k, x-h, l, 0, lo))
		require.NoError(t, bspline.AllBasis(knots, k, x, l, 0, mid))
		require.NoError(t, bspline.AllBasis(knots, k, x+h, l, 0, hi))

		require.NoError(t, bspline.AllBasis(knots, k, x, l, 1, d))
		for a := 0; a <= k; a++ {
			require.InDelta(t, (hi[a]-lo[a])/(2*h), d[a], 1e-8)
		}
		require.NoError(t, bspline.AllBasis(knots, k, x, l, 2, d))
		for a := 0; a <= k; a++ {
			require.InDelta(t, (hi[a]-2*mid[a]+lo[a])/(h*h), d[a], 1e-4)
		}

		// Derivatives of a partition of unity sum to zero.
		var sum float64
		for _, v := range d[:k+1] {
			sum += v
		}
		require.InDelta(t, 0, sum, 1e-12)

		require.NoError(t, bspline.AllBasis(knots, k, x, l, k+1, d))
		require.Equal(t, make([]float64, k+1), d[:k+1])
	}
}

func TestAllBasisErrors(t *testing.T) {
	knots := []float64{0, 0, 1, 2, 2}
	out := make([]float64, 4)
	require.ErrorIs(t, bspline.AllBasis(knots, -1, 0.5, 1, 0, out), bspline.ErrBadDegree)
	require.ErrorIs(t, bspline.AllBasis(knots, 1, 0.5, 1, -1, out), bspline.ErrBadDerivative)
	require.ErrorIs(t, bspline.AllBasis(knots, 1, 0.5, 0, 0, out), bspline.ErrBadInterval)
	require.ErrorIs(t, bspline.AllBasis(knots, 1, 0.5, 3, 0, out), bspline.ErrBadInterval)
	require.ErrorIs(t, bspline.AllBasis(knots, 1, 0.5, 1, 0, out[:3]), bspline.ErrShapeMismatch)
	require.NoError(t, bspline.AllBasis(knots, 1, 0.5, 1, 0, out))
	require.Equal(t, []float64{0.5, 0.5}, out[:2])
}
