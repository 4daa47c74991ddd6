// SPDX-License-Identifier: MIT
package bspline_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvspline/bspline"
	"github.com/katalvlaran/lvspline/matrix"
	"github.com/katalvlaran/lvspline/matrix/gonumsolve"
)

func sample(x []float64, f func(float64) float64) []float64 {
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = f(v)
	}

	return y
}

func TestMakeInterpSinNotAKnot(t *testing.T) {
	x := linspace(0, 2*math.Pi, 11)
	y := sample(x, math.Sin)
	s, err := bspline.MakeInterp(x, y, 3)
	require.NoError(t, err)

	require.Equal(t, 3, s.Degree())
	want, err := bspline.NotAKnotKnots(x, 3)
	require.NoError(t, err)
	require.Equal(t, want, s.Knots())

	got := mustEval(t, s, x)
	for i := range x {
		require.InDelta(t, y[i], got[i], 1e-14, "x=%g", x[i])
	}
}

func TestMakeInterpReproducesPolynomials(t *testing.T) {
	cases := []struct {
		name  string
		k     int
		x     []float64
		p     func(float64) float64
		probe []float64
	}{
		{
			name:  "quadratic",
			k:     2,
			x:     []float64{0, 0.5, 1.5, 2, 3, 3.5, 5},
			p:     func(v float64) float64 { return 2 - v + 3*v*v },
			probe: []float64{0.25, 1.1, 2.7, 4.2, 4.9},
		},
		{
			name:  "cubic",
			k:     3,
			x:     linspace(0, 9, 10),
			p:     func(v float64) float64 { return 1 - 2*v + 0.5*v*v + 0.25*v*v*v },
			probe: []float64{0.5, 3.3, 6.1, 8.75},
		},
		{
			name:  "quintic",
			k:     5,
			x:     linspace(0, 9, 12),
			p:     func(v float64) float64 { return 1 - v*v + 0.001*math.Pow(v, 5) },
			probe: []float64{0.4, 2.2, 5.5, 8.8},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := bspline.MakeInterp(tc.x, sample(tc.x, tc.p), tc.k)
			require.NoError(t, err)
			requireClose(t, sample(tc.probe, tc.p), mustEval(t, s, tc.probe), 1e-9)
		})
	}
}

func TestMakeInterpLowDegrees(t *testing.T) {
	s0, err := bspline.MakeInterp([]float64{0, 1, 2, 3}, []float64{5, 6, 7, 8}, 0)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 1, 2, 3, 3}, s0.Knots())
	require.Equal(t, []float64{5, 6, 7, 8, 5, 7}, mustEval(t, s0, []float64{0, 1, 2, 3, 0.5, 2.9}))

	s1, err := bspline.MakeInterp([]float64{0, 1, 3}, []float64{0, 2, 0}, 1)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0, 1, 3, 3}, s1.Knots())
	requireClose(t, []float64{0, 1, 2, 1, 0}, mustEval(t, s1, []float64{0, 0.5, 1, 2, 3}), 1e-15)
}

func TestMakeInterpBoundaryPresets(t *testing.T) {
	x := linspace(0, 3, 8)
	y := sample(x, math.Exp)

	clamped, err := bspline.MakeInterp(x, y, 3, bspline.WithBoundary(bspline.Clamped))
	require.NoError(t, err)
	require.Equal(t, bspline.AugmentedKnots(x, 3), clamped.Knots())
	requireClose(t, y, mustEval(t, clamped, x), 1e-12)
	d1 := mustEval(t, clamped, []float64{0, 3}, bspline.Nu(1))
	require.InDelta(t, 0, d1[0], 1e-10)
	require.InDelta(t, 0, d1[1], 1e-10)

	natural, err := bspline.MakeInterp(x, y, 3, bspline.WithBoundary(bspline.Natural))
	require.NoError(t, err)
	requireClose(t, y, mustEval(t, natural, x), 1e-12)
	d2 := mustEval(t, natural, []float64{0, 3}, bspline.Nu(2))
	require.InDelta(t, 0, d2[0], 1e-10)
	require.InDelta(t, 0, d2[1], 1e-10)
}

func TestMakeInterpExplicitDerivatives(t *testing.T) {
	x := linspace(0, math.Pi, 9)
	y := sample(x, math.Sin)

	s, err := bspline.MakeInterp(x, y, 3,
		bspline.WithLeft(bspline.Deriv[float64]{Order: 1, Value: []float64{1}}),
		bspline.WithRight(bspline.Deriv[float64]{Order: 1, Value: []float64{-1}}),
	)
	require.NoError(t, err)
	requireClose(t, y, mustEval(t, s, x), 1e-12)
	d := mustEval(t, s, []float64{0, math.Pi}, bspline.Nu(1))
	require.InDelta(t, 1, d[0], 1e-12)
	require.InDelta(t, -1, d[1], 1e-12)

	// Degree 5 needs four conditions: first and second derivatives at both ends.
	s5, err := bspline.MakeInterp(x, y, 5,
		bspline.WithLeft(
			bspline.Deriv[float64]{Order: 1, Value: []float64{1}},
			bspline.Deriv[float64]{Order: 2, Value: []float64{0}},
		),
		bspline.WithRight(
			bspline.Deriv[float64]{Order: 1, Value: []float64{-1}},
			bspline.Deriv[float64]{Order: 2, Value: []float64{0}},
		),
	)
	require.NoError(t, err)
	requireClose(t, y, mustEval(t, s5, x), 1e-12)
	d = mustEval(t, s5, []float64{0, math.Pi}, bspline.Nu(2))
	require.InDelta(t, 0, d[0], 1e-10)
	require.InDelta(t, 0, d[1], 1e-10)
	require.InDelta(t, math.Sin(1.3), s5.At(1.3, 0), 1e-4)
}

func TestMakeInterpWithKnots(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	knots := []float64{0, 0, 0, 0, 2, 4, 4, 4, 4}
	y := sample(x, func(v float64) float64 { return v * v * v })
	s, err := bspline.MakeInterp(x, y, 3, bspline.WithKnots(knots))
	require.NoError(t, err)
	require.Equal(t, knots, s.Knots())
	requireClose(t, []float64{0.125, 15.625}, mustEval(t, s, []float64{0.5, 2.5}), 1e-12)
}

func TestMakeInterpVectorAndComplex(t *testing.T) {
	x := linspace(0, 4, 9)
	ys := sample(x, math.Sin)
	yc := sample(x, math.Cos)
	both := make([]float64, 0, 2*len(x))
	zs := make([]complex128, len(x))
	for i := range x {
		both = append(both, ys[i], yc[i])
		zs[i] = complex(ys[i], yc[i])
	}

	ss, err := bspline.MakeInterp(x, ys, 3)
	require.NoError(t, err)
	sc, err := bspline.MakeInterp(x, yc, 3)
	require.NoError(t, err)
	sv, err := bspline.MakeInterp(x, both, 3, bspline.WithValueShape(2))
	require.NoError(t, err)
	sz, err := bspline.MakeInterp(x, zs, 3)
	require.NoError(t, err)
	require.Equal(t, []int{2}, sv.Shape())

	probe := linspace(0, 4, 23)
	gs, gc := mustEval(t, ss, probe), mustEval(t, sc, probe)
	gv, gz := mustEval(t, sv, probe), mustEval(t, sz, probe)
	for i := range probe {
		require.Equal(t, gs[i], gv[2*i])
		require.Equal(t, gc[i], gv[2*i+1])
		require.Equal(t, complex(gs[i], gc[i]), gz[i])
	}

	// Complex boundary values take the complex Deriv type.
	_, err = bspline.MakeInterp(x, zs, 3,
		bspline.WithLeft(bspline.Deriv[complex128]{Order: 1, Value: []complex128{1 - 1i}}),
		bspline.WithRight(bspline.Deriv[complex128]{Order: 1, Value: []complex128{0}}),
	)
	require.NoError(t, err)
}

func TestMakeInterpAlternateSolvers(t *testing.T) {
	x := linspace(-1, 2, 14)
	y := sample(x, func(v float64) float64 { return math.Exp(-v * v) })

	ref, err := bspline.MakeInterp(x, y, 3)
	require.NoError(t, err)
	for _, s := range []bspline.Solver{gonumsolve.Solver{}, matrix.DenseLU{}} {
		alt, err := bspline.MakeInterp(x, y, 3, bspline.WithSolver(s))
		require.NoError(t, err)
		requireClose(t, ref.Coefficients(), alt.Coefficients(), 1e-12)
	}
}

// TestMakeInterpSingular places every site left of the last basis function's
// support, so its column is identically zero.
func TestMakeInterpSingular(t *testing.T) {
	x := []float64{0, 0.1, 0.2}
	y := []float64{1, 2, 3}
	opt := bspline.WithKnots([]float64{0, 0, 1, 2, 2})

	_, err := bspline.MakeInterp(x, y, 1, opt)
	require.ErrorIs(t, err, matrix.ErrSingular)

	_, err = bspline.MakeInterp(x, y, 1, opt, bspline.WithSolver(gonumsolve.Solver{}))
	require.ErrorIs(t, err, matrix.ErrSingular)
	_, err = bspline.MakeInterp(x, y, 1, opt, bspline.WithSolver(matrix.DenseLU{}))
	require.ErrorIs(t, err, matrix.ErrSingular)
}

func TestMakeInterpErrors(t *testing.T) {
	x := linspace(0, 5, 6)
	y := sample(x, math.Sin)
	nan := append([]float64(nil), y...)
	nan[2] = math.NaN()
	d1 := bspline.Deriv[float64]{Order: 1, Value: []float64{0}}

	cases := []struct {
		name string
		x    []float64
		y    []float64
		k    int
		opts []bspline.InterpOption
		want error
	}{
		{"bad shape", x, y, 3, []bspline.InterpOption{bspline.WithValueShape(0)}, bspline.ErrBadShape},
		{"negative degree", x, y, -1, nil, bspline.ErrBadDegree},
		{"unsorted sites", []float64{0, 2, 1, 3}, y[:4], 1, nil, bspline.ErrSitesNotSorted},
		{"repeated sites", []float64{0, 1, 1, 3}, y[:4], 1, nil, bspline.ErrSitesNotSorted},
		{"nan site", []float64{0, math.NaN(), 2}, y[:3], 1, nil, bspline.ErrNotFinite},
		{"nan value", x, nan, 3, nil, bspline.ErrNotFinite},
		{"value count", x, y[:5], 3, nil, bspline.ErrShapeMismatch},
		{"too few sites", x[:3], y[:3], 3, nil, bspline.ErrTooFewSites},
		{"even degree", x, y, 4, nil, bspline.ErrEvenDegree},
		{"preset and explicit", x, y, 3, []bspline.InterpOption{
			bspline.WithBoundary(bspline.Natural), bspline.WithLeft(d1),
		}, bspline.ErrTooMuchInfo},
		{"knots for k=0", x, y, 0, []bspline.InterpOption{bspline.WithKnots([]float64{0, 5})}, bspline.ErrTooMuchInfo},
		{"derivatives for k=1", x, y, 1, []bspline.InterpOption{bspline.WithLeft(d1)}, bspline.ErrTooMuchInfo},
		{"one condition for a cubic", x, y, 3, []bspline.InterpOption{bspline.WithLeft(d1)}, bspline.ErrConstraintCount},
		{"presets for a quintic", x, y, 5, []bspline.InterpOption{bspline.WithBoundary(bspline.Clamped)}, bspline.ErrConstraintCount},
		{"order above degree", x, y, 3, []bspline.InterpOption{
			bspline.WithLeft(bspline.Deriv[float64]{Order: 4, Value: []float64{0}}), bspline.WithRight(d1),
		}, bspline.ErrBadDerivative},
		{"derivative width", x, y, 3, []bspline.InterpOption{
			bspline.WithLeft(bspline.Deriv[float64]{Order: 1, Value: []float64{0, 0}}), bspline.WithRight(d1),
		}, bspline.ErrShapeMismatch},
		{"derivative type", x, y, 3, []bspline.InterpOption{
			bspline.WithLeft(bspline.Deriv[complex128]{Order: 1, Value: []complex128{0}}),
		}, bspline.ErrShapeMismatch},
		{"too few knots", x, y, 3, []bspline.InterpOption{
			bspline.WithKnots([]float64{0, 0, 0, 0, 2, 5, 5, 5, 5}),
		}, bspline.ErrTooFewKnots},
		{"unsorted knots", x, y, 3, []bspline.InterpOption{
			bspline.WithKnots([]float64{0, 0, 0, 0, 3, 2, 5, 5, 5, 5}),
		}, bspline.ErrKnotsNotSorted},
		{"sites outside knots", x, y, 3, []bspline.InterpOption{
			bspline.WithKnots([]float64{1, 1, 1, 1, 2, 3, 5, 5, 5, 5}),
		}, bspline.ErrSiteOutOfBounds},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := bspline.MakeInterp(tc.x, tc.y, tc.k, tc.opts...)
			require.ErrorIs(t, err, tc.want)
			require.Nil(t, s)
		})
	}
}
