package entropy_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvspline/entropy"
)

var methods = []entropy.Method{entropy.Vasicek, entropy.VanEs, entropy.Ebrahimi, entropy.Correa}

func TestEntropyKnown(t *testing.T) {
	cases := []struct {
		pk   []float64
		base float64
		want float64
	}{
		{[]float64{0.5, 0.5}, 2, 1},
		{[]float64{0.9, 0.1}, 2, 0.46899559358928117},
		{[]float64{1, 1, 1, 1}, 0, math.Log(4)},
		{[]float64{2, 0, 2}, 2, 1},
		{[]float64{7}, 10, 0},
	}
	for _, tc := range cases {
		got, err := entropy.Entropy(tc.pk, tc.base)
		require.NoError(t, err)
		require.InDelta(t, tc.want, got, 1e-14, "pk=%v base=%g", tc.pk, tc.base)
	}
}

func TestRelativeEntropyKnown(t *testing.T) {
	got, err := entropy.RelativeEntropy([]float64{0.5, 0.5}, []float64{0.9, 0.1}, 0)
	require.NoError(t, err)
	require.InDelta(t, 0.5108256237659907, got, 1e-14)

	got, err = entropy.RelativeEntropy([]float64{1, 0}, []float64{1, 1}, 2)
	require.NoError(t, err)
	require.InDelta(t, 1, got, 1e-15)

	got, err = entropy.RelativeEntropy([]float64{1, 1}, []float64{1, 0}, 0)
	require.NoError(t, err)
	require.True(t, math.IsInf(got, 1))

	got, err = entropy.RelativeEntropy([]float64{3, 1}, []float64{6, 2}, 0)
	require.NoError(t, err)
	require.InDelta(t, 0, got, 1e-15)
}

func TestEntropyErrors(t *testing.T) {
	for _, base := range []float64{-2, 1, math.NaN(), math.Inf(1)} {
		_, err := entropy.Entropy([]float64{1, 1}, base)
		require.ErrorIs(t, err, entropy.ErrBadBase, "base=%g", base)
	}
	for _, pk := range [][]float64{nil, {0, 0}, {1, -1}, {1, math.NaN()}, {math.MaxFloat64, math.MaxFloat64}} {
		_, err := entropy.Entropy(pk, 0)
		require.ErrorIs(t, err, entropy.ErrBadDistribution, "pk=%v", pk)
	}
	_, err := entropy.RelativeEntropy([]float64{1}, []float64{1, 1}, 0)
	require.ErrorIs(t, err, entropy.ErrLengthMismatch)
	_, err = entropy.RelativeEntropy([]float64{1, 1}, []float64{0, 0}, 0)
	require.ErrorIs(t, err, entropy.ErrBadDistribution)
}

// TestDifferentialNormal compares every estimator with the closed form
// ½·ln(2πe) on a large seeded sample.
func TestDifferentialNormal(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	x := make([]float64, 5000)
	for i := range x {
		x[i] = rng.NormFloat64()
	}
	want := 0.5 * math.Log(2*math.Pi*math.E)
	for _, m := range methods {
		got, err := entropy.Differential(x, entropy.WithMethod(m))
		require.NoError(t, err)
		require.InDelta(t, want, got, 0.05, "method=%v", m)
	}
}

func TestDifferentialUniform(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	x := make([]float64, 5000)
	for i := range x {
		x[i] = rng.Float64()
	}
	for _, m := range methods {
		got, err := entropy.Differential(x, entropy.WithMethod(m))
		require.NoError(t, err)
		require.InDelta(t, 0, got, 0.05, "method=%v", m)
	}
}

// TestDifferentialAffine: H(aX + b) = H(X) + ln a for every estimator.
func TestDifferentialAffine(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	x := make([]float64, 400)
	y := make([]float64, len(x))
	for i := range x {
		x[i] = rng.ExpFloat64()
		y[i] = 3*x[i] + 0.5
	}
	for _, m := range methods {
		hx, err := entropy.Differential(x, entropy.WithMethod(m), entropy.WithWindow(7))
		require.NoError(t, err)
		hy, err := entropy.Differential(y, entropy.WithMethod(m), entropy.WithWindow(7))
		require.NoError(t, err)
		require.InDelta(t, hx+math.Log(3), hy, 1e-9, "method=%v", m)

		h2, err := entropy.Differential(x, entropy.WithMethod(m), entropy.WithWindow(7), entropy.WithBase(2))
		require.NoError(t, err)
		require.InDelta(t, hx/math.Ln2, h2, 1e-12)
	}
}

func TestDifferentialInputUntouched(t *testing.T) {
	x := []float64{3, 1, 2, 5, 4, 0, 9, 7, 8, 6}
	cp := append([]float64(nil), x...)
	_, err := entropy.Differential(x)
	require.NoError(t, err)
	require.Equal(t, cp, x)
}

func TestDifferentialErrors(t *testing.T) {
	ten := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	_, err := entropy.Differential(ten, entropy.WithWindow(5))
	require.ErrorIs(t, err, entropy.ErrBadWindow)
	_, err = entropy.Differential([]float64{1, 2})
	require.ErrorIs(t, err, entropy.ErrBadWindow)
	_, err = entropy.Differential(nil)
	require.ErrorIs(t, err, entropy.ErrBadWindow)
	_, err = entropy.Differential([]float64{1, math.Inf(-1), 2, 3, 4})
	require.ErrorIs(t, err, entropy.ErrNotFinite)
	_, err = entropy.Differential(ten, entropy.WithBase(-1))
	require.ErrorIs(t, err, entropy.ErrBadBase)
	_, err = entropy.Differential(ten, entropy.WithMethod(entropy.Method(9)))
	require.ErrorIs(t, err, entropy.ErrBadMethod)

	require.Panics(t, func() { entropy.WithWindow(0) })
}

func TestMethodNames(t *testing.T) {
	for _, m := range methods {
		got, err := entropy.ParseMethod(m.String())
		require.NoError(t, err)
		require.Equal(t, m, got)
	}
	require.Equal(t, "Method(9)", entropy.Method(9).String())
	_, err := entropy.ParseMethod("shannon")
	require.ErrorIs(t, err, entropy.ErrBadMethod)
}
