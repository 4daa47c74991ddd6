package gonumsolve_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvspline/matrix"
	"github.com/katalvlaran/lvspline/matrix/gonumsolve"
)

func randomBand(t *testing.T, rng *rand.Rand, n, kl, ku int) *matrix.Band {
	t.Helper()
	b, err := matrix.NewBand(n, kl, ku)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		for j := max(0, i-kl); j <= min(n-1, i+ku); j++ {
			v := 2*rng.Float64() - 1
			if i == j {
				v += float64(kl + ku + 2)
			}
			require.NoError(t, b.Set(i, j, v))
		}
	}

	return b
}

func TestSolveBandAgreesWithBandLU(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	shapes := []struct{ n, kl, ku, nrhs int }{
		{1, 0, 0, 1},
		{5, 1, 1, 1},
		{12, 3, 2, 3},
		{9, 0, 4, 2},
		// widths wider than the matrix
		{3, 4, 4, 1},
	}
	for _, sh := range shapes {
		a := randomBand(t, rng, sh.n, sh.kl, sh.ku)
		vals := make([]float64, sh.n*sh.nrhs)
		for i := range vals {
			vals[i] = 2*rng.Float64() - 1
		}
		b, err := matrix.NewDenseFrom(sh.n, sh.nrhs, vals)
		require.NoError(t, err)

		want, err := matrix.BandLU{}.SolveBand(a, b)
		require.NoError(t, err)
		got, err := gonumsolve.Solver{}.SolveBand(a, b)
		require.NoError(t, err)
		require.Equal(t, sh.nrhs, got.Cols())

		ok, err := matrix.AllClose(want, got, 1e-12, 1e-12)
		require.NoError(t, err)
		require.True(t, ok, "shape %+v", sh)
		require.Equal(t, vals, b.Data(), "right-hand side untouched")
	}
}

func TestSolveBandSingular(t *testing.T) {
	a, err := matrix.NewBand(3, 1, 1)
	require.NoError(t, err)
	require.NoError(t, a.Set(0, 0, 1))
	require.NoError(t, a.Set(0, 1, 2))
	require.NoError(t, a.Set(2, 1, 1))
	require.NoError(t, a.Set(2, 2, 1))
	b, err := matrix.NewColumn([]float64{1, 2, 3})
	require.NoError(t, err)

	_, err = gonumsolve.Solver{}.SolveBand(a, b)
	require.ErrorIs(t, err, matrix.ErrSingular)
	_, err = matrix.BandLU{}.SolveBand(a, b)
	require.ErrorIs(t, err, matrix.ErrSingular)
}

func TestSolveBandErrors(t *testing.T) {
	b, err := matrix.NewColumn([]float64{1, 2})
	require.NoError(t, err)
	_, err = gonumsolve.Solver{}.SolveBand(nil, b)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)

	a, err := matrix.NewBand(3, 1, 1)
	require.NoError(t, err)
	_, err = gonumsolve.Solver{}.SolveBand(a, b)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = gonumsolve.Solver{}.SolveBand(a, nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}
