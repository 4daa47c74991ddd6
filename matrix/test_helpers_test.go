// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   - Provide small, deterministic fixtures for the dense and banded kernels.
//   - Keep every random stream local: helpers take an explicit *rand.Rand.

package matrix_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvspline/matrix"
)

// tol is the default absolute/relative tolerance for solver checks.
const tol = 1e-10

// hide wraps any Matrix to hide its concrete type from type assertions,
// forcing the generic (non-*Dense) code paths.
type hide struct{ matrix.Matrix }

// newRNG returns a deterministic stream for one test.
func newRNG(seed int64) *rand.Rand { return rand.New(rand.NewSource(seed)) }

// MustDense allocates an r×c zero *Dense or fails the test.
func MustDense(t testing.TB, r, c int) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(r, c)
	require.NoError(t, err)

	return m
}

// MustDenseFrom builds an r×c *Dense from a row-major buffer or fails the test.
func MustDenseFrom(t testing.TB, r, c int, vals []float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(r, c, vals)
	require.NoError(t, err)

	return m
}

// RandomDense fills an r×c matrix with uniform values in [-1, 1).
func RandomDense(t testing.TB, rng *rand.Rand, r, c int) *matrix.Dense {
	t.Helper()
	vals := make([]float64, r*c)
	for i := range vals {
		vals[i] = 2*rng.Float64() - 1
	}

	return MustDenseFrom(t, r, c, vals)
}

// RandomBand builds a diagonally dominant n×n band with the given widths,
// so that every banded solver succeeds without pivoting trouble.
func RandomBand(t testing.TB, rng *rand.Rand, n, kl, ku int) *matrix.Band {
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

// RandomSPDBand builds a symmetric positive definite band (both triangles
// stored) with kl = ku = w.
func RandomSPDBand(t testing.TB, rng *rand.Rand, n, w int) *matrix.Band {
	t.Helper()
	b, err := matrix.NewBand(n, w, w)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		require.NoError(t, b.Set(i, i, float64(2*w+2)+rng.Float64()))
		for j := i + 1; j <= min(n-1, i+w); j++ {
			v := 2*rng.Float64() - 1
			require.NoError(t, b.Set(i, j, v))
			require.NoError(t, b.Set(j, i, v))
		}
	}

	return b
}

// requireClose asserts |a-b| <= tol*(1+|b|) elementwise.
func requireClose(t testing.TB, want, got []float64, tolerance float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.LessOrEqualf(t, math.Abs(want[i]-got[i]), tolerance*(1+math.Abs(want[i])),
			"index %d: want %g, got %g", i, want[i], got[i])
	}
}

// residual returns max |A·x - b| over every column of the solution X.
func residual(t testing.TB, a matrix.Matrix, X, B *matrix.Dense) float64 {
	t.Helper()
	AX, err := matrix.Mul(a, X)
	require.NoError(t, err)
	var worst float64
	for i := 0; i < B.Rows(); i++ {
		for j := 0; j < B.Cols(); j++ {
			got, err := AX.At(i, j)
			require.NoError(t, err)
			want, err := B.At(i, j)
			require.NoError(t, err)
			worst = math.Max(worst, math.Abs(got-want))
		}
	}

	return worst
}
