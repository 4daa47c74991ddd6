// Package gonumsolve adapts gonum's LU factorization to the banded solver
// interface used by the spline builders.
//
// The band is copied into a mat.BandDense (same row-major diagonal layout as
// matrix.Band); mat.LU.Factorize then works on a dense n×n copy, so the cost
// is O(n^3) time and O(n^2) space regardless of the bandwidth.
package gonumsolve

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvspline/matrix"
)

const opSolve = "gonumsolve.SolveBand"

// Solver solves banded systems with gonum's partially pivoted LU.
// The zero value is ready to use.
type Solver struct{}

// SolveBand solves A·X = B.
//
// Errors:
//   - matrix.ErrNilMatrix, matrix.ErrDimensionMismatch.
//   - matrix.ErrSingular for an exactly singular factor, or when the
//     condition estimate exceeds mat.ConditionTolerance.
func (Solver) SolveBand(a *matrix.Band, b *matrix.Dense) (*matrix.Dense, error) {
	if a == nil {
		return nil, fmt.Errorf("%s: %w", opSolve, matrix.ErrNilMatrix)
	}
	n := a.Rows()
	if err := matrix.ValidateRHS(b, n); err != nil {
		return nil, fmt.Errorf("%s: %w", opSolve, err)
	}

	kl, ku := a.Bandwidths()
	// gonum rejects widths that reach past the matrix.
	kl, ku = min(kl, n-1), min(ku, n-1)
	A := mat.NewBandDense(n, n, kl, ku, nil)
	for i := 0; i < n; i++ {
		for j := max(0, i-kl); j <= min(n-1, i+ku); j++ {
			v, err := a.At(i, j)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", opSolve, err)
			}
			A.SetBand(i, j, v)
		}
	}
	nrhs := b.Cols()
	B := mat.NewDense(n, nrhs, append([]float64(nil), b.Data()...))

	var lu mat.LU
	lu.Factorize(A)
	var X mat.Dense
	if err := lu.SolveTo(&X, false, B); err != nil {
		if errors.Is(err, mat.ErrSingular) {
			return nil, fmt.Errorf("%s: %w", opSolve, matrix.ErrSingular)
		}
		var cond mat.Condition
		if errors.As(err, &cond) {
			return nil, fmt.Errorf("%s: %w: condition number %g", opSolve, matrix.ErrSingular, float64(cond))
		}

		return nil, fmt.Errorf("%s: %w", opSolve, err)
	}

	out := make([]float64, 0, n*nrhs)
	for i := 0; i < n; i++ {
		out = append(out, X.RawRowView(i)...)
	}

	return matrix.NewDenseFrom(n, nrhs, out, matrix.WithNoValidateNaNInf())
}
