// Package lvspline is a B-spline toolkit: evaluate, differentiate, integrate,
// interpolate and fit univariate splines with real or complex, scalar or
// vector-valued coefficients.
//
// What is inside?
//
//	• Evaluation: Cox–de Boor basis, interval search, batch evaluation on goroutines
//	• Calculus: exact derivative / antiderivative splines, definite integrals
//	• Construction: interpolation (not-a-knot, natural, clamped, explicit
//	  boundary derivatives) and weighted least squares on given knots
//	• Linear algebra: banded LU and Cholesky, Householder least squares
//	• Sparse design matrices with a compact binary format (roaring pattern,
//	  float64 or float16 values)
//	• Spacing estimators of differential entropy
//
// Packages:
//
//	bspline/            - Spline, MakeInterp, MakeLSQ, CollocationSystem, DesignMatrix
//	matrix/             - Dense, Band, BandLU, DenseLU, CholeskyBand, LeastSquares
//	matrix/gonumsolve/  - Solver backed by gonum's LU
//	sparse/             - CSR storage, Save / Load
//	entropy/            - Entropy, RelativeEntropy, Differential
//	cmd/splinefit/      - command-line fitting and evaluation on CSV data
//
// Quick example:
//
//	s, _ := bspline.MakeInterp(x, y, 3)
//	ys, _ := s.Evaluate(grid, bspline.Workers(4))
//	area, _ := s.Integrate(x[0], x[len(x)-1])
//
//	go get github.com/katalvlaran/lvspline
package lvspline
