// Package bspline evaluates and constructs univariate splines in B-spline form.
//
// A spline of degree k on a non-decreasing knot vector t is
//
//	S(x) = Σ_{j=0}^{n-1} c[j] · B_{j,k;t}(x),   n = len(t) - k - 1,
//
// defined on the basic interval [t[k], t[n]]. Coefficient rows may carry a
// trailing shape (vector- or matrix-valued splines) and may be complex.
//
// What is here:
//
//   - FindInterval, AllBasis: the interval search and the Cox–de Boor recurrence.
//   - Spline: validated construction (New), batch evaluation of values and
//     derivatives (Evaluate, optionally on several goroutines), Derivative,
//     Antiderivative, Integrate, the legacy (t, c, k) view (TCK), BasisElement.
//   - MakeInterp: interpolation with not-a-knot, natural, clamped or explicit
//     boundary derivative conditions.
//   - MakeLSQ: weighted least squares on given knots (normal equations or QR).
//   - CollocationSystem, DesignMatrix: the linear systems behind both builders.
//
// Linear algebra lives in package matrix; the banded solver is pluggable
// through the Solver interface (matrix.BandLU by default; matrix.DenseLU and
// gonumsolve.Solver are alternatives).
//
// Errors are sentinels (errors.go) wrapped with the operation name; match them
// with errors.Is. Nothing in this package logs.
//
// Example:
//
//	x := []float64{0, 1, 2, 3, 4, 5}
//	y := []float64{0, 1, 4, 9, 16, 25}
//	s, err := bspline.MakeInterp(x, y, 3)
//	if err != nil {
//		return err
//	}
//	v, _ := s.Evaluate([]float64{2.5}) // 6.25
package bspline
