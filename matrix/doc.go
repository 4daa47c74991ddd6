// Package matrix provides the dense and banded storage plus the linear
// solvers used by the spline builders.
//
// The matrix package provides:
//
//   - Dense: row-major storage with bounds-checked At/Set and a NaN/Inf policy.
//   - Band: square banded storage (kl sub-, ku super-diagonals) implementing Matrix.
//   - BandLU: banded Gaussian elimination with partial pivoting, many right-hand sides.
//   - SolveCholeskyBand: symmetric positive definite banded solve (normal equations).
//   - LeastSquares: Householder QR least squares for tall dense systems.
//   - LU, SolveLU, DenseLU: pivot-free dense factorization and solve.
//   - Mul, Transpose, MatVec: deterministic dense kernels.
//
// All kernels return sentinel errors from errors.go wrapped with an operation
// tag; match them with errors.Is.
package matrix
