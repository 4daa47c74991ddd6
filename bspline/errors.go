package bspline

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every message is prefixed with "bspline:"; operations wrap
// them with their name ("New: bspline: ...") and callers match via errors.Is.
var (
	// ErrKnotsNotFinite indicates a NaN or ±Inf knot.
	ErrKnotsNotFinite = errors.New("bspline: knots must be finite")

	// ErrKnotsNotSorted indicates a knot vector that decreases somewhere.
	ErrKnotsNotSorted = errors.New("bspline: knots must be non-decreasing")

	// ErrTooFewKnots indicates fewer than 2(k+1) knots for degree k.
	ErrTooFewKnots = errors.New("bspline: too few knots for the degree")

	// ErrTooFewCoefficients indicates fewer than len(t)-k-1 coefficient rows.
	ErrTooFewCoefficients = errors.New("bspline: knots, coefficients and degree are inconsistent")

	// ErrBadShape indicates a trailing shape with a non-positive dimension, or a
	// coefficient buffer that is not a whole number of rows.
	ErrBadShape = errors.New("bspline: invalid coefficient shape")

	// ErrBadDegree indicates a negative or non-integral degree.
	ErrBadDegree = errors.New("bspline: degree must be a non-negative integer")

	// ErrDegenerateInterval indicates t[k] == t[n]: the basic interval has zero measure.
	ErrDegenerateInterval = errors.New("bspline: basic interval has zero measure")

	// ErrBadDerivative indicates a negative derivative order, or a boundary
	// constraint order outside [0, k].
	ErrBadDerivative = errors.New("bspline: invalid derivative order")

	// ErrBadInterval indicates an interval index that does not address a
	// valid polynomial piece of the knot vector.
	ErrBadInterval = errors.New("bspline: interval index out of range")

	// ErrIndexOutOfRange indicates a tuple index outside {-3..2}.
	ErrIndexOutOfRange = errors.New("bspline: tuple index out of range")

	// ErrNotFinite indicates NaN or ±Inf among data sites, values or weights.
	ErrNotFinite = errors.New("bspline: data must be finite")

	// ErrSitesNotSorted indicates data sites that are not strictly increasing.
	ErrSitesNotSorted = errors.New("bspline: data sites must be strictly increasing")

	// ErrTooFewSites indicates fewer than k+1 data sites.
	ErrTooFewSites = errors.New("bspline: too few data sites for the degree")

	// ErrShapeMismatch indicates values, weights or constraint values whose
	// length does not match the sites and the value shape.
	ErrShapeMismatch = errors.New("bspline: data shapes are incompatible")

	// ErrBadWeights indicates a least-squares weight that is zero or negative.
	ErrBadWeights = errors.New("bspline: weights must be positive")

	// ErrSiteOutOfBounds indicates a data site outside the basic interval.
	ErrSiteOutOfBounds = errors.New("bspline: data site outside the basic interval")

	// ErrConstraintCount indicates that the number of boundary derivative
	// constraints does not close the system (nt - m != left + right).
	ErrConstraintCount = errors.New("bspline: number of boundary derivatives does not match")

	// ErrTooMuchInfo indicates knots or boundary conditions supplied where the
	// construction is fully determined (k = 0, or k = 1 without knots).
	ErrTooMuchInfo = errors.New("bspline: too much information for the degree")

	// ErrEvenDegree indicates a request for default not-a-knot knots with an
	// even degree above 2.
	ErrEvenDegree = errors.New("bspline: not-a-knot knots need an odd degree")
)

// Operation tags for error wrapping.
const (
	opNew            = "New"
	opEvaluate       = "Evaluate"
	opDerivative     = "Derivative"
	opAntiderivative = "Antiderivative"
	opBasisElement   = "BasisElement"
	opAllBasis       = "AllBasis"
	opCollocation    = "CollocationSystem"
	opDesignMatrix   = "DesignMatrix"
	opMakeInterp     = "MakeInterp"
	opMakeLSQ        = "MakeLSQ"
	opTCK            = "TCK"
)

// splineErrorf wraps err with an operation tag and optional detail.
func splineErrorf(op string, err error, detail string, args ...any) error {
	if detail == "" {
		return fmt.Errorf("%s: %w", op, err)
	}

	return fmt.Errorf("%s: %w: %s", op, err, fmt.Sprintf(detail, args...))
}
