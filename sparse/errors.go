package sparse

import "errors"

// Sentinel errors. Operations wrap them with their name; match with errors.Is.
var (
	// ErrInvalidDimensions indicates a non-positive row or column count.
	ErrInvalidDimensions = errors.New("sparse: rows and cols must be > 0")

	// ErrBadStructure indicates inconsistent indptr/indices/data arrays.
	ErrBadStructure = errors.New("sparse: malformed CSR structure")

	// ErrOutOfRange indicates an index outside the matrix.
	ErrOutOfRange = errors.New("sparse: index out of range")

	// ErrDimensionMismatch indicates a vector of the wrong length.
	ErrDimensionMismatch = errors.New("sparse: dimension mismatch")

	// ErrTooLarge indicates a dimension above MaxDim or a shape whose linear
	// positions do not fit in 32 bits.
	ErrTooLarge = errors.New("sparse: matrix too large")

	// ErrBadEncoding indicates an unknown value encoding.
	ErrBadEncoding = errors.New("sparse: unknown value encoding")

	// ErrCorrupt indicates a payload that is not a valid serialized matrix.
	ErrCorrupt = errors.New("sparse: corrupt payload")
)
