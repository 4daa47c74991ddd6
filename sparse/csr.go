// SPDX-License-Identifier: MIT

// Package sparse - compressed sparse row storage.
//
// Purpose:
//   - Hold design matrices whose rows have only k+1 non-zeros.
//   - Convert to and from matrix.Dense for diagnostics and tests.
//
// Layout:
//   - Row i owns indices[indptr[i]:indptr[i+1]] (strictly increasing columns)
//     and the matching data values. Explicit zeros are allowed and kept.
package sparse

import (
	"fmt"

	"github.com/katalvlaran/lvspline/matrix"
)

// CSR is an immutable rows×cols matrix in compressed sparse row form.
type CSR struct {
	rows, cols int
	indptr     []int
	indices    []int
	data       []float64
}

// NewCSR validates and copies the three CSR arrays.
//
// Errors:
//   - ErrInvalidDimensions, ErrTooLarge (a dimension above MaxDim or
//     rows*cols above 2^32), ErrBadStructure (wrong lengths,
//     decreasing indptr, unsorted or out-of-range column indices).
//
// Complexity:
//   - Time O(rows + nnz), Space O(rows + nnz).
func NewCSR(rows, cols int, indptr, indices []int, data []float64) (*CSR, error) {
	if err := checkShape(rows, cols); err != nil {
		return nil, fmt.Errorf("NewCSR: %w", err)
	}
	if err := checkStructure(rows, cols, indptr, indices, data); err != nil {
		return nil, fmt.Errorf("NewCSR: %w", err)
	}

	return &CSR{
		rows:    rows,
		cols:    cols,
		indptr:  append([]int(nil), indptr...),
		indices: append([]int(nil), indices...),
		data:    append([]float64(nil), data...),
	}, nil
}

// MaxDim bounds each dimension. It keeps the row index a decoder allocates
// from a header at 8·MaxDim bytes.
const MaxDim = 1 << 20

func checkShape(rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		return ErrInvalidDimensions
	}
	if rows > MaxDim || cols > MaxDim {
		return fmt.Errorf("%w: %dx%d exceeds %d per dimension", ErrTooLarge, rows, cols, MaxDim)
	}
	if uint64(rows)*uint64(cols) > 1<<32 {
		return fmt.Errorf("%w: %dx%d", ErrTooLarge, rows, cols)
	}

	return nil
}

func checkStructure(rows, cols int, indptr, indices []int, data []float64) error {
	if len(indptr) != rows+1 || indptr[0] != 0 {
		return fmt.Errorf("%w: indptr must have rows+1 entries starting at 0", ErrBadStructure)
	}
	if len(indices) != len(data) || indptr[rows] != len(indices) {
		return fmt.Errorf("%w: indptr[rows]=%d, %d indices, %d values", ErrBadStructure, indptr[rows], len(indices), len(data))
	}
	for i := 0; i < rows; i++ {
		lo, hi := indptr[i], indptr[i+1]
		if lo > hi || hi > len(indices) {
			return fmt.Errorf("%w: indptr invalid at row %d", ErrBadStructure, i)
		}
		for p := lo; p < hi; p++ {
			if indices[p] < 0 || indices[p] >= cols {
				return fmt.Errorf("%w: row %d column %d outside [0,%d)", ErrBadStructure, i, indices[p], cols)
			}
			if p > lo && indices[p] <= indices[p-1] {
				return fmt.Errorf("%w: row %d columns not strictly increasing", ErrBadStructure, i)
			}
		}
	}

	return nil
}

// FromDense keeps every non-zero entry of m.
func FromDense(m matrix.Matrix) (*CSR, error) {
	if err := matrix.ValidateNotNil(m); err != nil {
		return nil, fmt.Errorf("FromDense: %w", err)
	}
	rows, cols := m.Rows(), m.Cols()
	if err := checkShape(rows, cols); err != nil {
		return nil, fmt.Errorf("FromDense: %w", err)
	}
	a := &CSR{rows: rows, cols: cols, indptr: make([]int, rows+1)}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v, err := m.At(i, j)
			if err != nil {
				return nil, fmt.Errorf("FromDense: %w", err)
			}
			if v != 0 {
				a.indices = append(a.indices, j)
				a.data = append(a.data, v)
			}
		}
		a.indptr[i+1] = len(a.indices)
	}

	return a, nil
}

// Rows returns the row count.
func (a *CSR) Rows() int { return a.rows }

// Cols returns the column count.
func (a *CSR) Cols() int { return a.cols }

// NNZ returns the number of stored entries (explicit zeros included).
func (a *CSR) NNZ() int { return len(a.data) }

// Row returns copies of the column indices and values stored in row i.
func (a *CSR) Row(i int) ([]int, []float64, error) {
	if i < 0 || i >= a.rows {
		return nil, nil, fmt.Errorf("Row(%d): %w", i, ErrOutOfRange)
	}
	lo, hi := a.indptr[i], a.indptr[i+1]

	return append([]int(nil), a.indices[lo:hi]...), append([]float64(nil), a.data[lo:hi]...), nil
}

// At returns entry (i, j); unstored entries are zero.
func (a *CSR) At(i, j int) (float64, error) {
	if i < 0 || i >= a.rows || j < 0 || j >= a.cols {
		return 0, fmt.Errorf("At(%d,%d): %w", i, j, ErrOutOfRange)
	}
	for p := a.indptr[i]; p < a.indptr[i+1]; p++ {
		if a.indices[p] == j {
			return a.data[p], nil
		}
	}

	return 0, nil
}

// ToDense materializes the matrix. NaN/Inf values are carried over.
func (a *CSR) ToDense() (*matrix.Dense, error) {
	d, err := matrix.NewDense(a.rows, a.cols, matrix.WithNoValidateNaNInf())
	if err != nil {
		return nil, fmt.Errorf("ToDense: %w", err)
	}
	for i := 0; i < a.rows; i++ {
		for p := a.indptr[i]; p < a.indptr[i+1]; p++ {
			if err = d.Set(i, a.indices[p], a.data[p]); err != nil {
				return nil, fmt.Errorf("ToDense: %w", err)
			}
		}
	}

	return d, nil
}

// MatVec returns A·x.
//
// Errors:
//   - ErrDimensionMismatch when len(x) != Cols().
func (a *CSR) MatVec(x []float64) ([]float64, error) {
	if len(x) != a.cols {
		return nil, fmt.Errorf("MatVec: %w: len(x)=%d, cols=%d", ErrDimensionMismatch, len(x), a.cols)
	}
	y := make([]float64, a.rows)
	var s float64
	for i := 0; i < a.rows; i++ {
		s = 0
		for p := a.indptr[i]; p < a.indptr[i+1]; p++ {
			s += a.data[p] * x[a.indices[p]]
		}
		y[i] = s
	}

	return y, nil
}
