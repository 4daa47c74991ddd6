// SPDX-License-Identifier: MIT

// Package bspline - basis functions and interval search.
//
// Purpose:
//   - FindInterval: locate the knot interval [t[l], t[l+1]) that contains x.
//   - AllBasis: the k+1 non-zero B-splines (or their derivatives) on that interval
//     by the triangular Cox–de Boor recurrence.
//
// Determinism:
//   - Fixed loop orders; no allocation inside the recurrence.
//   - A zero-width knot span contributes a zero weight, never a division by zero.
package bspline

import (
	"math"
	"sort"
)

// FindInterval returns the greatest l in [k, n-1] with t[l] <= x, where
// n = len(t)-k-1. The right end x == t[n] maps to n-1 so the basic interval
// is closed.
//
// It returns -1 when x is NaN or ±Inf, when the knot vector is too short for degree k,
// or when x lies outside [t[k], t[n]] and extrapolate is false. With
// extrapolation, points left of t[k] use interval k and points right of t[n]
// use interval n-1.
//
// Complexity: O(log n).
func FindInterval(t []float64, k int, x float64, extrapolate bool) int {
	n := len(t) - k - 1
	if k < 0 || n < k+1 || math.IsNaN(x) || math.IsInf(x, 0) {
		return -1
	}
	if !extrapolate && (x < t[k] || x > t[n]) {
		return -1
	}
	// Count of interior knots t[k+1..n-1] not exceeding x.
	return k + sort.Search(n-k-1, func(i int) bool { return t[k+1+i] > x })
}

// AllBasis writes into out[:k+1] the values of B_{left-k..left, k} at x, or
// their nu-th derivatives. out must hold at least 2*(k+1) values; the second
// half is scratch.
//
// For nu > k every value is zero.
//
// Errors:
//   - ErrBadDegree (k < 0), ErrBadDerivative (nu < 0),
//     ErrBadInterval (left outside [k, len(t)-k-2]),
//     ErrShapeMismatch (out too short).
//
// Complexity: O(k^2) time, no allocation.
func AllBasis(t []float64, k int, x float64, left int, nu int, out []float64) error {
	if k < 0 {
		return splineErrorf(opAllBasis, ErrBadDegree, "k=%d", k)
	}
	if nu < 0 {
		return splineErrorf(opAllBasis, ErrBadDerivative, "nu=%d", nu)
	}
	if left < k || left > len(t)-k-2 {
		return splineErrorf(opAllBasis, ErrBadInterval, "left=%d with %d knots, k=%d", left, len(t), k)
	}
	if len(out) < 2*(k+1) {
		return splineErrorf(opAllBasis, ErrShapeMismatch, "need %d scratch values, have %d", 2*(k+1), len(out))
	}
	deBoor(t, x, k, left, nu, out)

	return nil
}

// deBoor is the unchecked recurrence behind AllBasis. Rows j = 1..k-nu raise
// the degree of the values; the last nu rows raise the degree of the derivative.
func deBoor(t []float64, x float64, k, left, nu int, out []float64) {
	h := out[:k+1]
	hh := out[k+1 : 2*(k+1)]
	if nu > k {
		for i := range h {
			h[i] = 0
		}

		return
	}

	var j, n, ind int
	var xa, xb, w float64
	h[0] = 1
	for j = 1; j <= k-nu; j++ {
		copy(hh[:j], h[:j])
		h[0] = 0
		for n = 1; n <= j; n++ {
			ind = left + n
			xb = t[ind]
			xa = t[ind-j]
			if xb == xa {
				h[n] = 0
				continue
			}
			w = hh[n-1] / (xb - xa)
			h[n-1] += w * (xb - x)
			h[n] = w * (x - xa)
		}
	}

	for j = k - nu + 1; j <= k; j++ {
		copy(hh[:j], h[:j])
		h[0] = 0
		for n = 1; n <= j; n++ {
			ind = left + n
			xb = t[ind]
			xa = t[ind-j]
			if xb == xa {
				h[n] = 0
				continue
			}
			w = float64(j) * hh[n-1] / (xb - xa)
			h[n-1] -= w
			h[n] = w
		}
	}
}
