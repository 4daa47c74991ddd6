package bspline

import (
	"math"

	"golang.org/x/sync/errgroup"
)

// minChunk is the smallest batch a worker goroutine is given.
const minChunk = 256

// kernel is the real-valued core of a spline: knots, exactly n coefficient
// rows of width stride (complex values already split into parts) and the degree.
type kernel struct {
	t      []float64
	c      []float64
	k      int
	stride int
}

func (kn kernel) n() int { return len(kn.t) - kn.k - 1 }

// derivative differentiates once. A degree-0 kernel becomes the zero
// constant on its basic interval.
func (kn kernel) derivative() kernel {
	k, s, n := kn.k, kn.stride, kn.n()
	if k == 0 {
		return kernel{
			t:      []float64{kn.t[0], kn.t[n]},
			c:      make([]float64, s),
			k:      0,
			stride: s,
		}
	}

	t := make([]float64, len(kn.t)-2)
	copy(t, kn.t[1:len(kn.t)-1])
	c := make([]float64, (n-1)*s)
	var i, j int
	var d float64
	for i = 0; i < n-1; i++ {
		d = kn.t[i+k+1] - kn.t[i+1]
		if d == 0 {
			continue
		}
		for j = 0; j < s; j++ {
			c[i*s+j] = float64(k) * (kn.c[(i+1)*s+j] - kn.c[i*s+j]) / d
		}
	}

	return kernel{t: t, c: c, k: k - 1, stride: s}
}

// antiderivative integrates once; the result vanishes at t[0].
func (kn kernel) antiderivative() kernel {
	k, s, n := kn.k, kn.stride, kn.n()
	t := make([]float64, len(kn.t)+2)
	t[0] = kn.t[0]
	copy(t[1:], kn.t)
	t[len(t)-1] = kn.t[len(kn.t)-1]

	c := make([]float64, (n+1)*s)
	acc := make([]float64, s)
	var i, j int
	var dt float64
	for i = 0; i < n; i++ {
		dt = kn.t[i+k+1] - kn.t[i]
		for j = 0; j < s; j++ {
			acc[j] += kn.c[i*s+j] * dt
			c[(i+1)*s+j] = acc[j] / float64(k+1)
		}
	}

	return kernel{t: t, c: c, k: k + 1, stride: s}
}

// evalRange fills out[i*stride:(i+1)*stride] for every x[i]. work must hold
// 2*(k+1) values.
func (kn kernel) evalRange(x, out []float64, extrapolate bool, work []float64) {
	k, s := kn.k, kn.stride
	basis := work[:k+1]
	var i, a, j, left, row int
	var b float64
	for i = range x {
		dst := out[i*s : (i+1)*s]
		left = FindInterval(kn.t, k, x[i], extrapolate)
		if left < 0 {
			for j = range dst {
				dst[j] = math.NaN()
			}
			continue
		}
		deBoor(kn.t, x[i], k, left, 0, work)
		for j = range dst {
			dst[j] = 0
		}
		for a = 0; a <= k; a++ {
			b = basis[a]
			row = (left - k + a) * s
			for j = 0; j < s; j++ {
				dst[j] += b * kn.c[row+j]
			}
		}
	}
}

// eval evaluates the batch, fanning out over workers goroutines when asked.
// Every point is computed by the same code path, so the split never changes
// the result.
func (kn kernel) eval(x []float64, extrapolate bool, workers int) []float64 {
	out := make([]float64, len(x)*kn.stride)
	if workers <= 1 || len(x) < 2*minChunk {
		kn.evalRange(x, out, extrapolate, make([]float64, 2*(kn.k+1)))

		return out
	}

	chunk := (len(x) + workers - 1) / workers
	chunk = max(chunk, minChunk)
	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < len(x); lo += chunk {
		lo := lo // per-iteration copy (go < 1.22 loop semantics)
		hi := min(lo+chunk, len(x))
		g.Go(func() error {
			kn.evalRange(x[lo:hi], out[lo*kn.stride:hi*kn.stride], extrapolate, make([]float64, 2*(kn.k+1)))

			return nil
		})
	}
	_ = g.Wait() // workers never fail

	return out
}
