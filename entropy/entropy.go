// Package entropy estimates Shannon entropy of discrete distributions and
// differential entropy of continuous samples.
//
// Differential estimators work on order statistics with a window of m
// spacings (Vasicek, van Es, Ebrahimi, Correa). All functions are pure and
// never log or panic on user input.
package entropy

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrBadBase indicates a negative, unit or non-finite logarithm base.
	ErrBadBase = errors.New("entropy: base must be positive and not 1 (0 selects e)")

	// ErrBadWindow indicates a window length outside 2 <= 2m < n.
	ErrBadWindow = errors.New("entropy: window length must satisfy 2 <= 2m < n")

	// ErrBadDistribution indicates an empty input, a negative or non-finite
	// weight, or weights that sum to zero.
	ErrBadDistribution = errors.New("entropy: invalid distribution")

	// ErrLengthMismatch indicates pk and qk of different lengths.
	ErrLengthMismatch = errors.New("entropy: pk and qk lengths differ")

	// ErrNotFinite indicates NaN or ±Inf in a sample.
	ErrNotFinite = errors.New("entropy: samples must be finite")

	// ErrBadMethod indicates an unknown estimator.
	ErrBadMethod = errors.New("entropy: unknown method")
)

// Entropy returns -Σ p·log(p) of pk normalized to sum 1, in the given log
// base (0 means natural log).
func Entropy(pk []float64, base float64) (float64, error) {
	scale, err := logScale(base)
	if err != nil {
		return 0, fmt.Errorf("Entropy: %w", err)
	}
	p, err := normalize(pk)
	if err != nil {
		return 0, fmt.Errorf("Entropy: %w", err)
	}

	return stat.Entropy(p) / scale, nil
}

// RelativeEntropy returns the Kullback-Leibler divergence Σ p·log(p/q) of the
// normalized inputs. It is +Inf when q vanishes where p does not.
func RelativeEntropy(pk, qk []float64, base float64) (float64, error) {
	scale, err := logScale(base)
	if err != nil {
		return 0, fmt.Errorf("RelativeEntropy: %w", err)
	}
	if len(pk) != len(qk) {
		return 0, fmt.Errorf("RelativeEntropy: %w: %d vs %d", ErrLengthMismatch, len(pk), len(qk))
	}
	p, err := normalize(pk)
	if err != nil {
		return 0, fmt.Errorf("RelativeEntropy: pk: %w", err)
	}
	q, err := normalize(qk)
	if err != nil {
		return 0, fmt.Errorf("RelativeEntropy: qk: %w", err)
	}

	return stat.KullbackLeibler(p, q) / scale, nil
}

func logScale(base float64) (float64, error) {
	switch {
	case base == 0:
		return 1, nil
	case base < 0 || base == 1 || math.IsNaN(base) || math.IsInf(base, 0):
		return 0, fmt.Errorf("%w: %g", ErrBadBase, base)
	}

	return math.Log(base), nil
}

func normalize(pk []float64) ([]float64, error) {
	if len(pk) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrBadDistribution)
	}
	for i, v := range pk {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: pk[%d]=%g", ErrBadDistribution, i, v)
		}
	}
	sum := floats.Sum(pk)
	if sum == 0 || math.IsInf(sum, 0) {
		return nil, fmt.Errorf("%w: total %g", ErrBadDistribution, sum)
	}
	out := slices.Clone(pk)
	floats.Scale(1/sum, out)

	return out, nil
}

// ---------- differential entropy ----------

// Method selects a spacing estimator.
type Method int

const (
	// Vasicek is the classic m-spacing estimator.
	Vasicek Method = iota

	// VanEs is the bias-corrected m-spacing estimator.
	VanEs

	// Ebrahimi weights the boundary spacings.
	Ebrahimi

	// Correa uses local linear regression over each window.
	Correa
)

// String returns the lower-case estimator name.
func (m Method) String() string {
	switch m {
	case Vasicek:
		return "vasicek"
	case VanEs:
		return "van es"
	case Ebrahimi:
		return "ebrahimi"
	case Correa:
		return "correa"
	}

	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod accepts the names produced by String.
func ParseMethod(s string) (Method, error) {
	for _, m := range []Method{Vasicek, VanEs, Ebrahimi, Correa} {
		if m.String() == s {
			return m, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrBadMethod, s)
}

// Option configures Differential.
type Option func(*options)

type options struct {
	window int // 0 = floor(sqrt(n)+0.5)
	base   float64
	method Method
}

// WithWindow sets the window length m. Panics when m < 1.
func WithWindow(m int) Option {
	if m < 1 {
		panic("entropy: WithWindow: m must be >= 1")
	}

	return func(o *options) { o.window = m }
}

// WithBase sets the log base (default e).
func WithBase(b float64) Option {
	return func(o *options) { o.base = b }
}

// WithMethod selects the estimator (default Vasicek).
func WithMethod(m Method) Option {
	return func(o *options) { o.method = m }
}

// Differential estimates the differential entropy of a sample.
//
// Errors:
//   - ErrNotFinite, ErrBadWindow (including samples too small for any window),
//     ErrBadBase, ErrBadMethod.
//
// Complexity:
//   - O(n log n) for the sort; Correa adds O(n·m).
func Differential(values []float64, opts ...Option) (float64, error) {
	var o options
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	n := len(values)
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("Differential: %w: values[%d]=%g", ErrNotFinite, i, v)
		}
	}
	m := o.window
	if m == 0 {
		m = int(math.Floor(math.Sqrt(float64(n)) + 0.5))
	}
	if !(2 <= 2*m && 2*m < n) {
		return 0, fmt.Errorf("Differential: %w: m=%d, n=%d", ErrBadWindow, m, n)
	}
	scale, err := logScale(o.base)
	if err != nil {
		return 0, fmt.Errorf("Differential: %w", err)
	}

	x := slices.Clone(values)
	slices.Sort(x)
	var h float64
	switch o.method {
	case Vasicek:
		h = vasicek(x, m)
	case VanEs:
		h = vanEs(x, m)
	case Ebrahimi:
		h = ebrahimi(x, m)
	case Correa:
		h = correa(x, m)
	default:
		return 0, fmt.Errorf("Differential: %w: %d", ErrBadMethod, int(o.method))
	}

	return h / scale, nil
}

// at reads x with the ends repeated beyond the sample.
func at(x []float64, i int) float64 {
	return x[min(max(i, 0), len(x)-1)]
}

func vasicek(x []float64, m int) float64 {
	n := len(x)
	var s float64
	for i := 0; i < n; i++ {
		s += math.Log(float64(n) * (at(x, i+m) - at(x, i-m)) / float64(2*m))
	}

	return s / float64(n)
}

func vanEs(x []float64, m int) float64 {
	n := len(x)
	var s float64
	for i := 0; i < n-m; i++ {
		s += math.Log(float64(n+1) / float64(m) * (x[i+m] - x[i]))
	}
	s /= float64(n - m)
	for k := m; k <= n; k++ {
		s += 1 / float64(k)
	}

	return s + math.Log(float64(m)) - math.Log(float64(n+1))
}

func ebrahimi(x []float64, m int) float64 {
	n := len(x)
	var s, ci float64
	for i := 1; i <= n; i++ {
		switch {
		case i <= m:
			ci = 1 + float64(i-1)/float64(m)
		case i >= n-m+1:
			ci = 1 + float64(n-i)/float64(m)
		default:
			ci = 2
		}
		s += math.Log(float64(n) * (at(x, i-1+m) - at(x, i-1-m)) / (ci * float64(m)))
	}

	return s / float64(n)
}

func correa(x []float64, m int) float64 {
	n := len(x)
	var s, mean, num, den, d float64
	for i := 1; i <= n; i++ {
		mean = 0
		for j := i - m; j <= i+m; j++ {
			mean += at(x, j-1)
		}
		mean /= float64(2*m + 1)
		num, den = 0, 0
		for j := i - m; j <= i+m; j++ {
			d = at(x, j-1) - mean
			num += d * float64(j-i)
			den += d * d
		}
		s += math.Log(num / (float64(n) * den))
	}

	return -s / float64(n)
}
