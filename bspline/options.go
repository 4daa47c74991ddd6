package bspline

// ---------- Defaults ----------

const (
	// DefaultExtrapolate is the extrapolation policy of a new spline.
	DefaultExtrapolate = true

	// DefaultWorkers evaluates batches on the calling goroutine.
	DefaultWorkers = 1
)

const panicWorkersInvalid = "bspline: Workers: n must be >= 1"

// Option configures New, FromTCK and BasisElement.
type Option func(*options)

type options struct {
	shape       []int
	extrapolate bool
}

// WithShape sets the trailing shape of every coefficient row; the product of
// dims is the stride of the flat coefficient buffer. No dims means scalar
// values. A non-positive dimension is reported by New as ErrBadShape.
func WithShape(dims ...int) Option {
	cp := append([]int(nil), dims...)

	return func(o *options) { o.shape = cp }
}

// WithExtrapolate sets the default extrapolation policy used by Evaluate and
// Integrate when the call does not override it.
func WithExtrapolate(on bool) Option {
	return func(o *options) { o.extrapolate = on }
}

func gatherOptions(opts ...Option) options {
	o := options{extrapolate: DefaultExtrapolate}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}

// EvalOption configures a single Evaluate or Integrate call.
type EvalOption func(*evalOptions)

type evalOptions struct {
	nu          int
	extrapolate *bool
	workers     int
}

// Nu selects the derivative order to evaluate (0 = values).
func Nu(nu int) EvalOption {
	return func(o *evalOptions) { o.nu = nu }
}

// Extrapolate overrides the spline's default extrapolation policy.
func Extrapolate(on bool) EvalOption {
	return func(o *evalOptions) { o.extrapolate = &on }
}

// Workers splits a batch over n goroutines. Panics when n < 1.
func Workers(n int) EvalOption {
	if n < 1 {
		panic(panicWorkersInvalid)
	}

	return func(o *evalOptions) { o.workers = n }
}

func gatherEvalOptions(def bool, opts ...EvalOption) (evalOptions, bool) {
	o := evalOptions{workers: DefaultWorkers}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	ext := def
	if o.extrapolate != nil {
		ext = *o.extrapolate
	}

	return o, ext
}
