package kern

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/exp/constraints"
)

//////
// Const, vars, types.
//////

// Hyperparameter field names, as used by WithPrior, WithBounds, WithFixed and
// Config.Fixed. The namespaced name of a hyperparameter is
// "<KernelPrefix>.<field>", e.g. "SE.length_scales".
const (
	FieldBias           = "bias"
	FieldLengthScales   = "length_scales"
	FieldSignalVariance = "signal_variance"
)

// Option configures a kernel at construction. Options never fail on their own;
// inconsistent combinations are reported by the kernel factory as
// ErrConfiguration.
type Option func(*options)

// options stores the effective configuration after applying Option setters.
type options struct {
	// activeDims is nil when every dimension is active.
	activeDims []int

	// ard requests one length scale per active dimension.
	ard bool

	// Explicit initial values; nil means "use the default of ones".
	lengthScales   []float64
	signalVariance []float64
	bias           []float64

	priors map[string]Prior
	bounds map[string]Bounds
	fixed  []string

	logger *zap.Logger

	// errs collects option misuse detected while applying setters.
	errs []error
}

//////
// Constructors (WithX).
//////

// WithActiveDims restricts the kernel to the listed input dimensions (rows of
// X). Indices must be distinct and non-negative.
//
// Usage example:
//
//	// Only dimensions 0 and 2 of a 3-dimensional input feed the distance.
//	k, err := NewSquaredExponential(WithActiveDims(0, 2))
func WithActiveDims[T constraints.Integer](dims ...T) Option {
	return func(o *options) {
		if len(dims) == 0 {
			o.errs = append(o.errs, fmt.Errorf("%w: 'active_dims' must not be empty", ErrConfiguration))

			return
		}

		o.activeDims = toInts(dims)
	}
}

// WithARD requests one independent length scale per active dimension. It
// requires WithActiveDims.
func WithARD(ard bool) Option {
	return func(o *options) { o.ard = ard }
}

// WithLengthScales sets the initial length scales. A single value is shared
// by every dimension (or broadcast to every active dimension under ARD);
// several values are one per active dimension.
//
// Usage example:
//
//	k, err := NewExponential(WithActiveDims(0, 1), WithLengthScales(0.5, 2.0))
func WithLengthScales[T constraints.Integer | constraints.Float](vals ...T) Option {
	return func(o *options) {
		if len(vals) == 0 {
			o.errs = append(o.errs, fmt.Errorf("%w: 'length_scales' must not be empty", ErrConfiguration))

			return
		}

		o.lengthScales = toFloat64s(vals)
	}
}

// WithSignalVariance sets the initial signal variance.
func WithSignalVariance(v float64) Option {
	return func(o *options) { o.signalVariance = []float64{v} }
}

// WithBias sets the initial bias of a Constant kernel.
func WithBias(v float64) Option {
	return func(o *options) { o.bias = []float64{v} }
}

// WithPrior attaches a prior to the hyperparameter named by field (either the
// bare field, e.g. "signal_variance", or the namespaced name).
//
// Usage example:
//
//	k, err := NewSquaredExponential(
//	    WithPrior(FieldSignalVariance, distuv.LogNormal{Mu: 0, Sigma: 1}),
//	)
func WithPrior(field string, p Prior) Option {
	return func(o *options) {
		if o.priors == nil {
			o.priors = make(map[string]Prior)
		}

		o.priors[field] = p
	}
}

// WithBounds constrains every element of the hyperparameter named by field
// to [lower, upper].
func WithBounds(field string, lower, upper float64) Option {
	return func(o *options) {
		if o.bounds == nil {
			o.bounds = make(map[string]Bounds)
		}

		o.bounds[field] = Bounds{Lower: lower, Upper: upper}
	}
}

// WithFixed marks the named hyperparameters as fixed from the start.
func WithFixed(fields ...string) Option {
	return func(o *options) { o.fixed = append(o.fixed, fields...) }
}

// WithLogger sets the logger used for debug entries on construction and
// evaluation. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = zap.NewNop()
		}

		o.logger = l
	}
}

// gatherOptions applies opts over the defaults.
func gatherOptions(opts []Option) *options {
	o := &options{logger: zap.NewNop()}

	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	return o
}

// err returns the first option misuse, if any.
func (o *options) err() error {
	if len(o.errs) > 0 {
		return o.errs[0]
	}

	return nil
}
