package kern

import (
	"math"
)

// Operand is an input or output matrix of a covariance evaluation. Exactly two
// representation families are supported:
//
//   - numeric: any gonum mat.Matrix (outputs are *mat.Dense)
//   - symbolic: *sym.Matrix (outputs are *sym.Matrix)
//
// Inputs are (d x n): one column per point, one row per input-space
// dimension. Outputs are (n x n_bar).
type Operand interface {
	// Dims returns the number of rows and columns.
	Dims() (r, c int)
}

// Kernel is the covariance function contract shared by every variant.
//
// A Kernel is built once by its factory (NewConstant, NewSquaredExponential,
// NewExponential or New) and is structurally immutable afterwards: the number
// of hyperparameters, their names and the active dimensions never change.
// Hyperparameter values stay mutable through the *Hyperparameter objects.
//
// Usage example:
//
//	k, err := NewSquaredExponential(WithActiveDims(0, 2), WithLengthScales(1.0, 2.0))
//	if err != nil {
//	    return err
//	}
//
//	x := mat.NewDense(3, 5, data) // 5 points in a 3-dimensional space
//	cov, err := Numeric(k, x, nil) // 5x5 self-covariance
//
// Thread safety:
// - Evaluate only reads kernel state and can be called concurrently
// - Hyperparameter mutation is guarded, but should happen between evaluations.
type Kernel interface {
	// Name returns the display prefix of the kernel, e.g. "SE".
	Name() string

	// ActiveDims returns the input dimensions the kernel reads, or nil when
	// it reads all of them.
	ActiveDims() []int

	// ARD reports whether the kernel has one length scale per active
	// dimension.
	ARD() bool

	// Hyperparameters returns the hyperparameters in declaration order.
	Hyperparameters() []*Hyperparameter

	// HyperparameterNames returns the namespaced names in declaration order.
	HyperparameterNames() []string

	// Hyperparameter looks a hyperparameter up by its namespaced name.
	Hyperparameter(name string) (*Hyperparameter, bool)

	// FreeHyperparameters returns the hyperparameters that are not fixed.
	FreeHyperparameters() []*Hyperparameter

	// FreeLogParameters packs the free hyperparameters into one
	// unconstrained vector (log domain where available).
	FreeLogParameters() []float64

	// SetFreeLogParameters is the inverse of FreeLogParameters.
	SetFreeLogParameters(theta []float64) error

	// LogPrior sums the prior log densities of all hyperparameters that
	// carry a prior.
	LogPrior() float64

	// Evaluate returns the covariance between the columns of x and xBar.
	// A nil xBar yields the self-covariance of x.
	Evaluate(x, xBar Operand) (Operand, error)
}

// Prior is a probability distribution over a scalar hyperparameter element.
// gonum's distuv distributions (distuv.Normal, distuv.LogNormal, ...) satisfy
// it directly.
type Prior interface {
	// LogProb returns the log density at x.
	LogProb(x float64) float64
}

// Bounds defines the valid interval for one element of a hyperparameter.
//
// Fields:
// - Lower: The minimum (inclusive) value
// - Upper: The maximum (inclusive) value
//
// Usage:
//
//	// Length scale between 0.01 and 100
//	b := Bounds{Lower: 0.01, Upper: 100}
//
// Validation:
// - Lower must be less than or equal to Upper
// - The zero value is NOT unbounded; use Unbounded() for that.
type Bounds struct {
	// Lower is the minimum allowed value (inclusive).
	Lower float64

	// Upper is the maximum allowed value (inclusive).
	Upper float64
}

// Unbounded returns the (-Inf, +Inf) interval.
func Unbounded() Bounds {
	return Bounds{Lower: math.Inf(-1), Upper: math.Inf(1)}
}

// Contains reports whether v lies inside the interval.
func (b Bounds) Contains(v float64) bool {
	return v >= b.Lower && v <= b.Upper
}
