package kern

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/thalesfsp/kern/sym"
)

//////
// Const, vars, types.
//////

// Hyperparameter is a named scalar-or-vector kernel quantity of fixed shape
// (d,1), where d is 1 for a shared value or the number of active dimensions
// for ARD.
//
// Positivity-constrained hyperparameters (length scales, signal variance,
// bias) also expose a log view so that an unconstrained optimizer can work in
// the log domain. Only the value is stored; the log view is derived on read
// and SetLog writes exp(l). The two views can therefore never drift apart.
//
// Every hyperparameter also owns a (d,1) matrix of symbolic leaves, created
// once at construction, that stands for its value in symbolic evaluations.
//
// Thread safety:
// - All fields are protected by an RWMutex
// - Reads take a snapshot copy, so a concurrent SetValue never tears a read.
type Hyperparameter struct {
	// mu protects access to all mutable fields.
	mu sync.RWMutex

	// name is namespaced as "<KernelPrefix>.<field>".
	name string

	// size is d; it never changes after construction.
	size int

	// value holds the d elements of the (d,1) column.
	value []float64

	// positive marks a log-backed, strictly positive hyperparameter.
	positive bool

	// fixed excludes the hyperparameter from the free-parameter views.
	fixed bool

	// bounds holds one interval per element.
	bounds []Bounds

	// prior is optional.
	prior Prior

	// symbols are the symbolic leaves standing for value.
	symbols *sym.Matrix
}

//////
// Methods.
//////

// Name returns the namespaced name, e.g. "SE.length_scales".
func (h *Hyperparameter) Name() string { return h.name }

// Len returns d, the number of elements.
func (h *Hyperparameter) Len() int { return h.size }

// Value returns a copy of the current value as a (d,1) column vector.
func (h *Hyperparameter) Value() *mat.VecDense {
	return mat.NewVecDense(h.Len(), h.Values())
}

// Values returns a copy of the current value as a slice.
func (h *Hyperparameter) Values() []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]float64, len(h.value))
	copy(out, h.value)

	return out
}

// SetValue replaces the value. A single element is broadcast to every
// position; otherwise exactly d elements are required.
//
// Errors:
// - ErrShape when v cannot be broadcast to (d,1)
// - ErrConfiguration when an element is NaN or infinite, when a log-backed
// hyperparameter receives a non-positive element, or when an element is out
// of bounds.
//
// Usage example:
//
//	k, _ := NewConstant()
//	_ = k.Bias().SetValue(2) // every covariance entry becomes 4
func (h *Hyperparameter) SetValue(v ...float64) error {
	vals, err := broadcast(h.name, v, h.Len())
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.validate(vals); err != nil {
		return err
	}

	h.value = vals

	return nil
}

// HasLog reports whether the hyperparameter is positivity-constrained and
// therefore exposes a log view.
func (h *Hyperparameter) HasLog() bool { return h.positive }

// Log returns the elementwise natural log of the value as a (d,1) column, or
// nil when the hyperparameter has no log view.
func (h *Hyperparameter) Log() *mat.VecDense {
	if !h.positive {
		return nil
	}

	vals := h.Values()
	for i, v := range vals {
		vals[i] = math.Log(v)
	}

	return mat.NewVecDense(len(vals), vals)
}

// SetLog sets the value to exp(l), with the same broadcasting and validation
// rules as SetValue. A log value whose exponential overflows to +Inf or
// underflows to 0 is rejected with ErrConfiguration.
func (h *Hyperparameter) SetLog(l ...float64) error {
	if !h.positive {
		return fmt.Errorf("%w: %s", ErrNoLogView, h.name)
	}

	vals := make([]float64, len(l))
	for i, v := range l {
		vals[i] = math.Exp(v)

		if math.IsNaN(v) || vals[i] == 0 || math.IsInf(vals[i], 0) {
			return fmt.Errorf("%w: %s log value %g at index %d has no finite positive exponential",
				ErrConfiguration, h.name, v, i)
		}
	}

	return h.SetValue(vals...)
}

// Fixed reports whether the hyperparameter is excluded from optimization.
func (h *Hyperparameter) Fixed() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.fixed
}

// SetFixed toggles exclusion from the free-parameter views.
func (h *Hyperparameter) SetFixed(fixed bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.fixed = fixed
}

// Bounds returns a copy of the per-element bounds.
func (h *Hyperparameter) Bounds() []Bounds {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Bounds, len(h.bounds))
	copy(out, h.bounds)

	return out
}

// Prior returns the prior, or nil.
func (h *Hyperparameter) Prior() Prior {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.prior
}

// SetPrior replaces the prior. A nil prior removes it.
func (h *Hyperparameter) SetPrior(p Prior) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.prior = p
}

// LogPrior returns the prior log density summed over elements, or 0 when
// there is no prior.
func (h *Hyperparameter) LogPrior() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.prior == nil {
		return 0
	}

	var sum float64
	for _, v := range h.value {
		sum += h.prior.LogProb(v)
	}

	return sum
}

// Symbols returns the (d,1) matrix of symbolic leaves standing for the value.
// The same leaves are returned on every call.
func (h *Hyperparameter) Symbols() *sym.Matrix { return h.symbols }

// Bind writes the current value of every leaf into env, so that a symbolic
// covariance can be evaluated at the current hyperparameters.
func (h *Hyperparameter) Bind(env sym.Env) {
	vals := h.Values()

	for i := range vals {
		env[h.symbols.At(i, 0).(*sym.Symbol)] = vals[i]
	}
}

func (h *Hyperparameter) String() string {
	vals := h.Values()
	parts := make([]string, len(vals))

	for i, v := range vals {
		parts[i] = fmt.Sprintf("%g", v)
	}

	return fmt.Sprintf("%s=[%s]", h.name, strings.Join(parts, " "))
}

// check validates vals against the current constraints without writing.
func (h *Hyperparameter) check(vals []float64) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.validate(vals)
}

// validate must be called with the lock held.
func (h *Hyperparameter) validate(vals []float64) error {
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be finite, got %g at index %d", ErrConfiguration, h.name, v, i)
		}

		if h.positive && !(v > 0) {
			return fmt.Errorf("%w: %s must be strictly positive, got %g at index %d", ErrConfiguration, h.name, v, i)
		}

		if h.bounds != nil && !h.bounds[i].Contains(v) {
			return fmt.Errorf("%w: %s value %g at index %d is outside [%g, %g]",
				ErrConfiguration, h.name, v, i, h.bounds[i].Lower, h.bounds[i].Upper)
		}
	}

	return nil
}

//////
// Factory.
//////

// newHyperparameter creates a hyperparameter with the given initial value.
// Bounds default to unbounded, the prior to none and fixed to false.
func newHyperparameter(name string, value []float64, positive bool) (*Hyperparameter, error) {
	if len(value) == 0 {
		return nil, fmt.Errorf("%w: %s needs at least one element", ErrShape, name)
	}

	bounds := make([]Bounds, len(value))
	for i := range bounds {
		bounds[i] = Unbounded()
	}

	h := &Hyperparameter{
		name:     name,
		size:     len(value),
		value:    append([]float64(nil), value...),
		positive: positive,
		bounds:   bounds,
		symbols:  sym.NewSymbol(name, len(value), 1),
	}

	if err := h.validate(h.value); err != nil {
		return nil, err
	}

	return h, nil
}

// setBounds applies b to every element. Used by the construction options.
func (h *Hyperparameter) setBounds(b Bounds) error {
	if !(b.Lower <= b.Upper) {
		return fmt.Errorf("%w: %s bounds [%g, %g] are empty", ErrConfiguration, h.name, b.Lower, b.Upper)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	prev := h.bounds

	h.bounds = make([]Bounds, len(h.value))
	for i := range h.bounds {
		h.bounds[i] = b
	}

	if err := h.validate(h.value); err != nil {
		h.bounds = prev

		return err
	}

	return nil
}
