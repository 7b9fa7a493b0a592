package kern

import (
	"fmt"

	"github.com/thalesfsp/kern/sym"
)

var (
	squaredExponential *SquaredExponential
	exponential        *Exponential
	_                  Kernel = squaredExponential // Check that SquaredExponential respects the Kernel interface.
	_                  Kernel = exponential        // Check that Exponential respects the Kernel interface.
)

// stationary is a gamma-exponential kernel on the scaled Euclidean distance
//
//	k(x, x') = sv^2 * exp(-alpha * r^gamma),  r^2 = sum_k (x_k - x'_k)^2 / l_k^2
//
// with hyperparameters length_scales (1 or one per active dimension) and
// signal_variance, in that order.
type stationary struct {
	base

	alpha float64
	gamma float64
}

// init resolves the options for a stationary variant.
func (k *stationary) init(prefix string, alpha, gamma float64, opts []Option) error {
	o := gatherOptions(opts)
	if err := o.err(); err != nil {
		return err
	}

	if o.bias != nil {
		return fmt.Errorf("%w: the %s kernel has no bias", ErrConfiguration, prefix)
	}

	sel, err := newSelector(o.activeDims, o.ard)
	if err != nil {
		return err
	}

	ls, err := sel.lengthScales(o.lengthScales)
	if err != nil {
		return err
	}

	sv := o.signalVariance
	if sv == nil {
		sv = ones(1)
	}

	k.alpha, k.gamma = alpha, gamma

	return k.base.init(prefix, o, sel, []hyperSpec{
		{field: FieldLengthScales, value: ls, positive: true},
		{field: FieldSignalVariance, value: sv, positive: true},
	})
}

// LengthScales returns the length-scale hyperparameter.
func (k *stationary) LengthScales() *Hyperparameter { return k.hypers[0] }

// SignalVariance returns the signal-variance hyperparameter.
func (k *stationary) SignalVariance() *Hyperparameter { return k.hypers[1] }

// Alpha returns the decay rate of the exponent.
func (k *stationary) Alpha() float64 { return k.alpha }

// Gamma returns the power applied to the scaled distance.
func (k *stationary) Gamma() float64 { return k.gamma }

func (k *stationary) numericPair() pairFunc[float64] {
	return gammaExponential[float64](k.alpha, k.gamma)
}

func (k *stationary) symbolicPair() pairFunc[sym.Expr] {
	return gammaExponential[sym.Expr](k.alpha, k.gamma)
}

// Evaluate implements Kernel.
func (k *stationary) Evaluate(x, xBar Operand) (Operand, error) {
	return k.evaluate(k, x, xBar)
}

func gammaExponential[E any](alpha, gamma float64) pairFunc[E] {
	return func(f field[E], a, b []E, hp [][]E) E {
		ls, sv := hp[0], hp[1][0]

		var acc E
		for i := range a {
			l := ls[0]
			if len(ls) > 1 {
				l = ls[i]
			}

			d := f.sub(a[i], b[i])
			term := f.div(f.mul(d, d), f.mul(l, l))

			if i == 0 {
				acc = term
			} else {
				acc = f.add(acc, term)
			}
		}

		return f.mul(f.mul(sv, sv), f.exp(f.mul(f.constant(-alpha), f.pow(acc, gamma/2))))
	}
}

//////
// Variants.
//////

// SquaredExponential is the "SE" kernel:
//
//	k(x, x') = sv^2 * exp(-0.5 * sum_k (x_k - x'_k)^2 / l_k^2)
//
// Usage example:
//
//	k, _ := NewSquaredExponential(WithActiveDims(0, 2), WithARD(true))
//	k.LengthScales().Len() // 2
type SquaredExponential struct {
	stationary
}

// NewSquaredExponential builds an SE kernel with alpha 0.5 and gamma 2.
func NewSquaredExponential(opts ...Option) (*SquaredExponential, error) {
	k := &SquaredExponential{}
	if err := k.init("SE", 0.5, 2, opts); err != nil {
		return nil, err
	}

	return k, nil
}

// Exponential is the "E" kernel, sv^2 * exp(-r), with r the scaled Euclidean
// distance. In one dimension this is sv^2 * exp(-|x - x'| / l).
type Exponential struct {
	stationary
}

// NewExponential builds an E kernel with alpha 1 and gamma 1.
func NewExponential(opts ...Option) (*Exponential, error) {
	k := &Exponential{}
	if err := k.init("E", 1, 1, opts); err != nil {
		return nil, err
	}

	return k, nil
}
