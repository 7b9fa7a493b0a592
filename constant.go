package kern

import (
	"fmt"

	"github.com/thalesfsp/kern/sym"
)

var (
	constant *Constant
	_        Kernel = constant // Check that Constant respects the Kernel interface.
)

// Constant is the covariance k(x, x') = bias^2, independent of the inputs.
// Its only hyperparameter is "Const.bias".
type Constant struct {
	base
}

// NewConstant builds a Constant kernel.
//
// Supported options: WithActiveDims, WithBias, WithPrior, WithBounds,
// WithFixed and WithLogger. Length scales, signal variance and ARD do not
// apply and are rejected with ErrConfiguration.
//
// Usage example:
//
//	k, _ := NewConstant(WithBias(2))
//	cov, _ := Numeric(k, x, nil) // every entry is 4
func NewConstant(opts ...Option) (*Constant, error) {
	o := gatherOptions(opts)
	if err := o.err(); err != nil {
		return nil, err
	}

	switch {
	case o.lengthScales != nil:
		return nil, fmt.Errorf("%w: the Const kernel has no length scales", ErrConfiguration)
	case o.signalVariance != nil:
		return nil, fmt.Errorf("%w: the Const kernel has no signal variance", ErrConfiguration)
	case o.ard:
		return nil, fmt.Errorf("%w: 'ard' does not apply to the Const kernel", ErrConfiguration)
	}

	sel, err := newSelector(o.activeDims, false)
	if err != nil {
		return nil, err
	}

	bias := o.bias
	if bias == nil {
		bias = ones(1)
	}

	k := &Constant{}
	if err := k.init("Const", o, sel, []hyperSpec{
		{field: FieldBias, value: bias, positive: true},
	}); err != nil {
		return nil, err
	}

	return k, nil
}

// Bias returns the "Const.bias" hyperparameter.
func (k *Constant) Bias() *Hyperparameter { return k.hypers[0] }

// Evaluate implements Kernel.
func (k *Constant) Evaluate(x, xBar Operand) (Operand, error) {
	return k.evaluate(k, x, xBar)
}

func (k *Constant) numericPair() pairFunc[float64] { return constantPair[float64] }

func (k *Constant) symbolicPair() pairFunc[sym.Expr] { return constantPair[sym.Expr] }

func constantPair[E any](f field[E], _, _ []E, hp [][]E) E {
	b := hp[0][0]

	return f.mul(b, b)
}
