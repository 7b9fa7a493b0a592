package kern

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/thalesfsp/kern/sym"
)

//////
// Const, vars, types.
//////

// mode is the representation family of an evaluation.
type mode int

const (
	modeNumeric mode = iota
	modeSymbolic
)

func (m mode) String() string {
	if m == modeSymbolic {
		return "symbolic"
	}

	return "numeric"
}

// hyperSpec declares one hyperparameter of a variant.
type hyperSpec struct {
	field    string
	value    []float64
	positive bool
}

// base holds the state shared by every kernel variant and implements the
// read surface of Kernel. Variants embed it and add their formula.
type base struct {
	// name is the display prefix, e.g. "SE".
	name string

	// hypers are the hyperparameters in declaration order.
	hypers []*Hyperparameter

	// perDim is the hyperparameter that may hold one element per active
	// dimension (the length scales), or nil.
	perDim *Hyperparameter

	// sel resolves active dimensions.
	sel *selector

	// ard is the effective ARD flag.
	ard bool

	logger *zap.Logger
}

//////
// Read surface.
//////

// Name returns the display prefix of the kernel.
func (b *base) Name() string { return b.name }

// ActiveDims returns a copy of the active dimensions, or nil when every
// dimension is active.
func (b *base) ActiveDims() []int { return b.sel.activeDims() }

// ARD reports whether the kernel carries one length scale per active
// dimension.
func (b *base) ARD() bool { return b.ard }

// Hyperparameters returns the hyperparameters in declaration order. The slice
// is a copy; the elements are the kernel's own objects.
func (b *base) Hyperparameters() []*Hyperparameter {
	return append([]*Hyperparameter(nil), b.hypers...)
}

// HyperparameterNames returns the namespaced names in declaration order.
func (b *base) HyperparameterNames() []string {
	names := make([]string, len(b.hypers))
	for i, h := range b.hypers {
		names[i] = h.Name()
	}

	return names
}

// Hyperparameter looks a hyperparameter up by its namespaced name.
func (b *base) Hyperparameter(name string) (*Hyperparameter, bool) {
	for _, h := range b.hypers {
		if h.Name() == name {
			return h, true
		}
	}

	return nil, false
}

// FreeHyperparameters returns the hyperparameters that are not fixed, in
// declaration order.
func (b *base) FreeHyperparameters() []*Hyperparameter {
	free := []*Hyperparameter{}

	for _, h := range b.hypers {
		if !h.Fixed() {
			free = append(free, h)
		}
	}

	return free
}

// FreeLogParameters packs the free hyperparameters into one vector, using the
// log view where there is one. This is the unconstrained parameterization an
// optimizer works in.
func (b *base) FreeLogParameters() []float64 {
	theta := []float64{}

	for _, h := range b.FreeHyperparameters() {
		if h.HasLog() {
			theta = append(theta, h.Log().RawVector().Data...)
		} else {
			theta = append(theta, h.Values()...)
		}
	}

	return theta
}

// SetFreeLogParameters unpacks theta, laid out as by FreeLogParameters, into
// the free hyperparameters. Every element is validated before any
// hyperparameter is written.
func (b *base) SetFreeLogParameters(theta []float64) error {
	free := b.FreeHyperparameters()

	want := 0
	for _, h := range free {
		want += h.Len()
	}

	if len(theta) != want {
		return fmt.Errorf("%w: expected %d free parameters, got %d", ErrShape, want, len(theta))
	}

	staged := make([][]float64, len(free))
	offset := 0

	for i, h := range free {
		vals := append([]float64(nil), theta[offset:offset+h.Len()]...)
		offset += h.Len()

		if h.HasLog() {
			for k := range vals {
				vals[k] = math.Exp(vals[k])
			}
		}

		if err := h.check(vals); err != nil {
			return err
		}

		staged[i] = vals
	}

	for i, h := range free {
		if err := h.SetValue(staged[i]...); err != nil {
			return err
		}
	}

	return nil
}

// LogPrior sums the prior log densities of every hyperparameter.
func (b *base) LogPrior() float64 {
	var sum float64
	for _, h := range b.hypers {
		sum += h.LogPrior()
	}

	return sum
}

func (b *base) String() string {
	parts := make([]string, len(b.hypers))
	for i, h := range b.hypers {
		parts[i] = h.String()
	}

	return fmt.Sprintf("%s(active_dims=%s, %s)", b.name, formatInts(b.sel.active), strings.Join(parts, ", "))
}

//////
// Evaluation.
//////

// evaluate is the single dispatch point shared by every variant. It checks
// representation and dimension agreement before any arithmetic, selects the
// active rows, then runs f's formula in the operands' family.
func (b *base) evaluate(f formula, x, xBar Operand) (Operand, error) {
	x, xBar = orNil(x), orNil(xBar)

	m, rows, err := b.prepare(x, xBar)
	if err != nil {
		b.logger.Debug("covariance evaluation rejected", zap.String("kernel", b.name), zap.Error(err))

		return nil, err
	}

	_, n := x.Dims()
	nBar := n

	if xBar != nil {
		_, nBar = xBar.Dims()
	}

	b.logger.Debug("evaluating covariance",
		zap.String("kernel", b.name),
		zap.Stringer("mode", m),
		zap.Int("rows", len(rows)),
		zap.Int("n", n),
		zap.Int("n_bar", nBar),
	)

	if m == modeSymbolic {
		return b.evaluateSymbolic(f, x.(*sym.Matrix), xBar, rows), nil
	}

	return b.evaluateNumeric(f, x.(mat.Matrix), xBar, rows), nil
}

// prepare performs every validation of an evaluation and returns the family
// and the input rows that take part in it.
func (b *base) prepare(x, xBar Operand) (mode, []int, error) {
	if x == nil {
		return 0, nil, fmt.Errorf("%w: X must not be nil", ErrTypeMismatch)
	}

	m, ok := familyOf(x)
	if !ok {
		return 0, nil, fmt.Errorf("%w: unsupported operand type %T", ErrTypeMismatch, x)
	}

	d, n := x.Dims()
	if d == 0 || n == 0 {
		return 0, nil, fmt.Errorf("%w: X is empty (%d x %d)", ErrDimensionMismatch, d, n)
	}

	if xBar != nil {
		if _, nBar := xBar.Dims(); nBar == 0 {
			return 0, nil, fmt.Errorf("%w: X_bar has no points", ErrDimensionMismatch)
		}

		mBar, ok := familyOf(xBar)
		if !ok || mBar != m {
			return 0, nil, fmt.Errorf("%w: X and X_bar need to have the same type", ErrTypeMismatch)
		}

		if dBar, _ := xBar.Dims(); dBar != d {
			return 0, nil, fmt.Errorf("%w: X and X_bar do not have the same input space dimensions (%d != %d)",
				ErrDimensionMismatch, d, dBar)
		}
	}

	perDim := 1
	if b.perDim != nil {
		perDim = b.perDim.Len()
	}

	if err := b.sel.check(d, perDim); err != nil {
		return 0, nil, err
	}

	return m, b.sel.rows(d), nil
}

// evaluateNumeric runs f on numeric operands that prepare accepted.
//
// Important notes:
// - Each hyperparameter is read once per call; every entry uses that snapshot
// - A nil xBar means self-covariance; only the upper triangle is computed.
func (b *base) evaluateNumeric(f formula, x mat.Matrix, xBar Operand, rows []int) *mat.Dense {
	xs := numericPoints(x, rows)
	ys := xs

	if xBar != nil {
		ys = numericPoints(xBar.(mat.Matrix), rows)
	}

	hp := make([][]float64, len(b.hypers))
	for i, h := range b.hypers {
		hp[i] = h.Values()
	}

	data := covariance[float64](numeric{}, f.numericPair(), xs, ys, hp, xBar == nil)

	return mat.NewDense(len(xs), len(ys), data)
}

// evaluateSymbolic runs f on symbolic operands that prepare accepted. Every
// hyperparameter enters the graph through its leaves, never its value.
func (b *base) evaluateSymbolic(f formula, x *sym.Matrix, xBar Operand, rows []int) *sym.Matrix {
	xs := symbolicPoints(x, rows)
	ys := xs

	if xBar != nil {
		ys = symbolicPoints(xBar.(*sym.Matrix), rows)
	}

	hp := make([][]sym.Expr, len(b.hypers))
	for i, h := range b.hypers {
		hp[i] = h.Symbols().Elements()
	}

	data := covariance[sym.Expr](symbolic{}, f.symbolicPair(), xs, ys, hp, xBar == nil)

	return sym.NewMatrix(len(xs), len(ys), data)
}

//////
// Typed entry points.
//////

// Numeric evaluates k on numeric inputs and returns the dense covariance.
// A nil xBar yields the self-covariance of x.
//
// Usage example:
//
//	k, _ := NewSquaredExponential()
//	x := mat.NewDense(1, 5, []float64{1, 2, 3, 4, 5})
//	cov, err := Numeric(k, x, nil)
//	// cov.At(0, 1) == exp(-0.5)
func Numeric(k Kernel, x, xBar mat.Matrix) (*mat.Dense, error) {
	var bar Operand
	if xBar != nil {
		bar = xBar
	}

	out, err := k.Evaluate(x, bar)
	if err != nil {
		return nil, err
	}

	return out.(*mat.Dense), nil
}

// Symbolic evaluates k on symbolic inputs and returns the symbolic covariance.
// A nil xBar yields the self-covariance of x.
//
// Usage example:
//
//	k, _ := NewExponential()
//	x, y := sym.NewSymbol("x", 1, 1), sym.NewSymbol("y", 1, 1)
//	cov, err := Symbolic(k, x, y)
//	// cov.DependsOn(k.LengthScales().Symbols()) == true
func Symbolic(k Kernel, x, xBar *sym.Matrix) (*sym.Matrix, error) {
	var bar Operand
	if xBar != nil {
		bar = xBar
	}

	var in Operand
	if x != nil {
		in = x
	}

	out, err := k.Evaluate(in, bar)
	if err != nil {
		return nil, err
	}

	return out.(*sym.Matrix), nil
}

//////
// Factory helpers.
//////

// init builds the hyperparameters from specs and applies the per-field
// options (priors, bounds, fixed) and the logger.
func (b *base) init(name string, o *options, sel *selector, specs []hyperSpec) error {
	b.name = name
	b.sel = sel
	b.logger = o.logger
	b.hypers = make([]*Hyperparameter, len(specs))

	for i, s := range specs {
		h, err := newHyperparameter(name+"."+s.field, s.value, s.positive)
		if err != nil {
			return err
		}

		b.hypers[i] = h

		if s.field == FieldLengthScales {
			b.perDim = h
		}
	}

	b.ard = sel.ard || (b.perDim != nil && b.perDim.Len() > 1)

	for field, p := range o.priors {
		h, err := b.lookupField(field)
		if err != nil {
			return err
		}

		h.SetPrior(p)
	}

	for field, bounds := range o.bounds {
		h, err := b.lookupField(field)
		if err != nil {
			return err
		}

		if err := h.setBounds(bounds); err != nil {
			return err
		}
	}

	for _, field := range o.fixed {
		h, err := b.lookupField(field)
		if err != nil {
			return err
		}

		h.SetFixed(true)
	}

	b.logger.Debug("kernel constructed",
		zap.String("kernel", b.name),
		zap.String("active_dims", formatInts(sel.active)),
		zap.Bool("ard", b.ard),
		zap.Strings("hyperparameters", b.HyperparameterNames()),
	)

	return nil
}

// lookupField resolves a bare field ("bias") or namespaced name
// ("Const.bias") to the kernel's hyperparameter.
func (b *base) lookupField(field string) (*Hyperparameter, error) {
	for _, h := range b.hypers {
		if h.Name() == field || h.Name() == b.name+"."+field {
			return h, nil
		}
	}

	return nil, fmt.Errorf("%w: %q is not a hyperparameter of the %s kernel", ErrConfiguration, field, b.name)
}

//////
// Helpers.
//////

// familyOf classifies an operand.
//
// Returns:
// - the representation family
// - false when o belongs to neither family.
func familyOf(o Operand) (mode, bool) {
	switch o.(type) {
	case *sym.Matrix:
		return modeSymbolic, true
	case mat.Matrix:
		return modeNumeric, true
	default:
		return 0, false
	}
}

// orNil turns a typed-nil matrix pointer into a nil Operand, so that
// "no X_bar" can be passed either way and a nil X is reported instead of
// dereferenced.
func orNil(o Operand) Operand {
	switch v := o.(type) {
	case *sym.Matrix:
		if v == nil {
			return nil
		}
	case *mat.Dense:
		if v == nil {
			return nil
		}
	case *mat.VecDense:
		if v == nil {
			return nil
		}
	case *mat.SymDense:
		if v == nil {
			return nil
		}
	case *mat.TriDense:
		if v == nil {
			return nil
		}
	case *mat.DiagDense:
		if v == nil {
			return nil
		}
	case *mat.BandDense:
		if v == nil {
			return nil
		}
	}

	return o
}

// numericPoints returns one slice per column of x holding the selected rows.
func numericPoints(x mat.Matrix, rows []int) [][]float64 {
	_, n := x.Dims()
	pts := make([][]float64, n)

	for j := range pts {
		pt := make([]float64, len(rows))
		for k, r := range rows {
			pt[k] = x.At(r, j)
		}

		pts[j] = pt
	}

	return pts
}

// symbolicPoints returns one slice per column of x holding the selected rows.
func symbolicPoints(x *sym.Matrix, rows []int) [][]sym.Expr {
	_, n := x.Dims()
	pts := make([][]sym.Expr, n)

	for j := range pts {
		pt := make([]sym.Expr, len(rows))
		for k, r := range rows {
			pt[k] = x.At(r, j)
		}

		pts[j] = pt
	}

	return pts
}
