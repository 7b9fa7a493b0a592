package sym

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

//////
// Const, vars, types.
//////

var (
	// ErrUnbound is returned by Eval when a leaf has no value in the Env.
	ErrUnbound = errors.New("sym: unbound symbol")

	// ErrShape is returned (or panicked with, for programmer errors such as
	// out-of-range indexing) when matrix shapes are invalid.
	ErrShape = errors.New("sym: invalid shape")
)

// Expr is a node of a deferred-evaluation expression graph. Nodes are
// immutable; the same node may be shared by many parents.
type Expr interface {
	fmt.Stringer

	// operands returns the direct children of the node.
	operands() []Expr

	// apply computes the node value from its already evaluated operands.
	apply(args []float64) float64
}

// Env binds leaves to numeric values for Eval.
type Env map[*Symbol]float64

// Constant is a numeric literal.
type Constant struct {
	v float64
}

// Symbol is a named free variable. Two symbols are the same leaf only if they
// are the same pointer; names are for display.
type Symbol struct {
	name string
}

type unaryOp int

const (
	opNeg unaryOp = iota
	opExp
	opAbs
)

type unary struct {
	op unaryOp
	x  Expr
}

type binaryOp int

const (
	opAdd binaryOp = iota
	opSub
	opMul
	opDiv
)

type binary struct {
	op   binaryOp
	a, b Expr
}

type power struct {
	x Expr
	p float64
}

var (
	zero = &Constant{v: 0}
	one  = &Constant{v: 1}
)

//////
// Leaves.
//////

// Const returns a constant node.
func Const(v float64) Expr {
	switch v {
	case 0:
		if !math.Signbit(v) {
			return zero
		}
	case 1:
		return one
	}

	return &Constant{v: v}
}

// NewLeaf returns a fresh scalar symbol.
func NewLeaf(name string) *Symbol {
	return &Symbol{name: name}
}

// Value returns the literal.
func (c *Constant) Value() float64 { return c.v }

func (c *Constant) String() string {
	return strconv.FormatFloat(c.v, 'g', -1, 64)
}

func (c *Constant) operands() []Expr { return nil }

func (c *Constant) apply([]float64) float64 { return c.v }

// Name returns the display name of the symbol.
func (s *Symbol) Name() string { return s.name }

func (s *Symbol) String() string { return s.name }

func (s *Symbol) operands() []Expr { return nil }

// apply is never reached for symbols; Eval resolves them through the Env.
func (s *Symbol) apply([]float64) float64 { return math.NaN() }

//////
// Arithmetic with construction-time simplification.
//////

// Add returns a + b.
func Add(a, b Expr) Expr {
	if ca, cb, ok := constants(a, b); ok {
		return Const(ca + cb)
	}

	if isConst(a, 0) {
		return b
	}

	if isConst(b, 0) {
		return a
	}

	return &binary{op: opAdd, a: a, b: b}
}

// Sub returns a - b. The difference of a node with itself is the constant
// zero, which lets zero-distance terms vanish from the graph.
func Sub(a, b Expr) Expr {
	if ca, cb, ok := constants(a, b); ok {
		return Const(ca - cb)
	}

	if a == b {
		return zero
	}

	if isConst(b, 0) {
		return a
	}

	if isConst(a, 0) {
		return Neg(b)
	}

	return &binary{op: opSub, a: a, b: b}
}

// Mul returns a * b.
func Mul(a, b Expr) Expr {
	if ca, cb, ok := constants(a, b); ok {
		return Const(ca * cb)
	}

	if isConst(a, 0) || isConst(b, 0) {
		return zero
	}

	if isConst(a, 1) {
		return b
	}

	if isConst(b, 1) {
		return a
	}

	return &binary{op: opMul, a: a, b: b}
}

// Div returns a / b. A constant zero divisor is kept in the graph so that
// evaluation yields the IEEE result instead of a silent simplification.
func Div(a, b Expr) Expr {
	if ca, cb, ok := constants(a, b); ok && cb != 0 {
		return Const(ca / cb)
	}

	if isConst(a, 0) && !isConst(b, 0) {
		return zero
	}

	if isConst(b, 1) {
		return a
	}

	return &binary{op: opDiv, a: a, b: b}
}

// Neg returns -x.
func Neg(x Expr) Expr {
	if c, ok := x.(*Constant); ok {
		return Const(-c.v)
	}

	if u, ok := x.(*unary); ok && u.op == opNeg {
		return u.x
	}

	return &unary{op: opNeg, x: x}
}

// Exp returns e^x.
func Exp(x Expr) Expr {
	if c, ok := x.(*Constant); ok {
		return Const(math.Exp(c.v))
	}

	return &unary{op: opExp, x: x}
}

// Abs returns |x|. The kernels do not use it; it is provided for callers
// composing their own expressions, e.g. an L1 distance.
func Abs(x Expr) Expr {
	if c, ok := x.(*Constant); ok {
		return Const(math.Abs(c.v))
	}

	if u, ok := x.(*unary); ok && u.op == opAbs {
		return u
	}

	return &unary{op: opAbs, x: x}
}

// Pow returns x^p for a constant exponent p.
func Pow(x Expr, p float64) Expr {
	switch {
	case p == 0:
		return one
	case p == 1:
		return x
	}

	if c, ok := x.(*Constant); ok {
		return Const(math.Pow(c.v, p))
	}

	return &power{x: x, p: p}
}

func (u *unary) operands() []Expr { return []Expr{u.x} }

func (u *unary) apply(args []float64) float64 {
	switch u.op {
	case opNeg:
		return -args[0]
	case opExp:
		return math.Exp(args[0])
	default:
		return math.Abs(args[0])
	}
}

func (u *unary) String() string {
	switch u.op {
	case opNeg:
		return "(-" + u.x.String() + ")"
	case opExp:
		return "exp(" + u.x.String() + ")"
	default:
		return "fabs(" + u.x.String() + ")"
	}
}

func (b *binary) operands() []Expr { return []Expr{b.a, b.b} }

func (b *binary) apply(args []float64) float64 {
	switch b.op {
	case opAdd:
		return args[0] + args[1]
	case opSub:
		return args[0] - args[1]
	case opMul:
		return args[0] * args[1]
	default:
		return args[0] / args[1]
	}
}

func (b *binary) String() string {
	sign := [...]string{"+", "-", "*", "/"}[b.op]

	return "(" + b.a.String() + sign + b.b.String() + ")"
}

func (p *power) operands() []Expr { return []Expr{p.x} }

func (p *power) apply(args []float64) float64 {
	if p.p == 2 {
		return args[0] * args[0]
	}

	return math.Pow(args[0], p.p)
}

func (p *power) String() string {
	if p.p == 2 {
		return "sq(" + p.x.String() + ")"
	}

	return "pow(" + p.x.String() + "," + strconv.FormatFloat(p.p, 'g', -1, 64) + ")"
}

//////
// Queries.
//////

// DependsOn reports whether e has leaf s anywhere in its graph.
func DependsOn(e Expr, s *Symbol) bool {
	seen := make(map[Expr]struct{})

	var walk func(Expr) bool
	walk = func(n Expr) bool {
		if n == Expr(s) {
			return true
		}

		if _, ok := seen[n]; ok {
			return false
		}

		seen[n] = struct{}{}

		for _, c := range n.operands() {
			if walk(c) {
				return true
			}
		}

		return false
	}

	return walk(e)
}

// Leaves returns the distinct symbols e depends on, in first-visit order.
// The kernels query single leaves with DependsOn; Leaves is provided for
// callers that need the whole dependency set of an expression.
func Leaves(e Expr) []*Symbol {
	seen := make(map[Expr]struct{})
	out := []*Symbol{}

	var walk func(Expr)
	walk = func(n Expr) {
		if _, ok := seen[n]; ok {
			return
		}

		seen[n] = struct{}{}

		if s, ok := n.(*Symbol); ok {
			out = append(out, s)

			return
		}

		for _, c := range n.operands() {
			walk(c)
		}
	}

	walk(e)

	return out
}

// Equal reports whether a and b are structurally identical graphs. Leaves
// compare by identity, constants by value.
func Equal(a, b Expr) bool {
	if a == b {
		return true
	}

	switch x := a.(type) {
	case *Constant:
		y, ok := b.(*Constant)

		return ok && (x.v == y.v || (math.IsNaN(x.v) && math.IsNaN(y.v)))
	case *Symbol:
		return false
	case *unary:
		y, ok := b.(*unary)

		return ok && x.op == y.op && Equal(x.x, y.x)
	case *binary:
		y, ok := b.(*binary)

		return ok && x.op == y.op && Equal(x.a, y.a) && Equal(x.b, y.b)
	case *power:
		y, ok := b.(*power)

		return ok && x.p == y.p && Equal(x.x, y.x)
	}

	return false
}

// Eval substitutes env into e and returns the numeric result.
func Eval(e Expr, env Env) (float64, error) {
	return newEvaluator(env).eval(e)
}

// evaluator memoizes shared sub-graphs so that a DAG is evaluated once per node.
type evaluator struct {
	env  Env
	memo map[Expr]float64
}

func newEvaluator(env Env) *evaluator {
	return &evaluator{env: env, memo: make(map[Expr]float64)}
}

func (ev *evaluator) eval(e Expr) (float64, error) {
	if v, ok := ev.memo[e]; ok {
		return v, nil
	}

	if s, ok := e.(*Symbol); ok {
		v, bound := ev.env[s]
		if !bound {
			return 0, fmt.Errorf("%w: %s", ErrUnbound, s.name)
		}

		ev.memo[e] = v

		return v, nil
	}

	ops := e.operands()
	args := make([]float64, len(ops))

	for i, op := range ops {
		v, err := ev.eval(op)
		if err != nil {
			return 0, err
		}

		args[i] = v
	}

	v := e.apply(args)
	ev.memo[e] = v

	return v, nil
}

//////
// Helpers.
//////

func constants(a, b Expr) (float64, float64, bool) {
	ca, okA := a.(*Constant)
	cb, okB := b.(*Constant)

	if !okA || !okB {
		return 0, 0, false
	}

	return ca.v, cb.v, true
}

func isConst(e Expr, v float64) bool {
	c, ok := e.(*Constant)

	return ok && c.v == v
}
