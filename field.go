package kern

import (
	"math"

	"github.com/thalesfsp/kern/sym"
)

// field is the arithmetic a kernel formula is written against. It has exactly
// two implementations, numeric (float64) and symbolic (sym.Expr), so each
// formula is written once and instantiated for both representation families.
type field[E any] interface {
	constant(v float64) E
	add(a, b E) E
	sub(a, b E) E
	mul(a, b E) E
	div(a, b E) E
	exp(a E) E
	pow(a E, p float64) E
}

// pairFunc is a kernel formula: the covariance between points a and b, given
// the hyperparameter values hp in declaration order.
type pairFunc[E any] func(f field[E], a, b []E, hp [][]E) E

// formula is implemented by every kernel variant.
type formula interface {
	numericPair() pairFunc[float64]
	symbolicPair() pairFunc[sym.Expr]
}

//////
// Numeric.
//////

// numeric is the float64 field. pow special-cases the exponents the
// stationary kernels use, so SE and E avoid math.Pow on the hot path.
type numeric struct{}

func (numeric) constant(v float64) float64 { return v }
func (numeric) add(a, b float64) float64   { return a + b }
func (numeric) sub(a, b float64) float64   { return a - b }
func (numeric) mul(a, b float64) float64   { return a * b }
func (numeric) div(a, b float64) float64   { return a / b }
func (numeric) exp(a float64) float64      { return math.Exp(a) }

func (numeric) pow(a, p float64) float64 {
	switch p {
	case 1:
		return a
	case 2:
		return a * a
	case 0.5:
		return math.Sqrt(a)
	}

	return math.Pow(a, p)
}

//////
// Symbolic.
//////

// symbolic is the sym.Expr field. Every operation goes through the sym
// constructors, which simplify as they build.
type symbolic struct{}

func (symbolic) constant(v float64) sym.Expr        { return sym.Const(v) }
func (symbolic) add(a, b sym.Expr) sym.Expr         { return sym.Add(a, b) }
func (symbolic) sub(a, b sym.Expr) sym.Expr         { return sym.Sub(a, b) }
func (symbolic) mul(a, b sym.Expr) sym.Expr         { return sym.Mul(a, b) }
func (symbolic) div(a, b sym.Expr) sym.Expr         { return sym.Div(a, b) }
func (symbolic) exp(a sym.Expr) sym.Expr            { return sym.Exp(a) }
func (symbolic) pow(a sym.Expr, p float64) sym.Expr { return sym.Pow(a, p) }

//////
// Covariance assembly.
//////

// covariance evaluates pair over every (xs[i], ys[j]) and returns the
// row-major (len(xs) x len(ys)) result. When self is true, xs and ys are the
// same point set and the lower triangle mirrors the upper one.
func covariance[E any](f field[E], pair pairFunc[E], xs, ys [][]E, hp [][]E, self bool) []E {
	n, nBar := len(xs), len(ys)
	out := make([]E, n*nBar)

	for i := 0; i < n; i++ {
		start := 0
		if self {
			start = i
		}

		for j := start; j < nBar; j++ {
			out[i*nBar+j] = pair(f, xs[i], ys[j], hp)

			if self && j != i {
				out[j*nBar+i] = out[i*nBar+j]
			}
		}
	}

	return out
}
