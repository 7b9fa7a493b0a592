// Package sym provides a small symbolic expression graph used to build
// covariance matrices whose entries stay symbolic in their inputs and
// hyperparameters.
//
// Leaves are created with NewLeaf or NewSymbol and combined with Add, Sub,
// Mul, Div, Neg, Exp, Abs and Pow. Constructors simplify eagerly: constants
// fold, x-x collapses to 0, 0*y to 0, and so on, so a graph only keeps the
// dependencies that survive simplification. DependsOn answers dependency
// queries and Eval substitutes numeric values.
//
// Example:
//
//	x := sym.NewSymbol("x", 2, 1)
//	l := sym.NewLeaf("l")
//	d := sym.Sub(x.At(0, 0), x.At(1, 0))
//	k := sym.Exp(sym.Neg(sym.Div(sym.Pow(d, 2), sym.Pow(l, 2))))
//
//	sym.DependsOn(k, l)           // true
//	sym.DependsOn(sym.Sub(d, d), l) // false, d-d is the constant 0
package sym
