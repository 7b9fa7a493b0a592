package sym

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimplification(t *testing.T) {
	x := NewLeaf("x")
	y := NewLeaf("y")

	tests := []struct {
		name string
		got  Expr
		want Expr
	}{
		{"self difference", Sub(x, x), Const(0)},
		{"add zero left", Add(Const(0), x), x},
		{"add zero right", Add(x, Const(0)), x},
		{"mul zero", Mul(x, Const(0)), Const(0)},
		{"mul one", Mul(Const(1), y), y},
		{"div zero numerator", Div(Const(0), y), Const(0)},
		{"div by one", Div(x, Const(1)), x},
		{"double negation", Neg(Neg(x)), x},
		{"pow zero", Pow(x, 0), Const(1)},
		{"pow one", Pow(x, 1), x},
		{"exp of zero", Exp(Const(0)), Const(1)},
		{"abs of constant", Abs(Const(-3)), Const(3)},
		{"constant folding", Mul(Const(2), Add(Const(1), Const(2))), Const(6)},
		{"zero distance collapses", Exp(Mul(Const(-0.5), Div(Pow(Sub(x, x), 2), Pow(y, 2)))), Const(1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Truef(t, Equal(tc.want, tc.got), "want %s, got %s", tc.want, tc.got)
		})
	}
}

func TestDivByConstantZeroIsKept(t *testing.T) {
	e := Div(Const(1), Const(0))

	v, err := Eval(e, nil)
	require.NoError(t, err)
	assert.True(t, math.IsInf(v, 1))
}

func TestDependsOn(t *testing.T) {
	x := NewLeaf("x")
	y := NewLeaf("y")
	z := NewLeaf("z")

	e := Mul(Exp(Sub(x, y)), Add(y, Const(2)))

	assert.True(t, DependsOn(e, x))
	assert.True(t, DependsOn(e, y))
	assert.False(t, DependsOn(e, z))
	assert.False(t, DependsOn(Mul(Sub(z, z), x), z))
	assert.True(t, DependsOn(x, x))
}

func TestLeaves(t *testing.T) {
	x := NewLeaf("x")
	y := NewLeaf("y")

	e := Add(Mul(x, y), Mul(x, x))

	assert.Equal(t, []*Symbol{x, y}, Leaves(e))
	assert.Empty(t, Leaves(Const(3)))
}

func TestEval(t *testing.T) {
	x := NewLeaf("x")
	l := NewLeaf("l")

	e := Exp(Neg(Div(Pow(Abs(x), 2), Pow(l, 2))))

	v, err := Eval(e, Env{x: 2, l: 2})
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(-1), v, 1e-15)

	_, err = Eval(e, Env{x: 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnbound))
	assert.Contains(t, err.Error(), "l")
}

func TestEqualIsStructural(t *testing.T) {
	x := NewLeaf("x")
	other := NewLeaf("x")

	assert.True(t, Equal(Add(x, Const(1)), Add(x, Const(1))))
	assert.False(t, Equal(Add(x, Const(1)), Add(other, Const(1))))
	assert.False(t, Equal(Add(x, Const(1)), Sub(x, Const(1))))
	assert.False(t, Equal(Pow(x, 2), Pow(x, 3)))
}

func TestString(t *testing.T) {
	x := NewLeaf("x")
	l := NewLeaf("l")

	assert.Equal(t, "exp((-(sq(x)/l)))", Exp(Neg(Div(Pow(x, 2), l))).String())
	assert.Equal(t, "fabs((x-l))", Abs(Sub(x, l)).String())
	assert.Equal(t, "0.5", Const(0.5).String())
}
