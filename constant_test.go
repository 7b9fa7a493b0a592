package kern

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/thalesfsp/kern/sym"
)

func TestConstantDefaults(t *testing.T) {
	k, err := NewConstant()
	require.NoError(t, err)

	assert.Equal(t, "Const", k.Name())
	assert.Nil(t, k.ActiveDims())
	assert.False(t, k.ARD())
	assert.Len(t, k.Hyperparameters(), 1)

	if diff := cmp.Diff([]string{"Const.bias"}, k.HyperparameterNames()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}

	assert.True(t, k.Bias().HasLog())
	assert.Equal(t, []float64{1}, k.Bias().Values())
	assert.Equal(t, []float64{0}, k.Bias().Log().RawVector().Data)
}

func TestConstantFixed(t *testing.T) {
	k, err := NewConstant()
	require.NoError(t, err)

	k.Bias().SetFixed(true)
	assert.True(t, k.Bias().Fixed())
	assert.Empty(t, k.FreeHyperparameters())
}

func TestConstantRejectsStationaryOptions(t *testing.T) {
	for _, opt := range []Option{
		WithLengthScales(1.0),
		WithSignalVariance(2),
		WithARD(true),
		WithFixed(FieldLengthScales),
	} {
		_, err := NewConstant(opt)
		assert.True(t, errors.Is(err, ErrConfiguration), err)
	}
}

func TestConstantNumeric(t *testing.T) {
	k, err := NewConstant()
	require.NoError(t, err)

	x := mat.NewDense(1, 5, []float64{1, 2, 3, 4, 5})
	y := mat.NewDense(1, 5, []float64{1, 2, 3, 4, 5})

	for _, xBar := range []mat.Matrix{nil, y} {
		cov, err := Numeric(k, x, xBar)
		require.NoError(t, err)

		r, c := cov.Dims()
		assert.Equal(t, 5, r)
		assert.Equal(t, 5, c)
		assert.Equal(t, 5.0*5, mat.Sum(cov))
	}

	require.NoError(t, k.Bias().SetValue(2))

	cov, err := Numeric(k, x, y)
	require.NoError(t, err)
	assert.Equal(t, 4.0*25, mat.Sum(cov))
	assert.Equal(t, 4.0, cov.At(3, 1))
}

func TestConstantSymbolic(t *testing.T) {
	k, err := NewConstant()
	require.NoError(t, err)

	x := sym.NewSymbol("x", 1, 1)
	y := sym.NewSymbol("y", 1, 1)

	cov, err := Symbolic(k, x, nil)
	require.NoError(t, err)
	assert.True(t, cov.DependsOn(k.Bias().Symbols()))
	assert.False(t, cov.DependsOn(x))

	cov, err = Symbolic(k, x, y)
	require.NoError(t, err)
	assert.True(t, cov.DependsOn(k.Bias().Symbols()))
	assert.False(t, cov.DependsOn(x))
	assert.False(t, cov.DependsOn(y))
}

func TestConstantMixedFamilies(t *testing.T) {
	k, err := NewConstant()
	require.NoError(t, err)

	_, err = k.Evaluate(sym.NewSymbol("x", 1, 1), mat.NewDense(1, 1, []float64{2}))
	assert.True(t, errors.Is(err, ErrTypeMismatch), err)

	_, err = k.Evaluate(mat.NewDense(1, 1, []float64{2}), sym.NewSymbol("y", 1, 1))
	assert.True(t, errors.Is(err, ErrTypeMismatch), err)
}
