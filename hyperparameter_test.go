package kern

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/thalesfsp/kern/sym"
)

func TestHyperparameterDefaults(t *testing.T) {
	h, err := newHyperparameter("SE.length_scales", ones(1), true)
	require.NoError(t, err)

	assert.Equal(t, "SE.length_scales", h.Name())
	assert.Equal(t, 1, h.Len())
	assert.True(t, mat.Equal(mat.NewVecDense(1, []float64{1}), h.Value()))
	assert.True(t, h.HasLog())
	assert.True(t, mat.Equal(mat.NewVecDense(1, []float64{0}), h.Log()))
	assert.False(t, h.Fixed())
	assert.Nil(t, h.Prior())
	assert.Equal(t, []Bounds{Unbounded()}, h.Bounds())
	assert.Equal(t, "SE.length_scales=[1]", h.String())
}

func TestHyperparameterLogRoundTrip(t *testing.T) {
	h, err := newHyperparameter("E.length_scales", ones(2), true)
	require.NoError(t, err)

	require.NoError(t, h.SetValue(2, 0.5))
	assert.InDeltaSlice(t, []float64{math.Log(2), math.Log(0.5)}, h.Log().RawVector().Data, 1e-12)

	require.NoError(t, h.SetLog(1))
	assert.InDeltaSlice(t, []float64{math.E, math.E}, h.Values(), 1e-12)

	// Broadcast of a single element.
	require.NoError(t, h.SetValue(3))
	assert.Equal(t, []float64{3, 3}, h.Values())
}

func TestHyperparameterSetterErrors(t *testing.T) {
	h, err := newHyperparameter("SE.length_scales", ones(2), true)
	require.NoError(t, err)

	err = h.SetValue(1, 2, 3)
	assert.True(t, errors.Is(err, ErrShape), err)

	err = h.SetValue(0)
	assert.True(t, errors.Is(err, ErrConfiguration), err)

	err = h.SetValue(-1, 1)
	assert.True(t, errors.Is(err, ErrConfiguration), err)

	err = h.SetValue(math.NaN())
	assert.True(t, errors.Is(err, ErrConfiguration), err)

	// Failed writes leave the value untouched.
	assert.Equal(t, []float64{1, 1}, h.Values())

	_, err = newHyperparameter("SE.signal_variance", []float64{-2}, true)
	assert.True(t, errors.Is(err, ErrConfiguration), err)

	_, err = newHyperparameter("SE.signal_variance", nil, true)
	assert.True(t, errors.Is(err, ErrShape), err)
}

func TestHyperparameterRejectsNonFinite(t *testing.T) {
	h, err := newHyperparameter("SE.length_scales", ones(1), true)
	require.NoError(t, err)

	err = h.SetValue(math.Inf(1))
	assert.True(t, errors.Is(err, ErrConfiguration), err)

	// exp(1000) overflows to +Inf.
	err = h.SetLog(1000)
	assert.True(t, errors.Is(err, ErrConfiguration), err)
	assert.Contains(t, err.Error(), "1000")

	// exp(-800) underflows to 0.
	err = h.SetLog(-800)
	assert.True(t, errors.Is(err, ErrConfiguration), err)
	assert.Contains(t, err.Error(), "-800")

	err = h.SetLog(math.NaN())
	assert.True(t, errors.Is(err, ErrConfiguration), err)

	assert.Equal(t, []float64{1}, h.Values())

	free, err := newHyperparameter("offset", []float64{0}, false)
	require.NoError(t, err)

	err = free.SetValue(math.Inf(-1))
	assert.True(t, errors.Is(err, ErrConfiguration), err)

	_, err = newHyperparameter("SE.signal_variance", []float64{math.Inf(1)}, true)
	assert.True(t, errors.Is(err, ErrConfiguration), err)

	// A rejected write leaves the covariance finite.
	k, err := NewSquaredExponential()
	require.NoError(t, err)

	err = k.LengthScales().SetLog(1000)
	require.Error(t, err)

	cov, err := Numeric(k, mat.NewDense(1, 2, []float64{0, 1}), nil)
	require.NoError(t, err)
	assert.False(t, math.IsInf(mat.Sum(cov), 0))
}

func TestHyperparameterWithoutLogView(t *testing.T) {
	h, err := newHyperparameter("offset", []float64{-1}, false)
	require.NoError(t, err)

	assert.False(t, h.HasLog())
	assert.Nil(t, h.Log())

	err = h.SetLog(0)
	assert.True(t, errors.Is(err, ErrNoLogView), err)

	require.NoError(t, h.SetValue(-5))
	assert.Equal(t, []float64{-5}, h.Values())
}

func TestHyperparameterBounds(t *testing.T) {
	h, err := newHyperparameter("SE.length_scales", ones(1), true)
	require.NoError(t, err)

	require.NoError(t, h.setBounds(Bounds{Lower: 0.5, Upper: 2}))
	require.NoError(t, h.SetValue(2))

	err = h.SetValue(2.5)
	assert.True(t, errors.Is(err, ErrConfiguration), err)

	err = h.SetLog(math.Log(0.1))
	assert.True(t, errors.Is(err, ErrConfiguration), err)

	// Bounds that exclude the current value are rejected and not applied.
	err = h.setBounds(Bounds{Lower: 3, Upper: 4})
	assert.True(t, errors.Is(err, ErrConfiguration), err)
	assert.Equal(t, []Bounds{{Lower: 0.5, Upper: 2}}, h.Bounds())

	err = h.setBounds(Bounds{Lower: 4, Upper: 3})
	assert.True(t, errors.Is(err, ErrConfiguration), err)
}

func TestHyperparameterPrior(t *testing.T) {
	h, err := newHyperparameter("SE.signal_variance", []float64{2}, true)
	require.NoError(t, err)

	assert.Zero(t, h.LogPrior())

	prior := distuv.LogNormal{Mu: 0, Sigma: 1}
	h.SetPrior(prior)

	assert.InDelta(t, prior.LogProb(2), h.LogPrior(), 1e-12)

	h.SetPrior(nil)
	assert.Zero(t, h.LogPrior())
}

func TestHyperparameterSymbols(t *testing.T) {
	h, err := newHyperparameter("SE.length_scales", ones(2), true)
	require.NoError(t, err)

	s := h.Symbols()
	r, c := s.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 1, c)
	assert.Same(t, s, h.Symbols())
	assert.Equal(t, "SE.length_scales_0", s.At(0, 0).String())

	require.NoError(t, h.SetValue(0.25, 4))

	env := sym.Env{}
	h.Bind(env)

	got, err := s.Eval(env)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 4}, []float64{got.At(0, 0), got.At(1, 0)})
}
