package kern

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSelector(t *testing.T) {
	tests := []struct {
		name    string
		active  []int
		ard     bool
		wantErr error
	}{
		{name: "all dimensions", active: nil},
		{name: "subset", active: []int{0, 2}},
		{name: "ard with subset", active: []int{0, 1, 2}, ard: true},
		{name: "ard without active dims", active: nil, ard: true, wantErr: ErrConfiguration},
		{name: "negative index", active: []int{-1}, wantErr: ErrConfiguration},
		{name: "duplicate index", active: []int{1, 1}, wantErr: ErrConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := newSelector(tt.active, tt.ard)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.active, s.activeDims())
		})
	}
}

func TestSelectorLengthScales(t *testing.T) {
	tests := []struct {
		name     string
		active   []int
		ard      bool
		explicit []float64
		want     []float64
		wantErr  error
	}{
		{name: "default shared", want: []float64{1}},
		{name: "default ard", active: []int{0, 1, 2}, ard: true, want: []float64{1, 1, 1}},
		{name: "broadcast under ard", active: []int{0, 1}, ard: true, explicit: []float64{2}, want: []float64{2, 2}},
		{name: "vector matching active dims", active: []int{0, 1}, explicit: []float64{1, 1}, want: []float64{1, 1}},
		{name: "vector without active dims", explicit: []float64{1, 2}, want: []float64{1, 2}},
		{name: "scalar with active dims", active: []int{0, 2}, explicit: []float64{3}, want: []float64{3}},
		{
			name:     "vector not matching active dims",
			active:   []int{0, 1},
			explicit: []float64{1, 1, 1},
			wantErr:  ErrConfiguration,
		},
		{
			name:     "ard vector not matching active dims",
			active:   []int{0, 1},
			ard:      true,
			explicit: []float64{1, 1, 1},
			wantErr:  ErrConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := newSelector(tt.active, tt.ard)
			require.NoError(t, err)

			got, err := s.lengthScales(tt.explicit)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectorCheckAndRows(t *testing.T) {
	all, err := newSelector(nil, false)
	require.NoError(t, err)

	require.NoError(t, all.check(3, 1))
	require.NoError(t, all.check(2, 2))
	assert.Equal(t, []int{0, 1, 2}, all.rows(3))

	err = all.check(1, 2)
	assert.True(t, errors.Is(err, ErrDimensionMismatch), err)

	subset, err := newSelector([]int{0, 2}, false)
	require.NoError(t, err)

	// Per-dimension length scales follow the active dims, not the input rows.
	require.NoError(t, subset.check(3, 2))
	assert.Equal(t, []int{0, 2}, subset.rows(3))

	err = subset.check(2, 2)
	assert.True(t, errors.Is(err, ErrDimensionMismatch), err)
}
