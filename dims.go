package kern

import (
	"fmt"
)

// selector resolves which input dimensions a kernel reads and whether its
// length scales are shared or one per active dimension.
type selector struct {
	// active is nil when every dimension is active.
	active []int

	// ard is the requested ARD flag, before any implicit promotion by a
	// length-scale vector.
	ard bool
}

// newSelector validates the construction-time invariants of the selector.
func newSelector(active []int, ard bool) (*selector, error) {
	if ard && active == nil {
		return nil, fmt.Errorf("%w: 'ard' can only be set to true if 'active_dims' was supplied", ErrConfiguration)
	}

	seen := make(map[int]struct{}, len(active))

	for _, d := range active {
		if d < 0 {
			return nil, fmt.Errorf("%w: 'active_dims' must be non-negative, got %d", ErrConfiguration, d)
		}

		if _, dup := seen[d]; dup {
			return nil, fmt.Errorf("%w: 'active_dims' contains %d more than once", ErrConfiguration, d)
		}

		seen[d] = struct{}{}
	}

	var dims []int
	if active != nil {
		dims = append([]int(nil), active...)
	}

	return &selector{active: dims, ard: ard}, nil
}

// lengthScales resolves the initial length-scale vector from an optional
// explicit value:
//   - nil: ones, one per active dimension under ARD, a single one otherwise
//   - one value: broadcast to every active dimension under ARD
//   - several values: kept as is, and must match the active dimension count
//     when active dimensions were supplied.
func (s *selector) lengthScales(explicit []float64) ([]float64, error) {
	switch {
	case explicit == nil && s.ard:
		return ones(len(s.active)), nil
	case explicit == nil:
		return ones(1), nil
	case len(explicit) == 1 && s.ard:
		return broadcast(FieldLengthScales, explicit, len(s.active))
	case len(explicit) > 1 && s.active != nil && len(explicit) != len(s.active):
		return nil, fmt.Errorf("%w: dimension mismatch between 'active_dims' (%d) and the number of length_scales (%d)",
			ErrConfiguration, len(s.active), len(explicit))
	}

	return append([]float64(nil), explicit...), nil
}

// check validates a realized input dimensionality d against the selector
// and a per-dimension hyperparameter of length perDim.
func (s *selector) check(d, perDim int) error {
	if s.active == nil {
		if perDim > 1 && d != perDim {
			return fmt.Errorf("%w: length scales vector dimension (%d) does not equal input space dimension (%d)",
				ErrDimensionMismatch, perDim, d)
		}

		return nil
	}

	for _, a := range s.active {
		if a >= d {
			return fmt.Errorf("%w: active dimension %d is out of range for a %d-dimensional input space",
				ErrDimensionMismatch, a, d)
		}
	}

	return nil
}

// rows returns the input rows that feed the distance computation for a
// d-dimensional input. check must have succeeded for d.
func (s *selector) rows(d int) []int {
	if s.active != nil {
		return s.active
	}

	all := make([]int, d)
	for i := range all {
		all[i] = i
	}

	return all
}

// activeDims returns a copy of the active dimensions, or nil.
func (s *selector) activeDims() []int {
	if s.active == nil {
		return nil
	}

	return append([]int(nil), s.active...)
}
