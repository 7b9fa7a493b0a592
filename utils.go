package kern

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

//////
// Helper functions.
//////

// toFloat64s converts a slice of integers or floats to a slice of float64
// values. Hyperparameters are stored as float64, but options accept any
// numeric type so that WithLengthScales(1, 2) and WithLengthScales(1.5, 2.5)
// both work.
//
// Important notes:
// - Creates a new slice; doesn't modify the input
// - Preserves order of elements
// - Returns nil if input is nil or empty.
func toFloat64s[T constraints.Integer | constraints.Float](vals []T) []float64 {
	if len(vals) == 0 {
		return nil
	}

	floats := make([]float64, len(vals))
	for i, v := range vals {
		floats[i] = float64(v)
	}

	return floats
}

// toInts converts a slice of integers to a slice of int.
func toInts[T constraints.Integer](vals []T) []int {
	ints := make([]int, len(vals))
	for i, v := range vals {
		ints[i] = int(v)
	}

	return ints
}

// broadcast resolves v to exactly d elements: a single element is repeated,
// d elements are copied, anything else is a shape error.
func broadcast(name string, v []float64, d int) ([]float64, error) {
	switch len(v) {
	case d:
		return append([]float64(nil), v...), nil
	case 1:
		out := make([]float64, d)
		for i := range out {
			out[i] = v[0]
		}

		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s expects 1 or %d elements, got %d", ErrShape, name, d, len(v))
	}
}

// ones returns a slice of d ones.
func ones(d int) []float64 {
	out := make([]float64, d)
	for i := range out {
		out[i] = 1
	}

	return out
}

// formatInts renders dims as "[0 2]" for log and error messages.
func formatInts(dims []int) string {
	if dims == nil {
		return "all"
	}

	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = strconv.Itoa(d)
	}

	return "[" + strings.Join(parts, " ") + "]"
}
