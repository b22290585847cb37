package stats

import "math"

// Band is one row of a banding table: values at or above Min map to Value
type Band[T any] struct {
	Min   float64
	Value T
}

// Bands is an ordered lookup table, highest Min first.
// The last row acts as the catch-all for anything below every other bound.
type Bands[T any] []Band[T]

// Lookup returns the value of the first band whose Min is <= x
func (b Bands[T]) Lookup(x float64) T {
	for _, band := range b {
		if x >= band.Min {
			return band.Value
		}
	}
	var zero T
	if len(b) == 0 {
		return zero
	}
	return b[len(b)-1].Value
}

// Below is the Min of a catch-all row
var Below = math.Inf(-1)
