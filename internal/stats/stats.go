package stats

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean, or 0 for an empty slice
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the sample standard deviation (n-1 denominator).
// Returns 0 when fewer than 2 values are given.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)-1))
}

// ZScore compares current against the distribution of history.
// ok is false when history has fewer than 2 points or zero spread.
func ZScore(current float64, history []float64) (z float64, ok bool) {
	if len(history) < 2 {
		return 0, false
	}
	return ZScoreOf(current, Mean(history), StdDev(history))
}

// ZScoreOf computes (value - mean) / sd against precomputed moments
func ZScoreOf(value, mean, sd float64) (float64, bool) {
	if sd <= 0 || math.IsNaN(sd) || math.IsInf(sd, 0) {
		return 0, false
	}
	z := (value - mean) / sd
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return 0, false
	}
	return z, true
}

// FilterRange keeps values inside [lo, hi] and reports how many were dropped
func FilterRange(values []float64, lo, hi float64) (kept []float64, removed int) {
	kept = make([]float64, 0, len(values))
	for _, v := range values {
		if v < lo || v > hi || math.IsNaN(v) {
			removed++
			continue
		}
		kept = append(kept, v)
	}
	return kept, removed
}

// FilterOutliers drops values outside the 1.5×IQR fence.
// With fewer than 4 values the quartiles are meaningless and nothing is removed.
func FilterOutliers(values []float64) (kept []float64, removed int) {
	if len(values) < 4 {
		return append([]float64(nil), values...), 0
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	q1 := Quantile(sorted, 0.25)
	q3 := Quantile(sorted, 0.75)
	iqr := q3 - q1
	lo := q1 - 1.5*iqr
	hi := q3 + 1.5*iqr

	return FilterRange(values, lo, hi)
}

// Quantile returns the q-th quantile of an ascending slice using linear interpolation
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*frac
}

// SlopeXY fits an ordinary least squares line through the points (xs[i], ys[i])
// and returns its slope. ok is false with fewer than 2 points, mismatched
// lengths, or when every x is equal.
func SlopeXY(xs, ys []float64) (slope float64, ok bool) {
	if len(xs) != len(ys) || len(xs) < 2 {
		return 0, false
	}

	meanX := Mean(xs)
	meanY := Mean(ys)

	var num, den float64
	for i, x := range xs {
		dx := x - meanX
		num += dx * (ys[i] - meanY)
		den += dx * dx
	}
	if den == 0 {
		return 0, false
	}
	return num / den, true
}

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Normalize linearly maps v from [lo, hi] onto 0–100, clamped.
// Passing lo > hi inverts the scale (lower raw values score higher).
func Normalize(v, lo, hi float64) float64 {
	if lo == hi {
		return 0
	}
	return Clamp((v-lo)/(hi-lo)*100, 0, 100)
}
