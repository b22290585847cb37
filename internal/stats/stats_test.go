package stats

import (
	"math"
	"testing"
)

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"empty slice", nil, 0},
		{"single value", []float64{5}, 5},
		{"multiple values", []float64{1, 2, 3, 4, 5}, 3},
		{"negative values", []float64{-2, 2}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Mean(tt.values); got != tt.expected {
				t.Errorf("Mean() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStdDev(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
		delta    float64
	}{
		{"empty", nil, 0, 0},
		{"single value", []float64{42}, 0, 0},
		{"identical values", []float64{3, 3, 3}, 0, 0},
		// sample sd of 2,4,4,4,5,5,7,9 = sqrt(32/7)
		{"sample denominator", []float64{2, 4, 4, 4, 5, 5, 7, 9}, 2.138, 0.001},
		{"two values", []float64{10, 20}, 7.071, 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StdDev(tt.values)
			if math.Abs(got-tt.expected) > tt.delta {
				t.Errorf("StdDev() = %v, want %v (±%v)", got, tt.expected, tt.delta)
			}
		})
	}
}

func TestZScore(t *testing.T) {
	t.Run("insufficient history", func(t *testing.T) {
		if _, ok := ZScore(50, []float64{50}); ok {
			t.Error("ZScore() with 1 point should be unavailable")
		}
	})

	t.Run("zero spread is unavailable", func(t *testing.T) {
		z, ok := ZScore(60, []float64{60, 60, 60, 60})
		if ok {
			t.Errorf("ZScore() with zero sd = %v, want unavailable", z)
		}
		if math.IsNaN(z) || math.IsInf(z, 0) {
			t.Errorf("ZScore() leaked non-finite value %v", z)
		}
	})

	t.Run("one sd above", func(t *testing.T) {
		history := []float64{10, 20}
		sd := StdDev(history)
		z, ok := ZScore(15+sd, history)
		if !ok {
			t.Fatal("ZScore() unexpectedly unavailable")
		}
		if math.Abs(z-1) > 1e-9 {
			t.Errorf("ZScore() = %v, want 1", z)
		}
	})

	t.Run("ZScoreOf guards non-positive sd", func(t *testing.T) {
		if _, ok := ZScoreOf(1, 0, -1); ok {
			t.Error("ZScoreOf() with negative sd should be unavailable")
		}
	})
}

func TestFilterRange(t *testing.T) {
	kept, removed := FilterRange([]float64{30, 50, 60, 130, 119}, 35, 120)
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if len(kept) != 3 || kept[0] != 50 || kept[2] != 119 {
		t.Errorf("kept = %v, want [50 60 119]", kept)
	}
}

func TestFilterOutliers(t *testing.T) {
	tests := []struct {
		name        string
		values      []float64
		wantRemoved int
		wantLen     int
	}{
		{"too few values", []float64{1, 100, 1000}, 0, 3},
		{"no outliers", []float64{50, 52, 48, 51, 49, 53}, 0, 6},
		{"single spike", []float64{50, 52, 48, 51, 49, 53, 250}, 1, 6},
		{"low and high spikes", []float64{5, 50, 52, 48, 51, 49, 53, 250}, 2, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kept, removed := FilterOutliers(tt.values)
			if removed != tt.wantRemoved {
				t.Errorf("removed = %d, want %d", removed, tt.wantRemoved)
			}
			if len(kept) != tt.wantLen {
				t.Errorf("len(kept) = %d, want %d", len(kept), tt.wantLen)
			}
		})
	}
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	if got := Quantile(sorted, 0.5); got != 2.5 {
		t.Errorf("Quantile(0.5) = %v, want 2.5", got)
	}
	if got := Quantile(sorted, 0); got != 1 {
		t.Errorf("Quantile(0) = %v, want 1", got)
	}
	if got := Quantile(sorted, 1); got != 4 {
		t.Errorf("Quantile(1) = %v, want 4", got)
	}
}

func TestSlopeXY(t *testing.T) {
	tests := []struct {
		name     string
		xs, ys   []float64
		expected float64
		ok       bool
	}{
		{"empty", nil, nil, 0, false},
		{"single point", []float64{0}, []float64{3}, 0, false},
		{"mismatched lengths", []float64{0, 1}, []float64{3}, 0, false},
		{"same x", []float64{2, 2}, []float64{3, 4}, 0, false},
		{"two points", []float64{0, 1}, []float64{60, 70}, 10, true},
		{"flat", []float64{0, 1, 2}, []float64{5, 5, 5}, 0, true},
		{"declining", []float64{0, 1, 2}, []float64{80, 70, 60}, -10, true},
		{"noisy", []float64{0, 1, 2}, []float64{1, 3, 2}, 0.5, true},
		{"gap widens run", []float64{-2, 0}, []float64{50, 60}, 5, true},
		{"uneven spacing", []float64{-6, -1, 0}, []float64{0, 5, 6}, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SlopeXY(tt.xs, tt.ys)
			if ok != tt.ok {
				t.Fatalf("SlopeXY() ok = %v, want %v", ok, tt.ok)
			}
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("SlopeXY() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		v, lo    float64
		hi       float64
		expected float64
	}{
		{"midpoint", 70, 20, 120, 50},
		{"below range clamps", 10, 20, 120, 0},
		{"above range clamps", 150, 20, 120, 100},
		{"inverted range", 50, 90, 40, 80},
		{"degenerate range", 5, 5, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.v, tt.lo, tt.hi)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Normalize(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.expected)
			}
		})
	}
}
