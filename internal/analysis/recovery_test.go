package analysis

import (
	"math"
	"testing"

	"healthscore/internal/store"
)

func TestRecoveryScore(t *testing.T) {
	calc := NewRecoveryCalculator()
	baseline := &store.Baseline{HRVMean: 60, RHRMean: 55, DaysOfData: 7}

	tests := []struct {
		name     string
		inputs   RecoveryInputs
		baseline *store.Baseline
		expected float64
		delta    float64
	}{
		{
			name:     "no components falls back to neutral",
			expected: NeutralRecovery,
		},
		{
			name:     "no components with baseline is still neutral",
			baseline: baseline,
			expected: NeutralRecovery,
		},
		{
			name:     "sleep only",
			inputs:   RecoveryInputs{SleepHours: floatPtr(8.0)},
			expected: 95.0,
			delta:    1e-9,
		},
		{
			name:     "HRV without baseline drops out",
			inputs:   RecoveryInputs{HRV: floatPtr(80), SleepHours: floatPtr(8.0)},
			expected: 95.0,
			delta:    1e-9,
		},
		{
			name: "everything at baseline",
			inputs: RecoveryInputs{
				HRV:        floatPtr(60),
				RestingHR:  floatPtr(55),
				SleepHours: floatPtr(8.0),
			},
			baseline: baseline,
			// (0.85*0.35 + 0.85*0.30 + 0.95*0.20) / 0.85
			expected: 87.353,
			delta:    0.01,
		},
		{
			name: "strong day",
			inputs: RecoveryInputs{
				HRV:             floatPtr(75),
				RestingHR:       floatPtr(48),
				SleepHours:      floatPtr(9),
				SleepEfficiency: floatPtr(94),
				YesterdayStrain: floatPtr(3),
				RespiratoryRate: floatPtr(14.2),
			},
			baseline: &store.Baseline{HRVMean: 60, RHRMean: 55, AcuteStrain: 10, ChronicStrain: 10},
			expected: 100,
			delta:    1e-9,
		},
		{
			name: "depressed HRV and raised RHR",
			inputs: RecoveryInputs{
				HRV:       floatPtr(40),
				RestingHR: floatPtr(65),
			},
			baseline: baseline,
			// HRV z = -20/9 -> 0.2; RHR z = 10/4.4 -> -z band 0.2
			expected: 20,
			delta:    1e-9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.Score(tt.inputs, tt.baseline)
			if math.Abs(got.Score-tt.expected) > tt.delta {
				t.Errorf("Score() = %v, want %v", got.Score, tt.expected)
			}
		})
	}
}

func TestRecoveryNeutralIsExact(t *testing.T) {
	got := NewRecoveryCalculator().Score(RecoveryInputs{}, nil)
	if got.Score != 50.0 {
		t.Errorf("Score() = %v, want exactly 50", got.Score)
	}
	if got.Weight != 0 {
		t.Errorf("Weight = %v, want 0", got.Weight)
	}
}

func TestRecoveryBounds(t *testing.T) {
	calc := NewRecoveryCalculator()
	values := []*float64{nil, floatPtr(0.1), floatPtr(20), floatPtr(60), floatPtr(200)}
	baselines := []*store.Baseline{
		nil,
		{HRVMean: 60, RHRMean: 55},
		{HRVMean: 60, HRVStdDev: floatPtr(1), RHRMean: 55, RHRStdDev: floatPtr(1), AcuteStrain: 30, ChronicStrain: 5},
	}

	for _, b := range baselines {
		for _, hrv := range values {
			for _, rhr := range values {
				for _, sleep := range values {
					in := RecoveryInputs{
						HRV:             hrv,
						RestingHR:       rhr,
						SleepHours:      sleep,
						SleepEfficiency: sleep,
						YesterdayStrain: hrv,
						RespiratoryRate: rhr,
					}
					got := calc.Score(in, b).Score
					if got < 0 || got > 100 || math.IsNaN(got) {
						t.Fatalf("Score(%+v) = %v out of bounds", in, got)
					}
				}
			}
		}
	}
}

func TestHRVComponentUsesPersonalStdDev(t *testing.T) {
	b := &store.Baseline{HRVMean: 60, HRVStdDev: floatPtr(3)}

	// z = 9/3 = 3 with the personal spread
	got := HRVComponent(floatPtr(69), b)
	if got == nil || *got != 1.0 {
		t.Errorf("HRVComponent() = %v, want 1.0", got)
	}

	// z = 9/9 = 1 with the default 15% spread
	b.HRVStdDev = nil
	got = HRVComponent(floatPtr(69), b)
	if got == nil || *got != 0.95 {
		t.Errorf("HRVComponent() default sd = %v, want 0.95", got)
	}

	if HRVComponent(floatPtr(60), &store.Baseline{}) != nil {
		t.Error("zero baseline mean should be unavailable")
	}
}

func TestRestingHRComponentIsInverted(t *testing.T) {
	b := &store.Baseline{RHRMean: 50}

	low := RestingHRComponent(floatPtr(44), b)
	high := RestingHRComponent(floatPtr(56), b)
	if low == nil || high == nil {
		t.Fatal("components should be available")
	}
	if *low <= *high {
		t.Errorf("lower RHR should score higher: low=%v high=%v", *low, *high)
	}
}

func TestLegacyRecoveryScore(t *testing.T) {
	b := &store.Baseline{HRVMean: 60, HRVStdDev: floatPtr(3), RHRMean: 55, RHRStdDev: floatPtr(2), AcuteStrain: 20, ChronicStrain: 10}

	// Legacy ignores the personal spread: z = 9/9 = 1
	got := LegacyRecoveryScore(floatPtr(69), nil, nil, b)
	if math.Abs(got-95) > 1e-9 {
		t.Errorf("LegacyRecoveryScore() = %v, want 95", got)
	}

	general := NewRecoveryCalculator().Score(RecoveryInputs{
		HRV:        floatPtr(69),
		RestingHR:  floatPtr(55),
		SleepHours: floatPtr(7.2),
	}, &store.Baseline{HRVMean: 60, RHRMean: 55}).Score
	legacy := LegacyRecoveryScore(floatPtr(69), floatPtr(55), floatPtr(7.2), &store.Baseline{HRVMean: 60, RHRMean: 55})
	if math.Abs(general-legacy) > 1e-9 {
		t.Errorf("legacy %v should match general %v when extras are omitted", legacy, general)
	}

	if LegacyRecoveryScore(nil, nil, nil, nil) != NeutralRecovery {
		t.Error("legacy with no inputs should be neutral")
	}
}

func TestSleepComponent(t *testing.T) {
	tests := []struct {
		name        string
		lastNight   *float64
		recent      []float64
		efficiency  *float64
		consistency *float64
		expected    *float64
	}{
		{
			name:     "nothing",
			expected: nil,
		},
		{
			name:      "duration only",
			lastNight: floatPtr(6.2),
			expected:  floatPtr(0.6),
		},
		{
			name:        "full blend with smoothing",
			lastNight:   floatPtr(8),
			recent:      []float64{6, 6},
			efficiency:  floatPtr(92),
			consistency: floatPtr(80),
			// smoothed 7.2h -> 0.85; 0.85*0.5 + 1.0*0.3 + 0.8*0.2
			expected: floatPtr(0.885),
		},
		{
			name:       "efficiency only",
			efficiency: floatPtr(78),
			expected:   floatPtr(0.6),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SleepComponent(tt.lastNight, tt.recent, tt.efficiency, tt.consistency)
			if (got == nil) != (tt.expected == nil) {
				t.Fatalf("SleepComponent() = %v, want %v", got, tt.expected)
			}
			if got != nil && math.Abs(*got-*tt.expected) > 1e-9 {
				t.Errorf("SleepComponent() = %v, want %v", *got, *tt.expected)
			}
		})
	}
}

func TestRespiratoryComponent(t *testing.T) {
	tests := []struct {
		name     string
		rate     *float64
		baseline *store.Baseline
		expected *float64
	}{
		{"missing", nil, nil, nil},
		{"population default", floatPtr(16), nil, floatPtr(0.5)},
		{"personal baseline", floatPtr(16), &store.Baseline{RespiratoryRate: floatPtr(15.8)}, floatPtr(1.0)},
		{"far off", floatPtr(19), &store.Baseline{RespiratoryRate: floatPtr(15)}, floatPtr(0.25)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RespiratoryComponent(tt.rate, tt.baseline)
			if (got == nil) != (tt.expected == nil) {
				t.Fatalf("RespiratoryComponent() = %v, want %v", got, tt.expected)
			}
			if got != nil && *got != *tt.expected {
				t.Errorf("RespiratoryComponent() = %v, want %v", *got, *tt.expected)
			}
		})
	}
}

func TestRecoveryZoneFor(t *testing.T) {
	tests := []struct {
		score    float64
		expected RecoveryZone
	}{
		{100, ZoneGreen},
		{67, ZoneGreen},
		{66.9, ZoneYellow},
		{34, ZoneYellow},
		{33.9, ZoneRed},
		{0, ZoneRed},
	}
	for _, tt := range tests {
		if got := RecoveryZoneFor(tt.score); got != tt.expected {
			t.Errorf("RecoveryZoneFor(%v) = %v, want %v", tt.score, got, tt.expected)
		}
	}
}
