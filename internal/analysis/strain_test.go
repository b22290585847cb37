package analysis

import (
	"math"
	"testing"
	"time"

	"healthscore/internal/store"
)

func workout(activity store.ActivityType, minutes, kcal float64) store.WorkoutRecord {
	start := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)
	d := time.Duration(minutes * float64(time.Minute))
	return store.WorkoutRecord{
		ActivityType:   activity,
		Start:          start,
		End:            start.Add(d),
		Duration:       d,
		ActiveCalories: kcal,
	}
}

func TestSwimmingStrainScenario(t *testing.T) {
	calc := NewStrainCalculator(DefaultProfile())

	w := workout(store.ActivitySwimming, 90, 0)
	w.AverageHR = floatPtr(141)

	strain, intensity := calc.WorkoutStrain(w)
	if intensity == nil {
		t.Fatal("expected HR intensity")
	}
	if math.Abs(*intensity-0.637) > 0.001 {
		t.Errorf("HR intensity = %v, want ~0.637", *intensity)
	}
	// (0.75*0.637 + 0.15*0.65)/0.9 = 0.639; 0.639^1.4 * 20 * 1.5 = 16.0
	if strain < 14 || strain > 18 {
		t.Errorf("swim strain = %v, want in [14, 18]", strain)
	}
	if math.Abs(strain-16.0) > 0.2 {
		t.Errorf("swim strain = %v, want ~16.0", strain)
	}
	if StrainLevelFor(strain) != StrainHigh {
		t.Errorf("level = %v, want high", StrainLevelFor(strain))
	}
}

func TestSwimPaceIntensity(t *testing.T) {
	tests := []struct {
		name     string
		minutes  float64
		distance *float64
		expected float64
	}{
		{"no distance", 30, nil, unknownPaceIntensity},
		{"elite 1:20 per 100m", 20, floatPtr(1500), 1.0},
		{"1:45 per 100m", 35, floatPtr(2000), 0.9},
		{"2:00 per 100m boundary", 40, floatPtr(2000), 0.8},
		{"slow 4:00 per 100m", 40, floatPtr(1000), 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := workout(store.ActivitySwimming, tt.minutes, 0)
			w.Distance = tt.distance
			if got := SwimPaceIntensity(w); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("SwimPaceIntensity() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSwimmingStrokeOrdering(t *testing.T) {
	base := workout(store.ActivitySwimming, 45, 400)
	base.AverageHR = floatPtr(150)

	var prev float64
	for i, stroke := range []string{StrokeFreestyle, StrokeBackstroke, StrokeBreaststroke, StrokeButterfly} {
		w := base
		w.SubType = stroke
		got := SwimmingStrain(w, floatPtr(0.7))
		if i > 0 && got <= prev {
			t.Errorf("%s strain %v not above previous %v", stroke, got, prev)
		}
		prev = got
	}
}

func TestSwimmingDurationIsLinearAndCapped(t *testing.T) {
	hr := floatPtr(0.6)
	s30 := SwimmingStrain(workout(store.ActivitySwimming, 30, 0), hr)
	s60 := SwimmingStrain(workout(store.ActivitySwimming, 60, 0), hr)
	s120 := SwimmingStrain(workout(store.ActivitySwimming, 120, 0), hr)
	s180 := SwimmingStrain(workout(store.ActivitySwimming, 180, 0), hr)

	if math.Abs(s60-2*s30) > 1e-9 {
		t.Errorf("60 min strain %v should be double 30 min strain %v", s60, s30)
	}
	if s180 != s120 {
		t.Errorf("duration factor should cap at 120 min: %v vs %v", s180, s120)
	}
}

func TestStrengthStrain(t *testing.T) {
	tests := []struct {
		name     string
		activity store.ActivityType
		minutes  float64
		kcal     float64
		hr       *float64
		expected float64
		delta    float64
	}{
		{
			name:     "traditional 50 min with HR",
			activity: store.ActivityStrength,
			minutes:  50,
			kcal:     300,
			hr:       floatPtr(0.5),
			// intensity = 0.65*0.5 + 0.35*0.6 = 0.535; 0.535^1.3 * 1.15 * 18
			expected: math.Pow(0.535, 1.3) * 1.15 * 18,
			delta:    0.001,
		},
		{
			name:     "calories only carries full weight",
			activity: store.ActivityStrength,
			minutes:  30,
			kcal:     150,
			// intensity = 0.5; bucket 30-45 = 1.0
			expected: math.Pow(0.5, 1.3) * 18,
			delta:    0.001,
		},
		{
			name:     "flexibility discounted",
			activity: store.ActivityFlexibility,
			minutes:  30,
			kcal:     150,
			expected: math.Pow(0.5, 1.3) * 18 * 0.6,
			delta:    0.001,
		},
		{
			name:     "no signals",
			activity: store.ActivityStrength,
			minutes:  30,
			expected: 0,
		},
		{
			name:     "zero duration",
			activity: store.ActivityStrength,
			kcal:     100,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StrengthStrain(workout(tt.activity, tt.minutes, tt.kcal), tt.hr)
			if math.Abs(got-tt.expected) > tt.delta {
				t.Errorf("StrengthStrain() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStrengthKind(t *testing.T) {
	w := workout(store.ActivityStrength, 30, 0)
	if got := StrengthKind(w); got != StrengthTraditional {
		t.Errorf("StrengthKind() = %v, want traditional", got)
	}
	w.SubType = StrengthCore
	if got := StrengthKind(w); got != StrengthCore {
		t.Errorf("explicit sub-type: StrengthKind() = %v, want core", got)
	}
	if got := StrengthKind(workout(store.ActivityFunctional, 30, 0)); got != StrengthFunctional {
		t.Errorf("functional activity: StrengthKind() = %v", got)
	}
}

func TestCardioStrain(t *testing.T) {
	tests := []struct {
		name     string
		activity store.ActivityType
		minutes  float64
		kcal     float64
		hr       *float64
		expected float64
		delta    float64
	}{
		{
			name:     "HR based",
			activity: store.ActivityRunning,
			minutes:  45,
			kcal:     500,
			hr:       floatPtr(0.7),
			// log2(0.84*45 + 150 + 1) * 3
			expected: math.Log2(0.84*45+150+1) * 3,
			delta:    0.001,
		},
		{
			name:     "calorie tiers with running multiplier",
			activity: store.ActivityRunning,
			minutes:  40,
			kcal:     400,
			// 10 kcal/min -> 0.65 * 1.1
			expected: math.Log2(0.715*40+120+1) * 3,
			delta:    0.001,
		},
		{
			name:     "walking discounted",
			activity: store.ActivityWalking,
			minutes:  60,
			kcal:     240,
			// 4 kcal/min -> 0.35 * 0.7
			expected: math.Log2(0.245*60+72+1) * 3,
			delta:    0.001,
		},
		{
			name:     "unknown activity uses neutral multiplier",
			activity: store.ActivityOther,
			minutes:  20,
			kcal:     40,
			expected: math.Log2(0.2*20+12+1) * 3,
			delta:    0.001,
		},
		{
			name:     "HIIT multiplier",
			activity: store.ActivityHIIT,
			minutes:  30,
			kcal:     600,
			// 20 kcal/min -> 0.9 * 1.2 = 1.08
			expected: math.Log2(1.08*30+180+1) * 3,
			delta:    0.001,
		},
		{
			name:     "empty workout",
			activity: store.ActivityCycling,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CardioStrain(workout(tt.activity, tt.minutes, tt.kcal), tt.hr)
			if math.Abs(got-tt.expected) > tt.delta {
				t.Errorf("CardioStrain() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStrainBounds(t *testing.T) {
	calc := NewStrainCalculator(DefaultProfile())
	activities := []store.ActivityType{
		store.ActivityRunning, store.ActivitySwimming, store.ActivityStrength,
		store.ActivityHIIT, store.ActivityYoga, store.ActivityOther,
	}

	var all []store.WorkoutRecord
	for _, a := range activities {
		for _, mins := range []float64{0, 10, 60, 240, 600} {
			for _, hr := range []*float64{nil, floatPtr(100), floatPtr(185), floatPtr(230)} {
				w := workout(a, mins, mins*20)
				w.AverageHR = hr
				w.SubType = StrokeButterfly
				s, _ := calc.WorkoutStrain(w)
				if s < 0 || s > MaxStrain {
					t.Errorf("%s %v min: strain %v out of bounds", a, mins, s)
				}
				all = append(all, w)
			}
		}
	}

	daily := calc.DailyStrain(all)
	if daily != MaxStrain {
		t.Errorf("DailyStrain() = %v, want capped at %v", daily, MaxStrain)
	}
	if calc.DailyStrain(nil) != 0 {
		t.Error("DailyStrain(nil) should be 0")
	}
}

func TestScoredFillsStrain(t *testing.T) {
	calc := NewStrainCalculator(DefaultProfile())
	w := workout(store.ActivityCycling, 60, 600)
	w.AverageHR = floatPtr(150)

	scored := calc.Scored(w)
	if scored.Strain <= 0 {
		t.Errorf("Scored().Strain = %v, want > 0", scored.Strain)
	}
	if scored.HRIntensity == nil {
		t.Error("Scored().HRIntensity should be set")
	}
	if w.Strain != 0 {
		t.Error("Scored should not modify its argument")
	}
}

func TestWorkoutMinutesFallsBackToSpan(t *testing.T) {
	w := workout(store.ActivityRunning, 30, 0)
	w.Duration = 0
	if got := workoutMinutes(w); math.Abs(got-30) > 1e-9 {
		t.Errorf("workoutMinutes() = %v, want 30", got)
	}
}

func TestStrainLevelFor(t *testing.T) {
	tests := []struct {
		strain   float64
		expected StrainLevel
	}{
		{0, StrainLight},
		{9.99, StrainLight},
		{10, StrainModerate},
		{14, StrainHigh},
		{17.9, StrainHigh},
		{18, StrainAllOut},
		{21, StrainAllOut},
	}
	for _, tt := range tests {
		if got := StrainLevelFor(tt.strain); got != tt.expected {
			t.Errorf("StrainLevelFor(%v) = %v, want %v", tt.strain, got, tt.expected)
		}
	}
}
