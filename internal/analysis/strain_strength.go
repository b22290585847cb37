package analysis

import (
	"math"

	"healthscore/internal/stats"
	"healthscore/internal/store"
)

const (
	strengthHRWeight      = 0.65
	strengthCalorieWeight = 0.35
	// strengthCaloriesPerMinuteCeiling maps kcal/min onto 0-1
	strengthCaloriesPerMinuteCeiling = 10.0
	strengthExponent                 = 1.3
	strengthScale                    = 18.0
)

// Strength kinds, from the activity type or an explicit SubType
const (
	StrengthFunctional  = "functional"
	StrengthTraditional = "traditional"
	StrengthCore        = "core"
	StrengthFlexibility = "flexibility"
)

var strengthMultipliers = map[string]float64{
	StrengthFunctional:  1.15,
	StrengthTraditional: 1.00,
	StrengthCore:        0.85,
	StrengthFlexibility: 0.60,
}

// Sessions include rest between sets, so duration is bucketed rather than continuous
var strengthDurationBands = stats.Bands[float64]{
	{Min: 90, Value: 1.40},
	{Min: 60, Value: 1.30},
	{Min: 45, Value: 1.15},
	{Min: 30, Value: 1.00},
	{Min: 15, Value: 0.80},
	{Min: stats.Below, Value: 0.50},
}

// StrengthStrain scores a resistance session:
// intensity^1.3 × durationFactor × 18 × typeMultiplier, clamped to 21
func StrengthStrain(w store.WorkoutRecord, hrIntensity *float64) float64 {
	mins := workoutMinutes(w)
	if mins <= 0 {
		return 0
	}

	var calorieIntensity *float64
	if cpm := caloriesPerMinute(w); cpm != nil {
		ci := stats.Clamp(*cpm/strengthCaloriesPerMinuteCeiling, 0, 1)
		calorieIntensity = &ci
	}

	var b stats.Blend
	b.AddOpt(hrIntensity, strengthHRWeight)
	b.AddOpt(calorieIntensity, strengthCalorieWeight)
	intensity, ok := b.Value()
	if !ok {
		return 0
	}

	strain := math.Pow(intensity, strengthExponent) *
		strengthDurationBands.Lookup(mins) *
		strengthScale *
		strengthMultipliers[StrengthKind(w)]
	return stats.Clamp(strain, 0, MaxStrain)
}

// StrengthKind resolves the modality of a strength workout
func StrengthKind(w store.WorkoutRecord) string {
	if _, ok := strengthMultipliers[w.SubType]; ok {
		return w.SubType
	}
	switch w.ActivityType {
	case store.ActivityFunctional:
		return StrengthFunctional
	case store.ActivityCore:
		return StrengthCore
	case store.ActivityFlexibility:
		return StrengthFlexibility
	default:
		return StrengthTraditional
	}
}
