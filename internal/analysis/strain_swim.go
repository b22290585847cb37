package analysis

import (
	"math"

	"healthscore/internal/stats"
	"healthscore/internal/store"
)

// Swimming model constants. Pool HR sensors are unreliable, so pace and
// calories are blended in, but HR still dominates when present.
const (
	swimHRWeight          = 0.75
	swimPaceWeight        = 0.15
	swimCalorieWeight     = 0.10
	swimPaceWeightNoHR    = 0.85
	swimCalorieWeightNoHR = 0.15

	// unknownPaceIntensity is used when distance is missing
	unknownPaceIntensity = 0.65
	// swimCaloriesPerMinuteCeiling maps kcal/min onto 0-1
	swimCaloriesPerMinuteCeiling = 12.0

	swimExponent = 1.4
	swimScale    = 20.0
	// Duration is linear, not logarithmic: one hour = 1.0, capped at two hours
	swimMaxDurationFactor = 2.0
)

// Stroke styles recorded in WorkoutRecord.SubType for swims
const (
	StrokeFreestyle    = "freestyle"
	StrokeBackstroke   = "backstroke"
	StrokeBreaststroke = "breaststroke"
	StrokeButterfly    = "butterfly"
	StrokeMixed        = "mixed"
)

var strokeMultipliers = map[string]float64{
	StrokeButterfly:    1.25,
	StrokeBreaststroke: 1.10,
	StrokeBackstroke:   1.05,
	StrokeFreestyle:    1.00,
	StrokeMixed:        1.00,
}

// Minutes per 100m; lower bound of each row is the slower edge
var swimPaceBands = stats.Bands[float64]{
	{Min: 3.5, Value: 0.5},
	{Min: 3.0, Value: 0.6},
	{Min: 2.5, Value: 0.7},
	{Min: 2.0, Value: 0.8},
	{Min: 1.5, Value: 0.9},
	{Min: stats.Below, Value: 1.0},
}

// SwimmingStrain scores a swim:
// intensity^1.4 × 20 × durationFactor × strokeMultiplier, clamped to 21
func SwimmingStrain(w store.WorkoutRecord, hrIntensity *float64) float64 {
	mins := workoutMinutes(w)
	if mins <= 0 {
		return 0
	}

	pace := SwimPaceIntensity(w)

	var calorieIntensity *float64
	if cpm := caloriesPerMinute(w); cpm != nil {
		ci := stats.Clamp(*cpm/swimCaloriesPerMinuteCeiling, 0, 1)
		calorieIntensity = &ci
	}

	var b stats.Blend
	if hrIntensity != nil {
		b.Add(*hrIntensity, swimHRWeight)
		b.Add(pace, swimPaceWeight)
		b.AddOpt(calorieIntensity, swimCalorieWeight)
	} else {
		b.Add(pace, swimPaceWeightNoHR)
		b.AddOpt(calorieIntensity, swimCalorieWeightNoHR)
	}
	intensity, _ := b.Value()

	durationFactor := math.Min(mins/60, swimMaxDurationFactor)

	strain := math.Pow(intensity, swimExponent) * swimScale * durationFactor * StrokeMultiplier(w.SubType)
	return stats.Clamp(strain, 0, MaxStrain)
}

// SwimPaceIntensity buckets minutes per 100m into an intensity.
// Swims without distance get the unknown-pace default.
func SwimPaceIntensity(w store.WorkoutRecord) float64 {
	mins := workoutMinutes(w)
	if w.Distance == nil || *w.Distance <= 0 || mins <= 0 {
		return unknownPaceIntensity
	}
	per100 := mins / (*w.Distance / 100)
	return swimPaceBands.Lookup(per100)
}

// StrokeMultiplier returns the energy-cost multiplier for a stroke style
func StrokeMultiplier(stroke string) float64 {
	if m, ok := strokeMultipliers[stroke]; ok {
		return m
	}
	return 1.0
}
