package analysis

import (
	"math"

	"healthscore/internal/stats"
	"healthscore/internal/store"
)

// MaxStrain is the ceiling of the strain scale
const MaxStrain = 21.0

const (
	// hrIntensityBoost calibrates HR-reserve intensity for the cardio model
	hrIntensityBoost    = 1.2
	maxCardioIntensity  = 1.2
	calorieStrainWeight = 0.3
	cardioStrainScale   = 3.0
)

// StrainLevel is the categorical reading of a strain score
type StrainLevel string

const (
	StrainLight    StrainLevel = "light"
	StrainModerate StrainLevel = "moderate"
	StrainHigh     StrainLevel = "high"
	StrainAllOut   StrainLevel = "all_out"
)

var strainLevelBands = stats.Bands[StrainLevel]{
	{Min: 18, Value: StrainAllOut},
	{Min: 14, Value: StrainHigh},
	{Min: 10, Value: StrainModerate},
	{Min: stats.Below, Value: StrainLight},
}

// StrainLevelFor categorises a 0-21 strain score
func StrainLevelFor(strain float64) StrainLevel {
	return strainLevelBands.Lookup(strain)
}

// Calories-per-minute intensity tiers used when no heart rate is recorded
var calorieIntensityBands = stats.Bands[float64]{
	{Min: 15, Value: 0.90},
	{Min: 12, Value: 0.80},
	{Min: 9, Value: 0.65},
	{Min: 6, Value: 0.50},
	{Min: 3, Value: 0.35},
	{Min: stats.Below, Value: 0.20},
}

// activityMultipliers calibrate calorie-based intensity per activity
var activityMultipliers = map[store.ActivityType]float64{
	store.ActivityRunning:    1.10,
	store.ActivityCycling:    1.00,
	store.ActivityHIIT:       1.20,
	store.ActivityRowing:     1.05,
	store.ActivityElliptical: 0.95,
	store.ActivityHiking:     0.85,
	store.ActivityWalking:    0.70,
	store.ActivityYoga:       0.50,
}

// StrainCalculator converts workouts into 0-21 strain scores
type StrainCalculator struct {
	Profile HeartRateProfile
}

// NewStrainCalculator creates a calculator for the given heart rate profile
func NewStrainCalculator(profile HeartRateProfile) StrainCalculator {
	return StrainCalculator{Profile: profile}
}

// WorkoutStrain routes a workout to its activity model and returns its strain
// and the HR-reserve intensity, if heart rate was available
func (c StrainCalculator) WorkoutStrain(w store.WorkoutRecord) (float64, *float64) {
	var hrIntensity *float64
	if w.AverageHR != nil {
		if f, ok := c.Profile.ReserveFraction(*w.AverageHR); ok {
			hrIntensity = &f
		}
	}

	var strain float64
	switch {
	case w.ActivityType == store.ActivitySwimming:
		strain = SwimmingStrain(w, hrIntensity)
	case isStrengthActivity(w.ActivityType):
		strain = StrengthStrain(w, hrIntensity)
	default:
		strain = CardioStrain(w, hrIntensity)
	}

	return stats.Clamp(strain, 0, MaxStrain), hrIntensity
}

// Scored returns a copy of w with Strain and HRIntensity filled in
func (c StrainCalculator) Scored(w store.WorkoutRecord) store.WorkoutRecord {
	w.Strain, w.HRIntensity = c.WorkoutStrain(w)
	return w
}

// DailyStrain sums per-workout strain, capped at MaxStrain
func (c StrainCalculator) DailyStrain(workouts []store.WorkoutRecord) float64 {
	var total float64
	for _, w := range workouts {
		s, _ := c.WorkoutStrain(w)
		total += s
	}
	return math.Min(total, MaxStrain)
}

// CardioStrain is the default model for every activity without a dedicated one:
// log2(intensity × minutes + calories × 0.3 + 1) × 3
func CardioStrain(w store.WorkoutRecord, hrIntensity *float64) float64 {
	mins := workoutMinutes(w)
	kcal := math.Max(w.ActiveCalories, 0)

	var intensity float64
	if hrIntensity != nil {
		intensity = *hrIntensity * hrIntensityBoost
	} else if mins > 0 {
		mult, ok := activityMultipliers[w.ActivityType]
		if !ok {
			mult = 1.0
		}
		intensity = calorieIntensityBands.Lookup(kcal/mins) * mult
	}
	intensity = math.Min(intensity, maxCardioIntensity)

	strain := math.Log2(intensity*mins+kcal*calorieStrainWeight+1) * cardioStrainScale
	return stats.Clamp(strain, 0, MaxStrain)
}

// workoutMinutes prefers the recorded duration and falls back to end-start
func workoutMinutes(w store.WorkoutRecord) float64 {
	d := w.Duration
	if d <= 0 {
		d = w.End.Sub(w.Start)
	}
	if d <= 0 {
		return 0
	}
	return d.Minutes()
}

// caloriesPerMinute returns nil when calories or duration are missing
func caloriesPerMinute(w store.WorkoutRecord) *float64 {
	mins := workoutMinutes(w)
	if mins <= 0 || w.ActiveCalories <= 0 {
		return nil
	}
	cpm := w.ActiveCalories / mins
	return &cpm
}

func isStrengthActivity(t store.ActivityType) bool {
	switch t {
	case store.ActivityStrength, store.ActivityFunctional, store.ActivityCore, store.ActivityFlexibility:
		return true
	}
	return false
}

// StrainDescription returns a human-readable description of a strain level
func StrainDescription(level StrainLevel) string {
	switch level {
	case StrainAllOut:
		return "All out - maximal cardiovascular load"
	case StrainHigh:
		return "High - building fitness"
	case StrainModerate:
		return "Moderate - maintaining fitness"
	default:
		return "Light - active recovery"
	}
}
