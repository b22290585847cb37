package store

import "time"

// ActivityType tags a workout for strain routing
type ActivityType string

const (
	ActivityRunning     ActivityType = "running"
	ActivityCycling     ActivityType = "cycling"
	ActivitySwimming    ActivityType = "swimming"
	ActivityStrength    ActivityType = "strength_training"
	ActivityFunctional  ActivityType = "functional_training"
	ActivityCore        ActivityType = "core_training"
	ActivityFlexibility ActivityType = "flexibility"
	ActivityHIIT        ActivityType = "hiit"
	ActivityRowing      ActivityType = "rowing"
	ActivityElliptical  ActivityType = "elliptical"
	ActivityHiking      ActivityType = "hiking"
	ActivityWalking     ActivityType = "walking"
	ActivityYoga        ActivityType = "yoga"
	ActivityOther       ActivityType = "other"
)

// DailyRecord is one calendar day of scored data
type DailyRecord struct {
	Date             time.Time  `db:"date"`     // local midnight
	Strain           float64    `db:"strain"`   // 0-21, 0 when no activity
	Recovery         *float64   `db:"recovery"` // 0-100, nil until a baseline exists
	SleepHours       *float64   `db:"sleep_hours"`
	SleepEfficiency  *float64   `db:"sleep_efficiency"`  // percent
	SleepConsistency *float64   `db:"sleep_consistency"` // 0-100
	SleepDebt        *float64   `db:"sleep_debt"`        // hours
	DeepSleepHours   *float64   `db:"deep_sleep_hours"`
	SleepOnset       *time.Time `db:"sleep_onset"`
	HRV              *float64   `db:"hrv"`        // ms
	RestingHR        *float64   `db:"resting_hr"` // bpm
	RespiratoryRate  *float64   `db:"respiratory_rate"`
	VO2Max           *float64   `db:"vo2max"`
	Steps            *int       `db:"steps"`
	ActiveCalories   *float64   `db:"active_calories"`

	Workouts []WorkoutRecord
	Stress   *StressSummary
	Baseline *Baseline
}

// WorkoutRecord is a single scored exercise session
type WorkoutRecord struct {
	ID             string        `db:"id"`
	ActivityType   ActivityType  `db:"activity_type"`
	SubType        string        `db:"sub_type"` // stroke style or strength kind
	Start          time.Time     `db:"start_time"`
	End            time.Time     `db:"end_time"`
	Duration       time.Duration `db:"duration_seconds"`
	Distance       *float64      `db:"distance"` // meters
	ActiveCalories float64       `db:"active_calories"`
	AverageHR      *float64      `db:"avg_hr"`
	MaxHR          *float64      `db:"max_hr"`
	Strain         float64       `db:"strain"`
	HRIntensity    *float64      `db:"hr_intensity"`
}

// Baseline is the personal reference a day was scored against
type Baseline struct {
	HRVMean         float64  `db:"hrv_mean"`
	HRVStdDev       *float64 `db:"hrv_sd"`
	RHRMean         float64  `db:"rhr_mean"`
	RHRStdDev       *float64 `db:"rhr_sd"`
	AcuteStrain     float64  `db:"acute_strain"`
	ChronicStrain   float64  `db:"chronic_strain"`
	RespiratoryRate *float64 `db:"respiratory_rate"`
	DaysOfData      int      `db:"days_of_data"`
}

// StressSummary aggregates a day of stress samples (exercise excluded)
type StressSummary struct {
	Average         float64 `db:"stress_avg"`
	Max             float64 `db:"stress_max"`
	LowMinutes      float64 `db:"stress_low_minutes"`
	ModerateMinutes float64 `db:"stress_moderate_minutes"`
	HighMinutes     float64 `db:"stress_high_minutes"`
	ElevatedPeriods int     `db:"stress_elevated_periods"`
	ValidSamples    int     `db:"stress_valid_samples"`
}

// XPState is the persisted Hunter level progression
type XPState struct {
	Level          int    `db:"level"`
	CurrentXP      int    `db:"current_xp"`
	XPToNextLevel  int    `db:"xp_to_next"`
	TotalXP        int    `db:"total_xp"`
	Streak         int    `db:"streak"`
	LastAwardedDay string `db:"last_awarded_day"` // YYYY-MM-DD, empty if never
}

// BodyComposition is a body-composition measurement
type BodyComposition struct {
	Date             time.Time `db:"date"`
	WeightKg         *float64  `db:"weight_kg"`
	BodyFatPercent   *float64  `db:"body_fat_pct"`
	LeanMassKg       *float64  `db:"lean_mass_kg"`
	BodyWaterPercent *float64  `db:"body_water_pct"`
}

// SwimRecord is a personal best for a pool event
type SwimRecord struct {
	Event      string    `db:"event"` // e.g. "100_free"
	Seconds    float64   `db:"seconds"`
	AchievedAt time.Time `db:"achieved_at"`
}

// dayLayout is the storage format of every date column
const dayLayout = "2006-01-02"

// DayKey formats a date as the YYYY-MM-DD storage key
func DayKey(t time.Time) string {
	return t.Format(dayLayout)
}

// StartOfDay truncates t to local midnight in its own location
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
