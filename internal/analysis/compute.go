package analysis

import (
	"time"

	"healthscore/internal/stats"
	"healthscore/internal/store"
)

// Engine composes the calculators into a full daily score. It holds no
// mutable state and is safe to use from several goroutines.
type Engine struct {
	Profile        HeartRateProfile
	Baselines      BaselineCalculator
	Strain         StrainCalculator
	Recovery       RecoveryCalculator
	Stress         StressCalculator
	SleepNeedHours float64
}

// NewEngine creates an engine with default calculators for profile
func NewEngine(profile HeartRateProfile) Engine {
	return Engine{
		Profile:        profile,
		Baselines:      DefaultBaselineCalculator(),
		Strain:         NewStrainCalculator(profile),
		Recovery:       NewRecoveryCalculator(),
		Stress:         DefaultStressCalculator(),
		SleepNeedHours: DefaultSleepNeedHours,
	}
}

// DayInputs are the raw signals for one calendar day. Streams must be sorted
// by time. Sleep holds the segments of the night that ended on Date.
type DayInputs struct {
	Date      time.Time
	Workouts  []store.WorkoutRecord
	HeartRate []HeartRatePoint
	HRV       []HRVPoint
	Sleep     []SleepSegment

	RestingHR       *float64
	RespiratoryRate *float64
	VO2Max          *float64
	ActiveCalories  *float64
	Steps           *int
}

// DayResult is the scored day plus the intermediate results behind it
type DayResult struct {
	Record   store.DailyRecord
	Baseline BaselineResult
	Recovery RecoveryBreakdown
	Stress   StressDay
}

// ScoreDay scores one day against prior history. History may include days
// outside the baseline windows; days on or after the target are ignored.
func (e Engine) ScoreDay(in DayInputs, history []store.DailyRecord) DayResult {
	day := store.StartOfDay(in.Date)
	rec := store.DailyRecord{
		Date:            day,
		RestingHR:       in.RestingHR,
		RespiratoryRate: in.RespiratoryRate,
		VO2Max:          in.VO2Max,
		ActiveCalories:  in.ActiveCalories,
		Steps:           in.Steps,
	}

	var result DayResult
	result.Baseline = e.Baselines.Compute(history, day)
	rec.Baseline = result.Baseline.Baseline

	rec.Workouts = make([]store.WorkoutRecord, 0, len(in.Workouts))
	for _, w := range in.Workouts {
		rec.Workouts = append(rec.Workouts, e.Strain.Scored(w))
	}
	rec.Strain = e.Strain.DailyStrain(in.Workouts)

	if len(in.HRV) > 0 {
		vals := make([]float64, 0, len(in.HRV))
		for _, p := range in.HRV {
			if p.Milliseconds > 0 {
				vals = append(vals, p.Milliseconds)
			}
		}
		rec.HRV = meanOpt(vals)
	}

	prior := priorNights(history, day)
	e.applySleep(&rec, in.Sleep, prior)

	inputs := RecoveryInputs{
		HRV:              rec.HRV,
		RestingHR:        rec.RestingHR,
		SleepHours:       rec.SleepHours,
		RecentSleepHours: prior.hours,
		SleepEfficiency:  rec.SleepEfficiency,
		SleepConsistency: rec.SleepConsistency,
		YesterdayStrain:  prior.yesterdayStrain,
		RespiratoryRate:  rec.RespiratoryRate,
	}
	result.Recovery = e.Recovery.Score(inputs, rec.Baseline)
	if rec.Baseline != nil {
		score := result.Recovery.Score
		rec.Recovery = &score
	}

	if len(in.HeartRate) > 0 {
		var baselineHRV *float64
		if rec.Baseline != nil {
			m := rec.Baseline.HRVMean
			baselineHRV = &m
		}
		result.Stress = e.Stress.Day(in.HeartRate, in.HRV, e.stressBaselineHR(rec), baselineHRV, rec.Workouts)
		summary := result.Stress.Summary
		rec.Stress = &summary
	}

	result.Record = rec
	return result
}

// stressBaselineHR prefers the personal resting baseline, then today's
// resting HR, then the profile
func (e Engine) stressBaselineHR(rec store.DailyRecord) float64 {
	if rec.Baseline != nil && rec.Baseline.RHRMean > 0 {
		return rec.Baseline.RHRMean
	}
	if rec.RestingHR != nil && *rec.RestingHR > 0 {
		return *rec.RestingHR
	}
	return e.Profile.RestingHR
}

func (e Engine) applySleep(rec *store.DailyRecord, segments []SleepSegment, prior nightHistory) {
	summary, ok := SummarizeSleep(segments)
	if !ok {
		return
	}
	hours := summary.Hours()
	deep := summary.DeepHours()
	onset := summary.Onset
	rec.SleepHours = &hours
	rec.DeepSleepHours = &deep
	rec.SleepOnset = &onset
	if eff, ok := summary.Efficiency(); ok {
		rec.SleepEfficiency = &eff
	}

	onsets := append(append([]time.Time(nil), prior.onsets...), onset)
	if c, ok := SleepConsistency(onsets); ok {
		rec.SleepConsistency = &c
	}

	nights := append(append([]float64(nil), prior.hours...), hours)
	debt := SleepDebt(nights, e.SleepNeedHours)
	rec.SleepDebt = &debt
}

// nightHistory is what the trailing week of records says about sleep and load
type nightHistory struct {
	hours           []float64
	onsets          []time.Time
	yesterdayStrain *float64
}

// priorNights collects the six nights before day, oldest first
func priorNights(history []store.DailyRecord, day time.Time) nightHistory {
	var h nightHistory
	from := day.AddDate(0, 0, -(SleepDebtNights - 1))
	yesterday := store.DayKey(day.AddDate(0, 0, -1))
	for _, r := range history {
		d := store.StartOfDay(r.Date.In(day.Location()))
		if d.Before(from) || !d.Before(day) {
			continue
		}
		if r.SleepHours != nil {
			h.hours = append(h.hours, *r.SleepHours)
		}
		if r.SleepOnset != nil {
			h.onsets = append(h.onsets, *r.SleepOnset)
		}
		if store.DayKey(d) == yesterday {
			s := r.Strain
			h.yesterdayStrain = &s
		}
	}
	return h
}

// DeepSleepHistory returns nightly deep sleep hours, oldest first, for every
// calendar day from the earliest record through day. Nights with no record or
// no deep sleep reading count as zero.
func DeepSleepHistory(history []store.DailyRecord, day time.Time) []float64 {
	end := store.StartOfDay(day)
	byDay := make(map[string]store.DailyRecord, len(history))
	var first time.Time
	for _, r := range history {
		d := store.StartOfDay(r.Date.In(day.Location()))
		if d.After(end) {
			continue
		}
		byDay[store.DayKey(d)] = r
		if first.IsZero() || d.Before(first) {
			first = d
		}
	}
	if first.IsZero() {
		return nil
	}

	var out []float64
	for d := first; !d.After(end); d = d.AddDate(0, 0, 1) {
		if r, ok := byDay[store.DayKey(d)]; ok && r.DeepSleepHours != nil {
			out = append(out, *r.DeepSleepHours)
		} else {
			out = append(out, 0)
		}
	}
	return out
}

// DataQualityDescription grades how much of a day's record was populated
func DataQualityDescription(rec store.DailyRecord) string {
	present := 0
	for _, p := range []*float64{rec.HRV, rec.RestingHR, rec.SleepHours, rec.RespiratoryRate} {
		if p != nil {
			present++
		}
	}
	if rec.Stress != nil {
		present++
	}
	switch score := float64(present) / 5; {
	case score >= 0.95:
		return "Complete"
	case score >= 0.6:
		return "Good"
	case score >= 0.4:
		return "Partial"
	default:
		return "Sparse"
	}
}

// AverageStrain returns the mean daily strain over records, ok false when empty
func AverageStrain(records []store.DailyRecord) (float64, bool) {
	if len(records) == 0 {
		return 0, false
	}
	vals := make([]float64, len(records))
	for i, r := range records {
		vals[i] = r.Strain
	}
	return stats.Mean(vals), true
}
