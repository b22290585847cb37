package analysis

import (
	"time"

	"healthscore/internal/stats"
	"healthscore/internal/store"
)

const (
	// RestDayStrain is the strain below which a day counts as rest
	RestDayStrain = 5.0

	featureLongWindow  = 7
	featureShortWindow = 3
	// ratioFloor keeps strain ratios finite on zero-strain days
	ratioFloor = 1.0
)

// Feature names, in output order
const (
	FeatRecoveryAvg7     = "recovery_avg_7d"
	FeatRecoveryAvg3     = "recovery_avg_3d"
	FeatHRVAvg7          = "hrv_avg_7d"
	FeatHRVAvg3          = "hrv_avg_3d"
	FeatRHRAvg7          = "rhr_avg_7d"
	FeatRHRAvg3          = "rhr_avg_3d"
	FeatSleepEffAvg7     = "sleep_efficiency_avg_7d"
	FeatSleepEffAvg3     = "sleep_efficiency_avg_3d"
	FeatSleepHoursAvg7   = "sleep_hours_avg_7d"
	FeatSleepHoursAvg3   = "sleep_hours_avg_3d"
	FeatStressAvg7       = "stress_avg_7d"
	FeatStressAvg3       = "stress_avg_3d"
	FeatStrainAvg7       = "strain_avg_7d"
	FeatStrainAvg3       = "strain_avg_3d"
	FeatRecoveryTrend3   = "recovery_trend_3d"
	FeatSleepTrend3      = "sleep_hours_trend_3d"
	FeatHRVTrend3        = "hrv_trend_3d"
	FeatHRVDeviationPct  = "hrv_deviation_pct"
	FeatRHRDeviation     = "rhr_deviation"
	FeatDaysSinceRest    = "days_since_rest"
	FeatSleepHoursZ      = "sleep_hours_z"
	FeatHRVZ             = "hrv_z"
	FeatRHRZ             = "rhr_z_inverted"
	FeatStressLoad       = "stress_load"
	FeatStrainBalance    = "strain_balance"
	FeatSleepStrainRatio = "sleep_to_strain_ratio"
	FeatHRVStrainRatio   = "hrv_to_strain_ratio"
)

// FeatureNames lists every feature a vector defines
var FeatureNames = []string{
	FeatRecoveryAvg7, FeatRecoveryAvg3,
	FeatHRVAvg7, FeatHRVAvg3,
	FeatRHRAvg7, FeatRHRAvg3,
	FeatSleepEffAvg7, FeatSleepEffAvg3,
	FeatSleepHoursAvg7, FeatSleepHoursAvg3,
	FeatStressAvg7, FeatStressAvg3,
	FeatStrainAvg7, FeatStrainAvg3,
	FeatRecoveryTrend3, FeatSleepTrend3, FeatHRVTrend3,
	FeatHRVDeviationPct, FeatRHRDeviation,
	FeatDaysSinceRest,
	FeatSleepHoursZ, FeatHRVZ, FeatRHRZ,
	FeatStressLoad, FeatStrainBalance,
	FeatSleepStrainRatio, FeatHRVStrainRatio,
}

// FeatureVector holds the derived features for one day. A name missing from
// the vector is absent, which is distinct from a present zero.
type FeatureVector struct {
	Date   time.Time
	values map[string]float64
}

// Get returns a feature value. ok is false when the feature is absent.
func (v FeatureVector) Get(name string) (float64, bool) {
	f, ok := v.values[name]
	return f, ok
}

// Map returns every defined feature, with nil marking absence
func (v FeatureVector) Map() map[string]*float64 {
	out := make(map[string]*float64, len(FeatureNames))
	for _, name := range FeatureNames {
		if f, ok := v.values[name]; ok {
			out[name] = &f
		} else {
			out[name] = nil
		}
	}
	return out
}

// Feature is one named value; Value is nil when absent
type Feature struct {
	Name  string
	Value *float64
}

// Features returns every defined feature in FeatureNames order
func (v FeatureVector) Features() []Feature {
	out := make([]Feature, 0, len(FeatureNames))
	for _, name := range FeatureNames {
		f := Feature{Name: name}
		if val, ok := v.values[name]; ok {
			f.Value = &val
		}
		out = append(out, f)
	}
	return out
}

// Present counts the features that have a value
func (v FeatureVector) Present() int {
	return len(v.values)
}

func (v *FeatureVector) set(name string, f float64, ok bool) {
	if ok {
		v.values[name] = f
	}
}

func (v *FeatureVector) setOpt(name string, f *float64) {
	if f != nil {
		v.values[name] = *f
	}
}

// metric extracts an optional value from a daily record
type metric func(store.DailyRecord) *float64

func recoveryOf(r store.DailyRecord) *float64        { return r.Recovery }
func hrvOf(r store.DailyRecord) *float64             { return r.HRV }
func rhrOf(r store.DailyRecord) *float64             { return r.RestingHR }
func sleepEfficiencyOf(r store.DailyRecord) *float64 { return r.SleepEfficiency }
func sleepHoursOf(r store.DailyRecord) *float64      { return r.SleepHours }

func strainOf(r store.DailyRecord) *float64 {
	s := r.Strain
	return &s
}

func stressOf(r store.DailyRecord) *float64 {
	if r.Stress == nil || r.Stress.ValidSamples == 0 {
		return nil
	}
	a := r.Stress.Average
	return &a
}

// DeriveFeatures builds the feature vector for target from records sorted by
// ascending date. Rolling windows end on and include the target day; the
// deviation and z-score baselines are the seven days before it.
func DeriveFeatures(records []store.DailyRecord, target time.Time) FeatureVector {
	day := store.StartOfDay(target)
	v := FeatureVector{Date: day, values: make(map[string]float64)}

	byDay := make(map[string]store.DailyRecord, len(records))
	for _, r := range records {
		byDay[store.DayKey(r.Date.In(target.Location()))] = r
	}
	window := func(from, to int) []store.DailyRecord {
		var out []store.DailyRecord
		for off := from; off <= to; off++ {
			if r, ok := byDay[store.DayKey(day.AddDate(0, 0, off))]; ok {
				out = append(out, r)
			}
		}
		return out
	}

	long := window(-(featureLongWindow - 1), 0)
	short := window(-(featureShortWindow - 1), 0)
	prior := window(-featureLongWindow, -1)
	today, hasToday := byDay[store.DayKey(day)]

	rolling := []struct {
		long, short string
		m           metric
	}{
		{FeatRecoveryAvg7, FeatRecoveryAvg3, recoveryOf},
		{FeatHRVAvg7, FeatHRVAvg3, hrvOf},
		{FeatRHRAvg7, FeatRHRAvg3, rhrOf},
		{FeatSleepEffAvg7, FeatSleepEffAvg3, sleepEfficiencyOf},
		{FeatSleepHoursAvg7, FeatSleepHoursAvg3, sleepHoursOf},
		{FeatStressAvg7, FeatStressAvg3, stressOf},
		{FeatStrainAvg7, FeatStrainAvg3, strainOf},
	}
	for _, f := range rolling {
		v.setOpt(f.long, meanOf(long, f.m))
		v.setOpt(f.short, meanOf(short, f.m))
	}

	// Trend slopes are per calendar day, so a missing day widens the gap
	trends := []struct {
		name string
		m    metric
	}{
		{FeatRecoveryTrend3, recoveryOf},
		{FeatSleepTrend3, sleepHoursOf},
		{FeatHRVTrend3, hrvOf},
	}
	for _, f := range trends {
		var xs, ys []float64
		for off := -(featureShortWindow - 1); off <= 0; off++ {
			r, ok := byDay[store.DayKey(day.AddDate(0, 0, off))]
			if !ok {
				continue
			}
			if p := f.m(r); p != nil {
				xs = append(xs, float64(off))
				ys = append(ys, *p)
			}
		}
		slope, ok := stats.SlopeXY(xs, ys)
		v.set(f.name, slope, ok)
	}

	if !hasToday {
		return v
	}

	priorHRV := valuesOf(prior, hrvOf)
	priorRHR := valuesOf(prior, rhrOf)
	priorSleep := valuesOf(prior, sleepHoursOf)

	if today.HRV != nil && len(priorHRV) > 0 {
		if m := stats.Mean(priorHRV); m > 0 {
			v.set(FeatHRVDeviationPct, (*today.HRV-m)/m*100, true)
		}
	}
	if today.RestingHR != nil && len(priorRHR) > 0 {
		v.set(FeatRHRDeviation, *today.RestingHR-stats.Mean(priorRHR), true)
	}

	if today.SleepHours != nil {
		z, ok := stats.ZScore(*today.SleepHours, priorSleep)
		v.set(FeatSleepHoursZ, z, ok)
	}
	if today.HRV != nil {
		z, ok := stats.ZScore(*today.HRV, priorHRV)
		v.set(FeatHRVZ, z, ok)
	}
	if today.RestingHR != nil {
		if z, ok := stats.ZScore(*today.RestingHR, priorRHR); ok {
			v.set(FeatRHRZ, -z, true)
		}
	}

	v.set(FeatDaysSinceRest, float64(DaysSinceRest(byDay, day)), true)

	if today.Stress != nil && today.Stress.ValidSamples > 0 {
		s := today.Stress
		v.set(FeatStressLoad, 0.5*s.Average+0.3*s.Max+0.2*(s.HighMinutes/60), true)
	}

	if priorStrain := valuesOf(prior, strainOf); len(priorStrain) > 0 {
		v.set(FeatStrainBalance, today.Strain-stats.Mean(priorStrain), true)
	}

	divisor := max(today.Strain, ratioFloor)
	if today.SleepHours != nil {
		v.set(FeatSleepStrainRatio, *today.SleepHours/divisor, true)
	}
	if today.HRV != nil {
		v.set(FeatHRVStrainRatio, *today.HRV/divisor, true)
	}

	return v
}

// DaysSinceRest counts consecutive days ending at day with strain at or above
// RestDayStrain. The scan stops at a rest day or a day with no record.
func DaysSinceRest(byDay map[string]store.DailyRecord, day time.Time) int {
	count := 0
	for d := day; ; d = d.AddDate(0, 0, -1) {
		r, ok := byDay[store.DayKey(d)]
		if !ok || r.Strain < RestDayStrain {
			return count
		}
		count++
	}
}

func valuesOf(records []store.DailyRecord, m metric) []float64 {
	var out []float64
	for _, r := range records {
		if p := m(r); p != nil {
			out = append(out, *p)
		}
	}
	return out
}

func meanOf(records []store.DailyRecord, m metric) *float64 {
	values := valuesOf(records, m)
	if len(values) == 0 {
		return nil
	}
	mean := stats.Mean(values)
	return &mean
}
