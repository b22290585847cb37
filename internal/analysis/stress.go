package analysis

import (
	"math"
	"time"

	"healthscore/internal/stats"
	"healthscore/internal/store"
)

const (
	// MaxStress is the ceiling of the stress scale
	MaxStress = 3.0

	stressHRWeight  = 0.6
	stressHRVWeight = 0.4

	// Confidence multipliers
	noHRVConfidence      = 0.7
	exerciseConfidence   = 0.5
	minSummaryConfidence = 0.5

	// maxZoneGap caps how long one sample can count towards zone minutes
	maxZoneGap = 10 * time.Minute
)

// StressCategory is the zone a stress level falls in
type StressCategory string

const (
	StressLow      StressCategory = "low"
	StressModerate StressCategory = "moderate"
	StressHigh     StressCategory = "high"
)

var stressCategoryBands = stats.Bands[StressCategory]{
	{Min: 2, Value: StressHigh},
	{Min: 1, Value: StressModerate},
	{Min: stats.Below, Value: StressLow},
}

// StressCategoryFor maps a 0-3 stress level onto its zone
func StressCategoryFor(level float64) StressCategory {
	return stressCategoryBands.Lookup(level)
}

// HeartRatePoint is a timestamped heart rate sample
type HeartRatePoint struct {
	Time time.Time
	BPM  float64
}

// HRVPoint is a timestamped SDNN sample
type HRVPoint struct {
	Time         time.Time
	Milliseconds float64
}

// StressSample is one scored reading
type StressSample struct {
	Time           time.Time
	Level          float64
	HeartRate      float64
	BaselineHR     float64
	HRV            *float64
	BaselineHRV    *float64
	DuringExercise bool
	Confidence     float64
}

// ElevatedPeriod is a contiguous run of readings at or above the threshold
type ElevatedPeriod struct {
	Start   time.Time
	End     time.Time
	Average float64
	Peak    float64
}

// Duration is the length of the period
func (p ElevatedPeriod) Duration() time.Duration {
	return p.End.Sub(p.Start)
}

// StressDay is the full stress picture for one day
type StressDay struct {
	Samples []StressSample
	Periods []ElevatedPeriod
	Summary store.StressSummary
}

// StressCalculator turns heart rate and HRV streams into stress readings
type StressCalculator struct {
	Threshold      float64
	MinPeriod      time.Duration
	WorkoutBuffer  time.Duration
	HRVMatchWindow time.Duration
}

// DefaultStressCalculator returns the calculator with the standard settings
func DefaultStressCalculator() StressCalculator {
	return StressCalculator{
		Threshold:      2.0,
		MinPeriod:      5 * time.Minute,
		WorkoutBuffer:  60 * time.Minute,
		HRVMatchWindow: 30 * time.Minute,
	}
}

// StressLevel combines HR elevation (60%) and HRV depression (40%) into a
// 0-3 level. Without a usable HRV pair the HR component carries full weight.
// ok is false when neither component can be scored.
func StressLevel(currentHR, baselineHR float64, hrv, baselineHRV *float64) (level float64, ok bool) {
	var b stats.Blend
	if currentHR > 0 && baselineHR > 0 {
		b.Add(hrStressComponent(currentHR-baselineHR), stressHRWeight)
	}
	if hrv != nil && baselineHRV != nil && *baselineHRV > 0 && *hrv > 0 {
		depression := (*baselineHRV - *hrv) / *baselineHRV * 100
		b.Add(hrvStressComponent(depression), stressHRVWeight)
	}
	level, ok = b.Value()
	if !ok {
		return 0, false
	}
	return stats.Clamp(level, 0, MaxStress), true
}

// hrStressComponent maps bpm above baseline through breakpoints at 10, 20 and 30
func hrStressComponent(elevation float64) float64 {
	return piecewiseStress(elevation, 10, 20, 30)
}

// hrvStressComponent maps percent below baseline through breakpoints at 10, 25 and 40
func hrvStressComponent(depression float64) float64 {
	return piecewiseStress(depression, 10, 25, 40)
}

// piecewiseStress is linear from 0 to 1 over [0,b1], 1 to 2 over [b1,b2],
// 2 to 3 over [b2,b3] and 3 beyond
func piecewiseStress(x, b1, b2, b3 float64) float64 {
	switch {
	case x <= 0:
		return 0
	case x < b1:
		return x / b1
	case x < b2:
		return 1 + (x-b1)/(b2-b1)
	case x < b3:
		return 2 + (x-b2)/(b3-b2)
	default:
		return MaxStress
	}
}

// Samples scores each heart rate point. Both streams must be sorted by time.
// HRV is matched to the nearest point within HRVMatchWindow. Points that
// cannot be scored are left out.
func (c StressCalculator) Samples(hr []HeartRatePoint, hrv []HRVPoint, baselineHR float64, baselineHRV *float64, workouts []store.WorkoutRecord) []StressSample {
	samples := make([]StressSample, 0, len(hr))
	j := 0
	for _, p := range hr {
		var matched *float64
		if len(hrv) > 0 {
			for j+1 < len(hrv) && absDuration(hrv[j+1].Time.Sub(p.Time)) <= absDuration(hrv[j].Time.Sub(p.Time)) {
				j++
			}
			if absDuration(hrv[j].Time.Sub(p.Time)) <= c.HRVMatchWindow {
				v := hrv[j].Milliseconds
				matched = &v
			}
		}

		level, ok := StressLevel(p.BPM, baselineHR, matched, baselineHRV)
		if !ok {
			continue
		}
		s := StressSample{
			Time:           p.Time,
			Level:          level,
			HeartRate:      p.BPM,
			BaselineHR:     baselineHR,
			HRV:            matched,
			BaselineHRV:    baselineHRV,
			DuringExercise: c.nearWorkout(p.Time, workouts),
			Confidence:     1.0,
		}
		if matched == nil || baselineHRV == nil {
			s.Confidence *= noHRVConfidence
		}
		if s.DuringExercise {
			s.Confidence *= exerciseConfidence
		}
		samples = append(samples, s)
	}
	return samples
}

func (c StressCalculator) nearWorkout(t time.Time, workouts []store.WorkoutRecord) bool {
	for _, w := range workouts {
		end := w.End
		if end.IsZero() {
			end = w.Start.Add(w.Duration)
		}
		if !t.Before(w.Start.Add(-c.WorkoutBuffer)) && !t.After(end.Add(c.WorkoutBuffer)) {
			return true
		}
	}
	return false
}

// ElevatedPeriods scans time-ordered samples for runs at or above the
// threshold, skipping exercise readings. A run ends at the first reading
// below threshold, or at the last reading when the stream ends open.
func (c StressCalculator) ElevatedPeriods(samples []StressSample) []ElevatedPeriod {
	var (
		periods []ElevatedPeriod
		open    *ElevatedPeriod
		sum     float64
		count   int
		last    time.Time
	)

	emit := func(end time.Time) {
		open.End = end
		open.Average = sum / float64(count)
		if open.Duration() >= c.MinPeriod {
			periods = append(periods, *open)
		}
		open, sum, count = nil, 0, 0
	}

	for _, s := range samples {
		if s.DuringExercise {
			continue
		}
		last = s.Time
		if s.Level >= c.Threshold {
			if open == nil {
				open = &ElevatedPeriod{Start: s.Time}
			}
			sum += s.Level
			count++
			open.Peak = math.Max(open.Peak, s.Level)
			continue
		}
		if open != nil {
			emit(s.Time)
		}
	}
	if open != nil {
		emit(last)
	}
	return periods
}

// Summarize aggregates the valid readings: not during exercise and with
// confidence above one half. Zone minutes credit each reading with the gap
// to the next one, capped at ten minutes.
func (c StressCalculator) Summarize(samples []StressSample) store.StressSummary {
	var (
		summary store.StressSummary
		sum     float64
	)
	for i, s := range samples {
		if s.DuringExercise || s.Confidence <= minSummaryConfidence {
			continue
		}
		summary.ValidSamples++
		sum += s.Level
		summary.Max = math.Max(summary.Max, s.Level)

		var gap time.Duration
		if i+1 < len(samples) {
			gap = min(samples[i+1].Time.Sub(s.Time), maxZoneGap)
		}
		mins := gap.Minutes()
		switch StressCategoryFor(s.Level) {
		case StressLow:
			summary.LowMinutes += mins
		case StressModerate:
			summary.ModerateMinutes += mins
		default:
			summary.HighMinutes += mins
		}
	}
	if summary.ValidSamples > 0 {
		summary.Average = sum / float64(summary.ValidSamples)
	}
	summary.ElevatedPeriods = len(c.ElevatedPeriods(samples))
	return summary
}

// Day scores the streams and summarises them in one call
func (c StressCalculator) Day(hr []HeartRatePoint, hrv []HRVPoint, baselineHR float64, baselineHRV *float64, workouts []store.WorkoutRecord) StressDay {
	samples := c.Samples(hr, hrv, baselineHR, baselineHRV, workouts)
	return StressDay{
		Samples: samples,
		Periods: c.ElevatedPeriods(samples),
		Summary: c.Summarize(samples),
	}
}

// Downsample averages contiguous buckets of ceil(n/target) samples for
// charting. It returns a copy of the input when n <= target.
func Downsample(samples []StressSample, target int) []StressSample {
	n := len(samples)
	if target <= 0 || n <= target {
		return append([]StressSample(nil), samples...)
	}
	size := (n + target - 1) / target

	out := make([]StressSample, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		out = append(out, averageBucket(samples[start:end]))
	}
	return out
}

func averageBucket(bucket []StressSample) StressSample {
	var (
		level, hr, baseHR, conf float64
		hrv, baseHRV            []float64
		exercise                bool
	)
	for _, s := range bucket {
		level += s.Level
		hr += s.HeartRate
		baseHR += s.BaselineHR
		conf += s.Confidence
		if s.HRV != nil {
			hrv = append(hrv, *s.HRV)
		}
		if s.BaselineHRV != nil {
			baseHRV = append(baseHRV, *s.BaselineHRV)
		}
		exercise = exercise || s.DuringExercise
	}
	n := float64(len(bucket))
	return StressSample{
		Time:           bucket[0].Time,
		Level:          level / n,
		HeartRate:      hr / n,
		BaselineHR:     baseHR / n,
		HRV:            meanOpt(hrv),
		BaselineHRV:    meanOpt(baseHRV),
		DuringExercise: exercise,
		Confidence:     conf / n,
	}
}

func meanOpt(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	m := stats.Mean(values)
	return &m
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// StressDescription returns a human-readable description of a category
func StressDescription(c StressCategory) string {
	switch c {
	case StressHigh:
		return "High - sustained sympathetic load"
	case StressModerate:
		return "Moderate - some activation"
	default:
		return "Low - calm"
	}
}
