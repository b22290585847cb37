package analysis

import (
	"sort"
	"time"

	"healthscore/internal/stats"
)

// SleepStage is the stage label attached to a sleep segment
type SleepStage string

const (
	StageInBed  SleepStage = "in_bed"
	StageAsleep SleepStage = "asleep"
	StageCore   SleepStage = "core"
	StageDeep   SleepStage = "deep"
	StageREM    SleepStage = "rem"
	StageAwake  SleepStage = "awake"
)

// IsAsleep reports whether the stage counts towards time asleep
func (s SleepStage) IsAsleep() bool {
	switch s {
	case StageAsleep, StageCore, StageDeep, StageREM:
		return true
	}
	return false
}

const (
	// DefaultSleepNeedHours is the nightly target used for sleep debt
	DefaultSleepNeedHours = 8.0
	// SleepDebtNights is how many trailing nights count towards debt
	SleepDebtNights = 7
	// minConsistencyNights is the fewest onsets that give a consistency score
	minConsistencyNights = 3
	// DeepSleepStreakHours is the nightly deep sleep that extends a streak
	DeepSleepStreakHours = 1.5
)

// SleepSegment is one staged interval of a night
type SleepSegment struct {
	Start time.Time
	End   time.Time
	Stage SleepStage
}

// SleepSummary aggregates one night of segments
type SleepSummary struct {
	Onset time.Time
	Wake  time.Time

	Asleep time.Duration
	Deep   time.Duration
	REM    time.Duration
	Awake  time.Duration
}

// Span is the time from first onset to final wake
func (s SleepSummary) Span() time.Duration {
	return s.Wake.Sub(s.Onset)
}

// Hours is time asleep in hours
func (s SleepSummary) Hours() float64 {
	return s.Asleep.Hours()
}

// DeepHours is deep sleep in hours
func (s SleepSummary) DeepHours() float64 {
	return s.Deep.Hours()
}

// Efficiency is time asleep as a percentage of the span. ok is false for an empty span.
func (s SleepSummary) Efficiency() (float64, bool) {
	span := s.Span()
	if span <= 0 {
		return 0, false
	}
	return stats.Clamp(float64(s.Asleep)/float64(span)*100, 0, 100), true
}

// SummarizeSleep folds a night's segments into a summary. ok is false
// when no segment records sleep.
func SummarizeSleep(segments []SleepSegment) (SleepSummary, bool) {
	var s SleepSummary
	found := false
	for _, seg := range segments {
		d := seg.End.Sub(seg.Start)
		if d <= 0 {
			continue
		}
		if s.Onset.IsZero() || seg.Start.Before(s.Onset) {
			s.Onset = seg.Start
		}
		if seg.End.After(s.Wake) {
			s.Wake = seg.End
		}
		switch {
		case seg.Stage == StageAwake:
			s.Awake += d
		case seg.Stage.IsAsleep():
			s.Asleep += d
			found = true
			switch seg.Stage {
			case StageDeep:
				s.Deep += d
			case StageREM:
				s.REM += d
			}
		}
	}
	return s, found
}

// SleepConsistency scores bedtime regularity from nightly onsets:
// 100 minus the standard deviation of bedtimes in minutes, floored at 0.
// Bedtimes are measured from noon so nights straddling midnight compare
// correctly. ok is false with fewer than three nights.
func SleepConsistency(onsets []time.Time) (float64, bool) {
	if len(onsets) < minConsistencyNights {
		return 0, false
	}
	mins := make([]float64, len(onsets))
	for i, t := range onsets {
		m := t.Hour()*60 + t.Minute() - 12*60
		if m < 0 {
			m += 24 * 60
		}
		mins[i] = float64(m)
	}
	return stats.Clamp(100-stats.StdDev(mins), 0, 100), true
}

// SleepDebt sums the shortfall against need over the most recent nights, in hours
func SleepDebt(nights []float64, need float64) float64 {
	if need <= 0 {
		need = DefaultSleepNeedHours
	}
	if len(nights) > SleepDebtNights {
		nights = nights[len(nights)-SleepDebtNights:]
	}
	var debt float64
	for _, h := range nights {
		if h < need {
			debt += need - h
		}
	}
	return debt
}

// DeepSleepStreak counts consecutive nights, newest last, with at least
// DeepSleepStreakHours of deep sleep
func DeepSleepStreak(deepHours []float64) int {
	streak := 0
	for i := len(deepHours) - 1; i >= 0; i-- {
		if deepHours[i] < DeepSleepStreakHours {
			break
		}
		streak++
	}
	return streak
}

// SortSegments orders segments by start time in place
func SortSegments(segments []SleepSegment) {
	sort.Slice(segments, func(i, j int) bool {
		return segments[i].Start.Before(segments[j].Start)
	})
}
