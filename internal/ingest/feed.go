// Package ingest is the boundary to the wearable sample feed. It delivers
// one day of time-ordered, deduplicated samples at a time.
package ingest

import (
	"context"
	"errors"
	"time"

	"healthscore/internal/analysis"
	"healthscore/internal/store"
)

// ErrNoSamples is returned when the feed has nothing for a day
var ErrNoSamples = errors.New("no samples for day")

// Feed supplies raw samples grouped by local calendar day
type Feed interface {
	// Day returns the samples for day, or ErrNoSamples
	Day(ctx context.Context, day time.Time) (*DaySamples, error)
	// Days lists every day with samples, ascending
	Days(ctx context.Context) ([]time.Time, error)
}

// DaySamples is one local day of wearable data. Streams are sorted by time;
// Sleep holds the night that ended on Date.
type DaySamples struct {
	Date      time.Time
	Workouts  []store.WorkoutRecord
	HeartRate []analysis.HeartRatePoint
	HRV       []analysis.HRVPoint
	Sleep     []analysis.SleepSegment

	RestingHR       *float64
	RespiratoryRate *float64
	VO2Max          *float64
	ActiveCalories  *float64
	Steps           *int

	Body        *store.BodyComposition
	SwimRecords []store.SwimRecord
}

// Inputs converts the samples into scoring engine inputs
func (d DaySamples) Inputs() analysis.DayInputs {
	return analysis.DayInputs{
		Date:            d.Date,
		Workouts:        d.Workouts,
		HeartRate:       d.HeartRate,
		HRV:             d.HRV,
		Sleep:           d.Sleep,
		RestingHR:       d.RestingHR,
		RespiratoryRate: d.RespiratoryRate,
		VO2Max:          d.VO2Max,
		ActiveCalories:  d.ActiveCalories,
		Steps:           d.Steps,
	}
}

// IsEmpty reports whether the day carries no signal at all
func (d DaySamples) IsEmpty() bool {
	return len(d.Workouts) == 0 && len(d.HeartRate) == 0 && len(d.HRV) == 0 &&
		len(d.Sleep) == 0 && d.RestingHR == nil && d.RespiratoryRate == nil &&
		d.VO2Max == nil && d.ActiveCalories == nil && d.Steps == nil &&
		d.Body == nil && len(d.SwimRecords) == 0
}
