package analysis

import (
	"math"
	"time"

	"healthscore/internal/stats"
	"healthscore/internal/store"
)

const (
	// MinimumDaysForBaseline is how many days with both HRV and resting HR
	// the baseline window must contain before personal scoring starts
	MinimumDaysForBaseline = 5

	BaselineWindowDays = 7
	ChronicWindowDays  = 28

	// Physiological plausibility bounds applied before the IQR fence.
	// HRV must be strictly above MinPlausibleHRV.
	MinPlausibleHRV = 0.0
	MaxPlausibleHRV = 300.0
	MinPlausibleRHR = 35.0
	MaxPlausibleRHR = 120.0
)

// plausibleHRV keeps readings in (MinPlausibleHRV, MaxPlausibleHRV]
func plausibleHRV(values []float64) (kept []float64, removed int) {
	return stats.FilterRange(values, math.Nextafter(MinPlausibleHRV, math.Inf(1)), MaxPlausibleHRV)
}

// BaselineCalculator derives a personal reference from trailing daily records
type BaselineCalculator struct {
	MinimumDays       int
	WindowDays        int
	ChronicWindowDays int
}

// DefaultBaselineCalculator returns the calculator with the standard windows
func DefaultBaselineCalculator() BaselineCalculator {
	return BaselineCalculator{
		MinimumDays:       MinimumDaysForBaseline,
		WindowDays:        BaselineWindowDays,
		ChronicWindowDays: ChronicWindowDays,
	}
}

// BaselineResult carries the snapshot (nil when unavailable) plus what the
// outlier filters dropped, for logging by the caller
type BaselineResult struct {
	Baseline   *store.Baseline
	ValidDays  int
	HRVRemoved int
	RHRRemoved int
}

// Available reports whether enough history existed to build a baseline
func (r BaselineResult) Available() bool {
	return r.Baseline != nil
}

// Compute builds the baseline for target from history. Days on or after the
// target are ignored. History need not be filtered to the window in advance.
func (c BaselineCalculator) Compute(history []store.DailyRecord, target time.Time) BaselineResult {
	c = c.withDefaults()

	targetDay := store.StartOfDay(target)
	windowStart := targetDay.AddDate(0, 0, -c.WindowDays)
	chronicStart := targetDay.AddDate(0, 0, -c.ChronicWindowDays)

	var (
		hrvs, rhrs     []float64
		acute, chronic []float64
		resp           []float64
	)

	for _, rec := range history {
		d := store.StartOfDay(rec.Date.In(target.Location()))
		if !d.Before(targetDay) || d.Before(chronicStart) {
			continue
		}

		chronic = append(chronic, rec.Strain)
		if rec.RespiratoryRate != nil && *rec.RespiratoryRate > 0 {
			resp = append(resp, *rec.RespiratoryRate)
		}

		if d.Before(windowStart) {
			continue
		}
		acute = append(acute, rec.Strain)
		if rec.HRV != nil && rec.RestingHR != nil {
			hrvs = append(hrvs, *rec.HRV)
			rhrs = append(rhrs, *rec.RestingHR)
		}
	}

	result := BaselineResult{ValidDays: len(hrvs)}
	if len(hrvs) < c.MinimumDays {
		return result
	}

	hrvKept, hrvRange := plausibleHRV(hrvs)
	hrvKept, hrvIQR := stats.FilterOutliers(hrvKept)
	rhrKept, rhrRange := stats.FilterRange(rhrs, MinPlausibleRHR, MaxPlausibleRHR)
	rhrKept, rhrIQR := stats.FilterOutliers(rhrKept)
	result.HRVRemoved = hrvRange + hrvIQR
	result.RHRRemoved = rhrRange + rhrIQR

	if len(hrvKept) == 0 || len(rhrKept) == 0 {
		return result
	}

	b := &store.Baseline{
		HRVMean:       stats.Mean(hrvKept),
		HRVStdDev:     positiveStdDev(hrvKept),
		RHRMean:       stats.Mean(rhrKept),
		RHRStdDev:     positiveStdDev(rhrKept),
		ChronicStrain: stats.Mean(chronic),
		DaysOfData:    len(hrvs),
	}

	// Fall back to the chronic average when the acute slice is empty
	if len(acute) > 0 {
		b.AcuteStrain = stats.Mean(acute)
	} else {
		b.AcuteStrain = b.ChronicStrain
	}

	if len(resp) > 0 {
		r := stats.Mean(resp)
		b.RespiratoryRate = &r
	}

	result.Baseline = b
	return result
}

func (c BaselineCalculator) withDefaults() BaselineCalculator {
	d := DefaultBaselineCalculator()
	if c.WindowDays <= 0 {
		c.WindowDays = d.WindowDays
	}
	if c.ChronicWindowDays < c.WindowDays {
		c.ChronicWindowDays = max(d.ChronicWindowDays, c.WindowDays)
	}
	if c.MinimumDays <= 0 {
		c.MinimumDays = min(d.MinimumDays, c.WindowDays)
	}
	return c
}

func positiveStdDev(values []float64) *float64 {
	sd := stats.StdDev(values)
	if sd <= 0 {
		return nil
	}
	return &sd
}
