package service

import (
	"context"
	"fmt"
	"time"

	"healthscore/internal/analysis"
	"healthscore/internal/ingest"
	"healthscore/internal/store"
)

// QueryService provides read-only queries for the TUI and reports
type QueryService struct {
	store       *store.DB
	feed        ingest.Feed
	engine      analysis.Engine
	chartPoints int
}

// NewQueryService creates a new query service. The feed may be nil, in
// which case stress timelines are unavailable.
func NewQueryService(store *store.DB, feed ingest.Feed, engine analysis.Engine, chartPoints int) *QueryService {
	if chartPoints <= 0 {
		chartPoints = StressChartPoints
	}
	return &QueryService{store: store, feed: feed, engine: engine, chartPoints: chartPoints}
}

// DashboardData contains all data needed for the Today screen
type DashboardData struct {
	Date   time.Time
	Record *store.DailyRecord // nil when the day has not been scored

	RecoveryZone analysis.RecoveryZone
	RecoveryText string
	StrainLevel  analysis.StrainLevel
	StrainText   string
	StressText   string
	DataQuality  string

	// Training load from the baseline, when one exists
	ACWR     *float64
	LoadRisk analysis.LoadRisk
	LoadText string

	AvgStrain7 *float64

	// Oldest first, one entry per day; recovery is nil on cold-start days
	StrainHistory   []float64
	RecoveryHistory []*float64
	HistoryDates    []time.Time
}

// Dashboard fetches the scored record for day and the recent history around it
func (q *QueryService) Dashboard(day time.Time) (*DashboardData, error) {
	day = store.StartOfDay(day)
	data := &DashboardData{Date: day}

	records, err := q.store.ListDailyRecords(day.AddDate(0, 0, -(DashboardSparkDays - 1)), day)
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}

	var week []store.DailyRecord
	weekStart := day.AddDate(0, 0, -6)
	for i := range records {
		r := records[i]
		data.HistoryDates = append(data.HistoryDates, r.Date)
		data.StrainHistory = append(data.StrainHistory, r.Strain)
		data.RecoveryHistory = append(data.RecoveryHistory, r.Recovery)
		if !r.Date.Before(weekStart) {
			week = append(week, r)
		}
		if store.DayKey(r.Date) == store.DayKey(day) {
			data.Record = &records[i]
		}
	}
	if avg, ok := analysis.AverageStrain(week); ok {
		data.AvgStrain7 = &avg
	}

	rec := data.Record
	if rec == nil {
		data.DataQuality = "No data"
		return data, nil
	}

	data.StrainLevel = analysis.StrainLevelFor(rec.Strain)
	data.StrainText = analysis.StrainDescription(data.StrainLevel)
	if rec.Recovery != nil {
		data.RecoveryZone = analysis.RecoveryZoneFor(*rec.Recovery)
		data.RecoveryText = analysis.RecoveryDescription(data.RecoveryZone)
	} else {
		data.RecoveryText = "Building your baseline"
	}
	if rec.Stress != nil && rec.Stress.ValidSamples > 0 {
		data.StressText = analysis.StressDescription(analysis.StressCategoryFor(rec.Stress.Average))
	}
	if b := rec.Baseline; b != nil {
		if ratio, ok := analysis.ACWR(b.AcuteStrain, b.ChronicStrain); ok {
			data.ACWR = &ratio
			data.LoadRisk = analysis.ClassifyACWR(ratio)
			data.LoadText = analysis.RiskDescription(data.LoadRisk)
		}
	}
	data.DataQuality = analysis.DataQualityDescription(*rec)
	return data, nil
}

// StressTimeline is a day of stress readings ready for charting
type StressTimeline struct {
	Date    time.Time
	Points  []analysis.StressSample // downsampled
	Periods []analysis.ElevatedPeriod
	Summary store.StressSummary
	Raw     int // samples before downsampling
}

// StressTimeline recomputes the day's stress samples from the feed against
// stored history. Samples are not persisted, only their summary.
func (q *QueryService) StressTimeline(ctx context.Context, day time.Time) (*StressTimeline, error) {
	if q.feed == nil {
		return nil, fmt.Errorf("stress timeline: %w", ingest.ErrNoSamples)
	}
	day = store.StartOfDay(day)
	samples, err := q.feed.Day(ctx, day)
	if err != nil {
		return nil, err
	}
	history, err := q.store.ListDailyRecords(day.AddDate(0, 0, -ScoringHistoryDays), day.AddDate(0, 0, -1))
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	result := q.engine.ScoreDay(samples.Inputs(), history)
	return &StressTimeline{
		Date:    day,
		Points:  analysis.Downsample(result.Stress.Samples, q.chartPoints),
		Periods: result.Stress.Periods,
		Summary: result.Stress.Summary,
		Raw:     len(result.Stress.Samples),
	}, nil
}

// Features derives the feature vector for day from stored records
func (q *QueryService) Features(day time.Time) (analysis.FeatureVector, error) {
	day = store.StartOfDay(day)
	records, err := q.store.ListDailyRecords(day.AddDate(0, 0, -FeatureHistoryDays), day)
	if err != nil {
		return analysis.FeatureVector{}, fmt.Errorf("loading records: %w", err)
	}
	return analysis.DeriveFeatures(records, day), nil
}

// TrendPoint is one day of a trend series
type TrendPoint struct {
	Date       time.Time
	Strain     float64
	Recovery   *float64
	Stress     *float64
	HRV        *float64
	RestingHR  *float64
	SleepHours *float64
}

// Trend returns one point per scored day in [from, to], oldest first
func (q *QueryService) Trend(from, to time.Time) ([]TrendPoint, error) {
	records, err := q.store.ListDailyRecords(store.StartOfDay(from), store.StartOfDay(to))
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}

	points := make([]TrendPoint, 0, len(records))
	for _, r := range records {
		p := TrendPoint{
			Date:       r.Date,
			Strain:     r.Strain,
			Recovery:   r.Recovery,
			HRV:        r.HRV,
			RestingHR:  r.RestingHR,
			SleepHours: r.SleepHours,
		}
		if r.Stress != nil && r.Stress.ValidSamples > 0 {
			avg := r.Stress.Average
			p.Stress = &avg
		}
		points = append(points, p)
	}
	return points, nil
}

// LatestDay returns the most recently scored day, zero if none
func (q *QueryService) LatestDay() time.Time {
	day, err := q.store.LastScoredDay(time.Local)
	if err != nil {
		return time.Time{}
	}
	return day
}
