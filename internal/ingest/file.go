package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"healthscore/internal/analysis"
	"healthscore/internal/store"
)

// Export is the JSON document written by the phone-side exporter
type Export struct {
	Workouts         []ExportWorkout `json:"workouts"`
	HeartRate        []ExportPoint   `json:"heart_rate"`
	RestingHeartRate []ExportPoint   `json:"resting_heart_rate"`
	HRV              []ExportPoint   `json:"hrv"`
	RespiratoryRate  []ExportPoint   `json:"respiratory_rate"`
	VO2Max           []ExportPoint   `json:"vo2max"`
	Steps            []ExportPoint   `json:"steps"`
	ActiveEnergy     []ExportPoint   `json:"active_energy"`
	Sleep            []ExportSleep   `json:"sleep"`
	BodyComposition  []ExportBody    `json:"body_composition"`
	SwimRecords      []ExportSwim    `json:"swim_records"`
}

// ExportPoint is a single timestamped quantity sample
type ExportPoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// ExportWorkout is one workout as exported
type ExportWorkout struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	SubType    string    `json:"sub_type,omitempty"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	DistanceM  *float64  `json:"distance_m,omitempty"`
	ActiveKcal float64   `json:"active_kcal"`
	AvgHR      *float64  `json:"avg_hr,omitempty"`
	MaxHR      *float64  `json:"max_hr,omitempty"`
}

// ExportSleep is one sleep-analysis segment
type ExportSleep struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Stage string    `json:"stage"`
}

// ExportBody is one body-composition measurement
type ExportBody struct {
	Date             time.Time `json:"date"`
	WeightKg         *float64  `json:"weight_kg,omitempty"`
	BodyFatPercent   *float64  `json:"body_fat_pct,omitempty"`
	LeanMassKg       *float64  `json:"lean_mass_kg,omitempty"`
	BodyWaterPercent *float64  `json:"body_water_pct,omitempty"`
}

// ExportSwim is a personal best for a pool event
type ExportSwim struct {
	Event      string    `json:"event"`
	Seconds    float64   `json:"seconds"`
	AchievedAt time.Time `json:"achieved_at"`
}

// sleepDayShift moves a segment start forward so a night lands on the
// day it ends. Segments starting after noon belong to the next day.
const sleepDayShift = 12 * time.Hour

// dayAccumulator collects samples for one day before they are reduced
type dayAccumulator struct {
	samples     DaySamples
	resting     []float64
	respiratory []float64
	vo2         []ExportPoint
	steps       []float64
	energy      []float64
}

// FileFeed serves days out of an export file held in memory
type FileFeed struct {
	loc  *time.Location
	days map[string]*DaySamples
	keys []string
}

// LoadFile reads and indexes an export file. A nil location means local time.
func LoadFile(path string, loc *time.Location) (*FileFeed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()
	return ReadExport(f, loc)
}

// ReadExport decodes an export document from r
func ReadExport(r io.Reader, loc *time.Location) (*FileFeed, error) {
	var exp Export
	if err := json.NewDecoder(r).Decode(&exp); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	return NewFileFeed(exp, loc), nil
}

// NewFileFeed groups an export by local day
func NewFileFeed(exp Export, loc *time.Location) *FileFeed {
	if loc == nil {
		loc = time.Local
	}
	acc := map[string]*dayAccumulator{}
	day := func(t time.Time) *dayAccumulator {
		d := store.StartOfDay(t.In(loc))
		key := store.DayKey(d)
		a, ok := acc[key]
		if !ok {
			a = &dayAccumulator{samples: DaySamples{Date: d}}
			acc[key] = a
		}
		return a
	}

	for _, w := range exp.Workouts {
		a := day(w.Start)
		a.samples.Workouts = append(a.samples.Workouts, workoutRecord(w))
	}
	for _, p := range dedupe(exp.HeartRate) {
		a := day(p.Time)
		a.samples.HeartRate = append(a.samples.HeartRate, analysis.HeartRatePoint{Time: p.Time, BPM: p.Value})
	}
	for _, p := range dedupe(exp.HRV) {
		a := day(p.Time)
		a.samples.HRV = append(a.samples.HRV, analysis.HRVPoint{Time: p.Time, Milliseconds: p.Value})
	}
	for _, p := range dedupe(exp.RestingHeartRate) {
		a := day(p.Time)
		a.resting = append(a.resting, p.Value)
	}
	for _, p := range dedupe(exp.RespiratoryRate) {
		a := day(p.Time)
		a.respiratory = append(a.respiratory, p.Value)
	}
	for _, p := range dedupe(exp.VO2Max) {
		a := day(p.Time)
		a.vo2 = append(a.vo2, p)
	}
	for _, p := range dedupe(exp.Steps) {
		a := day(p.Time)
		a.steps = append(a.steps, p.Value)
	}
	for _, p := range dedupe(exp.ActiveEnergy) {
		a := day(p.Time)
		a.energy = append(a.energy, p.Value)
	}
	for _, s := range exp.Sleep {
		if !s.End.After(s.Start) {
			continue
		}
		a := day(s.Start.Add(sleepDayShift))
		a.samples.Sleep = append(a.samples.Sleep, analysis.SleepSegment{
			Start: s.Start,
			End:   s.End,
			Stage: analysis.SleepStage(s.Stage),
		})
	}
	for _, b := range exp.BodyComposition {
		a := day(b.Date)
		// Later measurements on the same day win
		if a.samples.Body == nil || !b.Date.Before(a.samples.Body.Date) {
			a.samples.Body = &store.BodyComposition{
				Date:             b.Date,
				WeightKg:         b.WeightKg,
				BodyFatPercent:   b.BodyFatPercent,
				LeanMassKg:       b.LeanMassKg,
				BodyWaterPercent: b.BodyWaterPercent,
			}
		}
	}
	for _, s := range exp.SwimRecords {
		if s.Event == "" || s.Seconds <= 0 {
			continue
		}
		a := day(s.AchievedAt)
		a.samples.SwimRecords = append(a.samples.SwimRecords, store.SwimRecord(s))
	}

	feed := &FileFeed{loc: loc, days: make(map[string]*DaySamples, len(acc))}
	for key, a := range acc {
		d := a.reduce()
		feed.days[key] = &d
		feed.keys = append(feed.keys, key)
	}
	sort.Strings(feed.keys)
	return feed
}

func (a *dayAccumulator) reduce() DaySamples {
	d := a.samples
	sort.Slice(d.Workouts, func(i, j int) bool { return d.Workouts[i].Start.Before(d.Workouts[j].Start) })
	sort.Slice(d.HeartRate, func(i, j int) bool { return d.HeartRate[i].Time.Before(d.HeartRate[j].Time) })
	sort.Slice(d.HRV, func(i, j int) bool { return d.HRV[i].Time.Before(d.HRV[j].Time) })
	analysis.SortSegments(d.Sleep)

	d.RestingHR = meanOf(a.resting)
	d.RespiratoryRate = meanOf(a.respiratory)
	if len(a.vo2) > 0 {
		sort.Slice(a.vo2, func(i, j int) bool { return a.vo2[i].Time.Before(a.vo2[j].Time) })
		v := a.vo2[len(a.vo2)-1].Value
		d.VO2Max = &v
	}
	if len(a.steps) > 0 {
		var total float64
		for _, s := range a.steps {
			total += s
		}
		steps := int(total)
		d.Steps = &steps
	}
	if len(a.energy) > 0 {
		var total float64
		for _, e := range a.energy {
			total += e
		}
		d.ActiveCalories = &total
	}
	return d
}

func workoutRecord(w ExportWorkout) store.WorkoutRecord {
	id := w.ID
	if id == "" {
		id = uuid.NewString()
	}
	var dur time.Duration
	if w.End.After(w.Start) {
		dur = w.End.Sub(w.Start)
	}
	return store.WorkoutRecord{
		ID:             id,
		ActivityType:   ParseActivityType(w.Type),
		SubType:        w.SubType,
		Start:          w.Start,
		End:            w.End,
		Duration:       dur,
		Distance:       w.DistanceM,
		ActiveCalories: w.ActiveKcal,
		AverageHR:      w.AvgHR,
		MaxHR:          w.MaxHR,
	}
}

// dedupe drops samples that repeat an earlier timestamp
func dedupe(points []ExportPoint) []ExportPoint {
	seen := make(map[int64]bool, len(points))
	out := points[:0:0]
	for _, p := range points {
		k := p.Time.UnixNano()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return out
}

func meanOf(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	m := sum / float64(len(values))
	return &m
}

// Day returns the samples for the local day containing day
func (f *FileFeed) Day(ctx context.Context, day time.Time) (*DaySamples, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := store.DayKey(store.StartOfDay(day.In(f.loc)))
	d, ok := f.days[key]
	if !ok || d.IsEmpty() {
		return nil, fmt.Errorf("%s: %w", key, ErrNoSamples)
	}
	out := *d
	return &out, nil
}

// Days lists every day present in the export, ascending
func (f *FileFeed) Days(ctx context.Context) ([]time.Time, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]time.Time, 0, len(f.keys))
	for _, k := range f.keys {
		out = append(out, f.days[k].Date)
	}
	return out, nil
}
