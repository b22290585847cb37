package analysis

import (
	"math"
	"testing"
	"time"

	"healthscore/internal/store"
)

func engineHistory(target time.Time, days int) []store.DailyRecord {
	var out []store.DailyRecord
	for i := days; i >= 1; i-- {
		d := target.AddDate(0, 0, -i)
		onset := time.Date(d.Year(), d.Month(), d.Day()-1, 23, 0, 0, 0, time.UTC)
		out = append(out, store.DailyRecord{
			Date:           d,
			HRV:            floatPtr(60),
			RestingHR:      floatPtr(55),
			SleepHours:     floatPtr(7.5),
			DeepSleepHours: floatPtr(1.6),
			SleepOnset:     &onset,
			Strain:         10,
		})
	}
	return out
}

func nightOf(day time.Time, hours float64) []SleepSegment {
	onset := time.Date(day.Year(), day.Month(), day.Day()-1, 23, 0, 0, 0, time.UTC)
	return []SleepSegment{
		{Start: onset, End: onset.Add(90 * time.Minute), Stage: StageDeep},
		{Start: onset.Add(90 * time.Minute), End: onset.Add(time.Duration(hours * float64(time.Hour))), Stage: StageCore},
	}
}

func TestScoreDayColdStart(t *testing.T) {
	engine := NewEngine(DefaultProfile())
	target := marchDay(10)

	res := engine.ScoreDay(DayInputs{
		Date:      target,
		Sleep:     nightOf(target, 8),
		RestingHR: floatPtr(54),
		Workouts:  []store.WorkoutRecord{workout(store.ActivityRunning, 30, 300)},
	}, nil)

	rec := res.Record
	if res.Baseline.Available() || rec.Baseline != nil {
		t.Error("no history should give no baseline")
	}
	if rec.Recovery != nil {
		t.Errorf("recovery should wait for a baseline, got %v", *rec.Recovery)
	}
	// Sleep alone still scores: (0.95*0.5 + 1.0*0.3) / 0.8
	if math.Abs(res.Recovery.Score-96.875) > 1e-6 {
		t.Errorf("breakdown score = %v, want 96.875", res.Recovery.Score)
	}
	if rec.Strain <= 0 || len(rec.Workouts) != 1 || rec.Workouts[0].Strain != rec.Strain {
		t.Errorf("unexpected strain %v with workouts %+v", rec.Strain, rec.Workouts)
	}
	if rec.SleepHours == nil || math.Abs(*rec.SleepHours-8) > 1e-9 {
		t.Errorf("SleepHours = %v, want 8", rec.SleepHours)
	}
	if rec.SleepConsistency != nil {
		t.Error("one night is not enough for consistency")
	}
	if rec.SleepDebt == nil || *rec.SleepDebt != 0 {
		t.Errorf("SleepDebt = %v, want 0", rec.SleepDebt)
	}
	if rec.Stress != nil {
		t.Error("no heart rate stream should leave stress unset")
	}
}

func TestScoreDayWithBaseline(t *testing.T) {
	engine := NewEngine(DefaultProfile())
	target := marchDay(20)

	var hr []HeartRatePoint
	for m := 0; m < 120; m += 5 {
		hr = append(hr, HeartRatePoint{Time: target.Add(10*time.Hour + time.Duration(m)*time.Minute), BPM: 80})
	}

	res := engine.ScoreDay(DayInputs{
		Date:      target,
		Sleep:     nightOf(target, 7.5),
		RestingHR: floatPtr(55),
		HRV:       []HRVPoint{{Time: target.Add(10 * time.Hour), Milliseconds: 60}},
		HeartRate: hr,
	}, engineHistory(target, 10))

	rec := res.Record
	if rec.Baseline == nil {
		t.Fatal("expected a baseline")
	}
	if rec.Recovery == nil {
		t.Fatal("expected a recovery score")
	}
	if rec.HRV == nil || *rec.HRV != 60 {
		t.Errorf("HRV = %v, want 60", rec.HRV)
	}
	if res.Recovery.TrainingLoad == nil {
		t.Error("yesterday's strain should feed training load")
	}
	if rec.SleepConsistency == nil || *rec.SleepConsistency != 100 {
		t.Errorf("SleepConsistency = %v, want 100", rec.SleepConsistency)
	}
	// 7 nights of 7.5h against 8h need
	if rec.SleepDebt == nil || math.Abs(*rec.SleepDebt-3.5) > 1e-9 {
		t.Errorf("SleepDebt = %v, want 3.5", rec.SleepDebt)
	}
	if rec.Stress == nil {
		t.Fatal("expected a stress summary")
	}
	// 25 bpm over the 55 bpm baseline with HRV at baseline:
	// 0.6*2.5 + 0.4*0 = 1.5 for the matched samples
	if rec.Stress.Max < 1.5-1e-9 || rec.Stress.Max > 2.5+1e-9 {
		t.Errorf("Stress.Max = %v, want within [1.5, 2.5]", rec.Stress.Max)
	}
	if got := StrainLevelFor(rec.Strain); got != StrainLight {
		t.Errorf("rest day strain level = %v", got)
	}
}

func TestStressBaselineHRFallbacks(t *testing.T) {
	engine := NewEngine(HeartRateProfile{MaxHR: 180, RestingHR: 62})

	if got := engine.stressBaselineHR(store.DailyRecord{Baseline: &store.Baseline{RHRMean: 50}, RestingHR: floatPtr(58)}); got != 50 {
		t.Errorf("baseline mean should win, got %v", got)
	}
	if got := engine.stressBaselineHR(store.DailyRecord{RestingHR: floatPtr(58)}); got != 58 {
		t.Errorf("today's resting HR should be next, got %v", got)
	}
	if got := engine.stressBaselineHR(store.DailyRecord{}); got != 62 {
		t.Errorf("profile resting HR should be last, got %v", got)
	}
}

func TestDataQualityDescription(t *testing.T) {
	full := store.DailyRecord{
		HRV: floatPtr(1), RestingHR: floatPtr(1), SleepHours: floatPtr(1), RespiratoryRate: floatPtr(1),
		Stress: &store.StressSummary{},
	}
	if got := DataQualityDescription(full); got != "Complete" {
		t.Errorf("DataQualityDescription(full) = %q", got)
	}
	if got := DataQualityDescription(store.DailyRecord{}); got != "Sparse" {
		t.Errorf("DataQualityDescription(empty) = %q", got)
	}
}

func TestDeepSleepHistory(t *testing.T) {
	recs := []store.DailyRecord{
		{Date: marchDay(1), DeepSleepHours: floatPtr(2)},
		{Date: marchDay(2)},
		{Date: marchDay(3), DeepSleepHours: floatPtr(1.7)},
		{Date: marchDay(4), DeepSleepHours: floatPtr(1.8)},
	}
	got := DeepSleepHistory(recs, marchDay(3))
	if len(got) != 3 || got[1] != 0 {
		t.Fatalf("DeepSleepHistory() = %v", got)
	}
	if DeepSleepStreak(got) != 1 {
		t.Errorf("streak = %d, want 1", DeepSleepStreak(got))
	}
}

func TestDeepSleepHistoryMissingNightsBreakStreak(t *testing.T) {
	recs := []store.DailyRecord{
		{Date: marchDay(4), DeepSleepHours: floatPtr(2)},
		{Date: marchDay(7), DeepSleepHours: floatPtr(2)},
		{Date: marchDay(10), DeepSleepHours: floatPtr(2)},
	}

	got := DeepSleepHistory(recs, marchDay(10))
	expected := []float64{2, 0, 0, 2, 0, 0, 2}
	if len(got) != len(expected) {
		t.Fatalf("DeepSleepHistory() = %v, want %v", got, expected)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("night %d = %v, want %v", i, got[i], expected[i])
		}
	}
	if streak := DeepSleepStreak(got); streak != 1 {
		t.Errorf("streak = %d, want 1", streak)
	}
}

func TestDeepSleepHistoryEmpty(t *testing.T) {
	if got := DeepSleepHistory(nil, marchDay(10)); len(got) != 0 {
		t.Errorf("DeepSleepHistory(nil) = %v, want empty", got)
	}
}
