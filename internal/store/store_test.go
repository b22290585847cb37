package store

import (
	"errors"
	"testing"
	"time"
)

// setupTestDB creates an in-memory database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewTestStore()
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestUpsertDailyRecord_RoundTrip(t *testing.T) {
	db := setupTestDB(t)

	onset := time.Date(2024, 3, 9, 23, 15, 0, 0, time.UTC)
	start := time.Date(2024, 3, 10, 7, 0, 0, 0, time.UTC)
	rec := &DailyRecord{
		Date:            day(2024, 3, 10),
		Strain:          12.4,
		Recovery:        floatPtr(71.5),
		SleepHours:      floatPtr(7.6),
		SleepEfficiency: floatPtr(91),
		SleepOnset:      &onset,
		HRV:             floatPtr(62),
		RestingHR:       floatPtr(51),
		Steps:           intPtr(10432),
		Workouts: []WorkoutRecord{
			{
				ID:             "w-1",
				ActivityType:   ActivityRunning,
				Start:          start,
				End:            start.Add(45 * time.Minute),
				Duration:       45 * time.Minute,
				Distance:       floatPtr(8500),
				ActiveCalories: 520,
				AverageHR:      floatPtr(152),
				Strain:         12.4,
				HRIntensity:    floatPtr(0.72),
			},
		},
		Stress: &StressSummary{Average: 0.8, Max: 2.4, HighMinutes: 20, ElevatedPeriods: 1, ValidSamples: 120},
		Baseline: &Baseline{
			HRVMean:       60,
			HRVStdDev:     floatPtr(6.5),
			RHRMean:       52,
			AcuteStrain:   9.5,
			ChronicStrain: 8.7,
			DaysOfData:    7,
		},
	}

	if err := db.UpsertDailyRecord(rec); err != nil {
		t.Fatalf("UpsertDailyRecord() error = %v", err)
	}

	got, err := db.GetDailyRecord(day(2024, 3, 10))
	if err != nil {
		t.Fatalf("GetDailyRecord() error = %v", err)
	}

	if got.Strain != 12.4 {
		t.Errorf("Strain = %v, want 12.4", got.Strain)
	}
	if got.Recovery == nil || *got.Recovery != 71.5 {
		t.Errorf("Recovery = %v, want 71.5", got.Recovery)
	}
	if got.SleepConsistency != nil {
		t.Errorf("SleepConsistency = %v, want nil", *got.SleepConsistency)
	}
	if got.Steps == nil || *got.Steps != 10432 {
		t.Errorf("Steps = %v, want 10432", got.Steps)
	}
	if got.SleepOnset == nil || !got.SleepOnset.Equal(onset) {
		t.Errorf("SleepOnset = %v, want %v", got.SleepOnset, onset)
	}
	if len(got.Workouts) != 1 {
		t.Fatalf("len(Workouts) = %d, want 1", len(got.Workouts))
	}
	w := got.Workouts[0]
	if w.ActivityType != ActivityRunning || w.Duration != 45*time.Minute {
		t.Errorf("Workout = %+v, want running for 45m", w)
	}
	if w.MaxHR != nil {
		t.Errorf("Workout.MaxHR = %v, want nil", *w.MaxHR)
	}
	if got.Stress == nil || got.Stress.Max != 2.4 || got.Stress.ElevatedPeriods != 1 {
		t.Errorf("Stress = %+v, want max 2.4 with 1 period", got.Stress)
	}
	if got.Baseline == nil {
		t.Fatal("Baseline = nil, want stored baseline")
	}
	if got.Baseline.DaysOfData != 7 || got.Baseline.RHRStdDev != nil {
		t.Errorf("Baseline = %+v, want 7 days and nil RHR sd", got.Baseline)
	}
}

func TestUpsertDailyRecord_ReplacesWorkoutsAndBaseline(t *testing.T) {
	db := setupTestDB(t)

	d := day(2024, 3, 11)
	first := &DailyRecord{
		Date:   d,
		Strain: 5,
		Workouts: []WorkoutRecord{
			{ID: "a", ActivityType: ActivityWalking, Start: d, End: d.Add(time.Hour), Duration: time.Hour},
			{ID: "b", ActivityType: ActivityYoga, Start: d, End: d.Add(time.Hour), Duration: time.Hour},
		},
		Baseline: &Baseline{HRVMean: 50, RHRMean: 55, DaysOfData: 5},
	}
	if err := db.UpsertDailyRecord(first); err != nil {
		t.Fatalf("first UpsertDailyRecord() error = %v", err)
	}

	second := &DailyRecord{Date: d, Strain: 3}
	if err := db.UpsertDailyRecord(second); err != nil {
		t.Fatalf("second UpsertDailyRecord() error = %v", err)
	}

	got, err := db.GetDailyRecord(d)
	if err != nil {
		t.Fatalf("GetDailyRecord() error = %v", err)
	}
	if got.Strain != 3 {
		t.Errorf("Strain = %v, want 3", got.Strain)
	}
	if len(got.Workouts) != 0 {
		t.Errorf("len(Workouts) = %d, want 0 after resync", len(got.Workouts))
	}
	if got.Baseline != nil {
		t.Errorf("Baseline = %+v, want nil after resync", got.Baseline)
	}
	if got.Stress != nil {
		t.Errorf("Stress = %+v, want nil", got.Stress)
	}
}

func TestListDailyRecords_Ordering(t *testing.T) {
	db := setupTestDB(t)

	for _, d := range []int{5, 3, 4, 1} {
		if err := db.UpsertDailyRecord(&DailyRecord{Date: day(2024, 1, d), Strain: float64(d)}); err != nil {
			t.Fatalf("UpsertDailyRecord() error = %v", err)
		}
	}

	got, err := db.ListDailyRecords(day(2024, 1, 2), day(2024, 1, 5))
	if err != nil {
		t.Fatalf("ListDailyRecords() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []float64{3, 4, 5} {
		if got[i].Strain != want {
			t.Errorf("records[%d].Strain = %v, want %v", i, got[i].Strain, want)
		}
	}
}

func TestGetDailyRecord_NotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetDailyRecord(day(2024, 2, 1))
	if !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("GetDailyRecord() error = %v, want ErrRecordNotFound", err)
	}
	if err := db.DeleteDailyRecord(day(2024, 2, 1)); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("DeleteDailyRecord() error = %v, want ErrRecordNotFound", err)
	}
}

func TestXPState(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.GetXPState(); !errors.Is(err, ErrNoXPState) {
		t.Fatalf("GetXPState() error = %v, want ErrNoXPState", err)
	}

	state := &XPState{Level: 3, CurrentXP: 40, XPToNextLevel: 520, TotalXP: 423, Streak: 2, LastAwardedDay: "2024-03-10"}
	if err := db.SaveXPState(state); err != nil {
		t.Fatalf("SaveXPState() error = %v", err)
	}
	state.CurrentXP = 90
	if err := db.SaveXPState(state); err != nil {
		t.Fatalf("SaveXPState() update error = %v", err)
	}

	got, err := db.GetXPState()
	if err != nil {
		t.Fatalf("GetXPState() error = %v", err)
	}
	if *got != *state {
		t.Errorf("GetXPState() = %+v, want %+v", *got, *state)
	}
}

func TestSwimRecords(t *testing.T) {
	db := setupTestDB(t)

	improved, err := db.UpsertSwimRecord(&SwimRecord{Event: "100_free", Seconds: 80, AchievedAt: day(2024, 1, 1)})
	if err != nil || !improved {
		t.Fatalf("first UpsertSwimRecord() = %v, %v; want true, nil", improved, err)
	}

	improved, err = db.UpsertSwimRecord(&SwimRecord{Event: "100_free", Seconds: 85, AchievedAt: day(2024, 1, 2)})
	if err != nil || improved {
		t.Errorf("slower UpsertSwimRecord() = %v, %v; want false, nil", improved, err)
	}

	improved, err = db.UpsertSwimRecord(&SwimRecord{Event: "100_free", Seconds: 78.5, AchievedAt: day(2024, 1, 3)})
	if err != nil || !improved {
		t.Errorf("faster UpsertSwimRecord() = %v, %v; want true, nil", improved, err)
	}

	records, err := db.ListSwimRecords()
	if err != nil {
		t.Fatalf("ListSwimRecords() error = %v", err)
	}
	if len(records) != 1 || records[0].Seconds != 78.5 {
		t.Errorf("ListSwimRecords() = %+v, want single 78.5s record", records)
	}
}

func TestLatestBodyComposition(t *testing.T) {
	db := setupTestDB(t)

	got, err := db.LatestBodyComposition(day(2024, 1, 1))
	if err != nil || got != nil {
		t.Fatalf("LatestBodyComposition() on empty = %v, %v; want nil, nil", got, err)
	}

	for _, b := range []BodyComposition{
		{Date: day(2024, 1, 5), BodyFatPercent: floatPtr(18)},
		{Date: day(2024, 1, 15), BodyFatPercent: floatPtr(17)},
	} {
		if err := db.UpsertBodyComposition(&b); err != nil {
			t.Fatalf("UpsertBodyComposition() error = %v", err)
		}
	}

	got, err = db.LatestBodyComposition(day(2024, 1, 10))
	if err != nil {
		t.Fatalf("LatestBodyComposition() error = %v", err)
	}
	if got == nil || *got.BodyFatPercent != 18 {
		t.Errorf("LatestBodyComposition() = %+v, want the 2024-01-05 measurement", got)
	}
}

func TestSyncState(t *testing.T) {
	db := setupTestDB(t)

	got, err := db.LastScoredDay(time.UTC)
	if err != nil || !got.IsZero() {
		t.Fatalf("LastScoredDay() = %v, %v; want zero", got, err)
	}
	if err := db.SetLastScoredDay(time.Date(2024, 3, 10, 18, 30, 0, 0, time.UTC)); err != nil {
		t.Fatalf("SetLastScoredDay() error = %v", err)
	}
	got, _ = db.LastScoredDay(time.UTC)
	if want := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("LastScoredDay() = %v, want %v", got, want)
	}

	at, err := db.LastSyncAt()
	if err != nil || !at.IsZero() {
		t.Fatalf("LastSyncAt() = %v, %v; want zero", at, err)
	}
	synced := time.Date(2024, 3, 11, 6, 30, 0, 0, time.UTC)
	if err := db.SetLastSyncAt(synced); err != nil {
		t.Fatalf("SetLastSyncAt() error = %v", err)
	}
	at, _ = db.LastSyncAt()
	if !at.Equal(synced) {
		t.Errorf("LastSyncAt() = %v, want %v", at, synced)
	}
}
