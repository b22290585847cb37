package hunter

import (
	"math"
	"testing"

	"healthscore/internal/store"
)

func floatPtr(f float64) *float64 {
	return &f
}

func TestRankFor(t *testing.T) {
	tests := []struct {
		score    float64
		expected Rank
	}{
		{100, RankS},
		{90, RankS},
		{89.9, RankA},
		{75, RankA},
		{60, RankB},
		{40, RankC},
		{20, RankD},
		{19.9, RankE},
		{0, RankE},
	}
	for _, tt := range tests {
		if got := RankFor(tt.score); got != tt.expected {
			t.Errorf("RankFor(%v) = %v, want %v", tt.score, got, tt.expected)
		}
	}
}

func TestPerformanceIndex(t *testing.T) {
	tests := []struct {
		name     string
		personal float64
		world    float64
		expected float64
		delta    float64
	}{
		{"world record pace", 50, 50, 100, 1e-9},
		{"faster than world record clamps", 45, 50, 100, 1e-9},
		{"double the record", 100, 50, 3.125, 1e-9},
		{"10% off the record", 55, 50, 62.09, 0.01},
		{"very slow floors at one", 300, 50, 1, 1e-9},
		{"invalid time", 0, 50, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PerformanceIndex(tt.personal, tt.world)
			if math.Abs(got-tt.expected) > tt.delta {
				t.Errorf("PerformanceIndex(%v, %v) = %v, want %v", tt.personal, tt.world, got, tt.expected)
			}
		})
	}
}

func TestSwimEventsSeedsWhenEmpty(t *testing.T) {
	events := SwimEvents(nil, WorldRecords)
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3 seeds", len(events))
	}
	for _, e := range events {
		if !e.Seed {
			t.Errorf("%s should be a seed", e.Event)
		}
		if e.Index < 1 || e.Index > 5 {
			t.Errorf("seed %s index %v should be low", e.Event, e.Index)
		}
	}

	// Unknown events do not count as records
	unknown := SwimEvents([]store.SwimRecord{{Event: "25_free", Seconds: 15}}, WorldRecords)
	if len(unknown) != 3 || !unknown[0].Seed {
		t.Error("records without a world record should fall back to seeds")
	}
}

func TestSwimEventsSortedByIndex(t *testing.T) {
	records := []store.SwimRecord{
		{Event: "200_free", Seconds: 150},
		{Event: "50_free", Seconds: 25},
	}
	events := SwimEvents(records, WorldRecords)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Event != "50_free" || events[0].Seed {
		t.Errorf("best event first, got %+v", events[0])
	}
	want := (events[0].Index + events[1].Index) / 2
	if got := SwimMasteryScore(events); math.Abs(got-want) > 1e-9 {
		t.Errorf("SwimMasteryScore() = %v, want %v", got, want)
	}
	if SwimMasteryScore(nil) != 0 {
		t.Error("no events should score 0")
	}
}

func TestXPThreshold(t *testing.T) {
	tests := []struct {
		level    int
		expected int
	}{
		{0, 100},
		{1, 100},
		{2, 283},
		{3, 520},
		{4, 800},
		{10, 3162},
	}
	for _, tt := range tests {
		if got := XPThreshold(tt.level); got != tt.expected {
			t.Errorf("XPThreshold(%d) = %d, want %d", tt.level, got, tt.expected)
		}
	}
}

func TestEarnedXP(t *testing.T) {
	tests := []struct {
		name     string
		overall  float64
		swim     float64
		streak   int
		prs      int
		expected int
	}{
		{"baseline day", 62.4, 40, 3, 1, 62 + 10 + 15 + 50},
		{"streak bonus capped", 50, 0, 45, 0, 50 + 150},
		{"nothing", 0, 0, 0, 0, 0},
		{"negative inputs ignored", 10, 0, -3, -1, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EarnedXP(tt.overall, tt.swim, tt.streak, tt.prs); got != tt.expected {
				t.Errorf("EarnedXP() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestAddXPRollsOverMultipleLevels(t *testing.T) {
	s, gained := AddXP(NewXPState(), 400)

	// 400 - 100 (L1) - 283 (L2) = 17 into level 3
	if s.Level != 3 || gained != 2 {
		t.Errorf("Level = %d gained %d, want 3 and 2", s.Level, gained)
	}
	if s.CurrentXP != 17 {
		t.Errorf("CurrentXP = %d, want 17", s.CurrentXP)
	}
	if s.XPToNextLevel != 520 {
		t.Errorf("XPToNextLevel = %d, want 520", s.XPToNextLevel)
	}
	if s.TotalXP != 400 {
		t.Errorf("TotalXP = %d, want 400", s.TotalXP)
	}
}

func TestAddXPInvariants(t *testing.T) {
	s := store.XPState{}
	prevTotal := 0
	for day := 0; day < 200; day++ {
		s, _ = AddXP(s, day%97)
		if s.Level < 1 || s.CurrentXP < 0 || s.CurrentXP >= s.XPToNextLevel {
			t.Fatalf("day %d: invalid state %+v", day, s)
		}
		if s.TotalXP < prevTotal {
			t.Fatalf("day %d: total XP decreased", day)
		}
		prevTotal = s.TotalXP
	}

	same, gained := AddXP(s, 0)
	if same != Normalize(s) || gained != 0 {
		t.Error("zero XP should not change state")
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize(store.XPState{Level: 0, CurrentXP: -5})
	if got.Level != 1 || got.CurrentXP != 0 || got.XPToNextLevel != 100 {
		t.Errorf("Normalize() = %+v", got)
	}
}

func TestActiveModifiers(t *testing.T) {
	r := Readiness{
		Recovery:        floatPtr(85),
		SleepHours:      floatPtr(5.5),
		Strain:          floatPtr(19),
		Steps:           floatPtr(13000),
		DeepSleepStreak: 3,
	}
	mods := ActiveModifiers(r)

	totals := map[Category]float64{}
	for _, m := range mods {
		totals[m.Category] += m.Delta
	}
	want := map[Category]float64{
		Agility:        8,
		Vitality:       7 - 8,
		MetabolicPower: 5,
		Strength:       5,
		Endurance:      4,
	}
	for c, d := range want {
		if totals[c] != d {
			t.Errorf("%s delta = %v, want %v", c, totals[c], d)
		}
	}
	if len(ActiveModifiers(Readiness{})) != 0 {
		t.Error("empty readiness should trigger nothing")
	}

	low := ActiveModifiers(Readiness{Recovery: floatPtr(40)})
	if len(low) != 1 || low[0].Category != Endurance || low[0].Delta != -10 || low[0].IsBuff() {
		t.Errorf("recovery 40 modifiers = %+v", low)
	}
}

func TestRatingsEmptyInputs(t *testing.T) {
	snap := NewEngine().Ratings(Inputs{})

	for _, c := range Categories {
		if c == SwimMastery {
			continue
		}
		if snap.Score(c) != 0 {
			t.Errorf("%s = %v, want 0 with no inputs", c, snap.Score(c))
		}
	}
	if snap.Score(SwimMastery) != 1 {
		t.Errorf("swim mastery = %v, want seed floor 1", snap.Score(SwimMastery))
	}
	if math.Abs(snap.Overall-1.0/7) > 1e-9 {
		t.Errorf("Overall = %v, want 1/7", snap.Overall)
	}
	if snap.OverallRank != RankE {
		t.Errorf("OverallRank = %v, want E", snap.OverallRank)
	}
}

func TestRatingsBlendsAndClamps(t *testing.T) {
	in := Inputs{
		Readiness: Readiness{
			SleepHours:      floatPtr(9),
			SleepEfficiency: floatPtr(85),
			HRV:             floatPtr(70),
			Recovery:        floatPtr(100),
			Steps:           floatPtr(15000),
		},
		Body: &store.BodyComposition{BodyFatPercent: floatPtr(8)},
	}
	snap := NewEngine().Ratings(in)

	// (100 + 50 + 50) / 3
	if got := snap.Score(Vitality); math.Abs(got-200.0/3) > 1e-9 {
		t.Errorf("Vitality = %v, want %v", got, 200.0/3)
	}
	// 100 + 8 clamps to 100
	if got := snap.Score(Agility); got != 100 {
		t.Errorf("Agility = %v, want 100", got)
	}
	// Endurance: HRV 50, steps 100 -> 75, plus 4 for steps
	if got := snap.Score(Endurance); math.Abs(got-79) > 1e-9 {
		t.Errorf("Endurance = %v, want 79", got)
	}
	if snap.Ranks[Agility] != RankS {
		t.Errorf("Agility rank = %v, want S", snap.Ranks[Agility])
	}
}

func TestSnapshotThreadsXP(t *testing.T) {
	prior := store.XPState{Level: 2, CurrentXP: 250, XPToNextLevel: 283, TotalXP: 350}
	snap, next := NewEngine().Snapshot(Inputs{
		Readiness: Readiness{Recovery: floatPtr(50)},
		Streak:    2,
		PRsToday:  1,
	}, prior)

	if snap.EarnedXP <= 50 {
		t.Errorf("EarnedXP = %d, want PR bonus included", snap.EarnedXP)
	}
	if next.TotalXP != prior.TotalXP+snap.EarnedXP {
		t.Errorf("TotalXP = %d, want %d", next.TotalXP, prior.TotalXP+snap.EarnedXP)
	}
	if next.Level != 3 || snap.LevelsGained != 1 {
		t.Errorf("Level = %d gained %d, want 3 and 1", next.Level, snap.LevelsGained)
	}
	if next.Streak != 2 {
		t.Errorf("Streak = %d, want 2", next.Streak)
	}
	if snap.XP != next {
		t.Error("snapshot should carry the new state")
	}
}
