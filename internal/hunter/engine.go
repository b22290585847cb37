package hunter

import (
	"healthscore/internal/stats"
	"healthscore/internal/store"
)

// Inputs is everything a snapshot is computed from
type Inputs struct {
	Readiness   Readiness
	Body        *store.BodyComposition
	SwimRecords []store.SwimRecord
	// Streak is the consecutive-day count including today
	Streak   int
	PRsToday int
}

// Snapshot is the recomputed-on-demand view of the ratings
type Snapshot struct {
	Scores       map[Category]float64
	Ranks        map[Category]Rank
	Overall      float64
	OverallRank  Rank
	Modifiers    []Modifier
	SwimEvents   []SwimEvent
	EarnedXP     int
	LevelsGained int
	XP           store.XPState
}

// Score returns the category score, 0 when unknown
func (s Snapshot) Score(c Category) float64 {
	return s.Scores[c]
}

// Engine computes snapshots. It holds only read-only tables.
type Engine struct {
	WorldRecords map[string]float64
}

// NewEngine creates an engine using the long-course world records
func NewEngine() Engine {
	return Engine{WorldRecords: WorldRecords}
}

// Ratings computes scores, ranks and modifiers without touching XP
func (e Engine) Ratings(in Inputs) Snapshot {
	scores := baseScores(normalize(in.Readiness, in.Body))

	mods := ActiveModifiers(in.Readiness)
	for _, m := range mods {
		scores[m.Category] += m.Delta
	}
	for c, v := range scores {
		scores[c] = stats.Clamp(v, 0, 100)
	}

	world := e.WorldRecords
	if world == nil {
		world = WorldRecords
	}
	events := SwimEvents(in.SwimRecords, world)
	scores[SwimMastery] = SwimMasteryScore(events)

	snap := Snapshot{
		Scores:     scores,
		Ranks:      make(map[Category]Rank, len(Categories)),
		Modifiers:  mods,
		SwimEvents: events,
	}
	var total float64
	for _, c := range Categories {
		snap.Ranks[c] = RankFor(scores[c])
		total += scores[c]
	}
	snap.Overall = total / float64(len(Categories))
	snap.OverallRank = RankFor(snap.Overall)
	return snap
}

// Snapshot computes the ratings and awards the day's XP on top of prior.
// The returned state is for the caller to persist.
func (e Engine) Snapshot(in Inputs, prior store.XPState) (Snapshot, store.XPState) {
	snap := e.Ratings(in)
	snap.EarnedXP = EarnedXP(snap.Overall, snap.Score(SwimMastery), in.Streak, in.PRsToday)

	next, gained := AddXP(prior, snap.EarnedXP)
	next.Streak = in.Streak
	snap.LevelsGained = gained
	snap.XP = next
	return snap, next
}
