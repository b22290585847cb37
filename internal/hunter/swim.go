package hunter

import (
	"math"
	"sort"

	"healthscore/internal/stats"
	"healthscore/internal/store"
)

// Long-course world records in seconds, keyed by event
var WorldRecords = map[string]float64{
	"50_free":    20.91,
	"100_free":   46.40,
	"200_free":   102.00,
	"400_free":   220.07,
	"800_free":   452.12,
	"1500_free":  870.67,
	"50_back":    23.55,
	"100_back":   51.60,
	"200_back":   111.92,
	"50_breast":  25.95,
	"100_breast": 56.88,
	"200_breast": 125.48,
	"50_fly":     22.27,
	"100_fly":    49.45,
	"200_fly":    110.34,
	"200_im":     114.00,
	"400_im":     242.50,
}

// seedRecords stand in for a swimmer with no recorded times
var seedRecords = []store.SwimRecord{
	{Event: "50_free", Seconds: 60},
	{Event: "100_free", Seconds: 140},
	{Event: "200_free", Seconds: 300},
}

const (
	swimIndexExponent = 5.0
	minSwimIndex      = 1.0
	maxSwimIndex      = 100.0
)

// SwimEvent is a personal record scored against the world record
type SwimEvent struct {
	Event       string
	Seconds     float64
	WorldRecord float64
	Index       float64
	Seed        bool
}

// PerformanceIndex is 100·(wr/pr)^5, clamped to [1, 100]. Times near world
// record pace gain steeply; slow times compress toward the floor.
func PerformanceIndex(personal, world float64) float64 {
	if personal <= 0 || world <= 0 {
		return minSwimIndex
	}
	idx := math.Exp(-swimIndexExponent*math.Log(personal/world)) * 100
	return stats.Clamp(idx, minSwimIndex, maxSwimIndex)
}

// SwimEvents scores every record with a known world record. Without any,
// the seed events are returned instead.
func SwimEvents(records []store.SwimRecord, world map[string]float64) []SwimEvent {
	events := scoreRecords(records, world, false)
	if len(events) == 0 {
		events = scoreRecords(seedRecords, world, true)
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Index > events[j].Index
	})
	return events
}

func scoreRecords(records []store.SwimRecord, world map[string]float64, seed bool) []SwimEvent {
	var out []SwimEvent
	for _, r := range records {
		wr, ok := world[r.Event]
		if !ok || r.Seconds <= 0 {
			continue
		}
		out = append(out, SwimEvent{
			Event:       r.Event,
			Seconds:     r.Seconds,
			WorldRecord: wr,
			Index:       PerformanceIndex(r.Seconds, wr),
			Seed:        seed,
		})
	}
	return out
}

// SwimMasteryScore is the mean index across events
func SwimMasteryScore(events []SwimEvent) float64 {
	if len(events) == 0 {
		return 0
	}
	vals := make([]float64, len(events))
	for i, e := range events {
		vals[i] = e.Index
	}
	return stats.Mean(vals)
}
