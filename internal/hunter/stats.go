// Package hunter turns readiness, body composition and swim times into
// gamified skill ratings, ranks and an XP progression.
package hunter

import (
	"healthscore/internal/stats"
	"healthscore/internal/store"
)

// Category is one of the seven skill ratings
type Category string

const (
	Vitality       Category = "vitality"
	Strength       Category = "strength"
	Endurance      Category = "endurance"
	Agility        Category = "agility"
	Physique       Category = "physique"
	MetabolicPower Category = "metabolic_power"
	SwimMastery    Category = "swim_mastery"
)

// Categories lists every category in display order
var Categories = []Category{Vitality, Strength, Endurance, Agility, Physique, MetabolicPower, SwimMastery}

// Label returns the display name of a category
func (c Category) Label() string {
	switch c {
	case Vitality:
		return "Vitality"
	case Strength:
		return "Strength"
	case Endurance:
		return "Endurance"
	case Agility:
		return "Agility"
	case Physique:
		return "Physique"
	case MetabolicPower:
		return "Metabolic Power"
	case SwimMastery:
		return "Swim Mastery"
	default:
		return string(c)
	}
}

// Rank is a letter tier from E up to S
type Rank string

const (
	RankS Rank = "S"
	RankA Rank = "A"
	RankB Rank = "B"
	RankC Rank = "C"
	RankD Rank = "D"
	RankE Rank = "E"
)

var rankBands = stats.Bands[Rank]{
	{Min: 90, Value: RankS},
	{Min: 75, Value: RankA},
	{Min: 60, Value: RankB},
	{Min: 40, Value: RankC},
	{Min: 20, Value: RankD},
	{Min: stats.Below, Value: RankE},
}

// RankFor maps a 0-100 score onto a rank
func RankFor(score float64) Rank {
	return rankBands.Lookup(score)
}

// metricRange is the plausible span a raw metric is scaled over. Lo > Hi
// means lower raw values are better.
type metricRange struct {
	Lo, Hi float64
}

func (r metricRange) score(v *float64) *float64 {
	if v == nil {
		return nil
	}
	s := stats.Normalize(*v, r.Lo, r.Hi)
	return &s
}

var (
	rangeSleepHours      = metricRange{4, 9}
	rangeSleepEfficiency = metricRange{70, 100}
	rangeHRV             = metricRange{20, 120}
	rangeRestingHR       = metricRange{90, 40}
	rangeRecovery        = metricRange{0, 100}
	rangeStrain          = metricRange{0, 21}
	rangeVO2Max          = metricRange{25, 65}
	rangeSteps           = metricRange{2000, 15000}
	rangeActiveCalories  = metricRange{100, 1200}
	rangeBodyWater       = metricRange{45, 65}
	rangeBodyFat         = metricRange{35, 8}
	rangeLeanMass        = metricRange{40, 90}
)

// Readiness is the subset of a day's record the ratings draw on
type Readiness struct {
	SleepHours      *float64
	SleepEfficiency *float64
	HRV             *float64
	RestingHR       *float64
	Recovery        *float64
	Strain          *float64
	VO2Max          *float64
	Steps           *float64
	ActiveCalories  *float64
	// DeepSleepStreak is consecutive nights of solid deep sleep ending last night
	DeepSleepStreak int
}

// ReadinessFromRecord extracts readiness inputs from a daily record
func ReadinessFromRecord(rec store.DailyRecord, deepSleepStreak int) Readiness {
	r := Readiness{
		SleepHours:      rec.SleepHours,
		SleepEfficiency: rec.SleepEfficiency,
		HRV:             rec.HRV,
		RestingHR:       rec.RestingHR,
		Recovery:        rec.Recovery,
		VO2Max:          rec.VO2Max,
		ActiveCalories:  rec.ActiveCalories,
		DeepSleepStreak: deepSleepStreak,
	}
	strain := rec.Strain
	r.Strain = &strain
	if rec.Steps != nil {
		steps := float64(*rec.Steps)
		r.Steps = &steps
	}
	return r
}

// normalized holds every input scaled to 0-100
type normalized struct {
	sleepHours, sleepEfficiency, hrv, restingHR *float64
	recovery, strain, vo2, steps, kcal          *float64
	bodyWater, bodyFat, leanMass                *float64
}

func normalize(r Readiness, body *store.BodyComposition) normalized {
	n := normalized{
		sleepHours:      rangeSleepHours.score(r.SleepHours),
		sleepEfficiency: rangeSleepEfficiency.score(r.SleepEfficiency),
		hrv:             rangeHRV.score(r.HRV),
		restingHR:       rangeRestingHR.score(r.RestingHR),
		recovery:        rangeRecovery.score(r.Recovery),
		strain:          rangeStrain.score(r.Strain),
		vo2:             rangeVO2Max.score(r.VO2Max),
		steps:           rangeSteps.score(r.Steps),
		kcal:            rangeActiveCalories.score(r.ActiveCalories),
	}
	if body != nil {
		n.bodyWater = rangeBodyWater.score(body.BodyWaterPercent)
		n.bodyFat = rangeBodyFat.score(body.BodyFatPercent)
		n.leanMass = rangeLeanMass.score(body.LeanMassKg)
	}
	return n
}

// average is the equal-weight mean of the present inputs, 0 when none are
func average(values ...*float64) float64 {
	var b stats.Blend
	for _, v := range values {
		b.AddOpt(v, 1)
	}
	v, _ := b.Value()
	return v
}

// baseScores computes the six physiological categories before modifiers
func baseScores(n normalized) map[Category]float64 {
	return map[Category]float64{
		Vitality:       average(n.sleepHours, n.sleepEfficiency, n.hrv, n.bodyWater),
		Strength:       average(n.leanMass, n.bodyFat, n.strain),
		Endurance:      average(n.vo2, n.restingHR, n.hrv, n.steps),
		Agility:        average(n.recovery, n.steps, n.bodyFat),
		Physique:       average(n.bodyFat, n.leanMass, n.bodyWater),
		MetabolicPower: average(n.kcal, n.vo2, n.leanMass),
	}
}
