package analysis

import (
	"math"

	"healthscore/internal/stats"
	"healthscore/internal/store"
)

// NeutralRecovery is returned when no component can be scored
const NeutralRecovery = 50.0

const (
	// Default standard deviations as a fraction of the baseline mean,
	// used when the personal spread is unknown
	defaultHRVStdDevFraction = 0.15
	defaultRHRStdDevFraction = 0.08

	// DefaultRespiratoryRate is the population reference in breaths per minute
	DefaultRespiratoryRate = 14.0
)

// RecoveryWeights are the component weights before renormalisation
type RecoveryWeights struct {
	HRV          float64
	RestingHR    float64
	Sleep        float64
	TrainingLoad float64
	Respiratory  float64
}

// DefaultRecoveryWeights returns the standard component weighting
func DefaultRecoveryWeights() RecoveryWeights {
	return RecoveryWeights{
		HRV:          0.35,
		RestingHR:    0.30,
		Sleep:        0.20,
		TrainingLoad: 0.10,
		Respiratory:  0.05,
	}
}

// Deviation from baseline in standard deviations; positive is better
var recoveryZBands = stats.Bands[float64]{
	{Min: 1.5, Value: 1.00},
	{Min: 0.5, Value: 0.95},
	{Min: 0, Value: 0.85},
	{Min: -0.5, Value: 0.75},
	{Min: -1.0, Value: 0.60},
	{Min: -1.5, Value: 0.40},
	{Min: stats.Below, Value: 0.20},
}

var sleepDurationBands = stats.Bands[float64]{
	{Min: 8.5, Value: 1.00},
	{Min: 7.5, Value: 0.95},
	{Min: 7.0, Value: 0.85},
	{Min: 6.5, Value: 0.75},
	{Min: 6.0, Value: 0.60},
	{Min: 5.0, Value: 0.40},
	{Min: stats.Below, Value: 0.20},
}

var sleepEfficiencyBands = stats.Bands[float64]{
	{Min: 90, Value: 1.00},
	{Min: 85, Value: 0.90},
	{Min: 80, Value: 0.75},
	{Min: 75, Value: 0.60},
	{Min: stats.Below, Value: 0.40},
}

// Absolute deviation from the reference rate in breaths per minute
var respiratoryDeviationBands = stats.Bands[float64]{
	{Min: 2.5, Value: 0.25},
	{Min: 1.5, Value: 0.50},
	{Min: 1.0, Value: 0.75},
	{Min: 0.5, Value: 0.90},
	{Min: stats.Below, Value: 1.00},
}

// RecoveryInputs are today's signals. Every field is optional.
type RecoveryInputs struct {
	HRV       *float64
	RestingHR *float64

	// SleepHours is last night; RecentSleepHours the nights before it
	SleepHours       *float64
	RecentSleepHours []float64
	SleepEfficiency  *float64
	SleepConsistency *float64

	YesterdayStrain *float64
	RespiratoryRate *float64
}

// RecoveryBreakdown is the 0-100 score plus each component's 0-1 score.
// Components that could not be scored are nil.
type RecoveryBreakdown struct {
	Score        float64
	HRV          *float64
	RestingHR    *float64
	Sleep        *float64
	TrainingLoad *float64
	Respiratory  *float64
	// Weight is the total weight of the components that were present
	Weight float64
}

// Zone returns the traffic-light zone of the score
func (b RecoveryBreakdown) Zone() RecoveryZone {
	return RecoveryZoneFor(b.Score)
}

// RecoveryCalculator scores readiness against a personal baseline
type RecoveryCalculator struct {
	Weights RecoveryWeights
}

// NewRecoveryCalculator creates a calculator with the default weights
func NewRecoveryCalculator() RecoveryCalculator {
	return RecoveryCalculator{Weights: DefaultRecoveryWeights()}
}

// Score blends whichever components are available and renormalises by their
// weight. baseline may be nil, in which case HRV and resting HR drop out.
func (c RecoveryCalculator) Score(in RecoveryInputs, baseline *store.Baseline) RecoveryBreakdown {
	var out RecoveryBreakdown

	if baseline != nil {
		out.HRV = HRVComponent(in.HRV, baseline)
		out.RestingHR = RestingHRComponent(in.RestingHR, baseline)
	}
	out.Sleep = SleepComponent(in.SleepHours, in.RecentSleepHours, in.SleepEfficiency, in.SleepConsistency)
	out.TrainingLoad = TrainingLoadScore(in.YesterdayStrain, baseline)
	out.Respiratory = RespiratoryComponent(in.RespiratoryRate, baseline)

	var b stats.Blend
	b.AddOpt(out.HRV, c.Weights.HRV)
	b.AddOpt(out.RestingHR, c.Weights.RestingHR)
	b.AddOpt(out.Sleep, c.Weights.Sleep)
	b.AddOpt(out.TrainingLoad, c.Weights.TrainingLoad)
	b.AddOpt(out.Respiratory, c.Weights.Respiratory)

	out.Weight = b.Weight()
	if v, ok := b.Value(); ok {
		out.Score = stats.Clamp(v*100, 0, 100)
	} else {
		out.Score = NeutralRecovery
	}
	return out
}

// LegacyRecoveryScore scores from HRV, resting HR and sleep duration only,
// ignoring the personal standard deviations. It is the general score with
// every other input omitted.
func LegacyRecoveryScore(hrv, restingHR, sleepHours *float64, baseline *store.Baseline) float64 {
	var plain *store.Baseline
	if baseline != nil {
		plain = &store.Baseline{
			HRVMean:       baseline.HRVMean,
			RHRMean:       baseline.RHRMean,
			AcuteStrain:   baseline.AcuteStrain,
			ChronicStrain: baseline.ChronicStrain,
			DaysOfData:    baseline.DaysOfData,
		}
	}
	in := RecoveryInputs{HRV: hrv, RestingHR: restingHR, SleepHours: sleepHours}
	// Without a strain input the ACWR band would still fire from the
	// baseline, so the legacy path leaves training load out entirely.
	c := NewRecoveryCalculator()
	c.Weights.TrainingLoad = 0
	return c.Score(in, plain).Score
}

// HRVComponent scores today's HRV against the baseline; higher is better
func HRVComponent(hrv *float64, baseline *store.Baseline) *float64 {
	if hrv == nil || baseline == nil || baseline.HRVMean <= 0 {
		return nil
	}
	sd := baseline.HRVMean * defaultHRVStdDevFraction
	if baseline.HRVStdDev != nil && *baseline.HRVStdDev > 0 {
		sd = *baseline.HRVStdDev
	}
	z, ok := stats.ZScoreOf(*hrv, baseline.HRVMean, sd)
	if !ok {
		return nil
	}
	score := recoveryZBands.Lookup(z)
	return &score
}

// RestingHRComponent scores today's resting HR against the baseline; lower is better
func RestingHRComponent(rhr *float64, baseline *store.Baseline) *float64 {
	if rhr == nil || baseline == nil || baseline.RHRMean <= 0 {
		return nil
	}
	sd := baseline.RHRMean * defaultRHRStdDevFraction
	if baseline.RHRStdDev != nil && *baseline.RHRStdDev > 0 {
		sd = *baseline.RHRStdDev
	}
	z, ok := stats.ZScoreOf(*rhr, baseline.RHRMean, sd)
	if !ok {
		return nil
	}
	score := recoveryZBands.Lookup(-z)
	return &score
}

// SleepComponent blends smoothed duration (50%), efficiency (30%) and
// consistency (20%), renormalised over what is present
func SleepComponent(lastNight *float64, recent []float64, efficiency, consistency *float64) *float64 {
	var b stats.Blend
	if h := SmoothedSleepHours(lastNight, recent); h != nil {
		b.Add(sleepDurationBands.Lookup(*h), 0.5)
	}
	if efficiency != nil {
		b.Add(sleepEfficiencyBands.Lookup(*efficiency), 0.3)
	}
	if consistency != nil {
		b.Add(stats.Clamp(*consistency/100, 0, 1), 0.2)
	}
	return b.Opt()
}

// SmoothedSleepHours weights last night 60% and the trailing-night mean 40%.
// Without trailing nights it is last night alone.
func SmoothedSleepHours(lastNight *float64, recent []float64) *float64 {
	if lastNight == nil || *lastNight < 0 {
		return nil
	}
	h := *lastNight
	if len(recent) > 0 {
		h = 0.6*h + 0.4*stats.Mean(recent)
	}
	return &h
}

// RespiratoryComponent scores the absolute deviation from the baseline rate,
// or from the population default when no baseline rate exists
func RespiratoryComponent(rate *float64, baseline *store.Baseline) *float64 {
	if rate == nil || *rate <= 0 {
		return nil
	}
	ref := DefaultRespiratoryRate
	if baseline != nil && baseline.RespiratoryRate != nil && *baseline.RespiratoryRate > 0 {
		ref = *baseline.RespiratoryRate
	}
	score := respiratoryDeviationBands.Lookup(math.Abs(*rate - ref))
	return &score
}

// RecoveryZone is the traffic-light reading of a recovery score
type RecoveryZone string

const (
	ZoneGreen  RecoveryZone = "green"
	ZoneYellow RecoveryZone = "yellow"
	ZoneRed    RecoveryZone = "red"
)

var recoveryZoneBands = stats.Bands[RecoveryZone]{
	{Min: 67, Value: ZoneGreen},
	{Min: 34, Value: ZoneYellow},
	{Min: stats.Below, Value: ZoneRed},
}

// RecoveryZoneFor maps a 0-100 score onto its zone
func RecoveryZoneFor(score float64) RecoveryZone {
	return recoveryZoneBands.Lookup(score)
}

// RecoveryDescription returns a human-readable description of a zone
func RecoveryDescription(zone RecoveryZone) string {
	switch zone {
	case ZoneGreen:
		return "Primed - ready for strain"
	case ZoneYellow:
		return "Maintaining - moderate effort"
	default:
		return "Recovering - prioritise rest"
	}
}
