package analysis

import (
	"healthscore/internal/stats"
	"healthscore/internal/store"
)

// HeartRateProfile holds the per-user heart rate anchors used by strain models
type HeartRateProfile struct {
	MaxHR     float64
	RestingHR float64
	Age       int
}

// DefaultProfile returns sensible defaults if not configured
func DefaultProfile() HeartRateProfile {
	return HeartRateProfile{
		MaxHR:     190,
		RestingHR: 55,
	}
}

// NewHeartRateProfile builds a profile, estimating max HR as 220-age when unset
func NewHeartRateProfile(age int, restingHR, maxHR float64) HeartRateProfile {
	p := DefaultProfile()
	p.Age = age
	if restingHR > 0 {
		p.RestingHR = restingHR
	}
	switch {
	case maxHR > 0:
		p.MaxHR = maxHR
	case age > 0:
		p.MaxHR = float64(220 - age)
	}
	return p
}

// Reserve is the heart rate reserve (max - resting)
func (p HeartRateProfile) Reserve() float64 {
	return p.MaxHR - p.RestingHR
}

// ReserveFraction applies the Karvonen ratio (hr - resting) / (max - resting),
// clamped to [0, 1]. ok is false without a usable HR or reserve.
func (p HeartRateProfile) ReserveFraction(hr float64) (float64, bool) {
	reserve := p.Reserve()
	if reserve <= 0 || hr <= 0 {
		return 0, false
	}
	return stats.Clamp((hr-p.RestingHR)/reserve, 0, 1), true
}

// LoadRisk classifies an acute:chronic workload ratio
type LoadRisk string

const (
	RiskUndertraining LoadRisk = "undertraining"
	RiskOptimal       LoadRisk = "optimal"
	RiskCaution       LoadRisk = "caution"
	RiskHigh          LoadRisk = "high_risk"
)

var acwrRiskBands = stats.Bands[LoadRisk]{
	{Min: 1.5, Value: RiskHigh},
	{Min: 1.3, Value: RiskCaution},
	{Min: 0.8, Value: RiskOptimal},
	{Min: stats.Below, Value: RiskUndertraining},
}

// Ratios past 2.0 stay "high risk" but score lower still
var acwrScoreBands = stats.Bands[float64]{
	{Min: 2.0, Value: 0.25},
	{Min: 1.5, Value: 0.40},
	{Min: 1.3, Value: 0.70},
	{Min: 0.8, Value: 1.00},
	{Min: stats.Below, Value: 0.80},
}

// Higher strain yesterday leaves less in the tank today
var yesterdayStrainBands = stats.Bands[float64]{
	{Min: 18, Value: 0.3},
	{Min: 14, Value: 0.5},
	{Min: 10, Value: 0.7},
	{Min: 5, Value: 0.9},
	{Min: stats.Below, Value: 1.0},
}

// ACWR returns acute / chronic strain. ok is false when chronic load is not positive.
func ACWR(acute, chronic float64) (float64, bool) {
	if chronic <= 0 || acute < 0 {
		return 0, false
	}
	return acute / chronic, true
}

// ClassifyACWR maps a ratio onto its training-load risk band
func ClassifyACWR(ratio float64) LoadRisk {
	return acwrRiskBands.Lookup(ratio)
}

// TrainingLoadScore blends yesterday's strain (60%) with the ACWR band (40%)
// into a 0-1 score. Returns nil when neither input is available.
func TrainingLoadScore(yesterdayStrain *float64, baseline *store.Baseline) *float64 {
	var b stats.Blend
	if yesterdayStrain != nil {
		b.Add(yesterdayStrainBands.Lookup(*yesterdayStrain), 0.6)
	}
	if baseline != nil {
		if ratio, ok := ACWR(baseline.AcuteStrain, baseline.ChronicStrain); ok {
			b.Add(acwrScoreBands.Lookup(ratio), 0.4)
		}
	}
	return b.Opt()
}

// RiskDescription returns a human-readable description of a load risk
func RiskDescription(risk LoadRisk) string {
	switch risk {
	case RiskUndertraining:
		return "Load well below your norm - room to build"
	case RiskOptimal:
		return "Sweet spot - sustainable progression"
	case RiskCaution:
		return "Load climbing fast - watch recovery"
	default:
		return "Load spike - injury and illness risk elevated"
	}
}
