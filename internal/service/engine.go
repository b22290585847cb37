package service

import (
	"healthscore/internal/analysis"
	"healthscore/internal/config"
)

// NewEngine builds the scoring engine from the user's configuration
func NewEngine(cfg *config.Config) analysis.Engine {
	profile := analysis.NewHeartRateProfile(cfg.Profile.Age, cfg.Profile.RestingHR, cfg.Profile.MaxHR)
	engine := analysis.NewEngine(profile)

	engine.Baselines.MinimumDays = cfg.Baseline.MinimumDays
	engine.Baselines.WindowDays = cfg.Baseline.WindowDays
	engine.Baselines.ChronicWindowDays = cfg.Baseline.ChronicWindowDays

	engine.Stress.Threshold = cfg.Stress.Threshold
	engine.Stress.MinPeriod = cfg.Stress.MinPeriod()
	engine.Stress.WorkoutBuffer = cfg.Stress.WorkoutBuffer()

	if cfg.Sleep.NeedHours > 0 {
		engine.SleepNeedHours = cfg.Sleep.NeedHours
	}
	return engine
}
