package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"healthscore/internal/analysis"
	"healthscore/internal/hunter"
	"healthscore/internal/store"
)

// HunterService threads the persisted XP state through the Hunter engine.
// XP is awarded at most once per scored day.
type HunterService struct {
	mu     sync.Mutex
	store  *store.DB
	engine hunter.Engine
	log    *slog.Logger
}

// NewHunterService creates a new hunter service
func NewHunterService(store *store.DB, log *slog.Logger) *HunterService {
	if log == nil {
		log = slog.Default()
	}
	return &HunterService{store: store, engine: hunter.NewEngine(), log: log}
}

// Snapshot computes the ratings for day and, the first time a scored day is
// seen, awards its XP and persists the new state.
func (h *HunterService) Snapshot(day time.Time) (*hunter.Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	day = store.StartOfDay(day)
	key := store.DayKey(day)

	records, err := h.store.ListDailyRecords(day.AddDate(0, 0, -(DeepStreakDays - 1)), day)
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}
	var today *store.DailyRecord
	for i := range records {
		if store.DayKey(records[i].Date) == key {
			today = &records[i]
		}
	}

	body, err := h.store.LatestBodyComposition(day)
	if err != nil {
		return nil, fmt.Errorf("loading body composition: %w", err)
	}
	swims, err := h.store.ListSwimRecords()
	if err != nil {
		return nil, fmt.Errorf("loading swim records: %w", err)
	}
	prior, err := h.store.GetXPState()
	if errors.Is(err, store.ErrNoXPState) {
		fresh := hunter.NewXPState()
		prior = &fresh
	} else if err != nil {
		return nil, fmt.Errorf("loading xp state: %w", err)
	}

	in := hunter.Inputs{
		Body:        body,
		SwimRecords: swims,
		Streak:      nextStreak(*prior, day),
		PRsToday:    prsOn(swims, key),
	}
	if today != nil {
		deep := analysis.DeepSleepStreak(analysis.DeepSleepHistory(records, day))
		in.Readiness = hunter.ReadinessFromRecord(*today, deep)
	}

	// Unscored days and days already awarded only report ratings
	if today == nil || prior.LastAwardedDay >= key {
		snap := h.engine.Ratings(in)
		snap.XP = hunter.Normalize(*prior)
		return &snap, nil
	}

	snap, next := h.engine.Snapshot(in, *prior)
	next.LastAwardedDay = key
	snap.XP = next
	if err := h.store.SaveXPState(&next); err != nil {
		return nil, fmt.Errorf("saving xp state: %w", err)
	}

	h.log.Info("awarded hunter xp",
		logKeyDay, key,
		"xp", snap.EarnedXP,
		"level", next.Level,
		"streak", next.Streak,
	)
	if snap.LevelsGained > 0 {
		h.log.Info("hunter level up", "level", next.Level, "gained", snap.LevelsGained)
	}
	return &snap, nil
}

// nextStreak continues the streak when the last award was the day before
func nextStreak(prior store.XPState, day time.Time) int {
	switch prior.LastAwardedDay {
	case store.DayKey(day):
		return max(prior.Streak, 1)
	case store.DayKey(day.AddDate(0, 0, -1)):
		return prior.Streak + 1
	default:
		return 1
	}
}

// prsOn counts personal bests set on the given day
func prsOn(records []store.SwimRecord, key string) int {
	n := 0
	for _, r := range records {
		if store.DayKey(r.AchievedAt) == key {
			n++
		}
	}
	return n
}
