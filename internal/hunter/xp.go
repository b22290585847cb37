package hunter

import (
	"math"

	"healthscore/internal/store"
)

const (
	xpPerStreakDay = 5
	maxStreakBonus = 30
	xpPerPR        = 50
)

// XPThreshold is the XP needed to clear level, round(100·level^1.5)
func XPThreshold(level int) int {
	if level < 1 {
		level = 1
	}
	return int(math.Round(100 * math.Pow(float64(level), 1.5)))
}

// EarnedXP rewards the day's overall score, swim mastery, streak and PRs
func EarnedXP(overall, swimMastery float64, streak, prs int) int {
	xp := int(math.Round(overall)) + int(math.Round(swimMastery/4))
	xp += xpPerStreakDay * min(max(streak, 0), maxStreakBonus)
	xp += xpPerPR * max(prs, 0)
	return xp
}

// NewXPState is the state of a player who has never earned XP
func NewXPState() store.XPState {
	return store.XPState{Level: 1, XPToNextLevel: XPThreshold(1)}
}

// Normalize repairs a state read from storage so the invariants hold
func Normalize(s store.XPState) store.XPState {
	if s.Level < 1 {
		s.Level = 1
	}
	if s.CurrentXP < 0 {
		s.CurrentXP = 0
	}
	if s.XPToNextLevel <= 0 {
		s.XPToNextLevel = XPThreshold(s.Level)
	}
	if s.TotalXP < s.CurrentXP {
		s.TotalXP = s.CurrentXP
	}
	return s
}

// AddXP applies earned XP and rolls over as many levels as it covers.
// It returns the new state and how many levels were gained.
func AddXP(s store.XPState, earned int) (store.XPState, int) {
	s = Normalize(s)
	if earned <= 0 {
		return s, 0
	}
	s.CurrentXP += earned
	s.TotalXP += earned

	gained := 0
	for s.CurrentXP >= s.XPToNextLevel {
		s.CurrentXP -= s.XPToNextLevel
		s.Level++
		s.XPToNextLevel = XPThreshold(s.Level)
		gained++
	}
	return s, gained
}

// Progress is the fraction of the current level completed
func Progress(s store.XPState) float64 {
	if s.XPToNextLevel <= 0 {
		return 0
	}
	return math.Min(float64(s.CurrentXP)/float64(s.XPToNextLevel), 1)
}
