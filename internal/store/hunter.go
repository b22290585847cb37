package store

import (
	"database/sql"
	"fmt"
	"time"
)

// GetXPState retrieves the persisted Hunter progression
func (db *DB) GetXPState() (*XPState, error) {
	var (
		s    XPState
		last sql.NullString
	)
	err := db.QueryRow(`
		SELECT level, current_xp, xp_to_next, total_xp, streak, last_awarded_day
		FROM hunter_state WHERE id = 1
	`).Scan(&s.Level, &s.CurrentXP, &s.XPToNextLevel, &s.TotalXP, &s.Streak, &last)
	if errIsNoRows(err) {
		return nil, ErrNoXPState
	}
	if err != nil {
		return nil, err
	}
	s.LastAwardedDay = last.String
	return &s, nil
}

// SaveXPState stores or replaces the Hunter progression
func (db *DB) SaveXPState(s *XPState) error {
	_, err := db.Exec(`
		INSERT INTO hunter_state (id, level, current_xp, xp_to_next, total_xp, streak, last_awarded_day, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			level = excluded.level,
			current_xp = excluded.current_xp,
			xp_to_next = excluded.xp_to_next,
			total_xp = excluded.total_xp,
			streak = excluded.streak,
			last_awarded_day = excluded.last_awarded_day,
			updated_at = CURRENT_TIMESTAMP
	`, s.Level, s.CurrentXP, s.XPToNextLevel, s.TotalXP, s.Streak, s.LastAwardedDay)
	return err
}

// UpsertBodyComposition stores a body-composition measurement for its date
func (db *DB) UpsertBodyComposition(b *BodyComposition) error {
	_, err := db.Exec(`
		INSERT INTO body_composition (date, weight_kg, body_fat_pct, lean_mass_kg, body_water_pct)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			weight_kg = excluded.weight_kg,
			body_fat_pct = excluded.body_fat_pct,
			lean_mass_kg = excluded.lean_mass_kg,
			body_water_pct = excluded.body_water_pct
	`, DayKey(b.Date), b.WeightKg, b.BodyFatPercent, b.LeanMassKg, b.BodyWaterPercent)
	return err
}

// LatestBodyComposition returns the most recent measurement on or before date.
// Returns nil, nil when none exists.
func (db *DB) LatestBodyComposition(date time.Time) (*BodyComposition, error) {
	var (
		b       BodyComposition
		dateStr string
	)
	err := db.QueryRow(`
		SELECT date, weight_kg, body_fat_pct, lean_mass_kg, body_water_pct
		FROM body_composition
		WHERE date <= ?
		ORDER BY date DESC
		LIMIT 1
	`, DayKey(date)).Scan(&dateStr, &b.WeightKg, &b.BodyFatPercent, &b.LeanMassKg, &b.BodyWaterPercent)
	if errIsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	b.Date, err = time.ParseInLocation(dayLayout, dateStr, date.Location())
	if err != nil {
		return nil, fmt.Errorf("parsing body composition date: %w", err)
	}
	return &b, nil
}

// UpsertSwimRecord stores a swim time if it beats the existing record for the event.
// Returns true if the record was created or improved.
func (db *DB) UpsertSwimRecord(r *SwimRecord) (bool, error) {
	var existing float64
	err := db.QueryRow(`SELECT seconds FROM swim_records WHERE event = ?`, r.Event).Scan(&existing)
	if err != nil && !errIsNoRows(err) {
		return false, err
	}
	if err == nil && existing <= r.Seconds {
		return false, nil
	}

	_, err = db.Exec(`
		INSERT INTO swim_records (event, seconds, achieved_at)
		VALUES (?, ?, ?)
		ON CONFLICT(event) DO UPDATE SET
			seconds = excluded.seconds,
			achieved_at = excluded.achieved_at
	`, r.Event, r.Seconds, DayKey(r.AchievedAt))
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListSwimRecords returns all stored swim personal bests ordered by event
func (db *DB) ListSwimRecords() ([]SwimRecord, error) {
	rows, err := db.Query(`
		SELECT event, seconds, achieved_at FROM swim_records ORDER BY event
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []SwimRecord
	for rows.Next() {
		var (
			r        SwimRecord
			achieved string
		)
		if err := rows.Scan(&r.Event, &r.Seconds, &achieved); err != nil {
			return nil, err
		}
		r.AchievedAt, err = time.ParseInLocation(dayLayout, achieved, time.Local)
		if err != nil {
			return nil, fmt.Errorf("parsing swim record date: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
