package store

import (
	"fmt"
	"time"
)

const (
	keyLastScoredDay = "last_scored_day"
	keyLastSyncAt    = "last_sync_at"
)

// LastScoredDay returns the most recently scored day at midnight in loc,
// zero when nothing has been scored yet
func (db *DB) LastScoredDay(loc *time.Location) (time.Time, error) {
	v, err := db.syncValue(keyLastScoredDay)
	if err != nil || v == "" {
		return time.Time{}, err
	}
	day, err := time.ParseInLocation(dayLayout, v, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s %q: %w", keyLastScoredDay, v, err)
	}
	return day, nil
}

// SetLastScoredDay records day as scored
func (db *DB) SetLastScoredDay(day time.Time) error {
	return db.setSyncValue(keyLastScoredDay, DayKey(day))
}

// LastSyncAt returns when the last sync finished, zero if never
func (db *DB) LastSyncAt() (time.Time, error) {
	v, err := db.syncValue(keyLastSyncAt)
	if err != nil || v == "" {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s %q: %w", keyLastSyncAt, v, err)
	}
	return t, nil
}

// SetLastSyncAt records a finished sync
func (db *DB) SetLastSyncAt(t time.Time) error {
	return db.setSyncValue(keyLastSyncAt, t.Format(time.RFC3339))
}

// syncValue reads a key, empty when unset
func (db *DB) syncValue(key string) (string, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM sync_state WHERE key = ?`, key).Scan(&value)
	if errIsNoRows(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading sync state %s: %w", key, err)
	}
	return value, nil
}

func (db *DB) setSyncValue(key, value string) error {
	_, err := db.Exec(`
		INSERT INTO sync_state (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("writing sync state %s: %w", key, err)
	}
	return nil
}
