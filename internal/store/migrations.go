package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// One row per local calendar day
		`CREATE TABLE IF NOT EXISTS daily_records (
			date TEXT PRIMARY KEY,
			strain REAL NOT NULL DEFAULT 0,
			recovery REAL,
			sleep_hours REAL,
			sleep_efficiency REAL,
			sleep_consistency REAL,
			sleep_debt REAL,
			deep_sleep_hours REAL,
			sleep_onset TEXT,
			hrv REAL,
			resting_hr REAL,
			respiratory_rate REAL,
			vo2max REAL,
			steps INTEGER,
			active_calories REAL,
			stress_avg REAL,
			stress_max REAL,
			stress_low_minutes REAL,
			stress_moderate_minutes REAL,
			stress_high_minutes REAL,
			stress_elevated_periods INTEGER,
			stress_valid_samples INTEGER,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Workouts, replaced wholesale when a day is rescored
		`CREATE TABLE IF NOT EXISTS workouts (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			activity_type TEXT NOT NULL,
			sub_type TEXT,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			duration_seconds INTEGER NOT NULL,
			distance REAL,
			active_calories REAL NOT NULL DEFAULT 0,
			avg_hr REAL,
			max_hr REAL,
			strain REAL NOT NULL,
			hr_intensity REAL,
			FOREIGN KEY (date) REFERENCES daily_records(date) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_workouts_date ON workouts(date)`,

		// Baseline snapshot used to score a day
		`CREATE TABLE IF NOT EXISTS baselines (
			date TEXT PRIMARY KEY,
			hrv_mean REAL NOT NULL,
			hrv_sd REAL,
			rhr_mean REAL NOT NULL,
			rhr_sd REAL,
			acute_strain REAL NOT NULL,
			chronic_strain REAL NOT NULL,
			respiratory_rate REAL,
			days_of_data INTEGER NOT NULL,
			FOREIGN KEY (date) REFERENCES daily_records(date) ON DELETE CASCADE
		)`,

		// Hunter XP progression (singleton row)
		`CREATE TABLE IF NOT EXISTS hunter_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			level INTEGER NOT NULL,
			current_xp INTEGER NOT NULL,
			xp_to_next INTEGER NOT NULL,
			total_xp INTEGER NOT NULL,
			streak INTEGER NOT NULL DEFAULT 0,
			last_awarded_day TEXT,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS body_composition (
			date TEXT PRIMARY KEY,
			weight_kg REAL,
			body_fat_pct REAL,
			lean_mass_kg REAL,
			body_water_pct REAL
		)`,

		`CREATE TABLE IF NOT EXISTS swim_records (
			event TEXT PRIMARY KEY,
			seconds REAL NOT NULL,
			achieved_at TEXT NOT NULL
		)`,

		// Sync State (key-value store for sync tracking)
		`CREATE TABLE IF NOT EXISTS sync_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
