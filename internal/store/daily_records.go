package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertDailyRecord writes a day with its workouts and baseline, replacing
// whatever was stored for that date before.
func (db *DB) UpsertDailyRecord(r *DailyRecord) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	key := DayKey(r.Date)

	var s StressSummary
	hasStress := r.Stress != nil
	if hasStress {
		s = *r.Stress
	}

	_, err = tx.Exec(`
		INSERT INTO daily_records (
			date, strain, recovery, sleep_hours, sleep_efficiency, sleep_consistency,
			sleep_debt, deep_sleep_hours, sleep_onset, hrv, resting_hr, respiratory_rate,
			vo2max, steps, active_calories,
			stress_avg, stress_max, stress_low_minutes, stress_moderate_minutes,
			stress_high_minutes, stress_elevated_periods, stress_valid_samples, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(date) DO UPDATE SET
			strain = excluded.strain,
			recovery = excluded.recovery,
			sleep_hours = excluded.sleep_hours,
			sleep_efficiency = excluded.sleep_efficiency,
			sleep_consistency = excluded.sleep_consistency,
			sleep_debt = excluded.sleep_debt,
			deep_sleep_hours = excluded.deep_sleep_hours,
			sleep_onset = excluded.sleep_onset,
			hrv = excluded.hrv,
			resting_hr = excluded.resting_hr,
			respiratory_rate = excluded.respiratory_rate,
			vo2max = excluded.vo2max,
			steps = excluded.steps,
			active_calories = excluded.active_calories,
			stress_avg = excluded.stress_avg,
			stress_max = excluded.stress_max,
			stress_low_minutes = excluded.stress_low_minutes,
			stress_moderate_minutes = excluded.stress_moderate_minutes,
			stress_high_minutes = excluded.stress_high_minutes,
			stress_elevated_periods = excluded.stress_elevated_periods,
			stress_valid_samples = excluded.stress_valid_samples,
			updated_at = CURRENT_TIMESTAMP
	`,
		key, r.Strain, r.Recovery, r.SleepHours, r.SleepEfficiency, r.SleepConsistency,
		r.SleepDebt, r.DeepSleepHours, timeToNullString(r.SleepOnset), r.HRV, r.RestingHR, r.RespiratoryRate,
		r.VO2Max, r.Steps, r.ActiveCalories,
		nullIf(hasStress, s.Average), nullIf(hasStress, s.Max), nullIf(hasStress, s.LowMinutes),
		nullIf(hasStress, s.ModerateMinutes), nullIf(hasStress, s.HighMinutes),
		nullIf(hasStress, s.ElevatedPeriods), nullIf(hasStress, s.ValidSamples),
	)
	if err != nil {
		return fmt.Errorf("upserting daily record %s: %w", key, err)
	}

	if _, err := tx.Exec(`DELETE FROM workouts WHERE date = ?`, key); err != nil {
		return fmt.Errorf("clearing workouts: %w", err)
	}
	for _, w := range r.Workouts {
		_, err := tx.Exec(`
			INSERT INTO workouts (
				id, date, activity_type, sub_type, start_time, end_time, duration_seconds,
				distance, active_calories, avg_hr, max_hr, strain, hr_intensity
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			w.ID, key, string(w.ActivityType), w.SubType,
			w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339), int64(w.Duration/time.Second),
			w.Distance, w.ActiveCalories, w.AverageHR, w.MaxHR, w.Strain, w.HRIntensity,
		)
		if err != nil {
			return fmt.Errorf("inserting workout %s: %w", w.ID, err)
		}
	}

	if _, err := tx.Exec(`DELETE FROM baselines WHERE date = ?`, key); err != nil {
		return fmt.Errorf("clearing baseline: %w", err)
	}
	if b := r.Baseline; b != nil {
		_, err := tx.Exec(`
			INSERT INTO baselines (
				date, hrv_mean, hrv_sd, rhr_mean, rhr_sd, acute_strain, chronic_strain,
				respiratory_rate, days_of_data
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			key, b.HRVMean, b.HRVStdDev, b.RHRMean, b.RHRStdDev, b.AcuteStrain, b.ChronicStrain,
			b.RespiratoryRate, b.DaysOfData,
		)
		if err != nil {
			return fmt.Errorf("inserting baseline: %w", err)
		}
	}

	return tx.Commit()
}

// GetDailyRecord retrieves a single day with its workouts and baseline
func (db *DB) GetDailyRecord(date time.Time) (*DailyRecord, error) {
	records, err := db.ListDailyRecords(date, date)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrRecordNotFound
	}
	return &records[0], nil
}

// ListDailyRecords returns days in [from, to] inclusive, ordered by date ascending
func (db *DB) ListDailyRecords(from, to time.Time) ([]DailyRecord, error) {
	fromKey, toKey := DayKey(from), DayKey(to)

	rows, err := db.Query(`
		SELECT d.date, d.strain, d.recovery, d.sleep_hours, d.sleep_efficiency, d.sleep_consistency,
			d.sleep_debt, d.deep_sleep_hours, d.sleep_onset, d.hrv, d.resting_hr, d.respiratory_rate,
			d.vo2max, d.steps, d.active_calories,
			d.stress_avg, d.stress_max, d.stress_low_minutes, d.stress_moderate_minutes,
			d.stress_high_minutes, d.stress_elevated_periods, d.stress_valid_samples,
			b.hrv_mean, b.hrv_sd, b.rhr_mean, b.rhr_sd, b.acute_strain, b.chronic_strain,
			b.respiratory_rate, b.days_of_data
		FROM daily_records d
		LEFT JOIN baselines b ON b.date = d.date
		WHERE d.date >= ? AND d.date <= ?
		ORDER BY d.date ASC
	`, fromKey, toKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []DailyRecord
	index := make(map[string]int)
	for rows.Next() {
		r, err := scanDailyRecord(rows, from.Location())
		if err != nil {
			return nil, err
		}
		index[DayKey(r.Date)] = len(records)
		records = append(records, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return records, nil
	}

	workouts, err := db.listWorkouts(fromKey, toKey, from.Location())
	if err != nil {
		return nil, err
	}
	for key, ws := range workouts {
		if i, ok := index[key]; ok {
			records[i].Workouts = ws
		}
	}

	return records, nil
}

// DeleteDailyRecord removes a day and its dependent rows
func (db *DB) DeleteDailyRecord(date time.Time) error {
	result, err := db.Exec(`DELETE FROM daily_records WHERE date = ?`, DayKey(date))
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (db *DB) listWorkouts(fromKey, toKey string, loc *time.Location) (map[string][]WorkoutRecord, error) {
	rows, err := db.Query(`
		SELECT date, id, activity_type, sub_type, start_time, end_time, duration_seconds,
			distance, active_calories, avg_hr, max_hr, strain, hr_intensity
		FROM workouts
		WHERE date >= ? AND date <= ?
		ORDER BY start_time ASC
	`, fromKey, toKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]WorkoutRecord)
	for rows.Next() {
		var (
			w                WorkoutRecord
			date, activity   string
			subType          sql.NullString
			startStr, endStr string
			durationSeconds  int64
		)
		err := rows.Scan(
			&date, &w.ID, &activity, &subType, &startStr, &endStr, &durationSeconds,
			&w.Distance, &w.ActiveCalories, &w.AverageHR, &w.MaxHR, &w.Strain, &w.HRIntensity,
		)
		if err != nil {
			return nil, err
		}
		w.ActivityType = ActivityType(activity)
		w.SubType = subType.String
		w.Duration = time.Duration(durationSeconds) * time.Second
		if w.Start, err = time.Parse(time.RFC3339, startStr); err != nil {
			return nil, fmt.Errorf("parsing workout start: %w", err)
		}
		if w.End, err = time.Parse(time.RFC3339, endStr); err != nil {
			return nil, fmt.Errorf("parsing workout end: %w", err)
		}
		w.Start = w.Start.In(loc)
		w.End = w.End.In(loc)
		out[date] = append(out[date], w)
	}
	return out, rows.Err()
}

func scanDailyRecord(rows *sql.Rows, loc *time.Location) (*DailyRecord, error) {
	var (
		r          DailyRecord
		dateStr    string
		onset      sql.NullString
		stressAvg  sql.NullFloat64
		stressMax  sql.NullFloat64
		lowMin     sql.NullFloat64
		modMin     sql.NullFloat64
		highMin    sql.NullFloat64
		periods    sql.NullInt64
		valid      sql.NullInt64
		hrvMean    sql.NullFloat64
		hrvSD      *float64
		rhrMean    sql.NullFloat64
		rhrSD      *float64
		acute      sql.NullFloat64
		chronic    sql.NullFloat64
		baseResp   *float64
		daysOfData sql.NullInt64
	)

	err := rows.Scan(
		&dateStr, &r.Strain, &r.Recovery, &r.SleepHours, &r.SleepEfficiency, &r.SleepConsistency,
		&r.SleepDebt, &r.DeepSleepHours, &onset, &r.HRV, &r.RestingHR, &r.RespiratoryRate,
		&r.VO2Max, &r.Steps, &r.ActiveCalories,
		&stressAvg, &stressMax, &lowMin, &modMin, &highMin, &periods, &valid,
		&hrvMean, &hrvSD, &rhrMean, &rhrSD, &acute, &chronic, &baseResp, &daysOfData,
	)
	if err != nil {
		return nil, err
	}

	r.Date, err = time.ParseInLocation(dayLayout, dateStr, loc)
	if err != nil {
		return nil, fmt.Errorf("parsing date %q: %w", dateStr, err)
	}

	if onset.Valid {
		t, err := time.Parse(time.RFC3339, onset.String)
		if err != nil {
			return nil, fmt.Errorf("parsing sleep onset: %w", err)
		}
		t = t.In(loc)
		r.SleepOnset = &t
	}

	if stressAvg.Valid {
		r.Stress = &StressSummary{
			Average:         stressAvg.Float64,
			Max:             stressMax.Float64,
			LowMinutes:      lowMin.Float64,
			ModerateMinutes: modMin.Float64,
			HighMinutes:     highMin.Float64,
			ElevatedPeriods: int(periods.Int64),
			ValidSamples:    int(valid.Int64),
		}
	}

	if hrvMean.Valid {
		r.Baseline = &Baseline{
			HRVMean:         hrvMean.Float64,
			HRVStdDev:       hrvSD,
			RHRMean:         rhrMean.Float64,
			RHRStdDev:       rhrSD,
			AcuteStrain:     acute.Float64,
			ChronicStrain:   chronic.Float64,
			RespiratoryRate: baseResp,
			DaysOfData:      int(daysOfData.Int64),
		}
	}

	return &r, nil
}

func timeToNullString(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.RFC3339), Valid: true}
}

// nullIf yields v when present is true, otherwise SQL NULL
func nullIf[T any](present bool, v T) any {
	if !present {
		return nil
	}
	return v
}

// errIsNoRows reports whether err is sql.ErrNoRows
func errIsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
