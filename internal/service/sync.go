package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"healthscore/internal/analysis"
	"healthscore/internal/ingest"
	"healthscore/internal/store"
)

// ScoringService scores days from the feed and persists the results
type ScoringService struct {
	store  *store.DB
	feed   ingest.Feed
	engine analysis.Engine
	log    *slog.Logger
}

// NewScoringService creates a new scoring service
func NewScoringService(store *store.DB, feed ingest.Feed, engine analysis.Engine, log *slog.Logger) *ScoringService {
	if log == nil {
		log = slog.Default()
	}
	return &ScoringService{store: store, feed: feed, engine: engine, log: log}
}

// SyncProgress reports progress during a sync
type SyncProgress struct {
	Phase      string // "days"
	Total      int
	Completed  int
	CurrentDay time.Time
	Error      error
}

// SyncResult contains the results of a sync operation
type SyncResult struct {
	DaysScored  int
	DaysSkipped int
	ColdStart   int // days scored without a baseline
	SwimPRs     int
	Errors      []error
}

// ScoreResult is one scored and stored day
type ScoreResult struct {
	analysis.DayResult
	SwimPRs int
}

// ScoreDay scores the feed's samples for day against stored history and
// upserts the record. Returns ingest.ErrNoSamples when the feed has nothing.
func (s *ScoringService) ScoreDay(ctx context.Context, day time.Time) (*ScoreResult, error) {
	day = store.StartOfDay(day)
	samples, err := s.feed.Day(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("reading samples: %w", err)
	}

	history, err := s.store.ListDailyRecords(day.AddDate(0, 0, -ScoringHistoryDays), day.AddDate(0, 0, -1))
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	result := &ScoreResult{DayResult: s.engine.ScoreDay(samples.Inputs(), history)}
	s.logBaseline(day, result.Baseline)

	if err := s.store.UpsertDailyRecord(&result.Record); err != nil {
		return nil, fmt.Errorf("storing daily record: %w", err)
	}

	if samples.Body != nil {
		if err := s.store.UpsertBodyComposition(samples.Body); err != nil {
			return nil, fmt.Errorf("storing body composition: %w", err)
		}
	}
	for _, r := range samples.SwimRecords {
		improved, err := s.store.UpsertSwimRecord(&r)
		if err != nil {
			return nil, fmt.Errorf("storing swim record %s: %w", r.Event, err)
		}
		if improved {
			result.SwimPRs++
			s.log.Info("swim personal best", "event", r.Event, "seconds", r.Seconds)
		}
	}

	if err := s.store.SetLastScoredDay(day); err != nil {
		return nil, fmt.Errorf("updating sync state: %w", err)
	}

	s.log.Debug("scored day",
		logKeyDay, store.DayKey(day),
		"strain", result.Record.Strain,
		"recovery", result.Recovery.Score,
		"baseline", result.Baseline.Available(),
	)
	return result, nil
}

func (s *ScoringService) logBaseline(day time.Time, b analysis.BaselineResult) {
	if !b.Available() {
		s.log.Info("baseline not ready, recovery withheld",
			logKeyDay, store.DayKey(day),
			"valid_days", b.ValidDays,
		)
		return
	}
	if b.HRVRemoved > 0 {
		s.log.Info("removed HRV outliers from baseline", logKeyDay, store.DayKey(day), logKeyRemoved, b.HRVRemoved)
	}
	if b.RHRRemoved > 0 {
		s.log.Info("removed resting HR outliers from baseline", logKeyDay, store.DayKey(day), logKeyRemoved, b.RHRRemoved)
	}
}

// SyncRange scores every day in [from, to] in ascending order so each day
// sees the records of the days before it. Days without samples are skipped.
func (s *ScoringService) SyncRange(ctx context.Context, from, to time.Time, progress chan<- SyncProgress) (*SyncResult, error) {
	if progress != nil {
		defer close(progress)
	}

	from, to = store.StartOfDay(from), store.StartOfDay(to)
	result := &SyncResult{}
	if to.Before(from) {
		return result, nil
	}

	total := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		total++
	}

	i := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if progress != nil {
			progress <- SyncProgress{Phase: "days", Total: total, Completed: i, CurrentDay: d}
		}
		i++

		scored, err := s.ScoreDay(ctx, d)
		if errors.Is(err, ingest.ErrNoSamples) {
			result.DaysSkipped++
			continue
		}
		if err != nil {
			s.log.Error("scoring day failed", logKeyDay, store.DayKey(d), "error", err)
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", store.DayKey(d), err))
			continue
		}

		result.DaysScored++
		result.SwimPRs += scored.SwimPRs
		if !scored.Baseline.Available() {
			result.ColdStart++
		}
	}

	if progress != nil {
		progress <- SyncProgress{Phase: "days", Total: total, Completed: total}
	}

	if err := s.store.SetLastSyncAt(time.Now()); err != nil {
		return result, fmt.Errorf("updating sync state: %w", err)
	}
	return result, nil
}

// SyncAll scores from the last scored day (or the first day in the feed)
// through the latest day the feed knows about. The last scored day is
// rescored because its samples may have grown since.
func (s *ScoringService) SyncAll(ctx context.Context, progress chan<- SyncProgress) (*SyncResult, error) {
	days, err := s.feed.Days(ctx)
	if err != nil {
		if progress != nil {
			close(progress)
		}
		return nil, fmt.Errorf("listing feed days: %w", err)
	}
	if len(days) == 0 {
		if progress != nil {
			close(progress)
		}
		return &SyncResult{}, nil
	}

	from, to := days[0], days[len(days)-1]
	if last, err := s.store.LastScoredDay(from.Location()); err != nil {
		s.log.Warn("ignoring unreadable sync state", "error", err)
	} else if last.After(from) {
		from = last
	}
	return s.SyncRange(ctx, from, to, progress)
}

// LastSync returns when the last sync finished, zero if never
func (s *ScoringService) LastSync() time.Time {
	t, err := s.store.LastSyncAt()
	if err != nil {
		return time.Time{}
	}
	return t
}
