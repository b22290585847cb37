package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron"
)

// Job is one scheduled unit of work
type Job func(ctx context.Context) error

// Scheduler runs a job on a cron spec with a seconds field,
// e.g. "0 30 6 * * *" for 06:30 every day
type Scheduler struct {
	spec     string
	schedule cron.Schedule
	job      Job
	log      *slog.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

// NewScheduler validates spec and returns a stopped scheduler
func NewScheduler(spec string, job Job, log *slog.Logger) (*Scheduler, error) {
	schedule, err := cron.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parsing schedule %q: %w", spec, err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{spec: spec, schedule: schedule, job: job, log: log}, nil
}

// Next returns the next time the job fires after t
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}

// Start begins firing the job. Runs never overlap; a tick that lands while
// the previous run is still going is skipped.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return
	}
	s.cron = cron.New()
	s.cron.Schedule(s.schedule, cron.FuncJob(func() { s.fire(ctx) }))
	s.cron.Start()
	s.log.Info("scheduler started", "spec", s.spec, "next", s.Next(time.Now()).Format(time.RFC3339))
}

// Stop halts the scheduler. A run in progress is not interrupted.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron == nil {
		return
	}
	s.cron.Stop()
	s.cron = nil
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) fire(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.log.Warn("previous run still in progress, skipping tick")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	if err := s.RunOnce(ctx); err != nil {
		s.log.Error("scheduled run failed", "error", err)
	}
}

// RunOnce runs the job immediately
func (s *Scheduler) RunOnce(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	err := s.job(ctx)
	s.log.Info("scheduled run finished", "took", time.Since(start).Round(time.Millisecond), "ok", err == nil)
	return err
}

// SyncJob scores any new feed days and then settles the day's Hunter XP
func SyncJob(scoring *ScoringService, hunterSvc *HunterService, query *QueryService, log *slog.Logger) Job {
	if log == nil {
		log = slog.Default()
	}
	return func(ctx context.Context) error {
		result, err := scoring.SyncAll(ctx, nil)
		if err != nil {
			return fmt.Errorf("sync: %w", err)
		}
		log.Info("sync complete",
			"scored", result.DaysScored,
			"skipped", result.DaysSkipped,
			"cold_start", result.ColdStart,
			"errors", len(result.Errors),
		)

		day := query.LatestDay()
		if day.IsZero() {
			return nil
		}
		if _, err := hunterSvc.Snapshot(day); err != nil {
			return fmt.Errorf("hunter snapshot: %w", err)
		}
		return nil
	}
}
