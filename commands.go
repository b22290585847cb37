package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"healthscore/internal/config"
	"healthscore/internal/ingest"
	"healthscore/internal/report"
	"healthscore/internal/service"
	"healthscore/internal/store"
)

func (a *app) runSync() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	if err := service.SyncJob(a.scoring, a.hunter, a.query, a.log)(ctx); err != nil {
		return err
	}

	day := a.query.LatestDay()
	if day.IsZero() {
		fmt.Println("No days scored yet. Check feed.path in your config.")
		return nil
	}
	fmt.Printf("Synced in %s. Latest day: %s\n", time.Since(start).Round(time.Millisecond), day.Format("Mon Jan 2, 2006"))
	return nil
}

func (a *app) runFeatures(args []string) error {
	fs := flag.NewFlagSet("features", flag.ContinueOnError)
	dayFlag := fs.String("day", "", "day to derive features for (YYYY-MM-DD, default latest scored)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	day, err := a.resolveDay(*dayFlag)
	if err != nil {
		return err
	}
	vector, err := a.query.Features(day)
	if err != nil {
		return err
	}
	for _, f := range vector.Features() {
		if f.Value == nil {
			fmt.Printf("%s=absent\n", f.Name)
			continue
		}
		fmt.Printf("%s=%s\n", f.Name, strconv.FormatFloat(*f.Value, 'f', -1, 64))
	}
	return nil
}

func (a *app) runReport(args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	days := fs.Int("days", service.DefaultTrendDays, "number of days in the trend")
	dayFlag := fs.String("day", "", "last day of the report (YYYY-MM-DD, default latest scored)")
	out := fs.String("out", "", "output file (default <home>/report.html)")
	open := fs.Bool("open", false, "open the report in a browser")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *days < 1 {
		return fmt.Errorf("days must be positive, got %d", *days)
	}

	day, err := a.resolveDay(*dayFlag)
	if err != nil {
		return err
	}
	trend, err := a.query.Trend(day.AddDate(0, 0, -(*days - 1)), day)
	if err != nil {
		return err
	}

	timeline, err := a.query.StressTimeline(context.Background(), day)
	if errors.Is(err, ingest.ErrNoSamples) {
		timeline = nil
	} else if err != nil {
		return fmt.Errorf("stress timeline: %w", err)
	}

	path := *out
	if path == "" {
		dir, err := config.GetConfigDir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "report.html")
	}
	if err := report.WriteTrendFile(path, trend, timeline); err != nil {
		return err
	}
	fmt.Printf("Wrote %d days to %s\n", len(trend), path)

	if *open {
		return report.Open(path)
	}
	return nil
}

func (a *app) runWatch() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched, err := service.NewScheduler(a.cfg.Schedule.Cron, service.SyncJob(a.scoring, a.hunter, a.query, a.log), a.log)
	if err != nil {
		return err
	}

	// Catch up before waiting for the first tick
	if err := sched.RunOnce(ctx); err != nil {
		a.log.Error("initial sync failed", "error", err)
	}

	sched.Start(ctx)
	<-ctx.Done()
	sched.Stop()
	return nil
}

// resolveDay parses a YYYY-MM-DD flag, falling back to the latest scored day
func (a *app) resolveDay(s string) (time.Time, error) {
	if s == "" {
		if day := a.query.LatestDay(); !day.IsZero() {
			return day, nil
		}
		return store.StartOfDay(time.Now()), nil
	}
	day, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q: %w", s, err)
	}
	return day, nil
}
