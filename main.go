package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"healthscore/internal/config"
	"healthscore/internal/ingest"
	"healthscore/internal/service"
	"healthscore/internal/store"
	"healthscore/internal/tui"
)

const usage = `usage: healthscore [command] [flags]

commands:
  tui                    interactive dashboard (default)
  sync                   score every new day in the export
  features [-day DATE]   print the feature vector for a day
  report [-days N] [-day DATE] [-out FILE] [-open]
                         write an HTML trend report
  watch                  re-score on the configured schedule
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

// app holds the wired services shared by every command
type app struct {
	cfg     *config.Config
	db      *store.DB
	log     *slog.Logger
	scoring *service.ScoringService
	query   *service.QueryService
	hunter  *service.HunterService
}

func run(args []string) error {
	cmd := "tui"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}
	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		fmt.Print(usage)
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		configDir, _ := config.GetConfigDir()
		fmt.Printf("Config validation failed: %v\n\n", err)
		fmt.Printf("Please edit the config file at:\n  %s/config.json\n", configDir)
		return nil
	}

	logger, closeLog, err := setupLogging(cmd == "tui")
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer closeLog()

	a, err := wire(cfg, logger)
	if err != nil {
		return err
	}
	defer a.db.Close()

	switch cmd {
	case "tui":
		return a.runTUI()
	case "sync":
		return a.runSync()
	case "features":
		return a.runFeatures(args)
	case "report":
		return a.runReport(args)
	case "watch":
		return a.runWatch()
	default:
		fmt.Print(usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		if err := config.CreateExample(); err != nil {
			return nil, fmt.Errorf("creating example config: %w", err)
		}
		configDir, _ := config.GetConfigDir()
		fmt.Printf("No config file found. Wrote an example to:\n  %s/config.json\n\n", configDir)
		return config.FromEnv(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func wire(cfg *config.Config, logger *slog.Logger) (*app, error) {
	dbPath, err := cfg.DBPath()
	if err != nil {
		return nil, err
	}
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// A missing export still lets stored days be browsed
	var feed ingest.Feed
	if cfg.Feed.Path != "" {
		ff, err := ingest.LoadFile(cfg.Feed.Path, time.Local)
		if err != nil {
			logger.Warn("health export unavailable", "path", cfg.Feed.Path, "error", err)
		} else {
			feed = ff
		}
	}
	if feed == nil {
		feed = ingest.NewFileFeed(ingest.Export{}, time.Local)
	}

	engine := service.NewEngine(cfg)
	return &app{
		cfg:     cfg,
		db:      db,
		log:     logger,
		scoring: service.NewScoringService(db, feed, engine, logger),
		query:   service.NewQueryService(db, feed, engine, cfg.Stress.ChartPoints),
		hunter:  service.NewHunterService(db, logger),
	}, nil
}

func (a *app) runTUI() error {
	p := tea.NewProgram(tui.NewApp(a.query, a.scoring, a.hunter), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
