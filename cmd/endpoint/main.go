package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/endpoint/internal/config"
	"github.com/jask/endpoint/internal/database"
	"github.com/jask/endpoint/internal/database/repository"
	"github.com/jask/endpoint/internal/keys"
	"github.com/jask/endpoint/internal/service"
	"github.com/jask/endpoint/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := log.New(io.Discard, "", 0)
	if cfg.Log.Path != "" {
		f, err := tea.LogToFile(cfg.Log.Path, "endpoint")
		if err != nil {
			return fmt.Errorf("log file: %w", err)
		}
		defer f.Close()
		logger = log.Default()
	}

	// p is assigned before the scheduler starts, so ticks always have a program.
	var p *tea.Program
	sched, err := service.NewScheduler(cfg.Refresh.Schedule, func() { p.Send(tui.ReloadMsg{}) }, logger)
	if err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}

	db, err := database.Prepare(ctx, cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	if err := database.SeedDefaults(ctx, db); err != nil {
		return fmt.Errorf("seed defaults: %w", err)
	}

	registry := keys.NewRegistry()
	if err := registry.LoadFile(cfg.Keys.Path); err != nil {
		return fmt.Errorf("keybindings: %w", err)
	}

	// repositories
	requests := repository.NewRequestRepo(db)
	registers := repository.NewRegisterRepo(db)
	sources := repository.NewSourceRepo(db)

	// services
	ingester := &service.IngestService{Requests: requests, Logger: logger}
	status := &service.StatusService{DB: db, Requests: requests, Logger: logger}
	duplicates := &service.DuplicateFinder{Requests: requests}
	maintenance := &service.MaintenanceService{DB: db}

	if cfg.Import.Path != "" {
		if res, err := ingester.ImportFile(ctx, cfg.Import.Path); err != nil {
			logger.Printf("startup import: %v", err)
		} else {
			logger.Printf("startup import: %d imported, %d skipped", res.Imported, res.Skipped)
		}
	}

	p = tea.NewProgram(tui.New(ctx, cfg,
		tui.Repos{Requests: requests, Registers: registers, Sources: sources},
		tui.Services{Ingest: ingester, Status: status, Duplicates: duplicates, Maintenance: maintenance},
		registry,
	), tea.WithAltScreen())

	if cfg.Import.Path != "" && cfg.Import.Watch {
		w := &service.Watcher{Path: cfg.Import.Path, Logger: logger}
		go func() {
			if err := w.Run(ctx, func() { p.Send(tui.FileChangedMsg{}) }); err != nil {
				logger.Printf("watcher: %v", err)
			}
		}()
	}

	sched.Start()
	defer sched.Stop()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}
