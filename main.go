package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/stepr/internal/config"
	"github.com/sadopc/stepr/internal/platform"
	"github.com/sadopc/stepr/internal/sensor"
	"github.com/sadopc/stepr/internal/state"
	"github.com/sadopc/stepr/internal/store"
	"github.com/sadopc/stepr/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	logFile, err := tea.LogToFile(cfg.LogFile, "stepr")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	s, err := store.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	st := state.NewStores()
	loadState(s, st)

	pedometer := sensor.NewSimulated(sensor.SimulatedConfig{
		Available:      cfg.Sensor.Available,
		Permission:     sensor.ParsePermission(cfg.Sensor.Permission),
		GrantOnRequest: cfg.Sensor.Grant,
		Cadence:        cfg.Sensor.Cadence,
		Seed:           cfg.Sensor.Seed,
	})
	svc := sensor.NewService(pedometer, st.Steps, sensor.WithReconcileInterval(cfg.ReconcileInterval))
	defer svc.Stop()

	app := tui.NewApp(tui.Options{
		Store:        s,
		Service:      svc,
		State:        st,
		OpenSettings: platform.OpenSettings,
	})
	defer app.Close()

	log.Printf("stepr: starting, db=%s", cfg.DBPath)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// loadState seeds the in-memory values from the store. A read failure is
// logged and the defaults are kept.
func loadState(s *store.Store, st *state.Stores) {
	row, err := s.LoadProfile()
	if err != nil {
		log.Printf("stepr: %v", err)
	} else if row != nil {
		st.Profile.Set(row.Fitness())
	}

	goal, err := s.GetGoal()
	if err != nil {
		log.Printf("stepr: load goal: %v", err)
	}
	st.Goal.Set(goal)
}
