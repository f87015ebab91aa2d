package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/riseplan/internal/calculation"
	"github.com/rgehrsitz/riseplan/internal/config"
	"github.com/rgehrsitz/riseplan/internal/logging"
	"github.com/rgehrsitz/riseplan/internal/storage"
	"github.com/rgehrsitz/riseplan/internal/storage/sqlite"
	"github.com/rgehrsitz/riseplan/internal/tui"
)

func main() {
	if len(os.Args) > 2 {
		fmt.Println("Usage: riseplan-tui [plan-file]")
		os.Exit(1)
	}

	// Optional plan file to prefill the form
	planPath := ""
	if len(os.Args) == 2 {
		planPath = os.Args[1]
		if _, err := os.Stat(planPath); os.IsNotExist(err) {
			fmt.Printf("Error: Plan file not found: %s\n", planPath)
			os.Exit(1)
		}
	}

	cfg, err := config.LoadAppConfig()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	// History is optional; the form and results work without it.
	var store storage.RunStore
	if s, err := sqlite.Open(cfg.DBPath); err != nil {
		logger.WithError(err).Warn("run history disabled")
	} else {
		defer s.Close()
		store = s
	}

	model := tui.NewModel(planPath, calculation.NewProjectionEngine(), store)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
