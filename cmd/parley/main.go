// cmd/parley/main.go
//
// This is the entry point for the Parley CLI.
// When you run `parley` from a project directory, this is what executes.
//
// Flow:
// 1. Initialize the .parley folder (config, data, logs)
// 2. Load the stored case, or start a fresh one
// 3. Launch the TUI around the dispatcher and the generation client

package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"parley/internal/casefile"
	"parley/internal/config"
	"parley/internal/llm"
	"parley/internal/logging"
	"parley/internal/pipeline"
	"parley/internal/store"
	"parley/internal/tui"
)

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
		os.Exit(1)
	}

	if err := config.InitParleyDir(cwd); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing .parley directory: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.NewConfig(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	db, err := store.Open(cfg.DataDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening case store: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// An unreadable or absent record both mean "start fresh".
	initial, err := db.Load()
	if err != nil {
		if !errors.Is(err, store.ErrNoCase) {
			fmt.Fprintf(os.Stderr, "Error loading case: %v\n", err)
			os.Exit(1)
		}
		initial = casefile.New()
	}

	dispatcher := pipeline.NewDispatcher(initial, db, pipeline.WithLogger(logger))

	apiKey := cfg.APIKey()
	if apiKey == "" {
		fmt.Fprintf(os.Stderr, "Warning: %s is not set; generation features are disabled until it is.\n", cfg.Project.APIKeyEnv)
	}
	opts := []llm.OpenAIOption{
		llm.WithModel(cfg.Project.Model),
		llm.WithTemperature(cfg.Project.Temperature),
	}
	if cfg.Project.BaseURL != "" {
		opts = append(opts, llm.WithBaseURL(apiKey, cfg.Project.BaseURL))
	}
	generator := llm.NewOpenAI(apiKey, opts...)

	p := tea.NewProgram(
		tui.NewApp(dispatcher, generator, logger),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
