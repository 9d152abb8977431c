// Package main is the terminal almanac browser.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/subhashmahimaluri/panchangam/internal/astro"
	"github.com/subhashmahimaluri/panchangam/internal/config"
	"github.com/subhashmahimaluri/panchangam/internal/panchang"
	"github.com/subhashmahimaluri/panchangam/internal/store"
	"github.com/subhashmahimaluri/panchangam/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// The alternate screen owns the terminal, so engine logs are discarded
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := store.Open(store.DefaultConfig(cfg.DBDriver, cfg.DSN()), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening city catalog: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if _, err := st.Migrate(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error migrating city catalog: %v\n", err)
		os.Exit(1)
	}

	engine := panchang.NewEngine(astro.NewMeeus(), logger)

	p := tea.NewProgram(tui.NewModel(st, engine), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running application: %v\n", err)
		os.Exit(1)
	}
}
