package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/modelpulse/modelpulse/internal/client"
	"github.com/modelpulse/modelpulse/internal/config"
	"github.com/modelpulse/modelpulse/internal/settings"
	"github.com/modelpulse/modelpulse/internal/tui"
)

func runDashboard(cfg config.Config) {
	store := settings.NewStore(settings.Path())
	source := client.New(cfg.API.BaseURL, time.Duration(cfg.API.TimeoutSeconds)*time.Second)
	interval := time.Duration(cfg.UI.RefreshIntervalSeconds) * time.Second

	model := tui.NewModel(source, store, interval)
	program := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// External edits to the settings file show up in the running dashboard.
	if updates, err := settings.Watch(ctx, settings.Path()); err != nil {
		log.Printf("settings watcher unavailable: %v", err)
	} else {
		go func() {
			for s := range updates {
				program.Send(tui.SettingsMsg(s))
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("TUI error: %v", err)
	}
}
