package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/modelpulse/modelpulse/internal/config"
	"github.com/modelpulse/modelpulse/internal/server"
	"github.com/modelpulse/modelpulse/internal/tracker"
)

func defaultDBPath() string {
	return filepath.Join(config.ConfigDir(), "usage.db")
}

func defaultLogPath() string {
	return filepath.Join(config.ConfigDir(), "server.log")
}

func newServeCommand() *cobra.Command {
	var (
		addr    string
		dbPath  string
		logFile string
		debug   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the usage tracking server",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
				return fmt.Errorf("creating data directory: %w", err)
			}

			store, err := tracker.OpenStore(dbPath)
			if err != nil {
				return fmt.Errorf("opening usage store: %w", err)
			}
			defer store.Close()

			logger, err := server.NewLogger(logFile, debug)
			if err != nil {
				return fmt.Errorf("initializing logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				cancel()
			}()

			if err := store.Init(ctx); err != nil {
				return fmt.Errorf("initializing usage store: %w", err)
			}

			return server.New(store, logger).Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8188", "listen address")
	cmd.Flags().StringVar(&dbPath, "db", defaultDBPath(), "path to the usage database")
	cmd.Flags().StringVar(&logFile, "log-file", defaultLogPath(), "path to the server log file")
	cmd.Flags().BoolVar(&debug, "debug", false, "log to stderr at debug level")
	return cmd
}
