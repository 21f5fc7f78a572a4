package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/modelpulse/modelpulse/internal/client"
	"github.com/modelpulse/modelpulse/internal/config"
)

func newResetCommand(cfg config.Config) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all recorded usage data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete usage data without --yes")
			}

			c := client.New(cfg.API.BaseURL, time.Duration(cfg.API.TimeoutSeconds)*time.Second)
			if err := c.Reset(cmd.Context()); err != nil {
				return fmt.Errorf("resetting usage data: %w", err)
			}
			fmt.Println("Usage data reset.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion of all usage data")
	return cmd
}

func newCleanupCommand(cfg config.Config) *cobra.Command {
	var maxDays int

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Drop daily usage entries older than the retention window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := client.New(cfg.API.BaseURL, time.Duration(cfg.API.TimeoutSeconds)*time.Second)
			if err := c.Cleanup(cmd.Context(), maxDays); err != nil {
				return fmt.Errorf("cleaning up usage log: %w", err)
			}
			fmt.Printf("Removed daily entries older than %d days.\n", maxDays)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxDays, "max-days", 365, "keep daily entries newer than this many days")
	return cmd
}
