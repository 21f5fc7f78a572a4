package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modelpulse/modelpulse/internal/appupdate"
	"github.com/modelpulse/modelpulse/internal/version"
)

func newVersionCommand() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Println("modelpulse " + version.String())
			if !check {
				return nil
			}

			result, err := appupdate.Check(cmd.Context(), appupdate.CheckOptions{
				CurrentVersion: version.Version,
			})
			if err != nil {
				return fmt.Errorf("checking for updates: %w", err)
			}

			if result.UpdateAvailable {
				fmt.Printf("Update available: %s -> %s\n", result.CurrentVersion, result.LatestVersion)
				fmt.Println("  " + result.UpgradeHint)
			} else if result.LatestVersion != "" {
				fmt.Println("Up to date.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "check GitHub releases for a newer version")
	return cmd
}
