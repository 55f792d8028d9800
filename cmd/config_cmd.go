// Package cmd implements the envcast CLI commands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/envcast/internal/config"
	"github.com/theirongolddev/envcast/internal/pipeline"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appConfig

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Default months: %d\n", cfg.General.DefaultMonths)
	if cfg.General.SnapshotPath != "" {
		fmt.Printf("    Snapshot:       %s\n", cfg.General.SnapshotPath)
	} else {
		fmt.Println("    Snapshot:       not configured")
	}
	fmt.Printf("    Scenarios:      %s\n", cfg.SettingsFile())
	fmt.Printf("    Log level:      %s\n", cfg.General.LogLevel)
	fmt.Printf("    Cache:          %s", pipeline.CachePath())
	if cfg.General.NoCache {
		fmt.Print(" (disabled)")
	}
	fmt.Println()
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:        %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Interval:       %ds\n", cfg.Daemon.IntervalSec)
	fmt.Printf("    Events buffer:  %d\n", cfg.Daemon.EventsBuffer)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Environment overrides: ENVCAST_SNAPSHOT, ENVCAST_MONTHS, ENVCAST_SETTINGS,")
	fmt.Println("  ENVCAST_LOG_LEVEL, ENVCAST_DAEMON_ADDR")
	fmt.Println("  Run `envcast setup` to reconfigure.")
	return nil
}
