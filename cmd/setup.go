package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/envcast/internal/config"
	"github.com/theirongolddev/envcast/internal/source"
	"github.com/theirongolddev/envcast/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg := appConfig
	vals := tui.SetupValuesFrom(cfg)
	if vals.SnapshotPath == "" {
		vals.SnapshotPath = flagSnapshot
	}

	found := 0
	if vals.SnapshotPath != "" {
		if files, err := source.ScanDir(vals.SnapshotPath); err == nil {
			found = len(files)
		}
	}

	if err := tui.NewSetupForm(found, &vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled; nothing saved.")
			return nil
		}
		return err
	}

	vals.Apply(&cfg)
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Printf("  Scenarios live in %s\n", cfg.SettingsFile())
	fmt.Println("  Run `envcast setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
