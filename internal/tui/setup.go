package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/envcast/internal/config"
	"github.com/theirongolddev/envcast/internal/tui/theme"
)

// SetupValues holds the answers collected by the setup wizard.
type SetupValues struct {
	SnapshotPath string
	Months       int
	Theme        string
	LogLevel     string
}

// monthOptions are the horizons offered by the wizard.
var monthOptions = []int{1, 3, 6, 12, 24, 60, 120}

// SetupValuesFrom seeds wizard answers from an existing config.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		SnapshotPath: cfg.General.SnapshotPath,
		Months:       cfg.General.DefaultMonths,
		Theme:        cfg.Appearance.Theme,
		LogLevel:     cfg.General.LogLevel,
	}
}

// Apply writes the answers into cfg.
func (v SetupValues) Apply(cfg *config.Config) {
	cfg.General.SnapshotPath = strings.TrimSpace(v.SnapshotPath)
	if v.Months > 0 {
		cfg.General.DefaultMonths = v.Months
	}
	if v.Theme != "" {
		cfg.Appearance.Theme = v.Theme
	}
	if v.LogLevel != "" {
		cfg.General.LogLevel = v.LogLevel
	}
}

func validateSnapshotPath(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("a snapshot file or directory is required")
	}
	if _, err := os.Stat(s); err != nil {
		return fmt.Errorf("cannot read %s", s)
	}
	return nil
}

// NewSetupForm builds the first-run wizard. found is the number of budgets
// already discovered, shown as context.
func NewSetupForm(found int, v *SetupValues) *huh.Form {
	intro := "Point envcast at a budget export (a .json file or a directory of them)."
	if found > 0 {
		intro = fmt.Sprintf("Found %d budget export(s). You can keep the current location or pick another.", found)
	}

	monthOpts := make([]huh.Option[int], len(monthOptions))
	for i, n := range monthOptions {
		label := fmt.Sprintf("%d months", n)
		if n == 1 {
			label = "1 month"
		}
		monthOpts[i] = huh.NewOption(label, n)
	}

	themeOpts := make([]huh.Option[string], len(theme.All))
	for i, t := range theme.All {
		themeOpts[i] = huh.NewOption(t.Name, t.Name)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to envcast").
				Description(intro),
			huh.NewInput().
				Title("Budget snapshot").
				Placeholder("~/budgets/household.json").
				Validate(validateSnapshotPath).
				Value(&v.SnapshotPath),
		),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Default forecast horizon").
				Options(monthOpts...).
				Value(&v.Months),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&v.Theme),
			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("warn", "warn"),
					huh.NewOption("info", "info"),
					huh.NewOption("debug", "debug"),
				).
				Value(&v.LogLevel),
		),
	).WithTheme(huh.ThemeBase16())
}

func (a *App) saveSetupConfig() error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	a.setupVals.Apply(&cfg)
	theme.SetActive(cfg.Appearance.Theme)

	a.opts.SnapshotPath = cfg.General.SnapshotPath
	a.opts.Months = cfg.General.DefaultMonths
	return config.Save(cfg)
}
