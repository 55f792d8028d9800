package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/envcast/internal/cli"
	"github.com/theirongolddev/envcast/internal/common"
	"github.com/theirongolddev/envcast/internal/config"
	"github.com/theirongolddev/envcast/internal/forecast"
	"github.com/theirongolddev/envcast/internal/model"
	"github.com/theirongolddev/envcast/internal/pipeline"
	"github.com/theirongolddev/envcast/internal/store"
	"github.com/theirongolddev/envcast/internal/tui/theme"
)

var (
	flagSnapshot string
	flagMonths   int
	flagSettings string
	flagBudget   string
	flagNoCache  bool
	flagQuiet    bool
	flagLogLevel string
)

// Resolved in the persistent pre-run from config, environment and flags.
var (
	appConfig config.Config
	logger    = common.NewSilentLogger()
)

var rootCmd = &cobra.Command{
	Use:               "envcast",
	Short:             "Envelope budget forecaster",
	Long:              "Project scheduled transactions, goals and scenarios forward and see how every paycheck gets allocated.",
	PersistentPreRunE: resolveSettings,
	RunE:              runSummary,
	SilenceUsage:      true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagSnapshot, "snapshot", "s", "", "Budget export file or directory")
	rootCmd.PersistentFlags().IntVarP(&flagMonths, "months", "n", 0, "Forecast horizon in months (1-120)")
	rootCmd.PersistentFlags().StringVar(&flagSettings, "settings", "", "Scenario settings file")
	rootCmd.PersistentFlags().StringVarP(&flagBudget, "budget", "b", "", "Budget to forecast (id or name substring)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip the SQLite cache, reparse and rebuild everything")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

// resolveSettings layers config file, ENVCAST_* environment and flags.
// Flags win when set.
func resolveSettings(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	appConfig = cfg

	if !cmd.Flags().Changed("snapshot") {
		flagSnapshot = cfg.General.SnapshotPath
	}
	if !cmd.Flags().Changed("months") {
		flagMonths = cfg.General.DefaultMonths
	}
	if !cmd.Flags().Changed("settings") {
		flagSettings = cfg.SettingsFile()
	}
	if !cmd.Flags().Changed("no-cache") {
		flagNoCache = cfg.General.NoCache
	}
	if !cmd.Flags().Changed("log-level") {
		flagLogLevel = cfg.General.LogLevel
	}

	logger = common.NewLogger(flagLogLevel)
	theme.SetActive(cfg.Appearance.Theme)
	return nil
}

func requireSnapshot() error {
	if flagSnapshot == "" {
		return fmt.Errorf("no budget snapshot configured; run `envcast setup` or pass --snapshot")
	}
	return nil
}

// loadBudget is the shared snapshot loading path used by all commands.
// Uses the SQLite cache when available for fast subsequent runs.
func loadBudget(cache *store.Cache) (*model.Budget, error) {
	if err := requireSnapshot(); err != nil {
		return nil, err
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Scanning %s...\n", flagSnapshot)
	}

	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		fmt.Fprintf(os.Stderr, "\r  Parsing [%d/%d]", current, total)
	}

	var budgets []*model.Budget
	if cache != nil {
		cr, err := pipeline.LoadWithCache(flagSnapshot, cache, progressFn)
		if err != nil {
			// Cache-assisted load failed, fall back
			logger.Warn().Err(err).Msg("cached load failed")
			if !flagQuiet {
				fmt.Fprintf(os.Stderr, "\n  Cache error, falling back to full parse\n")
			}
		} else {
			if !flagQuiet && cr.TotalFiles > 0 {
				fmt.Fprintf(os.Stderr, "\r  %d cached + %d reparsed (%d budgets)    \n",
					cr.CacheHits, cr.Reparsed, len(cr.Budgets))
			}
			reportFileErrors(cr.Errors)
			budgets = cr.Budgets
		}
	}

	if budgets == nil {
		result, err := pipeline.Load(flagSnapshot, progressFn)
		if err != nil {
			return nil, err
		}
		if !flagQuiet && result.TotalFiles > 0 {
			fmt.Fprintf(os.Stderr, "\r  Parsed %d of %d files    \n", result.ParsedFiles, result.TotalFiles)
		}
		reportFileErrors(result.Errors)
		budgets = result.Budgets
	}

	return pipeline.SelectBudget(budgets, flagBudget)
}

func reportFileErrors(errs map[string]error) {
	for path, err := range errs {
		logger.Warn().Str("file", path).Err(err).Msg("skipping unreadable export")
	}
}

// openCache opens the SQLite cache unless --no-cache is set. A nil cache
// is valid everywhere it is passed.
func openCache() *store.Cache {
	if flagNoCache {
		return nil
	}
	cache, err := store.Open(pipeline.CachePath())
	if err != nil {
		logger.Warn().Err(err).Msg("cache unavailable")
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Cache unavailable, doing full parse\n")
		}
		return nil
	}
	return cache
}

// loadForecast loads the selected budget and builds its forecast with the
// configured scenarios.
func loadForecast() (*forecast.Result, error) {
	settings, err := config.LoadSettings(flagSettings)
	if err != nil {
		return nil, err
	}

	cache := openCache()
	if cache != nil {
		defer func() { _ = cache.Close() }()
	}

	b, err := loadBudget(cache)
	if err != nil {
		return nil, err
	}

	out := pipeline.BuildAll([]*model.Budget{b}, pipeline.ForecastOptions{
		Months:   flagMonths,
		Settings: settings,
		Logger:   logger,
		Cache:    cache,
	}, nil)
	f := out[0]
	if f.Err != nil {
		return nil, fmt.Errorf("forecasting %s: %w", b.Name, f.Err)
	}
	if !flagQuiet {
		if f.Cached {
			fmt.Fprintf(os.Stderr, "  Forecast loaded from cache\n")
		} else {
			fmt.Fprintf(os.Stderr, "  Forecast built in %s\n", cli.FormatDuration(f.Duration))
		}
	}
	return f.Result, nil
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}
