// Package tui provides the interactive Bubble Tea dashboard for envcast.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/envcast/internal/cli"
	"github.com/theirongolddev/envcast/internal/common"
	"github.com/theirongolddev/envcast/internal/config"
	"github.com/theirongolddev/envcast/internal/forecast"
	"github.com/theirongolddev/envcast/internal/model"
	"github.com/theirongolddev/envcast/internal/pipeline"
	"github.com/theirongolddev/envcast/internal/store"
	"github.com/theirongolddev/envcast/internal/tui/components"
	"github.com/theirongolddev/envcast/internal/tui/theme"
)

// Options selects what the dashboard forecasts.
type Options struct {
	SnapshotPath string
	Budget       string
	Months       int
	SettingsPath string
	UseCache     bool
	Logger       *common.Logger
	// NeedSetup shows the setup wizard before the dashboard.
	NeedSetup bool
}

// ForecastLoadedMsg is sent when the forecast pipeline finishes.
type ForecastLoadedMsg struct {
	Result   *forecast.Result
	Cached   bool
	LoadTime time.Duration
	Err      error
}

// ProgressMsg reports snapshot parsing progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// RefreshMsg is sent when a background rebuild completes.
type RefreshMsg ForecastLoadedMsg

// App is the root Bubble Tea model.
type App struct {
	opts Options

	// Data
	res      *forecast.Result
	loaded   bool
	loadErr  error
	loadTime time.Duration
	cached   bool

	// Pre-computed views of res
	stats      model.SummaryStats
	months     []model.MonthStats
	categories []model.CategoryStats
	funding    []model.FundingStats
	status     []model.FundStatus
	days       []model.DailyStats
	ledger     []model.LedgerEntry

	// UI state
	width      int
	height     int
	activeTab  int
	showHelp   bool
	refreshing bool

	// Per-tab state
	monthIdx   int
	fundCursor int
	ledgerView viewport.Model

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals SetupValues
	needSetup bool

	// Loading
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg
}

const (
	minTerminalWidth = 80
	maxContentWidth  = 160
	minContentHeight = 5
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	if opts.Logger == nil {
		opts.Logger = common.NewSilentLogger()
	}

	return App{
		opts:       opts,
		needSetup:  opts.NeedSetup,
		spinner:    sp,
		loadSub:    make(chan tea.Msg, 1),
		ledgerView: viewport.New(0, 0),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadForecastCmd(a.opts, a.loadSub),
		a.spinner.Tick,
	)
}

func (a *App) recompute() {
	res := a.res
	if res == nil {
		return
	}
	a.stats = pipeline.Summarize(res)
	a.months = pipeline.AggregateMonths(res)
	a.funding = pipeline.AggregateFunding(res)
	a.status = pipeline.LatestStatus(res)
	a.days = pipeline.AggregateDays(res)
	a.ledger = pipeline.LedgerEntries(res)

	if a.monthIdx >= len(a.months) {
		a.monthIdx = len(a.months) - 1
	}
	if a.monthIdx < 0 {
		a.monthIdx = 0
	}
	a.recomputeCategories()

	if a.fundCursor >= len(a.funding) {
		a.fundCursor = len(a.funding) - 1
	}
	if a.fundCursor < 0 {
		a.fundCursor = 0
	}

	a.ledgerView.SetContent(a.renderLedgerLines(a.contentWidth()))
}

func (a *App) recomputeCategories() {
	a.categories = nil
	if a.res == nil || len(a.months) == 0 {
		return
	}
	a.categories = pipeline.AggregateCategories(a.res, a.months[a.monthIdx].Month)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ledgerView.Width = a.contentWidth()
		a.ledgerView.Height = a.contentHeight()
		if a.loaded {
			a.ledgerView.SetContent(a.renderLedgerLines(a.contentWidth()))
		}
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
			if a.activeTab == tabLedger {
				var cmd tea.Cmd
				a.ledgerView, cmd = a.ledgerView.Update(msg)
				return a, cmd
			}
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case ForecastLoadedMsg:
		a.loaded = true
		a.applyLoad(msg)

		if a.needSetup {
			a.setupVals = SetupValuesFrom(currentConfig())
			found := 0
			if a.res != nil {
				found = 1
			}
			a.setupForm = NewSetupForm(found, &a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case RefreshMsg:
		a.refreshing = false
		a.applyLoad(ForecastLoadedMsg(msg))
		return a, nil

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a *App) applyLoad(msg ForecastLoadedMsg) {
	a.loadTime = msg.LoadTime
	a.loadErr = msg.Err
	if msg.Err != nil {
		return
	}
	a.res = msg.Result
	a.cached = msg.Cached
	a.recompute()
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, refreshForecastCmd(a.opts)
		}
		return a, nil
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.activeTab = idx
			return a, nil
		}
	}

	switch a.activeTab {
	case tabCategories:
		switch key {
		case "[", "h":
			if a.monthIdx > 0 {
				a.monthIdx--
				a.recomputeCategories()
			}
		case "]", "L":
			if a.monthIdx < len(a.months)-1 {
				a.monthIdx++
				a.recomputeCategories()
			}
		}
	case tabFunding:
		switch key {
		case "j", "down":
			if a.fundCursor < len(a.funding)-1 {
				a.fundCursor++
			}
		case "k", "up":
			if a.fundCursor > 0 {
				a.fundCursor--
			}
		case "g":
			a.fundCursor = 0
		case "G":
			a.fundCursor = max(0, len(a.funding)-1)
		}
	case tabLedger:
		switch key {
		case "g":
			a.ledgerView.GotoTop()
			return a, nil
		case "G":
			a.ledgerView.GotoBottom()
			return a, nil
		}
		var cmd tea.Cmd
		a.ledgerView, cmd = a.ledgerView.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.needSetup = false
		a.setupForm = nil
		if err := a.saveSetupConfig(); err != nil {
			a.opts.Logger.Warn().Err(err).Msg("saving setup config")
		}
		a.refreshing = true
		return a, refreshForecastCmd(a.opts)
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// contentHeight is the terminal height less the tab bar and status bar.
func (a App) contentHeight() int {
	h := a.height - 2
	if h < minContentHeight {
		h = minContentHeight
	}
	return h
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  envcast needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ envcast"))
	b.WriteString(subtitleStyle.Render(" · Budget Forecast"))
	b.WriteString("\n\n")

	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	if a.progressMax > 0 {
		barW := min(max(a.width-30, 20), 40)
		pct := float64(a.progress) / float64(a.progressMax)
		b.WriteString(subtitleStyle.Render(" Reading budget exports\n\n"))
		b.WriteString(components.ProgressBar(pct, barW))
	} else {
		b.WriteString(subtitleStyle.Render(" Building forecast..."))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"o m c f l", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"[ ]", "Previous / Next month (Categories)"},
			{"j k", "Move through paychecks or ledger"},
			{"g G", "Top / Bottom"},
		}},
		{"Actions", [][2]string{
			{"r", "Rebuild forecast"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, bind := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind[0])),
				descStyle.Render(bind[1]))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	contentH := a.contentHeight()

	header := components.RenderTabBar(a.activeTab, w)

	info := ""
	if a.res != nil {
		info = fmt.Sprintf("%s │ %s → %s │ %s",
			a.stats.BudgetName,
			cli.FormatMonth(a.stats.CurrentMonth),
			cli.FormatDate(a.stats.ForecastUntil),
			cli.FormatDuration(a.loadTime))
		if a.cached {
			info += " (cached)"
		}
	}
	statusBar := components.RenderStatusBar(w, info, a.refreshing)

	var content string
	switch {
	case a.loadErr != nil && a.res == nil:
		content = a.renderError(cw)
	case a.activeTab == tabOverview:
		content = a.renderOverviewTab(cw)
	case a.activeTab == tabMonths:
		content = a.renderMonthsTab(cw)
	case a.activeTab == tabCategories:
		content = a.renderCategoriesTab(cw)
	case a.activeTab == tabFunding:
		content = a.renderFundingTab(cw, contentH)
	case a.activeTab == tabLedger:
		content = a.ledgerView.View()
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, a.height, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderError(cw int) string {
	t := theme.Active
	errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
	body := errStyle.Render(a.loadErr.Error()) + "\n\n" +
		lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).
			Render("Fix the snapshot or scenarios and press r to rebuild.")
	return components.ContentCard("Forecast failed", body, cw)
}

// ─── Tabs ───────────────────────────────────────────────────────

const (
	tabOverview = iota
	tabMonths
	tabCategories
	tabFunding
	tabLedger
)

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow RenderTabBar: tabs separated by one column.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1
	}
	return -1
}

// ─── Loading ────────────────────────────────────────────────────

func currentConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// buildForecast loads the snapshot, picks the budget and builds one
// forecast through the cache when enabled.
func buildForecast(opts Options, progressFn pipeline.ProgressFunc) ForecastLoadedMsg {
	start := time.Now()
	fail := func(err error) ForecastLoadedMsg {
		return ForecastLoadedMsg{Err: err, LoadTime: time.Since(start)}
	}

	if opts.SnapshotPath == "" {
		return fail(fmt.Errorf("no snapshot configured; run envcast setup or pass --snapshot"))
	}

	settings, err := config.LoadSettings(opts.SettingsPath)
	if err != nil {
		return fail(err)
	}

	var (
		cache   *store.Cache
		budgets []*model.Budget
	)
	if opts.UseCache {
		if c, err := store.Open(pipeline.CachePath()); err == nil {
			cache = c
			defer func() { _ = cache.Close() }()
			if cr, err := pipeline.LoadWithCache(opts.SnapshotPath, cache, progressFn); err == nil {
				budgets = cr.Budgets
			}
		}
	}
	if budgets == nil {
		lr, err := pipeline.Load(opts.SnapshotPath, progressFn)
		if err != nil {
			return fail(err)
		}
		budgets = lr.Budgets
	}

	b, err := pipeline.SelectBudget(budgets, opts.Budget)
	if err != nil {
		return fail(err)
	}
	out := pipeline.BuildAll([]*model.Budget{b}, pipeline.ForecastOptions{
		Months:   opts.Months,
		Settings: settings,
		Logger:   opts.Logger,
		Cache:    cache,
	}, nil)
	return ForecastLoadedMsg{
		Result:   out[0].Result,
		Cached:   out[0].Cached,
		Err:      out[0].Err,
		LoadTime: time.Since(start),
	}
}

// loadForecastCmd starts the pipeline in a background goroutine. It streams
// ProgressMsg updates and a final ForecastLoadedMsg through sub.
func loadForecastCmd(opts Options, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			// Non-blocking send so parse workers aren't stalled.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}
			sub <- buildForecast(opts, progressFn)
		}()
		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// refreshForecastCmd rebuilds the forecast without progress UI.
func refreshForecastCmd(opts Options) tea.Cmd {
	return func() tea.Msg {
		return RefreshMsg(buildForecast(opts, nil))
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}
