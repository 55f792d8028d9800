package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/envcast/internal/forecast"
	"github.com/theirongolddev/envcast/internal/model"
)

func testResult(t *testing.T) *forecast.Result {
	t.Helper()
	jan := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	cats := []model.Category{
		{ID: "tbb", GroupID: "g", Name: "Inflow: Ready to Assign"},
		{ID: "rent", GroupID: "g", Name: "Rent", Goal: &model.Goal{Type: model.GoalMonthlyFunding, Target: 100000, CreationMonth: jan}},
	}
	b := &model.Budget{
		ID:             "b1",
		Name:           "Household",
		Accounts:       []model.Account{{ID: "chk", Name: "Checking", OnBudget: true, Balance: 50000}},
		Categories:     cats,
		CategoryGroups: []model.CategoryGroup{{ID: "g", Name: "Bills"}},
		Payees:         []model.Payee{{ID: "emp", Name: "Employer"}, {ID: "lord", Name: "Landlord"}},
		Months:         []model.Month{{Month: jan, Categories: append([]model.Category(nil), cats...)}},
		ScheduledTransactions: []model.ScheduledTransaction{
			{ID: "pay", AccountID: "chk", CategoryID: "tbb", PayeeID: "emp", Amount: 300000, DateNext: jan.AddDate(0, 0, 11), Frequency: model.EveryOtherWeek},
			{ID: "rent", AccountID: "chk", CategoryID: "rent", PayeeID: "lord", Amount: -100000, DateNext: jan.AddDate(0, 0, 19), Frequency: model.Monthly},
		},
	}
	res, err := forecast.Build(b, forecast.Options{Months: 2, Now: time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return res
}

func loadedApp(t *testing.T) App {
	t.Helper()
	a := NewApp(Options{SnapshotPath: "budget.json", Months: 2})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = m.Update(ForecastLoadedMsg{Result: testResult(t), LoadTime: 5 * time.Millisecond})
	return m.(App)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLoadPopulatesViews(t *testing.T) {
	a := loadedApp(t)
	if !a.loaded || a.res == nil {
		t.Fatal("forecast not applied")
	}
	if a.stats.BudgetName != "Household" {
		t.Errorf("BudgetName = %q", a.stats.BudgetName)
	}
	if len(a.months) != 3 {
		t.Errorf("months = %d, want 3", len(a.months))
	}
	if len(a.funding) == 0 {
		t.Error("no paychecks aggregated")
	}
	if len(a.ledger) == 0 {
		t.Error("empty ledger")
	}
	if len(a.categories) == 0 {
		t.Error("categories not computed for the first month")
	}
}

func TestTabKeys(t *testing.T) {
	a := loadedApp(t)
	tests := []struct {
		keys []string
		want int
	}{
		{[]string{"f"}, tabFunding},
		{[]string{"l"}, tabLedger},
		{[]string{"o", "right", "right"}, tabCategories},
		{[]string{"o", "left"}, tabLedger},
	}
	for _, tt := range tests {
		var m tea.Model = a
		for _, k := range tt.keys {
			m, _ = m.Update(key(k))
		}
		if got := m.(App).activeTab; got != tt.want {
			t.Errorf("keys %v -> tab %d, want %d", tt.keys, got, tt.want)
		}
	}
}

func TestCategoryMonthNavigation(t *testing.T) {
	var m tea.Model = loadedApp(t)
	m, _ = m.Update(key("c"))
	m, _ = m.Update(key("]"))
	m, _ = m.Update(key("]"))
	m, _ = m.Update(key("]"))
	a := m.(App)
	if a.monthIdx != len(a.months)-1 {
		t.Errorf("monthIdx = %d, want %d", a.monthIdx, len(a.months)-1)
	}
	m, _ = m.Update(key("["))
	if got := m.(App).monthIdx; got != len(a.months)-2 {
		t.Errorf("monthIdx after [ = %d", got)
	}
}

func TestFundingCursorClamps(t *testing.T) {
	var m tea.Model = loadedApp(t)
	m, _ = m.Update(key("f"))
	m, _ = m.Update(key("k"))
	if got := m.(App).fundCursor; got != 0 {
		t.Errorf("cursor = %d, want 0", got)
	}
	m, _ = m.Update(key("G"))
	a := m.(App)
	if a.fundCursor != len(a.funding)-1 {
		t.Errorf("cursor = %d, want %d", a.fundCursor, len(a.funding)-1)
	}
	m, _ = m.Update(key("j"))
	if got := m.(App).fundCursor; got != len(a.funding)-1 {
		t.Errorf("cursor moved past the end: %d", got)
	}
}

func TestHelpToggle(t *testing.T) {
	var m tea.Model = loadedApp(t)
	m, _ = m.Update(key("?"))
	if !m.(App).showHelp {
		t.Fatal("help not shown")
	}
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("help view missing title")
	}
	m, _ = m.Update(key("f"))
	if m.(App).showHelp || m.(App).activeTab == tabFunding {
		t.Error("any key should only close help")
	}
}

func TestViewRendersEveryTab(t *testing.T) {
	a := loadedApp(t)
	for i := range tabLedger + 1 {
		a.activeTab = i
		v := a.View()
		if got := strings.Count(v, "\n") + 1; got != a.height {
			t.Errorf("tab %d: view has %d lines, want %d", i, got, a.height)
		}
	}
}

func TestLoadErrorShown(t *testing.T) {
	a := NewApp(Options{})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = m.Update(ForecastLoadedMsg{Err: errTest("snapshot missing")})
	if !strings.Contains(m.View(), "snapshot missing") {
		t.Error("error not rendered")
	}
}

func TestTooNarrow(t *testing.T) {
	a := NewApp(Options{})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	if !strings.Contains(m.View(), "too narrow") {
		t.Error("narrow warning missing")
	}
}

func TestTruncStr(t *testing.T) {
	if got := truncStr("Landlord", 5); got != "Land…" {
		t.Errorf("truncStr = %q", got)
	}
	if got := truncStr("Rent", 5); got != "Rent" {
		t.Errorf("truncStr = %q", got)
	}
	if got := truncStr("Rent", 0); got != "" {
		t.Errorf("truncStr = %q", got)
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }
