package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/envcast/internal/model"
)

// writeExport creates a temp budget export and returns a DiscoveredFile for it.
func writeExport(t *testing.T, body string) DiscoveredFile {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "household.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return DiscoveredFile{Path: path, Name: "household"}
}

const wrappedExport = `{
  "data": {
    "server_knowledge": 42,
    "budget": {
      "id": "b1",
      "name": "Household",
      "last_modified_on": "2025-01-09T18:22:01.123Z",
      "date_format": {"format": "MM/DD/YYYY"},
      "currency_format": {"iso_code": "USD", "decimal_digits": 2, "decimal_separator": ".", "group_separator": ",", "currency_symbol": "$", "symbol_first": true, "display_symbol": true},
      "accounts": [{"id": "a1", "name": "Checking", "type": "checking", "on_budget": true, "balance": 1500000}],
      "payees": [{"id": "p1", "name": "Landlord"}],
      "category_groups": [{"id": "g1", "name": "Bills"}],
      "categories": [
        {"id": "c1", "category_group_id": "g1", "name": "Rent", "goal_type": "MF", "goal_target": 1200000, "goal_creation_month": "2024-06-01"},
        {"id": "c2", "category_group_id": "g1", "name": "Power", "goal_type": null}
      ],
      "months": [
        {"month": "2025-01-01", "income": 10, "to_be_budgeted": 5, "categories": [{"id": "c1", "category_group_id": "g1", "name": "Rent", "balance": 300}]},
        {"month": "2024-12-01", "deleted": true, "categories": []}
      ],
      "transactions": [
        {"id": "t1", "date": "2025-01-02", "amount": -1000, "cleared": "Cleared", "account_id": "a1"},
        {"id": "t2", "date": "not-a-date", "amount": -1}
      ],
      "scheduled_transactions": [
        {"id": "s1", "date_first": "2024-01-01", "date_next": "2025-01-31", "frequency": "monthly", "amount": -1200000, "account_id": "a1", "payee_id": "p1", "category_id": "c1"},
        {"id": "s2", "date_next": "2025-02-01", "frequency": "Weekly ", "amount": -5}
      ],
      "scheduled_subtransactions": [
        {"id": "ss1", "scheduled_transaction_id": "s1", "amount": -100, "category_id": "c2"}
      ]
    }
  }
}`

func TestParseFile_WrappedExport(t *testing.T) {
	df := writeExport(t, wrappedExport)

	result := ParseFile(df)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	b := result.Budget

	if b.Name != "Household" {
		t.Errorf("Name = %q, want Household", b.Name)
	}
	if b.FilePath != df.Path {
		t.Errorf("FilePath = %q, want %q", b.FilePath, df.Path)
	}
	if b.CurrencyFormat.CurrencySymbol != "$" || !b.CurrencyFormat.SymbolFirst {
		t.Errorf("CurrencyFormat = %+v, want $ first", b.CurrencyFormat)
	}
	if b.LastModifiedOn.IsZero() {
		t.Error("LastModifiedOn not parsed")
	}
	if len(b.Months) != 1 {
		t.Fatalf("Months = %d, want 1 (deleted month dropped)", len(b.Months))
	}
	if got := b.Months[0].Categories[0].Balance; got != 300 {
		t.Errorf("month category balance = %d, want 300", got)
	}
	if len(b.Transactions) != 1 {
		t.Errorf("Transactions = %d, want 1", len(b.Transactions))
	}
	if b.Transactions[0].Cleared != model.Cleared {
		t.Errorf("Cleared = %q, want cleared", b.Transactions[0].Cleared)
	}
	if result.ParseErrors != 1 {
		t.Errorf("ParseErrors = %d, want 1", result.ParseErrors)
	}
}

func TestParseFile_Goals(t *testing.T) {
	result := ParseFile(writeExport(t, wrappedExport))
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	cats := result.Budget.Categories

	g := cats[0].Goal
	if g == nil {
		t.Fatal("Rent goal missing")
	}
	if g.Type != model.GoalMonthlyFunding || g.Target != 1200000 {
		t.Errorf("goal = %+v, want MF 1200000", g)
	}
	if want := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC); !g.CreationMonth.Equal(want) {
		t.Errorf("CreationMonth = %v, want %v", g.CreationMonth, want)
	}
	if cats[1].Goal != nil {
		t.Errorf("Power goal = %+v, want nil", cats[1].Goal)
	}
}

func TestParseFile_ScheduledFrequencies(t *testing.T) {
	result := ParseFile(writeExport(t, wrappedExport))
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	st := result.Budget.ScheduledTransactions
	if len(st) != 2 {
		t.Fatalf("ScheduledTransactions = %d, want 2", len(st))
	}
	if st[0].Frequency != model.Monthly {
		t.Errorf("Frequency = %q, want monthly", st[0].Frequency)
	}
	if st[1].Frequency != model.Weekly {
		t.Errorf("Frequency = %q, want weekly (trimmed, case-folded)", st[1].Frequency)
	}
	if want := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC); !st[0].DateNext.Equal(want) {
		t.Errorf("DateNext = %v, want %v", st[0].DateNext, want)
	}
	if len(result.Budget.ScheduledSubTransactions) != 1 {
		t.Errorf("ScheduledSubTransactions = %d, want 1", len(result.Budget.ScheduledSubTransactions))
	}
}

func TestParse_BareBudget(t *testing.T) {
	result := Parse(strings.NewReader(`{"id":"b2","name":"","months":[{"month":"2025-03-01","categories":[]}]}`))
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if result.Budget.ID != "b2" {
		t.Errorf("ID = %q, want b2", result.Budget.ID)
	}
	if len(result.Budget.Months) != 1 {
		t.Errorf("Months = %d, want 1", len(result.Budget.Months))
	}
}

func TestParse_Invalid(t *testing.T) {
	if r := Parse(strings.NewReader(`{not json`)); r.Err == nil {
		t.Error("expected error for malformed JSON")
	}
	if r := Parse(strings.NewReader(`{"hello":"world"}`)); r.Err == nil {
		t.Error("expected error for object without a budget")
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.json", "a.JSON", "notes.txt", ".hidden/c.json", "nested/d.json"} {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("{}"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	files, err := ScanDir(dir)
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("files = %d, want 3", len(files))
	}
	if files[0].Name != "a" {
		t.Errorf("first Name = %q, want a", files[0].Name)
	}

	single, err := ScanDir(filepath.Join(dir, "b.json"))
	if err != nil || len(single) != 1 {
		t.Fatalf("ScanDir(file) = %d files, err %v", len(single), err)
	}

	missing, err := ScanDir(filepath.Join(dir, "nope"))
	if err != nil || missing != nil {
		t.Errorf("ScanDir(missing) = %v, %v; want nil, nil", missing, err)
	}
}
