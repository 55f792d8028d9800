package cli

import (
	"testing"
	"time"

	"github.com/theirongolddev/envcast/internal/model"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "$0.00"},
		{1000, "$1.00"},
		{-1234560, "-$1,234.56"},
		{999_999_995, "$1,000,000.00"},
		{15, "$0.02"},
		{-4, "$0.00"},
		{123_456_789, "$123,456.79"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.in); got != tt.want {
			t.Errorf("FormatMoney(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	eur := model.CurrencyFormat{
		ISOCode: "EUR", DecimalDigits: 2, DecimalSeparator: ",", GroupSeparator: ".",
		CurrencySymbol: "€", SymbolFirst: false, DisplaySymbol: true,
	}
	if got := FormatCurrency(-1234500, eur); got != "-1.234,50€" {
		t.Errorf("EUR = %q, want %q", got, "-1.234,50€")
	}

	yen := model.CurrencyFormat{
		ISOCode: "JPY", DecimalDigits: 0, DecimalSeparator: ".", GroupSeparator: ",",
		CurrencySymbol: "¥", SymbolFirst: true, DisplaySymbol: true,
	}
	if got := FormatCurrency(1_500_000, yen); got != "¥1,500" {
		t.Errorf("JPY = %q, want %q", got, "¥1,500")
	}

	hidden := DefaultCurrency
	hidden.DisplaySymbol = false
	if got := FormatCurrency(2500, hidden); got != "2.50" {
		t.Errorf("no symbol = %q, want %q", got, "2.50")
	}

	if got := FormatCurrency(1000, model.CurrencyFormat{}); got != "$1.00" {
		t.Errorf("zero format = %q, want default", got)
	}
}

func TestFormatSigned(t *testing.T) {
	if got := FormatSigned(5000); got != "+$5.00" {
		t.Errorf("FormatSigned(5000) = %q", got)
	}
	if got := FormatSigned(-5000); got != "-$5.00" {
		t.Errorf("FormatSigned(-5000) = %q", got)
	}
}

func TestFormatCompact(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "$0"},
		{999_000, "$999"},
		{1_234_000, "$1.2K"},
		{-2_500_000, "-$2.5K"},
		{1_234_567_000, "$1.2M"},
	}
	for _, tt := range tests {
		if got := FormatCompact(tt.in); got != tt.want {
			t.Errorf("FormatCompact(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPerMille(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{50, "+5.0%"},
		{-125, "-12.5%"},
		{0, "0.0%"},
	}
	for _, tt := range tests {
		if got := FormatPerMille(tt.in); got != tt.want {
			t.Errorf("FormatPerMille(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{42 * time.Millisecond, "42ms"},
		{1500 * time.Millisecond, "1.5s"},
		{125 * time.Second, "2m 5s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatAgo(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		in   time.Time
		want string
	}{
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-49 * time.Hour), "2d ago"},
	}
	for _, tt := range tests {
		if got := FormatAgo(tt.in, now); got != tt.want {
			t.Errorf("FormatAgo(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(time.Time{}); got != "-" {
		t.Errorf("FormatDate(zero) = %q", got)
	}
	if got := FormatMonth(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)); got != "Mar 2025" {
		t.Errorf("FormatMonth = %q", got)
	}
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"12.50", 12500},
		{"-12.5", -12500},
		{"$1,200", 1200000},
		{" 0.0015 ", 2},
		{"-0.0004", 0},
	}
	for _, tt := range tests {
		got, err := ParseMoney(tt.in)
		if err != nil {
			t.Errorf("ParseMoney(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMoney(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
	if _, err := ParseMoney("twelve"); err == nil {
		t.Error("ParseMoney(twelve) succeeded")
	}
}

func TestParsePercent(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"5", 50},
		{"+2.5%", 25},
		{"-10%", -100},
		{"0.04", 0},
	}
	for _, tt := range tests {
		got, err := ParsePercent(tt.in)
		if err != nil {
			t.Errorf("ParsePercent(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePercent(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
	if _, err := ParsePercent("%"); err == nil {
		t.Error("ParsePercent(%) succeeded")
	}
}
