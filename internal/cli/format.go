// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/envcast/internal/model"
)

// DefaultCurrency is used when a budget export carries no currency format.
var DefaultCurrency = model.CurrencyFormat{
	ISOCode:          "USD",
	DecimalDigits:    2,
	DecimalSeparator: ".",
	GroupSeparator:   ",",
	CurrencySymbol:   "$",
	SymbolFirst:      true,
	DisplaySymbol:    true,
}

// FormatMoney formats milliunits in the default currency.
// e.g., -1234560 -> "-$1,234.56"
func FormatMoney(milli int64) string {
	return FormatCurrency(milli, DefaultCurrency)
}

// FormatCurrency formats milliunits the way the budget displays money.
func FormatCurrency(milli int64, cf model.CurrencyFormat) string {
	if cf.DecimalSeparator == "" && cf.CurrencySymbol == "" {
		cf = DefaultCurrency
	}
	digits := cf.DecimalDigits
	if digits < 0 {
		digits = 0
	}

	d := decimal.New(milli, -3).Round(int32(digits))
	s := d.Abs().StringFixed(int32(digits))
	intPart, frac, _ := strings.Cut(s, ".")

	num := groupDigits(intPart, cf.GroupSeparator)
	if digits > 0 {
		num += cf.DecimalSeparator + frac
	}
	if cf.DisplaySymbol && cf.CurrencySymbol != "" {
		if cf.SymbolFirst {
			num = cf.CurrencySymbol + num
		} else {
			num += cf.CurrencySymbol
		}
	}
	if d.IsNegative() {
		return "-" + num
	}
	return num
}

// FormatSigned formats milliunits with an explicit sign.
func FormatSigned(milli int64) string {
	if milli > 0 {
		return "+" + FormatMoney(milli)
	}
	return FormatMoney(milli)
}

// FormatCompact formats milliunits with human-readable suffixes.
// e.g., 1234000 -> "$1.2K", 1234567000 -> "$1.2M"
func FormatCompact(milli int64) string {
	units := decimal.New(milli, -3)
	abs := units.Abs()
	sign := ""
	if units.IsNegative() {
		sign = "-"
	}

	switch {
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000_000)):
		return sign + "$" + abs.Shift(-6).StringFixed(1) + "M"
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000)):
		return sign + "$" + abs.Shift(-3).StringFixed(1) + "K"
	default:
		return sign + "$" + abs.StringFixed(0)
	}
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	return groupDigits(strconv.FormatInt(n, 10), ",")
}

func groupDigits(s, sep string) string {
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteString(sep)
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatPerMille formats a per-mille scenario change as a signed percentage.
// e.g., 50 -> "+5.0%", -125 -> "-12.5%"
func FormatPerMille(pm int64) string {
	s := decimal.New(pm, -1).StringFixed(1) + "%"
	if pm > 0 {
		return "+" + s
	}
	return s
}

// FormatMonth formats a month as "Jan 2025".
func FormatMonth(t time.Time) string {
	return t.Format("Jan 2006")
}

// FormatDate formats a day as "2025-01-31", or "-" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.DateOnly)
}

// FormatDuration formats a run duration.
// e.g., 1.5s -> "1.5s", 42ms -> "42ms"
func FormatDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "0s"
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
}

// FormatAgo formats how long ago t was, relative to now.
func FormatAgo(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// ParseMoney parses a currency amount such as "-12.50" or "$1,200" into
// milliunits. Fractions finer than a milliunit are rounded.
func ParseMoney(s string) (int64, error) {
	clean := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(s))
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return d.Shift(3).Round(0).IntPart(), nil
}

// ParsePercent parses a percentage such as "5", "+2.5%" or "-10%" into a
// per-mille change.
func ParsePercent(s string) (int64, error) {
	clean := strings.TrimSuffix(strings.TrimSpace(s), "%")
	d, err := decimal.NewFromString(strings.TrimPrefix(clean, "+"))
	if err != nil {
		return 0, fmt.Errorf("invalid percentage %q", s)
	}
	return d.Shift(1).Round(0).IntPart(), nil
}
