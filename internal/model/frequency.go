package model

import (
	"fmt"
	"strings"
)

// Frequency is a recurrence rule for scheduled transactions and scenarios.
type Frequency string

// Recurrence frequencies, spelled the way budget exports spell them.
const (
	Never           Frequency = "never"
	Daily           Frequency = "daily"
	Weekly          Frequency = "weekly"
	EveryOtherWeek  Frequency = "everyOtherWeek"
	TwiceAMonth     Frequency = "twiceAMonth"
	Every4Weeks     Frequency = "every4Weeks"
	Monthly         Frequency = "monthly"
	EveryOtherMonth Frequency = "everyOtherMonth"
	Every3Months    Frequency = "every3Months"
	Every4Months    Frequency = "every4Months"
	TwiceAYear      Frequency = "twiceAYear"
	Yearly          Frequency = "yearly"
	EveryOtherYear  Frequency = "everyOtherYear"
)

// Frequencies lists every supported frequency in ascending period order.
var Frequencies = []Frequency{
	Never, Daily, Weekly, EveryOtherWeek, TwiceAMonth, Every4Weeks, Monthly,
	EveryOtherMonth, Every3Months, Every4Months, TwiceAYear, Yearly, EveryOtherYear,
}

// ParseFrequency matches s case-insensitively against the known frequencies.
// Some exports pad values with whitespace, so s is trimmed first.
func ParseFrequency(s string) (Frequency, error) {
	s = strings.TrimSpace(s)
	for _, f := range Frequencies {
		if strings.EqualFold(string(f), s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown frequency %q", s)
}
