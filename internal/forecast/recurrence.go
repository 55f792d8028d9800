package forecast

import (
	"fmt"
	"time"

	"github.com/theirongolddev/envcast/internal/model"
)

// neverDate is where a "never" recurrence lands. It is past any horizon.
var neverDate = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// Advance returns the occurrence after t for frequency f. Month and year
// steps clamp to the last day of the target month, so Jan 31 monthly is
// followed by Feb 28 (or 29).
func Advance(t time.Time, f model.Frequency) (time.Time, error) {
	var next time.Time
	switch f {
	case model.Never:
		return neverDate, nil
	case model.Daily:
		next = t.AddDate(0, 0, 1)
	case model.Weekly:
		next = t.AddDate(0, 0, 7)
	case model.EveryOtherWeek:
		next = t.AddDate(0, 0, 14)
	case model.Every4Weeks:
		next = t.AddDate(0, 0, 28)
	case model.TwiceAMonth:
		if t.Day() <= 15 {
			next = t.AddDate(0, 0, 15)
			if next.Month() != t.Month() {
				next = lastDayOfMonth(t)
			}
		} else {
			next = addMonths(t, 1).AddDate(0, 0, -15)
		}
	case model.Monthly:
		next = addMonths(t, 1)
	case model.EveryOtherMonth:
		next = addMonths(t, 2)
	case model.Every3Months:
		next = addMonths(t, 3)
	case model.Every4Months:
		next = addMonths(t, 4)
	case model.TwiceAYear:
		next = addMonths(t, 6)
	case model.Yearly:
		next = addMonths(t, 12)
	case model.EveryOtherYear:
		next = addMonths(t, 24)
	default:
		return t, &UnsupportedError{Err: ErrUnsupportedFrequency, Feature: "frequency", Value: string(f)}
	}

	if !next.After(t) {
		return t, fmt.Errorf("%w: %s from %s", ErrNonAdvancingRecurrence, f, t.Format(time.DateOnly))
	}
	return next, nil
}

// addMonths adds n calendar months, clamping the day to the target month.
func addMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	target := first.AddDate(0, n, 0)
	day := t.Day()
	if last := daysIn(target); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

func lastDayOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), daysIn(t), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
