package forecast

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/envcast/internal/model"
)

// Sentinel errors. Build wraps every failure in one of these so callers can
// branch with errors.Is.
var (
	ErrNilBudget              = errors.New("forecast: nil budget")
	ErrNoMonths               = errors.New("forecast: budget has no months to clone from")
	ErrReservedID             = errors.New("forecast: budget already uses a reserved id")
	ErrMonthNotFound          = errors.New("forecast: scheduled transaction month not found")
	ErrUnresolvedReference    = errors.New("forecast: unresolved reference")
	ErrDayOrderMismatch       = errors.New("forecast: per-day item count mismatch")
	ErrUnsupportedFrequency   = errors.New("forecast: unsupported frequency")
	ErrUnsupportedGoal        = errors.New("forecast: goal type not implemented")
	ErrNonAdvancingRecurrence = errors.New("forecast: recurrence did not advance")
	ErrInvalidState           = errors.New("forecast: invalid build state")
)

// Detail is one diagnostic key/value pair attached to an IntegrityError.
type Detail struct {
	Key   string
	Value string
}

// IntegrityError reports inconsistent snapshot data with enough context to
// diagnose it without re-running the build.
type IntegrityError struct {
	Err     error
	Message string
	ID      string
	Date    time.Time
	Freq    model.Frequency
	Details []Detail
}

func (e *IntegrityError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.ID != "" {
		fmt.Fprintf(&b, " [id=%s", e.ID)
		if !e.Date.IsZero() {
			fmt.Fprintf(&b, " date=%s", e.Date.Format(time.DateOnly))
		}
		if e.Freq != "" {
			fmt.Fprintf(&b, " frequency=%s", e.Freq)
		}
		b.WriteString("]")
	}
	for _, d := range e.Details {
		fmt.Fprintf(&b, " %s=%q", d.Key, d.Value)
	}
	return b.String()
}

func (e *IntegrityError) Unwrap() error { return e.Err }

// Detail returns the value recorded for key, if any.
func (e *IntegrityError) Detail(key string) (string, bool) {
	for _, d := range e.Details {
		if d.Key == key {
			return d.Value, true
		}
	}
	return "", false
}

// UnsupportedError reports a feature the engine refuses to guess at.
type UnsupportedError struct {
	Err     error
	Feature string
	Value   string
	Context string
}

func (e *UnsupportedError) Error() string {
	msg := fmt.Sprintf("%s %q is not supported", e.Feature, e.Value)
	if e.Context != "" {
		msg += " (" + e.Context + ")"
	}
	return msg
}

func (e *UnsupportedError) Unwrap() error { return e.Err }
