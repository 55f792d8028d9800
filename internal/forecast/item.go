package forecast

import (
	"fmt"
	"time"
)

// itemKind tags what produced a forecast item. Every consumer switches over
// all four kinds and treats anything else as ErrInvalidState.
type itemKind uint8

const (
	kindScheduled itemKind = iota + 1
	kindScheduledSub
	kindGoalFunding
	kindProjected
)

func (k itemKind) String() string {
	switch k {
	case kindScheduled:
		return "scheduled"
	case kindScheduledSub:
		return "scheduled-sub"
	case kindGoalFunding:
		return "goal-funding"
	case kindProjected:
		return "projected"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

func unknownKind(k itemKind) error {
	return fmt.Errorf("%w: unexpected item kind %s", ErrInvalidState, k)
}

// item is one dated occurrence inside a single build. Items live in the
// build's arena and are dropped when the build returns.
type item struct {
	kind itemKind
	date time.Time

	accountID         string
	categoryID        string
	categoryName      string
	payeeID           string
	payeeName         string
	transferAccountID string
	memo              string
	flagColor         string

	amount int64
	funded int64
	split  bool

	scheduledID    string
	scheduledSubID string
	txID           string
	subID          string

	seq int
}

// remaining is negative while the item still needs money and zero once it
// has been covered. Income items start at or above zero.
func (it *item) remaining() int64 {
	return it.amount + it.funded
}

// fund covers up to n of the outstanding need and returns what was applied.
// funded never decreases and never exceeds the need.
func (it *item) fund(n int64) int64 {
	need := -it.remaining()
	if n <= 0 || need <= 0 {
		return 0
	}
	if n > need {
		n = need
	}
	it.funded += n
	return n
}

func (it *item) topLevel() bool {
	return it.scheduledSubID == ""
}
