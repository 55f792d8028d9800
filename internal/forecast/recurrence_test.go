package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/envcast/internal/model"
)

func TestAdvance(t *testing.T) {
	tests := []struct {
		from time.Time
		f    model.Frequency
		want time.Time
	}{
		{date(2025, time.January, 10), model.Daily, date(2025, time.January, 11)},
		{date(2025, time.January, 10), model.Weekly, date(2025, time.January, 17)},
		{date(2025, time.January, 10), model.EveryOtherWeek, date(2025, time.January, 24)},
		{date(2025, time.January, 10), model.Every4Weeks, date(2025, time.February, 7)},
		{date(2025, time.January, 31), model.Monthly, date(2025, time.February, 28)},
		{date(2024, time.January, 31), model.Monthly, date(2024, time.February, 29)},
		{date(2025, time.January, 31), model.EveryOtherMonth, date(2025, time.March, 31)},
		{date(2025, time.November, 30), model.Every3Months, date(2026, time.February, 28)},
		{date(2025, time.January, 15), model.Every4Months, date(2025, time.May, 15)},
		{date(2025, time.August, 31), model.TwiceAYear, date(2026, time.February, 28)},
		{date(2024, time.February, 29), model.Yearly, date(2025, time.February, 28)},
		{date(2025, time.March, 3), model.EveryOtherYear, date(2027, time.March, 3)},
		{date(2025, time.January, 1), model.TwiceAMonth, date(2025, time.January, 16)},
		{date(2025, time.January, 15), model.TwiceAMonth, date(2025, time.January, 30)},
		{date(2025, time.February, 15), model.TwiceAMonth, date(2025, time.February, 28)},
		{date(2024, time.February, 14), model.TwiceAMonth, date(2024, time.February, 29)},
		{date(2025, time.January, 16), model.TwiceAMonth, date(2025, time.February, 1)},
		{date(2025, time.January, 30), model.TwiceAMonth, date(2025, time.February, 13)},
		{date(2025, time.January, 31), model.TwiceAMonth, date(2025, time.February, 13)},
	}
	for _, tt := range tests {
		got, err := Advance(tt.from, tt.f)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "Advance(%s, %s)", tt.from.Format(time.DateOnly), tt.f)
	}
}

func TestAdvance_Terminates(t *testing.T) {
	horizon := date(2035, time.January, 1)
	for _, f := range model.Frequencies {
		if f == model.Never {
			continue
		}
		t.Run(string(f), func(t *testing.T) {
			d := date(2025, time.January, 31)
			for i := 0; !d.After(horizon); i++ {
				require.Less(t, i, 5000, "no progress past %s", d.Format(time.DateOnly))
				next, err := Advance(d, f)
				require.NoError(t, err)
				require.True(t, next.After(d), "%s did not advance from %s", f, d.Format(time.DateOnly))
				d = next
			}
		})
	}
}

func TestAdvance_Never(t *testing.T) {
	got, err := Advance(date(2025, time.January, 10), model.Never)
	require.NoError(t, err)
	assert.True(t, got.After(date(2100, time.January, 1)))
}

func TestAdvance_UnknownFrequency(t *testing.T) {
	_, err := Advance(date(2025, time.January, 10), "fortnightly")
	require.ErrorIs(t, err, ErrUnsupportedFrequency)

	var ue *UnsupportedError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "fortnightly", ue.Value)
}
