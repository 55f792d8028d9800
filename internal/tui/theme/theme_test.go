package theme

import "testing"

func TestByName(t *testing.T) {
	if got := ByName("tokyo-night").Name; got != "tokyo-night" {
		t.Errorf("ByName(tokyo-night) = %q", got)
	}
	if got := ByName("nope").Name; got != FlexokiDark.Name {
		t.Errorf("ByName(nope) = %q, want fallback %q", got, FlexokiDark.Name)
	}
}

func TestFundedColor(t *testing.T) {
	th := FlexokiDark
	tests := []struct {
		pct  float64
		want string
	}{
		{1, string(th.Green)},
		{0.75, string(th.Yellow)},
		{0.2, string(th.Orange)},
		{0, string(th.Red)},
	}
	for _, tt := range tests {
		if got := string(th.Funded(tt.pct)); got != tt.want {
			t.Errorf("Funded(%v) = %s, want %s", tt.pct, got, tt.want)
		}
	}
	if th.Amount(-1) != th.Red || th.Amount(1) != th.Green || th.Amount(0) != th.TextMuted {
		t.Error("Amount colors do not follow sign")
	}
}
