package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestSample(t *testing.T) {
	values := []int64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	labels := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}

	got, gotLabels := sample(values, labels, 4)
	want := []int64{0, 3, 6, 9}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample = %v, want %v", got, want)
		}
	}
	if gotLabels[0] != "a" || gotLabels[3] != "j" {
		t.Errorf("labels = %v, want first a and last j", gotLabels)
	}

	_, noLabels := sample(values, nil, 3)
	if noLabels != nil {
		t.Errorf("labels = %v, want nil", noLabels)
	}
}

func TestBalanceChartShape(t *testing.T) {
	out := BalanceChart([]int64{100_000, -50_000, 200_000}, []string{"a", "", "b"}, 40, 5)
	lines := strings.Split(out, "\n")
	if len(lines) != 7 {
		t.Fatalf("lines = %d, want 7 (5 rows, axis, labels)\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "$200") {
		t.Errorf("top label missing: %q", lines[0])
	}
	if !strings.Contains(lines[4], "-$50") {
		t.Errorf("bottom label missing: %q", lines[4])
	}
	if w := lipgloss.Width(lines[5]); w != 5+1+3 {
		t.Errorf("axis width = %d, want 9", w)
	}
	if !strings.Contains(lines[6], "a b") {
		t.Errorf("x labels = %q, want first and last", lines[6])
	}
}

func TestBalanceChartNarrowFallsBack(t *testing.T) {
	out := BalanceChart([]int64{1, 2, 3}, nil, 10, 5)
	if strings.Contains(out, "\n") {
		t.Errorf("narrow chart should be a one-line sparkline, got %q", out)
	}
}
