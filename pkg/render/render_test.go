package render

import (
	"strings"
	"testing"

	"github.com/dkoosis/shopdash/pkg/pattern"
)

func samplePatterns() []pattern.Pattern {
	return []pattern.Pattern{
		&pattern.Summary{
			Label: "Sales Dashboard",
			Kind:  pattern.SummaryKindHeader,
			Metrics: []pattern.SummaryItem{
				{Label: "Orders", Value: "10"},
				{Label: "Customers", Value: "9"},
			},
		},
		&pattern.Section{Title: "Payment Types"},
		&pattern.Summary{
			Kind: pattern.SummaryKindKPI,
			Metrics: []pattern.SummaryItem{
				{Label: "Max Total Order", Value: "76,795", Kind: "success"},
				{Label: "Min Total Order", Value: "1,529", Kind: "warning"},
			},
		},
		&pattern.Leaderboard{
			Label:       "Total Order by Payment Type",
			MetricName:  "total_order",
			Direction:   "highest",
			TotalCount:  4,
			Orientation: pattern.Horizontal,
			Emphasis:    pattern.EmphasisFirst,
			Items: []pattern.LeaderboardItem{
				{Name: "Credit Card", Metric: "76,795", Value: 76795, Rank: 1, Highlight: true},
				{Name: "Boleto", Metric: "19,784", Value: 19784, Rank: 2},
				{Name: "Voucher", Metric: "5,775", Value: 5775, Rank: 3},
				{Name: "Debit Card", Metric: "1,529", Value: 1529, Rank: 4},
			},
		},
		&pattern.Section{Title: "Late Delivery"},
		&pattern.Pie{
			Label: "Late Delivery",
			Slices: []pattern.PieSlice{
				{Label: "On Time", Value: 7, Percent: 70, Role: pattern.RoleGood},
				{Label: "Late", Value: 3, Percent: 30, Role: pattern.RoleBad},
			},
		},
		&pattern.Section{Title: "Customer RFM", Tab: "Recency"},
		&pattern.Leaderboard{
			Label:       "By Recency (days)",
			MetricName:  "recency",
			Direction:   "lowest",
			TotalCount:  9,
			ShowRank:    true,
			Orientation: pattern.Vertical,
			Emphasis:    pattern.EmphasisAll,
			Items: []pattern.LeaderboardItem{
				{Name: "c1", Metric: "2", Value: 2, Rank: 1, Highlight: true},
				{Name: "c2", Metric: "40", Value: 40, Rank: 2},
				{Name: "c3", Metric: "120", Value: 120, Rank: 3},
			},
		},
	}
}

func TestRenderers_ImplementInterface(t *testing.T) {
	var _ Renderer = NewTerminal(MonoTheme(), 80)
	var _ Renderer = NewLLM()
	var _ Renderer = NewJSON("run")
	var _ Renderer = NewHTML("t", DefaultPalette())
}

func TestTerminal_RendersEveryPattern(t *testing.T) {
	out := NewTerminal(MonoTheme(), 80).Render(samplePatterns())

	for _, want := range []string{
		"SALES DASHBOARD",
		"Orders: 10",
		"Payment Types",
		"Max Total Order: 76,795",
		"Total Order by Payment Type",
		"Credit Card",
		"Debit Card",
		"On Time 70.0%",
		"Late 30.0%",
		"> Recency",
		"By Recency (days) (3 of 9)",
		" 1. ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output:\n%s", want, out)
		}
	}
}

func TestTerminal_BarLengthsFollowValues(t *testing.T) {
	board := samplePatterns()[3].(*pattern.Leaderboard)
	out := NewTerminal(MonoTheme(), 80).Render([]pattern.Pattern{board})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header + 4 bars, got %d lines:\n%s", len(lines), out)
	}
	prev := -1
	for i, line := range lines[1:] {
		n := strings.Count(line, "#")
		if n == 0 {
			t.Errorf("bar %d is empty: %q", i, line)
		}
		if prev >= 0 && n > prev {
			t.Errorf("bar %d longer than bar %d: %d > %d", i, i-1, n, prev)
		}
		prev = n
	}
}

func TestTerminal_MirroredPutsNamesRight(t *testing.T) {
	board := &pattern.Leaderboard{
		Label:    "Bottom",
		Mirrored: true,
		Items: []pattern.LeaderboardItem{
			{Name: "seguros", Metric: "283.29", Value: 283.29, Rank: 1, Highlight: true},
		},
	}
	out := NewTerminal(MonoTheme(), 60).Render([]pattern.Pattern{board})
	line := strings.Split(out, "\n")[1]
	if !strings.HasSuffix(strings.TrimRight(line, " "), "seguros") {
		t.Errorf("mirrored row should end with the name: %q", line)
	}
	if strings.Index(line, "283.29") > strings.Index(line, "#") {
		t.Errorf("mirrored row should lead with the metric: %q", line)
	}
}

func TestTerminal_EmptyBoardRendersNothing(t *testing.T) {
	out := NewTerminal(MonoTheme(), 80).Render([]pattern.Pattern{&pattern.Leaderboard{Label: "x"}})
	if out != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}

func TestScale(t *testing.T) {
	tests := []struct {
		name  string
		v     float64
		peak  float64
		cells int
		want  int
	}{
		{"peak fills", 10, 10, 20, 20},
		{"half", 5, 10, 20, 10},
		{"tiny stays visible", 0.001, 10, 20, 1},
		{"zero", 0, 10, 20, 0},
		{"no peak", 5, 0, 20, 0},
		{"clamped", 30, 10, 20, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scale(tt.v, tt.peak, tt.cells); got != tt.want {
				t.Errorf("scale(%v, %v, %d) = %d, want %d", tt.v, tt.peak, tt.cells, got, tt.want)
			}
		})
	}
}

func TestThemeByName(t *testing.T) {
	for _, name := range []string{"default", "orca", "mono"} {
		if got := ThemeByName(name).Name; got != name {
			t.Errorf("ThemeByName(%q).Name = %q", name, got)
		}
	}
	if got := ThemeByName("neon").Name; got != "default" {
		t.Errorf("unknown theme should fall back to default, got %q", got)
	}
}

func TestTheme_WithPalette(t *testing.T) {
	th := DefaultTheme().WithPalette(Palette{Highlight: "#000000"})
	if th.Palette.Highlight != "#000000" {
		t.Errorf("highlight not replaced: %q", th.Palette.Highlight)
	}
	if th.Palette.Neutral != DefaultPalette().Neutral {
		t.Errorf("empty field should keep default, got %q", th.Palette.Neutral)
	}
}
