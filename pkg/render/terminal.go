package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/dkoosis/shopdash/pkg/pattern"
)

const (
	maxNameWidth   = 34
	minBarWidth    = 10
	columnHeight   = 8
	columnWidth    = 4
	columnGap      = 2
	ellipsis       = "…"
	defaultWidth   = 80
	sectionSpacing = "\n"
)

// Terminal renders patterns as styled terminal output via lipgloss.
type Terminal struct {
	theme Theme
	width int
}

// NewTerminal creates a terminal renderer with the given theme.
func NewTerminal(theme Theme, width int) *Terminal {
	if width <= 0 {
		width = defaultWidth
	}
	return &Terminal{theme: theme, width: width}
}

// Render formats all patterns for terminal display.
func (t *Terminal) Render(patterns []pattern.Pattern) string {
	var sections []string
	for _, p := range patterns {
		s := t.renderOne(p)
		if s != "" {
			sections = append(sections, s)
		}
	}
	return strings.Join(sections, sectionSpacing)
}

func (t *Terminal) renderOne(p pattern.Pattern) string {
	switch v := p.(type) {
	case *pattern.Section:
		return t.renderSection(v)
	case *pattern.Summary:
		return t.renderSummary(v)
	case *pattern.Leaderboard:
		if v.Orientation == pattern.Vertical {
			return t.renderColumns(v)
		}
		return t.renderBars(v)
	case *pattern.Pie:
		return t.renderPie(v)
	default:
		return ""
	}
}

func (t *Terminal) renderSection(s *pattern.Section) string {
	if s.Tab != "" {
		return "  " + t.theme.Bold.Render(t.theme.Icons.Tab+" "+s.Tab) + "\n"
	}
	return t.theme.Heading.Render(s.Title) + "\n"
}

func (t *Terminal) renderSummary(s *pattern.Summary) string {
	var sb strings.Builder
	if s.Kind == pattern.SummaryKindHeader {
		sb.WriteString(t.theme.Bold.Render(strings.ToUpper(s.Label)))
		sb.WriteString("\n")
		parts := make([]string, 0, len(s.Metrics))
		for _, m := range s.Metrics {
			parts = append(parts, m.Label+": "+t.theme.Bold.Render(m.Value))
		}
		sb.WriteString(t.theme.Muted.Render(strings.Join(parts, "  "+t.theme.Icons.Bullet+"  ")))
		sb.WriteString("\n")
		return sb.String()
	}
	sb.WriteString(" ")
	for _, m := range s.Metrics {
		icon, style := t.iconStyle(m.Kind)
		sb.WriteString(" ")
		sb.WriteString(style.Render(icon))
		sb.WriteString(" " + m.Label + ": ")
		sb.WriteString(t.theme.Bold.Render(m.Value))
		sb.WriteString("   ")
	}
	return strings.TrimRight(sb.String(), " ") + "\n"
}

// renderBars draws a horizontal bar chart, one line per item. Mirrored boards
// grow from the right edge with names on the right.
func (t *Terminal) renderBars(l *pattern.Leaderboard) string {
	if len(l.Items) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(t.boardHeader(l))

	nameW, metricW := 0, 0
	for _, item := range l.Items {
		nameW = max(nameW, runewidth.StringWidth(item.Name))
		metricW = max(metricW, runewidth.StringWidth(item.Metric))
	}
	nameW = min(nameW, maxNameWidth)
	rankW := 0
	if l.ShowRank {
		rankW = 4
	}
	barW := max(t.width-2-rankW-nameW-metricW-4, minBarWidth)
	peak := l.MaxValue()

	for i, item := range l.Items {
		name := runewidth.Truncate(item.Name, nameW, ellipsis)
		cells := scale(item.Value, peak, barW)
		color := t.barColor(l.Emphasized(i))
		bar := t.bar(cells, color)
		rankCol := ""
		if l.ShowRank {
			rankCol = t.theme.Muted.Render(fmt.Sprintf("%2d. ", item.Rank))
		}

		sb.WriteString("  ")
		if l.Mirrored {
			sb.WriteString(t.theme.Warning.Render(runewidth.FillLeft(item.Metric, metricW)))
			sb.WriteString("  ")
			sb.WriteString(strings.Repeat(" ", barW-cells))
			sb.WriteString(bar)
			sb.WriteString("  ")
			sb.WriteString(rankCol)
			sb.WriteString(t.nameStyle(l.Emphasized(i)).Render(name))
		} else {
			sb.WriteString(rankCol)
			sb.WriteString(t.nameStyle(l.Emphasized(i)).Render(runewidth.FillRight(name, nameW)))
			sb.WriteString("  ")
			sb.WriteString(bar)
			sb.WriteString(strings.Repeat(" ", barW-cells))
			sb.WriteString("  ")
			sb.WriteString(t.theme.Warning.Render(runewidth.FillLeft(item.Metric, metricW)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderColumns draws a vertical bar chart followed by a numbered legend,
// since item keys are too long to sit under a column.
func (t *Terminal) renderColumns(l *pattern.Leaderboard) string {
	if len(l.Items) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(t.boardHeader(l))

	peak := l.MaxValue()
	heights := make([]int, len(l.Items))
	for i, item := range l.Items {
		heights[i] = scale(item.Value, peak, columnHeight)
	}
	gap := strings.Repeat(" ", columnGap)
	blank := strings.Repeat(" ", columnWidth)
	for row := columnHeight; row >= 1; row-- {
		var line strings.Builder
		line.WriteString("    ")
		for i, h := range heights {
			if i > 0 {
				line.WriteString(gap)
			}
			if h >= row {
				cell := strings.Repeat(string(t.theme.Icons.Full), columnWidth)
				line.WriteString(t.fill(t.barColor(l.Emphasized(i))).Render(cell))
			} else {
				line.WriteString(blank)
			}
		}
		sb.WriteString(strings.TrimRight(line.String(), " "))
		sb.WriteString("\n")
	}

	var axis strings.Builder
	axis.WriteString("    ")
	for i, item := range l.Items {
		if i > 0 {
			axis.WriteString(gap)
		}
		axis.WriteString(runewidth.FillRight(fmt.Sprintf("%d", item.Rank), columnWidth))
	}
	sb.WriteString(t.theme.Muted.Render(strings.TrimRight(axis.String(), " ")))
	sb.WriteString("\n")

	metricW := 0
	for _, item := range l.Items {
		metricW = max(metricW, runewidth.StringWidth(item.Metric))
	}
	for _, item := range l.Items {
		sb.WriteString("  ")
		sb.WriteString(t.theme.Muted.Render(fmt.Sprintf("%2d. ", item.Rank)))
		sb.WriteString(t.theme.Warning.Render(runewidth.FillLeft(item.Metric, metricW)))
		sb.WriteString("  ")
		sb.WriteString(t.theme.Primary.Render(item.Name))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderPie(p *pattern.Pie) string {
	if len(p.Slices) == 0 {
		return ""
	}
	var sb strings.Builder
	if p.Label != "" {
		sb.WriteString(t.theme.Bold.Render(p.Label))
		sb.WriteString("\n")
	}
	barW := max(t.width-4, minBarWidth)
	sb.WriteString("  ")
	used := 0
	for i, s := range p.Slices {
		cells := scale(s.Percent, 100, barW)
		if i == len(p.Slices)-1 {
			cells = barW - used
		}
		cells = max(min(cells, barW-used), 0)
		used += cells
		sb.WriteString(t.bar(cells, t.sliceColor(s.Role)))
	}
	sb.WriteString("\n")
	for _, s := range p.Slices {
		sb.WriteString("  ")
		sb.WriteString(t.fill(t.sliceColor(s.Role)).Render(t.theme.Icons.Info))
		sb.WriteString(fmt.Sprintf(" %s %s", s.Label, t.theme.Bold.Render(pattern.FormatPercent(s.Percent))))
		sb.WriteString(t.theme.Muted.Render(fmt.Sprintf(" (%.0f)", s.Value)))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) boardHeader(l *pattern.Leaderboard) string {
	if l.Label == "" {
		return ""
	}
	header := l.Label
	if l.TotalCount > len(l.Items) {
		header += fmt.Sprintf(" (%d of %d)", len(l.Items), l.TotalCount)
	}
	return t.theme.Bold.Render(header) + "\n"
}

// bar renders a solid run of cells in color using a progress bar at 100%.
func (t *Terminal) bar(cells int, color string) string {
	if cells <= 0 {
		return ""
	}
	pb := progress.New(
		progress.WithSolidFill(color),
		progress.WithFillCharacters(t.theme.Icons.Full, t.theme.Icons.Empty),
		progress.WithoutPercentage(),
		progress.WithWidth(cells),
	)
	return pb.ViewAs(1)
}

func (t *Terminal) barColor(emphasized bool) string {
	if t.colorless() {
		return ""
	}
	if emphasized {
		return t.theme.Palette.Highlight
	}
	return t.theme.Palette.Neutral
}

func (t *Terminal) sliceColor(role pattern.SliceRole) string {
	if t.colorless() {
		return ""
	}
	if role == pattern.RoleBad {
		return t.theme.Palette.Bad
	}
	return t.theme.Palette.Good
}

func (t *Terminal) fill(color string) lipgloss.Style {
	if color == "" {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

func (t *Terminal) nameStyle(emphasized bool) lipgloss.Style {
	if emphasized {
		return t.theme.Primary
	}
	return t.theme.Muted
}

func (t *Terminal) colorless() bool { return t.theme.Name == "mono" }

func (t *Terminal) iconStyle(kind string) (string, lipgloss.Style) {
	switch kind {
	case "success":
		return t.theme.Icons.Pass, t.theme.Success
	case "error":
		return t.theme.Icons.Fail, t.theme.Error
	case "warning":
		return t.theme.Icons.Warn, t.theme.Warning
	default:
		return t.theme.Icons.Info, t.theme.Primary
	}
}

// scale maps v in [0, peak] onto [0, cells]. Non-zero values get at least
// one cell so they stay visible.
func scale(v, peak float64, cells int) int {
	if peak <= 0 || v <= 0 {
		return 0
	}
	n := int(math.Round(v / peak * float64(cells)))
	return max(min(n, cells), 1)
}
