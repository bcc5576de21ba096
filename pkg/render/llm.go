package render

import (
	"fmt"
	"strings"

	"github.com/dkoosis/shopdash/pkg/pattern"
)

// LLM renders patterns as terse plain text optimized for AI consumption.
// Zero ANSI codes, one fact per line, dashboard order preserved.
type LLM struct{}

// NewLLM creates an LLM renderer.
func NewLLM() *LLM {
	return &LLM{}
}

// Render formats all patterns for LLM consumption.
func (l *LLM) Render(patterns []pattern.Pattern) string {
	var sb strings.Builder
	for _, p := range patterns {
		switch v := p.(type) {
		case *pattern.Section:
			l.renderSection(&sb, v)
		case *pattern.Summary:
			l.renderSummary(&sb, v)
		case *pattern.Leaderboard:
			l.renderLeaderboard(&sb, v)
		case *pattern.Pie:
			l.renderPie(&sb, v)
		}
	}
	return sb.String()
}

func (l *LLM) renderSection(sb *strings.Builder, s *pattern.Section) {
	if s.Tab != "" {
		sb.WriteString("\n### " + s.Tab + "\n")
		return
	}
	sb.WriteString("\n## " + s.Title + "\n")
}

func (l *LLM) renderSummary(sb *strings.Builder, s *pattern.Summary) {
	if s.Kind == pattern.SummaryKindHeader {
		sb.WriteString("SCOPE: " + s.Label + "\n")
		parts := make([]string, 0, len(s.Metrics))
		for _, m := range s.Metrics {
			parts = append(parts, m.Label+": "+m.Value)
		}
		sb.WriteString(strings.Join(parts, " | ") + "\n")
		return
	}
	for _, m := range s.Metrics {
		sb.WriteString(m.Label + ": " + m.Value + "\n")
	}
}

func (l *LLM) renderLeaderboard(sb *strings.Builder, b *pattern.Leaderboard) {
	order := "highest first"
	if b.Direction == "lowest" {
		order = "lowest first"
	}
	sb.WriteString(fmt.Sprintf("%s [%s, %s, %d of %d]\n", b.Label, b.MetricName, order, len(b.Items), b.TotalCount))
	for i, item := range b.Items {
		mark := " "
		if b.Emphasis != pattern.EmphasisAll && b.Emphasized(i) {
			mark = "*"
		}
		sb.WriteString(fmt.Sprintf(" %s%d. %s %s\n", mark, item.Rank, item.Name, item.Metric))
	}
}

func (l *LLM) renderPie(sb *strings.Builder, p *pattern.Pie) {
	sb.WriteString(p.Label + "\n")
	for _, s := range p.Slices {
		sb.WriteString(fmt.Sprintf("  %s %s (%.0f)\n", s.Label, pattern.FormatPercent(s.Percent), s.Value))
	}
}
