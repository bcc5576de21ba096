package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/dkoosis/shopdash/pkg/pattern"
)

const (
	pngWidth      = 1024
	pngHeight     = 512
	pngBarWidth   = 80
	pngLabelWidth = 14
)

// PNG writes one image per chart pattern into a directory.
type PNG struct {
	palette Palette
}

// NewPNG creates a PNG exporter.
func NewPNG(palette Palette) *PNG {
	return &PNG{palette: palette}
}

// WriteDir renders every leaderboard and pie in patterns to dir, creating it
// if needed, and returns the written paths in pattern order.
func (p *PNG) WriteDir(dir string, patterns []pattern.Pattern) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("png: creating %s: %w", dir, err)
	}
	var written []string
	seen := make(map[string]int)
	for _, pt := range patterns {
		var (
			label  string
			render func(f *os.File) error
		)
		switch v := pt.(type) {
		case *pattern.Leaderboard:
			label = v.Label
			render = func(f *os.File) error { return p.barChart(v).Render(chart.PNG, f) }
		case *pattern.Pie:
			pie, ok := p.pieChart(v)
			if !ok {
				continue
			}
			label = v.Label
			render = func(f *os.File) error { return pie.Render(chart.PNG, f) }
		default:
			continue
		}

		name := slug(label)
		seen[name]++
		if seen[name] > 1 {
			name = fmt.Sprintf("%s-%d", name, seen[name])
		}
		path := filepath.Join(dir, name+".png")
		if err := writeChart(path, render); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeChart(path string, render func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("png: %w", err)
	}
	if err := render(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("png: rendering %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("png: %w", err)
	}
	return nil
}

func (p *PNG) barChart(l *pattern.Leaderboard) chart.BarChart {
	bars := make([]chart.Value, len(l.Items))
	for i, item := range l.Items {
		color := hexColor(p.palette.Neutral)
		if l.Emphasized(i) {
			color = hexColor(p.palette.Highlight)
		}
		bars[i] = chart.Value{
			Label: runewidth.Truncate(item.Name, pngLabelWidth, ellipsis),
			Value: item.Value,
			Style: chart.Style{FillColor: color, StrokeColor: color},
		}
	}
	peak := l.MaxValue()
	if peak <= 0 {
		peak = 1
	}
	return chart.BarChart{
		Title:      l.Label,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		Width:      pngWidth,
		Height:     pngHeight,
		BarWidth:   pngBarWidth,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: peak * 1.05},
		},
		Bars: bars,
	}
}

// pieChart skips empty slices; ok is false when nothing is left to draw.
func (p *PNG) pieChart(pie *pattern.Pie) (chart.PieChart, bool) {
	var values []chart.Value
	for _, s := range pie.Slices {
		if s.Value <= 0 {
			continue
		}
		color := hexColor(p.palette.Good)
		if s.Role == pattern.RoleBad {
			color = hexColor(p.palette.Bad)
		}
		values = append(values, chart.Value{
			Label: s.Label + " " + pattern.FormatPercent(s.Percent),
			Value: s.Value,
			Style: chart.Style{FillColor: color, StrokeColor: drawing.ColorWhite},
		})
	}
	if len(values) == 0 {
		return chart.PieChart{}, false
	}
	return chart.PieChart{
		Title:  pie.Label,
		Width:  pngHeight,
		Height: pngHeight,
		Values: values,
	}, true
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

// slug turns a chart label into a file name, e.g.
// "By Recency (days)" -> "by-recency-days".
func slug(label string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(label) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			dash = false
			continue
		}
		if !dash && sb.Len() > 0 {
			sb.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimSuffix(sb.String(), "-")
	if s == "" {
		return "chart"
	}
	return s
}
