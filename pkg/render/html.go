package render

import (
	"bytes"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/dkoosis/shopdash/pkg/pattern"
)

const (
	chartWidth      = "960px"
	chartHeight     = "480px"
	chartBackground = "#FFFFFF"
	chartTextColor  = "#31333F"
)

// HTML renders patterns as a standalone page of echarts charts.
// KPI summaries become the subtitle of the chart that follows them.
type HTML struct {
	palette Palette
	title   string
}

// NewHTML creates an HTML renderer. title is used when the patterns carry
// no header summary.
func NewHTML(title string, palette Palette) *HTML {
	return &HTML{title: title, palette: palette}
}

// Render builds the page and returns it as a string.
func (h *HTML) Render(patterns []pattern.Pattern) string {
	page := components.NewPage()
	page.PageTitle = h.title

	var pending []string
	for _, p := range patterns {
		switch v := p.(type) {
		case *pattern.Summary:
			if v.Kind == pattern.SummaryKindHeader {
				page.PageTitle = v.Label
				continue
			}
			for _, m := range v.Metrics {
				pending = append(pending, m.Label+": "+m.Value)
			}
		case *pattern.Leaderboard:
			page.AddCharts(h.barChart(v, strings.Join(pending, "   ")))
			pending = nil
		case *pattern.Pie:
			page.AddCharts(h.pieChart(v, strings.Join(pending, "   ")))
			pending = nil
		}
	}

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return "<!-- render error: " + err.Error() + " -->\n"
	}
	return buf.String()
}

func (h *HTML) globalOpts(title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Width:           chartWidth,
			Height:          chartHeight,
			BackgroundColor: chartBackground,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      title,
			Subtitle:   subtitle,
			TitleStyle: &opts.TextStyle{Color: chartTextColor},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	}
}

func (h *HTML) barChart(l *pattern.Leaderboard, subtitle string) *charts.Bar {
	n := len(l.Items)
	names := make([]string, n)
	data := make([]opts.BarData, n)
	for i, item := range l.Items {
		// echarts draws the first category at the bottom of a horizontal
		// chart; reverse so rank 1 sits on top.
		j := i
		if l.Orientation == pattern.Horizontal {
			j = n - 1 - i
		}
		color := h.palette.Neutral
		if l.Emphasized(i) {
			color = h.palette.Highlight
		}
		names[j] = item.Name
		data[j] = opts.BarData{
			Name:      item.Name,
			Value:     item.Value,
			ItemStyle: &opts.ItemStyle{Color: color},
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(h.globalOpts(l.Label, subtitle)...)
	bar.SetXAxis(names).AddSeries(l.MetricName, data)
	if l.Orientation == pattern.Horizontal {
		bar.XYReversal()
	}
	return bar
}

func (h *HTML) pieChart(p *pattern.Pie, subtitle string) *charts.Pie {
	data := make([]opts.PieData, 0, len(p.Slices))
	for _, s := range p.Slices {
		color := h.palette.Good
		if s.Role == pattern.RoleBad {
			color = h.palette.Bad
		}
		data = append(data, opts.PieData{
			Name:      s.Label,
			Value:     s.Value,
			ItemStyle: &opts.ItemStyle{Color: color},
		})
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(h.globalOpts(p.Label, subtitle)...)
	pie.AddSeries(p.Label, data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{b}: {d}%",
			}),
			charts.WithPieChartOpts(opts.PieChart{
				Radius: []string{"0%", "70%"},
			}),
		)
	return pie
}
