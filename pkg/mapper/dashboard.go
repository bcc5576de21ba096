// Package mapper turns loaded exports into dashboard patterns.
package mapper

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dkoosis/shopdash/internal/source"
	"github.com/dkoosis/shopdash/pkg/pattern"
	"github.com/dkoosis/shopdash/pkg/rank"
	"github.com/dkoosis/shopdash/pkg/table"
)

const (
	kindInfo    = "info"
	kindSuccess = "success"
	kindWarning = "warning"
)

// Section titles, in dashboard order.
const (
	TitlePaymentTypes    = "Total Order by Payment Type"
	TitleLateDelivery    = "Late Delivery Order Percentage"
	TitleCategoryRevenue = "Total Revenue per Category"
	TitleRFM             = "RFM Analysis"
)

// Options tunes the dashboard.
type Options struct {
	Title string
	TopN  int
}

// DefaultOptions returns the stock dashboard settings.
func DefaultOptions() Options {
	return Options{
		Title: "E-commerce Data Analytics Dashboard",
		TopN:  5,
	}
}

var printer = message.NewPrinter(language.English)

// FromDataset computes every dashboard section from ds. The first presenter
// error aborts the whole pass; no partial dashboard is returned.
func FromDataset(ds *source.Dataset, opts Options) ([]pattern.Pattern, error) {
	if ds == nil || ds.Orders == nil || ds.OrdersCustomers == nil || ds.PaymentTypes == nil || ds.CategoryRevenue == nil {
		return nil, fmt.Errorf("dashboard: incomplete dataset: %w", table.ErrInvalidArgument)
	}
	if opts.TopN <= 0 {
		return nil, fmt.Errorf("dashboard: top %d: %w", opts.TopN, table.ErrInvalidArgument)
	}

	sections := []func(*source.Dataset, Options) ([]pattern.Pattern, error){
		mapHeader,
		mapPaymentTypes,
		mapLateDelivery,
		mapCategoryRevenue,
		mapRFM,
	}
	var out []pattern.Pattern
	for _, fn := range sections {
		ps, err := fn(ds, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, ps...)
	}
	return out, nil
}

func mapHeader(ds *source.Dataset, opts Options) ([]pattern.Pattern, error) {
	metrics := []pattern.SummaryItem{
		{Label: "Orders", Value: formatCount(ds.Orders.Len()), Kind: kindInfo},
		{Label: "Customers", Value: formatCount(ds.OrdersCustomers.Len()), Kind: kindInfo},
	}
	first, last, ok, err := ds.Orders.TimeSpan(source.ColPurchaseTime)
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	if ok {
		metrics = append(metrics, pattern.SummaryItem{
			Label: "Purchases",
			Value: first.Format("2006-01-02") + " to " + last.Format("2006-01-02"),
			Kind:  kindInfo,
		})
	}
	return []pattern.Pattern{&pattern.Summary{
		Label:   opts.Title,
		Kind:    pattern.SummaryKindHeader,
		Metrics: metrics,
	}}, nil
}

func mapPaymentTypes(ds *source.Dataset, opts Options) ([]pattern.Pattern, error) {
	t := ds.PaymentTypes
	kpi, err := extremaSummary(t, source.ColTotalOrder, "Total Order")
	if err != nil {
		return nil, fmt.Errorf("payment types: %w", err)
	}
	sel, err := rank.Rank(t, source.ColTotalOrder, opts.TopN, rank.Descending)
	if err != nil {
		return nil, fmt.Errorf("payment types: %w", err)
	}
	board := leaderboard(TitlePaymentTypes, sel, formatterFor(t, source.ColTotalOrder), true)
	board.Orientation = pattern.Horizontal
	return []pattern.Pattern{&pattern.Section{Title: TitlePaymentTypes}, kpi, board}, nil
}

func mapLateDelivery(ds *source.Dataset, _ Options) ([]pattern.Pattern, error) {
	r, err := rank.BooleanRate(ds.Orders, source.ColIsLate)
	if err != nil {
		return nil, fmt.Errorf("late delivery: %w", err)
	}
	lateKind := kindSuccess
	if r.True > 0 {
		lateKind = kindWarning
	}
	kpi := &pattern.Summary{
		Label: TitleLateDelivery,
		Kind:  pattern.SummaryKindKPI,
		Metrics: []pattern.SummaryItem{
			{Label: "Total Order", Value: formatCount(r.Total), Kind: kindInfo},
			{Label: "Late Delivery Order", Value: formatCount(r.True), Kind: lateKind},
		},
	}
	pie := &pattern.Pie{
		Label: TitleLateDelivery,
		Slices: []pattern.PieSlice{
			{Label: "On Time", Value: float64(r.False()), Percent: 100 - r.Percent, Role: pattern.RoleGood},
			{Label: "Late", Value: float64(r.True), Percent: r.Percent, Role: pattern.RoleBad},
		},
	}
	return []pattern.Pattern{&pattern.Section{Title: TitleLateDelivery}, kpi, pie}, nil
}

func mapCategoryRevenue(ds *source.Dataset, opts Options) ([]pattern.Pattern, error) {
	t := ds.CategoryRevenue
	kpi, err := extremaSummary(t, source.ColTotalRevenue, "Total Revenue")
	if err != nil {
		return nil, fmt.Errorf("category revenue: %w", err)
	}
	top, err := rank.Rank(t, source.ColTotalRevenue, opts.TopN, rank.Descending)
	if err != nil {
		return nil, fmt.Errorf("category revenue: %w", err)
	}
	bottom, err := rank.Rank(t, source.ColTotalRevenue, opts.TopN, rank.Ascending)
	if err != nil {
		return nil, fmt.Errorf("category revenue: %w", err)
	}
	format := formatterFor(t, source.ColTotalRevenue)

	topTab := fmt.Sprintf("Top %d", opts.TopN)
	topBoard := leaderboard(topTab+" "+TitleCategoryRevenue, top, format, true)
	topBoard.Orientation = pattern.Horizontal

	bottomTab := fmt.Sprintf("Bottom %d", opts.TopN)
	bottomBoard := leaderboard(bottomTab+" "+TitleCategoryRevenue, bottom, format, true)
	bottomBoard.Orientation = pattern.Horizontal
	bottomBoard.Mirrored = true

	return []pattern.Pattern{
		&pattern.Section{Title: TitleCategoryRevenue},
		kpi,
		&pattern.Section{Title: TitleCategoryRevenue, Tab: topTab},
		topBoard,
		&pattern.Section{Title: TitleCategoryRevenue, Tab: bottomTab},
		bottomBoard,
	}, nil
}

// rfmMetric is one tab of the RFM section. Recency ranks lowest first: the
// best customers bought most recently.
type rfmMetric struct {
	tab   string
	label string
	field string
	dir   rank.Direction
}

var rfmMetrics = []rfmMetric{
	{tab: "Recency", label: "By Recency (days)", field: source.ColRecency, dir: rank.Ascending},
	{tab: "Frequency", label: "By Frequency", field: source.ColFrequency, dir: rank.Descending},
	{tab: "Monetary", label: "By Monetary", field: source.ColMonetary, dir: rank.Descending},
}

func mapRFM(ds *source.Dataset, opts Options) ([]pattern.Pattern, error) {
	t := ds.OrdersCustomers
	out := []pattern.Pattern{&pattern.Section{Title: TitleRFM}}
	for _, m := range rfmMetrics {
		sel, err := rank.Rank(t, m.field, opts.TopN, m.dir)
		if err != nil {
			return nil, fmt.Errorf("rfm %s: %w", m.tab, err)
		}
		board := leaderboard(m.label, sel, formatterFor(t, m.field), false)
		board.Orientation = pattern.Vertical
		board.Emphasis = pattern.EmphasisAll
		out = append(out, &pattern.Section{Title: TitleRFM, Tab: m.tab}, board)
	}
	return out, nil
}

func extremaSummary(t *table.Table, field, name string) (*pattern.Summary, error) {
	e, err := rank.FindExtrema(t, field)
	if err != nil {
		return nil, err
	}
	format := formatterFor(t, field)
	return &pattern.Summary{
		Label: name,
		Kind:  pattern.SummaryKindKPI,
		Metrics: []pattern.SummaryItem{
			{Label: "Max " + name, Value: format(e.Max), Kind: kindSuccess},
			{Label: "Min " + name, Value: format(e.Min), Kind: kindWarning},
		},
	}, nil
}

func leaderboard(label string, sel rank.Selection, format func(float64) string, humanizeNames bool) *pattern.Leaderboard {
	items := make([]pattern.LeaderboardItem, len(sel.Items))
	for i, it := range sel.Items {
		name := it.Key
		if humanizeNames {
			name = Humanize(name)
		}
		items[i] = pattern.LeaderboardItem{
			Name:      name,
			Metric:    format(it.Value),
			Value:     it.Value,
			Rank:      it.Rank,
			Highlight: it.Highlight,
		}
	}
	dir := "highest"
	if sel.Direction == rank.Ascending {
		dir = "lowest"
	}
	return &pattern.Leaderboard{
		Label:      label,
		MetricName: sel.Field,
		Items:      items,
		Direction:  dir,
		TotalCount: sel.Total,
		ShowRank:   true,
		Emphasis:   pattern.EmphasisFirst,
	}
}

// Humanize turns a snake_case export key into a display label,
// e.g. "credit_card" -> "Credit Card".
func Humanize(key string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
}

// formatterFor picks integer or two-decimal formatting from the column kind.
func formatterFor(t *table.Table, field string) func(float64) string {
	if kind, err := t.KindOf(field); err == nil && kind == table.KindInt {
		return func(v float64) string { return printer.Sprintf("%d", int64(v)) }
	}
	return func(v float64) string { return printer.Sprintf("%.2f", v) }
}

func formatCount(n int) string { return printer.Sprintf("%d", n) }
