package pattern

// Orientation is the axis bars grow along.
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// Emphasis selects which bars get the highlight color.
type Emphasis string

const (
	// EmphasisFirst colors only items flagged Highlight; the rest are neutral.
	EmphasisFirst Emphasis = "first"
	// EmphasisAll colors every bar with the highlight color.
	EmphasisAll Emphasis = "all"
)

// Leaderboard represents a ranked list of items by metric, drawn as a bar chart.
type Leaderboard struct {
	Label       string
	MetricName  string // e.g., "total_order", "recency"
	Items       []LeaderboardItem
	Direction   string // "highest" or "lowest"
	TotalCount  int    // total before filtering to top N
	ShowRank    bool
	Orientation Orientation
	Mirrored    bool // bars grow from the right, labels on the right
	Emphasis    Emphasis
}

// LeaderboardItem is a single ranked entry.
type LeaderboardItem struct {
	Name      string  // display name
	Metric    string  // formatted value (e.g., "76,795", "R$ 1,258,681.34")
	Value     float64 // numeric value for bar length
	Rank      int
	Highlight bool
}

func (l *Leaderboard) Type() PatternType { return PatternTypeLeaderboard }

// Emphasized reports whether item i is drawn in the highlight color.
func (l *Leaderboard) Emphasized(i int) bool {
	if l.Emphasis == EmphasisAll {
		return true
	}
	return l.Items[i].Highlight
}

// MaxValue returns the largest item value, or 0 for an empty board.
func (l *Leaderboard) MaxValue() float64 {
	var m float64
	for _, it := range l.Items {
		if it.Value > m {
			m = it.Value
		}
	}
	return m
}
