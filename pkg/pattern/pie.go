package pattern

import "fmt"

// SliceRole tags a pie slice for coloring.
type SliceRole string

const (
	RoleGood SliceRole = "good"
	RoleBad  SliceRole = "bad"
)

// Pie represents shares of a whole.
type Pie struct {
	Label  string
	Slices []PieSlice
}

// PieSlice is one share. Percent is in [0, 100].
type PieSlice struct {
	Label   string
	Value   float64
	Percent float64
	Role    SliceRole
}

func (p *Pie) Type() PatternType { return PatternTypePie }

// FormatPercent formats a share the way every renderer labels slices.
func FormatPercent(p float64) string { return fmt.Sprintf("%.1f%%", p) }
