// Package rank turns metric tables into ranked selections, extrema and
// boolean rates ready for presentation. Every function is pure: the source
// table is never modified and identical inputs give identical results.
package rank

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dkoosis/shopdash/pkg/table"
)

// Direction is the sort order of a ranking.
type Direction int

const (
	Descending Direction = iota
	Ascending
)

func (d Direction) String() string {
	if d == Ascending {
		return "ascending"
	}
	return "descending"
}

// ParseDirection accepts "asc", "ascending", "desc" and "descending".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return 0, fmt.Errorf("unknown direction %q: %w", s, table.ErrInvalidArgument)
	}
}

// Item is one ranked record.
type Item struct {
	Key       string
	Value     float64
	Rank      int // 1-based
	Row       int // index in the source table
	Highlight bool
}

// Selection is the first N records of a table ordered by one field.
type Selection struct {
	Table     string
	Field     string
	Direction Direction
	Total     int // records in the source table
	Items     []Item
}

// Rank stable-sorts t by field in direction and keeps the first n records.
// Ties keep their original row order. The first item is highlighted.
func Rank(t *table.Table, field string, n int, dir Direction) (Selection, error) {
	values, err := t.Numbers(field)
	if err != nil {
		return Selection{}, fmt.Errorf("rank: %w", err)
	}
	if n <= 0 {
		return Selection{}, fmt.Errorf("rank %s by %s: size %d: %w", t.Name(), field, n, table.ErrInvalidArgument)
	}
	if len(values) == 0 {
		return Selection{}, fmt.Errorf("rank %s by %s: empty table: %w", t.Name(), field, table.ErrInvalidArgument)
	}

	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		va, vb := values[order[a]], values[order[b]]
		if dir == Ascending {
			return va < vb
		}
		return va > vb
	})

	if n > len(order) {
		n = len(order)
	}
	items := make([]Item, n)
	for i, row := range order[:n] {
		items[i] = Item{
			Key:       t.Key(row),
			Value:     values[row],
			Rank:      i + 1,
			Row:       row,
			Highlight: i == 0,
		}
	}
	return Selection{
		Table:     t.Name(),
		Field:     field,
		Direction: dir,
		Total:     len(values),
		Items:     items,
	}, nil
}

// Extrema holds the largest and smallest value of a field and the key of the
// first record holding each.
type Extrema struct {
	Field  string
	Max    float64
	MaxKey string
	Min    float64
	MinKey string
}

// FindExtrema computes max and min of field over every record of t.
func FindExtrema(t *table.Table, field string) (Extrema, error) {
	values, err := t.Numbers(field)
	if err != nil {
		return Extrema{}, fmt.Errorf("extrema: %w", err)
	}
	if len(values) == 0 {
		return Extrema{}, fmt.Errorf("extrema %s of %s: empty table: %w", field, t.Name(), table.ErrInvalidArgument)
	}
	e := Extrema{Field: field, Max: values[0], MaxKey: t.Key(0), Min: values[0], MinKey: t.Key(0)}
	for i, v := range values[1:] {
		if v > e.Max {
			e.Max, e.MaxKey = v, t.Key(i+1)
		}
		if v < e.Min {
			e.Min, e.MinKey = v, t.Key(i+1)
		}
	}
	return e, nil
}

// RateSummary counts the records whose flag is set.
type RateSummary struct {
	Field   string
	True    int
	Total   int
	Percent float64 // True / Total * 100
}

// False returns the number of records whose flag is not set.
func (r RateSummary) False() int { return r.Total - r.True }

// BooleanRate counts records of t where field is true (or non-zero for
// numeric columns) and expresses them as a percentage of all records.
func BooleanRate(t *table.Table, field string) (RateSummary, error) {
	flags, err := t.Flags(field)
	if err != nil {
		return RateSummary{}, fmt.Errorf("boolean rate: %w", err)
	}
	if len(flags) == 0 {
		return RateSummary{}, fmt.Errorf("boolean rate %s of %s: empty table: %w", field, t.Name(), table.ErrInvalidArgument)
	}
	r := RateSummary{Field: field, Total: len(flags)}
	for _, f := range flags {
		if f {
			r.True++
		}
	}
	r.Percent = float64(r.True) / float64(r.Total) * 100
	return r, nil
}
