// Package table holds immutable, schema-checked metric tables.
//
// A Table is built once through a Builder, which validates every value
// against the declared schema, and is read-only afterwards. Accessors
// return copies so callers cannot mutate the underlying columns.
package table

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Error kinds shared by table construction and everything that reads tables.
var (
	// ErrInvalidField reports a column that is absent from the schema or has
	// the wrong kind for the requested operation.
	ErrInvalidField = errors.New("invalid field")
	// ErrInvalidArgument reports a violated precondition: empty table,
	// non-positive size, duplicate key, bad value.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Kind is the declared type of a column.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Numeric reports whether values of this kind can be ranked.
func (k Kind) Numeric() bool { return k == KindInt || k == KindFloat }

// Column declares one named, typed column.
type Column struct {
	Name string
	Kind Kind
}

// Schema declares the columns of a table. Key, when set, names a string
// column whose values must be unique.
type Schema struct {
	Key     string
	Columns []Column
}

// Index returns the position of the named column, or -1.
func (s Schema) Index(name string) int {
	for i, c := range s.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (s Schema) validate() error {
	if len(s.Columns) == 0 {
		return fmt.Errorf("schema has no columns: %w", ErrInvalidArgument)
	}
	seen := make(map[string]bool, len(s.Columns))
	for _, c := range s.Columns {
		if c.Name == "" {
			return fmt.Errorf("schema column with empty name: %w", ErrInvalidField)
		}
		if seen[c.Name] {
			return fmt.Errorf("schema column %q declared twice: %w", c.Name, ErrInvalidField)
		}
		seen[c.Name] = true
	}
	if s.Key != "" {
		i := s.Index(s.Key)
		if i < 0 {
			return fmt.Errorf("key column %q not in schema: %w", s.Key, ErrInvalidField)
		}
		if s.Columns[i].Kind != KindString {
			return fmt.Errorf("key column %q must be %s, got %s: %w", s.Key, KindString, s.Columns[i].Kind, ErrInvalidField)
		}
	}
	return nil
}

// Table is an immutable, ordered set of records sharing one schema.
type Table struct {
	name   string
	schema Schema
	rows   int

	strs  map[string][]string
	nums  map[string][]float64
	flags map[string][]bool
	times map[string][]time.Time
}

// Name returns the table name given at construction.
func (t *Table) Name() string { return t.name }

// Len returns the number of records.
func (t *Table) Len() int { return t.rows }

// Schema returns a copy of the table schema.
func (t *Table) Schema() Schema {
	cols := make([]Column, len(t.schema.Columns))
	copy(cols, t.schema.Columns)
	return Schema{Key: t.schema.Key, Columns: cols}
}

// Has reports whether field is a column of the table.
func (t *Table) Has(field string) bool { return t.schema.Index(field) >= 0 }

// KindOf returns the declared kind of field.
func (t *Table) KindOf(field string) (Kind, error) {
	i := t.schema.Index(field)
	if i < 0 {
		return 0, t.fieldErr(field)
	}
	return t.schema.Columns[i].Kind, nil
}

// Key returns the key of record i. Tables without a key column label
// records by their 1-based position.
func (t *Table) Key(i int) string {
	if t.schema.Key == "" {
		return fmt.Sprintf("#%d", i+1)
	}
	return t.strs[t.schema.Key][i]
}

// Keys returns the key of every record in order.
func (t *Table) Keys() []string {
	out := make([]string, t.rows)
	for i := range out {
		out[i] = t.Key(i)
	}
	return out
}

// Numbers returns the values of an int or float column as float64.
func (t *Table) Numbers(field string) ([]float64, error) {
	kind, err := t.KindOf(field)
	if err != nil {
		return nil, err
	}
	if !kind.Numeric() {
		return nil, fmt.Errorf("table %s: column %q is %s, not numeric: %w", t.name, field, kind, ErrInvalidField)
	}
	return append([]float64(nil), t.nums[field]...), nil
}

// Flags returns a bool column, or an int/float column read as value != 0.
func (t *Table) Flags(field string) ([]bool, error) {
	kind, err := t.KindOf(field)
	if err != nil {
		return nil, err
	}
	switch {
	case kind == KindBool:
		return append([]bool(nil), t.flags[field]...), nil
	case kind.Numeric():
		out := make([]bool, t.rows)
		for i, v := range t.nums[field] {
			out[i] = v != 0
		}
		return out, nil
	default:
		return nil, fmt.Errorf("table %s: column %q is %s, not a flag: %w", t.name, field, kind, ErrInvalidField)
	}
}

// Strings returns the values of a string column.
func (t *Table) Strings(field string) ([]string, error) {
	kind, err := t.KindOf(field)
	if err != nil {
		return nil, err
	}
	if kind != KindString {
		return nil, fmt.Errorf("table %s: column %q is %s, not string: %w", t.name, field, kind, ErrInvalidField)
	}
	return append([]string(nil), t.strs[field]...), nil
}

// Times returns the values of a time column. Zero times mark missing cells.
func (t *Table) Times(field string) ([]time.Time, error) {
	kind, err := t.KindOf(field)
	if err != nil {
		return nil, err
	}
	if kind != KindTime {
		return nil, fmt.Errorf("table %s: column %q is %s, not time: %w", t.name, field, kind, ErrInvalidField)
	}
	return append([]time.Time(nil), t.times[field]...), nil
}

// TimeSpan returns the earliest and latest non-zero timestamps of a time
// column. ok is false when every cell is zero.
func (t *Table) TimeSpan(field string) (first, last time.Time, ok bool, err error) {
	ts, err := t.Times(field)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	for _, v := range ts {
		if v.IsZero() {
			continue
		}
		if !ok || v.Before(first) {
			first = v
		}
		if !ok || v.After(last) {
			last = v
		}
		ok = true
	}
	return first, last, ok, nil
}

func (t *Table) fieldErr(field string) error {
	return fmt.Errorf("table %s: no column %q: %w", t.name, field, ErrInvalidField)
}

// Builder accumulates records and validates them against a schema.
type Builder struct {
	t   *Table
	err error
}

// NewBuilder starts a table with the given name and schema.
func NewBuilder(name string, schema Schema) *Builder {
	b := &Builder{t: &Table{
		name:   name,
		schema: schema,
		strs:   make(map[string][]string),
		nums:   make(map[string][]float64),
		flags:  make(map[string][]bool),
		times:  make(map[string][]time.Time),
	}}
	if err := schema.validate(); err != nil {
		b.err = fmt.Errorf("table %s: %w", name, err)
	}
	return b
}

// Append adds one record. Values are positional, in schema column order:
// string for KindString, int/int64/float64 (integral) for KindInt,
// float64/int/int64 for KindFloat, bool for KindBool, time.Time for KindTime.
func (b *Builder) Append(values ...any) error {
	if b.err != nil {
		return b.err
	}
	t := b.t
	if len(values) != len(t.schema.Columns) {
		return fmt.Errorf("table %s: record %d has %d values, schema has %d columns: %w",
			t.name, t.rows+1, len(values), len(t.schema.Columns), ErrInvalidArgument)
	}
	// Convert first so a bad value leaves the columns untouched.
	conv := make([]any, len(values))
	for i, c := range t.schema.Columns {
		v, err := convert(c, values[i])
		if err != nil {
			return fmt.Errorf("table %s: record %d: %w", t.name, t.rows+1, err)
		}
		conv[i] = v
	}
	for i, c := range t.schema.Columns {
		switch c.Kind {
		case KindString:
			t.strs[c.Name] = append(t.strs[c.Name], conv[i].(string))
		case KindInt, KindFloat:
			t.nums[c.Name] = append(t.nums[c.Name], conv[i].(float64))
		case KindBool:
			t.flags[c.Name] = append(t.flags[c.Name], conv[i].(bool))
		case KindTime:
			t.times[c.Name] = append(t.times[c.Name], conv[i].(time.Time))
		}
	}
	t.rows++
	return nil
}

// Build checks table-wide invariants and returns the finished table.
// The builder must not be used afterwards.
func (b *Builder) Build() (*Table, error) {
	if b.err != nil {
		return nil, b.err
	}
	t := b.t
	if key := t.schema.Key; key != "" {
		seen := make(map[string]int, t.rows)
		for i, k := range t.strs[key] {
			if prev, dup := seen[k]; dup {
				return nil, fmt.Errorf("table %s: key %q repeated at records %d and %d: %w",
					t.name, k, prev+1, i+1, ErrInvalidArgument)
			}
			seen[k] = i
		}
	}
	b.t = nil
	b.err = errors.New("table builder already built")
	return t, nil
}

func convert(c Column, v any) (any, error) {
	bad := func() error {
		return fmt.Errorf("column %q: %T is not a %s value: %w", c.Name, v, c.Kind, ErrInvalidArgument)
	}
	switch c.Kind {
	case KindString:
		s, ok := v.(string)
		if !ok {
			return nil, bad()
		}
		return s, nil
	case KindInt:
		var f float64
		switch n := v.(type) {
		case int:
			f = float64(n)
		case int64:
			f = float64(n)
		case float64:
			if n != math.Trunc(n) {
				return nil, fmt.Errorf("column %q: %v is not an integer: %w", c.Name, n, ErrInvalidArgument)
			}
			f = n
		default:
			return nil, bad()
		}
		return f, checkMetric(c.Name, f)
	case KindFloat:
		var f float64
		switch n := v.(type) {
		case float64:
			f = n
		case int:
			f = float64(n)
		case int64:
			f = float64(n)
		default:
			return nil, bad()
		}
		return f, checkMetric(c.Name, f)
	case KindBool:
		f, ok := v.(bool)
		if !ok {
			return nil, bad()
		}
		return f, nil
	case KindTime:
		ts, ok := v.(time.Time)
		if !ok {
			return nil, bad()
		}
		return ts, nil
	default:
		return nil, fmt.Errorf("column %q: unknown %s: %w", c.Name, c.Kind, ErrInvalidField)
	}
}

func checkMetric(name string, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("column %q: %v is not finite: %w", name, f, ErrInvalidArgument)
	}
	if f < 0 {
		return fmt.Errorf("column %q: %v is negative: %w", name, f, ErrInvalidArgument)
	}
	return nil
}
