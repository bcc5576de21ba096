// Package source loads the e-commerce CSV exports into typed tables.
package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dkoosis/shopdash/pkg/table"
)

// Column and file names of the exports.
const (
	FileOrders          = "orders.csv"
	FileOrdersCustomers = "orders_customers.csv"
	FilePaymentTypes    = "total_order_by_payment_type.csv"
	FileCategoryRevenue = "total_revenue_per_category.csv"

	ColIsLate           = "is_late"
	ColPurchaseTime     = "order_purchase_timestamp"
	ColApprovedAt       = "order_approved_at"
	ColCarrierDate      = "order_delivered_carrier_date"
	ColCustomerDate     = "order_delivered_customer_date"
	ColEstimatedDate    = "order_estimated_delivery_date"
	ColCustomerUniqueID = "customer_unique_id"
	ColRecency          = "recency"
	ColFrequency        = "frequency"
	ColMonetary         = "monetary"
	ColPaymentType      = "payment_type"
	ColTotalOrder       = "total_order"
	ColCategory         = "product_category_name"
	ColTotalRevenue     = "total_revenue"
)

// TableSpec describes how one CSV export maps onto a table.
type TableSpec struct {
	Name   string
	File   string
	Schema table.Schema
	// Dedupe drops later records repeating the schema key instead of
	// failing the build.
	Dedupe bool
}

// Specs for the four exports.
var (
	OrdersSpec = TableSpec{
		Name: "orders",
		File: FileOrders,
		Schema: table.Schema{Columns: []table.Column{
			{Name: ColIsLate, Kind: table.KindBool},
			{Name: ColPurchaseTime, Kind: table.KindTime},
			{Name: ColApprovedAt, Kind: table.KindTime},
			{Name: ColCarrierDate, Kind: table.KindTime},
			{Name: ColCustomerDate, Kind: table.KindTime},
			{Name: ColEstimatedDate, Kind: table.KindTime},
		}},
	}
	OrdersCustomersSpec = TableSpec{
		Name: "orders_customers",
		File: FileOrdersCustomers,
		Schema: table.Schema{
			Key: ColCustomerUniqueID,
			Columns: []table.Column{
				{Name: ColCustomerUniqueID, Kind: table.KindString},
				{Name: ColPurchaseTime, Kind: table.KindTime},
				{Name: ColRecency, Kind: table.KindInt},
				{Name: ColFrequency, Kind: table.KindInt},
				{Name: ColMonetary, Kind: table.KindFloat},
			},
		},
		Dedupe: true,
	}
	PaymentTypesSpec = TableSpec{
		Name: "total_order_by_payment_type",
		File: FilePaymentTypes,
		Schema: table.Schema{
			Key: ColPaymentType,
			Columns: []table.Column{
				{Name: ColPaymentType, Kind: table.KindString},
				{Name: ColTotalOrder, Kind: table.KindInt},
			},
		},
	}
	CategoryRevenueSpec = TableSpec{
		Name: "total_revenue_per_category",
		File: FileCategoryRevenue,
		Schema: table.Schema{
			Key: ColCategory,
			Columns: []table.Column{
				{Name: ColCategory, Kind: table.KindString},
				{Name: ColTotalRevenue, Kind: table.KindFloat},
			},
		},
	}
)

// Dataset is the four loaded exports.
type Dataset struct {
	Orders          *table.Table
	OrdersCustomers *table.Table
	PaymentTypes    *table.Table
	CategoryRevenue *table.Table
}

// LoadDir reads the four exports from dir. ctx is checked between files.
func LoadDir(ctx context.Context, dir string) (*Dataset, error) {
	var ds Dataset
	targets := []struct {
		spec TableSpec
		dst  **table.Table
	}{
		{OrdersSpec, &ds.Orders},
		{OrdersCustomersSpec, &ds.OrdersCustomers},
		{PaymentTypesSpec, &ds.PaymentTypes},
		{CategoryRevenueSpec, &ds.CategoryRevenue},
	}
	for _, tgt := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, err := LoadFile(filepath.Join(dir, tgt.spec.File), tgt.spec)
		if err != nil {
			return nil, err
		}
		*tgt.dst = t
	}
	return &ds, nil
}

// LoadFile opens path and loads it with spec.
func LoadFile(path string, spec TableSpec) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", spec.Name, err)
	}
	defer f.Close()
	t, err := Load(f, spec)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return t, nil
}

// Load parses a CSV stream with a header row. Columns are matched by header
// name; columns not in the schema are ignored.
func Load(r io.Reader, spec TableSpec) (*table.Table, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: missing header row: %w", spec.Name, table.ErrInvalidArgument)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: reading header: %w", spec.Name, err)
	}
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}
	cols := spec.Schema.Columns
	idx := make([]int, len(cols))
	for i, c := range cols {
		p, ok := pos[c.Name]
		if !ok {
			return nil, fmt.Errorf("%s: header has no column %q: %w", spec.Name, c.Name, table.ErrInvalidField)
		}
		idx[i] = p
	}

	keyCol := spec.Schema.Index(spec.Schema.Key)
	seen := make(map[string]bool)
	b := table.NewBuilder(spec.Name, spec.Schema)
	values := make([]any, len(cols))
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", spec.Name, err)
		}
		line, _ := cr.FieldPos(0)
		for i, c := range cols {
			v, err := parseCell(c.Kind, rec[idx[i]])
			if err != nil {
				return nil, fmt.Errorf("%s line %d column %q: %w", spec.Name, line, c.Name, err)
			}
			values[i] = v
		}
		if spec.Dedupe && keyCol >= 0 {
			k := values[keyCol].(string)
			if seen[k] {
				continue
			}
			seen[k] = true
		}
		if err := b.Append(values...); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	return b.Build()
}

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseCell(kind table.Kind, raw string) (any, error) {
	s := strings.TrimSpace(raw)
	switch kind {
	case table.KindString:
		return s, nil
	case table.KindInt:
		// pandas writes integer columns holding NaN as floats, e.g. "12.0".
		s = strings.TrimSuffix(s, ".0")
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer: %w", raw, table.ErrInvalidArgument)
		}
		return n, nil
	case table.KindFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number: %w", raw, table.ErrInvalidArgument)
		}
		return f, nil
	case table.KindBool:
		switch strings.ToLower(s) {
		case "yes", "y":
			return true, nil
		case "no", "n":
			return false, nil
		}
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("%q is not a boolean: %w", raw, table.ErrInvalidArgument)
		}
		return v, nil
	case table.KindTime:
		return parseTime(s, raw)
	default:
		return nil, fmt.Errorf("unsupported column kind %s: %w", kind, table.ErrInvalidField)
	}
}

func parseTime(s, raw string) (time.Time, error) {
	if s == "" || strings.EqualFold(s, "nat") {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not a timestamp: %w", raw, table.ErrInvalidArgument)
}
