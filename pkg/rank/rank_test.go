package rank

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/shopdash/pkg/table"
)

func metricTable(t *testing.T, name, key, field string, rows map[string]float64, order []string) *table.Table {
	t.Helper()
	b := table.NewBuilder(name, table.Schema{
		Key: key,
		Columns: []table.Column{
			{Name: key, Kind: table.KindString},
			{Name: field, Kind: table.KindFloat},
		},
	})
	for _, k := range order {
		require.NoError(t, b.Append(k, rows[k]))
	}
	tbl, err := b.Build()
	require.NoError(t, err)
	return tbl
}

func paymentTable(t *testing.T) *table.Table {
	t.Helper()
	return metricTable(t, "total_order_by_payment_type", "payment_type", "total_order",
		map[string]float64{"credit_card": 76795, "boleto": 19784, "voucher": 5775, "debit_card": 1529},
		[]string{"credit_card", "boleto", "voucher", "debit_card"})
}

func TestRank_PaymentTypesDescending(t *testing.T) {
	sel, err := Rank(paymentTable(t), "total_order", 5, Descending)
	require.NoError(t, err)

	want := []Item{
		{Key: "credit_card", Value: 76795, Rank: 1, Row: 0, Highlight: true},
		{Key: "boleto", Value: 19784, Rank: 2, Row: 1},
		{Key: "voucher", Value: 5775, Rank: 3, Row: 2},
		{Key: "debit_card", Value: 1529, Rank: 4, Row: 3},
	}
	if diff := cmp.Diff(want, sel.Items); diff != "" {
		t.Errorf("ranked items mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 4, sel.Total)
	assert.Equal(t, Descending, sel.Direction)
}

func TestRank_AscendingTakesBottom(t *testing.T) {
	sel, err := Rank(paymentTable(t), "total_order", 2, Ascending)
	require.NoError(t, err)
	require.Len(t, sel.Items, 2)
	assert.Equal(t, "debit_card", sel.Items[0].Key)
	assert.Equal(t, "voucher", sel.Items[1].Key)
	assert.True(t, sel.Items[0].Highlight)
	assert.False(t, sel.Items[1].Highlight)
}

func TestRank_TiesKeepRowOrder(t *testing.T) {
	tbl := metricTable(t, "ties", "k", "v",
		map[string]float64{"a": 1, "b": 5, "c": 1, "d": 5, "e": 3},
		[]string{"a", "b", "c", "d", "e"})

	desc, err := Rank(tbl, "v", 5, Descending)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "d", "e", "a", "c"}, keys(desc))

	asc, err := Rank(tbl, "v", 5, Ascending)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "e", "b", "d"}, keys(asc))
}

func TestRank_OrderAndLengthProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		size := 1 + rng.Intn(12)
		rows := make(map[string]float64, size)
		order := make([]string, size)
		for i := range order {
			order[i] = fmt.Sprintf("k%02d", i)
			rows[order[i]] = float64(rng.Intn(6))
		}
		tbl := metricTable(t, "random", "k", "v", rows, order)

		for _, dir := range []Direction{Ascending, Descending} {
			n := 1 + rng.Intn(8)
			sel, err := Rank(tbl, "v", n, dir)
			require.NoError(t, err)
			assert.Len(t, sel.Items, min(n, size))
			for i := 1; i < len(sel.Items); i++ {
				prev, cur := sel.Items[i-1], sel.Items[i]
				if dir == Ascending {
					assert.LessOrEqual(t, prev.Value, cur.Value)
				} else {
					assert.GreaterOrEqual(t, prev.Value, cur.Value)
				}
				if prev.Value == cur.Value {
					assert.Less(t, prev.Row, cur.Row, "ties must keep row order")
				}
			}

			again, err := Rank(tbl, "v", n, dir)
			require.NoError(t, err)
			assert.Equal(t, sel, again)
		}
	}
}

func TestExtremaAndRate_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 50; trial++ {
		size := 1 + rng.Intn(12)
		rows := make(map[string]float64, size)
		order := make([]string, size)
		for i := range order {
			order[i] = fmt.Sprintf("k%02d", i)
			rows[order[i]] = float64(rng.Intn(6))
		}
		tbl := metricTable(t, "random", "k", "v", rows, order)

		e, err := FindExtrema(tbl, "v")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, e.Max, e.Min)
		values, err := tbl.Numbers("v")
		require.NoError(t, err)
		assert.Contains(t, values, e.Max)
		assert.Contains(t, values, e.Min)
		assert.Equal(t, e.Max, rows[e.MaxKey])
		assert.Equal(t, e.Min, rows[e.MinKey])

		again, err := FindExtrema(tbl, "v")
		require.NoError(t, err)
		assert.Equal(t, e, again)

		flags := make([]bool, size)
		for i := range flags {
			flags[i] = rng.Intn(2) == 1
		}
		late := lateTable(t, flags...)
		r, err := BooleanRate(late, "is_late")
		require.NoError(t, err)
		assert.Equal(t, r.Total, r.True+r.False())
		assert.Equal(t, size, r.Total)

		rAgain, err := BooleanRate(late, "is_late")
		require.NoError(t, err)
		assert.Equal(t, r, rAgain)
	}
}

func TestRank_LeavesSourceUntouched(t *testing.T) {
	tbl := paymentTable(t)
	_, err := Rank(tbl, "total_order", 5, Ascending)
	require.NoError(t, err)
	assert.Equal(t, []string{"credit_card", "boleto", "voucher", "debit_card"}, tbl.Keys())
}

func TestRank_Errors(t *testing.T) {
	empty := metricTable(t, "empty", "payment_type", "total_order", nil, nil)

	_, err := Rank(empty, "total_order", 5, Descending)
	assert.ErrorIs(t, err, table.ErrInvalidArgument)

	_, err = Rank(paymentTable(t), "total_order", 0, Descending)
	assert.ErrorIs(t, err, table.ErrInvalidArgument)

	_, err = Rank(paymentTable(t), "nonexistent_field", 5, Descending)
	assert.ErrorIs(t, err, table.ErrInvalidField)

	_, err = Rank(paymentTable(t), "payment_type", 5, Descending)
	assert.ErrorIs(t, err, table.ErrInvalidField)

	_, err = Rank(paymentTable(t), "nonexistent_field", 0, Descending)
	assert.ErrorIs(t, err, table.ErrInvalidField, "field is checked before size")
}

func TestFindExtrema(t *testing.T) {
	e, err := FindExtrema(paymentTable(t), "total_order")
	require.NoError(t, err)
	assert.Equal(t, Extrema{Field: "total_order", Max: 76795, MaxKey: "credit_card", Min: 1529, MinKey: "debit_card"}, e)
	assert.GreaterOrEqual(t, e.Max, e.Min)
}

func TestFindExtrema_SingleRecord(t *testing.T) {
	tbl := metricTable(t, "one", "k", "v", map[string]float64{"only": 3}, []string{"only"})
	e, err := FindExtrema(tbl, "v")
	require.NoError(t, err)
	assert.Equal(t, e.Max, e.Min)
	assert.Equal(t, "only", e.MaxKey)
}

func TestFindExtrema_Errors(t *testing.T) {
	_, err := FindExtrema(paymentTable(t), "nonexistent_field")
	assert.ErrorIs(t, err, table.ErrInvalidField)

	empty := metricTable(t, "empty", "payment_type", "total_order", nil, nil)
	_, err = FindExtrema(empty, "total_order")
	assert.ErrorIs(t, err, table.ErrInvalidArgument)
}

func lateTable(t *testing.T, flags ...bool) *table.Table {
	t.Helper()
	b := table.NewBuilder("orders", table.Schema{Columns: []table.Column{{Name: "is_late", Kind: table.KindBool}}})
	for _, f := range flags {
		require.NoError(t, b.Append(f))
	}
	tbl, err := b.Build()
	require.NoError(t, err)
	return tbl
}

func TestBooleanRate_ThreeOfTen(t *testing.T) {
	tbl := lateTable(t, true, false, false, true, false, false, false, true, false, false)
	r, err := BooleanRate(tbl, "is_late")
	require.NoError(t, err)
	assert.Equal(t, 3, r.True)
	assert.Equal(t, 10, r.Total)
	assert.Equal(t, 7, r.False())
	assert.InDelta(t, 30.0, r.Percent, 1e-9)
}

func TestBooleanRate_NumericFlags(t *testing.T) {
	tbl := metricTable(t, "flags", "k", "late", map[string]float64{"a": 1, "b": 0, "c": 2, "d": 0}, []string{"a", "b", "c", "d"})
	r, err := BooleanRate(tbl, "late")
	require.NoError(t, err)
	assert.Equal(t, 2, r.True)
	assert.InDelta(t, 50.0, r.Percent, 1e-9)
}

func TestBooleanRate_Errors(t *testing.T) {
	_, err := BooleanRate(lateTable(t), "is_late")
	assert.ErrorIs(t, err, table.ErrInvalidArgument)

	_, err = BooleanRate(lateTable(t, true), "is_on_time")
	assert.ErrorIs(t, err, table.ErrInvalidField)
}

func TestParseDirection(t *testing.T) {
	for in, want := range map[string]Direction{"asc": Ascending, "Ascending": Ascending, "desc": Descending, " descending ": Descending} {
		got, err := ParseDirection(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseDirection("sideways")
	assert.ErrorIs(t, err, table.ErrInvalidArgument)
}

func keys(sel Selection) []string {
	out := make([]string, len(sel.Items))
	for i, it := range sel.Items {
		out[i] = it.Key
	}
	return out
}
