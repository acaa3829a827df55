package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lychee-technology/gviz"
	"github.com/lychee-technology/gviz/internal/collator"
)

func TestGroupAndPivotFansOutColumns(t *testing.T) {
	tbl := salesTable(t)
	col := collator.New("en-US")
	selection := []gviz.AbstractColumn{
		gviz.AggregationColumn{Type: gviz.AggSum, Column: gviz.SimpleColumn{ColumnID: "amount"}},
	}
	out, err := groupAndPivot(tbl,
		[]gviz.AbstractColumn{gviz.SimpleColumn{ColumnID: "region"}},
		[]gviz.AbstractColumn{gviz.SimpleColumn{ColumnID: "product"}},
		selection, col, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, out.NumRows())
	// region + 2 pivot values (gadget, widget) x 1 aggregation = 3 columns.
	assert.Equal(t, 3, out.NumColumns())
}

func TestGroupWithoutPivotCollapsesToDistinctKeys(t *testing.T) {
	tbl := salesTable(t)
	col := collator.New("en-US")
	selection := []gviz.AbstractColumn{
		gviz.AggregationColumn{Type: gviz.AggCount, Column: gviz.SimpleColumn{ColumnID: "amount"}},
	}
	out, err := groupAndPivot(tbl,
		[]gviz.AbstractColumn{gviz.SimpleColumn{ColumnID: "region"}},
		nil, selection, col, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, out.NumRows())
	idx, ok := out.ColumnIndex("count-amount")
	require.True(t, ok)
	assert.Equal(t, float64(2), out.Rows[0].Cells[idx].Value.AsNumber())
}

func TestGroupAndPivotSingleAggColumnLabelsByPivotValueOnly(t *testing.T) {
	tbl := gviz.NewTable("en-US")
	require.NoError(t, tbl.AddColumn(gviz.ColumnDescription{ID: "vegetarian", Type: gviz.TypeBoolean}))
	require.NoError(t, tbl.AddColumn(gviz.ColumnDescription{ID: "population", Type: gviz.TypeNumber}))
	require.NoError(t, tbl.AddRowValues(gviz.Bool(false), gviz.Number(100)))
	require.NoError(t, tbl.AddRowValues(gviz.Bool(false), gviz.Number(30)))
	require.NoError(t, tbl.AddRowValues(gviz.Bool(true), gviz.Number(400)))

	col := collator.New("en-US")
	selection := []gviz.AbstractColumn{
		gviz.AggregationColumn{Type: gviz.AggSum, Column: gviz.SimpleColumn{ColumnID: "population"}},
	}
	out, err := groupAndPivot(tbl, nil, []gviz.AbstractColumn{gviz.SimpleColumn{ColumnID: "vegetarian"}}, selection, col, nil)
	require.NoError(t, err)
	require.Equal(t, 2, out.NumColumns())
	require.Equal(t, 1, out.NumRows())

	labels := []string{out.Columns[0].Label, out.Columns[1].Label}
	assert.ElementsMatch(t, []string{"false", "true"}, labels)
	assert.NotContains(t, out.Columns[0].ID, "\x1f")
	assert.NotContains(t, out.Columns[1].ID, "\x1f")
	assert.Equal(t, float64(130), out.Rows[0].Cells[0].Value.AsNumber())
	assert.Equal(t, float64(400), out.Rows[0].Cells[1].Value.AsNumber())
}

func TestGroupAndPivotMultipleAggColumnsIncludeAggIDInLabel(t *testing.T) {
	tbl := salesTable(t)
	col := collator.New("en-US")
	selection := []gviz.AbstractColumn{
		gviz.AggregationColumn{Type: gviz.AggSum, Column: gviz.SimpleColumn{ColumnID: "amount"}},
		gviz.AggregationColumn{Type: gviz.AggCount, Column: gviz.SimpleColumn{ColumnID: "amount"}},
	}
	out, err := groupAndPivot(tbl,
		[]gviz.AbstractColumn{gviz.SimpleColumn{ColumnID: "region"}},
		[]gviz.AbstractColumn{gviz.SimpleColumn{ColumnID: "product"}},
		selection, col, nil)
	require.NoError(t, err)
	for _, c := range out.Columns[1:] {
		assert.Contains(t, c.Label, "-")
	}
}

func TestGroupAndPivotMinMaxPreservesOperandType(t *testing.T) {
	tbl := gviz.NewTable("en-US")
	require.NoError(t, tbl.AddColumn(gviz.ColumnDescription{ID: "region", Type: gviz.TypeText}))
	require.NoError(t, tbl.AddColumn(gviz.ColumnDescription{ID: "name", Type: gviz.TypeText}))
	require.NoError(t, tbl.AddRowValues(gviz.Text("east"), gviz.Text("bob")))
	require.NoError(t, tbl.AddRowValues(gviz.Text("east"), gviz.Text("alice")))

	col := collator.New("en-US")
	selection := []gviz.AbstractColumn{
		gviz.AggregationColumn{Type: gviz.AggMin, Column: gviz.SimpleColumn{ColumnID: "name"}},
	}
	out, err := groupAndPivot(tbl, []gviz.AbstractColumn{gviz.SimpleColumn{ColumnID: "region"}}, nil, selection, col, nil)
	require.NoError(t, err)
	idx, ok := out.ColumnIndex("min-name")
	require.True(t, ok)
	assert.Equal(t, gviz.TypeText, out.Columns[idx].Type)
	assert.Equal(t, "alice", out.Rows[0].Cells[idx].Value.AsText())
}

func TestGroupAndPivotTransposesPrecomputedAggregates(t *testing.T) {
	// Mimics what a SQL provider returns once split.SplitQuery pushes a
	// group+pivot query down: one row per (region, product), already
	// summed, under a column aliased to the AggregationColumn's own id.
	tbl := gviz.NewTable("en-US")
	require.NoError(t, tbl.AddColumn(gviz.ColumnDescription{ID: "region", Type: gviz.TypeText}))
	require.NoError(t, tbl.AddColumn(gviz.ColumnDescription{ID: "vegetarian", Type: gviz.TypeBoolean}))
	require.NoError(t, tbl.AddColumn(gviz.ColumnDescription{ID: "sum-amount", Type: gviz.TypeNumber}))
	require.NoError(t, tbl.AddRowValues(gviz.Text("east"), gviz.Bool(false), gviz.Number(130)))
	require.NoError(t, tbl.AddRowValues(gviz.Text("east"), gviz.Bool(true), gviz.Number(400)))

	col := collator.New("en-US")
	selection := []gviz.AbstractColumn{
		gviz.AggregationColumn{Type: gviz.AggSum, Column: gviz.SimpleColumn{ColumnID: "amount"}},
	}
	out, err := groupAndPivot(tbl,
		[]gviz.AbstractColumn{gviz.SimpleColumn{ColumnID: "region"}},
		[]gviz.AbstractColumn{gviz.SimpleColumn{ColumnID: "vegetarian"}},
		selection, col, map[string]bool{"sum-amount": true})
	require.NoError(t, err)
	require.Equal(t, 1, out.NumRows())
	require.Equal(t, 3, out.NumColumns())

	falseIdx, ok := out.ColumnIndex("false-sum-amount")
	require.True(t, ok)
	trueIdx, ok := out.ColumnIndex("true-sum-amount")
	require.True(t, ok)
	assert.Equal(t, float64(130), out.Rows[0].Cells[falseIdx].Value.AsNumber())
	assert.Equal(t, float64(400), out.Rows[0].Cells[trueIdx].Value.AsNumber())
}

func TestTupleKeyDistinguishesNulls(t *testing.T) {
	k1 := tupleKey([]gviz.Value{gviz.Null(gviz.TypeText)})
	k2 := tupleKey([]gviz.Value{gviz.Text("x")})
	assert.NotEqual(t, k1, k2)
}
