package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lychee-technology/gviz"
)

func TestMergeTablesUnionsRows(t *testing.T) {
	a := salesTable(t)
	b := salesTable(t)
	out, err := MergeTables([]*gviz.Table{a, b})
	require.NoError(t, err)
	assert.Equal(t, 8, out.NumRows())
}

func TestMergeTablesRejectsSchemaMismatch(t *testing.T) {
	a := salesTable(t)
	b := gviz.NewTable("en-US")
	require.NoError(t, b.AddColumn(gviz.ColumnDescription{ID: "only", Type: gviz.TypeText}))
	_, err := MergeTables([]*gviz.Table{a, b})
	assert.Error(t, err)
}

func TestMergeTablesEmptyInput(t *testing.T) {
	out, err := MergeTables(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, out.NumColumns())
}
