package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lychee-technology/gviz"
	"github.com/lychee-technology/gviz/internal/collator"
)

func TestApplyFormatsSetsFormattedValue(t *testing.T) {
	tbl := salesTable(t)
	col := collator.New("en-US")
	out, err := applyFormats(tbl, map[string]string{"amount": "#,##0.00"}, col)
	require.NoError(t, err)
	idx, _ := out.ColumnIndex("amount")
	assert.True(t, out.Rows[0].Cells[idx].HasFormatted)
	assert.Equal(t, "10.00", out.Rows[0].Cells[idx].FormattedValue)
}

func TestApplyOptionsNoFormatClearsFormatted(t *testing.T) {
	tbl := salesTable(t)
	col := collator.New("en-US")
	withFormat, err := applyFormats(tbl, map[string]string{"amount": "#,##0.00"}, col)
	require.NoError(t, err)
	out := applyOptions(withFormat, gviz.QueryOptions{NoFormat: true})
	idx, _ := out.ColumnIndex("amount")
	assert.False(t, out.Rows[0].Cells[idx].HasFormatted)
	assert.Equal(t, "", out.Rows[0].Cells[idx].FormattedValue)
}
