package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lychee-technology/gviz"
)

func TestParseQueryStringEmpty(t *testing.T) {
	q, err := ParseQueryString("")
	require.NoError(t, err)
	assert.Empty(t, q.Selection)
}

func TestParseQueryStringSelectWhereOrderLimit(t *testing.T) {
	q, err := ParseQueryString("select name, age where age > 10 order by age desc limit 5")
	require.NoError(t, err)
	require.Len(t, q.Selection, 2)
	assert.Equal(t, "name", q.Selection[0].ID())
	assert.Equal(t, "age", q.Selection[1].ID())
	require.NotNil(t, q.Filter)
	cv, ok := q.Filter.(gviz.ColumnValue)
	require.True(t, ok)
	assert.Equal(t, gviz.OpGT, cv.Op)
	require.Len(t, q.Sort, 1)
	assert.Equal(t, gviz.Descending, q.Sort[0].Order)
	assert.Equal(t, 5, q.RowLimit)
}

func TestParseQueryStringAggregationAndGroupBy(t *testing.T) {
	q, err := ParseQueryString("select region, sum(amount) group by region")
	require.NoError(t, err)
	require.Len(t, q.Selection, 2)
	agg, ok := q.Selection[1].(gviz.AggregationColumn)
	require.True(t, ok)
	assert.Equal(t, gviz.AggSum, agg.Type)
	require.Len(t, q.Group, 1)
}

func TestParseQueryStringScalarFunction(t *testing.T) {
	q, err := ParseQueryString("select upper(name)")
	require.NoError(t, err)
	fn, ok := q.Selection[0].(gviz.ScalarFunctionColumn)
	require.True(t, ok)
	assert.Equal(t, gviz.FuncUpper, fn.Function)
}

func TestParseQueryStringFilterAndOr(t *testing.T) {
	q, err := ParseQueryString("where age > 10 and name = 'bob' or age < 2")
	require.NoError(t, err)
	or, ok := q.Filter.(gviz.CompoundFilter)
	require.True(t, ok)
	assert.Equal(t, gviz.CompoundOr, or.Op)
	require.Len(t, or.Children, 2)
	and, ok := or.Children[0].(gviz.CompoundFilter)
	require.True(t, ok)
	assert.Equal(t, gviz.CompoundAnd, and.Op)
}

func TestParseQueryStringNotAndParens(t *testing.T) {
	q, err := ParseQueryString("where not (age > 10)")
	require.NoError(t, err)
	neg, ok := q.Filter.(gviz.NegationFilter)
	require.True(t, ok)
	_, ok = neg.Child.(gviz.ColumnValue)
	assert.True(t, ok)
}

func TestParseQueryStringIsNull(t *testing.T) {
	q, err := ParseQueryString("where name is not null")
	require.NoError(t, err)
	isNull, ok := q.Filter.(gviz.ColumnIsNull)
	require.True(t, ok)
	assert.True(t, isNull.Negate)
}

func TestParseQueryStringColumnColumnComparison(t *testing.T) {
	q, err := ParseQueryString("where a = b")
	require.NoError(t, err)
	cc, ok := q.Filter.(gviz.ColumnColumn)
	require.True(t, ok)
	assert.Equal(t, "a", cc.Left)
	assert.Equal(t, "b", cc.Right)
}

func TestParseQueryStringLabelsAndFormatsAndOptions(t *testing.T) {
	q, err := ParseQueryString("select name label name 'Full Name' format name '#,##0' options no_values")
	require.NoError(t, err)
	assert.Equal(t, "Full Name", q.Labels["name"])
	assert.Equal(t, "#,##0", q.UserFormatOptions["name"])
	assert.True(t, q.Options.NoValues)
}

func TestParseQueryStringSkippingAndOffset(t *testing.T) {
	q, err := ParseQueryString("offset 3 skipping 2")
	require.NoError(t, err)
	assert.Equal(t, 3, q.RowOffset)
	assert.Equal(t, 2, q.RowSkipping)
}

func TestParseQueryStringRejectsUnknownToken(t *testing.T) {
	_, err := ParseQueryString("bogus clause")
	assert.Error(t, err)
}

func TestTokenizeHandlesOperatorsAndStrings(t *testing.T) {
	toks, err := tokenize("age >= 10 and name != 'bob'")
	require.NoError(t, err)
	assert.Contains(t, toks, ">=")
	assert.Contains(t, toks, "!=")
	assert.Contains(t, toks, "'bob'")
}

func TestTokenizeRejectsUnterminatedString(t *testing.T) {
	_, err := tokenize("name = 'bob")
	assert.Error(t, err)
}
