package factory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lychee-technology/gviz"
)

func writeCSVFixture(t *testing.T) string {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	content := "name,age\nalice,30\nbob,25\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVProviderDescribeSniffsTypes(t *testing.T) {
	path := writeCSVFixture(t)
	p := NewCSVProvider(path)
	cols, err := p.Describe(context.Background())
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, gviz.TypeText, cols[0].Type)
	assert.Equal(t, gviz.TypeNumber, cols[1].Type)
}

func TestCSVProviderGenerateReadsAllRows(t *testing.T) {
	path := writeCSVFixture(t)
	p := NewCSVProvider(path)
	tbl, err := p.Generate(context.Background(), &gviz.Query{}, gviz.RequestContext{Locale: "en-US"})
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.NumRows())
}

func TestSniffTypesDowngradesToTextOnAnyUnparsable(t *testing.T) {
	types := sniffTypes([]string{"a"}, [][]string{{"1"}, {"x"}})
	assert.Equal(t, gviz.TypeText, types[0])
}

func TestParseCSVCellEmptyIsNull(t *testing.T) {
	v := parseCSVCell(gviz.TypeNumber, "")
	assert.True(t, v.IsNull())
}

func TestParseCSVCellParsesNumber(t *testing.T) {
	v := parseCSVCell(gviz.TypeNumber, "3.5")
	assert.Equal(t, 3.5, v.AsNumber())
}
