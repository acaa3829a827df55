package factory

import (
	"context"
	"encoding/csv"
	"os"
	"strconv"

	"github.com/lychee-technology/gviz"
)

// CSVProvider reads a local CSV file directly into memory. It declares
// CapabilitySelect, but Generate ignores the query and always returns
// every column of the file; narrowing to the selection, filtering,
// sorting, and aggregation are all finished by the in-process engine.
// A column is typed NUMBER when every non-empty value in it parses as a
// number, and TEXT otherwise. No third-party CSV
// library appears anywhere in the pack's dependency surface; this is
// exactly the kind of parsing concern the ecosystem itself leaves to
// encoding/csv.
type CSVProvider struct {
	Path string
}

func NewCSVProvider(path string) *CSVProvider {
	return &CSVProvider{Path: path}
}

func (p *CSVProvider) Capabilities(ctx context.Context) gviz.Capability {
	return gviz.CapabilitySelect
}

func (p *CSVProvider) Describe(ctx context.Context) ([]gviz.ColumnDescription, error) {
	t, err := p.readAll("")
	if err != nil {
		return nil, err
	}
	return t.Columns, nil
}

func (p *CSVProvider) Generate(ctx context.Context, q *gviz.Query, reqCtx gviz.RequestContext) (*gviz.Table, error) {
	return p.readAll(reqCtx.Locale)
}

func (p *CSVProvider) readAll(locale string) (*gviz.Table, error) {
	f, err := os.Open(p.Path)
	if err != nil {
		return nil, gviz.NewInternalError(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, gviz.NewInternalError(err)
	}
	records, err := r.ReadAll()
	if err != nil {
		return nil, gviz.NewInternalError(err)
	}

	types := sniffTypes(header, records)
	t := gviz.NewTable(locale)
	for i, name := range header {
		if err := t.AddColumn(gviz.ColumnDescription{ID: name, Type: types[i], Label: name}); err != nil {
			return nil, err
		}
	}
	for _, rec := range records {
		cells := make([]gviz.Cell, len(header))
		for i, raw := range rec {
			cells[i] = gviz.Cell{Value: parseCSVCell(types[i], raw)}
		}
		if err := t.AddRow(gviz.Row{Cells: cells}); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func sniffTypes(header []string, records [][]string) []gviz.ValueType {
	types := make([]gviz.ValueType, len(header))
	for i := range header {
		types[i] = gviz.TypeNumber
	}
	for _, rec := range records {
		for i, raw := range rec {
			if i >= len(types) {
				continue
			}
			if raw == "" {
				continue
			}
			if _, err := strconv.ParseFloat(raw, 64); err != nil {
				types[i] = gviz.TypeText
			}
		}
	}
	return types
}

func parseCSVCell(t gviz.ValueType, raw string) gviz.Value {
	if raw == "" {
		return gviz.Null(t)
	}
	switch t {
	case gviz.TypeNumber:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return gviz.Text(raw)
		}
		return gviz.Number(f)
	default:
		return gviz.Text(raw)
	}
}
