package engine

import "github.com/lychee-technology/gviz"

// MergeTables unions rows across tables that share the same column
// schema (same ids and types, in order) — the federated-query
// supplement: a query that spans multiple DataProviders executes
// independently against each, and the results are concatenated here
// before the residual pipeline runs once over the combined table.
// Unlike the teacher's tiered merge-on-read, there is no row identity to
// dedup on: a federated gviz source fan-out is a union, not an
// overwrite, so rows from every provider are kept.
func MergeTables(tables []*gviz.Table) (*gviz.Table, error) {
	if len(tables) == 0 {
		return gviz.NewTable(""), nil
	}
	first := tables[0]
	out := gviz.NewTable(first.Locale)
	for _, c := range first.Columns {
		if err := out.AddColumn(c); err != nil {
			return nil, err
		}
	}
	for _, t := range tables {
		if err := assertSameSchema(first, t); err != nil {
			return nil, err
		}
		for _, row := range t.Rows {
			if err := out.AddRow(row); err != nil {
				return nil, err
			}
		}
		out.Warnings = append(out.Warnings, t.Warnings...)
	}
	return out, nil
}

func assertSameSchema(a, b *gviz.Table) error {
	if a.NumColumns() != b.NumColumns() {
		return gviz.NewInternalError(nil).WithColumn("schema mismatch")
	}
	for i, c := range a.Columns {
		if c.ID != b.Columns[i].ID || c.Type != b.Columns[i].Type {
			return gviz.NewInternalError(nil).WithColumn(c.ID)
		}
	}
	return nil
}
