package engine

import "github.com/lychee-technology/gviz"

// project reorders/narrows src down to exactly the columns named by
// selection, in that order. Every id in selection must already exist on
// src by this stage (group/pivot/calculated-columns materialize them
// earlier in the pipeline).
func project(src *gviz.Table, selection []gviz.AbstractColumn) (*gviz.Table, error) {
	indices := make([]int, len(selection))
	for i, c := range selection {
		idx, ok := src.ColumnIndex(c.ID())
		if !ok {
			return nil, gviz.NewInternalError(nil).WithColumn(c.ID())
		}
		indices[i] = idx
	}
	out := gviz.NewTable(src.Locale)
	for _, idx := range indices {
		if err := out.AddColumn(src.Columns[idx]); err != nil {
			return nil, err
		}
	}
	for _, row := range src.Rows {
		cells := make([]gviz.Cell, len(indices))
		for i, idx := range indices {
			cells[i] = row.Cells[idx]
		}
		if err := out.AddRow(gviz.Row{Cells: cells, CustomProperties: row.CustomProperties}); err != nil {
			return nil, err
		}
	}
	out.Warnings = src.Warnings
	return out, nil
}
