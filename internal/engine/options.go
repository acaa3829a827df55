package engine

import "github.com/lychee-technology/gviz"

// applyOptions applies the trailing "options ..." clause: no_values
// blanks every cell's Value down to its type's null while preserving
// any FormattedValue already computed, and no_format drops computed
// FormattedValue strings back to the bare Value.
func applyOptions(src *gviz.Table, opts gviz.QueryOptions) *gviz.Table {
	if !opts.NoValues && !opts.NoFormat {
		return src
	}
	out := src.Clone()
	for r := range out.Rows {
		for c := range out.Rows[r].Cells {
			cell := &out.Rows[r].Cells[c]
			if opts.NoValues {
				cell.Value = gviz.Null(out.Columns[c].Type)
			}
			if opts.NoFormat {
				cell.FormattedValue = ""
				cell.HasFormatted = false
			}
		}
	}
	return out
}
