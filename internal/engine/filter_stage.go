package engine

import "github.com/lychee-technology/gviz"

// applyFilter keeps only the rows of src for which f evaluates true,
// building a fresh Table with the same column set.
func applyFilter(src *gviz.Table, f gviz.Filter) (*gviz.Table, error) {
	out := gviz.NewTable(src.Locale)
	for _, c := range src.Columns {
		if err := out.AddColumn(c); err != nil {
			return nil, err
		}
	}
	for i, row := range src.Rows {
		ok, err := f.Evaluate(src, i)
		if err != nil {
			return nil, err
		}
		if ok {
			if err := out.AddRow(row); err != nil {
				return nil, err
			}
		}
	}
	out.Warnings = src.Warnings
	return out, nil
}
