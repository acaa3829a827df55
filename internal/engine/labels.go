package engine

import "github.com/lychee-technology/gviz"

// applyLabels overwrites column labels per the LABEL clause. Columns not
// named in labels keep their existing label.
func applyLabels(src *gviz.Table, labels map[string]string) *gviz.Table {
	out := src.Clone()
	for i, c := range out.Columns {
		if label, ok := labels[c.ID]; ok {
			out.Columns[i].Label = label
		}
	}
	return out
}
