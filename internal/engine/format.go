package engine

import (
	"github.com/lychee-technology/gviz"
	"github.com/lychee-technology/gviz/internal/collator"
)

// applyFormats renders a FormattedValue onto every cell of every column
// named by patterns, via the FORMAT clause. A pattern that fails to
// parse for a given value downgrades to a warning rather than failing
// the whole query, matching spec §6's graceful-degradation rule.
func applyFormats(src *gviz.Table, patterns map[string]string, col *collator.Collator) (*gviz.Table, error) {
	out := src.Clone()
	for colID, pattern := range patterns {
		idx, ok := out.ColumnIndex(colID)
		if !ok {
			continue
		}
		out.Columns[idx].Pattern = pattern
		for r := range out.Rows {
			formatted, err := col.Format(out.Rows[r].Cells[idx].Value, pattern)
			if err != nil {
				out.AddWarning(gviz.ReasonIllegalFormattingPatterns, err.Error())
				continue
			}
			out.Rows[r].Cells[idx].FormattedValue = formatted
			out.Rows[r].Cells[idx].HasFormatted = true
		}
	}
	return out, nil
}
