package engine

import (
	"sort"

	"github.com/lychee-technology/gviz"
	"github.com/lychee-technology/gviz/internal/collator"
)

// applySort reorders src's rows by the ORDER BY keys, stably, using col
// for locale-aware TEXT comparison.
func applySort(src *gviz.Table, keys []gviz.SortSpec, col *collator.Collator) (*gviz.Table, error) {
	out := src.Clone()
	var sortErr error
	sort.SliceStable(out.Rows, func(i, j int) bool {
		for _, k := range keys {
			a, err := sortKeyValue(out, i, k.Column)
			if err != nil {
				sortErr = err
				return false
			}
			b, err := sortKeyValue(out, j, k.Column)
			if err != nil {
				sortErr = err
				return false
			}
			c, err := col.Compare(a, b)
			if err != nil {
				sortErr = err
				return false
			}
			if c == 0 {
				continue
			}
			if k.Order == gviz.Descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return out, nil
}

func sortKeyValue(t *gviz.Table, row int, c gviz.AbstractColumn) (gviz.Value, error) {
	if idx, ok := t.ColumnIndex(c.ID()); ok {
		return t.Rows[row].Cells[idx].Value, nil
	}
	return evalColumn(t, row, c)
}
