package engine

import "github.com/lychee-technology/gviz"

// applySkip applies the "skipping" clause: skipping=n keeps rows 0, n,
// 2n, ... (every nth row) and drops the rest; skipping of 0 or 1 keeps
// every row.
func applySkip(src *gviz.Table, skipping int) *gviz.Table {
	if skipping <= 1 {
		return src
	}
	out := src.Clone()
	kept := out.Rows[:0]
	for i, r := range out.Rows {
		if i%skipping == 0 {
			kept = append(kept, r)
		}
	}
	out.Rows = kept
	return out
}

// applyOffsetLimit slices rows starting at offset, capped at limit rows
// (0 meaning unbounded).
func applyOffsetLimit(src *gviz.Table, offset, limit int) *gviz.Table {
	if offset <= 0 && limit <= 0 {
		return src
	}
	out := src.Clone()
	if offset > len(out.Rows) {
		out.Rows = nil
		return out
	}
	rows := out.Rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	out.Rows = rows
	return out
}
