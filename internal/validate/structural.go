// Package validate implements the two-pass query validation described by
// spec §4.2: a structural pass that checks the AST's clauses are
// internally consistent (mixing aggregated and non-aggregated
// selections, referencing undeclared columns, duplicate selections),
// followed by a schema pass that checks every referenced column and
// function argument against the actual source schema.
package validate

import (
	"fmt"

	"github.com/lychee-technology/gviz"
)

// Structural runs the first validation pass against q alone, without
// reference to any source schema. It mirrors the teacher's layered
// validation style (cheap structural checks before anything that needs
// I/O or schema lookups).
func Structural(q *gviz.Query) error {
	hasAgg := q.HasAggregation()
	hasPlainSelection := false
	seen := map[string]bool{}

	for _, c := range q.Selection {
		id := c.ID()
		if seen[id] {
			return gviz.NewInvalidQueryError(gviz.MsgColumnOnlyOnce, "column %q selected more than once", id)
		}
		seen[id] = true
		if !containsAggregationPublic(c) {
			hasPlainSelection = true
		}
	}

	if hasAgg && hasPlainSelection && len(q.Group) == 0 {
		return gviz.NewInvalidQueryError(gviz.MsgSelectWithAndWithoutAgg,
			"selection mixes aggregated and non-aggregated columns without a GROUP BY")
	}

	if hasAgg {
		groupIDs := map[string]bool{}
		for _, g := range q.Group {
			groupIDs[g.ID()] = true
		}
		for _, c := range q.Selection {
			if containsAggregationPublic(c) {
				continue
			}
			if !groupIDs[c.ID()] {
				return gviz.NewInvalidQueryError(gviz.MsgAddColToGroupByOrAgg,
					"non-aggregated selected column %q must appear in GROUP BY", c.ID()).WithColumn(c.ID())
			}
		}
	}

	if len(q.Group) > 0 && !hasAgg {
		return gviz.NewInvalidQueryError(gviz.MsgCannotGroupWithoutAgg, "GROUP BY requires at least one aggregation")
	}
	if len(q.Pivot) > 0 && !hasAgg {
		return gviz.NewInvalidQueryError(gviz.MsgCannotPivotWithoutAgg, "PIVOT requires at least one aggregation")
	}

	if len(q.Pivot) > 0 {
		for _, c := range q.Selection {
			if containsAggregationPublic(c) {
				inGroupOrSelectOnly := false
				_ = inGroupOrSelectOnly
				if !isInPivot(c, q.Pivot) {
					// An aggregated selection is fine alongside a pivot
					// unless the same aggregation also appears in PIVOT.
					continue
				}
				return gviz.NewInvalidQueryError(gviz.MsgAggInSelectNoPivot, "aggregated column %q duplicated by PIVOT", c.ID())
			}
		}
	}

	groupAndPivot := map[string]bool{}
	for _, c := range q.Group {
		groupAndPivot[c.ID()] = true
	}
	for _, c := range q.Pivot {
		if groupAndPivot[c.ID()] {
			return gviz.NewInvalidQueryError(gviz.MsgNoColInGroupAndPivot, "column %q cannot appear in both GROUP BY and PIVOT", c.ID())
		}
	}

	if err := structuralSort(q, hasAgg); err != nil {
		return err
	}
	if err := structuralLabelsAndFormats(q); err != nil {
		return err
	}
	if err := structuralPagination(q); err != nil {
		return err
	}
	return nil
}

func structuralSort(q *gviz.Query, hasAgg bool) error {
	selected := map[string]bool{}
	for _, c := range q.Selection {
		selected[c.ID()] = true
	}
	for _, s := range q.Sort {
		id := s.Column.ID()
		if len(q.Selection) > 0 && !selected[id] {
			return gviz.NewInvalidQueryError(gviz.MsgColInOrderMustBeInSelect, "ORDER BY column %q must appear in SELECT", id)
		}
		if containsAggregationPublic(s.Column) {
			if len(q.Selection) > 0 && !selected[id] {
				return gviz.NewInvalidQueryError(gviz.MsgAggInOrderNotInSelect, "aggregated ORDER BY column %q must appear in SELECT", id)
			}
			if len(q.Pivot) > 0 {
				return gviz.NewInvalidQueryError(gviz.MsgNoAggInOrderWhenPivot, "ORDER BY cannot reference an aggregation when PIVOT is present")
			}
		}
	}
	return nil
}

func structuralLabelsAndFormats(q *gviz.Query) error {
	selected := map[string]bool{}
	for _, c := range q.Selection {
		selected[c.ID()] = true
	}
	if len(q.Selection) == 0 {
		return nil
	}
	for id := range q.Labels {
		if !selected[id] {
			return gviz.NewInvalidQueryError(gviz.MsgLabelColNotInSelect, "LABEL column %q must appear in SELECT", id)
		}
	}
	for id := range q.UserFormatOptions {
		if !selected[id] {
			return gviz.NewInvalidQueryError(gviz.MsgFormatColNotInSelect, "FORMAT column %q must appear in SELECT", id)
		}
	}
	return nil
}

func structuralPagination(q *gviz.Query) error {
	if q.RowOffset < 0 {
		return gviz.NewInvalidQueryError(gviz.MsgInvalidOffset, "offset must be non-negative, got %d", q.RowOffset)
	}
	if q.RowSkipping < 0 {
		return gviz.NewInvalidQueryError(gviz.MsgInvalidSkipping, "skipping must be non-negative, got %d", q.RowSkipping)
	}
	return nil
}

func isInPivot(c gviz.AbstractColumn, pivot []gviz.AbstractColumn) bool {
	agg, ok := c.(gviz.AggregationColumn)
	if !ok {
		return false
	}
	for _, p := range pivot {
		if p.ID() == agg.ID() {
			return true
		}
	}
	return false
}

// containsAggregationPublic duplicates gviz's unexported aggregation walk;
// kept local since the validator needs it before the AST is handed to the
// splitter, and the root package intentionally does not export the
// recursive helper (only the top-level HasAggregation convenience).
func containsAggregationPublic(c gviz.AbstractColumn) bool {
	switch v := c.(type) {
	case gviz.AggregationColumn:
		return true
	case gviz.ScalarFunctionColumn:
		for _, a := range v.Args {
			if containsAggregationPublic(a) {
				return true
			}
		}
	}
	return false
}

// ErrNoColumns is returned when a query selects zero columns and the
// caller requires at least one.
var ErrNoColumns = fmt.Errorf("query selects no columns")
