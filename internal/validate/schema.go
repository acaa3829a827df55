package validate

import (
	"github.com/lychee-technology/gviz"
)

// Schema runs the second validation pass: every source column id that the
// selection, filter, group, pivot, and sort clauses reference must exist
// in cols (exact, case-sensitive match), SUM and AVG must be applied to
// NUMBER columns, and GROUP BY/PIVOT must not contain an aggregation.
// Label and format keys are not looked up here, and scalar function
// argument types are not checked.
func Schema(q *gviz.Query, cols []gviz.ColumnDescription) error {
	index := make(map[string]gviz.ColumnDescription, len(cols))
	for _, c := range cols {
		index[c.ID] = c
	}

	lookup := func(id string) (gviz.ColumnDescription, error) {
		c, ok := index[id]
		if !ok {
			return gviz.ColumnDescription{}, gviz.NewInvalidQueryError(gviz.MsgNoColumn, "no such column %q", id).WithColumn(id)
		}
		return c, nil
	}

	checkColumn := func(c gviz.AbstractColumn) error {
		for _, id := range gviz.SourceColumns(c) {
			if _, err := lookup(id); err != nil {
				return err
			}
		}
		return nil
	}

	for _, c := range q.Selection {
		if err := checkColumn(c); err != nil {
			return err
		}
		if err := checkAggregationType(c, index); err != nil {
			return err
		}
	}
	if q.Filter != nil {
		for _, id := range q.Filter.Columns() {
			if _, err := lookup(id); err != nil {
				return err
			}
		}
		if err := checkFilterColumns(q.Filter); err != nil {
			return err
		}
	}
	for _, c := range q.Group {
		if err := checkColumn(c); err != nil {
			return err
		}
		if containsAggregationPublic(c) {
			return gviz.NewInvalidQueryError(gviz.MsgCannotBeInGroupBy, "aggregation %q cannot appear in GROUP BY", c.ID())
		}
	}
	for _, c := range q.Pivot {
		if err := checkColumn(c); err != nil {
			return err
		}
		if containsAggregationPublic(c) {
			return gviz.NewInvalidQueryError(gviz.MsgCannotBeInPivot, "aggregation %q cannot appear in PIVOT", c.ID())
		}
	}
	for _, s := range q.Sort {
		if err := checkColumn(s.Column); err != nil {
			return err
		}
	}
	return nil
}

func checkFilterColumns(f gviz.Filter) error {
	// Presence is already checked by the caller via f.Columns(); this
	// hook exists for future type-compatibility checks between
	// ColumnColumn operands, grounded on the teacher's schema-level
	// type checks in jsonschema.go.
	if cc, ok := f.(gviz.ColumnColumn); ok {
		_ = cc
	}
	if comp, ok := f.(gviz.CompoundFilter); ok {
		for _, child := range comp.Children {
			if err := checkFilterColumns(child); err != nil {
				return err
			}
		}
	}
	if neg, ok := f.(gviz.NegationFilter); ok {
		return checkFilterColumns(neg.Child)
	}
	return nil
}

func checkAggregationType(c gviz.AbstractColumn, index map[string]gviz.ColumnDescription) error {
	agg, ok := c.(gviz.AggregationColumn)
	if !ok {
		if sf, ok := c.(gviz.ScalarFunctionColumn); ok {
			for _, a := range sf.Args {
				if err := checkAggregationType(a, index); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if agg.Type == gviz.AggCount {
		return nil
	}
	simple, ok := agg.Column.(gviz.SimpleColumn)
	if !ok {
		return nil
	}
	col, ok := index[simple.ColumnID]
	if !ok {
		return gviz.NewInvalidQueryError(gviz.MsgNoColumn, "no such column %q", simple.ColumnID).WithColumn(simple.ColumnID)
	}
	if (agg.Type == gviz.AggSum || agg.Type == gviz.AggAvg) && col.Type != gviz.TypeNumber {
		return gviz.NewInvalidQueryError(gviz.MsgAvgSumOnlyNumeric, "%s can only be applied to NUMBER columns, %q is %s", agg.Type, col.ID, col.Type).WithColumn(col.ID)
	}
	switch agg.Type {
	case gviz.AggCount, gviz.AggSum, gviz.AggAvg, gviz.AggMin, gviz.AggMax:
	default:
		return gviz.NewInvalidQueryError(gviz.MsgInvalidAggType, "unknown aggregation type %q", agg.Type)
	}
	return nil
}
