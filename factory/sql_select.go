package factory

import (
	"fmt"
	"strings"

	"github.com/lychee-technology/gviz"
)

// sqlAggFunc maps a gviz aggregation to its SQL aggregate function name.
// Standard SQL's SUM/AVG/MIN/MAX already return NULL over an all-NULL
// input and COUNT(col) already counts only non-NULLs, so no rewriting is
// needed to match the engine's own null semantics.
func sqlAggFunc(agg gviz.AggType) (string, error) {
	switch agg {
	case gviz.AggCount:
		return "COUNT", nil
	case gviz.AggSum:
		return "SUM", nil
	case gviz.AggAvg:
		return "AVG", nil
	case gviz.AggMin:
		return "MIN", nil
	case gviz.AggMax:
		return "MAX", nil
	default:
		return "", gviz.NewUnsupportedOperationError("unknown aggregation %q", agg)
	}
}

// buildSelectList renders selection as a SQL select-list. Only
// SimpleColumn and AggregationColumn-over-SimpleColumn entries are
// supported; split.SplitQuery never hands a SQL-capability provider
// anything richer (scalar functions and constants always stay residual).
func buildSelectList(selection []gviz.AbstractColumn) (string, error) {
	if len(selection) == 0 {
		return "*", nil
	}
	parts := make([]string, len(selection))
	for i, c := range selection {
		switch v := c.(type) {
		case gviz.SimpleColumn:
			parts[i] = quoteIdent(v.ColumnID)
		case gviz.AggregationColumn:
			operand, ok := v.Column.(gviz.SimpleColumn)
			if !ok {
				return "", gviz.NewUnsupportedOperationError("provider can only aggregate plain columns")
			}
			fn, err := sqlAggFunc(v.Type)
			if err != nil {
				return "", err
			}
			parts[i] = fmt.Sprintf("%s(%s) AS %s", fn, quoteIdent(operand.ColumnID), quoteIdent(v.ID()))
		default:
			return "", gviz.NewUnsupportedOperationError("provider only projects plain or aggregated columns")
		}
	}
	return strings.Join(parts, ", "), nil
}

// buildGroupByList renders group's SimpleColumn ids as a GROUP BY list.
func buildGroupByList(group []gviz.AbstractColumn) (string, error) {
	ids := make([]string, len(group))
	for i, c := range group {
		sc, ok := c.(gviz.SimpleColumn)
		if !ok {
			return "", gviz.NewUnsupportedOperationError("provider can only group by plain columns")
		}
		ids[i] = quoteIdent(sc.ColumnID)
	}
	return strings.Join(ids, ", "), nil
}
