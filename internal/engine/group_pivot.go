package engine

import (
	"sort"
	"strconv"
	"strings"

	"github.com/lychee-technology/gviz"
	"github.com/lychee-technology/gviz/internal/collator"
)

// groupAndPivot folds src's rows into one row per distinct group key,
// fanning pivot columns out across the distinct pivot key values seen,
// and evaluates every AggregationColumn named in selection per
// (group key, pivot key) bucket.
//
// precomputed names the AggregationColumn.ID()s a provider has already
// aggregated (one row per (group, pivot) key, aliased under that same
// id) as part of a SQL group+pivot pushdown. For those columns,
// groupAndPivot only transposes: it reads the precomputed value straight
// off that column and folds it with MIN, which is exact because each
// bucket it folds over holds exactly one input row. nil means nothing
// was precomputed, the common case.
func groupAndPivot(src *gviz.Table, group, pivot, selection []gviz.AbstractColumn, col *collator.Collator, precomputed map[string]bool) (*gviz.Table, error) {
	aggCols := collectAggregations(selection)
	if len(aggCols) == 0 {
		// A GROUP BY with no aggregation in the selection still collapses
		// to distinct group-key rows.
		aggCols = nil
	}

	type bucketKey struct {
		group string
		pivot string
	}

	aggOperandTypes := make(map[string]gviz.ValueType, len(aggCols))
	for _, ac := range aggCols {
		operandCol := ac.Column
		if precomputed[ac.ID()] {
			operandCol = gviz.SimpleColumn{ColumnID: ac.ID()}
		}
		t, err := columnType(src, operandCol)
		if err != nil {
			return nil, err
		}
		aggOperandTypes[ac.ID()] = t
	}

	groupKeys := map[string][]gviz.Value{}
	groupOrder := []string{}
	pivotKeys := map[string][]gviz.Value{}
	pivotOrder := []string{}
	buckets := map[bucketKey]map[string]accumulator{}

	for i := range src.Rows {
		gKeyVals, err := evalTuple(src, i, group)
		if err != nil {
			return nil, err
		}
		gKey := tupleKey(gKeyVals)
		if _, ok := groupKeys[gKey]; !ok {
			groupKeys[gKey] = gKeyVals
			groupOrder = append(groupOrder, gKey)
		}

		pKey := ""
		var pKeyVals []gviz.Value
		if len(pivot) > 0 {
			pKeyVals, err = evalTuple(src, i, pivot)
			if err != nil {
				return nil, err
			}
			pKey = tupleKey(pKeyVals)
			if _, ok := pivotKeys[pKey]; !ok {
				pivotKeys[pKey] = pKeyVals
				pivotOrder = append(pivotOrder, pKey)
			}
		}

		bk := bucketKey{group: gKey, pivot: pKey}
		bucket, ok := buckets[bk]
		if !ok {
			bucket = map[string]accumulator{}
			for _, ac := range aggCols {
				if precomputed[ac.ID()] {
					bucket[ac.ID()] = &extremeAcc{wantMax: false, typ: aggOperandTypes[ac.ID()]}
				} else {
					bucket[ac.ID()] = newAccumulator(ac.Type, aggOperandTypes[ac.ID()])
				}
			}
			buckets[bk] = bucket
		}
		for _, ac := range aggCols {
			val, err := evalAggArg(src, i, ac, precomputed)
			if err != nil {
				return nil, err
			}
			bucket[ac.ID()].add(val)
		}
	}

	sortKeys(groupOrder, groupKeys, col)
	sortKeys(pivotOrder, pivotKeys, col)

	out := gviz.NewTable(src.Locale)
	for _, g := range group {
		t, err := columnType(src, g)
		if err != nil {
			return nil, err
		}
		if err := out.AddColumn(gviz.ColumnDescription{ID: g.ID(), Type: t, Label: g.ID()}); err != nil {
			return nil, err
		}
	}

	if len(pivot) > 0 {
		for _, pKey := range pivotOrder {
			prefix := pivotLabel(pivotKeys[pKey])
			for _, ac := range aggCols {
				id := prefix + "-" + ac.ID()
				label := prefix
				if len(aggCols) > 1 {
					label = prefix + " " + ac.ID()
				}
				colType := aggResultType(ac.Type, aggOperandTypes[ac.ID()])
				if err := out.AddColumn(gviz.ColumnDescription{ID: id, Type: colType, Label: label}); err != nil {
					return nil, err
				}
			}
		}
	} else {
		for _, ac := range aggCols {
			colType := aggResultType(ac.Type, aggOperandTypes[ac.ID()])
			if err := out.AddColumn(gviz.ColumnDescription{ID: ac.ID(), Type: colType, Label: ac.ID()}); err != nil {
				return nil, err
			}
		}
	}

	for _, gKey := range groupOrder {
		cells := make([]gviz.Cell, 0, out.NumColumns())
		for _, v := range groupKeys[gKey] {
			cells = append(cells, gviz.Cell{Value: v})
		}
		if len(pivot) > 0 {
			for _, pKey := range pivotOrder {
				bucket, ok := buckets[bucketKey{group: gKey, pivot: pKey}]
				for _, ac := range aggCols {
					if !ok {
						cells = append(cells, gviz.Cell{Value: gviz.Null(aggResultType(ac.Type, aggOperandTypes[ac.ID()]))})
						continue
					}
					cells = append(cells, gviz.Cell{Value: bucket[ac.ID()].result()})
				}
			}
		} else {
			bucket := buckets[bucketKey{group: gKey}]
			for _, ac := range aggCols {
				cells = append(cells, gviz.Cell{Value: bucket[ac.ID()].result()})
			}
		}
		if err := out.AddRow(gviz.Row{Cells: cells}); err != nil {
			return nil, err
		}
	}

	out.Warnings = src.Warnings
	return out, nil
}

func collectAggregations(selection []gviz.AbstractColumn) []gviz.AggregationColumn {
	var out []gviz.AggregationColumn
	seen := map[string]bool{}
	var walk func(gviz.AbstractColumn)
	walk = func(c gviz.AbstractColumn) {
		switch v := c.(type) {
		case gviz.AggregationColumn:
			if !seen[v.ID()] {
				seen[v.ID()] = true
				out = append(out, v)
			}
		case gviz.ScalarFunctionColumn:
			for _, a := range v.Args {
				walk(a)
			}
		}
	}
	for _, c := range selection {
		walk(c)
	}
	return out
}

func evalAggArg(src *gviz.Table, row int, ac gviz.AggregationColumn, precomputed map[string]bool) (gviz.Value, error) {
	if precomputed[ac.ID()] {
		return evalColumn(src, row, gviz.SimpleColumn{ColumnID: ac.ID()})
	}
	return evalColumn(src, row, ac.Column)
}

func evalTuple(src *gviz.Table, row int, cols []gviz.AbstractColumn) ([]gviz.Value, error) {
	out := make([]gviz.Value, len(cols))
	for i, c := range cols {
		v, err := evalColumn(src, row, c)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func tupleKey(vals []gviz.Value) string {
	var sb strings.Builder
	for _, v := range vals {
		if v.IsNull() {
			sb.WriteString("\x00null\x1f")
			continue
		}
		lit, err := v.QueryLiteral()
		if err != nil {
			lit = strconv.Itoa(int(gviz.Hash(v)))
		}
		sb.WriteString(lit)
		sb.WriteByte(0x1f)
	}
	return sb.String()
}

func pivotLabel(vals []gviz.Value) string {
	var parts []string
	for _, v := range vals {
		if v.IsNull() {
			parts = append(parts, "null")
			continue
		}
		lit, err := v.QueryLiteral()
		if err != nil {
			lit = ""
		}
		parts = append(parts, lit)
	}
	return strings.Join(parts, ",")
}

// sortKeys orders key (each an opaque tupleKey string) by the tuple's
// values ascending per col, nulls first — consistent with Value.Compare.
func sortKeys(order []string, byKey map[string][]gviz.Value, col *collator.Collator) {
	sort.SliceStable(order, func(i, j int) bool {
		a, b := byKey[order[i]], byKey[order[j]]
		for k := range a {
			if k >= len(b) {
				break
			}
			c, err := col.Compare(a[k], b[k])
			if err != nil || c == 0 {
				continue
			}
			return c < 0
		}
		return false
	})
}

func columnType(src *gviz.Table, c gviz.AbstractColumn) (gviz.ValueType, error) {
	if sc, ok := c.(gviz.SimpleColumn); ok {
		idx, ok := src.ColumnIndex(sc.ColumnID)
		if !ok {
			return 0, gviz.NewInvalidQueryError(gviz.MsgNoColumn, "no such column %q", sc.ColumnID).WithColumn(sc.ColumnID)
		}
		return src.Columns[idx].Type, nil
	}
	return gviz.TypeText, nil
}
