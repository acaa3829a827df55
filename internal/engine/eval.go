package engine

import (
	"time"

	"github.com/lychee-technology/gviz"
)

// evalColumn evaluates any non-aggregation AbstractColumn against one row
// of src, recursing through scalar functions and passing constants
// through untouched. Aggregation columns have no per-row value and are
// handled separately by the group/pivot stage.
func evalColumn(src *gviz.Table, row int, c gviz.AbstractColumn) (gviz.Value, error) {
	switch v := c.(type) {
	case gviz.SimpleColumn:
		idx, ok := src.ColumnIndex(v.ColumnID)
		if !ok {
			return gviz.Value{}, gviz.NewInvalidQueryError(gviz.MsgNoColumn, "no such column %q", v.ColumnID).WithColumn(v.ColumnID)
		}
		return src.Rows[row].Cells[idx].Value, nil
	case gviz.ConstantColumn:
		return v.Value, nil
	case gviz.ScalarFunctionColumn:
		return evalScalarFunction(src, row, v)
	default:
		return gviz.Value{}, gviz.NewInternalError(nil)
	}
}

func evalScalarFunction(src *gviz.Table, row int, c gviz.ScalarFunctionColumn) (gviz.Value, error) {
	sig, ok := gviz.LookupFunction(c.Function)
	if !ok {
		return gviz.Value{}, gviz.NewUnsupportedOperationError("unknown function %q", c.Function)
	}
	args := make([]gviz.Value, len(c.Args))
	for i, a := range c.Args {
		v, err := evalColumn(src, row, a)
		if err != nil {
			return gviz.Value{}, err
		}
		args[i] = v
	}
	if c.Function == gviz.FuncNow {
		return gviz.DateTimeFromTime(nowFunc())
	}
	return sig.Eval(args)
}

// nowFunc is the injection point for the "now()" scalar function;
// production builds call time.Now().UTC(), tests substitute a fixed clock.
var nowFunc = func() time.Time { return time.Now().UTC() }
