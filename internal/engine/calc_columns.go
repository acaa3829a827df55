package engine

import "github.com/lychee-technology/gviz"

// applyCalculatedColumns materializes every ScalarFunctionColumn/
// ConstantColumn in selection as an actual column on a fresh Table,
// leaving SimpleColumn entries untouched (they already exist on src).
// This stage only runs when there is no GROUP BY/PIVOT, since those
// stages materialize their own aggregation/pivot columns directly.
func applyCalculatedColumns(src *gviz.Table, selection []gviz.AbstractColumn) (*gviz.Table, error) {
	out := src.Clone()
	for _, c := range selection {
		switch v := c.(type) {
		case gviz.ScalarFunctionColumn, gviz.ConstantColumn:
			if _, exists := out.ColumnIndex(c.ID()); exists {
				continue
			}
			sig, retType, err := calcColumnType(v)
			if err != nil {
				return nil, err
			}
			if err := out.AddColumn(gviz.ColumnDescription{ID: c.ID(), Type: retType, Label: c.ID()}); err != nil {
				return nil, err
			}
			_ = sig
			colIdx := len(out.Columns) - 1
			for i := range out.Rows {
				val, err := evalColumn(src, i, c)
				if err != nil {
					return nil, err
				}
				cells := make([]gviz.Cell, colIdx+1)
				copy(cells, out.Rows[i].Cells)
				cells[colIdx] = gviz.Cell{Value: val}
				out.Rows[i] = gviz.Row{Cells: cells, CustomProperties: out.Rows[i].CustomProperties}
			}
		}
	}
	return out, nil
}

func calcColumnType(c gviz.AbstractColumn) (gviz.FunctionSignature, gviz.ValueType, error) {
	switch v := c.(type) {
	case gviz.ConstantColumn:
		return gviz.FunctionSignature{}, v.Value.Type(), nil
	case gviz.ScalarFunctionColumn:
		sig, ok := gviz.LookupFunction(v.Function)
		if !ok {
			return gviz.FunctionSignature{}, 0, gviz.NewUnsupportedOperationError("unknown function %q", v.Function)
		}
		argTypes := make([]gviz.ValueType, len(v.Args))
		for i, a := range v.Args {
			_, t, err := calcColumnTypeOf(a)
			if err != nil {
				return gviz.FunctionSignature{}, 0, err
			}
			argTypes[i] = t
		}
		t, err := sig.Returns(argTypes)
		return sig, t, err
	default:
		return gviz.FunctionSignature{}, 0, gviz.NewInternalError(nil)
	}
}

// calcColumnTypeOf reports an argument's ValueType for the purpose of
// picking a function's return type. Every catalog function's Returns is
// fixed regardless of argument type, so a SimpleColumn argument (whose
// real type lives on the source schema, not the AST) never needs to be
// resolved precisely here.
func calcColumnTypeOf(c gviz.AbstractColumn) (gviz.FunctionSignature, gviz.ValueType, error) {
	if _, ok := c.(gviz.SimpleColumn); ok {
		return gviz.FunctionSignature{}, gviz.TypeText, nil
	}
	return calcColumnType(c)
}
