package engine

import "github.com/lychee-technology/gviz"

// accumulator folds a stream of Values into one aggregation result,
// mirroring the teacher's single-concern-per-file style: one small
// struct per aggregation type rather than one switch-heavy function.
type accumulator interface {
	add(v gviz.Value)
	result() gviz.Value
}

// newAccumulator builds the accumulator for agg. operandType is the
// aggregated column's source type; it matters only for MIN/MAX, whose
// result (and whose null-on-empty-input value) carries that type rather
// than NUMBER.
func newAccumulator(agg gviz.AggType, operandType gviz.ValueType) accumulator {
	switch agg {
	case gviz.AggCount:
		return &countAcc{}
	case gviz.AggSum:
		return &sumAcc{}
	case gviz.AggAvg:
		return &avgAcc{}
	case gviz.AggMin:
		return &extremeAcc{wantMax: false, typ: operandType}
	case gviz.AggMax:
		return &extremeAcc{wantMax: true, typ: operandType}
	default:
		return &countAcc{}
	}
}

// aggResultType reports the ValueType of agg's result column when its
// operand is operandType. SUM/AVG/COUNT always produce NUMBER; MIN/MAX
// preserve the operand's type.
func aggResultType(agg gviz.AggType, operandType gviz.ValueType) gviz.ValueType {
	switch agg {
	case gviz.AggMin, gviz.AggMax:
		return operandType
	default:
		return gviz.TypeNumber
	}
}

type countAcc struct{ n int }

func (a *countAcc) add(v gviz.Value) {
	if !v.IsNull() {
		a.n++
	}
}
func (a *countAcc) result() gviz.Value { return gviz.Number(float64(a.n)) }

type sumAcc struct {
	total float64
	any   bool
}

func (a *sumAcc) add(v gviz.Value) {
	if !v.IsNull() {
		a.total += v.AsNumber()
		a.any = true
	}
}
func (a *sumAcc) result() gviz.Value {
	if !a.any {
		return gviz.Null(gviz.TypeNumber)
	}
	return gviz.Number(a.total)
}

type avgAcc struct {
	total float64
	n     int
}

func (a *avgAcc) add(v gviz.Value) {
	if !v.IsNull() {
		a.total += v.AsNumber()
		a.n++
	}
}
func (a *avgAcc) result() gviz.Value {
	if a.n == 0 {
		return gviz.Null(gviz.TypeNumber)
	}
	return gviz.Number(a.total / float64(a.n))
}

type extremeAcc struct {
	wantMax bool
	typ     gviz.ValueType
	val     gviz.Value
	any     bool
}

func (a *extremeAcc) add(v gviz.Value) {
	if v.IsNull() {
		return
	}
	if !a.any {
		a.val = v
		a.any = true
		return
	}
	c, err := gviz.Compare(v, a.val)
	if err != nil {
		return
	}
	if (a.wantMax && c > 0) || (!a.wantMax && c < 0) {
		a.val = v
	}
}
func (a *extremeAcc) result() gviz.Value {
	if !a.any {
		return gviz.Null(a.typ)
	}
	return a.val
}
