package gviz

import (
	"fmt"
	"strings"
)

// FunctionName is the closed set of scalar functions usable inside a
// ScalarFunctionColumn.
type FunctionName string

const (
	FuncNow         FunctionName = "now"
	FuncToDate      FunctionName = "toDate"
	FuncYear        FunctionName = "year"
	FuncMonth       FunctionName = "month"
	FuncDay         FunctionName = "day"
	FuncQuarter     FunctionName = "quarter"
	FuncDayOfWeek   FunctionName = "dayOfWeek"
	FuncHour        FunctionName = "hour"
	FuncMinute      FunctionName = "minute"
	FuncSecond      FunctionName = "second"
	FuncMillisecond FunctionName = "millisecond"
	FuncLower       FunctionName = "lower"
	FuncUpper       FunctionName = "upper"
	FuncDifference  FunctionName = "difference"
	FuncQuotient    FunctionName = "quotient"
	FuncSum         FunctionName = "sum"
	FuncProduct     FunctionName = "product"
	FuncConcat      FunctionName = "concat"
	FuncDatediff    FunctionName = "datediff"
)

// FunctionSignature declares a scalar function's arity, accepted
// argument types, and return type. Variadic functions (sum/product/
// concat) use MaxArgs == -1 to mean "unbounded".
type FunctionSignature struct {
	Name      FunctionName
	MinArgs   int
	MaxArgs   int // -1 means unbounded
	ArgTypes  []ValueType // checked positionally up to len(ArgTypes); remaining args reuse the last entry
	Returns   func(argTypes []ValueType) (ValueType, error)
	Eval      func(args []Value) (Value, error)
}

var functionCatalog = map[FunctionName]FunctionSignature{
	FuncNow: {
		Name: FuncNow, MinArgs: 0, MaxArgs: 0,
		Returns: fixedReturn(TypeDateTime),
		Eval: func(args []Value) (Value, error) {
			return Value{}, fmt.Errorf("now() must be evaluated by the engine clock, not the static catalog")
		},
	},
	FuncToDate: {
		Name: FuncToDate, MinArgs: 1, MaxArgs: 1,
		ArgTypes: []ValueType{TypeNumber},
		Returns:  fixedReturn(TypeDate),
		Eval: func(args []Value) (Value, error) {
			if args[0].IsNull() {
				return Null(TypeDate), nil
			}
			return toDateFromMillis(args[0].AsNumber())
		},
	},
	FuncYear: {
		Name: FuncYear, MinArgs: 1, MaxArgs: 1,
		ArgTypes: []ValueType{TypeDate},
		Returns:  fixedReturn(TypeNumber),
		Eval:     datePartEval(func(y, m, d, h, mi, s, ms int) int { return y }),
	},
	FuncMonth: {
		Name: FuncMonth, MinArgs: 1, MaxArgs: 1,
		ArgTypes: []ValueType{TypeDate},
		Returns:  fixedReturn(TypeNumber),
		Eval:     datePartEval(func(y, m, d, h, mi, s, ms int) int { return m }),
	},
	FuncDay: {
		Name: FuncDay, MinArgs: 1, MaxArgs: 1,
		ArgTypes: []ValueType{TypeDate},
		Returns:  fixedReturn(TypeNumber),
		Eval:     datePartEval(func(y, m, d, h, mi, s, ms int) int { return d }),
	},
	FuncQuarter: {
		Name: FuncQuarter, MinArgs: 1, MaxArgs: 1,
		ArgTypes: []ValueType{TypeDate},
		Returns:  fixedReturn(TypeNumber),
		Eval:     datePartEval(func(y, m, d, h, mi, s, ms int) int { return m/3 + 1 }),
	},
	FuncDayOfWeek: {
		Name: FuncDayOfWeek, MinArgs: 1, MaxArgs: 1,
		ArgTypes: []ValueType{TypeDate},
		Returns:  fixedReturn(TypeNumber),
		Eval: func(args []Value) (Value, error) {
			if args[0].IsNull() {
				return Null(TypeNumber), nil
			}
			y, m, d := args[0].DateParts()
			return Number(float64(dayOfWeek(y, m, d))), nil
		},
	},
	FuncHour: {
		Name: FuncHour, MinArgs: 1, MaxArgs: 1,
		ArgTypes: []ValueType{TypeDateTime},
		Returns:  fixedReturn(TypeNumber),
		Eval:     datePartEval(func(y, m, d, h, mi, s, ms int) int { return h }),
	},
	FuncMinute: {
		Name: FuncMinute, MinArgs: 1, MaxArgs: 1,
		ArgTypes: []ValueType{TypeDateTime},
		Returns:  fixedReturn(TypeNumber),
		Eval:     datePartEval(func(y, m, d, h, mi, s, ms int) int { return mi }),
	},
	FuncSecond: {
		Name: FuncSecond, MinArgs: 1, MaxArgs: 1,
		ArgTypes: []ValueType{TypeDateTime},
		Returns:  fixedReturn(TypeNumber),
		Eval:     datePartEval(func(y, m, d, h, mi, s, ms int) int { return s }),
	},
	FuncMillisecond: {
		Name: FuncMillisecond, MinArgs: 1, MaxArgs: 1,
		ArgTypes: []ValueType{TypeDateTime},
		Returns:  fixedReturn(TypeNumber),
		Eval:     datePartEval(func(y, m, d, h, mi, s, ms int) int { return ms }),
	},
	FuncLower: {
		Name: FuncLower, MinArgs: 1, MaxArgs: 1,
		ArgTypes: []ValueType{TypeText},
		Returns:  fixedReturn(TypeText),
		Eval: func(args []Value) (Value, error) {
			if args[0].IsNull() {
				return Null(TypeText), nil
			}
			return Text(strings.ToLower(args[0].AsText())), nil
		},
	},
	FuncUpper: {
		Name: FuncUpper, MinArgs: 1, MaxArgs: 1,
		ArgTypes: []ValueType{TypeText},
		Returns:  fixedReturn(TypeText),
		Eval: func(args []Value) (Value, error) {
			if args[0].IsNull() {
				return Null(TypeText), nil
			}
			return Text(strings.ToUpper(args[0].AsText())), nil
		},
	},
	FuncDifference: {
		Name: FuncDifference, MinArgs: 2, MaxArgs: 2,
		ArgTypes: []ValueType{TypeNumber, TypeNumber},
		Returns:  fixedReturn(TypeNumber),
		Eval: func(args []Value) (Value, error) {
			if args[0].IsNull() || args[1].IsNull() {
				return Null(TypeNumber), nil
			}
			return Number(args[0].AsNumber() - args[1].AsNumber()), nil
		},
	},
	FuncQuotient: {
		Name: FuncQuotient, MinArgs: 2, MaxArgs: 2,
		ArgTypes: []ValueType{TypeNumber, TypeNumber},
		Returns:  fixedReturn(TypeNumber),
		Eval: func(args []Value) (Value, error) {
			// Division by zero is a runtime null, not an error — this
			// deviates from the original which throws, and keeps column
			// evaluation total over a row set.
			if args[0].IsNull() || args[1].IsNull() || args[1].AsNumber() == 0 {
				return Null(TypeNumber), nil
			}
			return Number(args[0].AsNumber() / args[1].AsNumber()), nil
		},
	},
	FuncSum: {
		Name: FuncSum, MinArgs: 1, MaxArgs: -1,
		ArgTypes: []ValueType{TypeNumber},
		Returns:  fixedReturn(TypeNumber),
		Eval: func(args []Value) (Value, error) {
			total := 0.0
			for _, a := range args {
				if !a.IsNull() {
					total += a.AsNumber()
				}
			}
			return Number(total), nil
		},
	},
	FuncProduct: {
		Name: FuncProduct, MinArgs: 1, MaxArgs: -1,
		ArgTypes: []ValueType{TypeNumber},
		Returns:  fixedReturn(TypeNumber),
		Eval: func(args []Value) (Value, error) {
			total := 1.0
			for _, a := range args {
				if !a.IsNull() {
					total *= a.AsNumber()
				}
			}
			return Number(total), nil
		},
	},
	FuncConcat: {
		Name: FuncConcat, MinArgs: 1, MaxArgs: -1,
		ArgTypes: []ValueType{TypeText},
		Returns:  fixedReturn(TypeText),
		Eval: func(args []Value) (Value, error) {
			var sb strings.Builder
			for _, a := range args {
				if !a.IsNull() {
					sb.WriteString(a.AsText())
				}
			}
			return Text(sb.String()), nil
		},
	},
	FuncDatediff: {
		Name: FuncDatediff, MinArgs: 2, MaxArgs: 2,
		ArgTypes: []ValueType{TypeDate, TypeDate},
		Returns:  fixedReturn(TypeNumber),
		Eval: func(args []Value) (Value, error) {
			if args[0].IsNull() || args[1].IsNull() {
				return Null(TypeNumber), nil
			}
			return Number(float64(dateToEpochDay(args[0]) - dateToEpochDay(args[1]))), nil
		},
	},
}

// LookupFunction returns the signature for name, or false if name is unknown.
func LookupFunction(name FunctionName) (FunctionSignature, bool) {
	sig, ok := functionCatalog[name]
	return sig, ok
}

func fixedReturn(t ValueType) func([]ValueType) (ValueType, error) {
	return func([]ValueType) (ValueType, error) { return t, nil }
}

func datePartEval(part func(y, m, d, h, mi, s, ms int) int) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		if args[0].IsNull() {
			return Null(TypeNumber), nil
		}
		y, m, d := args[0].DateParts()
		h, mi, s, ms := args[0].TimeParts()
		return Number(float64(part(y, m, d, h, mi, s, ms))), nil
	}
}

// dayOfWeek returns 0=Sunday..6=Saturday via Zeller-like civil calendar math.
func dayOfWeek(year, month, day int) int {
	return int((dateToEpochDay1(year, month, day)%7 + 11) % 7)
}

// dateToEpochDay1 computes days since the Unix epoch for a civil date
// (proleptic Gregorian), month 0-based.
func dateToEpochDay1(year, month, day int) int64 {
	y := int64(year)
	m := int64(month) + 1
	d := int64(day)
	if m <= 2 {
		y--
		m += 12
	}
	era := y
	if era < 0 {
		era -= 399
	}
	era /= 400
	yoe := y - era*400
	doy := (153*(m-3)+2)/5 + d - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

func dateToEpochDay(v Value) int64 {
	y, m, d := v.DateParts()
	return dateToEpochDay1(y, m, d)
}

func toDateFromMillis(millis float64) (Value, error) {
	days := int64(millis) / 86400000
	// Inverse of dateToEpochDay1; shift to era-based civil-from-days algorithm.
	z := days + 719468
	era := z
	if z < 0 {
		era -= 146096
	}
	era /= 146097
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d := doy - (153*mp+2)/5 + 1
	var m int64
	if mp < 10 {
		m = mp + 3
	} else {
		m = mp - 9
	}
	if m <= 2 {
		y++
	}
	return Date(int(y), int(m)-1, int(d))
}
