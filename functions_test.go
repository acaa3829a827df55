package gviz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupFunctionUnknown(t *testing.T) {
	_, ok := LookupFunction("nope")
	assert.False(t, ok)
}

func TestYearMonthDayExtraction(t *testing.T) {
	d, err := Date(2024, 5, 17)
	require.NoError(t, err)

	sig, ok := LookupFunction(FuncYear)
	require.True(t, ok)
	v, err := sig.Eval([]Value{d})
	require.NoError(t, err)
	assert.Equal(t, float64(2024), v.AsNumber())

	sig, ok = LookupFunction(FuncMonth)
	require.True(t, ok)
	v, err = sig.Eval([]Value{d})
	require.NoError(t, err)
	assert.Equal(t, float64(5), v.AsNumber())

	sig, ok = LookupFunction(FuncDay)
	require.True(t, ok)
	v, err = sig.Eval([]Value{d})
	require.NoError(t, err)
	assert.Equal(t, float64(17), v.AsNumber())
}

func TestQuarterFromMonth(t *testing.T) {
	d, err := Date(2024, 9, 1)
	require.NoError(t, err)
	sig, _ := LookupFunction(FuncQuarter)
	v, err := sig.Eval([]Value{d})
	require.NoError(t, err)
	assert.Equal(t, float64(4), v.AsNumber())
}

func TestQuotientByZeroIsNull(t *testing.T) {
	sig, _ := LookupFunction(FuncQuotient)
	v, err := sig.Eval([]Value{Number(10), Number(0)})
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestQuotientNormal(t *testing.T) {
	sig, _ := LookupFunction(FuncQuotient)
	v, err := sig.Eval([]Value{Number(10), Number(4)})
	require.NoError(t, err)
	assert.Equal(t, float64(2.5), v.AsNumber())
}

func TestSumVariadicSkipsNulls(t *testing.T) {
	sig, _ := LookupFunction(FuncSum)
	v, err := sig.Eval([]Value{Number(1), Null(TypeNumber), Number(2)})
	require.NoError(t, err)
	assert.Equal(t, float64(3), v.AsNumber())
}

func TestProductVariadic(t *testing.T) {
	sig, _ := LookupFunction(FuncProduct)
	v, err := sig.Eval([]Value{Number(2), Number(3), Number(4)})
	require.NoError(t, err)
	assert.Equal(t, float64(24), v.AsNumber())
}

func TestConcatVariadic(t *testing.T) {
	sig, _ := LookupFunction(FuncConcat)
	v, err := sig.Eval([]Value{Text("a"), Text("b"), Null(TypeText), Text("c")})
	require.NoError(t, err)
	assert.Equal(t, "abc", v.AsText())
}

func TestDatediff(t *testing.T) {
	d1, err := Date(2024, 0, 10)
	require.NoError(t, err)
	d2, err := Date(2024, 0, 1)
	require.NoError(t, err)
	sig, _ := LookupFunction(FuncDatediff)
	v, err := sig.Eval([]Value{d1, d2})
	require.NoError(t, err)
	assert.Equal(t, float64(9), v.AsNumber())
}

func TestLowerUpper(t *testing.T) {
	lower, _ := LookupFunction(FuncLower)
	v, err := lower.Eval([]Value{Text("HeLLo")})
	require.NoError(t, err)
	assert.Equal(t, "hello", v.AsText())

	upper, _ := LookupFunction(FuncUpper)
	v, err = upper.Eval([]Value{Text("HeLLo")})
	require.NoError(t, err)
	assert.Equal(t, "HELLO", v.AsText())
}

func TestDayOfWeekKnownDate(t *testing.T) {
	// 2024-01-01 is a Monday.
	assert.Equal(t, 1, dayOfWeek(2024, 0, 1))
}

func TestToDateFromMillisRoundTrips(t *testing.T) {
	d, err := Date(2024, 5, 17)
	require.NoError(t, err)
	days := dateToEpochDay(d)
	got, err := toDateFromMillis(float64(days * 86400000))
	require.NoError(t, err)
	assert.True(t, Equals(d, got))
}
