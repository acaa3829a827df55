package gviz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixedZone() (time.Time, error) {
	loc := time.FixedZone("EST", -5*3600)
	return time.Date(2024, time.January, 1, 0, 0, 0, 0, loc), nil
}

func TestNullHashesToZero(t *testing.T) {
	assert.Equal(t, uint64(0), Hash(Null(TypeNumber)))
	assert.Equal(t, uint64(0), Hash(Null(TypeText)))
}

func TestCompareNullSortsBelowNonNull(t *testing.T) {
	c, err := Compare(Null(TypeNumber), Number(1))
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = Compare(Number(1), Null(TypeNumber))
	require.NoError(t, err)
	assert.Equal(t, 1, c)
}

func TestCompareCrossTypeIsError(t *testing.T) {
	_, err := Compare(Number(1), Text("1"))
	var mismatch *ErrTypeMismatch
	assert.ErrorAs(t, err, &mismatch)
}

func TestEmptyTextIsNull(t *testing.T) {
	assert.True(t, Text("").IsNull())
	assert.False(t, Text("a").IsNull())
}

func TestDateRejectsOutOfRangeMonth(t *testing.T) {
	_, err := Date(2024, 12, 1)
	assert.Error(t, err)
}

func TestDateFromTimeRejectsNonUTC(t *testing.T) {
	loc, err := loadFixedZone()
	require.NoError(t, err)
	_, err = DateFromTime(loc)
	assert.ErrorIs(t, err, ErrNonGMT)
}

func TestQueryLiteralRoundTrip(t *testing.T) {
	cases := []Value{
		Text("hello"),
		Number(3.5),
		Bool(true),
	}
	for _, v := range cases {
		lit, err := v.QueryLiteral()
		require.NoError(t, err)
		got, err := ParseQueryLiteral(v.Type(), lit)
		require.NoError(t, err)
		assert.True(t, Equals(v, got))
	}

	d, err := Date(2024, 0, 15)
	require.NoError(t, err)
	lit, err := d.QueryLiteral()
	require.NoError(t, err)
	got, err := ParseQueryLiteral(TypeDate, lit)
	require.NoError(t, err)
	assert.True(t, Equals(d, got))
}

func TestQueryLiteralRoundTripDateTimeWithMilliseconds(t *testing.T) {
	dt, err := DateTime(2024, 0, 15, 13, 45, 6, 789)
	require.NoError(t, err)
	lit, err := dt.QueryLiteral()
	require.NoError(t, err)
	assert.Equal(t, "datetime '2024-01-15 13:45:06.789'", lit)
	got, err := ParseQueryLiteral(TypeDateTime, lit)
	require.NoError(t, err)
	assert.True(t, Equals(dt, got))
}

func TestQueryLiteralRoundTripTimeOfDayWithMilliseconds(t *testing.T) {
	tod, err := TimeOfDay(13, 45, 6, 789)
	require.NoError(t, err)
	lit, err := tod.QueryLiteral()
	require.NoError(t, err)
	assert.Equal(t, "timeofday '13:45:06.789'", lit)
	got, err := ParseQueryLiteral(TypeTimeOfDay, lit)
	require.NoError(t, err)
	assert.True(t, Equals(tod, got))
}

func TestQueryLiteralOnNullIsError(t *testing.T) {
	_, err := Null(TypeText).QueryLiteral()
	assert.Error(t, err)
}
