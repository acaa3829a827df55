package collator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lychee-technology/gviz"
)

func TestFormatNumberRespectsDecimalPattern(t *testing.T) {
	c := New("en-US")
	out, err := c.Format(gviz.Number(3.14159), "#,##0.00")
	require.NoError(t, err)
	assert.Equal(t, "3.14", out)
}

func TestFormatNullIsEmptyString(t *testing.T) {
	c := New("en-US")
	out, err := c.Format(gviz.Null(gviz.TypeNumber), "0.00")
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestFormatDatePattern(t *testing.T) {
	c := New("en-US")
	d, err := gviz.Date(2024, 0, 5)
	require.NoError(t, err)
	out, err := c.Format(d, "yyyy-MM-dd")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05", out)
}

func TestCountDecimalDigits(t *testing.T) {
	assert.Equal(t, 2, countDecimalDigits("#,##0.00"))
	assert.Equal(t, 0, countDecimalDigits("#,##0"))
}
