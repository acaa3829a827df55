package collator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lychee-technology/gviz"
)

func TestCompareOrdersTextByLocale(t *testing.T) {
	c := New("en-US")
	n, err := c.Compare(gviz.Text("apple"), gviz.Text("banana"))
	require.NoError(t, err)
	assert.Negative(t, n)
}

func TestCompareFallsBackForNonText(t *testing.T) {
	c := New("en-US")
	n, err := c.Compare(gviz.Number(1), gviz.Number(2))
	require.NoError(t, err)
	assert.Negative(t, n)
}

func TestNewFallsBackOnBadLocale(t *testing.T) {
	c := New("not-a-real-locale-!!!")
	require.NotNil(t, c)
}

func TestCompareNullText(t *testing.T) {
	c := New("en-US")
	n, err := c.Compare(gviz.Null(gviz.TypeText), gviz.Text("a"))
	require.NoError(t, err)
	assert.Equal(t, -1, n)
}
