package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lychee-technology/gviz"
)

func TestCalcColumnTypeConstant(t *testing.T) {
	_, typ, err := calcColumnType(gviz.ConstantColumn{Value: gviz.Number(1)})
	require.NoError(t, err)
	assert.Equal(t, gviz.TypeNumber, typ)
}

func TestCalcColumnTypeScalarFunction(t *testing.T) {
	_, typ, err := calcColumnType(gviz.ScalarFunctionColumn{
		Function: gviz.FuncYear,
		Args:     []gviz.AbstractColumn{gviz.SimpleColumn{ColumnID: "created"}},
	})
	require.NoError(t, err)
	assert.Equal(t, gviz.TypeNumber, typ)
}

func TestCalcColumnTypeUnknownFunction(t *testing.T) {
	_, _, err := calcColumnType(gviz.ScalarFunctionColumn{Function: "bogus"})
	assert.Error(t, err)
}

func TestCalcColumnTypeOfSimpleColumnDefaultsText(t *testing.T) {
	_, typ, err := calcColumnTypeOf(gviz.SimpleColumn{ColumnID: "name"})
	require.NoError(t, err)
	assert.Equal(t, gviz.TypeText, typ)
}
