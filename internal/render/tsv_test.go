package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTSVExcelStartsWithBOM(t *testing.T) {
	tbl := renderTestTable(t)
	var buf bytes.Buffer
	require.NoError(t, WriteTSVExcel(&buf, tbl))
	b := buf.Bytes()
	require.GreaterOrEqual(t, len(b), 2)
	assert.Equal(t, byte(0xFF), b[0])
	assert.Equal(t, byte(0xFE), b[1])
}

func TestUtf16LEWriterEncodesASCII(t *testing.T) {
	var buf bytes.Buffer
	w := utf16LEWriter{w: &buf}
	n, err := w.Write([]byte("AB"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{'A', 0, 'B', 0}, buf.Bytes())
}
