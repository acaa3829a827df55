package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteHTMLEscapesContent(t *testing.T) {
	tbl := renderTestTable(t)
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, tbl))
	s := buf.String()
	assert.Contains(t, s, "<table")
	assert.Contains(t, s, "<th>Name</th>")
	assert.Contains(t, s, "alice")
}
