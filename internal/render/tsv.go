package render

import (
	"io"

	"github.com/lychee-technology/gviz"
)

// WriteTSVExcel writes t as tab-separated values in the encoding Excel
// expects (UTF-16LE with a byte-order mark), matching the wire
// protocol's "tsv-excel" output type.
func WriteTSVExcel(w io.Writer, t *gviz.Table) error {
	if _, err := w.Write([]byte{0xFF, 0xFE}); err != nil {
		return err
	}
	enc := utf16LEWriter{w: w}
	return writeDelimited(&enc, t, '\t')
}

// utf16LEWriter re-encodes the UTF-8 bytes it receives into UTF-16LE,
// which is what csv.Writer's byte-oriented output needs to become for
// Excel to auto-detect the encoding correctly.
type utf16LEWriter struct {
	w io.Writer
}

func (e *utf16LEWriter) Write(p []byte) (int, error) {
	out := make([]byte, 0, len(p)*2)
	for _, r := range string(p) {
		if r < 0x10000 {
			out = append(out, byte(r), byte(r>>8))
			continue
		}
		r -= 0x10000
		hi := 0xD800 + (r >> 10)
		lo := 0xDC00 + (r & 0x3FF)
		out = append(out, byte(hi), byte(hi>>8), byte(lo), byte(lo>>8))
	}
	if _, err := e.w.Write(out); err != nil {
		return 0, err
	}
	return len(p), nil
}
