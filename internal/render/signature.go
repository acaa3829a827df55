package render

import (
	"fmt"
	"hash/fnv"
	"strconv"

	"github.com/lychee-technology/gviz"
)

// Signature computes the response's content hash, letting a client skip
// re-downloading a table whose signature it already has cached (the
// "tqx" sig/reqId round-trip of spec §6). It is a pure content hash with
// no I/O concern, so stdlib hash/fnv is the correct and sufficient tool
// — no pack dependency targets content-addressing.
func Signature(t *gviz.Table) string {
	h := fnv.New64a()
	for _, c := range t.Columns {
		fmt.Fprintf(h, "%s|%s|", c.ID, c.Type)
	}
	for _, row := range t.Rows {
		for _, cell := range row.Cells {
			fmt.Fprintf(h, "%d|", gviz.Hash(cell.Value))
		}
	}
	return strconv.FormatUint(h.Sum64(), 16)
}
