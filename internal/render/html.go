package render

import (
	"fmt"
	"html"
	"io"

	"github.com/lychee-technology/gviz"
)

// WriteHTML renders t as a minimal debug-friendly HTML table, matching
// the wire protocol's "html" output type.
func WriteHTML(w io.Writer, t *gviz.Table) error {
	if _, err := fmt.Fprint(w, "<html><body><table border=\"1\">\n<tr>"); err != nil {
		return err
	}
	for _, c := range t.Columns {
		label := c.Label
		if label == "" {
			label = c.ID
		}
		if _, err := fmt.Fprintf(w, "<th>%s</th>", html.EscapeString(label)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprint(w, "</tr>\n"); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if _, err := fmt.Fprint(w, "<tr>"); err != nil {
			return err
		}
		for _, cell := range row.Cells {
			if _, err := fmt.Fprintf(w, "<td>%s</td>", html.EscapeString(cellText(cell))); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprint(w, "</tr>\n"); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(w, "</table></body></html>")
	return err
}
