package render

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/lychee-technology/gviz"
)

// WriteCSV writes t as comma-separated values, header row first,
// preferring each cell's FormattedValue when present.
func WriteCSV(w io.Writer, t *gviz.Table) error {
	return writeDelimited(w, t, ',')
}

func writeDelimited(w io.Writer, t *gviz.Table, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma
	header := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		label := c.Label
		if label == "" {
			label = c.ID
		}
		header[i] = label
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range t.Rows {
		record := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			record[i] = cellText(cell)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func cellText(cell gviz.Cell) string {
	if cell.HasFormatted {
		return cell.FormattedValue
	}
	if cell.Value.IsNull() {
		return ""
	}
	if cell.Value.Type() == gviz.TypeText {
		return cell.Value.AsText()
	}
	lit, err := cell.Value.QueryLiteral()
	if err != nil {
		return fmt.Sprintf("%v", wireValue(cell.Value))
	}
	return lit
}
