package gviz

import (
	"fmt"
	"sort"
	"strings"
)

// CustomProperties is a free-form string map attached to columns, rows,
// cells, or the table itself.
type CustomProperties map[string]string

func (p CustomProperties) clone() CustomProperties {
	if p == nil {
		return nil
	}
	out := make(CustomProperties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// ColumnDescription describes one column of a Table. ID is the stable key
// used throughout the AST and engine; storage keeps the case the caller
// supplied. ColumnIndexFold offers a case-insensitive lookup, but the
// validator and the engine resolve user-supplied column ids with the
// exact, case-sensitive ColumnIndex.
type ColumnDescription struct {
	ID               string
	Type             ValueType
	Label            string
	Pattern          string
	CustomProperties CustomProperties
}

// Cell is one row/column intersection: a typed Value plus an optional
// pre-formatted display string and custom properties.
type Cell struct {
	Value            Value
	FormattedValue   string
	HasFormatted     bool
	CustomProperties CustomProperties
}

// Row is an ordered sequence of cells, positionally matched to the Table's columns.
type Row struct {
	Cells            []Cell
	CustomProperties CustomProperties
}

// Warning is a non-fatal condition surfaced alongside a Table, e.g. a
// format pattern that failed to parse.
type Warning struct {
	Reason  Reason
	Message string
}

// Table is an ordered sequence of columns plus an ordered sequence of
// rows. Tables are mutable during construction; the engine never mutates
// an input table, it always returns a fresh one.
type Table struct {
	Columns    []ColumnDescription
	Rows       []Row
	Warnings   []Warning
	Properties CustomProperties
	Locale     string

	index map[string]int
}

// NewTable creates an empty table for the given locale (e.g. "en-US").
func NewTable(locale string) *Table {
	return &Table{Locale: locale, index: make(map[string]int)}
}

// AddColumn appends a column description. It is an error to reuse a
// column id (case-sensitive comparison, matching internal storage).
func (t *Table) AddColumn(desc ColumnDescription) error {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if _, exists := t.index[desc.ID]; exists {
		return fmt.Errorf("duplicate column id %q", desc.ID)
	}
	t.index[desc.ID] = len(t.Columns)
	t.Columns = append(t.Columns, desc)
	return nil
}

// ErrRowWidth signals a row whose cell count does not match the column count.
var ErrRowWidth = fmt.Errorf("row width does not match column count")

// AddRow validates cell-type conformance and width, then appends the row.
func (t *Table) AddRow(row Row) error {
	if len(row.Cells) != len(t.Columns) {
		return ErrRowWidth
	}
	for i, cell := range row.Cells {
		if cell.Value.Type() != t.Columns[i].Type {
			return fmt.Errorf("%w: column %q expects %s, got %s", errTypeMismatchRow, t.Columns[i].ID, t.Columns[i].Type, cell.Value.Type())
		}
	}
	t.Rows = append(t.Rows, row)
	return nil
}

var errTypeMismatchRow = fmt.Errorf("cell type mismatch")

// AddRowValues is a convenience wrapper around AddRow for plain values with no formatting.
func (t *Table) AddRowValues(values ...Value) error {
	cells := make([]Cell, len(values))
	for i, v := range values {
		cells[i] = Cell{Value: v}
	}
	return t.AddRow(Row{Cells: cells})
}

// ColumnIndex looks up a column's position by exact, case-sensitive id.
func (t *Table) ColumnIndex(id string) (int, bool) {
	i, ok := t.index[id]
	return i, ok
}

// ColumnIndexFold looks up a column's position using a case-insensitive
// match, per spec.md's rule that user-supplied selection is
// case-insensitive while internal storage remains case-sensitive.
func (t *Table) ColumnIndexFold(id string) (int, bool) {
	if i, ok := t.index[id]; ok {
		return i, true
	}
	for i, c := range t.Columns {
		if strings.EqualFold(c.ID, id) {
			return i, true
		}
	}
	return 0, false
}

// Clone performs a deep copy of columns, rows, and custom properties.
// Value instances themselves are immutable and may be shared.
func (t *Table) Clone() *Table {
	out := NewTable(t.Locale)
	out.Columns = make([]ColumnDescription, len(t.Columns))
	for i, c := range t.Columns {
		c.CustomProperties = c.CustomProperties.clone()
		out.Columns[i] = c
		out.index[c.ID] = i
	}
	out.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		cells := make([]Cell, len(r.Cells))
		for j, c := range r.Cells {
			c.CustomProperties = c.CustomProperties.clone()
			cells[j] = c
		}
		out.Rows[i] = Row{Cells: cells, CustomProperties: r.CustomProperties.clone()}
	}
	out.Warnings = append([]Warning(nil), t.Warnings...)
	out.Properties = t.Properties.clone()
	return out
}

// AddWarning appends a warning to the table.
func (t *Table) AddWarning(reason Reason, message string) {
	t.Warnings = append(t.Warnings, Warning{Reason: reason, Message: message})
}

// DistinctValues returns the deduplicated values of a column, sorted
// ascending. Display order follows the cell's formatted value when
// present, falling back to the underlying value.
func (t *Table) DistinctValues(columnID string) ([]Value, error) {
	idx, ok := t.ColumnIndex(columnID)
	if !ok {
		return nil, fmt.Errorf("no such column %q", columnID)
	}
	type entry struct {
		display string
		value   Value
	}
	seen := make(map[string]bool)
	var entries []entry
	for _, row := range t.Rows {
		cell := row.Cells[idx]
		display := cell.FormattedValue
		if !cell.HasFormatted {
			lit, err := cell.Value.QueryLiteral()
			if err != nil {
				lit = "\x00null"
			}
			display = lit
		}
		key := display
		if !seen[key] {
			seen[key] = true
			entries = append(entries, entry{display: display, value: cell.Value})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].display < entries[j].display
	})
	values := make([]Value, len(entries))
	for i, e := range entries {
		values[i] = e.value
	}
	return values, nil
}

// NumRows reports the row count.
func (t *Table) NumRows() int { return len(t.Rows) }

// NumColumns reports the column count.
func (t *Table) NumColumns() int { return len(t.Columns) }
