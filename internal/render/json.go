// Package render implements the gviz wire formats: the JSON/JSONP
// response envelope, CSV, Excel-flavored TSV, and an HTML debug table,
// plus tqx request-parameter parsing and response signature computation.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/lychee-technology/gviz"
)

// Status is "ok" or "error", matching the wire envelope's top-level field.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Envelope is the top-level JSON response object.
type Envelope struct {
	Version   string       `json:"version"`
	ReqID     string       `json:"reqId"`
	Status    Status       `json:"status"`
	Sig       string       `json:"sig,omitempty"`
	Table     *wireTable   `json:"table,omitempty"`
	Errors    []wireError  `json:"errors,omitempty"`
	Warnings  []wireError  `json:"warnings,omitempty"`
}

type wireTable struct {
	Cols []wireCol  `json:"cols"`
	Rows []wireRow  `json:"rows"`
}

type wireCol struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Type    string `json:"type"`
	Pattern string `json:"pattern,omitempty"`
}

type wireRow struct {
	C []wireCell `json:"c"`
}

type wireCell struct {
	V interface{} `json:"v"`
	F string      `json:"f,omitempty"`
}

type wireError struct {
	Reason  string `json:"reason"`
	Message string `json:"message,omitempty"`
	Detail  string `json:"detail_message,omitempty"`
}

// SuccessEnvelope builds an "ok" envelope for t.
func SuccessEnvelope(reqID string, t *gviz.Table) Envelope {
	return Envelope{
		Version: "0.6",
		ReqID:   reqID,
		Status:  StatusOK,
		Sig:     Signature(t),
		Table:   toWireTable(t),
		Warnings: toWireErrors(t.Warnings),
	}
}

// ErrorEnvelope builds an "error" envelope from a *gviz.QueryError.
func ErrorEnvelope(reqID string, err *gviz.QueryError) Envelope {
	return Envelope{
		Version: "0.6",
		ReqID:   reqID,
		Status:  StatusError,
		Errors: []wireError{{
			Reason:  string(err.Reason),
			Message: string(err.Message),
			Detail:  err.Error(),
		}},
	}
}

func toWireErrors(warnings []gviz.Warning) []wireError {
	out := make([]wireError, len(warnings))
	for i, w := range warnings {
		out[i] = wireError{Reason: string(w.Reason), Detail: w.Message}
	}
	return out
}

func toWireTable(t *gviz.Table) *wireTable {
	wt := &wireTable{
		Cols: make([]wireCol, len(t.Columns)),
		Rows: make([]wireRow, len(t.Rows)),
	}
	for i, c := range t.Columns {
		wt.Cols[i] = wireCol{ID: c.ID, Label: c.Label, Type: c.Type.String(), Pattern: c.Pattern}
	}
	for i, row := range t.Rows {
		cells := make([]wireCell, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = wireCell{V: wireValue(cell.Value), F: cell.FormattedValue}
		}
		wt.Rows[i] = wireRow{C: cells}
	}
	return wt
}

func wireValue(v gviz.Value) interface{} {
	if v.IsNull() {
		return nil
	}
	switch v.Type() {
	case gviz.TypeText:
		return v.AsText()
	case gviz.TypeNumber:
		return v.AsNumber()
	case gviz.TypeBoolean:
		return v.AsBool()
	case gviz.TypeDate:
		y, m, d := v.DateParts()
		return fmt.Sprintf("Date(%d,%d,%d)", y, m, d)
	case gviz.TypeDateTime:
		y, m, d := v.DateParts()
		h, mi, s, ms := v.TimeParts()
		if ms == 0 {
			return fmt.Sprintf("Date(%d,%d,%d,%d,%d,%d)", y, m, d, h, mi, s)
		}
		return fmt.Sprintf("Date(%d,%d,%d,%d,%d,%d,%d)", y, m, d, h, mi, s, ms)
	case gviz.TypeTimeOfDay:
		h, mi, s, ms := v.TimeParts()
		return []int{h, mi, s, ms}
	default:
		return nil
	}
}

// WriteJSON writes an Envelope as plain JSON to w.
func WriteJSON(w io.Writer, env Envelope) error {
	return json.NewEncoder(w).Encode(env)
}

// WriteJSONP wraps Envelope in a JSONP callback invocation.
func WriteJSONP(w io.Writer, callback string, env Envelope) error {
	if _, err := fmt.Fprintf(w, "%s(", callback); err != nil {
		return err
	}
	if err := json.NewEncoder(w).Encode(env); err != nil {
		return err
	}
	_, err := fmt.Fprint(w, ");")
	return err
}
