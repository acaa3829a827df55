package validate

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/lychee-technology/gviz"
)

// ColumnDescriptionsAgainstSchema validates a provider's declared
// ColumnDescription set against a caller-supplied JSON Schema document,
// letting a server operator pin down the exact table shape a data
// source is expected to expose before a query ever reaches the engine.
// Grounded directly on the teacher's ValidateAgainstSchema
// (internal/transformer.go): marshal, resolve, validate.
func ColumnDescriptionsAgainstSchema(schemaJSON []byte, cols []gviz.ColumnDescription) error {
	var schema jsonschema.Schema
	if err := json.Unmarshal(schemaJSON, &schema); err != nil {
		return gviz.NewInvalidRequestError("invalid JSON schema: %s", err)
	}

	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return gviz.NewInvalidRequestError("resolving JSON schema: %s", err)
	}

	data, err := columnsToJSONValue(cols)
	if err != nil {
		return gviz.NewInternalError(err)
	}

	if err := resolved.Validate(data); err != nil {
		return gviz.NewInvalidQueryError(gviz.MsgParseError, "declared columns do not match schema: %s", err)
	}
	return nil
}

func columnsToJSONValue(cols []gviz.ColumnDescription) (any, error) {
	type col struct {
		ID    string `json:"id"`
		Label string `json:"label"`
		Type  string `json:"type"`
	}
	out := make([]col, len(cols))
	for i, c := range cols {
		out[i] = col{ID: c.ID, Label: c.Label, Type: fmt.Sprint(c.Type)}
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return v, nil
}
