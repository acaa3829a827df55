package render

import (
	"fmt"
	"strings"
)

// Tqx is the parsed form of the "tqx" request parameter, a semicolon-
// separated list of key:value pairs the wire protocol uses to carry
// out-of-band request options (response handler, version, request id,
// same-origin-only flag).
type Tqx struct {
	Version         string
	ResponseHandler string
	OutType         string // "json" (default), "html", "csv"
	ReqID           string
	SameOrigin      bool
}

// ParseTqx parses the "tqx" query-string value per its "key:value;..." grammar.
func ParseTqx(raw string) (Tqx, error) {
	t := Tqx{OutType: "json"}
	if raw == "" {
		return t, nil
	}
	for _, pair := range strings.Split(raw, ";") {
		if pair == "" {
			continue
		}
		kv := strings.SplitN(pair, ":", 2)
		if len(kv) != 2 {
			return Tqx{}, fmt.Errorf("invalid tqx entry %q", pair)
		}
		key, val := kv[0], kv[1]
		switch key {
		case "version":
			t.Version = val
		case "responseHandler":
			t.ResponseHandler = val
		case "out":
			t.OutType = val
		case "reqId":
			t.ReqID = val
		case "sameOrigin":
			t.SameOrigin = val == "true"
		default:
			return Tqx{}, fmt.Errorf("unknown tqx key %q", key)
		}
	}
	return t, nil
}
