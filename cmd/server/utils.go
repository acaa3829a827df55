package main

import (
	"net/http"

	"github.com/google/uuid"
)

// requestID returns the request's own reqId if present, otherwise mints
// a fresh one so every response (including errors) can be correlated in
// logs even when the client didn't send a tqx reqId.
func requestID(reqID string) string {
	if reqID != "" {
		return reqID
	}
	return uuid.NewString()
}

// allowedOrigin reports whether origin is on the server's configured
// allow-list; an empty allow-list means same-origin enforcement is the
// only check performed (no explicit CORS allow-list configured).
func allowedOrigin(allowed []string, origin string) bool {
	if len(allowed) == 0 {
		return false
	}
	for _, a := range allowed {
		if a == origin || a == "*" {
			return true
		}
	}
	return false
}

func corsHeaders(w http.ResponseWriter, origin string) {
	w.Header().Set("Access-Control-Allow-Origin", origin)
	w.Header().Set("Access-Control-Allow-Headers", "X-DataSource-Auth")
}
