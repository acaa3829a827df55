package main

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestIDMintsWhenEmpty(t *testing.T) {
	id := requestID("")
	assert.NotEmpty(t, id)
}

func TestRequestIDPassesThroughExisting(t *testing.T) {
	assert.Equal(t, "abc", requestID("abc"))
}

func TestAllowedOriginMatchesExact(t *testing.T) {
	assert.True(t, allowedOrigin([]string{"https://example.com"}, "https://example.com"))
	assert.False(t, allowedOrigin([]string{"https://example.com"}, "https://evil.com"))
}

func TestCorsHeadersSetsAllowOrigin(t *testing.T) {
	w := httptest.NewRecorder()
	corsHeaders(w, "https://example.com")
	assert.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))
}
