package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func securityHeaders(t *testing.T, cfg SecurityConfig) http.Header {
	t.Helper()
	h := Security(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/recipes", nil))
	return rec.Header()
}

func TestSecurity_Headers(t *testing.T) {
	got := securityHeaders(t, SecurityConfig{})

	want := map[string]string{
		"X-Content-Type-Options":       "nosniff",
		"X-Frame-Options":              "DENY",
		"X-XSS-Protection":             "0",
		"Referrer-Policy":              "strict-origin-when-cross-origin",
		"Content-Security-Policy":      "default-src 'none'; frame-ancestors 'none'",
		"Cross-Origin-Resource-Policy": "same-origin",
		"Strict-Transport-Security":    "max-age=31536000; includeSubDomains; preload",
		"Cache-Control":                "no-store",
	}
	for name, value := range want {
		assert.Equal(t, value, got.Get(name), name)
	}
	assert.Contains(t, got.Get("Permissions-Policy"), "camera=()")
}

func TestSecurity_NoHSTSInDevelopment(t *testing.T) {
	got := securityHeaders(t, SecurityConfig{IsDevelopment: true})

	assert.Empty(t, got.Get("Strict-Transport-Security"))
	assert.Equal(t, "nosniff", got.Get("X-Content-Type-Options"))
}

func TestMaxBodySize(t *testing.T) {
	const limit = 16
	long := strings.Repeat("x", limit*4)

	tests := []struct {
		name          string
		body          string
		contentLength int64
		wantStatus    int
		wantHandler   bool
	}{
		{"within limit", `{"name":"Soup"}`, 15, http.StatusOK, true},
		{"declared length over limit", long, int64(len(long)), http.StatusRequestEntityTooLarge, false},
		// Chunked bodies have no length up front; the reader stops them at the limit.
		{"streamed body over limit", long, -1, http.StatusRequestEntityTooLarge, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ran bool
			h := MaxBodySize(limit)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ran = true
				if _, err := io.Copy(io.Discard, r.Body); err != nil {
					var maxErr *http.MaxBytesError
					require.ErrorAs(t, err, &maxErr)
					w.WriteHeader(http.StatusRequestEntityTooLarge)
				}
			}))

			req := httptest.NewRequest(http.MethodPost, "/api/categories", strings.NewReader(tt.body))
			req.ContentLength = tt.contentLength
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantHandler, ran)
		})
	}
}

func TestMaxBodySize_ErrorEnvelope(t *testing.T) {
	h := MaxBodySize(4)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/recipes", strings.NewReader("too long")))

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body errorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "PAYLOAD_TOO_LARGE", body.Code)
	assert.NotEmpty(t, body.Error)
}
