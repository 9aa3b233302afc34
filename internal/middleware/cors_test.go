package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func serveCORS(origins []string, method, origin string) *httptest.ResponseRecorder {
	h := CORS(DefaultCORSConfig(origins))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(method, "/api/recipes", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCORS(t *testing.T) {
	site := []string{"https://cookbook.example"}

	tests := []struct {
		name        string
		origins     []string
		method      string
		origin      string
		wantStatus  int
		wantAllowed string
	}{
		{"same origin request", site, http.MethodGet, "", http.StatusOK, ""},
		{"nothing configured", nil, http.MethodGet, "https://cookbook.example", http.StatusOK, ""},
		{"allowed origin", site, http.MethodGet, "https://cookbook.example", http.StatusOK, "https://cookbook.example"},
		{"origin match ignores case", []string{"HTTPS://COOKBOOK.EXAMPLE"}, http.MethodGet, "https://cookbook.example", http.StatusOK, "https://cookbook.example"},
		{"foreign origin served without headers", site, http.MethodPost, "https://evil.example", http.StatusOK, ""},
		{"foreign preflight refused", site, http.MethodOptions, "https://evil.example", http.StatusForbidden, ""},
		{"allowed preflight", site, http.MethodOptions, "https://cookbook.example", http.StatusNoContent, "https://cookbook.example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveCORS(tt.origins, tt.method, tt.origin)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantAllowed, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCORS_PreflightHeaders(t *testing.T) {
	rec := serveCORS([]string{"https://cookbook.example"}, http.MethodOptions, "https://cookbook.example")

	h := rec.Header()
	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", h.Get("Access-Control-Allow-Methods"))
	assert.Contains(t, h.Get("Access-Control-Allow-Headers"), "Content-Type")
	assert.Equal(t, "86400", h.Get("Access-Control-Max-Age"))
	assert.Contains(t, h.Get("Access-Control-Expose-Headers"), "Content-Disposition")
	assert.Equal(t, "Origin", h.Get("Vary"))
}

func TestCORS_SimpleRequestOmitsPreflightHeaders(t *testing.T) {
	rec := serveCORS([]string{"https://cookbook.example"}, http.MethodGet, "https://cookbook.example")

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "X-RateLimit-Remaining")
}

func TestOriginPolicy_Allows(t *testing.T) {
	policy := newOriginPolicy(DefaultCORSConfig([]string{
		"https://cookbook.example",
		" *.Kitchen.example ",
		"",
	}))

	tests := []struct {
		origin string
		want   bool
	}{
		{"https://cookbook.example", true},
		{"HTTPS://COOKBOOK.EXAMPLE", true},
		{"https://app.kitchen.example", true},
		{"https://a.b.kitchen.example", true},
		{"https://kitchen.example", false},
		{"https://notkitchen.example", false},
		{"https://kitchen.example.evil.org", false},
		{"https://sub.cookbook.example", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, policy.allows(tt.origin), tt.origin)
	}
}

func TestOriginPolicy_NoOrigins(t *testing.T) {
	policy := newOriginPolicy(CORSConfig{})

	assert.False(t, policy.allows("https://cookbook.example"))
	assert.Empty(t, policy.maxAge)
}
