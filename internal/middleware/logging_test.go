package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLog runs req through Logger wrapping h and returns the decoded log line.
func captureLog(t *testing.T, h http.Handler, req *http.Request) map[string]any {
	t.Helper()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	Logger(logger)(h).ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line), buf.String())
	return line
}

func TestLogger_Fields(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":7}`))
	})

	req := httptest.NewRequest(http.MethodPost, "/api/categories", nil)
	req.Header.Set("User-Agent", "recipe-client/1.0")
	line := captureLog(t, h, req)

	assert.Equal(t, "api request", line["msg"])
	assert.Equal(t, "INFO", line["level"])
	assert.Equal(t, "POST", line["method"])
	assert.Equal(t, "/api/categories", line["path"])
	assert.Equal(t, "categories", line["resource"])
	assert.EqualValues(t, 201, line["status"])
	assert.EqualValues(t, 8, line["bytes_out"])
	assert.Equal(t, "recipe-client/1.0", line["user_agent"])
	assert.Contains(t, line, "duration_ms")
	assert.Contains(t, line, "client_ip")
	assert.NotContains(t, line, "bytes_in")
}

func TestLogger_UploadSize(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/files", strings.NewReader("jpeg-bytes"))
	line := captureLog(t, h, req)

	assert.Equal(t, "files", line["resource"])
	assert.EqualValues(t, 10, line["bytes_in"])
}

func TestLogger_ResourceID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := chi.NewRouter()
	r.Use(Logger(logger))
	r.Route("/api", func(r chi.Router) {
		r.Get("/recipes/{id}", func(w http.ResponseWriter, r *http.Request) {})
		r.Get("/files/{name}", func(w http.ResponseWriter, r *http.Request) {})
	})

	tests := []struct {
		path     string
		resource string
		id       string
	}{
		{"/api/recipes/42", "recipes", "42"},
		{"/api/files/01J9ZQ.jpg", "files", "01J9ZQ.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.resource, func(t *testing.T) {
			buf.Reset()
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))

			var line map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &line), buf.String())
			assert.Equal(t, tt.resource, line["resource"])
			assert.Equal(t, tt.id, line["resource_id"])
		})
	}
}

func TestLogger_OperationalEndpoints(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	failing := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	Logger(logger)(ok).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Contains(t, buf.String(), `"level":"DEBUG"`)
	assert.Contains(t, buf.String(), `"msg":"service request"`)
	assert.NotContains(t, buf.String(), `"resource"`)

	buf.Reset()
	Logger(logger)(failing).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
}

func TestAPIResource(t *testing.T) {
	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"/api/recipes", "recipes", true},
		{"/api/recipes/", "recipes", true},
		{"/api/users/3", "users", true},
		{"/api/", "", false},
		{"/api", "", false},
		{"/metrics", "", false},
	}

	for _, tt := range tests {
		got, ok := apiResource(tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}
}

func TestLogger_RequestIDFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	chain := RequestID(Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))
	req := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	chain.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
}

func TestLogger_NeverLogsBody(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusCreated)
	})

	body := `{"username":"chef","email":"chef@example.com","password":"s3cret-passw0rd"}`
	line := captureLog(t, h, httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(body)))

	raw, err := json.Marshal(line)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "s3cret-passw0rd")
}

func TestLogger_RoutePattern(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := chi.NewRouter()
	r.Use(Logger(logger))
	r.Get("/api/recipes/{id}", func(w http.ResponseWriter, r *http.Request) {})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/recipes/42", nil))

	assert.Contains(t, buf.String(), `"route":"/api/recipes/{id}"`)
	assert.Contains(t, buf.String(), `"path":"/api/recipes/42"`)
}

func TestLogger_LevelByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "INFO"},
		{http.StatusNoContent, "INFO"},
		{http.StatusBadRequest, "WARN"},
		{http.StatusNotFound, "WARN"},
		{http.StatusConflict, "WARN"},
		{http.StatusRequestEntityTooLarge, "WARN"},
		{http.StatusInternalServerError, "ERROR"},
		{http.StatusServiceUnavailable, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			line := captureLog(t, h, httptest.NewRequest(http.MethodGet, "/api/ingredients", nil))
			assert.Equal(t, tt.level, line["level"])
		})
	}
}

func TestResponseWriter(t *testing.T) {
	t.Run("implicit 200 on write", func(t *testing.T) {
		rw := wrapResponseWriter(httptest.NewRecorder())
		_, _ = rw.Write([]byte("borsch"))
		assert.Equal(t, http.StatusOK, rw.status)
		assert.EqualValues(t, 6, rw.bytes)
	})

	t.Run("first WriteHeader wins", func(t *testing.T) {
		rec := httptest.NewRecorder()
		rw := wrapResponseWriter(rec)
		rw.WriteHeader(http.StatusCreated)
		rw.WriteHeader(http.StatusInternalServerError)
		assert.Equal(t, http.StatusCreated, rw.status)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("unwrap", func(t *testing.T) {
		rec := httptest.NewRecorder()
		assert.Same(t, rec, wrapResponseWriter(rec).Unwrap())
	})
}
