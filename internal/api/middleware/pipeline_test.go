package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChain_Order(t *testing.T) {
	t.Parallel()

	var order []string
	stage := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(stage("a"), stage("b"), stage("c"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"a", "b", "c", "handler"}, order)
}

func newPipelineRouter(t *testing.T) http.Handler {
	t.Helper()

	lg, _ := logger.NewTestLogger(t)
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	r := chi.NewRouter()
	r.Use(NewPipeline(PipelineConfig{
		Logger:          lg,
		SecurityHeaders: true,
		MaxBodyBytes:    64,
		CORS:            CORSConfig{Origins: []string{"http://localhost:3000"}},
		Limiter:         newTestLimiter(now, ratelimit.Rule{Name: RuleCreate, Limit: 1, Window: time.Minute}),
	}))
	r.Post("/tasks", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	r.Get("/tasks", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})
	return r
}

func TestPipeline_HeadersOnEveryResponse(t *testing.T) {
	t.Parallel()

	router := newPipelineRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"success", http.MethodGet, "/tasks", "", http.StatusOK},
		{"not found", http.MethodGet, "/nope", "", http.StatusNotFound},
		{"created", http.MethodPost, "/tasks", "{}", http.StatusCreated},
		{"rate limited", http.MethodPost, "/tasks", "{}", http.StatusTooManyRequests},
		{"too large", http.MethodPost, "/tasks", strings.Repeat("x", 65), http.StatusRequestEntityTooLarge},
	}

	// Cases share one limiter and run in order.
	for _, tc := range tests {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, tc.wantStatus, rec.Code, tc.name)
		h := rec.Header()
		assert.NotEmpty(t, h.Get(HeaderRequestID), tc.name)
		assert.NotEmpty(t, h.Get(HeaderProcessTime), tc.name)
		assert.Equal(t, "DENY", h.Get("X-Frame-Options"), tc.name)
		assert.Equal(t, ServerHeader, h.Get("Server"), tc.name)
	}
}

func TestPipeline_RequestIDsAreUnique(t *testing.T) {
	t.Parallel()

	router := newPipelineRouter(t)
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks", nil))
		id := rec.Header().Get(HeaderRequestID)
		require.False(t, seen[id])
		seen[id] = true
	}
}

func TestPipeline_CORSPreflight(t *testing.T) {
	t.Parallel()

	router := newPipelineRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/tasks", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))

	t.Run("disallowed origin gets no CORS headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
