package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/task-api/internal/metrics"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogging(t *testing.T) {
	t.Parallel()

	lg, buf := logger.NewTestLogger(t)
	m := metrics.New(prometheus.NewRegistry())

	var handlerLogger bool
	r := chi.NewRouter()
	r.Use(RequestContext(time.Now), Logging(lg, m, time.Now))
	r.Post("/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("inside handler")
		handlerLogger = true
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	req := httptest.NewRequest(http.MethodPost, "/tasks/abc?page=2", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "probe/1.0")
	req.RemoteAddr = "192.168.1.5:1234"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.True(t, handlerLogger)
	requestID := rec.Header().Get(HeaderRequestID)
	require.NotEmpty(t, requestID)

	requests, err := buf.EntriesWith("type", "request")
	require.NoError(t, err)
	require.Len(t, requests, 1)
	in := requests[0]
	assert.Equal(t, requestID, in["request_id"])
	assert.Equal(t, "POST", in["method"])
	assert.Equal(t, "/tasks/abc", in["endpoint"])
	assert.Equal(t, map[string]any{"page": "2"}, in["query_params"])
	assert.Equal(t, "192.168.1.5", in["client_ip"])
	assert.Equal(t, "probe/1.0", in["user_agent"])
	assert.Equal(t, "application/json", in["content_type"])
	assert.Equal(t, float64(2), in["content_length"])

	responses, err := buf.EntriesWith("type", "response")
	require.NoError(t, err)
	require.Len(t, responses, 1)
	out := responses[0]
	assert.Equal(t, requestID, out["request_id"])
	assert.Equal(t, float64(201), out["status_code"])
	assert.Equal(t, "application/json", out["content_type"])
	assert.Equal(t, float64(len(`{"ok":true}`)), out["content_length"])
	assert.Contains(t, out, "process_time_ms")

	scoped, err := buf.EntriesWith("msg", "inside handler")
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, requestID, scoped[0]["request_id"])

	scrape := httptest.NewRecorder()
	m.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(scrape.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `taskapi_http_requests_total{method="POST",route="/tasks/{id}",status="201"} 1`)
}

func TestLogging_UnknownUserAgent(t *testing.T) {
	t.Parallel()

	lg, buf := logger.NewTestLogger(t)
	h := Logging(lg, nil, time.Now)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Del("User-Agent")
	h.ServeHTTP(httptest.NewRecorder(), req)

	requests, err := buf.EntriesWith("type", "request")
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "unknown", requests[0]["user_agent"])

	responses, err := buf.EntriesWith("type", "response")
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, float64(200), responses[0]["status_code"])
}
