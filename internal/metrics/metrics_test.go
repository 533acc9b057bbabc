package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/task-api/internal/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveRequest(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRequest(http.MethodGet, "/tasks/{id}", 200, 5*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/tasks/{id}", 200, 7*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "", 404, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/tasks/{id}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.requestDuration))
}

func TestMetrics_RateLimitedAndMutations(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RateLimited("create")
	m.RateLimited("create")
	require.NoError(t, m.HandleEvent(context.Background(), events.NewTaskEvent(events.TaskUpdated, uuid.New(), nil, time.Now())))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.rateLimited.WithLabelValues("create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("update")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveRequest("GET", "/", 200, time.Millisecond)
		m.RateLimited("root")
		_ = m.HandleEvent(context.Background(), &events.TaskEvent{})
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics_Handler(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.RateLimited("delete")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `taskapi_ratelimit_denied_total{rule="delete"} 1`), body)
}
