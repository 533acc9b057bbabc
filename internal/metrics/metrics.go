// Package metrics exposes Prometheus collectors for HTTP traffic, rate
// limiting and task mutations.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/phrazzld/task-api/internal/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rateLimited     *prometheus.CounterVec
	mutations       *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskapi_http_requests_total",
			Help: "Number of HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "taskapi_http_request_duration_seconds",
			Help:    "Latency of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskapi_ratelimit_denied_total",
			Help: "Number of requests rejected by the rate limiter",
		}, []string{"rule"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskapi_task_mutations_total",
			Help: "Number of successful task mutations",
		}, []string{"operation"}),
	}
	reg.MustRegister(m.requests, m.requestDuration, m.rateLimited, m.mutations)
	return m
}

// ObserveRequest records one completed HTTP request. Route is the matched
// route pattern, never the raw path, so label cardinality stays bounded.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RateLimited records a denial under rule.
func (m *Metrics) RateLimited(rule string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(rule).Inc()
}

// HandleEvent counts task mutations. It satisfies events.EventHandler.
func (m *Metrics) HandleEvent(_ context.Context, event *events.TaskEvent) error {
	if m == nil {
		return nil
	}
	m.mutations.WithLabelValues(event.Type.Operation()).Inc()
	return nil
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
