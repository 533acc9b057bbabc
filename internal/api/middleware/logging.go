package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/metrics"
	"github.com/phrazzld/task-api/internal/platform/logger"
)

// Logging emits one structured record when a request arrives and one when
// its response is written, and stores a request-scoped logger in the
// request context for handlers. Request metrics are recorded against the
// matched route pattern.
func Logging(base *slog.Logger, m *metrics.Metrics, now func() time.Time) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rc, ok := shared.GetRequestContext(r.Context())
			if !ok {
				rc = &shared.RequestContext{
					RequestID: shared.NewRequestID(),
					ClientIP:  shared.ClientIP(r),
					Start:     now(),
				}
			}

			base.Info("request",
				slog.String("type", "request"),
				slog.String("request_id", rc.RequestID),
				slog.Time("timestamp", rc.Start.UTC()),
				slog.String("method", r.Method),
				slog.String("endpoint", r.URL.Path),
				slog.Any("query_params", queryParams(r)),
				slog.String("client_ip", rc.ClientIP),
				slog.String("user_agent", headerOr(r.Header, "User-Agent", "unknown")),
				slog.String("content_type", r.Header.Get("Content-Type")),
				slog.Int64("content_length", max(r.ContentLength, 0)))

			reqLogger := base.With(slog.String("request_id", rc.RequestID))
			ctx := logger.WithLogger(r.Context(), reqLogger)

			hw := newHookWriter(w, nil)
			next.ServeHTTP(hw, r.WithContext(ctx))
			hw.finish()

			elapsed := now().Sub(rc.Start)
			base.Info("response",
				slog.String("type", "response"),
				slog.String("request_id", rc.RequestID),
				slog.Time("timestamp", now().UTC()),
				slog.String("method", r.Method),
				slog.String("endpoint", r.URL.Path),
				slog.Int("status_code", hw.Status()),
				slog.Float64("process_time_ms", millis(elapsed)),
				slog.String("content_type", w.Header().Get("Content-Type")),
				slog.Int("content_length", hw.bytes))

			m.ObserveRequest(r.Method, routePattern(r), hw.Status(), elapsed)
		})
	}
}

func queryParams(r *http.Request) map[string]string {
	q := r.URL.Query()
	params := make(map[string]string, len(q))
	for k := range q {
		params[k] = q.Get(k)
	}
	return params
}

func headerOr(h http.Header, name, fallback string) string {
	if v := h.Get(name); v != "" {
		return v
	}
	return fallback
}

// routePattern returns the chi pattern that matched r, if any. The pipeline
// runs as router middleware, so the routing context is already in place and
// filled in once the inner handler returns.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}
