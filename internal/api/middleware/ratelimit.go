package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/metrics"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/ratelimit"
)

// Rate limit response headers.
const (
	HeaderRateLimitLimit     = "X-Rate-Limit-Limit"
	HeaderRateLimitRemaining = "X-Rate-Limit-Remaining"
	HeaderRateLimitReset     = "X-Rate-Limit-Reset"
)

// Rule names, one per rate limited route. RuleDefault covers every request
// that matches none of the others.
const (
	RuleRoot    = "root"
	RuleList    = "list"
	RuleGet     = "get"
	RuleCreate  = "create"
	RuleUpdate  = "update"
	RuleDelete  = "delete"
	RuleHealth  = "health"
	RuleDefault = "default"
)

// ResolveRule maps a request to the rule guarding its route.
func ResolveRule(method, path string) string {
	path = strings.TrimSuffix(path, "/")
	switch {
	case path == "":
		if method == http.MethodGet {
			return RuleRoot
		}
	case path == "/health":
		if method == http.MethodGet {
			return RuleHealth
		}
	case path == "/tasks":
		switch method {
		case http.MethodGet:
			return RuleList
		case http.MethodPost:
			return RuleCreate
		}
	case strings.HasPrefix(path, "/tasks/") && !strings.Contains(path[len("/tasks/"):], "/"):
		switch method {
		case http.MethodGet:
			return RuleGet
		case http.MethodPut:
			return RuleUpdate
		case http.MethodDelete:
			return RuleDelete
		}
	}
	return RuleDefault
}

// RateLimit applies the per-route rules to each client. Denied requests get
// a 429 with Retry-After and never reach later stages.
func RateLimit(limiter *ratelimit.Limiter, m *metrics.Metrics, fallback *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rule := ResolveRule(r.Method, r.URL.Path)

			client := shared.ClientIP(r)
			if rc, ok := shared.GetRequestContext(r.Context()); ok {
				client = rc.ClientIP
			}

			d := limiter.Allow(r.Context(), client, rule)
			if !d.Allowed {
				m.RateLimited(rule)
				logger.FromContextOrDefault(r.Context(), fallback).Warn("rate limit exceeded",
					slog.String("client_ip", client),
					slog.String("method", r.Method),
					slog.String("url", r.URL.String()),
					slog.String("rule", rule),
					slog.Int("retry_after", d.RetryAfterSeconds()))

				w.Header().Set("Retry-After", strconv.Itoa(d.RetryAfterSeconds()))
				shared.RespondWithJSON(w, r, http.StatusTooManyRequests, shared.ErrorResponse{
					Error:      "Rate limit exceeded",
					Message:    "Too many requests. Please try again later.",
					StatusCode: http.StatusTooManyRequests,
					RetryAfter: d.RetryAfterSeconds(),
					RequestID:  shared.GetRequestID(r.Context()),
				})
				return
			}

			if d.Limit > 0 {
				h := w.Header()
				h.Set(HeaderRateLimitLimit, strconv.Itoa(d.Limit))
				h.Set(HeaderRateLimitRemaining, strconv.Itoa(d.Remaining))
				h.Set(HeaderRateLimitReset, strconv.FormatInt(d.ResetAt.Unix(), 10))
			}
			next.ServeHTTP(w, r)
		})
	}
}
