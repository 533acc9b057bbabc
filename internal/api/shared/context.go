package shared

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContextKey is the type of context keys owned by this package.
type ContextKey string

// RequestContextKey is the context key for the per-request RequestContext.
const RequestContextKey ContextKey = "requestContext"

// UnknownClient is the client identity used when no address can be resolved.
const UnknownClient = "unknown"

// RequestContext carries the values assigned to a request when it enters the
// pipeline.
type RequestContext struct {
	RequestID string
	ClientIP  string
	Start     time.Time
}

// WithRequestContext returns a copy of ctx carrying rc.
func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, RequestContextKey, rc)
}

// GetRequestContext retrieves the RequestContext stored in ctx.
func GetRequestContext(ctx context.Context) (*RequestContext, bool) {
	rc, ok := ctx.Value(RequestContextKey).(*RequestContext)
	return rc, ok && rc != nil
}

// GetRequestID returns the correlation ID of the request, or "" outside the pipeline.
func GetRequestID(ctx context.Context) string {
	if rc, ok := GetRequestContext(ctx); ok {
		return rc.RequestID
	}
	return ""
}

// NewRequestID generates a random correlation ID.
func NewRequestID() string {
	return uuid.NewString()
}

// ClientIP resolves the client identity of r: the host part of the direct
// connection address, else the first X-Forwarded-For entry, else X-Real-IP.
func ClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" && !strings.Contains(r.RemoteAddr, ":") {
		return r.RemoteAddr
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	return UnknownClient
}
