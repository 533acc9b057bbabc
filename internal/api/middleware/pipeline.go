package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/task-api/internal/metrics"
	"github.com/phrazzld/task-api/internal/ratelimit"
)

// Middleware wraps an http.Handler with one pipeline stage.
type Middleware func(http.Handler) http.Handler

// Chain composes stages in declaration order: the first stage is the
// outermost and sees the request first.
func Chain(stages ...Middleware) Middleware {
	return func(next http.Handler) http.Handler {
		for i := len(stages) - 1; i >= 0; i-- {
			next = stages[i](next)
		}
		return next
	}
}

// PipelineConfig selects and configures the pipeline stages.
type PipelineConfig struct {
	Logger *slog.Logger

	// SecurityHeaders enables the security header stage. Production adds HSTS.
	SecurityHeaders bool
	Production      bool

	// MaxBodyBytes bounds request bodies; zero disables the size guard.
	MaxBodyBytes int64

	CORS CORSConfig

	// Limiter enables the rate limiting stage when non-nil.
	Limiter *ratelimit.Limiter

	Metrics *metrics.Metrics

	// Now overrides the clock used for timing. Defaults to time.Now.
	Now func() time.Time
}

// NewPipeline builds the request pipeline in its fixed order: request
// context, security headers, size guard, CORS, rate limiting, logging.
// Disabled stages are left out.
func NewPipeline(cfg PipelineConfig) Middleware {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	stages := []Middleware{RequestContext(cfg.Now)}
	if cfg.SecurityHeaders {
		stages = append(stages, SecurityHeaders(cfg.Production))
	}
	if cfg.MaxBodyBytes > 0 {
		stages = append(stages, SizeGuard(cfg.MaxBodyBytes, cfg.Logger))
	}
	stages = append(stages, CORS(cfg.CORS))
	if cfg.Limiter != nil {
		stages = append(stages, RateLimit(cfg.Limiter, cfg.Metrics, cfg.Logger))
	}
	stages = append(stages, Logging(cfg.Logger, cfg.Metrics, cfg.Now))

	return Chain(stages...)
}
