package postgres

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthChecker verifies database connectivity. Concurrent checks share a
// single in-flight ping.
type HealthChecker struct {
	db      Pinger
	timeout time.Duration
	logger  *slog.Logger
	group   singleflight.Group
}

// NewHealthChecker creates a HealthChecker whose pings give up after timeout.
func NewHealthChecker(db Pinger, timeout time.Duration, logger *slog.Logger) *HealthChecker {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HealthChecker{
		db:      db,
		timeout: timeout,
		logger:  logger.With(slog.String("component", "db_health")),
	}
}

// Check pings the database and returns nil when it is reachable.
// Failures are diagnosed and logged.
func (h *HealthChecker) Check(ctx context.Context) error {
	_, err, shared := h.group.Do("ping", func() (interface{}, error) {
		// The shared ping must not die with the first caller's request.
		pingCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.timeout)
		defer cancel()
		return nil, h.db.PingContext(pingCtx)
	})
	if err != nil {
		d := Diagnose(err)
		h.logger.Error("database health check failed",
			slog.String("error", err.Error()),
			slog.String("diagnosis", string(d)),
			slog.String("hint", d.Hint()),
			slog.Bool("shared", shared))
		return MapError(err)
	}
	return nil
}
