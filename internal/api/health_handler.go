package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/platform/logger"
)

// Health states reported by GET /health.
const (
	StatusHealthy       = "healthy"
	StatusDegraded      = "degraded"
	DatabaseConnected   = "connected"
	DatabaseUnavailable = "disconnected"
)

// DatabaseChecker reports whether the database can serve queries.
type DatabaseChecker interface {
	Check(ctx context.Context) error
}

// HealthHandler serves GET /health.
type HealthHandler struct {
	db      DatabaseChecker
	version string
	now     func() time.Time
	logger  *slog.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db DatabaseChecker, version string, logger *slog.Logger) *HealthHandler {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil for HealthHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		db:      db,
		version: version,
		now:     time.Now,
		logger:  logger.With(slog.String("component", "health_handler")),
	}
}

// Health reports service and database status. A database outage degrades
// the service and answers 503 with recovery suggestions.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    StatusHealthy,
		Timestamp: h.now().UTC(),
		Version:   h.version,
		Database:  DatabaseConnected,
	}

	status := http.StatusOK
	if err := h.db.Check(r.Context()); err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Warn("health check found database unavailable")

		status = http.StatusServiceUnavailable
		resp.Status = StatusDegraded
		resp.Database = DatabaseUnavailable
		resp.Message = "API is running but database is unavailable"
		resp.Suggestions = []string{
			"Start PostgreSQL and make sure it accepts connections",
			"Check the database configuration (TASKAPI_DATABASE_URL)",
			"Verify database credentials and connection string",
		}
	}

	shared.RespondWithJSON(w, r, status, resp)
}
