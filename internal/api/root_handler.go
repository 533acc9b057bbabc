package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/redact"
	"github.com/phrazzld/task-api/internal/service"
)

// RootHandler serves the API landing page at GET /.
type RootHandler struct {
	tasks       service.TaskService
	version     string
	environment string
	logger      *slog.Logger
}

// NewRootHandler creates a new RootHandler.
func NewRootHandler(tasks service.TaskService, version, environment string, logger *slog.Logger) *RootHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RootHandler{
		tasks:       tasks,
		version:     version,
		environment: environment,
		logger:      logger.With(slog.String("component", "root_handler")),
	}
}

// Root describes the API and how many tasks are stored. When the count
// cannot be read it still answers 200 with a hint to check the database.
func (h *RootHandler) Root(w http.ResponseWriter, r *http.Request) {
	base := baseURL(r)
	resp := RootResponse{
		Version:     h.version,
		BaseURL:     base,
		HealthCheck: base + "/health",
		Environment: h.environment,
		Endpoints: map[string]string{
			"list":   "GET /tasks",
			"get":    "GET /tasks/{id}",
			"create": "POST /tasks",
			"update": "PUT /tasks/{id}",
			"delete": "DELETE /tasks/{id}",
			"health": "GET /health",
		},
	}

	count, err := h.tasks.CountTasks(r.Context())
	switch {
	case err != nil:
		logger.FromContextOrDefault(r.Context(), h.logger).Error("failed to count tasks for landing page",
			redact.Attr(err))
		resp.Message = "Welcome to Task Management API!"
		resp.Error = "Could not check task status (database may not be initialized)"
		resp.Suggestion = "Check API health and run database migrations"
	case count == 0:
		resp.TaskCount = &count
		resp.Message = "Welcome to Task Management API! No tasks found in the system."
		resp.Suggestion = fmt.Sprintf("Create your first task: POST %s/tasks", base)
	default:
		resp.TaskCount = &count
		plural := "s"
		if count == 1 {
			plural = ""
		}
		resp.Message = fmt.Sprintf("Welcome to Task Management API! You have %d task%s in the system.", count, plural)
		resp.Suggestion = fmt.Sprintf("Get all tasks: GET %s/tasks", base)
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	host := r.Host
	if host == "" {
		host = "localhost:8000"
	}
	return scheme + "://" + host
}
