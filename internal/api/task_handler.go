package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/service"
)

// TaskIDParam is the chi URL parameter holding a task ID.
const TaskIDParam = "id"

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	tasks  service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(tasks service.TaskService, logger *slog.Logger) *TaskHandler {
	if tasks == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("tasks cannot be nil for TaskHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskHandler{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_handler")),
	}
}

// ListTasks handles GET /tasks requests.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	params, err := listParams(r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	page, err := h.tasks.ListTasks(r.Context(), params)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Debug("listed tasks",
		slog.Int("count", len(page.Items)),
		slog.Int("total", page.Total))
	shared.RespondWithJSON(w, r, http.StatusOK, page)
}

// listParams reads the listing query parameters, applying page and limit defaults.
func listParams(r *http.Request) (service.ListParams, error) {
	q := r.URL.Query()
	params := service.ListParams{
		SortBy: q.Get("sort_by"),
		Order:  q.Get("order"),
		Page:   1,
		Limit:  service.DefaultPageSize,
	}
	if q.Has("status") {
		status := q.Get("status")
		params.Status = &status
	}
	if q.Has("priority") {
		priority := q.Get("priority")
		params.Priority = &priority
	}

	verr := &domain.ValidationError{}
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			verr.Add("page", "must be an integer", domain.ErrInvalidPage)
		}
		params.Page = n
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			verr.Add("limit", "must be an integer", domain.ErrInvalidPage)
		}
		params.Limit = n
	}
	return params, verr.OrNil()
}

// GetTask handles GET /tasks/{id} requests.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(r.Context(), id)
	if err != nil {
		h.respondTaskError(w, r, id, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// CreateTask handles POST /tasks requests.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	task, err := h.tasks.CreateTask(r.Context(), req.Params())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Debug("created task", slog.String("task_id", task.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, task)
}

// UpdateTask handles PUT /tasks/{id} requests.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	patch, err := req.Patch()
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	task, err := h.tasks.UpdateTask(r.Context(), id, patch)
	if err != nil {
		h.respondTaskError(w, r, id, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// DeleteTask handles DELETE /tasks/{id} requests.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), id); err != nil {
		h.respondTaskError(w, r, id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathID parses the task ID from the URL. Malformed IDs are answered with 422.
func (h *TaskHandler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, TaskIDParam)
	id, err := uuid.Parse(raw)
	if err != nil {
		HandleAPIError(w, r, domain.NewValidationError("task_id", "must be a valid UUID", domain.ErrInvalidID))
		return uuid.Nil, false
	}
	return id, true
}

// respondTaskError names the task in not-found responses.
func (h *TaskHandler) respondTaskError(w http.ResponseWriter, r *http.Request, id uuid.UUID, err error) {
	if MapErrorToStatusCode(err) == http.StatusNotFound {
		body := shared.NewErrorResponse(r, http.StatusNotFound, fmt.Sprintf("Task with ID %s not found", id))
		shared.RespondWithErrorBody(w, r, body, err)
		return
	}
	HandleAPIError(w, r, err)
}
