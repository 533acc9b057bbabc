package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/events"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/store"
)

// Pagination bounds for ListTasks.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ListParams carries the raw listing parameters of a request.
// Status and Priority are validated literals; SortBy and Order fall back to
// created_at and desc when unrecognized.
type ListParams struct {
	Status   *string
	Priority *string
	SortBy   string
	Order    string
	Page     int
	Limit    int
}

// TaskPage is one page of a task listing.
type TaskPage struct {
	Items []*domain.Task `json:"items"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Pages int            `json:"pages"`
}

// TaskService provides task-related operations.
type TaskService interface {
	// ListTasks returns one filtered, sorted page of tasks and the total
	// number of matching tasks.
	ListTasks(ctx context.Context, params ListParams) (*TaskPage, error)

	// GetTask retrieves a task by its ID.
	GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// CreateTask validates and persists a new task.
	CreateTask(ctx context.Context, params domain.NewTaskParams) (*domain.Task, error)

	// UpdateTask applies a partial update to an existing task.
	UpdateTask(ctx context.Context, id uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)

	// DeleteTask permanently removes a task.
	DeleteTask(ctx context.Context, id uuid.UUID) error

	// CountTasks returns the total number of stored tasks.
	CountTasks(ctx context.Context) (int, error)
}

// TaskServiceError wraps errors from the task service with context.
type TaskServiceError struct {
	// Operation is the operation that failed (e.g., "create_task", "list_tasks")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
// Not-found conditions collapse to ErrTaskNotFound and validation errors are
// returned unchanged so callers can inspect their fields.
func NewTaskServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrTaskNotFound) || errors.Is(err, store.ErrTaskNotFound) {
		return ErrTaskNotFound
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr
	}

	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// TaskServiceOption configures a task service.
type TaskServiceOption func(*taskServiceImpl)

// WithClock replaces the wall clock used for timestamps.
func WithClock(now func() time.Time) TaskServiceOption {
	return func(s *taskServiceImpl) { s.now = now }
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	store        store.TaskStore
	eventEmitter events.EventEmitter
	now          func() time.Time
	logger       *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	taskStore store.TaskStore,
	eventEmitter events.EventEmitter,
	logger *slog.Logger,
	opts ...TaskServiceOption,
) (TaskService, error) {
	if taskStore == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "taskStore cannot be nil",
		}
	}
	if eventEmitter == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "eventEmitter cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &taskServiceImpl{
		store:        taskStore,
		eventEmitter: eventEmitter,
		now:          time.Now,
		logger:       logger.With(slog.String("component", "task_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// clock returns the current time in UTC at the precision PostgreSQL stores.
func (s *taskServiceImpl) clock() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// ListTasks implements TaskService.ListTasks.
// The count and the page are read from a single snapshot.
func (s *taskServiceImpl) ListTasks(ctx context.Context, params ListParams) (*TaskPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	q, err := buildQuery(params)
	if err != nil {
		return nil, err
	}

	page := &TaskPage{Page: params.Page, Limit: params.Limit}
	err = s.store.RunInTx(ctx, store.ReadOnly, func(ctx context.Context, tx store.TaskStore) error {
		total, err := tx.Count(ctx, q.Filter)
		if err != nil {
			return err
		}
		items, err := tx.List(ctx, q)
		if err != nil {
			return err
		}
		page.Total = total
		page.Items = items
		return nil
	})
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}

	page.Pages = (page.Total + page.Limit - 1) / page.Limit
	log.Debug("listed tasks",
		slog.Int("count", len(page.Items)),
		slog.Int("total", page.Total),
		slog.Int("page", page.Page))
	return page, nil
}

// buildQuery validates listing parameters and translates them into a store query.
func buildQuery(params ListParams) (store.TaskQuery, error) {
	verr := &domain.ValidationError{}
	var filter store.TaskFilter

	if params.Status != nil {
		status, err := domain.ParseTaskStatus(*params.Status)
		verr.Merge(err)
		if err == nil {
			filter.Status = &status
		}
	}
	if params.Priority != nil {
		priority, err := domain.ParseTaskPriority(*params.Priority)
		verr.Merge(err)
		if err == nil {
			filter.Priority = &priority
		}
	}
	if params.Page < 1 {
		verr.Add("page", "must be greater than or equal to 1", domain.ErrInvalidPage)
	}
	if params.Limit < 1 || params.Limit > MaxPageSize {
		verr.Add("limit", fmt.Sprintf("must be between 1 and %d", MaxPageSize), domain.ErrInvalidPage)
	} else if params.Page > 1 && params.Page-1 > math.MaxInt/params.Limit {
		verr.Add("page", "is too large", domain.ErrInvalidPage)
	}
	if err := verr.OrNil(); err != nil {
		return store.TaskQuery{}, err
	}

	return store.TaskQuery{
		Filter: filter,
		SortBy: store.ParseSortField(params.SortBy),
		Order:  store.ParseSortOrder(params.Order),
		Offset: (params.Page - 1) * params.Limit,
		Limit:  params.Limit,
	}, nil
}

// GetTask implements TaskService.GetTask.
func (s *taskServiceImpl) GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	task, err := s.store.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to get task",
				slog.String("error", err.Error()),
				slog.String("task_id", id.String()))
		}
		return nil, NewTaskServiceError("get_task", "failed to retrieve task", err)
	}
	return task, nil
}

// CreateTask implements TaskService.CreateTask.
func (s *taskServiceImpl) CreateTask(ctx context.Context, params domain.NewTaskParams) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(params, s.clock())
	if err != nil {
		log.Debug("rejected invalid task", slog.String("error", err.Error()))
		return nil, err
	}

	err = s.store.RunInTx(ctx, nil, func(ctx context.Context, tx store.TaskStore) error {
		return tx.Create(ctx, task)
	})
	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return nil, NewTaskServiceError("create_task", "failed to save task", err)
	}

	log.Info("task created", slog.String("task_id", task.ID.String()))
	s.emit(ctx, events.TaskCreated, task.ID, task)
	return task, nil
}

// UpdateTask implements TaskService.UpdateTask.
// The row is locked for the duration of the read-merge-write cycle.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	id uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Task
	err := s.store.RunInTx(ctx, nil, func(ctx context.Context, tx store.TaskStore) error {
		task, err := tx.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if err := task.Apply(patch, s.clock()); err != nil {
			return err
		}
		if err := tx.Update(ctx, task); err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		if !isExpected(err) {
			log.Error("failed to update task",
				slog.String("error", err.Error()),
				slog.String("task_id", id.String()))
		}
		return nil, NewTaskServiceError("update_task", "failed to update task", err)
	}

	log.Info("task updated", slog.String("task_id", id.String()))
	s.emit(ctx, events.TaskUpdated, id, updated)
	return updated, nil
}

// DeleteTask implements TaskService.DeleteTask.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.store.RunInTx(ctx, nil, func(ctx context.Context, tx store.TaskStore) error {
		return tx.Delete(ctx, id)
	})
	if err != nil {
		if !isExpected(err) {
			log.Error("failed to delete task",
				slog.String("error", err.Error()),
				slog.String("task_id", id.String()))
		}
		return NewTaskServiceError("delete_task", "failed to delete task", err)
	}

	log.Info("task deleted", slog.String("task_id", id.String()))
	s.emit(ctx, events.TaskDeleted, id, nil)
	return nil
}

// CountTasks implements TaskService.CountTasks.
func (s *taskServiceImpl) CountTasks(ctx context.Context) (int, error) {
	n, err := s.store.Count(ctx, store.TaskFilter{})
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count tasks",
			slog.String("error", err.Error()))
		return 0, NewTaskServiceError("count_tasks", "failed to count tasks", err)
	}
	return n, nil
}

// emit publishes a task event after the mutation has committed. Failures are
// logged and never reach the caller.
func (s *taskServiceImpl) emit(ctx context.Context, eventType events.EventType, id uuid.UUID, task *domain.Task) {
	event := events.NewTaskEvent(eventType, id, task, s.clock())
	if err := s.eventEmitter.EmitEvent(ctx, event); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to emit task event",
			slog.String("error", err.Error()),
			slog.String("event_type", string(eventType)),
			slog.String("task_id", id.String()))
	}
}

func isExpected(err error) bool {
	return store.IsNotFoundError(err) || errors.Is(err, domain.ErrValidation)
}
