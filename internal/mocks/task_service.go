package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/service"
)

// MockTaskService implements service.TaskService for testing
type MockTaskService struct {
	// Custom behavior functions
	ListTasksFn  func(ctx context.Context, params service.ListParams) (*service.TaskPage, error)
	GetTaskFn    func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	CreateTaskFn func(ctx context.Context, params domain.NewTaskParams) (*domain.Task, error)
	UpdateTaskFn func(ctx context.Context, id uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)
	DeleteTaskFn func(ctx context.Context, id uuid.UUID) error
	CountTasksFn func(ctx context.Context) (int, error)

	// Default return values
	Task         *domain.Task
	Page         *service.TaskPage
	Count        int
	DefaultError error
}

var _ service.TaskService = (*MockTaskService)(nil)

// ListTasks implements the TaskService.ListTasks method
func (m *MockTaskService) ListTasks(ctx context.Context, params service.ListParams) (*service.TaskPage, error) {
	if m.ListTasksFn != nil {
		return m.ListTasksFn(ctx, params)
	}
	return m.Page, m.DefaultError
}

// GetTask implements the TaskService.GetTask method
func (m *MockTaskService) GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.GetTaskFn != nil {
		return m.GetTaskFn(ctx, id)
	}
	return m.Task, m.DefaultError
}

// CreateTask implements the TaskService.CreateTask method
func (m *MockTaskService) CreateTask(ctx context.Context, params domain.NewTaskParams) (*domain.Task, error) {
	if m.CreateTaskFn != nil {
		return m.CreateTaskFn(ctx, params)
	}
	return m.Task, m.DefaultError
}

// UpdateTask implements the TaskService.UpdateTask method
func (m *MockTaskService) UpdateTask(ctx context.Context, id uuid.UUID, patch domain.TaskPatch) (*domain.Task, error) {
	if m.UpdateTaskFn != nil {
		return m.UpdateTaskFn(ctx, id, patch)
	}
	return m.Task, m.DefaultError
}

// DeleteTask implements the TaskService.DeleteTask method
func (m *MockTaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if m.DeleteTaskFn != nil {
		return m.DeleteTaskFn(ctx, id)
	}
	return m.DefaultError
}

// CountTasks implements the TaskService.CountTasks method
func (m *MockTaskService) CountTasks(ctx context.Context) (int, error) {
	if m.CountTasksFn != nil {
		return m.CountTasksFn(ctx)
	}
	return m.Count, m.DefaultError
}
