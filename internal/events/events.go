package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/task-api/internal/domain"
)

// EventType names a task lifecycle transition.
type EventType string

// Task lifecycle events.
const (
	TaskCreated EventType = "task.created"
	TaskUpdated EventType = "task.updated"
	TaskDeleted EventType = "task.deleted"
)

// Operation returns the mutation name without the "task." prefix.
func (t EventType) Operation() string {
	switch t {
	case TaskCreated:
		return "create"
	case TaskUpdated:
		return "update"
	case TaskDeleted:
		return "delete"
	}
	return string(t)
}

// TaskEvent records one successful task mutation.
type TaskEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	Type   EventType `json:"type"`
	TaskID uuid.UUID `json:"task_id"`

	// Task is the task state after the mutation. It is nil for deletions.
	Task *domain.Task `json:"task,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
}

// NewTaskEvent creates a TaskEvent with a fresh ID.
func NewTaskEvent(eventType EventType, taskID uuid.UUID, task *domain.Task, at time.Time) *TaskEvent {
	return &TaskEvent{
		ID:         uuid.New(),
		Type:       eventType,
		TaskID:     taskID,
		Task:       task,
		OccurredAt: at,
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *TaskEvent) error
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc func(ctx context.Context, event *TaskEvent) error

// HandleEvent implements EventHandler.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *TaskEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *TaskEvent) error
}

// NopEmitter discards every event.
type NopEmitter struct{}

// EmitEvent implements EventEmitter.
func (NopEmitter) EmitEvent(context.Context, *TaskEvent) error { return nil }
