package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockEventHandler records the events it receives.
type MockEventHandler struct {
	HandledCount int
	LastEvent    *TaskEvent
	HandlerError error
}

func (m *MockEventHandler) HandleEvent(_ context.Context, event *TaskEvent) error {
	m.HandledCount++
	m.LastEvent = event
	return m.HandlerError
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInMemoryEventEmitter(t *testing.T) {
	event := NewTaskEvent(TaskCreated, uuid.New(), nil, time.Now())

	t.Run("emit event with no handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(discardLogger())
		assert.NoError(t, emitter.EmitEvent(context.Background(), event))
	})

	t.Run("emit event with successful handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(discardLogger())
		handler1 := &MockEventHandler{}
		handler2 := &MockEventHandler{}
		emitter.RegisterHandler(handler1)
		emitter.RegisterHandler(handler2)

		require.NoError(t, emitter.EmitEvent(context.Background(), event))
		assert.Equal(t, 1, handler1.HandledCount)
		assert.Equal(t, 1, handler2.HandledCount)
		assert.Same(t, event, handler1.LastEvent)
		assert.Same(t, event, handler2.LastEvent)
	})

	t.Run("failing handler does not stop dispatch", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(discardLogger())
		first := errors.New("first")
		failing := &MockEventHandler{HandlerError: first}
		second := errors.New("second")
		alsoFailing := &MockEventHandler{HandlerError: second}
		success := &MockEventHandler{}
		emitter.RegisterHandler(failing)
		emitter.RegisterHandler(alsoFailing)
		emitter.RegisterHandler(success)

		err := emitter.EmitEvent(context.Background(), event)
		require.Error(t, err)
		assert.ErrorIs(t, err, first)
		assert.ErrorIs(t, err, second)
		assert.Contains(t, err.Error(), "*events.MockEventHandler: first")
		assert.Equal(t, 1, success.HandledCount)
	})

	t.Run("handler func adapter", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(nil)
		var got *TaskEvent
		emitter.RegisterHandler(HandlerFunc(func(_ context.Context, e *TaskEvent) error {
			got = e
			return nil
		}))

		require.NoError(t, emitter.EmitEvent(context.Background(), event))
		assert.Same(t, event, got)
	})
}

func TestEventType_Operation(t *testing.T) {
	assert.Equal(t, "create", TaskCreated.Operation())
	assert.Equal(t, "update", TaskUpdated.Operation())
	assert.Equal(t, "delete", TaskDeleted.Operation())
	assert.Equal(t, "task.archived", EventType("task.archived").Operation())
}

func TestNewTaskEvent(t *testing.T) {
	taskID := uuid.New()
	at := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	a := NewTaskEvent(TaskDeleted, taskID, nil, at)
	b := NewTaskEvent(TaskDeleted, taskID, nil, at)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, taskID, a.TaskID)
	assert.Equal(t, at, a.OccurredAt)
	assert.Nil(t, a.Task)
}

func TestNopEmitter(t *testing.T) {
	assert.NoError(t, NopEmitter{}.EmitEvent(context.Background(), &TaskEvent{}))
}
