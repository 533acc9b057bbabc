package events

import (
	"context"
	"log/slog"

	"github.com/phrazzld/task-api/internal/platform/logger"
)

// LogHandler writes each event to the request-scoped logger.
type LogHandler struct {
	fallback *slog.Logger
}

// NewLogHandler creates a LogHandler that uses fallback when the context
// carries no logger.
func NewLogHandler(fallback *slog.Logger) *LogHandler {
	return &LogHandler{fallback: fallback}
}

// HandleEvent implements EventHandler.
func (h *LogHandler) HandleEvent(ctx context.Context, event *TaskEvent) error {
	logger.FromContextOrDefault(ctx, h.fallback).Info("task event",
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", string(event.Type)),
		slog.String("task_id", event.TaskID.String()),
		slog.Time("occurred_at", event.OccurredAt))
	return nil
}
