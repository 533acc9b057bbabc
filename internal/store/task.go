package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/task-api/internal/domain"
)

// SortField names a column tasks can be ordered by.
type SortField string

// Sortable task fields.
const (
	SortByCreatedAt SortField = "created_at"
	SortByDueDate   SortField = "due_date"
	SortByPriority  SortField = "priority"
)

// SortOrder is the direction of a sort.
type SortOrder string

// Sort directions.
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortField resolves a raw sort key. Unknown keys fall back to created_at.
func ParseSortField(raw string) SortField {
	switch f := SortField(raw); f {
	case SortByCreatedAt, SortByDueDate, SortByPriority:
		return f
	}
	return SortByCreatedAt
}

// ParseSortOrder resolves a raw direction. Anything but "asc" sorts descending.
func ParseSortOrder(raw string) SortOrder {
	if SortOrder(raw) == SortAsc {
		return SortAsc
	}
	return SortDesc
}

// TaskFilter restricts a listing to tasks matching every non-nil field.
type TaskFilter struct {
	Status   *domain.TaskStatus
	Priority *domain.TaskPriority
}

// Matches reports whether t satisfies the filter.
func (f TaskFilter) Matches(t *domain.Task) bool {
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	return true
}

// TaskQuery describes one page of a filtered, sorted listing.
// Ties on SortBy are broken by id so pages never overlap.
type TaskQuery struct {
	Filter TaskFilter
	SortBy SortField
	Order  SortOrder
	Offset int
	Limit  int
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns store.ErrDuplicate if a task with the same ID exists.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns store.ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// LockByID retrieves a task and holds a row lock on it until the
	// surrounding transaction ends. Outside a transaction it behaves like GetByID.
	LockByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update overwrites every mutable column of an existing task.
	// Returns store.ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task by its unique ID.
	// Returns store.ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns one page of tasks matching q.
	List(ctx context.Context, q TaskQuery) ([]*domain.Task, error)

	// Count returns the number of tasks matching f.
	Count(ctx context.Context, f TaskFilter) (int, error)

	// RunInTx runs fn with a store bound to a single transaction.
	// The transaction commits when fn returns nil.
	RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, s TaskStore) error) error
}
