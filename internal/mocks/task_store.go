package mocks

import (
	"bytes"
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing.
// Without function overrides it behaves like an in-memory database: stored
// tasks are copied on the way in and out, listings follow the same ordering
// rules as PostgreSQL, and RunInTx rolls back on error.
type MockTaskStore struct {
	// Function fields for customizable behavior
	CreateFn  func(ctx context.Context, task *domain.Task) error
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	UpdateFn  func(ctx context.Context, task *domain.Task) error
	DeleteFn  func(ctx context.Context, id uuid.UUID) error
	ListFn    func(ctx context.Context, q store.TaskQuery) ([]*domain.Task, error)
	CountFn   func(ctx context.Context, f store.TaskFilter) (int, error)
	RunInTxFn func(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, s store.TaskStore) error) error

	// Err, when set, is returned by every call that has no override.
	Err error

	// TxOptions records the options of every RunInTx call.
	TxOptions []*sql.TxOptions

	txMu  sync.Mutex
	mu    sync.Mutex
	tasks map[uuid.UUID]domain.Task
}

// NewMockTaskStore creates an empty in-memory task store.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{tasks: make(map[uuid.UUID]domain.Task)}
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// Seed stores tasks directly, bypassing Create.
func (m *MockTaskStore) Seed(tasks ...*domain.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range tasks {
		m.tasks[t.ID] = *t
	}
}

// Len returns the number of stored tasks.
func (m *MockTaskStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.tasks[task.ID]; exists {
		return store.ErrDuplicate
	}
	m.tasks[task.ID] = *task
	return nil
}

// GetByID implements the TaskStore interface
func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return &t, nil
}

// LockByID implements the TaskStore interface. Transactions are already
// serialized, so it is the same as GetByID.
func (m *MockTaskStore) LockByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return m.GetByID(ctx, id)
}

// Update implements the TaskStore interface
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[task.ID]; !ok {
		return store.ErrTaskNotFound
	}
	m.tasks[task.ID] = *task
	return nil
}

// Delete implements the TaskStore interface
func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

// Count implements the TaskStore interface
func (m *MockTaskStore) Count(ctx context.Context, f store.TaskFilter) (int, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, f)
	}
	if m.Err != nil {
		return 0, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		if f.Matches(&t) {
			n++
		}
	}
	return n, nil
}

// List implements the TaskStore interface
func (m *MockTaskStore) List(ctx context.Context, q store.TaskQuery) ([]*domain.Task, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, q)
	}
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	matched := make([]*domain.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		if q.Filter.Matches(&t) {
			t := t
			matched = append(matched, &t)
		}
	}
	m.mu.Unlock()

	SortTasks(matched, q.SortBy, q.Order)

	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.Offset >= len(matched) {
		return []*domain.Task{}, nil
	}
	end := len(matched)
	if q.Limit >= 0 && q.Limit < end-q.Offset {
		end = q.Offset + q.Limit
	}
	return matched[q.Offset:end], nil
}

// RunInTx implements the TaskStore interface. Transactions run one at a
// time and the stored tasks are restored if fn fails.
func (m *MockTaskStore) RunInTx(
	ctx context.Context,
	opts *sql.TxOptions,
	fn func(ctx context.Context, s store.TaskStore) error,
) error {
	if m.RunInTxFn != nil {
		return m.RunInTxFn(ctx, opts, fn)
	}

	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	m.TxOptions = append(m.TxOptions, opts)
	snapshot := make(map[uuid.UUID]domain.Task, len(m.tasks))
	for id, t := range m.tasks {
		snapshot[id] = t
	}
	m.mu.Unlock()

	if err := fn(ctx, m); err != nil {
		m.mu.Lock()
		m.tasks = snapshot
		m.mu.Unlock()
		return err
	}
	return nil
}

// SortTasks orders tasks the way the PostgreSQL store does: priority by
// rank, due dates with nulls last in either direction, and id as the final
// tiebreaker in the requested direction.
func SortTasks(tasks []*domain.Task, field store.SortField, order store.SortOrder) {
	desc := order != store.SortAsc

	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]

		if field == store.SortByDueDate && (a.DueDate == nil) != (b.DueDate == nil) {
			return b.DueDate == nil
		}

		c := compareBy(a, b, field)
		if c == 0 {
			c = bytes.Compare(a.ID[:], b.ID[:])
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func compareBy(a, b *domain.Task, field store.SortField) int {
	switch field {
	case store.SortByPriority:
		return a.Priority.Rank() - b.Priority.Rank()
	case store.SortByDueDate:
		if a.DueDate == nil {
			return 0
		}
		return a.DueDate.Compare(*b.DueDate)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}
