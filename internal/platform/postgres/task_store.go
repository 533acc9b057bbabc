package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/store"
)

const taskColumns = `id, title, description, status, priority, due_date, created_at, updated_at`

// priorityRank orders priorities by urgency instead of lexically.
const priorityRank = `CASE priority WHEN 'low' THEN 1 WHEN 'medium' THEN 2 WHEN 'high' THEN 3 ELSE 0 END`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db      store.DBTX
	inTx    bool
	timeout time.Duration
	logger  *slog.Logger
}

// TaskStoreOption configures a PostgresTaskStore.
type TaskStoreOption func(*PostgresTaskStore)

// WithOperationTimeout bounds every store call, including the wait for a
// pooled connection. Inside a transaction the bound applies to the whole
// transaction instead.
func WithOperationTimeout(d time.Duration) TaskStoreOption {
	return func(s *PostgresTaskStore) { s.timeout = d }
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// db is usually a *sql.DB; RunInTx requires it to also implement store.TxBeginner.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger, opts ...TaskStoreOption) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx returns a store bound to tx.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) *PostgresTaskStore {
	return &PostgresTaskStore{
		db:      tx,
		inTx:    true,
		timeout: s.timeout,
		logger:  s.logger,
	}
}

func (s *PostgresTaskStore) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.inTx || s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// RunInTx implements store.TaskStore.RunInTx.
// A store already bound to a transaction runs fn inside that transaction.
func (s *PostgresTaskStore) RunInTx(
	ctx context.Context,
	opts *sql.TxOptions,
	fn func(ctx context.Context, s store.TaskStore) error,
) error {
	if s.inTx {
		return fn(ctx, s)
	}

	beginner, ok := s.db.(store.TxBeginner)
	if !ok {
		return store.NewStoreError("task", "transaction", "database handle cannot begin transactions", nil)
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	err := store.RunInTransaction(ctx, beginner, opts, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, s.WithTx(tx))
	})
	return MapError(err)
}

// Create implements store.TaskStore.Create.
// Returns store.ErrDuplicate if the ID is already taken and store.ErrInvalidEntity
// if the row violates a table constraint.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	ctx, cancel := s.bound(ctx)
	defer cancel()

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		nullString(task.Description),
		string(task.Status),
		string(task.Priority),
		nullTime(task.DueDate),
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	log.Debug("task created", slog.String("task_id", task.ID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.getByID(ctx, id, false)
}

// LockByID implements store.TaskStore.LockByID with SELECT ... FOR UPDATE.
func (s *PostgresTaskStore) LockByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.getByID(ctx, id, s.inTx)
}

func (s *PostgresTaskStore) getByID(ctx context.Context, id uuid.UUID, lock bool) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	ctx, cancel := s.bound(ctx)
	defer cancel()

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}
	return task, nil
}

// Update implements store.TaskStore.Update.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	ctx, cancel := s.bound(ctx)
	defer cancel()

	query := `
		UPDATE tasks
		SET title = $2, description = $3, status = $4, priority = $5, due_date = $6, updated_at = $7
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		nullString(task.Description),
		string(task.Status),
		string(task.Priority),
		nullTime(task.DueDate),
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Debug("task updated", slog.String("task_id", task.ID.String()))
	return nil
}

// Delete implements store.TaskStore.Delete.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	ctx, cancel := s.bound(ctx)
	defer cancel()

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Debug("task deleted", slog.String("task_id", id.String()))
	return nil
}

// Count implements store.TaskStore.Count.
func (s *PostgresTaskStore) Count(ctx context.Context, f store.TaskFilter) (int, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	where, args := filterClause(f)
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`+where, args...).Scan(&total); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count tasks",
			slog.String("error", err.Error()))
		return 0, MapError(err)
	}
	return total, nil
}

// List implements store.TaskStore.List.
func (s *PostgresTaskStore) List(ctx context.Context, q store.TaskQuery) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	ctx, cancel := s.bound(ctx)
	defer cancel()

	query, args := listQuery(q)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0, q.Limit)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return tasks, nil
}

func filterClause(f store.TaskFilter) (string, []any) {
	var conds []string
	var args []any
	if f.Status != nil {
		args = append(args, string(*f.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Priority != nil {
		args = append(args, string(*f.Priority))
		conds = append(conds, fmt.Sprintf("priority = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// orderClause only ever emits fixed column expressions; raw input never
// reaches the SQL text.
func orderClause(field store.SortField, order store.SortOrder) string {
	dir := "DESC"
	if order == store.SortAsc {
		dir = "ASC"
	}

	switch field {
	case store.SortByPriority:
		return priorityRank + " " + dir + ", id " + dir
	case store.SortByDueDate:
		return "due_date " + dir + " NULLS LAST, id " + dir
	default:
		return "created_at " + dir + ", id " + dir
	}
}

func listQuery(q store.TaskQuery) (string, []any) {
	where, args := filterClause(q.Filter)
	args = append(args, q.Limit, q.Offset)
	query := fmt.Sprintf(`SELECT %s FROM tasks%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		taskColumns, where, orderClause(q.SortBy, q.Order), len(args)-1, len(args))
	return query, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		t           domain.Task
		description sql.NullString
		status      string
		priority    string
		dueDate     sql.NullTime
	)
	if err := row.Scan(
		&t.ID,
		&t.Title,
		&description,
		&status,
		&priority,
		&dueDate,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}

	t.Status = domain.TaskStatus(status)
	t.Priority = domain.TaskPriority(priority)
	if description.Valid {
		t.Description = &description.String
	}
	if dueDate.Valid {
		due := dueDate.Time.UTC()
		t.DueDate = &due
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
