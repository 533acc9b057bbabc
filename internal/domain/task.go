package domain

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// TaskStatus represents the progress state of a task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// TaskPriority represents how urgent a task is.
type TaskPriority string

// Possible task priority values
const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Field limits for tasks.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
)

// TaskStatuses lists every valid status literal in declaration order.
func TaskStatuses() []string {
	return []string{
		string(TaskStatusPending),
		string(TaskStatusInProgress),
		string(TaskStatusCompleted),
	}
}

// TaskPriorities lists every valid priority literal in ascending rank.
func TaskPriorities() []string {
	return []string{
		string(TaskPriorityLow),
		string(TaskPriorityMedium),
		string(TaskPriorityHigh),
	}
}

// Valid reports whether s is a recognized status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Valid reports whether p is a recognized priority.
func (p TaskPriority) Valid() bool {
	return p.Rank() > 0
}

// Rank orders priorities low < medium < high. Unknown priorities rank 0.
func (p TaskPriority) Rank() int {
	switch p {
	case TaskPriorityLow:
		return 1
	case TaskPriorityMedium:
		return 2
	case TaskPriorityHigh:
		return 3
	}
	return 0
}

// ParseTaskStatus converts a raw literal into a TaskStatus.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	s := TaskStatus(raw)
	if !s.Valid() {
		return "", NewEnumError("status", raw, TaskStatuses(), ErrInvalidStatus)
	}
	return s, nil
}

// ParseTaskPriority converts a raw literal into a TaskPriority.
func ParseTaskPriority(raw string) (TaskPriority, error) {
	p := TaskPriority(raw)
	if !p.Valid() {
		return "", NewEnumError("priority", raw, TaskPriorities(), ErrInvalidPriority)
	}
	return p, nil
}

// Task is a single unit of work tracked by the API.
type Task struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"due_date"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewTaskParams carries the caller-supplied fields of a new task.
// Zero-valued Status and Priority fall back to pending and medium.
type NewTaskParams struct {
	Title       string
	Description *string
	Status      TaskStatus
	Priority    TaskPriority
	DueDate     *time.Time
}

// NewTask creates a Task with a fresh ID, defaults applied and both
// timestamps set to now. Returns a *ValidationError if any field is invalid.
func NewTask(p NewTaskParams, now time.Time) (*Task, error) {
	t := &Task{
		ID:          uuid.New(),
		Title:       p.Title,
		Description: p.Description,
		Status:      p.Status,
		Priority:    p.Priority,
		DueDate:     p.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if t.Status == "" {
		t.Status = TaskStatusPending
	}
	if t.Priority == "" {
		t.Priority = TaskPriorityMedium
	}

	verr := &ValidationError{}
	verr.Merge(t.Validate())
	verr.Merge(ValidateDueDate(t.DueDate, now))
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks the field invariants that hold for every stored task.
// The due-date-in-future rule is not included: it only applies at the moment
// a due date is supplied.
func (t *Task) Validate() error {
	verr := &ValidationError{}

	if n := utf8.RuneCountInString(t.Title); n < 1 || n > MaxTitleLength {
		verr.Add("title", "must be between 1 and 200 characters", ErrTitleLength)
	}
	if t.Description != nil && utf8.RuneCountInString(*t.Description) > MaxDescriptionLength {
		verr.Add("description", "must be at most 1000 characters", ErrDescriptionLength)
	}
	if !t.Status.Valid() {
		verr.Merge(NewEnumError("status", string(t.Status), TaskStatuses(), ErrInvalidStatus))
	}
	if !t.Priority.Valid() {
		verr.Merge(NewEnumError("priority", string(t.Priority), TaskPriorities(), ErrInvalidPriority))
	}
	if t.UpdatedAt.Before(t.CreatedAt) {
		verr.Add("updated_at", "must not precede created_at", ErrTimestampOrder)
	}

	return verr.OrNil()
}

// ValidateDueDate rejects a supplied due date that is not strictly after now.
func ValidateDueDate(due *time.Time, now time.Time) error {
	if due != nil && !due.After(now) {
		return NewValidationError("due_date", "must be in the future", ErrDueDateNotInFuture)
	}
	return nil
}

// TaskPatch holds the fields of a partial update. Nil pointers and unset
// Nullables leave the stored value untouched.
type TaskPatch struct {
	Title       *string
	Description Nullable[string]
	Status      *TaskStatus
	Priority    *TaskPriority
	DueDate     Nullable[time.Time]
}

// IsEmpty reports whether the patch changes no field.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && !p.Description.Set && p.Status == nil &&
		p.Priority == nil && !p.DueDate.Set
}

// Apply merges the patch into the task, validates the merged result and
// touches UpdatedAt. On error the task is left unchanged.
func (t *Task) Apply(p TaskPatch, now time.Time) error {
	merged := *t
	if p.Title != nil {
		merged.Title = *p.Title
	}
	if p.Description.Set {
		merged.Description = p.Description.Value
	}
	if p.Status != nil {
		merged.Status = *p.Status
	}
	if p.Priority != nil {
		merged.Priority = *p.Priority
	}
	if p.DueDate.Set {
		merged.DueDate = p.DueDate.Value
	}
	merged.Touch(now)

	verr := &ValidationError{}
	verr.Merge(merged.Validate())
	if p.DueDate.Set {
		verr.Merge(ValidateDueDate(p.DueDate.Value, now))
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	*t = merged
	return nil
}

// Touch refreshes UpdatedAt. UpdatedAt always moves forward, even when the
// clock has not advanced since the previous mutation.
func (t *Task) Touch(now time.Time) {
	if now.After(t.UpdatedAt) {
		t.UpdatedAt = now
		return
	}
	t.UpdatedAt = t.UpdatedAt.Add(time.Microsecond)
}
