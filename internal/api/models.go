package api

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/phrazzld/task-api/internal/domain"
)

// naiveLayout matches timestamps without a zone offset; they are read as UTC.
const naiveLayout = "2006-01-02T15:04:05.999999999"

// Timestamp is a request time that accepts RFC 3339 or a zoneless
// ISO 8601 date-time.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.New("timestamp must be a string")
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		ts.Time = t
		return nil
	}
	t, err := time.ParseInLocation(naiveLayout, raw, time.UTC)
	if err != nil {
		return errors.New("timestamp must be an ISO 8601 date-time, got " + string(data))
	}
	ts.Time = t
	return nil
}

// CreateTaskRequest defines the payload for POST /tasks.
type CreateTaskRequest struct {
	Title       string     `json:"title"       validate:"required,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
	Status      string     `json:"status"      validate:"omitempty,oneof=pending in_progress completed"`
	Priority    string     `json:"priority"    validate:"omitempty,oneof=low medium high"`
	DueDate     *Timestamp `json:"due_date"`
}

// Params converts the request into domain constructor parameters.
func (r CreateTaskRequest) Params() domain.NewTaskParams {
	p := domain.NewTaskParams{
		Title:       r.Title,
		Description: r.Description,
		Status:      domain.TaskStatus(r.Status),
		Priority:    domain.TaskPriority(r.Priority),
	}
	if r.DueDate != nil {
		p.DueDate = &r.DueDate.Time
	}
	return p
}

// UpdateTaskRequest defines the payload for PUT /tasks/{id}. Omitted fields
// are left unchanged; description and due_date may be cleared with null.
type UpdateTaskRequest struct {
	Title       *string                    `json:"title"`
	Description domain.Nullable[string]    `json:"description"`
	Status      *string                    `json:"status"`
	Priority    *string                    `json:"priority"`
	DueDate     domain.Nullable[Timestamp] `json:"due_date"`
}

// Patch converts the request into a domain patch, rejecting unknown
// status and priority literals.
func (r UpdateTaskRequest) Patch() (domain.TaskPatch, error) {
	patch := domain.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
	}
	if r.DueDate.Set {
		patch.DueDate = domain.Null[time.Time]()
		if r.DueDate.Value != nil {
			patch.DueDate = domain.Some(r.DueDate.Value.Time)
		}
	}

	verr := &domain.ValidationError{}
	if r.Status != nil {
		s, err := domain.ParseTaskStatus(*r.Status)
		verr.Merge(err)
		patch.Status = &s
	}
	if r.Priority != nil {
		p, err := domain.ParseTaskPriority(*r.Priority)
		verr.Merge(err)
		patch.Priority = &p
	}
	if err := verr.OrNil(); err != nil {
		return domain.TaskPatch{}, err
	}
	return patch, nil
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Version     string    `json:"version"`
	Database    string    `json:"database"`
	Message     string    `json:"message,omitempty"`
	Suggestions []string  `json:"suggestions,omitempty"`
}

// RootResponse is the body of GET /.
type RootResponse struct {
	Message     string            `json:"message"`
	Suggestion  string            `json:"suggestion"`
	Error       string            `json:"error,omitempty"`
	TaskCount   *int              `json:"task_count,omitempty"`
	Version     string            `json:"version"`
	BaseURL     string            `json:"base_url"`
	HealthCheck string            `json:"health_check"`
	Endpoints   map[string]string `json:"available_endpoints"`
	Environment string            `json:"environment"`
}
