package store

import (
	"testing"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestParseSortField(t *testing.T) {
	tests := map[string]SortField{
		"created_at": SortByCreatedAt,
		"priority":   SortByPriority,
		"due_date":   SortByDueDate,
		"updated_at": SortByCreatedAt,
		"title":      SortByCreatedAt,
		"":           SortByCreatedAt,
		"id; DROP":   SortByCreatedAt,
		"Title":      SortByCreatedAt,
	}
	for raw, want := range tests {
		assert.Equal(t, want, ParseSortField(raw), "raw=%q", raw)
	}
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, SortAsc, ParseSortOrder("asc"))
	assert.Equal(t, SortDesc, ParseSortOrder("desc"))
	assert.Equal(t, SortDesc, ParseSortOrder(""))
	assert.Equal(t, SortDesc, ParseSortOrder("sideways"))
}

func TestTaskFilter_Matches(t *testing.T) {
	completed := domain.TaskStatusCompleted
	high := domain.TaskPriorityHigh

	task := &domain.Task{Status: domain.TaskStatusCompleted, Priority: domain.TaskPriorityLow}

	assert.True(t, TaskFilter{}.Matches(task))
	assert.True(t, TaskFilter{Status: &completed}.Matches(task))
	assert.False(t, TaskFilter{Priority: &high}.Matches(task))
	assert.False(t, TaskFilter{Status: &completed, Priority: &high}.Matches(task))
}
