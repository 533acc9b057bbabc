package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic error", err: errors.New("some error"), expected: false},
		{name: "ErrNotFound", err: ErrNotFound, expected: true},
		{name: "wrapped ErrNotFound", err: fmt.Errorf("lookup: %w", ErrNotFound), expected: true},
		{name: "ErrTaskNotFound", err: ErrTaskNotFound, expected: true},
		{
			name:     "StoreError wrapping ErrTaskNotFound",
			err:      NewStoreError("task", "get", "missing", ErrTaskNotFound),
			expected: true,
		},
		{name: "ErrDuplicate", err: ErrDuplicate, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestIsUnavailableError(t *testing.T) {
	assert.True(t, IsUnavailableError(fmt.Errorf("%w: connection refused", ErrUnavailable)))
	assert.False(t, IsUnavailableError(ErrNotFound))
}

func TestStoreError(t *testing.T) {
	t.Run("with wrapped error", func(t *testing.T) {
		err := NewStoreError("task", "update", "row lock failed", ErrTransactionFailed)
		assert.Equal(t, "task update: row lock failed: transaction failed", err.Error())
		assert.ErrorIs(t, err, ErrTransactionFailed)
	})

	t.Run("without wrapped error", func(t *testing.T) {
		err := NewStoreError("task", "list", "bad query", nil)
		assert.Equal(t, "task list: bad query", err.Error())
		assert.Nil(t, errors.Unwrap(err))
	})
}
