package shared

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Title    string     `json:"title"    validate:"required,max=5"`
	Status   string     `json:"status"   validate:"omitempty,oneof=pending completed"`
	Count    int        `json:"count"`
	DueDate  *time.Time `json:"due_date"`
	Internal string     `json:"-"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{name: "valid", body: `{"title":"ok","count":2}`},
		{name: "empty body", body: ``, wantField: "body"},
		{name: "malformed", body: `{"title":`, wantField: "body"},
		{name: "syntax error", body: `{"title" "x"}`, wantField: "body"},
		{name: "wrong type", body: `{"count":"two"}`, wantField: "count"},
		{name: "bad time", body: `{"due_date":"tomorrow"}`, wantField: "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(tt.body))
			var dst sampleRequest
			err := DecodeJSON(req, &dst)

			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.ErrorIs(t, err, domain.ErrInvalidFormat)
			assert.Equal(t, tt.wantField, verr.FirstField().Field)
		})
	}
}

func TestDecodeJSON_PassesThroughSizeLimit(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(`{"title":"`+strings.Repeat("a", 100)+`"}`))
	w := httptest.NewRecorder()
	req.Body = http.MaxBytesReader(w, req.Body, 10)

	var dst sampleRequest
	err := DecodeJSON(req, &dst)
	var maxErr *http.MaxBytesError
	assert.True(t, errors.As(err, &maxErr))
}

func TestValidateRequest(t *testing.T) {
	require.NoError(t, ValidateRequest(&sampleRequest{Title: "ok"}))

	err := ValidateRequest(&sampleRequest{Title: "", Status: "bogus"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 2)
	assert.Equal(t, "title", verr.Fields[0].Field)
	assert.Equal(t, "is required", verr.Fields[0].Message)
	assert.Equal(t, "status", verr.Fields[1].Field)
	assert.Equal(t, "must be one of: pending, completed", verr.Fields[1].Message)

	err = ValidateRequest(&sampleRequest{Title: "toolong"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must be at most 5 characters", verr.FirstField().Message)
}
