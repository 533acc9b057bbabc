package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/service"
	"github.com/phrazzld/task-api/internal/store"
)

// Error labels used in the "error" field of validation responses.
const (
	ValidationErrorLabel = "Validation Error"
	NotFoundLabel        = "Not Found"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var maxErr *http.MaxBytesError

	switch {
	case err == nil:
		return http.StatusOK

	// Not found errors
	case errors.Is(err, service.ErrTaskNotFound),
		store.IsNotFoundError(err):
		return http.StatusNotFound

	// Validation errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusUnprocessableEntity

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge

	// Dependency errors
	case store.IsUnavailableError(err),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var (
		verr   *domain.ValidationError
		maxErr *http.MaxBytesError
	)
	switch {
	case errors.As(err, &verr):
		return summarize(verr)

	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, store.ErrNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Task data violates a storage constraint"

	case errors.Is(err, store.ErrDuplicate):
		return "Task already exists"

	case errors.As(err, &maxErr):
		return "Request entity too large"

	case errors.Is(err, store.ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return "The database is currently unavailable"

	default:
		return "An unexpected error occurred"
	}
}

// summarize joins field messages into one sentence, e.g.
// "title: must be between 1 and 200 characters".
func summarize(verr *domain.ValidationError) string {
	parts := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return strings.Join(parts, "; ")
}

// HandleAPIError writes the response for err and logs it. Validation errors
// carry their field details; a single rejected enum literal is reported with
// the provided value and the accepted values.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	body := shared.NewErrorResponse(r, status, GetSafeErrorMessage(err))

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		body.Error = ValidationErrorLabel
		body.Details = verr.Fields

		for _, f := range verr.Fields {
			if len(f.ValidValues) == 0 {
				continue
			}
			body.Error = "Invalid " + f.Field + " value"
			body.Message = capitalize(f.Field) + " " + f.Message
			body.Provided = f.Provided
			body.ValidValues = f.ValidValues
			break
		}
	}

	shared.RespondWithErrorBody(w, r, body, err)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
