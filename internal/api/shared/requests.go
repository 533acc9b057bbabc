package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/task-api/internal/domain"
)

// validate reports field names by their JSON tag.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeJSON decodes the request body into v. Malformed bodies are reported
// as a *domain.ValidationError.
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return domain.NewValidationError("body", "request body is required", domain.ErrInvalidFormat)
	}

	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return nil
	}

	var (
		typeErr *json.UnmarshalTypeError
		syntax  *json.SyntaxError
		maxErr  *http.MaxBytesError
	)
	switch {
	case errors.As(err, &maxErr):
		return err
	case errors.Is(err, io.EOF):
		return domain.NewValidationError("body", "request body is required", domain.ErrInvalidFormat)
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return domain.NewValidationError(field,
			fmt.Sprintf("must be of type %s", typeErr.Type), domain.ErrInvalidFormat)
	case errors.As(err, &syntax), errors.Is(err, io.ErrUnexpectedEOF):
		return domain.NewValidationError("body", "malformed JSON", domain.ErrInvalidFormat)
	default:
		// time.Time and custom unmarshalers report their own parse errors.
		return domain.NewValidationError("body", "invalid value: "+firstLine(err.Error()), domain.ErrInvalidFormat)
	}
}

// ValidateRequest validates v with its struct tags. Failures are returned
// as a *domain.ValidationError with one entry per field.
func ValidateRequest(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &domain.ValidationError{}
	for _, fe := range verrs {
		out.Add(fe.Field(), tagMessage(fe), domain.ErrValidation)
	}
	return out
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
