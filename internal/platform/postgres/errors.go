package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/task-api/internal/store"
)

// PostgreSQL error codes
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"
	invalidCatalogNameCode  = "3D000"
	invalidPasswordCode     = "28P01"

	// Class prefixes
	connectionExceptionClass  = "08"
	invalidAuthorizationClass = "28"
)

// MapError maps a database error to an appropriate store error.
// It wraps the original error to preserve context for logging.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == uniqueViolationCode:
			return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
		case pgErr.Code == foreignKeyViolationCode:
			return fmt.Errorf("%w: foreign key violation (%s): %v",
				store.ErrInvalidEntity, pgErr.ConstraintName, err)
		case pgErr.Code == checkViolationCode:
			return fmt.Errorf("%w: check constraint violation (%s): %v",
				store.ErrInvalidEntity, pgErr.ConstraintName, err)
		case pgErr.Code == notNullViolationCode:
			return fmt.Errorf("%w: not null violation (%s): %v",
				store.ErrInvalidEntity, pgErr.ColumnName, err)
		case pgErr.Code == invalidCatalogNameCode,
			strings.HasPrefix(pgErr.Code, connectionExceptionClass),
			strings.HasPrefix(pgErr.Code, invalidAuthorizationClass):
			return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
		}
		return err
	}

	if isConnectError(err) {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	return err
}

func isConnectError(err error) bool {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// IsUniqueViolation checks if the given error is a PostgreSQL unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// IsCheckConstraintViolation checks if the given error is a PostgreSQL check constraint violation.
func IsCheckConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == checkViolationCode
}

// CheckRowsAffected examines the number of rows affected by a database operation.
// If no rows were affected, it returns notFound.
func CheckRowsAffected(result sql.Result, notFound error) error {
	if result == nil {
		return fmt.Errorf("nil result provided to CheckRowsAffected")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		if notFound == nil {
			return store.ErrNotFound
		}
		return notFound
	}
	return nil
}

// Diagnosis classifies a failed connectivity check.
type Diagnosis string

// Connectivity failure classes.
const (
	DiagnosisNone              Diagnosis = ""
	DiagnosisConnectionRefused Diagnosis = "connection_refused"
	DiagnosisDatabaseMissing   Diagnosis = "database_missing"
	DiagnosisAuthFailed        Diagnosis = "authentication_failed"
	DiagnosisTimeout           Diagnosis = "timeout"
	DiagnosisUnknown           Diagnosis = "unknown"
)

// Hint returns an operator-facing suggestion for the diagnosis.
func (d Diagnosis) Hint() string {
	switch d {
	case DiagnosisConnectionRefused:
		return "database connection refused - PostgreSQL may not be running"
	case DiagnosisDatabaseMissing:
		return "database does not exist - check database configuration"
	case DiagnosisAuthFailed:
		return "database authentication failed - check credentials"
	case DiagnosisTimeout:
		return "database did not answer in time - check network connectivity and server load"
	case DiagnosisUnknown:
		return "check database configuration"
	}
	return ""
}

// Diagnose classifies err for operator logs.
func Diagnose(err error) Diagnosis {
	if err == nil {
		return DiagnosisNone
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == invalidCatalogNameCode:
			return DiagnosisDatabaseMissing
		case pgErr.Code == invalidPasswordCode, strings.HasPrefix(pgErr.Code, invalidAuthorizationClass):
			return DiagnosisAuthFailed
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return DiagnosisTimeout
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return DiagnosisConnectionRefused
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "connection refused"):
		return DiagnosisConnectionRefused
	case strings.Contains(msg, "does not exist"):
		return DiagnosisDatabaseMissing
	case strings.Contains(msg, "authentication failed"):
		return DiagnosisAuthFailed
	}
	return DiagnosisUnknown
}
