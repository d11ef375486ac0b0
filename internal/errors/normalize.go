package errors

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// Normalize converts store-level failures into the taxonomy. Handlers
// and services call it at the boundary so no driver error shape leaks
// into a response.
func Normalize(err error) *Exception {
	if err == nil {
		return nil
	}

	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTaskNotFound
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
		return &Exception{
			Type:       TypeDuplicate,
			Message:    "duplicate value for field " + violatedField(err),
			StatusCode: http.StatusConflict,
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || isConnectionFailure(err) {
		return &Exception{
			Type:       TypeConnection,
			Message:    "database unavailable",
			StatusCode: http.StatusServiceUnavailable,
		}
	}

	return &Exception{
		Type:       TypeUnknown,
		Message:    "internal server error",
		StatusCode: http.StatusInternalServerError,
	}
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// violatedField pulls the column name out of sqlite's
// "UNIQUE constraint failed: tasks.id" message.
func violatedField(err error) string {
	msg := err.Error()
	idx := strings.LastIndex(msg, ".")
	if idx < 0 || idx+1 >= len(msg) {
		return "unknown"
	}
	return strings.TrimSpace(msg[idx+1:])
}

func isConnectionFailure(err error) bool {
	msg := err.Error()
	for _, marker := range []string{
		"database is locked",
		"unable to open database",
		"connection refused",
		"i/o timeout",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
