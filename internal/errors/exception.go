package errors

import (
	"errors"
	"net/http"
)

type Type string

const (
	TypeValidation Type = "validation"
	TypeDuplicate  Type = "duplicate"
	TypeCast       Type = "cast"
	TypeNotFound   Type = "not_found"
	TypeConflict   Type = "conflict"
	TypeConnection Type = "connection"
	TypeUnknown    Type = "unknown"
)

// Exception is the only error shape that crosses the handler boundary.
type Exception struct {
	Type       Type              `json:"type"`
	Message    string            `json:"message"`
	StatusCode int               `json:"-"`
	Fields     map[string]string `json:"fields,omitempty"`
}

func (e *Exception) Error() string {
	return e.Message
}

func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// Validation builds a 400 exception carrying a field -> message map.
func Validation(fields map[string]string) *Exception {
	return &Exception{
		Type:       TypeValidation,
		Message:    "validation failed",
		StatusCode: http.StatusBadRequest,
		Fields:     fields,
	}
}

// Cast marks a malformed identifier.
func Cast(message string) *Exception {
	return &Exception{
		Type:       TypeCast,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}
