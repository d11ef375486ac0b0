package errors

import "net/http"

var ErrTaskNotFound = &Exception{
	Type:       TypeNotFound,
	Message:    "task not found",
	StatusCode: http.StatusNotFound,
}
