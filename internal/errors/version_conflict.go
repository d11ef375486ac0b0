package errors

import "net/http"

var ErrVersionConflict = &Exception{
	Type:       TypeConflict,
	Message:    "task was modified concurrently, retry the request",
	StatusCode: http.StatusConflict,
}
