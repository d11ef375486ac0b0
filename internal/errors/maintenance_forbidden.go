package errors

import "net/http"

// ErrMaintenanceForbidden guards permanent deletes and cleanup in
// production deployments.
var ErrMaintenanceForbidden = &Exception{
	Type:       TypeValidation,
	Message:    "destructive maintenance operations are disabled in production",
	StatusCode: http.StatusForbidden,
}
