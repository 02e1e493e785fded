package errors

import "net/http"

var ErrForbidden = &Exception{
	Message:    "action not available for this role",
	StatusCode: http.StatusForbidden,
}
