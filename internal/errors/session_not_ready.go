package errors

import "net/http"

var ErrSessionNotReady = &Exception{
	Message:    "session is still loading",
	StatusCode: http.StatusServiceUnavailable,
}
