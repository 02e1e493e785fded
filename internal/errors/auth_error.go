package errors

import (
	"errors"
	"net/http"
)

// Auth error codes, as classified by the authentication provider.
const (
	CodeInvalidEmail      = "auth/invalid-email"
	CodeWeakPassword      = "auth/weak-password"
	CodeEmailInUse        = "auth/email-already-in-use"
	CodeUserNotFound      = "auth/user-not-found"
	CodeWrongPassword     = "auth/wrong-password"
	CodeInvalidCredential = "auth/invalid-credential"
	CodeInternal          = "auth/internal-error"
)

type AuthError struct {
	Code    string
	Message string
}

func NewAuthError(code, message string) *AuthError {
	return &AuthError{Code: code, Message: message}
}

func (e *AuthError) Error() string {
	return e.Code + ": " + e.Message
}

// Is matches another *AuthError by code, so callers can test
// errors.Is(err, &AuthError{Code: CodeEmailInUse}).
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// UserMessage is the inline text shown next to the login form.
func (e *AuthError) UserMessage() string {
	switch e.Code {
	case CodeUserNotFound, CodeWrongPassword, CodeInvalidCredential:
		return "Invalid email or password."
	case CodeEmailInUse:
		return "Email already registered"
	}
	if e.Message != "" {
		return e.Message
	}
	return "Authentication failed"
}

func (e *AuthError) StatusCode() int {
	switch e.Code {
	case CodeInvalidEmail, CodeWeakPassword:
		return http.StatusBadRequest
	case CodeEmailInUse:
		return http.StatusConflict
	case CodeUserNotFound, CodeWrongPassword, CodeInvalidCredential:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// AsAuthError extracts an *AuthError from err's chain.
func AsAuthError(err error) (*AuthError, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr, true
	}
	return nil, false
}
