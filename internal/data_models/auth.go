package dto

import model "task-tracker.com/task-tracker/internal/models"

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponse struct {
	Token    string         `json:"token,omitempty"`
	Identity model.Identity `json:"identity"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}
