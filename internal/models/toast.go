package model

import (
	"time"

	"task-tracker.com/task-tracker/internal/constants"
)

type Toast struct {
	ID        string             `json:"id"`
	Message   string             `json:"message"`
	Severity  constants.Severity `json:"severity"`
	CreatedAt time.Time          `json:"created_at"`
}
