package model

import (
	"time"

	"task-tracker.com/task-tracker/internal/constants"
)

type Task struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Status      constants.TaskStatus `json:"status"`
	Priority    constants.Priority   `json:"priority"`
	AssignedTo  string               `json:"assigned_to"`
	DueDate     Date                 `json:"due_date"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}
