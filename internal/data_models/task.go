package dto

import (
	"task-tracker.com/task-tracker/internal/backend"
	"task-tracker.com/task-tracker/internal/constants"
	model "task-tracker.com/task-tracker/internal/models"
)

// TaskRequestData is the body of a task create. Status and priority may be
// left empty to take their defaults.
type TaskRequestData struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Status      constants.TaskStatus `json:"status"`
	Priority    constants.Priority   `json:"priority"`
	AssignedTo  string               `json:"assigned_to"`
	DueDate     string               `json:"due_date"`
}

func (r TaskRequestData) Fields() backend.TaskFields {
	return backend.TaskFields{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		AssignedTo:  r.AssignedTo,
		DueDate:     model.Date(r.DueDate),
	}
}

// UpdateTaskRequest is a partial update; absent fields are left untouched.
type UpdateTaskRequest struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	Status      *constants.TaskStatus `json:"status"`
	Priority    *constants.Priority   `json:"priority"`
	AssignedTo  *string               `json:"assigned_to"`
	DueDate     *string               `json:"due_date"`
}

func (r UpdateTaskRequest) Patch() backend.TaskPatch {
	patch := backend.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		AssignedTo:  r.AssignedTo,
	}
	if r.DueDate != nil {
		d := model.Date(*r.DueDate)
		patch.DueDate = &d
	}
	return patch
}

type StatusRequest struct {
	Status constants.TaskStatus `json:"status"`
}

type ViewRequest struct {
	Status constants.TaskStatus `json:"status"`
	Sort   constants.SortKey    `json:"sort"`
}

type SelectionRequest struct {
	IDs []string `json:"ids"`
}

type BulkStatusRequest struct {
	Status constants.TaskStatus `json:"status"`
}

type TaskListResponse struct {
	Count    int          `json:"count"`
	Tasks    []model.Task `json:"tasks"`
	Loading  bool         `json:"loading"`
	Error    string       `json:"error,omitempty"`
	Status   string       `json:"status"`
	Sort     string       `json:"sort"`
	Selected []string     `json:"selected"`
}

type SelectionResponse struct {
	Count int      `json:"count"`
	IDs   []string `json:"ids"`
}

type ToastListResponse struct {
	Count  int           `json:"count"`
	Toasts []model.Toast `json:"toasts"`
}
