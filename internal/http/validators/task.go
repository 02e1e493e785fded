package validators

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"task-tracker.com/task-tracker/internal/constants"
	dto "task-tracker.com/task-tracker/internal/data_models"
	model "task-tracker.com/task-tracker/internal/models"
)

// ValidateCreateTaskRequest trims the text fields in place and checks the
// form rules: title, description and due date are required and the assignee
// must look like an email.
func ValidateCreateTaskRequest(r *dto.TaskRequestData) error {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.AssignedTo = strings.TrimSpace(r.AssignedTo)

	if r.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if r.Description == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "description is required")
	}
	if !strings.Contains(r.AssignedTo, "@") {
		return echo.NewHTTPError(http.StatusBadRequest, "assigned_to must be a valid email")
	}
	if r.DueDate == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "due_date is required")
	}
	if _, err := model.ParseDate(r.DueDate); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if r.Status != "" && !r.Status.Valid() {
		return invalidStatus()
	}
	if r.Priority != "" && !r.Priority.Valid() {
		return invalidPriority()
	}
	return nil
}

// ValidateUpdateTaskRequest applies the create rules to the fields present.
func ValidateUpdateTaskRequest(r *dto.UpdateTaskRequest) error {
	if r.Title != nil {
		*r.Title = strings.TrimSpace(*r.Title)
		if *r.Title == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "title is required")
		}
	}
	if r.Description != nil {
		*r.Description = strings.TrimSpace(*r.Description)
		if *r.Description == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "description is required")
		}
	}
	if r.AssignedTo != nil {
		*r.AssignedTo = strings.TrimSpace(*r.AssignedTo)
		if !strings.Contains(*r.AssignedTo, "@") {
			return echo.NewHTTPError(http.StatusBadRequest, "assigned_to must be a valid email")
		}
	}
	if r.DueDate != nil {
		if _, err := model.ParseDate(*r.DueDate); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	if r.Status != nil && !r.Status.Valid() {
		return invalidStatus()
	}
	if r.Priority != nil && !r.Priority.Valid() {
		return invalidPriority()
	}
	if r.Patch().Empty() {
		return echo.NewHTTPError(http.StatusBadRequest, "no fields to update")
	}
	return nil
}

func ValidateStatus(status constants.TaskStatus) error {
	if !status.Valid() {
		return invalidStatus()
	}
	return nil
}

// ValidateView checks a filter/sort change. Empty values keep the current
// setting.
func ValidateView(r *dto.ViewRequest) error {
	if r.Status != "" && !r.Status.ValidFilter() {
		return echo.NewHTTPError(http.StatusBadRequest, "status filter must be All, New, Active, Completed or Failed")
	}
	if r.Sort != "" && !r.Sort.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "sort must be date or priority")
	}
	return nil
}

func invalidStatus() error {
	return echo.NewHTTPError(http.StatusBadRequest, "status must be New, Active, Completed or Failed")
}

func invalidPriority() error {
	return echo.NewHTTPError(http.StatusBadRequest, "priority must be High, Medium or Low")
}
