package services

import (
	"context"
	"strings"

	"task-tracker.com/task-tracker/internal/backend"
	"task-tracker.com/task-tracker/internal/constants"
	apperrors "task-tracker.com/task-tracker/internal/errors"
	model "task-tracker.com/task-tracker/internal/models"
	"task-tracker.com/task-tracker/internal/tasks"
)

// EmployeeTaskService only changes the status of tasks the employee can see,
// which are the tasks assigned to them.
type EmployeeTaskService struct {
	store *tasks.Store
	email string
}

func NewEmployeeTaskService(store *tasks.Store, email string) *EmployeeTaskService {
	return &EmployeeTaskService{store: store, email: email}
}

// Scope returns the view options that limit a view to this employee.
func (s *EmployeeTaskService) Scope(opts tasks.ViewOptions) tasks.ViewOptions {
	opts.AssignedTo = s.email
	return opts
}

func (s *EmployeeTaskService) UpdateStatus(ctx context.Context, id string, status constants.TaskStatus) (model.Toast, error) {
	if !s.owns(id) {
		return model.Toast{}, apperrors.ErrForbidden
	}
	return s.store.UpdateTask(ctx, id, backend.StatusPatch(status)), nil
}

// BulkUpdateStatus updates the ids the employee owns and rejects the call if
// any id belongs to someone else.
func (s *EmployeeTaskService) BulkUpdateStatus(ctx context.Context, ids []string, status constants.TaskStatus) (model.Toast, error) {
	for _, id := range ids {
		if !s.owns(id) {
			return model.Toast{}, apperrors.ErrForbidden
		}
	}
	return s.store.BulkUpdateStatus(ctx, ids, status), nil
}

func (s *EmployeeTaskService) owns(id string) bool {
	for _, t := range s.store.Tasks() {
		if t.ID == id {
			return strings.EqualFold(t.AssignedTo, s.email)
		}
	}
	return false
}
