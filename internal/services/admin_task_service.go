package services

import (
	"context"

	"task-tracker.com/task-tracker/internal/backend"
	"task-tracker.com/task-tracker/internal/constants"
	model "task-tracker.com/task-tracker/internal/models"
	"task-tracker.com/task-tracker/internal/tasks"
)

// AdminTaskService is the full set of task commands an administrator gets.
type AdminTaskService struct {
	store *tasks.Store
}

func NewAdminTaskService(store *tasks.Store) *AdminTaskService {
	return &AdminTaskService{store: store}
}

func (s *AdminTaskService) Create(ctx context.Context, fields backend.TaskFields) model.Toast {
	return s.store.AddTask(ctx, fields)
}

func (s *AdminTaskService) Update(ctx context.Context, id string, patch backend.TaskPatch) model.Toast {
	return s.store.UpdateTask(ctx, id, patch)
}

func (s *AdminTaskService) UpdateStatus(ctx context.Context, id string, status constants.TaskStatus) model.Toast {
	return s.store.UpdateTask(ctx, id, backend.StatusPatch(status))
}

func (s *AdminTaskService) Delete(ctx context.Context, id string) model.Toast {
	return s.store.DeleteTask(ctx, id)
}

func (s *AdminTaskService) BulkUpdateStatus(ctx context.Context, ids []string, status constants.TaskStatus) model.Toast {
	return s.store.BulkUpdateStatus(ctx, ids, status)
}

func (s *AdminTaskService) BulkDelete(ctx context.Context, ids []string) model.Toast {
	return s.store.BulkDelete(ctx, ids)
}
