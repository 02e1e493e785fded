package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"task-tracker.com/task-tracker/internal/backend"
	apperrors "task-tracker.com/task-tracker/internal/errors"
	"task-tracker.com/task-tracker/internal/feed"
)

// TasksTopic is the feed topic signalled after every task write.
const TasksTopic = "tasks"

type TaskRepository struct {
	db     *gorm.DB
	feed   feed.Feed
	clock  *serverClock
	logger *zap.SugaredLogger
}

func NewTaskRepository(db *gorm.DB, changes feed.Feed, logger *zap.SugaredLogger) *TaskRepository {
	return &TaskRepository{
		db:     db,
		feed:   changes,
		clock:  newServerClock(nil),
		logger: logger,
	}
}

func (r *TaskRepository) Create(ctx context.Context, fields backend.TaskFields) (string, error) {
	now := r.clock.Next()
	row := &taskRow{
		ID:          uuid.NewString(),
		Title:       fields.Title,
		Description: fields.Description,
		Status:      fields.Status,
		Priority:    fields.Priority,
		AssignedTo:  fields.AssignedTo,
		DueDate:     fields.DueDate.String(),
		CreatedAt:   &now,
		UpdatedAt:   &now,
	}

	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return "", err
	}

	r.publish(ctx)
	return row.ID, nil
}

func (r *TaskRepository) Update(ctx context.Context, id string, patch backend.TaskPatch) error {
	if id == "" {
		return apperrors.ErrTaskIDRequired
	}

	updates := patchColumns(patch)
	updates["updated_at"] = r.clock.Next()

	res := r.db.WithContext(ctx).Model(&taskRow{}).
		Where("id = ?", id).
		Updates(updates)

	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return apperrors.ErrTaskNotFound
	}

	r.publish(ctx)
	return nil
}

// Delete removes the task. Deleting a task that does not exist succeeds.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.ErrTaskIDRequired
	}

	if err := r.db.WithContext(ctx).Delete(&taskRow{}, "id = ?", id).Error; err != nil {
		return err
	}

	r.publish(ctx)
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (backend.TaskDocument, error) {
	var row taskRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return backend.TaskDocument{}, err
	}
	return row.document(), nil
}

// List returns every task, newest first.
func (r *TaskRepository) List(ctx context.Context) ([]backend.TaskDocument, error) {
	var rows []taskRow
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, err
	}

	docs := make([]backend.TaskDocument, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, row.document())
	}
	return docs, nil
}

func (r *TaskRepository) Subscribe(onData func([]backend.TaskDocument), onError func(error)) func() {
	ctx, cancel := context.WithCancel(context.Background())

	// Register with the feed before the first load so no write between the
	// two goes unnoticed.
	changes, err := r.feed.Subscribe(ctx, TasksTopic)
	if err != nil {
		go onError(err)
		return sync.OnceFunc(cancel)
	}

	go backend.Watch(ctx, changes, r.List, onData, onError)

	return sync.OnceFunc(cancel)
}

func (r *TaskRepository) publish(ctx context.Context) {
	if err := r.feed.Publish(context.WithoutCancel(ctx), TasksTopic); err != nil {
		r.logger.Warnw("failed to publish task change", "error", err)
	}
}

func patchColumns(patch backend.TaskPatch) map[string]interface{} {
	updates := make(map[string]interface{})
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.Priority != nil {
		updates["priority"] = *patch.Priority
	}
	if patch.AssignedTo != nil {
		updates["assigned_to"] = *patch.AssignedTo
	}
	if patch.DueDate != nil {
		updates["due_date"] = patch.DueDate.String()
	}
	return updates
}

func (row taskRow) document() backend.TaskDocument {
	return backend.TaskDocument{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Status:      row.Status,
		Priority:    row.Priority,
		AssignedTo:  row.AssignedTo,
		DueDate:     row.DueDate,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
