// Package tasks mirrors the live task collection and derives the views the
// dashboards render. Mutations are commands sent to the backend; the mirror
// changes only when the subscription delivers the next snapshot.
package tasks

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"task-tracker.com/task-tracker/internal/backend"
	"task-tracker.com/task-tracker/internal/constants"
	apperrors "task-tracker.com/task-tracker/internal/errors"
	model "task-tracker.com/task-tracker/internal/models"
	"task-tracker.com/task-tracker/internal/toast"
)

const (
	msgCreated      = "Task created successfully!"
	msgCreateFailed = "Failed to create task"
	msgUpdated      = "Task updated successfully!"
	msgUpdateFailed = "Failed to update task"
	msgDeleted      = "Task deleted!"
	msgDeleteFailed = "Failed to delete task"
	msgLoadFailed   = "Failed to load tasks"
)

const defaultBulkWorkers = 4

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func WithBulkWorkers(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.bulkWorkers = n
		}
	}
}

type Store struct {
	coll        backend.TaskCollection
	toasts      *toast.Queue
	logger      *zap.SugaredLogger
	now         func() time.Time
	bulkWorkers int

	mu          sync.RWMutex
	mirror      []model.Task
	loading     bool
	mounted     bool
	generation  uint64
	unsubscribe func()
	subErr      error
	view        ViewOptions
}

func NewStore(coll backend.TaskCollection, toasts *toast.Queue, logger *zap.SugaredLogger, opts ...Option) *Store {
	s := &Store{
		coll:        coll,
		toasts:      toasts,
		logger:      logger,
		now:         time.Now,
		bulkWorkers: defaultBulkWorkers,
		loading:     true,
		view:        DefaultViewOptions(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mount subscribes to the task collection. It is a no-op while mounted.
func (s *Store) Mount() {
	s.mu.Lock()
	if s.mounted {
		s.mu.Unlock()
		return
	}
	s.mounted = true
	s.loading = true
	s.subErr = nil
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	unsubscribe := s.coll.Subscribe(
		func(docs []backend.TaskDocument) { s.applySnapshot(gen, docs) },
		func(err error) { s.handleSubscriptionError(gen, err) },
	)

	s.mu.Lock()
	if !s.mounted || s.generation != gen {
		s.mu.Unlock()
		unsubscribe()
		return
	}
	s.unsubscribe = unsubscribe
	s.mu.Unlock()
}

// Unmount releases the subscription and clears the mirror. Emissions still in
// flight from the released subscription are dropped.
func (s *Store) Unmount() {
	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return
	}
	s.mounted = false
	s.generation++
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mirror = nil
	s.loading = true
	s.subErr = nil
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// Remount starts a fresh subscription, e.g. after a subscription error.
func (s *Store) Remount() {
	s.Unmount()
	s.Mount()
}

func (s *Store) Mounted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mounted
}

// Loading is true until the current subscription delivers its first snapshot
// or fails.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the error that ended the current subscription, if any.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subErr
}

// Tasks returns a copy of the mirror in backend order (newest first).
func (s *Store) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Task, len(s.mirror))
	copy(out, s.mirror)
	return out
}

func (s *Store) Toasts() *toast.Queue {
	return s.toasts
}

func (s *Store) AddTask(ctx context.Context, fields backend.TaskFields) model.Toast {
	if fields.Status == "" {
		fields.Status = constants.StatusNew
	}
	if fields.Priority == "" {
		fields.Priority = constants.PriorityMedium
	}

	if _, err := s.coll.Create(ctx, fields); err != nil {
		return s.fail(&apperrors.MutationError{Op: apperrors.OpCreate, Err: err}, msgCreateFailed)
	}
	return s.toasts.Success(msgCreated)
}

func (s *Store) UpdateTask(ctx context.Context, id string, patch backend.TaskPatch) model.Toast {
	if err := s.coll.Update(ctx, id, patch); err != nil {
		return s.fail(&apperrors.MutationError{Op: apperrors.OpUpdate, TaskID: id, Err: err}, msgUpdateFailed)
	}
	return s.toasts.Success(msgUpdated)
}

func (s *Store) DeleteTask(ctx context.Context, id string) model.Toast {
	if err := s.coll.Delete(ctx, id); err != nil {
		return s.fail(&apperrors.MutationError{Op: apperrors.OpDelete, TaskID: id, Err: err}, msgDeleteFailed)
	}
	return s.toasts.Success(msgDeleted)
}

func (s *Store) fail(err *apperrors.MutationError, message string) model.Toast {
	s.logger.Errorw("task mutation failed", "op", err.Op, "task_id", err.TaskID, "error", err.Err)
	return s.toasts.Error(message)
}

func (s *Store) applySnapshot(gen uint64, docs []backend.TaskDocument) {
	now := s.now()
	mirror := make([]model.Task, 0, len(docs))
	for _, doc := range docs {
		mirror = append(mirror, normalize(doc, now))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return
	}
	s.mirror = mirror
	s.loading = false
}

func (s *Store) handleSubscriptionError(gen uint64, err error) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	subErr := &apperrors.SubscriptionError{Err: err}
	s.subErr = subErr
	s.loading = false
	s.mu.Unlock()

	s.logger.Errorw("error fetching tasks", "error", subErr)
	s.toasts.Error(msgLoadFailed)
}

// normalize fills the values a snapshot may lack: a task the server has not
// stamped yet counts as created now, and a missing due date means today.
func normalize(doc backend.TaskDocument, now time.Time) model.Task {
	t := model.Task{
		ID:          doc.ID,
		Title:       doc.Title,
		Description: doc.Description,
		Status:      doc.Status,
		Priority:    doc.Priority,
		AssignedTo:  doc.AssignedTo,
		DueDate:     model.Date(doc.DueDate),
		CreatedAt:   now,
	}
	if doc.CreatedAt != nil {
		t.CreatedAt = *doc.CreatedAt
	}
	t.UpdatedAt = t.CreatedAt
	if doc.UpdatedAt != nil {
		t.UpdatedAt = *doc.UpdatedAt
	}
	if t.DueDate == "" {
		t.DueDate = model.Today(now)
	}
	return t
}
