// Package workspace holds everything one signed-in client owns: its auth
// session, its mirror of the task collection, its toasts and its selection.
package workspace

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"task-tracker.com/task-tracker/internal/backend"
	apperrors "task-tracker.com/task-tracker/internal/errors"
	model "task-tracker.com/task-tracker/internal/models"
	"task-tracker.com/task-tracker/internal/services"
	"task-tracker.com/task-tracker/internal/session"
	"task-tracker.com/task-tracker/internal/tasks"
	"task-tracker.com/task-tracker/internal/toast"
)

type Deps struct {
	// NewAuth returns a fresh auth client. Every workspace signs in on its
	// own client so that one client's logout does not end another's session.
	NewAuth     func() backend.Authenticator
	Profiles    backend.ProfileStore
	Tasks       backend.TaskCollection
	ToastTTL    time.Duration
	BulkWorkers int
}

type Workspace struct {
	id        string
	session   *session.Store
	tasks     *tasks.Store
	toasts    *toast.Queue
	selection *tasks.Selection
	logger    *zap.SugaredLogger

	// mu orders session callbacks against teardown so a late sign-in event
	// cannot mount tasks on a closed workspace.
	mu      sync.Mutex
	closed  bool
	unwatch func()
	close   func()
}

func New(id string, deps Deps, logger *zap.SugaredLogger) *Workspace {
	logger = logger.With("workspace_id", id)

	var queueOpts []toast.Option
	if deps.ToastTTL > 0 {
		queueOpts = append(queueOpts, toast.WithTTL(deps.ToastTTL))
	}
	toasts := toast.NewQueue(queueOpts...)

	w := &Workspace{
		id:        id,
		session:   session.NewStore(deps.NewAuth(), deps.Profiles, logger),
		tasks:     tasks.NewStore(deps.Tasks, toasts, logger, tasks.WithBulkWorkers(deps.BulkWorkers)),
		toasts:    toasts,
		selection: tasks.NewSelection(),
		logger:    logger,
	}
	w.close = sync.OnceFunc(w.teardown)

	w.unwatch = w.session.Watch(w.onSessionChange)
	w.session.Start()
	return w
}

func (w *Workspace) ID() string {
	return w.id
}

func (w *Workspace) Session() *session.Store {
	return w.session
}

func (w *Workspace) Tasks() *tasks.Store {
	return w.tasks
}

func (w *Workspace) Toasts() *toast.Queue {
	return w.toasts
}

func (w *Workspace) Selection() *tasks.Selection {
	return w.selection
}

// Identity returns the signed-in identity, ErrSessionNotReady while the first
// session event is pending and ErrUnauthorized when signed out.
func (w *Workspace) Identity() (model.Identity, error) {
	snap := w.session.Snapshot()
	switch snap.State {
	case session.StateLoading:
		return model.Identity{}, apperrors.ErrSessionNotReady
	case session.StateUnauthenticated:
		return model.Identity{}, apperrors.ErrUnauthorized
	}
	return *snap.Identity, nil
}

// View derives the task list the signed-in user sees. Employees only ever see
// the tasks assigned to them.
func (w *Workspace) View(opts tasks.ViewOptions) ([]model.Task, error) {
	identity, err := w.Identity()
	if err != nil {
		return nil, err
	}
	if !identity.IsAdmin() {
		opts = services.NewEmployeeTaskService(w.tasks, identity.Email).Scope(opts)
	}
	return w.tasks.View(opts), nil
}

// CurrentView is View with the store's own filter and sort.
func (w *Workspace) CurrentView() ([]model.Task, error) {
	return w.View(w.tasks.ViewOptions())
}

// Stats counts the tasks visible to the signed-in user, ignoring the status
// filter and search.
func (w *Workspace) Stats() (model.Stats, error) {
	view, err := w.View(tasks.DefaultViewOptions())
	if err != nil {
		return model.Stats{}, err
	}
	return tasks.ComputeStats(view), nil
}

func (w *Workspace) Admin() (*services.AdminTaskService, error) {
	identity, err := w.Identity()
	if err != nil {
		return nil, err
	}
	if !identity.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	return services.NewAdminTaskService(w.tasks), nil
}

func (w *Workspace) Employee() (*services.EmployeeTaskService, error) {
	identity, err := w.Identity()
	if err != nil {
		return nil, err
	}
	if identity.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	return services.NewEmployeeTaskService(w.tasks, identity.Email), nil
}

// Close releases the session and task subscriptions and stops pending toast
// timers. Later calls are no-ops.
func (w *Workspace) Close() {
	w.close()
}

func (w *Workspace) teardown() {
	w.unwatch()
	w.session.Close()

	w.mu.Lock()
	w.closed = true
	w.tasks.Unmount()
	w.mu.Unlock()

	w.toasts.Close()
	w.logger.Debugw("workspace closed")
}

func (w *Workspace) onSessionChange(snap session.Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	switch snap.State {
	case session.StateAuthenticated:
		w.tasks.Mount()
	case session.StateUnauthenticated:
		w.selection.Clear()
		w.tasks.Unmount()
	}
}
