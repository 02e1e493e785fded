// Package backend declares the collaborators the stores depend on: an
// authentication service with a session-change stream, a profile side-record
// writer and a live task collection.
package backend

import (
	"context"
	"time"

	"task-tracker.com/task-tracker/internal/constants"
	model "task-tracker.com/task-tracker/internal/models"
)

// Identity is the signed-in account as reported by the auth provider. The
// role is not part of it; callers derive it from Email.
type Identity struct {
	UID   string
	Email string
}

type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (Identity, error)
	SignUp(ctx context.Context, email, password string) (Identity, error)
	SignOut(ctx context.Context) error
	// OnSessionChange registers fn for every session change. fn is called
	// once with the current state shortly after registration; nil means
	// signed out. The returned function unregisters fn.
	OnSessionChange(fn func(*Identity)) (unsubscribe func())
}

type Profile struct {
	Email string
	Role  constants.Role
}

type ProfileStore interface {
	SetProfile(ctx context.Context, uid string, profile Profile) error
}

// TaskDocument is a task as stored. Timestamps are nil while the server has
// not assigned them, DueDate is empty when never set.
type TaskDocument struct {
	ID          string
	Title       string
	Description string
	Status      constants.TaskStatus
	Priority    constants.Priority
	AssignedTo  string
	DueDate     string
	CreatedAt   *time.Time
	UpdatedAt   *time.Time
}

// TaskFields are the client-supplied fields of a new task.
type TaskFields struct {
	Title       string
	Description string
	Status      constants.TaskStatus
	Priority    constants.Priority
	AssignedTo  string
	DueDate     model.Date
}

// TaskPatch is a partial update; nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *constants.TaskStatus
	Priority    *constants.Priority
	AssignedTo  *string
	DueDate     *model.Date
}

func StatusPatch(status constants.TaskStatus) TaskPatch {
	return TaskPatch{Status: &status}
}

func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.AssignedTo == nil && p.DueDate == nil
}

type TaskCollection interface {
	// Subscribe delivers the whole collection, newest first, on every
	// change. Callbacks run sequentially on a single goroutine. After
	// onError no more callbacks are made.
	Subscribe(onData func([]TaskDocument), onError func(error)) (unsubscribe func())
	Create(ctx context.Context, fields TaskFields) (string, error)
	Update(ctx context.Context, id string, patch TaskPatch) error
	Delete(ctx context.Context, id string) error
}
