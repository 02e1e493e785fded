package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"task-tracker.com/task-tracker/internal/backend"
	"task-tracker.com/task-tracker/internal/constants"
)

// fakeCollection records commands and keeps a document set, but delivers
// snapshots only when the test calls Emit.
type fakeCollection struct {
	mu           sync.Mutex
	docs         []backend.TaskDocument
	onData       func([]backend.TaskDocument)
	onError      func(error)
	subscribed   int
	unsubscribed int
	nextID       int
	clock        time.Time
	failNext     error
	failIDs      map[string]bool
}

func newFakeCollection() *fakeCollection {
	return &fakeCollection{
		clock:   time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC),
		failIDs: make(map[string]bool),
	}
}

func (f *fakeCollection) Subscribe(onData func([]backend.TaskDocument), onError func(error)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.onData = onData
	f.onError = onError
	f.subscribed++

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.unsubscribed++
			f.onData = nil
			f.onError = nil
		})
	}
}

func (f *fakeCollection) tick() *time.Time {
	f.clock = f.clock.Add(time.Second)
	t := f.clock
	return &t
}

func (f *fakeCollection) Create(_ context.Context, fields backend.TaskFields) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.takeFailure(); err != nil {
		return "", err
	}

	f.nextID++
	now := f.tick()
	doc := backend.TaskDocument{
		ID:          fmt.Sprintf("task-%d", f.nextID),
		Title:       fields.Title,
		Description: fields.Description,
		Status:      fields.Status,
		Priority:    fields.Priority,
		AssignedTo:  fields.AssignedTo,
		DueDate:     fields.DueDate.String(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.docs = append([]backend.TaskDocument{doc}, f.docs...)
	return doc.ID, nil
}

func (f *fakeCollection) Update(_ context.Context, id string, patch backend.TaskPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.takeFailure(); err != nil {
		return err
	}
	if f.failIDs[id] {
		return errors.New("update rejected")
	}

	for i := range f.docs {
		if f.docs[i].ID != id {
			continue
		}
		if patch.Title != nil {
			f.docs[i].Title = *patch.Title
		}
		if patch.Status != nil {
			f.docs[i].Status = *patch.Status
		}
		if patch.Priority != nil {
			f.docs[i].Priority = *patch.Priority
		}
		if patch.AssignedTo != nil {
			f.docs[i].AssignedTo = *patch.AssignedTo
		}
		f.docs[i].UpdatedAt = f.tick()
		return nil
	}
	return errors.New("not found")
}

func (f *fakeCollection) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.takeFailure(); err != nil {
		return err
	}
	if f.failIDs[id] {
		return errors.New("delete rejected")
	}

	for i := range f.docs {
		if f.docs[i].ID == id {
			f.docs = append(f.docs[:i], f.docs[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeCollection) takeFailure() error {
	err := f.failNext
	f.failNext = nil
	return err
}

// Emit delivers the current documents to the subscriber.
func (f *fakeCollection) Emit() {
	f.mu.Lock()
	onData := f.onData
	docs := make([]backend.TaskDocument, len(f.docs))
	copy(docs, f.docs)
	f.mu.Unlock()

	if onData != nil {
		onData(docs)
	}
}

// EmitDocs delivers docs as they are, bypassing the stored set.
func (f *fakeCollection) EmitDocs(docs []backend.TaskDocument) {
	f.mu.Lock()
	onData := f.onData
	f.mu.Unlock()

	if onData != nil {
		onData(docs)
	}
}

func (f *fakeCollection) Fail(err error) {
	f.mu.Lock()
	onError := f.onError
	f.mu.Unlock()

	if onError != nil {
		onError(err)
	}
}

func (f *fakeCollection) seed(title string, status constants.TaskStatus, priority constants.Priority, assignee string) string {
	id, _ := f.Create(context.Background(), backend.TaskFields{
		Title:      title,
		Status:     status,
		Priority:   priority,
		AssignedTo: assignee,
	})
	return id
}
