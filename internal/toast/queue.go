// Package toast keeps short-lived status notifications. Every toast removes
// itself after the queue's TTL unless it is dismissed first.
package toast

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"task-tracker.com/task-tracker/internal/constants"
	model "task-tracker.com/task-tracker/internal/models"
)

const DefaultTTL = 3 * time.Second

// Timer is a pending expiry that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler func(d time.Duration, f func()) Timer

func realScheduler(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type Option func(*Queue)

func WithTTL(ttl time.Duration) Option {
	return func(q *Queue) {
		if ttl > 0 {
			q.ttl = ttl
		}
	}
}

func WithScheduler(s Scheduler) Option {
	return func(q *Queue) {
		q.schedule = s
	}
}

func WithClock(now func() time.Time) Option {
	return func(q *Queue) {
		q.now = now
	}
}

type entry struct {
	toast model.Toast
	timer Timer
}

type Queue struct {
	ttl      time.Duration
	schedule Scheduler
	now      func() time.Time

	mu      sync.Mutex
	entries []entry
	closed  bool
}

func NewQueue(opts ...Option) *Queue {
	q := &Queue{
		ttl:      DefaultTTL,
		schedule: realScheduler,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func (q *Queue) Show(message string, severity constants.Severity) model.Toast {
	t := model.Toast{
		ID:        uuid.NewString(),
		Message:   message,
		Severity:  severity,
		CreatedAt: q.now(),
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return t
	}

	id := t.ID
	q.entries = append(q.entries, entry{
		toast: t,
		timer: q.schedule(q.ttl, func() { q.remove(id) }),
	})
	return t
}

func (q *Queue) Success(message string) model.Toast {
	return q.Show(message, constants.SeveritySuccess)
}

func (q *Queue) Error(message string) model.Toast {
	return q.Show(message, constants.SeverityError)
}

func (q *Queue) Info(message string) model.Toast {
	return q.Show(message, constants.SeverityInfo)
}

// Dismiss removes the toast early and cancels its expiry. It reports whether
// the toast was still queued.
func (q *Queue) Dismiss(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, e := range q.entries {
		if e.toast.ID == id {
			e.timer.Stop()
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return true
		}
	}
	return false
}

// List returns the queued toasts, oldest first.
func (q *Queue) List() []model.Toast {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]model.Toast, 0, len(q.entries))
	for _, e := range q.entries {
		out = append(out, e.toast)
	}
	return out
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Close cancels every pending expiry and drops the queue contents.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, e := range q.entries {
		e.timer.Stop()
	}
	q.entries = nil
	q.closed = true
}

// remove is the expiry path; a toast that was dismissed is simply not found.
func (q *Queue) remove(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, e := range q.entries {
		if e.toast.ID == id {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return
		}
	}
}
