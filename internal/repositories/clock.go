package repository

import (
	"sync"
	"time"
)

// serverClock hands out strictly increasing UTC timestamps, so two writes in
// the same clock tick still order.
type serverClock struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

func newServerClock(now func() time.Time) *serverClock {
	if now == nil {
		now = time.Now
	}
	return &serverClock{now: now}
}

func (c *serverClock) Next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC().Truncate(time.Microsecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}
