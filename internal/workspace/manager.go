package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager keeps the open workspaces of a server process, keyed by id. A
// workspace whose session has expired is closed the next time it is looked up
// or when Reap runs, whichever comes first.
type Manager struct {
	deps   Deps
	logger *zap.SugaredLogger
	now    func() time.Time

	mu         sync.RWMutex
	workspaces map[string]*entry
}

type entry struct {
	ws *Workspace
	// expiresAt is zero until the session behind the workspace is granted.
	expiresAt time.Time
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

func NewManager(deps Deps, logger *zap.SugaredLogger) *Manager {
	return &Manager{
		deps:       deps,
		logger:     logger,
		now:        time.Now,
		workspaces: make(map[string]*entry),
	}
}

func (m *Manager) Open() *Workspace {
	w := New(uuid.NewString(), m.deps, m.logger)

	m.mu.Lock()
	m.workspaces[w.ID()] = &entry{ws: w}
	m.mu.Unlock()

	return w
}

// SetExpiry records when the workspace's session ends. It reports false if
// the workspace is no longer open.
func (m *Manager) SetExpiry(id string, at time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.workspaces[id]
	if ok {
		e.expiresAt = at
	}
	return ok
}

func (m *Manager) Get(id string) (*Workspace, bool) {
	m.mu.RLock()
	e, ok := m.workspaces[id]
	m.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if e.expired(m.now()) {
		m.Close(id)
		return nil, false
	}
	return e.ws, true
}

func (m *Manager) Close(id string) {
	m.mu.Lock()
	e, ok := m.workspaces[id]
	delete(m.workspaces, id)
	m.mu.Unlock()

	if ok {
		e.ws.Close()
	}
}

// Reap closes every expired workspace and returns how many it closed.
func (m *Manager) Reap() int {
	now := m.now()

	m.mu.Lock()
	var expired []*Workspace
	for id, e := range m.workspaces {
		if e.expired(now) {
			expired = append(expired, e.ws)
			delete(m.workspaces, id)
		}
	}
	m.mu.Unlock()

	for _, w := range expired {
		w.Close()
	}
	if len(expired) > 0 {
		m.logger.Debugw("reaped expired workspaces", "count", len(expired))
	}
	return len(expired)
}

// Run reaps expired workspaces every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Reap()
		}
	}
}

func (m *Manager) CloseAll() {
	m.mu.Lock()
	open := m.workspaces
	m.workspaces = make(map[string]*entry)
	m.mu.Unlock()

	for _, e := range open {
		e.ws.Close()
	}
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.workspaces)
}
