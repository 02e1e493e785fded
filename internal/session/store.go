// Package session holds the signed-in identity of one client. The identity
// changes only when the auth provider's session stream says so; Login and
// friends just ask the provider.
package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"task-tracker.com/task-tracker/internal/backend"
	model "task-tracker.com/task-tracker/internal/models"
)

type State int

const (
	StateLoading State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	}
	return "loading"
}

type Snapshot struct {
	State    State
	Identity *model.Identity
}

type Store struct {
	auth     backend.Authenticator
	profiles backend.ProfileStore
	logger   *zap.SugaredLogger

	mu          sync.RWMutex
	snapshot    Snapshot
	watchers    map[int]func(Snapshot)
	nextID      int
	started     bool
	closed      bool
	unsubscribe func()

	ready     chan struct{}
	readyOnce sync.Once
}

func NewStore(auth backend.Authenticator, profiles backend.ProfileStore, logger *zap.SugaredLogger) *Store {
	return &Store{
		auth:     auth,
		profiles: profiles,
		logger:   logger,
		snapshot: Snapshot{State: StateLoading},
		watchers: make(map[int]func(Snapshot)),
		ready:    make(chan struct{}),
	}
}

// Start subscribes to the session stream. Calls after the first are no-ops.
func (s *Store) Start() {
	s.mu.Lock()
	if s.started || s.closed {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	unsubscribe := s.auth.OnSessionChange(s.handleChange)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		unsubscribe()
		return
	}
	s.unsubscribe = unsubscribe
	s.mu.Unlock()
}

// Close releases the session stream subscription.
func (s *Store) Close() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.closed = true
	s.watchers = make(map[int]func(Snapshot))
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (s *Store) Login(ctx context.Context, email, password string) error {
	_, err := s.auth.SignIn(ctx, email, password)
	return err
}

// Register creates the account and then its profile record. A failed profile
// write leaves the account in place.
func (s *Store) Register(ctx context.Context, email, password string) error {
	identity, err := s.auth.SignUp(ctx, email, password)
	if err != nil {
		return err
	}

	profile := backend.Profile{
		Email: identity.Email,
		Role:  model.RoleForEmail(identity.Email),
	}
	if err := s.profiles.SetProfile(ctx, identity.UID, profile); err != nil {
		s.logger.Errorw("profile provisioning failed", "uid", identity.UID, "error", err)
		return fmt.Errorf("provisioning profile for %s: %w", identity.UID, err)
	}

	return nil
}

func (s *Store) Logout(ctx context.Context) error {
	return s.auth.SignOut(ctx)
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Ready is closed once the first session event has arrived.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// Watch calls fn with every snapshot published after registration, in order.
func (s *Store) Watch(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}

// Await blocks until the store reaches state or ctx is done.
func (s *Store) Await(ctx context.Context, state State) (Snapshot, error) {
	reached := make(chan Snapshot, 1)
	cancel := s.Watch(func(snap Snapshot) {
		if snap.State != state {
			return
		}
		select {
		case reached <- snap:
		default:
		}
	})
	defer cancel()

	if snap := s.Snapshot(); snap.State == state {
		return snap, nil
	}

	select {
	case snap := <-reached:
		return snap, nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

func (s *Store) handleChange(identity *backend.Identity) {
	snap := Snapshot{State: StateUnauthenticated}
	if identity != nil {
		snap = Snapshot{
			State: StateAuthenticated,
			Identity: &model.Identity{
				UID:   identity.UID,
				Email: identity.Email,
				Role:  model.RoleForEmail(identity.Email),
			},
		}
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.snapshot = snap
	watchers := make([]func(Snapshot), 0, len(s.watchers))
	for _, fn := range s.watchers {
		watchers = append(watchers, fn)
	}
	s.mu.Unlock()

	s.readyOnce.Do(func() { close(s.ready) })

	s.logger.Debugw("session changed", "state", snap.State.String())
	for _, fn := range watchers {
		fn(snap)
	}
}
