package repository

import (
	"context"
	"sync"

	"task-tracker.com/task-tracker/internal/backend"
)

const sessionEventBuffer = 16

type authClient struct {
	accounts *AccountRepository

	mu        sync.Mutex
	current   *backend.Identity
	listeners map[int]chan *backend.Identity
	nextID    int
}

func newAuthClient(accounts *AccountRepository) *authClient {
	return &authClient{
		accounts:  accounts,
		listeners: make(map[int]chan *backend.Identity),
	}
}

func (c *authClient) SignIn(ctx context.Context, email, password string) (backend.Identity, error) {
	identity, err := c.accounts.Authenticate(ctx, email, password)
	if err != nil {
		return backend.Identity{}, err
	}

	c.setCurrent(&identity)
	return identity, nil
}

func (c *authClient) SignUp(ctx context.Context, email, password string) (backend.Identity, error) {
	identity, err := c.accounts.Create(ctx, email, password)
	if err != nil {
		return backend.Identity{}, err
	}

	c.setCurrent(&identity)
	return identity, nil
}

func (c *authClient) SignOut(context.Context) error {
	c.setCurrent(nil)
	return nil
}

func (c *authClient) OnSessionChange(fn func(*backend.Identity)) func() {
	ch := make(chan *backend.Identity, sessionEventBuffer)

	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = ch
	ch <- clone(c.current)
	c.mu.Unlock()

	go func() {
		for identity := range ch {
			fn(identity)
		}
	}()

	return sync.OnceFunc(func() {
		c.mu.Lock()
		delete(c.listeners, id)
		close(ch)
		c.mu.Unlock()
	})
}

// setCurrent replaces the signed-in user and notifies listeners. Sends happen
// under the lock so every listener sees changes in the same order.
func (c *authClient) setCurrent(identity *backend.Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil && identity == nil {
		return
	}
	c.current = clone(identity)

	for _, ch := range c.listeners {
		ch <- clone(identity)
	}
}

func clone(identity *backend.Identity) *backend.Identity {
	if identity == nil {
		return nil
	}
	cp := *identity
	return &cp
}
