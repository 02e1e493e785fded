package feed

import (
	"context"
	"sync"
)

// LocalFeed fans signals out to subscribers inside this process.
type LocalFeed struct {
	mu     sync.Mutex
	topics map[string]map[chan struct{}]struct{}
}

func NewLocalFeed() *LocalFeed {
	return &LocalFeed{topics: make(map[string]map[chan struct{}]struct{})}
}

func (f *LocalFeed) Publish(_ context.Context, topic string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for ch := range f.topics[topic] {
		signal(ch)
	}
	return nil
}

func (f *LocalFeed) Subscribe(ctx context.Context, topic string) (<-chan struct{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch := make(chan struct{}, 1)

	f.mu.Lock()
	subs, ok := f.topics[topic]
	if !ok {
		subs = make(map[chan struct{}]struct{})
		f.topics[topic] = subs
	}
	subs[ch] = struct{}{}
	f.mu.Unlock()

	go func() {
		<-ctx.Done()

		f.mu.Lock()
		delete(f.topics[topic], ch)
		if len(f.topics[topic]) == 0 {
			delete(f.topics, topic)
		}
		close(ch)
		f.mu.Unlock()
	}()

	return ch, nil
}

func (f *LocalFeed) subscribers(topic string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.topics[topic])
}
