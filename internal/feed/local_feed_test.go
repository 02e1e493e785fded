package feed

import (
	"context"
	"testing"
	"time"
)

func receive(t *testing.T, ch <-chan struct{}) bool {
	t.Helper()

	select {
	case _, ok := <-ch:
		return ok
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for signal")
		return false
	}
}

func TestLocalFeed_PublishReachesSubscriber(t *testing.T) {
	f := NewLocalFeed()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := f.Subscribe(ctx, "tasks")
	if err != nil {
		t.Fatalf("subscribe err=%v", err)
	}

	if err := f.Publish(ctx, "tasks"); err != nil {
		t.Fatalf("publish err=%v", err)
	}

	if !receive(t, ch) {
		t.Fatal("channel closed, want signal")
	}
}

func TestLocalFeed_OtherTopicNotSignalled(t *testing.T) {
	f := NewLocalFeed()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, _ := f.Subscribe(ctx, "tasks")
	_ = f.Publish(ctx, "profiles")

	select {
	case <-ch:
		t.Fatal("got signal for unrelated topic")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLocalFeed_CoalescesPendingSignals(t *testing.T) {
	f := NewLocalFeed()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, _ := f.Subscribe(ctx, "tasks")
	for i := 0; i < 5; i++ {
		_ = f.Publish(ctx, "tasks")
	}

	receive(t, ch)

	select {
	case <-ch:
		t.Fatal("got second signal, want pending signals coalesced into one")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLocalFeed_CancelClosesAndUnregisters(t *testing.T) {
	f := NewLocalFeed()
	ctx, cancel := context.WithCancel(context.Background())

	ch, _ := f.Subscribe(ctx, "tasks")
	cancel()

	if receive(t, ch) {
		t.Fatal("got signal, want closed channel")
	}
	if n := f.subscribers("tasks"); n != 0 {
		t.Fatalf("subscribers=%d, want 0", n)
	}

	if err := f.Publish(context.Background(), "tasks"); err != nil {
		t.Fatalf("publish after cancel err=%v", err)
	}
}

func TestLocalFeed_SubscribeWithDoneContext(t *testing.T) {
	f := NewLocalFeed()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := f.Subscribe(ctx, "tasks"); err == nil {
		t.Fatal("err=nil, want context error")
	}
}
