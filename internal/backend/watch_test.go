package backend

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatch_ReloadsOnEverySignal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan struct{})
	var loads atomic.Int32
	got := make(chan int32, 8)

	go Watch(ctx, changes,
		func(context.Context) (int32, error) { return loads.Add(1), nil },
		func(n int32) { got <- n },
		func(err error) { t.Errorf("unexpected error: %v", err) },
	)

	for want := int32(1); want <= 3; want++ {
		select {
		case n := <-got:
			if n != want {
				t.Fatalf("emission=%d, want %d", n, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for emission %d", want)
		}
		if want < 3 {
			changes <- struct{}{}
		}
	}
}

func TestWatch_LoadErrorEndsWatch(t *testing.T) {
	boom := errors.New("boom")
	done := make(chan struct{})
	var gotErr error

	go func() {
		defer close(done)
		Watch(context.Background(), make(chan struct{}),
			func(context.Context) (int, error) { return 0, boom },
			func(int) { t.Error("onData called after failed load") },
			func(err error) { gotErr = err },
		)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not return")
	}
	if !errors.Is(gotErr, boom) {
		t.Fatalf("err=%v, want boom", gotErr)
	}
}

func TestWatch_ClosedFeedReportsError(t *testing.T) {
	changes := make(chan struct{})
	close(changes)

	var gotErr error
	Watch(context.Background(), changes,
		func(context.Context) (int, error) { return 1, nil },
		func(int) {},
		func(err error) { gotErr = err },
	)

	if !errors.Is(gotErr, ErrFeedClosed) {
		t.Fatalf("err=%v, want ErrFeedClosed", gotErr)
	}
}

func TestWatch_CancelStopsSilently(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		Watch(ctx, changes,
			func(context.Context) (int, error) { return 1, nil },
			func(int) {},
			func(err error) { t.Errorf("unexpected error: %v", err) },
		)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
