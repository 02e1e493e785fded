package backend

import (
	"context"
	"errors"
)

var ErrFeedClosed = errors.New("change feed closed")

// Watch runs a live query: it loads once, then reloads after every signal on
// changes until ctx is done. A load failure or a feed that closes while ctx is
// still live is reported to onError and ends the watch.
func Watch[T any](
	ctx context.Context,
	changes <-chan struct{},
	load func(context.Context) (T, error),
	onData func(T),
	onError func(error),
) {
	emit := func() bool {
		data, err := load(ctx)
		if ctx.Err() != nil {
			return false
		}
		if err != nil {
			onError(err)
			return false
		}
		onData(data)
		return true
	}

	if !emit() {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				if ctx.Err() == nil {
					onError(ErrFeedClosed)
				}
				return
			}
			if !emit() {
				return
			}
		}
	}
}
