// Package feed carries "something changed" signals between writers and live
// queries. Signals carry no payload; subscribers reload what they need.
package feed

import (
	"context"
)

type Feed interface {
	Publish(ctx context.Context, topic string) error
	// Subscribe returns a channel that receives a signal after each publish
	// on topic. Signals published while one is pending are coalesced. The
	// channel is closed once ctx is done or the feed fails.
	Subscribe(ctx context.Context, topic string) (<-chan struct{}, error)
}

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
