package feed

import (
	"context"

	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

// pubSub is the part of Redis the feed uses. receive blocks, calling
// onMessage for each message on channel, until ctx is done or the
// subscription fails.
type pubSub interface {
	publish(ctx context.Context, channel string) error
	receive(ctx context.Context, channel string, onMessage func()) error
}

type rueidisPubSub struct {
	client rueidis.Client
}

func (p rueidisPubSub) publish(ctx context.Context, channel string) error {
	cmd := p.client.B().Publish().Channel(channel).Message("1").Build()
	return p.client.Do(ctx, cmd).Error()
}

func (p rueidisPubSub) receive(ctx context.Context, channel string, onMessage func()) error {
	cmd := p.client.B().Subscribe().Channel(channel).Build()
	return p.client.Receive(ctx, cmd, func(rueidis.PubSubMessage) {
		onMessage()
	})
}

// RedisFeed relays signals over Redis pub/sub so that every process sharing
// the database sees writes made by the others.
type RedisFeed struct {
	pubsub pubSub
	prefix string
	logger *zap.SugaredLogger
}

func NewRedisFeed(client rueidis.Client, channelPrefix string, logger *zap.SugaredLogger) *RedisFeed {
	return newRedisFeed(rueidisPubSub{client: client}, channelPrefix, logger)
}

func newRedisFeed(pubsub pubSub, channelPrefix string, logger *zap.SugaredLogger) *RedisFeed {
	return &RedisFeed{
		pubsub: pubsub,
		prefix: channelPrefix,
		logger: logger,
	}
}

func (r *RedisFeed) channel(topic string) string {
	return r.prefix + ":" + topic
}

func (r *RedisFeed) Publish(ctx context.Context, topic string) error {
	return r.pubsub.publish(ctx, r.channel(topic))
}

func (r *RedisFeed) Subscribe(ctx context.Context, topic string) (<-chan struct{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch := make(chan struct{}, 1)
	channel := r.channel(topic)

	go func() {
		defer close(ch)

		err := r.pubsub.receive(ctx, channel, func() { signal(ch) })
		if err != nil && ctx.Err() == nil {
			r.logger.Errorw("redis feed subscription ended", "channel", channel, "error", err)
		}
	}()

	return ch, nil
}
