package signaling

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"
)

const (
	channelMessages     = "socket:messages"
	channelConfirmations = "socket:confirmations"

	// busReconnectBackoff is the spec.md §5 mandated reconnect baseline.
	busReconnectBackoff = 5 * time.Second
)

// RedisBus is the primary Bus implementation: pub/sub on the same
// *redis.Pool the PresenceRegistry uses for its KV/hash writes, resolving
// spec.md §9's "hard-coded bus endpoint" flag — one pool, one config, for
// both halves of the presence story.
type RedisBus struct {
	pool   *redis.Pool
	logger *zap.Logger
}

func NewRedisBus(pool *redis.Pool, logger *zap.Logger) *RedisBus {
	return &RedisBus{pool: pool, logger: logger.With(zap.String("component", "redis_bus"))}
}

func (b *RedisBus) PublishRouted(ctx context.Context, msg RoutedMessage) error {
	return b.publish(channelMessages, msg)
}

func (b *RedisBus) PublishBroadcast(ctx context.Context, msg RoutedMessage) error {
	msg.TargetEmail = broadcastTarget
	msg.TargetDevice = broadcastTarget
	return b.publish(channelMessages, msg)
}

func (b *RedisBus) PublishConfirmation(ctx context.Context, confirmation DeliveryConfirmation) error {
	return b.publish(channelConfirmations, confirmation)
}

func (b *RedisBus) publish(channel string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	conn := b.pool.Get()
	defer conn.Close()

	if _, err := conn.Do("PUBLISH", channel, data); err != nil {
		return NewBusError("publish", err)
	}
	return nil
}

// Subscribe holds a dedicated connection from the same pool in
// publish/subscribe mode and dispatches decoded payloads to the callbacks
// until ctx is cancelled. Connection loss triggers the caller's (C4
// BusSubscriber's) reconnect/backoff loop — Subscribe itself returns the
// error rather than looping internally, so the backoff policy lives in one
// place (subscriber.go).
func (b *RedisBus) Subscribe(ctx context.Context, onRouted func(RoutedMessage), onConfirmation func(DeliveryConfirmation)) error {
	conn := b.pool.Get()
	defer conn.Close()

	psc := redis.PubSubConn{Conn: conn}
	if err := psc.Subscribe(channelMessages, channelConfirmations); err != nil {
		return NewBusError("subscribe", err)
	}
	defer psc.Unsubscribe(channelMessages, channelConfirmations)

	done := make(chan error, 1)
	go func() {
		for {
			switch v := psc.Receive().(type) {
			case redis.Message:
				b.dispatch(v.Channel, v.Data, onRouted, onConfirmation)
			case redis.Subscription:
				b.logger.Debug("subscription state", zap.String("channel", v.Channel), zap.String("kind", v.Kind), zap.Int("count", v.Count))
			case error:
				done <- NewBusError("receive", v)
				return
			}
		}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

func (b *RedisBus) dispatch(channel string, data []byte, onRouted func(RoutedMessage), onConfirmation func(DeliveryConfirmation)) {
	switch channel {
	case channelMessages:
		var msg RoutedMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			b.logger.Warn("malformed routed message", zap.Error(err))
			return
		}
		onRouted(msg)
	case channelConfirmations:
		var confirmation DeliveryConfirmation
		if err := json.Unmarshal(data, &confirmation); err != nil {
			b.logger.Warn("malformed delivery confirmation", zap.Error(err))
			return
		}
		onConfirmation(confirmation)
	}
}
