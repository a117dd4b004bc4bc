// Package rabbitmq is the alternate signaling.Bus implementation,
// selected in place of RedisBus when config names RabbitMQ as the
// shared fan-out transport. Grounded on the teacher's broker/rabbitmq
// client: same exchange-declare/reconnect shape, trimmed to the two
// routing keys the signaling core needs. RabbitBus reconnects on demand
// without waiting; the backoff between subscription attempts is
// BusSubscriber's.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/logistics-id/signalhub/internal/signaling"
)

const (
	exchangeName    = "signalhub.events"
	routingRouted   = "routed"
	routingConfirm  = "confirmation"
	reconnectBackoff = 3 * time.Second
)

// Config defines the RabbitMQ connection used by RabbitBus.
type Config struct {
	Datasource string
	Durable    bool
}

// RabbitBus implements signaling.Bus over a topic exchange: PublishRouted
// and PublishBroadcast both go out under routingRouted (a broadcast is
// just a RoutedMessage whose targets are the "*" sentinel, same as
// RedisBus), PublishConfirmation under routingConfirm.
type RabbitBus struct {
	cfg    *Config
	logger *zap.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

var _ signaling.Bus = (*RabbitBus)(nil)

func New(cfg *Config, logger *zap.Logger) (*RabbitBus, error) {
	b := &RabbitBus{cfg: cfg, logger: logger.With(zap.String("component", "broker.rabbitmq"))}
	if err := b.connect(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *RabbitBus) connect() error {
	conn, err := amqp.Dial(b.cfg.Datasource)
	if err != nil {
		return signaling.NewBusError("rabbitmq dial", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return signaling.NewBusError("rabbitmq channel", err)
	}

	if err := ch.ExchangeDeclare(exchangeName, "topic", b.cfg.Durable, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return signaling.NewBusError("rabbitmq exchange declare", err)
	}

	b.mu.Lock()
	b.conn = conn
	b.ch = ch
	b.mu.Unlock()

	b.logger.Info("rabbitmq connected")
	return nil
}

func (b *RabbitBus) ensureConnected() error {
	b.mu.Lock()
	closed := b.conn == nil || b.conn.IsClosed() || b.ch == nil || b.ch.IsClosed()
	b.mu.Unlock()

	if !closed {
		return nil
	}
	return b.connect()
}

func (b *RabbitBus) publish(ctx context.Context, routingKey string, value any) error {
	if err := b.ensureConnected(); err != nil {
		return err
	}

	body, err := json.Marshal(value)
	if err != nil {
		return signaling.NewBusError("rabbitmq marshal", err)
	}

	b.mu.Lock()
	ch := b.ch
	b.mu.Unlock()

	err = ch.PublishWithContext(ctx, exchangeName, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		return signaling.NewBusError(fmt.Sprintf("rabbitmq publish %s", routingKey), err)
	}
	return nil
}

func (b *RabbitBus) PublishRouted(ctx context.Context, msg signaling.RoutedMessage) error {
	return b.publish(ctx, routingRouted, msg)
}

func (b *RabbitBus) PublishBroadcast(ctx context.Context, msg signaling.RoutedMessage) error {
	msg.TargetEmail = "*"
	msg.TargetDevice = "*"
	return b.publish(ctx, routingRouted, msg)
}

func (b *RabbitBus) PublishConfirmation(ctx context.Context, confirmation signaling.DeliveryConfirmation) error {
	return b.publish(ctx, routingConfirm, confirmation)
}

// Subscribe declares one exclusive, auto-delete queue per pod bound to
// both routing keys, and dispatches deliveries until ctx is cancelled or
// the channel/connection drops — at which point it returns an error so
// BusSubscriber's own backoff loop reconnects and resubscribes.
func (b *RabbitBus) Subscribe(ctx context.Context, onRouted func(signaling.RoutedMessage), onConfirmation func(signaling.DeliveryConfirmation)) error {
	if err := b.ensureConnected(); err != nil {
		return err
	}

	b.mu.Lock()
	conn, parent := b.conn, b.ch
	b.mu.Unlock()

	ch, err := conn.Channel()
	if err != nil {
		return signaling.NewBusError("rabbitmq subscribe channel", err)
	}
	defer ch.Close()
	_ = parent

	queue, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return signaling.NewBusError("rabbitmq queue declare", err)
	}

	for _, key := range []string{routingRouted, routingConfirm} {
		if err := ch.QueueBind(queue.Name, key, exchangeName, false, nil); err != nil {
			return signaling.NewBusError("rabbitmq queue bind", err)
		}
	}

	msgs, err := ch.Consume(queue.Name, "", true, true, false, false, nil)
	if err != nil {
		return signaling.NewBusError("rabbitmq consume", err)
	}

	closeChan := ch.NotifyClose(make(chan *amqp.Error, 1))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case amqpErr := <-closeChan:
			if amqpErr != nil {
				return signaling.NewBusError("rabbitmq channel closed", amqpErr)
			}
			return signaling.NewBusError("rabbitmq channel closed", fmt.Errorf("connection lost"))
		case d, ok := <-msgs:
			if !ok {
				return signaling.NewBusError("rabbitmq consume", fmt.Errorf("delivery channel closed"))
			}
			b.dispatch(d, onRouted, onConfirmation)
		}
	}
}

func (b *RabbitBus) dispatch(d amqp.Delivery, onRouted func(signaling.RoutedMessage), onConfirmation func(signaling.DeliveryConfirmation)) {
	switch d.RoutingKey {
	case routingRouted:
		var msg signaling.RoutedMessage
		if err := json.Unmarshal(d.Body, &msg); err != nil {
			b.logger.Warn("malformed routed message", zap.Error(err))
			return
		}
		onRouted(msg)
	case routingConfirm:
		var confirmation signaling.DeliveryConfirmation
		if err := json.Unmarshal(d.Body, &confirmation); err != nil {
			b.logger.Warn("malformed confirmation", zap.Error(err))
			return
		}
		onConfirmation(confirmation)
	}
}

func (b *RabbitBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ch != nil {
		b.ch.Close()
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}
