package signaling

import "context"

// Bus abstracts the shared fan-out channel used for cross-pod delivery. Two
// implementations exist: RedisBus (internal/signaling/redisbus.go, primary)
// and RabbitBus (internal/broker/rabbitmq, alternate) — only one is active
// per deployment, selected by config.
type Bus interface {
	// PublishRouted publishes a unicast RoutedMessage targeting a specific
	// (email, deviceId).
	PublishRouted(ctx context.Context, msg RoutedMessage) error
	// PublishBroadcast publishes a join/leave broadcast with both targets
	// set to the "*" sentinel.
	PublishBroadcast(ctx context.Context, msg RoutedMessage) error
	// PublishConfirmation publishes a DeliveryConfirmation for a message
	// this pod just delivered locally.
	PublishConfirmation(ctx context.Context, confirmation DeliveryConfirmation) error
	// Subscribe blocks, invoking onRouted/onConfirmation for every message
	// received, until ctx is cancelled or an unrecoverable error occurs. It
	// never returns nil while the process is alive — reconnect/backoff is
	// the caller's (BusSubscriber's) responsibility, driven by the error
	// this returns.
	Subscribe(ctx context.Context, onRouted func(RoutedMessage), onConfirmation func(DeliveryConfirmation)) error
}
