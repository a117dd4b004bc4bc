package signaling

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// BusSubscriber is the single long-lived per-pod task that consumes the
// shared fan-out channel and dispatches inbound routed messages to the
// LocalRouter. It never exits permanently while the process is alive: on
// connection loss it sleeps for busReconnectBackoff and retries.
type BusSubscriber struct {
	bus     Bus
	router  *LocalRouter
	pending *PendingDeliveryTable
	podID   string
	logger  *zap.Logger

	observersMu sync.RWMutex
	observers   map[string]*Writer // socketId -> writer, for observe_presence sessions
}

func NewBusSubscriber(bus Bus, router *LocalRouter, pending *PendingDeliveryTable, podID string, logger *zap.Logger) *BusSubscriber {
	return &BusSubscriber{
		bus:       bus,
		router:    router,
		pending:   pending,
		podID:     podID,
		logger:    logger.With(zap.String("component", "bus_subscriber")),
		observers: make(map[string]*Writer),
	}
}

// Run blocks, reconnecting with backoff, until ctx is cancelled.
func (s *BusSubscriber) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		err := s.bus.Subscribe(ctx, s.handleRouted, s.handleConfirmation)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			s.logger.Warn("bus subscription lost, reconnecting", zap.Error(err), zap.Duration("backoff", busReconnectBackoff))
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(busReconnectBackoff):
		}
	}
}

// ObservePresence registers writer to receive presence broadcasts. Called
// by SessionMachine when a register payload sets observe_presence: true
// (spec.md §9 open question, resolved as opt-in — see SPEC_FULL.md §11).
func (s *BusSubscriber) ObservePresence(socketID string, writer *Writer) {
	s.observersMu.Lock()
	defer s.observersMu.Unlock()
	s.observers[socketID] = writer
}

// StopObserving removes a socket from the broadcast fan-out, called on
// disconnect.
func (s *BusSubscriber) StopObserving(socketID string) {
	s.observersMu.Lock()
	defer s.observersMu.Unlock()
	delete(s.observers, socketID)
}

func (s *BusSubscriber) handleRouted(msg RoutedMessage) {
	if msg.TargetEmail == broadcastTarget && msg.TargetDevice == broadcastTarget {
		s.logger.Debug("presence broadcast received", zap.String("event", string(msg.SocketMessage.Event)))
		s.fanOutBroadcast(msg)
		return
	}

	writer, ok := s.router.Lookup(msg.TargetEmail, msg.TargetDevice)
	if !ok {
		// Some other pod owns this device; nothing to do here.
		return
	}

	env := msg.SocketMessage
	writer.Send(&env)

	if msg.MessageID != "" {
		if err := s.bus.PublishConfirmation(context.Background(), DeliveryConfirmation{MessageID: msg.MessageID, Delivered: true}); err != nil {
			s.logger.Warn("failed to publish delivery confirmation", zap.String("message_id", msg.MessageID), zap.Error(err))
		}
	}
}

func (s *BusSubscriber) handleConfirmation(confirmation DeliveryConfirmation) {
	s.pending.Resolve(confirmation.MessageID)
}

func (s *BusSubscriber) fanOutBroadcast(msg RoutedMessage) {
	s.observersMu.RLock()
	defer s.observersMu.RUnlock()

	env := msg.SocketMessage
	for _, writer := range s.observers {
		writer.Send(&env)
	}
}
