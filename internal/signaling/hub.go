package signaling

import (
	"context"

	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"
)

// Hub wires together the shared, pod-wide signaling state: the local
// router, presence registry, bus, pending-delivery table and the two
// external collaborators. One Hub per process; one Session per connection
// is created from it.
type Hub struct {
	Router     *LocalRouter
	Presence   PresenceStore
	Bus        Bus
	Pending    *PendingDeliveryTable
	Subscriber *BusSubscriber
	Tokens     TokenAuthority
	Contacts   ContactGraph
	PodID      string
	Logger     *zap.Logger
}

// NewHub assembles a Hub from its collaborators and starts the bus
// subscriber. The caller is responsible for cancelling ctx on shutdown.
func NewHub(ctx context.Context, bus Bus, tokens TokenAuthority, contacts ContactGraph, pool *redis.Pool, podID string, logger *zap.Logger) *Hub {
	router := NewLocalRouter()
	presence := NewPresenceRegistry(pool, logger)
	pending := NewPendingDeliveryTable()
	subscriber := NewBusSubscriber(bus, router, pending, podID, logger)

	h := &Hub{
		Router:     router,
		Presence:   presence,
		Bus:        bus,
		Pending:    pending,
		Subscriber: subscriber,
		Tokens:     tokens,
		Contacts:   contacts,
		PodID:      podID,
		Logger:     logger.With(zap.String("component", "hub"), zap.String("pod", podID)),
	}

	go subscriber.Run(ctx)

	return h
}

// NewSession creates a fresh, unregistered session bound to a new socket
// identity. socketID is generated by the caller (internal/transport/ws,
// via google/uuid) at accept time.
func (h *Hub) NewSession(socketID string) *Session {
	return &Session{
		hub:      h,
		socketID: socketID,
		writer:   NewWriter(socketID),
		state:    stateUnregistered,
	}
}
