package signaling

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// fakeBus is an in-process Bus: PublishRouted/PublishBroadcast/
// PublishConfirmation loop straight back into registered subscriber
// callbacks, letting the signaling tests exercise cross-pod forwarding
// without a live Redis (SPEC_FULL.md §8: core routing tests don't require
// one).
type fakeBus struct {
	mu             sync.Mutex
	onRouted       []func(RoutedMessage)
	onConfirmation []func(DeliveryConfirmation)

	failPublish bool
}

func newFakeBus() *fakeBus { return &fakeBus{} }

func testLogger() *zap.Logger { return zap.NewNop() }

func (b *fakeBus) PublishRouted(ctx context.Context, msg RoutedMessage) error {
	if b.failPublish {
		return NewBusError("publish", errTestBus)
	}
	b.mu.Lock()
	handlers := append([]func(RoutedMessage){}, b.onRouted...)
	b.mu.Unlock()
	for _, h := range handlers {
		h(msg)
	}
	return nil
}

func (b *fakeBus) PublishBroadcast(ctx context.Context, msg RoutedMessage) error {
	msg.TargetEmail = broadcastTarget
	msg.TargetDevice = broadcastTarget
	return b.PublishRouted(ctx, msg)
}

func (b *fakeBus) PublishConfirmation(ctx context.Context, confirmation DeliveryConfirmation) error {
	if b.failPublish {
		return NewBusError("publish", errTestBus)
	}
	b.mu.Lock()
	handlers := append([]func(DeliveryConfirmation){}, b.onConfirmation...)
	b.mu.Unlock()
	for _, h := range handlers {
		h(confirmation)
	}
	return nil
}

// waitForSubscribers blocks until at least n BusSubscriber.Run goroutines
// have registered their callbacks, so tests that start Run in a goroutine
// don't race its Subscribe call.
func (b *fakeBus) waitForSubscribers(t testingT, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		b.mu.Lock()
		count := len(b.onRouted)
		b.mu.Unlock()
		if count >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
}

func (b *fakeBus) Subscribe(ctx context.Context, onRouted func(RoutedMessage), onConfirmation func(DeliveryConfirmation)) error {
	b.mu.Lock()
	b.onRouted = append(b.onRouted, onRouted)
	b.onConfirmation = append(b.onConfirmation, onConfirmation)
	b.mu.Unlock()

	<-ctx.Done()
	return ctx.Err()
}

var errTestBus = &fakeErr{"bus unavailable"}

type fakeErr struct{ msg string }

func (e *fakeErr) Error() string { return e.msg }

// fakeTokens is a TokenAuthority backed by two in-memory maps.
type fakeTokens struct {
	users  map[string]string // token -> userID
	emails map[string]string // userID -> email
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{users: map[string]string{}, emails: map[string]string{}}
}

func (t *fakeTokens) register(token, userID, email string) {
	t.users[token] = userID
	t.emails[userID] = email
}

func (t *fakeTokens) ResolveToken(ctx context.Context, tokenID string) (string, error) {
	userID, ok := t.users[tokenID]
	if !ok {
		return "", NewAuthError("unknown token")
	}
	return userID, nil
}

func (t *fakeTokens) ResolveUserEmail(ctx context.Context, userID string) (string, error) {
	email, ok := t.emails[userID]
	if !ok {
		return "", NewStoreError("resolve email", errTestBus)
	}
	return email, nil
}

// fakeContacts is a ContactGraph backed by an adjacency map.
type fakeContacts struct {
	edges map[string][]string // userID -> accepted contact emails
}

func newFakeContacts() *fakeContacts {
	return &fakeContacts{edges: map[string][]string{}}
}

func (c *fakeContacts) AcceptedContactsOf(ctx context.Context, userID string) ([]string, error) {
	return c.edges[userID], nil
}

// testHub builds a Hub wired entirely to fakes and an in-memory presence
// registry stand-in (ListDevices/Put/Evict implemented directly against a
// map, skirting the real PresenceRegistry's Redis dependency the same way
// SPEC_FULL.md §8 asks of these tests).
func testHub(t testingT) (*Hub, *fakeBus, *fakeTokens, *fakeContacts) {
	t.Helper()

	bus := newFakeBus()
	tokens := newFakeTokens()
	contacts := newFakeContacts()
	logger := zap.NewNop()

	router := NewLocalRouter()
	pending := NewPendingDeliveryTable()
	subscriber := NewBusSubscriber(bus, router, pending, "pod-test", logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go subscriber.Run(ctx)
	bus.waitForSubscribers(t, 1)

	h := &Hub{
		Router:     router,
		Presence:   newFakePresence(),
		Bus:        bus,
		Pending:    pending,
		Subscriber: subscriber,
		Tokens:     tokens,
		Contacts:   contacts,
		PodID:      "pod-test",
		Logger:     logger,
	}

	return h, bus, tokens, contacts
}

// testingT is the subset of *testing.T this helper needs, so it can live
// in a _test.go file without importing "testing" into every caller.
type testingT interface {
	Helper()
	Cleanup(func())
}

// fakePresence is an in-memory PresenceStore, standing in for the
// Redis-backed PresenceRegistry in tests.
type fakePresence struct {
	mu      sync.Mutex
	entries map[string]DeviceDescriptor // "email:deviceId" -> descriptor

	failListDevices bool
}

func newFakePresence() *fakePresence {
	return &fakePresence{entries: map[string]DeviceDescriptor{}}
}

func presenceEntryKey(email, deviceID string) string { return email + ":" + deviceID }

func (p *fakePresence) Put(email, deviceID string, descriptor DeviceDescriptor) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[presenceEntryKey(email, deviceID)] = descriptor
	return nil
}

func (p *fakePresence) Evict(email, deviceID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.entries, presenceEntryKey(email, deviceID))
	return nil
}

func (p *fakePresence) ListDevices(email string) ([]DeviceDescriptor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failListDevices {
		return nil, NewBusError("presence list", errTestBus)
	}

	var out []DeviceDescriptor
	prefix := email + ":"
	for key, d := range p.entries {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			out = append(out, d)
		}
	}
	return out, nil
}
