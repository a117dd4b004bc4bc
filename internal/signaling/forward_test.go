package signaling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardDeliversDirectlyWhenTargetIsLocal(t *testing.T) {
	h, _, tokens, _ := testHub(t)

	registerSession(t, h, tokens, "socket-bob", "tok-bob", "user-bob", "bob@example.com", "laptop", false)
	alice := registerSession(t, h, tokens, "socket-alice", "tok-alice", "user-alice", "alice@example.com", "phone", false)

	bobWriter, ok := h.Router.Lookup("bob@example.com", "laptop")
	require.True(t, ok)

	shouldClose := alice.HandleFrame(context.Background(), &SignalingEnvelope{
		Event:      EventSDPOffer,
		FromEmail:  "alice@example.com",
		FromDevice: "phone",
		ToEmail:    "bob@example.com",
		ToDevice:   "laptop",
		Payload:    []byte(`{"sdp":"v=0"}`),
	})
	assert.False(t, shouldClose)

	select {
	case env := <-bobWriter.Frames:
		assert.Equal(t, EventSDPOffer, env.Event)
		assert.Equal(t, "alice@example.com", env.FromEmail)
	case <-time.After(time.Second):
		t.Fatal("expected bob's writer to receive the forwarded offer directly")
	}
}

// TestForwardCrossPodConfirmsDelivery exercises the full cross-pod path
// using two independent hubs sharing one fakeBus, mirroring two pods
// publishing/subscribing on the same channel.
func TestForwardCrossPodConfirmsDelivery(t *testing.T) {
	bus := newFakeBus()

	tokensA := newFakeTokens()
	routerA := NewLocalRouter()
	pendingA := NewPendingDeliveryTable()
	subA := NewBusSubscriber(bus, routerA, pendingA, "pod-a", testLogger())

	tokensB := newFakeTokens()
	routerB := NewLocalRouter()
	pendingB := NewPendingDeliveryTable()
	subB := NewBusSubscriber(bus, routerB, pendingB, "pod-b", testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go subA.Run(ctx)
	go subB.Run(ctx)
	bus.waitForSubscribers(t, 2)

	hubA := &Hub{Router: routerA, Presence: newFakePresence(), Bus: bus, Pending: pendingA, Subscriber: subA, Tokens: tokensA, Contacts: newFakeContacts(), PodID: "pod-a", Logger: testLogger()}
	hubB := &Hub{Router: routerB, Presence: newFakePresence(), Bus: bus, Pending: pendingB, Subscriber: subB, Tokens: tokensB, Contacts: newFakeContacts(), PodID: "pod-b", Logger: testLogger()}

	// bob is registered on pod B only; pod A has no local binding for him.
	bob := registerSession(t, hubB, tokensB, "socket-bob", "tok-bob", "user-bob", "bob@example.com", "laptop", false)
	alice := registerSession(t, hubA, tokensA, "socket-alice", "tok-alice", "user-alice", "alice@example.com", "phone", false)

	shouldClose := alice.HandleFrame(context.Background(), &SignalingEnvelope{
		Event:      EventSDPOffer,
		FromEmail:  "alice@example.com",
		FromDevice: "phone",
		ToEmail:    "bob@example.com",
		ToDevice:   "laptop",
		Payload:    []byte(`{"sdp":"v=0"}`),
	})
	assert.False(t, shouldClose)

	select {
	case env := <-bob.Writer().Frames:
		assert.Equal(t, EventSDPOffer, env.Event)
	case <-time.After(time.Second):
		t.Fatal("expected bob (on pod B) to receive the routed offer")
	}

	// alice's writer must NOT see a target_not_found, since pod B confirmed
	// delivery within the forward window.
	select {
	case env := <-alice.Writer().Frames:
		t.Fatalf("expected no further frames for alice, got %v", env.Event)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestForwardTargetNotFoundAfterTimeout(t *testing.T) {
	h, _, tokens, _ := testHub(t)
	alice := registerSession(t, h, tokens, "socket-alice", "tok-alice", "user-alice", "alice@example.com", "phone", false)

	done := make(chan struct{})
	go func() {
		alice.forward(context.Background(), &SignalingEnvelope{
			Event:      EventSDPOffer,
			FromEmail:  "alice@example.com",
			FromDevice: "phone",
			ToEmail:    "ghost@example.com",
			ToDevice:   "nowhere",
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(forwardConfirmationTimeout + time.Second):
		t.Fatal("forward did not return after the confirmation timeout")
	}

	reply := drainOne(t, alice.Writer())
	assert.Equal(t, EventTargetNotFound, reply.Event)
	assert.Equal(t, "ghost@example.com", reply.TargetEmail)
	assert.Equal(t, "User ghost@example.com with device nowhere is not online", reply.Error)
}

func TestForwardReportsErrorWhenBusPublishFails(t *testing.T) {
	h, bus, tokens, _ := testHub(t)
	bus.failPublish = true
	alice := registerSession(t, h, tokens, "socket-alice", "tok-alice", "user-alice", "alice@example.com", "phone", false)

	alice.forward(context.Background(), &SignalingEnvelope{
		Event:      EventSDPOffer,
		FromEmail:  "alice@example.com",
		FromDevice: "phone",
		ToEmail:    "bob@example.com",
		ToDevice:   "laptop",
	})

	reply := drainOne(t, alice.Writer())
	assert.Equal(t, EventError, reply.Event)
	assert.Equal(t, "Failed to route message - Redis unavailable", reply.Error)
}

func TestForwardCancelledContextReleasesPendingEntryWithoutReply(t *testing.T) {
	h, _, tokens, _ := testHub(t)
	alice := registerSession(t, h, tokens, "socket-alice", "tok-alice", "user-alice", "alice@example.com", "phone", false)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		alice.forward(ctx, &SignalingEnvelope{
			Event:      EventSDPOffer,
			FromEmail:  "alice@example.com",
			FromDevice: "phone",
			ToEmail:    "ghost@example.com",
			ToDevice:   "nowhere",
		})
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("forward did not return promptly after context cancellation")
	}

	select {
	case env := <-alice.Writer().Frames:
		t.Fatalf("expected no reply to a socket that is already gone, got %v", env.Event)
	case <-time.After(100 * time.Millisecond):
	}

	assert.Empty(t, h.Pending.entries, "the pending entry must be released once the forward returns")
}
