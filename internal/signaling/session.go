package signaling

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

type sessionState int

const (
	stateUnregistered sessionState = iota
	stateRegistered
	stateClosed
)

// Session is the per-connection state machine binding a socket to a
// registered identity. States: UNREGISTERED -> REGISTERED -> CLOSED.
type Session struct {
	hub      *Hub
	socketID string
	writer   *Writer

	mu              sync.Mutex
	state           sessionState
	email           string
	userID          string
	deviceID        string
	observePresence bool
	lastPong        int64
	teardownOnce    sync.Once
}

// Writer exposes the session's bounded outbound queue so the transport
// layer's write loop can drain it independently of the read loop.
func (s *Session) Writer() *Writer { return s.writer }

func (s *Session) logger() *zap.Logger {
	return s.hub.Logger.With(zap.String("socket_id", s.socketID), zap.String("email", s.email))
}

// HandleFrame processes one decoded, already-validated inbound envelope.
// It returns true when the transport should close the underlying socket
// (an AuthError, or an explicit disconnect).
func (s *Session) HandleFrame(ctx context.Context, env *SignalingEnvelope) (shouldClose bool) {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	switch state {
	case stateUnregistered:
		return s.handleUnregistered(ctx, env)
	case stateRegistered:
		return s.handleRegistered(ctx, env)
	default: // stateClosed
		return true
	}
}

func (s *Session) handleUnregistered(ctx context.Context, env *SignalingEnvelope) bool {
	switch env.Event {
	case EventRegister:
		return s.handleRegister(ctx, env)
	case EventDisconnect:
		s.setState(stateClosed)
		return true
	default:
		// spec.md §9 REDESIGN FLAG: explicit error instead of silent drop.
		s.reply(&SignalingEnvelope{Event: EventError, Error: "register required before " + string(env.Event)})
		return false
	}
}

func (s *Session) handleRegistered(ctx context.Context, env *SignalingEnvelope) bool {
	switch env.Event {
	case EventCheck:
		s.handleCheck(ctx, env)
	case EventConnect:
		s.reply(&SignalingEnvelope{Event: EventConnected, Status: "ok"})
	case EventPing:
		s.handlePing()
	case EventTryConnect, EventSDPOffer, EventSDPAnswer, EventICECandidate:
		s.forward(ctx, env)
	case EventDisconnect:
		s.setState(stateClosed)
		return true
	default:
		s.reply(&SignalingEnvelope{Event: EventError, Error: "unknown event " + string(env.Event)})
	}
	return false
}

func (s *Session) handleRegister(ctx context.Context, env *SignalingEnvelope) bool {
	userID, err := s.hub.Tokens.ResolveToken(ctx, env.FromToken)
	if err != nil {
		s.reply(&SignalingEnvelope{Event: EventRegister, Status: "error", Error: "Invalid or expired token"})
		s.setState(stateClosed)
		return true
	}

	email, err := s.hub.Tokens.ResolveUserEmail(ctx, userID)
	if err != nil {
		s.reply(&SignalingEnvelope{Event: EventRegister, Status: "error", Error: "Invalid or expired token"})
		s.setState(stateClosed)
		return true
	}

	// spec.md §9 REDESIGN FLAG: email is canonical identity end to end,
	// compared case-sensitively; never parsed as a UUID.
	if email != env.FromEmail {
		s.reply(&SignalingEnvelope{Event: EventRegister, Status: "error", Error: "Email does not match token"})
		s.setState(stateClosed)
		return true
	}

	var payload registerPayload
	if len(env.Payload) > 0 {
		_ = json.Unmarshal(env.Payload, &payload)
	}

	deviceID := env.FromDevice
	descriptor := DeviceDescriptor{
		SocketID:   s.socketID,
		DeviceName: payload.DeviceName,
		DeviceType: payload.DeviceType,
		DeviceID:   deviceID,
	}

	if err := s.hub.Presence.Put(email, deviceID, descriptor); err != nil {
		s.logger().Warn("presence registry unreachable, continuing local-only", zap.Error(err))
	}

	if evicted := s.hub.Router.Bind(email, deviceID, s.writer); evicted != nil {
		evicted.Evict()
	}

	s.mu.Lock()
	s.email = email
	s.userID = userID
	s.deviceID = deviceID
	s.observePresence = payload.ObservePresence
	s.state = stateRegistered
	s.mu.Unlock()

	if payload.ObservePresence {
		s.hub.Subscriber.ObservePresence(s.socketID, s.writer)
	}

	if err := s.hub.Bus.PublishBroadcast(ctx, RoutedMessage{
		SocketMessage: SignalingEnvelope{Event: EventUserJoined, FromEmail: email, FromDevice: deviceID},
		SenderPod:     s.hub.PodID,
		Timestamp:     time.Now().UnixMilli(),
	}); err != nil {
		s.logger().Warn("failed to publish join broadcast", zap.Error(err))
	}

	s.reply(&SignalingEnvelope{Event: EventRegister, Status: "ok", SocketID: s.socketID})
	return false
}

func (s *Session) handleCheck(ctx context.Context, env *SignalingEnvelope) {
	s.mu.Lock()
	userID := s.userID
	s.mu.Unlock()

	contacts, err := s.hub.Contacts.AcceptedContactsOf(ctx, userID)
	if err != nil {
		s.reply(&SignalingEnvelope{Event: EventError, Error: "Failed to resolve contacts"})
		return
	}

	results := make([]PresenceResult, 0, len(contacts))
	for _, contactEmail := range contacts {
		devices, err := s.hub.Presence.ListDevices(contactEmail)
		if err != nil {
			devices = s.localDeviceFallback(contactEmail)
		}
		if len(devices) == 0 {
			continue
		}
		results = append(results, PresenceResult{Email: contactEmail, Devices: devices})
	}

	payload, _ := json.Marshal(results)
	s.reply(&SignalingEnvelope{Event: EventCheck, Payload: payload})
}

func (s *Session) localDeviceFallback(email string) []DeviceDescriptor {
	deviceIDs := s.hub.Router.LocalDevices(email)
	descriptors := make([]DeviceDescriptor, 0, len(deviceIDs))
	for _, deviceID := range deviceIDs {
		writer, ok := s.hub.Router.Lookup(email, deviceID)
		if !ok {
			continue
		}
		descriptors = append(descriptors, DeviceDescriptor{SocketID: writer.SocketID, DeviceID: deviceID})
	}
	return descriptors
}

func (s *Session) handlePing() {
	now := time.Now().Unix()

	s.mu.Lock()
	if now < s.lastPong {
		now = s.lastPong
	}
	s.lastPong = now
	s.mu.Unlock()

	s.reply(&SignalingEnvelope{Event: EventPong, Timestamp: now})
}

func (s *Session) reply(env *SignalingEnvelope) {
	s.writer.Send(env)
}

func (s *Session) setState(state sessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Teardown runs the CLOSED-state cleanup: evict from PresenceRegistry,
// publish a leave broadcast, unbind from LocalRouter. Safe to call more
// than once (e.g. from both the read loop's defer and an explicit
// disconnect event) — only the first call has any effect.
func (s *Session) Teardown(ctx context.Context) {
	s.teardownOnce.Do(func() {
		s.mu.Lock()
		email, deviceID, observe := s.email, s.deviceID, s.observePresence
		s.state = stateClosed
		s.mu.Unlock()

		if email == "" {
			return // never completed register; nothing to tear down
		}

		if err := s.hub.Presence.Evict(email, deviceID); err != nil {
			s.logger().Warn("presence evict failed during teardown", zap.Error(err))
		}

		if err := s.hub.Bus.PublishBroadcast(ctx, RoutedMessage{
			SocketMessage: SignalingEnvelope{Event: EventUserLeft, FromEmail: email, FromDevice: deviceID},
			SenderPod:     s.hub.PodID,
			Timestamp:     time.Now().UnixMilli(),
		}); err != nil {
			s.logger().Warn("failed to publish leave broadcast", zap.Error(err))
		}

		s.hub.Router.Unbind(s.socketID)

		if observe {
			s.hub.Subscriber.StopObserving(s.socketID)
		}
	})
}
