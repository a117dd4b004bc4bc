package signaling

import (
	"encoding/json"

	"github.com/gorilla/websocket"
)

// Decode parses a single WebSocket frame into a SignalingEnvelope. Only
// text and binary frames reach here; control frames (ping/pong/close) are
// handled by gorilla/websocket beneath the read loop and never decoded.
func Decode(messageType int, data []byte) (*SignalingEnvelope, error) {
	if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
		return nil, NewProtocolError("unsupported frame type %d", messageType)
	}

	var env SignalingEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, NewProtocolError("malformed envelope: %v", err)
	}

	if err := Validate(&env); err != nil {
		return nil, err
	}

	return &env, nil
}

// Encode serializes an envelope back to its wire JSON form.
func Encode(env *SignalingEnvelope) ([]byte, error) {
	return json.Marshal(env)
}

// requiredFields enumerates the non-empty fields spec.md §4.1 demands per
// event. Events absent from this map (ping, pong, disconnect) require
// nothing beyond a recognized event name.
var requiredFields = map[EventType][]string{
	EventRegister:     {"from_email", "from_token", "from_device"},
	EventCheck:        {"from_email"},
	EventConnect:      {"from_email"},
	EventTryConnect:   {"from_email", "from_device", "to_email", "to_device"},
	EventSDPOffer:     {"from_email", "from_device", "to_email", "to_device"},
	EventSDPAnswer:    {"from_email", "from_device", "to_email", "to_device"},
	EventICECandidate: {"from_email", "from_device", "to_email", "to_device"},
}

var knownEvents = map[EventType]bool{
	EventRegister: true, EventCheck: true, EventConnect: true,
	EventTryConnect: true, EventSDPOffer: true, EventSDPAnswer: true,
	EventICECandidate: true, EventPing: true, EventPong: true, EventDisconnect: true,
}

// Validate enforces the per-event required-field table. It is pure: it
// never touches shared state and can run without a hub.
func Validate(env *SignalingEnvelope) error {
	if !knownEvents[env.Event] {
		return NewProtocolError("unknown event %q", env.Event)
	}

	for _, field := range requiredFields[env.Event] {
		if fieldEmpty(env, field) {
			return NewProtocolError("event %q requires non-empty %q", env.Event, field)
		}
	}

	return nil
}

func fieldEmpty(env *SignalingEnvelope, field string) bool {
	switch field {
	case "from_email":
		return env.FromEmail == ""
	case "from_token":
		return env.FromToken == ""
	case "from_device":
		return env.FromDevice == ""
	case "to_email":
		return env.ToEmail == ""
	case "to_device":
		return env.ToDevice == ""
	default:
		return false
	}
}
