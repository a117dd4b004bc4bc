package signaling

import (
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeValidEnvelope(t *testing.T) {
	raw := []byte(`{"event":"register","from_email":"alice@example.com","from_token":"tok","from_device":"phone"}`)

	env, err := Decode(websocket.TextMessage, raw)
	require.NoError(t, err)
	assert.Equal(t, EventRegister, env.Event)
	assert.Equal(t, "alice@example.com", env.FromEmail)
}

func TestDecodeRejectsControlFrameType(t *testing.T) {
	_, err := Decode(websocket.CloseMessage, []byte(`{}`))
	require.Error(t, err)
	assert.IsType(t, &ProtocolError{}, err)
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	_, err := Decode(websocket.TextMessage, []byte(`not json`))
	require.Error(t, err)
	assert.IsType(t, &ProtocolError{}, err)
}

func TestDecodeRejectsUnknownEvent(t *testing.T) {
	_, err := Decode(websocket.TextMessage, []byte(`{"event":"teleport"}`))
	require.Error(t, err)
}

func TestDecodeEnforcesRequiredFieldsPerEvent(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"register missing token", `{"event":"register","from_email":"a@x.com","from_device":"p"}`, false},
		{"register complete", `{"event":"register","from_email":"a@x.com","from_token":"t","from_device":"p"}`, true},
		{"check missing from_email", `{"event":"check"}`, false},
		{"check complete", `{"event":"check","from_email":"a@x.com"}`, true},
		{"sdp_offer missing to_device", `{"event":"sdp_offer","from_email":"a@x.com","from_device":"p","to_email":"b@x.com"}`, false},
		{"sdp_offer complete", `{"event":"sdp_offer","from_email":"a@x.com","from_device":"p","to_email":"b@x.com","to_device":"q"}`, true},
		{"ping requires nothing", `{"event":"ping"}`, true},
		{"disconnect requires nothing", `{"event":"disconnect"}`, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(websocket.TextMessage, []byte(tc.raw))
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	env := &SignalingEnvelope{Event: EventPong, Timestamp: 12345}
	data, err := Encode(env)
	require.NoError(t, err)

	decoded, err := Decode(websocket.TextMessage, data)
	require.NoError(t, err)
	assert.Equal(t, env.Event, decoded.Event)
	assert.Equal(t, env.Timestamp, decoded.Timestamp)
}
