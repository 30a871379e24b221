package phxsock

import (
	"encoding/json"
	"fmt"
)

// Reserved topic and event names used by the protocol itself.
const (
	// TopicPhoenix is the control topic used for heartbeat pushes.
	TopicPhoenix = "phoenix"

	// EventHeartbeat is the event name of keepalive pushes.
	EventHeartbeat = "heartbeat"

	// EventError is the synthetic event delivered to subscribers when the
	// connection drops. It never appears on the wire.
	EventError = "phx_error"
)

// Message is the envelope exchanged with the remote endpoint. The same shape
// is used for outbound pushes, inbound frames, and events forwarded to
// subscribers.
//
// Ref is the decimal form of the socket's push counter. It is assigned by the
// socket when a push is accepted; inbound frames carry whatever ref the
// server echoed. Synthetic events (EventError) have an empty ref.
type Message struct {
	Topic   string `json:"topic"`
	Event   string `json:"event"`
	Payload any    `json:"payload"`
	Ref     string `json:"ref"`
}

// Encode serializes the message to its wire form.
func (m Message) Encode() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return data, nil
}

// DecodeMessage parses a wire frame into a Message. Frames that are not
// JSON objects (including null) are rejected with ErrMalformedFrame.
func DecodeMessage(data []byte) (Message, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if fields == nil {
		return Message{}, fmt.Errorf("%w: not a json object", ErrMalformedFrame)
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	return msg, nil
}
