package sockets

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Frame is the bidirectional wire unit on a socket: a named event plus an
// opaque payload. Client-sent events are routed through the dispatch table;
// server-sent events mirror the envelope types plus a few session frames.
type Frame struct {
	Event string              `json:"event"`
	Data  jsoniter.RawMessage `json:"data,omitempty"`
	T     int64               `json:"t,omitempty"`
}

// Server-only frame events. Room-scoped events (trip-updated, trip-deleted,
// real-time-status) reuse the envelope's event names.
const (
	FrameEventHello = "hello"
	FrameEventAck   = "ack"
	FrameEventError = "error"
)

func newFrame(event string, data interface{}) (Frame, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Frame{}, err
	}

	return Frame{
		Event: event,
		Data:  raw,
		T:     time.Now().UnixMilli(),
	}, nil
}

type HelloPayload struct {
	SessionID         string `json:"session_id"`
	HeartbeatInterval int64  `json:"heartbeat_interval"`
}

type AckPayload struct {
	Event  string `json:"event"`
	TripID string `json:"trip_id"`
	// ActiveEditors is included on start-editing / stop-editing acks.
	ActiveEditors *int32 `json:"active_editors,omitempty"`
}

type ErrorPayload struct {
	Event   string `json:"event,omitempty"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
