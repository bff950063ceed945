package events

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// EventType names an event as it appears on the wire, both on the broker
// channel and in frames delivered to sockets.
type EventType string

const (
	EventTypeTripUpdated    EventType = "trip-updated"
	EventTypeTripDeleted    EventType = "trip-deleted"
	EventTypeRealTimeStatus EventType = "real-time-status"
)

// Envelope is the transient unit relayed between processes and fanned out to
// a trip's room. It has no persisted identity and no redelivery: each
// subscriber sees it at most once per publish.
type Envelope struct {
	TripID    string              `json:"trip_id"`
	Type      EventType           `json:"type"`
	Timestamp int64               `json:"t"`
	Data      jsoniter.RawMessage `json:"d"`
}

func NewEnvelope(tripID string, t EventType, data interface{}) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, err
	}

	return Envelope{
		TripID:    tripID,
		Type:      t,
		Timestamp: time.Now().UnixMilli(),
		Data:      raw,
	}, nil
}

func (e Envelope) Encode() ([]byte, error) {
	return json.Marshal(e)
}

func DecodeEnvelope(b []byte) (Envelope, error) {
	var e Envelope

	err := json.Unmarshal(b, &e)

	return e, err
}

// RealTimeStatusPayload is the body of a real-time-status envelope.
type RealTimeStatusPayload struct {
	TripID  string `json:"trip_id"`
	Enabled bool   `json:"enabled"`
}

// TripDeletedPayload is the body of a trip-deleted envelope.
type TripDeletedPayload struct {
	TripID string `json:"trip_id"`
}
