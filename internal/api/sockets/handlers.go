package sockets

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/wanderplan/api/internal/errors"
	"github.com/wanderplan/api/internal/global"
	"github.com/wanderplan/api/internal/svc/realtime"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Client-sent events.
const (
	EventJoinRoom     = "join-room"
	EventLeaveRoom    = "leave-room"
	EventStartEditing = "start-editing"
	EventStopEditing  = "stop-editing"
)

type handlerFn func(gctx global.Context, h *Hub, c *Connection, data jsoniter.RawMessage) errors.APIError

// handlers is the dispatch table for client-sent frames, keyed by event
// name. Unknown events get an error frame back.
var handlers = map[string]handlerFn{
	EventJoinRoom:     handleJoinRoom,
	EventLeaveRoom:    handleLeaveRoom,
	EventStartEditing: handleStartEditing,
	EventStopEditing:  handleStopEditing,
}

// parseTripID accepts either a bare string payload ("65af...") or an object
// ({"trip_id": "65af..."}); older clients send the former.
func parseTripID(data jsoniter.RawMessage) (primitive.ObjectID, string, errors.APIError) {
	var s string

	if err := json.Unmarshal(data, &s); err != nil {
		var body struct {
			TripID string `json:"trip_id"`
		}

		if err := json.Unmarshal(data, &body); err != nil {
			return primitive.NilObjectID, "", errors.ErrInvalidRequest().SetDetail("missing trip id")
		}

		s = body.TripID
	}

	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, "", errors.ErrBadObjectID()
	}

	return id, s, nil
}

// handleJoinRoom subscribes the connection to a trip's room as a viewer.
// Viewers receive broadcasts but do not count toward the presence threshold.
func handleJoinRoom(gctx global.Context, h *Hub, c *Connection, data jsoniter.RawMessage) errors.APIError {
	tripID, key, apiErr := parseTripID(data)
	if apiErr != nil {
		return apiErr
	}

	trip, apiErr := gctx.Inst().Query.TripByID(gctx, tripID)
	if apiErr != nil {
		return apiErr
	}

	if !trip.HasAccess(c.actor.ID) {
		return errors.ErrInsufficientAccess()
	}

	h.joinRoom(c, key)

	ack(c, EventJoinRoom, key, nil)

	return nil
}

func handleLeaveRoom(gctx global.Context, h *Hub, c *Connection, data jsoniter.RawMessage) errors.APIError {
	_, key, apiErr := parseTripID(data)
	if apiErr != nil {
		return apiErr
	}

	h.leaveRoom(c, key)

	ack(c, EventLeaveRoom, key, nil)

	return nil
}

// handleStartEditing creates an editing session and raises the presence
// counter. If the counter write fails the session is rolled back so the
// gateway's view cannot drift ahead of the stored counter.
func handleStartEditing(gctx global.Context, h *Hub, c *Connection, data jsoniter.RawMessage) errors.APIError {
	tripID, key, apiErr := parseTripID(data)
	if apiErr != nil {
		return apiErr
	}

	if !h.startEditing(c, key) {
		// Duplicate start: the session already counts.
		ack(c, EventStartEditing, key, nil)

		return nil
	}

	count, err := gctx.Inst().Presences.Increment(gctx, tripID)
	if err != nil {
		h.stopEditing(c, key)

		return errors.ErrPresenceWriteFail().SetDetail(err.Error())
	}

	gctx.Inst().Realtime.Notify(gctx, tripID, realtime.OpIncrement, count)

	ack(c, EventStartEditing, key, &count)

	return nil
}

// handleStopEditing destroys the session if the connection owns one. A stop
// with no matching session is a no-op, so duplicates and a later transport
// close can never decrement twice.
func handleStopEditing(gctx global.Context, h *Hub, c *Connection, data jsoniter.RawMessage) errors.APIError {
	tripID, key, apiErr := parseTripID(data)
	if apiErr != nil {
		return apiErr
	}

	if !h.stopEditing(c, key) {
		ack(c, EventStopEditing, key, nil)

		return nil
	}

	count, err := gctx.Inst().Presences.Decrement(gctx, tripID)
	if err != nil {
		return errors.ErrPresenceWriteFail().SetDetail(err.Error())
	}

	gctx.Inst().Realtime.Notify(gctx, tripID, realtime.OpDecrement, count)

	ack(c, EventStopEditing, key, &count)

	return nil
}

func ack(c *Connection, event string, tripID string, count *int32) {
	f, err := newFrame(FrameEventAck, AckPayload{
		Event:         event,
		TripID:        tripID,
		ActiveEditors: count,
	})
	if err != nil {
		return
	}

	c.sendFrame(f)
}
