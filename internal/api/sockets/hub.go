package sockets

import (
	"github.com/wanderplan/api/data/events"
	"github.com/wanderplan/api/internal/global"
	"go.uber.org/zap"
)

// Hub serializes all room membership and session mutations through a single
// run loop, so handler goroutines never contend on the gateway's in-memory
// state. Persistence and broker I/O stay outside the loop.
type Hub struct {
	gctx  global.Context
	ops   chan func()
	state *roomState
	conns map[*Connection]struct{}
}

func NewHub(gctx global.Context) *Hub {
	return &Hub{
		gctx:  gctx,
		ops:   make(chan func(), 256),
		state: newRoomState(),
		conns: map[*Connection]struct{}{},
	}
}

// Run consumes hub operations until the global context is canceled. On
// shutdown every remaining connection is closed.
func (h *Hub) Run() {
	defer func() {
		for c := range h.conns {
			c.close()
		}
	}()

	for {
		select {
		case <-h.gctx.Done():
			return
		case op := <-h.ops:
			op()
		}
	}
}

// do runs fn on the hub loop and waits for it to complete.
func (h *Hub) do(fn func()) {
	done := make(chan struct{})

	select {
	case h.ops <- func() {
		fn()
		close(done)
	}:
	case <-h.gctx.Done():
		return
	}

	select {
	case <-done:
	case <-h.gctx.Done():
	}
}

func (h *Hub) register(c *Connection) {
	h.do(func() {
		h.conns[c] = struct{}{}
	})

	h.gctx.Inst().Prometheus.ConnectionsOpen().Inc()
}

// unregister drops the connection from all rooms and returns the trips it
// still held editing sessions for.
func (h *Hub) unregister(c *Connection) []string {
	var owned []string

	h.do(func() {
		owned = h.state.drop(c)
		delete(h.conns, c)
	})

	h.gctx.Inst().Prometheus.ConnectionsOpen().Dec()

	return owned
}

func (h *Hub) joinRoom(c *Connection, tripID string) bool {
	var joined bool

	h.do(func() {
		joined = h.state.join(c, tripID)
	})

	if joined {
		h.gctx.Inst().Prometheus.RoomSubscriptions().Inc()
	}

	return joined
}

func (h *Hub) leaveRoom(c *Connection, tripID string) bool {
	var left bool

	h.do(func() {
		left = h.state.leave(c, tripID)
	})

	if left {
		h.gctx.Inst().Prometheus.RoomSubscriptions().Dec()
	}

	return left
}

func (h *Hub) startEditing(c *Connection, tripID string) bool {
	var created bool

	h.do(func() {
		created = h.state.startEdit(c, tripID)
	})

	if created {
		h.gctx.Inst().Prometheus.EditingSessions().Inc()
	}

	return created
}

func (h *Hub) stopEditing(c *Connection, tripID string) bool {
	var existed bool

	h.do(func() {
		existed = h.state.stopEdit(c, tripID)
	})

	if existed {
		h.gctx.Inst().Prometheus.EditingSessions().Dec()
	}

	return existed
}

// Deliver fans an envelope out to the envelope's room. Implements
// instance.Gateway; this is the relay's entry point into this process.
func (h *Hub) Deliver(e events.Envelope) {
	frame := Frame{
		Event: string(e.Type),
		Data:  e.Data,
		T:     e.Timestamp,
	}

	b, err := json.Marshal(frame)
	if err != nil {
		zap.S().Errorw("failed to encode outbound frame",
			"error", err,
			"trip_id", e.TripID,
		)

		return
	}

	op := func() {
		for _, c := range h.state.subscribers(e.TripID) {
			if c.push(b) {
				h.gctx.Inst().Prometheus.EventsDelivered().Inc()
			}
		}
	}

	select {
	case h.ops <- op:
	case <-h.gctx.Done():
	}
}

func (h *Hub) CountConnections() int {
	var n int

	h.do(func() {
		n = len(h.conns)
	})

	return n
}
