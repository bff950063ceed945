package sockets

import (
	"context"
	"testing"

	"github.com/wanderplan/api/data/events"
	"github.com/wanderplan/api/data/model"
	"github.com/wanderplan/api/internal/configure"
	"github.com/wanderplan/api/internal/global"
	"github.com/wanderplan/api/internal/svc/prometheus"
	"github.com/wanderplan/api/internal/testutil"
)

func testHub(t *testing.T) (*Hub, context.CancelFunc) {
	gCtx, cancel := global.WithCancel(global.New(context.Background(), &configure.Config{}))
	gCtx.Inst().Prometheus = prometheus.New(prometheus.Options{})

	h := NewHub(gCtx)
	go h.Run()

	return h, cancel
}

// flush waits for every op queued before it to run.
func (h *Hub) flush() {
	h.do(func() {})
}

func TestHubDeliverReachesRoom(t *testing.T) {
	t.Parallel()

	h, cancel := testHub(t)
	defer cancel()

	member := newConnection(nil, model.UserModel{}, 8)
	outsider := newConnection(nil, model.UserModel{}, 8)

	h.register(member)
	h.register(outsider)
	testutil.Assert(t, 2, h.CountConnections(), "connections registered")

	testutil.Assert(t, true, h.joinRoom(member, "t1"), "member joins")
	testutil.Assert(t, true, h.joinRoom(outsider, "t2"), "outsider joins another room")

	e, err := events.NewEnvelope("t1", events.EventTypeTripUpdated, map[string]string{"title": "Azores"})
	testutil.IsNil(t, err, "envelope builds")

	h.Deliver(e)
	h.flush()

	select {
	case b := <-member.send:
		var f Frame
		testutil.IsNil(t, json.Unmarshal(b, &f), "frame decodes")
		testutil.Assert(t, string(events.EventTypeTripUpdated), f.Event, "frame event")
	default:
		t.Fatal("member received nothing")
	}

	select {
	case <-outsider.send:
		t.Fatal("envelope leaked into another room")
	default:
	}
}

func TestHubUnregisterReturnsSessions(t *testing.T) {
	t.Parallel()

	h, cancel := testHub(t)
	defer cancel()

	c := newConnection(nil, model.UserModel{}, 8)

	h.register(c)
	h.joinRoom(c, "t1")

	testutil.Assert(t, true, h.startEditing(c, "t1"), "session starts")
	testutil.Assert(t, false, h.startEditing(c, "t1"), "duplicate start refused")

	owned := h.unregister(c)

	testutil.Assert(t, 1, len(owned), "abandoned session returned")
	testutil.Assert(t, "t1", owned[0], "session trip")
	testutil.Assert(t, 0, h.CountConnections(), "connection gone")
}

func TestHubStopThenUnregister(t *testing.T) {
	t.Parallel()

	h, cancel := testHub(t)
	defer cancel()

	c := newConnection(nil, model.UserModel{}, 8)

	h.register(c)
	h.startEditing(c, "t1")

	testutil.Assert(t, true, h.stopEditing(c, "t1"), "explicit stop")

	// The disconnect must not owe a second decrement for the same session.
	testutil.Assert(t, 0, len(h.unregister(c)), "nothing owed after explicit stop")
}
