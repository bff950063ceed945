package sockets

import (
	"testing"

	"github.com/wanderplan/api/data/events"
	"github.com/wanderplan/api/data/model"
	"github.com/wanderplan/api/internal/testutil"
)

func TestPushAfterOverflowIsNoOp(t *testing.T) {
	t.Parallel()

	c := newConnection(nil, model.UserModel{}, 1)

	testutil.Assert(t, true, c.push([]byte("a")), "first push queued")

	// Second push overflows the buffer and closes the queue.
	testutil.Assert(t, false, c.push([]byte("b")), "overflow refused")

	// The connection can still be in rooms; further pushes must be safe
	// no-ops, never a send on the closed queue.
	testutil.Assert(t, false, c.push([]byte("c")), "push after overflow")
	testutil.Assert(t, false, c.push([]byte("d")), "push after overflow, again")
}

func TestPushAfterCloseIsNoOp(t *testing.T) {
	t.Parallel()

	c := newConnection(nil, model.UserModel{}, 4)

	c.close()
	c.close()

	testutil.Assert(t, false, c.push([]byte("a")), "push after close")
}

func TestHubDeliverSurvivesStalledConnection(t *testing.T) {
	t.Parallel()

	h, cancel := testHub(t)
	defer cancel()

	stalled := newConnection(nil, model.UserModel{}, 1)

	h.register(stalled)
	h.joinRoom(stalled, "t1")

	e, err := events.NewEnvelope("t1", events.EventTypeTripUpdated, map[string]string{"title": "Faro"})
	testutil.IsNil(t, err, "envelope builds")

	// First delivery fills the one-slot buffer; the next two overflow and
	// then hit the closed queue. The hub loop must survive all three.
	h.Deliver(e)
	h.Deliver(e)
	h.Deliver(e)
	h.flush()

	testutil.Assert(t, 1, h.CountConnections(), "hub loop still serving")
}
