package sockets

import (
	"testing"

	"github.com/wanderplan/api/internal/testutil"
)

func TestRoomJoinLeave(t *testing.T) {
	t.Parallel()

	s := newRoomState()
	a := &Connection{}
	b := &Connection{}

	testutil.Assert(t, true, s.join(a, "t1"), "first join")
	testutil.Assert(t, false, s.join(a, "t1"), "duplicate join")
	testutil.Assert(t, true, s.join(b, "t1"), "second connection joins")

	testutil.Assert(t, 2, len(s.subscribers("t1")), "room size")
	testutil.Assert(t, 2, s.countSubscriptions(), "subscription count")

	testutil.Assert(t, true, s.leave(a, "t1"), "leave")
	testutil.Assert(t, false, s.leave(a, "t1"), "leave twice")
	testutil.Assert(t, false, s.leave(a, "t2"), "leave unknown room")

	testutil.Assert(t, 1, len(s.subscribers("t1")), "room size after leave")

	testutil.Assert(t, true, s.leave(b, "t1"), "last member leaves")
	testutil.Assert(t, 0, len(s.rooms), "empty room reaped")
}

func TestEditingSessionOwnership(t *testing.T) {
	t.Parallel()

	s := newRoomState()
	c := &Connection{}

	testutil.Assert(t, true, s.startEdit(c, "t1"), "session starts")
	testutil.Assert(t, false, s.startEdit(c, "t1"), "duplicate start does not double count")

	testutil.Assert(t, true, s.stopEdit(c, "t1"), "session stops")
	testutil.Assert(t, false, s.stopEdit(c, "t1"), "stop is idempotent")
	testutil.Assert(t, false, s.stopEdit(c, "t2"), "stop without session")

	testutil.Assert(t, 0, len(s.editing), "ownership map reaped")
}

func TestDropReturnsOwnedSessions(t *testing.T) {
	t.Parallel()

	s := newRoomState()
	c := &Connection{}

	s.join(c, "t1")
	s.join(c, "t2")
	s.startEdit(c, "t1")
	s.startEdit(c, "t2")

	// An explicit stop before the disconnect must not be counted again.
	s.stopEdit(c, "t2")

	owned := s.drop(c)

	testutil.Assert(t, 1, len(owned), "only live sessions returned")
	testutil.Assert(t, "t1", owned[0], "surviving session")
	testutil.Assert(t, 0, s.countSubscriptions(), "all rooms left")
	testutil.Assert(t, 0, len(s.editing), "ownership cleared")

	testutil.Assert(t, 0, len(s.drop(c)), "second drop yields nothing")
}

func TestViewerDoesNotHoldSession(t *testing.T) {
	t.Parallel()

	s := newRoomState()
	c := &Connection{}

	// Joining a room is viewer-level; only start-editing creates a
	// session that the presence counter tracks.
	s.join(c, "t1")

	testutil.Assert(t, 0, len(s.drop(c)), "viewer disconnect owes no decrements")
}
