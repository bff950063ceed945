package sockets

// roomState is the gateway's in-memory bookkeeping: room membership and
// editing-session ownership. It is not safe for concurrent use; the hub's
// run loop is its only caller, so handlers never race on it.
type roomState struct {
	// rooms maps tripID -> subscribed connections. Subscribing is
	// viewer-level and does not touch the presence counter.
	rooms map[string]map[*Connection]struct{}
	// editing maps a connection -> tripIDs it holds an editing session
	// for. Ownership tracking is what makes a disconnect after an
	// explicit stop-editing a no-op instead of a double decrement.
	editing map[*Connection]map[string]struct{}
}

func newRoomState() *roomState {
	return &roomState{
		rooms:   map[string]map[*Connection]struct{}{},
		editing: map[*Connection]map[string]struct{}{},
	}
}

func (s *roomState) join(c *Connection, tripID string) bool {
	room, ok := s.rooms[tripID]
	if !ok {
		room = map[*Connection]struct{}{}
		s.rooms[tripID] = room
	}

	if _, ok := room[c]; ok {
		return false
	}

	room[c] = struct{}{}

	return true
}

func (s *roomState) leave(c *Connection, tripID string) bool {
	room, ok := s.rooms[tripID]
	if !ok {
		return false
	}

	if _, ok := room[c]; !ok {
		return false
	}

	delete(room, c)

	if len(room) == 0 {
		delete(s.rooms, tripID)
	}

	return true
}

// startEdit records an editing session. Returns false when the connection
// already holds a session for this trip, so duplicate start-editing signals
// never double count.
func (s *roomState) startEdit(c *Connection, tripID string) bool {
	sessions, ok := s.editing[c]
	if !ok {
		sessions = map[string]struct{}{}
		s.editing[c] = sessions
	}

	if _, ok := sessions[tripID]; ok {
		return false
	}

	sessions[tripID] = struct{}{}

	return true
}

// stopEdit destroys an editing session. Returns false when no session
// existed, which makes stop-editing idempotent.
func (s *roomState) stopEdit(c *Connection, tripID string) bool {
	sessions, ok := s.editing[c]
	if !ok {
		return false
	}

	if _, ok := sessions[tripID]; !ok {
		return false
	}

	delete(sessions, tripID)

	if len(sessions) == 0 {
		delete(s.editing, c)
	}

	return true
}

// drop removes a connection from every room and returns the trips it still
// held editing sessions for. Each returned trip must be decremented exactly
// once by the caller.
func (s *roomState) drop(c *Connection) []string {
	for tripID, room := range s.rooms {
		delete(room, c)

		if len(room) == 0 {
			delete(s.rooms, tripID)
		}
	}

	sessions := s.editing[c]
	delete(s.editing, c)

	owned := make([]string, 0, len(sessions))
	for tripID := range sessions {
		owned = append(owned, tripID)
	}

	return owned
}

func (s *roomState) subscribers(tripID string) []*Connection {
	room := s.rooms[tripID]

	conns := make([]*Connection, 0, len(room))
	for c := range room {
		conns = append(conns, c)
	}

	return conns
}

func (s *roomState) countSubscriptions() int {
	n := 0
	for _, room := range s.rooms {
		n += len(room)
	}

	return n
}
