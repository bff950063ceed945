package instance

import (
	"github.com/wanderplan/api/data/events"
)

// Gateway is the connection gateway as seen by the rest of the process: a
// sink for envelopes addressed to locally-subscribed rooms. Envelopes for
// rooms with no local subscribers are dropped silently.
type Gateway interface {
	Deliver(e events.Envelope)
	CountConnections() int
}
