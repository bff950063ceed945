package sockets

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/wanderplan/api/data/model"
	"go.uber.org/zap"
)

type Connection struct {
	id    uuid.UUID
	actor model.UserModel

	ws   *websocket.Conn
	send chan []byte

	mx     sync.Mutex
	closed bool
}

func newConnection(ws *websocket.Conn, actor model.UserModel, writeBuffer int) *Connection {
	return &Connection{
		id:    uuid.New(),
		actor: actor,
		ws:    ws,
		send:  make(chan []byte, writeBuffer),
	}
}

func (c *Connection) SessionID() string {
	return c.id.String()
}

// push queues an outbound message without blocking the hub loop. A full
// buffer means the client isn't draining; the connection is closed and the
// client is expected to reconnect and re-subscribe. The connection may stay
// registered in rooms until its readPump observes the transport close, so
// push must stay a safe no-op once the send queue is gone.
func (c *Connection) push(b []byte) bool {
	c.mx.Lock()
	defer c.mx.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- b:
		return true
	default:
		zap.S().Warnw("socket send buffer full, dropping connection",
			"session_id", c.SessionID(),
		)

		c.closed = true
		close(c.send)

		return false
	}
}

func (c *Connection) sendFrame(f Frame) {
	b, err := json.Marshal(f)
	if err != nil {
		zap.S().Errorw("failed to encode frame",
			"error", err,
			"event", f.Event,
		)

		return
	}

	c.push(b)
}

func (c *Connection) sendError(event string, message string, code int) {
	f, err := newFrame(FrameEventError, ErrorPayload{
		Event:   event,
		Message: message,
		Code:    code,
	})
	if err != nil {
		return
	}

	c.sendFrame(f)
}

func (c *Connection) close() {
	c.mx.Lock()
	defer c.mx.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	close(c.send)
}

// writePump drains the send queue to the socket and keeps the transport
// alive with periodic pings. Exactly one writePump runs per connection;
// gorilla sockets allow a single concurrent writer.
func (c *Connection) writePump(heartbeat time.Duration) {
	ticker := time.NewTicker(heartbeat * 9 / 10)

	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case b, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(10 * time.Second))

			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))

				return
			}

			if err := c.ws.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(10 * time.Second))

			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
