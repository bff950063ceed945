package sockets

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wanderplan/api/internal/errors"
	"github.com/wanderplan/api/internal/global"
	"github.com/wanderplan/api/internal/middleware"
	"github.com/wanderplan/api/internal/svc/realtime"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	defaultHeartbeat   = 60 * time.Second
	defaultWriteBuffer = 64
)

// New binds the socket gateway on its own listener, separate from the REST
// bind, and returns a channel closed when the server has shut down. The hub
// must already be running.
func New(gctx global.Context, hub *Hub) <-chan struct{} {
	heartbeat := defaultHeartbeat
	if v := gctx.Config().Gateway.HeartbeatIntervalSeconds; v > 0 {
		heartbeat = time.Duration(v) * time.Second
	}

	writeBuffer := gctx.Config().Gateway.WriteBufferSize
	if writeBuffer <= 0 {
		writeBuffer = defaultWriteBuffer
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/gateway", func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Authorization")
		if token == "" {
			token = "Bearer " + r.URL.Query().Get("token")
		}

		actor, apiErr := middleware.DoAuth(gctx, token)
		if apiErr != nil {
			http.Error(w, apiErr.Message(), apiErr.ExpectedHTTPStatus())

			return
		}

		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			zap.S().Debugw("socket upgrade failed",
				"error", err,
			)

			return
		}

		c := newConnection(ws, actor, writeBuffer)

		hub.register(c)

		go c.writePump(heartbeat)

		if hello, err := newFrame(FrameEventHello, HelloPayload{
			SessionID:         c.SessionID(),
			HeartbeatInterval: heartbeat.Milliseconds(),
		}); err == nil {
			c.sendFrame(hello)
		}

		go readPump(gctx, hub, c, heartbeat)
	})

	server := &http.Server{
		Addr:    gctx.Config().Gateway.Bind,
		Handler: mux,
	}

	done := make(chan struct{})

	go func() {
		defer close(done)

		zap.S().Infow("Gateway enabled",
			"bind", gctx.Config().Gateway.Bind,
		)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.S().Fatalw("failed to start gateway bind",
				"error", err,
			)
		}
	}()

	go func() {
		<-gctx.Done()

		_ = server.Close()
	}()

	return done
}

// readPump consumes client frames until the transport closes, then runs
// disconnect cleanup. Transport close is treated exactly like an explicit
// stop-editing for every session the connection still owns; this is what
// keeps the counter from sticking after a crash or network drop.
func readPump(gctx global.Context, hub *Hub, c *Connection, heartbeat time.Duration) {
	defer func() {
		disconnect(gctx, hub, c)
	}()

	pongWait := heartbeat + heartbeat/4

	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.ws.ReadMessage()
		if err != nil {
			return
		}

		var frame Frame
		if err := json.Unmarshal(msg, &frame); err != nil {
			c.sendError("", "invalid frame", errors.ErrInvalidRequest().Code())

			continue
		}

		handler, ok := handlers[frame.Event]
		if !ok {
			c.sendError(frame.Event, "unknown event", errors.ErrUnknownRoute().Code())

			continue
		}

		if apiErr := handler(gctx, hub, c, frame.Data); apiErr != nil {
			c.sendError(frame.Event, apiErr.Message(), apiErr.Code())
		}
	}
}

func disconnect(gctx global.Context, hub *Hub, c *Connection) {
	owned := hub.unregister(c)

	for _, key := range owned {
		tripID, err := primitive.ObjectIDFromHex(key)
		if err != nil {
			continue
		}

		count, err := gctx.Inst().Presences.Decrement(gctx, tripID)
		if err != nil {
			// Logged by the counter; the stored count has drifted
			// until another mutation corrects it.
			continue
		}

		gctx.Inst().Realtime.Notify(gctx, tripID, realtime.OpDecrement, count)
	}

	c.close()

	zap.S().Debugw("socket disconnected",
		"session_id", c.SessionID(),
		"sessions_released", len(owned),
	)
}
