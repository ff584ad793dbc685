package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wonny/stockcast/backend/internal/batch"
	"github.com/wonny/stockcast/backend/pkg/logger"
)

// StreamHandler pushes batch progress events to websocket clients.
type StreamHandler struct {
	broker   *batch.Broker
	logger   *logger.Logger
	upgrader websocket.Upgrader
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(broker *batch.Broker, log *logger.Logger) *StreamHandler {
	return &StreamHandler{
		broker: broker,
		logger: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

const writeTimeout = 10 * time.Second

// Stream handles GET /api/batch/stream. Events are forwarded until the
// client disconnects.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	sub := h.broker.Subscribe()
	defer h.broker.Unsubscribe(sub)

	h.logger.Debug("Stream client connected")

	// Reader goroutine: detect client disconnect.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			h.logger.Debug("Stream client disconnected")
			return
		case ev, ok := <-sub:
			if !ok {
				return
			}

			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(ev); err != nil {
				h.logger.WithError(err).Debug("Stream write failed")
				return
			}
		}
	}
}
