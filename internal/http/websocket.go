package http

import (
	"net/http"
	"time"

	"budgetwise/internal/log"

	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
	wsBuffer     = 32
)

// nil CheckOrigin: only same-origin browsers may connect.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// changeFrame is what views receive for every change.
type changeFrame struct {
	Type   string    `json:"type"`
	Kind   string    `json:"kind,omitempty"`
	Op     string    `json:"op,omitempty"`
	ID     string    `json:"id,omitempty"`
	At     time.Time `json:"at,omitempty"`
	Remote bool      `json:"remote,omitempty"`
}

// handleChanges streams change notifications to one websocket client until
// either side goes away or the server shuts down.
func (s *Server) handleChanges(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context()).WithComponent(log.ComponentWebsocket)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		logger.WarnContext(r.Context(), "WebSocket upgrade failed", log.FieldError, err)
		return
	}
	defer conn.Close()

	events, cancel := s.changes.Subscribe(wsBuffer)
	defer cancel()
	logger.InfoContext(r.Context(), "WebSocket client connected")

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	write := func(f changeFrame) error {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		return conn.WriteJSON(f)
	}
	closeWith := func(code int, text string) {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), time.Now().Add(wsWriteWait))
	}

	if err := write(changeFrame{Type: "hello", At: s.now()}); err != nil {
		return
	}

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				closeWith(websocket.CloseGoingAway, "change feed closed")
				return
			}
			err := write(changeFrame{
				Type:   "change",
				Kind:   string(ev.Kind),
				Op:     string(ev.Op),
				ID:     ev.ID,
				At:     ev.At,
				Remote: ev.Remote,
			})
			if err != nil {
				logger.DebugContext(r.Context(), "WebSocket write failed", log.FieldError, err)
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		case <-gone:
			logger.InfoContext(r.Context(), "WebSocket client disconnected")
			return
		case <-s.closing:
			closeWith(websocket.CloseGoingAway, "server shutting down")
			return
		}
	}
}
