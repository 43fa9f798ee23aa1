package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsWriteWait = 10 * time.Second
	wsPongWait  = 60 * time.Second
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin:       func(r *http.Request) bool { return true },
	ReadBufferSize:    1024,
	WriteBufferSize:   1024,
	EnableCompression: true,
}

// wsHub streams status snapshots to every connected /ws/status client
// on a fixed interval, grounded in the same upgrade/ping/pong keep-alive
// shape this codebase's ambient HTTP layer uses elsewhere.
type wsHub struct {
	source       StatusSource
	pingInterval time.Duration
	logger       *slog.Logger

	mu    sync.Mutex
	conns map[*websocket.Conn]context.CancelFunc
}

func newWSHub(source StatusSource, pingInterval time.Duration, logger *slog.Logger) *wsHub {
	if pingInterval <= 0 {
		pingInterval = 15 * time.Second
	}
	return &wsHub{
		source:       source,
		pingInterval: pingInterval,
		logger:       logger,
		conns:        make(map[*websocket.Conn]context.CancelFunc),
	}
}

func (h *wsHub) add(conn *websocket.Conn, cancel context.CancelFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = cancel
}

func (h *wsHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cancel, ok := h.conns[conn]; ok {
		cancel()
		delete(h.conns, conn)
	}
}

func (h *wsHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, cancel := range h.conns {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "server shutdown"),
			time.Now().Add(wsWriteWait))
		cancel()
		_ = conn.Close()
	}
	h.conns = make(map[*websocket.Conn]context.CancelFunc)
}

func (h *wsHub) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	h.add(conn, cancel)
	defer h.remove(conn)

	if err := conn.SetReadDeadline(time.Now().Add(wsPongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	if err := h.writeStatus(conn); err != nil {
		return
	}

	statusTicker := time.NewTicker(100 * time.Millisecond)
	defer statusTicker.Stop()
	pingTicker := time.NewTicker(h.pingInterval)
	defer pingTicker.Stop()

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
			return
		case <-ctx.Done():
			return
		case <-pingTicker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-statusTicker.C:
			if err := h.writeStatus(conn); err != nil {
				return
			}
		}
	}
}

func (h *wsHub) writeStatus(conn *websocket.Conn) error {
	resp := statusResponse{
		NodeID: h.source.ID(),
		Role:   h.source.CurrentRole().String(),
		Status: h.source.CurrentStatus(),
	}
	if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
		return err
	}
	return conn.WriteJSON(resp)
}
