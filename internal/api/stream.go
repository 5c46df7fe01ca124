package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wonny/capengine/internal/orchestrator"
	"github.com/wonny/capengine/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	clientBuffer   = 16
	maxMessageSize = 512
)

// Hub broadcasts pipeline run events to websocket subscribers.
// Dashboards watch the daily run progress live.
// ⭐ SSOT: 런 이벤트 브로드캐스트는 여기서만
type Hub struct {
	upgrader websocket.Upgrader
	logger   *logger.Logger

	mu      sync.RWMutex
	clients map[*websocket.Conn]chan orchestrator.Event
}

// NewHub creates a new event hub
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Dashboard origin is enforced by the reverse proxy
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:  log,
		clients: make(map[*websocket.Conn]chan orchestrator.Event),
	}
}

// Broadcast sends an event to every connected client. A slow client's
// buffer overflowing drops the event for that client only.
func (h *Hub) Broadcast(event orchestrator.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn, ch := range h.clients {
		select {
		case ch <- event:
		default:
			h.logger.WithField("remote", conn.RemoteAddr().String()).Warn("Client buffer full, dropping event")
		}
	}
}

// ClientCount returns the number of connected subscribers
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades the connection and streams events until the client
// disconnects.
// GET /ws
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	ch := make(chan orchestrator.Event, clientBuffer)
	h.register(conn, ch)

	h.logger.WithField("remote", conn.RemoteAddr().String()).Debug("Websocket client connected")

	go h.writeLoop(conn, ch)
	h.readLoop(conn)
}

// writeLoop pushes events to one client
func (h *Hub) writeLoop(conn *websocket.Conn, ch <-chan orchestrator.Event) {
	for event := range ch {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(event); err != nil {
			h.unregister(conn)
			return
		}
	}
}

// readLoop drains the client until it closes; inbound payloads are
// ignored, the stream is one-way.
func (h *Hub) readLoop(conn *websocket.Conn) {
	defer h.unregister(conn)

	conn.SetReadLimit(maxMessageSize)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) register(conn *websocket.Conn, ch chan orchestrator.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = ch
}

func (h *Hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(ch)
		conn.Close()
	}
}
