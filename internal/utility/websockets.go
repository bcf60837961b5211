package utility

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const closeWait = time.Second

// Hub holds the open websocket connections, keyed by a per-connection ID.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*websocket.Conn
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*websocket.Conn)}
}

// Register adds conn under id, replacing any previous entry.
func (h *Hub) Register(id string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[id] = conn
	log.Debug().Str("conn_id", id).Msg("WebSocket client connected")
}

// Unregister forgets id. It does not close the connection.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[id]; ok {
		delete(h.clients, id)
		log.Debug().Str("conn_id", id).Msg("WebSocket client disconnected")
	}
}

// Count returns the number of registered connections.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// CloseAll sends a going-away close frame to every client, closes the
// connections and empties the hub. Handlers blocked on a write then fail.
func (h *Hub) CloseAll(reason string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.clients) == 0 {
		return
	}
	log.Info().Int("clients", len(h.clients)).Str("reason", reason).Msg("Closing websocket clients")

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, reason)
	for id, conn := range h.clients {
		// WriteControl is safe to call alongside the handler's own writes.
		if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWait)); err != nil {
			log.Debug().Err(err).Str("conn_id", id).Msg("Failed to send close frame")
		}
		conn.Close()
		delete(h.clients, id)
	}
}
