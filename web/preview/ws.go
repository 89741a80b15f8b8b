package preview

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// RenderEvent is pushed to clients when a render job finishes.
type RenderEvent struct {
	Type       string `json:"type"`
	Scene      string `json:"scene"`
	Outcome    string `json:"outcome"`
	Output     string `json:"output,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

var upgrader = websocket.Upgrader{
	// preview is a localhost tool; cross-origin pages may embed it
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub manages websocket connections
type Hub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan RenderEvent
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mu         sync.Mutex
}

// NewHub creates a new websocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan RenderEvent, 16),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
}

// Run dispatches events until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			return

		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				if err := conn.WriteJSON(event); err != nil {
					log.Debug().Err(err).Msg("dropping websocket client")
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends an event to all clients. Events are dropped if the hub's
// buffer is full so a slow browser never stalls a render.
func (h *Hub) Broadcast(event RenderEvent) {
	select {
	case h.broadcast <- event:
	default:
	}
}

func (h *Hub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}
		h.register <- conn

		// Read loop only to observe close; clients never send payloads.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					h.unregister <- conn
					return
				}
			}
		}()
	}
}
