// internal/notify/hub.go
package notify

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Hub broadcasts toast notifications to every connected dashboard. Sends are
// best-effort: a slow or closed connection is dropped, never waited on.
type Hub struct {
	clients map[*Conn]bool
	mu      sync.RWMutex

	register   chan *Conn
	unregister chan *Conn
	broadcast  chan []byte

	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Conn]bool),
		register:   make(chan *Conn),
		unregister: make(chan *Conn),
		broadcast:  make(chan []byte, 256),
		logger:     logger,
	}
}

// Run owns the client set; it exits when ctx is canceled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				close(conn.send)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for conn := range h.clients {
				select {
				case conn.send <- message:
				default:
					// Receiver is stuck; let its write pump die.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Toast implements Notifier.
func (h *Hub) Toast(t Toast) {
	data, err := json.Marshal(t)
	if err != nil {
		h.logger.Warn("failed to marshal toast", zap.Error(err))
		return
	}

	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("toast broadcast buffer full, dropping",
			zap.String("title", t.Title))
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		close(conn.send)
		delete(h.clients, conn)
	}
}
