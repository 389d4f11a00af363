// server/internal/socket/hub.go
package socket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"lmis-mock-server/internal/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 5 * time.Second

// Hub tracks the live event-feed subscribers.
type Hub struct {
	// clients maps a subscription id to its connection.
	clients map[string]*websocket.Conn
	// mu also serialises writes: a gorilla conn supports one writer at a time.
	mu     sync.Mutex
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[string]*websocket.Conn),
		logger:  logger,
	}
}

func (h *Hub) Register(id string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[id] = conn
	h.logger.Info("websocket subscriber registered", zap.String("subscriber", id))
}

func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[id]; ok {
		delete(h.clients, id)
		h.logger.Info("websocket subscriber unregistered", zap.String("subscriber", id))
	}
}

// Count returns the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast writes message to every subscriber. Subscribers whose write
// fails are dropped.
func (h *Hub) Broadcast(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			h.logger.Warn("dropping websocket subscriber", zap.String("subscriber", id), zap.Error(err))
			conn.Close()
			delete(h.clients, id)
		}
	}
}

// Publish lets the hub act as an event log sink.
func (h *Hub) Publish(_ context.Context, event models.Event) error {
	message, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.ID, err)
	}
	h.Broadcast(message)
	return nil
}
