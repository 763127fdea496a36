package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/ayusman/repcoach/internal/analysis"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// coachMessage is the wire format for one status update.
type coachMessage struct {
	analysis.ExerciseStatus
	Timestamp int64 `json:"timestamp"`
}

// CoachHandler broadcasts real-time exercise status updates via WebSocket.
// Publish is wired to the analysis pipeline's status callback.
type CoachHandler struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewCoachHandler creates a new CoachHandler.
func NewCoachHandler() *CoachHandler {
	return &CoachHandler{
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *CoachHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Publish sends a status update to all connected clients.
func (h *CoachHandler) Publish(status analysis.ExerciseStatus) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.clients) == 0 {
		return
	}

	msg, err := json.Marshal(coachMessage{
		ExerciseStatus: status,
		Timestamp:      time.Now().UnixMilli(),
	})
	if err != nil {
		return
	}

	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("websocket write error: %v", err)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *CoachHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
