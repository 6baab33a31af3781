// Package server provides the HTTP server for the punch tracking system.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/punchtrack/internal/app"
	"github.com/ayusman/punchtrack/internal/combo"
	"github.com/ayusman/punchtrack/internal/punch"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// statsInterval is how often live stats are pushed to connected clients.
const statsInterval = time.Second

// EventsHandler pushes punch and combo events plus periodic session
// stats to WebSocket clients. A websocket connection allows only one
// concurrent writer, so every payload is queued to a single writer
// goroutine instead of being written from the caller's goroutine.
type EventsHandler struct {
	stats    func() app.Stats
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	outbound chan map[string]any
}

// NewEventsHandler creates a new EventsHandler. The stats function is
// polled once a second while clients are connected.
func NewEventsHandler(stats func() app.Stats) *EventsHandler {
	h := &EventsHandler{
		stats:    stats,
		clients:  make(map[*websocket.Conn]bool),
		outbound: make(chan map[string]any, 64),
	}
	go h.writeLoop()
	go h.pushStats()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

// BroadcastPunch pushes a punch event to all connected clients.
func (h *EventsHandler) BroadcastPunch(ev punch.Event) {
	h.enqueue(map[string]any{
		"type":  "punch",
		"punch": ev,
	})
}

// BroadcastCombo pushes a counted combo to all connected clients.
func (h *EventsHandler) BroadcastCombo(m combo.Match) {
	h.enqueue(map[string]any{
		"type":  "combo",
		"combo": m.Pattern,
	})
}

// pushStats broadcasts a stats snapshot once a second while clients are
// connected.
func (h *EventsHandler) pushStats() {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	for range ticker.C {
		h.mu.RLock()
		idle := len(h.clients) == 0
		h.mu.RUnlock()
		if idle {
			continue
		}

		h.enqueue(map[string]any{
			"type":  "stats",
			"stats": h.stats(),
		})
	}
}

// enqueue hands a payload to the writer goroutine. When the queue is
// full the payload is dropped rather than stalling the detection
// pipeline on a slow client.
func (h *EventsHandler) enqueue(payload map[string]any) {
	payload["timestamp"] = time.Now().UnixMilli()
	select {
	case h.outbound <- payload:
	default:
	}
}

// writeLoop is the only goroutine that writes to connections.
func (h *EventsHandler) writeLoop() {
	for payload := range h.outbound {
		msg, err := json.Marshal(payload)
		if err != nil {
			continue
		}

		h.mu.RLock()
		for conn := range h.clients {
			conn.WriteMessage(websocket.TextMessage, msg)
		}
		h.mu.RUnlock()
	}
}
