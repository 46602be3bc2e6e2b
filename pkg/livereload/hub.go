//go:build !js
// +build !js

// Package livereload is the dev-server side of browser hot reload: a
// WebSocket hub that the served page connects to, and a broadcast call
// the watcher fires after a successful rebuild.
package livereload

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Message is the wire format between hub and page.
type Message struct {
	Type string `json:"type"`
	Data string `json:"data,omitempty"`
}

// Hub tracks connected pages and broadcasts reload commands.
type Hub struct {
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	clients  map[*websocket.Conn]bool
}

// NewHub creates an empty hub. Origins are not checked; the hub only
// runs inside the dev server.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]bool),
	}
}

// Handle upgrades the request and keeps the connection registered until
// the page goes away.
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("livereload upgrade error:", err)
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

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("livereload read error: %v", err)
			}
			return
		}
		if msg.Type == "HELLO" {
			conn.WriteJSON(Message{Type: "ACK"})
		}
	}
}

// Broadcast sends msg to every connected page; dead connections are
// dropped.
func (h *Hub) Broadcast(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteJSON(msg); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// Reload tells every page to reload itself.
func (h *Hub) Reload() {
	h.Broadcast(Message{Type: "RELOAD"})
}

// NotifyError surfaces a build failure in the page console.
func (h *Hub) NotifyError(detail string) {
	h.Broadcast(Message{Type: "ERROR", Data: detail})
}

// ClientCount reports how many pages are connected.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
