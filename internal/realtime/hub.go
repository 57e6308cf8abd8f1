package realtime

import (
	"encoding/json"
	"sync"
)

// Client is a single websocket connection. Send reports whether the write
// succeeded; the connection owner handles cleanup.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Event is the payload pushed to clients when settings change.
type Event struct {
	Type    string   `json:"type"`
	UserID  string   `json:"userId"`
	IDs     []string `json:"ids,omitempty"`
	Summary string   `json:"summary,omitempty"`
	Version int      `json:"version"`
}

// Hub maintains active user connections and broadcasts events to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[Client]struct{})}
}

var (
	hubInstance *Hub
	once        sync.Once
)

// GetHub returns the process-wide hub.
func GetHub() *Hub {
	once.Do(func() {
		hubInstance = NewHub()
	})
	return hubInstance
}

// Register adds a client under a user ID.
func (h *Hub) Register(userID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[userID]; !ok {
		h.clients[userID] = make(map[Client]struct{})
	}
	h.clients[userID][client] = struct{}{}
}

// Unregister removes a client; if user has no more clients, cleans up map.
func (h *Hub) Unregister(userID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.clients[userID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, userID)
		}
	}
}

// ClientCount returns the number of connections registered for userID.
func (h *Hub) ClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) snapshot(userID string) []Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	clients := make([]Client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		clients = append(clients, c)
	}
	return clients
}

// Broadcast sends a message to all clients of a user and returns how many
// accepted it. Sends happen outside the hub lock.
func (h *Hub) Broadcast(userID string, message []byte) int {
	delivered := 0
	for _, c := range h.snapshot(userID) {
		if c.Send(message) {
			delivered++
		}
	}
	return delivered
}

// Publish encodes evt and broadcasts it to evt.UserID.
func (h *Hub) Publish(evt Event) int {
	if evt.Version == 0 {
		evt.Version = 1
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return 0
	}
	return h.Broadcast(evt.UserID, b)
}
