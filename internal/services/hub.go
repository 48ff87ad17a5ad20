package services

import (
	"fmt"
	"sync"
)

// Event is a named real-time message delivered to connected clients.
type Event struct {
	Name string      `json:"event"`
	Data interface{} `json:"data"`
}

// Client represents one realtime connection. Events queued on Send are
// written to the underlying socket by the transport handler.
type Client struct {
	ID     string
	UserID uint
	Send   chan Event

	rooms map[string]bool
}

// Hub manages realtime client connections and room-based broadcasting.
// Every client is implicitly a member of its user room; project rooms are
// joined explicitly after a scope check by the transport handler.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client            // client ID -> client
	rooms   map[string]map[string]*Client // room name -> client ID -> client
}

// NewHub creates a new hub instance
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
	}
}

// UserRoom returns the room name for a user's private channel.
func UserRoom(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// ProjectRoom returns the room name for a project's broadcast channel.
func ProjectRoom(projectID uint) string {
	return fmt.Sprintf("project:%d", projectID)
}

// Register adds a client and joins it to its user room.
func (h *Hub) Register(clientID string, userID uint) *Client {
	client := &Client{
		ID:     clientID,
		UserID: userID,
		Send:   make(chan Event, 64),
		rooms:  make(map[string]bool),
	}

	h.mu.Lock()
	h.clients[clientID] = client
	h.mu.Unlock()

	h.Join(client, UserRoom(userID))
	return client
}

// Unregister removes a client from all rooms and closes its channel.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}

	for room := range client.rooms {
		if members, ok := h.rooms[room]; ok {
			delete(members, client.ID)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}

	delete(h.clients, client.ID)
	close(client.Send)
}

// Join adds a client to a room.
func (h *Hub) Join(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[string]*Client)
	}
	h.rooms[room][client.ID] = client
	client.rooms[room] = true
}

// Leave removes a client from a room.
func (h *Hub) Leave(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[room]; ok {
		delete(members, client.ID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(client.rooms, room)
}

// Publish broadcasts an event to every client in a room. The sender can be
// excluded by passing its client ID as exceptID.
func (h *Hub) Publish(room string, event Event, exceptID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, client := range h.rooms[room] {
		if id == exceptID {
			continue
		}
		// Non-blocking send - drop event if client buffer is full
		select {
		case client.Send <- event:
		default:
			// Client is slow, skip this event
		}
	}
}

// PublishToUser sends an event to all connections of one user.
func (h *Hub) PublishToUser(userID uint, event Event) {
	h.Publish(UserRoom(userID), event, "")
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RoomSize returns the number of clients in a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Global hub instance
var globalHub *Hub
var hubOnce sync.Once

// GetHub returns the global hub singleton
func GetHub() *Hub {
	hubOnce.Do(func() {
		globalHub = NewHub()
	})
	return globalHub
}
