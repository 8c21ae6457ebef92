package websocket

import (
	"context"
	"sync"

	"github.com/nikhildixit-321/codeArena-sub000/pkg/logger"
)

// Arena is the match engine the hub feeds inbound commands into.
type Arena interface {
	BindConnection(connID, userID string)
	OnDisconnect(connID string)
	HandleJoinQueue(ctx context.Context, connID, userID string)
	HandleSubmit(ctx context.Context, matchID, userID, language, code string)
}

// Hub tracks one live connection per user and fans arena events out to them.
// It satisfies arena.Notifier.
type Hub struct {
	// userID -> *Client
	clients map[string]*Client
	mu      sync.RWMutex

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client

	arena Arena
}

// Message is the envelope both directions share on the wire.
type Message struct {
	UserID  string      `json:"-"` // recipient; empty means everyone
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// BindArena wires the match engine in. The hub is the registry's notifier and
// the registry is the hub's command sink, so one side binds late. Must be
// called before Run.
func (h *Hub) BindArena(arena Arena) {
	h.arena = arena
}

// Run owns the client map. Call it once, in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// A reconnect replaces the previous socket for the same user.
	if old, exists := h.clients[client.userID]; exists {
		close(old.send)
		h.arena.OnDisconnect(old.connID)
		logger.Info("Replaced existing WebSocket connection", "userId", client.userID)
	}

	h.clients[client.userID] = client
	h.arena.BindConnection(client.connID, client.userID)
	logger.Info("WebSocket client registered",
		"userId", client.userID,
		"totalClients", len(h.clients))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Only drop the map entry if this client still owns it; a reconnect
	// may already have replaced it.
	if current, exists := h.clients[client.userID]; exists && current == client {
		delete(h.clients, client.userID)
		close(client.send)
		h.arena.OnDisconnect(client.connID)
		logger.Info("WebSocket client unregistered",
			"userId", client.userID,
			"totalClients", len(h.clients))
	}
}

func (h *Hub) broadcastMessage(message *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if message.UserID == "" {
		for _, client := range h.clients {
			select {
			case client.send <- message:
			default:
				logger.Warn("Client send channel full, unregistering", "userId", client.userID)
				go func(c *Client) {
					h.unregister <- c
				}(client)
			}
		}
		return
	}

	if client, exists := h.clients[message.UserID]; exists {
		select {
		case client.send <- message:
		default:
			logger.Warn("Client send channel full", "userId", message.UserID)
		}
	}
}

// Notify sends an event to a single user. Implements arena.Notifier.
// It must never block: callers hold the arena lock, and the Run loop that
// drains broadcast can itself be waiting on that lock.
func (h *Hub) Notify(userID string, event string, payload interface{}) {
	msg := &Message{
		UserID:  userID,
		Type:    event,
		Payload: payload,
	}
	select {
	case h.broadcast <- msg:
	default:
		logger.Warn("Broadcast buffer full, dropping event", "userId", userID, "event", event)
	}
}

// Broadcast sends an event to every connected user.
func (h *Hub) Broadcast(event string, payload interface{}) {
	h.broadcast <- &Message{
		UserID:  "",
		Type:    event,
		Payload: payload,
	}
}

// ConnectedClients reports how many users currently hold a live socket.
func (h *Hub) ConnectedClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
