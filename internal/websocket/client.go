package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/nikhildixit-321/codeArena-sub000/pkg/logger"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Submissions carry source code,
	// so this is far larger than a control frame needs.
	maxMessageSize = 64 * 1024
)

// Inbound message types.
const (
	TypeJoinQueue  = "join_queue"
	TypeSubmitCode = "submit_code"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to configured origins in production
		return true
	},
}

// Client is one user's socket. Inbound frames are arena commands, outbound
// frames come from the hub.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan *Message
	userID string
	connID string
}

func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan *Message, 256),
		userID: userID,
		connID: uuid.NewString(),
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type submitCodePayload struct {
	MatchID  string `json:"match_id"`
	Language string `json:"language"`
	Code     string `json:"code"`
}

// readPump reads arena commands from the peer and keeps the connection alive.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("WebSocket read error", "userId", c.userID, "error", err)
			}
			break
		}
		c.dispatch(data)
	}
}

func (c *Client) dispatch(data []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		logger.Warn("Malformed WebSocket message", "userId", c.userID, "error", err)
		return
	}

	switch msg.Type {
	case TypeJoinQueue:
		c.hub.arena.HandleJoinQueue(context.Background(), c.connID, c.userID)

	case TypeSubmitCode:
		var payload submitCodePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			logger.Warn("Malformed submit payload", "userId", c.userID, "error", err)
			return
		}
		if payload.MatchID == "" || payload.Code == "" {
			logger.Warn("Submit payload missing fields", "userId", c.userID)
			return
		}
		c.hub.arena.HandleSubmit(context.Background(), payload.MatchID, c.userID, payload.Language, payload.Code)

	default:
		logger.Warn("Unknown WebSocket message type", "userId", c.userID, "type", msg.Type)
	}
}

// writePump relays hub messages to the peer and sends periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(message)
			if err != nil {
				logger.Error("Failed to marshal message", "userId", c.userID, "error", err)
				continue
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				logger.Error("Failed to write message", "userId", c.userID, "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs upgrades the connection and starts the client pumps.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Failed to upgrade WebSocket connection", "error", err)
		return
	}

	client := NewClient(hub, conn, userID)
	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}
