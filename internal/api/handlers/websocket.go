package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nikhildixit-321/codeArena-sub000/internal/arena"
	"github.com/nikhildixit-321/codeArena-sub000/internal/websocket"
)

// WebSocketHandler upgrades authenticated clients onto the arena socket.
type WebSocketHandler struct {
	hub      *websocket.Hub
	registry *arena.SessionRegistry
}

func NewWebSocketHandler(hub *websocket.Hub, registry *arena.SessionRegistry) *WebSocketHandler {
	return &WebSocketHandler{
		hub:      hub,
		registry: registry,
	}
}

// HandleWebSocket is the arena connection endpoint.
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	websocket.ServeWs(h.hub, c.Writer, c.Request, userID.(string))
}

// ArenaStats reports live queue and session counts.
func (h *WebSocketHandler) ArenaStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"connectedClients": h.hub.ConnectedClients(),
		"waitingPlayers":   h.registry.WaitingPlayers(),
		"activeSessions":   h.registry.ActiveSessions(),
	})
}
