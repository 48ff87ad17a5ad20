package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/collabtrack/collabtrack/internal/services"
	"github.com/collabtrack/collabtrack/internal/utils"
	"github.com/collabtrack/collabtrack/pkg/logger"
	"github.com/collabtrack/collabtrack/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler upgrades realtime connections and relays room events.
type WSHandler struct {
	hub   *services.Hub
	scope *services.ScopeService
}

func NewWSHandler(hub *services.Hub, scope *services.ScopeService) *WSHandler {
	return &WSHandler{hub: hub, scope: scope}
}

// inboundMessage is a client-to-server realtime message.
type inboundMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Serve handles the realtime channel
// GET /api/ws
func (h *WSHandler) Serve(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}

	if token == "" {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	claims, err := utils.ParseToken(token)
	if err != nil {
		response.Unauthorized(c, "Invalid token")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	clientID := uuid.New().String()
	client := h.hub.Register(clientID, claims.UserID)

	logger.Info().
		Str("client_id", clientID).
		Uint("user_id", claims.UserID).
		Int("total", h.hub.ClientCount()).
		Msg("realtime client connected")

	go h.writePump(conn, client)
	h.readPump(conn, client)
}

// writePump forwards hub events to the socket and keeps it alive.
func (h *WSHandler) writePump(conn *websocket.Conn, client *services.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case event, ok := <-client.Send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump processes inbound messages until the socket closes.
func (h *WSHandler) readPump(conn *websocket.Conn, client *services.Client) {
	defer func() {
		h.hub.Unregister(client)
		conn.Close()
		logger.Info().Str("client_id", client.ID).Msg("realtime client disconnected")
	}()

	conn.SetReadLimit(64 * 1024)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.sendError(client, "invalid message")
			continue
		}

		h.dispatch(client, &msg)
	}
}

func (h *WSHandler) dispatch(client *services.Client, msg *inboundMessage) {
	switch msg.Event {
	case "join-projects":
		h.handleJoinProjects(client, msg.Data)
	case "task-updated", "comment-added", "project-updated":
		h.handleRelay(client, msg)
	case "typing-start":
		h.handleTyping(client, msg.Data, true)
	case "typing-stop":
		h.handleTyping(client, msg.Data, false)
	default:
		h.sendError(client, "unknown event: "+msg.Event)
	}
}

// handleJoinProjects joins the client to each requested project room after
// a scope check. Out-of-scope projects are silently skipped.
func (h *WSHandler) handleJoinProjects(client *services.Client, data json.RawMessage) {
	var payload struct {
		ProjectIDs []uint `json:"project_ids"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		h.sendError(client, "invalid join-projects payload")
		return
	}

	for _, projectID := range payload.ProjectIDs {
		if !h.scope.CanViewProject(projectID, client.UserID) {
			continue
		}
		h.hub.Join(client, services.ProjectRoom(projectID))
	}
}

// handleRelay rebroadcasts a client event to the project room, excluding
// the sender. The sender must be able to see the project.
func (h *WSHandler) handleRelay(client *services.Client, msg *inboundMessage) {
	var payload struct {
		ProjectID uint `json:"project_id"`
	}
	if err := json.Unmarshal(msg.Data, &payload); err != nil || payload.ProjectID == 0 {
		h.sendError(client, "invalid "+msg.Event+" payload")
		return
	}

	if !h.scope.CanViewProject(payload.ProjectID, client.UserID) {
		h.sendError(client, "project not found")
		return
	}

	var data interface{}
	json.Unmarshal(msg.Data, &data)
	h.hub.Publish(services.ProjectRoom(payload.ProjectID), services.Event{
		Name: msg.Event,
		Data: data,
	}, client.ID)
}

// handleTyping broadcasts a user-typing indicator to the project room.
func (h *WSHandler) handleTyping(client *services.Client, data json.RawMessage, typing bool) {
	var payload struct {
		ProjectID uint `json:"project_id"`
		TaskID    uint `json:"task_id"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.ProjectID == 0 {
		h.sendError(client, "invalid typing payload")
		return
	}

	if !h.scope.CanViewProject(payload.ProjectID, client.UserID) {
		h.sendError(client, "project not found")
		return
	}

	h.hub.Publish(services.ProjectRoom(payload.ProjectID), services.Event{
		Name: "user-typing",
		Data: gin.H{
			"user_id": client.UserID,
			"task_id": payload.TaskID,
			"typing":  typing,
		},
	}, client.ID)
}

func (h *WSHandler) sendError(client *services.Client, message string) {
	select {
	case client.Send <- services.Event{Name: "error", Data: gin.H{"message": message}}:
	default:
	}
}
