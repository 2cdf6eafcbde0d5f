package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/tacticalsync/tacticalsync/internal/logger"
	"github.com/tacticalsync/tacticalsync/internal/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // In production, replace with proper origin checking
	},
}

// MembershipChecker verifies that a user belongs to a team before the
// connection joins that team's room.
type MembershipChecker interface {
	GetMemberRole(ctx context.Context, teamID, userID int64) (string, error)
}

// WebSocketHandler upgrades authenticated requests into hub clients.
type WebSocketHandler struct {
	hub     *realtime.Hub
	members MembershipChecker
	log     *logger.Logger
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *realtime.Hub, members MembershipChecker, log *logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, members: members, log: log}
}

// HandleWebSocket handles incoming WebSocket connections
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	teamID, err := strconv.ParseInt(r.URL.Query().Get("team_id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Team ID is required")
		return
	}
	if _, err := h.members.GetMemberRole(r.Context(), teamID, userID); err != nil {
		respondWithServiceError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("Error upgrading connection", "error", err)
		return
	}
	realtime.NewClient(h.hub, conn, teamID, userID)
}
