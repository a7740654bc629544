package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/MoneyBuddyTeam/BE/internal/chathub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin checks are handled by the gateway in front of this service.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket performs the handshake: validate the bearer credential,
// bind the resolved identity to the session, verify room membership, then
// upgrade. A failed check rejects the handshake before any upgrade, so an
// unauthenticated connection never establishes.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	user, err := h.resolveUser(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	roomID, err := strconv.ParseUint(c.Query("room"), 10, 32)
	if err != nil || roomID == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "room query parameter required"})
		return
	}
	if _, err := h.Rooms.RoomDetail(uint(roomID), user.ID); err != nil {
		respondServiceError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		logrus.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := chathub.NewWebSocketClient(h.Hub, h.Messages, conn, user, uint(roomID))
	h.Hub.RegisterCh <- client
	client.Run()

	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"room_id": roomID,
	}).Info("websocket session established")
}
