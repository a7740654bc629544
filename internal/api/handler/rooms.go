package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListRooms returns the caller's rooms with opponent info and unread
// counts, most recently active first.
func (h *Handler) ListRooms(c *gin.Context) {
	summaries, err := h.Rooms.RoomsForUser(currentUser(c).ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// EnsureRoom is the room-creation trigger called by the payment
// collaborator when an order is paid. Idempotent: repeated calls for the
// same order return the same room.
func (h *Handler) EnsureRoom(c *gin.Context) {
	orderID, err := pathID(c, "orderId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	room, err := h.Rooms.EnsureRoom(orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// RoomDetail returns the room header for a participant.
func (h *Handler) RoomDetail(c *gin.Context) {
	roomID, err := pathID(c, "roomId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}
	detail, err := h.Rooms.RoomDetail(roomID, currentUser(c).ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// ListMessages returns the room history as the caller sees it.
func (h *Handler) ListMessages(c *gin.Context) {
	roomID, err := pathID(c, "roomId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}
	messages, err := h.Messages.Messages(roomID, currentUser(c).ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// MarkRead flips the caller's unread messages in the room to read.
func (h *Handler) MarkRead(c *gin.Context) {
	roomID, err := pathID(c, "roomId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}
	if err := h.Rooms.MarkRead(roomID, currentUser(c).ID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// LeaveRoom soft-deletes the room for the caller's side.
func (h *Handler) LeaveRoom(c *gin.Context) {
	roomID, err := pathID(c, "roomId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}
	if err := h.Messages.Leave(roomID, currentUser(c).ID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadImage stores a chat image with the object-storage collaborator
// and returns its URL. The message referencing the URL is sent separately
// over the socket.
func (h *Handler) UploadImage(c *gin.Context) {
	roomID, err := pathID(c, "roomId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}
	// Participant check only; the upload itself has no room side effects.
	if _, err := h.Rooms.RoomDetail(roomID, currentUser(c).ID); err != nil {
		respondServiceError(c, err)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}
	defer src.Close()

	url, err := h.Uploader.Upload(file.Filename, src)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imageUrl": url})
}
