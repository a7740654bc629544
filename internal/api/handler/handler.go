package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MoneyBuddyTeam/BE/internal/auth"
	"github.com/MoneyBuddyTeam/BE/internal/chathub"
	"github.com/MoneyBuddyTeam/BE/internal/consultation"
	"github.com/MoneyBuddyTeam/BE/internal/models"
	"github.com/MoneyBuddyTeam/BE/internal/storage"
	"github.com/MoneyBuddyTeam/BE/internal/uploads"
)

const userContextKey = "user"

// Handler wires the HTTP surface to the chat core.
type Handler struct {
	Hub      *chathub.Hub
	Rooms    *consultation.RoomService
	Messages *consultation.MessageService
	Store    storage.Storage
	Tokens   *auth.TokenValidator
	Uploader uploads.Uploader
}

func NewHandler(hub *chathub.Hub, rooms *consultation.RoomService, messages *consultation.MessageService, store storage.Storage, tokens *auth.TokenValidator, uploader uploads.Uploader) *Handler {
	return &Handler{
		Hub:      hub,
		Rooms:    rooms,
		Messages: messages,
		Store:    store,
		Tokens:   tokens,
		Uploader: uploader,
	}
}

// RegisterRoutes mounts the REST surface and the websocket endpoint.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws", h.ServeWebSocket)

	api := r.Group("/api/v1/consultation-rooms", h.AuthRequired())
	api.GET("", h.ListRooms)
	api.POST("/orders/:orderId", h.EnsureRoom)
	api.GET("/:roomId/detail", h.RoomDetail)
	api.GET("/:roomId/messages", h.ListMessages)
	api.PATCH("/:roomId/read", h.MarkRead)
	api.DELETE("/:roomId/leave", h.LeaveRoom)
	api.POST("/:roomId/image", h.UploadImage)
}

// AuthRequired validates the bearer credential and loads the caller's
// user row into the request context.
func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := h.resolveUser(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// resolveUser extracts the token from header or cookie, validates it and
// loads the account. Shared by the REST middleware and the handshake.
func (h *Handler) resolveUser(c *gin.Context) (*models.User, error) {
	token := extractToken(c)
	if token == "" {
		return nil, auth.ErrInvalidToken
	}
	identity, err := h.Tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	return h.Store.GetUserByID(identity.UserID)
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie("token"); err == nil {
		return cookie
	}
	return ""
}

func currentUser(c *gin.Context) *models.User {
	return c.MustGet(userContextKey).(*models.User)
}

func pathID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
