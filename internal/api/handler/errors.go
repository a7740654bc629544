package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/MoneyBuddyTeam/BE/internal/consultation"
)

// respondServiceError maps service errors to HTTP statuses. ErrNoAccess
// deliberately says nothing about the room itself.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, consultation.ErrRoomNotFound),
		errors.Is(err, consultation.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, consultation.ErrNoAccess):
		c.JSON(http.StatusForbidden, gin.H{"error": "no access"})
	case errors.Is(err, consultation.ErrEmptyMessage),
		errors.Is(err, consultation.ErrInvalidType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logrus.WithError(err).Error("unhandled service error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
