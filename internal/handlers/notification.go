package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/teamfit/backend/internal/middleware"
	"github.com/teamfit/backend/internal/services"
	"github.com/teamfit/backend/pkg/response"
	"gorm.io/gorm"
)

type NotificationHandler struct {
	service *services.NotificationService
}

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{service: services.NewNotificationService(db)}
}

func (h *NotificationHandler) List(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"
	notifications, err := h.service.ListForUser(middleware.GetUserID(c), unreadOnly)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, notifications)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.service.MarkRead(c.Param("id"), middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "notification read"})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.service.MarkAllRead(middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "all notifications read"})
}
