package handlers

import (
	"strconv"

	"biolink/internal/middleware"
	"biolink/internal/services"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func notificationID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, services.ErrNotificationNotFound
	}
	return uint(id), nil
}

// List GET /api/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	limit, _, err := pageParams(c, maxPageSize)
	if err != nil {
		_ = c.Error(err)
		return
	}
	list, err := h.notifications.List(c.Request.Context(), middleware.CurrentUser(c), limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, gin.H{"notifications": list})
}

// Read POST /api/notifications/:id/read
func (h *NotificationHandler) Read(c *gin.Context) {
	id, err := notificationID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.notifications.MarkRead(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, gin.H{"success": true})
}

// ReadAll POST /api/notifications/read-all
func (h *NotificationHandler) ReadAll(c *gin.Context) {
	if err := h.notifications.MarkAllRead(c.Request.Context(), middleware.CurrentUser(c)); err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, gin.H{"success": true})
}

// Delete DELETE /api/notifications/:id
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, err := notificationID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.notifications.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, gin.H{"success": true})
}
