package handlers

import (
	"github.com/collabtrack/collabtrack/internal/middleware"
	"github.com/collabtrack/collabtrack/internal/services"
	"github.com/collabtrack/collabtrack/pkg/response"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List returns the caller's notifications
// GET /api/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	var req services.NotificationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	resp, err := h.notificationService.List(userID, &req)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, resp)
}

// UnreadCount returns the caller's unread notification count
// GET /api/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID := middleware.GetUserID(c)
	count, err := h.notificationService.UnreadCount(userID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, gin.H{"count": count})
}

// MarkRead marks one notification as read
// PUT /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.notificationService.MarkRead(id, userID); err != nil {
		fail(c, err)
		return
	}

	response.Success(c, gin.H{"message": "notification marked as read"})
}

// MarkAllRead marks all of the caller's notifications as read
// PUT /api/notifications/mark-all-read
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if err := h.notificationService.MarkAllRead(userID); err != nil {
		fail(c, err)
		return
	}

	response.Success(c, gin.H{"message": "all notifications marked as read"})
}

// Delete removes one notification
// DELETE /api/notifications/:id
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.notificationService.Delete(id, userID); err != nil {
		fail(c, err)
		return
	}

	response.Success(c, gin.H{"message": "notification deleted successfully"})
}

// ClearAll removes all of the caller's notifications
// DELETE /api/notifications
func (h *NotificationHandler) ClearAll(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if err := h.notificationService.ClearAll(userID); err != nil {
		fail(c, err)
		return
	}

	response.Success(c, gin.H{"message": "notifications cleared"})
}
