package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gymbuddy/gymbuddy-backend/internal/app/service"
	apperrors "github.com/gymbuddy/gymbuddy-backend/internal/errors"
	"github.com/gymbuddy/gymbuddy-backend/internal/middleware"
)

type NotificationController struct {
	notificationService service.NotificationService
}

func NewNotificationController(notificationService service.NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

// List returns the caller's notifications
// GET /api/v1/notifications
func (ctrl *NotificationController) List(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Sign in required")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	unreadOnly := c.Query("unread") == "true"

	notifications, total, err := ctrl.notificationService.List(userID, unreadOnly, limit, offset)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list notifications")
		return
	}

	unreadCount, err := ctrl.notificationService.UnreadCount(userID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"total":         total,
		"unread_count":  unreadCount,
	})
}

// UnreadCount returns only the unread counter, for the badge
// GET /api/v1/notifications/unread-count
func (ctrl *NotificationController) UnreadCount(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Sign in required")
		return
	}

	count, err := ctrl.notificationService.UnreadCount(userID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "count notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"unread_count": count,
	})
}

// MarkRead marks one notification as read
// POST /api/v1/notifications/:id/read
func (ctrl *NotificationController) MarkRead(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Sign in required")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid notification ID")
		return
	}

	notification, err := ctrl.notificationService.MarkAsRead(uint(id), userID)
	if err != nil {
		respondNotificationError(c, err, "mark notification read")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notification": notification,
	})
}

// MarkAllRead marks every unread notification as read
// POST /api/v1/notifications/read-all
func (ctrl *NotificationController) MarkAllRead(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Sign in required")
		return
	}

	if err := ctrl.notificationService.MarkAllAsRead(userID); err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "mark notifications read")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// Delete removes one notification
// DELETE /api/v1/notifications/:id
func (ctrl *NotificationController) Delete(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Sign in required")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid notification ID")
		return
	}

	if err := ctrl.notificationService.Delete(uint(id), userID); err != nil {
		respondNotificationError(c, err, "delete notification")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

func respondNotificationError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, service.ErrNotificationNotFound):
		apperrors.NotFound(c, apperrors.NotificationNotFound, "Notification not found")
	case errors.Is(err, service.ErrNotNotificationOwner):
		apperrors.Forbidden(c, "This notification belongs to another user")
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}
