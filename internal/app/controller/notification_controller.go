package controller

import (
	"errors"
	"net/http"

	"github.com/emartin/storefront-backend/internal/app/service"
	apperrors "github.com/emartin/storefront-backend/internal/errors"
	"github.com/emartin/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	notificationService service.NotificationService
}

func NewNotificationController(notificationService service.NotificationService) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
	}
}

// GetNotifications lists the user's notifications
// GET /api/v1/notifications
func (ctrl *NotificationController) GetNotifications(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	notifications, err := ctrl.notificationService.GetUserNotifications(
		userID,
		parseIntQuery(c, "limit", 50),
		parseIntQuery(c, "offset", 0),
	)
	if err != nil {
		log.Error("Failed to fetch notifications", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "failed to fetch notifications")
		return
	}

	unread, err := ctrl.notificationService.CountUnread(userID)
	if err != nil {
		unread = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// MarkRead marks one notification as read
// PUT /api/v1/notifications/:id/read
func (ctrl *NotificationController) MarkRead(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.notificationService.MarkRead(userID, id); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			apperrors.NotFound(c, apperrors.NotificationNotFound, "notification not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "notification marked read",
	})
}

// MarkAllRead marks every notification as read
// PUT /api/v1/notifications/read-all
func (ctrl *NotificationController) MarkAllRead(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.notificationService.MarkAllRead(userID); err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "all notifications marked read",
	})
}
