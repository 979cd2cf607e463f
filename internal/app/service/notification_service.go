package service

import (
	"errors"
	"fmt"

	"github.com/emartin/storefront-backend/internal/app/model"
	"github.com/emartin/storefront-backend/internal/app/repository"
	"github.com/emartin/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationService interface {
	NotifyOrderCreated(order *model.Order)
	NotifyOrderStatusChanged(order *model.Order)
	NotifyOrderCancelled(order *model.Order)
	GetUserNotifications(userID uint, limit, offset int) ([]model.Notification, error)
	CountUnread(userID uint) (int64, error)
	MarkRead(userID, notificationID uint) error
	MarkAllRead(userID uint) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationService(notificationRepo repository.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

// notify writes a notification best-effort. Failures are logged and
// never surface to the caller; the originating request must not fail
// because a notification row could not be written.
func (s *notificationService) notify(userID uint, orderID *uint, nType model.NotificationType, title, body string) {
	notification := &model.Notification{
		UserID:  userID,
		Type:    nType,
		Title:   title,
		Body:    body,
		OrderID: orderID,
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		logger.Warn("Failed to write notification", map[string]interface{}{
			"user_id": userID,
			"type":    nType,
			"error":   err.Error(),
		})
	}
}

func (s *notificationService) NotifyOrderCreated(order *model.Order) {
	orderID := order.ID
	s.notify(order.UserID, &orderID, model.NotificationTypeOrderConfirmed,
		"Order confirmed",
		fmt.Sprintf("Your order #%d has been placed (total %.2f).", order.ID, order.TotalPrice))
}

func (s *notificationService) NotifyOrderStatusChanged(order *model.Order) {
	orderID := order.ID
	s.notify(order.UserID, &orderID, model.NotificationTypeOrderStatus,
		"Order status updated",
		fmt.Sprintf("Your order #%d is now %s.", order.ID, order.Status))
}

func (s *notificationService) NotifyOrderCancelled(order *model.Order) {
	orderID := order.ID
	s.notify(order.UserID, &orderID, model.NotificationTypeOrderCancelled,
		"Order cancelled",
		fmt.Sprintf("Your order #%d has been cancelled.", order.ID))
}

func (s *notificationService) GetUserNotifications(userID uint, limit, offset int) ([]model.Notification, error) {
	return s.notificationRepo.FindByUserID(userID, limit, offset)
}

func (s *notificationService) CountUnread(userID uint) (int64, error) {
	return s.notificationRepo.CountUnread(userID)
}

func (s *notificationService) MarkRead(userID, notificationID uint) error {
	notification, err := s.notificationRepo.FindByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}

	if notification.UserID != userID {
		return ErrNotificationNotFound
	}

	return s.notificationRepo.MarkRead(notificationID)
}

func (s *notificationService) MarkAllRead(userID uint) error {
	return s.notificationRepo.MarkAllRead(userID)
}
