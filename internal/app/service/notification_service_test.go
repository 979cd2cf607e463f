package service

import (
	"testing"

	"github.com/emartin/storefront-backend/internal/app/model"
	"github.com/emartin/storefront-backend/internal/app/repository"
	"github.com/emartin/storefront-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupNotificationServiceTest(t *testing.T) (NotificationService, *model.User, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	notificationRepo := repository.NewNotificationRepository(testDB)
	notificationService := NewNotificationService(notificationRepo)

	user := &model.User{
		Email:        "notify@example.com",
		PasswordHash: "hash",
		Name:         "Notify User",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	return notificationService, user, testDB
}

func TestNotificationService_NotifyOrderCreated(t *testing.T) {
	notificationService, user, _ := setupNotificationServiceTest(t)

	order := &model.Order{ID: 42, UserID: user.ID, TotalPrice: 99.99, Status: model.OrderStatusPending}
	notificationService.NotifyOrderCreated(order)

	notifications, err := notificationService.GetUserNotifications(user.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationTypeOrderConfirmed, notifications[0].Type)
	require.NotNil(t, notifications[0].OrderID)
	assert.Equal(t, uint(42), *notifications[0].OrderID)
	assert.False(t, notifications[0].IsRead)
}

func TestNotificationService_UnreadCountAndMarkRead(t *testing.T) {
	notificationService, user, _ := setupNotificationServiceTest(t)

	order := &model.Order{ID: 1, UserID: user.ID, Status: model.OrderStatusShipped}
	notificationService.NotifyOrderStatusChanged(order)
	notificationService.NotifyOrderCancelled(order)

	unread, err := notificationService.CountUnread(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	notifications, err := notificationService.GetUserNotifications(user.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, notifications, 2)

	err = notificationService.MarkRead(user.ID, notifications[0].ID)
	assert.NoError(t, err)

	unread, err = notificationService.CountUnread(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}

func TestNotificationService_MarkRead_WrongUser(t *testing.T) {
	notificationService, user, testDB := setupNotificationServiceTest(t)

	other := &model.User{Email: "other@example.com", PasswordHash: "hash", Name: "Other", Role: model.RoleUser}
	testDB.Create(other)

	order := &model.Order{ID: 7, UserID: user.ID, Status: model.OrderStatusPending}
	notificationService.NotifyOrderCreated(order)

	notifications, err := notificationService.GetUserNotifications(user.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, notifications, 1)

	// Another user's notification reads as missing
	err = notificationService.MarkRead(other.ID, notifications[0].ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	notificationService, user, _ := setupNotificationServiceTest(t)

	order := &model.Order{ID: 3, UserID: user.ID, Status: model.OrderStatusPending}
	notificationService.NotifyOrderCreated(order)
	notificationService.NotifyOrderStatusChanged(order)
	notificationService.NotifyOrderCancelled(order)

	err := notificationService.MarkAllRead(user.ID)
	assert.NoError(t, err)

	unread, err := notificationService.CountUnread(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}
