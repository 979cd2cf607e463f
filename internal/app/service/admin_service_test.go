package service

import (
	"strings"
	"testing"

	"github.com/emartin/storefront-backend/internal/app/model"
	"github.com/emartin/storefront-backend/internal/app/repository"
	"github.com/emartin/storefront-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAdminServiceTest(t *testing.T) (AdminService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	return NewAdminService(userRepo, productRepo, orderRepo), testDB
}

func seedAdminFixtures(t *testing.T, testDB *gorm.DB) *model.User {
	t.Helper()

	user := &model.User{Email: "buyer@example.com", PasswordHash: "hash", Name: "Buyer", Role: model.RoleUser}
	require.NoError(t, testDB.Create(user).Error)

	product := &model.Product{Name: "Widget", Price: 10, Category: model.CategoryHome, StockQuantity: 100}
	require.NoError(t, testDB.Create(product).Error)

	orders := []model.Order{
		{
			UserID: user.ID, Status: model.OrderStatusPending,
			ItemsPrice: 20, TotalPrice: 25, IsPaid: true,
			Items: []model.OrderItem{{ProductID: product.ID, Name: "Widget", Quantity: 2, UnitPrice: 10}},
		},
		{
			UserID: user.ID, Status: model.OrderStatusDelivered,
			ItemsPrice: 10, TotalPrice: 15, IsPaid: true,
			Items: []model.OrderItem{{ProductID: product.ID, Name: "Widget", Quantity: 1, UnitPrice: 10}},
		},
		{
			UserID: user.ID, Status: model.OrderStatusCancelled,
			ItemsPrice: 30, TotalPrice: 35, IsPaid: true,
			Items: []model.OrderItem{{ProductID: product.ID, Name: "Widget", Quantity: 3, UnitPrice: 10}},
		},
	}
	for i := range orders {
		require.NoError(t, testDB.Create(&orders[i]).Error)
	}
	return user
}

func TestAdminService_GetDashboardStats(t *testing.T) {
	adminService, testDB := setupAdminServiceTest(t)
	seedAdminFixtures(t, testDB)

	stats, err := adminService.GetDashboardStats()
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalProducts)
	assert.Equal(t, int64(3), stats.TotalOrders)
	assert.Equal(t, int64(3), stats.OrdersLast7d)

	// Cancelled orders do not count toward revenue even when paid
	assert.InDelta(t, 25+15, stats.TotalRevenue, 0.001)

	assert.Equal(t, int64(1), stats.OrdersByStatus[model.OrderStatusPending])
	assert.Equal(t, int64(1), stats.OrdersByStatus[model.OrderStatusDelivered])
	assert.Equal(t, int64(1), stats.OrdersByStatus[model.OrderStatusCancelled])
}

func TestAdminService_ExportOrders(t *testing.T) {
	adminService, testDB := setupAdminServiceTest(t)
	seedAdminFixtures(t, testDB)

	f, err := adminService.ExportOrders(repository.OrderFilter{})
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Orders")
	require.NoError(t, err)
	// Header plus one row per order
	require.Len(t, rows, 4)
	assert.Equal(t, "Order ID", rows[0][0])
	assert.Equal(t, "Status", rows[0][2])

	for _, row := range rows[1:] {
		assert.Equal(t, "buyer@example.com", row[1])
	}
}

func TestAdminService_ExportOrders_StatusFilter(t *testing.T) {
	adminService, testDB := setupAdminServiceTest(t)
	seedAdminFixtures(t, testDB)

	pending := model.OrderStatusPending
	f, err := adminService.ExportOrders(repository.OrderFilter{Status: &pending})
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Orders")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, string(model.OrderStatusPending), rows[1][2])
}

func TestExportFilename(t *testing.T) {
	name := ExportFilename("orders")
	assert.True(t, strings.HasPrefix(name, "orders_"))
	assert.True(t, strings.HasSuffix(name, ".xlsx"))
}
