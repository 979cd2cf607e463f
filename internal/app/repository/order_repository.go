package repository

import (
	"time"

	"github.com/emartin/storefront-backend/internal/app/model"
	"github.com/emartin/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderFilter struct {
	Status *model.OrderStatus
	UserID *uint
	Limit  int
	Offset int
}

type OrderRepository interface {
	Create(order *model.Order) error
	FindByID(id uint) (*model.Order, error)
	FindByUserID(userID uint) ([]model.Order, error)
	FindWithFilter(filter OrderFilter) ([]model.Order, int64, error)
	Update(order *model.Order) error
	Count() (int64, error)
	CountByStatus() (map[model.OrderStatus]int64, error)
	SumRevenue() (float64, error)
	CountSince(since time.Time) (int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"user_id":     order.UserID,
		"total_price": order.TotalPrice,
		"item_count":  len(order.Items),
	})

	if err := r.db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"user_id": order.UserID,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
	})
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	logger.Debug("Finding order by ID in database", map[string]interface{}{
		"order_id": id,
	})

	var order model.Order
	err := r.db.Preload("Items").Preload("Items.Product").Preload("User").
		First(&order, id).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
				"order_id": id,
			})
		}
		return nil, err
	}

	return &order, nil
}

func (r *orderRepository) FindByUserID(userID uint) ([]model.Order, error) {
	logger.Debug("Finding orders by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var orders []model.Order
	err := r.db.Where("user_id = ?", userID).
		Preload("Items").Preload("Items.Product").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to find orders by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Orders found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
	})
	return orders, nil
}

func (r *orderRepository) FindWithFilter(filter OrderFilter) ([]model.Order, int64, error) {
	logger.Debug("Finding orders with filter", map[string]interface{}{
		"status":  filter.Status,
		"user_id": filter.UserID,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})

	base := r.db.Model(&model.Order{})
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}
	if filter.UserID != nil {
		base = base.Where("user_id = ?", *filter.UserID)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		logger.Error("Failed to count orders with filter", err, nil)
		return nil, 0, err
	}

	query := base.Session(&gorm.Session{}).
		Preload("Items").Preload("Items.Product").Preload("User").
		Order("created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var orders []model.Order
	if err := query.Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders with filter", err, nil)
		return nil, 0, err
	}

	logger.Debug("Orders found with filter", map[string]interface{}{
		"count": len(orders),
		"total": total,
	})
	return orders, total, nil
}

func (r *orderRepository) Update(order *model.Order) error {
	logger.Debug("Updating order in database", map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
	})

	if err := r.db.Omit("Items", "User").Save(order).Error; err != nil {
		logger.Error("Failed to update order in database", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return err
	}

	logger.Debug("Order updated in database", map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
	})
	return nil
}

func (r *orderRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.Order{}).Count(&count).Error; err != nil {
		logger.Error("Failed to count orders in database", err, nil)
		return 0, err
	}
	return count, nil
}

func (r *orderRepository) CountByStatus() (map[model.OrderStatus]int64, error) {
	type row struct {
		Status model.OrderStatus
		Count  int64
	}

	var rows []row
	if err := r.db.Model(&model.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		logger.Error("Failed to count orders by status in database", err, nil)
		return nil, err
	}

	counts := make(map[model.OrderStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// SumRevenue totals paid, non-cancelled orders.
func (r *orderRepository) SumRevenue() (float64, error) {
	var revenue float64
	err := r.db.Model(&model.Order{}).
		Where("is_paid = ? AND status <> ?", true, model.OrderStatusCancelled).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&revenue).Error
	if err != nil {
		logger.Error("Failed to sum order revenue in database", err, nil)
		return 0, err
	}
	return revenue, nil
}

func (r *orderRepository) CountSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.Order{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to count recent orders in database", err, nil)
		return 0, err
	}
	return count, nil
}
