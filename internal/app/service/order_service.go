package service

import (
	"errors"
	"time"

	"github.com/emartin/storefront-backend/internal/app/model"
	"github.com/emartin/storefront-backend/internal/app/repository"
	"github.com/emartin/storefront-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrEmptyOrder       = errors.New("cart is empty, nothing to order")
	ErrInvalidStatus    = errors.New("invalid order status")
	ErrAlreadyDelivered = errors.New("order has already been delivered")
	ErrAlreadyCancelled = errors.New("order has already been cancelled")
)

// CheckoutInput carries the caller-supplied checkout fields. Tax and
// shipping are computed client-side and stored verbatim; the items
// price is always rederived from the cart's stored snapshots.
type CheckoutInput struct {
	ShippingAddress string
	ShippingCity    string
	ShippingPostal  string
	ShippingCountry string
	PaymentMethod   string
	TaxPrice        float64
	ShippingPrice   float64
}

// PaymentInfo is opaque payment-provider metadata recorded on MarkPaid.
type PaymentInfo struct {
	ID     string
	Status string
	Email  string
}

type OrderService interface {
	CreateOrder(userID uint, input CheckoutInput) (*model.Order, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	GetOrderByID(userID uint, role model.UserRole, orderID uint) (*model.Order, error)
	GetAllOrders(filter repository.OrderFilter) ([]model.Order, int64, error)
	UpdateOrderStatus(orderID uint, status model.OrderStatus) (*model.Order, error)
	CancelOrder(userID uint, role model.UserRole, orderID uint) (*model.Order, error)
	MarkPaid(userID uint, role model.UserRole, orderID uint, payment PaymentInfo) (*model.Order, error)
}

type orderService struct {
	orderRepo           repository.OrderRepository
	cartRepo            repository.CartRepository
	productRepo         repository.ProductRepository
	notificationService NotificationService
	db                  *gorm.DB
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	notificationService NotificationService,
	db *gorm.DB,
) OrderService {
	return &orderService{
		orderRepo:           orderRepo,
		cartRepo:            cartRepo,
		productRepo:         productRepo,
		notificationService: notificationService,
		db:                  db,
	}
}

// CreateOrder turns the user's cart into an order. Stock checks,
// decrements, order insertion and cart clearing run in one transaction:
// if any line lacks stock the whole checkout rolls back and no stock
// is touched.
func (s *orderService) CreateOrder(userID uint, input CheckoutInput) (*model.Order, error) {
	logger.Info("Creating order from cart", map[string]interface{}{
		"user_id":        userID,
		"payment_method": input.PaymentMethod,
	})

	cart, err := s.cartRepo.FindByOwner(model.UserOwner(userID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot create order: cart is empty", map[string]interface{}{
				"user_id": userID,
			})
			return nil, ErrEmptyOrder
		}
		logger.Error("Failed to fetch cart for checkout", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if len(cart.Items) == 0 {
		logger.Warn("Cannot create order: cart is empty", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrEmptyOrder
	}

	var order *model.Order
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var (
			itemsPrice float64
			orderItems []model.OrderItem
		)

		for _, cartItem := range cart.Items {
			var product model.Product
			if err := tx.
				Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, cartItem.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					logger.Warn("Product not found during checkout", map[string]interface{}{
						"user_id":    userID,
						"product_id": cartItem.ProductID,
					})
					return ErrProductNotFound
				}
				return err
			}

			if product.StockQuantity < cartItem.Quantity {
				logger.Warn("Checkout failed: insufficient stock", map[string]interface{}{
					"user_id":    userID,
					"product_id": cartItem.ProductID,
					"requested":  cartItem.Quantity,
					"available":  product.StockQuantity,
				})
				return ErrInsufficientStock
			}

			if err := tx.Model(&model.Product{}).
				Where("id = ?", product.ID).
				Update("stock_quantity", gorm.Expr("stock_quantity - ?", cartItem.Quantity)).Error; err != nil {
				return err
			}

			orderItems = append(orderItems, model.OrderItem{
				ProductID: cartItem.ProductID,
				Name:      product.Name,
				Quantity:  cartItem.Quantity,
				UnitPrice: cartItem.UnitPrice,
			})
			itemsPrice += cartItem.UnitPrice * float64(cartItem.Quantity)
		}

		order = &model.Order{
			UserID:          userID,
			Status:          model.OrderStatusPending,
			ShippingAddress: input.ShippingAddress,
			ShippingCity:    input.ShippingCity,
			ShippingPostal:  input.ShippingPostal,
			ShippingCountry: input.ShippingCountry,
			PaymentMethod:   input.PaymentMethod,
			ItemsPrice:      itemsPrice,
			TaxPrice:        input.TaxPrice,
			ShippingPrice:   input.ShippingPrice,
			TotalPrice:      itemsPrice + input.TaxPrice + input.ShippingPrice,
			Items:           orderItems,
		}

		if err := tx.Create(order).Error; err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Model(&model.Cart{}).Where("id = ?", cart.ID).Update("total", 0).Error
	})
	if err != nil {
		if !errors.Is(err, ErrProductNotFound) && !errors.Is(err, ErrInsufficientStock) {
			logger.Error("Failed to create order", err, map[string]interface{}{
				"user_id": userID,
			})
		}
		return nil, err
	}

	logger.Info("Order created successfully", map[string]interface{}{
		"user_id":     userID,
		"order_id":    order.ID,
		"total_price": order.TotalPrice,
		"item_count":  len(order.Items),
	})

	if s.notificationService != nil {
		s.notificationService.NotifyOrderCreated(order)
	}

	return s.orderRepo.FindByID(order.ID)
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	logger.Debug("Fetching user orders", map[string]interface{}{
		"user_id": userID,
	})
	return s.orderRepo.FindByUserID(userID)
}

func (s *orderService) GetOrderByID(userID uint, role model.UserRole, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.UserID != userID && !role.AtLeast(model.RoleAdmin) {
		logger.Warn("Order access denied: not owner", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
			"owner_id": order.UserID,
		})
		return nil, ErrForbidden
	}

	return order, nil
}

func (s *orderService) GetAllOrders(filter repository.OrderFilter) ([]model.Order, int64, error) {
	return s.orderRepo.FindWithFilter(filter)
}

// UpdateOrderStatus moves an order to a new status. Cancelling through
// this path restores stock, same as CancelOrder; delivering stamps the
// delivery fields. Terminal orders reject further transitions.
func (s *orderService) UpdateOrderStatus(orderID uint, status model.OrderStatus) (*model.Order, error) {
	logger.Info("Updating order status", map[string]interface{}{
		"order_id":   orderID,
		"new_status": status,
	})

	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.Status == model.OrderStatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	if order.Status == model.OrderStatusDelivered && status != model.OrderStatusDelivered {
		return nil, ErrAlreadyDelivered
	}

	if status == model.OrderStatusCancelled {
		return s.cancel(order)
	}

	order.Status = status
	if status == model.OrderStatusDelivered && !order.IsDelivered {
		now := time.Now()
		order.IsDelivered = true
		order.DeliveredAt = &now
	}

	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	logger.Info("Order status updated successfully", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})

	if s.notificationService != nil {
		s.notificationService.NotifyOrderStatusChanged(order)
	}
	return order, nil
}

// CancelOrder cancels an order and restores its stock. Only the owner
// or an admin may cancel; delivered orders cannot be cancelled, and
// cancelling twice does not restore stock twice.
func (s *orderService) CancelOrder(userID uint, role model.UserRole, orderID uint) (*model.Order, error) {
	logger.Info("Cancelling order", map[string]interface{}{
		"user_id":  userID,
		"order_id": orderID,
	})

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.UserID != userID && !role.AtLeast(model.RoleAdmin) {
		logger.Warn("Order cancellation denied: not owner", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
			"owner_id": order.UserID,
		})
		return nil, ErrForbidden
	}

	if order.Status == model.OrderStatusDelivered {
		return nil, ErrAlreadyDelivered
	}
	if order.Status == model.OrderStatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	return s.cancel(order)
}

// cancel restores stock for every line and marks the order cancelled,
// atomically.
func (s *orderService) cancel(order *model.Order) (*model.Order, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			if err := tx.Model(&model.Product{}).
				Where("id = ?", item.ProductID).
				Update("stock_quantity", gorm.Expr("stock_quantity + ?", item.Quantity)).Error; err != nil {
				return err
			}
		}
		return tx.Model(&model.Order{}).
			Where("id = ?", order.ID).
			Update("status", model.OrderStatusCancelled).Error
	})
	if err != nil {
		logger.Error("Failed to cancel order", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return nil, err
	}

	order.Status = model.OrderStatusCancelled

	logger.Info("Order cancelled successfully", map[string]interface{}{
		"order_id": order.ID,
	})

	if s.notificationService != nil {
		s.notificationService.NotifyOrderCancelled(order)
	}
	return order, nil
}

// MarkPaid records payment-provider metadata on the order. The values
// are stored opaquely; no verification happens here.
func (s *orderService) MarkPaid(userID uint, role model.UserRole, orderID uint, payment PaymentInfo) (*model.Order, error) {
	logger.Info("Marking order as paid", map[string]interface{}{
		"user_id":  userID,
		"order_id": orderID,
	})

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.UserID != userID && !role.AtLeast(model.RoleAdmin) {
		logger.Warn("Order payment denied: not owner", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
		})
		return nil, ErrForbidden
	}

	if order.Status == model.OrderStatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	now := time.Now()
	order.IsPaid = true
	order.PaidAt = &now
	order.PaymentID = payment.ID
	order.PaymentStatus = payment.Status
	order.PaymentEmail = payment.Email

	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	logger.Info("Order marked as paid", map[string]interface{}{
		"order_id": orderID,
	})
	return order, nil
}
