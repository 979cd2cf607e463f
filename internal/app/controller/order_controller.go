package controller

import (
	"errors"
	"net/http"

	"github.com/emartin/storefront-backend/internal/app/model"
	"github.com/emartin/storefront-backend/internal/app/repository"
	"github.com/emartin/storefront-backend/internal/app/service"
	apperrors "github.com/emartin/storefront-backend/internal/errors"
	"github.com/emartin/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type CheckoutRequest struct {
	ShippingAddress string  `json:"shipping_address" binding:"required"`
	ShippingCity    string  `json:"shipping_city"`
	ShippingPostal  string  `json:"shipping_postal_code"`
	ShippingCountry string  `json:"shipping_country"`
	PaymentMethod   string  `json:"payment_method" binding:"required"`
	TaxPrice        float64 `json:"tax_price" binding:"gte=0"`
	ShippingPrice   float64 `json:"shipping_price" binding:"gte=0"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type MarkPaidRequest struct {
	PaymentID     string `json:"payment_id"`
	PaymentStatus string `json:"payment_status"`
	PaymentEmail  string `json:"payment_email"`
}

// CreateOrder checks out the user's cart
// POST /api/v1/orders
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid checkout request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid request data")
		return
	}

	order, err := ctrl.orderService.CreateOrder(userID, service.CheckoutInput{
		ShippingAddress: req.ShippingAddress,
		ShippingCity:    req.ShippingCity,
		ShippingPostal:  req.ShippingPostal,
		ShippingCountry: req.ShippingCountry,
		PaymentMethod:   req.PaymentMethod,
		TaxPrice:        req.TaxPrice,
		ShippingPrice:   req.ShippingPrice,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyOrder):
			apperrors.BadRequest(c, apperrors.OrderEmpty, "cart is empty")
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "a product in the cart no longer exists")
		case errors.Is(err, service.ErrInsufficientStock):
			apperrors.BadRequest(c, apperrors.StockInsufficient, "not enough stock for one or more items")
		default:
			log.Error("Checkout failed", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.InternalError(c, "checkout failed")
		}
		return
	}

	log.Info("Order created", map[string]interface{}{
		"user_id":  userID,
		"order_id": order.ID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"order": order,
	})
}

// GetMyOrders lists the user's orders
// GET /api/v1/orders
func (ctrl *OrderController) GetMyOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(userID)
	if err != nil {
		log.Error("Failed to fetch orders", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "failed to fetch orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrder returns one order (owner or admin)
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}
	role, _ := middleware.GetUserRole(c)

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetOrderByID(userID, role, orderID)
	if err != nil {
		ctrl.respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// GetAllOrders lists every order (admin)
// GET /api/v1/admin/orders
func (ctrl *OrderController) GetAllOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.OrderFilter{
		Limit:  parseIntQuery(c, "limit", 50),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if status := c.Query("status"); status != "" {
		s := model.OrderStatus(status)
		if !s.Valid() {
			apperrors.BadRequest(c, apperrors.OrderInvalidStatus, "unknown order status")
			return
		}
		filter.Status = &s
	}

	orders, total, err := ctrl.orderService.GetAllOrders(filter)
	if err != nil {
		log.Error("Failed to fetch all orders", err, nil)
		apperrors.InternalError(c, "failed to fetch orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
	})
}

// UpdateStatus changes an order's status (admin)
// PUT /api/v1/admin/orders/:id/status
func (ctrl *OrderController) UpdateStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid request data")
		return
	}

	order, err := ctrl.orderService.UpdateOrderStatus(orderID, model.OrderStatus(req.Status))
	if err != nil {
		ctrl.respondOrderError(c, err)
		return
	}

	log.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   req.Status,
	})
	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// CancelOrder cancels an order and restores its stock (owner or admin)
// POST /api/v1/orders/:id/cancel
func (ctrl *OrderController) CancelOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}
	role, _ := middleware.GetUserRole(c)

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orderService.CancelOrder(userID, role, orderID)
	if err != nil {
		ctrl.respondOrderError(c, err)
		return
	}

	log.Info("Order cancelled", map[string]interface{}{
		"order_id": orderID,
		"user_id":  userID,
	})
	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// MarkPaid records payment metadata on an order (owner or admin)
// PUT /api/v1/orders/:id/pay
func (ctrl *OrderController) MarkPaid(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}
	role, _ := middleware.GetUserRole(c)

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid request data")
		return
	}

	order, err := ctrl.orderService.MarkPaid(userID, role, orderID, service.PaymentInfo{
		ID:     req.PaymentID,
		Status: req.PaymentStatus,
		Email:  req.PaymentEmail,
	})
	if err != nil {
		ctrl.respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

func (ctrl *OrderController) respondOrderError(c *gin.Context, err error) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		apperrors.NotFound(c, apperrors.OrderNotFound, "order not found")
	case errors.Is(err, service.ErrForbidden):
		apperrors.Forbidden(c, "")
	case errors.Is(err, service.ErrInvalidStatus):
		apperrors.BadRequest(c, apperrors.OrderInvalidStatus, "unknown order status")
	case errors.Is(err, service.ErrAlreadyDelivered):
		apperrors.Conflict(c, apperrors.OrderAlreadyDelivered, "order has already been delivered")
	case errors.Is(err, service.ErrAlreadyCancelled):
		apperrors.Conflict(c, apperrors.OrderAlreadyCancelled, "order has already been cancelled")
	default:
		log.Error("Order operation failed", err, nil)
		apperrors.InternalError(c, "")
	}
}
