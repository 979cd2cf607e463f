package controller

import (
	"errors"
	"net/http"

	"github.com/emartin/storefront-backend/internal/app/model"
	"github.com/emartin/storefront-backend/internal/app/service"
	apperrors "github.com/emartin/storefront-backend/internal/errors"
	"github.com/emartin/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type DeliveryController struct {
	deliveryService service.DeliveryService
}

func NewDeliveryController(deliveryService service.DeliveryService) *DeliveryController {
	return &DeliveryController{
		deliveryService: deliveryService,
	}
}

type DeliveryOptionRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" binding:"gte=0"`
	EstimatedDays int     `json:"estimated_days" binding:"required,gt=0"`
	Active        *bool   `json:"active"`
}

// GetOptions lists delivery options. Customers see active ones only;
// admins can pass all=true.
// GET /api/v1/delivery-options
func (ctrl *DeliveryController) GetOptions(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	activeOnly := true
	if c.Query("all") == "true" {
		if role, ok := middleware.GetUserRole(c); ok && role.AtLeast(model.RoleAdmin) {
			activeOnly = false
		}
	}

	options, err := ctrl.deliveryService.GetOptions(activeOnly)
	if err != nil {
		log.Error("Failed to fetch delivery options", err, nil)
		apperrors.InternalError(c, "failed to fetch delivery options")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"delivery_options": options,
	})
}

// CreateOption adds a delivery option (admin)
// POST /api/v1/admin/delivery-options
func (ctrl *DeliveryController) CreateOption(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req DeliveryOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid request data")
		return
	}

	option := &model.DeliveryOption{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		EstimatedDays: req.EstimatedDays,
		Active:        true,
	}
	if req.Active != nil {
		option.Active = *req.Active
	}

	if err := ctrl.deliveryService.CreateOption(option); err != nil {
		log.Error("Failed to create delivery option", err, map[string]interface{}{
			"name": req.Name,
		})
		info := apperrors.ParseError(err, "delivery option create")
		apperrors.RespondWithError(c, http.StatusConflict, info.Code, info.Message)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"delivery_option": option,
	})
}

// UpdateOption edits a delivery option (admin)
// PUT /api/v1/admin/delivery-options/:id
func (ctrl *DeliveryController) UpdateOption(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req DeliveryOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid request data")
		return
	}

	option := &model.DeliveryOption{
		ID:            id,
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		EstimatedDays: req.EstimatedDays,
		Active:        true,
	}
	if req.Active != nil {
		option.Active = *req.Active
	}

	if err := ctrl.deliveryService.UpdateOption(option); err != nil {
		if errors.Is(err, service.ErrDeliveryOptionNotFound) {
			apperrors.NotFound(c, apperrors.DeliveryOptionNotFound, "delivery option not found")
			return
		}
		log.Error("Failed to update delivery option", err, map[string]interface{}{
			"delivery_option_id": id,
		})
		apperrors.InternalError(c, "failed to update delivery option")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"delivery_option": option,
	})
}

// DeleteOption removes a delivery option (admin)
// DELETE /api/v1/admin/delivery-options/:id
func (ctrl *DeliveryController) DeleteOption(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.deliveryService.DeleteOption(id); err != nil {
		if errors.Is(err, service.ErrDeliveryOptionNotFound) {
			apperrors.NotFound(c, apperrors.DeliveryOptionNotFound, "delivery option not found")
			return
		}
		log.Error("Failed to delete delivery option", err, map[string]interface{}{
			"delivery_option_id": id,
		})
		apperrors.InternalError(c, "failed to delete delivery option")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "delivery option deleted",
	})
}
