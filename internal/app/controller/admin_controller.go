package controller

import (
	"net/http"

	"github.com/emartin/storefront-backend/internal/app/model"
	"github.com/emartin/storefront-backend/internal/app/repository"
	"github.com/emartin/storefront-backend/internal/app/service"
	apperrors "github.com/emartin/storefront-backend/internal/errors"
	"github.com/emartin/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type AdminController struct {
	adminService service.AdminService
}

func NewAdminController(adminService service.AdminService) *AdminController {
	return &AdminController{
		adminService: adminService,
	}
}

// GetDashboard returns aggregate store statistics (admin)
// GET /api/v1/admin/dashboard
func (ctrl *AdminController) GetDashboard(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	stats, err := ctrl.adminService.GetDashboardStats()
	if err != nil {
		log.Error("Failed to build dashboard stats", err, nil)
		apperrors.InternalError(c, "failed to build dashboard")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": stats,
	})
}

// ExportOrders streams the filtered orders as an xlsx attachment (admin)
// GET /api/v1/admin/orders/export
func (ctrl *AdminController) ExportOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.OrderFilter{}
	if status := c.Query("status"); status != "" {
		s := model.OrderStatus(status)
		if !s.Valid() {
			apperrors.BadRequest(c, apperrors.OrderInvalidStatus, "unknown order status")
			return
		}
		filter.Status = &s
	}

	file, err := ctrl.adminService.ExportOrders(filter)
	if err != nil {
		log.Error("Failed to export orders", err, nil)
		apperrors.InternalError(c, "failed to export orders")
		return
	}

	filename := service.ExportFilename("orders")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := file.Write(c.Writer); err != nil {
		log.Error("Failed to stream order export", err, nil)
	}
}
