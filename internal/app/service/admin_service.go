package service

import (
	"fmt"
	"time"

	"github.com/emartin/storefront-backend/internal/app/model"
	"github.com/emartin/storefront-backend/internal/app/repository"
	"github.com/emartin/storefront-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// DashboardStats is the admin overview aggregate.
type DashboardStats struct {
	TotalUsers     int64                        `json:"total_users"`
	TotalProducts  int64                        `json:"total_products"`
	TotalOrders    int64                        `json:"total_orders"`
	TotalRevenue   float64                      `json:"total_revenue"`
	OrdersByStatus map[model.OrderStatus]int64  `json:"orders_by_status"`
	OrdersLast7d   int64                        `json:"orders_last_7_days"`
}

type AdminService interface {
	GetDashboardStats() (*DashboardStats, error)
	ExportOrders(filter repository.OrderFilter) (*excelize.File, error)
}

type adminService struct {
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
}

func NewAdminService(
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
) AdminService {
	return &adminService{
		userRepo:    userRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

func (s *adminService) GetDashboardStats() (*DashboardStats, error) {
	logger.Debug("Building admin dashboard stats", nil)

	users, err := s.userRepo.Count()
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.Count()
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.Count()
	if err != nil {
		return nil, err
	}
	revenue, err := s.orderRepo.SumRevenue()
	if err != nil {
		return nil, err
	}
	byStatus, err := s.orderRepo.CountByStatus()
	if err != nil {
		return nil, err
	}
	recent, err := s.orderRepo.CountSince(time.Now().AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalUsers:     users,
		TotalProducts:  products,
		TotalOrders:    orders,
		TotalRevenue:   revenue,
		OrdersByStatus: byStatus,
		OrdersLast7d:   recent,
	}

	logger.Info("Admin dashboard stats built", map[string]interface{}{
		"total_orders":  orders,
		"total_revenue": revenue,
	})
	return stats, nil
}

// ExportOrders writes the filtered orders into an xlsx workbook, one
// row per order.
func (s *adminService) ExportOrders(filter repository.OrderFilter) (*excelize.File, error) {
	logger.Info("Exporting orders to spreadsheet", map[string]interface{}{
		"status": filter.Status,
	})

	orders, _, err := s.orderRepo.FindWithFilter(filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Orders"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []string{"Order ID", "User Email", "Status", "Items", "Items Price", "Tax", "Shipping", "Total", "Paid", "Created At"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, order := range orders {
		itemCount := 0
		for _, item := range order.Items {
			itemCount += item.Quantity
		}
		values := []interface{}{
			order.ID,
			order.User.Email,
			string(order.Status),
			itemCount,
			order.ItemsPrice,
			order.TaxPrice,
			order.ShippingPrice,
			order.TotalPrice,
			order.IsPaid,
			order.CreatedAt.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	logger.Info("Order export built", map[string]interface{}{
		"order_count": len(orders),
	})
	return f, nil
}

// ExportFilename builds a timestamped attachment name.
func ExportFilename(prefix string) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, time.Now().Format("20060102_150405"))
}
