// internal/services/admin_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openmerce/storefront/internal/database"
	"github.com/openmerce/storefront/internal/models"
	"github.com/openmerce/storefront/internal/utils"
)

// AdminService backs the admin dashboard: store-wide statistics, customer
// management, and the audit trail.
type AdminService struct {
	db *gorm.DB
}

type UpdateCustomerStatusRequest struct {
	Status models.CustomerStatus `json:"status" validate:"required,oneof=active suspended"`
	Reason string                `json:"reason,omitempty" validate:"max=500"`
}

type CustomerSearchParams struct {
	utils.PaginationParams
	Status models.CustomerStatus
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// GetDashboardStats aggregates the numbers shown on the admin landing page.
func (s *AdminService) GetDashboardStats(storeID uuid.UUID) (map[string]interface{}, error) {
	var totalCustomers, totalProducts, totalOrders, pendingOrders int64
	var activeCarts int64
	var totalRevenue float64

	if err := s.db.Model(&models.Customer{}).Where("store_id = ?", storeID).Count(&totalCustomers).Error; err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}
	if err := s.db.Model(&models.Product{}).Where("store_id = ?", storeID).Count(&totalProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	if err := s.db.Model(&models.Order{}).Where("store_id = ?", storeID).Count(&totalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if err := s.db.Model(&models.Order{}).
		Where("store_id = ? AND status = ?", storeID, models.OrderStatusPending).
		Count(&pendingOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending orders: %w", err)
	}
	if err := s.db.Model(&models.ShoppingCart{}).
		Where("store_id = ? AND state = ?", storeID, models.CartStateActive).
		Count(&activeCarts).Error; err != nil {
		return nil, fmt.Errorf("failed to count carts: %w", err)
	}

	s.db.Model(&models.Order{}).
		Where("store_id = ? AND status NOT IN ?", storeID,
			[]models.OrderStatus{models.OrderStatusCanceled, models.OrderStatusRefunded}).
		Select("COALESCE(SUM(total), 0)").Scan(&totalRevenue)

	// Last 30 days of order volume for the dashboard chart.
	type dailyCount struct {
		Day   time.Time `json:"day"`
		Count int64     `json:"count"`
		Total float64   `json:"total"`
	}
	var recent []dailyCount
	s.db.Model(&models.Order{}).
		Where("store_id = ? AND created_at > ?", storeID, time.Now().AddDate(0, 0, -30)).
		Select("DATE_TRUNC('day', created_at) AS day, COUNT(*) AS count, COALESCE(SUM(total), 0) AS total").
		Group("day").Order("day ASC").
		Scan(&recent)

	var recentOrders []models.Order
	s.db.Where("store_id = ?", storeID).
		Order("created_at DESC").Limit(10).
		Find(&recentOrders)

	return map[string]interface{}{
		"total_customers": totalCustomers,
		"total_products":  totalProducts,
		"total_orders":    totalOrders,
		"pending_orders":  pendingOrders,
		"active_carts":    activeCarts,
		"total_revenue":   RoundMoney(totalRevenue),
		"orders_by_day":   recent,
		"recent_orders":   recentOrders,
	}, nil
}

// ListCustomers searches a store's customers for the admin grid.
func (s *AdminService) ListCustomers(storeID uuid.UUID, params CustomerSearchParams) ([]models.Customer, int64, error) {
	query := s.db.Model(&models.Customer{}).Where("store_id = ?", storeID)

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("email ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?", search, search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	allowedSortFields := []string{"created_at", "email", "last_login_at", "status"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var customers []models.Customer
	if err := query.Find(&customers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch customers: %w", err)
	}

	return customers, total, nil
}

// UpdateCustomerStatus suspends or reactivates an account. Admins cannot
// change their own status.
func (s *AdminService) UpdateCustomerStatus(storeID, customerID, adminID uuid.UUID, req *UpdateCustomerStatusRequest) (*models.Customer, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if customerID == adminID {
		return nil, fmt.Errorf("cannot change your own status: %w", ErrInvalidState)
	}

	var customer models.Customer
	if err := s.db.Where("store_id = ?", storeID).First(&customer, customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("customer %s: %w", customerID, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Model(&customer).Update("status", req.Status).Error; err != nil {
			return fmt.Errorf("failed to update customer: %w", err)
		}

		audit := models.AuditLog{
			CustomerID:   &adminID,
			Action:       "customer_status_change",
			ResourceType: "customer",
			ResourceID:   &customerID,
			NewValues: models.JSONB{
				"status": string(req.Status),
				"reason": req.Reason,
			},
		}
		if err := tx.Create(&audit).Error; err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	customer.Status = req.Status
	return &customer, nil
}

// ListAuditLogs pages through the audit trail, newest first.
func (s *AdminService) ListAuditLogs(params utils.PaginationParams) ([]models.AuditLog, int64, error) {
	query := s.db.Model(&models.AuditLog{})

	if params.Search != "" {
		query = query.Where("action ILIKE ? OR resource_type ILIKE ?", "%"+params.Search+"%", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	allowedSortFields := []string{"created_at", "action", "resource_type"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var logs []models.AuditLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}

	return logs, total, nil
}

// LowStockProducts lists products at or below the threshold for the
// inventory widget.
func (s *AdminService) LowStockProducts(storeID uuid.UUID, threshold int) ([]models.Product, error) {
	if threshold <= 0 {
		threshold = 5
	}

	var products []models.Product
	if err := s.db.Where("store_id = ? AND available = ? AND quantity <= ?", storeID, true, threshold).
		Order("quantity ASC").
		Limit(50).
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch low stock products: %w", err)
	}
	return products, nil
}
