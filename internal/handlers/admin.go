// internal/handlers/admin.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/openmerce/storefront/internal/i18n"
	"github.com/openmerce/storefront/internal/models"
	"github.com/openmerce/storefront/internal/services"
	"github.com/openmerce/storefront/internal/utils"
)

type AdminHandler struct {
	adminService *services.AdminService
	storeService *services.StoreService
}

func NewAdminHandler(adminService *services.AdminService, storeService *services.StoreService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		storeService: storeService,
	}
}

// GET /admin/dashboard
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	stats, err := h.adminService.GetDashboardStats(store.ID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"dashboard": stats})
}

// GET /admin/customers
func (h *AdminHandler) ListCustomers(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	searchParams := services.CustomerSearchParams{
		PaginationParams: params,
	}
	if status := c.Query("status"); status != "" {
		searchParams.Status = models.CustomerStatus(status)
	}

	customers, total, err := h.adminService.ListCustomers(store.ID, searchParams)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(customers, total, params)
	utils.PaginatedResponse(c, result)
}

// PUT /admin/customers/:id/status
func (h *AdminHandler) UpdateCustomerStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	adminID, ok := currentCustomerID(c)
	if !ok {
		return
	}
	customerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateCustomerStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	customer, err := h.adminService.UpdateCustomerStatus(store.ID, customerID, adminID, &req)
	if err != nil {
		respondServiceError(c, err, "customer")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyAdminActionSuccess),
		"customer": customer,
	})
}

// GET /admin/audit-logs
func (h *AdminHandler) ListAuditLogs(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	logs, total, err := h.adminService.ListAuditLogs(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(logs, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /admin/inventory/low-stock
func (h *AdminHandler) LowStockProducts(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	threshold, _ := strconv.Atoi(c.DefaultQuery("threshold", "5"))
	products, err := h.adminService.LowStockProducts(store.ID, threshold)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"products": products})
}
