// internal/handlers/order.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/openmerce/storefront/internal/i18n"
	"github.com/openmerce/storefront/internal/models"
	"github.com/openmerce/storefront/internal/services"
	"github.com/openmerce/storefront/internal/utils"
)

type OrderHandler struct {
	orderService        *services.OrderService
	storeService        *services.StoreService
	authService         *services.AuthService
	notificationService *services.NotificationService
}

func NewOrderHandler(orderService *services.OrderService, storeService *services.StoreService, authService *services.AuthService, notificationService *services.NotificationService) *OrderHandler {
	return &OrderHandler{
		orderService:        orderService,
		storeService:        storeService,
		authService:         authService,
		notificationService: notificationService,
	}
}

// POST /checkout
func (h *OrderHandler) Checkout(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	customerID, ok := currentCustomerID(c)
	if !ok {
		return
	}

	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	order, err := h.orderService.Checkout(store, customerID, &req)
	if err != nil {
		respondServiceError(c, err, "order")
		return
	}

	go h.notifyOrder(store.ID, order, "")

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderPlaced),
		"order":   order,
	})
}

// GET /orders
// The authenticated customer's own orders.
func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	customerID, ok := currentCustomerID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	searchParams := services.OrderSearchParams{
		PaginationParams: params,
		CustomerID:       &customerID,
	}
	if status := c.Query("status"); status != "" {
		searchParams.Status = models.OrderStatus(status)
	}

	orders, total, err := h.orderService.ListOrders(store.ID, searchParams)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(orders, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	customerID, ok := currentCustomerID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(store.ID, id)
	if err != nil {
		respondServiceError(c, err, "order")
		return
	}

	// Customers only see their own orders; admins see everything.
	role, _ := utils.GetRoleFromContext(c)
	if order.CustomerID != customerID && role != "admin" {
		utils.NotFoundResponse(c, "order")
		return
	}

	utils.SuccessResponse(c, gin.H{"order": order})
}

// GET /orders/number/:number
func (h *OrderHandler) GetOrderByNumber(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	customerID, ok := currentCustomerID(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetOrderByNumber(store.ID, c.Param("number"))
	if err != nil {
		respondServiceError(c, err, "order")
		return
	}

	role, _ := utils.GetRoleFromContext(c)
	if order.CustomerID != customerID && role != "admin" {
		utils.NotFoundResponse(c, "order")
		return
	}

	utils.SuccessResponse(c, gin.H{"order": order})
}

// POST /orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	customerID, ok := currentCustomerID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.CancelOrder(store.ID, id, customerID)
	if err != nil {
		respondServiceError(c, err, "order")
		return
	}

	go h.notifyOrder(store.ID, order, models.OrderStatusCanceled)

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderCanceled),
		"order":   order,
	})
}

// GET /admin/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	searchParams := services.OrderSearchParams{
		PaginationParams: params,
	}
	if status := c.Query("status"); status != "" {
		searchParams.Status = models.OrderStatus(status)
	}
	if customerIDStr := c.Query("customer_id"); customerIDStr != "" {
		if customerID, err := uuid.Parse(customerIDStr); err == nil {
			searchParams.CustomerID = &customerID
		}
	}

	orders, total, err := h.orderService.ListOrders(store.ID, searchParams)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(orders, total, params)
	utils.PaginatedResponse(c, result)
}

// PUT /admin/orders/:id/status
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	adminID, ok := currentCustomerID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	order, err := h.orderService.UpdateStatus(store.ID, id, &adminID, &req)
	if err != nil {
		respondServiceError(c, err, "order")
		return
	}

	go h.notifyOrder(store.ID, order, req.Status)

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderStatusUpdated),
		"order":   order,
	})
}

// notifyOrder emails the order's customer. Empty status means a fresh order
// confirmation.
func (h *OrderHandler) notifyOrder(storeID uuid.UUID, order *models.Order, status models.OrderStatus) {
	customer, err := h.authService.GetCustomer(storeID, order.CustomerID)
	if err != nil {
		logrus.WithError(err).Warn("Failed to load customer for order notification")
		return
	}

	if status == "" {
		err = h.notificationService.SendOrderConfirmation(order, customer)
	} else {
		err = h.notificationService.SendOrderStatusUpdate(order, customer, status)
	}
	if err != nil {
		logrus.WithError(err).Warn("Failed to send order notification")
	}
}
