// internal/handlers/payment.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/openmerce/storefront/internal/i18n"
	"github.com/openmerce/storefront/internal/models"
	"github.com/openmerce/storefront/internal/services"
	"github.com/openmerce/storefront/internal/utils"
)

type PaymentHandler struct {
	paymentService      *services.PaymentService
	storeService        *services.StoreService
	authService         *services.AuthService
	orderService        *services.OrderService
	notificationService *services.NotificationService
}

func NewPaymentHandler(paymentService *services.PaymentService, storeService *services.StoreService, authService *services.AuthService, orderService *services.OrderService, notificationService *services.NotificationService) *PaymentHandler {
	return &PaymentHandler{
		paymentService:      paymentService,
		storeService:        storeService,
		authService:         authService,
		orderService:        orderService,
		notificationService: notificationService,
	}
}

// GET /payments/gateways
func (h *PaymentHandler) ListActiveGateways(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	gateways, err := h.paymentService.ActiveGateways(store.ID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"gateways": gateways})
}

// POST /payments/intent
func (h *PaymentHandler) CreatePaymentIntent(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	customerID, ok := currentCustomerID(c)
	if !ok {
		return
	}

	var req services.CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	resp, err := h.paymentService.CreatePaymentIntent(store.ID, customerID, &req)
	if err != nil {
		respondServiceError(c, err, "order")
		return
	}

	utils.CreatedResponse(c, gin.H{"payment": resp})
}

// POST /payments/confirm
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	var req services.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	order, err := h.paymentService.ConfirmPayment(store.ID, &req)
	if err != nil {
		respondServiceError(c, err, "order")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyPaymentSuccess),
		"order":   order,
	})
}

// GET /admin/orders/:id/transactions
func (h *PaymentHandler) ListTransactions(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	transactions, err := h.paymentService.ListTransactions(store.ID, orderID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"transactions": transactions})
}

// POST /admin/orders/:id/refund
func (h *PaymentHandler) RefundOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	adminID, ok := currentCustomerID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	transaction, err := h.paymentService.RefundOrder(store.ID, orderID, &adminID, &req)
	if err != nil {
		respondServiceError(c, err, "order")
		return
	}

	go h.notifyRefund(store, orderID, transaction.Amount, req.Reason)

	utils.SuccessResponse(c, gin.H{
		"message":     i18n.T(lang, i18n.KeyPaymentRefunded),
		"transaction": transaction,
	})
}

// GET /admin/payments/configurations
func (h *PaymentHandler) ListConfigurations(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	configs, err := h.paymentService.ListConfigurations(store.ID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"configurations": configs})
}

// PUT /admin/payments/configurations
func (h *PaymentHandler) UpsertConfiguration(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	var req services.UpsertPaymentConfigurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	conf, err := h.paymentService.UpsertConfiguration(store.ID, &req)
	if err != nil {
		respondServiceError(c, err, "store")
		return
	}

	utils.SuccessResponse(c, gin.H{"configuration": conf})
}

// DELETE /admin/payments/configurations/:gateway
func (h *PaymentHandler) DeleteConfiguration(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	if err := h.paymentService.DeleteConfiguration(store.ID, c.Param("gateway")); err != nil {
		respondServiceError(c, err, "store")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *PaymentHandler) notifyRefund(store *models.MerchantStore, orderID uuid.UUID, amount float64, reason string) {
	order, err := h.orderService.GetOrder(store.ID, orderID)
	if err != nil {
		logrus.WithError(err).Warn("Failed to load order for refund notification")
		return
	}
	customer, err := h.authService.GetCustomer(store.ID, order.CustomerID)
	if err != nil {
		logrus.WithError(err).Warn("Failed to load customer for refund notification")
		return
	}
	if err := h.notificationService.SendRefundNotification(order, customer, amount, reason); err != nil {
		logrus.WithError(err).Warn("Failed to send refund notification")
	}
}
