// internal/handlers/auth.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openmerce/storefront/internal/i18n"
	"github.com/openmerce/storefront/internal/services"
	"github.com/openmerce/storefront/internal/utils"
)

type AuthHandler struct {
	authService  *services.AuthService
	storeService *services.StoreService
	cartService  *services.CartService
}

func NewAuthHandler(authService *services.AuthService, storeService *services.StoreService, cartService *services.CartService) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		storeService: storeService,
		cartService:  cartService,
	}
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	resp, err := h.authService.Register(store, &req)
	if err != nil {
		respondServiceError(c, err, "customer")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAuthRegisterSuccess),
		"auth":    resp,
	})
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	resp, err := h.authService.Login(store, &req)
	if err != nil {
		respondServiceError(c, err, "customer")
		return
	}

	// Merge a pre-login anonymous cart into the customer's cart.
	if cartCode := c.Query("cart"); cartCode != "" {
		if _, err := h.cartService.AttachCustomer(store.ID, cartCode, resp.Customer.ID); err != nil {
			utils.SuccessResponse(c, gin.H{
				"message":      i18n.T(lang, i18n.KeyAuthLoginSuccess),
				"auth":         resp,
				"cart_warning": err.Error(),
			})
			return
		}
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAuthLoginSuccess),
		"auth":    resp,
	})
}

// POST /auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Refresh token is required", err.Error())
		return
	}

	resp, err := h.authService.RefreshToken(store, req.RefreshToken)
	if err != nil {
		respondServiceError(c, err, "customer")
		return
	}

	utils.SuccessResponse(c, gin.H{"auth": resp})
}

// GET /auth/profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	customerID, ok := currentCustomerID(c)
	if !ok {
		return
	}

	customer, err := h.authService.GetCustomer(store.ID, customerID)
	if err != nil {
		respondServiceError(c, err, "customer")
		return
	}

	utils.SuccessResponse(c, gin.H{"customer": customer})
}

// PUT /auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	customerID, ok := currentCustomerID(c)
	if !ok {
		return
	}

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	customer, err := h.authService.UpdateProfile(store.ID, customerID, &req)
	if err != nil {
		respondServiceError(c, err, "customer")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyCustomerProfileUpdated),
		"customer": customer,
	})
}

// PUT /auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	customerID, ok := currentCustomerID(c)
	if !ok {
		return
	}

	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if err := h.authService.ChangePassword(store.ID, customerID, &req); err != nil {
		respondServiceError(c, err, "customer")
		return
	}

	utils.SuccessResponse(c, gin.H{"message": i18n.T(lang, i18n.KeyAuthPasswordChanged)})
}

// POST /auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	var req services.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Email is required", err.Error())
		return
	}

	if err := h.authService.ForgotPassword(store, &req); err != nil {
		respondServiceError(c, err, "customer")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "If the email exists, a password reset link has been sent",
	})
}

// POST /auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	var req services.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if err := h.authService.ResetPassword(store, &req); err != nil {
		respondServiceError(c, err, "customer")
		return
	}

	utils.SuccessResponse(c, gin.H{"message": i18n.T(lang, i18n.KeyAuthPasswordChanged)})
}
