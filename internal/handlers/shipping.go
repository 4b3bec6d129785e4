// internal/handlers/shipping.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/openmerce/storefront/internal/i18n"
	"github.com/openmerce/storefront/internal/services"
	"github.com/openmerce/storefront/internal/utils"
)

type ShippingHandler struct {
	shippingService *services.ShippingService
	cartService     *services.CartService
	storeService    *services.StoreService
}

func NewShippingHandler(shippingService *services.ShippingService, cartService *services.CartService, storeService *services.StoreService) *ShippingHandler {
	return &ShippingHandler{
		shippingService: shippingService,
		cartService:     cartService,
		storeService:    storeService,
	}
}

// GET /shipping/quote?weight=1.25
// Quotes a raw weight against the store's tier table.
func (h *ShippingHandler) QuoteWeight(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	weight, err := strconv.ParseFloat(c.Query("weight"), 64)
	if err != nil || weight < 0 {
		utils.BadRequestResponse(c, "Invalid weight", nil)
		return
	}

	quote, err := services.SettingsForStore(store).Quote(weight, 0, store.Currency)
	if err != nil {
		respondServiceError(c, err, "order")
		return
	}

	utils.SuccessResponse(c, gin.H{"quote": quote})
}

// GET /carts/:code/shipping
// Quotes shipping for the cart's current contents.
func (h *ShippingHandler) QuoteCart(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	cart, err := h.cartService.GetCartByCode(store.ID, c.Param("code"))
	if err != nil {
		respondServiceError(c, err, "cart")
		return
	}

	quote, err := h.shippingService.QuoteCart(store, cart)
	if err != nil {
		respondServiceError(c, err, "order")
		return
	}

	utils.SuccessResponse(c, gin.H{"quote": quote})
}

// GET /admin/shipping/origin
func (h *ShippingHandler) GetOrigin(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	origin, err := h.shippingService.GetOrigin(store.ID)
	if err != nil {
		respondServiceError(c, err, "store")
		return
	}

	utils.SuccessResponse(c, gin.H{"origin": origin})
}

// PUT /admin/shipping/origin
func (h *ShippingHandler) SetOrigin(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	var req services.SetShippingOriginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	origin, err := h.shippingService.SetOrigin(store.ID, &req)
	if err != nil {
		respondServiceError(c, err, "store")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyStoreUpdated),
		"origin":  origin,
	})
}
