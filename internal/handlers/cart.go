// internal/handlers/cart.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openmerce/storefront/internal/i18n"
	"github.com/openmerce/storefront/internal/services"
	"github.com/openmerce/storefront/internal/utils"
)

type CartHandler struct {
	cartService  *services.CartService
	storeService *services.StoreService
}

func NewCartHandler(cartService *services.CartService, storeService *services.StoreService) *CartHandler {
	return &CartHandler{
		cartService:  cartService,
		storeService: storeService,
	}
}

// POST /carts
// Anyone can open a cart; a logged-in customer gets it bound to them.
func (h *CartHandler) CreateCart(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	var customerID *uuid.UUID
	if idStr, exists := utils.GetCustomerIDFromContext(c); exists {
		if id, err := uuid.Parse(idStr); err == nil {
			customerID = &id
		}
	}

	cart, err := h.cartService.CreateCart(store.ID, customerID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.CreatedResponse(c, gin.H{"cart": cart})
}

// GET /carts/:code
func (h *CartHandler) GetCart(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	cart, err := h.cartService.GetCartByCode(store.ID, c.Param("code"))
	if err != nil {
		respondServiceError(c, err, "cart")
		return
	}

	utils.SuccessResponse(c, gin.H{"cart": cart})
}

// POST /carts/:code/items
func (h *CartHandler) AddItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	var req services.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	cart, err := h.cartService.AddItem(store.ID, c.Param("code"), &req)
	if err != nil {
		respondServiceError(c, err, "cart")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCartItemAdded),
		"cart":    cart,
	})
}

// PUT /carts/:code/items/:itemId
func (h *CartHandler) UpdateItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}

	var req services.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	cart, err := h.cartService.UpdateItem(store.ID, c.Param("code"), itemID, &req)
	if err != nil {
		respondServiceError(c, err, "cart")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCartUpdated),
		"cart":    cart,
	})
}

// DELETE /carts/:code/items/:itemId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}

	cart, err := h.cartService.RemoveItem(store.ID, c.Param("code"), itemID)
	if err != nil {
		respondServiceError(c, err, "cart")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCartItemRemoved),
		"cart":    cart,
	})
}

// POST /carts/:code/attach
// Binds an anonymous cart to the authenticated customer, merging any
// previous cart of theirs.
func (h *CartHandler) AttachCustomer(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	customerID, ok := currentCustomerID(c)
	if !ok {
		return
	}

	cart, err := h.cartService.AttachCustomer(store.ID, c.Param("code"), customerID)
	if err != nil {
		respondServiceError(c, err, "cart")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCartUpdated),
		"cart":    cart,
	})
}
