// internal/handlers/variation.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openmerce/storefront/internal/i18n"
	"github.com/openmerce/storefront/internal/services"
	"github.com/openmerce/storefront/internal/utils"
)

type VariationHandler struct {
	variationService *services.VariationService
	storeService     *services.StoreService
}

func NewVariationHandler(variationService *services.VariationService, storeService *services.StoreService) *VariationHandler {
	return &VariationHandler{
		variationService: variationService,
		storeService:     storeService,
	}
}

// GET /products/:id/variants
func (h *VariationHandler) ListVariants(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	variants, err := h.variationService.ListVariants(store.ID, productID)
	if err != nil {
		respondServiceError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{"variants": variants})
}

// Options

// GET /admin/options
func (h *VariationHandler) ListOptions(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	options, err := h.variationService.ListOptions(store.ID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"options": options})
}

// POST /admin/options
func (h *VariationHandler) CreateOption(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	var req services.CreateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	option, err := h.variationService.CreateOption(store.ID, &req)
	if err != nil {
		respondServiceError(c, err, "product")
		return
	}

	utils.CreatedResponse(c, gin.H{"option": option})
}

// DELETE /admin/options/:id
func (h *VariationHandler) DeleteOption(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.variationService.DeleteOption(store.ID, id); err != nil {
		respondServiceError(c, err, "product")
		return
	}

	c.Status(http.StatusNoContent)
}

// Option values

// GET /admin/option-values
func (h *VariationHandler) ListOptionValues(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	values, err := h.variationService.ListOptionValues(store.ID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"option_values": values})
}

// POST /admin/option-values
func (h *VariationHandler) CreateOptionValue(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	var req services.CreateOptionValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	value, err := h.variationService.CreateOptionValue(store.ID, &req)
	if err != nil {
		respondServiceError(c, err, "product")
		return
	}

	utils.CreatedResponse(c, gin.H{"option_value": value})
}

// DELETE /admin/option-values/:id
func (h *VariationHandler) DeleteOptionValue(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.variationService.DeleteOptionValue(store.ID, id); err != nil {
		respondServiceError(c, err, "product")
		return
	}

	c.Status(http.StatusNoContent)
}

// Variations

// GET /admin/variations
func (h *VariationHandler) ListVariations(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	variations, err := h.variationService.ListVariations(store.ID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"variations": variations})
}

// POST /admin/variations
func (h *VariationHandler) CreateVariation(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	var req services.CreateVariationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	variation, err := h.variationService.CreateVariation(store.ID, &req)
	if err != nil {
		respondServiceError(c, err, "product")
		return
	}

	utils.CreatedResponse(c, gin.H{"variation": variation})
}

// DELETE /admin/variations/:id
func (h *VariationHandler) DeleteVariation(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.variationService.DeleteVariation(store.ID, id); err != nil {
		respondServiceError(c, err, "product")
		return
	}

	c.Status(http.StatusNoContent)
}

// Variants

// POST /admin/products/:id/variants
func (h *VariationHandler) CreateVariant(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CreateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	variant, err := h.variationService.CreateVariant(store.ID, productID, &req)
	if err != nil {
		respondServiceError(c, err, "product")
		return
	}

	utils.CreatedResponse(c, gin.H{"variant": variant})
}

// PUT /admin/products/:id/variants/:variantId
func (h *VariationHandler) UpdateVariant(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	variantID, ok := parseIDParam(c, "variantId")
	if !ok {
		return
	}

	var req services.UpdateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	variant, err := h.variationService.UpdateVariant(store.ID, productID, variantID, &req)
	if err != nil {
		respondServiceError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{"variant": variant})
}

// DELETE /admin/products/:id/variants/:variantId
func (h *VariationHandler) DeleteVariant(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	variantID, ok := parseIDParam(c, "variantId")
	if !ok {
		return
	}

	if err := h.variationService.DeleteVariant(store.ID, productID, variantID); err != nil {
		respondServiceError(c, err, "product")
		return
	}

	c.Status(http.StatusNoContent)
}
