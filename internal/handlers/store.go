// internal/handlers/store.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openmerce/storefront/internal/i18n"
	"github.com/openmerce/storefront/internal/services"
	"github.com/openmerce/storefront/internal/utils"
)

type StoreHandler struct {
	storeService *services.StoreService
}

func NewStoreHandler(storeService *services.StoreService) *StoreHandler {
	return &StoreHandler{storeService: storeService}
}

// GET /store
// Public storefront profile of the resolved store.
func (h *StoreHandler) GetStore(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	utils.SuccessResponse(c, gin.H{"store": store})
}

// GET /admin/stores
func (h *StoreHandler) ListStores(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	stores, total, err := h.storeService.ListStores(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(stores, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /admin/stores/:id
func (h *StoreHandler) GetStoreByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	store, err := h.storeService.GetStore(id)
	if err != nil {
		respondServiceError(c, err, "store")
		return
	}

	utils.SuccessResponse(c, gin.H{"store": store})
}

// POST /admin/stores
func (h *StoreHandler) CreateStore(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	store, err := h.storeService.CreateStore(&req)
	if err != nil {
		respondServiceError(c, err, "store")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyStoreCreated),
		"store":   store,
	})
}

// PUT /admin/stores/:id
func (h *StoreHandler) UpdateStore(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	store, err := h.storeService.UpdateStore(id, &req)
	if err != nil {
		respondServiceError(c, err, "store")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyStoreUpdated),
		"store":   store,
	})
}

// DELETE /admin/stores/:id
func (h *StoreHandler) DeleteStore(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.storeService.DeleteStore(id); err != nil {
		respondServiceError(c, err, "store")
		return
	}

	utils.SuccessResponse(c, gin.H{"message": i18n.T(lang, i18n.KeyStoreDeleted)})
}
