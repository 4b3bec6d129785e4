// internal/handlers/category.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openmerce/storefront/internal/i18n"
	"github.com/openmerce/storefront/internal/services"
	"github.com/openmerce/storefront/internal/utils"
)

type CategoryHandler struct {
	categoryService *services.CategoryService
	storeService    *services.StoreService
}

func NewCategoryHandler(categoryService *services.CategoryService, storeService *services.StoreService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		storeService:    storeService,
	}
}

// GET /categories
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	// Storefront callers only see visible categories; admins see all.
	visibleOnly := true
	if role, exists := utils.GetRoleFromContext(c); exists && role == "admin" {
		visibleOnly = false
	}

	categories, err := h.categoryService.ListCategories(store.ID, visibleOnly)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"categories": categories})
}

// GET /categories/:id
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	category, err := h.categoryService.GetCategory(store.ID, id)
	if err != nil {
		respondServiceError(c, err, "category")
		return
	}

	utils.SuccessResponse(c, gin.H{"category": category})
}

// GET /categories/:id/children
func (h *CategoryHandler) ListChildren(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	children, err := h.categoryService.ListChildren(store.ID, id)
	if err != nil {
		respondServiceError(c, err, "category")
		return
	}

	utils.SuccessResponse(c, gin.H{"categories": children})
}

// GET /categories/:id/descendants
func (h *CategoryHandler) ListDescendants(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	descendants, err := h.categoryService.ListDescendants(store.ID, id)
	if err != nil {
		respondServiceError(c, err, "category")
		return
	}

	utils.SuccessResponse(c, gin.H{"categories": descendants})
}

// POST /admin/categories
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	var req services.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	category, err := h.categoryService.CreateCategory(store.ID, &req)
	if err != nil {
		respondServiceError(c, err, "category")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyCategoryCreated),
		"category": category,
	})
}

// PUT /admin/categories/:id
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	category, err := h.categoryService.UpdateCategory(store.ID, id, &req)
	if err != nil {
		respondServiceError(c, err, "category")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyCategoryUpdated),
		"category": category,
	})
}

// PUT /admin/categories/:id/move
func (h *CategoryHandler) MoveCategory(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		ParentID *uuid.UUID `json:"parent_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	category, err := h.categoryService.MoveCategory(store.ID, id, req.ParentID)
	if err != nil {
		respondServiceError(c, err, "category")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyCategoryUpdated),
		"category": category,
	})
}

// DELETE /admin/categories/:id
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(store.ID, id); err != nil {
		respondServiceError(c, err, "category")
		return
	}

	utils.SuccessResponse(c, gin.H{"message": i18n.T(lang, i18n.KeyCategoryDeleted)})
}
