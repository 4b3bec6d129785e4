// internal/handlers/product.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openmerce/storefront/internal/cms"
	"github.com/openmerce/storefront/internal/i18n"
	"github.com/openmerce/storefront/internal/services"
	"github.com/openmerce/storefront/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
	contentService *services.ContentService
	storeService   *services.StoreService
}

func NewProductHandler(productService *services.ProductService, contentService *services.ContentService, storeService *services.StoreService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		contentService: contentService,
		storeService:   storeService,
	}
}

// GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	searchParams := services.ProductSearchParams{
		PaginationParams: params,
	}

	if categoryIDStr := c.Query("category_id"); categoryIDStr != "" {
		if categoryID, err := uuid.Parse(categoryIDStr); err == nil {
			searchParams.CategoryID = &categoryID
		}
	}

	if priceMinStr := c.Query("price_min"); priceMinStr != "" {
		if priceMin, err := strconv.ParseFloat(priceMinStr, 64); err == nil {
			searchParams.PriceMin = &priceMin
		}
	}

	if priceMaxStr := c.Query("price_max"); priceMaxStr != "" {
		if priceMax, err := strconv.ParseFloat(priceMaxStr, 64); err == nil {
			searchParams.PriceMax = &priceMax
		}
	}

	if tags := c.Query("tags"); tags != "" {
		searchParams.Tags = strings.Split(tags, ",")
	}

	if inStockStr := c.Query("in_stock"); inStockStr != "" {
		if inStock, err := strconv.ParseBool(inStockStr); err == nil {
			searchParams.InStock = &inStock
		}
	}

	if role, exists := utils.GetRoleFromContext(c); exists && role == "admin" {
		searchParams.IncludeHidden = c.Query("include_hidden") == "true"
	}

	products, total, err := h.productService.SearchProducts(store.ID, searchParams)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(products, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(store.ID, id, true)
	if err != nil {
		respondServiceError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{"product": product})
}

// GET /products/sku/:sku
func (h *ProductHandler) GetProductBySKU(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	product, err := h.productService.GetProductBySKU(store.ID, c.Param("sku"))
	if err != nil {
		respondServiceError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{"product": product})
}

// GET /products/popular
func (h *ProductHandler) GetPopularProducts(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	products, err := h.productService.GetPopularProducts(store.ID, limit)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"products": products})
}

// GET /products/featured
func (h *ProductHandler) GetFeaturedProducts(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	products, err := h.productService.GetFeaturedProducts(store.ID, limit)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"products": products})
}

// POST /admin/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	product, err := h.productService.CreateProduct(store.ID, &req)
	if err != nil {
		respondServiceError(c, err, "product")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductCreated),
		"product": product,
	})
}

// PUT /admin/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	product, err := h.productService.UpdateProduct(store.ID, id, &req)
	if err != nil {
		respondServiceError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductUpdated),
		"product": product,
	})
}

// DELETE /admin/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(store.ID, id); err != nil {
		respondServiceError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{"message": i18n.T(lang, i18n.KeyProductDeleted)})
}

// POST /admin/products/:id/images
// Multipart upload; the file lands in the CMS and a ProductImage row records
// its URL.
func (h *ProductHandler) UploadImage(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	defer file.Close()

	info, err := h.contentService.AddFile(store.Code, cms.FileTypeImage, cms.UniqueName(fileHeader.Filename),
		file, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		respondServiceError(c, err, "product")
		return
	}

	image, err := h.productService.AddImage(store.ID, id, info.Name, info.URL, info.ContentType)
	if err != nil {
		respondServiceError(c, err, "product")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFileUploadSuccess),
		"image":   image,
	})
}

// DELETE /admin/products/:id/images/:imageId
func (h *ProductHandler) DeleteImage(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	imageID, ok := parseIDParam(c, "imageId")
	if !ok {
		return
	}

	image, err := h.productService.RemoveImage(store.ID, id, imageID)
	if err != nil {
		respondServiceError(c, err, "product")
		return
	}

	// Best effort; the DB row is already gone.
	_ = h.contentService.RemoveFile(store.Code, cms.FileTypeImage, image.Name)

	c.Status(http.StatusNoContent)
}

// GET /admin/products/:id/statistics
func (h *ProductHandler) GetProductStatistics(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	stats, err := h.productService.GetProductStatistics(store.ID, id)
	if err != nil {
		respondServiceError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{"statistics": stats})
}
