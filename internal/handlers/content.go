// internal/handlers/content.go
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openmerce/storefront/internal/cms"
	"github.com/openmerce/storefront/internal/i18n"
	"github.com/openmerce/storefront/internal/models"
	"github.com/openmerce/storefront/internal/services"
	"github.com/openmerce/storefront/internal/utils"
)

type ContentHandler struct {
	contentService *services.ContentService
	storeService   *services.StoreService
}

func NewContentHandler(contentService *services.ContentService, storeService *services.StoreService) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
		storeService:   storeService,
	}
}

// fileTypeParam maps the :type path segment to a CMS folder, rejecting
// anything else.
func fileTypeParam(c *gin.Context) (string, bool) {
	switch c.Param("type") {
	case "images":
		return cms.FileTypeImage, true
	case "files":
		return cms.FileTypeStatic, true
	default:
		utils.BadRequestResponse(c, "Invalid file type", nil)
		return "", false
	}
}

// GET /content/pages
func (h *ContentHandler) ListPages(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	lang := utils.GetLangFromContext(c)
	pages, err := h.contentService.ListContents(store.ID, models.ContentTypePage, lang, true)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"pages": pages})
}

// GET /content/boxes
func (h *ContentHandler) ListBoxes(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	lang := utils.GetLangFromContext(c)
	boxes, err := h.contentService.ListContents(store.ID, models.ContentTypeBox, lang, true)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"boxes": boxes})
}

// GET /content/pages/:code
func (h *ContentHandler) GetPage(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	lang := utils.GetLangFromContext(c)
	page, err := h.contentService.GetContent(store.ID, c.Param("code"), lang, true)
	if err != nil {
		respondServiceError(c, err, "content")
		return
	}

	utils.SuccessResponse(c, gin.H{"page": page})
}

// GET /admin/content
func (h *ContentHandler) ListContents(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	contentType := models.ContentType(c.Query("type"))
	language := c.Query("language")

	contents, err := h.contentService.ListContents(store.ID, contentType, language, false)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"contents": contents})
}

// POST /admin/content
func (h *ContentHandler) CreateContent(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}

	var req services.CreateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	content, err := h.contentService.CreateContent(store.ID, &req)
	if err != nil {
		respondServiceError(c, err, "content")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyContentCreated),
		"content": content,
	})
}

// PUT /admin/content/:id
func (h *ContentHandler) UpdateContent(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	content, err := h.contentService.UpdateContent(store.ID, id, &req)
	if err != nil {
		respondServiceError(c, err, "content")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyContentUpdated),
		"content": content,
	})
}

// DELETE /admin/content/:id
func (h *ContentHandler) DeleteContent(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.contentService.DeleteContent(store.ID, id); err != nil {
		respondServiceError(c, err, "content")
		return
	}

	utils.SuccessResponse(c, gin.H{"message": i18n.T(lang, i18n.KeyContentDeleted)})
}

// Static assets

// GET /admin/files/:type
func (h *ContentHandler) ListFiles(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	fileType, ok := fileTypeParam(c)
	if !ok {
		return
	}

	files, err := h.contentService.ListFiles(store.Code, fileType)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"files": files})
}

// POST /admin/files/:type
func (h *ContentHandler) UploadFile(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	fileType, ok := fileTypeParam(c)
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

	info, err := h.contentService.AddFile(store.Code, fileType, cms.UniqueName(fileHeader.Filename),
		file, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		respondServiceError(c, err, "content")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFileUploadSuccess),
		"file":    info,
	})
}

// GET /admin/files/:type/:name/url
func (h *ContentHandler) GetFileURL(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	fileType, ok := fileTypeParam(c)
	if !ok {
		return
	}

	expiry := 15 * time.Minute
	if minutes, err := strconv.Atoi(c.Query("expires_in")); err == nil && minutes > 0 && minutes <= 1440 {
		expiry = time.Duration(minutes) * time.Minute
	}

	url, err := h.contentService.PresignFile(store.Code, fileType, c.Param("name"), expiry)
	if err != nil {
		respondServiceError(c, err, "content")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"url":        url,
		"expires_in": int(expiry.Seconds()),
	})
}

// DELETE /admin/files/:type/:name
func (h *ContentHandler) DeleteFile(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	fileType, ok := fileTypeParam(c)
	if !ok {
		return
	}

	if err := h.contentService.RemoveFile(store.Code, fileType, c.Param("name")); err != nil {
		respondServiceError(c, err, "content")
		return
	}

	c.Status(http.StatusNoContent)
}

// DELETE /admin/files/:type
func (h *ContentHandler) DeleteFolder(c *gin.Context) {
	store, ok := resolveStore(c, h.storeService)
	if !ok {
		return
	}
	fileType, ok := fileTypeParam(c)
	if !ok {
		return
	}

	if err := h.contentService.RemoveFolder(store.Code, fileType); err != nil {
		respondServiceError(c, err, "content")
		return
	}

	c.Status(http.StatusNoContent)
}
