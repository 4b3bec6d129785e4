// internal/services/content_service.go
package services

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openmerce/storefront/internal/cms"
	"github.com/openmerce/storefront/internal/models"
	"github.com/openmerce/storefront/internal/utils"
)

// ContentService manages CMS pages and boxes, and delegates static assets to
// the configured cms.FileManager.
type ContentService struct {
	db    *gorm.DB
	files cms.FileManager
}

type CreateContentRequest struct {
	Code        string             `json:"code" validate:"required,store_code"`
	Language    string             `json:"language,omitempty" validate:"omitempty,len=2"`
	ContentType models.ContentType `json:"content_type,omitempty"`
	Title       string             `json:"title" validate:"required,max=255"`
	Body        string             `json:"body,omitempty"`
	Visible     bool               `json:"visible"`
	SortOrder   int                `json:"sort_order,omitempty"`
}

type UpdateContentRequest struct {
	Title     *string `json:"title,omitempty" validate:"omitempty,max=255"`
	Body      *string `json:"body,omitempty"`
	Visible   *bool   `json:"visible,omitempty"`
	SortOrder *int    `json:"sort_order,omitempty"`
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases a title and collapses everything else into hyphens.
func Slugify(title string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

func NewContentService(db *gorm.DB, files cms.FileManager) *ContentService {
	return &ContentService{db: db, files: files}
}

// Pages and boxes

func (s *ContentService) CreateContent(storeID uuid.UUID, req *CreateContentRequest) (*models.Content, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	language := req.Language
	if language == "" {
		language = "en"
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = models.ContentTypePage
	}

	var count int64
	if err := s.db.Model(&models.Content{}).
		Where("store_id = ? AND code = ? AND language = ?", storeID, req.Code, language).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("content %s (%s): %w", req.Code, language, ErrConflict)
	}

	content := &models.Content{
		StoreID:     storeID,
		Code:        req.Code,
		Language:    language,
		ContentType: contentType,
		Slug:        Slugify(req.Title),
		Title:       req.Title,
		Body:        req.Body,
		Visible:     req.Visible,
		SortOrder:   req.SortOrder,
	}

	if err := s.db.Create(content).Error; err != nil {
		return nil, fmt.Errorf("failed to create content: %w", err)
	}
	return content, nil
}

// GetContent resolves a content entry by code, falling back to English when
// the requested language has no entry.
func (s *ContentService) GetContent(storeID uuid.UUID, code, language string, visibleOnly bool) (*models.Content, error) {
	content, err := s.findContent(storeID, code, language, visibleOnly)
	if err != nil && errors.Is(err, ErrNotFound) && language != "en" {
		content, err = s.findContent(storeID, code, "en", visibleOnly)
	}
	return content, err
}

func (s *ContentService) findContent(storeID uuid.UUID, code, language string, visibleOnly bool) (*models.Content, error) {
	// Pages are addressable by their stable code or their display slug.
	query := s.db.Where("store_id = ? AND (code = ? OR slug = ?) AND language = ?", storeID, code, code, language)
	if visibleOnly {
		query = query.Where("visible = ?", true)
	}

	var content models.Content
	if err := query.First(&content).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("content %s (%s): %w", code, language, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &content, nil
}

// ListContents returns content entries for a store, optionally narrowed by
// type and language. Storefront callers pass visibleOnly.
func (s *ContentService) ListContents(storeID uuid.UUID, contentType models.ContentType, language string, visibleOnly bool) ([]models.Content, error) {
	query := s.db.Where("store_id = ?", storeID)
	if contentType != "" {
		query = query.Where("content_type = ?", contentType)
	}
	if language != "" {
		query = query.Where("language = ?", language)
	}
	if visibleOnly {
		query = query.Where("visible = ?", true)
	}

	var contents []models.Content
	if err := query.Order("sort_order ASC, code ASC").Find(&contents).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch contents: %w", err)
	}
	return contents, nil
}

func (s *ContentService) UpdateContent(storeID, id uuid.UUID, req *UpdateContentRequest) (*models.Content, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var content models.Content
	if err := s.db.Where("store_id = ?", storeID).First(&content, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("content %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
		updates["slug"] = Slugify(*req.Title)
	}
	if req.Body != nil {
		updates["body"] = *req.Body
	}
	if req.Visible != nil {
		updates["visible"] = *req.Visible
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}

	if err := s.db.Model(&content).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update content: %w", err)
	}

	s.db.First(&content, id)
	return &content, nil
}

func (s *ContentService) DeleteContent(storeID, id uuid.UUID) error {
	result := s.db.Where("store_id = ?", storeID).Delete(&models.Content{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete content: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("content %s: %w", id, ErrNotFound)
	}
	return nil
}

// Static assets

// AddFile validates and streams an upload into the store's asset folder.
// Image uploads are additionally sniffed for a real image signature.
func (s *ContentService) AddFile(storeCode, fileType, name string, body io.Reader, size int64, contentType string) (*cms.FileInfo, error) {
	if err := cms.ValidateUpload(fileType, name, size); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), ErrInvalidState)
	}

	if fileType == cms.FileTypeImage {
		head := make([]byte, 12)
		n, err := io.ReadFull(body, head)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("failed to read upload: %w", err)
		}
		if !cms.IsImageData(head[:n]) {
			return nil, fmt.Errorf("file is not a valid image: %w", ErrInvalidState)
		}
		body = io.MultiReader(strings.NewReader(string(head[:n])), body)
	}

	info, err := s.files.Add(storeCode, fileType, name, body, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}
	return info, nil
}

func (s *ContentService) GetFile(storeCode, fileType, name string) (io.ReadCloser, *cms.FileInfo, error) {
	return s.files.Get(storeCode, fileType, name)
}

func (s *ContentService) ListFiles(storeCode, fileType string) ([]cms.FileInfo, error) {
	return s.files.List(storeCode, fileType)
}

func (s *ContentService) RemoveFile(storeCode, fileType, name string) error {
	return s.files.Remove(storeCode, fileType, name)
}

// RemoveFolder deletes every asset of a store/type pair.
func (s *ContentService) RemoveFolder(storeCode, fileType string) error {
	return s.files.RemoveFolder(storeCode, fileType)
}

func (s *ContentService) FileURL(storeCode, fileType, name string) string {
	return s.files.URL(storeCode, fileType, name)
}

// PresignFile returns a time limited download URL for a stored asset.
func (s *ContentService) PresignFile(storeCode, fileType, name string, expiration time.Duration) (string, error) {
	url, err := s.files.PresignGet(storeCode, fileType, name, expiration)
	if err != nil {
		return "", fmt.Errorf("failed to presign file: %w", err)
	}
	return url, nil
}
