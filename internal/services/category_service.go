// internal/services/category_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openmerce/storefront/internal/models"
	"github.com/openmerce/storefront/internal/utils"
)

type CategoryService struct {
	db *gorm.DB
}

type CreateCategoryRequest struct {
	Code        string     `json:"code" validate:"required,store_code"`
	Name        string     `json:"name" validate:"required,min=2,max=120"`
	Description string     `json:"description,omitempty"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	Visible     *bool      `json:"visible,omitempty"`
	SortOrder   int        `json:"sort_order,omitempty"`
}

type UpdateCategoryRequest struct {
	Name        string `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Description string `json:"description,omitempty"`
	Visible     *bool  `json:"visible,omitempty"`
	SortOrder   *int   `json:"sort_order,omitempty"`
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func (s *CategoryService) CreateCategory(storeID uuid.UUID, req *CreateCategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("store_id = ? AND code = ?", storeID, req.Code).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("category code %s: %w", req.Code, ErrConflict)
	}

	category := &models.Category{
		StoreID:     storeID,
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		Lineage:     "/",
		Visible:     true,
		SortOrder:   req.SortOrder,
	}
	if req.Visible != nil {
		category.Visible = *req.Visible
	}

	if req.ParentID != nil {
		parent, err := s.GetCategory(storeID, *req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("parent category: %w", err)
		}
		category.Lineage = parent.Lineage + parent.ID.String() + "/"
		category.Depth = parent.Depth + 1
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

func (s *CategoryService) GetCategory(storeID, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("store_id = ?", storeID).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &category, nil
}

func (s *CategoryService) GetCategoryByCode(storeID uuid.UUID, code string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("store_id = ? AND code = ?", storeID, code).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %s: %w", code, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &category, nil
}

// ListCategories returns the store's categories ordered for tree display.
func (s *CategoryService) ListCategories(storeID uuid.UUID, visibleOnly bool) ([]models.Category, error) {
	query := s.db.Where("store_id = ?", storeID)
	if visibleOnly {
		query = query.Where("visible = ?", true)
	}

	var categories []models.Category
	if err := query.Order("lineage ASC, sort_order ASC, name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

// ListDescendants selects the whole subtree of a category with one lineage
// prefix match.
func (s *CategoryService) ListDescendants(storeID, id uuid.UUID) ([]models.Category, error) {
	category, err := s.GetCategory(storeID, id)
	if err != nil {
		return nil, err
	}

	prefix := category.Lineage + category.ID.String() + "/"

	var categories []models.Category
	if err := s.db.Where("store_id = ? AND lineage LIKE ?", storeID, prefix+"%").
		Order("lineage ASC, sort_order ASC").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch descendants: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) ListChildren(storeID, id uuid.UUID) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Where("store_id = ? AND parent_id = ?", storeID, id).
		Order("sort_order ASC, name ASC").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch children: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) UpdateCategory(storeID, id uuid.UUID, req *UpdateCategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	category, err := s.GetCategory(storeID, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Visible != nil {
		updates["visible"] = *req.Visible
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}

	if err := s.db.Model(category).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return s.GetCategory(storeID, id)
}

// MoveCategory reparents a subtree and rewrites the lineage of every
// descendant inside one transaction.
func (s *CategoryService) MoveCategory(storeID, id uuid.UUID, newParentID *uuid.UUID) (*models.Category, error) {
	category, err := s.GetCategory(storeID, id)
	if err != nil {
		return nil, err
	}

	newLineage := "/"
	newDepth := 0

	if newParentID != nil {
		if *newParentID == id {
			return nil, fmt.Errorf("category cannot be its own parent: %w", ErrInvalidState)
		}
		parent, err := s.GetCategory(storeID, *newParentID)
		if err != nil {
			return nil, fmt.Errorf("new parent: %w", err)
		}
		// Reject moves into the category's own subtree
		ownPrefix := category.Lineage + category.ID.String() + "/"
		if strings.HasPrefix(parent.Lineage+parent.ID.String()+"/", ownPrefix) {
			return nil, fmt.Errorf("cannot move a category under its own descendant: %w", ErrInvalidState)
		}
		newLineage = parent.Lineage + parent.ID.String() + "/"
		newDepth = parent.Depth + 1
	}

	oldPrefix := category.Lineage + category.ID.String() + "/"
	newPrefix := newLineage + category.ID.String() + "/"
	depthDelta := newDepth - category.Depth

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Category{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"parent_id": newParentID,
				"lineage":   newLineage,
				"depth":     newDepth,
			}).Error; err != nil {
			return fmt.Errorf("failed to move category: %w", err)
		}

		if err := tx.Model(&models.Category{}).
			Where("store_id = ? AND lineage LIKE ?", storeID, oldPrefix+"%").
			Updates(map[string]interface{}{
				"lineage": gorm.Expr("REPLACE(lineage, ?, ?)", oldPrefix, newPrefix),
				"depth":   gorm.Expr("depth + ?", depthDelta),
			}).Error; err != nil {
			return fmt.Errorf("failed to move descendants: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetCategory(storeID, id)
}

// DeleteCategory removes a leaf category. Products keep existing but lose
// the category reference.
func (s *CategoryService) DeleteCategory(storeID, id uuid.UUID) error {
	category, err := s.GetCategory(storeID, id)
	if err != nil {
		return err
	}

	var childCount int64
	if err := s.db.Model(&models.Category{}).Where("parent_id = ?", id).Count(&childCount).Error; err != nil {
		return fmt.Errorf("failed to check children: %w", err)
	}
	if childCount > 0 {
		return fmt.Errorf("category has %d children: %w", childCount, ErrInvalidState)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach products: %w", err)
		}

		if err := tx.Delete(category).Error; err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return nil
	})
}
