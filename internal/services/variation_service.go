// internal/services/variation_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openmerce/storefront/internal/models"
	"github.com/openmerce/storefront/internal/utils"
)

// VariationService manages product options, option values, variations, and
// per-product variants.
type VariationService struct {
	db *gorm.DB
}

type CreateOptionRequest struct {
	Code string            `json:"code" validate:"required,store_code"`
	Name string            `json:"name" validate:"required,min=1,max=120"`
	Type models.OptionType `json:"type,omitempty"`
}

type CreateOptionValueRequest struct {
	Code string `json:"code" validate:"required,store_code"`
	Name string `json:"name" validate:"required,min=1,max=120"`
}

type CreateVariationRequest struct {
	Code          string    `json:"code" validate:"required,store_code"`
	OptionID      uuid.UUID `json:"option_id" validate:"required"`
	OptionValueID uuid.UUID `json:"option_value_id" validate:"required"`
	SortOrder     int       `json:"sort_order,omitempty"`
}

type CreateVariantRequest struct {
	VariationID   uuid.UUID  `json:"variation_id" validate:"required"`
	SKU           string     `json:"sku" validate:"required,sku"`
	Available     bool       `json:"available"`
	Quantity      int        `json:"quantity" validate:"min=0"`
	DateAvailable *time.Time `json:"date_available,omitempty"`
	SortOrder     int        `json:"sort_order,omitempty"`
}

type UpdateVariantRequest struct {
	Available     *bool      `json:"available,omitempty"`
	Quantity      *int       `json:"quantity,omitempty" validate:"omitempty,min=0"`
	DateAvailable *time.Time `json:"date_available,omitempty"`
	SortOrder     *int       `json:"sort_order,omitempty"`
}

func NewVariationService(db *gorm.DB) *VariationService {
	return &VariationService{db: db}
}

// Options

func (s *VariationService) CreateOption(storeID uuid.UUID, req *CreateOptionRequest) (*models.ProductOption, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var count int64
	if err := s.db.Model(&models.ProductOption{}).
		Where("store_id = ? AND code = ?", storeID, req.Code).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("option code %s: %w", req.Code, ErrConflict)
	}

	option := &models.ProductOption{
		StoreID: storeID,
		Code:    req.Code,
		Name:    req.Name,
		Type:    models.OptionTypeSelect,
	}
	if req.Type != "" {
		option.Type = req.Type
	}

	if err := s.db.Create(option).Error; err != nil {
		return nil, fmt.Errorf("failed to create option: %w", err)
	}
	return option, nil
}

func (s *VariationService) ListOptions(storeID uuid.UUID) ([]models.ProductOption, error) {
	var options []models.ProductOption
	if err := s.db.Where("store_id = ?", storeID).Order("code ASC").Find(&options).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch options: %w", err)
	}
	return options, nil
}

// DeleteOption refuses while any variation references the option.
func (s *VariationService) DeleteOption(storeID, id uuid.UUID) error {
	var option models.ProductOption
	if err := s.db.Where("store_id = ?", storeID).First(&option, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("option %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("database error: %w", err)
	}

	var inUse int64
	if err := s.db.Model(&models.ProductVariation{}).Where("option_id = ?", id).Count(&inUse).Error; err != nil {
		return fmt.Errorf("failed to check variations: %w", err)
	}
	if inUse > 0 {
		return fmt.Errorf("option is used by %d variations: %w", inUse, ErrInvalidState)
	}

	if err := s.db.Delete(&option).Error; err != nil {
		return fmt.Errorf("failed to delete option: %w", err)
	}
	return nil
}

// Option values

func (s *VariationService) CreateOptionValue(storeID uuid.UUID, req *CreateOptionValueRequest) (*models.ProductOptionValue, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var count int64
	if err := s.db.Model(&models.ProductOptionValue{}).
		Where("store_id = ? AND code = ?", storeID, req.Code).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("option value code %s: %w", req.Code, ErrConflict)
	}

	value := &models.ProductOptionValue{
		StoreID: storeID,
		Code:    req.Code,
		Name:    req.Name,
	}

	if err := s.db.Create(value).Error; err != nil {
		return nil, fmt.Errorf("failed to create option value: %w", err)
	}
	return value, nil
}

func (s *VariationService) ListOptionValues(storeID uuid.UUID) ([]models.ProductOptionValue, error) {
	var values []models.ProductOptionValue
	if err := s.db.Where("store_id = ?", storeID).Order("code ASC").Find(&values).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch option values: %w", err)
	}
	return values, nil
}

func (s *VariationService) DeleteOptionValue(storeID, id uuid.UUID) error {
	var value models.ProductOptionValue
	if err := s.db.Where("store_id = ?", storeID).First(&value, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("option value %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("database error: %w", err)
	}

	var inUse int64
	if err := s.db.Model(&models.ProductVariation{}).Where("option_value_id = ?", id).Count(&inUse).Error; err != nil {
		return fmt.Errorf("failed to check variations: %w", err)
	}
	if inUse > 0 {
		return fmt.Errorf("option value is used by %d variations: %w", inUse, ErrInvalidState)
	}

	if err := s.db.Delete(&value).Error; err != nil {
		return fmt.Errorf("failed to delete option value: %w", err)
	}
	return nil
}

// Variations

func (s *VariationService) CreateVariation(storeID uuid.UUID, req *CreateVariationRequest) (*models.ProductVariation, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var option models.ProductOption
	if err := s.db.Where("store_id = ?", storeID).First(&option, req.OptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("option %s: %w", req.OptionID, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var value models.ProductOptionValue
	if err := s.db.Where("store_id = ?", storeID).First(&value, req.OptionValueID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("option value %s: %w", req.OptionValueID, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var count int64
	if err := s.db.Model(&models.ProductVariation{}).
		Where("store_id = ? AND code = ?", storeID, req.Code).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("variation code %s: %w", req.Code, ErrConflict)
	}

	variation := &models.ProductVariation{
		StoreID:       storeID,
		Code:          req.Code,
		OptionID:      req.OptionID,
		OptionValueID: req.OptionValueID,
		SortOrder:     req.SortOrder,
	}

	if err := s.db.Create(variation).Error; err != nil {
		return nil, fmt.Errorf("failed to create variation: %w", err)
	}

	s.db.Preload("Option").Preload("OptionValue").First(variation, variation.ID)
	return variation, nil
}

func (s *VariationService) ListVariations(storeID uuid.UUID) ([]models.ProductVariation, error) {
	var variations []models.ProductVariation
	if err := s.db.Where("store_id = ?", storeID).
		Preload("Option").Preload("OptionValue").
		Order("sort_order ASC, code ASC").
		Find(&variations).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch variations: %w", err)
	}
	return variations, nil
}

func (s *VariationService) DeleteVariation(storeID, id uuid.UUID) error {
	var variation models.ProductVariation
	if err := s.db.Where("store_id = ?", storeID).First(&variation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("variation %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("database error: %w", err)
	}

	var inUse int64
	if err := s.db.Model(&models.ProductVariant{}).Where("variation_id = ?", id).Count(&inUse).Error; err != nil {
		return fmt.Errorf("failed to check variants: %w", err)
	}
	if inUse > 0 {
		return fmt.Errorf("variation is used by %d variants: %w", inUse, ErrInvalidState)
	}

	if err := s.db.Delete(&variation).Error; err != nil {
		return fmt.Errorf("failed to delete variation: %w", err)
	}
	return nil
}

// Variants

func (s *VariationService) CreateVariant(storeID, productID uuid.UUID, req *CreateVariantRequest) (*models.ProductVariant, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.Where("store_id = ?", storeID).First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var variation models.ProductVariation
	if err := s.db.Where("store_id = ?", storeID).First(&variation, req.VariationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("variation %s: %w", req.VariationID, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var count int64
	if err := s.db.Model(&models.ProductVariant{}).
		Where("product_id = ? AND variation_id = ?", productID, req.VariationID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("variant for variation %s: %w", variation.Code, ErrConflict)
	}

	variant := &models.ProductVariant{
		ProductID:     productID,
		VariationID:   req.VariationID,
		SKU:           req.SKU,
		Available:     req.Available,
		Quantity:      req.Quantity,
		DateAvailable: req.DateAvailable,
		SortOrder:     req.SortOrder,
	}

	if err := s.db.Create(variant).Error; err != nil {
		return nil, fmt.Errorf("failed to create variant: %w", err)
	}

	s.db.Preload("Variation").Preload("Variation.Option").Preload("Variation.OptionValue").
		First(variant, variant.ID)
	return variant, nil
}

func (s *VariationService) ListVariants(storeID, productID uuid.UUID) ([]models.ProductVariant, error) {
	var product models.Product
	if err := s.db.Where("store_id = ?", storeID).First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var variants []models.ProductVariant
	if err := s.db.Where("product_id = ?", productID).
		Preload("Variation").Preload("Variation.Option").Preload("Variation.OptionValue").
		Order("sort_order ASC").
		Find(&variants).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch variants: %w", err)
	}
	return variants, nil
}

func (s *VariationService) UpdateVariant(storeID, productID, variantID uuid.UUID, req *UpdateVariantRequest) (*models.ProductVariant, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	variant, err := s.getVariant(storeID, productID, variantID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Available != nil {
		updates["available"] = *req.Available
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}
	if req.DateAvailable != nil {
		updates["date_available"] = *req.DateAvailable
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}

	if err := s.db.Model(variant).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update variant: %w", err)
	}

	return s.getVariant(storeID, productID, variantID)
}

func (s *VariationService) DeleteVariant(storeID, productID, variantID uuid.UUID) error {
	variant, err := s.getVariant(storeID, productID, variantID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(variant).Error; err != nil {
		return fmt.Errorf("failed to delete variant: %w", err)
	}
	return nil
}

func (s *VariationService) getVariant(storeID, productID, variantID uuid.UUID) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := s.db.
		Joins("JOIN products ON products.id = product_variants.product_id").
		Where("products.store_id = ? AND product_variants.product_id = ?", storeID, productID).
		Preload("Variation").Preload("Variation.Option").Preload("Variation.OptionValue").
		First(&variant, "product_variants.id = ?", variantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("variant %s: %w", variantID, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &variant, nil
}
