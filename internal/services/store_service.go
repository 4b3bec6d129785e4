// internal/services/store_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/openmerce/storefront/internal/models"
	"github.com/openmerce/storefront/internal/utils"
)

type StoreService struct {
	db *gorm.DB
}

type CreateStoreRequest struct {
	Code               string                 `json:"code" validate:"required,store_code"`
	Name               string                 `json:"name" validate:"required,min=2,max=100"`
	Email              string                 `json:"email" validate:"omitempty,email"`
	Phone              string                 `json:"phone,omitempty"`
	Address            string                 `json:"address,omitempty"`
	City               string                 `json:"city,omitempty"`
	PostalCode         string                 `json:"postal_code,omitempty"`
	Country            string                 `json:"country,omitempty" validate:"omitempty,len=2"`
	Currency           string                 `json:"currency,omitempty" validate:"omitempty,len=3"`
	WeightUnit         string                 `json:"weight_unit,omitempty"`
	DimensionUnit      string                 `json:"dimension_unit,omitempty"`
	DefaultLanguage    string                 `json:"default_language,omitempty"`
	SupportedLanguages []string               `json:"supported_languages,omitempty"`
	Config             map[string]interface{} `json:"config,omitempty"`
}

type UpdateStoreRequest struct {
	Name               string                 `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Email              string                 `json:"email,omitempty" validate:"omitempty,email"`
	Phone              string                 `json:"phone,omitempty"`
	Address            string                 `json:"address,omitempty"`
	City               string                 `json:"city,omitempty"`
	PostalCode         string                 `json:"postal_code,omitempty"`
	Country            string                 `json:"country,omitempty" validate:"omitempty,len=2"`
	Currency           string                 `json:"currency,omitempty" validate:"omitempty,len=3"`
	WeightUnit         string                 `json:"weight_unit,omitempty"`
	DimensionUnit      string                 `json:"dimension_unit,omitempty"`
	DefaultLanguage    string                 `json:"default_language,omitempty"`
	SupportedLanguages []string               `json:"supported_languages,omitempty"`
	Config             map[string]interface{} `json:"config,omitempty"`
}

func NewStoreService(db *gorm.DB) *StoreService {
	return &StoreService{db: db}
}

func (s *StoreService) CreateStore(req *CreateStoreRequest) (*models.MerchantStore, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	code := strings.ToUpper(req.Code)

	var count int64
	if err := s.db.Model(&models.MerchantStore{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("store code %s: %w", code, ErrConflict)
	}

	store := &models.MerchantStore{
		Code:               code,
		Name:               req.Name,
		Email:              req.Email,
		Phone:              req.Phone,
		Address:            req.Address,
		City:               req.City,
		PostalCode:         req.PostalCode,
		SupportedLanguages: req.SupportedLanguages,
		Config:             models.JSONB(req.Config),
	}
	if req.Country != "" {
		store.Country = strings.ToUpper(req.Country)
	}
	if req.Currency != "" {
		store.Currency = strings.ToUpper(req.Currency)
	}
	if req.WeightUnit != "" {
		store.WeightUnit = req.WeightUnit
	}
	if req.DimensionUnit != "" {
		store.DimensionUnit = req.DimensionUnit
	}
	if req.DefaultLanguage != "" {
		store.DefaultLanguage = req.DefaultLanguage
	}
	if len(store.SupportedLanguages) == 0 {
		store.SupportedLanguages = []string{store.DefaultLanguage}
	}

	if err := s.db.Create(store).Error; err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	return store, nil
}

func (s *StoreService) GetStore(id uuid.UUID) (*models.MerchantStore, error) {
	var store models.MerchantStore
	if err := s.db.First(&store, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("store %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &store, nil
}

func (s *StoreService) GetStoreByCode(code string) (*models.MerchantStore, error) {
	var store models.MerchantStore
	if err := s.db.Where("code = ?", strings.ToUpper(code)).First(&store).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("store %s: %w", code, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &store, nil
}

func (s *StoreService) ListStores(params utils.PaginationParams) ([]models.MerchantStore, int64, error) {
	query := s.db.Model(&models.MerchantStore{})

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count stores: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "code"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var stores []models.MerchantStore
	if err := query.Find(&stores).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch stores: %w", err)
	}

	return stores, total, nil
}

func (s *StoreService) UpdateStore(id uuid.UUID, req *UpdateStoreRequest) (*models.MerchantStore, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	store, err := s.GetStore(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	if req.City != "" {
		updates["city"] = req.City
	}
	if req.PostalCode != "" {
		updates["postal_code"] = req.PostalCode
	}
	if req.Country != "" {
		updates["country"] = strings.ToUpper(req.Country)
	}
	if req.Currency != "" {
		updates["currency"] = strings.ToUpper(req.Currency)
	}
	if req.WeightUnit != "" {
		updates["weight_unit"] = req.WeightUnit
	}
	if req.DimensionUnit != "" {
		updates["dimension_unit"] = req.DimensionUnit
	}
	if req.DefaultLanguage != "" {
		updates["default_language"] = req.DefaultLanguage
	}
	if req.SupportedLanguages != nil {
		updates["supported_languages"] = pq.StringArray(req.SupportedLanguages)
	}
	if req.Config != nil {
		updates["config"] = models.JSONB(req.Config)
	}

	if err := s.db.Model(store).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update store: %w", err)
	}

	return s.GetStore(id)
}

// DeleteStore refuses while the store still owns catalog or order data.
func (s *StoreService) DeleteStore(id uuid.UUID) error {
	store, err := s.GetStore(id)
	if err != nil {
		return err
	}

	if store.Code == models.DefaultStoreCode {
		return fmt.Errorf("the default store cannot be deleted: %w", ErrInvalidState)
	}

	var productCount int64
	if err := s.db.Model(&models.Product{}).Where("store_id = ?", id).Count(&productCount).Error; err != nil {
		return fmt.Errorf("failed to check products: %w", err)
	}
	if productCount > 0 {
		return fmt.Errorf("store still has %d products: %w", productCount, ErrInvalidState)
	}

	var orderCount int64
	if err := s.db.Model(&models.Order{}).Where("store_id = ?", id).Count(&orderCount).Error; err != nil {
		return fmt.Errorf("failed to check orders: %w", err)
	}
	if orderCount > 0 {
		return fmt.Errorf("store still has %d orders: %w", orderCount, ErrInvalidState)
	}

	if err := s.db.Delete(store).Error; err != nil {
		return fmt.Errorf("failed to delete store: %w", err)
	}
	return nil
}
