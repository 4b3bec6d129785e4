// internal/services/shipping_service.go
package services

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openmerce/storefront/internal/models"
	"github.com/openmerce/storefront/internal/utils"
)

// ShippingService computes weight-based shipping quotes and manages the per
// store shipping origin. Rate tiers live under config.shipping.tiers in the
// store's Config JSONB so merchants can change rates without a deploy.
type ShippingService struct {
	db *gorm.DB
}

// ShippingTier prices all parcels up to MaxWeight. A tier with MaxWeight 0
// is open-ended and catches everything heavier than the previous tiers.
type ShippingTier struct {
	MaxWeight float64 `json:"max_weight"`
	Price     float64 `json:"price"`
}

type ShippingQuote struct {
	Weight   float64 `json:"weight"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}

// ShippingSettings is the merchant-configured rate card: weight tiers, a
// default price for parcels no tier covers, and an order value above which
// shipping is free.
type ShippingSettings struct {
	Tiers        []ShippingTier
	DefaultPrice float64
	FreeOver     float64
}

type SetShippingOriginRequest struct {
	Name       string `json:"name" validate:"max=120"`
	Address    string `json:"address" validate:"required,max=255"`
	City       string `json:"city" validate:"required,max=100"`
	PostalCode string `json:"postal_code" validate:"max=20"`
	Country    string `json:"country" validate:"required,len=2"`
}

func NewShippingService(db *gorm.DB) *ShippingService {
	return &ShippingService{db: db}
}

// QuoteForWeight resolves a price from the tier table. Tiers are matched in
// ascending MaxWeight order; open-ended tiers are tried last.
func QuoteForWeight(tiers []ShippingTier, weight float64, currency string) (*ShippingQuote, error) {
	if len(tiers) == 0 {
		return &ShippingQuote{Weight: weight, Price: 0, Currency: currency}, nil
	}

	sorted := make([]ShippingTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		// Open-ended tiers sort after every bounded one.
		if sorted[i].MaxWeight == 0 {
			return false
		}
		if sorted[j].MaxWeight == 0 {
			return true
		}
		return sorted[i].MaxWeight < sorted[j].MaxWeight
	})

	for _, tier := range sorted {
		if tier.MaxWeight == 0 || weight <= tier.MaxWeight {
			return &ShippingQuote{Weight: weight, Price: RoundMoney(tier.Price), Currency: currency}, nil
		}
	}
	return nil, fmt.Errorf("no shipping tier covers weight %.3f: %w", weight, ErrUnavailable)
}

// Quote prices a parcel against the rate card. The order value is used for
// the free-shipping threshold; pass 0 when only a weight is known.
func (s ShippingSettings) Quote(weight, orderValue float64, currency string) (*ShippingQuote, error) {
	if s.FreeOver > 0 && orderValue >= s.FreeOver {
		return &ShippingQuote{Weight: weight, Price: 0, Currency: currency}, nil
	}

	quote, err := QuoteForWeight(s.Tiers, weight, currency)
	if err != nil {
		if errors.Is(err, ErrUnavailable) && s.DefaultPrice > 0 {
			return &ShippingQuote{Weight: weight, Price: RoundMoney(s.DefaultPrice), Currency: currency}, nil
		}
		return nil, err
	}
	return quote, nil
}

// SettingsForStore reads the rate card from the store's Config JSONB.
func SettingsForStore(store *models.MerchantStore) ShippingSettings {
	settings := ShippingSettings{Tiers: TiersForStore(store)}

	if store.Config == nil {
		return settings
	}
	shipping, ok := store.Config["shipping"].(map[string]interface{})
	if !ok {
		return settings
	}
	if v, ok := shipping["default_price"].(float64); ok {
		settings.DefaultPrice = v
	}
	if v, ok := shipping["free_over"].(float64); ok {
		settings.FreeOver = v
	}
	return settings
}

// TiersForStore reads the tier table from the store's Config JSONB.
func TiersForStore(store *models.MerchantStore) []ShippingTier {
	if store.Config == nil {
		return nil
	}
	shipping, ok := store.Config["shipping"].(map[string]interface{})
	if !ok {
		return nil
	}
	raw, ok := shipping["tiers"].([]interface{})
	if !ok {
		return nil
	}

	tiers := make([]ShippingTier, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		tier := ShippingTier{}
		if v, ok := m["max_weight"].(float64); ok {
			tier.MaxWeight = v
		}
		if v, ok := m["price"].(float64); ok {
			tier.Price = v
		}
		tiers = append(tiers, tier)
	}
	return tiers
}

// QuoteCart prices shipping for a cart from the summed product weights.
func (s *ShippingService) QuoteCart(store *models.MerchantStore, cart *models.ShoppingCart) (*ShippingQuote, error) {
	var weight float64
	for i := range cart.Items {
		item := &cart.Items[i]
		weight += item.Product.Weight * float64(item.Quantity)
	}
	return SettingsForStore(store).Quote(weight, cart.Subtotal, store.Currency)
}

// GetOrigin returns the store's shipping origin.
func (s *ShippingService) GetOrigin(storeID uuid.UUID) (*models.ShippingOrigin, error) {
	var origin models.ShippingOrigin
	if err := s.db.Where("store_id = ?", storeID).First(&origin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("shipping origin: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &origin, nil
}

// SetOrigin creates or replaces the store's shipping origin.
func (s *ShippingService) SetOrigin(storeID uuid.UUID, req *SetShippingOriginRequest) (*models.ShippingOrigin, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var origin models.ShippingOrigin
	err := s.db.Where("store_id = ?", storeID).First(&origin).Error
	switch {
	case err == nil:
		origin.Name = req.Name
		origin.Address = req.Address
		origin.City = req.City
		origin.PostalCode = req.PostalCode
		origin.Country = req.Country
		origin.Active = true
		if err := s.db.Save(&origin).Error; err != nil {
			return nil, fmt.Errorf("failed to update shipping origin: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		origin = models.ShippingOrigin{
			StoreID:    storeID,
			Name:       req.Name,
			Address:    req.Address,
			City:       req.City,
			PostalCode: req.PostalCode,
			Country:    req.Country,
			Active:     true,
		}
		if err := s.db.Create(&origin).Error; err != nil {
			return nil, fmt.Errorf("failed to create shipping origin: %w", err)
		}
	default:
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &origin, nil
}
