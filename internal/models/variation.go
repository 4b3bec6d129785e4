// internal/models/variation.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductOption is an axis products can vary on (Color, Size).
type ProductOption struct {
	BaseModel
	StoreID uuid.UUID  `json:"store_id" gorm:"type:uuid;not null;uniqueIndex:idx_product_options_store_code"`
	Code    string     `json:"code" gorm:"size:100;not null;uniqueIndex:idx_product_options_store_code"`
	Name    string     `json:"name" gorm:"size:120;not null"`
	Type    OptionType `json:"type" gorm:"type:varchar(20);default:'select'"`

	// Relationships
	Store MerchantStore `json:"store,omitempty" gorm:"foreignKey:StoreID"`
}

// ProductOptionValue is one value of an option (Red, XL).
type ProductOptionValue struct {
	BaseModel
	StoreID uuid.UUID `json:"store_id" gorm:"type:uuid;not null;uniqueIndex:idx_product_option_values_store_code"`
	Code    string    `json:"code" gorm:"size:100;not null;uniqueIndex:idx_product_option_values_store_code"`
	Name    string    `json:"name" gorm:"size:120;not null"`

	// Relationships
	Store MerchantStore `json:"store,omitempty" gorm:"foreignKey:StoreID"`
}

// ProductVariation pairs an option with one of its values under a
// store-scoped code, so variants of different products can share it.
type ProductVariation struct {
	BaseModel
	StoreID       uuid.UUID `json:"store_id" gorm:"type:uuid;not null;uniqueIndex:idx_product_variations_store_code"`
	Code          string    `json:"code" gorm:"size:100;not null;uniqueIndex:idx_product_variations_store_code"`
	OptionID      uuid.UUID `json:"option_id" gorm:"type:uuid;not null;index"`
	OptionValueID uuid.UUID `json:"option_value_id" gorm:"type:uuid;not null;index"`
	SortOrder     int       `json:"sort_order" gorm:"default:0"`

	// Relationships
	Store       MerchantStore      `json:"store,omitempty" gorm:"foreignKey:StoreID"`
	Option      ProductOption      `json:"option,omitempty" gorm:"foreignKey:OptionID"`
	OptionValue ProductOptionValue `json:"option_value,omitempty" gorm:"foreignKey:OptionValueID"`
}

// ProductVariant is a sellable instance of a product for one variation,
// with its own SKU and inventory.
type ProductVariant struct {
	BaseModel
	ProductID     uuid.UUID  `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_product_variants_product_variation"`
	VariationID   uuid.UUID  `json:"variation_id" gorm:"type:uuid;not null;uniqueIndex:idx_product_variants_product_variation"`
	SKU           string     `json:"sku" gorm:"size:100;not null;index"`
	Available     bool       `json:"available" gorm:"default:true"`
	Quantity      int        `json:"quantity" gorm:"default:0"`
	DateAvailable *time.Time `json:"date_available"`
	SortOrder     int        `json:"sort_order" gorm:"default:0"`

	// Relationships
	Product   Product          `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Variation ProductVariation `json:"variation,omitempty" gorm:"foreignKey:VariationID"`
}

// CanPurchase reports whether the variant is sellable right now.
func (v *ProductVariant) CanPurchase() bool {
	if !v.Available {
		return false
	}
	if v.DateAvailable != nil && v.DateAvailable.After(time.Now()) {
		return false
	}
	return true
}
