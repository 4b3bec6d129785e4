// internal/models/cart.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// ShoppingCart is addressed by its opaque Code so anonymous visitors can
// keep a cart without an account.
type ShoppingCart struct {
	BaseModel
	Code           string     `json:"code" gorm:"size:36;uniqueIndex;not null"`
	StoreID        uuid.UUID  `json:"store_id" gorm:"type:uuid;not null;index"`
	CustomerID     *uuid.UUID `json:"customer_id" gorm:"type:uuid;index"`
	State          CartState  `json:"state" gorm:"type:varchar(20);default:'active';index"`
	Subtotal       float64    `json:"subtotal" gorm:"type:decimal(10,2);default:0"`
	ItemCount      int        `json:"item_count" gorm:"default:0"`
	LastActivityAt time.Time  `json:"last_activity_at" gorm:"index"`

	// Relationships
	Store    MerchantStore      `json:"store,omitempty" gorm:"foreignKey:StoreID"`
	Customer *Customer          `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Items    []ShoppingCartItem `json:"items,omitempty" gorm:"foreignKey:CartID"`
}

// ShoppingCartItem snapshots the price at the time the product was added.
type ShoppingCartItem struct {
	BaseModel
	CartID    uuid.UUID  `json:"cart_id" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID  `json:"product_id" gorm:"type:uuid;not null;index"`
	VariantID *uuid.UUID `json:"variant_id" gorm:"type:uuid;index"`
	SKU       string     `json:"sku" gorm:"size:100;not null"`
	Quantity  int        `json:"quantity" gorm:"not null"`
	Price     float64    `json:"price" gorm:"type:decimal(10,2);not null"`
	Total     float64    `json:"total" gorm:"type:decimal(10,2);not null"`

	// Relationships
	Cart    ShoppingCart    `json:"cart,omitempty" gorm:"foreignKey:CartID"`
	Product Product         `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Variant *ProductVariant `json:"variant,omitempty" gorm:"foreignKey:VariantID"`
}
