// internal/models/product.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Product struct {
	BaseModel
	StoreID       uuid.UUID      `json:"store_id" gorm:"type:uuid;not null;uniqueIndex:idx_products_store_sku"`
	SKU           string         `json:"sku" gorm:"size:100;not null;uniqueIndex:idx_products_store_sku"`
	CategoryID    *uuid.UUID     `json:"category_id" gorm:"type:uuid;index"`
	Name          string         `json:"name" gorm:"size:255;not null"`
	Description   string         `json:"description" gorm:"type:text"`
	Price         float64        `json:"price" gorm:"type:decimal(10,2);not null"`
	Quantity      int            `json:"quantity" gorm:"default:0"`
	Available     bool           `json:"available" gorm:"default:false;index"`
	DateAvailable *time.Time     `json:"date_available"`
	Weight        float64        `json:"weight" gorm:"type:decimal(10,3);default:0"`
	Length        float64        `json:"length" gorm:"type:decimal(10,2);default:0"`
	Width         float64        `json:"width" gorm:"type:decimal(10,2);default:0"`
	Height        float64        `json:"height" gorm:"type:decimal(10,2);default:0"`
	Tags          pq.StringArray `json:"tags" gorm:"type:text[]"`
	Attributes    JSONB          `json:"attributes" gorm:"type:jsonb"`
	ViewCount     int64          `json:"view_count" gorm:"default:0"`
	SalesCount    int64          `json:"sales_count" gorm:"default:0"`
	Rating        float64        `json:"rating" gorm:"type:decimal(3,2);default:0"`
	ReviewCount   int64          `json:"review_count" gorm:"default:0"`
	SortOrder     int            `json:"sort_order" gorm:"default:0"`

	// Relationships
	Store    MerchantStore    `json:"store,omitempty" gorm:"foreignKey:StoreID"`
	Category *Category        `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Images   []ProductImage   `json:"images,omitempty" gorm:"foreignKey:ProductID"`
	Variants []ProductVariant `json:"variants,omitempty" gorm:"foreignKey:ProductID"`
}

// CanPurchase reports whether the product is sellable right now.
func (p *Product) CanPurchase() bool {
	if !p.Available {
		return false
	}
	if p.DateAvailable != nil && p.DateAvailable.After(time.Now()) {
		return false
	}
	return true
}

type ProductImage struct {
	BaseModel
	ProductID    uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	URL          string    `json:"url" gorm:"size:500"`
	ContentType  string    `json:"content_type" gorm:"size:100"`
	DefaultImage bool      `json:"default_image" gorm:"default:false"`
	SortOrder    int       `json:"sort_order" gorm:"default:0"`

	// Relationships
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
