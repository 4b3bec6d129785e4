// internal/models/shipping.go
package models

import (
	"github.com/google/uuid"
)

// ShippingOrigin is the address a store ships parcels from. One per store.
type ShippingOrigin struct {
	BaseModel
	StoreID    uuid.UUID `json:"store_id" gorm:"type:uuid;not null;uniqueIndex"`
	Name       string    `json:"name" gorm:"size:120"`
	Address    string    `json:"address" gorm:"size:255;not null"`
	City       string    `json:"city" gorm:"size:100;not null"`
	PostalCode string    `json:"postal_code" gorm:"size:20"`
	Country    string    `json:"country" gorm:"size:2;not null"`
	Active     bool      `json:"active" gorm:"default:true"`

	// Relationships
	Store MerchantStore `json:"store,omitempty" gorm:"foreignKey:StoreID"`
}
