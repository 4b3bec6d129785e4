// internal/models/merchant.go
package models

import (
	"github.com/lib/pq"
)

// DefaultStoreCode is the code of the store created at first startup.
const DefaultStoreCode = "DEFAULT"

type MerchantStore struct {
	BaseModel
	Code               string         `json:"code" gorm:"uniqueIndex;size:100;not null"`
	Name               string         `json:"name" gorm:"size:100;not null"`
	Email              string         `json:"email" gorm:"size:255"`
	Phone              string         `json:"phone" gorm:"size:50"`
	Address            string         `json:"address" gorm:"size:255"`
	City               string         `json:"city" gorm:"size:100"`
	PostalCode         string         `json:"postal_code" gorm:"size:20"`
	Country            string         `json:"country" gorm:"size:2;default:'US'"`
	Currency           string         `json:"currency" gorm:"size:3;default:'USD'"`
	WeightUnit         string         `json:"weight_unit" gorm:"size:5;default:'KG'"`
	DimensionUnit      string         `json:"dimension_unit" gorm:"size:5;default:'CM'"`
	DefaultLanguage    string         `json:"default_language" gorm:"size:5;default:'en'"`
	SupportedLanguages pq.StringArray `json:"supported_languages" gorm:"type:text[]"`
	Config             JSONB          `json:"config" gorm:"type:jsonb"`

	// Relationships
	Products  []Product       `json:"products,omitempty" gorm:"foreignKey:StoreID"`
	Customers []Customer      `json:"customers,omitempty" gorm:"foreignKey:StoreID"`
	Orders    []Order         `json:"orders,omitempty" gorm:"foreignKey:StoreID"`
	Contents  []Content       `json:"contents,omitempty" gorm:"foreignKey:StoreID"`
	Origin    *ShippingOrigin `json:"origin,omitempty" gorm:"foreignKey:StoreID"`
}
