// internal/models/content.go
package models

import (
	"github.com/google/uuid"
)

// Content is a CMS page or box scoped to a store and a language.
type Content struct {
	BaseModel
	StoreID     uuid.UUID   `json:"store_id" gorm:"type:uuid;not null;uniqueIndex:idx_contents_store_code_lang"`
	Code        string      `json:"code" gorm:"size:100;not null;uniqueIndex:idx_contents_store_code_lang"`
	Language    string      `json:"language" gorm:"size:5;not null;default:'en';uniqueIndex:idx_contents_store_code_lang"`
	ContentType ContentType `json:"content_type" gorm:"type:varchar(20);default:'page';index"`
	Slug        string      `json:"slug" gorm:"size:150;index"`
	Title       string      `json:"title" gorm:"size:255;not null"`
	Body        string      `json:"body" gorm:"type:text"`
	Visible     bool        `json:"visible" gorm:"default:false;index"`
	SortOrder   int         `json:"sort_order" gorm:"default:0"`

	// Relationships
	Store MerchantStore `json:"store,omitempty" gorm:"foreignKey:StoreID"`
}
