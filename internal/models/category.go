// internal/models/category.go
package models

import (
	"github.com/google/uuid"
)

// Category is a node of a per-store tree. Lineage holds the slash separated
// path of ancestor ids ("/" for roots), so a whole subtree can be selected
// with a single LIKE on the lineage prefix.
type Category struct {
	BaseModel
	StoreID     uuid.UUID  `json:"store_id" gorm:"type:uuid;not null;uniqueIndex:idx_categories_store_code"`
	Code        string     `json:"code" gorm:"size:100;not null;uniqueIndex:idx_categories_store_code"`
	Name        string     `json:"name" gorm:"size:120;not null"`
	Description string     `json:"description" gorm:"type:text"`
	ParentID    *uuid.UUID `json:"parent_id" gorm:"type:uuid;index"`
	Lineage     string     `json:"lineage" gorm:"size:255;index"`
	Depth       int        `json:"depth" gorm:"default:0"`
	Visible     bool       `json:"visible" gorm:"default:true"`
	SortOrder   int        `json:"sort_order" gorm:"default:0"`

	// Relationships
	Store    MerchantStore `json:"store,omitempty" gorm:"foreignKey:StoreID"`
	Parent   *Category     `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
	Children []Category    `json:"children,omitempty" gorm:"foreignKey:ParentID"`
	Products []Product     `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
}
