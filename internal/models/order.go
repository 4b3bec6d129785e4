// internal/models/order.go
package models

import (
	"github.com/google/uuid"
)

type Order struct {
	BaseModel
	StoreID         uuid.UUID   `json:"store_id" gorm:"type:uuid;not null;index"`
	CustomerID      uuid.UUID   `json:"customer_id" gorm:"type:uuid;not null;index"`
	CartID          *uuid.UUID  `json:"cart_id" gorm:"type:uuid;index"`
	OrderNumber     string      `json:"order_number" gorm:"size:40;uniqueIndex;not null"`
	Status          OrderStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	Currency        string      `json:"currency" gorm:"size:3;not null"`
	ItemsTotal      float64     `json:"items_total" gorm:"type:decimal(10,2);not null"`
	ShippingTotal   float64     `json:"shipping_total" gorm:"type:decimal(10,2);default:0"`
	TaxTotal        float64     `json:"tax_total" gorm:"type:decimal(10,2);default:0"`
	Total           float64     `json:"total" gorm:"type:decimal(10,2);not null"`
	PaymentGateway  string      `json:"payment_gateway" gorm:"size:50"`
	ShippingAddress JSONB       `json:"shipping_address" gorm:"type:jsonb"`
	BillingAddress  JSONB       `json:"billing_address" gorm:"type:jsonb"`
	CustomerNotes   string      `json:"customer_notes,omitempty" gorm:"type:text"`

	// Relationships
	Store        MerchantStore        `json:"store,omitempty" gorm:"foreignKey:StoreID"`
	Customer     Customer             `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Items        []OrderItem          `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	History      []OrderStatusHistory `json:"history,omitempty" gorm:"foreignKey:OrderID"`
	Transactions []PaymentTransaction `json:"transactions,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderItem carries a denormalized copy of the product name and price so
// the order survives later catalog edits.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID  `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID  `json:"product_id" gorm:"type:uuid;not null;index"`
	VariantID *uuid.UUID `json:"variant_id" gorm:"type:uuid"`
	SKU       string     `json:"sku" gorm:"size:100;not null"`
	Name      string     `json:"name" gorm:"size:255;not null"`
	Quantity  int        `json:"quantity" gorm:"not null"`
	Price     float64    `json:"price" gorm:"type:decimal(10,2);not null"`
	Total     float64    `json:"total" gorm:"type:decimal(10,2);not null"`

	// Relationships
	Order   Order   `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

type OrderStatusHistory struct {
	BaseModel
	OrderID   uuid.UUID   `json:"order_id" gorm:"type:uuid;not null;index"`
	Status    OrderStatus `json:"status" gorm:"type:varchar(20);not null"`
	Comments  string      `json:"comments,omitempty" gorm:"type:text"`
	ChangedBy *uuid.UUID  `json:"changed_by" gorm:"type:uuid"`

	// Relationships
	Order Order `json:"order,omitempty" gorm:"foreignKey:OrderID"`
}
