// internal/models/payment.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentConfiguration holds per-store gateway settings. Credentials live in
// the Config JSONB so new gateways need no schema change.
type PaymentConfiguration struct {
	BaseModel
	StoreID uuid.UUID `json:"store_id" gorm:"type:uuid;not null;uniqueIndex:idx_payment_configurations_store_gateway"`
	Gateway string    `json:"gateway" gorm:"size:50;not null;uniqueIndex:idx_payment_configurations_store_gateway"`
	Active  bool      `json:"active" gorm:"default:false"`
	Config  JSONB     `json:"config" gorm:"type:jsonb"`

	// Relationships
	Store MerchantStore `json:"store,omitempty" gorm:"foreignKey:StoreID"`
}

type PaymentTransaction struct {
	BaseModel
	OrderID          uuid.UUID                `json:"order_id" gorm:"type:uuid;not null;index"`
	TransactionType  PaymentTransactionType   `json:"transaction_type" gorm:"type:varchar(20);not null;index"`
	Amount           float64                  `json:"amount" gorm:"type:decimal(10,2);not null"`
	Currency         string                   `json:"currency" gorm:"size:3;not null"`
	Gateway          string                   `json:"gateway" gorm:"size:50;not null"`
	PaymentReference string                   `json:"payment_reference" gorm:"size:255;index"`
	Status           PaymentTransactionStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	Details          JSONB                    `json:"details" gorm:"type:jsonb"`
	ProcessedAt      *time.Time               `json:"processed_at"`
	RefundReason     string                   `json:"refund_reason,omitempty" gorm:"type:text"`

	// Relationships
	Order Order `json:"order,omitempty" gorm:"foreignKey:OrderID"`
}
