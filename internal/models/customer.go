// internal/models/customer.go
package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Customer struct {
	BaseModel
	StoreID         uuid.UUID      `json:"store_id" gorm:"type:uuid;not null;uniqueIndex:idx_customers_store_email"`
	Email           string         `json:"email" gorm:"size:255;not null;uniqueIndex:idx_customers_store_email"`
	PasswordHash    string         `json:"-" gorm:"size:255;not null"`
	FirstName       string         `json:"first_name" gorm:"size:100"`
	LastName        string         `json:"last_name" gorm:"size:100"`
	Role            CustomerRole   `json:"role" gorm:"type:varchar(20);default:'customer'"`
	Status          CustomerStatus `json:"status" gorm:"type:varchar(20);default:'active';index"`
	DefaultLanguage string         `json:"default_language" gorm:"size:5;default:'en'"`
	Billing         JSONB          `json:"billing" gorm:"type:jsonb"`
	Delivery        JSONB          `json:"delivery" gorm:"type:jsonb"`
	EmailVerifiedAt *time.Time     `json:"email_verified_at"`
	LastLoginAt     *time.Time     `json:"last_login_at"`

	// Relationships
	Store  MerchantStore `json:"store,omitempty" gorm:"foreignKey:StoreID"`
	Orders []Order       `json:"orders,omitempty" gorm:"foreignKey:CustomerID"`
	Carts  []ShoppingCart `json:"carts,omitempty" gorm:"foreignKey:CustomerID"`
}

func (c *Customer) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	c.PasswordHash = string(hashedPassword)
	return nil
}

func (c *Customer) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password))
}
