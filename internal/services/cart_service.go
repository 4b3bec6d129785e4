// internal/services/cart_service.go
package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/openmerce/storefront/internal/models"
	"github.com/openmerce/storefront/internal/utils"
)

// CartService manages shopping carts. Carts are addressed by their opaque
// code so anonymous visitors can keep one without an account.
type CartService struct {
	db          *gorm.DB
	expiryHours int
}

type AddCartItemRequest struct {
	ProductID uuid.UUID  `json:"product_id" validate:"required"`
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
	Quantity  int        `json:"quantity" validate:"required,min=1,max=999"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=0,max=999"`
}

func NewCartService(db *gorm.DB, expiryHours int) *CartService {
	if expiryHours <= 0 {
		expiryHours = 48
	}
	return &CartService{db: db, expiryHours: expiryHours}
}

// RoundMoney rounds to two decimal places, half away from zero.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// RecalculateCart recomputes subtotal, item count, and per-item totals from
// the item rows. Pure, so totals logic is testable without a database.
func RecalculateCart(cart *models.ShoppingCart) {
	var subtotal float64
	var count int
	for i := range cart.Items {
		item := &cart.Items[i]
		item.Total = RoundMoney(item.Price * float64(item.Quantity))
		subtotal += item.Total
		count += item.Quantity
	}
	cart.Subtotal = RoundMoney(subtotal)
	cart.ItemCount = count
}

// CreateCart starts an empty cart for a store, optionally bound to a customer.
func (s *CartService) CreateCart(storeID uuid.UUID, customerID *uuid.UUID) (*models.ShoppingCart, error) {
	cart := &models.ShoppingCart{
		Code:           uuid.New().String(),
		StoreID:        storeID,
		CustomerID:     customerID,
		State:          models.CartStateActive,
		LastActivityAt: time.Now(),
	}
	if err := s.db.Create(cart).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return cart, nil
}

// GetCartByCode returns an active cart with its items and products loaded.
func (s *CartService) GetCartByCode(storeID uuid.UUID, code string) (*models.ShoppingCart, error) {
	var cart models.ShoppingCart
	if err := s.db.Where("store_id = ? AND code = ? AND state = ?", storeID, code, models.CartStateActive).
		Preload("Items").Preload("Items.Product").Preload("Items.Variant").
		First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart %s: %w", code, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &cart, nil
}

// AddItem adds a product (or a specific variant) to the cart. Adding the same
// line again increments its quantity instead of creating a duplicate row.
func (s *CartService) AddItem(storeID uuid.UUID, code string, req *AddCartItemRequest) (*models.ShoppingCart, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	cart, err := s.GetCartByCode(storeID, code)
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := s.db.Where("store_id = ?", storeID).First(&product, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", req.ProductID, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if !product.CanPurchase() {
		return nil, fmt.Errorf("product %s is not available: %w", product.SKU, ErrUnavailable)
	}

	sku := product.SKU
	available := product.Quantity
	if req.VariantID != nil {
		var variant models.ProductVariant
		if err := s.db.Where("product_id = ?", req.ProductID).First(&variant, *req.VariantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("variant %s: %w", *req.VariantID, ErrNotFound)
			}
			return nil, fmt.Errorf("database error: %w", err)
		}
		if !variant.CanPurchase() {
			return nil, fmt.Errorf("variant %s is not available: %w", variant.SKU, ErrUnavailable)
		}
		sku = variant.SKU
		available = variant.Quantity
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.ShoppingCartItem
		query := tx.Where("cart_id = ? AND product_id = ?", cart.ID, req.ProductID)
		if req.VariantID != nil {
			query = query.Where("variant_id = ?", *req.VariantID)
		} else {
			query = query.Where("variant_id IS NULL")
		}

		findErr := query.First(&existing).Error
		switch {
		case findErr == nil:
			newQty := existing.Quantity + req.Quantity
			if newQty > available {
				return fmt.Errorf("only %d of %s in stock: %w", available, sku, ErrOutOfStock)
			}
			existing.Quantity = newQty
			existing.Total = RoundMoney(existing.Price * float64(newQty))
			if err := tx.Save(&existing).Error; err != nil {
				return fmt.Errorf("failed to update cart item: %w", err)
			}
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			if req.Quantity > available {
				return fmt.Errorf("only %d of %s in stock: %w", available, sku, ErrOutOfStock)
			}
			item := models.ShoppingCartItem{
				CartID:    cart.ID,
				ProductID: req.ProductID,
				VariantID: req.VariantID,
				SKU:       sku,
				Quantity:  req.Quantity,
				Price:     product.Price,
				Total:     RoundMoney(product.Price * float64(req.Quantity)),
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("failed to add cart item: %w", err)
			}
		default:
			return fmt.Errorf("database error: %w", findErr)
		}

		return s.refreshTotals(tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.GetCartByCode(storeID, code)
}

// UpdateItem changes a line quantity. Zero removes the line.
func (s *CartService) UpdateItem(storeID uuid.UUID, code string, itemID uuid.UUID, req *UpdateCartItemRequest) (*models.ShoppingCart, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	cart, err := s.GetCartByCode(storeID, code)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var item models.ShoppingCartItem
		if err := tx.Where("cart_id = ?", cart.ID).First(&item, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("cart item %s: %w", itemID, ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		if req.Quantity == 0 {
			if err := tx.Delete(&item).Error; err != nil {
				return fmt.Errorf("failed to remove cart item: %w", err)
			}
		} else {
			available, err := s.availableStock(tx, item.ProductID, item.VariantID)
			if err != nil {
				return err
			}
			if req.Quantity > available {
				return fmt.Errorf("only %d of %s in stock: %w", available, item.SKU, ErrOutOfStock)
			}
			item.Quantity = req.Quantity
			item.Total = RoundMoney(item.Price * float64(req.Quantity))
			if err := tx.Save(&item).Error; err != nil {
				return fmt.Errorf("failed to update cart item: %w", err)
			}
		}

		return s.refreshTotals(tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.GetCartByCode(storeID, code)
}

// RemoveItem deletes a line from the cart.
func (s *CartService) RemoveItem(storeID uuid.UUID, code string, itemID uuid.UUID) (*models.ShoppingCart, error) {
	cart, err := s.GetCartByCode(storeID, code)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("cart_id = ?", cart.ID).Delete(&models.ShoppingCartItem{}, itemID)
		if result.Error != nil {
			return fmt.Errorf("failed to remove cart item: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("cart item %s: %w", itemID, ErrNotFound)
		}
		return s.refreshTotals(tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.GetCartByCode(storeID, code)
}

// AttachCustomer binds an anonymous cart to a customer after login. If the
// customer already has an active cart its items are merged into this one and
// the old cart is closed.
func (s *CartService) AttachCustomer(storeID uuid.UUID, code string, customerID uuid.UUID) (*models.ShoppingCart, error) {
	cart, err := s.GetCartByCode(storeID, code)
	if err != nil {
		return nil, err
	}
	if cart.CustomerID != nil && *cart.CustomerID != customerID {
		return nil, fmt.Errorf("cart belongs to another customer: %w", ErrUnauthorized)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var previous models.ShoppingCart
		findErr := tx.Where("store_id = ? AND customer_id = ? AND state = ? AND id != ?",
			storeID, customerID, models.CartStateActive, cart.ID).
			Preload("Items").
			First(&previous).Error
		if findErr == nil {
			for i := range previous.Items {
				old := previous.Items[i]
				var existing models.ShoppingCartItem
				query := tx.Where("cart_id = ? AND product_id = ?", cart.ID, old.ProductID)
				if old.VariantID != nil {
					query = query.Where("variant_id = ?", *old.VariantID)
				} else {
					query = query.Where("variant_id IS NULL")
				}
				mergeErr := query.First(&existing).Error
				switch {
				case mergeErr == nil:
					// Quantities are summed; the price snapshot from the
					// customer's own cart wins over the guest one.
					existing.Quantity += old.Quantity
					existing.Price = old.Price
					existing.Total = RoundMoney(existing.Price * float64(existing.Quantity))
					if err := tx.Save(&existing).Error; err != nil {
						return fmt.Errorf("failed to merge cart item: %w", err)
					}
				case errors.Is(mergeErr, gorm.ErrRecordNotFound):
					moved := models.ShoppingCartItem{
						CartID:    cart.ID,
						ProductID: old.ProductID,
						VariantID: old.VariantID,
						SKU:       old.SKU,
						Quantity:  old.Quantity,
						Price:     old.Price,
						Total:     old.Total,
					}
					if err := tx.Create(&moved).Error; err != nil {
						return fmt.Errorf("failed to merge cart item: %w", err)
					}
				default:
					return fmt.Errorf("database error: %w", mergeErr)
				}
			}
			if err := tx.Model(&previous).Update("state", models.CartStateExpired).Error; err != nil {
				return fmt.Errorf("failed to close previous cart: %w", err)
			}
		} else if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return fmt.Errorf("database error: %w", findErr)
		}

		if err := tx.Model(&models.ShoppingCart{}).Where("id = ?", cart.ID).
			Update("customer_id", customerID).Error; err != nil {
			return fmt.Errorf("failed to attach customer: %w", err)
		}
		return s.refreshTotals(tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.GetCartByCode(storeID, code)
}

// ExpireStaleCarts marks active carts untouched for the configured window as
// expired. Called periodically from the sweeper goroutine in main.
func (s *CartService) ExpireStaleCarts() (int64, error) {
	cutoff := time.Now().Add(-time.Duration(s.expiryHours) * time.Hour)
	result := s.db.Model(&models.ShoppingCart{}).
		Where("state = ? AND last_activity_at < ?", models.CartStateActive, cutoff).
		Update("state", models.CartStateExpired)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to expire carts: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		logrus.WithField("count", result.RowsAffected).Info("Expired stale shopping carts")
	}
	return result.RowsAffected, nil
}

func (s *CartService) availableStock(tx *gorm.DB, productID uuid.UUID, variantID *uuid.UUID) (int, error) {
	if variantID != nil {
		var variant models.ProductVariant
		if err := tx.First(&variant, *variantID).Error; err != nil {
			return 0, fmt.Errorf("database error: %w", err)
		}
		return variant.Quantity, nil
	}
	var product models.Product
	if err := tx.First(&product, productID).Error; err != nil {
		return 0, fmt.Errorf("database error: %w", err)
	}
	return product.Quantity, nil
}

// refreshTotals recomputes the cart header from its item rows and bumps the
// activity timestamp.
func (s *CartService) refreshTotals(tx *gorm.DB, cartID uuid.UUID) error {
	var cart models.ShoppingCart
	if err := tx.Preload("Items").First(&cart, cartID).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	RecalculateCart(&cart)
	return tx.Model(&models.ShoppingCart{}).Where("id = ?", cartID).Updates(map[string]interface{}{
		"subtotal":         cart.Subtotal,
		"item_count":       cart.ItemCount,
		"last_activity_at": time.Now(),
	}).Error
}
