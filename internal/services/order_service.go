// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openmerce/storefront/internal/config"
	"github.com/openmerce/storefront/internal/models"
	"github.com/openmerce/storefront/internal/utils"
)

// OrderService turns carts into orders and walks orders through their status
// lifecycle. Checkout runs in one transaction with row locks on inventory so
// two buyers cannot claim the last unit.
type OrderService struct {
	db       *gorm.DB
	config   *config.Config
	shipping *ShippingService
}

type Address struct {
	FirstName  string `json:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name" validate:"required,max=100"`
	Address    string `json:"address" validate:"required,max=255"`
	City       string `json:"city" validate:"required,max=100"`
	PostalCode string `json:"postal_code" validate:"max=20"`
	Country    string `json:"country" validate:"required,len=2"`
	Phone      string `json:"phone" validate:"max=50"`
}

type CheckoutRequest struct {
	CartCode        string   `json:"cart_code" validate:"required"`
	ShippingAddress Address  `json:"shipping_address" validate:"required"`
	BillingAddress  *Address `json:"billing_address,omitempty"`
	CustomerNotes   string   `json:"customer_notes,omitempty" validate:"max=1000"`
}

type UpdateOrderStatusRequest struct {
	Status   models.OrderStatus `json:"status" validate:"required,oneof=pending processing shipped delivered canceled refunded"`
	Comments string             `json:"comments,omitempty" validate:"max=1000"`
}

type OrderSearchParams struct {
	utils.PaginationParams
	Status     models.OrderStatus
	CustomerID *uuid.UUID
}

// statusTransitions is the order state machine. Canceled and refunded are
// terminal.
var statusTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCanceled},
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCanceled, models.OrderStatusRefunded},
	models.OrderStatusShipped:    {models.OrderStatusDelivered, models.OrderStatusRefunded},
	models.OrderStatusDelivered:  {models.OrderStatusRefunded},
	models.OrderStatusCanceled:   {},
	models.OrderStatusRefunded:   {},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to models.OrderStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func NewOrderService(db *gorm.DB, cfg *config.Config, shipping *ShippingService) *OrderService {
	return &OrderService{db: db, config: cfg, shipping: shipping}
}

// Checkout converts an active cart into a pending order. Inventory rows are
// locked FOR UPDATE, revalidated against the cart, and decremented before the
// order is written. The cart is marked ordered so it cannot be reused.
func (s *OrderService) Checkout(store *models.MerchantStore, customerID uuid.UUID, req *CheckoutRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	billing := req.BillingAddress
	if billing == nil {
		billing = &req.ShippingAddress
	}

	var order *models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cart models.ShoppingCart
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("store_id = ? AND code = ? AND state = ?", store.ID, req.CartCode, models.CartStateActive).
			First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("cart %s: %w", req.CartCode, ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}
		if cart.CustomerID != nil && *cart.CustomerID != customerID {
			return fmt.Errorf("cart belongs to another customer: %w", ErrUnauthorized)
		}

		var items []models.ShoppingCartItem
		if err := tx.Where("cart_id = ?", cart.ID).Preload("Product").Find(&items).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		if len(items) == 0 {
			return fmt.Errorf("cart is empty: %w", ErrInvalidState)
		}

		var itemsTotal, weight float64
		orderItems := make([]models.OrderItem, 0, len(items))

		for i := range items {
			item := &items[i]

			var product models.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, item.ProductID).Error; err != nil {
				return fmt.Errorf("database error: %w", err)
			}
			if !product.CanPurchase() {
				return fmt.Errorf("product %s is no longer available: %w", product.SKU, ErrUnavailable)
			}

			if item.VariantID != nil {
				var variant models.ProductVariant
				if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
					First(&variant, *item.VariantID).Error; err != nil {
					return fmt.Errorf("database error: %w", err)
				}
				if !variant.CanPurchase() {
					return fmt.Errorf("variant %s is no longer available: %w", variant.SKU, ErrUnavailable)
				}
				if variant.Quantity < item.Quantity {
					return fmt.Errorf("only %d of %s in stock: %w", variant.Quantity, variant.SKU, ErrOutOfStock)
				}
				if err := tx.Model(&variant).Update("quantity", gorm.Expr("quantity - ?", item.Quantity)).Error; err != nil {
					return fmt.Errorf("failed to decrement inventory: %w", err)
				}
			} else {
				if product.Quantity < item.Quantity {
					return fmt.Errorf("only %d of %s in stock: %w", product.Quantity, product.SKU, ErrOutOfStock)
				}
				if err := tx.Model(&product).Update("quantity", gorm.Expr("quantity - ?", item.Quantity)).Error; err != nil {
					return fmt.Errorf("failed to decrement inventory: %w", err)
				}
			}

			if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).
				Update("sales_count", gorm.Expr("sales_count + ?", item.Quantity)).Error; err != nil {
				return fmt.Errorf("failed to update sales count: %w", err)
			}

			lineTotal := RoundMoney(item.Price * float64(item.Quantity))
			itemsTotal += lineTotal
			weight += product.Weight * float64(item.Quantity)

			orderItems = append(orderItems, models.OrderItem{
				ProductID: item.ProductID,
				VariantID: item.VariantID,
				SKU:       item.SKU,
				Name:      product.Name,
				Quantity:  item.Quantity,
				Price:     item.Price,
				Total:     lineTotal,
			})
		}

		itemsTotal = RoundMoney(itemsTotal)

		quote, err := SettingsForStore(store).Quote(weight, itemsTotal, store.Currency)
		if err != nil {
			return err
		}

		taxTotal := RoundMoney(itemsTotal * s.config.Payment.TaxRatePercent / 100)
		total := RoundMoney(itemsTotal + quote.Price + taxTotal)

		orderNumber, err := utils.GenerateOrderNumber()
		if err != nil {
			return fmt.Errorf("failed to generate order number: %w", err)
		}

		order = &models.Order{
			StoreID:       store.ID,
			CustomerID:    customerID,
			CartID:        &cart.ID,
			OrderNumber:   orderNumber,
			Status:        models.OrderStatusPending,
			Currency:      store.Currency,
			ItemsTotal:    itemsTotal,
			ShippingTotal: quote.Price,
			TaxTotal:      taxTotal,
			Total:         total,
			ShippingAddress: models.JSONB{
				"first_name":  req.ShippingAddress.FirstName,
				"last_name":   req.ShippingAddress.LastName,
				"address":     req.ShippingAddress.Address,
				"city":        req.ShippingAddress.City,
				"postal_code": req.ShippingAddress.PostalCode,
				"country":     req.ShippingAddress.Country,
				"phone":       req.ShippingAddress.Phone,
			},
			BillingAddress: models.JSONB{
				"first_name":  billing.FirstName,
				"last_name":   billing.LastName,
				"address":     billing.Address,
				"city":        billing.City,
				"postal_code": billing.PostalCode,
				"country":     billing.Country,
				"phone":       billing.Phone,
			},
			CustomerNotes: req.CustomerNotes,
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for i := range orderItems {
			orderItems[i].OrderID = order.ID
		}
		if err := tx.Create(&orderItems).Error; err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}

		history := models.OrderStatusHistory{
			OrderID:   order.ID,
			Status:    models.OrderStatusPending,
			Comments:  "order placed",
			ChangedBy: &customerID,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to record status history: %w", err)
		}

		if err := tx.Model(&cart).Update("state", models.CartStateOrdered).Error; err != nil {
			return fmt.Errorf("failed to close cart: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"order_number": order.OrderNumber,
		"customer_id":  customerID,
		"total":        order.Total,
	}).Info("Order placed")

	return s.GetOrder(store.ID, order.ID)
}

// GetOrder loads an order with items, history, and payment transactions.
func (s *OrderService) GetOrder(storeID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.Where("store_id = ?", storeID).
		Preload("Items").
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Transactions").
		Preload("Customer").
		First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &order, nil
}

// GetOrderByNumber resolves an order by its public order number.
func (s *OrderService) GetOrderByNumber(storeID uuid.UUID, orderNumber string) (*models.Order, error) {
	var order models.Order
	if err := s.db.Where("store_id = ? AND order_number = ?", storeID, orderNumber).
		Preload("Items").
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", orderNumber, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &order, nil
}

// ListOrders returns orders for a store, optionally narrowed to a customer
// or a status.
func (s *OrderService) ListOrders(storeID uuid.UUID, params OrderSearchParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).Where("store_id = ?", storeID)

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Search != "" {
		query = query.Where("order_number ILIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	allowedSortFields := []string{"created_at", "total", "status", "order_number"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var orders []models.Order
	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, total, nil
}

// UpdateStatus moves an order through the state machine. Moving to canceled
// puts reserved inventory back.
func (s *OrderService) UpdateStatus(storeID, orderID uuid.UUID, changedBy *uuid.UUID, req *UpdateOrderStatusRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("store_id = ?", storeID).
			First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("order %s: %w", orderID, ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		if !CanTransition(order.Status, req.Status) {
			return fmt.Errorf("cannot move order from %s to %s: %w", order.Status, req.Status, ErrInvalidState)
		}

		if req.Status == models.OrderStatusCanceled {
			if err := s.restoreInventory(tx, order.ID); err != nil {
				return err
			}
		}

		if err := tx.Model(&order).Update("status", req.Status).Error; err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		history := models.OrderStatusHistory{
			OrderID:   order.ID,
			Status:    req.Status,
			Comments:  req.Comments,
			ChangedBy: changedBy,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to record status history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(storeID, orderID)
}

// CancelOrder is the customer-facing cancel. Only the order's owner can
// cancel, and only while it is still pending.
func (s *OrderService) CancelOrder(storeID, orderID, customerID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.Where("store_id = ?", storeID).First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if order.CustomerID != customerID {
		return nil, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	if order.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("only pending orders can be canceled: %w", ErrInvalidState)
	}

	return s.UpdateStatus(storeID, orderID, &customerID, &UpdateOrderStatusRequest{
		Status:   models.OrderStatusCanceled,
		Comments: "canceled by customer",
	})
}

func (s *OrderService) restoreInventory(tx *gorm.DB, orderID uuid.UUID) error {
	var items []models.OrderItem
	if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	for i := range items {
		item := &items[i]
		if item.VariantID != nil {
			if err := tx.Model(&models.ProductVariant{}).Where("id = ?", *item.VariantID).
				Update("quantity", gorm.Expr("quantity + ?", item.Quantity)).Error; err != nil {
				return fmt.Errorf("failed to restore inventory: %w", err)
			}
		} else {
			if err := tx.Model(&models.Product{}).Where("id = ?", item.ProductID).
				Update("quantity", gorm.Expr("quantity + ?", item.Quantity)).Error; err != nil {
				return fmt.Errorf("failed to restore inventory: %w", err)
			}
		}
		if err := tx.Model(&models.Product{}).Where("id = ?", item.ProductID).
			Update("sales_count", gorm.Expr("GREATEST(sales_count - ?, 0)", item.Quantity)).Error; err != nil {
			return fmt.Errorf("failed to update sales count: %w", err)
		}
	}
	return nil
}
