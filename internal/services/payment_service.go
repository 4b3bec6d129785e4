// internal/services/payment_service.go
package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"github.com/stripe/stripe-go/v74/refund"
	"gorm.io/gorm"

	"github.com/openmerce/storefront/internal/config"
	"github.com/openmerce/storefront/internal/models"
	"github.com/openmerce/storefront/internal/utils"
)

// GatewayStripe is the only gateway wired to a processor. Others can be
// configured per store but are surfaced to the client for external handling.
const (
	GatewayStripe    = "stripe"
	GatewayPayPal    = "paypal"
	GatewayBraintree = "braintree"
)

// PaymentService processes card payments through Stripe and manages per-store
// gateway configuration rows.
type PaymentService struct {
	db     *gorm.DB
	config *config.Config
}

type CreatePaymentIntentRequest struct {
	OrderID uuid.UUID `json:"order_id" validate:"required"`
}

type PaymentIntentResponse struct {
	ClientSecret  string    `json:"client_secret"`
	PaymentID     string    `json:"payment_id"`
	TransactionID uuid.UUID `json:"transaction_id"`
	Status        string    `json:"status"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string    `json:"payment_intent_id" validate:"required"`
	TransactionID   uuid.UUID `json:"transaction_id" validate:"required"`
}

type RefundRequest struct {
	Amount float64 `json:"amount,omitempty" validate:"omitempty,min=0.01"`
	Reason string  `json:"reason" validate:"required,max=500"`
}

type UpsertPaymentConfigurationRequest struct {
	Gateway string                 `json:"gateway" validate:"required,oneof=stripe paypal braintree"`
	Active  bool                   `json:"active"`
	Config  map[string]interface{} `json:"config,omitempty"`
}

// AmountInCents converts a monetary amount to the integer minor units Stripe
// expects. Rounded, not truncated: 8.20 stored as 8.199999... must still be
// 820 cents.
func AmountInCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func NewPaymentService(db *gorm.DB, cfg *config.Config) *PaymentService {
	stripe.Key = cfg.Payment.StripeSecretKey

	return &PaymentService{
		db:     db,
		config: cfg,
	}
}

// CreatePaymentIntent opens a Stripe PaymentIntent for a pending order and
// records an authorize transaction against it.
func (s *PaymentService) CreatePaymentIntent(storeID, customerID uuid.UUID, req *CreatePaymentIntentRequest) (*PaymentIntentResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var order models.Order
	if err := s.db.Where("store_id = ? AND customer_id = ?", storeID, customerID).
		First(&order, req.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", req.OrderID, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if order.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("order %s is %s: %w", order.OrderNumber, order.Status, ErrInvalidState)
	}

	currency := order.Currency
	if currency == "" {
		currency = s.config.Payment.DefaultCurrency
	}

	// Stripe amounts are in the currency's smallest unit.
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(AmountInCents(order.Total)),
		Currency: stripe.String(currency),
	}
	params.AddMetadata("order_id", order.ID.String())
	params.AddMetadata("order_number", order.OrderNumber)
	params.AddMetadata("customer_id", customerID.String())

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	transaction := models.PaymentTransaction{
		OrderID:          order.ID,
		TransactionType:  models.PaymentTransactionTypeAuthorize,
		Amount:           order.Total,
		Currency:         currency,
		Gateway:          GatewayStripe,
		PaymentReference: pi.ID,
		Status:           models.PaymentTransactionStatusPending,
		Details: models.JSONB{
			"client_secret_issued": true,
		},
	}
	if err := s.db.Create(&transaction).Error; err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	return &PaymentIntentResponse{
		ClientSecret:  pi.ClientSecret,
		PaymentID:     pi.ID,
		TransactionID: transaction.ID,
		Status:        string(pi.Status),
	}, nil
}

// ConfirmPayment checks the PaymentIntent with Stripe, settles the capture
// transaction and moves the order to processing when payment succeeded.
func (s *PaymentService) ConfirmPayment(storeID uuid.UUID, req *ConfirmPaymentRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var transaction models.PaymentTransaction
	if err := s.db.Preload("Order").First(&transaction, req.TransactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("transaction %s: %w", req.TransactionID, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if transaction.Order.StoreID != storeID {
		return nil, fmt.Errorf("transaction %s: %w", req.TransactionID, ErrNotFound)
	}
	if transaction.PaymentReference != req.PaymentIntentID {
		return nil, fmt.Errorf("payment intent does not match transaction: %w", ErrInvalidState)
	}

	var order models.Order

	// Re-confirming a settled capture must not rewrite the transaction or
	// append another history row.
	if transaction.TransactionType == models.PaymentTransactionTypeCapture &&
		transaction.Status == models.PaymentTransactionStatusCompleted {
		if err := s.db.Preload("Items").Preload("Transactions").First(&order, transaction.OrderID).Error; err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		return &order, nil
	}

	pi, err := paymentintent.Get(req.PaymentIntentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment intent: %w", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		switch pi.Status {
		case stripe.PaymentIntentStatusSucceeded:
			now := time.Now()
			transaction.TransactionType = models.PaymentTransactionTypeCapture
			transaction.Status = models.PaymentTransactionStatusCompleted
			transaction.ProcessedAt = &now
			if err := tx.Save(&transaction).Error; err != nil {
				return fmt.Errorf("failed to update transaction: %w", err)
			}

			if err := tx.Model(&models.Order{}).Where("id = ?", transaction.OrderID).
				Updates(map[string]interface{}{
					"status":          models.OrderStatusProcessing,
					"payment_gateway": transaction.Gateway,
				}).Error; err != nil {
				return fmt.Errorf("failed to update order: %w", err)
			}

			history := models.OrderStatusHistory{
				OrderID:  transaction.OrderID,
				Status:   models.OrderStatusProcessing,
				Comments: fmt.Sprintf("payment captured via %s (%s)", transaction.Gateway, pi.ID),
			}
			if err := tx.Create(&history).Error; err != nil {
				return fmt.Errorf("failed to record status history: %w", err)
			}

		case stripe.PaymentIntentStatusRequiresAction, stripe.PaymentIntentStatusRequiresConfirmation,
			stripe.PaymentIntentStatusRequiresPaymentMethod, stripe.PaymentIntentStatusProcessing:
			transaction.Status = models.PaymentTransactionStatusPending
			if err := tx.Save(&transaction).Error; err != nil {
				return fmt.Errorf("failed to update transaction: %w", err)
			}

		default:
			transaction.Status = models.PaymentTransactionStatusFailed
			if err := tx.Save(&transaction).Error; err != nil {
				return fmt.Errorf("failed to update transaction: %w", err)
			}
		}

		return tx.Preload("Items").Preload("Transactions").First(&order, transaction.OrderID).Error
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// RefundOrder refunds a paid order through Stripe. The full captured amount
// is refunded unless a smaller amount is given.
func (s *PaymentService) RefundOrder(storeID, orderID uuid.UUID, adminID *uuid.UUID, req *RefundRequest) (*models.PaymentTransaction, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var capture models.PaymentTransaction
	if err := s.db.
		Joins("JOIN orders ON orders.id = payment_transactions.order_id").
		Where("orders.store_id = ? AND payment_transactions.order_id = ?", storeID, orderID).
		Where("payment_transactions.transaction_type = ? AND payment_transactions.status = ?",
			models.PaymentTransactionTypeCapture, models.PaymentTransactionStatusCompleted).
		First(&capture).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no captured payment for order %s: %w", orderID, ErrInvalidState)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	amount := req.Amount
	if amount <= 0 || amount > capture.Amount {
		amount = capture.Amount
	}

	if capture.PaymentReference != "" {
		params := &stripe.RefundParams{
			PaymentIntent: stripe.String(capture.PaymentReference),
			Amount:        stripe.Int64(AmountInCents(amount)),
			Reason:        stripe.String("requested_by_customer"),
		}
		if _, err := refund.New(params); err != nil {
			return nil, fmt.Errorf("failed to process refund: %w", err)
		}
	}

	now := time.Now()
	refundTx := models.PaymentTransaction{
		OrderID:          orderID,
		TransactionType:  models.PaymentTransactionTypeRefund,
		Amount:           amount,
		Currency:         capture.Currency,
		Gateway:          capture.Gateway,
		PaymentReference: capture.PaymentReference,
		Status:           models.PaymentTransactionStatusCompleted,
		ProcessedAt:      &now,
		RefundReason:     req.Reason,
	}
	if adminID != nil {
		refundTx.Details = models.JSONB{"refunded_by": adminID.String()}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&refundTx).Error; err != nil {
			return fmt.Errorf("failed to record refund: %w", err)
		}

		if amount >= capture.Amount {
			if err := tx.Model(&models.Order{}).Where("id = ?", orderID).
				Update("status", models.OrderStatusRefunded).Error; err != nil {
				return fmt.Errorf("failed to update order: %w", err)
			}
			history := models.OrderStatusHistory{
				OrderID:   orderID,
				Status:    models.OrderStatusRefunded,
				Comments:  req.Reason,
				ChangedBy: adminID,
			}
			if err := tx.Create(&history).Error; err != nil {
				return fmt.Errorf("failed to record status history: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &refundTx, nil
}

// ListTransactions returns an order's payment transactions.
func (s *PaymentService) ListTransactions(storeID, orderID uuid.UUID) ([]models.PaymentTransaction, error) {
	var transactions []models.PaymentTransaction
	if err := s.db.
		Joins("JOIN orders ON orders.id = payment_transactions.order_id").
		Where("orders.store_id = ? AND payment_transactions.order_id = ?", storeID, orderID).
		Order("payment_transactions.created_at ASC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	return transactions, nil
}

// Gateway configuration

// UpsertConfiguration creates or updates a store's gateway configuration.
func (s *PaymentService) UpsertConfiguration(storeID uuid.UUID, req *UpsertPaymentConfigurationRequest) (*models.PaymentConfiguration, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var conf models.PaymentConfiguration
	err := s.db.Where("store_id = ? AND gateway = ?", storeID, req.Gateway).First(&conf).Error
	switch {
	case err == nil:
		conf.Active = req.Active
		if req.Config != nil {
			conf.Config = models.JSONB(req.Config)
		}
		if err := s.db.Save(&conf).Error; err != nil {
			return nil, fmt.Errorf("failed to update payment configuration: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		conf = models.PaymentConfiguration{
			StoreID: storeID,
			Gateway: req.Gateway,
			Active:  req.Active,
			Config:  models.JSONB(req.Config),
		}
		if err := s.db.Create(&conf).Error; err != nil {
			return nil, fmt.Errorf("failed to create payment configuration: %w", err)
		}
	default:
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &conf, nil
}

// ListConfigurations returns all gateway rows for a store. Secrets stay in
// the Config JSONB; handlers decide what to expose.
func (s *PaymentService) ListConfigurations(storeID uuid.UUID) ([]models.PaymentConfiguration, error) {
	var configs []models.PaymentConfiguration
	if err := s.db.Where("store_id = ?", storeID).Order("gateway ASC").Find(&configs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch payment configurations: %w", err)
	}
	return configs, nil
}

// ActiveGateways lists gateway names a storefront client may offer.
func (s *PaymentService) ActiveGateways(storeID uuid.UUID) ([]string, error) {
	configs, err := s.ListConfigurations(storeID)
	if err != nil {
		return nil, err
	}
	gateways := make([]string, 0, len(configs))
	for _, c := range configs {
		if c.Active {
			gateways = append(gateways, c.Gateway)
		}
	}
	return gateways, nil
}

// DeleteConfiguration removes a gateway row.
func (s *PaymentService) DeleteConfiguration(storeID uuid.UUID, gateway string) error {
	result := s.db.Where("store_id = ? AND gateway = ?", storeID, gateway).
		Delete(&models.PaymentConfiguration{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete payment configuration: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("payment configuration %s: %w", gateway, ErrNotFound)
	}
	return nil
}
