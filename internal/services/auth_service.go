// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/openmerce/storefront/internal/config"
	"github.com/openmerce/storefront/internal/models"
	"github.com/openmerce/storefront/internal/utils"
)

// AuthService registers and authenticates customers. Accounts are scoped to
// a store, so the same email can exist in two stores independently.
type AuthService struct {
	db            *gorm.DB
	cfg           *config.Config
	notifications *NotificationService
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,strong_password"`
	FirstName       string `json:"first_name" validate:"required,max=100"`
	LastName        string `json:"last_name" validate:"required,max=100"`
	DefaultLanguage string `json:"default_language,omitempty" validate:"omitempty,len=2"`
}

type AuthResponse struct {
	Customer     *models.Customer `json:"customer"`
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	TokenType    string           `json:"token_type"`
	ExpiresIn    int              `json:"expires_in"` // in seconds
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,strong_password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,strong_password"`
}

type UpdateProfileRequest struct {
	FirstName       *string                `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName        *string                `json:"last_name,omitempty" validate:"omitempty,max=100"`
	DefaultLanguage *string                `json:"default_language,omitempty" validate:"omitempty,len=2"`
	Billing         map[string]interface{} `json:"billing,omitempty"`
	Delivery        map[string]interface{} `json:"delivery,omitempty"`
}

func NewAuthService(db *gorm.DB, cfg *config.Config, notifications *NotificationService) *AuthService {
	return &AuthService{
		db:            db,
		cfg:           cfg,
		notifications: notifications,
	}
}

func (s *AuthService) Register(store *models.MerchantStore, req *RegisterRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var existing models.Customer
	if err := s.db.Where("store_id = ? AND email = ?", store.ID, req.Email).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("account with this email already exists: %w", ErrConflict)
	}

	language := req.DefaultLanguage
	if language == "" {
		language = store.DefaultLanguage
	}

	customer := &models.Customer{
		StoreID:         store.ID,
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Role:            models.CustomerRoleCustomer,
		Status:          models.CustomerStatusActive,
		DefaultLanguage: language,
	}

	if err := customer.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Create(customer).Error; err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	go func() {
		if err := s.notifications.SendWelcomeEmail(customer, store); err != nil {
			logrus.WithError(err).Warn("Failed to send welcome email")
		}
	}()

	return s.buildAuthResponse(customer, store.Code)
}

func (s *AuthService) Login(store *models.MerchantStore, req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var customer models.Customer
	if err := s.db.Where("store_id = ? AND email = ?", store.ID, req.Email).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if customer.Status != models.CustomerStatusActive {
		return nil, fmt.Errorf("account is %s: %w", customer.Status, ErrUnauthorized)
	}

	if err := customer.CheckPassword(req.Password); err != nil {
		return nil, fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
	}

	now := time.Now()
	customer.LastLoginAt = &now
	s.db.Save(&customer)

	return s.buildAuthResponse(&customer, store.Code)
}

func (s *AuthService) RefreshToken(store *models.MerchantStore, refreshToken string) (*AuthResponse, error) {
	customerIDStr, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", ErrUnauthorized)
	}

	customerID, err := uuid.Parse(customerIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid customer ID in token: %w", ErrUnauthorized)
	}

	var customer models.Customer
	if err := s.db.Where("store_id = ?", store.ID).First(&customer, customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("customer %s: %w", customerID, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if customer.Status != models.CustomerStatusActive {
		return nil, fmt.Errorf("account is %s: %w", customer.Status, ErrUnauthorized)
	}

	return s.buildAuthResponse(&customer, store.Code)
}

func (s *AuthService) GetCustomer(storeID, customerID uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.Where("store_id = ?", storeID).First(&customer, customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("customer %s: %w", customerID, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &customer, nil
}

func (s *AuthService) UpdateProfile(storeID, customerID uuid.UUID, req *UpdateProfileRequest) (*models.Customer, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	customer, err := s.GetCustomer(storeID, customerID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.DefaultLanguage != nil {
		updates["default_language"] = *req.DefaultLanguage
	}
	if req.Billing != nil {
		updates["billing"] = models.JSONB(req.Billing)
	}
	if req.Delivery != nil {
		updates["delivery"] = models.JSONB(req.Delivery)
	}

	if err := s.db.Model(customer).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return s.GetCustomer(storeID, customerID)
}

func (s *AuthService) ChangePassword(storeID, customerID uuid.UUID, req *ChangePasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	customer, err := s.GetCustomer(storeID, customerID)
	if err != nil {
		return err
	}

	if err := customer.CheckPassword(req.CurrentPassword); err != nil {
		return fmt.Errorf("current password is incorrect: %w", ErrUnauthorized)
	}

	if err := customer.SetPassword(req.NewPassword); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Save(customer).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// ForgotPassword issues a reset token. It never reveals whether the email
// exists.
func (s *AuthService) ForgotPassword(store *models.MerchantStore, req *ForgotPasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	var customer models.Customer
	if err := s.db.Where("store_id = ? AND email = ?", store.ID, req.Email).First(&customer).Error; err != nil {
		return nil
	}

	resetToken, err := utils.GenerateRandomString(32)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	if customer.Billing == nil {
		customer.Billing = make(models.JSONB)
	}
	customer.Billing["reset_token_hash"] = utils.HashString(resetToken)
	customer.Billing["reset_token_expires"] = time.Now().Add(1 * time.Hour).Unix()

	if err := s.db.Save(&customer).Error; err != nil {
		return fmt.Errorf("failed to save reset token: %w", err)
	}

	go func() {
		if err := s.notifications.SendPasswordResetEmail(&customer, resetToken); err != nil {
			logrus.WithError(err).Warn("Failed to send password reset email")
		}
	}()

	return nil
}

func (s *AuthService) ResetPassword(store *models.MerchantStore, req *ResetPasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	tokenHash := utils.HashString(req.Token)

	var customer models.Customer
	if err := s.db.Where("store_id = ? AND billing->>'reset_token_hash' = ?", store.ID, tokenHash).
		First(&customer).Error; err != nil {
		return fmt.Errorf("invalid or expired reset token: %w", ErrUnauthorized)
	}

	if expiresAt, ok := customer.Billing["reset_token_expires"].(float64); ok {
		if time.Now().Unix() > int64(expiresAt) {
			return fmt.Errorf("reset token has expired: %w", ErrUnauthorized)
		}
	} else {
		return fmt.Errorf("invalid reset token: %w", ErrUnauthorized)
	}

	if err := customer.SetPassword(req.NewPassword); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	delete(customer.Billing, "reset_token_hash")
	delete(customer.Billing, "reset_token_expires")

	if err := s.db.Save(&customer).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *AuthService) buildAuthResponse(customer *models.Customer, storeCode string) (*AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(
		customer.ID,
		customer.Email,
		string(customer.Role),
		storeCode,
		s.cfg.JWT.AccessTokenTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(customer.ID, s.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		Customer:     customer,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.cfg.JWT.AccessTokenTTL * 3600,
	}, nil
}
