// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthCustomerExists     = "auth.customer_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAuthPasswordChanged    = "auth.password_changed"

	// Customers
	KeyCustomerNotFound       = "customer.not_found"
	KeyCustomerProfileUpdated = "customer.profile_updated"
	KeyCustomerSuspended      = "customer.suspended"

	// Stores
	KeyStoreCreated  = "store.created"
	KeyStoreUpdated  = "store.updated"
	KeyStoreDeleted  = "store.deleted"
	KeyStoreNotFound = "store.not_found"

	// Categories
	KeyCategoryCreated  = "category.created"
	KeyCategoryUpdated  = "category.updated"
	KeyCategoryDeleted  = "category.deleted"
	KeyCategoryNotFound = "category.not_found"

	// Products
	KeyProductCreated    = "product.created"
	KeyProductUpdated    = "product.updated"
	KeyProductDeleted    = "product.deleted"
	KeyProductNotFound   = "product.not_found"
	KeyProductOutOfStock = "product.out_of_stock"

	// Cart
	KeyCartItemAdded   = "cart.item_added"
	KeyCartItemRemoved = "cart.item_removed"
	KeyCartUpdated     = "cart.updated"
	KeyCartNotFound    = "cart.not_found"
	KeyCartEmpty       = "cart.empty"

	// Orders
	KeyOrderPlaced        = "order.placed"
	KeyOrderNotFound      = "order.not_found"
	KeyOrderStatusUpdated = "order.status_updated"
	KeyOrderCanceled      = "order.canceled"

	// Payments
	KeyPaymentSuccess       = "payment.success"
	KeyPaymentFailed        = "payment.failed"
	KeyPaymentRefunded      = "payment.refunded"
	KeyPaymentInvalidAmount = "payment.invalid_amount"

	// Content
	KeyContentCreated  = "content.created"
	KeyContentUpdated  = "content.updated"
	KeyContentDeleted  = "content.deleted"
	KeyContentNotFound = "content.not_found"

	// Admin
	KeyAdminActionSuccess = "admin.action_success"
	KeyAdminAccessDenied  = "admin.access_denied"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileInvalidType   = "file.invalid_type"
	KeyFileTooLarge      = "file.too_large"
)
