// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openmerce/storefront/internal/config"
	"github.com/openmerce/storefront/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// Enable UUID extension
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.MerchantStore{},
		&models.Customer{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.ProductOption{},
		&models.ProductOptionValue{},
		&models.ProductVariation{},
		&models.ProductVariant{},
		&models.ShoppingCart{},
		&models.ShoppingCartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.PaymentConfiguration{},
		&models.PaymentTransaction{},
		&models.ShippingOrigin{},
		&models.Content{},
		&models.AuditLog{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// Customer indexes
		"CREATE INDEX IF NOT EXISTS idx_customers_store_status ON customers(store_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_customers_last_login ON customers(last_login_at DESC)",

		// Catalog indexes
		"CREATE INDEX IF NOT EXISTS idx_categories_lineage ON categories(lineage text_pattern_ops)",
		"CREATE INDEX IF NOT EXISTS idx_products_store_available ON products(store_id, available)",
		"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",
		"CREATE INDEX IF NOT EXISTS idx_products_sales ON products(sales_count DESC)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_products_tags ON products USING GIN(tags)",

		// Cart indexes
		"CREATE INDEX IF NOT EXISTS idx_carts_state_activity ON shopping_carts(state, last_activity_at)",
		"CREATE INDEX IF NOT EXISTS idx_cart_items_cart_product ON shopping_cart_items(cart_id, product_id)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_store_status ON orders(store_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_customer_created ON orders(customer_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items(product_id)",
		"CREATE INDEX IF NOT EXISTS idx_payment_transactions_order ON payment_transactions(order_id, transaction_type)",

		// Content indexes
		"CREATE INDEX IF NOT EXISTS idx_contents_store_type_visible ON contents(store_id, content_type, visible)",

		// Audit indexes
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_customer_action ON audit_logs(customer_id, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource_type, resource_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",

		// Full-text search index backing product search
		"CREATE INDEX IF NOT EXISTS idx_products_search ON products USING GIN(to_tsvector('english', name || ' ' || description))",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// SeedInitialData creates the default store and its admin account on first
// startup.
func SeedInitialData(db *gorm.DB) error {
	log.Println("Seeding initial data...")

	var store models.MerchantStore
	err := db.Where("code = ?", models.DefaultStoreCode).First(&store).Error
	if err == gorm.ErrRecordNotFound {
		store = models.MerchantStore{
			Code:               models.DefaultStoreCode,
			Name:               "Default Store",
			Email:              "store@localhost",
			Country:            "US",
			Currency:           "USD",
			WeightUnit:         "KG",
			DimensionUnit:      "CM",
			DefaultLanguage:    "en",
			SupportedLanguages: pq.StringArray{"en", "fr"},
			Config: models.JSONB{
				"shipping": map[string]interface{}{
					"tiers": []interface{}{
						map[string]interface{}{"max_weight": 1.0, "price": 5.0},
						map[string]interface{}{"max_weight": 5.0, "price": 12.0},
						map[string]interface{}{"max_weight": 0.0, "price": 25.0},
					},
				},
			},
		}
		if err := db.Create(&store).Error; err != nil {
			return fmt.Errorf("failed to create default store: %w", err)
		}
		log.Println("Default store created successfully")
	} else if err != nil {
		return fmt.Errorf("failed to check default store: %w", err)
	}

	var adminCount int64
	db.Model(&models.Customer{}).
		Where("store_id = ? AND role = ?", store.ID, models.CustomerRoleAdmin).
		Count(&adminCount)

	if adminCount == 0 {
		admin := &models.Customer{
			StoreID:         store.ID,
			Email:           "admin@localhost",
			FirstName:       "Store",
			LastName:        "Administrator",
			Role:            models.CustomerRoleAdmin,
			Status:          models.CustomerStatusActive,
			DefaultLanguage: "en",
		}

		if err := admin.SetPassword("admin123!@#"); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}

		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin account: %w", err)
		}

		log.Println("Default admin account created successfully")
	}

	log.Println("Initial data seeding completed")
	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
