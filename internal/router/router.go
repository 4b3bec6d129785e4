// internal/router/router.go
package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openmerce/storefront/internal/cms"
	"github.com/openmerce/storefront/internal/config"
	"github.com/openmerce/storefront/internal/handlers"
	"github.com/openmerce/storefront/internal/middleware"
	"github.com/openmerce/storefront/internal/services"
	"github.com/openmerce/storefront/internal/utils"
)

// Initialize wires services, handlers, and routes into a gin engine.
func Initialize(db *gorm.DB, cfg *config.Config) (*gin.Engine, *services.CartService, error) {
	fileManager, err := buildFileManager(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize file manager: %w", err)
	}

	// Services
	notificationService := services.NewNotificationService(db, cfg)
	storeService := services.NewStoreService(db)
	categoryService := services.NewCategoryService(db)
	productService := services.NewProductService(db, categoryService)
	variationService := services.NewVariationService(db)
	contentService := services.NewContentService(db, fileManager)
	cartService := services.NewCartService(db, cfg.Cart.ExpiryHours)
	shippingService := services.NewShippingService(db)
	orderService := services.NewOrderService(db, cfg, shippingService)
	paymentService := services.NewPaymentService(db, cfg)
	authService := services.NewAuthService(db, cfg, notificationService)
	adminService := services.NewAdminService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, storeService, cartService)
	storeHandler := handlers.NewStoreHandler(storeService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, storeService)
	productHandler := handlers.NewProductHandler(productService, contentService, storeService)
	variationHandler := handlers.NewVariationHandler(variationService, storeService)
	cartHandler := handlers.NewCartHandler(cartService, storeService)
	orderHandler := handlers.NewOrderHandler(orderService, storeService, authService, notificationService)
	shippingHandler := handlers.NewShippingHandler(shippingService, cartService, storeService)
	contentHandler := handlers.NewContentHandler(contentService, storeService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, storeService, authService, orderService, notificationService)
	adminHandler := handlers.NewAdminHandler(adminService, storeService)

	utils.SetJWTSecret(cfg.JWT.SecretKey)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS([]string{cfg.Frontend.BaseURL}))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.XSSFilter())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	v1 := r.Group("/api/v1")
	{
		// Authentication
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", middleware.OptionalAuth(), authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
		}

		profile := v1.Group("/auth")
		profile.Use(middleware.AuthRequired())
		{
			profile.GET("/profile", authHandler.GetProfile)
			profile.PUT("/profile", authHandler.UpdateProfile)
			profile.PUT("/password", authHandler.ChangePassword)
		}

		// Storefront
		v1.GET("/store", storeHandler.GetStore)

		categories := v1.Group("/categories")
		categories.Use(middleware.OptionalAuth())
		{
			categories.GET("", categoryHandler.ListCategories)
			categories.GET("/:id", categoryHandler.GetCategory)
			categories.GET("/:id/children", categoryHandler.ListChildren)
			categories.GET("/:id/descendants", categoryHandler.ListDescendants)
		}

		products := v1.Group("/products")
		products.Use(middleware.OptionalAuth())
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/popular", productHandler.GetPopularProducts)
			products.GET("/featured", productHandler.GetFeaturedProducts)
			products.GET("/sku/:sku", productHandler.GetProductBySKU)
			products.GET("/:id", productHandler.GetProduct)
			products.GET("/:id/variants", variationHandler.ListVariants)
		}

		carts := v1.Group("/carts")
		carts.Use(middleware.OptionalAuth())
		{
			carts.POST("", cartHandler.CreateCart)
			carts.GET("/:code", cartHandler.GetCart)
			carts.POST("/:code/items", cartHandler.AddItem)
			carts.PUT("/:code/items/:itemId", cartHandler.UpdateItem)
			carts.DELETE("/:code/items/:itemId", cartHandler.RemoveItem)
			carts.GET("/:code/shipping", shippingHandler.QuoteCart)
			carts.POST("/:code/attach", middleware.AuthRequired(), cartHandler.AttachCustomer)
		}

		v1.GET("/shipping/quote", shippingHandler.QuoteWeight)

		content := v1.Group("/content")
		{
			content.GET("/pages", contentHandler.ListPages)
			content.GET("/pages/:code", contentHandler.GetPage)
			content.GET("/boxes", contentHandler.ListBoxes)
		}

		v1.GET("/payments/gateways", paymentHandler.ListActiveGateways)

		// Checkout and orders
		checkout := v1.Group("")
		checkout.Use(middleware.AuthRequired(), middleware.CheckoutRateLimit())
		{
			checkout.POST("/checkout", orderHandler.Checkout)
			checkout.POST("/payments/intent", paymentHandler.CreatePaymentIntent)
			checkout.POST("/payments/confirm", paymentHandler.ConfirmPayment)
		}

		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.GET("", orderHandler.GetMyOrders)
			orders.GET("/number/:number", orderHandler.GetOrderByNumber)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.POST("/:id/cancel", orderHandler.CancelOrder)
		}

		// Admin
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/dashboard", adminHandler.GetDashboard)
			admin.GET("/audit-logs", adminHandler.ListAuditLogs)
			admin.GET("/inventory/low-stock", adminHandler.LowStockProducts)

			adminStores := admin.Group("/stores")
			{
				adminStores.GET("", storeHandler.ListStores)
				adminStores.POST("", storeHandler.CreateStore)
				adminStores.GET("/:id", storeHandler.GetStoreByID)
				adminStores.PUT("/:id", storeHandler.UpdateStore)
				adminStores.DELETE("/:id", storeHandler.DeleteStore)
			}

			adminCategories := admin.Group("/categories")
			{
				adminCategories.POST("", categoryHandler.CreateCategory)
				adminCategories.PUT("/:id", categoryHandler.UpdateCategory)
				adminCategories.PUT("/:id/move", categoryHandler.MoveCategory)
				adminCategories.DELETE("/:id", categoryHandler.DeleteCategory)
			}

			adminProducts := admin.Group("/products")
			{
				adminProducts.POST("", productHandler.CreateProduct)
				adminProducts.PUT("/:id", productHandler.UpdateProduct)
				adminProducts.DELETE("/:id", productHandler.DeleteProduct)
				adminProducts.GET("/:id/statistics", productHandler.GetProductStatistics)
				adminProducts.POST("/:id/images", middleware.UploadRateLimit(), productHandler.UploadImage)
				adminProducts.DELETE("/:id/images/:imageId", productHandler.DeleteImage)
				adminProducts.POST("/:id/variants", variationHandler.CreateVariant)
				adminProducts.PUT("/:id/variants/:variantId", variationHandler.UpdateVariant)
				adminProducts.DELETE("/:id/variants/:variantId", variationHandler.DeleteVariant)
			}

			adminOptions := admin.Group("/options")
			{
				adminOptions.GET("", variationHandler.ListOptions)
				adminOptions.POST("", variationHandler.CreateOption)
				adminOptions.DELETE("/:id", variationHandler.DeleteOption)
			}

			adminOptionValues := admin.Group("/option-values")
			{
				adminOptionValues.GET("", variationHandler.ListOptionValues)
				adminOptionValues.POST("", variationHandler.CreateOptionValue)
				adminOptionValues.DELETE("/:id", variationHandler.DeleteOptionValue)
			}

			adminVariations := admin.Group("/variations")
			{
				adminVariations.GET("", variationHandler.ListVariations)
				adminVariations.POST("", variationHandler.CreateVariation)
				adminVariations.DELETE("/:id", variationHandler.DeleteVariation)
			}

			adminOrders := admin.Group("/orders")
			{
				adminOrders.GET("", orderHandler.ListOrders)
				adminOrders.PUT("/:id/status", orderHandler.UpdateOrderStatus)
				adminOrders.GET("/:id/transactions", paymentHandler.ListTransactions)
				adminOrders.POST("/:id/refund", paymentHandler.RefundOrder)
			}

			adminShipping := admin.Group("/shipping")
			{
				adminShipping.GET("/origin", shippingHandler.GetOrigin)
				adminShipping.PUT("/origin", shippingHandler.SetOrigin)
			}

			adminContent := admin.Group("/content")
			{
				adminContent.GET("", contentHandler.ListContents)
				adminContent.POST("", contentHandler.CreateContent)
				adminContent.PUT("/:id", contentHandler.UpdateContent)
				adminContent.DELETE("/:id", contentHandler.DeleteContent)
			}

			adminFiles := admin.Group("/files")
			{
				adminFiles.GET("/:type", contentHandler.ListFiles)
				adminFiles.GET("/:type/:name/url", contentHandler.GetFileURL)
				adminFiles.POST("/:type", middleware.UploadRateLimit(), contentHandler.UploadFile)
				adminFiles.DELETE("/:type", contentHandler.DeleteFolder)
				adminFiles.DELETE("/:type/:name", contentHandler.DeleteFile)
			}

			adminPayments := admin.Group("/payments")
			{
				adminPayments.GET("/configurations", paymentHandler.ListConfigurations)
				adminPayments.PUT("/configurations", paymentHandler.UpsertConfiguration)
				adminPayments.DELETE("/configurations/:gateway", paymentHandler.DeleteConfiguration)
			}

			adminCustomers := admin.Group("/customers")
			{
				adminCustomers.GET("", adminHandler.ListCustomers)
				adminCustomers.PUT("/:id/status", adminHandler.UpdateCustomerStatus)
			}
		}
	}

	// Serve local CMS assets directly; with the s3 provider clients fetch
	// from the bucket URL instead.
	if cfg.CMS.Provider == "local" {
		r.Static("/static", cfg.CMS.BaseDir)
	}

	return r, cartService, nil
}

func buildFileManager(cfg *config.Config) (cms.FileManager, error) {
	switch cfg.CMS.Provider {
	case "s3":
		return cms.NewS3FileManager(cfg.AWS)
	default:
		return cms.NewLocalFileManager(cfg.CMS.BaseDir, cfg.CMS.BaseURL)
	}
}
