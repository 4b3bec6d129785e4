// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/openmerce/storefront/internal/models"
	"github.com/openmerce/storefront/internal/utils"
)

type ProductService struct {
	db              *gorm.DB
	categoryService *CategoryService
}

type CreateProductRequest struct {
	SKU           string                 `json:"sku" validate:"required,sku"`
	CategoryID    *uuid.UUID             `json:"category_id,omitempty"`
	Name          string                 `json:"name" validate:"required,min=3,max=255"`
	Description   string                 `json:"description,omitempty"`
	Price         float64                `json:"price" validate:"required,min=0.01"`
	Quantity      int                    `json:"quantity" validate:"min=0"`
	Available     bool                   `json:"available"`
	DateAvailable *time.Time             `json:"date_available,omitempty"`
	Weight        float64                `json:"weight,omitempty" validate:"omitempty,min=0"`
	Length        float64                `json:"length,omitempty" validate:"omitempty,min=0"`
	Width         float64                `json:"width,omitempty" validate:"omitempty,min=0"`
	Height        float64                `json:"height,omitempty" validate:"omitempty,min=0"`
	Tags          []string               `json:"tags,omitempty"`
	Attributes    map[string]interface{} `json:"attributes,omitempty"`
	SortOrder     int                    `json:"sort_order,omitempty"`
}

type UpdateProductRequest struct {
	CategoryID    *uuid.UUID             `json:"category_id,omitempty"`
	Name          string                 `json:"name,omitempty" validate:"omitempty,min=3,max=255"`
	Description   string                 `json:"description,omitempty"`
	Price         float64                `json:"price,omitempty" validate:"omitempty,min=0.01"`
	Quantity      *int                   `json:"quantity,omitempty" validate:"omitempty,min=0"`
	Available     *bool                  `json:"available,omitempty"`
	DateAvailable *time.Time             `json:"date_available,omitempty"`
	Weight        *float64               `json:"weight,omitempty"`
	Length        *float64               `json:"length,omitempty"`
	Width         *float64               `json:"width,omitempty"`
	Height        *float64               `json:"height,omitempty"`
	Tags          []string               `json:"tags,omitempty"`
	Attributes    map[string]interface{} `json:"attributes,omitempty"`
	SortOrder     *int                   `json:"sort_order,omitempty"`
}

type ProductSearchParams struct {
	utils.PaginationParams
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	PriceMin   *float64   `json:"price_min,omitempty"`
	PriceMax   *float64   `json:"price_max,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
	InStock    *bool      `json:"in_stock,omitempty"`
	// IncludeHidden lists unavailable products too; admin only.
	IncludeHidden bool `json:"-"`
}

func NewProductService(db *gorm.DB, categoryService *CategoryService) *ProductService {
	return &ProductService{
		db:              db,
		categoryService: categoryService,
	}
}

func (s *ProductService) CreateProduct(storeID uuid.UUID, req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var count int64
	if err := s.db.Model(&models.Product{}).
		Where("store_id = ? AND sku = ?", storeID, req.SKU).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("SKU %s: %w", req.SKU, ErrConflict)
	}

	if req.CategoryID != nil {
		if _, err := s.categoryService.GetCategory(storeID, *req.CategoryID); err != nil {
			return nil, fmt.Errorf("category: %w", err)
		}
	}

	product := &models.Product{
		StoreID:       storeID,
		SKU:           req.SKU,
		CategoryID:    req.CategoryID,
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Quantity:      req.Quantity,
		Available:     req.Available,
		DateAvailable: req.DateAvailable,
		Weight:        req.Weight,
		Length:        req.Length,
		Width:         req.Width,
		Height:        req.Height,
		Tags:          req.Tags,
		Attributes:    models.JSONB(req.Attributes),
		SortOrder:     req.SortOrder,
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.db.Preload("Category").Preload("Images").First(product, product.ID)

	return product, nil
}

func (s *ProductService) GetProduct(storeID, id uuid.UUID, countView bool) (*models.Product, error) {
	var product models.Product
	query := s.db.Where("store_id = ?", storeID).
		Preload("Category").
		Preload("Images").
		Preload("Variants").
		Preload("Variants.Variation").
		Preload("Variants.Variation.Option").
		Preload("Variants.Variation.OptionValue")

	if err := query.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if countView {
		go s.incrementViewCount(id)
	}

	return &product, nil
}

func (s *ProductService) GetProductBySKU(storeID uuid.UUID, sku string) (*models.Product, error) {
	var product models.Product
	if err := s.db.Where("store_id = ? AND sku = ?", storeID, sku).
		Preload("Category").Preload("Images").
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", sku, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *ProductService) UpdateProduct(storeID, id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	product, err := s.GetProduct(storeID, id, false)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.categoryService.GetCategory(storeID, *req.CategoryID); err != nil {
			return nil, fmt.Errorf("category: %w", err)
		}
	}

	updates := make(map[string]interface{})
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Price > 0 {
		updates["price"] = req.Price
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}
	if req.Available != nil {
		updates["available"] = *req.Available
	}
	if req.DateAvailable != nil {
		updates["date_available"] = *req.DateAvailable
	}
	if req.Weight != nil {
		updates["weight"] = *req.Weight
	}
	if req.Length != nil {
		updates["length"] = *req.Length
	}
	if req.Width != nil {
		updates["width"] = *req.Width
	}
	if req.Height != nil {
		updates["height"] = *req.Height
	}
	if req.Tags != nil {
		updates["tags"] = req.Tags
	}
	if req.Attributes != nil {
		updates["attributes"] = models.JSONB(req.Attributes)
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}

	if err := s.db.Model(product).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return s.GetProduct(storeID, id, false)
}

// DeleteProduct soft deletes; products referenced by completed orders keep
// their order items since those are denormalized.
func (s *ProductService) DeleteProduct(storeID, id uuid.UUID) error {
	product, err := s.GetProduct(storeID, id, false)
	if err != nil {
		return err
	}

	var cartCount int64
	if err := s.db.Model(&models.ShoppingCartItem{}).
		Joins("JOIN shopping_carts ON shopping_carts.id = shopping_cart_items.cart_id").
		Where("shopping_cart_items.product_id = ? AND shopping_carts.state = ?", id, models.CartStateActive).
		Count(&cartCount).Error; err != nil {
		return fmt.Errorf("failed to check carts: %w", err)
	}
	if cartCount > 0 {
		return fmt.Errorf("product is in %d active carts: %w", cartCount, ErrInvalidState)
	}

	if err := s.db.Delete(product).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (s *ProductService) SearchProducts(storeID uuid.UUID, params ProductSearchParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).
		Where("store_id = ?", storeID).
		Preload("Category").Preload("Images")

	if !params.IncludeHidden {
		query = query.Where("available = ?", true).
			Where("date_available IS NULL OR date_available <= ?", time.Now())
	}

	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}

	if params.Category != "" {
		category, err := s.categoryService.GetCategoryByCode(storeID, params.Category)
		if err == nil {
			query = query.Where("category_id = ?", category.ID)
		}
	}

	if params.Search != "" {
		// Matches the GIN index on to_tsvector(name || ' ' || description).
		query = query.Where("to_tsvector('english', name || ' ' || description) @@ plainto_tsquery('english', ?)", params.Search)
	}

	if params.PriceMin != nil {
		query = query.Where("price >= ?", *params.PriceMin)
	}

	if params.PriceMax != nil {
		query = query.Where("price <= ?", *params.PriceMax)
	}

	if len(params.Tags) > 0 {
		query = query.Where("tags && ?", pq.StringArray(params.Tags))
	}

	if params.InStock != nil && *params.InStock {
		query = query.Where("quantity > 0")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "price", "sales_count", "rating", "sort_order"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

func (s *ProductService) GetPopularProducts(storeID uuid.UUID, limit int) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.Where("store_id = ? AND available = ?", storeID, true).
		Order("sales_count DESC, rating DESC, view_count DESC").
		Limit(limit).
		Preload("Category").Preload("Images").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch popular products: %w", err)
	}

	return products, nil
}

func (s *ProductService) GetFeaturedProducts(storeID uuid.UUID, limit int) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.Where("store_id = ? AND available = ?", storeID, true).
		Where("attributes->>'featured' = 'true'").
		Order("sort_order ASC, created_at DESC").
		Limit(limit).
		Preload("Category").Preload("Images").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch featured products: %w", err)
	}

	return products, nil
}

// AddImage records an uploaded image. The first image of a product becomes
// the default.
func (s *ProductService) AddImage(storeID, productID uuid.UUID, name, url, contentType string) (*models.ProductImage, error) {
	product, err := s.GetProduct(storeID, productID, false)
	if err != nil {
		return nil, err
	}

	image := &models.ProductImage{
		ProductID:    product.ID,
		Name:         name,
		URL:          url,
		ContentType:  contentType,
		DefaultImage: len(product.Images) == 0,
		SortOrder:    len(product.Images),
	}

	if err := s.db.Create(image).Error; err != nil {
		return nil, fmt.Errorf("failed to save product image: %w", err)
	}
	return image, nil
}

func (s *ProductService) RemoveImage(storeID, productID, imageID uuid.UUID) (*models.ProductImage, error) {
	if _, err := s.GetProduct(storeID, productID, false); err != nil {
		return nil, err
	}

	var image models.ProductImage
	if err := s.db.Where("product_id = ?", productID).First(&image, imageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("image %s: %w", imageID, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Delete(&image).Error; err != nil {
		return nil, fmt.Errorf("failed to delete product image: %w", err)
	}
	return &image, nil
}

func (s *ProductService) GetProductStatistics(storeID, productID uuid.UUID) (map[string]interface{}, error) {
	product, err := s.GetProduct(storeID, productID, false)
	if err != nil {
		return nil, err
	}

	var salesStats struct {
		TotalSales   int64   `json:"total_sales"`
		TotalRevenue float64 `json:"total_revenue"`
	}

	s.db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.product_id = ? AND orders.status NOT IN ?", productID,
			[]models.OrderStatus{models.OrderStatusCanceled, models.OrderStatusRefunded}).
		Count(&salesStats.TotalSales)

	s.db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.product_id = ? AND orders.status NOT IN ?", productID,
			[]models.OrderStatus{models.OrderStatusCanceled, models.OrderStatusRefunded}).
		Select("COALESCE(SUM(order_items.total), 0)").Scan(&salesStats.TotalRevenue)

	return map[string]interface{}{
		"view_count":  product.ViewCount,
		"sales_count": product.SalesCount,
		"rating":      product.Rating,
		"quantity":    product.Quantity,
		"sales_stats": salesStats,
		"created_at":  product.CreatedAt,
		"updated_at":  product.UpdatedAt,
	}, nil
}

// Helper methods

func (s *ProductService) incrementViewCount(productID uuid.UUID) {
	s.db.Model(&models.Product{}).Where("id = ?", productID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
}
