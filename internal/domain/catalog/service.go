// internal/domain/catalog/service.go
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/config"
	"gorm.io/gorm"
)

var (
	// ErrProductNotFound is returned when a product id does not exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrInsufficientStock is returned by DecrementStock when live stock
	// cannot cover the requested quantity.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Service handles catalog business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// UpsertProductRequest represents product create/update data
type UpsertProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
	Stock       int             `json:"stock" binding:"min=0"`
	Category    string          `json:"category" binding:"required"`
}

// GetProduct retrieves a single product by ID
func (s *Service) GetProduct(id uint) (*Product, error) {
	var product Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	return &product, nil
}

// GetProducts retrieves all products, optionally filtered by category
func (s *Service) GetProducts(category string) ([]Product, error) {
	var products []Product
	query := s.db.Order("id")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}
	return products, nil
}

// SearchProducts performs a case-insensitive substring search over
// product name and category.
func (s *Service) SearchProducts(query string) ([]Product, error) {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return []Product{}, nil
	}

	var products []Product
	pattern := "%" + query + "%"
	err := s.db.
		Where("LOWER(name) LIKE ? OR LOWER(category) LIKE ?", pattern, pattern).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// CreateProduct creates a new product (admin)
func (s *Service) CreateProduct(req *UpsertProductRequest) (*Product, error) {
	product := &Product{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
		Category:    req.Category,
	}
	if product.ImageURL == "" {
		product.ImageURL = DefaultImageURL
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// UpdateProduct updates an existing product (admin). An empty image URL
// keeps the current image.
func (s *Service) UpdateProduct(id uint, req *UpsertProductRequest) (*Product, error) {
	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	product.Name = req.Name
	product.Price = req.Price
	product.Description = req.Description
	product.Stock = req.Stock
	product.Category = req.Category
	if req.ImageURL != "" {
		product.ImageURL = req.ImageURL
	}

	if err := s.db.Save(product).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// DeleteProduct removes a product (admin)
func (s *Service) DeleteProduct(id uint) error {
	result := s.db.Delete(&Product{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DecrementStock atomically decrements product stock by quantity inside
// the given transaction. The update only applies when remaining stock
// covers the quantity, so concurrent commits cannot oversubscribe the
// same units.
func DecrementStock(tx *gorm.DB, productID uint, quantity int) error {
	result := tx.Model(&Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))

	if result.Error != nil {
		return fmt.Errorf("failed to decrement stock for product %d: %w", productID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product %d: %w", productID, ErrInsufficientStock)
	}
	return nil
}
