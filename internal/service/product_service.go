package service

import (
	"context"
	"errors"
	"fmt"

	"product-catalog/internal/domain"
	"product-catalog/internal/repository"

	"go.uber.org/zap"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductService defines the product CRUD operations
type ProductService interface {
	List(ctx context.Context) ([]*domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, attrs domain.ProductAttributes) (*domain.Product, error)
	Update(ctx context.Context, id int64, attrs domain.ProductAttributes) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

type productService struct {
	productRepo repository.ProductRepository
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo repository.ProductRepository, logger *zap.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger,
	}
}

// List returns every product
func (s *productService) List(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Get returns the product with the given ID
func (s *productService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// Create stores a new product. attrs must carry every field.
func (s *productService) Create(ctx context.Context, attrs domain.ProductAttributes) (*domain.Product, error) {
	product := &domain.Product{}
	attrs.Apply(product)

	created, err := s.productRepo.Insert(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("Product created", zap.Int64("product_id", created.ID))
	return created, nil
}

// Update overwrites the fields set in attrs. The product is looked up
// first so a missing ID never reaches the write path.
func (s *productService) Update(ctx context.Context, id int64, attrs domain.ProductAttributes) (*domain.Product, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	updated, err := s.productRepo.Update(ctx, id, attrs)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			// Deleted between lookup and update
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.logger.Info("Product updated", zap.Int64("product_id", id))
	return updated, nil
}

// Delete removes the product with the given ID
func (s *productService) Delete(ctx context.Context, id int64) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.logger.Info("Product deleted", zap.Int64("product_id", id))
	return nil
}
