package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"product-catalog/internal/domain"
)

// InMemoryProductRepository keeps products in a map guarded by a mutex.
// Returned products are copies; callers cannot mutate stored state.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
	nextID   int64
	now      func() time.Time
}

// NewInMemoryProductRepository creates an empty in-memory ProductRepository
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: make(map[int64]domain.Product),
		nextID:   1,
		now:      time.Now,
	}
}

func (r *InMemoryProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

func (r *InMemoryProductRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		p := p
		products = append(products, &p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })

	return products, nil
}

func (r *InMemoryProductRepository) Insert(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	p := domain.Product{
		ID:        r.nextID,
		Name:      product.Name,
		Price:     product.Price,
		Category:  product.Category,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.nextID++
	r.products[p.ID] = p

	return &p, nil
}

func (r *InMemoryProductRepository) Update(ctx context.Context, id int64, attrs domain.ProductAttributes) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	attrs.Apply(&p)
	p.UpdatedAt = r.now().UTC()
	r.products[id] = p

	return &p, nil
}

func (r *InMemoryProductRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}
