package repositories

import (
	"context"
	"fmt"
	"sync"

	"produits/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[int]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[int]models.Product),
	}
}

// GetAll returns all products.
func (r *MockProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for id := 1; id <= r.maxID(); id++ {
		if p, ok := r.products[id]; ok {
			productList = append(productList, p)
		}
	}
	return productList, nil
}

// GetByID returns a product by its id.
func (r *MockProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
	}
	return &product, nil
}

// NextID returns the highest existing id plus one, or 1 when empty.
func (r *MockProductRepository) NextID(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.maxID() + 1, nil
}

// Create adds a new product under its pre-assigned id.
func (r *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products[product.ID] = *product
	return nil
}

// Update merges the non-nil fields of update into an existing product.
func (r *MockProductRepository) Update(ctx context.Context, id int, update models.ProductUpdate) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
	}
	if update.Name != nil {
		product.Name = *update.Name
	}
	if update.Type != nil {
		product.Type = *update.Type
	}
	if update.Price != nil {
		product.Price = *update.Price
	}
	if update.Rating != nil {
		product.Rating = *update.Rating
	}
	if update.WarrantyYears != nil {
		product.WarrantyYears = *update.WarrantyYears
	}
	if update.Available != nil {
		product.Available = *update.Available
	}
	r.products[id] = product
	return &product, nil
}

// Delete removes a product by its id.
func (r *MockProductRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
	}
	delete(r.products, id)
	return nil
}

func (r *MockProductRepository) maxID() int {
	max := 0
	for id := range r.products {
		if id > max {
			max = id
		}
	}
	return max
}
