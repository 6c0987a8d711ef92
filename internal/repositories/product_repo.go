package repositories

import (
	"context"
	"errors"

	"produits/internal/models"
)

// ErrProductNotFound is returned when no document matches the requested id.
var ErrProductNotFound = errors.New("product not found")

// ErrStoreUnavailable is returned when the underlying store is unreachable
// or fails an operation for reasons other than a missing document.
var ErrStoreUnavailable = errors.New("store unavailable")

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int) (*models.Product, error)
	// NextID computes the id the next created product should receive:
	// the current maximum id plus one, or 1 when the store is empty.
	NextID(ctx context.Context) (int, error)
	Create(ctx context.Context, product *models.Product) error
	// Update applies the non-nil fields of update to the document with
	// the given id and returns the full post-update product.
	Update(ctx context.Context, id int, update models.ProductUpdate) (*models.Product, error)
	Delete(ctx context.Context, id int) error
}
