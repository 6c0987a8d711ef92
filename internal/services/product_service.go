package services

import (
	"context"
	"log"

	"produits/internal/models"
	"produits/internal/realtime"
	"produits/internal/repositories"
)

// ProductService handles business logic related to products: id
// assignment, creation defaults, field-level merge on update, and
// change-event emission after each successful mutation.
type ProductService struct {
	repo       repositories.ProductRepository
	publishers []realtime.EventPublisher
}

// NewProductService creates a new ProductService. Publishers receive one
// event per committed mutation; passing none is valid and disables
// notification entirely.
func NewProductService(repo repositories.ProductRepository, publishers ...realtime.EventPublisher) *ProductService {
	return &ProductService{
		repo:       repo,
		publishers: publishers,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductByID retrieves a single product by its id.
func (s *ProductService) GetProductByID(ctx context.Context, id int) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct assigns the next free id, applies creation defaults
// (rating 0, warranty_years 1, available true), stores the product and
// emits a product_created event. The id computation is read-then-write:
// two concurrent creates can observe the same maximum and collide.
func (s *ProductService) CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	id, err := s.repo.NextID(ctx)
	if err != nil {
		return nil, err
	}

	product := models.Product{
		ID:            id,
		Name:          req.Name,
		Type:          req.Type,
		Price:         *req.Price,
		Rating:        0,
		WarrantyYears: 1,
		Available:     true,
	}
	if req.Rating != nil {
		product.Rating = *req.Rating
	}
	if req.WarrantyYears != nil {
		product.WarrantyYears = *req.WarrantyYears
	}
	if req.Available != nil {
		product.Available = *req.Available
	}

	if err := s.repo.Create(ctx, &product); err != nil {
		return nil, err
	}

	s.notify(realtime.ProductCreated(product))
	return &product, nil
}

// UpdateProduct merges the supplied fields into the product with the
// given id and emits a product_updated event carrying the full
// post-update document. The id itself is never part of the merge.
func (s *ProductService) UpdateProduct(ctx context.Context, id int, update models.ProductUpdate) (*models.Product, error) {
	product, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.notify(realtime.ProductUpdated(*product))
	return product, nil
}

// DeleteProduct removes the product with the given id and emits a
// product_deleted event carrying only the id.
func (s *ProductService) DeleteProduct(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.notify(realtime.ProductDeleted(id))
	return nil
}

// notify hands the event to every configured publisher. Publish failures
// are logged and do not fail the mutation: the store write has already
// been committed and delivery is best-effort.
func (s *ProductService) notify(event realtime.Event) {
	for _, p := range s.publishers {
		if err := p.Publish(event); err != nil {
			log.Printf("Warning: failed to publish %s event: %v", event.Name, err)
		}
	}
}
