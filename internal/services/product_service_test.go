package services_test

import (
	"context"
	"fmt"
	"testing"

	"produits/internal/models"
	"produits/internal/realtime"
	"produits/internal/repositories"
	"produits/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) NextID(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, id int, update models.ProductUpdate) (*models.Product, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// recordingPublisher collects every published event in order.
type recordingPublisher struct {
	events []realtime.Event
}

func (p *recordingPublisher) Publish(event realtime.Event) error {
	p.events = append(p.events, event)
	return nil
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
func boolPtr(b bool) *bool        { return &b }
func strPtr(s string) *string     { return &s }

func TestProductService_GetAllProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	expectedProducts := []models.Product{
		{ID: 1, Name: "AC1 Phone1", Type: "phone", Price: 200.05, Rating: 3.8, WarrantyYears: 1, Available: true},
		{ID: 2, Name: "AC2 Phone2", Type: "phone", Price: 147.21, Rating: 1, WarrantyYears: 3, Available: false},
	}

	mockRepo.On("GetAll", mock.Anything).Return(expectedProducts, nil).Once()

	products, err := service.GetAllProducts(context.Background())

	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, expectedProducts, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	expectedProduct := &models.Product{ID: 1, Name: "AC1 Phone1", Type: "phone", Price: 200.05}

	// Test successful retrieval
	mockRepo.On("GetByID", mock.Anything, 1).Return(expectedProduct, nil).Once()
	product, err := service.GetProductByID(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)
	mockRepo.AssertExpectations(t)

	// Test product not found
	mockRepo.On("GetByID", mock.Anything, 99).Return(nil, fmt.Errorf("product with ID 99: %w", repositories.ErrProductNotFound)).Once()
	product, err = service.GetProductByID(context.Background(), 99)
	assert.Error(t, err)
	assert.Nil(t, product)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct_AssignsNextID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	pub := &recordingPublisher{}
	service := services.NewProductService(mockRepo, pub)

	// Store currently holds ids 1 and 2; the new product must get id 3.
	mockRepo.On("NextID", mock.Anything).Return(3, nil).Once()

	var created *models.Product
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Product")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*models.Product)
		}).
		Return(nil).Once()

	req := models.CreateProductRequest{Name: "X", Type: "phone", Price: floatPtr(10)}
	product, err := service.CreateProduct(context.Background(), req)

	assert.NoError(t, err)
	expected := models.Product{ID: 3, Name: "X", Type: "phone", Price: 10, Rating: 0, WarrantyYears: 1, Available: true}
	assert.Equal(t, expected, *product)
	assert.Equal(t, expected, *created)

	// Exactly one product_created event carrying the full product.
	assert.Len(t, pub.events, 1)
	assert.Equal(t, realtime.EventProductCreated, pub.events[0].Name)
	assert.Equal(t, expected, pub.events[0].Data)

	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct_EmptyStore(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	mockRepo.On("NextID", mock.Anything).Return(1, nil).Once()
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Product")).Return(nil).Once()

	product, err := service.CreateProduct(context.Background(), models.CreateProductRequest{
		Name: "First", Type: "phone", Price: floatPtr(42),
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, product.ID)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct_ExplicitValuesKept(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	mockRepo.On("NextID", mock.Anything).Return(5, nil).Once()
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Product")).Return(nil).Once()

	// Explicit values, including out-of-range rating and an explicit
	// false for available, are stored as-is.
	req := models.CreateProductRequest{
		Name:          "AC5 Phone5",
		Type:          "phone",
		Price:         floatPtr(99.99),
		Rating:        floatPtr(7.5),
		WarrantyYears: intPtr(0),
		Available:     boolPtr(false),
	}
	product, err := service.CreateProduct(context.Background(), req)

	assert.NoError(t, err)
	assert.Equal(t, 7.5, product.Rating)
	assert.Equal(t, 0, product.WarrantyYears)
	assert.False(t, product.Available)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct_StoreError(t *testing.T) {
	mockRepo := new(MockProductRepository)
	pub := &recordingPublisher{}
	service := services.NewProductService(mockRepo, pub)

	mockRepo.On("NextID", mock.Anything).Return(0, repositories.ErrStoreUnavailable).Once()

	product, err := service.CreateProduct(context.Background(), models.CreateProductRequest{
		Name: "X", Type: "phone", Price: floatPtr(10),
	})

	assert.Error(t, err)
	assert.Nil(t, product)
	assert.ErrorIs(t, err, repositories.ErrStoreUnavailable)
	// No write happened, so nothing may be broadcast.
	assert.Empty(t, pub.events)
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	pub := &recordingPublisher{}
	service := services.NewProductService(mockRepo, pub)

	update := models.ProductUpdate{Price: floatPtr(99.99)}
	updated := &models.Product{ID: 1, Name: "AC1 Phone1", Type: "phone", Price: 99.99, Rating: 3.8, WarrantyYears: 1, Available: true}

	mockRepo.On("Update", mock.Anything, 1, update).Return(updated, nil).Once()

	product, err := service.UpdateProduct(context.Background(), 1, update)
	assert.NoError(t, err)
	assert.Equal(t, updated, product)

	assert.Len(t, pub.events, 1)
	assert.Equal(t, realtime.EventProductUpdated, pub.events[0].Name)
	assert.Equal(t, *updated, pub.events[0].Data)
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateProduct_NotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	pub := &recordingPublisher{}
	service := services.NewProductService(mockRepo, pub)

	update := models.ProductUpdate{Name: strPtr("Nope")}
	mockRepo.On("Update", mock.Anything, 99, update).
		Return(nil, fmt.Errorf("product with ID 99: %w", repositories.ErrProductNotFound)).Once()

	product, err := service.UpdateProduct(context.Background(), 99, update)
	assert.Error(t, err)
	assert.Nil(t, product)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	assert.Empty(t, pub.events)
	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	pub := &recordingPublisher{}
	service := services.NewProductService(mockRepo, pub)

	mockRepo.On("Delete", mock.Anything, 1).Return(nil).Once()

	err := service.DeleteProduct(context.Background(), 1)
	assert.NoError(t, err)

	assert.Len(t, pub.events, 1)
	assert.Equal(t, realtime.EventProductDeleted, pub.events[0].Name)
	assert.Equal(t, realtime.DeletedPayload{ID: 1}, pub.events[0].Data)
	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProduct_NotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	pub := &recordingPublisher{}
	service := services.NewProductService(mockRepo, pub)

	mockRepo.On("Delete", mock.Anything, 99).
		Return(fmt.Errorf("product with ID 99: %w", repositories.ErrProductNotFound)).Once()

	err := service.DeleteProduct(context.Background(), 99)
	assert.Error(t, err)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	assert.Empty(t, pub.events)
	mockRepo.AssertExpectations(t)
}

func TestProductService_EventsFollowCommitOrder(t *testing.T) {
	mockRepo := new(MockProductRepository)
	pub := &recordingPublisher{}
	service := services.NewProductService(mockRepo, pub)

	mockRepo.On("NextID", mock.Anything).Return(1, nil).Once()
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Product")).Return(nil).Once()
	updated := &models.Product{ID: 1, Name: "A", Type: "phone", Price: 20, WarrantyYears: 1, Available: true}
	mockRepo.On("Update", mock.Anything, 1, mock.AnythingOfType("models.ProductUpdate")).Return(updated, nil).Once()
	mockRepo.On("Delete", mock.Anything, 1).Return(nil).Once()

	_, err := service.CreateProduct(context.Background(), models.CreateProductRequest{Name: "A", Type: "phone", Price: floatPtr(10)})
	assert.NoError(t, err)
	_, err = service.UpdateProduct(context.Background(), 1, models.ProductUpdate{Price: floatPtr(20)})
	assert.NoError(t, err)
	assert.NoError(t, service.DeleteProduct(context.Background(), 1))

	assert.Len(t, pub.events, 3)
	assert.Equal(t, realtime.EventProductCreated, pub.events[0].Name)
	assert.Equal(t, realtime.EventProductUpdated, pub.events[1].Name)
	assert.Equal(t, realtime.EventProductDeleted, pub.events[2].Name)
	mockRepo.AssertExpectations(t)
}
