package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"produits/internal/models"
)

// MongoProductRepository is a MongoDB implementation of ProductRepository.
type MongoProductRepository struct {
	coll *mongo.Collection
}

// NewMongoProductRepository creates a new instance of MongoProductRepository
// backed by the "products" collection of the given database.
func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{
		coll: db.Collection("products"),
	}
}

// GetAll retrieves all products, in store-native order.
func (r *MongoProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to get all products: %w: %v", ErrStoreUnavailable, err)
	}
	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w: %v", ErrStoreUnavailable, err)
	}
	return products, nil
}

// GetByID retrieves a single product by its id.
func (r *MongoProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	var product models.Product
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
		}
		return nil, fmt.Errorf("failed to get product %d: %w: %v", id, ErrStoreUnavailable, err)
	}
	return &product, nil
}

// NextID returns the highest existing id plus one, or 1 when the
// collection is empty. This is a read-then-write sequence with no
// isolation: two concurrent creates can compute the same id. Kept as-is
// on purpose; callers wanting stronger guarantees need an atomic counter.
func (r *MongoProductRepository) NextID(ctx context.Context) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})
	var last models.Product
	err := r.coll.FindOne(ctx, bson.M{}, opts).Decode(&last)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 1, nil
		}
		return 0, fmt.Errorf("failed to compute next product id: %w: %v", ErrStoreUnavailable, err)
	}
	return last.ID + 1, nil
}

// Create inserts a new product document. The caller must have assigned
// the id beforehand.
func (r *MongoProductRepository) Create(ctx context.Context, product *models.Product) error {
	if _, err := r.coll.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("failed to create product: %w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Update applies the non-nil fields of update via $set and returns the
// full post-update document.
func (r *MongoProductRepository) Update(ctx context.Context, id int, update models.ProductUpdate) (*models.Product, error) {
	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Type != nil {
		set["type"] = *update.Type
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.Rating != nil {
		set["rating"] = *update.Rating
	}
	if update.WarrantyYears != nil {
		set["warranty_years"] = *update.WarrantyYears
	}
	if update.Available != nil {
		set["available"] = *update.Available
	}

	// An empty $set document is rejected by MongoDB; an update with no
	// fields is a no-op merge that still reports the current document.
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w: %v", id, ErrStoreUnavailable, err)
	}
	if res.MatchedCount == 0 {
		return nil, fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
	}
	return r.GetByID(ctx, id)
}

// Delete removes the product with the given id.
func (r *MongoProductRepository) Delete(ctx context.Context, id int) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product %d: %w: %v", id, ErrStoreUnavailable, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
	}
	return nil
}
