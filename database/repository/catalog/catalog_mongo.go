package catalogRepo

import (
	"context"
	"fmt"
	"time"

	"servana/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCatalogRepo implements CatalogRepository using MongoDB.
type MongoCatalogRepo struct {
	serviceColl  *mongo.Collection
	categoryColl *mongo.Collection
}

// NewMongoCatalogRepo constructs a new instance of MongoCatalogRepo.
func NewMongoCatalogRepo(db *mongo.Database) CatalogRepository {
	return &MongoCatalogRepo{
		serviceColl:  db.Collection("services"),
		categoryColl: db.Collection("categories"),
	}
}

func newContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, 5*time.Second)
}

// GetService retrieves a service document by ID.
func (r *MongoCatalogRepo) GetService(ctx context.Context, id string) (*models.Service, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	var svc models.Service
	if err := r.serviceColl.FindOne(ctx, bson.M{"id": id}).Decode(&svc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching service with id %s: %w", id, err)
	}
	return &svc, nil
}

// ListServices retrieves services matching the filter, newest first.
func (r *MongoCatalogRepo) ListServices(ctx context.Context, filter ServiceFilter) ([]models.Service, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	query := bson.M{"active": true}
	if filter.CategoryID != "" {
		query["category_id"] = filter.CategoryID
	}
	if filter.ProviderID != "" {
		query["provider_id"] = filter.ProviderID
	}
	price := bson.M{}
	if filter.MinPrice > 0 {
		price["$gte"] = filter.MinPrice
	}
	if filter.MaxPrice > 0 {
		price["$lte"] = filter.MaxPrice
	}
	if len(price) > 0 {
		query["price"] = price
	}
	if filter.Search != "" {
		query["name"] = bson.M{"$regex": filter.Search, "$options": "i"}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * filter.PageSize)).SetLimit(int64(filter.PageSize))
	}

	cursor, err := r.serviceColl.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("error decoding services: %w", err)
	}
	return services, nil
}

// CreateService inserts a new service document.
func (r *MongoCatalogRepo) CreateService(ctx context.Context, svc *models.Service) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	now := time.Now().UTC()
	svc.CreatedAt = now
	svc.UpdatedAt = now

	if _, err := r.serviceColl.InsertOne(ctx, svc); err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

// UpdateService modifies an existing service document.
func (r *MongoCatalogRepo) UpdateService(ctx context.Context, svc *models.Service) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	svc.UpdatedAt = time.Now().UTC()
	res, err := r.serviceColl.UpdateOne(ctx, bson.M{"id": svc.ID}, bson.M{"$set": svc})
	if err != nil {
		return fmt.Errorf("failed to update service with id %s: %w", svc.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("service with id %s not found", svc.ID)
	}
	return nil
}

// DeleteService removes a service document by ID.
func (r *MongoCatalogRepo) DeleteService(ctx context.Context, id string) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	res, err := r.serviceColl.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete service with id %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("service with id %s not found", id)
	}
	return nil
}

// SetServiceRating stores a recomputed rating aggregate.
func (r *MongoCatalogRepo) SetServiceRating(ctx context.Context, id string, rating float64, count int) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"rating":       rating,
		"rating_count": count,
		"updated_at":   time.Now().UTC(),
	}}
	if _, err := r.serviceColl.UpdateOne(ctx, bson.M{"id": id}, update); err != nil {
		return fmt.Errorf("failed to set rating for service %s: %w", id, err)
	}
	return nil
}

// GetCategory retrieves a category document by ID.
func (r *MongoCatalogRepo) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	var cat models.Category
	if err := r.categoryColl.FindOne(ctx, bson.M{"id": id}).Decode(&cat); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching category with id %s: %w", id, err)
	}
	return &cat, nil
}

// ListCategories retrieves all categories sorted by name.
func (r *MongoCatalogRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.categoryColl.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing categories: %w", err)
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("error decoding categories: %w", err)
	}
	return categories, nil
}

// CreateCategory inserts a new category document.
func (r *MongoCatalogRepo) CreateCategory(ctx context.Context, cat *models.Category) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	now := time.Now().UTC()
	cat.CreatedAt = now
	cat.UpdatedAt = now

	if _, err := r.categoryColl.InsertOne(ctx, cat); err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// UpdateCategory modifies an existing category document.
func (r *MongoCatalogRepo) UpdateCategory(ctx context.Context, cat *models.Category) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	cat.UpdatedAt = time.Now().UTC()
	res, err := r.categoryColl.UpdateOne(ctx, bson.M{"id": cat.ID}, bson.M{"$set": cat})
	if err != nil {
		return fmt.Errorf("failed to update category with id %s: %w", cat.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("category with id %s not found", cat.ID)
	}
	return nil
}

// DeleteCategory removes a category document by ID.
func (r *MongoCatalogRepo) DeleteCategory(ctx context.Context, id string) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	res, err := r.categoryColl.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete category with id %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("category with id %s not found", id)
	}
	return nil
}
