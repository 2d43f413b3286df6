package catalogRepo

import (
	"context"

	"servana/models"
)

// ServiceFilter narrows a service listing query. Zero values mean "no
// constraint".
type ServiceFilter struct {
	CategoryID string
	ProviderID string
	MinPrice   float64
	MaxPrice   float64
	Search     string
	Page       int
	PageSize   int
}

// CatalogRepository defines data access for services and categories.
type CatalogRepository interface {
	// GetService retrieves a service by ID, or nil if absent.
	GetService(ctx context.Context, id string) (*models.Service, error)
	// ListServices retrieves services matching the filter.
	ListServices(ctx context.Context, filter ServiceFilter) ([]models.Service, error)
	// CreateService inserts a new service record.
	CreateService(ctx context.Context, svc *models.Service) error
	// UpdateService modifies an existing service record.
	UpdateService(ctx context.Context, svc *models.Service) error
	// DeleteService removes a service record by ID.
	DeleteService(ctx context.Context, id string) error
	// SetServiceRating stores a recomputed service rating aggregate.
	SetServiceRating(ctx context.Context, id string, rating float64, count int) error

	// GetCategory retrieves a category by ID, or nil if absent.
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	// ListCategories retrieves all categories sorted by name.
	ListCategories(ctx context.Context) ([]models.Category, error)
	// CreateCategory inserts a new category record.
	CreateCategory(ctx context.Context, cat *models.Category) error
	// UpdateCategory modifies an existing category record.
	UpdateCategory(ctx context.Context, cat *models.Category) error
	// DeleteCategory removes a category record by ID.
	DeleteCategory(ctx context.Context, id string) error
}
