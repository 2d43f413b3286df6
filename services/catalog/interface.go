package catalog

import (
	"context"
	"net/url"

	catalogRepo "servana/database/repository/catalog"
	"servana/models"
)

// CreateServiceRequest is the input for listing a new service.
type CreateServiceRequest struct {
	ProviderID  string  `json:"provider_id"`
	CategoryID  string  `json:"category_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
}

// UpdateServiceRequest carries the mutable service fields. Nil pointers
// leave the stored value untouched.
type UpdateServiceRequest struct {
	CategoryID  *string  `json:"category_id,omitempty"`
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Active      *bool    `json:"active,omitempty"`
}

// Service is the catalogue layer: provider service listings and the
// category tree, with cached reads and coarse invalidation on writes.
type Service interface {
	// GetService retrieves one service through the detail cache.
	GetService(ctx context.Context, id string) (*models.Service, error)
	// ListServices serves a filtered service listing through the cache.
	// The params are the raw query parameters the cache key derives from.
	ListServices(ctx context.Context, filter catalogRepo.ServiceFilter, params url.Values) ([]models.Service, error)
	// CreateService lists a new service for the acting provider.
	CreateService(ctx context.Context, req CreateServiceRequest) (*models.Service, error)
	// UpdateService modifies a service owned by actorID.
	UpdateService(ctx context.Context, serviceID, actorID string, req UpdateServiceRequest) (*models.Service, error)
	// DeleteService removes a service owned by actorID.
	DeleteService(ctx context.Context, serviceID, actorID string) error

	// ListCategories serves the category list through the cache.
	ListCategories(ctx context.Context) ([]models.Category, error)
	// CreateCategory adds a browsing category.
	CreateCategory(ctx context.Context, name, description string) (*models.Category, error)
	// UpdateCategory renames or re-describes a category.
	UpdateCategory(ctx context.Context, id, name, description string) (*models.Category, error)
	// DeleteCategory removes a category.
	DeleteCategory(ctx context.Context, id string) error
}
