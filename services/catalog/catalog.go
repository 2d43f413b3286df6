package catalog

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"servana/cache"
	catalogRepo "servana/database/repository/catalog"
	"servana/models"
	"servana/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultCatalogService implements Service on the Mongo catalog repository.
// Reads go through the Redis side-cache; every write invalidates the whole
// affected topic synchronously before returning, so a successful write is
// never followed by a stale cached read of the old state.
type DefaultCatalogService struct {
	Repo     catalogRepo.CatalogRepository
	Cache    *cache.Store
	CacheTTL time.Duration
	Logger   *zap.Logger
}

// GetService retrieves one service through the detail cache.
func (s *DefaultCatalogService) GetService(ctx context.Context, id string) (*models.Service, error) {
	key := cache.DetailKey(cache.TopicServices, id)
	svc, _, err := cache.WithCache(ctx, s.Cache, key, s.CacheTTL,
		func(ctx context.Context) (*models.Service, error) {
			return s.Repo.GetService(ctx, id)
		})
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, utils.NewNotFoundError(fmt.Sprintf("service %s not found", id))
	}
	return svc, nil
}

// ListServices serves a filtered listing through the cache. The key is
// derived from the raw query parameters, so equivalent requests share an
// entry regardless of parameter order.
func (s *DefaultCatalogService) ListServices(ctx context.Context, filter catalogRepo.ServiceFilter, params url.Values) ([]models.Service, error) {
	key := cache.ListingKey(cache.TopicServices, params, "")
	services, _, err := cache.WithCache(ctx, s.Cache, key, s.CacheTTL,
		func(ctx context.Context) ([]models.Service, error) {
			return s.Repo.ListServices(ctx, filter)
		})
	return services, err
}

// CreateService lists a new service and drops the services topic from cache.
func (s *DefaultCatalogService) CreateService(ctx context.Context, req CreateServiceRequest) (*models.Service, error) {
	if req.ProviderID == "" || req.Name == "" {
		return nil, utils.NewValidationError("provider and name are required")
	}
	if req.Price < 0 {
		return nil, utils.NewValidationError("price cannot be negative")
	}
	if req.CategoryID != "" {
		cat, err := s.Repo.GetCategory(ctx, req.CategoryID)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, utils.NewValidationError(fmt.Sprintf("category %s not found", req.CategoryID))
		}
	}

	now := time.Now().UTC()
	svc := &models.Service{
		ID:          uuid.New().String(),
		ProviderID:  req.ProviderID,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.CreateService(ctx, svc); err != nil {
		return nil, err
	}
	s.Cache.Invalidate(ctx, cache.TopicServices)
	return svc, nil
}

// UpdateService applies the changed fields to a service the actor owns.
func (s *DefaultCatalogService) UpdateService(ctx context.Context, serviceID, actorID string, req UpdateServiceRequest) (*models.Service, error) {
	svc, err := s.mustGetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if svc.ProviderID != actorID {
		return nil, utils.NewForbiddenError("only the owning provider may modify a service")
	}

	if req.CategoryID != nil {
		svc.CategoryID = *req.CategoryID
	}
	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, utils.NewValidationError("price cannot be negative")
		}
		svc.Price = *req.Price
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}
	svc.UpdatedAt = time.Now().UTC()

	if err := s.Repo.UpdateService(ctx, svc); err != nil {
		return nil, err
	}
	s.Cache.Invalidate(ctx, cache.TopicServices)
	return svc, nil
}

// DeleteService removes a service the actor owns.
func (s *DefaultCatalogService) DeleteService(ctx context.Context, serviceID, actorID string) error {
	svc, err := s.mustGetService(ctx, serviceID)
	if err != nil {
		return err
	}
	if svc.ProviderID != actorID {
		return utils.NewForbiddenError("only the owning provider may delete a service")
	}
	if err := s.Repo.DeleteService(ctx, serviceID); err != nil {
		return err
	}
	s.Cache.Invalidate(ctx, cache.TopicServices)
	return nil
}

// ListCategories serves the category list through the cache.
func (s *DefaultCatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	key := cache.ListingKey(cache.TopicCategories, nil, "")
	cats, _, err := cache.WithCache(ctx, s.Cache, key, s.CacheTTL,
		func(ctx context.Context) ([]models.Category, error) {
			return s.Repo.ListCategories(ctx)
		})
	return cats, err
}

// CreateCategory adds a category and drops the categories topic.
func (s *DefaultCatalogService) CreateCategory(ctx context.Context, name, description string) (*models.Category, error) {
	if name == "" {
		return nil, utils.NewValidationError("category name is required")
	}
	now := time.Now().UTC()
	cat := &models.Category{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}
	s.Cache.Invalidate(ctx, cache.TopicCategories)
	return cat, nil
}

// UpdateCategory renames or re-describes a category.
func (s *DefaultCatalogService) UpdateCategory(ctx context.Context, id, name, description string) (*models.Category, error) {
	cat, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, utils.NewNotFoundError(fmt.Sprintf("category %s not found", id))
	}
	if name != "" {
		cat.Name = name
	}
	if description != "" {
		cat.Description = description
	}
	cat.UpdatedAt = time.Now().UTC()
	if err := s.Repo.UpdateCategory(ctx, cat); err != nil {
		return nil, err
	}
	s.Cache.Invalidate(ctx, cache.TopicCategories)
	return cat, nil
}

// DeleteCategory removes a category. Services keep their category_id; the
// dangling reference only stops resolving in listings.
func (s *DefaultCatalogService) DeleteCategory(ctx context.Context, id string) error {
	cat, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	if cat == nil {
		return utils.NewNotFoundError(fmt.Sprintf("category %s not found", id))
	}
	if err := s.Repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.Cache.Invalidate(ctx, cache.TopicCategories, cache.TopicServices)
	return nil
}

func (s *DefaultCatalogService) mustGetService(ctx context.Context, id string) (*models.Service, error) {
	svc, err := s.Repo.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, utils.NewNotFoundError(fmt.Sprintf("service %s not found", id))
	}
	return svc, nil
}
