package catalog

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"servana/cache"
	catalogRepo "servana/database/repository/catalog"
	"servana/models"
	"servana/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeCatalogRepo is an in-memory CatalogRepository that counts listing
// queries so tests can observe cache hits.
type fakeCatalogRepo struct {
	mu           sync.Mutex
	services     map[string]*models.Service
	categories   map[string]*models.Category
	listServices int
	listCats     int
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		services:   make(map[string]*models.Service),
		categories: make(map[string]*models.Category),
	}
}

func (f *fakeCatalogRepo) GetService(_ context.Context, id string) (*models.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	svc, ok := f.services[id]
	if !ok {
		return nil, nil
	}
	copied := *svc
	return &copied, nil
}

func (f *fakeCatalogRepo) ListServices(_ context.Context, filter catalogRepo.ServiceFilter) ([]models.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listServices++
	var out []models.Service
	for _, svc := range f.services {
		if filter.CategoryID != "" && svc.CategoryID != filter.CategoryID {
			continue
		}
		if filter.ProviderID != "" && svc.ProviderID != filter.ProviderID {
			continue
		}
		if filter.MinPrice > 0 && svc.Price < filter.MinPrice {
			continue
		}
		if filter.MaxPrice > 0 && svc.Price > filter.MaxPrice {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(svc.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, *svc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCatalogRepo) CreateService(_ context.Context, svc *models.Service) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *svc
	f.services[svc.ID] = &copied
	return nil
}

func (f *fakeCatalogRepo) UpdateService(_ context.Context, svc *models.Service) error {
	return f.CreateService(context.Background(), svc)
}

func (f *fakeCatalogRepo) DeleteService(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.services, id)
	return nil
}

func (f *fakeCatalogRepo) SetServiceRating(_ context.Context, id string, rating float64, count int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if svc, ok := f.services[id]; ok {
		svc.Rating = rating
		svc.RatingCount = count
	}
	return nil
}

func (f *fakeCatalogRepo) GetCategory(_ context.Context, id string) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cat, ok := f.categories[id]
	if !ok {
		return nil, nil
	}
	copied := *cat
	return &copied, nil
}

func (f *fakeCatalogRepo) ListCategories(_ context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCats++
	var out []models.Category
	for _, cat := range f.categories {
		out = append(out, *cat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCatalogRepo) CreateCategory(_ context.Context, cat *models.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *cat
	f.categories[cat.ID] = &copied
	return nil
}

func (f *fakeCatalogRepo) UpdateCategory(_ context.Context, cat *models.Category) error {
	return f.CreateCategory(context.Background(), cat)
}

func (f *fakeCatalogRepo) DeleteCategory(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.categories, id)
	return nil
}

func (f *fakeCatalogRepo) listServiceCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listServices
}

type catalogEnv struct {
	svc  *DefaultCatalogService
	repo *fakeCatalogRepo
}

func newCatalogEnv(t *testing.T) *catalogEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := newFakeCatalogRepo()
	svc := &DefaultCatalogService{
		Repo:     repo,
		Cache:    cache.NewStoreWithClient(client, zap.NewNop()),
		CacheTTL: time.Minute,
		Logger:   zap.NewNop(),
	}
	return &catalogEnv{svc: svc, repo: repo}
}

func TestCreateAndGetService(t *testing.T) {
	env := newCatalogEnv(t)
	ctx := context.Background()

	created, err := env.svc.CreateService(ctx, CreateServiceRequest{
		ProviderID: "prov-1",
		Name:       "Deep cleaning",
		Price:      7500,
		Currency:   "NGN",
	})
	require.NoError(t, err)
	assert.True(t, created.Active)

	got, err := env.svc.GetService(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Deep cleaning", got.Name)

	_, err = env.svc.GetService(ctx, "missing")
	assert.Equal(t, utils.KindNotFound, utils.ErrorKindOf(err))
}

func TestCreateServiceValidation(t *testing.T) {
	env := newCatalogEnv(t)
	ctx := context.Background()

	_, err := env.svc.CreateService(ctx, CreateServiceRequest{ProviderID: "prov-1"})
	assert.Equal(t, utils.KindValidationFailed, utils.ErrorKindOf(err))

	_, err = env.svc.CreateService(ctx, CreateServiceRequest{
		ProviderID: "prov-1", Name: "x", Price: -1,
	})
	assert.Equal(t, utils.KindValidationFailed, utils.ErrorKindOf(err))

	_, err = env.svc.CreateService(ctx, CreateServiceRequest{
		ProviderID: "prov-1", Name: "x", CategoryID: "nope",
	})
	assert.Equal(t, utils.KindValidationFailed, utils.ErrorKindOf(err))
}

func TestListServicesUsesCache(t *testing.T) {
	env := newCatalogEnv(t)
	ctx := context.Background()

	_, err := env.svc.CreateService(ctx, CreateServiceRequest{
		ProviderID: "prov-1", Name: "Plumbing", Price: 3000, Currency: "NGN",
	})
	require.NoError(t, err)

	params := url.Values{"provider_id": {"prov-1"}}
	filter := catalogRepo.ServiceFilter{ProviderID: "prov-1"}

	first, err := env.svc.ListServices(ctx, filter, params)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, env.repo.listServiceCalls())

	// Same logical query again: served from cache.
	second, err := env.svc.ListServices(ctx, filter, params)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, 1, env.repo.listServiceCalls())
}

func TestWriteInvalidatesServiceListings(t *testing.T) {
	env := newCatalogEnv(t)
	ctx := context.Background()

	created, err := env.svc.CreateService(ctx, CreateServiceRequest{
		ProviderID: "prov-1", Name: "Plumbing", Price: 3000, Currency: "NGN",
	})
	require.NoError(t, err)

	params := url.Values{}
	listed, err := env.svc.ListServices(ctx, catalogRepo.ServiceFilter{}, params)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	newPrice := 4500.0
	_, err = env.svc.UpdateService(ctx, created.ID, "prov-1", UpdateServiceRequest{Price: &newPrice})
	require.NoError(t, err)

	// The write dropped the topic, so the next read recomputes.
	listed, err = env.svc.ListServices(ctx, catalogRepo.ServiceFilter{}, params)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, 4500.0, listed[0].Price)

	got, err := env.svc.GetService(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 4500.0, got.Price)
}

func TestUpdateServiceOwnership(t *testing.T) {
	env := newCatalogEnv(t)
	ctx := context.Background()

	created, err := env.svc.CreateService(ctx, CreateServiceRequest{
		ProviderID: "prov-1", Name: "Plumbing", Price: 3000, Currency: "NGN",
	})
	require.NoError(t, err)

	name := "Emergency plumbing"
	_, err = env.svc.UpdateService(ctx, created.ID, "prov-2", UpdateServiceRequest{Name: &name})
	assert.Equal(t, utils.KindForbidden, utils.ErrorKindOf(err))

	err = env.svc.DeleteService(ctx, created.ID, "prov-2")
	assert.Equal(t, utils.KindForbidden, utils.ErrorKindOf(err))

	require.NoError(t, env.svc.DeleteService(ctx, created.ID, "prov-1"))
	_, err = env.svc.GetService(ctx, created.ID)
	assert.Equal(t, utils.KindNotFound, utils.ErrorKindOf(err))
}

func TestCategoryLifecycle(t *testing.T) {
	env := newCatalogEnv(t)
	ctx := context.Background()

	cat, err := env.svc.CreateCategory(ctx, "Cleaning", "Home and office cleaning")
	require.NoError(t, err)

	cats, err := env.svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)

	updated, err := env.svc.UpdateCategory(ctx, cat.ID, "Cleaning & laundry", "")
	require.NoError(t, err)
	assert.Equal(t, "Cleaning & laundry", updated.Name)

	// The rename dropped the cached list.
	cats, err = env.svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Cleaning & laundry", cats[0].Name)

	require.NoError(t, env.svc.DeleteCategory(ctx, cat.ID))
	cats, err = env.svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)

	err = env.svc.DeleteCategory(ctx, cat.ID)
	assert.Equal(t, utils.KindNotFound, utils.ErrorKindOf(err))
}
