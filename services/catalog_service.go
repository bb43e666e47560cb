package services

import (
	"context"
	"strings"

	apperrors "github.com/Bill-Pill/sunglasses-io/errors"
	"github.com/Bill-Pill/sunglasses-io/models"
	"github.com/Bill-Pill/sunglasses-io/repository"
	"go.uber.org/zap"
)

// CatalogService answers read-only catalog queries.
type CatalogService interface {
	Load(ctx context.Context, brands []models.Brand, products []models.Product)
	ListBrands(ctx context.Context) []models.Brand
	ListProductsForBrand(ctx context.Context, brandID string) ([]models.Product, error)
	SearchProducts(ctx context.Context, query string) ([]models.Product, error)
}

// SearchCache caches search results by normalized query.
type SearchCache interface {
	GetSearch(ctx context.Context, query string) ([]models.Product, bool)
	SetSearch(ctx context.Context, query string, products []models.Product)
	Invalidate(ctx context.Context) error
}

type catalogServiceImpl struct {
	repo   repository.CatalogRepository
	cache  SearchCache
	logger *zap.Logger
}

// NewCatalogService creates a CatalogService. cache may be nil.
func NewCatalogService(repo repository.CatalogRepository, cache SearchCache, logger *zap.Logger) CatalogService {
	return &catalogServiceImpl{repo: repo, cache: cache, logger: logger}
}

// Load replaces the catalog and drops any cached search results.
func (s *catalogServiceImpl) Load(ctx context.Context, brands []models.Brand, products []models.Product) {
	s.repo.Load(brands, products)
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("Failed to invalidate search cache", zap.Error(err))
	}
}

func (s *catalogServiceImpl) ListBrands(ctx context.Context) []models.Brand {
	return s.repo.Brands(ctx)
}

func (s *catalogServiceImpl) ListProductsForBrand(ctx context.Context, brandID string) ([]models.Product, error) {
	var matched []models.Product
	for _, p := range s.repo.Products(ctx) {
		if p.BrandID == brandID {
			matched = append(matched, p)
		}
	}
	if len(matched) == 0 {
		return nil, apperrors.ErrBrandNotFound
	}
	return matched, nil
}

// SearchProducts matches query case-insensitively against product name and
// description. An empty query returns the whole catalog.
func (s *catalogServiceImpl) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	if query == "" {
		return s.repo.Products(ctx), nil
	}

	key := strings.ToUpper(query)
	if s.cache != nil {
		if cached, ok := s.cache.GetSearch(ctx, key); ok {
			return cached, nil
		}
	}

	var matched []models.Product
	for _, p := range s.repo.Products(ctx) {
		if strings.Contains(strings.ToUpper(p.Name), key) || strings.Contains(strings.ToUpper(p.Description), key) {
			matched = append(matched, p)
		}
	}
	if len(matched) == 0 {
		return nil, apperrors.ErrNoMatch
	}

	if s.cache != nil {
		s.cache.SetSearch(ctx, key, matched)
	}
	return matched, nil
}
