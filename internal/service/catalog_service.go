package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"farmstore/internal/models"
	"farmstore/internal/util"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CatalogStore is the read-only product access the catalog needs.
type CatalogStore interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context, category string) ([]models.Product, error)
	RandomProducts(ctx context.Context, limit int) ([]models.Product, error)
	SimilarProducts(ctx context.Context, productID int64, category string, limit int) ([]models.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

// CatalogCache caches list queries. Pass nil to disable caching.
type CatalogCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// CatalogService is the read path over the product catalog. Browsing
// surfaces exclude out-of-stock products; GetByID does not, so direct
// links to sold-out products keep working.
type CatalogService struct {
	store    CatalogStore
	cache    CatalogCache
	cacheTTL time.Duration
	collator *collate.Collator
	logger   *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store CatalogStore, cache CatalogCache, cacheTTL time.Duration) *CatalogService {
	return &CatalogService{
		store:    store,
		cache:    cache,
		cacheTTL: cacheTTL,
		collator: collate.New(language.Russian),
		logger:   util.GetLogger(),
	}
}

// List returns in-stock products, optionally filtered by category and
// sorted. Results are cached keyed by the query parameters; the order
// engine never reads through this method, so stale stock judgments
// cannot reach checkout.
func (s *CatalogService) List(ctx context.Context, category, sortBy string) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.List")
	defer span.End()

	cacheKey := fmt.Sprintf("products:list:%s:%s", category, sortBy)
	if s.cache != nil {
		var cached []models.Product
		hit, err := s.cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			s.logger.Warn("Catalog cache read failed", zap.Error(err))
		} else if hit {
			util.CatalogCacheHits.Inc()
			return cached, nil
		}
		util.CatalogCacheMisses.Inc()
	}

	all, err := s.store.ListProducts(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]models.Product, 0, len(all))
	for _, p := range all {
		if p.InStock() {
			products = append(products, p)
		}
	}

	s.sortProducts(products, sortBy)

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, products, s.cacheTTL); err != nil {
			s.logger.Warn("Catalog cache write failed", zap.Error(err))
		}
	}

	return products, nil
}

// sortProducts sorts in place. No sortBy keeps catalog insertion order.
func (s *CatalogService) sortProducts(products []models.Product, sortBy string) {
	switch sortBy {
	case models.SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	case models.SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price > products[j].Price })
	case models.SortName:
		sort.SliceStable(products, func(i, j int) bool {
			return s.collator.CompareString(products[i].Title, products[j].Title) < 0
		})
	}
}

// GetByID returns a product or nil when absent. Never cached.
func (s *CatalogService) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.GetByID")
	defer span.End()

	return s.store.GetProductByID(ctx, id)
}

// Random returns a random sample of in-stock products.
func (s *CatalogService) Random(ctx context.Context, limit int) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.Random")
	defer span.End()

	if limit <= 0 {
		limit = 9
	}
	return s.store.RandomProducts(ctx, limit)
}

// Similar returns in-stock products from the same category, never
// including the anchor product itself.
func (s *CatalogService) Similar(ctx context.Context, productID int64, category string, limit int) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.Similar")
	defer span.End()

	if limit <= 0 {
		limit = 4
	}
	products, err := s.store.SimilarProducts(ctx, productID, category, limit)
	if err != nil {
		return nil, err
	}
	out := products[:0]
	for _, p := range products {
		if p.ID != productID {
			out = append(out, p)
		}
	}
	return out, nil
}

// Categories returns the distinct product categories.
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.Categories")
	defer span.End()

	return s.store.Categories(ctx)
}
