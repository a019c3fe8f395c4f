package service

import (
	"context"
	"errors"
	"log"

	"golang.org/x/sync/singleflight"

	"github.com/MarcsHandy/AfriFresh/internal/core/domain"
	"github.com/MarcsHandy/AfriFresh/internal/port"
)

// CatalogService fronts the product catalog with a cache. Lookups for the
// same product id collapse into a single source read under concurrency.
type CatalogService struct {
	source port.ProductCatalog
	cache  port.CatalogCache
	sfg    singleflight.Group // prevents cache stampede
}

func NewCatalogService(source port.ProductCatalog, cache port.CatalogCache) *CatalogService {
	return &CatalogService{
		source: source,
		cache:  cache,
	}
}

func (s *CatalogService) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	v, err, _ := s.sfg.Do(productID, func() (interface{}, error) {
		product, err := s.cache.Get(ctx, productID)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, port.ErrCacheMiss) {
			log.Printf("catalog cache get error: %v", err) // log cache error but continue
		}

		product, err = s.source.GetProduct(ctx, productID)
		if err != nil {
			return domain.Product{}, err
		}

		go func() {
			if err := s.cache.Set(context.Background(), product); err != nil {
				log.Printf("catalog cache set error: %v", err)
			}
		}()

		return product, nil
	})
	if err != nil {
		return domain.Product{}, err
	}
	return v.(domain.Product), nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.source.ListProducts(ctx)
}
