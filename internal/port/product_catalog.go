package port

import (
	"context"
	"errors"

	"github.com/MarcsHandy/AfriFresh/internal/core/domain"
)

// ErrCacheMiss is returned by CatalogCache implementations when a product is
// not cached.
var ErrCacheMiss = errors.New("catalog cache miss")

type ProductCatalog interface {
	// GetProduct returns the catalog entry for a product id.
	GetProduct(ctx context.Context, productID string) (domain.Product, error)

	// ListProducts returns every catalog entry.
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

type CatalogCache interface {
	// Get returns a cached product entry, or ErrCacheMiss from the adapter.
	Get(ctx context.Context, productID string) (domain.Product, error)

	// Set stores a product entry with the adapter's TTL.
	Set(ctx context.Context, product domain.Product) error

	// Invalidate drops a cached entry; no-op if absent.
	Invalidate(ctx context.Context, productID string) error
}
