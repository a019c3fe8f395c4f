package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MarcsHandy/AfriFresh/internal/core/domain"
	"github.com/MarcsHandy/AfriFresh/internal/port"
)

// Mock ProductCatalog
type fakeCatalogSource struct {
	mu       sync.Mutex
	products map[string]domain.Product
	calls    int
	err      error
}

func (f *fakeCatalogSource) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.err != nil {
		return domain.Product{}, f.err
	}
	p, ok := f.products[productID]
	if !ok {
		return domain.Product{}, errors.New("product not found")
	}
	return p, nil
}

func (f *fakeCatalogSource) ListProducts(ctx context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	var products []domain.Product
	for _, p := range f.products {
		products = append(products, p)
	}
	return products, nil
}

func (f *fakeCatalogSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// Mock CatalogCache
type fakeCatalogCache struct {
	mu      sync.Mutex
	entries map[string]domain.Product
	getErr  error
}

func newFakeCatalogCache() *fakeCatalogCache {
	return &fakeCatalogCache{entries: make(map[string]domain.Product)}
}

func (f *fakeCatalogCache) Get(ctx context.Context, productID string) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return domain.Product{}, f.getErr
	}
	p, ok := f.entries[productID]
	if !ok {
		return domain.Product{}, port.ErrCacheMiss
	}
	return p, nil
}

func (f *fakeCatalogCache) Set(ctx context.Context, product domain.Product) error {
	f.mu.Lock()
	f.entries[product.ID] = product
	f.mu.Unlock()
	return nil
}

func (f *fakeCatalogCache) Invalidate(ctx context.Context, productID string) error {
	f.mu.Lock()
	delete(f.entries, productID)
	f.mu.Unlock()
	return nil
}

func (f *fakeCatalogCache) has(productID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.entries[productID]
	return ok
}

func TestGetProduct_CacheHitSkipsSource(t *testing.T) {
	source := &fakeCatalogSource{products: map[string]domain.Product{}}
	cache := newFakeCatalogCache()
	cache.Set(context.Background(), productA)

	svc := NewCatalogService(source, cache)

	p, err := svc.GetProduct(context.Background(), productA.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != productA.Name {
		t.Errorf("expected %s, got %s", productA.Name, p.Name)
	}
	if source.callCount() != 0 {
		t.Errorf("expected source untouched on cache hit, got %d calls", source.callCount())
	}
}

func TestGetProduct_CacheMissFallsThroughAndBackfills(t *testing.T) {
	source := &fakeCatalogSource{products: map[string]domain.Product{productA.ID: productA}}
	cache := newFakeCatalogCache()
	svc := NewCatalogService(source, cache)

	p, err := svc.GetProduct(context.Background(), productA.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != productA.ID {
		t.Errorf("expected %s, got %s", productA.ID, p.ID)
	}
	if source.callCount() != 1 {
		t.Errorf("expected 1 source call, got %d", source.callCount())
	}

	// Backfill happens out of band.
	ok := waitFor(t, time.Second, func() bool { return cache.has(productA.ID) })
	if !ok {
		t.Error("expected cache to be backfilled")
	}
}

func TestGetProduct_CacheErrorFallsThrough(t *testing.T) {
	source := &fakeCatalogSource{products: map[string]domain.Product{productA.ID: productA}}
	cache := newFakeCatalogCache()
	cache.getErr = errors.New("cache down")
	svc := NewCatalogService(source, cache)

	p, err := svc.GetProduct(context.Background(), productA.ID)
	if err != nil {
		t.Fatalf("expected fallthrough on cache error, got: %v", err)
	}
	if p.ID != productA.ID {
		t.Errorf("expected %s, got %s", productA.ID, p.ID)
	}
}

func TestGetProduct_SourceErrorPropagates(t *testing.T) {
	source := &fakeCatalogSource{err: errors.New("catalog unavailable")}
	svc := NewCatalogService(source, newFakeCatalogCache())

	_, err := svc.GetProduct(context.Background(), "anything")
	if err == nil || err.Error() != "catalog unavailable" {
		t.Errorf("expected source error, got: %v", err)
	}
}
