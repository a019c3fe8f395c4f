package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MarcsHandy/AfriFresh/internal/core/domain"
	"github.com/MarcsHandy/AfriFresh/internal/port"
)

const (
	productKeyPrefix = "product:"
	productTTL       = time.Hour
)

// RedisAdapter caches catalog entries as JSON under product:<id>.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) Get(ctx context.Context, productID string) (domain.Product, error) {
	key := productKeyPrefix + productID

	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Product{}, port.ErrCacheMiss
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("cache get %s: %w", key, err)
	}

	var p domain.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.Product{}, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return p, nil
}

func (r *RedisAdapter) Set(ctx context.Context, product domain.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", product.ID, err)
	}
	return r.client.Set(ctx, productKeyPrefix+product.ID, data, productTTL).Err()
}

func (r *RedisAdapter) Invalidate(ctx context.Context, productID string) error {
	return r.client.Del(ctx, productKeyPrefix+productID).Err()
}

// Seed preloads catalog entries without expiry, used at startup.
func (r *RedisAdapter) Seed(ctx context.Context, products []domain.Product) error {
	for _, p := range products {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("cache encode %s: %w", p.ID, err)
		}
		if err := r.client.Set(ctx, productKeyPrefix+p.ID, data, 0).Err(); err != nil {
			return fmt.Errorf("cache seed %s: %w", p.ID, err)
		}
	}
	return nil
}
