package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	appErrors "github.com/easyapps/poly-schedule-api/pkg/errors"
)

// CacheRepository stores JSON-encoded values in Redis with a TTL.
type CacheRepository struct {
	client *redis.Client
}

// NewCacheRepository creates a new instance of CacheRepository.
func NewCacheRepository(client *redis.Client) *CacheRepository {
	return &CacheRepository{client: client}
}

// Get loads and decodes the value stored under key into dest.
// Returns ErrCacheMiss when the key is absent or no client is wired.
func (r *CacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	if r == nil || r.client == nil {
		return appErrors.ErrCacheMiss
	}
	payload, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return appErrors.ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("cache decode %s: %w", key, err)
	}
	return nil
}

// Set encodes value as JSON and stores it under key for ttl.
func (r *CacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if r == nil || r.client == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := r.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}
