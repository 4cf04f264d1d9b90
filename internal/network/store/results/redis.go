// Package results provides ResultCache implementations for finished
// analyses: Redis for shared deployments, ristretto for a single process, and
// Postgres when results should be queryable alongside the grant data.
package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"grantnet/internal/network/models"
	"grantnet/pkg/platform/sentinel"
)

const redisKeyPrefix = "grantnet:"

// RedisCache stores JSON-encoded results with a Redis TTL.
type RedisCache struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed result cache.
func NewRedis(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*models.AnalysisResult, error) {
	payload, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get cached analysis: %w", sentinel.ErrUnavailable, err)
	}
	return decode(payload)
}

func (c *RedisCache) Set(ctx context.Context, key string, result *models.AnalysisResult, ttl time.Duration) error {
	payload, err := encode(result)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, redisKeyPrefix+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("%w: set cached analysis: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

func encode(result *models.AnalysisResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("analysis result is required")
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode analysis: %w", err)
	}
	return payload, nil
}

func decode(payload []byte) (*models.AnalysisResult, error) {
	var result models.AnalysisResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("decode cached analysis: %w", err)
	}
	return &result, nil
}
