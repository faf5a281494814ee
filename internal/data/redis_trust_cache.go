package data

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stumbleable/jobs/internal/domain/model"
)

// DefaultTrustCacheTTL bounds how stale a cached trust score can get between
// recompute runs.
const DefaultTrustCacheTTL = 15 * time.Minute

// RedisTrustCache implements the TrustScoreCache interface using Redis.
type RedisTrustCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisTrustCache creates a new RedisTrustCache with the given Redis
// client. A non-positive ttl falls back to DefaultTrustCacheTTL.
func NewRedisTrustCache(client redis.UniversalClient, ttl time.Duration) *RedisTrustCache {
	if ttl <= 0 {
		ttl = DefaultTrustCacheTTL
	}
	return &RedisTrustCache{client: client, ttl: ttl}
}

func trustCacheKey(scope model.TrustScope, key string) string {
	return fmt.Sprintf("trust:%s:%s", scope, key)
}

// Get retrieves a cached score. The second return is false on a cache miss.
func (c *RedisTrustCache) Get(
	ctx context.Context,
	scope model.TrustScope,
	key string,
) (float64, bool, error) {
	if key == "" {
		return 0, false, errors.New("subject key cannot be empty")
	}

	result, err := c.client.Get(ctx, trustCacheKey(scope, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("redis get: %w", err)
	}

	score, err := strconv.ParseFloat(result, 64)
	if err != nil {
		// A corrupt value is treated as a miss so the caller recomputes.
		return 0, false, nil
	}
	return score, true, nil
}

// Set caches a score under the cache TTL.
func (c *RedisTrustCache) Set(
	ctx context.Context,
	scope model.TrustScope,
	key string,
	score float64,
) error {
	if key == "" {
		return errors.New("subject key cannot be empty")
	}

	value := strconv.FormatFloat(score, 'f', -1, 64)
	if err := c.client.Set(ctx, trustCacheKey(scope, key), value, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate evicts a cached score, e.g. after an admin override.
func (c *RedisTrustCache) Invalidate(
	ctx context.Context,
	scope model.TrustScope,
	key string,
) error {
	if key == "" {
		return errors.New("subject key cannot be empty")
	}

	if err := c.client.Del(ctx, trustCacheKey(scope, key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Health checks the health of the Redis connection.
func (c *RedisTrustCache) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// RedisConfig holds configuration for the Redis connection.
type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// DefaultRedisConfig returns a RedisConfig with sensible defaults.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr: "localhost:6379",
		DB:   0,
	}
}

// NewRedisClient creates a new Redis client with the given configuration.
func NewRedisClient(cfg RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
