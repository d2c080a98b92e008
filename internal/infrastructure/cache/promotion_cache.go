package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apppromotion "github.com/sfa/backend/internal/application/promotion"
	"github.com/sfa/backend/internal/domain/promotion"
)

const (
	promotionKeyPrefix  = "promo:id:"
	promotionActiveKey  = "promo:active"
	defaultPromotionTTL = 5 * time.Minute
)

// RedisPromotionCache caches promotion aggregates in Redis.
// Reads go through the cache, writes to the promotion service invalidate it.
type RedisPromotionCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisPromotionCache connects to Redis and returns a promotion cache
func NewRedisPromotionCache(cfg RedisConfig, logger *zap.Logger) (*RedisPromotionCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultPromotionTTL
	}

	return &RedisPromotionCache{client: client, ttl: ttl, logger: logger}, nil
}

// NewRedisPromotionCacheWithClient wraps an existing Redis client
func NewRedisPromotionCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisPromotionCache {
	if ttl <= 0 {
		ttl = defaultPromotionTTL
	}
	return &RedisPromotionCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached promotion or nil on a miss. Cache errors are
// logged and treated as misses so Redis outages never block reads.
func (c *RedisPromotionCache) Get(ctx context.Context, id uuid.UUID) *promotion.Promotion {
	data, err := c.client.Get(ctx, promotionKeyPrefix+id.String()).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("promotion cache read failed", zap.Error(err))
		}
		return nil
	}

	var promo promotion.Promotion
	if err := json.Unmarshal(data, &promo); err != nil {
		c.logger.Warn("promotion cache entry corrupt, dropping",
			zap.String("promotion_id", id.String()), zap.Error(err))
		c.client.Del(ctx, promotionKeyPrefix+id.String())
		return nil
	}
	return &promo
}

// Set stores a promotion with the configured TTL
func (c *RedisPromotionCache) Set(ctx context.Context, promo *promotion.Promotion) {
	data, err := json.Marshal(promo)
	if err != nil {
		c.logger.Warn("promotion cache marshal failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, promotionKeyPrefix+promo.ID.String(), data, c.ttl).Err(); err != nil {
		c.logger.Warn("promotion cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached promotion and the active set
func (c *RedisPromotionCache) Invalidate(ctx context.Context, promotionID uuid.UUID) {
	if err := c.client.Del(ctx, promotionKeyPrefix+promotionID.String(), promotionActiveKey).Err(); err != nil {
		c.logger.Warn("promotion cache invalidation failed", zap.Error(err))
	}
}

// InvalidateAll drops every cached promotion
func (c *RedisPromotionCache) InvalidateAll(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, promotionKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("promotion cache scan failed", zap.Error(err))
	}
	c.client.Del(ctx, promotionActiveKey)
}

// Close closes the Redis client
func (c *RedisPromotionCache) Close() error {
	return c.client.Close()
}

// Ensure RedisPromotionCache satisfies the service's invalidation contract
var _ apppromotion.PromotionCache = (*RedisPromotionCache)(nil)

// CachedPromotionRepository is a read-through decorator over the promotion
// repository. FindByID consults Redis first, all writes pass through and
// invalidate.
type CachedPromotionRepository struct {
	promotion.Repository
	cache *RedisPromotionCache
}

// NewCachedPromotionRepository wraps a repository with the Redis cache
func NewCachedPromotionRepository(repo promotion.Repository, cache *RedisPromotionCache) *CachedPromotionRepository {
	return &CachedPromotionRepository{Repository: repo, cache: cache}
}

// FindByID returns the cached promotion when present
func (r *CachedPromotionRepository) FindByID(ctx context.Context, id uuid.UUID) (*promotion.Promotion, error) {
	if cached := r.cache.Get(ctx, id); cached != nil {
		return cached, nil
	}

	promo, err := r.Repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, promo)
	return promo, nil
}

// Save writes through and invalidates the cached entry
func (r *CachedPromotionRepository) Save(ctx context.Context, promo *promotion.Promotion) error {
	if err := r.Repository.Save(ctx, promo); err != nil {
		return err
	}
	r.cache.Invalidate(ctx, promo.ID)
	return nil
}

// Delete removes the promotion and its cached entry
func (r *CachedPromotionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.Repository.Delete(ctx, id); err != nil {
		return err
	}
	r.cache.Invalidate(ctx, id)
	return nil
}

// Ensure CachedPromotionRepository implements promotion.Repository
var _ promotion.Repository = (*CachedPromotionRepository)(nil)
