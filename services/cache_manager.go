package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Bill-Pill/sunglasses-io/models"
	awspkg "github.com/Bill-Pill/sunglasses-io/pkg/aws"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	SearchCachePrefix = "catalog:search:v:"
	CacheVersionKey   = "catalog:version"

	DefaultCacheTTL = 10 * time.Minute
)

// CacheManager caches catalog search results in Redis under versioned keys.
// Bumping the version orphans every earlier entry, which then expire by TTL.
type CacheManager struct {
	redis   *redis.Client
	ttl     time.Duration
	metrics MetricsRecorder
	logger  *zap.Logger
}

func NewCacheManager(client *redis.Client, ttl time.Duration, metrics MetricsRecorder, logger *zap.Logger) *CacheManager {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &CacheManager{redis: client, ttl: ttl, metrics: metrics, logger: logger}
}

// GetSearch returns cached results for query. Any Redis failure is a miss.
func (cm *CacheManager) GetSearch(ctx context.Context, query string) ([]models.Product, bool) {
	version, err := cm.getCacheVersion(ctx)
	if err != nil {
		cm.logger.Debug("Search cache unavailable", zap.Error(err))
		return nil, false
	}

	data, err := cm.redis.Get(ctx, cm.searchKey(version, query)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			cm.logger.Warn("Failed to read search cache", zap.Error(err))
		}
		_ = cm.metrics.RecordCount(ctx, awspkg.MetricCacheMisses, nil)
		return nil, false
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		cm.logger.Warn("Failed to unmarshal cached search", zap.Error(err))
		return nil, false
	}
	_ = cm.metrics.RecordCount(ctx, awspkg.MetricCacheHits, nil)
	return products, true
}

// SetSearch stores results for query. Failures are logged only.
func (cm *CacheManager) SetSearch(ctx context.Context, query string, products []models.Product) {
	version, err := cm.getCacheVersion(ctx)
	if err != nil {
		return
	}

	data, err := json.Marshal(products)
	if err != nil {
		cm.logger.Warn("Failed to marshal search results for cache", zap.Error(err))
		return
	}

	if err := cm.redis.Set(ctx, cm.searchKey(version, query), data, cm.ttl).Err(); err != nil {
		cm.logger.Warn("Failed to cache search results", zap.Error(err))
	}
}

// Invalidate bumps the cache version.
func (cm *CacheManager) Invalidate(ctx context.Context) error {
	newVersion, err := cm.redis.Incr(ctx, CacheVersionKey).Result()
	if err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	cm.logger.Info("Search cache invalidated", zap.Int64("new_version", newVersion))
	return nil
}

func (cm *CacheManager) getCacheVersion(ctx context.Context) (int64, error) {
	ver, err := cm.redis.Get(ctx, CacheVersionKey).Int64()
	if err == nil {
		return ver, nil
	}
	if !errors.Is(err, redis.Nil) {
		return 0, err
	}
	if err := cm.redis.SetNX(ctx, CacheVersionKey, 1, 0).Err(); err != nil {
		return 0, err
	}
	return cm.redis.Get(ctx, CacheVersionKey).Int64()
}

func (cm *CacheManager) searchKey(version int64, query string) string {
	return fmt.Sprintf("%s%d:q:%s", SearchCachePrefix, version, query)
}
