package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"storefront_server/catalog"
	"storefront_server/structs"
	"storefront_server/structs/tables"
	"strconv"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
)

var redisCtx = context.Background()

const (
	productKeyPrefix     = "products:item:"
	productListKeyPrefix = "products:list:"
	productTypesKey      = "products:types"
	settingsKey          = "settings:site"
	rateLimitKeyPrefix   = "ratelimit:"
)

// CacheService is a redis read-through cache. A service built without a
// client is disabled: reads miss and writes are dropped.
type CacheService struct {
	logger *gecho.Logger
	config *structs.CacheConfig
	client *redis.Client
}

func NewCacheService(logger *gecho.Logger, cfg *structs.CacheConfig, client *redis.Client) *CacheService {
	if cfg == nil {
		cfg = &structs.CacheConfig{}
	}
	return &CacheService{
		logger: logger,
		config: cfg,
		client: client,
	}
}

// NewRedisClient builds a pooled client from the cache configuration.
func NewRedisClient(cfg *structs.CacheConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,

		PoolSize: cfg.PoolSize,

		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,

		MaxRetryBackoff: cfg.MaxRetryBackoff,
	})
}

func (cs *CacheService) Enabled() bool {
	return cs != nil && cs.client != nil
}

func (cs *CacheService) Close() error {
	if !cs.Enabled() {
		return nil
	}
	return cs.client.Close()
}

// withRetry retries transient redis failures with jittered exponential backoff.
func (cs *CacheService) withRetry(operation func() error) error {
	maxRetries := max(cs.config.RetryAttempts, 0)
	base := cs.config.RetryDelay
	if base <= 0 {
		base = 50 * time.Millisecond
	}
	maxBackoff := cs.config.MaxRetryBackoff
	if maxBackoff <= 0 {
		maxBackoff = 2 * time.Second
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == maxRetries || !isRetryableCacheError(err) {
			break
		}

		backoff := min(base<<attempt, maxBackoff)
		// jitter in [backoff/2, backoff]
		time.Sleep(backoff/2 + rand.N(backoff/2+1))
	}

	return fmt.Errorf("redis operation failed: %w", lastErr)
}

func isRetryableCacheError(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}

	errStr := err.Error()
	for _, retryable := range []string{
		"connection refused",
		"connection reset",
		"timeout",
		"broken pipe",
		"no such host",
		"network is unreachable",
	} {
		if strings.Contains(errStr, retryable) {
			return true
		}
	}
	return false
}

func (cs *CacheService) Set(key string, value any, ttl time.Duration) error {
	if !cs.Enabled() {
		return nil
	}
	return cs.withRetry(func() error {
		return cs.client.Set(redisCtx, key, value, ttl).Err()
	})
}

// Get returns "" for a missing key.
func (cs *CacheService) Get(key string) (string, error) {
	if !cs.Enabled() {
		return "", nil
	}

	var result string
	err := cs.withRetry(func() error {
		val, err := cs.client.Get(redisCtx, key).Result()
		if errors.Is(err, redis.Nil) {
			result = ""
			return nil
		}
		if err != nil {
			return err
		}
		result = val
		return nil
	})
	return result, err
}

func (cs *CacheService) Delete(keys ...string) error {
	if !cs.Enabled() || len(keys) == 0 {
		return nil
	}
	return cs.withRetry(func() error {
		return cs.client.Del(redisCtx, keys...).Err()
	})
}

// DeletePattern removes all keys matching a pattern using SCAN
func (cs *CacheService) DeletePattern(pattern string) error {
	if !cs.Enabled() {
		return nil
	}
	return cs.withRetry(func() error {
		var cursor uint64
		for {
			keys, nextCursor, err := cs.client.Scan(redisCtx, cursor, pattern, 100).Result()
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}
			if len(keys) > 0 {
				if err := cs.client.Del(redisCtx, keys...).Err(); err != nil {
					return fmt.Errorf("delete failed: %w", err)
				}
			}
			cursor = nextCursor
			if cursor == 0 {
				return nil
			}
		}
	})
}

func (cs *CacheService) ClearAll() error {
	if !cs.Enabled() {
		return nil
	}
	return cs.withRetry(func() error {
		return cs.client.FlushDB(redisCtx).Err()
	})
}

func (cs *CacheService) Ping() error {
	if !cs.Enabled() {
		return errors.New("cache disabled")
	}
	return cs.withRetry(func() error {
		return cs.client.Ping(redisCtx).Err()
	})
}

// GetConnectionStats returns Redis connection pool statistics
func (cs *CacheService) GetConnectionStats() map[string]any {
	if !cs.Enabled() {
		return map[string]any{"enabled": false}
	}
	stats := cs.client.PoolStats()
	return map[string]any{
		"enabled":     true,
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
		"stale_conns": stats.StaleConns,
	}
}

// IncrementRateLimit atomically increments the counter for client and
// starts its window on the first hit.
func (cs *CacheService) IncrementRateLimit(client string, window time.Duration) (int, error) {
	if !cs.Enabled() {
		return 0, nil
	}
	key := rateLimitKeyPrefix + client

	var result int64
	err := cs.withRetry(func() error {
		val, err := cs.client.Incr(redisCtx, key).Result()
		if err != nil {
			return err
		}
		result = val
		if val == 1 {
			return cs.client.Expire(redisCtx, key, window).Err()
		}
		return nil
	})
	return int(result), err
}

// ProductListKey derives the cache key of a listing. generation changes on
// every catalog write, so keys from before a write are never read again.
func ProductListKey(generation uint64, q *catalog.Query) string {
	data, _ := json.Marshal(q)
	return productListKeyPrefix + strconv.FormatUint(generation, 10) + ":" + strconv.FormatUint(xxhash.Sum64(data), 16)
}

// ProductKey is the cache key of one product at a catalog generation.
func ProductKey(generation uint64, id string) string {
	return productKeyPrefix + strconv.FormatUint(generation, 10) + ":" + id
}

func productTypesKeyAt(generation uint64) string {
	return productTypesKey + ":" + strconv.FormatUint(generation, 10)
}

func (cs *CacheService) GetProductList(key string) (*catalog.Page, error) {
	return getJSON[catalog.Page](cs, "product_list", key)
}

func (cs *CacheService) SetProductList(key string, page *catalog.Page) error {
	return setJSON(cs, key, page, cs.ttl(cs.config.ProductListTTL, 2*time.Minute))
}

func (cs *CacheService) GetProduct(generation uint64, id string) (*tables.Product, error) {
	return getJSON[tables.Product](cs, "product", ProductKey(generation, id))
}

// SetProduct stores product under the generation its read started at. A
// read that races a write lands on a generation nobody asks for anymore.
func (cs *CacheService) SetProduct(generation uint64, product *tables.Product) error {
	return setJSON(cs, ProductKey(generation, product.ID), product, cs.ttl(cs.config.ProductTTL, 10*time.Minute))
}

func (cs *CacheService) GetProductTypes(generation uint64) ([]string, error) {
	types, err := getJSON[[]string](cs, "product_types", productTypesKeyAt(generation))
	if err != nil || types == nil {
		return nil, err
	}
	return *types, nil
}

func (cs *CacheService) SetProductTypes(generation uint64, types []string) error {
	return setJSON(cs, productTypesKeyAt(generation), types, cs.ttl(cs.config.ProductListTTL, 2*time.Minute))
}

// InvalidateProductCaches drops the cached entries of productID, or of every
// product when it is empty, along with all derived listings and facets.
func (cs *CacheService) InvalidateProductCaches(productID string) error {
	if !cs.Enabled() {
		return nil
	}
	itemPattern := productKeyPrefix + "*"
	if productID != "" {
		itemPattern = productKeyPrefix + "*:" + productID
	}
	return errors.Join(
		cs.DeletePattern(itemPattern),
		cs.DeletePattern(productListKeyPrefix+"*"),
		cs.DeletePattern(productTypesKey+":*"),
	)
}

func (cs *CacheService) GetSettings() (structs.SiteSettings, error) {
	settings, err := getJSON[structs.SiteSettings](cs, "settings", settingsKey)
	if err != nil || settings == nil {
		return nil, err
	}
	return *settings, nil
}

func (cs *CacheService) SetSettings(settings structs.SiteSettings) error {
	return setJSON(cs, settingsKey, settings, cs.ttl(cs.config.SettingsTTL, 10*time.Minute))
}

func (cs *CacheService) InvalidateSettings() error {
	return cs.Delete(settingsKey)
}

func (cs *CacheService) ttl(configured, fallback time.Duration) time.Duration {
	if configured > 0 {
		return configured
	}
	return fallback
}

func setJSON[T any](cs *CacheService, key string, value T, ttl time.Duration) error {
	if !cs.Enabled() {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return cs.Set(key, data, ttl)
}

// getJSON returns nil, nil on a miss and records the lookup result.
func getJSON[T any](cs *CacheService, cache, key string) (*T, error) {
	if !cs.Enabled() {
		return nil, nil
	}

	val, err := cs.Get(key)
	if err != nil {
		CacheRequestsTotal.WithLabelValues(cache, "error").Inc()
		return nil, err
	}
	if val == "" {
		CacheRequestsTotal.WithLabelValues(cache, "miss").Inc()
		return nil, nil
	}

	var result T
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		CacheRequestsTotal.WithLabelValues(cache, "error").Inc()
		return nil, err
	}
	CacheRequestsTotal.WithLabelValues(cache, "hit").Inc()
	return &result, nil
}
