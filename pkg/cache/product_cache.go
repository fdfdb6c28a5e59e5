package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var productCacheRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "ecommerce_api",
		Name:      "product_cache_requests_total",
		Help:      "Product cache lookups by result",
	},
	[]string{"result"}, // hit, miss, error
)

// ProductCache caches single products by ID. Implementations never fail the
// caller: errors are logged and reported as a miss.
type ProductCache interface {
	Get(ctx context.Context, id int64) (models.Product, bool)
	Set(ctx context.Context, product models.Product)
	Delete(ctx context.Context, id int64)
}

type cachedProduct struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisProductCache(logger *zap.Logger, client *redis.Client, ttl time.Duration) ProductCache {
	return &RedisProductCache{client: client, ttl: ttl, logger: logger}
}

func productKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

func (c *RedisProductCache) Get(ctx context.Context, id int64) (models.Product, bool) {
	raw, err := c.client.Get(ctx, productKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		productCacheRequests.WithLabelValues("miss").Inc()
		return models.Product{}, false
	}
	if err != nil {
		productCacheRequests.WithLabelValues("error").Inc()
		c.logger.Warn("product cache get failed", zap.Int64("productId", id), zap.Error(err))
		return models.Product{}, false
	}
	var cp cachedProduct
	if err = json.Unmarshal(raw, &cp); err != nil {
		productCacheRequests.WithLabelValues("error").Inc()
		c.logger.Warn("product cache entry corrupt", zap.Int64("productId", id), zap.Error(err))
		return models.Product{}, false
	}
	productCacheRequests.WithLabelValues("hit").Inc()
	return models.Product{ID: cp.ID, Name: cp.Name, Price: cp.Price}, true
}

func (c *RedisProductCache) Set(ctx context.Context, product models.Product) {
	raw, err := json.Marshal(cachedProduct{ID: product.ID, Name: product.Name, Price: product.Price})
	if err != nil {
		return
	}
	if err = c.client.Set(ctx, productKey(product.ID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("product cache set failed", zap.Int64("productId", product.ID), zap.Error(err))
	}
}

func (c *RedisProductCache) Delete(ctx context.Context, id int64) {
	if err := c.client.Del(ctx, productKey(id)).Err(); err != nil {
		c.logger.Warn("product cache delete failed", zap.Int64("productId", id), zap.Error(err))
	}
}

// NoopProductCache is used when no Redis address is configured.
type NoopProductCache struct{}

func (NoopProductCache) Get(context.Context, int64) (models.Product, bool) { return models.Product{}, false }
func (NoopProductCache) Set(context.Context, models.Product)               {}
func (NoopProductCache) Delete(context.Context, int64)                     {}
