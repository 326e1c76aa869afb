package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/Apurer/shop-order-service/internal/domains/orders/ports"
)

const (
	cacheKeyPrefix  = "catalog:product:"
	DefaultCacheTTL = 30 * time.Second
)

type cachedProduct struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// CachedLookup is a read-through Redis cache in front of another catalog.
// Redis failures are logged and the call falls through to the wrapped lookup.
type CachedLookup struct {
	next   ports.CatalogLookup
	client redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedLookup wraps next. A non-positive ttl uses DefaultCacheTTL.
func NewCachedLookup(next ports.CatalogLookup, client redis.Cmdable, ttl time.Duration, logger *slog.Logger) *CachedLookup {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedLookup{next: next, client: client, ttl: ttl, logger: logger}
}

func (c *CachedLookup) Product(ctx context.Context, productID int64) (ports.Product, error) {
	key := cacheKey(productID)
	if product, ok := c.get(ctx, key); ok {
		return product, nil
	}
	product, err := c.next.Product(ctx, productID)
	if err != nil {
		return ports.Product{}, err
	}
	c.set(ctx, key, product)
	return product, nil
}

func (c *CachedLookup) get(ctx context.Context, key string) (ports.Product, bool) {
	if c.client == nil {
		return ports.Product{}, false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.warn(ctx, "catalog cache read failed", key, err)
		}
		return ports.Product{}, false
	}
	var cached cachedProduct
	if err := json.Unmarshal(raw, &cached); err != nil {
		c.warn(ctx, "catalog cache entry is corrupt", key, err)
		return ports.Product{}, false
	}
	return ports.Product{ID: cached.ID, Name: cached.Name, Price: cached.Price}, true
}

func (c *CachedLookup) set(ctx context.Context, key string, product ports.Product) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(cachedProduct{ID: product.ID, Name: product.Name, Price: product.Price})
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.warn(ctx, "catalog cache write failed", key, err)
	}
}

func (c *CachedLookup) warn(ctx context.Context, msg, key string, err error) {
	if c.logger == nil {
		return
	}
	c.logger.LogAttrs(ctx, slog.LevelWarn, msg, slog.String("cache.key", key), slog.String("error", err.Error()))
}

func cacheKey(productID int64) string {
	return cacheKeyPrefix + strconv.FormatInt(productID, 10)
}

var _ ports.CatalogLookup = (*CachedLookup)(nil)
