package catalog

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/shop-order-service/internal/domains/orders/ports"
)

type countingLookup struct {
	calls   int
	product ports.Product
	err     error
}

func (c *countingLookup) Product(context.Context, int64) (ports.Product, error) {
	c.calls++
	return c.product, c.err
}

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func macbook() ports.Product {
	return ports.Product{ID: 100, Name: "MacBook Pro", Price: decimal.RequireFromString("1999.99")}
}

func TestCachedLookup_ReadThrough(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()
	ctx := context.Background()
	client.Del(ctx, cacheKey(100))

	next := &countingLookup{product: macbook()}
	cache := NewCachedLookup(next, client, time.Minute, nil)

	first, err := cache.Product(ctx, 100)
	require.NoError(t, err)
	second, err := cache.Product(ctx, 100)
	require.NoError(t, err)

	require.Equal(t, 1, next.calls)
	require.Equal(t, first.Name, second.Name)
	require.True(t, second.Price.Equal(decimal.RequireFromString("1999.99")))

	ttl, err := client.TTL(ctx, cacheKey(100)).Result()
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))
}

func TestCachedLookup_DoesNotCacheMisses(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()
	ctx := context.Background()
	client.Del(ctx, cacheKey(404))

	next := &countingLookup{err: ports.ErrProductNotFound}
	cache := NewCachedLookup(next, client, time.Minute, nil)

	_, err := cache.Product(ctx, 404)
	require.ErrorIs(t, err, ports.ErrProductNotFound)
	_, err = cache.Product(ctx, 404)
	require.ErrorIs(t, err, ports.ErrProductNotFound)
	require.Equal(t, 2, next.calls)
}

func TestCachedLookup_FallsThroughWhenRedisUnavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	next := &countingLookup{product: macbook()}
	cache := NewCachedLookup(next, client, 0, nil)

	product, err := cache.Product(context.Background(), 100)
	require.NoError(t, err)
	require.Equal(t, "MacBook Pro", product.Name)
	require.Equal(t, 1, next.calls)
}

func TestCachedLookup_WithoutClient(t *testing.T) {
	next := &countingLookup{product: macbook()}
	cache := NewCachedLookup(next, nil, 0, nil)

	_, err := cache.Product(context.Background(), 100)
	require.NoError(t, err)
	_, err = cache.Product(context.Background(), 100)
	require.NoError(t, err)
	require.Equal(t, 2, next.calls)
}
