package catalog

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/utafrali/shopstate/internal/domain"
)

const productsKey = "products"

// CachedClient keeps the last successful product list for a fixed TTL and
// collapses concurrent misses into one upstream fetch. Failures are never
// cached.
type CachedClient struct {
	next  Client
	store *gocache.Cache
	sfg   singleflight.Group
}

// NewCachedClient wraps next with a cache of the given TTL, which must be
// positive.
func NewCachedClient(next Client, ttl time.Duration) *CachedClient {
	return &CachedClient{
		next:  next,
		store: gocache.New(ttl, 2*ttl),
	}
}

// Products returns the cached list or fetches it from the wrapped client.
func (c *CachedClient) Products(ctx context.Context) ([]domain.Product, error) {
	if v, ok := c.store.Get(productsKey); ok {
		fetchesTotal.WithLabelValues(resultCacheHit).Inc()
		return cloneProducts(v.([]domain.Product)), nil
	}

	// The shared fetch outlives any single caller; each caller still stops
	// waiting when its own ctx ends.
	ch := c.sfg.DoChan(productsKey, func() (interface{}, error) {
		products, err := c.next.Products(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.store.SetDefault(productsKey, products)
		return products, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return cloneProducts(res.Val.([]domain.Product)), nil
	}
}

// Invalidate drops the cached list so the next call fetches again.
func (c *CachedClient) Invalidate() {
	c.store.Delete(productsKey)
}
