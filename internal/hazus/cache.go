package hazus

import (
	"context"
	"sync"

	"github.com/couchcryptid/flood-elevation-service/internal/domain"
	"github.com/golang/groupcache/lru"
)

// CachedCurveSource wraps a CurveSource with an in-memory LRU cache of built curves.
type CachedCurveSource struct {
	inner   domain.CurveSource
	observe func(hit bool)

	mu    sync.Mutex
	cache *lru.Cache
}

// NewCachedCurveSource creates a cache decorator around a curve source. observe,
// if non-nil, is called on every lookup with whether it was served from cache.
func NewCachedCurveSource(inner domain.CurveSource, maxEntries int, observe func(hit bool)) *CachedCurveSource {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &CachedCurveSource{
		inner:   inner,
		observe: observe,
		cache:   lru.New(maxEntries),
	}
}

func (c *CachedCurveSource) DamageCurve(ctx context.Context, id string) (*domain.DamageCurve, error) {
	if curve, ok := c.get(id); ok {
		c.record(true)
		return curve, nil
	}
	c.record(false)

	curve, err := c.inner.DamageCurve(ctx, id)
	if err != nil {
		// Failures are not cached so a corrected table is picked up on the next lookup.
		return nil, err
	}
	c.mu.Lock()
	c.cache.Add(id, curve)
	c.mu.Unlock()
	return curve, nil
}

// Len returns the number of cached curves.
func (c *CachedCurveSource) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}

func (c *CachedCurveSource) get(id string) (*domain.DamageCurve, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.cache.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*domain.DamageCurve), true
}

func (c *CachedCurveSource) record(hit bool) {
	if c.observe != nil {
		c.observe(hit)
	}
}
