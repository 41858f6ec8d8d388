// Package enginecache keeps loaded translation engines for the life of the
// process, keyed by model identifier.
package enginecache

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/valpere/opustran/internal/engine"
)

// LoadFunc constructs the engine for a cache miss.
type LoadFunc func(ctx context.Context) (engine.Engine, error)

// Cache maps model identifiers to engines. Entries are never evicted. A failed
// load leaves no entry behind, so the next GetOrLoad for that key loads again.
// Concurrent misses for the same key share a single load.
type Cache struct {
	mu      sync.RWMutex
	engines map[string]engine.Engine
	group   singleflight.Group
}

func New() *Cache {
	return &Cache{
		engines: make(map[string]engine.Engine),
	}
}

func (c *Cache) Get(key string) (engine.Engine, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.engines[key]
	return e, ok
}

// GetOrLoad returns the cached engine for key, or calls load and stores its
// result. hit reports whether the engine came from the cache without waiting on
// a load.
//
// A load shared by several callers runs detached from their cancellation: a
// caller whose ctx is done stops waiting and gets ctx.Err(), while the load
// carries on for the others and is cached when it succeeds.
func (c *Cache) GetOrLoad(ctx context.Context, key string, load LoadFunc) (eng engine.Engine, hit bool, err error) {
	if e, ok := c.Get(key); ok {
		return e, true, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		// Another caller may have finished loading between Get and DoChan.
		if e, ok := c.Get(key); ok {
			return e, nil
		}

		e, err := load(loadCtx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.engines[key] = e
		c.mu.Unlock()
		return e, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.(engine.Engine), false, nil
	}
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.engines)
}

// Keys returns the cached identifiers in sorted order.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	keys := make([]string, 0, len(c.engines))
	for k := range c.engines {
		keys = append(keys, k)
	}
	c.mu.RUnlock()

	sort.Strings(keys)
	return keys
}
