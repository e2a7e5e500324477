package mesh

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Source hands out meshes by path.
type Source interface {
	Get(path string) (*Mesh, error)
}

// Cache is a concurrency-safe mesh cache owned by whoever loads assets.
// Every Get returns a private copy, so callers may transform vertices freely.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*Mesh
	dedup bool
	load  func(path string) (*Mesh, error)
}

// NewCache creates an empty cache. With dedup set, shared face edges are
// collapsed once at load time.
func NewCache(dedup bool) *Cache {
	return &Cache{
		items: make(map[string]*Mesh),
		dedup: dedup,
		load:  Load,
	}
}

// Get loads path on first use and returns a clone of the cached mesh.
// Failed loads are not cached.
func (c *Cache) Get(path string) (*Mesh, error) {
	// Fast path: read lock
	c.mu.RLock()
	if m, ok := c.items[path]; ok {
		c.mu.RUnlock()
		return m.Clone(), nil
	}
	c.mu.RUnlock()

	// Slow path: load from disk
	m, err := c.load(path)
	if err != nil {
		return nil, err
	}
	if c.dedup {
		m.Dedup()
	}

	// Write lock with double-check
	c.mu.Lock()
	if existing, ok := c.items[path]; ok {
		c.mu.Unlock()
		return existing.Clone(), nil
	}
	c.items[path] = m
	c.mu.Unlock()

	return m.Clone(), nil
}

// Forget drops path so the next Get reads it again.
func (c *Cache) Forget(path string) {
	c.mu.Lock()
	delete(c.items, path)
	c.mu.Unlock()
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// LoadAll warms the cache with every path using at most workers concurrent
// loads, and returns once all of them finished. The first failure cancels
// the rest.
func LoadAll(ctx context.Context, c *Cache, paths []string, workers int) error {
	if workers < 1 {
		workers = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := c.Get(p); err != nil {
				return fmt.Errorf("mesh: load %s: %w", p, err)
			}
			return nil
		})
	}
	return g.Wait()
}
