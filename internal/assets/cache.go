package assets

import (
	"sync"

	"burgerstack/internal/mesh"
)

// Cache holds decoded models by ingredient type. Cached nodes are shared sources:
// callers clone them and never mutate what Get returns.
type Cache interface {
	Get(typ string) (*mesh.Node, bool)
	Put(typ string, n *mesh.Node)
	Len() int
}

// MemoryCache is a Cache safe for concurrent use. Entries live as long as the cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*mesh.Node
}

// NewMemoryCache returns an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]*mesh.Node)}
}

func (c *MemoryCache) Get(typ string) (*mesh.Node, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n, ok := c.entries[typ]
	return n, ok
}

func (c *MemoryCache) Put(typ string, n *mesh.Node) {
	c.mu.Lock()
	c.entries[typ] = n
	c.mu.Unlock()
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var (
	sharedOnce  sync.Once
	sharedCache *MemoryCache
)

// Shared returns the process-wide cache used by the viewer. Tests build their own.
func Shared() Cache {
	sharedOnce.Do(func() { sharedCache = NewMemoryCache() })
	return sharedCache
}
