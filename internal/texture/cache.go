package texture

import (
	"image"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Resolver resolves a material or texture name to a decoded image.
type Resolver interface {
	Resolve(name string) *image.NRGBA
}

// Cache is a concurrency-safe texture cache. Failed loads are cached as nil.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*image.NRGBA
	index *Index
	log   zerolog.Logger
}

// NewCache creates a texture cache backed by the given index.
func NewCache(index *Index) *Cache {
	return &Cache{
		items: make(map[string]*image.NRGBA),
		index: index,
		log:   log.Logger,
	}
}

// WithLogger returns c logging through l.
func (c *Cache) WithLogger(l zerolog.Logger) *Cache {
	c.log = l
	return c
}

// Resolve loads and caches a texture by name. Returns nil if not found.
func (c *Cache) Resolve(name string) *image.NRGBA {
	path, ok := c.index.ResolvePath(name)
	if !ok {
		return nil
	}

	c.mu.RLock()
	img, exists := c.items[path]
	c.mu.RUnlock()
	if exists {
		return img
	}

	img, err := LoadTexture(path)
	if err != nil {
		c.log.Warn().Err(err).Str("name", name).Msg("texture: load failed")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, exists := c.items[path]; exists {
		return cached
	}
	c.items[path] = img
	return img
}
