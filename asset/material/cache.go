package material

import "github.com/jgain/EcoViz/scene"

// TextureCache maps color map paths to loaded surface handles. A cache is
// owned by a single run and entries are never evicted. It is not safe for
// concurrent use.
type TextureCache struct {
	entries map[string]*scene.Handle
	hits    int
	misses  int
}

// NewTextureCache creates an empty cache.
func NewTextureCache() *TextureCache {
	return &TextureCache{
		entries: make(map[string]*scene.Handle),
	}
}

// Lookup returns the handle stored for a color map path.
func (c *TextureCache) Lookup(path string) (*scene.Handle, bool) {
	h, found := c.entries[path]
	if found {
		c.hits++
	} else {
		c.misses++
	}
	return h, found
}

// Store records the handle built for a color map path.
func (c *TextureCache) Store(path string, h *scene.Handle) {
	c.entries[path] = h
}

// Len returns the number of cached entries.
func (c *TextureCache) Len() int { return len(c.entries) }

// Hits returns the number of successful lookups.
func (c *TextureCache) Hits() int { return c.hits }

// Misses returns the number of failed lookups.
func (c *TextureCache) Misses() int { return c.misses }
