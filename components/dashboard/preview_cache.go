package dashboard

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-dashboard-grid/components/grid"
)

// PreviewCache memoizes hover previews so repeated pointer moves over the same
// cell are cheap. Keys embed the layout version, so a committed change never
// serves an outdated preview.
type PreviewCache interface {
	GetOrCompute(key string, compute func() grid.Preview) grid.Preview
	Invalidate(prefix string)
}

// TTLPreviewCache is an in-memory TTL cache for previews.
type TTLPreviewCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]cachedPreview
}

type cachedPreview struct {
	preview grid.Preview
	expires time.Time
}

// NewPreviewCache builds a cache with the provided TTL. A non-positive TTL
// disables caching.
func NewPreviewCache(ttl time.Duration) *TTLPreviewCache {
	return &TTLPreviewCache{
		ttl:     ttl,
		entries: make(map[string]cachedPreview),
	}
}

// GetOrCompute returns a cached entry or computes/stores a new one.
func (c *TTLPreviewCache) GetOrCompute(key string, compute func() grid.Preview) grid.Preview {
	if pv, ok := c.get(key); ok {
		return pv
	}
	pv := compute()
	c.set(key, pv)
	return pv
}

// Invalidate drops every entry whose key starts with prefix.
func (c *TTLPreviewCache) Invalidate(prefix string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

// Len reports the number of cached previews.
func (c *TTLPreviewCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *TTLPreviewCache) get(key string) (grid.Preview, bool) {
	if c == nil || c.ttl <= 0 {
		return grid.Preview{}, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expires) {
		if ok {
			c.mu.Lock()
			delete(c.entries, key)
			c.mu.Unlock()
		}
		return grid.Preview{}, false
	}
	return entry.preview, true
}

func (c *TTLPreviewCache) set(key string, pv grid.Preview) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = cachedPreview{
		preview: pv,
		expires: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
}

type noopPreviewCache struct{}

func (noopPreviewCache) GetOrCompute(_ string, compute func() grid.Preview) grid.Preview {
	return compute()
}

func (noopPreviewCache) Invalidate(string) {}

func canvasCachePrefix(canvasID string) string {
	return canvasID + "|"
}

// previewKey identifies a preview by canvas, layout version, subject and cell.
func previewKey(canvasID string, version uint64, subject grid.Widget, moving bool, cell int) string {
	return fmt.Sprintf("%s%d|%s|%t|%dx%d|%d",
		canvasCachePrefix(canvasID), version, subject.ID, moving,
		subject.Size.Width, subject.Size.Height, cell)
}
