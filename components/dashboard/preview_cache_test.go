package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/goliatone/go-dashboard-grid/components/grid"
)

func TestPreviewCacheMemoizes(t *testing.T) {
	cache := NewPreviewCache(time.Minute)
	calls := 0
	compute := func() grid.Preview {
		calls++
		return grid.Preview{Valid: true, Cell: 4}
	}
	subject := grid.Widget{ID: "w", Size: grid.Size{Width: 1, Height: 1}}
	key := previewKey("home", 3, subject, false, 4)

	first := cache.GetOrCompute(key, compute)
	second := cache.GetOrCompute(key, compute)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	cache.GetOrCompute(previewKey("home", 4, subject, false, 4), compute)
	assert.Equal(t, 2, calls, "a new layout version misses the cache")
}

func TestPreviewCacheInvalidatePrefix(t *testing.T) {
	cache := NewPreviewCache(time.Minute)
	subject := grid.Widget{ID: "w", Size: grid.Size{Width: 1, Height: 1}}
	noop := func() grid.Preview { return grid.Preview{} }
	cache.GetOrCompute(previewKey("home", 1, subject, false, 0), noop)
	cache.GetOrCompute(previewKey("home", 1, subject, false, 1), noop)
	cache.GetOrCompute(previewKey("homework", 1, subject, false, 0), noop)
	assert.Equal(t, 3, cache.Len())

	cache.Invalidate(canvasCachePrefix("home"))
	assert.Equal(t, 1, cache.Len())
}

func TestPreviewCacheExpiresAndDisables(t *testing.T) {
	cache := NewPreviewCache(time.Millisecond)
	calls := 0
	compute := func() grid.Preview {
		calls++
		return grid.Preview{}
	}
	cache.GetOrCompute("k", compute)
	time.Sleep(5 * time.Millisecond)
	cache.GetOrCompute("k", compute)
	assert.Equal(t, 2, calls)

	disabled := NewPreviewCache(0)
	disabled.GetOrCompute("k", compute)
	disabled.GetOrCompute("k", compute)
	assert.Equal(t, 4, calls)
	assert.Zero(t, disabled.Len())
}
