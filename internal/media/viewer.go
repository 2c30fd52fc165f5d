package media

import (
	"image"
	"time"

	"photo-culler/internal/metrics"
)

// FullLoader produces viewer-quality images.
type FullLoader interface {
	LoadFull(path string) (image.Image, error)
}

// ViewerCache keeps the most recently viewed original so repeated fits to
// different viewport sizes decode the file once. It is not safe for
// concurrent use.
type ViewerCache struct {
	loader FullLoader
	path   string
	img    image.Image
}

// NewViewerCache creates an empty cache.
func NewViewerCache(loader FullLoader) *ViewerCache {
	return &ViewerCache{loader: loader}
}

// GetOrLoad returns the resident image for path, decoding and replacing the
// slot on a miss. A failed load leaves the cache empty.
func (c *ViewerCache) GetOrLoad(path string) (image.Image, error) {
	if c.img != nil && c.path == path {
		metrics.ViewerCacheHits.Inc()
		return c.img, nil
	}

	metrics.ViewerCacheMisses.Inc()
	c.Invalidate()

	img, err := c.loader.LoadFull(path)
	if err != nil {
		return nil, err
	}
	c.path = path
	c.img = img
	return img, nil
}

// Fitted returns the image for path scaled to the viewport.
func (c *ViewerCache) Fitted(path string, width, height int) (*image.NRGBA, error) {
	img, err := c.GetOrLoad(path)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	fitted := Fit(img, width, height)
	metrics.ViewerResizeDuration.Observe(time.Since(start).Seconds())
	return fitted, nil
}

// Invalidate empties the cache.
func (c *ViewerCache) Invalidate() {
	c.path = ""
	c.img = nil
}

// Path returns the resident path, or "" when empty.
func (c *ViewerCache) Path() string {
	return c.path
}
