package metrics

import (
	"time"

	"photo-culler/internal/logging"
)

// StatsProvider interface for collecting stats
type StatsProvider interface {
	GetStats() Stats
}

// Stats holds the current catalog statistics
type Stats struct {
	TotalImages      int
	RasterImages     int
	RawImages        int
	Skipped          int
	Liked            int
	Rejected         int
	ThumbnailsFailed int
}

// Collector periodically collects and updates metrics
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider == nil {
		return
	}

	stats := c.statsProvider.GetStats()

	CatalogImagesTotal.WithLabelValues("raster").Set(float64(stats.RasterImages))
	CatalogImagesTotal.WithLabelValues("raw").Set(float64(stats.RawImages))
	CatalogSkippedTotal.Set(float64(stats.Skipped))
	CatalogRatings.WithLabelValues("liked").Set(float64(stats.Liked))
	CatalogRatings.WithLabelValues("rejected").Set(float64(stats.Rejected))
	CatalogRatings.WithLabelValues("unrated").Set(float64(stats.TotalImages - stats.Liked - stats.Rejected))

	logging.Debug("Metrics collected: images=%d (raw=%d), liked=%d, rejected=%d, failed thumbnails=%d",
		stats.TotalImages, stats.RawImages, stats.Liked, stats.Rejected, stats.ThumbnailsFailed)
}
