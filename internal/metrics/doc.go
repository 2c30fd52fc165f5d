// Package metrics provides Prometheus instrumentation for photo-culler.
//
// All metrics are registered with the default registry through promauto and
// are prefixed with "photo_culler_". The server mounts promhttp.Handler() on
// /metrics when METRICS_ENABLED is true.
//
// # Metric Categories
//
// ## HTTP
//   - HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight
//
// ## Database
//   - DBQueryTotal, DBQueryDuration: rating persistence by operation
//
// ## Decoding
//   - ImageDecodeTotal: decodes by kind (thumbnail/full), category (raster/raw) and status
//   - ImageDecodeDuration
//   - DecoderFallbacksTotal: decodes that fell through to raw_open, raw_full, vips or exif_preview
//   - RawDecoderAvailable: 1 when a RAW decoder was found at startup
//
// ## Thumbnail scheduler
//   - ThumbnailGenerationsTotal, ThumbnailGenerationDuration, ThumbnailChunkDuration
//   - ThumbnailRunsTotal: runs by outcome (completed/cancelled)
//   - ThumbnailGeneratorRunning, ThumbnailProgressProcessed, ThumbnailProgressTotal
//
// ## Viewer
//   - ViewerCacheHits, ViewerCacheMisses, ViewerResizeDuration
//
// ## Catalog
//   - CatalogImagesTotal, CatalogSkippedTotal, CatalogRatings
//   - RatingChangesTotal, CSVExportsTotal
//
// ## Filesystem and memory
//   - FilesystemRetry*: stale-handle retries per operation and volume
//   - MemoryUsageRatio, MemoryPaused, MemoryGCPauses
//
// # Collector
//
// Catalog gauges are derived state. A [Collector] polls a [StatsProvider]
// (the session) on an interval and refreshes them:
//
//	collector := metrics.NewCollector(sess, 15*time.Second)
//	collector.Start()
//	defer collector.Stop()
//
// # Example Queries
//
// Thumbnail failure rate:
//
//	rate(photo_culler_thumbnail_generations_total{status="failed"}[5m]) /
//	rate(photo_culler_thumbnail_generations_total[5m])
//
// Viewer cache hit rate:
//
//	rate(photo_culler_viewer_cache_hits_total[5m]) /
//	(rate(photo_culler_viewer_cache_hits_total[5m]) + rate(photo_culler_viewer_cache_misses_total[5m]))
//
// RAW decodes falling back to a full decode:
//
//	rate(photo_culler_decoder_fallbacks_total{stage="raw_full"}[1h])
package metrics
