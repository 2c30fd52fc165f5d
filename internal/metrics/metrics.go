package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_culler_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_culler_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_culler_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_culler_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_culler_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)
)

// Decode metrics
var (
	ImageDecodeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_culler_image_decodes_total",
			Help: "Total number of image decodes by purpose, category and outcome",
		},
		[]string{"kind", "category", "status"}, // kind: "thumbnail" or "full"
	)

	ImageDecodeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_culler_image_decode_duration_seconds",
			Help:    "Image decode duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"kind", "category"},
	)

	DecoderFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_culler_decoder_fallbacks_total",
			Help: "Number of times a decode fell through to a slower stage",
		},
		[]string{"stage"}, // "raw_open", "raw_full", "vips", "exif_preview"
	)

	RawDecoderAvailable = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_culler_raw_decoder_available",
			Help: "Whether a native RAW decoder was found at startup (1 = available, 0 = unavailable)",
		},
	)
)

// Thumbnail scheduler metrics
var (
	ThumbnailGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_culler_thumbnail_generations_total",
			Help: "Total number of thumbnail generations",
		},
		[]string{"status"}, // "success" or "failed"
	)

	ThumbnailGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "photo_culler_thumbnail_generation_duration_seconds",
			Help:    "Per-record thumbnail generation duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	ThumbnailChunkDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "photo_culler_thumbnail_chunk_duration_seconds",
			Help:    "Duration of one scheduler tick in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	ThumbnailRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_culler_thumbnail_runs_total",
			Help: "Total number of thumbnail runs by outcome",
		},
		[]string{"outcome"}, // "completed" or "cancelled"
	)

	ThumbnailGeneratorRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_culler_thumbnail_generator_running",
			Help: "Whether the thumbnail scheduler is currently running (1 = running, 0 = idle)",
		},
	)

	ThumbnailProgressProcessed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_culler_thumbnail_progress_processed",
			Help: "Records processed by the current thumbnail run",
		},
	)

	ThumbnailProgressTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_culler_thumbnail_progress_total",
			Help: "Records in the current thumbnail run",
		},
	)
)

// Viewer metrics
var (
	ViewerCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photo_culler_viewer_cache_hits_total",
			Help: "Total number of viewer cache hits",
		},
	)

	ViewerCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photo_culler_viewer_cache_misses_total",
			Help: "Total number of viewer cache misses",
		},
	)

	ViewerResizeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "photo_culler_viewer_resize_duration_seconds",
			Help:    "Duration of fitting the cached original to a viewport",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)
)

// Catalog and rating metrics
var (
	CatalogImagesTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "photo_culler_catalog_images",
			Help: "Number of images in the loaded catalog by category",
		},
		[]string{"category"},
	)

	CatalogSkippedTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_culler_catalog_skipped",
			Help: "Number of entries skipped during the last discovery",
		},
	)

	CatalogRatings = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "photo_culler_catalog_ratings",
			Help: "Number of records by rating state",
		},
		[]string{"state"}, // "liked", "rejected", "unrated"
	)

	RatingChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_culler_rating_changes_total",
			Help: "Total number of rating actions",
		},
		[]string{"action"},
	)

	CSVExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_culler_csv_exports_total",
			Help: "Total number of CSV exports",
		},
		[]string{"status"},
	)
)

// Filesystem metrics
var (
	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_culler_filesystem_retry_attempts_total",
			Help: "Total number of filesystem retry attempts after a stale handle",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_culler_filesystem_retry_success_total",
			Help: "Total number of filesystem operations that succeeded after retrying",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_culler_filesystem_retry_failures_total",
			Help: "Total number of filesystem operations that failed after all retries",
		},
		[]string{"operation", "volume"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_culler_filesystem_stale_errors_total",
			Help: "Total number of stale file handle errors",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_culler_filesystem_retry_duration_seconds",
			Help:    "Total duration of filesystem operations including retries",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation", "volume"},
	)
)

// Memory metrics
var (
	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_culler_memory_usage_ratio",
			Help: "Heap allocation as a fraction of the configured memory limit",
		},
	)

	MemoryPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_culler_memory_paused",
			Help: "Whether thumbnail processing is paused for memory pressure (1 = paused)",
		},
	)

	MemoryGCPauses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photo_culler_memory_gc_pauses_total",
			Help: "Number of times processing was paused and a GC forced",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "photo_culler_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
