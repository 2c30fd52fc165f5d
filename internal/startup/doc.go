// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// All configuration is loaded from environment variables via [LoadConfig].
// A .env file in the working directory is loaded first when present.
// The following environment variables are supported:
//
//   - PHOTO_DIR: Catalog root to cull (default: /photos, must exist)
//   - DATA_DIR: Directory for the ratings database (default: /data)
//   - PORT: HTTP server port (default: 8080)
//   - METRICS_ENABLED: Serve Prometheus metrics on /metrics (default: true)
//   - THUMBNAIL_CHUNK_SIZE: Records per scheduler tick (default: 16)
//   - THUMBNAIL_TICK_PAUSE: Pause between chunks as Go duration (default: 1ms)
//   - RAW_DECODER: Explicit dcraw binary; empty searches PATH
//   - RAW_DECODER_TIMEOUT: Per-invocation RAW decoder timeout (default: 60s)
//   - VIPS_ENABLED: Initialise the libvips fallback decoder (default: true)
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//   - LOG_STATIC_FILES: Log static file requests (default: false)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: true)
//   - MEMORY_LIMIT, MEMORY_RATIO, GOMEMLIMIT: see package memory
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo].
//
// # Lifecycle Logging
//
// Sectioned log output for each startup phase: [LogMemoryConfig],
// [LogDatabaseInit], [LogDecoderInit], [LogCatalogLoaded], [LogHTTPRoutes]
// and [LogServerStarted], then [LogShutdownInitiated] through
// [LogShutdownComplete] on exit.
package startup
