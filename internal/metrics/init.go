package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	// --- Decode outcomes (per purpose × category) ---
	for _, kind := range []string{"thumbnail", "full"} {
		for _, category := range []string{"raster", "raw"} {
			ImageDecodeTotal.WithLabelValues(kind, category, "success")
			ImageDecodeTotal.WithLabelValues(kind, category, "error")
			ImageDecodeDuration.WithLabelValues(kind, category)
		}
	}

	for _, stage := range []string{"raw_open", "raw_full", "vips", "exif_preview"} {
		DecoderFallbacksTotal.WithLabelValues(stage)
	}

	// --- Thumbnail scheduler ---
	ThumbnailGenerationsTotal.WithLabelValues("success")
	ThumbnailGenerationsTotal.WithLabelValues("failed")
	ThumbnailRunsTotal.WithLabelValues("completed")
	ThumbnailRunsTotal.WithLabelValues("cancelled")

	// --- Catalog ---
	for _, category := range []string{"raster", "raw"} {
		CatalogImagesTotal.WithLabelValues(category)
	}
	for _, state := range []string{"liked", "rejected", "unrated"} {
		CatalogRatings.WithLabelValues(state)
	}
	for _, action := range []string{"like", "reject", "score"} {
		RatingChangesTotal.WithLabelValues(action)
	}
	CSVExportsTotal.WithLabelValues("success")
	CSVExportsTotal.WithLabelValues("error")

	// --- Filesystem retry metrics (per retry-operation × volume) ---
	volumes := []string{"photos", "data", "unknown"}
	retryOps := []string{"stat", "open", "readdir"}

	for _, op := range retryOps {
		for _, vol := range volumes {
			FilesystemRetryAttempts.WithLabelValues(op, vol)
			FilesystemRetrySuccess.WithLabelValues(op, vol)
			FilesystemRetryFailures.WithLabelValues(op, vol)
			FilesystemStaleErrors.WithLabelValues(op, vol)
			FilesystemRetryDuration.WithLabelValues(op, vol)
		}
	}

	// --- DB query operations ---
	for _, op := range []string{"initialize_schema", "upsert_rating", "load_ratings", "delete_rating"} {
		DBQueryTotal.WithLabelValues(op, "success")
		DBQueryTotal.WithLabelValues(op, "error")
		DBQueryDuration.WithLabelValues(op)
	}
}
