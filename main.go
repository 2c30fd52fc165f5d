package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"photo-culler/internal/database"
	"photo-culler/internal/filesystem"
	"photo-culler/internal/handlers"
	"photo-culler/internal/logging"
	"photo-culler/internal/media"
	"photo-culler/internal/memory"
	"photo-culler/internal/metrics"
	"photo-culler/internal/middleware"
	"photo-culler/internal/session"
	"photo-culler/internal/startup"
)

const metricsInterval = 15 * time.Second

func main() {
	startTime := time.Now()

	memResult := memory.ConfigureFromEnv()

	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}
	startup.LogMemoryConfig(memResult)

	metrics.InitializeMetrics()
	metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion)

	filesystem.SetDefaultVolumeResolver(filesystem.NewVolumeResolver(map[string]string{
		"photos": config.PhotoDir,
		"data":   config.DataDir,
	}))

	ctx := context.Background()

	dbStart := time.Now()
	db, err := database.New(ctx, config.DatabasePath)
	if err != nil {
		startup.LogFatal("Failed to initialize database: %v", err)
	}
	defer db.Close()
	startup.LogDatabaseInit(time.Since(dbStart))

	loader := newLoader(config)

	monitor := memory.NewMonitor(memory.DefaultConfig())
	monitor.Start()

	sess := session.New(loader, session.Options{
		ChunkSize: config.ChunkSize,
		TickPause: config.TickPause,
		Monitor:   monitor,
		Store:     db,
	})

	loadStart := time.Now()
	if err := sess.Open(ctx, config.PhotoDir); err != nil {
		logging.Error("Initial catalog load failed: %v", err)
	} else {
		stats := sess.GetStats()
		startup.LogCatalogLoaded(config.PhotoDir, stats.TotalImages, stats.Skipped, time.Since(loadStart))
	}

	var collector *metrics.Collector
	if config.MetricsEnabled {
		collector = metrics.NewCollector(sess, metricsInterval)
		collector.Start()
	}

	h := handlers.New(sess)
	router := h.Router(config.MetricsEnabled)
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	var handler http.Handler = router
	if config.MetricsEnabled {
		handler = middleware.Metrics(middleware.DefaultMetricsConfig())(handler)
	}
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler = middleware.Logger(loggingConfig)(handler)

	srv := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	done := make(chan struct{})
	go handleShutdown(srv, sess, monitor, collector, done)

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
	<-done
}

// newLoader initialises the optional decoders and picks the RAW strategy.
func newLoader(config *startup.Config) *media.Loader {
	if config.VipsEnabled {
		if err := media.InitVips(); err != nil {
			logging.Warn("libvips unavailable: %v", err)
		}
	}

	raster := media.NewRasterDecoder()
	raw := media.ResolveRawDecoder(media.RawConfig{
		Binary:  config.RawDecoder,
		Timeout: config.RawDecoderTimeout,
	}, raster)
	loader := media.NewLoader(raw, raster)

	binary := config.RawDecoder
	if binary == "" {
		binary = "dcraw"
	}
	startup.LogDecoderInit(startup.DecoderInfo{
		RawAvailable:  loader.RawAvailable(),
		RawBinary:     binary,
		VipsAvailable: media.IsVipsAvailable(),
	})
	return loader
}

func handleShutdown(srv *http.Server, sess *session.Session, monitor *memory.Monitor, collector *metrics.Collector, done chan<- struct{}) {
	defer close(done)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownStep("Stopping thumbnail generation")
	sess.Close()
	startup.LogShutdownStepComplete("Thumbnail generation stopped")

	if sess.Dirty() {
		logging.Info("  Ratings changed since the last CSV export; they remain in the database")
	}

	if collector != nil {
		collector.Stop()
	}
	monitor.Stop()
	media.ShutdownVips()

	startup.LogShutdownComplete()
}
