package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"sync"

	"photo-culler/internal/logging"

	"github.com/davidbyttow/govips/v2/vips"
	"github.com/disintegration/imaging"
)

var (
	vipsMu          sync.Mutex
	vipsInitialized bool
	vipsAvailable   bool
)

var errVipsUnavailable = errors.New("libvips not available")

// InitVips starts libvips and routes its log output through the application
// logger. It is safe to call more than once. govips cannot be restarted after
// ShutdownVips.
func InitVips() error {
	vipsMu.Lock()
	defer vipsMu.Unlock()

	if vipsInitialized {
		return nil
	}

	level, handler := vipsLogBridge(logging.GetLevel())
	vips.LoggingSettings(handler, level)

	vips.Startup(&vips.Config{
		ConcurrencyLevel: 1,
		MaxCacheMem:      50 * 1024 * 1024,
		MaxCacheSize:     100,
		ReportLeaks:      false,
		CacheTrace:       false,
		CollectStats:     false,
	})

	vipsInitialized = true
	vipsAvailable = true
	logging.Info("libvips initialized successfully (version: %s)", vips.Version)
	return nil
}

// vipsLogBridge maps the application level to the vips level and returns a
// handler forwarding vips messages at or above it.
func vipsLogBridge(appLevel logging.LogLevel) (vips.LogLevel, func(string, vips.LogLevel, string)) {
	var min vips.LogLevel
	switch appLevel {
	case logging.LevelDebug:
		min = vips.LogLevelInfo
	case logging.LevelWarn:
		min = vips.LogLevelError
	case logging.LevelError:
		min = vips.LogLevelCritical
	default:
		min = vips.LogLevelWarning
	}

	// vips levels grow more verbose as their value increases
	return min, func(domain string, level vips.LogLevel, msg string) {
		if level > min {
			return
		}
		switch level {
		case vips.LogLevelError, vips.LogLevelCritical:
			logging.Error("[%s] %s", domain, msg)
		case vips.LogLevelWarning:
			logging.Warn("[%s] %s", domain, msg)
		default:
			logging.Debug("[%s] %s", domain, msg)
		}
	}
}

// ShutdownVips releases libvips resources.
func ShutdownVips() {
	vipsMu.Lock()
	defer vipsMu.Unlock()

	if vipsInitialized {
		vips.Shutdown()
		vipsInitialized = false
		vipsAvailable = false
		logging.Info("libvips shutdown complete")
	}
}

// IsVipsAvailable returns whether libvips is initialized and available
func IsVipsAvailable() bool {
	vipsMu.Lock()
	defer vipsMu.Unlock()
	return vipsAvailable
}

// decodeWithVips loads a file through libvips without auto-rotation and
// converts the result to an image.Image.
func decodeWithVips(path string) (image.Image, error) {
	if !IsVipsAvailable() {
		return nil, errVipsUnavailable
	}

	logging.Debug("Decoding %s with vips", filepath.Base(path))

	params := vips.NewImportParams()
	params.AutoRotate.Set(false)

	ref, err := vips.LoadImageFromFile(path, params)
	if err != nil {
		return nil, fmt.Errorf("vips failed to load image: %w", err)
	}
	defer ref.Close()

	buf, _, err := ref.ExportJpeg(&vips.JpegExportParams{
		Quality:        95,
		StripMetadata:  true,
		OptimizeCoding: true,
	})
	if err != nil {
		return nil, fmt.Errorf("vips export failed: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("failed to decode vips output: %w", err)
	}
	return img, nil
}
