package media

import (
	"image"
	"path/filepath"
	"time"

	"photo-culler/internal/logging"
	"photo-culler/internal/mediatypes"
	"photo-culler/internal/metrics"
)

// Loader dispatches decode requests by file category.
type Loader struct {
	raw    RawDecoder
	raster *RasterDecoder
}

// NewLoader creates a loader. A nil raw decoder behaves as unavailable.
func NewLoader(raw RawDecoder, raster *RasterDecoder) *Loader {
	if raster == nil {
		raster = NewRasterDecoder()
	}
	if raw == nil {
		raw = NewUnavailableRawDecoder(raster)
	}
	return &Loader{raw: raw, raster: raster}
}

// RawAvailable reports whether RAW files use the native library.
func (l *Loader) RawAvailable() bool {
	return l.raw.Available()
}

// LoadThumbnail returns a preview-quality image. For RAW files this is the
// embedded preview when one exists.
func (l *Loader) LoadThumbnail(path string) (image.Image, error) {
	return l.load("thumbnail", path)
}

// LoadFull returns a viewer-quality image.
func (l *Loader) LoadFull(path string) (image.Image, error) {
	return l.load("full", path)
}

func (l *Loader) load(kind, path string) (image.Image, error) {
	category := mediatypes.Classify(path)
	if category != mediatypes.CategoryRaster && category != mediatypes.CategoryRaw {
		return nil, &UnsupportedFormatError{Path: path, Category: category}
	}

	start := time.Now()
	var img image.Image
	var err error

	switch {
	case category == mediatypes.CategoryRaw && l.raw.Available() && kind == "thumbnail":
		img, err = l.raw.ExtractThumbnail(path)
	case category == mediatypes.CategoryRaw && l.raw.Available():
		img, err = l.raw.DecodeFull(path)
	default:
		img, err = l.raster.Decode(path)
	}

	metrics.ImageDecodeDuration.WithLabelValues(kind, string(category)).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ImageDecodeTotal.WithLabelValues(kind, string(category), "error").Inc()
		return nil, asDecodeError(path, err)
	}

	metrics.ImageDecodeTotal.WithLabelValues(kind, string(category), "success").Inc()
	logging.Debug("Decoded %s (%s, %s): %dx%d in %v", filepath.Base(path), category, kind,
		img.Bounds().Dx(), img.Bounds().Dy(), time.Since(start))
	return img, nil
}
