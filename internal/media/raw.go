package media

import (
	"fmt"
	"image"
	"path/filepath"
	"time"

	"photo-culler/internal/logging"
	"photo-culler/internal/metrics"
)

// ThumbFormat identifies the encoding of an embedded RAW preview.
type ThumbFormat int

const (
	// ThumbJPEG previews hold an encoded JPEG stream.
	ThumbJPEG ThumbFormat = iota
	// ThumbBitmap previews hold packed 8-bit RGB samples.
	ThumbBitmap
)

// Thumbnail is an embedded preview extracted from a RAW file.
type Thumbnail struct {
	Format ThumbFormat
	Data   []byte
	// Width and Height are set for ThumbBitmap.
	Width  int
	Height int
}

// PostprocessOptions controls the demosaic of a RAW file.
type PostprocessOptions struct {
	UseAutoWB    bool
	NoAutoBright bool
	OutputBPS    int
	HalfSize     bool
}

// DefaultPostprocessOptions returns the settings used for both the thumbnail
// fallback and the viewer: auto white balance, no auto brightening, 8 bits
// per sample, half resolution.
func DefaultPostprocessOptions() PostprocessOptions {
	return PostprocessOptions{
		UseAutoWB:    true,
		NoAutoBright: true,
		OutputBPS:    8,
		HalfSize:     true,
	}
}

// RawLibrary opens RAW files for decoding.
type RawLibrary interface {
	Open(path string) (RawHandle, error)
}

// RawHandle is an opened RAW file. Close must be called when done.
type RawHandle interface {
	ExtractThumbnail() (Thumbnail, error)
	Postprocess(opts PostprocessOptions) (image.Image, error)
	Close() error
}

// RawDecoder decodes camera RAW files.
type RawDecoder interface {
	// Available reports whether a native RAW library backs this decoder.
	Available() bool
	// ExtractThumbnail returns a preview-quality image for the file.
	ExtractThumbnail(path string) (image.Image, error)
	// DecodeFull returns a viewer-quality image for the file.
	DecodeFull(path string) (image.Image, error)
}

// RawConfig configures RAW library discovery.
type RawConfig struct {
	// Binary is an explicit dcraw-compatible executable. Empty means search PATH.
	Binary  string
	Timeout time.Duration
}

// ResolveRawDecoder picks the RAW strategy once at startup.
func ResolveRawDecoder(cfg RawConfig, raster *RasterDecoder) RawDecoder {
	lib, err := NewDcrawLibrary(cfg)
	if err != nil {
		logging.Warn("%v (%v); RAW files will use the generic decoder", ErrRawUnavailable, err)
		metrics.RawDecoderAvailable.Set(0)
		return NewUnavailableRawDecoder(raster)
	}

	logging.Info("RAW decoder: %s", lib.Binary())
	metrics.RawDecoderAvailable.Set(1)
	return NewAvailableRawDecoder(lib, raster)
}

type availableRawDecoder struct {
	lib    RawLibrary
	raster *RasterDecoder
	opts   PostprocessOptions
}

// NewAvailableRawDecoder returns a strategy backed by lib.
func NewAvailableRawDecoder(lib RawLibrary, raster *RasterDecoder) RawDecoder {
	return &availableRawDecoder{lib: lib, raster: raster, opts: DefaultPostprocessOptions()}
}

func (d *availableRawDecoder) Available() bool { return true }

// ExtractThumbnail prefers the embedded preview and falls back to a full
// postprocess of the same handle when there is none or it cannot be decoded.
func (d *availableRawDecoder) ExtractThumbnail(path string) (image.Image, error) {
	h, err := d.lib.Open(path)
	if err != nil {
		return d.openFallback(path, err)
	}
	defer closeHandle(path, h)

	thumb, err := h.ExtractThumbnail()
	if err == nil {
		img, terr := d.previewImage(thumb)
		if terr == nil {
			return img, nil
		}
		err = terr
	}

	logging.Debug("No usable preview in %s (%v), decoding full image", filepath.Base(path), err)
	metrics.DecoderFallbacksTotal.WithLabelValues("raw_full").Inc()

	img, err := h.Postprocess(d.opts)
	if err != nil {
		return nil, &DecodeError{Path: path, Cause: err}
	}
	return img, nil
}

func (d *availableRawDecoder) DecodeFull(path string) (image.Image, error) {
	h, err := d.lib.Open(path)
	if err != nil {
		return d.openFallback(path, err)
	}
	defer closeHandle(path, h)

	img, err := h.Postprocess(d.opts)
	if err != nil {
		return nil, &DecodeError{Path: path, Cause: err}
	}
	return img, nil
}

// openFallback decodes path with the generic chain when the RAW library
// cannot open it at all, as with CR3 files under dcraw.
func (d *availableRawDecoder) openFallback(path string, openErr error) (image.Image, error) {
	logging.Debug("RAW library cannot open %s (%v), trying generic decoder", filepath.Base(path), openErr)
	metrics.DecoderFallbacksTotal.WithLabelValues("raw_open").Inc()

	img, err := d.raster.Decode(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Cause: fmt.Errorf("%w (generic decode: %v)", openErr, err)}
	}
	return img, nil
}

func (d *availableRawDecoder) previewImage(thumb Thumbnail) (image.Image, error) {
	switch thumb.Format {
	case ThumbJPEG:
		return d.raster.DecodeBytes(thumb.Data)
	case ThumbBitmap:
		return rgbToNRGBA(thumb.Width, thumb.Height, thumb.Data)
	default:
		return nil, fmt.Errorf("unknown preview format %d", thumb.Format)
	}
}

func closeHandle(path string, h RawHandle) {
	if err := h.Close(); err != nil {
		logging.Warn("failed to close RAW handle for %s: %v", path, err)
	}
}

type unavailableRawDecoder struct {
	raster *RasterDecoder
}

// NewUnavailableRawDecoder returns the degraded strategy that routes RAW files
// through the generic decoder.
func NewUnavailableRawDecoder(raster *RasterDecoder) RawDecoder {
	return &unavailableRawDecoder{raster: raster}
}

func (d *unavailableRawDecoder) Available() bool { return false }

func (d *unavailableRawDecoder) ExtractThumbnail(path string) (image.Image, error) {
	return d.decode(path)
}

func (d *unavailableRawDecoder) DecodeFull(path string) (image.Image, error) {
	return d.decode(path)
}

func (d *unavailableRawDecoder) decode(path string) (image.Image, error) {
	img, err := d.raster.Decode(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Cause: err}
	}
	return img, nil
}
