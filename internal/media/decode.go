package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"photo-culler/internal/filesystem"
	"photo-culler/internal/logging"
	"photo-culler/internal/mediatypes"
	"photo-culler/internal/metrics"

	// Image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// RasterDecoder is the generic decoder used for standard formats and for RAW
// files when no RAW library is available.
type RasterDecoder struct {
	retry filesystem.RetryConfig
}

// NewRasterDecoder creates a decoder that opens files with the default
// filesystem retry policy.
func NewRasterDecoder() *RasterDecoder {
	return &RasterDecoder{retry: filesystem.DefaultRetryConfig()}
}

// Decode reads the image at path. It tries the pure-Go decoders first, then
// libvips, then the EXIF preview of TIFF-container files. The first error is
// reported if every stage fails.
func (d *RasterDecoder) Decode(path string) (image.Image, error) {
	img, err := d.decodeFile(path)
	if err == nil {
		return img, nil
	}
	if errors.Is(err, errOpen) {
		return nil, err
	}

	if IsVipsAvailable() {
		metrics.DecoderFallbacksTotal.WithLabelValues("vips").Inc()
		vimg, verr := decodeWithVips(path)
		if verr == nil {
			return vimg, nil
		}
		logging.Debug("vips fallback failed for %s: %v", filepath.Base(path), verr)
	}

	if hasTIFFContainer(path) {
		metrics.DecoderFallbacksTotal.WithLabelValues("exif_preview").Inc()
		pimg, perr := d.decodeEXIFPreview(path)
		if perr == nil {
			return pimg, nil
		}
		logging.Debug("EXIF preview fallback failed for %s: %v", filepath.Base(path), perr)
	}

	return nil, err
}

// DecodeBytes decodes an in-memory encoded image, such as an embedded preview.
func (d *RasterDecoder) DecodeBytes(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, errors.New("empty image data")
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image data: %w", err)
	}
	return img, nil
}

var errOpen = errors.New("open failed")

func (d *RasterDecoder) decodeFile(path string) (image.Image, error) {
	f, err := filesystem.OpenWithRetry(path, d.retry)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errOpen, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logging.Warn("failed to close image file %s: %v", path, cerr)
		}
	}()

	img, err := imaging.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// decodeEXIFPreview returns the JPEG thumbnail stored in the file's EXIF IFD1.
func (d *RasterDecoder) decodeEXIFPreview(path string) (image.Image, error) {
	f, err := filesystem.OpenWithRetry(path, d.retry)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read EXIF: %w", err)
	}
	thumb, err := x.JpegThumbnail()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoPreview, err)
	}
	return d.DecodeBytes(thumb)
}

// hasTIFFContainer reports whether the file is TIFF-structured and may carry
// an EXIF preview. Most RAW formats are; CR3 and RAF are not, but goexif
// rejects them cleanly.
func hasTIFFContainer(path string) bool {
	if mediatypes.IsRaw(path) {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".tif" || ext == ".tiff"
}
