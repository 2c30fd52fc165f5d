package media

import (
	"image"

	"github.com/disintegration/imaging"
)

// ThumbnailSize is the gallery thumbnail bounding box edge.
const ThumbnailSize = 200

// FitSize returns the largest size with the source aspect ratio that fits in
// maxWidth x maxHeight. Boxes smaller than 1 are treated as 1 and neither
// result dimension is ever below 1.
func FitSize(srcWidth, srcHeight, maxWidth, maxHeight int) (int, int) {
	maxWidth = max(maxWidth, 1)
	maxHeight = max(maxHeight, 1)
	if srcWidth <= 0 || srcHeight <= 0 {
		return maxWidth, maxHeight
	}

	w, h := int64(srcWidth), int64(srcHeight)
	bw, bh := int64(maxWidth), int64(maxHeight)

	var nw, nh int64
	if w*bh > h*bw {
		nw = bw
		nh = bw * h / w
	} else {
		nh = bh
		nw = bh * w / h
	}
	return int(max(nw, 1)), int(max(nh, 1))
}

// Fit scales img to fit inside maxWidth x maxHeight preserving aspect ratio.
// It always returns a new image; the source is never modified.
func Fit(img image.Image, maxWidth, maxHeight int) *image.NRGBA {
	b := img.Bounds()
	if b.Empty() {
		return imaging.Clone(img)
	}

	w, h := FitSize(b.Dx(), b.Dy(), maxWidth, maxHeight)
	if w == b.Dx() && h == b.Dy() {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

// FitThumbnail shrinks img to the gallery thumbnail box. Images already
// inside the box are copied at their own size.
func FitThumbnail(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= ThumbnailSize && b.Dy() <= ThumbnailSize {
		return imaging.Clone(img)
	}
	return Fit(img, ThumbnailSize, ThumbnailSize)
}
