package mediatypes

import (
	"path/filepath"
	"sort"
	"strings"
)

// Category represents how a file is treated by the image pipeline.
type Category string

const (
	// CategoryRaster represents a common encoded image format.
	CategoryRaster Category = "raster"
	// CategoryRaw represents a camera RAW format.
	CategoryRaw Category = "raw"
	// CategorySidecar represents a metadata-only companion file.
	CategorySidecar Category = "sidecar"
	// CategoryUnsupported represents anything else, including hidden entries.
	CategoryUnsupported Category = "unsupported"
)

// RasterExtensions maps file extensions to whether they are supported encoded image formats.
var RasterExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".gif":  true,
	".tiff": true,
	".tif":  true,
	".webp": true,
}

// RawExtensions maps file extensions to whether they are camera RAW formats.
var RawExtensions = map[string]bool{
	".nef": true, ".arw": true, ".cr2": true, ".cr3": true,
	".dng": true, ".rw2": true, ".orf": true, ".raf": true,
	".srw": true, ".pef": true, ".erf": true, ".3fr": true,
	".iiq": true, ".mos": true, ".mef": true, ".nrw": true,
}

// SidecarExtensions maps file extensions to whether they are metadata sidecars.
var SidecarExtensions = map[string]bool{
	".xmp": true,
}

// MimeTypes maps raster extensions to their MIME types.
var MimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".bmp":  "image/bmp",
	".gif":  "image/gif",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
	".webp": "image/webp",
}

// IsHidden reports whether a base name is a hidden or system entry.
// This covers dot files and AppleDouble "._" resource forks.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// Classify returns the Category for a path. It never touches the filesystem.
func Classify(path string) Category {
	base := filepath.Base(path)
	if base == "" || base == "." || base == string(filepath.Separator) || IsHidden(base) {
		return CategoryUnsupported
	}

	ext := strings.ToLower(filepath.Ext(base))
	switch {
	case RasterExtensions[ext]:
		return CategoryRaster
	case RawExtensions[ext]:
		return CategoryRaw
	case SidecarExtensions[ext]:
		return CategorySidecar
	default:
		return CategoryUnsupported
	}
}

// IsImage returns true if the path is a raster or RAW photo.
func IsImage(path string) bool {
	c := Classify(path)
	return c == CategoryRaster || c == CategoryRaw
}

// IsRaw returns true if the path is a camera RAW file.
func IsRaw(path string) bool {
	return Classify(path) == CategoryRaw
}

// GetMimeType returns the MIME type for a given file extension.
// The extension should be lowercase and include the leading dot (e.g., ".jpg").
// Returns "application/octet-stream" if the extension is not recognized.
func GetMimeType(ext string) string {
	if mime, ok := MimeTypes[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}

// SortedExtensions returns the keys of an extension map in ascending order.
func SortedExtensions(m map[string]bool) []string {
	exts := make([]string, 0, len(m))
	for ext := range m {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
