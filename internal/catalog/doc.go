// Package catalog holds the ordered set of images being culled, their
// ratings, and the viewer cursor.
//
// A catalog is built by [Discover], which walks a photo directory and keeps
// every raster and RAW image in a stable order: within each directory the
// files sorted by name, then each sub-directory in name order. Hidden entries,
// macOS resource forks (._*) and XMP sidecars are skipped and counted.
//
// Records are owned by the catalog. Ratings obey one rule: a rejected record
// is never liked.
package catalog
