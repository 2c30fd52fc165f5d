// Package session owns the loaded catalog and everything that acts on it:
// the thumbnail scheduler, the viewer cache and the rating actions.
//
// The core types it drives are not safe for concurrent use, so every call
// into them happens under one mutex. Thumbnail generation runs in a
// background goroutine that holds the lock for a single chunk at a time,
// then releases it, waits out any memory pressure and pauses briefly.
// Interactive requests therefore interleave between chunks, never within
// one.
//
// Ratings are autosaved to an optional RatingStore on every change and can
// be written to the catalog's CSV with SaveCSV. On open, ratings are
// restored from the CSV first and then from the store.
package session
