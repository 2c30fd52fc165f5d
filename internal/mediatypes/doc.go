// Package mediatypes classifies photo files by extension for the photo-culler
// application.
//
// This package exists as a dependency-free foundation that can be imported by other
// packages without creating import cycles. It contains primitive types, constants,
// and pure utility functions with no external dependencies beyond the standard library.
//
// # Categories
//
// Every path falls into exactly one Category:
//
//	mediatypes.CategoryRaster      // Encoded images (jpg, png, webp, tiff, ...)
//	mediatypes.CategoryRaw         // Camera RAW files (nef, cr2, arw, dng, ...)
//	mediatypes.CategorySidecar     // Metadata-only files (xmp), never images
//	mediatypes.CategoryUnsupported // Everything else, including hidden entries
//
// # Classification
//
// Classify is the single source of truth for "is this a photo". Catalog discovery
// and the image loader both call it:
//
//	switch mediatypes.Classify(path) {
//	case mediatypes.CategoryRaw:
//	    // RAW decode strategy
//	case mediatypes.CategoryRaster:
//	    // generic decoder
//	}
//
// Classification is case-insensitive on the extension and performs no I/O.
//
// # MIME Types
//
// Use GetMimeType to get the MIME type of an encoded raster for HTTP responses:
//
//	mimeType := mediatypes.GetMimeType(".jpg") // "image/jpeg"
package mediatypes
