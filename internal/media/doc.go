// Package media turns files on disk into displayable rasters.
//
// The pipeline has four parts:
//   - [RasterDecoder] decodes standard formats with imaging and x/image, falls
//     back to libvips when it is initialised, and finally to the JPEG preview
//     embedded in TIFF-container files.
//   - [RawDecoder] is the strategy for camera RAW files. [ResolveRawDecoder]
//     picks it once at startup: with a dcraw-compatible binary RAW files use
//     their embedded preview or a half-size postprocess, without one they go
//     through the generic decoder.
//   - [Loader] classifies a path and dispatches to the right decoder, reporting
//     every failure as a [*DecodeError].
//   - [Fit] and [ViewerCache] scale decoded images to a viewport and keep the
//     current full-size original resident.
//
// Decoders never apply EXIF orientation; images are shown as stored.
package media
