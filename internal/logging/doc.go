// Package logging provides a simple leveled logging interface for the
// photo-culler application.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information (per-chunk scheduler progress, decode paths)
//   - INFO: General operational messages
//   - WARN: Warning conditions (failed thumbnails, missing RAW decoder)
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// The log level is configured via the LOG_LEVEL environment variable, or forced
// to debug with DEBUG=true. Command-line hosts may override it with SetLevel.
package logging
