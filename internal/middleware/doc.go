// Package middleware provides HTTP middleware for the photo culler server.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics with record indexes collapsed to {index}
//
// Thumbnail and progress polling is only logged at debug level since the
// gallery issues one request per record while generation runs.
package middleware
