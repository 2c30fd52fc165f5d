// Package handlers implements the HTTP API of the photo culler.
//
// Every handler works through a session.Session, which serialises access to
// the catalog, thumbnail scheduler and viewer cache. Images are returned as
// JPEG; everything else is JSON.
//
// Error mapping:
//   - no catalog loaded: 409 Conflict
//   - record index out of range: 404 Not Found
//   - invalid score or unsupported format: 400 Bad Request
//   - decode failure: 422 with {"status":"unavailable"}
//
// Thumbnails that have not been generated yet return 202 Accepted with
// {"status":"pending"} so the gallery can poll.
package handlers
