/*
Package filesystem wraps the handful of filesystem calls the culler makes
against the photo directory with retry logic for stale file handles.

Photo directories frequently live on NFS or SMB mounts. A stale handle
(ESTALE) during discovery or decode is retried with exponential backoff;
every other error is returned immediately.

	entries, err := filesystem.ReadDirWithRetry(dir, filesystem.DefaultRetryConfig())
	f, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())

Retry outcomes are recorded per operation and volume. Volumes are resolved by
longest-prefix match against the mounts registered with
SetDefaultVolumeResolver, typically "photos" and "data".
*/
package filesystem
