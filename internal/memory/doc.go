// Package memory keeps the culler's Go heap inside a container memory limit.
//
// Full-resolution RAW decodes are the largest allocations the application
// makes, and dcraw and libvips allocate outside the Go heap. [ConfigureFromEnv]
// derives GOMEMLIMIT from MEMORY_LIMIT and MEMORY_RATIO, leaving the rest of
// the container limit for those native allocations:
//
//	func main() {
//	    memory.ConfigureFromEnv()
//	    ...
//	}
//
// [Monitor] samples heap usage and pauses background thumbnail generation
// while usage is above the critical water mark:
//
//	monitor := memory.NewMonitor(memory.DefaultConfig())
//	monitor.Start()
//	defer monitor.Stop()
//
//	if !monitor.WaitIfPaused(ctx) {
//	    return
//	}
//
// The environment variables are:
//
//   - GOMEMLIMIT: standard Go variable, takes precedence when set
//   - MEMORY_LIMIT: container limit in bytes, usually from the Kubernetes Downward API
//   - MEMORY_RATIO: fraction of MEMORY_LIMIT given to the Go heap (default 0.80)
package memory
