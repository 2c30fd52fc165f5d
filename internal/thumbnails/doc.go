// Package thumbnails generates gallery thumbnails for a catalog in small
// chunks so that a host can interleave other work between them.
//
// A [Scheduler] is a cooperative state machine. [Scheduler.Start] begins a
// run over an ordered list of paths and returns its [RunID]; each call to
// [Scheduler.Tick] processes at most one chunk and reports [Progress]. A
// failed record produces a placeholder result and never stops the run.
// Starting a new run discards the previous one; ticks addressed to a stale
// run with [Scheduler.TickRun] are refused.
//
// [Drive] is the host loop used by the CLI and the HTTP server:
//
//	id := s.Start(paths)
//	err := thumbnails.Drive(ctx, s, id, func(p thumbnails.Progress) error {
//	    time.Sleep(time.Millisecond)
//	    return nil
//	})
//
// A Scheduler is not safe for concurrent use; hosts serialise access.
package thumbnails
