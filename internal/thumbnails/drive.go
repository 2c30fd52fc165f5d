package thumbnails

import (
	"context"
	"errors"
)

// Ticker is the part of a Scheduler a host loop drives.
type Ticker interface {
	TickRun(id RunID) (Progress, error)
}

// Drive ticks run id until it is done, replaced, or ctx is cancelled. After
// every unfinished chunk yield is called; a non-nil return stops the loop and
// is returned. A run replaced mid-drive returns ErrStaleRun.
func Drive(ctx context.Context, t Ticker, id RunID, yield func(Progress) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		p, err := t.TickRun(id)
		if err != nil {
			return err
		}
		if p.Done {
			return nil
		}
		if p.RunID != id {
			return ErrStaleRun
		}

		if yield != nil {
			if err := yield(p); err != nil {
				return err
			}
		}
	}
}

// IsStale reports whether err means the driven run was replaced.
func IsStale(err error) bool {
	return errors.Is(err, ErrStaleRun)
}
