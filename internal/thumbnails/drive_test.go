package thumbnails

import (
	"context"
	"errors"
	"testing"
)

func TestDrive_RunsToCompletion(t *testing.T) {
	s := NewScheduler(&fakeLoader{}, Options{ChunkSize: 3})
	id := s.Start(makePaths(10))

	yields := 0
	err := Drive(context.Background(), s, id, func(p Progress) error {
		yields++
		if p.Done {
			t.Error("yield called with a finished run")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Drive() error = %v", err)
	}
	if yields != 3 {
		t.Errorf("yields = %d, want 3", yields)
	}
	if s.State() != Done || len(s.Results()) != 10 {
		t.Errorf("state %v with %d results", s.State(), len(s.Results()))
	}
}

func TestDrive_StopsOnStaleRun(t *testing.T) {
	s := NewScheduler(&fakeLoader{}, Options{ChunkSize: 1})
	id := s.Start(makePaths(5))

	err := Drive(context.Background(), s, id, func(p Progress) error {
		if p.Processed == 2 {
			s.Start(makePaths(1))
		}
		return nil
	})
	if !IsStale(err) {
		t.Fatalf("Drive() error = %v, want stale", err)
	}
	if s.Progress().Processed != 0 || s.Progress().Total != 1 {
		t.Errorf("new run progress = %+v, want untouched", s.Progress())
	}
}

func TestDrive_YieldErrorAndContext(t *testing.T) {
	s := NewScheduler(&fakeLoader{}, Options{ChunkSize: 1})
	id := s.Start(makePaths(5))

	stop := errors.New("stop")
	if err := Drive(context.Background(), s, id, func(Progress) error { return stop }); !errors.Is(err, stop) {
		t.Errorf("Drive() error = %v, want yield error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	before := s.Progress().Processed
	if err := Drive(ctx, s, id, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Drive() error = %v, want context.Canceled", err)
	}
	if s.Progress().Processed != before {
		t.Error("Drive ticked with a cancelled context")
	}
}
