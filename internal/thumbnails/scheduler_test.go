package thumbnails

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"photo-culler/internal/media"
)

// fakeLoader returns a 400x300 image for every path except those in fail.
type fakeLoader struct {
	fail  map[string]bool
	calls []string
}

func (l *fakeLoader) LoadThumbnail(path string) (image.Image, error) {
	l.calls = append(l.calls, path)
	if l.fail[path] {
		return nil, &media.DecodeError{Path: path, Cause: errors.New("corrupt")}
	}
	return image.NewNRGBA(image.Rect(0, 0, 400, 300)), nil
}

func makePaths(n int) []string {
	paths := make([]string, n)
	for i := range paths {
		paths[i] = fmt.Sprintf("/photos/img_%03d.jpg", i)
	}
	return paths
}

func runToDone(t *testing.T, s *Scheduler) []Progress {
	t.Helper()
	var seen []Progress
	for i := 0; i < 10000; i++ {
		p := s.Tick()
		seen = append(seen, p)
		if p.Done {
			return seen
		}
	}
	t.Fatal("scheduler never finished")
	return nil
}

func TestScheduler_ProducesOneResultPerRecord(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		chunk int
		fail  []int
	}{
		{name: "single chunk", n: 5, chunk: 16},
		{name: "exact multiple", n: 32, chunk: 16},
		{name: "partial last chunk", n: 37, chunk: 16, fail: []int{0, 16, 36}},
		{name: "chunk of one", n: 4, chunk: 1, fail: []int{2}},
		{name: "every record fails", n: 3, chunk: 2, fail: []int{0, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths := makePaths(tt.n)
			loader := &fakeLoader{fail: map[string]bool{}}
			for _, i := range tt.fail {
				loader.fail[paths[i]] = true
			}

			var callbacks []Progress
			s := NewScheduler(loader, Options{
				ChunkSize:  tt.chunk,
				OnProgress: func(p Progress) { callbacks = append(callbacks, p) },
			})
			id := s.Start(paths)
			if s.State() != Running {
				t.Fatalf("State() = %v, want running", s.State())
			}

			seen := runToDone(t, s)

			wantTicks := (tt.n + tt.chunk - 1) / tt.chunk
			if len(seen) != wantTicks {
				t.Errorf("ticks = %d, want %d", len(seen), wantTicks)
			}

			last := 0
			for _, p := range seen {
				if p.Processed < last {
					t.Errorf("progress went backwards: %d after %d", p.Processed, last)
				}
				if p.Processed-last > tt.chunk {
					t.Errorf("chunk processed %d records, limit %d", p.Processed-last, tt.chunk)
				}
				if p.Total != tt.n || p.RunID != id {
					t.Errorf("progress = %+v, want total %d run %d", p, tt.n, id)
				}
				last = p.Processed
			}

			doneCount := 0
			for _, p := range callbacks {
				if p.Processed == tt.n && p.Total == tt.n {
					doneCount++
				}
			}
			if doneCount != 1 {
				t.Errorf("(N,N) reported %d times, want 1", doneCount)
			}

			results := s.Results()
			if len(results) != tt.n {
				t.Fatalf("len(Results()) = %d, want %d", len(results), tt.n)
			}
			failed := 0
			for i, r := range results {
				if r.Path != paths[i] {
					t.Errorf("results[%d].Path = %q, want %q (catalog order)", i, r.Path, paths[i])
				}
				if r.Failed {
					failed++
					var de *media.DecodeError
					if !errors.As(r.Err, &de) || r.Image != nil {
						t.Errorf("results[%d] = %+v, want placeholder with DecodeError", i, r)
					}
					continue
				}
				if b := r.Image.Bounds(); b.Dx() != 200 || b.Dy() != 150 {
					t.Errorf("results[%d] size = %v, want 200x150", i, b)
				}
			}
			if failed != len(tt.fail) {
				t.Errorf("failed = %d, want %d", failed, len(tt.fail))
			}
		})
	}
}

func TestScheduler_DoneIsTerminal(t *testing.T) {
	calls := 0
	s := NewScheduler(&fakeLoader{}, Options{ChunkSize: 2, OnProgress: func(Progress) { calls++ }})
	s.Start(makePaths(3))
	runToDone(t, s)

	before := calls
	for i := 0; i < 3; i++ {
		p := s.Tick()
		if !p.Done || p.Processed != 3 {
			t.Errorf("Tick() after done = %+v", p)
		}
	}
	if calls != before {
		t.Errorf("callback invoked %d more times after done", calls-before)
	}
	if s.State() != Done {
		t.Errorf("State() = %v, want done", s.State())
	}
}

func TestScheduler_EmptyCatalog(t *testing.T) {
	var got []Progress
	s := NewScheduler(&fakeLoader{}, Options{OnProgress: func(p Progress) { got = append(got, p) }})
	id := s.Start(nil)

	p := s.Tick()
	if !p.Done || p.Processed != 0 || p.Total != 0 || p.RunID != id {
		t.Errorf("first Tick() = %+v, want done (0,0)", p)
	}
	if len(got) != 1 {
		t.Errorf("callback invoked %d times, want 1", len(got))
	}
	if len(s.Results()) != 0 {
		t.Errorf("Results() = %v, want empty", s.Results())
	}
}

func TestScheduler_RestartDiscardsPreviousRun(t *testing.T) {
	loader := &fakeLoader{}
	s := NewScheduler(loader, Options{ChunkSize: 4})

	first := s.Start(makePaths(20))
	s.Tick()
	if len(s.Results()) != 4 {
		t.Fatalf("partial results = %d, want 4", len(s.Results()))
	}

	newPaths := []string{"/other/a.jpg", "/other/b.jpg"}
	second := s.Start(newPaths)
	if second == first {
		t.Fatal("Start() reused the run id")
	}
	if len(s.Results()) != 0 {
		t.Errorf("Results() after restart = %d, want 0", len(s.Results()))
	}

	if _, err := s.TickRun(first); !errors.Is(err, ErrStaleRun) {
		t.Errorf("TickRun(stale) error = %v, want ErrStaleRun", err)
	}
	if len(s.Results()) != 0 {
		t.Error("stale tick wrote results into the new run")
	}

	p, err := s.TickRun(second)
	if err != nil {
		t.Fatalf("TickRun(current) error = %v", err)
	}
	if !p.Done || p.Total != 2 {
		t.Errorf("TickRun(current) = %+v", p)
	}
	for i, r := range s.Results() {
		if r.Path != newPaths[i] {
			t.Errorf("results[%d].Path = %q, want %q", i, r.Path, newPaths[i])
		}
	}
}

func TestScheduler_Cancel(t *testing.T) {
	s := NewScheduler(&fakeLoader{}, Options{ChunkSize: 1})
	id := s.Start(makePaths(3))
	s.Tick()
	s.Cancel()

	if s.State() != Idle {
		t.Errorf("State() = %v, want idle", s.State())
	}
	if len(s.Results()) != 0 {
		t.Error("Cancel() kept results")
	}
	if _, err := s.TickRun(id); !errors.Is(err, ErrStaleRun) {
		t.Errorf("TickRun after Cancel error = %v, want ErrStaleRun", err)
	}
	if _, err := s.TickRun(s.RunID()); !errors.Is(err, ErrStaleRun) {
		t.Errorf("TickRun on idle scheduler error = %v, want ErrStaleRun", err)
	}
}

func TestScheduler_Result(t *testing.T) {
	s := NewScheduler(&fakeLoader{}, Options{ChunkSize: 2})
	s.Start(makePaths(3))
	s.Tick()

	if _, ok := s.Result(1); !ok {
		t.Error("Result(1) not ready after first chunk")
	}
	if _, ok := s.Result(2); ok {
		t.Error("Result(2) ready before it was processed")
	}
	if _, ok := s.Result(-1); ok {
		t.Error("Result(-1) ok")
	}
}

func TestSchedulerDefaultChunkSize(t *testing.T) {
	loader := &fakeLoader{}
	s := NewScheduler(loader, Options{})
	s.Start(makePaths(40))
	p := s.Tick()
	if p.Processed != DefaultChunkSize {
		t.Errorf("first chunk = %d, want %d", p.Processed, DefaultChunkSize)
	}
}

func TestStateString(t *testing.T) {
	for state, want := range map[State]string{Idle: "idle", Running: "running", Done: "done", State(9): "unknown"} {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}

// noPreviewLibrary is a RAW library whose files have no embedded preview.
type noPreviewLibrary struct{}

func (noPreviewLibrary) Open(path string) (media.RawHandle, error) { return noPreviewHandle{}, nil }

type noPreviewHandle struct{}

func (noPreviewHandle) ExtractThumbnail() (media.Thumbnail, error) {
	return media.Thumbnail{}, media.ErrNoPreview
}

func (noPreviewHandle) Postprocess(media.PostprocessOptions) (image.Image, error) {
	return image.NewNRGBA(image.Rect(0, 0, 3000, 2000)), nil
}

func (noPreviewHandle) Close() error { return nil }

func TestScheduler_EndToEndWithLoader(t *testing.T) {
	dir := t.TempDir()
	jpgPath := filepath.Join(dir, "a.jpg")
	f, err := os.Create(jpgPath)
	if err != nil {
		t.Fatal(err)
	}
	src := image.NewNRGBA(image.Rect(0, 0, 800, 400))
	for i := range src.Pix {
		src.Pix[i] = 0x80
	}
	src.Set(0, 0, color.White)
	if err := jpeg.Encode(f, src, nil); err != nil {
		t.Fatal(err)
	}
	f.Close()
	rawPath := filepath.Join(dir, "b.cr2")

	raster := media.NewRasterDecoder()
	loader := media.NewLoader(media.NewAvailableRawDecoder(noPreviewLibrary{}, raster), raster)

	s := NewScheduler(loader, Options{})
	s.Start([]string{jpgPath, rawPath})
	runToDone(t, s)

	results := s.Results()
	if len(results) != 2 {
		t.Fatalf("len(Results()) = %d, want 2", len(results))
	}
	for _, r := range results {
		if r.Failed {
			t.Errorf("%s failed: %v", filepath.Base(r.Path), r.Err)
		}
	}
	if b := results[0].Image.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("a.jpg thumbnail = %v, want 200x100", b)
	}
	if b := results[1].Image.Bounds(); b.Dx() != 200 || b.Dy() != 133 {
		t.Errorf("b.cr2 thumbnail = %v, want 200x133", b)
	}

	viewer := media.NewViewerCache(loader)
	fitted, err := viewer.Fitted(jpgPath, 400, 300)
	if err != nil {
		t.Fatalf("Fitted() error = %v", err)
	}
	if b := fitted.Bounds(); b.Dx() != 400 || b.Dy() != 200 {
		t.Errorf("viewer fit = %v, want 400x200", b)
	}
}
