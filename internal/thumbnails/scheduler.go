package thumbnails

import (
	"errors"
	"image"
	"path/filepath"
	"time"

	"photo-culler/internal/logging"
	"photo-culler/internal/media"
	"photo-culler/internal/metrics"
)

// DefaultChunkSize is the number of records processed per tick.
const DefaultChunkSize = 16

// ErrStaleRun is returned by TickRun for a run that has been replaced or
// cancelled.
var ErrStaleRun = errors.New("thumbnail run is stale")

// RunID identifies one generation run. Zero means no run has started.
type RunID uint64

// State is the scheduler lifecycle state.
type State int

const (
	Idle State = iota
	Running
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// ThumbnailLoader produces preview-quality images.
type ThumbnailLoader interface {
	LoadThumbnail(path string) (image.Image, error)
}

// Progress reports how far a run has got.
type Progress struct {
	Processed int   `json:"processed"`
	Total     int   `json:"total"`
	RunID     RunID `json:"runId"`
	Done      bool  `json:"done"`
}

// Result is the outcome for one record. Failed results carry no image.
type Result struct {
	Path   string
	Image  *image.NRGBA
	Failed bool
	Err    error
}

// Options configures a Scheduler.
type Options struct {
	// ChunkSize is the number of records per tick; values below 1 use DefaultChunkSize.
	ChunkSize int
	// OnProgress, if set, is called after every chunk that made progress.
	OnProgress func(Progress)
}

// Scheduler generates thumbnails for one run at a time.
type Scheduler struct {
	loader    ThumbnailLoader
	chunkSize int
	onProg    func(Progress)

	state     State
	runID     RunID
	paths     []string
	results   []Result
	processed int
}

// NewScheduler creates an idle scheduler.
func NewScheduler(loader ThumbnailLoader, opts Options) *Scheduler {
	chunk := opts.ChunkSize
	if chunk < 1 {
		chunk = DefaultChunkSize
	}
	return &Scheduler{
		loader:    loader,
		chunkSize: chunk,
		onProg:    opts.OnProgress,
	}
}

// Start begins a new run over paths, discarding any previous run.
func (s *Scheduler) Start(paths []string) RunID {
	if s.state == Running {
		metrics.ThumbnailRunsTotal.WithLabelValues("cancelled").Inc()
		logging.Debug("Thumbnail run %d replaced at %d/%d", s.runID, s.processed, len(s.paths))
	}

	s.runID++
	s.paths = append([]string(nil), paths...)
	s.results = make([]Result, 0, len(paths))
	s.processed = 0
	s.state = Running

	metrics.ThumbnailGeneratorRunning.Set(1)
	metrics.ThumbnailProgressProcessed.Set(0)
	metrics.ThumbnailProgressTotal.Set(float64(len(paths)))
	logging.Info("Thumbnail run %d started for %d images", s.runID, len(paths))
	return s.runID
}

// Cancel abandons the current run and discards its results.
func (s *Scheduler) Cancel() {
	if s.state == Running {
		metrics.ThumbnailRunsTotal.WithLabelValues("cancelled").Inc()
		logging.Info("Thumbnail run %d cancelled at %d/%d", s.runID, s.processed, len(s.paths))
	}
	s.runID++
	s.paths = nil
	s.results = nil
	s.processed = 0
	s.state = Idle
	metrics.ThumbnailGeneratorRunning.Set(0)
}

// TickRun is Tick for a specific run. It returns ErrStaleRun if id is not
// the current run or the scheduler is idle.
func (s *Scheduler) TickRun(id RunID) (Progress, error) {
	if id != s.runID || s.state == Idle {
		return s.Progress(), ErrStaleRun
	}
	return s.Tick(), nil
}

// Tick processes the next chunk and returns the progress after it. On an
// idle or finished scheduler it does nothing, so the final progress is
// reported exactly once.
func (s *Scheduler) Tick() Progress {
	if s.state != Running {
		return s.Progress()
	}

	start := time.Now()
	end := min(s.processed+s.chunkSize, len(s.paths))
	for _, path := range s.paths[s.processed:end] {
		s.results = append(s.results, s.generate(path))
	}
	s.processed = end
	metrics.ThumbnailChunkDuration.Observe(time.Since(start).Seconds())
	metrics.ThumbnailProgressProcessed.Set(float64(s.processed))

	if s.processed == len(s.paths) {
		s.finish()
	}

	p := s.Progress()
	logging.Debug("Thumbnail run %d: %d/%d", p.RunID, p.Processed, p.Total)
	if s.onProg != nil {
		s.onProg(p)
	}
	return p
}

func (s *Scheduler) finish() {
	s.state = Done
	metrics.ThumbnailGeneratorRunning.Set(0)
	metrics.ThumbnailRunsTotal.WithLabelValues("completed").Inc()

	failed := 0
	for _, r := range s.results {
		if r.Failed {
			failed++
		}
	}
	logging.Info("Thumbnail run %d complete: %d images, %d failed", s.runID, len(s.results), failed)
}

func (s *Scheduler) generate(path string) Result {
	start := time.Now()
	defer func() {
		metrics.ThumbnailGenerationDuration.Observe(time.Since(start).Seconds())
	}()

	img, err := s.loader.LoadThumbnail(path)
	if err != nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues("failed").Inc()
		logging.Warn("Thumbnail failed for %s: %v", filepath.Base(path), err)
		return Result{Path: path, Failed: true, Err: err}
	}

	metrics.ThumbnailGenerationsTotal.WithLabelValues("success").Inc()
	return Result{Path: path, Image: media.FitThumbnail(img)}
}

// State returns the lifecycle state.
func (s *Scheduler) State() State {
	return s.state
}

// RunID returns the current run generation.
func (s *Scheduler) RunID() RunID {
	return s.runID
}

// Progress returns the current progress without doing any work.
func (s *Scheduler) Progress() Progress {
	return Progress{
		Processed: s.processed,
		Total:     len(s.paths),
		RunID:     s.runID,
		Done:      s.state == Done,
	}
}

// Results returns a copy of the results produced so far, in catalog order.
func (s *Scheduler) Results() []Result {
	return append([]Result(nil), s.results...)
}

// Result returns the result for record i once it has been processed.
func (s *Scheduler) Result(i int) (Result, bool) {
	if i < 0 || i >= len(s.results) {
		return Result{}, false
	}
	return s.results[i], true
}
