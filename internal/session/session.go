package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"photo-culler/internal/catalog"
	"photo-culler/internal/export"
	"photo-culler/internal/logging"
	"photo-culler/internal/media"
	"photo-culler/internal/memory"
	"photo-culler/internal/metrics"
	"photo-culler/internal/thumbnails"
)

const (
	// DefaultTickPause is the pause between thumbnail chunks.
	DefaultTickPause = time.Millisecond

	// DefaultViewWidth and DefaultViewHeight replace viewports smaller
	// than MinViewSize in either dimension.
	DefaultViewWidth  = 1200
	DefaultViewHeight = 700
	MinViewSize       = 50

	// MaxViewSize caps each viewport dimension; Fit upscales, so the box
	// bounds the size of the rendered image.
	MaxViewSize = 4096
)

// ErrNotLoaded is returned when no catalog has been opened.
var ErrNotLoaded = errors.New("no catalog loaded")

var errMonitorStopped = errors.New("memory monitor stopped")

// ImageLoader decodes images for thumbnails and the viewer.
type ImageLoader interface {
	thumbnails.ThumbnailLoader
	media.FullLoader
}

// RatingStore persists ratings between runs.
type RatingStore interface {
	SaveRating(ctx context.Context, r *catalog.ImageRecord) error
	ApplyRatings(ctx context.Context, c *catalog.Catalog) (int, error)
}

// Options configures a Session.
type Options struct {
	ChunkSize int
	TickPause time.Duration
	Monitor   *memory.Monitor
	Store     RatingStore
}

// Session is the application state for one open catalog.
type Session struct {
	openMu sync.Mutex

	mu        sync.Mutex
	sched     *thumbnails.Scheduler
	viewer    *media.ViewerCache
	store     RatingStore
	monitor   *memory.Monitor
	tickPause time.Duration

	cat        *catalog.Catalog
	dirty      bool
	startTime  time.Time
	lastLoaded time.Time
	loadErr    error

	bgCancel context.CancelFunc
	bgDone   chan struct{}
}

// New creates a session with no catalog.
func New(loader ImageLoader, opts Options) *Session {
	pause := opts.TickPause
	if pause <= 0 {
		pause = DefaultTickPause
	}
	return &Session{
		sched:     thumbnails.NewScheduler(loader, thumbnails.Options{ChunkSize: opts.ChunkSize}),
		viewer:    media.NewViewerCache(loader),
		store:     opts.Store,
		monitor:   opts.Monitor,
		tickPause: pause,
		startTime: time.Now(),
	}
}

// Open discovers root, restores saved ratings and starts thumbnail
// generation. Any previous catalog and run are discarded.
func (s *Session) Open(ctx context.Context, root string) error {
	s.openMu.Lock()
	defer s.openMu.Unlock()

	cat, err := catalog.Load(root)
	if err != nil {
		s.mu.Lock()
		s.loadErr = err
		s.mu.Unlock()
		return fmt.Errorf("failed to load %s: %w", root, err)
	}
	s.restore(ctx, cat)

	s.stopBackground()

	s.mu.Lock()
	if s.dirty {
		logging.Info("Replacing catalog with unsaved CSV changes (ratings remain in the database)")
	}
	s.cat = cat
	s.dirty = false
	s.loadErr = nil
	s.lastLoaded = time.Now()
	s.viewer.Invalidate()
	id := s.sched.Start(cat.Paths())
	s.mu.Unlock()

	s.startBackground(id)
	return nil
}

// Reload rediscovers the current root.
func (s *Session) Reload(ctx context.Context) error {
	s.mu.Lock()
	cat := s.cat
	s.mu.Unlock()

	if cat == nil {
		return ErrNotLoaded
	}
	return s.Open(ctx, cat.Root())
}

// Close stops thumbnail generation and discards the current run.
func (s *Session) Close() {
	s.openMu.Lock()
	defer s.openMu.Unlock()

	s.stopBackground()

	s.mu.Lock()
	s.sched.Cancel()
	s.mu.Unlock()
}

// WaitThumbnails blocks until the current background run has stopped.
func (s *Session) WaitThumbnails(ctx context.Context) error {
	s.mu.Lock()
	done := s.bgDone
	s.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) restore(ctx context.Context, cat *catalog.Catalog) {
	n, err := export.Restore(cat)
	if err != nil {
		logging.Warn("Could not read %s: %v", export.DefaultPath(cat.Root()), err)
	} else if n > 0 {
		logging.Info("Restored %d ratings from CSV", n)
	}

	if s.store == nil {
		return
	}
	n, err = s.store.ApplyRatings(ctx, cat)
	if err != nil {
		logging.Warn("Could not restore ratings from database: %v", err)
		return
	}
	if n > 0 {
		logging.Info("Restored %d ratings from database", n)
	}
}

func (s *Session) startBackground(id thumbnails.RunID) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	s.mu.Lock()
	s.bgCancel = cancel
	s.bgDone = done
	s.mu.Unlock()

	go s.generate(ctx, id, done)
}

func (s *Session) stopBackground() {
	s.mu.Lock()
	cancel, done := s.bgCancel, s.bgDone
	s.bgCancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *Session) generate(ctx context.Context, id thumbnails.RunID, done chan struct{}) {
	defer close(done)

	err := thumbnails.Drive(ctx, lockedTicker{s}, id, func(thumbnails.Progress) error {
		if !s.monitor.WaitIfPaused(ctx) {
			if err := ctx.Err(); err != nil {
				return err
			}
			return errMonitorStopped
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.tickPause):
			return nil
		}
	})

	switch {
	case err == nil:
		logging.Debug("Thumbnail run %d finished", id)
	case thumbnails.IsStale(err), errors.Is(err, context.Canceled):
		logging.Debug("Thumbnail run %d stopped: %v", id, err)
	default:
		logging.Warn("Thumbnail run %d stopped: %v", id, err)
	}
}

// lockedTicker ticks the scheduler one chunk per lock acquisition.
type lockedTicker struct {
	s *Session
}

func (t lockedTicker) TickRun(id thumbnails.RunID) (thumbnails.Progress, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return t.s.sched.TickRun(id)
}

// Progress returns the thumbnail progress of the current run.
func (s *Session) Progress() thumbnails.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched.Progress()
}

// Dirty reports whether ratings changed since the last CSV save or open.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Root returns the open catalog's root, or "" when nothing is loaded.
func (s *Session) Root() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cat == nil {
		return ""
	}
	return s.cat.Root()
}

// Thumbnail returns record i's thumbnail once generated.
func (s *Session) Thumbnail(i int) (*image.NRGBA, ThumbnailStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cat == nil {
		return nil, ThumbnailPending, ErrNotLoaded
	}
	if _, err := s.cat.At(i); err != nil {
		return nil, ThumbnailPending, err
	}

	res, ok := s.sched.Result(i)
	if !ok {
		return nil, ThumbnailPending, nil
	}
	if res.Failed {
		return nil, ThumbnailFailed, res.Err
	}
	return res.Image, ThumbnailReady, nil
}

// View moves the cursor to record i and returns the image fitted to the
// viewport. Viewports below MinViewSize fall back to the default size and
// larger ones are capped at MaxViewSize.
func (s *Session) View(i, width, height int) (*image.NRGBA, catalog.ImageRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cat == nil {
		return nil, catalog.ImageRecord{}, ErrNotLoaded
	}
	rec, err := s.cat.At(i)
	if err != nil {
		return nil, catalog.ImageRecord{}, err
	}

	if i != s.cat.CurrentIndex() {
		s.viewer.Invalidate()
	}
	s.cat.SetCurrent(i)

	width, height = viewport(width, height)
	img, err := s.viewer.Fitted(rec.Path, width, height)
	if err != nil {
		return nil, *rec, err
	}
	return img, *rec, nil
}

func viewport(width, height int) (int, int) {
	if width < MinViewSize || height < MinViewSize {
		return DefaultViewWidth, DefaultViewHeight
	}
	return min(width, MaxViewSize), min(height, MaxViewSize)
}

// Next moves the cursor forward, wrapping at the end.
func (s *Session) Next() (int, catalog.ImageRecord, error) {
	return s.navigate((*catalog.Catalog).Next)
}

// Prev moves the cursor back, wrapping at the start.
func (s *Session) Prev() (int, catalog.ImageRecord, error) {
	return s.navigate((*catalog.Catalog).Prev)
}

func (s *Session) navigate(step func(*catalog.Catalog) (int, error)) (int, catalog.ImageRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cat == nil {
		return 0, catalog.ImageRecord{}, ErrNotLoaded
	}
	i, err := step(s.cat)
	if err != nil {
		return 0, catalog.ImageRecord{}, err
	}
	s.viewer.Invalidate()

	rec, err := s.cat.At(i)
	if err != nil {
		return 0, catalog.ImageRecord{}, err
	}
	return i, *rec, nil
}

// SaveCSV writes the catalog's ratings to its CSV and clears the dirty
// flag. It returns the file written.
func (s *Session) SaveCSV() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cat == nil {
		return "", ErrNotLoaded
	}
	path := export.DefaultPath(s.cat.Root())
	if err := export.WriteCSV(path, s.cat); err != nil {
		return "", err
	}
	s.dirty = false
	return path, nil
}

// GetStats summarises the session for the metrics collector.
func (s *Session) GetStats() metrics.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cat == nil {
		return metrics.Stats{}
	}

	counts := s.cat.Counts()
	failed := 0
	for _, r := range s.sched.Results() {
		if r.Failed {
			failed++
		}
	}
	return metrics.Stats{
		TotalImages:      counts.Total,
		RasterImages:     counts.Raster,
		RawImages:        counts.Raw,
		Skipped:          s.cat.Skipped(),
		Liked:            counts.Liked,
		Rejected:         counts.Rejected,
		ThumbnailsFailed: failed,
	}
}
