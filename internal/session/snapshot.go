package session

import (
	"time"

	"photo-culler/internal/catalog"
	"photo-culler/internal/thumbnails"
)

// ThumbnailStatus is the generation state of one record's thumbnail.
type ThumbnailStatus int

const (
	ThumbnailPending ThumbnailStatus = iota
	ThumbnailReady
	ThumbnailFailed
)

func (s ThumbnailStatus) String() string {
	switch s {
	case ThumbnailReady:
		return "ready"
	case ThumbnailFailed:
		return "unavailable"
	default:
		return "pending"
	}
}

// RecordView is a record as presented to clients.
type RecordView struct {
	catalog.ImageRecord
	Index     int    `json:"index"`
	Caption   string `json:"caption"`
	Status    string `json:"status"`
	Thumbnail string `json:"thumbnail"`
}

// Snapshot is a consistent copy of the session state.
type Snapshot struct {
	Root     string              `json:"root"`
	Records  []RecordView        `json:"records"`
	Current  int                 `json:"current"`
	Skipped  int                 `json:"skipped"`
	Dirty    bool                `json:"dirty"`
	Progress thumbnails.Progress `json:"progress"`
}

// Snapshot copies the catalog, cursor and progress under the lock.
func (s *Session) Snapshot() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cat == nil {
		return Snapshot{}, ErrNotLoaded
	}

	records := s.cat.Records()
	snap := Snapshot{
		Root:     s.cat.Root(),
		Records:  make([]RecordView, len(records)),
		Current:  s.cat.CurrentIndex(),
		Skipped:  s.cat.Skipped(),
		Dirty:    s.dirty,
		Progress: s.sched.Progress(),
	}
	for i, r := range records {
		status := ThumbnailPending
		if res, ok := s.sched.Result(i); ok {
			status = ThumbnailReady
			if res.Failed {
				status = ThumbnailFailed
			}
		}
		snap.Records[i] = RecordView{
			ImageRecord: *r,
			Index:       i,
			Caption:     catalog.Caption(r),
			Status:      catalog.StatusText(r),
			Thumbnail:   status.String(),
		}
	}
	return snap, nil
}

// HealthStatus contains health check information.
type HealthStatus struct {
	Ready      bool                 `json:"ready"`
	Generating bool                 `json:"generating"`
	StartTime  time.Time            `json:"startTime"`
	Uptime     string               `json:"uptime"`
	LastLoaded time.Time            `json:"lastLoaded,omitempty"`
	LoadError  string               `json:"loadError,omitempty"`
	Images     int                  `json:"images"`
	Progress   *thumbnails.Progress `json:"progress,omitempty"`
}

// Health returns detailed health information.
func (s *Session) Health() HealthStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := HealthStatus{
		Ready:      s.cat != nil,
		Generating: s.sched.State() == thumbnails.Running,
		StartTime:  s.startTime,
		Uptime:     time.Since(s.startTime).String(),
		LastLoaded: s.lastLoaded,
	}
	if s.cat != nil {
		status.Images = s.cat.Len()
	}
	if status.Generating {
		p := s.sched.Progress()
		status.Progress = &p
	}
	if s.loadErr != nil {
		status.LoadError = s.loadErr.Error()
	}
	return status
}
