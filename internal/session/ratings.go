package session

import (
	"context"

	"photo-culler/internal/catalog"
	"photo-culler/internal/logging"
	"photo-culler/internal/metrics"
)

// ToggleLike flips record i's like flag, clearing any rejection.
func (s *Session) ToggleLike(ctx context.Context, i int) (catalog.ImageRecord, error) {
	return s.rate(ctx, i, "like", func(r *catalog.ImageRecord) error {
		r.ToggleLike()
		return nil
	})
}

// Reject marks record i rejected, clearing any like.
func (s *Session) Reject(ctx context.Context, i int) (catalog.ImageRecord, error) {
	return s.rate(ctx, i, "reject", func(r *catalog.ImageRecord) error {
		r.SetRejected(true)
		return nil
	})
}

// SetScore sets record i's score.
func (s *Session) SetScore(ctx context.Context, i, score int) (catalog.ImageRecord, error) {
	return s.rate(ctx, i, "score", func(r *catalog.ImageRecord) error {
		return r.SetScore(score)
	})
}

func (s *Session) rate(ctx context.Context, i int, action string, apply func(*catalog.ImageRecord) error) (catalog.ImageRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cat == nil {
		return catalog.ImageRecord{}, ErrNotLoaded
	}
	rec, err := s.cat.At(i)
	if err != nil {
		return catalog.ImageRecord{}, err
	}
	if err := apply(rec); err != nil {
		return *rec, err
	}

	s.dirty = true
	metrics.RatingChangesTotal.WithLabelValues(action).Inc()
	logging.Debug("%s: %s", action, catalog.StatusText(rec))

	if s.store != nil {
		if err := s.store.SaveRating(ctx, rec); err != nil {
			logging.Warn("Autosave failed for %s: %v", rec.Filename, err)
		}
	}
	return *rec, nil
}
