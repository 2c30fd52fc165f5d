package database

import (
	"context"
	"fmt"
	"time"

	"photo-culler/internal/catalog"
)

// Rating is the stored rating for one image.
type Rating struct {
	Path      string
	Filename  string
	Liked     bool
	Rejected  bool
	Score     int
	UpdatedAt time.Time
}

// SaveRating writes the record's current rating.
func (d *Database) SaveRating(ctx context.Context, r *catalog.ImageRecord) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
		INSERT INTO ratings (path, filename, liked, rejected, score, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			filename = excluded.filename,
			liked = excluded.liked,
			rejected = excluded.rejected,
			score = excluded.score,
			updated_at = excluded.updated_at
	`

	start := time.Now()
	_, err := d.db.ExecContext(ctx, query, r.Path, r.Filename, r.Liked, r.Rejected, r.Score, time.Now().Unix())
	recordQuery("upsert_rating", start, err)
	if err != nil {
		return fmt.Errorf("failed to save rating for %s: %w", r.Path, err)
	}
	return nil
}

// DeleteRating removes the stored rating for path.
func (d *Database) DeleteRating(ctx context.Context, path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	start := time.Now()
	_, err := d.db.ExecContext(ctx, "DELETE FROM ratings WHERE path = ?", path)
	recordQuery("delete_rating", start, err)
	return err
}

// LoadRatings returns every stored rating keyed by path.
func (d *Database) LoadRatings(ctx context.Context) (map[string]Rating, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	start := time.Now()
	rows, err := d.db.QueryContext(ctx, `
		SELECT path, filename, liked, rejected, score, updated_at
		FROM ratings
	`)
	if err != nil {
		recordQuery("load_ratings", start, err)
		return nil, fmt.Errorf("failed to load ratings: %w", err)
	}
	defer rows.Close()

	ratings := make(map[string]Rating)
	for rows.Next() {
		var r Rating
		var updated int64
		if err := rows.Scan(&r.Path, &r.Filename, &r.Liked, &r.Rejected, &r.Score, &updated); err != nil {
			recordQuery("load_ratings", start, err)
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		r.UpdatedAt = time.Unix(updated, 0)
		ratings[r.Path] = r
	}
	err = rows.Err()
	recordQuery("load_ratings", start, err)
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

// ApplyRatings copies stored ratings onto the matching catalog records and
// returns how many were restored.
func (d *Database) ApplyRatings(ctx context.Context, c *catalog.Catalog) (int, error) {
	ratings, err := d.LoadRatings(ctx)
	if err != nil {
		return 0, err
	}

	restored := 0
	for _, rec := range c.Records() {
		r, ok := ratings[rec.Path]
		if !ok {
			continue
		}
		rec.SetLiked(r.Liked)
		rec.SetRejected(r.Rejected)
		if err := rec.SetScore(r.Score); err != nil {
			rec.Score = catalog.DefaultScore
		}
		restored++
	}
	return restored, nil
}
