package catalog

import (
	"errors"
	"fmt"
	"path/filepath"
)

const (
	// MinScore and MaxScore bound a record's score.
	MinScore = 1
	MaxScore = 5
	// DefaultScore is the score of an unrated record.
	DefaultScore = 5
)

// ErrInvalidScore is returned for scores outside [MinScore, MaxScore].
var ErrInvalidScore = errors.New("score out of range")

// ImageRecord is one image in the catalog and its rating.
type ImageRecord struct {
	Path     string `json:"path"`
	Filename string `json:"filename"`
	Liked    bool   `json:"liked"`
	Rejected bool   `json:"rejected"`
	Score    int    `json:"score"`
}

// NewImageRecord creates an unrated record for path.
func NewImageRecord(path string) *ImageRecord {
	return &ImageRecord{
		Path:     path,
		Filename: filepath.Base(path),
		Score:    DefaultScore,
	}
}

// SetPath changes the record's path and recomputes its filename.
func (r *ImageRecord) SetPath(path string) {
	r.Path = path
	r.Filename = filepath.Base(path)
}

// SetLiked sets the like flag. Liking clears a rejection.
func (r *ImageRecord) SetLiked(liked bool) {
	r.Liked = liked
	if liked {
		r.Rejected = false
	}
}

// SetRejected sets the reject flag. Rejecting clears a like.
func (r *ImageRecord) SetRejected(rejected bool) {
	r.Rejected = rejected
	if rejected {
		r.Liked = false
	}
}

// ToggleLike clears any rejection and flips the like flag.
func (r *ImageRecord) ToggleLike() {
	r.Rejected = false
	r.Liked = !r.Liked
}

// SetScore sets the score, rejecting values outside [MinScore, MaxScore].
func (r *ImageRecord) SetScore(score int) error {
	if score < MinScore || score > MaxScore {
		return fmt.Errorf("%w: %d (want %d-%d)", ErrInvalidScore, score, MinScore, MaxScore)
	}
	r.Score = score
	return nil
}

// State describes the rating for display: "Rejected", "Liked • Score N" or
// "Score N".
func (r *ImageRecord) State() string {
	switch {
	case r.Rejected:
		return "Rejected"
	case r.Liked:
		return fmt.Sprintf("Liked • Score %d", r.Score)
	default:
		return fmt.Sprintf("Score %d", r.Score)
	}
}

// StatusText is the viewer status line for a record.
func StatusText(r *ImageRecord) string {
	return fmt.Sprintf("%s  |  %s", r.Filename, r.State())
}

// Caption is the gallery caption for a record.
func Caption(r *ImageRecord) string {
	switch {
	case r.Rejected:
		return r.Filename + "  [Rejected]"
	case r.Liked:
		return fmt.Sprintf("%s  [Liked • %d]", r.Filename, r.Score)
	default:
		return fmt.Sprintf("%s  [Score %d]", r.Filename, r.Score)
	}
}
