package handlers

import (
	"net/http"
	"strconv"

	"photo-culler/internal/session"
)

// GetThumbnail serves record {index}'s thumbnail as JPEG, 202 while it is
// still pending and 422 when generation failed.
func (h *Handlers) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	i, ok := indexVar(r)
	if !ok {
		writeJSONError(w, "invalid index", http.StatusBadRequest)
		return
	}

	img, status, err := h.session.Thumbnail(i)
	switch {
	case status == session.ThumbnailFailed:
		writeUnavailable(w, err)
	case err != nil:
		writeError(w, err)
	case status == session.ThumbnailPending:
		w.Header().Set("Cache-Control", "no-cache")
		writeJSONStatusCode(w, http.StatusAccepted, map[string]string{"status": status.String()})
	default:
		writeJPEG(w, img, "no-cache")
	}
}

// GetView moves the cursor to record {index} and serves the image fitted to
// the w x h query viewport.
func (h *Handlers) GetView(w http.ResponseWriter, r *http.Request) {
	i, ok := indexVar(r)
	if !ok {
		writeJSONError(w, "invalid index", http.StatusBadRequest)
		return
	}

	img, rec, err := h.session.View(i, queryInt(r, "w"), queryInt(r, "h"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("X-Record-Index", strconv.Itoa(i))
	w.Header().Set("X-Record-Score", strconv.Itoa(rec.Score))
	writeJPEG(w, img, "no-store")
}
