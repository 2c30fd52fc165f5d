package handlers

import (
	"net/http"
)

// GetCatalog returns every record with its caption, thumbnail state, the
// cursor and the thumbnail progress.
func (h *Handlers) GetCatalog(w http.ResponseWriter, _ *http.Request) {
	snap, err := h.session.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	writeJSONStatusCode(w, http.StatusOK, snap)
}

// ReloadCatalog rediscovers the catalog root and restarts thumbnail
// generation.
func (h *Handlers) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Reload(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSONStatusCode(w, http.StatusOK, h.session.Progress())
}

// GetProgress returns the thumbnail progress of the current run.
func (h *Handlers) GetProgress(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	writeJSONStatusCode(w, http.StatusOK, h.session.Progress())
}

// ExportCSV writes the ratings CSV into the catalog root.
func (h *Handlers) ExportCSV(w http.ResponseWriter, _ *http.Request) {
	path, err := h.session.SaveCSV()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSONStatusCode(w, http.StatusOK, map[string]string{
		"status": "saved",
		"path":   path,
	})
}
