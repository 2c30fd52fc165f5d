package handlers

import (
	"encoding/json"
	"net/http"

	"photo-culler/internal/catalog"
)

// recordResponse is a record plus its display text.
type recordResponse struct {
	Index int `json:"index"`
	catalog.ImageRecord
	Status  string `json:"status"`
	Caption string `json:"caption"`
}

func newRecordResponse(i int, rec catalog.ImageRecord) recordResponse {
	return recordResponse{
		Index:       i,
		ImageRecord: rec,
		Status:      catalog.StatusText(&rec),
		Caption:     catalog.Caption(&rec),
	}
}

// ToggleLike flips the like flag of record {index}.
func (h *Handlers) ToggleLike(w http.ResponseWriter, r *http.Request) {
	i, ok := indexVar(r)
	if !ok {
		writeJSONError(w, "invalid index", http.StatusBadRequest)
		return
	}
	rec, err := h.session.ToggleLike(r.Context(), i)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSONStatusCode(w, http.StatusOK, newRecordResponse(i, rec))
}

// Reject marks record {index} rejected.
func (h *Handlers) Reject(w http.ResponseWriter, r *http.Request) {
	i, ok := indexVar(r)
	if !ok {
		writeJSONError(w, "invalid index", http.StatusBadRequest)
		return
	}
	rec, err := h.session.Reject(r.Context(), i)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSONStatusCode(w, http.StatusOK, newRecordResponse(i, rec))
}

// SetScore sets the score of record {index} from a {"score": n} body.
func (h *Handlers) SetScore(w http.ResponseWriter, r *http.Request) {
	i, ok := indexVar(r)
	if !ok {
		writeJSONError(w, "invalid index", http.StatusBadRequest)
		return
	}

	var req struct {
		Score *int `json:"score"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Score == nil {
		writeJSONError(w, "request body must be {\"score\": n}", http.StatusBadRequest)
		return
	}

	rec, err := h.session.SetScore(r.Context(), i, *req.Score)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSONStatusCode(w, http.StatusOK, newRecordResponse(i, rec))
}

// Next moves the cursor to the next record, wrapping at the end.
func (h *Handlers) Next(w http.ResponseWriter, _ *http.Request) {
	i, rec, err := h.session.Next()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSONStatusCode(w, http.StatusOK, newRecordResponse(i, rec))
}

// Prev moves the cursor to the previous record, wrapping at the start.
func (h *Handlers) Prev(w http.ResponseWriter, _ *http.Request) {
	i, rec, err := h.session.Prev()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSONStatusCode(w, http.StatusOK, newRecordResponse(i, rec))
}
