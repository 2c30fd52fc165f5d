package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"net/http"
	"strconv"

	"photo-culler/internal/catalog"
	"photo-culler/internal/logging"
	"photo-culler/internal/media"
	"photo-culler/internal/session"

	"github.com/disintegration/imaging"
	"github.com/gorilla/mux"
)

// jpegQuality is the encoder quality for thumbnails and viewer images.
const jpegQuality = 85

// writeJSON encodes v as JSON and writes it to the response writer.
// Any encoding or write errors are logged since we typically cannot
// recover from them in an HTTP handler context.
func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes an error response as JSON with the given status code.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	writeJSONStatusCode(w, statusCode, map[string]string{"error": message})
}

// writeJSONStatusCode writes v as JSON with the given status code.
func writeJSONStatusCode(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, v)
}

// writeJPEG encodes img and writes it with the given cache policy.
func writeJPEG(w http.ResponseWriter, img image.Image, cacheControl string) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		logging.Error("failed to encode JPEG: %v", err)
		writeJSONError(w, "failed to encode image", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", cacheControl)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logging.Debug("failed to write image response: %v", err)
	}
}

// writeUnavailable reports a record whose image could not be decoded.
func writeUnavailable(w http.ResponseWriter, err error) {
	body := map[string]string{"status": "unavailable"}
	if err != nil {
		body["error"] = err.Error()
	}
	writeJSONStatusCode(w, http.StatusUnprocessableEntity, body)
}

// writeError maps session, catalog and decode errors onto HTTP responses.
func writeError(w http.ResponseWriter, err error) {
	var decodeErr *media.DecodeError
	var unsupported *media.UnsupportedFormatError

	switch {
	case errors.As(err, &decodeErr):
		writeUnavailable(w, err)
	case errors.As(err, &unsupported):
		writeJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, catalog.ErrInvalidScore):
		writeJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, catalog.ErrIndexOutOfRange):
		writeJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, session.ErrNotLoaded), errors.Is(err, catalog.ErrEmptyCatalog):
		writeJSONError(w, err.Error(), http.StatusConflict)
	default:
		logging.Error("request failed: %v", err)
		writeJSONError(w, "internal error", http.StatusInternalServerError)
	}
}

// indexVar parses the {index} route variable.
func indexVar(r *http.Request) (int, bool) {
	i, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// queryInt parses an optional integer query parameter, returning 0 when it
// is absent or malformed.
func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return v
}
