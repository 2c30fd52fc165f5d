package handlers

import (
	"github.com/gorilla/mux"
)

// Router registers every route. /metrics is only added when metricsEnabled.
func (h *Handlers) Router(metricsEnabled bool) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")
	if metricsEnabled {
		r.Handle("/metrics", h.MetricsHandler()).Methods("GET")
	}

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/catalog", h.GetCatalog).Methods("GET")
	api.HandleFunc("/catalog/reload", h.ReloadCatalog).Methods("POST")
	api.HandleFunc("/thumbnails/progress", h.GetProgress).Methods("GET")
	api.HandleFunc("/thumbnail/{index:[0-9]+}", h.GetThumbnail).Methods("GET")
	api.HandleFunc("/view/{index:[0-9]+}", h.GetView).Methods("GET")

	records := api.PathPrefix("/records/{index:[0-9]+}").Subrouter()
	records.HandleFunc("/like", h.ToggleLike).Methods("POST")
	records.HandleFunc("/reject", h.Reject).Methods("POST")
	records.HandleFunc("/score", h.SetScore).Methods("POST")

	api.HandleFunc("/navigate/next", h.Next).Methods("POST")
	api.HandleFunc("/navigate/prev", h.Prev).Methods("POST")
	api.HandleFunc("/export", h.ExportCSV).Methods("POST")

	return r
}
