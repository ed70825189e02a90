package server

import (
	"net/http"

	"github.com/rs/zerolog"
)

// NewRouter registers the API, health and page routes behind the request logger
func NewRouter(api *APIHandler, pages *PageHandler, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// API endpoints
	mux.HandleFunc("/api/data", api.HandleData)
	mux.HandleFunc("/api/latest", api.HandleLatest)
	mux.HandleFunc("/api/stats", api.HandleStats)
	mux.HandleFunc("/api/export", api.HandleExport)

	// Health check endpoint
	mux.HandleFunc("/health", api.HandleHealth)

	// Dashboard pages
	mux.Handle("/", pages)

	return RequestLogger(logger, mux)
}
