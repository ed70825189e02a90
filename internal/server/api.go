package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/afroash/weather-monitor/internal/models"
)

const noDataMessage = "No data available"

// APIHandler handles the JSON and CSV endpoints used by the dashboard
type APIHandler struct {
	repo    ReadingRepository
	logger  zerolog.Logger
	version string
	now     func() time.Time
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(repo ReadingRepository, version string, logger zerolog.Logger) *APIHandler {
	return &APIHandler{
		repo:    repo,
		logger:  logger,
		version: version,
		now:     time.Now,
	}
}

// InsertResponse is the body returned after a reading is stored
type InsertResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    *models.WeatherReading `json:"data"`
}

// ErrorResponse is the body of every failed API call
type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleData lists all readings (GET) or stores a new one (POST)
func (api *APIHandler) HandleData(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		api.listReadings(w)
	case http.MethodPost:
		api.insertReading(w, r)
	default:
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (api *APIHandler) listReadings(w http.ResponseWriter) {
	readings, err := api.repo.ListReadings()
	if err != nil {
		api.fail(w, err, "Failed to list readings")
		return
	}
	respondWithJSON(w, http.StatusOK, readings)
}

func (api *APIHandler) insertReading(w http.ResponseWriter, r *http.Request) {
	var in models.ReadingInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}

	reading, err := api.repo.InsertReading(&in)
	if err != nil {
		api.fail(w, err, "Failed to insert reading")
		return
	}

	api.logger.Info().
		Int64("id", reading.ID).
		Stringer("reading", reading).
		Msg("Reading stored")

	respondWithJSON(w, http.StatusCreated, InsertResponse{
		Success: true,
		Message: "Data inserted successfully",
		Data:    reading,
	})
}

// HandleLatest returns the most recent reading
func (api *APIHandler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	reading, err := api.repo.LatestReading()
	if err != nil {
		api.fail(w, err, "Failed to get latest reading")
		return
	}
	respondWithJSON(w, http.StatusOK, reading)
}

// HandleStats returns summary statistics over every reading
func (api *APIHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	summary, err := api.repo.Summary()
	if err != nil {
		api.fail(w, err, "Failed to compute statistics")
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}

// HandleExport sends every reading as a CSV attachment
func (api *APIHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	// buffered so a storage failure can still be reported as JSON
	var buf bytes.Buffer
	if err := api.repo.ExportCSV(&buf); err != nil {
		api.fail(w, err, "Failed to export readings")
		return
	}

	filename := ExportFilename(api.now())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		api.logger.Warn().Err(err).Msg("Failed to write export")
		return
	}

	api.logger.Info().Str("filename", filename).Int("bytes", buf.Len()).Msg("Export sent")
}

// ExportFilename names a CSV export after the given local time
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("weather_data_%s.csv", t.Format("20060102_150405"))
}

// HandleHealth reports liveness plus basic storage figures
func (api *APIHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	stats, err := api.repo.GetStorageStats()
	if err != nil {
		api.fail(w, err, "Health check failed")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"status":           "ok",
		"version":          api.version,
		"total_readings":   stats.TotalReadings,
		"database_size_mb": stats.DatabaseSizeMB,
	})
}

// fail maps a repository error onto a status code and JSON body
func (api *APIHandler) fail(w http.ResponseWriter, err error, logMsg string) {
	var vErr *models.ValidationError
	switch {
	case errors.As(err, &vErr):
		api.logger.Warn().Str("field", vErr.Field).Msg("Reading rejected")
		respondWithError(w, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, models.ErrNotFound):
		respondWithError(w, http.StatusNotFound, noDataMessage)
	default:
		api.logger.Error().Err(err).Msg(logMsg)
		respondWithError(w, http.StatusInternalServerError, err.Error())
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
