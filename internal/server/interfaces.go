package server

import (
	"io"

	"github.com/afroash/weather-monitor/internal/models"
	"github.com/afroash/weather-monitor/internal/storage"
)

// ReadingRepository is the storage the HTTP layer depends on.
// storage.SQLiteStore implements this interface
type ReadingRepository interface {
	// InsertReading validates and stores one reading, returning it with its id
	InsertReading(in *models.ReadingInput) (*models.WeatherReading, error)

	// ListReadings returns all readings, oldest timestamp first
	ListReadings() ([]models.WeatherReading, error)

	// LatestReading returns the reading with the greatest timestamp, or models.ErrNotFound
	LatestReading() (*models.WeatherReading, error)

	// Summary returns aggregate statistics, or models.ErrNotFound when empty
	Summary() (*models.Summary, error)

	// ExportCSV writes all readings to w as CSV
	ExportCSV(w io.Writer) error

	// GetStorageStats returns database statistics
	GetStorageStats() (*storage.StorageStats, error)
}

var _ ReadingRepository = (*storage.SQLiteStore)(nil)
