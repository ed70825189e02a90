package storage

import (
	"database/sql"
	"fmt"
	"io"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/afroash/weather-monitor/internal/models"
)

// Store defines the interface for weather reading storage
type Store interface {
	Close() error
	Migrate() error
	InsertReading(in *models.ReadingInput) (*models.WeatherReading, error)
	InsertBatch(readings []models.WeatherReading) error
	ListReadings() ([]models.WeatherReading, error)
	LatestReading() (*models.WeatherReading, error)
	CountReadings() (int64, error)
	Summary() (*models.Summary, error)
	ExportCSV(w io.Writer) error
	GetStorageStats() (*StorageStats, error)
}

// Compile-time interface check
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore handles persistent storage of weather readings
type SQLiteStore struct {
	db     *sql.DB
	logger zerolog.Logger
	now    func() time.Time
}

// StorageStats contains information about the database
type StorageStats struct {
	TotalReadings   int64   `json:"total_readings"`
	OldestTimestamp string  `json:"oldest_timestamp,omitempty"`
	NewestTimestamp string  `json:"newest_timestamp,omitempty"`
	DatabaseSizeMB  float64 `json:"database_size_mb"`
}

const readingColumns = `id, timestamp, temperature, humidity, pressure, air_quality, wind_speed, wind_direction, rainfall`

const insertReadingSQL = `
	INSERT INTO weather_readings (timestamp, temperature, humidity, pressure, air_quality, wind_speed, wind_direction, rainfall)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

// NewSQLiteStore opens (creating if needed) the database file at dbPath
func NewSQLiteStore(dbPath string, logger zerolog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", buildDSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pragmas := []string{
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	// single writer; the driver serializes statements on this connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := newSQLiteStore(db, logger)

	if err := store.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info().Str("path", dbPath).Msg("SQLite store initialized")

	return store, nil
}

func newSQLiteStore(db *sql.DB, logger zerolog.Logger) *SQLiteStore {
	return &SQLiteStore{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// buildDSN turns a plain path into a file: URI with busy timeout and WAL enabled
func buildDSN(path string) string {
	params := "_busy_timeout=5000&_journal_mode=WAL"
	if strings.HasPrefix(path, "file:") {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + params
	}
	return fmt.Sprintf("file:%s?%s", path, params)
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Migrate creates the database schema if it doesn't exist
func (s *SQLiteStore) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS weather_readings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		temperature REAL NOT NULL,
		humidity REAL NOT NULL,
		pressure REAL NOT NULL,
		air_quality INTEGER NOT NULL,
		wind_speed REAL NOT NULL,
		wind_direction REAL NOT NULL,
		rainfall REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_weather_readings_timestamp ON weather_readings(timestamp);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	s.logger.Debug().Msg("Database schema migrated")
	return nil
}

// InsertReading validates and appends one reading, returning it with its assigned id.
// A reading without a timestamp gets the current time plus models.StationOffset.
func (s *SQLiteStore) InsertReading(in *models.ReadingInput) (*models.WeatherReading, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	reading := in.ToReading(s.now())

	result, err := s.db.Exec(insertReadingSQL,
		reading.Timestamp,
		reading.Temperature,
		reading.Humidity,
		reading.Pressure,
		reading.AirQuality,
		reading.WindSpeed,
		reading.WindDirection,
		reading.Rainfall,
	)
	if err != nil {
		return nil, wrap("insert reading", err)
	}

	reading.ID, err = result.LastInsertId()
	if err != nil {
		return nil, wrap("read inserted id", err)
	}

	s.logger.Debug().Int64("id", reading.ID).Str("timestamp", reading.Timestamp).Msg("Reading inserted")
	return &reading, nil
}

// InsertBatch inserts multiple readings in a single transaction.
// Reading ids are ignored and assigned by the store.
func (s *SQLiteStore) InsertBatch(readings []models.WeatherReading) error {
	if len(readings) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return wrap("begin transaction", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insertReadingSQL)
	if err != nil {
		return wrap("prepare statement", err)
	}
	defer stmt.Close()

	for _, r := range readings {
		_, err := stmt.Exec(
			r.Timestamp,
			r.Temperature,
			r.Humidity,
			r.Pressure,
			r.AirQuality,
			r.WindSpeed,
			r.WindDirection,
			r.Rainfall,
		)
		if err != nil {
			return wrap("insert reading in batch", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return wrap("commit transaction", err)
	}

	s.logger.Debug().Int("count", len(readings)).Msg("Batch insert completed")
	return nil
}

// ListReadings returns every reading ordered by timestamp text, oldest first
func (s *SQLiteStore) ListReadings() ([]models.WeatherReading, error) {
	rows, err := s.db.Query(`SELECT ` + readingColumns + ` FROM weather_readings ORDER BY timestamp ASC, id ASC`)
	if err != nil {
		return nil, wrap("query readings", err)
	}
	defer rows.Close()

	readings := make([]models.WeatherReading, 0)
	for rows.Next() {
		r, err := scanReading(rows)
		if err != nil {
			return nil, wrap("scan reading", err)
		}
		readings = append(readings, *r)
	}

	if err := rows.Err(); err != nil {
		return nil, wrap("iterate readings", err)
	}

	return readings, nil
}

// LatestReading returns the reading with the greatest timestamp
func (s *SQLiteStore) LatestReading() (*models.WeatherReading, error) {
	row := s.db.QueryRow(`SELECT ` + readingColumns + ` FROM weather_readings ORDER BY timestamp DESC, id DESC LIMIT 1`)

	reading, err := scanReading(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, wrap("get latest reading", err)
	}

	return reading, nil
}

// CountReadings returns the number of stored readings
func (s *SQLiteStore) CountReadings() (int64, error) {
	var n int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM weather_readings").Scan(&n); err != nil {
		return 0, wrap("count readings", err)
	}
	return n, nil
}

// Summary aggregates every stored reading in a single query
func (s *SQLiteStore) Summary() (*models.Summary, error) {
	query := `
		SELECT
			COUNT(*),
			AVG(temperature), MIN(temperature), MAX(temperature),
			AVG(humidity), MIN(humidity), MAX(humidity),
			AVG(pressure), MIN(pressure), MAX(pressure),
			AVG(air_quality), MIN(air_quality), MAX(air_quality),
			AVG(wind_speed), MIN(wind_speed), MAX(wind_speed),
			SUM(rainfall), AVG(rainfall)
		FROM weather_readings
	`

	var count int64
	// aggregates are NULL on an empty table
	var agg [17]sql.NullFloat64
	dest := []interface{}{&count}
	for i := range agg {
		dest = append(dest, &agg[i])
	}

	if err := s.db.QueryRow(query).Scan(dest...); err != nil {
		return nil, wrap("query statistics", err)
	}
	if count == 0 {
		return nil, models.ErrNotFound
	}

	return &models.Summary{
		TotalReadings:  count,
		AvgTemperature: agg[0].Float64,
		MinTemperature: agg[1].Float64,
		MaxTemperature: agg[2].Float64,
		AvgHumidity:    agg[3].Float64,
		MinHumidity:    agg[4].Float64,
		MaxHumidity:    agg[5].Float64,
		AvgPressure:    agg[6].Float64,
		MinPressure:    agg[7].Float64,
		MaxPressure:    agg[8].Float64,
		AvgAirQuality:  agg[9].Float64,
		MinAirQuality:  int64(agg[10].Float64),
		MaxAirQuality:  int64(agg[11].Float64),
		AvgWindSpeed:   agg[12].Float64,
		MinWindSpeed:   agg[13].Float64,
		MaxWindSpeed:   agg[14].Float64,
		TotalRainfall:  agg[15].Float64,
		AvgRainfall:    agg[16].Float64,
	}, nil
}

// GetStorageStats returns statistics about the database
func (s *SQLiteStore) GetStorageStats() (*StorageStats, error) {
	stats := &StorageStats{}

	var oldest, newest sql.NullString
	err := s.db.QueryRow("SELECT COUNT(*), MIN(timestamp), MAX(timestamp) FROM weather_readings").
		Scan(&stats.TotalReadings, &oldest, &newest)
	if err != nil {
		return nil, wrap("count readings", err)
	}
	stats.OldestTimestamp = oldest.String
	stats.NewestTimestamp = newest.String

	// Get database size using PRAGMA
	var pageCount, pageSize int64
	if err := s.db.QueryRow("PRAGMA page_count").Scan(&pageCount); err != nil {
		return nil, wrap("read page count", err)
	}
	if err := s.db.QueryRow("PRAGMA page_size").Scan(&pageSize); err != nil {
		return nil, wrap("read page size", err)
	}
	stats.DatabaseSizeMB = float64(pageCount*pageSize) / (1024 * 1024)

	return stats, nil
}

// scanReading scans a row into a WeatherReading
func scanReading(row interface{ Scan(...interface{}) error }) (*models.WeatherReading, error) {
	var r models.WeatherReading
	err := row.Scan(
		&r.ID,
		&r.Timestamp,
		&r.Temperature,
		&r.Humidity,
		&r.Pressure,
		&r.AirQuality,
		&r.WindSpeed,
		&r.WindDirection,
		&r.Rainfall,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
