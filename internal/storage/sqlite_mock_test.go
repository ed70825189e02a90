package storage

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"

	"github.com/afroash/weather-monitor/internal/models"
)

type SQLiteStoreMockSuite struct {
	suite.Suite
	mock  sqlmock.Sqlmock
	store *SQLiteStore
}

func (s *SQLiteStoreMockSuite) SetupTest() {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	s.Require().NoError(err)

	s.mock = mock
	s.store = newSQLiteStore(db, zerolog.Nop())
	s.store.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
}

func (s *SQLiteStoreMockSuite) TearDownTest() {
	s.Require().NoError(s.mock.ExpectationsWereMet())
}

func (s *SQLiteStoreMockSuite) TestInsertReadingPassesValues() {
	in := createTestInput("", 25.5, 0, 42)

	s.mock.ExpectExec(`INSERT INTO weather_readings`).
		WithArgs("2024-01-01T05:30:00.000000", 25.5, 55.0, 1012.5, 42.0, 4.2, 270.0, 0.0).
		WillReturnResult(sqlmock.NewResult(17, 1))

	reading, err := s.store.InsertReading(in)

	s.Require().NoError(err)
	s.Equal(int64(17), reading.ID)
	s.Equal("2024-01-01T05:30:00.000000", reading.Timestamp)
}

func (s *SQLiteStoreMockSuite) TestInsertReadingWrapsDriverError() {
	dbErr := errors.New("disk I/O error")
	s.mock.ExpectExec(`INSERT INTO weather_readings`).WillReturnError(dbErr)

	_, err := s.store.InsertReading(createTestInput("2024-01-01T00:00:00", 20, 0, 1))

	var storageErr *StorageError
	s.Require().ErrorAs(err, &storageErr)
	s.Equal("insert reading", storageErr.Op)
	s.ErrorIs(err, dbErr)
	s.Equal("failed to insert reading: disk I/O error", err.Error())
}

func (s *SQLiteStoreMockSuite) TestInsertReadingValidatesBeforeTouchingStore() {
	in := createTestInput("2024-01-01T00:00:00", 20, 0, 1)
	in.Temperature = nil

	_, err := s.store.InsertReading(in)

	var vErr *models.ValidationError
	s.Require().ErrorAs(err, &vErr)
	s.Equal("temperature", vErr.Field)
}

func (s *SQLiteStoreMockSuite) TestListReadingsQueryError() {
	s.mock.ExpectQuery(`SELECT .+ FROM weather_readings ORDER BY timestamp ASC`).
		WillReturnError(errors.New("database is locked"))

	_, err := s.store.ListReadings()

	s.Require().Error(err)
	s.Contains(err.Error(), "database is locked")
}

func (s *SQLiteStoreMockSuite) TestListReadingsScanError() {
	rows := sqlmock.NewRows(CSVHeader).
		AddRow(1, "2024-01-01T00:00:00", "not-a-number", 1.0, 1.0, 1, 1.0, 1.0, 1.0)
	s.mock.ExpectQuery(`SELECT .+ FROM weather_readings`).WillReturnRows(rows)

	_, err := s.store.ListReadings()

	var storageErr *StorageError
	s.Require().ErrorAs(err, &storageErr)
	s.Equal("scan reading", storageErr.Op)
}

func (s *SQLiteStoreMockSuite) TestLatestReadingQueryError() {
	s.mock.ExpectQuery(`ORDER BY timestamp DESC, id DESC LIMIT 1`).
		WillReturnError(errors.New("malformed database"))

	_, err := s.store.LatestReading()

	s.Require().Error(err)
	s.NotErrorIs(err, models.ErrNotFound)
}

func (s *SQLiteStoreMockSuite) TestSummaryQueryError() {
	s.mock.ExpectQuery(`SELECT\s+COUNT\(\*\),\s+AVG\(temperature\)`).
		WillReturnError(errors.New("no such table: weather_readings"))

	_, err := s.store.Summary()

	var storageErr *StorageError
	s.Require().ErrorAs(err, &storageErr)
	s.Equal("query statistics", storageErr.Op)
}

func (s *SQLiteStoreMockSuite) TestExportCSVQueryError() {
	s.mock.ExpectQuery(`SELECT .+ FROM weather_readings`).
		WillReturnError(errors.New("disk I/O error"))

	var buf bytes.Buffer
	err := s.store.ExportCSV(&buf)

	s.Require().Error(err)
	s.Zero(buf.Len(), "nothing should be written when the query fails")
}

func (s *SQLiteStoreMockSuite) TestInsertBatchRollsBackOnError() {
	s.mock.ExpectBegin()
	s.mock.ExpectPrepare(`INSERT INTO weather_readings`)
	s.mock.ExpectExec(`INSERT INTO weather_readings`).WillReturnResult(sqlmock.NewResult(1, 1))
	s.mock.ExpectExec(`INSERT INTO weather_readings`).WillReturnError(errors.New("constraint failed"))
	s.mock.ExpectRollback()

	err := s.store.InsertBatch([]models.WeatherReading{
		{Timestamp: "2024-01-01T00:00:00"},
		{Timestamp: "2024-01-01T01:00:00"},
	})

	s.Require().Error(err)
	s.Contains(err.Error(), "insert reading in batch")
}

func (s *SQLiteStoreMockSuite) TestGetStorageStatsPageCountError() {
	s.mock.ExpectQuery(`SELECT COUNT\(\*\), MIN\(timestamp\), MAX\(timestamp\) FROM weather_readings`).
		WillReturnRows(sqlmock.NewRows([]string{"count", "oldest", "newest"}).AddRow(3, "2024-01-01T00:00:00", "2024-01-01T02:00:00"))
	s.mock.ExpectQuery(`PRAGMA page_count`).
		WillReturnError(errors.New("disk I/O error"))

	stats, err := s.store.GetStorageStats()

	s.Require().Error(err)
	s.Nil(stats)
	s.Equal("failed to read page count: disk I/O error", err.Error())
}

func (s *SQLiteStoreMockSuite) TestGetStorageStatsPageSizeError() {
	s.mock.ExpectQuery(`SELECT COUNT\(\*\), MIN\(timestamp\), MAX\(timestamp\) FROM weather_readings`).
		WillReturnRows(sqlmock.NewRows([]string{"count", "oldest", "newest"}).AddRow(0, nil, nil))
	s.mock.ExpectQuery(`PRAGMA page_count`).
		WillReturnRows(sqlmock.NewRows([]string{"page_count"}).AddRow(4))
	s.mock.ExpectQuery(`PRAGMA page_size`).
		WillReturnError(errors.New("disk I/O error"))

	_, err := s.store.GetStorageStats()

	var storageErr *StorageError
	s.Require().ErrorAs(err, &storageErr)
	s.Equal("read page size", storageErr.Op)
}

func TestSQLiteStoreMockSuite(t *testing.T) {
	suite.Run(t, new(SQLiteStoreMockSuite))
}
