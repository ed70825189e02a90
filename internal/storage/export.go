package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/afroash/weather-monitor/internal/models"
)

// CSVHeader is the header row of an export, in column order
var CSVHeader = []string{
	"id",
	"timestamp",
	"temperature",
	"humidity",
	"pressure",
	"air_quality",
	"wind_speed",
	"wind_direction",
	"rainfall",
}

// ExportCSV writes every reading to w as CSV, in ListReadings order
func (s *SQLiteStore) ExportCSV(w io.Writer) error {
	rows, err := s.db.Query(`SELECT ` + readingColumns + ` FROM weather_readings ORDER BY timestamp ASC, id ASC`)
	if err != nil {
		return wrap("query readings", err)
	}
	defer rows.Close()

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	count := 0
	for rows.Next() {
		r, err := scanReading(rows)
		if err != nil {
			return wrap("scan reading", err)
		}
		if err := cw.Write(csvRecord(r)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return wrap("iterate readings", err)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	s.logger.Debug().Int("rows", count).Msg("CSV export written")
	return nil
}

func csvRecord(r *models.WeatherReading) []string {
	return []string{
		strconv.FormatInt(r.ID, 10),
		r.Timestamp,
		formatFloat(r.Temperature),
		formatFloat(r.Humidity),
		formatFloat(r.Pressure),
		formatFloat(r.AirQuality),
		formatFloat(r.WindSpeed),
		formatFloat(r.WindDirection),
		formatFloat(r.Rainfall),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseCSV reads an export produced by ExportCSV back into readings.
// Columns are located by header name, so column order is not significant.
func ParseCSV(r io.Reader) ([]models.WeatherReading, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, name := range CSVHeader {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("csv header is missing column %q", name)
		}
	}

	var readings []models.WeatherReading
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv line %d: %w", line, err)
		}

		reading, err := parseRecord(record, index)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		readings = append(readings, reading)
	}

	return readings, nil
}

func parseRecord(record []string, index map[string]int) (models.WeatherReading, error) {
	var r models.WeatherReading
	var err error

	field := func(name string) string { return record[index[name]] }

	if r.ID, err = strconv.ParseInt(field("id"), 10, 64); err != nil {
		return r, fmt.Errorf("invalid id: %w", err)
	}
	r.Timestamp = field("timestamp")

	floats := []struct {
		name string
		dst  *float64
	}{
		{"temperature", &r.Temperature},
		{"humidity", &r.Humidity},
		{"pressure", &r.Pressure},
		{"air_quality", &r.AirQuality},
		{"wind_speed", &r.WindSpeed},
		{"wind_direction", &r.WindDirection},
		{"rainfall", &r.Rainfall},
	}
	for _, f := range floats {
		if *f.dst, err = strconv.ParseFloat(field(f.name), 64); err != nil {
			return r, fmt.Errorf("invalid %s: %w", f.name, err)
		}
	}

	return r, nil
}
