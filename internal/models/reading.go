package models

import (
	"fmt"
	"time"
)

// TimestampLayout is the ISO-8601 layout used for server-assigned timestamps
const TimestampLayout = "2006-01-02T15:04:05.000000"

// StationOffset is the fixed regional bias added to UTC for server-assigned timestamps.
// It is not a timezone conversion: the stored value carries no offset suffix.
const StationOffset = 5*time.Hour + 30*time.Minute

// WeatherReading is one stored sensor sample from the weather_readings table.
type WeatherReading struct {
	ID            int64   `json:"id"`
	Timestamp     string  `json:"timestamp"`
	Temperature   float64 `json:"temperature"`
	Humidity      float64 `json:"humidity"`
	Pressure      float64 `json:"pressure"`
	AirQuality    float64 `json:"air_quality"`
	WindSpeed     float64 `json:"wind_speed"`
	WindDirection float64 `json:"wind_direction"`
	Rainfall      float64 `json:"rainfall"`
}

// ReadingInput is an incoming reading before it is stored.
// Pointer fields distinguish a missing value from a zero value.
type ReadingInput struct {
	Timestamp     *string  `json:"timestamp,omitempty"`
	Temperature   *float64 `json:"temperature"`
	Humidity      *float64 `json:"humidity"`
	Pressure      *float64 `json:"pressure"`
	AirQuality    *float64 `json:"air_quality"`
	WindSpeed     *float64 `json:"wind_speed"`
	WindDirection *float64 `json:"wind_direction"`
	Rainfall      *float64 `json:"rainfall"`
}

// RequiredFields lists the measurement fields in the order they are checked.
var RequiredFields = []string{
	"temperature",
	"humidity",
	"pressure",
	"air_quality",
	"wind_speed",
	"wind_direction",
	"rainfall",
}

// Validate reports the first missing measurement field, checked in RequiredFields order.
func (in *ReadingInput) Validate() error {
	present := []bool{
		in.Temperature != nil,
		in.Humidity != nil,
		in.Pressure != nil,
		in.AirQuality != nil,
		in.WindSpeed != nil,
		in.WindDirection != nil,
		in.Rainfall != nil,
	}
	for i, ok := range present {
		if !ok {
			return &ValidationError{Field: RequiredFields[i]}
		}
	}
	return nil
}

// ToReading builds the reading to store. If no timestamp was supplied,
// now shifted by StationOffset is used. Validate must have succeeded first.
func (in *ReadingInput) ToReading(now time.Time) WeatherReading {
	ts := now.UTC().Add(StationOffset).Format(TimestampLayout)
	if in.Timestamp != nil {
		ts = *in.Timestamp
	}
	return WeatherReading{
		Timestamp:     ts,
		Temperature:   *in.Temperature,
		Humidity:      *in.Humidity,
		Pressure:      *in.Pressure,
		AirQuality:    *in.AirQuality,
		WindSpeed:     *in.WindSpeed,
		WindDirection: *in.WindDirection,
		Rainfall:      *in.Rainfall,
	}
}

// String returns a short human readable form of the reading
func (r *WeatherReading) String() string {
	return fmt.Sprintf("ID: %d, Timestamp: %s, Temperature: %.1f°C, Humidity: %.1f%%, Pressure: %.1fhPa, AQI: %g, Wind: %.1f @ %.0f°, Rain: %.1fmm",
		r.ID,
		r.Timestamp,
		r.Temperature,
		r.Humidity,
		r.Pressure,
		r.AirQuality,
		r.WindSpeed,
		r.WindDirection,
		r.Rainfall)
}
