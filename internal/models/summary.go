package models

// Summary holds aggregate statistics over every stored reading.
// It is computed on demand and never persisted.
type Summary struct {
	TotalReadings  int64   `json:"total_readings"`
	AvgTemperature float64 `json:"avg_temperature"`
	MinTemperature float64 `json:"min_temperature"`
	MaxTemperature float64 `json:"max_temperature"`
	AvgHumidity    float64 `json:"avg_humidity"`
	MinHumidity    float64 `json:"min_humidity"`
	MaxHumidity    float64 `json:"max_humidity"`
	AvgPressure    float64 `json:"avg_pressure"`
	MinPressure    float64 `json:"min_pressure"`
	MaxPressure    float64 `json:"max_pressure"`
	AvgAirQuality  float64 `json:"avg_air_quality"`
	MinAirQuality  int64   `json:"min_air_quality"`
	MaxAirQuality  int64   `json:"max_air_quality"`
	AvgWindSpeed   float64 `json:"avg_wind_speed"`
	MinWindSpeed   float64 `json:"min_wind_speed"`
	MaxWindSpeed   float64 `json:"max_wind_speed"`
	TotalRainfall  float64 `json:"total_rainfall"`
	AvgRainfall    float64 `json:"avg_rainfall"`
}
