package models

import "time"

// StoredReading is one persisted sensor sample.
type StoredReading struct {
	ID           int       `json:"id"`
	SensorID     string    `json:"sensor_id"`
	Tank         int       `json:"tank"`
	TemperatureC float64   `json:"temperature_c"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// TemperatureStats aggregates readings over a time window.
type TemperatureStats struct {
	MinC  float64 `json:"min_c"`
	MaxC  float64 `json:"max_c"`
	AvgC  float64 `json:"avg_c"`
	Count int     `json:"count"`
}
