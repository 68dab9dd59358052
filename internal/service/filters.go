package service

import "time"

// RangeFilter bounds a history query. Zero bounds mean unbounded.
type RangeFilter struct {
	From time.Time // inclusive
	To   time.Time // inclusive
}

// TempFilter bounds a temperature history query; Tank <= 0 means all tanks.
type TempFilter struct {
	RangeFilter
	Tank int
}

// LogFilter bounds an event log query; empty Type means all types.
type LogFilter struct {
	RangeFilter
	Type string // "", "STARTUP", "SHUTDOWN", "SENSOR_FAILURE", "SAFETY_TRIP", "MODE_CHANGE", "ACTUATOR_ERROR"
}
