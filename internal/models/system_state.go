package models

import "time"

// TankReading is one sensor sample taken during a control cycle.
// A reading with Available=false is excluded from the average.
type TankReading struct {
	Tank         int     `json:"tank"`   // 1..3
	SensorID     string  `json:"sensor_id"`
	TemperatureC float64 `json:"temperature_c"`
	Available    bool    `json:"available"`
}

// SystemState is the snapshot published at the end of every control cycle.
// AverageTempC is nil when no sensor delivered a reading this cycle.
type SystemState struct {
	Readings             []TankReading `json:"readings"`
	AverageTempC         *float64      `json:"average_temp_c"`
	HeatingActive        bool          `json:"heating_active"`
	PumpActive           bool          `json:"pump_active"`
	PumpShutoffDeadline  *time.Time    `json:"pump_shutoff_deadline,omitempty"`
	SafetyTripped        bool          `json:"safety_tripped"`
	ManualOverride       bool          `json:"manual_override"`
	HeatingSystemEnabled bool          `json:"heating_system_enabled"`
	SetpointC            float64       `json:"setpoint_c"`
	HysteresisC          float64       `json:"hysteresis_c"`
	UpdatedAt            time.Time     `json:"updated_at"`
}
