package models

// ControlParameters is the full set of runtime control settings.
// Validation happens at the config store boundary; the control loop
// always operates on an already-validated snapshot.
type ControlParameters struct {
	SetpointC            float64 `json:"setpoint_c"`              // target average temperature °C
	HysteresisC          float64 `json:"hysteresis_c"`            // ± band around setpoint °C
	MaxTemperatureC      float64 `json:"max_temperature_c"`       // safety ceiling °C
	PumpDelaySec         int     `json:"pump_delay_sec"`          // pump run-on after heating stops
	UpdateIntervalSec    int     `json:"update_interval_sec"`     // control cycle period
	SensorTimeoutSec     int     `json:"sensor_timeout_sec"`      // bound on a single sensor read
	RelayHeating         string  `json:"relay_heating"`           // Unipi circuit, e.g. "1_01"
	RelayPump            string  `json:"relay_pump"`              // Unipi circuit, e.g. "1_02"
	ManualOverride       bool    `json:"manual_override"`
	ManualHeating        bool    `json:"manual_heating"`
	ManualPump           bool    `json:"manual_pump"`
	HeatingSystemEnabled bool    `json:"heating_system_enabled"`
	DataRetentionDays    int     `json:"data_retention_days"`
}

// DefaultControlParameters mirrors the factory defaults used when no
// persisted settings row exists yet.
func DefaultControlParameters() ControlParameters {
	return ControlParameters{
		SetpointC:            60.0,
		HysteresisC:          2.0,
		MaxTemperatureC:      85.0,
		PumpDelaySec:         60,
		UpdateIntervalSec:    5,
		SensorTimeoutSec:     30,
		RelayHeating:         "1_01",
		RelayPump:            "1_02",
		ManualOverride:       false,
		ManualHeating:        false,
		ManualPump:           false,
		HeatingSystemEnabled: true,
		DataRetentionDays:    365,
	}
}
