package models

import "time"

// Event types recorded in the control event log.
const (
	EventStartup       = "STARTUP"
	EventShutdown      = "SHUTDOWN"
	EventSensorFailure = "SENSOR_FAILURE"
	EventSafetyTrip    = "SAFETY_TRIP"
	EventModeChange    = "MODE_CHANGE"
	EventActuatorError = "ACTUATOR_ERROR"
)

// ControlEvent is a single discrete occurrence in the event log.
type ControlEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}

// Control actions recorded when the loop commands relays.
const (
	ActionHeatingOn  = "heating_on"
	ActionHeatingOff = "heating_off"
	ActionPumpOff    = "pump_off"
)

// ControlAction records a relay decision together with the inputs that drove it.
type ControlAction struct {
	ID         int       `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
	Action     string    `json:"action"` // heating_on | heating_off | pump_off
	Heating    bool      `json:"heating"`
	Pump       bool      `json:"pump"`
	AvgTempC   *float64  `json:"avg_temp_c,omitempty"`
	SetpointC  float64   `json:"setpoint_c"`
}
