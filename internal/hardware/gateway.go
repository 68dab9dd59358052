// Package hardware provides access to the Unipi relays and 1-wire
// temperature sensors through the Evok API. The simulated implementation
// allows running and testing without hardware.
package hardware

import (
	"context"
	"errors"
)

// ErrSensorUnavailable is returned when a sensor cannot deliver a reading
// this cycle (missing, timed out, or transport failure).
var ErrSensorUnavailable = errors.New("sensor unavailable")

// SensorGateway reads 1-wire temperature sensors.
type SensorGateway interface {
	// Discover lists the DS18B20 sensor circuits present on the bus.
	Discover(ctx context.Context) ([]string, error)

	// ReadTemperature returns the temperature in °C for one circuit.
	// Callers bound the wait through ctx.
	ReadTemperature(ctx context.Context, circuit string) (float64, error)
}

// ActuatorGateway switches relay outputs.
type ActuatorGateway interface {
	SetRelay(ctx context.Context, circuit string, on bool) error
}
