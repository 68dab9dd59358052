// Package config owns the runtime control parameters. The control loop
// reads a consistent snapshot each cycle; the web layer applies validated
// updates. No other component mutates parameters directly.
package config

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tank_control/internal/models"
	"tank_control/internal/repository"
)

// ErrInvalidParameter wraps every validation failure so callers can map
// them to a 400 response.
var ErrInvalidParameter = errors.New("invalid parameter")

// Accepted parameter ranges.
const (
	MinSetpointC   = 5.0
	MaxSetpointC   = 85.0
	MinHysteresisC = 0.5
	MaxHysteresisC = 10.0
	MinCeilingC    = 60.0
	MaxCeilingC    = 95.0

	MinPumpDelaySec      = 0
	MaxPumpDelaySec      = 300
	MinUpdateIntervalSec = 1
	MaxUpdateIntervalSec = 60
	MinSensorTimeoutSec  = 5
	MaxSensorTimeoutSec  = 120
)

// Store holds the validated control parameters behind a mutex and mirrors
// every accepted update to the settings repository.
type Store struct {
	mu     sync.RWMutex
	params models.ControlParameters
	repo   repository.SettingsRepo
}

// NewStore loads persisted parameters, falling back to (and persisting)
// defaults when no row exists yet.
func NewStore(ctx context.Context, repo repository.SettingsRepo) (*Store, error) {
	params, found, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load control settings: %w", err)
	}
	if !found {
		params = models.DefaultControlParameters()
		if err := repo.Save(ctx, params); err != nil {
			return nil, fmt.Errorf("persist default control settings: %w", err)
		}
	}
	return &Store{params: params, repo: repo}, nil
}

// Snapshot returns a consistent copy of the current parameters.
func (s *Store) Snapshot() models.ControlParameters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

// TemperatureSettings groups the thermostat-related parameters.
type TemperatureSettings struct {
	SetpointC       float64 `json:"setpoint_c"`
	HysteresisC     float64 `json:"hysteresis_c"`
	MaxTemperatureC float64 `json:"max_temperature_c"`
}

// SetTemperatureSettings validates and applies setpoint, hysteresis and
// the safety ceiling together.
func (s *Store) SetTemperatureSettings(ctx context.Context, t TemperatureSettings) error {
	if t.SetpointC < MinSetpointC || t.SetpointC > MaxSetpointC {
		return fmt.Errorf("%w: setpoint %.1f outside [%.1f, %.1f]", ErrInvalidParameter, t.SetpointC, MinSetpointC, MaxSetpointC)
	}
	if t.HysteresisC < MinHysteresisC || t.HysteresisC > MaxHysteresisC {
		return fmt.Errorf("%w: hysteresis %.1f outside [%.1f, %.1f]", ErrInvalidParameter, t.HysteresisC, MinHysteresisC, MaxHysteresisC)
	}
	if t.MaxTemperatureC < MinCeilingC || t.MaxTemperatureC > MaxCeilingC {
		return fmt.Errorf("%w: max temperature %.1f outside [%.1f, %.1f]", ErrInvalidParameter, t.MaxTemperatureC, MinCeilingC, MaxCeilingC)
	}

	return s.apply(ctx, func(p *models.ControlParameters) {
		p.SetpointC = t.SetpointC
		p.HysteresisC = t.HysteresisC
		p.MaxTemperatureC = t.MaxTemperatureC
	})
}

// SetPumpDelay validates and applies the pump run-on delay.
func (s *Store) SetPumpDelay(ctx context.Context, delaySec int) error {
	if delaySec < MinPumpDelaySec || delaySec > MaxPumpDelaySec {
		return fmt.Errorf("%w: pump delay %d outside [%d, %d]", ErrInvalidParameter, delaySec, MinPumpDelaySec, MaxPumpDelaySec)
	}
	return s.apply(ctx, func(p *models.ControlParameters) {
		p.PumpDelaySec = delaySec
	})
}

// SystemSettings groups loop timing, retention and the master enable flag.
type SystemSettings struct {
	UpdateIntervalSec    int  `json:"update_interval_sec"`
	SensorTimeoutSec     int  `json:"sensor_timeout_sec"`
	DataRetentionDays    int  `json:"data_retention_days"`
	HeatingSystemEnabled bool `json:"heating_system_enabled"`
}

// SetSystemSettings validates and applies the system-level parameters.
func (s *Store) SetSystemSettings(ctx context.Context, sys SystemSettings) error {
	if sys.UpdateIntervalSec < MinUpdateIntervalSec || sys.UpdateIntervalSec > MaxUpdateIntervalSec {
		return fmt.Errorf("%w: update interval %d outside [%d, %d]", ErrInvalidParameter, sys.UpdateIntervalSec, MinUpdateIntervalSec, MaxUpdateIntervalSec)
	}
	if sys.SensorTimeoutSec < MinSensorTimeoutSec || sys.SensorTimeoutSec > MaxSensorTimeoutSec {
		return fmt.Errorf("%w: sensor timeout %d outside [%d, %d]", ErrInvalidParameter, sys.SensorTimeoutSec, MinSensorTimeoutSec, MaxSensorTimeoutSec)
	}
	if sys.DataRetentionDays < 1 {
		return fmt.Errorf("%w: data retention %d must be >= 1 day", ErrInvalidParameter, sys.DataRetentionDays)
	}
	return s.apply(ctx, func(p *models.ControlParameters) {
		p.UpdateIntervalSec = sys.UpdateIntervalSec
		p.SensorTimeoutSec = sys.SensorTimeoutSec
		p.DataRetentionDays = sys.DataRetentionDays
		p.HeatingSystemEnabled = sys.HeatingSystemEnabled
	})
}

// ApplyManual sets all three manual flags atomically: either the whole
// triple is applied and persisted, or nothing changes.
func (s *Store) ApplyManual(ctx context.Context, override, heating, pump bool) error {
	return s.apply(ctx, func(p *models.ControlParameters) {
		p.ManualOverride = override
		p.ManualHeating = heating
		p.ManualPump = pump
	})
}

// apply mutates a copy of the parameters, persists it, and only then
// publishes it to readers. A failed save leaves the store untouched.
func (s *Store) apply(ctx context.Context, mutate func(*models.ControlParameters)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.params
	mutate(&next)

	if err := s.repo.Save(ctx, next); err != nil {
		return fmt.Errorf("persist control settings: %w", err)
	}
	s.params = next
	return nil
}
