package service

import (
	"context"
	"fmt"

	"tank_control/internal/config"
	"tank_control/internal/logger"
	"tank_control/internal/models"
)

// SettingsService fronts the config store for the web layer and records a
// MODE_CHANGE event whenever the manual override state is touched.
type SettingsService struct {
	cfg      *config.Store
	recorder *Recorder
	log      *logger.Logger
}

func NewSettingsService(cfg *config.Store, recorder *Recorder, log *logger.Logger) *SettingsService {
	return &SettingsService{cfg: cfg, recorder: recorder, log: log}
}

func (s *SettingsService) Get(ctx context.Context) models.ControlParameters {
	return s.cfg.Snapshot()
}

func (s *SettingsService) UpdateTemperature(ctx context.Context, t config.TemperatureSettings) error {
	if err := s.cfg.SetTemperatureSettings(ctx, t); err != nil {
		return err
	}
	s.log.Infow("temperature settings updated",
		"setpoint_c", t.SetpointC, "hysteresis_c", t.HysteresisC, "max_temperature_c", t.MaxTemperatureC)
	return nil
}

func (s *SettingsService) UpdatePump(ctx context.Context, delaySec int) error {
	if err := s.cfg.SetPumpDelay(ctx, delaySec); err != nil {
		return err
	}
	s.log.Infow("pump delay updated", "pump_delay_sec", delaySec)
	return nil
}

func (s *SettingsService) UpdateSystem(ctx context.Context, sys config.SystemSettings) error {
	if err := s.cfg.SetSystemSettings(ctx, sys); err != nil {
		return err
	}
	s.log.Infow("system settings updated",
		"update_interval_sec", sys.UpdateIntervalSec,
		"sensor_timeout_sec", sys.SensorTimeoutSec,
		"data_retention_days", sys.DataRetentionDays,
		"heating_system_enabled", sys.HeatingSystemEnabled)
	return nil
}

// SetManual applies the manual flags atomically and logs the mode change.
// A rejected update leaves both the store and the event log untouched.
func (s *SettingsService) SetManual(ctx context.Context, override, heating, pump bool) error {
	prev := s.cfg.Snapshot().ManualOverride
	if err := s.cfg.ApplyManual(ctx, override, heating, pump); err != nil {
		return err
	}

	mode := "automatic"
	if override {
		mode = "manual"
	}
	s.log.Infow("manual override applied", "override", override, "heating", heating, "pump", pump)
	s.recorder.PublishEvent(models.EventModeChange, fmt.Sprintf("control mode set to %s", mode), map[string]any{
		"previous_override": prev,
		"manual_override":   override,
		"manual_heating":    heating,
		"manual_pump":       pump,
	})
	return nil
}
