package service

import (
	"context"
	"time"

	"tank_control/internal/config"
	"tank_control/internal/models"
)

type MonitoringService struct {
	recorder *Recorder
	cfg      *config.Store
}

func NewMonitoringService(recorder *Recorder, cfg *config.Store) *MonitoringService {
	return &MonitoringService{recorder: recorder, cfg: cfg}
}

// GetState returns the latest published snapshot. Before the first control
// cycle completes it returns a baseline built from the current parameters.
func (s *MonitoringService) GetState(ctx context.Context) (models.SystemState, error) {
	if state, ok := s.recorder.Latest(); ok {
		return state, nil
	}
	return s.baselineState(), nil
}

// baselineState is the everything-off snapshot served before the loop has
// produced anything.
func (s *MonitoringService) baselineState() models.SystemState {
	p := s.cfg.Snapshot()
	return models.SystemState{
		Readings:             []models.TankReading{},
		HeatingActive:        false,
		PumpActive:           false,
		ManualOverride:       p.ManualOverride,
		HeatingSystemEnabled: p.HeatingSystemEnabled,
		SetpointC:            p.SetpointC,
		HysteresisC:          p.HysteresisC,
		UpdatedAt:            time.Now().UTC(),
	}
}
