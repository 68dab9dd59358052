package service

import (
	"context"
	"time"

	"tank_control/internal/config"
	"tank_control/internal/logger"
	"tank_control/internal/models"
	"tank_control/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Settings exposes validated parameter reads and updates.
type Settings interface {
	Get(ctx context.Context) models.ControlParameters
	UpdateTemperature(ctx context.Context, t config.TemperatureSettings) error
	UpdatePump(ctx context.Context, delaySec int) error
	UpdateSystem(ctx context.Context, s config.SystemSettings) error
	SetManual(ctx context.Context, override, heating, pump bool) error
}

// Monitoring exposes the latest published system state.
type Monitoring interface {
	GetState(ctx context.Context) (models.SystemState, error)
}

// History exposes persisted readings, events, actions and statistics.
type History interface {
	Temperatures(ctx context.Context, f TempFilter) ([]models.StoredReading, error)
	Events(ctx context.Context, f LogFilter) ([]models.ControlEvent, error)
	Actions(ctx context.Context, f RangeFilter) ([]models.ControlAction, error)
	Statistics(ctx context.Context, window time.Duration) (models.TemperatureStats, error)
}

// Broadcaster pushes snapshots to live consumers (the WebSocket hub).
type Broadcaster interface {
	BroadcastState(state models.SystemState)
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Settings
	Monitoring
	History

	// Recorder is the control loop's event sink; Retention prunes old rows.
	Recorder  *Recorder
	Retention *RetentionService
}

// NewService wires the repository layer, config store and broadcaster into
// concrete services.
func NewService(repos *repository.Repository, cfg *config.Store, broadcast Broadcaster, signingKey string, log *logger.Logger) *Service {
	recorder := NewRecorder(repos, broadcast, log)
	return &Service{
		Authorization: NewAuthService(repos.Auth, signingKey),
		Settings:      NewSettingsService(cfg, recorder, log),
		Monitoring:    NewMonitoringService(recorder, cfg),
		History:       NewHistoryService(repos),
		Recorder:      recorder,
		Retention:     NewRetentionService(repos, cfg, log),
	}
}
