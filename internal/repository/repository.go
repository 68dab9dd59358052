package repository

import (
	"context"
	"database/sql"
	"time"

	"tank_control/internal/models"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

// ReadingRepo stores per-cycle sensor samples.
type ReadingRepo interface {
	InsertBatch(ctx context.Context, at time.Time, readings []models.TankReading) error
	ListRange(ctx context.Context, from, to time.Time, tank int) ([]models.StoredReading, error)
	Statistics(ctx context.Context, since time.Time) (models.TemperatureStats, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// EventRepo is the append-only discrete event log.
type EventRepo interface {
	Append(ctx context.Context, e models.ControlEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.ControlEvent, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ActionRepo records relay commands issued by the control loop.
type ActionRepo interface {
	Append(ctx context.Context, a models.ControlAction) error
	List(ctx context.Context, from, to time.Time) ([]models.ControlAction, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// SettingsRepo persists the single ControlParameters row.
type SettingsRepo interface {
	Save(ctx context.Context, p models.ControlParameters) error
	Load(ctx context.Context) (models.ControlParameters, bool, error)
}

type Repository struct {
	Readings ReadingRepo
	Events   EventRepo
	Actions  ActionRepo
	Settings SettingsRepo
	Auth     Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Readings: NewReadingSQLite(db),
		Events:   NewEventSQLite(db),
		Actions:  NewActionSQLite(db),
		Settings: NewSettingsSQLite(db),
		Auth:     NewUserRepository(db),
	}
}
