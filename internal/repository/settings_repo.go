package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tank_control/internal/models"
)

type SettingsSQLite struct {
	db *sql.DB
}

func NewSettingsSQLite(db *sql.DB) *SettingsSQLite { return &SettingsSQLite{db: db} }

var _ SettingsRepo = (*SettingsSQLite)(nil)

const (
	settingsRowID = 1

	upsertSettingsSQL = `
		INSERT INTO control_settings (id, params, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			params=excluded.params,
			updated_at=excluded.updated_at
	`

	selectSettingsSQL = `SELECT params FROM control_settings WHERE id=?`
)

// Save upserts the single parameters row (id always 1).
func (r *SettingsSQLite) Save(ctx context.Context, p models.ControlParameters) error {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal control parameters: %w", err)
	}
	_, err = r.db.ExecContext(ctx, upsertSettingsSQL, settingsRowID, string(b), time.Now().UTC())
	return err
}

// Load fetches the persisted parameters. found=false means no row yet.
func (r *SettingsSQLite) Load(ctx context.Context) (models.ControlParameters, bool, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, selectSettingsSQL, settingsRowID).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ControlParameters{}, false, nil
		}
		return models.ControlParameters{}, false, err
	}

	var p models.ControlParameters
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return models.ControlParameters{}, false, fmt.Errorf("unmarshal control parameters: %w", err)
	}
	return p, true, nil
}
