package repository

import (
	"context"
	"database/sql"
	"time"

	"tank_control/internal/models"
)

type ActionSQLite struct {
	db *sql.DB
}

func NewActionSQLite(db *sql.DB) *ActionSQLite { return &ActionSQLite{db: db} }

var _ ActionRepo = (*ActionSQLite)(nil)

const (
	insertActionSQL = `
		INSERT INTO control_actions (occurred_at, action, heating, pump, avg_temp_c, setpoint_c)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	selectActionsSQL = `
		SELECT id, occurred_at, action, heating, pump, avg_temp_c, setpoint_c FROM control_actions
	`
)

// Append records one relay command. OccurredAt defaults to now.
func (r *ActionSQLite) Append(ctx context.Context, a models.ControlAction) error {
	if a.OccurredAt.IsZero() {
		a.OccurredAt = time.Now().UTC()
	} else {
		a.OccurredAt = a.OccurredAt.UTC()
	}

	var avg sql.NullFloat64
	if a.AvgTempC != nil {
		avg = sql.NullFloat64{Float64: *a.AvgTempC, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, insertActionSQL,
		a.OccurredAt,
		a.Action,
		a.Heating,
		a.Pump,
		avg,
		a.SetpointC,
	)
	return err
}

// List returns actions in [from, to] (zero bounds mean unbounded), ordered ASC.
func (r *ActionSQLite) List(ctx context.Context, from, to time.Time) ([]models.ControlAction, error) {
	var (
		conds []string
		args  []any
	)
	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC())
	}

	q := selectActionsSQL
	for i, c := range conds {
		if i == 0 {
			q += " WHERE " + c
		} else {
			q += " AND " + c
		}
	}
	q += " ORDER BY occurred_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.ControlAction, 0, 64)
	for rows.Next() {
		var a models.ControlAction
		var avg sql.NullFloat64
		if err := rows.Scan(&a.ID, &a.OccurredAt, &a.Action, &a.Heating, &a.Pump, &avg, &a.SetpointC); err != nil {
			return nil, err
		}
		a.OccurredAt = a.OccurredAt.UTC()
		if avg.Valid {
			v := avg.Float64
			a.AvgTempC = &v
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// DeleteBefore removes actions older than cutoff and reports how many.
func (r *ActionSQLite) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM control_actions WHERE occurred_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
