package repository

import (
	"context"
	"database/sql"
	"time"

	"tank_control/internal/models"
)

type ReadingSQLite struct {
	db *sql.DB
}

func NewReadingSQLite(db *sql.DB) *ReadingSQLite { return &ReadingSQLite{db: db} }

var _ ReadingRepo = (*ReadingSQLite)(nil)

const (
	insertReadingSQL = `INSERT INTO tank_readings (sensor_id, tank, temp_c, recorded_at) VALUES (?, ?, ?, ?)`

	selectReadingsSQL = `
		SELECT id, sensor_id, tank, temp_c, recorded_at FROM tank_readings
		WHERE recorded_at >= ? AND recorded_at <= ?
	`

	selectStatsSQL = `
		SELECT COALESCE(MIN(temp_c), 0), COALESCE(MAX(temp_c), 0), COALESCE(AVG(temp_c), 0), COUNT(*)
		FROM tank_readings WHERE recorded_at >= ?
	`

	deleteReadingsSQL = `DELETE FROM tank_readings WHERE recorded_at < ?`
)

// InsertBatch stores all available readings of one cycle in a single
// transaction. Unavailable readings are skipped.
func (r *ReadingSQLite) InsertBatch(ctx context.Context, at time.Time, readings []models.TankReading) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	at = at.UTC()
	for _, rd := range readings {
		if !rd.Available {
			continue
		}
		if _, err := tx.ExecContext(ctx, insertReadingSQL, rd.SensorID, rd.Tank, rd.TemperatureC, at); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListRange returns readings in [from, to], optionally filtered by tank
// number (tank <= 0 means all tanks), ordered ASC.
func (r *ReadingSQLite) ListRange(ctx context.Context, from, to time.Time, tank int) ([]models.StoredReading, error) {
	q := selectReadingsSQL
	args := []any{from.UTC(), to.UTC()}
	if tank > 0 {
		q += " AND tank = ?"
		args = append(args, tank)
	}
	q += " ORDER BY recorded_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.StoredReading, 0, 64)
	for rows.Next() {
		var rd models.StoredReading
		if err := rows.Scan(&rd.ID, &rd.SensorID, &rd.Tank, &rd.TemperatureC, &rd.RecordedAt); err != nil {
			return nil, err
		}
		rd.RecordedAt = rd.RecordedAt.UTC()
		out = append(out, rd)
	}
	return out, rows.Err()
}

// Statistics aggregates min/max/avg/count over readings since the given time.
func (r *ReadingSQLite) Statistics(ctx context.Context, since time.Time) (models.TemperatureStats, error) {
	var st models.TemperatureStats
	row := r.db.QueryRowContext(ctx, selectStatsSQL, since.UTC())
	if err := row.Scan(&st.MinC, &st.MaxC, &st.AvgC, &st.Count); err != nil {
		return models.TemperatureStats{}, err
	}
	return st, nil
}

// DeleteBefore removes readings older than cutoff and reports how many.
func (r *ReadingSQLite) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteReadingsSQL, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
